package mdns

import (
	"slices"
	"testing"
)

func TestAnnouncementTXT(t *testing.T) {
	a := Announcement{Instance: "living", ID: "com.bsc101.itroxs.living", Version: "1.0.5", Port: 8090}
	got := a.txt()
	want := []string{"id=com.bsc101.itroxs.living", "version=1.0.5"}
	if !slices.Equal(got, want) {
		t.Fatalf("txt = %v, want %v", got, want)
	}
}
