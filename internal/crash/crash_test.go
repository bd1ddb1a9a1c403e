package crash

import (
	"path/filepath"
	"testing"
	"time"
)

func TestStoreRoundTrip(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), "state", "exception.toml"))

	rec, err := s.Load()
	if err != nil || rec != nil {
		t.Fatalf("Load() on empty store = %v, %v", rec, err)
	}

	want := NewRecord(time.UnixMilli(1_700_000_000_123), "goroutine 1 [running]:\nmain.main()")
	if err := s.Save(want); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := s.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got == nil || *got != want {
		t.Fatalf("Load() = %+v, want %+v", got, want)
	}
}
