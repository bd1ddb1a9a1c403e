package app

import (
	"testing"
	"time"

	"github.com/dkeye/zonebridge/internal/domain"
)

func TestZoneRegistryKeepsInsertionOrder(t *testing.T) {
	r := NewZoneRegistry()
	r.Reset([]domain.Zone{playingZone("b", 0), playingZone("a", 0)})
	r.Add(playingZone("c", 0))
	r.Add(playingZone("a", 5))

	got := r.IDs()
	want := []string{"b", "a", "c"}
	if len(got) != len(want) {
		t.Fatalf("IDs() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("IDs() = %v, want %v", got, want)
		}
	}
	if z, _ := r.Get("a"); z.NowPlaying.Seek() != 5 {
		t.Fatalf("snapshot not replaced: seek = %v", z.NowPlaying.Seek())
	}

	r.Remove("b")
	if got := r.IDs(); len(got) != 2 || got[0] != "a" {
		t.Fatalf("IDs() after remove = %v", got)
	}
}

func TestZoneRegistryReplaceIgnoresUnknown(t *testing.T) {
	r := NewZoneRegistry()
	if r.Replace(playingZone("x", 0)) {
		t.Fatal("Replace() on unknown zone = true, want false")
	}
	if r.Len() != 0 {
		t.Fatalf("Len() = %d, want 0", r.Len())
	}
}

func TestZoneRegistryZoneOfOutput(t *testing.T) {
	r := NewZoneRegistry()
	r.Reset([]domain.Zone{playingZone("z1", 0, "o1"), playingZone("z2", 0, "o2", "o3")})

	z, ok := r.ZoneOfOutput("o3")
	if !ok || z.ZoneID != "z2" {
		t.Fatalf("ZoneOfOutput(o3) = %v, %v", z, ok)
	}
	if _, ok := r.ZoneOfOutput("nope"); ok {
		t.Fatal("ZoneOfOutput(nope) found a zone")
	}
}

func TestZoneRegistrySamples(t *testing.T) {
	r := NewZoneRegistry()
	idle := domain.Zone{ZoneID: "idle"}
	r.Reset([]domain.Zone{playingZone("z1", 10), idle})
	now := time.Unix(1000, 0)
	r.RefreshSamples(now)

	s, ok := r.Sample("z1")
	if !ok || s.SeekPosition != 10 || !s.At.Equal(now) {
		t.Fatalf("Sample(z1) = %+v, %v", s, ok)
	}
	if _, ok := r.Sample("idle"); ok {
		t.Fatal("idle zone got a sample")
	}

	r.ApplySeek(domain.SeekUpdate{ZoneID: "z1", SeekPosition: seekPtr(42), QueueTimeRemaining: 300})
	z, _ := r.Get("z1")
	if z.NowPlaying.Seek() != 42 || z.QueueTimeRemaining != 300 {
		t.Fatalf("ApplySeek not folded in: seek=%v qtr=%d", z.NowPlaying.Seek(), z.QueueTimeRemaining)
	}
}
