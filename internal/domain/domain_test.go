package domain

import (
	"encoding/json"
	"testing"
	"time"
)

func TestSleepTimerViewRoundTrip(t *testing.T) {
	at := time.UnixMilli(1_700_000_000_000)
	cases := []struct {
		name  string
		timer SleepTimer
		want  int64
	}{
		{"idle", SleepTimer{}, 0},
		{"armed", ArmSleepTimer(at, true, false), at.UnixMilli()},
		{"fired", ArmSleepTimer(at, false, true).Fired(), -at.UnixMilli()},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			v := tc.timer.View()
			if v.Time != tc.want {
				t.Fatalf("View().Time = %d, want %d", v.Time, tc.want)
			}
			back := v.Timer()
			if back.State != tc.timer.State {
				t.Fatalf("Timer().State = %v, want %v", back.State, tc.timer.State)
			}
			if back.Standby != tc.timer.Standby || back.Fadeout != tc.timer.Fadeout {
				t.Fatalf("flags = %v/%v, want %v/%v", back.Standby, back.Fadeout, tc.timer.Standby, tc.timer.Fadeout)
			}
		})
	}
}

func TestZoneCloneIsDeep(t *testing.T) {
	seek := 12.0
	z := Zone{
		ZoneID:     "z1",
		Outputs:    []Output{{OutputID: "o1", Volume: &Volume{Value: 10}}},
		NowPlaying: &NowPlaying{SeekPosition: &seek, OneLine: OneLine{Line1: "a"}},
	}
	c := z.Clone()
	c.Outputs[0].Volume.Value = 50
	c.NowPlaying.OneLine.Line1 = "b"
	*c.NowPlaying.SeekPosition = 99

	if z.Outputs[0].Volume.Value != 10 {
		t.Fatalf("volume leaked into original: %v", z.Outputs[0].Volume.Value)
	}
	if z.NowPlaying.OneLine.Line1 != "a" {
		t.Fatalf("line leaked into original: %q", z.NowPlaying.OneLine.Line1)
	}
	if *z.NowPlaying.SeekPosition != 12 {
		t.Fatalf("seek leaked into original: %v", *z.NowPlaying.SeekPosition)
	}
}

func TestBlobMarshal(t *testing.T) {
	b, err := json.Marshal(struct {
		Body Blob `json:"body"`
	}{Body: Blob{1, 2, 255}})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"body":{"type":"Buffer","data":[1,2,255]}}`
	if string(b) != want {
		t.Fatalf("marshal = %s, want %s", b, want)
	}
}
