package app

import (
	"testing"
	"time"

	"github.com/dkeye/zonebridge/internal/app/apptest"
	"github.com/dkeye/zonebridge/internal/core/mocks"
	"github.com/dkeye/zonebridge/internal/domain"
	"go.uber.org/mock/gomock"
)

type timerRig struct {
	timers *SleepTimers
	zones  *ZoneRegistry
	ctl    *mocks.MockController
	sched  *apptest.ManualScheduler
}

func newTimerRig(t *testing.T, zones ...domain.Zone) *timerRig {
	t.Helper()
	ctrl := gomock.NewController(t)
	reg := NewZoneRegistry()
	reg.Reset(zones)
	ctl := mocks.NewMockController(ctrl)
	sched := apptest.NewManualScheduler(time.UnixMilli(1_700_000_000_000))
	return &timerRig{
		timers: NewSleepTimers(reg, ctl, sched),
		zones:  reg,
		ctl:    ctl,
		sched:  sched,
	}
}

func TestSleepTimerPauseAndStandby(t *testing.T) {
	rig := newTimerRig(t, playingZone("z1", 0, "o1", "o2"))
	now := rig.sched.Now()
	rig.timers.Set("o1", domain.ArmSleepTimer(now.Add(time.Second), true, false))

	if fired := rig.timers.Tick(now.Add(500 * time.Millisecond)); len(fired) != 0 {
		t.Fatalf("fired early: %v", fired)
	}

	gomock.InOrder(
		rig.ctl.EXPECT().Control("z1", "pause").Return(nil),
		rig.ctl.EXPECT().Standby("o1").Return(nil),
		rig.ctl.EXPECT().Standby("o2").Return(nil),
	)

	rig.sched.Advance(1100 * time.Millisecond)
	fired := rig.timers.Tick(rig.sched.Now())
	if len(fired) != 1 || fired[0] != "o1" {
		t.Fatalf("fired = %v, want [o1]", fired)
	}
	if got := rig.timers.Get("o1").View().Time; got != -now.Add(time.Second).UnixMilli() {
		t.Fatalf("fired view time = %d, want negated expiry", got)
	}
	rig.sched.Advance(StopDelay)

	if fired := rig.timers.Tick(rig.sched.Now()); len(fired) != 0 {
		t.Fatalf("fired twice: %v", fired)
	}
}

func TestSleepTimerFadeout(t *testing.T) {
	rig := newTimerRig(t, playingZone("z1", 0, "o1", "o2"))
	now := rig.sched.Now()
	rig.timers.Set("o1", domain.ArmSleepTimer(now, false, true))

	rig.ctl.EXPECT().ChangeVolume("o1", "relative", float64(-1)).Return(nil).Times(FadeSteps - 1)
	rig.ctl.EXPECT().ChangeVolume("o2", "relative", float64(-1)).Return(nil).Times(FadeSteps - 1)
	rig.ctl.EXPECT().Control("z1", "pause").Return(nil)

	rig.timers.Tick(now)
	rig.sched.Advance(FadeSteps*FadeStepInterval + StopDelay)

	if rig.sched.Pending() != 0 {
		t.Fatalf("pending timers = %d, want 0", rig.sched.Pending())
	}
}

func TestSleepTimerCancelDuringFade(t *testing.T) {
	rig := newTimerRig(t, playingZone("z1", 0, "o1"))
	now := rig.sched.Now()
	rig.timers.Set("o1", domain.ArmSleepTimer(now, false, true))

	// Steps 1..5 run within the first two seconds.
	rig.ctl.EXPECT().ChangeVolume("o1", "relative", float64(-1)).Return(nil).Times(5)

	rig.timers.Tick(now)
	rig.sched.Advance(2 * time.Second)
	rig.timers.Set("o1", domain.SleepTimer{})
	rig.sched.Advance(time.Minute)
}

func TestSleepTimerCancelBeforePause(t *testing.T) {
	rig := newTimerRig(t, playingZone("z1", 0, "o1"))
	now := rig.sched.Now()
	rig.timers.Set("o1", domain.ArmSleepTimer(now, true, false))

	rig.timers.Tick(now)
	rig.timers.Set("o1", domain.SleepTimer{})
	rig.sched.Advance(time.Second)
}

func TestSleepTimerGraceWindow(t *testing.T) {
	rig := newTimerRig(t, playingZone("z1", 0, "o1"))
	now := rig.sched.Now()
	rig.timers.Set("o1", domain.ArmSleepTimer(now.Add(-SleepTimerGrace), false, false))

	if fired := rig.timers.Tick(now); len(fired) != 0 {
		t.Fatalf("stale timer fired: %v", fired)
	}
	if rig.timers.Get("o1").State != domain.SleepTimerArmed {
		t.Fatal("stale timer changed state")
	}
}

func TestSleepTimerOutputLeftZone(t *testing.T) {
	rig := newTimerRig(t, playingZone("z1", 0, "o1"))
	now := rig.sched.Now()
	rig.timers.Set("o1", domain.ArmSleepTimer(now, false, false))

	rig.timers.Tick(now)
	rig.zones.Remove("z1")
	rig.sched.Advance(time.Second)
}

func TestSleepTimerDecorate(t *testing.T) {
	rig := newTimerRig(t)
	at := time.UnixMilli(1_800_000_000_000)
	rig.timers.Set("o1", domain.ArmSleepTimer(at, true, true))

	z := playingZone("z1", 0, "o1", "o2")
	rig.timers.Decorate(&z)

	if got := z.Outputs[0].SleepTimer; got == nil || got.Time != at.UnixMilli() || !got.Standby || !got.Fadeout {
		t.Fatalf("o1 view = %+v", got)
	}
	if got := z.Outputs[1].SleepTimer; got == nil || got.Time != 0 || got.Standby || got.Fadeout {
		t.Fatalf("o2 view = %+v, want idle", got)
	}
}
