package domain

import "time"

type SleepTimerState int

const (
	SleepTimerIdle SleepTimerState = iota
	SleepTimerArmed
	SleepTimerFired
)

func (s SleepTimerState) String() string {
	switch s {
	case SleepTimerArmed:
		return "armed"
	case SleepTimerFired:
		return "fired"
	default:
		return "idle"
	}
}

// SleepTimer is the per-output pause schedule. At holds the armed
// expiry, and keeps the original expiry once the timer has fired.
type SleepTimer struct {
	State   SleepTimerState
	At      time.Time
	Standby bool
	Fadeout bool
}

func ArmSleepTimer(at time.Time, standby, fadeout bool) SleepTimer {
	return SleepTimer{State: SleepTimerArmed, At: at, Standby: standby, Fadeout: fadeout}
}

func (t SleepTimer) Fired() SleepTimer {
	t.State = SleepTimerFired
	return t
}

// SleepTimerView is the client wire form: time is epoch milliseconds,
// zero when idle and negated once fired.
type SleepTimerView struct {
	Time    int64 `json:"time"`
	Standby bool  `json:"standby"`
	Fadeout bool  `json:"fadeout"`
}

func (t SleepTimer) View() SleepTimerView {
	v := SleepTimerView{Standby: t.Standby, Fadeout: t.Fadeout}
	switch t.State {
	case SleepTimerArmed:
		v.Time = t.At.UnixMilli()
	case SleepTimerFired:
		v.Time = -t.At.UnixMilli()
	}
	return v
}

func (v SleepTimerView) Timer() SleepTimer {
	t := SleepTimer{Standby: v.Standby, Fadeout: v.Fadeout}
	switch {
	case v.Time > 0:
		t.State = SleepTimerArmed
		t.At = time.UnixMilli(v.Time)
	case v.Time < 0:
		t.State = SleepTimerFired
		t.At = time.UnixMilli(-v.Time)
	}
	return t
}
