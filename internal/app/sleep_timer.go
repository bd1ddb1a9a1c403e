package app

import (
	"time"

	"github.com/dkeye/zonebridge/internal/core"
	"github.com/dkeye/zonebridge/internal/domain"
	"github.com/dkeye/zonebridge/internal/metrics"
	"github.com/rs/zerolog/log"
)

const (
	// SleepTimerGrace bounds how late an expiry may still fire.
	SleepTimerGrace  = 5 * time.Second
	FadeSteps        = 75
	FadeStepInterval = 400 * time.Millisecond
	StopDelay        = 100 * time.Millisecond
)

// SleepTimers keeps one sleep timer per output and runs the
// fade/pause/standby sequence when one expires. Owned by the event loop.
type SleepTimers struct {
	timers map[string]domain.SleepTimer
	zones  *ZoneRegistry
	ctl    core.Controller
	sched  core.Scheduler
}

func NewSleepTimers(zones *ZoneRegistry, ctl core.Controller, sched core.Scheduler) *SleepTimers {
	return &SleepTimers{
		timers: make(map[string]domain.SleepTimer),
		zones:  zones,
		ctl:    ctl,
		sched:  sched,
	}
}

func (s *SleepTimers) Set(outputID string, t domain.SleepTimer) {
	s.timers[outputID] = t
	log.Info().Str("module", "app.timers").Str("output", outputID).Stringer("state", t.State).Time("at", t.At).Msg("sleep timer set")
}

func (s *SleepTimers) Get(outputID string) domain.SleepTimer {
	return s.timers[outputID]
}

// Decorate attaches the timer view to every output of z.
func (s *SleepTimers) Decorate(z *domain.Zone) {
	for i := range z.Outputs {
		v := s.timers[z.Outputs[i].OutputID].View()
		z.Outputs[i].SleepTimer = &v
	}
}

// Tick fires every armed timer whose expiry lies within the grace window.
// Returns the outputs that fired.
func (s *SleepTimers) Tick(now time.Time) []string {
	var fired []string
	for _, z := range s.zones.Zones() {
		for _, o := range z.Outputs {
			t, ok := s.timers[o.OutputID]
			if !ok || t.State != domain.SleepTimerArmed {
				continue
			}
			if now.Before(t.At) || now.Sub(t.At) >= SleepTimerGrace {
				continue
			}
			s.timers[o.OutputID] = t.Fired()
			fired = append(fired, o.OutputID)
			metrics.SleepTimersFired.Inc()
			log.Info().Str("module", "app.timers").Str("output", o.OutputID).Bool("fadeout", t.Fadeout).Bool("standby", t.Standby).Msg("sleep timer fired")
			s.step(o.OutputID, t.Standby, t.Fadeout, 0)
		}
	}
	return fired
}

func (s *SleepTimers) Reset() {
	s.timers = make(map[string]domain.SleepTimer)
}

// step runs one stage of the sequence; it stops as soon as the timer is
// reset to idle or the output left every known zone.
func (s *SleepTimers) step(outputID string, standby, fadeout bool, n int) {
	if s.Get(outputID).State == domain.SleepTimerIdle {
		log.Info().Str("module", "app.timers").Str("output", outputID).Int("step", n).Msg("sleep sequence cancelled")
		return
	}
	z, ok := s.zones.ZoneOfOutput(outputID)
	if !ok {
		log.Warn().Str("module", "app.timers").Str("output", outputID).Msg("output not in any zone, sleep sequence skipped")
		return
	}

	if fadeout && n < FadeSteps {
		if n > 0 {
			for _, o := range z.Outputs {
				if err := s.ctl.ChangeVolume(o.OutputID, "relative", -1); err != nil {
					log.Warn().Err(err).Str("module", "app.timers").Str("output", o.OutputID).Msg("fade step failed")
				}
			}
		}
		s.sched.AfterFunc(FadeStepInterval, func() { s.step(outputID, standby, fadeout, n+1) })
		return
	}

	s.sched.AfterFunc(StopDelay, func() { s.stop(outputID, standby) })
}

func (s *SleepTimers) stop(outputID string, standby bool) {
	if s.Get(outputID).State == domain.SleepTimerIdle {
		log.Info().Str("module", "app.timers").Str("output", outputID).Msg("sleep sequence cancelled before pause")
		return
	}
	z, ok := s.zones.ZoneOfOutput(outputID)
	if !ok {
		log.Warn().Str("module", "app.timers").Str("output", outputID).Msg("output not in any zone, pause skipped")
		return
	}
	if err := s.ctl.Control(z.ZoneID, "pause"); err != nil {
		log.Warn().Err(err).Str("module", "app.timers").Str("zone", z.ZoneID).Msg("pause failed")
	}
	if !standby {
		return
	}
	for _, o := range z.Outputs {
		if err := s.ctl.Standby(o.OutputID); err != nil {
			log.Warn().Err(err).Str("module", "app.timers").Str("output", o.OutputID).Msg("standby failed")
		}
	}
}
