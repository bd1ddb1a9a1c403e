package orch

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/dkeye/zonebridge/internal/app"
	"github.com/dkeye/zonebridge/internal/app/overlay"
	"github.com/dkeye/zonebridge/internal/core"
	"github.com/dkeye/zonebridge/internal/crash"
	"github.com/dkeye/zonebridge/internal/domain"
	"github.com/dkeye/zonebridge/internal/metrics"
	"github.com/rs/zerolog/log"
	"github.com/sourcegraph/conc/pool"
	"golang.org/x/sync/semaphore"
)

const (
	// TickInterval drives sleep timers and feed polling.
	TickInterval = time.Second
	// maxImageFetches bounds concurrent upstream image requests.
	maxImageFetches = 8
)

type Identity struct {
	ExtensionID string
	Version     string
}

type Options struct {
	Upstream  core.Upstream
	Scheduler core.Scheduler
	Hub       *app.Hub
	Identity  Identity
	Crash     *crash.Record

	MaxQueueItems  int
	KeepAlive      time.Duration
	SubscribeDelay time.Duration

	Feeds          []overlay.Feed
	Fetcher        overlay.Fetcher
	Matcher        overlay.Matcher
	OverlayEnabled bool

	// Fault stops the event loop; wired to app.Loop.Abort.
	Fault func(error)
	Now   func() time.Time
	// Spawn runs blocking fetches off the loop. Defaults to the fetch pool,
	// bounded by maxImageFetches.
	Spawn func(func())
}

// Orchestrator owns the bridge state and is driven only from the event
// loop: upstream notifications, client commands and ticks all arrive as
// posted tasks.
type Orchestrator struct {
	Upstream core.Upstream
	Zones    *app.ZoneRegistry
	Queues   *app.QueueTracker
	Detector *app.Detector
	Timers   *app.SleepTimers
	Overlay  *overlay.Poller
	Hub      *app.Hub

	ctx            context.Context
	sched          core.Scheduler
	identity       Identity
	crash          *crash.Record
	keepAlive      time.Duration
	subscribeDelay time.Duration
	fault          func(error)
	now            func() time.Time

	running atomic.Bool
	fetches *pool.Pool
	images  *semaphore.Weighted
	spawn   func(func())
}

func New(ctx context.Context, opts Options) *Orchestrator {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Hub == nil {
		opts.Hub = app.NewHub()
	}
	if opts.Matcher == nil {
		opts.Matcher = overlay.PhraseMatcher{Phrase: "radio paradise", Short: "rp "}
	}
	zones := app.NewZoneRegistry()
	queues := app.NewQueueTracker(opts.MaxQueueItems)

	o := &Orchestrator{
		Upstream: opts.Upstream,
		Zones:    zones,
		Queues:   queues,
		Detector: &app.Detector{Zones: zones, Queues: queues},
		Timers:   app.NewSleepTimers(zones, opts.Upstream, opts.Scheduler),
		Overlay:  overlay.NewPoller(ctx, opts.Feeds, opts.Fetcher, opts.Matcher, opts.Scheduler, opts.OverlayEnabled),
		Hub:      opts.Hub,

		ctx:            ctx,
		sched:          opts.Scheduler,
		identity:       opts.Identity,
		crash:          opts.Crash,
		keepAlive:      opts.KeepAlive,
		subscribeDelay: opts.SubscribeDelay,
		fault:          opts.Fault,
		now:            opts.Now,
		fetches:        pool.New(),
		images:         semaphore.NewWeighted(maxImageFetches),
	}
	o.spawn = o.goFetch
	if opts.Spawn != nil {
		o.spawn = opts.Spawn
		o.Overlay.SetSpawn(opts.Spawn)
	}
	o.Overlay.OnUpdate = o.broadcastTuned
	return o
}

// goFetch hands fn to the pool without waiting for a free slot; the
// slot is taken on the worker so the loop never blocks here.
func (o *Orchestrator) goFetch(fn func()) {
	o.fetches.Go(func() {
		if err := o.images.Acquire(o.ctx, 1); err != nil {
			return
		}
		defer o.images.Release(1)
		fn()
	})
}

// Post schedules fn on the event loop.
func (o *Orchestrator) Post(fn func()) {
	o.sched.Post(fn)
}

// Running reports whether the upstream zone subscription is live. Safe
// from any goroutine.
func (o *Orchestrator) Running() bool {
	return o.running.Load()
}

func (o *Orchestrator) Identity() Identity {
	return o.identity
}

// Fault escalates an unrecoverable client or loop error.
func (o *Orchestrator) Fault(err error) {
	log.Error().Err(err).Str("module", "orch").Msg("fault")
	if o.fault != nil {
		o.fault(err)
	}
}

// Run subscribes to zones and feeds ticks into the loop until ctx is done.
func (o *Orchestrator) Run(ctx context.Context) error {
	if o.subscribeDelay > 0 {
		select {
		case <-ctx.Done():
			return nil
		case <-time.After(o.subscribeDelay):
		}
	}
	err := o.Upstream.SubscribeZones(ctx, func(ev domain.ZonesEvent) {
		o.Post(func() { o.OnZones(ev) })
	})
	if err != nil {
		return fmt.Errorf("subscribe zones: %w", err)
	}

	tick := time.NewTicker(TickInterval)
	defer tick.Stop()
	var heartbeat <-chan time.Time
	if o.keepAlive > 0 {
		hb := time.NewTicker(o.keepAlive)
		defer hb.Stop()
		heartbeat = hb.C
	}

	for {
		select {
		case <-ctx.Done():
			o.fetches.Wait()
			o.Overlay.Wait()
			return nil
		case <-tick.C:
			o.Post(func() { o.Tick(o.now()) })
		case <-heartbeat:
			o.Post(o.heartbeat)
		}
	}
}

// Tick evaluates sleep timers, then feed polling.
func (o *Orchestrator) Tick(now time.Time) {
	o.Timers.Tick(now)
	o.Overlay.Tick(now)
}

func (o *Orchestrator) heartbeat() {
	if o.Hub.Len() == 0 {
		return
	}
	o.broadcast(cmdZonesSeekChanged, PingMessage{Command: cmdZonesSeekChanged, Timestamp: o.now().UnixMilli()})
}

// Reset forgets all upstream-derived state and closes every session.
// Used when the upstream pairing is lost.
func (o *Orchestrator) Reset() {
	o.running.Store(false)
	o.Zones.Clear()
	o.Queues.Reset()
	o.Timers.Reset()
	o.Hub.CloseAll()
	log.Warn().Str("module", "orch").Msg("bridge reset, service not running")
}

// ZonesSnapshot returns the decorated zones, computed on the event loop.
func (o *Orchestrator) ZonesSnapshot(ctx context.Context) ([]domain.Zone, error) {
	out := make(chan []domain.Zone, 1)
	o.Post(func() { out <- o.snapshot(o.now()) })
	select {
	case zones := <-out:
		return zones, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (o *Orchestrator) broadcast(command string, v any) {
	if _, err := o.Hub.Broadcast(v); err != nil {
		log.Error().Err(err).Str("module", "orch").Str("command", command).Msg("broadcast failed")
		return
	}
	metrics.Broadcasts.WithLabelValues(command).Inc()
}

func (o *Orchestrator) reply(sid core.SessionID, v any) {
	if err := o.Hub.Send(sid, v); err != nil {
		log.Warn().Err(err).Str("module", "orch").Str("sid", string(sid)).Msg("reply dropped")
	}
}
