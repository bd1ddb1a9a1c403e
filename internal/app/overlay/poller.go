package overlay

import (
	"context"
	"strings"
	"time"

	"github.com/dkeye/zonebridge/internal/core"
	"github.com/dkeye/zonebridge/internal/domain"
	"github.com/dkeye/zonebridge/internal/metrics"
	"github.com/rs/zerolog/log"
	"github.com/sourcegraph/conc/pool"
)

const (
	// MinRequestGap is the floor between two requests to the same feed.
	MinRequestGap = 3 * time.Second
	// RefreshSlack is added to the remaining track time before refetching.
	RefreshSlack = 2 * time.Second
)

// Poller keeps the current track of every feed and decorates zones tuned
// to one. State is owned by the event loop; fetches run on a worker pool
// and report back through the scheduler.
type Poller struct {
	// OnUpdate runs on the loop after a feed payload was refreshed or dropped.
	OnUpdate func(Feed)

	feeds   []*feedState
	fetcher Fetcher
	matcher Matcher
	sched   core.Scheduler
	enabled bool

	ctx   context.Context
	pool  *pool.Pool
	spawn func(func())
}

func NewPoller(ctx context.Context, feeds []Feed, fetcher Fetcher, matcher Matcher, sched core.Scheduler, enabled bool) *Poller {
	p := &Poller{
		fetcher: fetcher,
		matcher: matcher,
		sched:   sched,
		enabled: enabled,
		ctx:     ctx,
		pool:    pool.New().WithMaxGoroutines(len(feeds) + 1),
	}
	p.spawn = p.pool.Go
	for _, f := range feeds {
		p.feeds = append(p.feeds, &feedState{Feed: f})
	}
	return p
}

// SetSpawn replaces the worker pool used for fetches.
func (p *Poller) SetSpawn(fn func(func())) {
	p.spawn = fn
}

func (p *Poller) Enabled() bool { return p.enabled }

func (p *Poller) SetEnabled(on bool) {
	if p.enabled == on {
		return
	}
	p.enabled = on
	log.Info().Str("module", "app.overlay").Bool("enabled", on).Msg("metadata overlay toggled")
}

// Feeds lists the configured feeds.
func (p *Poller) Feeds() []Feed {
	out := make([]Feed, 0, len(p.feeds))
	for _, f := range p.feeds {
		out = append(out, f.Feed)
	}
	return out
}

// Tick starts a fetch for every feed that is due.
func (p *Poller) Tick(now time.Time) {
	if !p.enabled {
		return
	}
	for _, f := range p.feeds {
		if f.due(now) {
			p.poll(f, now)
		}
	}
}

func (p *Poller) poll(f *feedState, now time.Time) {
	f.lastRequest = now
	f.inFlight = true
	url, name := f.URL, f.Name
	log.Debug().Str("module", "app.overlay").Str("feed", name).Msg("polling feed")

	p.spawn(func() {
		track, err := p.fetcher.FetchTrack(p.ctx, url)
		metrics.OverlayFetches.WithLabelValues(name, metrics.Result(err)).Inc()
		if err == nil && track.CoverURL != "" {
			cover, ctype, cerr := p.fetcher.FetchCover(p.ctx, track.CoverURL)
			if cerr != nil {
				log.Warn().Err(cerr).Str("module", "app.overlay").Str("feed", name).Msg("cover fetch failed")
			} else {
				track.Cover, track.CoverType = cover, ctype
			}
		}
		p.sched.Post(func() { p.complete(f, now, track, err) })
	})
}

func (p *Poller) complete(f *feedState, requested time.Time, track Track, err error) {
	f.inFlight = false
	if err != nil {
		log.Warn().Err(err).Str("module", "app.overlay").Str("feed", f.Name).Msg("feed fetch failed")
		cleared := f.track != nil
		f.track = nil
		f.nextRequest = time.Time{}
		if cleared && p.OnUpdate != nil {
			p.OnUpdate(f.Feed)
		}
		return
	}
	f.track = &track
	f.nextRequest = requested.Add(track.Remaining + RefreshSlack)
	log.Debug().Str("module", "app.overlay").Str("feed", f.Name).Str("title", track.Title).Time("next", f.nextRequest).Msg("feed refreshed")
	if p.OnUpdate != nil {
		p.OnUpdate(f.Feed)
	}
}

// Tuned reports whether the zone is playing the feed's channel.
func (p *Poller) Tuned(z *domain.Zone, feed Feed) bool {
	return p.enabled && tuned(p.matcher, z.NowPlaying, feed.Channel)
}

// Apply rewrites the display lines of a tuned zone with the feed's
// current track. z must be a copy the caller owns.
func (p *Poller) Apply(z *domain.Zone) {
	if !p.enabled || z.NowPlaying == nil {
		return
	}
	for _, f := range p.feeds {
		if !tuned(p.matcher, z.NowPlaying, f.Channel) || f.track == nil {
			continue
		}
		np, t := z.NowPlaying, f.track
		np.OneLine.Line1 = t.Title + "\n" + f.Title
		np.TwoLine.Line1 = t.Title
		np.TwoLine.Line2 = t.Artist + "\n" + f.Title
		np.ThreeLine.Line1 = t.Title
		np.ThreeLine.Line2 = t.Artist
		np.ThreeLine.Line3 = t.Album + " (" + t.Year + ")\n" + f.Title

		if !strings.HasPrefix(np.ImageKey, f.ImageKeyPrefix) {
			f.upstreamKey = np.ImageKey
		}
		if t.Cover != nil {
			np.ImageKey = f.ImageKeyPrefix + t.CoverURL
		}
	}
}

// ImageHit resolves a synthetic overlay image key.
type ImageHit struct {
	UpstreamKey string
	Cover       []byte
	CoverType   string
}

// Image maps a key carrying a feed prefix back to the upstream image key
// last seen on a tuned zone, with the cached cover when there is one.
func (p *Poller) Image(key string) (ImageHit, bool) {
	for _, f := range p.feeds {
		if !strings.HasPrefix(key, f.ImageKeyPrefix) {
			continue
		}
		hit := ImageHit{UpstreamKey: f.upstreamKey}
		if f.track != nil && f.track.Cover != nil {
			hit.Cover, hit.CoverType = f.track.Cover, f.track.CoverType
		}
		return hit, true
	}
	return ImageHit{}, false
}

// Wait blocks until in-flight fetches have returned.
func (p *Poller) Wait() {
	p.pool.Wait()
}
