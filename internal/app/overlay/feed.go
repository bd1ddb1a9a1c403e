package overlay

import "time"

// Feed is one external now-playing source and the zones it decorates.
type Feed struct {
	Name           string
	Channel        string
	Title          string
	URL            string
	ImageKeyPrefix string
}

// Track is the latest payload fetched for a feed.
type Track struct {
	Title     string
	Artist    string
	Album     string
	Year      string
	Remaining time.Duration
	CoverURL  string
	Cover     []byte
	CoverType string
}

type feedState struct {
	Feed

	track       *Track
	upstreamKey string
	lastRequest time.Time
	nextRequest time.Time
	inFlight    bool
}

// due reports whether the feed should be fetched at now.
func (f *feedState) due(now time.Time) bool {
	if f.inFlight {
		return false
	}
	if f.lastRequest.IsZero() {
		return f.track == nil
	}
	return !now.Before(f.nextRequest) && !now.Before(f.lastRequest.Add(MinRequestGap))
}
