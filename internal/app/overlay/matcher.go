package overlay

import (
	"strings"

	"github.com/dkeye/zonebridge/internal/domain"
)

// Matcher decides whether a display line names a feed channel.
type Matcher interface {
	Match(line, channel string) bool
}

// PhraseMatcher matches a line mentioning both Phrase and the channel,
// or containing Short followed by the channel. Case-insensitive.
type PhraseMatcher struct {
	Phrase string
	Short  string
}

func (m PhraseMatcher) Match(line, channel string) bool {
	if line == "" {
		return false
	}
	l := strings.ToLower(line)
	ch := strings.ToLower(channel)
	if strings.Contains(l, m.Phrase) && strings.Contains(l, ch) {
		return true
	}
	return strings.Contains(l, m.Short+ch)
}

func tuned(m Matcher, np *domain.NowPlaying, channel string) bool {
	if np == nil {
		return false
	}
	for _, line := range np.DisplayLines() {
		if m.Match(line, channel) {
			return true
		}
	}
	return false
}
