package app

import (
	"errors"

	"github.com/dkeye/zonebridge/internal/core"
	"github.com/dkeye/zonebridge/internal/domain"
)

var errClosed = errors.New("connection closed")

func seekPtr(v float64) *float64 { return &v }

func playingZone(id string, seek float64, outputs ...string) domain.Zone {
	z := domain.Zone{
		ZoneID:      id,
		DisplayName: "Zone " + id,
		NowPlaying:  &domain.NowPlaying{SeekPosition: seekPtr(seek)},
	}
	for _, o := range outputs {
		z.Outputs = append(z.Outputs, domain.Output{OutputID: o, ZoneID: id, DisplayName: "Output " + o})
	}
	return z
}

type fakeConn struct {
	frames []core.Frame
	closed bool
}

func (c *fakeConn) TrySend(f core.Frame) error {
	if c.closed {
		return errClosed
	}
	c.frames = append(c.frames, f)
	return nil
}

func (c *fakeConn) Close() { c.closed = true }
