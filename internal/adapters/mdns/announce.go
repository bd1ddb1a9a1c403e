package mdns

import (
	"context"
	"fmt"

	"github.com/grandcat/zeroconf"
	"github.com/rs/zerolog/log"
)

const (
	Service = "_zonebridge._tcp"
	Domain  = "local."
)

type Announcement struct {
	Instance string
	ID       string
	Version  string
	Port     int
}

func (a Announcement) txt() []string {
	return []string{"id=" + a.ID, "version=" + a.Version}
}

// Announce advertises the bridge on the local network until ctx is done.
func Announce(ctx context.Context, a Announcement) error {
	server, err := zeroconf.Register(a.Instance, Service, Domain, a.Port, a.txt(), nil)
	if err != nil {
		return fmt.Errorf("register %s: %w", Service, err)
	}
	log.Info().Str("module", "mdns").Str("instance", a.Instance).Int("port", a.Port).Msg("advertising")
	<-ctx.Done()
	server.Shutdown()
	log.Info().Str("module", "mdns").Msg("stopped advertising")
	return nil
}
