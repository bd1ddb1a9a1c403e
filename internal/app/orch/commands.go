package orch

import (
	"github.com/dkeye/zonebridge/internal/core"
	"github.com/dkeye/zonebridge/internal/domain"
	"github.com/dkeye/zonebridge/internal/metrics"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog/log"
)

// Command is one decoded client request. The set of variants is closed.
type Command interface {
	CommandName() string
}

type GetImageCommand struct {
	ImageKey  string          `json:"image_key" validate:"required"`
	ImageSize int             `json:"image_size" validate:"gte=0"`
	ImageTag  json.RawMessage `json:"image_tag"`
}

type VolumeChange struct {
	OutputID string  `json:"output_id" validate:"required"`
	Value    float64 `json:"value"`
	Absolute bool    `json:"absolute"`
}

// SetVolumesCommand covers set_volumes and set_volume; the latter
// treats every entry as absolute.
type SetVolumesCommand struct {
	Volumes       []VolumeChange `json:"set_volumes" validate:"required,dive"`
	ForceAbsolute bool           `json:"-"`
}

type SetTimerCommand struct {
	OutputID   string                 `json:"output_id" validate:"required"`
	SleepTimer *domain.SleepTimerView `json:"sleep_timer"`
}

type GetZoneCommand struct {
	ZoneID string `json:"zone_id" validate:"required"`
}

type GetQueueCommand struct {
	ZoneID string `json:"zone_id" validate:"required"`
}

type PlayFromHereCommand struct {
	ZoneID      string `json:"zone_id" validate:"required"`
	QueueItemID int64  `json:"queue_item_id"`
}

type KeepAliveCommand struct{}

type ChangeSettingsCommand struct {
	ZoneID  string `json:"zone_id" validate:"required"`
	Shuffle *struct {
		Shuffle bool `json:"shuffle"`
	} `json:"settings_shuffle"`
	Loop *struct {
		Loop string `json:"loop"`
	} `json:"settings_loop"`
	Radio *struct {
		AutoRadio bool `json:"auto_radio"`
	} `json:"settings_radio"`
}

// TransportCommand is play, pause, next or prev on a zone.
type TransportCommand struct {
	Name   string `json:"-"`
	ZoneID string `json:"zone_id" validate:"required"`
}

type StandbyCommand struct {
	OutputID string `json:"output_id" validate:"required"`
}

func (GetImageCommand) CommandName() string { return "get_image" }
func (c SetVolumesCommand) CommandName() string {
	if c.ForceAbsolute {
		return "set_volume"
	}
	return "set_volumes"
}
func (SetTimerCommand) CommandName() string { return "set_timer" }
func (GetZoneCommand) CommandName() string { return "get_zone" }
func (GetQueueCommand) CommandName() string { return "get_queue" }
func (PlayFromHereCommand) CommandName() string { return "play_from_here" }
func (KeepAliveCommand) CommandName() string { return "keep_alive" }
func (ChangeSettingsCommand) CommandName() string { return "change_settings" }
func (c TransportCommand) CommandName() string { return c.Name }
func (StandbyCommand) CommandName() string { return "standby" }

// transportControls maps client transport verbs to upstream controls.
var transportControls = map[string]string{
	"play":  "play",
	"pause": "pause",
	"next":  "next",
	"prev":  "previous",
}

// Dispatch routes a command from sid. Must run on the event loop.
func (o *Orchestrator) Dispatch(sid core.SessionID, cmd Command) {
	log.Debug().Str("module", "orch").Str("sid", string(sid)).Str("command", cmd.CommandName()).Msg("dispatch")

	switch c := cmd.(type) {
	case GetImageCommand:
		o.getImage(sid, c)
	case SetVolumesCommand:
		o.setVolumes(c)
	case SetTimerCommand:
		o.setTimer(c)
	case GetZoneCommand:
		o.getZone(sid, c)
	case GetQueueCommand:
		o.getQueue(sid, c)
	case PlayFromHereCommand:
		o.call("play_from_here", o.Upstream.PlayFromHere(c.ZoneID, c.QueueItemID))
	case KeepAliveCommand:
		o.reply(sid, PingMessage{Command: cmdKeepAlive, Timestamp: o.now().UnixMilli()})
	case ChangeSettingsCommand:
		o.changeSettings(c)
	case TransportCommand:
		control, ok := transportControls[c.Name]
		if !ok {
			log.Warn().Str("module", "orch").Str("command", c.Name).Msg("unknown transport command")
			return
		}
		o.call("control", o.Upstream.Control(c.ZoneID, control))
	case StandbyCommand:
		o.call("standby", o.Upstream.Standby(c.OutputID))
	default:
		log.Warn().Str("module", "orch").Str("command", cmd.CommandName()).Msg("unhandled command")
	}
}

func (o *Orchestrator) setVolumes(c SetVolumesCommand) {
	for _, v := range c.Volumes {
		switch {
		case v.Absolute || c.ForceAbsolute:
			o.call("change_volume", o.Upstream.ChangeVolume(v.OutputID, "absolute", v.Value))
		case v.Value == 1 || v.Value == -1:
			o.call("change_volume", o.Upstream.ChangeVolume(v.OutputID, "relative", v.Value))
		default:
			log.Debug().Str("module", "orch").Str("output", v.OutputID).Float64("value", v.Value).Msg("relative volume step ignored")
		}
	}
}

func (o *Orchestrator) setTimer(c SetTimerCommand) {
	if c.SleepTimer == nil {
		return
	}
	o.Timers.Set(c.OutputID, c.SleepTimer.Timer())

	now := o.now()
	zones := []domain.Zone{}
	if z, ok := o.Zones.ZoneOfOutput(c.OutputID); ok {
		zones = append(zones, o.decorate(z, now))
	}
	o.broadcast(cmdZonesChanged, ZonesChangedMessage{
		Command:   cmdZonesChanged,
		Timestamp: now.UnixMilli(),
		Zones:     zones,
	})
}

func (o *Orchestrator) getZone(sid core.SessionID, c GetZoneCommand) {
	now := o.now()
	zones := []domain.Zone{}
	if z, ok := o.Zones.Get(c.ZoneID); ok {
		zones = append(zones, o.decorate(z, now))
	}
	o.reply(sid, ZonesChangedMessage{
		Command:   cmdZonesChanged,
		Timestamp: now.UnixMilli(),
		Zones:     zones,
	})
}

func (o *Orchestrator) getQueue(sid core.SessionID, c GetQueueCommand) {
	items, ok := o.Queues.Items(c.ZoneID)
	if !ok {
		items = []domain.QueueItem{}
	}
	o.reply(sid, QueueContentMessage{
		QueueChangedMessage: QueueChangedMessage{
			Command:       cmdQueueChanged,
			Timestamp:     o.now().UnixMilli(),
			QueueZoneID:   c.ZoneID,
			MaxQueueItems: o.Queues.MaxItems(),
		},
		QueueItems: items,
	})
}

func (o *Orchestrator) changeSettings(c ChangeSettingsCommand) {
	var change core.SettingsChange
	if c.Shuffle != nil {
		change.Shuffle = &c.Shuffle.Shuffle
	}
	if c.Loop != nil {
		change.Loop = &c.Loop.Loop
	}
	if c.Radio != nil {
		change.AutoRadio = &c.Radio.AutoRadio
	}
	o.call("change_settings", o.Upstream.ChangeSettings(c.ZoneID, change))
}

// call records the outcome of a fire-and-forget upstream call.
func (o *Orchestrator) call(name string, err error) {
	metrics.UpstreamCalls.WithLabelValues(name, metrics.Result(err)).Inc()
	if err != nil {
		log.Warn().Err(err).Str("module", "orch").Str("call", name).Msg("upstream call failed")
	}
}
