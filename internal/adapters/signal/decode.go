package signal

import (
	"errors"
	"fmt"

	"github.com/dkeye/zonebridge/internal/app/orch"
	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"
)

var errUnknownCommand = errors.New("unknown command")

type envelope struct {
	Command string `json:"command"`
}

func decodeCommand(data []byte, v *validator.Validate) (orch.Command, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("bad json: %w", err)
	}

	switch env.Command {
	case "get_image":
		return decodeAs[orch.GetImageCommand](data, v)
	case "set_volumes":
		return decodeAs[orch.SetVolumesCommand](data, v)
	case "set_volume":
		c, err := decodeAs[orch.SetVolumesCommand](data, v)
		if err != nil {
			return nil, err
		}
		c.ForceAbsolute = true
		return c, nil
	case "set_timer":
		return decodeAs[orch.SetTimerCommand](data, v)
	case "get_zone":
		return decodeAs[orch.GetZoneCommand](data, v)
	case "get_queue":
		return decodeAs[orch.GetQueueCommand](data, v)
	case "play_from_here":
		return decodeAs[orch.PlayFromHereCommand](data, v)
	case "keep_alive":
		return orch.KeepAliveCommand{}, nil
	case "change_settings":
		return decodeAs[orch.ChangeSettingsCommand](data, v)
	case "play", "pause", "next", "prev":
		c, err := decodeAs[orch.TransportCommand](data, v)
		if err != nil {
			return nil, err
		}
		c.Name = env.Command
		return c, nil
	case "standby":
		return decodeAs[orch.StandbyCommand](data, v)
	default:
		return nil, fmt.Errorf("%w %q", errUnknownCommand, env.Command)
	}
}

func decodeAs[T orch.Command](data []byte, v *validator.Validate) (T, error) {
	var c T
	if err := json.Unmarshal(data, &c); err != nil {
		return c, fmt.Errorf("decode %s: %w", c.CommandName(), err)
	}
	if err := v.Struct(c); err != nil {
		return c, fmt.Errorf("invalid %s: %w", c.CommandName(), err)
	}
	return c, nil
}
