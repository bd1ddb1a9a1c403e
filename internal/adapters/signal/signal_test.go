package signal

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dkeye/zonebridge/internal/app/orch"
	"github.com/dkeye/zonebridge/internal/core"
	"github.com/go-playground/validator/v10"
	"github.com/gorilla/websocket"
)

func TestDecodeCommand(t *testing.T) {
	v := validator.New(validator.WithRequiredStructEnabled())
	cases := []struct {
		name  string
		frame string
		check func(t *testing.T, cmd orch.Command)
	}{
		{"get_image", `{"command":"get_image","image_key":"k","image_size":128,"image_tag":7}`, func(t *testing.T, cmd orch.Command) {
			c := cmd.(orch.GetImageCommand)
			if c.ImageKey != "k" || c.ImageSize != 128 || string(c.ImageTag) != "7" {
				t.Fatalf("decoded = %+v", c)
			}
		}},
		{"set_volume is absolute", `{"command":"set_volume","set_volumes":[{"output_id":"o1","value":20}]}`, func(t *testing.T, cmd orch.Command) {
			c := cmd.(orch.SetVolumesCommand)
			if !c.ForceAbsolute || len(c.Volumes) != 1 || c.Volumes[0].Value != 20 {
				t.Fatalf("decoded = %+v", c)
			}
		}},
		{"prev", `{"command":"prev","zone_id":"z1"}`, func(t *testing.T, cmd orch.Command) {
			if c := cmd.(orch.TransportCommand); c.Name != "prev" || c.ZoneID != "z1" {
				t.Fatalf("decoded = %+v", c)
			}
		}},
		{"set_timer", `{"command":"set_timer","output_id":"o1","sleep_timer":{"time":-5,"standby":true,"fadeout":false}}`, func(t *testing.T, cmd orch.Command) {
			c := cmd.(orch.SetTimerCommand)
			if c.SleepTimer == nil || c.SleepTimer.Time != -5 || !c.SleepTimer.Standby {
				t.Fatalf("decoded = %+v", c)
			}
		}},
		{"change_settings", `{"command":"change_settings","zone_id":"z1","settings_loop":{"loop":"loop_one"}}`, func(t *testing.T, cmd orch.Command) {
			c := cmd.(orch.ChangeSettingsCommand)
			if c.Loop == nil || c.Loop.Loop != "loop_one" || c.Shuffle != nil || c.Radio != nil {
				t.Fatalf("decoded = %+v", c)
			}
		}},
		{"keep_alive", `{"command":"keep_alive"}`, func(t *testing.T, cmd orch.Command) {
			if _, ok := cmd.(orch.KeepAliveCommand); !ok {
				t.Fatalf("decoded = %T", cmd)
			}
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cmd, err := decodeCommand([]byte(tc.frame), v)
			if err != nil {
				t.Fatalf("decodeCommand: %v", err)
			}
			tc.check(t, cmd)
		})
	}
}

func TestDecodeCommandErrors(t *testing.T) {
	v := validator.New(validator.WithRequiredStructEnabled())

	if _, err := decodeCommand([]byte(`{"command":"dance"}`), v); !errors.Is(err, errUnknownCommand) {
		t.Fatalf("unknown command err = %v, want errUnknownCommand", err)
	}
	for _, frame := range []string{
		`{not json`,
		`{"command":"standby"}`,
		`{"command":"set_volumes","set_volumes":[{"value":1}]}`,
		`{"command":"get_image","image_key":""}`,
		`{"command":"play_from_here","zone_id":"z","queue_item_id":"abc"}`,
	} {
		_, err := decodeCommand([]byte(frame), v)
		if err == nil || errors.Is(err, errUnknownCommand) {
			t.Fatalf("decodeCommand(%s) err = %v, want fault", frame, err)
		}
	}
}

func TestConnectLimiter(t *testing.T) {
	rl := NewConnectLimiter(2, time.Minute)
	now := time.Unix(1000, 0)
	rl.now = func() time.Time { return now }

	if !rl.Allow("a") || !rl.Allow("a") {
		t.Fatal("first two attempts refused")
	}
	if rl.Allow("a") {
		t.Fatal("third attempt allowed")
	}
	if !rl.Allow("b") {
		t.Fatal("other client refused")
	}
	now = now.Add(time.Minute + time.Second)
	if !rl.Allow("a") {
		t.Fatal("attempt after window refused")
	}
}

func TestWsSignalConnDeliversEveryFrame(t *testing.T) {
	conns := make(chan *WsSignalConn, 1)
	up := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ws, err := up.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade: %v", err)
			return
		}
		conns <- newWsSignalConn(ws)
	}))
	defer srv.Close()

	client, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer client.Close()
	conn := <-conns

	// queued well past any fixed buffer before the pump runs
	const n = 300
	for i := range n {
		if err := conn.TrySend(core.Frame(fmt.Sprintf(`{"seq":%d}`, i))); err != nil {
			t.Fatalf("TrySend #%d: %v", i, err)
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ctl := &SignalWSController{pingPeriod: time.Minute}
	go ctl.writePump(ctx, conn)

	for i := range n {
		_ = client.SetReadDeadline(time.Now().Add(2 * time.Second))
		_, data, err := client.ReadMessage()
		if err != nil {
			t.Fatalf("read #%d: %v", i, err)
		}
		if want := fmt.Sprintf(`{"seq":%d}`, i); string(data) != want {
			t.Fatalf("frame = %s, want %s", data, want)
		}
	}

	conn.Close()
	if err := conn.TrySend(core.Frame("late")); !errors.Is(err, ErrClosed) {
		t.Fatalf("TrySend after Close = %v, want ErrClosed", err)
	}
}
