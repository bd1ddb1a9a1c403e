package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.test.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefaults(t *testing.T) {
	cfg, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Port != 8090 || cfg.Queue.MaxItems != 500 || cfg.PingPeriod != 54*time.Second {
		t.Fatalf("cfg = %+v", cfg)
	}
	if cfg.Upstream.URL != "ws://127.0.0.1:9330/api" || cfg.Upstream.SubscribeDelay != time.Second {
		t.Fatalf("upstream = %+v", cfg.Upstream)
	}
	if !cfg.Overlay.Enabled || len(cfg.Overlay.Feeds) != 4 {
		t.Fatalf("overlay = %+v", cfg.Overlay)
	}
	if cfg.KeepAlivePeriod != 0 || cfg.CrashFile != "exception.toml" || !cfg.Advertise {
		t.Fatalf("cfg = %+v", cfg)
	}
	if cfg.Secret == "" {
		t.Fatal("secret should be generated")
	}

	feeds := cfg.Feeds()
	if feeds[1].Channel != "mellow" || feeds[1].ImageKeyPrefix != "radioparadise.mellowmix." ||
		!strings.HasSuffix(feeds[1].URL, "chan=1") || feeds[3].Title != "[RP World/Etc Mix]" {
		t.Fatalf("feeds = %+v", feeds)
	}
	if got := cfg.ExtensionID(); got != "com.bsc101.itroxs" {
		t.Fatalf("ExtensionID = %q", got)
	}
}

func TestFileAndEnv(t *testing.T) {
	path := writeConfig(t, `
port: 9000
instance: den
keep_alive_period: 10s
upstream:
  url: ws://core.local:9330/api
overlay:
  enabled: false
  feeds:
    - name: test
      channel: test
      title: "[Test]"
      url: http://feed.local/now
      image_key_prefix: test.
`)
	t.Setenv("ZONEBRIDGE_QUEUE_MAX_ITEMS", "50")

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Port != 9000 || cfg.KeepAlivePeriod != 10*time.Second || cfg.Queue.MaxItems != 50 {
		t.Fatalf("cfg = %+v", cfg)
	}
	if cfg.Upstream.URL != "ws://core.local:9330/api" || cfg.Overlay.Enabled {
		t.Fatalf("cfg = %+v", cfg)
	}
	if len(cfg.Overlay.Feeds) != 1 || cfg.Overlay.Feeds[0].ImageKeyPrefix != "test." {
		t.Fatalf("feeds = %+v", cfg.Overlay.Feeds)
	}
	if got := cfg.ExtensionID(); got != "com.bsc101.itroxs.den" {
		t.Fatalf("ExtensionID = %q", got)
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"port", "port: 70000\n"},
		{"max items", "queue:\n  max_items: 0\n"},
		{"log level", "log_level: loud\n"},
		{"feed", "overlay:\n  feeds:\n    - name: broken\n      channel: x\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := LoadFile(writeConfig(t, tc.body)); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

func TestWatch(t *testing.T) {
	path := writeConfig(t, "overlay:\n  enabled: true\n")
	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	changes := make(chan *Config, 8)
	cfg.Watch(func(next *Config) { changes <- next })

	if err := os.WriteFile(path, []byte("overlay:\n  enabled: false\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	deadline := time.After(5 * time.Second)
	for {
		select {
		case next := <-changes:
			if !next.Overlay.Enabled {
				return
			}
		case <-deadline:
			t.Fatal("config change not observed")
		}
	}
}
