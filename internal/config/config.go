package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/dkeye/zonebridge/internal/app/overlay"
	"github.com/fsnotify/fsnotify"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

const (
	ExtensionBase = "com.bsc101.itroxs"
	Version       = "1.0.5"
	EnvPrefix     = "ZONEBRIDGE"
)

type UpstreamConfig struct {
	URL            string        `mapstructure:"url"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	SubscribeDelay time.Duration `mapstructure:"subscribe_delay"`
}

type QueueConfig struct {
	MaxItems int `mapstructure:"max_items"`
}

type FeedConfig struct {
	Name           string `mapstructure:"name"`
	Channel        string `mapstructure:"channel"`
	Title          string `mapstructure:"title"`
	URL            string `mapstructure:"url"`
	ImageKeyPrefix string `mapstructure:"image_key_prefix"`
}

type OverlayConfig struct {
	Enabled      bool          `mapstructure:"enabled"`
	FetchTimeout time.Duration `mapstructure:"fetch_timeout"`
	Feeds        []FeedConfig  `mapstructure:"feeds"`
}

type ConnectLimitConfig struct {
	Max    int           `mapstructure:"max"`
	Window time.Duration `mapstructure:"window"`
}

type Config struct {
	Mode             string             `mapstructure:"mode"`
	Port             int                `mapstructure:"port"`
	LogLevel         string             `mapstructure:"log_level"`
	ReadLimit        int64              `mapstructure:"read_limit"`
	PingPeriod       time.Duration      `mapstructure:"ping_period"`
	Secret           string             `mapstructure:"secret"`
	Instance         string             `mapstructure:"instance"`
	KeepAlivePeriod  time.Duration      `mapstructure:"keep_alive_period"`
	CrashFile        string             `mapstructure:"crash_file"`
	Advertise        bool               `mapstructure:"advertise"`
	ConnectLimit     ConnectLimitConfig `mapstructure:"connect_limit"`
	Upstream         UpstreamConfig     `mapstructure:"upstream"`
	Queue            QueueConfig        `mapstructure:"queue"`
	Overlay          OverlayConfig      `mapstructure:"overlay"`

	v *viper.Viper
}

func defaultFeeds() []map[string]any {
	feed := func(name, channel, title string, n int) map[string]any {
		return map[string]any{
			"name":             name,
			"channel":          channel,
			"title":            title,
			"url":              fmt.Sprintf("https://api.radioparadise.com/api/now_playing?chan=%d", n),
			"image_key_prefix": "radioparadise." + name + ".",
		}
	}
	return []map[string]any{
		feed("mainmix", "main", "[RP Main Mix]", 0),
		feed("mellowmix", "mellow", "[RP Mellow Mix]", 1),
		feed("rockmix", "rock", "[RP Rock Mix]", 2),
		feed("worldmix", "world", "[RP World/Etc Mix]", 3),
	}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("mode", "release")
	v.SetDefault("port", 8090)
	v.SetDefault("log_level", "info")
	v.SetDefault("read_limit", 32768)
	v.SetDefault("ping_period", "54s")
	v.SetDefault("secret", "")
	v.SetDefault("instance", "")
	v.SetDefault("keep_alive_period", "0s")
	v.SetDefault("crash_file", "exception.toml")
	v.SetDefault("advertise", true)
	v.SetDefault("connect_limit.max", 10)
	v.SetDefault("connect_limit.window", "10s")
	v.SetDefault("upstream.url", "ws://127.0.0.1:9330/api")
	v.SetDefault("upstream.request_timeout", "10s")
	v.SetDefault("upstream.subscribe_delay", "1s")
	v.SetDefault("queue.max_items", 500)
	v.SetDefault("overlay.enabled", true)
	v.SetDefault("overlay.fetch_timeout", "10s")
	v.SetDefault("overlay.feeds", defaultFeeds())
}

// Load reads config/config.<CONFIG_ENV>.yaml, falling back to defaults
// when the file is missing.
func Load() (*Config, error) {
	env := os.Getenv("CONFIG_ENV")
	if env == "" {
		env = "dev"
	}
	return LoadFile(fmt.Sprintf("config/config.%s.yaml", env))
}

func LoadFile(fileName string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetConfigFile(fileName)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("read config %s: %w", fileName, err)
		}
		log.Warn().Str("module", "config").Str("file", fileName).Msg("config file not found, using defaults")
	} else {
		log.Info().Str("module", "config").Str("file", fileName).Msg("loaded config")
	}

	cfg, err := decode(v)
	if err != nil {
		return nil, err
	}
	log.Info().Str("module", "config").Str("mode", cfg.Mode).Int("port", cfg.Port).Str("upstream", cfg.Upstream.URL).Msg("config ready")
	return cfg, nil
}

func decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if cfg.Secret == "" {
		cfg.Secret = uuid.NewString()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.v = v
	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("port %d out of range", c.Port)
	}
	if c.Queue.MaxItems <= 0 {
		return fmt.Errorf("queue.max_items must be positive, got %d", c.Queue.MaxItems)
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("log_level: %w", err)
	}
	for i, f := range c.Overlay.Feeds {
		if f.URL == "" || f.Channel == "" || f.ImageKeyPrefix == "" {
			return fmt.Errorf("overlay.feeds[%d] (%s) needs url, channel and image_key_prefix", i, f.Name)
		}
	}
	return nil
}

// Level is the parsed log_level; Validate has already accepted it.
func (c *Config) Level() zerolog.Level {
	lvl, _ := zerolog.ParseLevel(c.LogLevel)
	return lvl
}

// ExtensionID identifies this bridge instance to clients and on the LAN.
func (c *Config) ExtensionID() string {
	if c.Instance == "" {
		return ExtensionBase
	}
	return ExtensionBase + "." + c.Instance
}

func (c *Config) Feeds() []overlay.Feed {
	feeds := make([]overlay.Feed, 0, len(c.Overlay.Feeds))
	for _, f := range c.Overlay.Feeds {
		feeds = append(feeds, overlay.Feed{
			Name:           f.Name,
			Channel:        f.Channel,
			Title:          f.Title,
			URL:            f.URL,
			ImageKeyPrefix: f.ImageKeyPrefix,
		})
	}
	return feeds
}

// Watch calls fn with the re-read config after every change to the
// config file. Invalid edits are logged and skipped.
func (c *Config) Watch(fn func(*Config)) {
	if c.v == nil {
		return
	}
	c.v.OnConfigChange(func(e fsnotify.Event) {
		next, err := decode(c.v)
		if err != nil {
			log.Warn().Err(err).Str("module", "config").Str("file", e.Name).Msg("ignoring invalid config change")
			return
		}
		if next.Port != c.Port {
			log.Info().Str("module", "config").Int("port", next.Port).Msg("port change applies on restart")
		}
		log.Info().Str("module", "config").Str("file", e.Name).Msg("config reloaded")
		fn(next)
	})
	c.v.WatchConfig()
}
