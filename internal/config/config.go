package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// Host kinds.
const (
	HostConsole = "console"
	HostRedis   = "redis"
)

// Config is the bridge configuration. Values are layered: defaults, then the
// YAML file, then OBS_OSC_* environment variables, then command-line flags.
type Config struct {
	Listen         string        `yaml:"listen" env:"OBS_OSC_LISTEN"`
	ReadTimeout    time.Duration `yaml:"read_timeout" env:"OBS_OSC_READ_TIMEOUT"`
	RequireTrigger bool          `yaml:"require_trigger" env:"OBS_OSC_REQUIRE_TRIGGER"`

	Log    Log    `yaml:"log" envPrefix:"OBS_OSC_LOG_"`
	Status Status `yaml:"status" envPrefix:"OBS_OSC_STATUS_"`
	Host   Host   `yaml:"host" envPrefix:"OBS_OSC_HOST_"`
}

type Log struct {
	Level  string `yaml:"level" env:"LEVEL"`
	Format string `yaml:"format" env:"FORMAT"`
}

// Status configures the HTTP endpoint serving /metrics, /healthz and /state.
// An empty Addr disables it.
type Status struct {
	Addr string `yaml:"addr" env:"ADDR"`
}

type Host struct {
	Kind string `yaml:"kind" env:"KIND"`

	// Scenes and Transitions size the console host's lists.
	Scenes      int `yaml:"scenes" env:"SCENES"`
	Transitions int `yaml:"transitions" env:"TRANSITIONS"`

	Redis Redis `yaml:"redis" envPrefix:"REDIS_"`
}

type Redis struct {
	Addr     string        `yaml:"addr" env:"ADDR"`
	Password string        `yaml:"password" env:"PASSWORD"`
	DB       int           `yaml:"db" env:"DB"`
	Prefix   string        `yaml:"prefix" env:"PREFIX"`
	Timeout  time.Duration `yaml:"timeout" env:"TIMEOUT"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Listen:      ":17999",
		ReadTimeout: time.Second,
		Log: Log{
			Level:  "info",
			Format: "text",
		},
		Status: Status{
			Addr: "127.0.0.1:9464",
		},
		Host: Host{
			Kind:        HostConsole,
			Scenes:      4,
			Transitions: 2,
			Redis: Redis{
				Addr:    "127.0.0.1:6379",
				Prefix:  "obs:",
				Timeout: 500 * time.Millisecond,
			},
		},
	}
}

// Load reads path (if not empty) over the defaults and applies the process environment.
func Load(path string) (Config, error) {
	return load(path, nil)
}

// load applies environ instead of the process environment when it is not nil.
func load(path string, environ map[string]string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("failed to read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	}

	opts := env.Options{}
	if environ != nil {
		opts.Environment = environ
	}
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return cfg, fmt.Errorf("parse env: %w", err)
	}

	return cfg, nil
}

// Validate checks the configuration for values the bridge cannot run with.
func (c Config) Validate() error {
	var errs []error
	if c.Listen == "" {
		errs = append(errs, errors.New("listen address is empty"))
	}
	if c.ReadTimeout < 0 {
		errs = append(errs, fmt.Errorf("read_timeout %s is negative", c.ReadTimeout))
	}
	switch c.Host.Kind {
	case HostConsole:
		if c.Host.Scenes < 0 || c.Host.Transitions < 0 {
			errs = append(errs, fmt.Errorf("host scenes (%d) and transitions (%d) must not be negative", c.Host.Scenes, c.Host.Transitions))
		}
	case HostRedis:
		if c.Host.Redis.Addr == "" {
			errs = append(errs, errors.New("host.redis.addr is empty"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown host kind %q (want %s or %s)", c.Host.Kind, HostConsole, HostRedis))
	}
	return errors.Join(errs...)
}
