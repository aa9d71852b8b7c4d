package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/chabad360/obs-osc/internal/config"
	"github.com/chabad360/obs-osc/internal/logging"
	"github.com/chabad360/obs-osc/internal/metrics"
	"github.com/chabad360/obs-osc/internal/surface/console"
	"github.com/chabad360/obs-osc/internal/surface/redis"
	"github.com/chabad360/obs-osc/obs"
	"github.com/chabad360/obs-osc/osc"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Listen for OSC messages and drive the host",
	Long: `Starts the OSC listener. Every datagram is decoded, matched against the /obs
routes and applied to the configured host. Malformed, unknown and out-of-range
messages are logged and dropped.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, _ := cmd.Flags().GetString("config")
		cfg, err := config.Load(path)
		if err != nil {
			return err
		}
		if err := applyFlags(&cfg, cmd.Flags()); err != nil {
			return err
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}

		level, err := logging.ParseLevel(cfg.Log.Level)
		if err != nil {
			return err
		}
		logger := logging.New(os.Stderr, level, cfg.Log.Format)
		slog.SetDefault(logger)

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		return serve(ctx, cfg, logger)
	},
}

func serve(ctx context.Context, cfg config.Config, logger *slog.Logger) error {
	surface, closeSurface, err := newSurface(ctx, cfg.Host, logger)
	if err != nil {
		return err
	}
	defer closeSurface()

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	collector := metrics.NewCollector(reg)

	seq := obs.NewSequencer(surface)
	bridge := obs.NewBridge(seq,
		obs.WithLogger(logger),
		obs.WithObserver(collector),
		obs.WithRequireTrigger(cfg.RequireTrigger),
	)

	server := &osc.Server{
		Addr:        cfg.Listen,
		Handler:     bridge,
		ReadTimeout: cfg.ReadTimeout,
		Logger:      logger,
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	errc := make(chan error, 2)
	running := 1
	go func() { errc <- server.ListenAndServe(ctx) }()

	if cfg.Status.Addr != "" {
		running++
		h := metrics.NewHandler(reg, seq.State)
		go func() { errc <- metrics.Serve(ctx, cfg.Status.Addr, h, logger) }()
	}

	// The first component to stop takes the others down with it.
	var first error
	for i := 0; i < running; i++ {
		if err := <-errc; err != nil && first == nil {
			first = err
		}
		cancel()
	}

	logger.Info("obs-osc stopped")
	return first
}

func newSurface(ctx context.Context, h config.Host, logger *slog.Logger) (obs.ControlSurface, func(), error) {
	switch h.Kind {
	case config.HostRedis:
		s := redis.New(h.Redis.Addr, h.Redis.Password, h.Redis.DB,
			redis.WithPrefix(h.Redis.Prefix),
			redis.WithTimeout(h.Redis.Timeout),
		)
		if err := s.Ping(ctx); err != nil {
			// The host may come up later; every action reports its own error.
			logger.Warn("redis host unreachable", "addr", h.Redis.Addr, "err", err)
		}
		logger.Info("using redis host", "addr", h.Redis.Addr, "channel", s.Channel())
		return s, func() { s.Close() }, nil
	case config.HostConsole:
		logger.Info("using console host", "scenes", h.Scenes, "transitions", h.Transitions)
		return console.New(h.Scenes, h.Transitions, logger), func() {}, nil
	}
	return nil, nil, fmt.Errorf("unknown host kind %q", h.Kind)
}

// applyFlags overrides cfg with the flags that were set on the command line.
func applyFlags(cfg *config.Config, flags *pflag.FlagSet) error {
	var err error
	set := func(name string, apply func()) {
		if err == nil && flags.Changed(name) {
			apply()
		}
	}
	str := func(name string) string {
		v, e := flags.GetString(name)
		if e != nil {
			err = e
		}
		return v
	}
	num := func(name string) int {
		v, e := flags.GetInt(name)
		if e != nil {
			err = e
		}
		return v
	}

	set("listen", func() { cfg.Listen = str("listen") })
	set("read-timeout", func() {
		v, e := flags.GetDuration("read-timeout")
		if e != nil {
			err = e
		}
		cfg.ReadTimeout = v
	})
	set("require-trigger", func() {
		v, e := flags.GetBool("require-trigger")
		if e != nil {
			err = e
		}
		cfg.RequireTrigger = v
	})
	set("log-level", func() { cfg.Log.Level = str("log-level") })
	set("log-format", func() { cfg.Log.Format = str("log-format") })
	set("status-addr", func() { cfg.Status.Addr = str("status-addr") })
	set("host", func() { cfg.Host.Kind = str("host") })
	set("scenes", func() { cfg.Host.Scenes = num("scenes") })
	set("transitions", func() { cfg.Host.Transitions = num("transitions") })
	set("redis-addr", func() { cfg.Host.Redis.Addr = str("redis-addr") })
	set("redis-prefix", func() { cfg.Host.Redis.Prefix = str("redis-prefix") })

	return err
}

func addServeFlags(flags *pflag.FlagSet) {
	def := config.Default()
	flags.String("config", "", "Path to a YAML configuration file")
	flags.String("listen", def.Listen, "UDP address to receive OSC messages on")
	flags.Duration("read-timeout", def.ReadTimeout, "Read deadline for each datagram poll")
	flags.Bool("require-trigger", def.RequireTrigger, "Only act on messages carrying a single 1.0 argument (button press)")
	flags.String("log-level", def.Log.Level, "Log level: debug, info, warn or error")
	flags.String("log-format", def.Log.Format, "Log format: text or json")
	flags.String("status-addr", def.Status.Addr, "HTTP address for /metrics, /healthz and /state (empty disables)")
	flags.String("host", def.Host.Kind, "Host kind: console or redis")
	flags.Int("scenes", def.Host.Scenes, "Number of scenes of the console host")
	flags.Int("transitions", def.Host.Transitions, "Number of transitions of the console host")
	flags.String("redis-addr", def.Host.Redis.Addr, "Redis address of the redis host")
	flags.String("redis-prefix", def.Host.Redis.Prefix, "Key and channel prefix of the redis host")
}

func init() {
	addServeFlags(serveCmd.Flags())
	rootCmd.AddCommand(serveCmd)
}
