package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	router "github.com/dkeye/zonebridge/internal/adapters/http"
	"github.com/dkeye/zonebridge/internal/adapters/mdns"
	"github.com/dkeye/zonebridge/internal/adapters/upstream"
	"github.com/dkeye/zonebridge/internal/app"
	"github.com/dkeye/zonebridge/internal/app/orch"
	"github.com/dkeye/zonebridge/internal/app/overlay"
	"github.com/dkeye/zonebridge/internal/config"
	"github.com/dkeye/zonebridge/internal/crash"
	"github.com/dkeye/zonebridge/internal/metrics"
)

const (
	exitFault = 1
	// exitDisconnected asks the supervisor to restart us after a delay.
	exitDisconnected = 100
	loopBacklog      = 1024
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Initialize zerolog global logger early so config.Load can use it.
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	cfg, err := config.Load()
	if err != nil {
		log.Error().Err(err).Msg("failed to load config")
		return exitFault
	}
	zerolog.SetGlobalLevel(cfg.Level())
	metrics.Register()

	crashes := crash.NewStore(cfg.CrashFile)
	lastCrash, err := crashes.Load()
	if err != nil {
		log.Warn().Err(err).Str("module", "crash").Msg("ignoring unreadable crash record")
	}

	client, err := upstream.Dial(ctx, cfg.Upstream.URL, cfg.Upstream.RequestTimeout)
	if err != nil {
		log.Error().Err(err).Msg("upstream unavailable")
		return exitDisconnected
	}

	loop := app.NewLoop(loopBacklog)
	o := orch.New(ctx, orch.Options{
		Upstream:       client,
		Scheduler:      loop,
		Hub:            app.NewHub(),
		Identity:       orch.Identity{ExtensionID: cfg.ExtensionID(), Version: config.Version},
		Crash:          lastCrash,
		MaxQueueItems:  cfg.Queue.MaxItems,
		KeepAlive:      cfg.KeepAlivePeriod,
		SubscribeDelay: cfg.Upstream.SubscribeDelay,
		Feeds:          cfg.Feeds(),
		Fetcher:        overlay.NewHTTPFetcher(cfg.Overlay.FetchTimeout, "zonebridge/"+config.Version),
		OverlayEnabled: cfg.Overlay.Enabled,
		Fault:          loop.Abort,
	})

	cfg.Watch(func(next *config.Config) {
		o.Post(func() { o.Overlay.SetEnabled(next.Overlay.Enabled) })
	})

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: router.SetupRouter(ctx, cfg, o),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return loop.Run(gctx) })
	g.Go(func() error { return client.Run(gctx) })
	g.Go(func() error { return o.Run(gctx) })
	g.Go(func() error {
		log.Info().Str("addr", addr).Str("extension_id", cfg.ExtensionID()).Msg("zonebridge started")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("Server forced to shutdown")
		}
		return nil
	})
	if cfg.Advertise {
		instance := "zonebridge"
		if cfg.Instance != "" {
			instance += "-" + cfg.Instance
		}
		g.Go(func() error {
			err := mdns.Announce(gctx, mdns.Announcement{
				Instance: instance,
				ID:       cfg.ExtensionID(),
				Version:  config.Version,
				Port:     cfg.Port,
			})
			if err != nil {
				log.Warn().Err(err).Str("module", "mdns").Msg("advertisement disabled")
			}
			return nil
		})
	}

	err = g.Wait()
	var fault *app.FaultError
	switch {
	case err == nil:
		log.Info().Msg("Server exited gracefully")
		return 0
	case errors.As(err, &fault):
		rec := crash.NewRecord(time.Now(), fmt.Sprintf("%v\n%s", fault.Value, fault.Stack))
		if serr := crashes.Save(rec); serr != nil {
			log.Error().Err(serr).Str("module", "crash").Msg("crash record not saved")
		}
		log.Error().Err(err).Msg("exiting after fault")
		return exitFault
	case errors.Is(err, upstream.ErrDisconnected):
		// The loop has stopped, so the state can be torn down directly.
		o.Reset()
		log.Warn().Err(err).Msg("exiting after upstream disconnect")
		return exitDisconnected
	default:
		log.Error().Err(err).Msg("exiting")
		return exitFault
	}
}
