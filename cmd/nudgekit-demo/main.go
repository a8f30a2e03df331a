// nudgekit-demo wires the SDK the way a host app would and replays a small
// scripted session, so the event pipeline (bus, analytics, inspector) can be
// exercised end to end without a mobile host.
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

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/NudgeKit/nudgekit-sdk/internal/analytics"
	"github.com/NudgeKit/nudgekit-sdk/internal/callback"
	"github.com/NudgeKit/nudgekit-sdk/internal/config"
	"github.com/NudgeKit/nudgekit-sdk/internal/inspector"
	"github.com/NudgeKit/nudgekit-sdk/internal/killswitch"
	"github.com/NudgeKit/nudgekit-sdk/internal/logging"
	"github.com/NudgeKit/nudgekit-sdk/internal/reloader"
	"github.com/NudgeKit/nudgekit-sdk/pkg/sdk"
)

const version = "0.3.0"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "nudgekit-demo: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var cfgPath string

	cmd := &cobra.Command{
		Use:   "nudgekit-demo",
		Short: "Run a simulated NudgeKit host session",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), cfgPath)
		},
	}
	cmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", os.Getenv("NUDGEKIT_CONFIG"), "path to YAML config")

	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the demo version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "nudgekit-demo %s\n", version)
		},
	})
	return cmd
}

func run(ctx context.Context, cfgPath string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}

	logger := logging.New(logging.Cfg{
		Level: cfg.Logging.Level,
		JSON:  cfg.Logging.JSON,
	})
	defer logger.Sync()

	flag := killswitch.New()
	tracker := analytics.New(analytics.Config{
		BaseURL:       cfg.Analytics.BaseURL,
		AppID:         cfg.App.ID,
		AppKey:        cfg.App.Key,
		FlushInterval: cfg.Analytics.FlushInterval,
		BatchSize:     cfg.Analytics.BatchSize,
	}, logger)
	defer tracker.Close()

	bus := callback.New(callback.Options{
		Analytics: tracker,
		Redirect: sdk.RedirectHandlerFunc(func(r sdk.Redirect) {
			logger.Info("redirect requested", zap.String("url", r.URL), zap.String("target", r.Target))
		}),
		Disable: flag,
		Debug:   logging.NewSink(logger),
		Log:     logger,
	})

	// A host-app style listener: print everything that happens.
	bus.RegisterListener(sdk.ListenerFunc(func(e sdk.CallbackEvent) {
		logger.Info("callback", zap.String("category", string(e.Category)),
			zap.String("action", e.Action), zap.String("method", e.Method))
	}))

	var httpSrv *http.Server
	if cfg.Inspector.Enabled {
		srv := inspector.New(logger, bus)
		addr := fmt.Sprintf("%s:%d", cfg.Inspector.Bind, cfg.Inspector.Port)
		httpSrv = &http.Server{Addr: addr, Handler: srv.Router()}
		go func() {
			logger.Info("inspector listening", zap.String("addr", addr))
			if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("inspector", zap.Error(err))
			}
		}()
	}

	stopReload := reloader.OnSIGHUP(func() {
		newCfg, err := config.Load(cfgPath)
		if err != nil {
			logger.Warn("config reload failed", zap.Error(err))
			return
		}
		cfg = newCfg
		logger.Info("reloaded config")
	})
	defer stopReload()

	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	replaySession(ctx, bus, flag, logger)

	<-ctx.Done()
	logger.Info("shutting down...")
	if httpSrv != nil {
		shutdownCtx, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel2()
		_ = httpSrv.Shutdown(shutdownCtx)
	}
	return nil
}

// replaySession emits a scripted user journey until ctx is cancelled.
func replaySession(ctx context.Context, bus *callback.Bus, flag *killswitch.Flag, logger *zap.Logger) {
	bus.DispatchInitialised(version)
	bus.DispatchUserIdentified("demo-user-42")

	go func() {
		ticker := time.NewTicker(3 * time.Second)
		defer ticker.Stop()
		step := 0
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
			if flag.Disabled() {
				logger.Warn("SDK disabled, stopping session replay")
				return
			}
			switch step % 5 {
			case 0:
				bus.DispatchExperienceOpen("cmp_spring_sale", "modal")
			case 1:
				bus.DispatchCTAClick("cmp_spring_sale", sdk.ClickTypeDeepLink, "https://example.com/offers")
			case 2:
				bus.DispatchExperienceDismiss("cmp_spring_sale", "swipe")
			case 3:
				bus.DispatchScratchCardScratched("cmp_scratch_1")
			case 4:
				bus.DispatchScratchCardRevealed("cmp_scratch_1")
			}
			step++
		}
	}()
}
