package cmd

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"stock-sync/core/loader"
	"stock-sync/core/logger"
	"stock-sync/core/middleware/auth"
	"stock-sync/core/middleware/rayid"
	"stock-sync/feature/cycle"
	"stock-sync/feature/history"

	"github.com/gofiber/fiber/v2"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Run the scheduler and the HTTP API",
	Long: `Runs a cycle immediately and then every SYNC_INTERVAL seconds, and serves
the status, trigger, history and metrics API until interrupted.`,
	RunE: runStart,
}

func init() {
	RootCmd.AddCommand(startCmd)
}

func runStart(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rt, err := bootstrap(ctx, true, nil)
	if err != nil {
		return err
	}
	defer rt.Close()
	zap.ReplaceGlobals(rt.logger)
	logg := rt.logger

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		cycle.NewScheduler(rt.cycles, rt.cfg.Sync.IntervalDuration(), logg).Start(ctx)
	}()

	var app *fiber.App
	if rt.cfg.Server.Enabled {
		app = fiber.New(fiber.Config{
			DisableStartupMessage: true,
		})

		// RayID first so every later log line carries it.
		app.Use(rayid.New())
		app.Use(func(c *fiber.Ctx) error {
			l := logger.WithRayID(logg, c)
			l.Debug("Request started",
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.String("ip", c.IP()),
			)
			err := c.Next()
			if err != nil {
				l.Error("Request error", zap.Error(err))
			}
			return err
		})
		app.Use(auth.New(auth.Config{
			ApiKey: rt.cfg.Server.ApiKey,
			Public: []string{"/health", "/metrics"},
		}))

		mgr := loader.NewManager(logg)
		mgr.Register(cycle.NewFeature(ctx, rt.cycles, rt.metrics))
		mgr.Register(history.NewFeature(rt.history))
		if err := mgr.LoadAll(app); err != nil {
			return err
		}

		go func() {
			logg.Info("Starting server", zap.String("addr", rt.cfg.Server.Addr()))
			if err := app.Listen(rt.cfg.Server.Addr()); err != nil {
				logg.Error("Server stopped", zap.Error(err))
				stop()
			}
		}()
	}

	<-ctx.Done()
	logg.Info("Shutting down...")
	if app != nil {
		_ = app.Shutdown()
	}
	// Backends close when this returns; cycles still finishing need them.
	wg.Wait()
	rt.cycles.Wait()
	return nil
}
