package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"sgsync/core/loader"
	"sgsync/core/logger"
	"sgsync/core/middleware/auth"
	"sgsync/core/middleware/rayid"
	"sgsync/core/scheduler"
	"sgsync/feature/firewall"
	"sgsync/feature/membership"
	"sgsync/feature/security"

	"github.com/gofiber/fiber/v2"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const shutdownTimeout = 30 * time.Second

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Run the reconciler daemon",
	Long: `Registers the local node, schedules the ACL reconciliation and the
membership heartbeat, serves the admin API and, on SIGINT/SIGTERM, runs a final
stopping pass that revokes the node's own ranges before deregistering.`,
	RunE: runStart,
}

func init() {
	RootCmd.AddCommand(startCmd)
}

func runStart(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rt, err := setup(ctx)
	if err != nil {
		return err
	}
	defer rt.close()
	zap.ReplaceGlobals(rt.logger)
	logg := rt.logger

	self := rt.self()
	if err := rt.store.Register(ctx, self); err != nil {
		return err
	}
	logg.Info("Registered local member",
		zap.String("host_name", self.HostName),
		zap.String("host_ip", self.HostIP),
		zap.Bool("seed", rt.cfg.Cluster.Seed),
	)

	identity := rt.cfg.Cluster.Identity()
	sched := scheduler.New(logg)

	heartbeat := membership.NewHeartbeatTask(rt.store, self, logg)
	if err := sched.Schedule(heartbeat, scheduler.NewSimpleTimer(heartbeat.Name(), rt.cfg.Membership.HeartbeatInterval())); err != nil {
		return err
	}

	policy := security.NewIntervalPolicy(rt.cfg.Security.BaseInterval(), nil)
	reconciler := security.NewReconciler(rt.provider, rt.store, rt.cfg.Cluster, logg)
	svc := security.NewService(reconciler, policy.TimerFor(identity.Seed), identity.Seed, logg)
	svc.SetTrigger(sched)
	if err := sched.Schedule(svc, svc.Timer()); err != nil {
		return err
	}

	sched.Start(ctx)

	var app *fiber.App
	if rt.cfg.Server.Enabled {
		app = fiber.New(fiber.Config{
			DisableStartupMessage: true,
		})

		mgr := loader.NewManager()
		mgr.Register(security.NewFeature(svc))
		mgr.Register(membership.NewFeature(rt.store, rt.cfg.Cluster, logg))
		mgr.Register(firewall.NewFeature(rt.provider, rt.cfg.Cluster, logg))

		// RayID first so every log line below carries it.
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
		app.Use(auth.New(auth.Config{ApiKey: rt.cfg.Server.ApiKey}))

		if err := mgr.LoadAll(app); err != nil {
			return err
		}

		go func() {
			logg.Info("Starting server", zap.String("port", rt.cfg.Server.Port))
			if err := app.Listen(rt.cfg.Server.Address()); err != nil {
				logg.Error("Server stopped", zap.Error(err))
				stop()
			}
		}()
	}

	<-ctx.Done()
	logg.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := sched.Shutdown(shutdownCtx); err != nil {
		logg.Error("Final reconciliation failed", zap.Error(err))
	}
	if err := rt.store.Deregister(shutdownCtx, self); err != nil {
		logg.Error("Failed to deregister local member", zap.Error(err))
	}
	if app != nil {
		_ = app.ShutdownWithContext(shutdownCtx)
	}
	return nil
}
