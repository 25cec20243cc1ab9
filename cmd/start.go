package cmd

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"schema-compare/core/loader"
	"schema-compare/core/logger"
	"schema-compare/core/middleware/auth"
	"schema-compare/core/middleware/rayid"
	compareFeature "schema-compare/feature/compare"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	_ "schema-compare/docs/swagger"
)

// @title Schema Compare API
// @version 1.0
// @description Compares table structures across databases, search indexes and Go structs.
// @host localhost:8080
// @BasePath /

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the schema-compare server",
	Long:  `Starts the HTTP server, loads the compare tasks and, when enabled, runs every task once at startup.`,
	Run: func(cmd *cobra.Command, args []string) {
		a, err := bootstrap(cmd.Context())
		if err != nil {
			log.Fatalf("Failed to start: %v", err)
		}
		defer a.close()
		logg := a.logger
		zap.ReplaceGlobals(logg)

		app := fiber.New(fiber.Config{
			DisableStartupMessage: true,
		})

		mgr := loader.NewManager()
		mgr.Register(compareFeature.NewFeature(a.service))

		// RayID first so every later log line carries it
		app.Use(rayid.New())

		app.Use(func(c *fiber.Ctx) error {
			l := logger.WithRayID(logg, c)
			l.Info("Request started",
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

		// Swagger stays public
		app.Get("/swagger/*", swagger.HandlerDefault)

		app.Use(auth.New(auth.Config{ApiKey: a.cfg.Server.ApiKey}))

		if err := mgr.LoadAll(app); err != nil {
			logg.Fatal("Failed to load features", zap.Error(err))
		}

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		if a.cfg.Compare.AutoCompareOnStartup {
			go runStartupComparison(ctx, a)
		} else {
			logg.Info("Table structure auto-compare is disabled")
		}

		go func() {
			logg.Info("Starting server", zap.String("address", a.cfg.Server.Address()))
			if err := app.Listen(a.cfg.Server.Address()); err != nil {
				logg.Fatal("Server failed to start", zap.Error(err))
			}
		}()

		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		<-c
		logg.Info("Shutting down server...")
		cancel()
		_ = app.Shutdown()
	},
}

// runStartupComparison compares every configured table once. Failures are
// logged; the server keeps running.
func runStartupComparison(ctx context.Context, a *app) {
	a.logger.Info("Starting automatic table structure comparison...")
	results := a.service.CompareAll(ctx)
	if _, err := a.service.Report(ctx, results); err != nil {
		a.logger.Error("Error during automatic table structure comparison", zap.Error(err))
	}
}

func init() {
	RootCmd.AddCommand(startCmd)
}
