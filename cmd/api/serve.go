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

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/rishangit/s-ams-sub002/internal/config"
	dbpkg "github.com/rishangit/s-ams-sub002/internal/db"
	"github.com/rishangit/s-ams-sub002/internal/inflight"
	"github.com/rishangit/s-ams-sub002/internal/logging"
	"github.com/rishangit/s-ams-sub002/internal/routes"
	"github.com/rishangit/s-ams-sub002/internal/timezone"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		log := logging.New(cfg)
		timezone.SetFallback(cfg.Timezone)

		db, err := dbpkg.NewDB(cfg)
		if err != nil {
			return fmt.Errorf("connect database: %w", err)
		}
		if cfg.DBDriver == "sqlite" {
			// sqlite has no separate migration step in development
			if err := dbpkg.Migrate(db); err != nil {
				return fmt.Errorf("migrate: %w", err)
			}
		}

		guard, err := inflight.New(cfg.RedisURL, cfg.InflightTTL)
		if err != nil {
			return fmt.Errorf("in-flight guard: %w", err)
		}

		gin.SetMode(gin.ReleaseMode)
		r := gin.New()
		r.Use(gin.Recovery())

		shutdown := routes.RegisterRoutes(r, routes.Deps{
			DB:     db,
			Config: cfg,
			Logger: log,
			Guard:  guard,
		})
		defer shutdown()

		srv := &http.Server{
			Addr:    cfg.Addr(),
			Handler: r,
		}

		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(quit)

		if err := serveUntil(srv, log, quit); err != nil {
			return err
		}

		log.Info("server exited")
		return nil
	},
}

// serveUntil runs srv until a signal arrives on quit or the listener fails.
// A listener error is returned rather than exiting so deferred cleanup runs.
func serveUntil(srv *http.Server, log logrus.FieldLogger, quit <-chan os.Signal) error {
	errCh := make(chan error, 1)
	go func() {
		log.WithField("addr", srv.Addr).Info("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		log.WithError(err).Error("server failed")
		return fmt.Errorf("listen: %w", err)
	case <-quit:
	}

	log.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
