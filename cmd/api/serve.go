package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/BruksfildServices01/bay-scheduler/internal/audit"
	"github.com/BruksfildServices01/bay-scheduler/internal/clock"
	"github.com/BruksfildServices01/bay-scheduler/internal/config"
	dbpkg "github.com/BruksfildServices01/bay-scheduler/internal/db"
	"github.com/BruksfildServices01/bay-scheduler/internal/infra/cache"
	"github.com/BruksfildServices01/bay-scheduler/internal/infra/memory"
	"github.com/BruksfildServices01/bay-scheduler/internal/infra/mq"
	infraRepo "github.com/BruksfildServices01/bay-scheduler/internal/infra/repository"
	"github.com/BruksfildServices01/bay-scheduler/internal/notify"
	"github.com/BruksfildServices01/bay-scheduler/internal/obs"
	"github.com/BruksfildServices01/bay-scheduler/internal/routes"
	"github.com/BruksfildServices01/bay-scheduler/internal/seed"
	"github.com/BruksfildServices01/bay-scheduler/internal/timezone"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			return serve(cmd.Context(), cfg)
		},
	}
}

func serve(ctx context.Context, cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracer, err := obs.InitTracer(ctx, "bay-scheduler", cfg.OTLPEndpoint, cfg.GinMode)
	if err != nil {
		return err
	}
	defer func() {
		if err := shutdownTracer(context.Background()); err != nil {
			slog.Error("tracer shutdown", "error", err)
		}
	}()

	deps := routes.Deps{
		Config: cfg,
		Clock:  clock.NewSystem(timezone.Location(cfg.Timezone)),
	}
	var sinks []audit.Sink

	// ======================================================
	// STORE
	// ======================================================
	switch cfg.Store {
	case "memory":
		st := memory.NewStore()
		st.Load(seed.Default())
		deps.Repo = st
		deps.Admin = st
		slog.Warn("using in-memory store; data is lost on restart")

	default:
		db, err := dbpkg.NewDB(cfg)
		if err != nil {
			return err
		}
		deps.Repo = infraRepo.NewBookingGormRepository(db)
		deps.Admin = infraRepo.NewCalendarGormRepository(db)
		deps.DB = db
		sinks = append(sinks, audit.New(db))
	}

	// ======================================================
	// CALENDAR CACHE
	// ======================================================
	if cfg.RedisURL != "" {
		rdb, err := cache.NewClient(ctx, cfg.RedisURL)
		if err != nil {
			return err
		}
		defer rdb.Close()

		calendar := cache.NewCalendarCache(rdb, deps.Repo, cfg.CalendarCacheTTL)
		deps.Calendar = calendar
		deps.Invalidator = calendar
	}

	// ======================================================
	// EVENT SINKS
	// ======================================================
	if cfg.RabbitURL != "" {
		pub, err := mq.NewPublisher(cfg.RabbitURL, cfg.RabbitExchange)
		if err != nil {
			return err
		}
		defer pub.Close()
		sinks = append(sinks, pub)
	}

	var notifier notify.Notifier = notify.ConsoleNotifier{}
	if cfg.SMTPHost != "" {
		notifier = notify.NewSMTPNotifier(notify.SMTPConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUsername,
			Password: cfg.SMTPPassword,
			From:     cfg.MailFrom,
		})
	}
	sinks = append(sinks, notify.NewConfirmations(notifier, cfg.FrontendURL))

	deps.Audit = audit.NewDispatcher(sinks...)
	defer deps.Audit.Close()

	// ======================================================
	// HTTP
	// ======================================================
	gin.SetMode(cfg.GinMode)
	r := gin.Default()
	routes.RegisterRoutes(r, deps)

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server running", "addr", cfg.Addr(), "store", cfg.Store)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
