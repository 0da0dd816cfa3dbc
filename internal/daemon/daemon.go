package daemon

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/stride-coach/stride/internal/api"
	"github.com/stride-coach/stride/internal/app/coach"
	"github.com/stride-coach/stride/internal/infra/narrative"
	"github.com/stride-coach/stride/internal/infra/sqlite"
)

// Daemon is the core Stride runtime. It wires together all services.
type Daemon struct {
	Config Config
	DB     *sqlite.DB
	Coach  *coach.Service
	Server *api.Server
	Log    *logrus.Logger
	cancel context.CancelFunc
}

// New creates and initializes a Daemon with all services wired.
func New() (*Daemon, error) {
	cfg, err := LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	return NewWithConfig(cfg)
}

// NewWithConfig creates a Daemon with the given configuration.
func NewWithConfig(cfg Config) (*Daemon, error) {
	log := newLogger(cfg.Logging)

	db, err := sqlite.Open(strideHome())
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	toaster := coach.NewToaster(db, log.WithField("component", "toasts"))

	var weekly coach.WeeklyTrigger
	if cfg.Narrative.Enabled {
		weekly = narrative.New(cfg.Narrative.URL, log.WithField("component", "narrative"))
	}

	svc := coach.NewService(db, cfg.Coach, toaster, weekly, log.WithField("component", "coach"))

	srv := api.NewServer(svc, cfg.User.Email)
	if cfg.Telemetry.Prometheus {
		srv.EnableMetrics()
	}

	return &Daemon{
		Config: cfg,
		DB:     db,
		Coach:  svc,
		Server: srv,
		Log:    log,
	}, nil
}

// Serve starts the HTTP server and blocks until shutdown.
func (d *Daemon) Serve(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	d.cancel = cancel

	addr := fmt.Sprintf("%s:%d", d.Config.API.Host, d.Config.API.Port)

	httpServer := &http.Server{
		Addr:         addr,
		Handler:      d.Server.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  2 * time.Minute,
	}

	// Graceful shutdown on signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		select {
		case <-sigCh:
		case <-ctx.Done():
		}

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		_ = httpServer.Shutdown(shutdownCtx)
		_ = d.DB.Close()
	}()

	fmt.Printf("Stride serving on http://%s\n", addr)
	if d.Config.Narrative.Enabled {
		fmt.Printf("  Narrative: enabled (%s)\n", d.Config.Narrative.URL)
	}
	if d.Config.Telemetry.Prometheus {
		fmt.Printf("  Metrics: http://%s/metrics\n", addr)
	}

	if err := httpServer.ListenAndServe(); err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Close shuts down all daemon resources.
func (d *Daemon) Close() {
	if d.cancel != nil {
		d.cancel()
	}
	if d.DB != nil {
		_ = d.DB.Close()
	}
}

// newLogger builds the daemon logger from config.
func newLogger(cfg LoggingConfig) *logrus.Logger {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	log.SetLevel(level)

	if cfg.File != "" {
		f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err == nil {
			log.SetOutput(f)
		}
	}

	return log
}
