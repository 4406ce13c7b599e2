package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"utility_dashboard/internal/chart"
	"utility_dashboard/internal/config"
	"utility_dashboard/internal/generator"
	"utility_dashboard/internal/logging"
	"utility_dashboard/internal/publisher"
	"utility_dashboard/internal/session"
	"utility_dashboard/internal/store"
	"utility_dashboard/internal/ws"
)

func main() {
	configPath := flag.String("config", config.DefaultConfigPath, "path to the YAML config file")
	frontendDir := flag.String("frontend-dir", "", "directory containing frontend build (overrides config)")
	addr := flag.String("addr", "", "listen address (overrides config)")
	flag.Parse()

	if err := run(*configPath, *addr, *frontendDir); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(configPath, addr, frontendDir string) error {
	// .env is optional
	_ = godotenv.Load()

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if addr != "" {
		cfg.Server.Addr = addr
	}
	if frontendDir != "" {
		cfg.Server.FrontendDir = frontendDir
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := cfg.Logger()
	logger.SetDefault()

	a, err := newApp(cfg, logger, time.Now)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.MQTT.Enabled {
		go publishOverview(ctx, cfg.MQTT, a.session, logger)
	}

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           a.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting server", "addr", cfg.Server.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

type app struct {
	session *session.Session
	hub     *ws.Hub
	handler http.Handler
}

// newApp wires the generator, session and WebSocket hub and builds the
// routes. The session starts on the default range.
func newApp(cfg *config.Config, logger *logging.Logger, now func() time.Time) (*app, error) {
	gen := generator.New(generator.NewRand(cfg.Generator.Seed), nil, cfg.GeneratorOptions()...)
	fallback := generator.New(generator.NewRand(cfg.Generator.Seed+1), nil, cfg.GeneratorOptions()...)

	hub := ws.NewHub(logger)
	bridge := ws.NewBridge(hub)
	sess := session.New(gen, store.New(), bridge,
		session.WithClock(now),
		session.WithLogger(logger),
		session.WithFallbackGenerator(fallback),
	)
	if err := sess.Init(); err != nil {
		return nil, fmt.Errorf("initializing session: %w", err)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprintln(w, "ok")
	})
	mux.Handle("/ws", ws.NewHandler(hub, sess))
	mux.Handle("GET /charts/{file}", chartHandler(sess, chart.NewRenderer(), logger))

	// Serve frontend static files
	if _, err := os.Stat(cfg.Server.FrontendDir); err == nil {
		logger.Info("serving frontend", "dir", cfg.Server.FrontendDir)
		mux.Handle("/", http.FileServer(http.Dir(cfg.Server.FrontendDir)))
	}

	return &app{
		session: sess,
		hub:     hub,
		handler: logger.Middleware(mux),
	}, nil
}

// chartHandler serves /charts/{name}.png rendered from the session's current
// table and summary.
func chartHandler(s *session.Session, r *chart.Renderer, logger *logging.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		name, ok := strings.CutSuffix(req.PathValue("file"), ".png")
		if !ok || !chart.Valid(name) {
			http.NotFound(w, req)
			return
		}

		buf, err := r.Render(name, chart.Data{Table: s.Table(), Summary: s.Summary()})
		if err != nil {
			logger.Error("chart render failed", "chart", name, "error", err)
			http.Error(w, "chart unavailable", http.StatusUnprocessableEntity)
			return
		}

		w.Header().Set("Content-Type", "image/png")
		w.Header().Set("Cache-Control", "no-store")
		_, _ = w.Write(buf)
	}
}

// publishOverview pushes the monthly overview of the initial range to MQTT.
func publishOverview(ctx context.Context, cfg config.MQTTConfig, s *session.Session, logger *logging.Logger) {
	pub, err := publisher.New(cfg, logger)
	if err != nil {
		logger.Error("mqtt publisher unavailable", "error", err)
		return
	}
	defer pub.Close()

	n, err := pub.PublishOverview(ctx, s.Sidebar().Months)
	if err != nil {
		logger.Error("publishing overview failed", "published", n, "error", err)
		return
	}
	logger.Info("published monthly overview", "months", n)
}
