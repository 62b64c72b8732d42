package main

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"fact-news/internal/config"
	hhttp "fact-news/internal/handler/http"
	"fact-news/internal/handler/http/dashboard"
	"fact-news/internal/handler/http/sessionid"
	"fact-news/internal/handler/http/view"
	"fact-news/internal/infra/factnews"
	"fact-news/internal/infra/feedprobe"
	"fact-news/internal/infra/session"
	"fact-news/internal/observability/logging"
	"fact-news/internal/observability/tracing"
	feedUC "fact-news/internal/usecase/feed"
	paperUC "fact-news/internal/usecase/paper"
	srcUC "fact-news/internal/usecase/source"
)

func main() {
	logger := initLogger()

	cfg, err := config.Load(logger)
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	shutdownTracing := tracing.Setup(cfg.TraceSampleRatio)
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			logger.Error("failed to stop tracer provider", slog.Any("error", err))
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	components, err := setupServer(ctx, logger, cfg, getVersion())
	if err != nil {
		logger.Error("failed to set up server", slog.Any("error", err))
		os.Exit(1)
	}
	defer components.Close()

	if err := runServer(ctx, logger, cfg, components); err != nil {
		logger.Error("server failed", slog.Any("error", err))
		os.Exit(1)
	}
}

// initLogger installs the JSON stdout logger as the default.
func initLogger() *slog.Logger {
	logger := logging.NewLogger()
	slog.SetDefault(logger)
	return logger
}

// getVersion returns the application version from environment or default.
func getVersion() string {
	version := os.Getenv("VERSION")
	if version == "" {
		version = "dev"
	}
	return version
}

// ServerComponents holds components needed for server operation and cleanup.
type ServerComponents struct {
	Handler     http.Handler
	Memory      *session.MemoryStore // nil when sessions live in Redis
	Redis       *session.RedisStore
	RateLimiter *hhttp.SessionRateLimiter
}

// Close releases the session store connection.
func (c *ServerComponents) Close() {
	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			slog.Error("failed to close redis", slog.Any("error", err))
		}
	}
}

// setupServer builds the API client, the session store and the dashboard handler.
func setupServer(ctx context.Context, logger *slog.Logger, cfg *config.Config, version string) (*ServerComponents, error) {
	api, err := factnews.New(factnews.Config{BaseURL: cfg.API.BaseURL, Timeout: cfg.API.Timeout})
	if err != nil {
		return nil, err
	}
	logger.Info("FactNews API client initialized", slog.String("base_url", api.BaseURL()))

	probeCfg := feedprobe.DefaultConfig()
	probeCfg.Timeout = cfg.Probe.Timeout
	probeCfg.DenyPrivateIPs = cfg.Probe.DenyPrivateIPs
	prober := feedprobe.New(nil, probeCfg, logger)

	components := &ServerComponents{}
	var store session.Store
	var sessionPinger hhttp.Pinger
	if cfg.Session.RedisAddr != "" {
		dialCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		redisStore, err := session.DialRedis(dialCtx, session.RedisConfig{
			Addr:     cfg.Session.RedisAddr,
			Password: cfg.Session.RedisPassword,
			DB:       cfg.Session.RedisDB,
			Prefix:   cfg.Session.KeyPrefix,
		})
		if err != nil {
			return nil, err
		}
		components.Redis = redisStore
		store, sessionPinger = redisStore, redisStore
		logger.Info("session store: redis", slog.String("addr", cfg.Session.RedisAddr))
	} else {
		components.Memory = session.NewMemoryStore(cfg.Session.MaxSessions)
		store = components.Memory
		logger.Info("session store: memory", slog.Int("max_sessions", cfg.Session.MaxSessions))
	}

	renderer, err := view.New()
	if err != nil {
		return nil, err
	}

	components.RateLimiter = hhttp.NewSessionRateLimiter(cfg.Web.RateLimit, cfg.Web.RateBurst).
		Throttle("/sources/preview")
	logger.Info("rate limiting initialized",
		slog.Float64("per_second", cfg.Web.RateLimit),
		slog.Int("burst", cfg.Web.RateBurst))

	components.Handler = hhttp.NewRouter(hhttp.RouterConfig{
		Logger: logger,
		Base: &dashboard.Base{
			Sessions:  session.NewManager(store, cfg.Session.TTL, cfg.Pages, logger),
			View:      renderer,
			NoticeTTL: cfg.NoticeTTL,
		},
		Feed:             &feedUC.Service{Sources: api, Articles: api, Logger: logger},
		Papers:           &paperUC.Service{Papers: api, Logger: logger},
		Sources:          &srcUC.Service{Repo: api, Prober: prober, Logger: logger},
		SwipeMinDistance: cfg.Swipe.MinDistance,
		Session: sessionid.Config{
			TTL:    cfg.Session.TTL,
			Secure: cfg.Web.CookieSecure,
		},
		RateLimiter:  components.RateLimiter,
		MaxBodyBytes: cfg.Web.MaxBodyBytes,
		Health: &hhttp.HealthHandler{
			API:         api,
			Sessions:    sessionPinger,
			RateLimiter: components.RateLimiter,
			Version:     version,
		},
		Ready: &hhttp.ReadyHandler{Sessions: sessionPinger},
	})
	return components, nil
}

// runServer serves until ctx is cancelled, then shuts down gracefully.
func runServer(ctx context.Context, logger *slog.Logger, cfg *config.Config, components *ServerComponents) error {
	srv := &http.Server{
		Addr:              cfg.Web.Addr,
		Handler:           components.Handler,
		ReadHeaderTimeout: 10 * time.Second, // Prevent Slowloris attacks
		ReadTimeout:       cfg.Web.ReadTimeout,
		WriteTimeout:      cfg.Web.WriteTimeout,
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	g, gctx := errgroup.WithContext(ctx)

	// Background cleanup goroutines
	if components.Memory != nil {
		g.Go(func() error {
			components.Memory.StartCleanup(gctx, cfg.Session.CleanupInterval)
			return nil
		})
	}
	g.Go(func() error {
		components.RateLimiter.StartCleanup(gctx, cfg.Session.CleanupInterval, 10*time.Minute)
		return nil
	})

	g.Go(func() error {
		logger.Info("server starting", slog.String("addr", cfg.Web.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Web.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("server shutdown failed", slog.Any("error", err))
			return err
		}
		logger.Info("server stopped")
		return nil
	})

	return g.Wait()
}
