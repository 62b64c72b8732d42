// Package config loads the dashboard configuration.
//
// Values are layered: built-in defaults, then an optional YAML file named by
// FACTNEWS_CONFIG, then environment variables (a .env file in the working directory
// is loaded first). The result is validated as a whole.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"fact-news/internal/common/pagination"
	"fact-news/internal/gesture"
	pkgvalidate "fact-news/internal/pkg/config"
	"fact-news/internal/usecase/notify"
	env "fact-news/pkg/config"
)

// APIConfig locates the FactNews API.
type APIConfig struct {
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`
}

// WebConfig configures the browser dashboard server.
type WebConfig struct {
	Addr            string        `yaml:"addr"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	MaxBodyBytes    int64         `yaml:"max_body_bytes"`
	CookieSecure    bool          `yaml:"cookie_secure"`
	// RateLimit is the sustained mutating requests per second allowed per session.
	RateLimit float64 `yaml:"rate_limit"`
	RateBurst int     `yaml:"rate_burst"`
}

// SessionConfig configures where web view state lives.
type SessionConfig struct {
	TTL time.Duration `yaml:"ttl"`
	// RedisAddr switches from the in-memory store to Redis when set.
	RedisAddr       string        `yaml:"redis_addr"`
	RedisPassword   string        `yaml:"redis_password"`
	RedisDB         int           `yaml:"redis_db"`
	KeyPrefix       string        `yaml:"key_prefix"`
	MaxSessions     int           `yaml:"max_sessions"`
	CleanupInterval time.Duration `yaml:"cleanup_interval"`
}

// ProbeConfig configures source previews.
type ProbeConfig struct {
	Timeout        time.Duration `yaml:"timeout"`
	DenyPrivateIPs bool          `yaml:"deny_private_ips"`
}

// SwipeConfig holds the gesture thresholds.
type SwipeConfig struct {
	// MinDistance is in CSS pixels (web).
	MinDistance float64 `yaml:"min_distance"`
	// CellMinDistance is in terminal cells (tui).
	CellMinDistance float64 `yaml:"cell_min_distance"`
}

// Config is the whole dashboard configuration.
type Config struct {
	API     APIConfig         `yaml:"api"`
	Web     WebConfig         `yaml:"web"`
	Session SessionConfig     `yaml:"session"`
	Probe   ProbeConfig       `yaml:"probe"`
	Pages   pagination.Config `yaml:"pages"`
	Swipe   SwipeConfig       `yaml:"swipe"`
	// NoticeTTL is how long a toast stays visible.
	NoticeTTL time.Duration `yaml:"notice_ttl"`
	// TraceSampleRatio is the OpenTelemetry sampling ratio (0..1).
	TraceSampleRatio float64 `yaml:"trace_sample_ratio"`
	// TUILogPath receives the terminal dashboard's logs; stdout is the screen.
	TUILogPath string `yaml:"tui_log_path"`
}

// renderMargin is the time a page needs after its API calls to render and write.
const renderMargin = 10 * time.Second

// MinWriteTimeout is the write deadline the paper page needs. A missing paper
// costs three sequential API calls: get, generate, get again.
func (c *Config) MinWriteTimeout() time.Duration {
	return 3*c.API.Timeout + renderMargin
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		API: APIConfig{
			BaseURL: "http://127.0.0.1:8000",
			Timeout: 30 * time.Second,
		},
		Web: WebConfig{
			Addr:            ":8080",
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    2 * time.Minute,
			ShutdownTimeout: 10 * time.Second,
			MaxBodyBytes:    1 << 20,
			RateLimit:       5,
			RateBurst:       10,
		},
		Session: SessionConfig{
			TTL:             24 * time.Hour,
			KeyPrefix:       "factnews:session:",
			MaxSessions:     10000,
			CleanupInterval: 5 * time.Minute,
		},
		Probe: ProbeConfig{
			Timeout:        10 * time.Second,
			DenyPrivateIPs: true,
		},
		Pages: pagination.DefaultConfig(),
		Swipe: SwipeConfig{
			MinDistance:     gesture.DefaultMinDistance,
			CellMinDistance: gesture.DefaultCellMinDistance,
		},
		NoticeTTL:        notify.DefaultTTL,
		TraceSampleRatio: 0.1,
		TUILogPath:       "fact-news-tui.log",
	}
}

// Load builds the configuration from defaults, the optional YAML file and the environment.
func Load(logger *slog.Logger) (*Config, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		logger.Warn("failed to load .env file", slog.Any("error", err))
	}

	cfg := Default()
	if path := os.Getenv("FACTNEWS_CONFIG"); path != "" {
		if err := cfg.overlayFile(path); err != nil {
			return nil, err
		}
		logger.Info("configuration file loaded", slog.String("path", path))
	}
	cfg.overlayEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}

// overlayFile applies the YAML file at path over c. Keys absent from the file keep their value.
func (c *Config) overlayFile(path string) error {
	// #nosec G304 -- path comes from the operator's environment, not user input
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) overlayEnv() {
	c.API.BaseURL = env.GetEnvString("FACTNEWS_API_URL", c.API.BaseURL)
	c.API.Timeout = env.GetEnvDuration("FACTNEWS_API_TIMEOUT", c.API.Timeout)

	c.Web.Addr = env.GetEnvString("WEB_ADDR", c.Web.Addr)
	c.Web.ReadTimeout = env.GetEnvDuration("WEB_READ_TIMEOUT", c.Web.ReadTimeout)
	c.Web.WriteTimeout = env.GetEnvDuration("WEB_WRITE_TIMEOUT", c.Web.WriteTimeout)
	c.Web.ShutdownTimeout = env.GetEnvDuration("WEB_SHUTDOWN_TIMEOUT", c.Web.ShutdownTimeout)
	c.Web.MaxBodyBytes = int64(env.GetEnvInt("WEB_MAX_BODY_BYTES", int(c.Web.MaxBodyBytes)))
	c.Web.CookieSecure = env.GetEnvBool("WEB_COOKIE_SECURE", c.Web.CookieSecure)
	c.Web.RateLimit = env.GetEnvFloat("WEB_RATE_LIMIT", c.Web.RateLimit)
	c.Web.RateBurst = env.GetEnvInt("WEB_RATE_BURST", c.Web.RateBurst)

	c.Session.TTL = env.GetEnvDuration("SESSION_TTL", c.Session.TTL)
	c.Session.RedisAddr = env.GetEnvString("REDIS_ADDR", c.Session.RedisAddr)
	c.Session.RedisPassword = env.GetEnvString("REDIS_PASS", c.Session.RedisPassword)
	c.Session.RedisDB = env.GetEnvInt("REDIS_DB", c.Session.RedisDB)
	c.Session.MaxSessions = env.GetEnvInt("SESSION_MAX", c.Session.MaxSessions)

	c.Probe.Timeout = env.GetEnvDuration("SOURCE_PREVIEW_TIMEOUT", c.Probe.Timeout)
	c.Probe.DenyPrivateIPs = env.GetEnvBool("SOURCE_PREVIEW_DENY_PRIVATE_IPS", c.Probe.DenyPrivateIPs)

	c.Pages = c.Pages.WithEnv()
	c.Swipe.MinDistance = env.GetEnvFloat("SOURCES_SWIPE_MIN_DISTANCE", c.Swipe.MinDistance)
	c.Swipe.CellMinDistance = env.GetEnvFloat("TUI_SWIPE_MIN_CELLS", c.Swipe.CellMinDistance)

	c.NoticeTTL = env.GetEnvDuration("NOTICE_TTL", c.NoticeTTL)
	c.TraceSampleRatio = env.GetEnvFloat("OTEL_SAMPLE_RATIO", c.TraceSampleRatio)
	c.TUILogPath = env.GetEnvString("FACTNEWS_TUI_LOG", c.TUILogPath)
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var errs []error
	check := func(field string, err error) {
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", field, err))
		}
	}

	check("api.base_url", pkgvalidate.ValidateBaseURL(c.API.BaseURL))
	check("api.timeout", pkgvalidate.ValidatePositiveDuration(c.API.Timeout))
	if c.Web.Addr == "" {
		errs = append(errs, errors.New("web.addr: must not be empty"))
	}
	check("web.read_timeout", pkgvalidate.ValidatePositiveDuration(c.Web.ReadTimeout))
	check("web.write_timeout", pkgvalidate.ValidatePositiveDuration(c.Web.WriteTimeout))
	if c.Web.WriteTimeout > 0 && c.Web.WriteTimeout < c.MinWriteTimeout() {
		errs = append(errs, fmt.Errorf("web.write_timeout: %s is shorter than %s needed for a generated paper (3 x api.timeout + %s)",
			c.Web.WriteTimeout, c.MinWriteTimeout(), renderMargin))
	}
	check("web.shutdown_timeout", pkgvalidate.ValidatePositiveDuration(c.Web.ShutdownTimeout))
	if c.Web.MaxBodyBytes <= 0 {
		errs = append(errs, errors.New("web.max_body_bytes: must be positive"))
	}
	if c.Web.RateLimit <= 0 {
		errs = append(errs, errors.New("web.rate_limit: must be positive"))
	}
	check("web.rate_burst", pkgvalidate.ValidateIntRange(c.Web.RateBurst, 1, 1000))
	check("session.ttl", pkgvalidate.ValidateDuration(c.Session.TTL, time.Minute, 30*24*time.Hour))
	check("session.max_sessions", pkgvalidate.ValidateIntRange(c.Session.MaxSessions, 1, 1_000_000))
	check("session.cleanup_interval", pkgvalidate.ValidatePositiveDuration(c.Session.CleanupInterval))
	check("probe.timeout", pkgvalidate.ValidatePositiveDuration(c.Probe.Timeout))
	check("pages", c.Pages.Validate())
	if c.Swipe.MinDistance <= 0 || c.Swipe.CellMinDistance <= 0 {
		errs = append(errs, errors.New("swipe: thresholds must be positive"))
	}
	check("notice_ttl", pkgvalidate.ValidatePositiveDuration(c.NoticeTTL))
	check("trace_sample_ratio", pkgvalidate.ValidateRatio(c.TraceSampleRatio))

	return errors.Join(errs...)
}
