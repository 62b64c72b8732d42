// Package circuitbreaker guards outbound calls to the FactNews API and to probed feed sites.
// It uses the github.com/sony/gobreaker library to stop hammering an upstream that is down.
package circuitbreaker

import (
	"errors"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/sony/gobreaker"
)

var (
	// breakerState mirrors gobreaker.State: 0 closed, 1 half-open, 2 open.
	breakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0 closed, 1 half-open, 2 open)",
		},
		[]string{"circuit"},
	)

	breakerRejections = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_rejections_total",
			Help: "Calls refused without reaching the upstream",
		},
		[]string{"circuit"},
	)
)

// Config tunes one breaker. The circuit trips once at least MinRequests calls
// were seen in the current Interval and FailureThreshold of them failed.
type Config struct {
	Name string

	// MaxRequests is how many trial calls half-open lets through.
	MaxRequests uint32

	// Interval resets the closed-state counts.
	Interval time.Duration

	// Timeout is how long the circuit stays open.
	Timeout time.Duration

	// FailureThreshold is a ratio, e.g. 0.6 for 60% failed calls.
	FailureThreshold float64

	MinRequests uint32
}

// FactNewsAPIConfig is used for every call to the FactNews API.
// Fact-check and paper generation are slow upstream, so the open period stays short
// and a user retrying from the dashboard is let through quickly.
func FactNewsAPIConfig() Config {
	return Config{
		Name:             "factnews-api",
		MaxRequests:      3,
		Interval:         30 * time.Second,
		Timeout:          15 * time.Second,
		FailureThreshold: 0.6,
		MinRequests:      5,
	}
}

// FeedProbeConfig is used for previewing third-party feed URLs.
// Sites are many and independent, so the breaker only opens on broad failure.
func FeedProbeConfig() Config {
	return Config{
		Name:             "feed-probe",
		MaxRequests:      5,
		Interval:         60 * time.Second,
		Timeout:          2 * time.Minute,
		FailureThreshold: 0.7,
		MinRequests:      10,
	}
}

// CircuitBreaker runs calls through a gobreaker circuit and exports its state.
type CircuitBreaker struct {
	breaker *gobreaker.CircuitBreaker
	name    string
}

// New creates a closed breaker.
// isSuccessful may be nil; when set it decides which errors count against the circuit.
func New(cfg Config, isSuccessful func(err error) bool) *CircuitBreaker {
	settings := gobreaker.Settings{
		Name:         cfg.Name,
		MaxRequests:  cfg.MaxRequests,
		Interval:     cfg.Interval,
		Timeout:      cfg.Timeout,
		IsSuccessful: isSuccessful,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < cfg.MinRequests {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= cfg.FailureThreshold
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			breakerState.WithLabelValues(name).Set(float64(to))
			slog.Warn("circuit breaker state changed",
				slog.String("circuit", name),
				slog.String("from", from.String()),
				slog.String("to", to.String()))
		},
	}

	breakerState.WithLabelValues(cfg.Name).Set(float64(gobreaker.StateClosed))
	return &CircuitBreaker{
		breaker: gobreaker.NewCircuitBreaker(settings),
		name:    cfg.Name,
	}
}

// Run executes fn unless the circuit refuses it. A refusal returns an error
// for which IsRejection is true and fn is not called.
func (cb *CircuitBreaker) Run(fn func() error) error {
	_, err := cb.breaker.Execute(func() (interface{}, error) {
		return nil, fn()
	})
	if IsRejection(err) {
		breakerRejections.WithLabelValues(cb.name).Inc()
	}
	return err
}

// State returns the current gobreaker state.
func (cb *CircuitBreaker) State() gobreaker.State {
	return cb.breaker.State()
}

// Name returns the circuit name used in logs and metrics.
func (cb *CircuitBreaker) Name() string {
	return cb.name
}

// IsOpen reports whether calls are currently refused outright.
func (cb *CircuitBreaker) IsOpen() bool {
	return cb.breaker.State() == gobreaker.StateOpen
}

// IsRejection reports whether err was produced by the breaker refusing the call
// rather than by the call itself.
func IsRejection(err error) bool {
	return errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests)
}
