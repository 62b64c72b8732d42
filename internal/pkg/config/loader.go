package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// LoadResult is the outcome of loading one configuration value.
type LoadResult[T any] struct {
	Value T
	// Warning explains why the default was used; empty otherwise.
	Warning string
	// FallbackApplied is set when a present but invalid value was replaced by the default.
	FallbackApplied bool
}

// LoadEnv reads envKey, parses and validates it, and falls back to defaultValue when
// the variable is invalid. An unset variable yields the default without a warning.
// validate may be nil.
func LoadEnv[T any](envKey string, defaultValue T, parse func(string) (T, error), validate func(T) error) LoadResult[T] {
	raw := strings.TrimSpace(os.Getenv(envKey))
	if raw == "" {
		return LoadResult[T]{Value: defaultValue}
	}

	value, err := parse(raw)
	if err == nil && validate != nil {
		err = validate(value)
	}
	if err != nil {
		return LoadResult[T]{
			Value:           defaultValue,
			Warning:         fmt.Sprintf("%s=%q is invalid (%v); using default %v", envKey, raw, err, defaultValue),
			FallbackApplied: true,
		}
	}
	return LoadResult[T]{Value: value}
}

// ParseString is the identity parser for LoadEnv.
func ParseString(s string) (string, error) { return s, nil }

// LoadEnvString loads a validated string.
func LoadEnvString(envKey, defaultValue string, validate func(string) error) LoadResult[string] {
	return LoadEnv(envKey, defaultValue, ParseString, validate)
}

// LoadEnvInt loads a validated integer.
func LoadEnvInt(envKey string, defaultValue int, validate func(int) error) LoadResult[int] {
	return LoadEnv(envKey, defaultValue, strconv.Atoi, validate)
}

// LoadEnvDuration loads a validated time.Duration.
func LoadEnvDuration(envKey string, defaultValue time.Duration, validate func(time.Duration) error) LoadResult[time.Duration] {
	return LoadEnv(envKey, defaultValue, time.ParseDuration, validate)
}

// LoadEnvBool loads a boolean.
func LoadEnvBool(envKey string, defaultValue bool) LoadResult[bool] {
	return LoadEnv(envKey, defaultValue, strconv.ParseBool, nil)
}
