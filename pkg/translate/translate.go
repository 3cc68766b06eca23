// Package translate provides the pluggable translation backend used to
// pre-fill non-base locales during catalog merges. Backends are registered
// by name; every call is bounded by a timeout and retried a bounded number
// of times, after which the caller falls back to a pending placeholder
// rather than failing the run.
package translate

import (
	"context"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/pkg/errors"

	"github.com/jingkaihe/lingo/pkg/logger"
	i18ntypes "github.com/jingkaihe/lingo/pkg/types/i18n"
)

// Backend turns base-locale text into text for another locale.
type Backend interface {
	Name() string
	Translate(ctx context.Context, text, fromLocale, toLocale string) (string, error)
}

// Config selects and configures a backend.
type Config struct {
	Name     string        `mapstructure:"name"`
	Model    string        `mapstructure:"model"`
	BaseURL  string        `mapstructure:"base_url"`
	APIKey   string        `mapstructure:"api_key"`
	Timeout  time.Duration `mapstructure:"timeout"`
	Attempts uint          `mapstructure:"attempts"`
}

// DefaultTimeout bounds a single backend call including retries.
const DefaultTimeout = 15 * time.Second

// DefaultAttempts is the retry budget per translation.
const DefaultAttempts uint = 3

type factory func(Config) (Backend, error)

var backends = map[string]factory{}

// Register makes a backend constructor available under a name. Adapters
// register themselves from their init functions.
func Register(name string, f factory) {
	backends[name] = f
}

// New builds the configured backend. The empty name resolves to "none",
// which keeps extraction fully usable offline.
func New(cfg Config) (Backend, error) {
	name := cfg.Name
	if name == "" {
		name = "none"
	}
	f, ok := backends[name]
	if !ok {
		return nil, errors.Errorf("unknown translation backend: %s", name)
	}
	return f(cfg)
}

// Translate runs one bounded backend call: per-call timeout, bounded
// retries, and a BackendTimeoutError on final failure so callers can take
// the placeholder path without inspecting the cause.
func Translate(ctx context.Context, b Backend, cfg Config, text, fromLocale, toLocale string) (string, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	attempts := cfg.Attempts
	if attempts == 0 {
		attempts = DefaultAttempts
	}

	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var out string
	err := retry.Do(
		func() error {
			var callErr error
			out, callErr = b.Translate(callCtx, text, fromLocale, toLocale)
			return callErr
		},
		retry.Attempts(attempts),
		retry.Delay(200*time.Millisecond),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.Context(callCtx),
		retry.OnRetry(func(n uint, err error) {
			logger.G(ctx).WithError(err).
				WithField("backend", b.Name()).
				WithField("attempt", n+1).
				Warn("retrying translation backend call")
		}),
	)
	if err != nil {
		return "", &i18ntypes.BackendTimeoutError{Locale: toLocale, Err: err}
	}
	return out, nil
}
