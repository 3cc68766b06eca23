package translate

import (
	"context"

	"github.com/pkg/errors"
)

// ErrUnavailable is returned by the none backend; callers fall back to
// pending placeholders.
var ErrUnavailable = errors.New("no translation backend configured")

func init() {
	Register("none", func(Config) (Backend, error) {
		return noneBackend{}, nil
	})
}

// noneBackend is the default: extraction runs fully offline and every
// non-base locale gets a pending placeholder.
type noneBackend struct{}

func (noneBackend) Name() string { return "none" }

func (noneBackend) Translate(context.Context, string, string, string) (string, error) {
	return "", ErrUnavailable
}
