package translate

import (
	"context"

	"github.com/jingkaihe/lingo/pkg/logger"
	"github.com/jingkaihe/lingo/pkg/translate/cache"
)

// Memory is the subset of the translation memory the cached backend needs.
// *cache.Store satisfies it; tests substitute fakes.
type Memory interface {
	Get(ctx context.Context, text, from, to, backend, model string) (string, bool, error)
	Put(ctx context.Context, text, from, to, backend, model, translation string) error
}

var _ Memory = (*cache.Store)(nil)

// Cached decorates a backend with the translation memory. Hits skip the
// backend entirely; writes are best-effort and never fail a translation.
func Cached(inner Backend, memory Memory, model string) Backend {
	return &cachedBackend{inner: inner, memory: memory, model: model}
}

type cachedBackend struct {
	inner  Backend
	memory Memory
	model  string
}

func (b *cachedBackend) Name() string { return b.inner.Name() }

func (b *cachedBackend) Translate(ctx context.Context, text, fromLocale, toLocale string) (string, error) {
	if hit, ok, err := b.memory.Get(ctx, text, fromLocale, toLocale, b.inner.Name(), b.model); err == nil && ok {
		return hit, nil
	} else if err != nil {
		logger.G(ctx).WithError(err).Debug("translation memory lookup failed")
	}

	out, err := b.inner.Translate(ctx, text, fromLocale, toLocale)
	if err != nil {
		return "", err
	}
	if err := b.memory.Put(ctx, text, fromLocale, toLocale, b.inner.Name(), b.model, out); err != nil {
		logger.G(ctx).WithError(err).Debug("translation memory write failed")
	}
	return out, nil
}
