// Package extract orchestrates the extraction pipeline: scan templates for
// candidates, assign namespaced keys, rewrite source, gather backend
// translations and fold everything into the catalogs with a single batch
// merge. Per-unit failures are isolated and reported; nothing touches disk
// here, so cancelling a run mid-flight leaves catalogs and sources as they
// were.
package extract

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/jingkaihe/lingo/pkg/binder"
	"github.com/jingkaihe/lingo/pkg/catalog"
	"github.com/jingkaihe/lingo/pkg/keygen"
	"github.com/jingkaihe/lingo/pkg/logger"
	"github.com/jingkaihe/lingo/pkg/namespace"
	"github.com/jingkaihe/lingo/pkg/rewriter"
	"github.com/jingkaihe/lingo/pkg/scanner"
	"github.com/jingkaihe/lingo/pkg/translate"
	i18ntypes "github.com/jingkaihe/lingo/pkg/types/i18n"
)

// DefaultWorkers is the worker pool size when none is configured.
const DefaultWorkers = 4

// Options configures one extraction run.
type Options struct {
	// Attributes is the allow-list of translatable attribute names.
	Attributes []string
	// BaseLocale holds the untranslated source text.
	BaseLocale string
	// Locales are all known locales, base included.
	Locales []string
	// Suffixes are the component role suffixes stripped during namespace
	// derivation; empty means the defaults.
	Suffixes []string
	// Workers bounds scan and translation parallelism.
	Workers int
	// Backend supplies non-base-locale text; nil skips translation and
	// every new entry gets a pending placeholder.
	Backend translate.Backend
	// BackendConfig bounds backend calls (timeout, retry budget).
	BackendConfig translate.Config
}

// UnitResult is the rewritten source for one unit.
type UnitResult struct {
	Unit            i18ntypes.SourceUnit
	Template        string
	Logic           string
	TemplateChanged bool
	LogicChanged    bool
	Candidates      int
}

// RunResult is everything one run produced, still entirely in memory.
type RunResult struct {
	Result *i18ntypes.ExtractionResult
	Units  []UnitResult
	Merged map[string]catalog.Catalog
}

// Runner executes extraction runs.
type Runner struct {
	opts Options
	scan *scanner.Scanner
}

// NewRunner builds a runner from options.
func NewRunner(opts Options) *Runner {
	if opts.Workers <= 0 {
		opts.Workers = DefaultWorkers
	}
	if len(opts.Suffixes) == 0 {
		opts.Suffixes = namespace.DefaultSuffixes
	}
	return &Runner{opts: opts, scan: scanner.New(opts.Attributes)}
}

// Run processes all source units against a snapshot of the catalogs and
// returns the rewritten sources plus the merged catalogs. The inputs are not
// mutated and nothing is written; persisting the outcome is the caller's
// final, separate step. The returned error is only ever a context error —
// unit-level failures land in Result.Skipped.
func (r *Runner) Run(ctx context.Context, units []i18ntypes.SourceUnit, catalogs map[string]catalog.Catalog) (*RunResult, error) {
	tracer := otel.Tracer("lingo/extract")
	ctx, span := tracer.Start(ctx, "extract.run")
	defer span.End()
	span.SetAttributes(attribute.Int("units", len(units)))

	result := &i18ntypes.ExtractionResult{RunID: uuid.NewString()}
	log := logger.G(ctx).WithField("run_id", result.RunID)

	// phase 1: scan in parallel; units share nothing
	candidates, scanErrs := r.scanAll(ctx, units)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// phase 2: assign keys and rewrite, sequentially in document order so
	// key disambiguation is deterministic even when two components share a
	// namespace
	base := catalogs[r.opts.BaseLocale]
	generators := map[string]*keygen.Generator{}
	out := &RunResult{Result: result}

	for i, unit := range units {
		if scanErrs[i] != nil {
			log.WithError(scanErrs[i]).WithField("component", unit.Component).Warn("skipping unit")
			result.Skip(unit.Component, scanErrs[i])
			continue
		}
		ur := r.assembleUnit(ctx, unit, candidates[i], base, generators, result)
		out.Units = append(out.Units, ur)
	}

	// phase 3: backend translations for the new entries, in parallel
	if r.opts.Backend != nil {
		r.translateAll(ctx, result)
		if err := ctx.Err(); err != nil {
			return nil, err
		}
	}

	// phase 4: single synchronous merge over the accumulated result
	_, mergeSpan := tracer.Start(ctx, "extract.merge")
	out.Merged = catalog.Merge(catalogs, result, r.opts.BaseLocale, r.opts.Locales)
	mergeSpan.End()

	log.WithField("new_keys", result.NewKeys()).
		WithField("skipped", len(result.Skipped)).
		Info("extraction run complete")
	return out, nil
}

// assembleUnit assigns keys to one unit's candidates and rewrites its
// template and logic. Candidates that normalize to nothing are dropped
// individually; the unit itself survives.
func (r *Runner) assembleUnit(ctx context.Context, unit i18ntypes.SourceUnit, cands []i18ntypes.Candidate, base catalog.Catalog, generators map[string]*keygen.Generator, result *i18ntypes.ExtractionResult) UnitResult {
	ns := namespace.DeriveWith(unit.Component, r.opts.Suffixes)

	gen, ok := generators[ns]
	if !ok {
		seed, _ := base.Namespace(ns)
		gen = keygen.New(ns, seed)
		generators[ns] = gen
	}

	var repls []rewriter.Replacement
	for _, c := range cands {
		key, reused, err := gen.Generate(c)
		if err != nil {
			logger.G(ctx).WithError(err).WithField("component", unit.Component).Warn("dropping candidate")
			continue
		}
		tk := i18ntypes.TranslationKey{Namespace: ns, Key: key}
		// reused keys (same text already keyed, in the catalog or earlier
		// in this run) change nothing: no entry, no report row
		if !reused {
			result.Add(&i18ntypes.Entry{
				Key:          tk,
				BaseText:     c.Text,
				Translations: map[string]string{},
				Component:    unit.Component,
			})
		}
		repls = append(repls, rewriter.Replacement{
			Start: c.Start,
			End:   c.End,
			Text:  rewriter.Reference(c, tk),
		})
	}

	ur := UnitResult{Unit: unit, Template: unit.Template, Logic: unit.Logic, Candidates: len(repls)}
	if len(repls) == 0 {
		return ur
	}

	rewritten, err := rewriter.Apply(unit.Template, repls)
	if err != nil {
		// spans come straight from the scanner, so this is a programming
		// error; isolate the unit rather than corrupt its template
		logger.G(ctx).WithError(err).WithField("component", unit.Component).Error("rewrite failed")
		result.Skip(unit.Component, err)
		return ur
	}
	ur.Template = rewritten
	ur.TemplateChanged = rewritten != unit.Template

	if ur.TemplateChanged && unit.Logic != "" {
		bound, changed := binder.Bind(unit.Logic)
		ur.Logic = bound
		ur.LogicChanged = changed
	}
	return ur
}

// scanAll scans every unit on the worker pool. Results and errors are
// indexed by unit so ordering is preserved.
func (r *Runner) scanAll(ctx context.Context, units []i18ntypes.SourceUnit) ([][]i18ntypes.Candidate, []error) {
	candidates := make([][]i18ntypes.Candidate, len(units))
	errs := make([]error, len(units))

	r.forEach(ctx, len(units), func(i int) {
		candidates[i], errs[i] = r.scan.Scan(units[i].Component, units[i].Template)
	})
	return candidates, errs
}

// translateAll fills Entry.Translations for new entries. Each worker owns
// one entry, so the maps are written without locks; failures are logged and
// leave the entry on the placeholder path.
func (r *Runner) translateAll(ctx context.Context, result *i18ntypes.ExtractionResult) {
	var fresh []*i18ntypes.Entry
	for _, e := range result.Entries {
		if !e.Reused {
			fresh = append(fresh, e)
		}
	}

	r.forEach(ctx, len(fresh), func(i int) {
		e := fresh[i]
		for _, loc := range r.opts.Locales {
			if loc == r.opts.BaseLocale {
				continue
			}
			out, err := translate.Translate(ctx, r.opts.Backend, r.opts.BackendConfig, e.BaseText, r.opts.BaseLocale, loc)
			if err != nil {
				logger.G(ctx).WithError(err).
					WithField("key", e.Key.Qualified()).
					WithField("locale", loc).
					Debug("backend unavailable, falling back to pending placeholder")
				continue
			}
			e.Translations[loc] = out
		}
	})
}

// forEach runs fn(i) for i in [0,n) on the worker pool, honoring context
// cancellation between jobs.
func (r *Runner) forEach(ctx context.Context, n int, fn func(int)) {
	workers := r.opts.Workers
	if workers > n {
		workers = n
	}
	if workers <= 0 {
		return
	}

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				fn(i)
			}
		}()
	}

feed:
	for i := 0; i < n; i++ {
		select {
		case <-ctx.Done():
			break feed
		case jobs <- i:
		}
	}
	close(jobs)
	wg.Wait()
}
