package main

import (
	"context"
	"fmt"
	"os"

	"github.com/aymanbagabas/go-udiff"
	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/jingkaihe/lingo/pkg/catalog"
	"github.com/jingkaihe/lingo/pkg/config"
	"github.com/jingkaihe/lingo/pkg/db"
	"github.com/jingkaihe/lingo/pkg/extract"
	"github.com/jingkaihe/lingo/pkg/presenter"
	"github.com/jingkaihe/lingo/pkg/report"
	"github.com/jingkaihe/lingo/pkg/translate"
	"github.com/jingkaihe/lingo/pkg/translate/cache"
)

// ExtractConfig holds configuration for the extract command.
type ExtractConfig struct {
	Patterns []string
	Ignores  []string
	DryRun   bool
	ShowDiff bool
	Output   string
}

// NewExtractConfig creates an ExtractConfig with default values.
func NewExtractConfig() *ExtractConfig {
	return &ExtractConfig{
		Patterns: []string{"**/*.component.html"},
		Ignores:  []string{"node_modules/**", "dist/**"},
		Output:   "text",
	}
}

// Validate validates the ExtractConfig and returns an error if invalid.
func (c *ExtractConfig) Validate() error {
	if c.Output != "text" && c.Output != "json" {
		return errors.Errorf("invalid output format: %s, must be text or json", c.Output)
	}
	return nil
}

var extractCmd = &cobra.Command{
	Use:   "extract [template globs...]",
	Short: "Extract hardcoded strings from templates into the catalogs",
	Long: `Scan templates for hardcoded user-facing strings, rewrite them to
translation references and merge the new keys into every locale's catalog.

The merge is strictly additive: existing catalog values are never modified,
and re-running extraction over unchanged sources is a no-op. Catalogs are
only written after the whole run has been computed, one atomic write per
locale.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.FromViper()
		if err != nil {
			return err
		}
		ecfg := getExtractConfigFromFlags(cmd, args)
		if err := ecfg.Validate(); err != nil {
			return err
		}
		return runExtract(cmd.Context(), cfg, ecfg)
	},
}

func init() {
	defaults := NewExtractConfig()
	extractCmd.Flags().StringSlice("ignore", defaults.Ignores, "Glob patterns to exclude from discovery")
	extractCmd.Flags().Bool("dry-run", false, "Compute and report changes without writing anything")
	extractCmd.Flags().Bool("diff", false, "Show unified diffs of rewritten files")
	extractCmd.Flags().String("output", defaults.Output, "Report format (text, json)")
}

// getExtractConfigFromFlags extracts configuration from command flags.
func getExtractConfigFromFlags(cmd *cobra.Command, args []string) *ExtractConfig {
	cfg := NewExtractConfig()
	if len(args) > 0 {
		cfg.Patterns = args
	}
	if ignores, err := cmd.Flags().GetStringSlice("ignore"); err == nil {
		cfg.Ignores = ignores
	}
	if dryRun, err := cmd.Flags().GetBool("dry-run"); err == nil {
		cfg.DryRun = dryRun
	}
	if showDiff, err := cmd.Flags().GetBool("diff"); err == nil {
		cfg.ShowDiff = showDiff
	}
	if output, err := cmd.Flags().GetString("output"); err == nil {
		cfg.Output = output
	}
	return cfg
}

func runExtract(ctx context.Context, cfg *config.Config, ecfg *ExtractConfig) error {
	units, err := discoverUnits(ecfg.Patterns, ecfg.Ignores)
	if err != nil {
		return err
	}
	if len(units) == 0 {
		presenter.Warning("No templates matched.")
		return nil
	}

	// load catalogs first: a structural violation must abort the run
	// before any other side effect
	store := catalog.NewStore(cfg.CatalogDir, cfg.BaseLocale, cfg.Locales)
	catalogs, err := store.Load()
	if err != nil {
		return err
	}

	backend, cleanup, err := buildBackend(ctx, cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	runner := extract.NewRunner(extract.Options{
		Attributes:    cfg.Attributes,
		BaseLocale:    cfg.BaseLocale,
		Locales:       store.Locales(),
		Suffixes:      cfg.Suffixes,
		Workers:       cfg.Workers,
		Backend:       backend,
		BackendConfig: cfg.Backend,
	})
	res, err := runner.Run(ctx, units, catalogs)
	if err != nil {
		return err
	}

	if ecfg.ShowDiff {
		showDiffs(res.Units)
	}

	if !ecfg.DryRun {
		if err := writeOutputs(res, store); err != nil {
			return err
		}
	}

	rep := report.Build(res.Result, res.Merged, cfg.BaseLocale, store.Locales())
	if ecfg.Output == "json" {
		if err := rep.RenderJSON(os.Stdout); err != nil {
			return err
		}
	} else {
		presenter.Section("Extraction report")
		if err := rep.RenderText(os.Stdout); err != nil {
			return err
		}
	}

	presenter.ShowStats(presenter.Stats{
		Units:      len(units),
		NewKeys:    res.Result.NewKeys(),
		ReusedKeys: len(res.Result.Entries) - res.Result.NewKeys(),
		Skipped:    len(res.Result.Skipped),
		Locales:    len(store.Locales()),
	})
	if ecfg.DryRun {
		presenter.Info("Dry run: nothing was written.")
	} else {
		presenter.Success("Extraction complete.")
	}
	return nil
}

// buildBackend assembles the configured translation backend, wrapped with
// the sqlite translation memory unless caching is disabled. The returned
// cleanup closes the memory store.
func buildBackend(ctx context.Context, cfg *config.Config) (translate.Backend, func(), error) {
	noop := func() {}
	if cfg.Backend.Name == "" || cfg.Backend.Name == "none" {
		return nil, noop, nil
	}
	backend, err := translate.New(cfg.Backend)
	if err != nil {
		return nil, noop, err
	}
	if cfg.NoCache {
		return backend, noop, nil
	}

	dbPath, err := db.DefaultPath()
	if err != nil {
		return nil, noop, err
	}
	memory, err := cache.NewStore(ctx, dbPath)
	if err != nil {
		return nil, noop, err
	}
	cleanup := func() {
		if err := memory.Close(); err != nil {
			presenter.Error(err, "closing translation memory")
		}
	}
	return translate.Cached(backend, memory, cfg.Backend.Model), cleanup, nil
}

// writeOutputs persists rewritten sources and catalogs. Source writes are
// attempted for every unit and the failures aggregated, so one bad file does
// not leave the rest of the batch unwritten.
func writeOutputs(res *extract.RunResult, store *catalog.Store) error {
	var errs *multierror.Error
	for _, ur := range res.Units {
		if ur.TemplateChanged {
			if err := os.WriteFile(ur.Unit.TemplatePath, []byte(ur.Template), 0o644); err != nil {
				errs = multierror.Append(errs, errors.Wrapf(err, "failed to write %s", ur.Unit.TemplatePath))
			}
		}
		if ur.LogicChanged && ur.Unit.LogicPath != "" {
			if err := os.WriteFile(ur.Unit.LogicPath, []byte(ur.Logic), 0o644); err != nil {
				errs = multierror.Append(errs, errors.Wrapf(err, "failed to write %s", ur.Unit.LogicPath))
			}
		}
	}
	if err := store.Save(res.Merged); err != nil {
		errs = multierror.Append(errs, err)
	}
	return errs.ErrorOrNil()
}

func showDiffs(units []extract.UnitResult) {
	for _, ur := range units {
		if ur.TemplateChanged {
			fmt.Print(udiff.Unified(ur.Unit.TemplatePath, ur.Unit.TemplatePath, ur.Unit.Template, ur.Template))
		}
		if ur.LogicChanged {
			fmt.Print(udiff.Unified(ur.Unit.LogicPath, ur.Unit.LogicPath, ur.Unit.Logic, ur.Logic))
		}
	}
}
