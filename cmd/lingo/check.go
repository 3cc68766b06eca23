package main

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/jingkaihe/lingo/pkg/catalog"
	"github.com/jingkaihe/lingo/pkg/config"
	"github.com/jingkaihe/lingo/pkg/presenter"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate catalog structure and locale synchronization",
	Long: `Load every locale's catalog and verify the structural invariants: nested
namespace objects with no flat dotted keys, and identical key sets across all
locales. Exits non-zero on any violation. Nothing is written.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.FromViper()
		if err != nil {
			return err
		}
		return runCheck(cfg)
	},
}

func runCheck(cfg *config.Config) error {
	store := catalog.NewStore(cfg.CatalogDir, cfg.BaseLocale, cfg.Locales)

	// Load performs structural validation; a flat dotted key or malformed
	// namespace surfaces here
	catalogs, err := store.Load()
	if err != nil {
		return err
	}

	base := catalogs[cfg.BaseLocale]
	drift := false
	for _, loc := range store.Locales() {
		if loc == cfg.BaseLocale {
			continue
		}
		c := catalogs[loc]
		for _, missing := range c.Diff(base) {
			presenter.Warning(fmt.Sprintf("%s: missing key %s", loc, missing))
			drift = true
		}
		for _, extra := range base.Diff(c) {
			presenter.Warning(fmt.Sprintf("%s: key %s absent from base locale %s", loc, extra, cfg.BaseLocale))
			drift = true
		}
		pending := 0
		for _, ns := range c.Namespaces() {
			keys, _ := c.Namespace(ns)
			for _, v := range keys {
				if catalog.IsPending(v) {
					pending++
				}
			}
		}
		if pending > 0 {
			presenter.Info(fmt.Sprintf("%s: %d key(s) pending translation", loc, pending))
		}
	}

	if drift {
		return errors.New("catalogs are out of sync")
	}
	presenter.Success(fmt.Sprintf("%d locale(s) structurally valid and in sync (%d keys).", len(store.Locales()), base.Len()))
	return nil
}
