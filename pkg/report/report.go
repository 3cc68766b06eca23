// Package report assembles the per-run change table: one row per key added
// by the run, with the base-locale value and every other locale's value.
// Reused keys produce no row, which keeps the report proportional to the
// work actually done rather than to catalog size.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/fatih/color"

	"github.com/jingkaihe/lingo/pkg/catalog"
	i18ntypes "github.com/jingkaihe/lingo/pkg/types/i18n"
)

// Row is one newly added key and its values across locales.
type Row struct {
	Key    string            `json:"key"`
	Base   string            `json:"base"`
	Values map[string]string `json:"values,omitempty"`
}

// Report is the full change table for one extraction run.
type Report struct {
	RunID       string    `json:"runId"`
	GeneratedAt time.Time `json:"generatedAt"`
	BaseLocale  string    `json:"baseLocale"`
	Locales     []string  `json:"locales"`
	Rows        []Row     `json:"rows"`
	Skipped     []string  `json:"skipped,omitempty"`
}

// Build assembles the report from an extraction result and the merged
// catalogs. Values are read back from the merged catalogs so the rows show
// exactly what was persisted, pending placeholders included.
func Build(result *i18ntypes.ExtractionResult, merged map[string]catalog.Catalog, baseLocale string, locales []string) *Report {
	r := &Report{
		RunID:       result.RunID,
		GeneratedAt: time.Now().UTC(),
		BaseLocale:  baseLocale,
		Locales:     locales,
	}

	for _, e := range result.Entries {
		if e.Reused {
			continue
		}
		row := Row{
			Key:    e.Key.Qualified(),
			Base:   e.BaseText,
			Values: map[string]string{},
		}
		for _, loc := range locales {
			if loc == baseLocale {
				continue
			}
			if c, ok := merged[loc]; ok {
				if v, ok := c.Get(e.Key.Namespace, e.Key.Key); ok {
					row.Values[loc] = v
				}
			}
		}
		r.Rows = append(r.Rows, row)
	}
	sort.Slice(r.Rows, func(i, j int) bool { return r.Rows[i].Key < r.Rows[j].Key })

	for _, s := range result.Skipped {
		r.Skipped = append(r.Skipped, s.String())
	}
	return r
}

// RenderJSON writes the report as indented JSON.
func (r *Report) RenderJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

// RenderText writes the human-readable change table.
func (r *Report) RenderText(w io.Writer) error {
	if len(r.Rows) == 0 && len(r.Skipped) == 0 {
		fmt.Fprintln(w, "No changes: all strings already extracted.")
		return nil
	}

	if len(r.Rows) > 0 {
		header := color.New(color.Bold)
		header.Fprintf(w, "Added %d key(s):\n\n", len(r.Rows))

		tw := tabwriter.NewWriter(w, 2, 4, 2, ' ', 0)
		fmt.Fprintf(tw, "KEY\t%s", r.BaseLocale)
		for _, loc := range r.Locales {
			if loc != r.BaseLocale {
				fmt.Fprintf(tw, "\t%s", loc)
			}
		}
		fmt.Fprintln(tw)
		for _, row := range r.Rows {
			fmt.Fprintf(tw, "%s\t%s", row.Key, row.Base)
			for _, loc := range r.Locales {
				if loc != r.BaseLocale {
					fmt.Fprintf(tw, "\t%s", row.Values[loc])
				}
			}
			fmt.Fprintln(tw)
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}

	if len(r.Skipped) > 0 {
		warn := color.New(color.FgYellow)
		warn.Fprintf(w, "\nSkipped %d unit(s):\n", len(r.Skipped))
		for _, s := range r.Skipped {
			fmt.Fprintf(w, "  - %s\n", s)
		}
	}
	return nil
}
