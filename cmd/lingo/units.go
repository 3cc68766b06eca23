package main

import (
	"os"
	"regexp"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/gobwas/glob"
	"github.com/pkg/errors"

	i18ntypes "github.com/jingkaihe/lingo/pkg/types/i18n"
)

var classRE = regexp.MustCompile(`(?m)\bclass\s+([A-Za-z][A-Za-z0-9_]*)`)

// discoverUnits expands the template globs, drops ignored paths and loads
// each template together with its companion logic file. Discovery is a CLI
// concern: the pipeline itself only ever sees in-memory source units.
func discoverUnits(patterns, ignores []string) ([]i18ntypes.SourceUnit, error) {
	matchers := make([]glob.Glob, 0, len(ignores))
	for _, pattern := range ignores {
		g, err := glob.Compile(pattern)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid ignore pattern %q", pattern)
		}
		matchers = append(matchers, g)
	}

	seen := map[string]bool{}
	var paths []string
	for _, pattern := range patterns {
		matches, err := doublestar.FilepathGlob(pattern)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid template pattern %q", pattern)
		}
	match:
		for _, m := range matches {
			if seen[m] {
				continue
			}
			for _, g := range matchers {
				if g.Match(m) {
					continue match
				}
			}
			seen[m] = true
			paths = append(paths, m)
		}
	}
	sort.Strings(paths)

	units := make([]i18ntypes.SourceUnit, 0, len(paths))
	for _, path := range paths {
		unit, err := loadUnit(path)
		if err != nil {
			return nil, err
		}
		units = append(units, unit)
	}
	return units, nil
}

// loadUnit reads one template and, when present, its companion logic file
// (same path with .ts instead of .html).
func loadUnit(templatePath string) (i18ntypes.SourceUnit, error) {
	template, err := os.ReadFile(templatePath)
	if err != nil {
		return i18ntypes.SourceUnit{}, errors.Wrapf(err, "failed to read template %s", templatePath)
	}

	logicPath := strings.TrimSuffix(templatePath, ".html") + ".ts"
	var logic []byte
	if data, err := os.ReadFile(logicPath); err == nil {
		logic = data
	} else {
		logicPath = ""
	}

	return i18ntypes.SourceUnit{
		Component:    componentIdentifier(templatePath, string(logic)),
		TemplatePath: templatePath,
		LogicPath:    logicPath,
		Template:     string(template),
		Logic:        string(logic),
	}, nil
}

// componentIdentifier prefers the class name declared in the logic file and
// falls back to deriving a Pascal-case identifier from the template file
// name ("user-profile.component.html" -> "UserProfileComponent").
func componentIdentifier(templatePath, logic string) string {
	if m := classRE.FindStringSubmatch(logic); m != nil {
		return m[1]
	}

	base := templatePath
	if i := strings.LastIndexAny(base, "/\\"); i >= 0 {
		base = base[i+1:]
	}
	base = strings.TrimSuffix(base, ".html")
	base = strings.TrimSuffix(base, ".component")

	var b strings.Builder
	for _, part := range strings.FieldsFunc(base, func(r rune) bool {
		return r == '-' || r == '_' || r == '.' || r == ' '
	}) {
		b.WriteString(strings.ToUpper(part[:1]) + part[1:])
	}
	b.WriteString("Component")
	return b.String()
}
