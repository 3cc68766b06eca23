// Package binder idempotently wires the translation capability into a
// component's companion logic file. Both edits are localized: the module
// import goes after the last existing import, the service binding becomes a
// constructor parameter. Files that already carry the canonical binding are
// returned unchanged.
package binder

import (
	"regexp"
	"strings"
)

const (
	// serviceToken is the canonical translation capability.
	serviceToken = "TranslateService"
	importLine   = "import { TranslateService } from '@ngx-translate/core';"
	fieldBinding = "private translate: TranslateService"
)

var (
	importRE      = regexp.MustCompile(`(?m)^import\b.*;\s*$`)
	constructorRE = regexp.MustCompile(`constructor\s*\(`)
	classBodyRE   = regexp.MustCompile(`(?m)^(?:export\s+)?(?:default\s+)?(?:abstract\s+)?class\s+\w+[^{]*\{`)
)

// Bind ensures the logic text imports and injects the translation service.
// It returns the (possibly rewritten) text and whether anything changed;
// calling it on its own output is always a no-op.
func Bind(logic string) (string, bool) {
	out := logic
	changed := false

	if !hasImport(out) {
		out = insertImport(out)
		changed = true
	}
	if !hasBinding(out) {
		if rewritten, ok := insertBinding(out); ok {
			out = rewritten
			changed = true
		}
	}
	return out, changed
}

func hasImport(logic string) bool {
	for _, m := range importRE.FindAllString(logic, -1) {
		if strings.Contains(m, serviceToken) {
			return true
		}
	}
	return false
}

func hasBinding(logic string) bool {
	// any non-import mention of the service counts as a binding: fields,
	// constructor parameters and inject() calls all satisfy the contract
	for _, line := range strings.Split(logic, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "import") {
			continue
		}
		if strings.Contains(trimmed, serviceToken) {
			return true
		}
	}
	return false
}

// insertImport places the import line after the last existing import, or at
// the top of the file when there are none.
func insertImport(logic string) string {
	locs := importRE.FindAllStringIndex(logic, -1)
	if len(locs) == 0 {
		return importLine + "\n" + logic
	}
	last := locs[len(locs)-1]
	end := last[1]
	// keep the trailing newline of the previous import intact
	for end < len(logic) && logic[end] != '\n' {
		end++
	}
	if end < len(logic) {
		end++
	}
	return logic[:end] + importLine + "\n" + logic[end:]
}

// insertBinding injects the service as a constructor parameter, adding a
// constructor when the class has none. It reports false when no class body
// can be located; the caller treats that as nothing to bind.
func insertBinding(logic string) (string, bool) {
	if loc := constructorRE.FindStringIndex(logic); loc != nil {
		insert := fieldBinding
		rest := strings.TrimLeft(logic[loc[1]:], " \t\n")
		if !strings.HasPrefix(rest, ")") {
			insert += ", "
		}
		return logic[:loc[1]] + insert + logic[loc[1]:], true
	}
	if loc := classBodyRE.FindStringIndex(logic); loc != nil {
		ctor := "\n  constructor(" + fieldBinding + ") {}\n"
		return logic[:loc[1]] + ctor + logic[loc[1]:], true
	}
	return logic, false
}
