package manifest

import (
	"regexp"
	"strings"
)

var nameRE = regexp.MustCompile(`^[a-zA-Z0-9_-]+`)

// PackageName returns the canonical package name of a dependency specifier:
// the longest leading run of letters, digits, underscores and hyphens,
// lower-cased. It reports false when the specifier does not start with one
// of those characters; such entries never collide.
func PackageName(spec string) (string, bool) {
	m := nameRE.FindString(spec)
	if m == "" {
		return "", false
	}
	return strings.ToLower(m), true
}

// Classify turns one line of a flat manifest into an Entry. Blank lines and
// comments pass through; everything else is a dependency candidate whose
// name is extracted with PackageName.
func Classify(line string) Entry {
	e := Entry{Raw: line}
	trimmed := strings.TrimSpace(line)
	if trimmed == "" || strings.HasPrefix(trimmed, "#") {
		return e
	}
	e.Name, _ = PackageName(trimmed)
	return e
}

// Specifier builds an Entry from a single specifier string of a structured
// manifest.
func Specifier(spec string) Entry {
	name, _ := PackageName(strings.TrimSpace(spec))
	return Entry{Raw: spec, Name: name}
}
