package manifest

import (
	"fmt"
	"strings"

	"github.com/matzehuels/depfilter/pkg/catalog"
)

// Format identifies the manifest layout.
type Format string

const (
	// FormatRequirements is the flat, line-oriented requirements.txt format.
	FormatRequirements Format = "requirements"
	// FormatPyproject is the structured pyproject.toml format.
	FormatPyproject Format = "pyproject"
)

// Entry is one logical unit of a manifest. Entries with an empty Name are
// pass-through content: blank lines, comments, and anything that does not
// start with a package name character (e.g. "./local-package").
type Entry struct {
	Raw  string // Original text, unmodified
	Name string // Canonical package name, empty when not a dependency
}

// IsDependency reports whether the entry carries a package name.
func (e Entry) IsDependency() bool { return e.Name != "" }

// Group is a named dependency array of a structured manifest. The primary
// [project] dependencies form the group with an empty name.
type Group struct {
	Name    string
	Entries []Entry
}

// Manifest is an ordered sequence of entries tagged with its format.
// Structured manifests also carry their groups in document order; the
// primary group, when present, comes first.
type Manifest struct {
	Format  Format
	Entries []Entry
	Groups  []Group
}

// Skip records an entry that was removed because the runtime image already
// provides the package.
type Skip struct {
	Spec    string // Original specifier, trimmed
	Name    string // Canonical package name
	Version string // Version provided by the catalog
	Group   string // Optional-dependency group, empty for the primary list
}

// Reason describes why the entry was skipped.
func (s Skip) Reason() string {
	return fmt.Sprintf("vendor provides %s==%s", s.Name, s.Version)
}

// String renders the skip for the summary report, e.g.
// "torch==2.0.0 (vendor provides torch==2.1.0) [from gpu]".
func (s Skip) String() string {
	out := fmt.Sprintf("%s (%s)", s.Spec, s.Reason())
	if s.Group != "" {
		out += fmt.Sprintf(" [from %s]", s.Group)
	}
	return out
}

// Check decides whether e collides with the catalog. Pass-through entries
// never collide.
func Check(e Entry, cat *catalog.Catalog) (Skip, bool) {
	if !e.IsDependency() {
		return Skip{}, false
	}
	version, ok := cat.Lookup(e.Name)
	if !ok {
		return Skip{}, false
	}
	return Skip{Spec: strings.TrimSpace(e.Raw), Name: e.Name, Version: version}, true
}
