package pyproject

import (
	"fmt"
	"os"
	"sort"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/depfilter/pkg/catalog"
	"github.com/matzehuels/depfilter/pkg/errors"
	"github.com/matzehuels/depfilter/pkg/manifest"
)

const (
	projectKey  = "project"
	depsKey     = "dependencies"
	optionalKey = "optional-dependencies"
)

// Document is a decoded pyproject.toml together with its dependency groups.
type Document struct {
	// Manifest holds the dependency groups in document order. The primary
	// dependency array, when present, is the group with an empty name.
	Manifest *manifest.Manifest

	data        map[string]any
	meta        toml.MetaData
	project     map[string]any
	hasPrimary  bool
	hasOptional bool
}

// Read decodes the manifest at path.
func Read(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, errors.New(errors.ErrCodeFileNotFound, "%s not found", path)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeFileRead, err, "read %s", path)
	}
	doc, err := Parse(data)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidManifest, err, "parse %s", path)
	}
	return doc, nil
}

// Parse decodes a pyproject.toml document and validates the shape of its
// dependency declarations.
func Parse(data []byte) (*Document, error) {
	doc := &Document{Manifest: &manifest.Manifest{Format: manifest.FormatPyproject}}

	meta, err := toml.Decode(string(data), &doc.data)
	if err != nil {
		return nil, err
	}
	doc.meta = meta

	raw, ok := doc.data[projectKey]
	if !ok {
		return doc, nil
	}
	doc.project, ok = raw.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%s must be a table, got %T", projectKey, raw)
	}

	if v, ok := doc.project[depsKey]; ok {
		specs, err := stringArray(v)
		if err != nil {
			return nil, fmt.Errorf("%s.%s: %w", projectKey, depsKey, err)
		}
		doc.hasPrimary = true
		doc.addGroup("", specs)
	}

	if v, ok := doc.project[optionalKey]; ok {
		groups, ok := v.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%s.%s must be a table, got %T", projectKey, optionalKey, v)
		}
		doc.hasOptional = true
		for _, name := range doc.orderedKeys(groups, projectKey, optionalKey) {
			specs, err := stringArray(groups[name])
			if err != nil {
				return nil, fmt.Errorf("%s.%s.%s: %w", projectKey, optionalKey, name, err)
			}
			doc.addGroup(name, specs)
		}
	}

	return doc, nil
}

func (d *Document) addGroup(name string, specs []string) {
	g := manifest.Group{Name: name, Entries: make([]manifest.Entry, 0, len(specs))}
	for _, s := range specs {
		e := manifest.Specifier(s)
		g.Entries = append(g.Entries, e)
		d.Manifest.Entries = append(d.Manifest.Entries, e)
	}
	d.Manifest.Groups = append(d.Manifest.Groups, g)
}

// Apply drops every colliding entry from the document's groups. It returns
// the collisions, tagged with their group name, and the number of kept
// entries.
func (d *Document) Apply(cat *catalog.Catalog) ([]manifest.Skip, int) {
	var skipped []manifest.Skip
	kept := 0

	for i, g := range d.Manifest.Groups {
		filtered := make([]manifest.Entry, 0, len(g.Entries))
		for _, e := range g.Entries {
			if skip, ok := manifest.Check(e, cat); ok {
				skip.Group = g.Name
				skipped = append(skipped, skip)
				continue
			}
			filtered = append(filtered, e)
		}
		kept += len(filtered)
		d.Manifest.Groups[i].Entries = filtered
	}
	return skipped, kept
}

// group returns the current entries of the named group.
func (d *Document) group(name string) []manifest.Entry {
	for _, g := range d.Manifest.Groups {
		if g.Name == name {
			return g.Entries
		}
	}
	return nil
}

// orderedKeys returns the keys of m in document order. The decoder metadata
// records every key path it saw; keys it did not record are appended in
// sorted order.
func (d *Document) orderedKeys(m map[string]any, prefix ...string) []string {
	seen := make(map[string]bool, len(m))
	keys := make([]string, 0, len(m))

	for _, k := range d.meta.Keys() {
		if len(k) != len(prefix)+1 || !hasPrefix(k, prefix) {
			continue
		}
		name := k[len(prefix)]
		if _, ok := m[name]; !ok || seen[name] {
			continue
		}
		seen[name] = true
		keys = append(keys, name)
	}

	var rest []string
	for name := range m {
		if !seen[name] {
			rest = append(rest, name)
		}
	}
	sort.Strings(rest)
	return append(keys, rest...)
}

func hasPrefix(k toml.Key, prefix []string) bool {
	for i, p := range prefix {
		if k[i] != p {
			return false
		}
	}
	return true
}

// stringArray converts a decoded TOML array into strings.
func stringArray(v any) ([]string, error) {
	switch arr := v.(type) {
	case []string:
		return arr, nil
	case []any:
		out := make([]string, 0, len(arr))
		for i, item := range arr {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("entry %d must be a string, got %T", i, item)
			}
			out = append(out, s)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("must be an array of strings, got %T", v)
	}
}
