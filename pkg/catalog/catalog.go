// Package catalog loads the override catalog: the set of packages (and exact
// versions) that a GPU vendor runtime image already provides.
//
// The catalog file is a flat list of `name==version` pairs, one per line, as
// produced by `pip freeze` inside the vendor image:
//
//	torch==2.1.0
//	torchvision==0.16.0
//	pytorch-triton-rocm==2.1.0
//
// Names are case-folded so lookups match the canonical names produced by
// [manifest.PackageName]. Lines without `==` are ignored.
package catalog

import (
	"bufio"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/matzehuels/depfilter/pkg/errors"
)

// DefaultFile is the catalog file name used when none is configured.
const DefaultFile = "rocm-provided.txt"

// separator splits a catalog line into name and version.
const separator = "=="

// Options configures catalog loading.
type Options struct {
	// Logger receives non-fatal warnings (e.g. missing catalog file).
	// A nil Logger discards them.
	Logger func(msg string, args ...any)
}

func (o Options) warn(msg string, args ...any) {
	if o.Logger != nil {
		o.Logger(msg, args...)
	}
}

// Catalog maps canonical (lower-cased) package names to the exact version
// provided by the runtime image. The zero value is an empty catalog.
type Catalog struct {
	path     string
	versions map[string]string
	ignored  int
}

// New builds a catalog from a name → version map. Names are case-folded.
func New(versions map[string]string) *Catalog {
	c := &Catalog{versions: make(map[string]string, len(versions))}
	for name, v := range versions {
		c.versions[strings.ToLower(strings.TrimSpace(name))] = v
	}
	return c
}

// Load reads the catalog at path. A missing file is not an error: Load
// returns an empty catalog and reports a warning through opts.Logger so the
// rest of the pipeline still runs and simply finds no collisions.
func Load(path string, opts Options) (*Catalog, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		opts.warn("Catalog %s not found, no packages will be filtered", path)
		return &Catalog{path: path, versions: map[string]string{}}, nil
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeFileRead, err, "open catalog %s", path)
	}
	defer f.Close()

	c, err := Parse(f)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeFileRead, err, "read catalog %s", path)
	}
	c.path = path
	return c, nil
}

// Parse reads catalog lines from r. A later line with the same name
// overwrites an earlier one.
func Parse(r io.Reader) (*Catalog, error) {
	c := &Catalog{versions: make(map[string]string)}

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		name, version, ok := strings.Cut(line, separator)
		if !ok {
			c.ignored++
			continue
		}
		name = strings.ToLower(strings.TrimSpace(name))
		if errors.ValidatePackageName(name) != nil {
			c.ignored++
			continue
		}
		c.versions[name] = version
	}

	return c, scanner.Err()
}

// Lookup returns the provided version for a canonical package name.
func (c *Catalog) Lookup(name string) (string, bool) {
	if c == nil {
		return "", false
	}
	v, ok := c.versions[name]
	return v, ok
}

// Len returns the number of distinct packages in the catalog.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.versions)
}

// Names returns the catalog package names in sorted order.
func (c *Catalog) Names() []string {
	if c == nil {
		return nil
	}
	names := make([]string, 0, len(c.versions))
	for name := range c.versions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Path returns the file the catalog was loaded from, if any.
func (c *Catalog) Path() string {
	if c == nil {
		return ""
	}
	return c.path
}

// Ignored returns the number of non-empty lines that carried no `==` pair.
func (c *Catalog) Ignored() int {
	if c == nil {
		return 0
	}
	return c.ignored
}
