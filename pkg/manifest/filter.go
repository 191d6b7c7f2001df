package manifest

import (
	"path/filepath"
	"strings"

	"github.com/matzehuels/depfilter/pkg/backup"
	"github.com/matzehuels/depfilter/pkg/catalog"
	"github.com/matzehuels/depfilter/pkg/errors"
)

// Filter removes catalog-provided dependencies from a manifest file.
type Filter interface {
	// Filter reads the manifest at path, removes colliding entries and
	// writes the filtered manifest. Nothing is written when an error is
	// returned.
	Filter(path string, cat *catalog.Catalog, opts Options) (*Result, error)
	// Supports reports whether this filter handles the given filename.
	Supports(filename string) bool
	// Type returns the filter type identifier (e.g., "requirements").
	Type() string
}

// Options configures a filter run.
type Options struct {
	// Backup preserves the pristine manifest before the first write.
	// A nil Backup uses backup.Default().
	Backup *backup.Policy
	// DryRun computes the result without touching the filesystem.
	DryRun bool
	// Suffix names the sibling output file of filters that do not rewrite
	// in place. Empty means DefaultSuffix.
	Suffix string
	// Logger receives non-fatal warnings. A nil Logger discards them.
	Logger func(msg string, args ...any)
}

// DefaultSuffix is appended to the stem of a flat manifest to name its
// filtered sibling (requirements.txt -> requirements-filtered.txt).
const DefaultSuffix = "-filtered"

// Warn forwards a warning to the configured logger, if any.
func (o Options) Warn(msg string, args ...any) {
	if o.Logger != nil {
		o.Logger(msg, args...)
	}
}

// BackupPolicy returns the configured policy or the default one.
func (o Options) BackupPolicy() *backup.Policy {
	if o.Backup != nil {
		return o.Backup
	}
	return backup.Default()
}

// OutputSuffix returns the configured suffix or DefaultSuffix.
func (o Options) OutputSuffix() string {
	if o.Suffix != "" {
		return o.Suffix
	}
	return DefaultSuffix
}

// Detect finds a filter that supports the given file path.
// Returns an UNSUPPORTED error if no filter matches.
func Detect(path string, filters ...Filter) (Filter, error) {
	name := filepath.Base(path)
	for _, f := range filters {
		if f.Supports(name) {
			return f, nil
		}
	}
	types := make([]string, 0, len(filters))
	for _, f := range filters {
		types = append(types, f.Type())
	}
	return nil, errors.New(errors.ErrCodeUnsupported,
		"unsupported file type %q (supported: %s)", filepath.Ext(name), strings.Join(types, ", "))
}
