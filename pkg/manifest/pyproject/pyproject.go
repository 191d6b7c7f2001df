package pyproject

import (
	"path/filepath"
	"strings"

	"github.com/matzehuels/depfilter/pkg/catalog"
	"github.com/matzehuels/depfilter/pkg/errors"
	"github.com/matzehuels/depfilter/pkg/fsutil"
	"github.com/matzehuels/depfilter/pkg/manifest"
)

// Filter handles pyproject.toml style manifests.
type Filter struct{}

func (f *Filter) Type() string { return string(manifest.FormatPyproject) }

// Supports reports whether name is a structured manifest.
func (f *Filter) Supports(name string) bool {
	return strings.EqualFold(filepath.Ext(name), ".toml")
}

// Filter drops every dependency of path whose package the catalog provides
// and rewrites path in place. The new content is rendered completely before
// the backup is taken and the file is replaced.
func (f *Filter) Filter(path string, cat *catalog.Catalog, opts manifest.Options) (*manifest.Result, error) {
	doc, err := Read(path)
	if err != nil {
		return nil, err
	}

	skipped, kept := doc.Apply(cat)
	out, placeholders, err := doc.Render()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidManifest, err, "render %s", path)
	}

	res := &manifest.Result{
		Type:        f.Type(),
		Source:      path,
		Output:      path,
		Skipped:     skipped,
		Kept:        kept,
		Placeholder: placeholders,
		DryRun:      opts.DryRun,
	}
	if doc.project == nil {
		opts.Warn("%s has no [project] table, nothing to filter", path)
	}
	if opts.DryRun {
		return res, nil
	}

	rec, err := opts.BackupPolicy().Ensure(path)
	if err != nil {
		return nil, err
	}
	for _, w := range rec.Warnings {
		opts.Warn("%s", w)
	}
	res.Backup = rec

	if err := fsutil.AtomicWrite(path, out, fsutil.FileMode(path, 0644)); err != nil {
		return nil, errors.Wrap(errors.ErrCodeFileWrite, err, "write %s", path)
	}
	return res, nil
}
