// Package requirements filters flat, line-oriented requirements.txt
// manifests.
//
// Colliding lines are never removed. They are turned into comments that name
// the package and the version the runtime image provides:
//
//	# torch==2.0.0  # Skipped: vendor provides torch==2.1.0
//
// The result is written to a sibling file (requirements-filtered.txt); the
// input manifest itself is left untouched.
package requirements

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/matzehuels/depfilter/pkg/backup"
	"github.com/matzehuels/depfilter/pkg/catalog"
	"github.com/matzehuels/depfilter/pkg/errors"
	"github.com/matzehuels/depfilter/pkg/fsutil"
	"github.com/matzehuels/depfilter/pkg/manifest"
)

// maxLineSize bounds a single manifest line.
const maxLineSize = 1 << 20

// Filter handles requirements.txt style manifests.
type Filter struct{}

func (f *Filter) Type() string { return string(manifest.FormatRequirements) }

// Supports reports whether name is a flat manifest. Dispatch is by
// extension, so requirements-dev.txt and constraints.txt both qualify.
func (f *Filter) Supports(name string) bool {
	return strings.EqualFold(filepath.Ext(name), ".txt")
}

// Filter comments out every line of path whose package the catalog provides
// and writes the result next to path.
func (f *Filter) Filter(path string, cat *catalog.Catalog, opts manifest.Options) (*manifest.Result, error) {
	m, err := Read(path)
	if err != nil {
		return nil, err
	}

	lines, skipped, kept := Apply(m, cat)
	res := &manifest.Result{
		Type:    f.Type(),
		Source:  path,
		Output:  backup.Sibling(path, opts.OutputSuffix()),
		Skipped: skipped,
		Kept:    kept,
		DryRun:  opts.DryRun,
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

	if err := fsutil.AtomicWrite(res.Output, Render(lines), fsutil.FileMode(path, 0644)); err != nil {
		return nil, errors.Wrap(errors.ErrCodeFileWrite, err, "write %s", res.Output)
	}
	return res, nil
}

// Read parses path into a flat manifest. Trailing whitespace is dropped from
// every line; everything else is preserved.
func Read(path string) (*manifest.Manifest, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, errors.New(errors.ErrCodeFileNotFound, "%s not found", path)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeFileRead, err, "open %s", path)
	}
	defer f.Close()

	m := &manifest.Manifest{Format: manifest.FormatRequirements}
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	for scanner.Scan() {
		line := strings.TrimRightFunc(scanner.Text(), unicode.IsSpace)
		m.Entries = append(m.Entries, manifest.Classify(line))
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeFileRead, err, "read %s", path)
	}
	return m, nil
}

// Apply decides every entry of m against cat. It returns the output lines
// (one per input entry, in order), the collisions, and the number of
// dependency lines that were kept.
func Apply(m *manifest.Manifest, cat *catalog.Catalog) ([]string, []manifest.Skip, int) {
	lines := make([]string, 0, len(m.Entries))
	var skipped []manifest.Skip
	kept := 0

	for _, e := range m.Entries {
		skip, ok := manifest.Check(e, cat)
		if !ok {
			if e.IsDependency() {
				kept++
			}
			lines = append(lines, e.Raw)
			continue
		}
		skipped = append(skipped, skip)
		lines = append(lines, CommentOut(e.Raw, skip))
	}
	return lines, skipped, kept
}

// CommentOut turns a colliding line into an annotated comment.
func CommentOut(line string, skip manifest.Skip) string {
	return fmt.Sprintf("# %s  # Skipped: %s", line, skip.Reason())
}

// Render joins lines into file content terminated by a newline.
func Render(lines []string) []byte {
	if len(lines) == 0 {
		return nil
	}
	return []byte(strings.Join(lines, "\n") + "\n")
}
