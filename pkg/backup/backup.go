// Package backup preserves the pristine copy of a manifest before depfilter
// mutates it for the first time.
//
// The backup is a sibling file named after the manifest with a suffix
// inserted before the extension (requirements.txt -> requirements-original.txt).
// The original manifest is copied, never renamed, and the copy is recorded by
// a sentinel file next to it:
//
//	.requirements-original.txt.sentinel
//
// The sentinel, not the backup file name, decides whether a backup was
// already taken. Deleting the backup by hand therefore does not cause the
// next run to "back up" an already filtered manifest; the policy reports the
// missing backup instead.
package backup

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/depfilter/pkg/errors"
	"github.com/matzehuels/depfilter/pkg/fsutil"
)

// DefaultSuffix is inserted between the manifest stem and its extension.
const DefaultSuffix = "-original"

// Status describes what Ensure did.
type Status string

const (
	// StatusCreated means the manifest was copied and a sentinel written.
	StatusCreated Status = "created"
	// StatusAdopted means a backup file already existed without a sentinel;
	// it was kept as-is and a sentinel was written for it.
	StatusAdopted Status = "adopted"
	// StatusExisting means a sentinel already recorded a backup.
	StatusExisting Status = "existing"
)

// Record is the outcome of Ensure.
type Record struct {
	ID       string   // Backup identifier stored in the sentinel
	Source   string   // Manifest that was backed up
	Path     string   // Backup file
	Sentinel string   // Sentinel file
	Checksum string   // SHA-256 of the backup when it was recorded
	Status   Status   // What Ensure did
	Warnings []string // Problems with an earlier backup, never fatal
}

// Created reports whether this call produced a new backup file.
func (r *Record) Created() bool { return r.Status == StatusCreated }

// sentinel is the on-disk record of a backup.
type sentinel struct {
	ID        string    `yaml:"id"`
	Source    string    `yaml:"source"`
	Backup    string    `yaml:"backup"`
	SHA256    string    `yaml:"sha256"`
	CreatedAt time.Time `yaml:"created_at"`
}

// Policy backs up manifests once.
type Policy struct {
	// Suffix names the backup file. Empty means DefaultSuffix.
	Suffix string
	// Now returns the current time. Nil means time.Now.
	Now func() time.Time
}

// Default returns a policy with the default suffix.
func Default() *Policy {
	return &Policy{Suffix: DefaultSuffix}
}

func (p *Policy) suffix() string {
	if p == nil || p.Suffix == "" {
		return DefaultSuffix
	}
	return p.Suffix
}

func (p *Policy) now() time.Time {
	if p == nil || p.Now == nil {
		return time.Now().UTC()
	}
	return p.Now().UTC()
}

// Sibling returns path with suffix inserted between the file stem and its
// extension: Sibling("a/requirements.txt", "-filtered") is
// "a/requirements-filtered.txt".
func Sibling(path, suffix string) string {
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + suffix + ext
}

// PathFor returns the backup path for a manifest.
func (p *Policy) PathFor(path string) string {
	return Sibling(path, p.suffix())
}

// SentinelFor returns the sentinel path for a manifest.
func (p *Policy) SentinelFor(path string) string {
	b := p.PathFor(path)
	return filepath.Join(filepath.Dir(b), "."+filepath.Base(b)+".sentinel")
}

// Ensure preserves path before its first mutation. It is safe to call on
// every run: once a sentinel exists the call only verifies the recorded
// backup and never overwrites it.
func (p *Policy) Ensure(path string) (*Record, error) {
	rec := &Record{
		Source:   path,
		Path:     p.PathFor(path),
		Sentinel: p.SentinelFor(path),
	}

	s, err := readSentinel(rec.Sentinel)
	if err != nil {
		return nil, err
	}
	if s != nil {
		rec.ID, rec.Checksum, rec.Status = s.ID, s.SHA256, StatusExisting
		rec.Warnings = verify(rec)
		return rec, nil
	}

	exists, err := fsutil.Exists(rec.Path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeBackup, err, "inspect %s", rec.Path)
	}
	if exists {
		rec.Status = StatusAdopted
	} else {
		if err := fsutil.CopyFile(path, rec.Path); err != nil {
			return nil, errors.Wrap(errors.ErrCodeBackup, err, "copy %s to %s", path, rec.Path)
		}
		rec.Status = StatusCreated
	}

	sum, err := fsutil.HashFile(rec.Path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeBackup, err, "checksum %s", rec.Path)
	}
	rec.Checksum = sum
	rec.ID = uuid.NewString()

	if err := writeSentinel(rec.Sentinel, sentinel{
		ID:        rec.ID,
		Source:    filepath.Base(path),
		Backup:    filepath.Base(rec.Path),
		SHA256:    sum,
		CreatedAt: p.now(),
	}); err != nil {
		return nil, err
	}
	return rec, nil
}

// verify checks a recorded backup against its sentinel.
func verify(rec *Record) []string {
	exists, err := fsutil.Exists(rec.Path)
	if err != nil {
		return []string{"cannot inspect backup " + rec.Path + ": " + err.Error()}
	}
	if !exists {
		return []string{"backup " + rec.Path + " is missing; the original manifest can no longer be restored from it"}
	}
	sum, err := fsutil.HashFile(rec.Path)
	if err != nil {
		return []string{"cannot checksum backup " + rec.Path + ": " + err.Error()}
	}
	if sum != rec.Checksum {
		return []string{"backup " + rec.Path + " changed since it was recorded"}
	}
	return nil
}

func readSentinel(path string) (*sentinel, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeBackup, err, "read sentinel %s", path)
	}
	var s sentinel
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, errors.Wrap(errors.ErrCodeBackup, err, "decode sentinel %s", path)
	}
	return &s, nil
}

func writeSentinel(path string, s sentinel) error {
	data, err := yaml.Marshal(s)
	if err != nil {
		return errors.Wrap(errors.ErrCodeBackup, err, "encode sentinel %s", path)
	}
	if err := fsutil.AtomicWrite(path, data, 0644); err != nil {
		return errors.Wrap(errors.ErrCodeBackup, err, "write sentinel %s", path)
	}
	return nil
}
