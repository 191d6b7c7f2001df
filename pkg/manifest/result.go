package manifest

import "github.com/matzehuels/depfilter/pkg/backup"

// Result describes what a filter did to a manifest.
type Result struct {
	Type        string         // Filter type that produced this result
	Source      string         // Manifest that was read
	Output      string         // File that was (or would be) written
	Backup      *backup.Record // Backup outcome, nil on dry runs
	Skipped     []Skip         // Entries removed because of a collision
	Kept        int            // Dependency entries left untouched
	Placeholder []string       // Sections replaced by a placeholder comment
	DryRun      bool           // Nothing was written
}

// Lossy reports whether part of the document was not carried over verbatim.
func (r *Result) Lossy() bool { return len(r.Placeholder) > 0 }
