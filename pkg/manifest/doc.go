// Package manifest provides the shared model and helpers for filtering Python
// dependency manifests against an override catalog.
//
// # Overview
//
// A manifest is a dependency declaration file in one of two formats:
//
//   - Flat (requirements.txt): one specifier per line, see package requirements
//   - Structured (pyproject.toml): dependency arrays inside [project], see
//     package pyproject
//
// Both formats share the same collision rule. [PackageName] reduces a
// specifier such as "my_pkg[extra]==1.2" to its canonical name ("my_pkg"),
// and an entry collides when that name is present in the catalog.
//
// What happens to a collision differs per format, on purpose:
//
//   - Flat: the line is kept but commented out with the reason
//   - Structured: the entry is dropped from the emitted array
//
// # Filters
//
// Each format implements [Filter]. [Detect] picks the filter by file
// extension and reports an UNSUPPORTED error for anything else:
//
//	f, err := manifest.Detect(path, &requirements.Filter{}, &pyproject.Filter{})
//	if err != nil {
//	    return err
//	}
//	res, err := f.Filter(path, cat, manifest.Options{Backup: policy})
package manifest
