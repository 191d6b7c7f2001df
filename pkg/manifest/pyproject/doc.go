// Package pyproject filters structured pyproject.toml manifests.
//
// Two places declare dependencies:
//
//	[project]
//	dependencies = ["torch==2.0.0", "pillow"]
//
//	[project.optional-dependencies]
//	gpu = ["torchvision", "triton"]
//
// Colliding entries are dropped from the emitted arrays; the order of the
// remaining entries is preserved. The manifest is rewritten in place after a
// one-time backup.
//
// # Limitations
//
// The rewrite is NOT a faithful round-trip of the document. [project] is
// re-encoded (comments and formatting are lost, values are kept), and every
// other top-level table is replaced by a placeholder:
//
//	[tool]
//	# Section tool preserved but not filtered
//
// The untouched content survives only in the backup file. [Result.Placeholder]
// lists the replaced sections so callers can warn about them.
package pyproject
