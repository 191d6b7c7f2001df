package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/depfilter/pkg/backup"
	"github.com/matzehuels/depfilter/pkg/catalog"
	"github.com/matzehuels/depfilter/pkg/errors"
	"github.com/matzehuels/depfilter/pkg/manifest"
)

// filterCommand creates the filter command.
func (c *CLI) filterCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "filter <manifest>",
		Short: "Filter a requirements.txt or pyproject.toml against the override catalog",
		Long: `Filter a dependency manifest against the override catalog.

The file extension selects the format:
  .txt   colliding lines are commented out; output goes to <name>-filtered.txt
  .toml  colliding entries are dropped; the file is rewritten in place

Before the first write the pristine manifest is copied to <name>-original.<ext>.

Note: pyproject.toml sections other than [project] are replaced by a
placeholder comment in the rewritten file. Their content is kept only in the
backup.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runFilter(cmd, args[0])
		},
	}

	cmd.Flags().BoolVar(&c.dryRun, "dry-run", false, "report conflicts without writing any file")

	return cmd
}

// runFilter loads the catalog, dispatches path to the matching filter and
// prints the summary.
func (c *CLI) runFilter(cmd *cobra.Command, path string) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	cfg, err := c.settings(cmd)
	if err != nil {
		return err
	}
	if err := errors.ValidateManifestPath(path); err != nil {
		return err
	}
	f, err := manifest.Detect(path, filters()...)
	if err != nil {
		return err
	}

	cat, err := catalog.Load(cfg.Catalog, catalog.Options{Logger: warnFunc(logger)})
	if err != nil {
		return err
	}
	logger.Debugf("Loaded %d packages from %s", cat.Len(), cfg.Catalog)

	if err := ctx.Err(); err != nil {
		return err
	}

	logger.Debugf("Filtering %s (%s)", path, f.Type())
	prog := newProgress(logger)
	res, err := f.Filter(path, cat, manifest.Options{
		Backup: &backup.Policy{Suffix: cfg.BackupSuffix},
		DryRun: cfg.DryRun,
		Suffix: cfg.FlatSuffix,
		Logger: warnFunc(logger),
	})
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Filtered %s", path))

	c.printResult(res)
	return nil
}

// printResult writes the human-readable summary of a filter run.
func (c *CLI) printResult(res *manifest.Result) {
	w := c.Out

	if res.DryRun {
		printInfo(w, "Dry run: %s would be written", res.Output)
	} else {
		if b := res.Backup; b != nil {
			switch b.Status {
			case backup.StatusCreated:
				printSuccess(w, "Created backup: %s", b.Path)
			case backup.StatusAdopted:
				printInfo(w, "Using existing backup: %s", b.Path)
			default:
				printDetail(w, "Backup already recorded: %s", b.Path)
			}
		}
		if res.Output == res.Source {
			printSuccess(w, "Updated %s (filtered)", filepath.Base(res.Output))
		} else {
			printSuccess(w, "Created filtered %s:", res.Type)
		}
		printFile(w, res.Output)
	}

	if res.Lossy() {
		printWarning(w, "Sections preserved but not filtered (content only in the backup): %s",
			strings.Join(res.Placeholder, ", "))
	}

	if len(res.Skipped) == 0 {
		printInfo(w, "No conflicting packages (%d kept)", res.Kept)
		return
	}
	printTitle(w, "Skipped packages (already provided by the runtime image):")
	for _, s := range res.Skipped {
		printItem(w, "%s", s)
	}
	printDetail(w, "%d skipped, %d kept", len(res.Skipped), res.Kept)
}
