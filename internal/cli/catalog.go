package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/depfilter/pkg/catalog"
)

// catalogCommand creates the catalog command.
func (c *CLI) catalogCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "catalog",
		Short: "Show the packages provided by the runtime image",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.settings(cmd)
			if err != nil {
				return err
			}
			logger := loggerFromContext(cmd.Context())
			cat, err := catalog.Load(cfg.Catalog, catalog.Options{Logger: warnFunc(logger)})
			if err != nil {
				return err
			}

			w := c.Out
			printTitle(w, "Override catalog: %s", cfg.Catalog)
			if cat.Len() == 0 {
				printInfo(w, "No packages")
				return nil
			}
			for _, name := range cat.Names() {
				v, _ := cat.Lookup(name)
				printKeyValue(w, name, v)
			}
			printDetail(w, "%d packages", cat.Len())
			if n := cat.Ignored(); n > 0 {
				printDetail(w, "%d lines without name==version ignored", n)
			}
			return nil
		},
	}
}
