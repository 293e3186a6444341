package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/itigeeks/itigeeks-backend/internal/app"
)

func newMatchCmd() *cobra.Command {
	var catalogURL string
	cmd := &cobra.Command{
		Use:   "match <name>",
		Short: "Look a problem name up in the catalog",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			log := cliLogger()
			defer log.Sync()

			cfg := app.LoadConfig(log)
			if catalogURL != "" {
				cfg.CatalogCSVURL = catalogURL
			}
			_, matcher, err := app.NewMatcher(log, cfg, nil)
			if err != nil {
				return err
			}
			if err := matcher.Load(cmd.Context()); err != nil {
				return err
			}

			name := strings.Join(args, " ")
			out := cmd.OutOrStdout()
			e := matcher.Match(name)
			if e == nil {
				fmt.Fprintf(out, "%s: no match\n", name)
				return nil
			}
			difficulty := "-"
			if e.Difficulty != nil {
				difficulty = string(*e.Difficulty)
			}
			fmt.Fprintf(out, "%s: %s, %s\n", name, difficulty, e.Topic)
			return nil
		},
	}
	cmd.Flags().StringVar(&catalogURL, "catalog-url", "", "catalog CSV URL (overrides CATALOG_CSV_URL)")
	return cmd
}
