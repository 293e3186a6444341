package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/itigeeks/itigeeks-backend/internal/app"
	"github.com/itigeeks/itigeeks-backend/internal/data/db"
	"github.com/itigeeks/itigeeks-backend/internal/data/repos"
	"github.com/itigeeks/itigeeks-backend/internal/platform/kv"
	"github.com/itigeeks/itigeeks-backend/internal/services"
)

func newPreviewCmd() *cobra.Command {
	var catalogURL string
	cmd := &cobra.Command{
		Use:   "preview <file>",
		Short: "Show how a practice file would be imported, without saving anything",
		Args:  cobra.ExactArgs(1),
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

			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			dbs, err := db.NewService(log, db.Config{Driver: "sqlite", SQLitePath: "file:itigeeks_preview?mode=memory&cache=shared"})
			if err != nil {
				return err
			}
			defer dbs.Close()
			if err := dbs.AutoMigrateAll(); err != nil {
				return err
			}

			imports := services.NewImportService(
				dbs.DB(), log, repos.NewUserRepo(dbs.DB(), log), nil, matcher, kv.NewMemory(),
				services.ImportConfig{MaxFileBytes: cfg.ImportMaxFileBytes}, nil,
			)
			batch, err := imports.Preview(cmd.Context(), uuid.New(), filepath.Base(args[0]), f)
			if err != nil {
				return err
			}
			if batch.CatalogDegraded {
				fmt.Fprintln(cmd.ErrOrStderr(), "warning: catalog unavailable, difficulty and topic come from the file only")
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(batch)
		},
	}
	cmd.Flags().StringVar(&catalogURL, "catalog-url", "", "catalog CSV URL (overrides CATALOG_CSV_URL)")
	return cmd
}
