package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"vocab-quiz-service/internal/app"
	"vocab-quiz-service/internal/config"
	"vocab-quiz-service/internal/importer"
	"vocab-quiz-service/internal/infra/postgres"
)

// NewImportCmd bulk-loads a CSV or XLSX word file as a new set.
func NewImportCmd(configPath *string) *cobra.Command {
	var setName string
	cmd := &cobra.Command{
		Use:   "import FILE",
		Short: "Import a CSV or XLSX word file as a new set",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			if cfg.Postgres.URL == "" {
				return fmt.Errorf("postgres url not configured")
			}
			logger := newLogger(cfg)

			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}

			db := postgres.OpenBun(cfg.Postgres.URL)
			defer db.Close()

			service := app.NewImportService(postgres.NewStore(db), importer.NewFactory(), logger, app.NoopRecorder{})
			set, err := service.Import(cmd.Context(), setName, filepath.Base(args[0]), data)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Set %q created with %d words (id %s)\n", set.Name, set.WordCount(), set.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&setName, "set", "", "name of the set to create")
	_ = cmd.MarkFlagRequired("set")
	return cmd
}
