package main

import (
	"fmt"
	"log"
	"os"

	migrate "github.com/rubenv/sql-migrate"
	"github.com/spf13/cobra"

	"github.com/johnquangdev/meeting-insights/internal/infrastructure/database"
	"github.com/johnquangdev/meeting-insights/pkg/config"
)

func main() {
	var down bool
	var steps int

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply the SQL migrations in migrations/",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}

			db, err := database.NewPostgresDB(cfg)
			if err != nil {
				return err
			}
			defer database.CloseDB(db)

			dir := migrate.Up
			if down {
				dir = migrate.Down
				if steps == 0 {
					steps = 1
				}
			}

			log.Printf("🔄 Applying migrations from %s/ (down=%v, steps=%d)...", database.MigrationsDir, down, steps)
			return database.Migrate(db, dir, steps)
		},
	}
	cmd.Flags().BoolVar(&down, "down", false, "Roll back instead of applying")
	cmd.Flags().IntVar(&steps, "steps", 0, "Maximum migrations to run (0 = all up, 1 down)")

	if err := cmd.Execute(); err != nil {
		log.Printf("❌ %v", err)
		os.Exit(1)
	}
}
