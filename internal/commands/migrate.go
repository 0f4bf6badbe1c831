package commands

import (
	"fmt"

	"github.com/tildaslashalef/bugsquash/internal/database"
	"github.com/tildaslashalef/bugsquash/internal/utils"
	"github.com/urfave/cli/v2"
)

// MigrateCommand returns the CLI command for database migrations
func MigrateCommand() *cli.Command {
	return &cli.Command{
		Name:   "migrate",
		Usage:  "Manage database migrations",
		Hidden: true,
		Subcommands: []*cli.Command{
			{
				Name:  "up",
				Usage: "Apply all pending migrations",
				Action: func(c *cli.Context) error {
					utils.PrintInfo("Applying embedded migrations")

					migrationsApplied, err := database.RunMigrations()
					if err != nil {
						utils.PrintError(fmt.Sprintf("Failed to apply migrations: %s", err))
						return fmt.Errorf("failed to apply migrations: %w", err)
					}

					if migrationsApplied > 0 {
						utils.PrintSuccess(fmt.Sprintf("Applied %d migration(s) successfully!", migrationsApplied))
					} else {
						utils.PrintSuccess("Database schema is already up-to-date")
					}
					return nil
				},
			},
			{
				Name:  "down",
				Usage: "Revert applied migrations; dropping the slots table erases history",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "steps",
						Usage: "Number of migrations to revert",
						Value: 1,
					},
				},
				Action: func(c *cli.Context) error {
					steps := c.Int("steps")
					utils.PrintWarning(fmt.Sprintf("Reverting %d embedded migration(s)", steps))

					if err := database.RevertMigrations(steps); err != nil {
						utils.PrintError(fmt.Sprintf("Failed to revert migrations: %s", err))
						return fmt.Errorf("failed to revert migrations: %w", err)
					}

					utils.PrintSuccess("Migration(s) reverted successfully!")
					return nil
				},
			},
		},
	}
}
