package commands

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/tildaslashalef/bugsquash/internal/config"
	"github.com/tildaslashalef/bugsquash/internal/database"
	"github.com/tildaslashalef/bugsquash/internal/utils"
	"github.com/urfave/cli/v2"
)

// InitCommand returns the CLI command for initializing BugSquash
func InitCommand() *cli.Command {
	return &cli.Command{
		Name:  "init",
		Usage: "Initialize or update the BugSquash environment",
		Description: "Writes a sample .env into ~/.bugsquash and applies pending database " +
			"migrations. Run it once after installing or upgrading.",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "reset",
				Usage: "Replace an existing .env with the sample, keeping a dated backup",
			},
		},
		Action: func(c *cli.Context) error {
			utils.PrintHeading("Initializing BugSquash")

			configDir, err := config.DefaultConfigDir()
			if err != nil {
				utils.PrintError(err.Error())
				return err
			}
			utils.PrintInfo("Configuration directory: " + color.YellowString("%s", configDir))

			utils.PrintInfo("Extracting default configuration file")
			configFilePath, err := config.SetupConfigDirectory(configDir, c.Bool("reset"))
			if err != nil {
				utils.PrintWarning(fmt.Sprintf("Failed to set up configuration files: %s", err))
			}

			cfg, err := config.LoadFromEnv(configDir, configFilePath)
			if err != nil {
				utils.PrintError(fmt.Sprintf("Failed to load configuration: %s", err))
				return fmt.Errorf("failed to load configuration: %w", err)
			}

			utils.PrintInfo("Initializing database...")
			if err := database.InitDB(cfg); err != nil {
				utils.PrintError(fmt.Sprintf("Failed to initialize database: %s", err))
				return fmt.Errorf("failed to initialize database: %w", err)
			}
			defer database.CloseDB()

			utils.PrintInfo("Applying database migrations...")
			migrationsApplied, err := database.RunMigrations()
			if err != nil {
				utils.PrintError(fmt.Sprintf("Failed to apply migrations: %s", err))
				return fmt.Errorf("failed to apply migrations: %w", err)
			}

			utils.PrintSuccess("BugSquash initialized successfully!")

			if migrationsApplied > 0 {
				utils.PrintSuccess(fmt.Sprintf("Applied %d new migration(s)", migrationsApplied))
			} else {
				utils.PrintInfo("Database schema is already up-to-date")
			}

			utils.PrintKeyValue("Configuration file", color.YellowString("%s", configFilePath))
			utils.PrintKeyValue("Database location", color.YellowString("%s", cfg.Database.Path))
			utils.PrintKeyValue("Log file location", color.YellowString("%s", cfg.Logging.Output))
			if !cfg.HasLLMCredential() {
				utils.PrintWarning("Set BUGSQUASH_LLM_API_KEY (or GROQ_API_KEY) in " + configFilePath + " before analyzing bugs")
			}
			fmt.Println("")
			utils.PrintInfo("You can now run " + color.CyanString("bugsquash analyze \"<bug report>\"") + " or " + color.CyanString("bugsquash serve") + ".")

			return nil
		},
	}
}
