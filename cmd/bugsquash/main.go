package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/tildaslashalef/bugsquash/internal/app"
	"github.com/tildaslashalef/bugsquash/internal/commands"
)

// Version information - populated at build time
var (
	Version    = "dev"
	BuildTime  = "unknown"
	CommitHash = "unknown"
	Author     = "unknown"
	Email      = "unknown"
)

func main() {
	cliApp := &cli.App{
		Name:  "bugsquash",
		Usage: "LLM-powered bug analysis and fix planning",
		Description: "BugSquash diagnoses a bug report or GitHub issue, proposes a fix, has the fix " +
			"reviewed, and emits a cline command script to apply it.\n\n" +
			"When run with arguments and no subcommand, BugSquash analyzes them (default action).",
		Version: fmt.Sprintf("%s (%s)", Version, CommitHash),
		Compiled: func() time.Time {
			t, err := time.Parse(time.RFC3339, BuildTime)
			if err != nil {
				return time.Now()
			}
			return t
		}(),
		Authors: []*cli.Author{
			{
				Name:  Author,
				Email: Email,
			},
		},
		Flags: commands.AnalyzeCommand().Flags,
		Before: func(c *cli.Context) error {
			// init prepares the environment app.New depends on
			if c.Args().First() == "init" {
				return nil
			}

			application, err := app.New()
			if err != nil {
				return fmt.Errorf("failed to initialize application: %w", err)
			}

			// Store the app instance in the context for later use
			c.App.Metadata = map[string]interface{}{
				"app": application,
			}

			return nil
		},
		After: func(c *cli.Context) error {
			// Gracefully shutdown the application
			if app, ok := c.App.Metadata["app"].(*app.App); ok {
				return app.Shutdown()
			}
			return nil
		},
		Commands: []*cli.Command{
			commands.AnalyzeCommand(),
			commands.ServeCommand(),
			commands.HistoryCommand(),
			commands.InitCommand(),
			commands.MigrateCommand(),
		},
		Action: func(c *cli.Context) error {
			if c.NArg() == 0 && c.String("file") == "" {
				return cli.ShowAppHelp(c)
			}
			// Default action is to run the analyze command
			return commands.AnalyzeCommand().Action(c)
		},
	}

	if err := cliApp.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
