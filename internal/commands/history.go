package commands

import (
	"fmt"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/tildaslashalef/bugsquash/internal/app"
	"github.com/tildaslashalef/bugsquash/internal/utils"
)

// HistoryCommand returns the CLI command for the recent analyses log
func HistoryCommand() *cli.Command {
	return &cli.Command{
		Name:  "history",
		Usage: "Show or clear recent analyses",
		Subcommands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List recent analyses, newest first",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Print the history as JSON",
					},
				},
				Action: historyListAction,
			},
			{
				Name:   "clear",
				Usage:  "Remove all recorded analyses",
				Action: historyClearAction,
			},
		},
		Action: historyListAction,
	}
}

func historyListAction(c *cli.Context) error {
	application, err := app.FromContext(c)
	if err != nil {
		return err
	}

	items, err := application.History.List(c.Context)
	if err != nil {
		return fmt.Errorf("failed to load history: %w", err)
	}

	if c.Bool("json") {
		return writeJSON(c.App.Writer, items)
	}

	fmt.Fprintln(c.App.Writer, application.Renderer.HistoryTable(items, time.Now()))
	return nil
}

func historyClearAction(c *cli.Context) error {
	application, err := app.FromContext(c)
	if err != nil {
		return err
	}

	if err := application.History.Clear(c.Context); err != nil {
		utils.PrintError(fmt.Sprintf("Failed to clear history: %s", err))
		return fmt.Errorf("failed to clear history: %w", err)
	}

	utils.PrintSuccess("History cleared")
	return nil
}
