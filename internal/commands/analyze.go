package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/urfave/cli/v2"

	"github.com/tildaslashalef/bugsquash/internal/app"
	"github.com/tildaslashalef/bugsquash/internal/commands/squash"
	"github.com/tildaslashalef/bugsquash/internal/loggy"
	"github.com/tildaslashalef/bugsquash/internal/pipeline"
	"github.com/tildaslashalef/bugsquash/internal/utils"
)

// AnalyzeCommand returns the CLI command that squashes a single bug report
func AnalyzeCommand() *cli.Command {
	return &cli.Command{
		Name:      "analyze",
		Aliases:   []string{"squash"},
		Usage:     "Analyze a bug report or GitHub issue URL and print a fix plan",
		ArgsUsage: "[bug report | issue URL]",
		Description: "Runs the bug report through analysis and code review, then prints the " +
			"diagnosis, the reviewed fix and a cline command script. GitHub issue URLs are " +
			"fetched first; if fetching fails the URL itself is analyzed.",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "file",
				Aliases: []string{"f"},
				Usage:   "Read the bug report from a file ('-' reads stdin)",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Print the full result as JSON",
			},
			&cli.BoolFlag{
				Name:    "copy",
				Aliases: []string{"c"},
				Usage:   "Copy the cline command script to the clipboard",
			},
			&cli.BoolFlag{
				Name:  "detect-repo",
				Usage: "Label the placeholder issue with the origin remote of the current git repository",
			},
			&cli.BoolFlag{
				Name:  "plain",
				Usage: "Disable the progress spinner",
			},
		},
		Action: analyzeAction,
	}
}

func analyzeAction(c *cli.Context) error {
	application, err := app.FromContext(c)
	if err != nil {
		return err
	}

	input, err := readInput(c.Args().Slice(), c.String("file"), os.Stdin)
	if err != nil {
		return err
	}

	p := application.Pipeline
	if c.Bool("detect-repo") {
		p = pipelineForCurrentRepo(application, c.Bool("json"))
	}

	interactive := !c.Bool("json") && !c.Bool("plain") && isatty.IsTerminal(os.Stdout.Fd())

	var run *pipeline.Run
	if interactive {
		run, err = squash.Run(c.Context, p.Squash, input, application.Renderer.Styles())
		if errors.Is(err, squash.ErrCancelled) {
			utils.PrintWarning("Cancelled")
			return nil
		}
	} else {
		run, err = p.Squash(c.Context, input)
	}
	if err != nil {
		loggy.Error("Squash failed", "error", err)
		return err
	}

	if c.Bool("json") {
		if err := writeJSON(c.App.Writer, run); err != nil {
			return err
		}
	} else {
		fmt.Fprintln(c.App.Writer, application.Renderer.Dashboard(run))
	}

	if c.Bool("copy") {
		err := utils.CopyToClipboard(run.Script)
		switch {
		case err != nil:
			loggy.Warn("Failed to copy command script", "error", err)
			if !c.Bool("json") {
				utils.PrintWarning(fmt.Sprintf("Could not copy script: %s", err))
			}
		case !c.Bool("json"):
			utils.PrintSuccess("Command script copied to clipboard")
		}
	}

	return nil
}

// pipelineForCurrentRepo labels placeholder issues with the origin remote of
// the working directory, falling back to the configured label. quiet keeps
// stdout clean for JSON output.
func pipelineForCurrentRepo(application *app.App, quiet bool) *pipeline.Service {
	cwd, err := os.Getwd()
	if err != nil {
		loggy.Warn("Failed to get current directory", "error", err)
		return application.Pipeline
	}

	repo, err := application.Git.OriginRepo(cwd)
	if err != nil {
		loggy.Warn("Repository detection failed", "path", cwd, "error", err)
		if !quiet {
			utils.PrintWarning("Could not detect repository, using " + color.YellowString("%s", application.Config.Placeholder.Repo))
		}
		return application.Pipeline
	}

	placeholder := application.Config.Placeholder
	placeholder.Repo = repo
	if !quiet {
		utils.PrintInfo("Repository: " + color.YellowString("%s", repo))
	}

	return application.NewPipeline(pipeline.WithTracker(pipeline.NewPlaceholderTracker(placeholder)))
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}
	return nil
}
