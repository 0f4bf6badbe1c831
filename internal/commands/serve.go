package commands

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"

	"github.com/tildaslashalef/bugsquash/internal/app"
	"github.com/tildaslashalef/bugsquash/internal/utils"
)

// ServeCommand returns the CLI command that runs the HTTP API
func ServeCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Start the BugSquash HTTP API",
		Description: "Serves POST /analyze, POST /squash and the /history endpoints until " +
			"interrupted. In-flight requests are given the configured grace period on shutdown.",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "addr",
				Aliases: []string{"a"},
				Usage:   "Listen address (overrides BUGSQUASH_SERVER_ADDR)",
			},
		},
		Action: serveAction,
	}
}

func serveAction(c *cli.Context) error {
	application, err := app.FromContext(c)
	if err != nil {
		return err
	}

	if addr := c.String("addr"); addr != "" {
		application.Config.Server.Addr = addr
	}

	if !application.Config.HasLLMCredential() {
		utils.PrintWarning("No LLM API key configured; analysis requests will return 500")
	}
	utils.PrintInfo("Listening on " + color.CyanString("%s", application.Config.Server.Addr))

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	return application.NewServer().Run(ctx)
}
