// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// serveCommand runs the Telegram bot until interrupted or restarted.
func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the Telegram bot",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "http",
				Usage: "Also serve /healthz and /status on the configured host and port",
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "Enable debug logging",
			},
		},
		Action: r.Serve,
	}
}

// consoleCommand launches the local chat console.
func consoleCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "console",
		Aliases: []string{"chat"},
		Usage:   "Talk to the bot in the terminal instead of Telegram",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "demo",
				Usage: "Use a built-in fake library instead of a real Plex server",
			},
			&cli.StringFlag{
				Name:  "user",
				Usage: "Username to chat as",
				Value: "console",
			},
		},
		Action: r.Console,
	}
}

// sessionCommand handles stored session administration.
func sessionCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "session",
		Usage: "Inspect and remove stored sign-ins",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List users with a stored session",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.SessionList,
			},
			{
				Name:  "remove",
				Usage: "Remove a user's stored session",
				Flags: []cli.Flag{
					&cli.Int64Flag{
						Name:     "user",
						Usage:    "Telegram user ID",
						Required: true,
					},
				},
				Action: r.SessionRemove,
			},
		},
	}
}

// setupCommand handles setup operations for configuration and the database.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Create the config file and initialize the database",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   "config.toml",
			},
		},
		Action: r.Setup,
	}
}
