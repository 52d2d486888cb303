// submodule cmd contains command definitions
package main

import (
	"github.com/desertthunder/podx/internal/dashboard"
	"github.com/urfave/cli/v3"
)

func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "Path to configuration file",
			Value:   "config.toml",
		},
		&cli.StringFlag{
			Name:  "api-url",
			Usage: "Override api.base_url from the config file",
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
			Usage:   "Enable debug logging",
		},
	}
}

func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "setup",
		Usage:  "Create the config file and initialize the database",
		Action: r.Setup,
	}
}

// authCommand handles the Spotify sign-in flow
func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Sign in to the podcast agent with Spotify",
		Commands: []*cli.Command{
			{
				Name:  "login",
				Usage: "Open the Spotify authorization page and wait for the redirect",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "no-browser",
						Usage: "Print the authorization URL instead of opening a browser",
					},
				},
				Action: r.AuthLogin,
			},
			{
				Name:  "callback",
				Usage: "Complete a login with the code and state from the redirect URL",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "code",
						Usage:    "Authorization code",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "state",
						Usage: "OAuth state",
					},
				},
				Action: r.AuthCallback,
			},
			{
				Name:  "status",
				Usage: "Show the current session",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.AuthStatus,
			},
			{
				Name:   "logout",
				Usage:  "Sign out and forget the session token",
				Action: r.AuthLogout,
			},
		},
	}
}

// preferencesCommand runs the onboarding wizard
func preferencesCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "preferences",
		Aliases: []string{"prefs"},
		Usage:   "Tell the agent what to listen for",
		Action:  r.Preferences,
		Commands: []*cli.Command{
			{
				Name:  "set",
				Usage: "Run the wizard non-interactively and save the result",
				Flags: []cli.Flag{
					&cli.StringSliceFlag{
						Name:    "topic",
						Aliases: []string{"t"},
						Usage:   "Topic to follow (repeatable); popular topics match case-insensitively",
					},
					&cli.StringSliceFlag{
						Name:    "show",
						Aliases: []string{"s"},
						Usage:   "Show to follow (repeatable); the best search match is used",
					},
					&cli.StringFlag{
						Name:  "preset",
						Usage: "Duration preset: quick, standard, deep or any",
					},
					&cli.IntFlag{
						Name:  "min",
						Usage: "Minimum episode length in minutes",
					},
					&cli.IntFlag{
						Name:  "max",
						Usage: "Maximum episode length in minutes",
					},
					&cli.BoolFlag{
						Name:  "notify",
						Usage: "Enable email digests at your account address",
					},
					&cli.StringFlag{
						Name:  "email",
						Usage: "Enable email digests at this address",
					},
					&cli.StringSliceFlag{
						Name:  "digest",
						Usage: "Digest to receive: daily, weekly or instant (repeatable)",
					},
					&cli.BoolFlag{
						Name:  "dry-run",
						Usage: "Print the request instead of saving it",
					},
				},
				Action: r.PreferencesSet,
			},
		},
	}
}

func statusCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "status",
		Usage: "Show agent status, preferences and recent episodes",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Output format: text, markdown or json",
				Value:   "text",
			},
			&cli.IntFlag{
				Name:  "limit",
				Usage: "Number of recent episodes to include",
				Value: dashboard.DefaultEpisodeLimit,
			},
		},
		Action: r.Status,
	}
}

func episodesCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "episodes",
		Usage: "List recently curated episodes",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "limit",
				Usage: "Maximum number of episodes to return",
				Value: dashboard.DefaultEpisodeLimit,
			},
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Output format: text, markdown, json or csv",
				Value:   "text",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
		},
		Action: r.Episodes,
	}
}

func showsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "shows",
		Usage: "Browse the podcast catalog",
		Commands: []*cli.Command{
			{
				Name:      "search",
				Usage:     "Search shows by name",
				ArgsUsage: "<query>",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.ShowsSearch,
			},
		},
	}
}

func routeCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "route",
		Usage: "Print where the route guard sends the current session",
		Arguments: []cli.Argument{
			&cli.StringArg{
				Name: "path",
			},
		},
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
		},
		Action: r.Route,
	}
}

func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"interactive", "ui"},
		Usage:   "Launch the interactive terminal UI",
		Arguments: []cli.Argument{
			&cli.StringArg{
				Name: "path",
			},
		},
		Action: r.TUI,
	}
}
