// Copyright 2026 The Atrium Authors
// SPDX-License-Identifier: Apache-2.0

// atrium is the terminal client for the company portal: a file
// repository with folder grouping and search, plus administration of
// accounts and activity logs for users with the admin role.
//
// Running atrium with no subcommand starts the interactive TUI. A
// saved session (from a previous login, in the TUI or via "atrium
// login") is restored automatically; otherwise the TUI opens on the
// login screen.
//
// Subcommands exist for scripting and session recovery:
//
//	atrium login <email>      authenticate and save the session
//	atrium logout             discard the saved session
//	atrium whoami [--verify]  show the saved identity
//	atrium register <email>   create a new account
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/pflag"

	"github.com/atriumworks/atrium/cmd/atrium/cli"
	"github.com/atriumworks/atrium/lib/portalui"
	"github.com/atriumworks/atrium/lib/version"
)

func main() {
	if err := run(); err != nil {
		if coder, ok := err.(interface{ ExitCode() int }); ok {
			if _, silent := err.(*cli.ExitError); !silent {
				fmt.Fprintf(os.Stderr, "error: %v\n", err)
			}
			os.Exit(coder.ExitCode())
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var configPath string
	var serverURL string

	flagSet := pflag.NewFlagSet("atrium", pflag.ContinueOnError)
	var logOutput string
	flagSet.StringVar(&configPath, "config", "", "path to atrium.yaml (default: $ATRIUM_CONFIG)")
	flagSet.StringVar(&serverURL, "server", "", "portal server URL (overrides the config file)")
	flagSet.StringVar(&logOutput, "log-output", "", "write JSON log records to this file (TUI mode)")
	flagSet.BoolP("help", "h", false, "show help")
	flagSet.SetInterspersed(false)

	// Handle --version before flag parsing to match other binaries.
	if len(os.Args) > 1 && os.Args[1] == "--version" {
		version.Print("atrium")
		return nil
	}

	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if err == pflag.ErrHelp {
			printHelp(flagSet)
			return nil
		}
		return err
	}
	if help, _ := flagSet.GetBool("help"); help {
		printHelp(flagSet)
		return nil
	}

	args := flagSet.Args()
	if len(args) == 0 {
		return runTUI(configPath, serverURL, logOutput)
	}

	logger := cli.NewCommandLogger().With("command", args[0])
	app, err := cli.NewApp(cli.AppOptions{
		ConfigPath: configPath,
		ServerURL:  serverURL,
		Logger:     logger,
	})
	if err != nil {
		return err
	}
	defer app.Close()

	ctx := context.Background()
	switch args[0] {
	case "login":
		return cli.Login(ctx, app, args[1:])
	case "logout":
		return cli.Logout(app, args[1:])
	case "whoami":
		return cli.Whoami(ctx, app, args[1:])
	case "register":
		return cli.Register(ctx, app, args[1:])
	default:
		return cli.Validation("unknown command: %s (run \"atrium --help\")", args[0])
	}
}

func runTUI(configPath, serverURL, logOutput string) error {
	// Log records would tear the alternate screen, so the TUI runs
	// with logging discarded unless --log-output names a file.
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	if logOutput != "" {
		logFile, err := os.OpenFile(logOutput, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return cli.Validation("opening %s: %w", logOutput, err)
		}
		defer logFile.Close()
		logger = slog.New(slog.NewJSONHandler(logFile, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}

	app, err := cli.NewApp(cli.AppOptions{
		ConfigPath: configPath,
		ServerURL:  serverURL,
		Logger:     logger,
	})
	if err != nil {
		return err
	}
	defer app.Close()

	model := portalui.NewModel(portalui.Config{
		Client:       app.Client,
		Session:      app.Session,
		DownloadsDir: app.Config.Downloads.Dir,
		Logger:       logger,
	})
	program := tea.NewProgram(model, tea.WithAltScreen())
	_, err = program.Run()
	return err
}

func printHelp(flagSet *pflag.FlagSet) {
	fmt.Fprintf(os.Stderr, `Atrium portal client — interactive terminal UI for the company portal.

With no subcommand, starts the TUI: a saved session is restored if one
exists, otherwise the login screen is shown. The file repository,
search, uploads, and downloads are available to every account; user
administration and activity logs require the admin role.

Usage:
  atrium [flags]
  atrium <command> [flags]

Commands:
  login <email>      authenticate and save the session
  logout             discard the saved session
  whoami             show the saved identity (--verify checks the server)
  register <email>   create a new account

Flags:
%s
The server URL comes from the config file named by $ATRIUM_CONFIG (or
--config), or from --server directly.
`, flagSet.FlagUsages())
}
