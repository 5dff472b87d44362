// Copyright 2026 The Atrium Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"github.com/atriumworks/atrium/lib/session"
)

// Login authenticates against the portal and saves the session to the
// well-known path (~/.config/atrium/session.json). Subsequent commands
// and the TUI load this session transparently, like SSH keys:
// authenticate once, then access is seamless.
//
// The password comes from --password-file (a path, or "-" for an
// interactive prompt) or is prompted interactively when the flag is
// omitted.
func Login(ctx context.Context, app *App, args []string) error {
	flagSet := pflag.NewFlagSet("login", pflag.ContinueOnError)
	passwordFile := flagSet.String("password-file", "", "path to file containing the password, or - to prompt interactively (default: prompt)")
	if err := flagSet.Parse(args); err != nil {
		return Validation("%w", err)
	}

	positional := flagSet.Args()
	if len(positional) < 1 {
		return Validation("email is required\n\nUsage: atrium login <email> [flags]")
	}
	email := positional[0]
	if len(positional) > 1 {
		return Validation("unexpected argument: %s", positional[1])
	}

	password, err := readLoginPassword(*passwordFile)
	if err != nil {
		return err
	}
	defer password.Close()

	profile, err := app.Session.Login(ctx, email, password)
	if err != nil {
		return Categorize(err)
	}

	fmt.Fprintf(os.Stderr, "Logged in as %s (%s)\n", profile.Email, profile.Role)
	fmt.Fprintf(os.Stderr, "Session saved to %s\n", session.FilePath())
	return nil
}
