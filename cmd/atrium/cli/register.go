// Copyright 2026 The Atrium Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"github.com/atriumworks/atrium/lib/portal"
)

// Register creates a new portal account. New accounts always get the
// employee role; an administrator promotes them from the Users tab.
// Registration does not log the new account in; follow up with
// "atrium login".
func Register(ctx context.Context, app *App, args []string) error {
	flagSet := pflag.NewFlagSet("register", pflag.ContinueOnError)
	fullName := flagSet.String("full-name", "", "display name for the new account")
	passwordFile := flagSet.String("password-file", "", "path to file containing the password, or - to prompt interactively (default: prompt)")
	if err := flagSet.Parse(args); err != nil {
		return Validation("%w", err)
	}

	positional := flagSet.Args()
	if len(positional) < 1 {
		return Validation("email is required\n\nUsage: atrium register <email> [flags]")
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

	profile, err := app.Client.Register(ctx, portal.RegisterRequest{
		Email:    email,
		FullName: *fullName,
		Password: password.String(),
	})
	if err != nil {
		return Categorize(err)
	}

	fmt.Fprintf(os.Stderr, "Created account %s (%s)\n", profile.Email, profile.Role)
	fmt.Fprintf(os.Stderr, "Run \"atrium login %s\" to sign in\n", profile.Email)
	return nil
}
