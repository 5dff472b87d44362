// Copyright 2026 The Atrium Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"fmt"
	"os"

	"github.com/atriumworks/atrium/lib/session"
)

// Logout discards the saved session. The access token is dropped from
// memory and the session file is removed. Logging out when no session
// is saved is not an error.
func Logout(app *App, args []string) error {
	if len(args) > 0 {
		return Validation("unexpected argument: %s", args[0])
	}

	if err := app.Session.Logout(); err != nil {
		return Internal("removing session file: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Logged out (removed %s)\n", session.FilePath())
	return nil
}
