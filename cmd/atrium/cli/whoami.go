// Copyright 2026 The Atrium Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"github.com/atriumworks/atrium/lib/session"
)

// whoamiOutput is the JSON output for the whoami command.
type whoamiOutput struct {
	Email       string `json:"email"`
	FullName    string `json:"full_name,omitempty"`
	Role        string `json:"role,omitempty"`
	Server      string `json:"server"`
	SessionFile string `json:"session_file"`
	Status      string `json:"status"`
}

// Whoami displays the current identity from the saved session: email,
// server URL, and session file path. Without --verify, only the local
// session file is read (no network access). With --verify, the stored
// token is checked against the server, which also reports the account
// role; a rejected token is removed, exactly as the TUI would do on
// startup.
func Whoami(ctx context.Context, app *App, args []string) error {
	flagSet := pflag.NewFlagSet("whoami", pflag.ContinueOnError)
	verify := flagSet.Bool("verify", false, "verify the session against the server")
	jsonOutput := flagSet.Bool("json", false, "print machine-readable JSON")
	if err := flagSet.Parse(args); err != nil {
		return Validation("%w", err)
	}
	if positional := flagSet.Args(); len(positional) > 0 {
		return Validation("unexpected argument: %s", positional[0])
	}

	stored, err := session.Load()
	if err != nil {
		return NotFound("not logged in (run \"atrium login\"): %w", err)
	}

	output := whoamiOutput{
		Email:       stored.Email,
		Server:      stored.Server,
		SessionFile: session.FilePath(),
		Status:      "unverified",
	}

	if *verify {
		profile, err := app.Session.Restore(ctx)
		if err != nil {
			output.Status = "invalid"
			printWhoami(output, *jsonOutput)
			return &ExitError{Code: 1}
		}
		if profile == nil {
			// The stored session belongs to a different server than
			// the one this command is configured against.
			return NotFound("saved session is for %s, not %s", stored.Server, app.Config.Server.URL)
		}
		output.FullName = profile.FullName
		output.Role = string(profile.Role)
		output.Status = "valid"
	}

	printWhoami(output, *jsonOutput)
	return nil
}

func printWhoami(output whoamiOutput, jsonOutput bool) {
	if jsonOutput {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		encoder.Encode(output)
		return
	}

	fmt.Printf("Email:    %s\n", output.Email)
	if output.FullName != "" {
		fmt.Printf("Name:     %s\n", output.FullName)
	}
	if output.Role != "" {
		fmt.Printf("Role:     %s\n", output.Role)
	}
	fmt.Printf("Server:   %s\n", output.Server)
	fmt.Printf("Session:  %s\n", output.SessionFile)
	fmt.Printf("Status:   %s\n", output.Status)
}
