// Copyright 2026 The Atrium Authors
// SPDX-License-Identifier: Apache-2.0

// Package cli implements the atrium command-line interface: session
// commands (login, logout, whoami, register) and the shared plumbing
// they sit on (config loading, client construction, password prompts,
// categorized errors, exit codes).
//
// Running atrium with no subcommand starts the interactive terminal
// UI; the subcommands here exist for scripting and for recovering a
// session from outside the UI.
package cli
