// Copyright 2026 The Atrium Authors
// SPDX-License-Identifier: Apache-2.0

// Package session manages the portal authentication lifecycle: the stored
// token file, the in-memory token, and the fail-closed restore path.
package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/atriumworks/atrium/lib/secret"
)

// StoredSession is the on-disk authentication state. Stored at the
// well-known path returned by FilePath and loaded automatically by
// commands that require authentication. Analogous to SSH keys — set up
// once via "atrium login", then transparent.
type StoredSession struct {
	// Email is the account the token was issued to, kept for display
	// before the profile is re-fetched.
	Email string `json:"email"`

	// AccessToken is the bearer token proving the account's identity.
	// The server verifies it on every request.
	AccessToken string `json:"access_token"`

	// Server is the base URL of the portal server the token belongs to
	// (e.g., "http://localhost:8000"). A token is only replayed against
	// the server that issued it.
	Server string `json:"server"`
}

// FilePath returns the path to the session file. Checks the
// ATRIUM_SESSION_FILE environment variable first, then falls back to
// ~/.config/atrium/session.json.
func FilePath() string {
	if envPath := os.Getenv("ATRIUM_SESSION_FILE"); envPath != "" {
		return envPath
	}

	configDirectory := os.Getenv("XDG_CONFIG_HOME")
	if configDirectory == "" {
		homeDirectory, err := os.UserHomeDir()
		if err != nil {
			// Fallback — this should rarely happen.
			return filepath.Join("/tmp", "atrium-session.json")
		}
		configDirectory = filepath.Join(homeDirectory, ".config")
	}
	return filepath.Join(configDirectory, "atrium", "session.json")
}

// Load reads the stored session from the well-known path. Returns a clear
// error message directing the user to "atrium login" if no session exists.
func Load() (*StoredSession, error) {
	return LoadFrom(FilePath())
}

// LoadFrom reads a stored session from a specific file path.
func LoadFrom(path string) (*StoredSession, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("no atrium session found at %s — run \"atrium login\" first", path)
		}
		return nil, fmt.Errorf("reading session file %s: %w", path, err)
	}

	var stored StoredSession
	if err := json.Unmarshal(data, &stored); err != nil {
		secret.Zero(data)
		return nil, fmt.Errorf("parsing session file %s: %w", path, err)
	}
	secret.Zero(data)

	if stored.AccessToken == "" {
		return nil, fmt.Errorf("session file %s has no access_token", path)
	}
	if stored.Server == "" {
		return nil, fmt.Errorf("session file %s has no server", path)
	}

	return &stored, nil
}

// Save writes a stored session to the well-known path. Creates the parent
// directory with mode 0700 if it doesn't exist. The session file is
// written with mode 0600 (owner-only read/write) since it contains an
// access token.
func Save(stored *StoredSession) error {
	return SaveTo(stored, FilePath())
}

// SaveTo writes a stored session to a specific file path.
func SaveTo(stored *StoredSession, path string) error {
	data, err := json.MarshalIndent(stored, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling session: %w", err)
	}
	data = append(data, '\n')

	directory := filepath.Dir(path)
	if err := os.MkdirAll(directory, 0700); err != nil {
		secret.Zero(data)
		return fmt.Errorf("creating session directory %s: %w", directory, err)
	}

	writeError := os.WriteFile(path, data, 0600)
	secret.Zero(data)
	if writeError != nil {
		return fmt.Errorf("writing session file %s: %w", path, writeError)
	}

	return nil
}

// Clear removes the session file at the well-known path. Missing files
// are not an error, so Clear is safe to call on an already-cleared
// session.
func Clear() error {
	return ClearAt(FilePath())
}

// ClearAt removes a session file at a specific path.
func ClearAt(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing session file %s: %w", path, err)
	}
	return nil
}
