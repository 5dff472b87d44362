// Copyright 2026 The Atrium Authors
// SPDX-License-Identifier: Apache-2.0

package session

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/atriumworks/atrium/lib/portal"
	"github.com/atriumworks/atrium/lib/secret"
)

func testServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return server
}

func testController(t *testing.T, server *httptest.Server) (*Controller, string) {
	t.Helper()
	client, err := portal.NewClient(portal.ClientConfig{ServerURL: server.URL})
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}
	path := filepath.Join(t.TempDir(), "session.json")
	controller, err := NewController(ControllerConfig{
		Client:      client,
		ServerURL:   server.URL,
		SessionPath: path,
	})
	if err != nil {
		t.Fatalf("NewController failed: %v", err)
	}
	t.Cleanup(controller.Close)
	return controller, path
}

func writeSession(t *testing.T, path, serverURL, token string) {
	t.Helper()
	if err := SaveTo(&StoredSession{
		Email:       "alice@example.com",
		AccessToken: token,
		Server:      serverURL,
	}, path); err != nil {
		t.Fatalf("SaveTo failed: %v", err)
	}
}

func profileHandler(t *testing.T, wantToken string) http.HandlerFunc {
	t.Helper()
	return func(writer http.ResponseWriter, request *http.Request) {
		switch request.URL.Path {
		case "/token":
			writer.Header().Set("Content-Type", "application/json")
			json.NewEncoder(writer).Encode(map[string]string{
				"access_token": wantToken, "token_type": "bearer",
			})
		case "/api/users/me/":
			if got := request.Header.Get("Authorization"); got != "Bearer "+wantToken {
				writer.Header().Set("Content-Type", "application/json")
				writer.WriteHeader(http.StatusUnauthorized)
				json.NewEncoder(writer).Encode(map[string]string{"detail": "could not validate credentials"})
				return
			}
			writer.Header().Set("Content-Type", "application/json")
			json.NewEncoder(writer).Encode(portal.UserProfile{
				ID: 1, Email: "alice@example.com", FullName: "Alice Liddell", Role: portal.RoleEmployee,
			})
		default:
			t.Errorf("unexpected path: %s", request.URL.Path)
			writer.WriteHeader(http.StatusNotFound)
		}
	}
}

func TestRestoreValidToken(t *testing.T) {
	server := testServer(t, profileHandler(t, "tok-good"))
	controller, path := testController(t, server)
	writeSession(t, path, server.URL, "tok-good")

	profile, err := controller.Restore(context.Background())
	if err != nil {
		t.Fatalf("Restore failed: %v", err)
	}
	if profile == nil || profile.Email != "alice@example.com" {
		t.Fatalf("profile = %+v", profile)
	}
	if !controller.Authenticated() {
		t.Error("Authenticated = false after successful restore")
	}
}

func TestRestoreNoSessionFile(t *testing.T) {
	server := testServer(t, profileHandler(t, "tok-good"))
	controller, _ := testController(t, server)

	profile, err := controller.Restore(context.Background())
	if err != nil {
		t.Fatalf("Restore failed: %v", err)
	}
	if profile != nil {
		t.Fatalf("profile = %+v, want nil", profile)
	}
	if controller.Authenticated() {
		t.Error("Authenticated = true with no session file")
	}
}

func TestRestoreRejectedTokenClearsFile(t *testing.T) {
	server := testServer(t, profileHandler(t, "tok-good"))
	controller, path := testController(t, server)
	writeSession(t, path, server.URL, "tok-stale")

	_, err := controller.Restore(context.Background())
	if err == nil {
		t.Fatal("expected error for rejected token")
	}
	if controller.Authenticated() {
		t.Error("Authenticated = true after rejected restore")
	}
	if controller.Token() != nil {
		t.Error("token retained after rejected restore")
	}
	if _, statErr := os.Stat(path); !os.IsNotExist(statErr) {
		t.Error("session file survived rejected restore")
	}
}

func TestRestoreUnreachableServerClearsFile(t *testing.T) {
	server := testServer(t, profileHandler(t, "tok-good"))
	controller, path := testController(t, server)
	writeSession(t, path, server.URL, "tok-good")
	server.Close()

	_, err := controller.Restore(context.Background())
	if err == nil {
		t.Fatal("expected error for unreachable server")
	}
	if controller.Authenticated() {
		t.Error("Authenticated = true after failed restore")
	}
	if _, statErr := os.Stat(path); !os.IsNotExist(statErr) {
		t.Error("session file survived failed restore")
	}
}

func TestRestoreDifferentServerDiscarded(t *testing.T) {
	server := testServer(t, profileHandler(t, "tok-good"))
	controller, path := testController(t, server)
	writeSession(t, path, "https://other.example.com", "tok-good")

	profile, err := controller.Restore(context.Background())
	if err != nil {
		t.Fatalf("Restore failed: %v", err)
	}
	if profile != nil || controller.Authenticated() {
		t.Error("session for a different server was restored")
	}
	if _, statErr := os.Stat(path); !os.IsNotExist(statErr) {
		t.Error("mismatched session file was not cleared")
	}
}

func TestLoginPersistsSession(t *testing.T) {
	server := testServer(t, profileHandler(t, "tok-new"))
	controller, path := testController(t, server)

	password, err := secret.NewFromString("password123")
	if err != nil {
		t.Fatalf("creating password buffer: %v", err)
	}
	defer password.Close()

	profile, err := controller.Login(context.Background(), "alice@example.com", password)
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if profile.Email != "alice@example.com" {
		t.Errorf("profile = %+v", profile)
	}
	if !controller.Authenticated() {
		t.Error("Authenticated = false after login")
	}

	stored, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom failed: %v", err)
	}
	if stored.AccessToken != "tok-new" || stored.Server != server.URL {
		t.Errorf("stored = %+v", stored)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat session file: %v", err)
	}
	if mode := info.Mode().Perm(); mode != 0600 {
		t.Errorf("session file mode = %o, want 0600", mode)
	}
}

func TestLogoutIdempotent(t *testing.T) {
	server := testServer(t, profileHandler(t, "tok-new"))
	controller, path := testController(t, server)

	password, err := secret.NewFromString("password123")
	if err != nil {
		t.Fatalf("creating password buffer: %v", err)
	}
	defer password.Close()

	if _, err := controller.Login(context.Background(), "alice@example.com", password); err != nil {
		t.Fatalf("Login failed: %v", err)
	}

	if err := controller.Logout(); err != nil {
		t.Fatalf("Logout failed: %v", err)
	}
	if controller.Authenticated() {
		t.Error("Authenticated = true after logout")
	}
	if _, statErr := os.Stat(path); !os.IsNotExist(statErr) {
		t.Error("session file survived logout")
	}

	// Second logout with nothing to clear succeeds.
	if err := controller.Logout(); err != nil {
		t.Fatalf("repeated Logout failed: %v", err)
	}
}

func TestExpireDropsEverything(t *testing.T) {
	server := testServer(t, profileHandler(t, "tok-new"))
	controller, path := testController(t, server)

	password, err := secret.NewFromString("password123")
	if err != nil {
		t.Fatalf("creating password buffer: %v", err)
	}
	defer password.Close()

	if _, err := controller.Login(context.Background(), "alice@example.com", password); err != nil {
		t.Fatalf("Login failed: %v", err)
	}

	controller.Expire()
	if controller.Authenticated() || controller.Token() != nil || controller.Profile() != nil {
		t.Error("state survived Expire")
	}
	if _, statErr := os.Stat(path); !os.IsNotExist(statErr) {
		t.Error("session file survived Expire")
	}
}

func TestLoadFromRejectsEmptyToken(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	if err := os.WriteFile(path, []byte(`{"email":"a@b.c","server":"http://x"}`), 0600); err != nil {
		t.Fatalf("writing session file: %v", err)
	}
	if _, err := LoadFrom(path); err == nil {
		t.Fatal("expected error for session without token")
	}
}
