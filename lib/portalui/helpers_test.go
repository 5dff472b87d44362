// Copyright 2026 The Atrium Authors
// SPDX-License-Identifier: Apache-2.0

package portalui

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/atriumworks/atrium/lib/portal"
	"github.com/atriumworks/atrium/lib/secret"
	"github.com/atriumworks/atrium/lib/session"
	"github.com/atriumworks/atrium/lib/tui"
)

// authServer serves just enough of the portal API to log a test
// session in: a token endpoint and a profile endpoint with the given
// role.
func authServer(t *testing.T, role portal.Role) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		switch request.URL.Path {
		case "/token":
			writer.Header().Set("Content-Type", "application/json")
			json.NewEncoder(writer).Encode(map[string]string{
				"access_token": "tok-test", "token_type": "bearer",
			})
		case "/api/users/me/":
			writer.Header().Set("Content-Type", "application/json")
			json.NewEncoder(writer).Encode(portal.UserProfile{
				ID: 1, Email: "me@example.com", FullName: "Test User", Role: role,
			})
		default:
			writer.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(server.Close)
	return server
}

// loggedInSession builds a client and an authenticated session
// controller backed by authServer.
func loggedInSession(t *testing.T, role portal.Role) (*portal.Client, *session.Controller) {
	t.Helper()
	server := authServer(t, role)

	client, err := portal.NewClient(portal.ClientConfig{ServerURL: server.URL})
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}

	controller, err := session.NewController(session.ControllerConfig{
		Client:      client,
		ServerURL:   server.URL,
		SessionPath: filepath.Join(t.TempDir(), "session.json"),
	})
	if err != nil {
		t.Fatalf("NewController failed: %v", err)
	}
	t.Cleanup(controller.Close)

	password, err := secret.NewFromString("password123")
	if err != nil {
		t.Fatalf("creating password buffer: %v", err)
	}
	defer password.Close()

	if _, err := controller.Login(context.Background(), "me@example.com", password); err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	return client, controller
}

func newFilesForTest(t *testing.T, role portal.Role) FilesModel {
	t.Helper()
	client, controller := loggedInSession(t, role)
	files := NewFilesModel(client, controller, filepath.Join(t.TempDir(), "downloads"), tui.DefaultTheme, DefaultKeyMap)
	files.SetSize(80, 24)
	return files
}

func newModelForTest(t *testing.T, role portal.Role) Model {
	t.Helper()
	client, controller := loggedInSession(t, role)
	model := NewModel(Config{
		Client:       client,
		Session:      controller,
		DownloadsDir: filepath.Join(t.TempDir(), "downloads"),
	})
	updated, _ := model.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	model = updated.(Model)
	dashboard, _ := model.enterDashboard()
	return dashboard.(Model)
}
