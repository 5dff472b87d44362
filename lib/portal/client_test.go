// Copyright 2026 The Atrium Authors
// SPDX-License-Identifier: Apache-2.0

package portal

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/atriumworks/atrium/lib/secret"
)

// testBuffer creates a secret.Buffer from a string for testing. The buffer
// is automatically closed when the test completes.
func testBuffer(t *testing.T, value string) *secret.Buffer {
	t.Helper()
	buffer, err := secret.NewFromString(value)
	if err != nil {
		t.Fatalf("creating test buffer: %v", err)
	}
	t.Cleanup(func() { buffer.Close() })
	return buffer
}

// testClient creates a Client pointed at the given test server.
func testClient(t *testing.T, server *httptest.Server) *Client {
	t.Helper()
	client, err := NewClient(ClientConfig{ServerURL: server.URL})
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}
	return client
}

func TestNewClient(t *testing.T) {
	t.Run("valid URL", func(t *testing.T) {
		client, err := NewClient(ClientConfig{ServerURL: "http://localhost:8000"})
		if err != nil {
			t.Fatalf("NewClient failed: %v", err)
		}
		if client == nil {
			t.Fatal("NewClient returned nil")
		}
	})

	t.Run("empty URL", func(t *testing.T) {
		_, err := NewClient(ClientConfig{})
		if err == nil {
			t.Fatal("expected error for empty URL")
		}
	})

	t.Run("invalid URL", func(t *testing.T) {
		_, err := NewClient(ClientConfig{ServerURL: "://invalid"})
		if err == nil {
			t.Fatal("expected error for invalid URL")
		}
	})
}

func TestLogin(t *testing.T) {
	t.Run("successful login", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			if request.URL.Path != "/token" {
				t.Errorf("unexpected path: %s", request.URL.Path)
				writer.WriteHeader(http.StatusNotFound)
				return
			}
			if got := request.Header.Get("Content-Type"); got != "application/x-www-form-urlencoded" {
				t.Errorf("Content-Type = %q", got)
			}
			if err := request.ParseForm(); err != nil {
				t.Fatalf("parsing form: %v", err)
			}
			if got := request.PostForm.Get("username"); got != "alice@example.com" {
				t.Errorf("username = %q", got)
			}
			if got := request.PostForm.Get("password"); got != "password123" {
				t.Errorf("password = %q", got)
			}

			writer.Header().Set("Content-Type", "application/json")
			json.NewEncoder(writer).Encode(map[string]string{
				"access_token": "tok-alice",
				"token_type":   "bearer",
			})
		}))
		defer server.Close()

		client := testClient(t, server)
		token, err := client.Login(context.Background(), "alice@example.com", testBuffer(t, "password123"))
		if err != nil {
			t.Fatalf("Login failed: %v", err)
		}
		defer token.Close()
		if token.String() != "tok-alice" {
			t.Errorf("token = %q", token.String())
		}
	})

	t.Run("bad credentials", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			writer.Header().Set("Content-Type", "application/json")
			writer.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(writer).Encode(map[string]string{"detail": "incorrect email or password"})
		}))
		defer server.Close()

		client := testClient(t, server)
		_, err := client.Login(context.Background(), "alice@example.com", testBuffer(t, "wrong"))
		if err == nil {
			t.Fatal("expected error for bad credentials")
		}
		var apiErr *APIError
		if !errors.As(err, &apiErr) {
			t.Fatalf("expected *APIError, got %T: %v", err, err)
		}
		if apiErr.StatusCode != http.StatusUnauthorized {
			t.Errorf("StatusCode = %d", apiErr.StatusCode)
		}
		if apiErr.Detail != "incorrect email or password" {
			t.Errorf("Detail = %q", apiErr.Detail)
		}
		if !IsUnauthorized(err) {
			t.Error("IsUnauthorized = false")
		}
	})

	t.Run("missing email", func(t *testing.T) {
		client, _ := NewClient(ClientConfig{ServerURL: "http://localhost:8000"})
		if _, err := client.Login(context.Background(), "", testBuffer(t, "x")); err == nil {
			t.Fatal("expected error for missing email")
		}
	})
}

func TestMe(t *testing.T) {
	t.Run("valid token", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			if request.URL.Path != "/api/users/me/" {
				t.Errorf("unexpected path: %s", request.URL.Path)
			}
			if got := request.Header.Get("Authorization"); got != "Bearer tok-alice" {
				t.Errorf("Authorization = %q", got)
			}
			writer.Header().Set("Content-Type", "application/json")
			json.NewEncoder(writer).Encode(UserProfile{
				ID:       7,
				Email:    "alice@example.com",
				FullName: "Alice Liddell",
				Role:     RoleAdmin,
			})
		}))
		defer server.Close()

		client := testClient(t, server)
		profile, err := client.Me(context.Background(), testBuffer(t, "tok-alice"))
		if err != nil {
			t.Fatalf("Me failed: %v", err)
		}
		if profile.Email != "alice@example.com" || !profile.IsAdmin() {
			t.Errorf("profile = %+v", profile)
		}
	})

	t.Run("expired token", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			writer.Header().Set("Content-Type", "application/json")
			writer.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(writer).Encode(map[string]string{"detail": "could not validate credentials"})
		}))
		defer server.Close()

		client := testClient(t, server)
		_, err := client.Me(context.Background(), testBuffer(t, "tok-stale"))
		if !IsUnauthorized(err) {
			t.Fatalf("expected 401, got %v", err)
		}
	})
}

func TestRegister(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		if request.URL.Path != "/api/register" {
			t.Errorf("unexpected path: %s", request.URL.Path)
		}
		if got := request.Header.Get("Authorization"); got != "" {
			t.Errorf("registration sent Authorization header %q", got)
		}
		var body RegisterRequest
		if err := json.NewDecoder(request.Body).Decode(&body); err != nil {
			t.Fatalf("decoding request: %v", err)
		}
		writer.Header().Set("Content-Type", "application/json")
		json.NewEncoder(writer).Encode(UserProfile{
			ID:       12,
			Email:    body.Email,
			FullName: body.FullName,
			Role:     RoleEmployee,
		})
	}))
	defer server.Close()

	client := testClient(t, server)
	profile, err := client.Register(context.Background(), RegisterRequest{
		Email:    "bob@example.com",
		FullName: "Bob Stone",
		Password: "hunter22",
	})
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if profile.Role != RoleEmployee {
		t.Errorf("Role = %q, want employee", profile.Role)
	}
}

func TestListFiles(t *testing.T) {
	t.Run("search term forwarded", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			if request.URL.Path != "/api/files" {
				t.Errorf("unexpected path: %s", request.URL.Path)
			}
			if got := request.URL.Query().Get("search"); got != "report" {
				t.Errorf("search = %q", got)
			}
			writer.Header().Set("Content-Type", "application/json")
			json.NewEncoder(writer).Encode([]FileRecord{
				{ID: 1, Filename: "q3-report.pdf", Folder: "finance"},
			})
		}))
		defer server.Close()

		client := testClient(t, server)
		records, err := client.ListFiles(context.Background(), testBuffer(t, "tok"), "report")
		if err != nil {
			t.Fatalf("ListFiles failed: %v", err)
		}
		if len(records) != 1 || records[0].Filename != "q3-report.pdf" {
			t.Errorf("records = %+v", records)
		}
	})

	t.Run("empty search omits parameter", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			if request.URL.RawQuery != "" {
				t.Errorf("unexpected query: %s", request.URL.RawQuery)
			}
			writer.Header().Set("Content-Type", "application/json")
			writer.Write([]byte("[]"))
		}))
		defer server.Close()

		client := testClient(t, server)
		records, err := client.ListFiles(context.Background(), testBuffer(t, "tok"), "")
		if err != nil {
			t.Fatalf("ListFiles failed: %v", err)
		}
		if len(records) != 0 {
			t.Errorf("records = %+v", records)
		}
	})
}

func TestUploadFile(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		if request.URL.Path != "/api/files/upload" {
			t.Errorf("unexpected path: %s", request.URL.Path)
		}
		if err := request.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("parsing multipart form: %v", err)
		}
		if got := request.FormValue("folder"); got != "hr" {
			t.Errorf("folder = %q", got)
		}
		file, header, err := request.FormFile("file")
		if err != nil {
			t.Fatalf("reading file part: %v", err)
		}
		defer file.Close()
		if header.Filename != "handbook.txt" {
			t.Errorf("filename = %q", header.Filename)
		}
		content, _ := io.ReadAll(file)
		if string(content) != "welcome aboard" {
			t.Errorf("content = %q", content)
		}

		writer.Header().Set("Content-Type", "application/json")
		json.NewEncoder(writer).Encode(FileRecord{ID: 5, Filename: "handbook.txt", Folder: "hr"})
	}))
	defer server.Close()

	client := testClient(t, server)
	record, err := client.UploadFile(context.Background(), testBuffer(t, "tok"),
		"handbook.txt", "hr", strings.NewReader("welcome aboard"))
	if err != nil {
		t.Fatalf("UploadFile failed: %v", err)
	}
	if record.ID != 5 {
		t.Errorf("record = %+v", record)
	}
}

func TestUploadFileBlankFolderDefaults(t *testing.T) {
	cases := []struct {
		name   string
		folder string
	}{
		{"empty", ""},
		{"whitespace", "   "},
	}
	for _, testCase := range cases {
		t.Run(testCase.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
				if err := request.ParseMultipartForm(1 << 20); err != nil {
					t.Fatalf("parsing multipart form: %v", err)
				}
				if got := request.FormValue("folder"); got != DefaultFolder {
					t.Errorf("folder on the wire = %q, want %q", got, DefaultFolder)
				}
				writer.Header().Set("Content-Type", "application/json")
				json.NewEncoder(writer).Encode(FileRecord{ID: 6, Filename: "notes.txt", Folder: DefaultFolder})
			}))
			defer server.Close()

			client := testClient(t, server)
			record, err := client.UploadFile(context.Background(), testBuffer(t, "tok"),
				"notes.txt", testCase.folder, strings.NewReader("hello"))
			if err != nil {
				t.Fatalf("UploadFile failed: %v", err)
			}
			if record.Folder != DefaultFolder {
				t.Errorf("record.Folder = %q", record.Folder)
			}
		})
	}
}

func TestDownloadFile(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		if request.URL.Path != "/api/files/download/9" {
			t.Errorf("unexpected path: %s", request.URL.Path)
		}
		writer.Header().Set("Content-Type", "application/octet-stream")
		writer.Write([]byte{0xde, 0xad, 0xbe, 0xef})
	}))
	defer server.Close()

	client := testClient(t, server)
	content, err := client.DownloadFile(context.Background(), testBuffer(t, "tok"), 9)
	if err != nil {
		t.Fatalf("DownloadFile failed: %v", err)
	}
	if len(content) != 4 || content[0] != 0xde {
		t.Errorf("content = %x", content)
	}
}

func TestDeleteFileForbidden(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		if request.Method != http.MethodDelete {
			t.Errorf("method = %s", request.Method)
		}
		writer.Header().Set("Content-Type", "application/json")
		writer.WriteHeader(http.StatusForbidden)
		json.NewEncoder(writer).Encode(map[string]string{"detail": "admin privileges required"})
	}))
	defer server.Close()

	client := testClient(t, server)
	err := client.DeleteFile(context.Background(), testBuffer(t, "tok"), 3)
	if !IsForbidden(err) {
		t.Fatalf("expected 403, got %v", err)
	}
}

func TestAdminUsers(t *testing.T) {
	t.Run("list users", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			if request.URL.Path != "/api/admin/users" {
				t.Errorf("unexpected path: %s", request.URL.Path)
			}
			writer.Header().Set("Content-Type", "application/json")
			json.NewEncoder(writer).Encode([]UserProfile{
				{ID: 1, Email: "root@example.com", Role: RoleAdmin},
				{ID: 2, Email: "bob@example.com", Role: RoleEmployee},
			})
		}))
		defer server.Close()

		client := testClient(t, server)
		users, err := client.ListUsers(context.Background(), testBuffer(t, "tok"))
		if err != nil {
			t.Fatalf("ListUsers failed: %v", err)
		}
		if len(users) != 2 {
			t.Errorf("users = %+v", users)
		}
	})

	t.Run("create user rejects bad role", func(t *testing.T) {
		client, _ := NewClient(ClientConfig{ServerURL: "http://localhost:8000"})
		_, err := client.CreateUser(context.Background(), testBuffer(t, "tok"), CreateUserRequest{
			Email:    "eve@example.com",
			Password: "pw",
			Role:     "superuser",
		})
		if err == nil {
			t.Fatal("expected error for invalid role")
		}
	})

	t.Run("delete user", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			if request.URL.Path != "/api/admin/users/2" || request.Method != http.MethodDelete {
				t.Errorf("unexpected request: %s %s", request.Method, request.URL.Path)
			}
			writer.WriteHeader(http.StatusNoContent)
		}))
		defer server.Close()

		client := testClient(t, server)
		if err := client.DeleteUser(context.Background(), testBuffer(t, "tok"), 2); err != nil {
			t.Fatalf("DeleteUser failed: %v", err)
		}
	})
}

func TestListLogs(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		if request.URL.Path != "/api/admin/logs" {
			t.Errorf("unexpected path: %s", request.URL.Path)
		}
		writer.Header().Set("Content-Type", "application/json")
		json.NewEncoder(writer).Encode([]LogEntry{
			{ID: 40, Action: "file.delete", ActorEmail: "root@example.com"},
		})
	}))
	defer server.Close()

	client := testClient(t, server)
	entries, err := client.ListLogs(context.Background(), testBuffer(t, "tok"))
	if err != nil {
		t.Fatalf("ListLogs failed: %v", err)
	}
	if len(entries) != 1 || entries[0].Action != "file.delete" {
		t.Errorf("entries = %+v", entries)
	}
}

func TestNonJSONErrorBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		writer.WriteHeader(http.StatusBadGateway)
		writer.Write([]byte("<html>bad gateway</html>"))
	}))
	defer server.Close()

	client := testClient(t, server)
	_, err := client.Me(context.Background(), testBuffer(t, "tok"))
	if err == nil {
		t.Fatal("expected error")
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		t.Fatalf("expected plain error for non-JSON body, got *APIError: %v", apiErr)
	}
	if !strings.Contains(err.Error(), "502") {
		t.Errorf("error missing status code: %v", err)
	}
}

func TestSanitizeFilename(t *testing.T) {
	cases := map[string]string{
		"report.pdf":     "report.pdf",
		"../../etc/cron": "cron",
		`a\b.txt`:        "b.txt",
		"..":             "download",
		"":               "download",
	}
	for input, want := range cases {
		if got := SanitizeFilename(input); got != want {
			t.Errorf("SanitizeFilename(%q) = %q, want %q", input, got, want)
		}
	}
}
