// Copyright 2026 The Atrium Authors
// SPDX-License-Identifier: Apache-2.0

package portal

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"path"
	"strconv"
	"strings"

	"github.com/atriumworks/atrium/lib/secret"
)

// DefaultFolder is the folder an upload lands in when the form leaves
// the folder blank. Applied client-side at submission; listings with a
// blank folder (from older records) are displayed under it as well.
const DefaultFolder = "general"

// ListFiles returns the file listing, optionally filtered by a search term.
// An empty search returns the full listing. The server decides match
// semantics and result order; the slice is returned exactly as received.
func (c *Client) ListFiles(ctx context.Context, token *secret.Buffer, search string) ([]FileRecord, error) {
	if token == nil {
		return nil, fmt.Errorf("portal: token is required")
	}

	var query url.Values
	if search != "" {
		query = url.Values{"search": []string{search}}
	}

	body, err := c.doRequest(ctx, http.MethodGet, "/api/files", token, nil, query)
	if err != nil {
		return nil, fmt.Errorf("portal: listing files failed: %w", err)
	}

	var records []FileRecord
	if err := json.Unmarshal(body, &records); err != nil {
		return nil, fmt.Errorf("portal: failed to parse file listing: %w", err)
	}
	return records, nil
}

// UploadFile uploads content as a named file into a folder. A blank or
// whitespace-only folder is filed under DefaultFolder before the form is
// built, so every upload carries an explicit folder on the wire. Returns
// the stored record so callers can show the server's view of the upload.
func (c *Client) UploadFile(ctx context.Context, token *secret.Buffer, filename, folder string, content io.Reader) (*FileRecord, error) {
	if token == nil {
		return nil, fmt.Errorf("portal: token is required")
	}
	if filename == "" {
		return nil, fmt.Errorf("portal: filename is required for upload")
	}

	folder = strings.TrimSpace(folder)
	if folder == "" {
		folder = DefaultFolder
	}

	var requestBody bytes.Buffer
	writer := multipart.NewWriter(&requestBody)

	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return nil, fmt.Errorf("portal: building upload form: %w", err)
	}
	if _, err := io.Copy(part, content); err != nil {
		return nil, fmt.Errorf("portal: reading upload content: %w", err)
	}
	if err := writer.WriteField("folder", folder); err != nil {
		return nil, fmt.Errorf("portal: building upload form: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("portal: finalizing upload form: %w", err)
	}

	body, err := c.doRequestRaw(ctx, http.MethodPost, "/api/files/upload", token, writer.FormDataContentType(), &requestBody)
	if err != nil {
		return nil, fmt.Errorf("portal: upload of %q failed: %w", filename, err)
	}

	var record FileRecord
	if err := json.Unmarshal(body, &record); err != nil {
		return nil, fmt.Errorf("portal: failed to parse upload response: %w", err)
	}
	return &record, nil
}

// DownloadFile fetches the content of a stored file as raw bytes.
func (c *Client) DownloadFile(ctx context.Context, token *secret.Buffer, fileID int64) ([]byte, error) {
	if token == nil {
		return nil, fmt.Errorf("portal: token is required")
	}

	path := "/api/files/download/" + strconv.FormatInt(fileID, 10)
	body, err := c.doRequestRaw(ctx, http.MethodGet, path, token, "", nil)
	if err != nil {
		return nil, fmt.Errorf("portal: download of file %d failed: %w", fileID, err)
	}
	return body, nil
}

// DeleteFile removes a stored file. Admin-only: the server answers 403
// for an employee token regardless of what the client shows.
func (c *Client) DeleteFile(ctx context.Context, token *secret.Buffer, fileID int64) error {
	if token == nil {
		return fmt.Errorf("portal: token is required")
	}

	path := "/api/admin/files/" + strconv.FormatInt(fileID, 10)
	if _, err := c.doRequest(ctx, http.MethodDelete, path, token, nil); err != nil {
		return fmt.Errorf("portal: deleting file %d failed: %w", fileID, err)
	}
	return nil
}

// SanitizeFilename reduces a server-provided filename to its base name so
// it is safe to join onto a local downloads directory. A name that reduces
// to nothing becomes "download".
func SanitizeFilename(filename string) string {
	filename = strings.ReplaceAll(filename, `\`, "/")
	filename = path.Base(filename)
	if filename == "/" || filename == "." || filename == ".." || filename == "" {
		return "download"
	}
	return filename
}
