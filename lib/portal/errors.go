// Copyright 2026 The Atrium Authors
// SPDX-License-Identifier: Apache-2.0

package portal

import (
	"errors"
	"fmt"
	"net/http"
)

// APIError represents a structured error response from the portal server.
// Callers can use errors.As to extract the structured information:
//
//	var apiErr *portal.APIError
//	if errors.As(err, &apiErr) {
//	    if apiErr.StatusCode == http.StatusUnauthorized { ... }
//	}
type APIError struct {
	// Detail is the human-readable error description from the server.
	Detail string `json:"detail"`
	// StatusCode is the HTTP status code of the response.
	StatusCode int `json:"-"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("portal: %d: %s", e.StatusCode, e.Detail)
}

// IsStatus checks whether err is a *APIError with the given HTTP status code.
func IsStatus(err error, statusCode int) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == statusCode
	}
	return false
}

// IsUnauthorized reports whether err is a 401 from the server. A 401 on any
// authenticated endpoint means the token is invalid or expired and the
// session must be torn down.
func IsUnauthorized(err error) bool {
	return IsStatus(err, http.StatusUnauthorized)
}

// IsForbidden reports whether err is a 403 from the server: the token is
// valid but the account's role does not authorize the action.
func IsForbidden(err error) bool {
	return IsStatus(err, http.StatusForbidden)
}
