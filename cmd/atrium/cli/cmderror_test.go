// Copyright 2026 The Atrium Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/atriumworks/atrium/lib/portal"
)

func TestConstructorsSetCategory(t *testing.T) {
	cases := []struct {
		err      *CommandError
		category ErrorCategory
	}{
		{Validation("bad input"), CategoryValidation},
		{NotFound("no such file"), CategoryNotFound},
		{Forbidden("admins only"), CategoryForbidden},
		{Conflict("email taken"), CategoryConflict},
		{Transient("timeout"), CategoryTransient},
		{Internal("bug"), CategoryInternal},
	}
	for _, testCase := range cases {
		if testCase.err.Category != testCase.category {
			t.Errorf("%q: category = %q, want %q", testCase.err, testCase.err.Category, testCase.category)
		}
	}
}

func TestErrorStringOmitsCategory(t *testing.T) {
	err := Validation("email is required")
	if err.Error() != "email is required" {
		t.Errorf("Error() = %q", err.Error())
	}
}

func TestUnwrapPreservesChain(t *testing.T) {
	inner := errors.New("connection refused")
	wrapped := Transient("fetching files: %w", inner)
	if !errors.Is(wrapped, inner) {
		t.Error("errors.Is lost the inner error through CommandError")
	}
}

func TestExitCodesAreStable(t *testing.T) {
	cases := map[ErrorCategory]int{
		CategoryValidation: 2,
		CategoryNotFound:   3,
		CategoryForbidden:  4,
		CategoryConflict:   5,
		CategoryTransient:  6,
		CategoryInternal:   1,
	}
	for category, code := range cases {
		err := &CommandError{Category: category, Err: errors.New("x")}
		if err.ExitCode() != code {
			t.Errorf("%s: exit code = %d, want %d", category, err.ExitCode(), code)
		}
	}
}

func TestCategorizeAPIError(t *testing.T) {
	cases := []struct {
		status   int
		category ErrorCategory
	}{
		{http.StatusBadRequest, CategoryValidation},
		{http.StatusUnauthorized, CategoryForbidden},
		{http.StatusForbidden, CategoryForbidden},
		{http.StatusNotFound, CategoryNotFound},
		{http.StatusConflict, CategoryConflict},
		{http.StatusUnprocessableEntity, CategoryValidation},
		{http.StatusBadGateway, CategoryTransient},
		{http.StatusInternalServerError, CategoryInternal},
	}
	for _, testCase := range cases {
		apiError := &portal.APIError{Detail: "detail", StatusCode: testCase.status}
		got := Categorize(fmt.Errorf("listing files: %w", apiError))
		if got.Category != testCase.category {
			t.Errorf("status %d: category = %q, want %q", testCase.status, got.Category, testCase.category)
		}
		if !errors.Is(got, apiError) {
			t.Errorf("status %d: original error lost", testCase.status)
		}
	}
}

func TestCategorizeNetworkFailureIsTransient(t *testing.T) {
	got := Categorize(errors.New("dial tcp: connection refused"))
	if got.Category != CategoryTransient {
		t.Errorf("category = %q, want transient", got.Category)
	}
}

func TestCategorizePassesThroughCommandError(t *testing.T) {
	original := Validation("email is required")
	got := Categorize(fmt.Errorf("login: %w", original))
	if got.Category != CategoryValidation {
		t.Errorf("category = %q, want validation", got.Category)
	}
}
