// Copyright 2026 The Atrium Authors
// SPDX-License-Identifier: Apache-2.0

package netutil

import (
	"strings"
	"testing"
)

func TestReadResponse(t *testing.T) {
	got, err := ReadResponse(strings.NewReader(`{"detail":"not found"}`))
	if err != nil {
		t.Fatalf("ReadResponse failed: %v", err)
	}
	if string(got) != `{"detail":"not found"}` {
		t.Errorf("body = %q", got)
	}
}

func TestErrorBody(t *testing.T) {
	if got := ErrorBody(strings.NewReader("boom")); got != "boom" {
		t.Errorf("ErrorBody = %q, want %q", got, "boom")
	}
}
