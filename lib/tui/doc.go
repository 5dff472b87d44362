// Copyright 2026 The Atrium Authors
// SPDX-License-Identifier: Apache-2.0

// Package tui provides shared terminal user interface components for
// atrium's interactive client. Built on bubbletea (Elm architecture),
// these components handle common patterns like text fields, confirm
// dialogs, dropdown overlays, fuzzy matching, and ANSI-aware overlay
// splicing.
//
// The portal views (files, users, logs) import this package for
// consistent look and behavior: same theme, same keyboard conventions,
// same modal mechanics. Each view owns its own data source, layout,
// and domain-specific rendering.
package tui
