// Copyright 2026 The Usher Authors
// SPDX-License-Identifier: Apache-2.0

// Package config loads the usher configuration file.
//
// The file path comes from the --config flag or the USHER_CONFIG
// environment variable, in that order. With neither set, [Default]
// applies: production API, sealed secure storage under
// ~/.local/share/usher, and device-local time for "today" stats. There
// is no directory search.
//
// Files are YAML. A file ending in .json or .jsonc is read as JSON with
// comments and trailing commas, which tidwall/jsonc strips first.
//
// Environment sections (development, staging, production) override
// base values when [Config].Environment matches. ${HOME} and
// ${VAR:-default} are expanded in storage.root after overrides. Environment variables never override individual
// settings.
package config
