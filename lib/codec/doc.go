// Copyright 2026 The Usher Authors
// SPDX-License-Identifier: Apache-2.0

// Package codec provides usher's CBOR encoding configuration.
//
// JSON is used on the wire to the ticket API and for --json CLI
// output. CBOR is used for local state blobs such as the scan history.
// The encoder uses Core Deterministic Encoding (RFC 8949 §4.2), so the
// same history always serializes to the same bytes.
//
// Types with json struct tags encode without cbor tags: fxamacker/cbor
// falls back to the json tag name.
//
// The key-value store holds strings, so [MarshalString] and
// [UnmarshalString] wrap the CBOR bytes in standard base64.
package codec
