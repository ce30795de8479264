// Copyright 2026 The Usher Authors
// SPDX-License-Identifier: Apache-2.0

// Package secret holds sensitive bytes (the event app key, the local
// store's age identity) outside the Go heap.
//
// A [Buffer] is an anonymous mmap region locked against swap and
// excluded from core dumps. Close zeroes and unmaps it. [ReadLine]
// reads a single secret line from a reader straight into a Buffer,
// and [Zero] clears heap copies once they have been moved.
package secret
