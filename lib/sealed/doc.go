// Copyright 2026 The Usher Authors
// SPDX-License-Identifier: Apache-2.0

// Package sealed provides age encryption for the usher device store.
// It wraps filippo.io/age for the operations the store needs: generate
// an x25519 keypair, persist it as an identity file, encrypt a value to
// the keypair's recipient, and decrypt it again.
//
// Ciphertext is raw age binary format, suitable for writing directly to
// a file. Private keys and decrypted plaintext are returned as
// [secret.Buffer] values so they stay out of the Go heap.
//
//   - [GenerateKeypair] -- new x25519 keypair
//   - [WriteIdentityFile] / [ReadIdentityFile] -- age-keygen style files
//   - [Encrypt] / [Decrypt] -- value sealing
package sealed
