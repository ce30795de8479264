// Copyright 2026 The Usher Authors
// SPDX-License-Identifier: Apache-2.0

package sealed

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/tedxbedayia/usher/lib/secret"
)

const secretKeyPrefix = "AGE-SECRET-KEY-1"

// WriteIdentityFile writes keypair to path in the format age-keygen
// produces: two comment lines followed by the secret key. The file is
// created with mode 0600 and must not already exist.
func WriteIdentityFile(path string, keypair *Keypair, now time.Time) error {
	var contents bytes.Buffer
	fmt.Fprintf(&contents, "# created: %s\n", now.UTC().Format(time.RFC3339))
	fmt.Fprintf(&contents, "# public key: %s\n", keypair.PublicKey)
	contents.Write(keypair.PrivateKey.Bytes())
	contents.WriteByte('\n')
	defer secret.Zero(contents.Bytes())

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("creating identity directory: %w", err)
	}
	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		return fmt.Errorf("creating identity file: %w", err)
	}
	if _, err := file.Write(contents.Bytes()); err != nil {
		file.Close()
		os.Remove(path)
		return fmt.Errorf("writing identity file: %w", err)
	}
	if err := file.Close(); err != nil {
		os.Remove(path)
		return fmt.Errorf("closing identity file: %w", err)
	}
	return nil
}

// ReadIdentityFile loads the first secret key found in an age identity
// file. Comment and blank lines are skipped. The public key is derived
// from the secret key, not trusted from the comment.
func ReadIdentityFile(path string) (*Keypair, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading identity file: %w", err)
	}
	defer secret.Zero(data)

	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if !bytes.HasPrefix(line, []byte(secretKeyPrefix)) {
			continue
		}
		// NewFromBytes zeroes line, which aliases data.
		privateKey, err := secret.NewFromBytes(line)
		if err != nil {
			return nil, fmt.Errorf("protecting private key: %w", err)
		}
		return keypairFromPrivateKey(privateKey)
	}
	return nil, fmt.Errorf("identity file %s contains no %s key", path, secretKeyPrefix)
}
