// Copyright 2026 The Usher Authors
// SPDX-License-Identifier: Apache-2.0

package secret

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
)

// ReadLine reads the first line from reader, trims surrounding
// whitespace, and returns it in a Buffer. An empty line is an error.
func ReadLine(reader io.Reader) (*Buffer, error) {
	scanner := bufio.NewScanner(reader)
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("secret: reading input: %w", err)
		}
		return nil, fmt.Errorf("secret: input is empty")
	}
	line := scanner.Bytes()

	trimmed := bytes.TrimSpace(line)
	if len(trimmed) == 0 {
		Zero(line)
		return nil, fmt.Errorf("secret: input is empty")
	}
	buffer, err := NewFromBytes(trimmed)
	Zero(line)
	return buffer, err
}
