// Copyright 2026 The Usher Authors
// SPDX-License-Identifier: Apache-2.0

package ticketref

import (
	"errors"
	"testing"
)

func TestParse(t *testing.T) {
	const canonical = "3f2c9a4e-8b1d-4c5e-9f0a-1b2c3d4e5f60"

	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"bare uuid", canonical, canonical},
		{"whitespace", "  " + canonical + "\n", canonical},
		{"uppercase uuid", "3F2C9A4E-8B1D-4C5E-9F0A-1B2C3D4E5F60", canonical},
		{"urn form", "urn:uuid:" + canonical, canonical},
		{"url", "https://www.tedxbedayia.com/ticket/" + canonical, canonical},
		{"url trailing slash", "https://www.tedxbedayia.com/ticket/" + canonical + "/", canonical},
		{"url query", "https://www.tedxbedayia.com/ticket/" + canonical + "?ref=email", canonical},
		{"url fragment", "https://www.tedxbedayia.com/t/" + canonical + "#top", canonical},
		{"relative path", "ticket/abc-123", "abc-123"},
		{"non uuid passthrough", "abc-123", "abc-123"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got, err := Parse(test.raw)
			if err != nil {
				t.Fatalf("Parse(%q) error: %v", test.raw, err)
			}
			if got != test.want {
				t.Errorf("Parse(%q) = %q, want %q", test.raw, got, test.want)
			}
		})
	}
}

func TestParseEmpty(t *testing.T) {
	for _, raw := range []string{"", "   ", "/", "///", "/?ref=email", " / "} {
		if _, err := Parse(raw); !errors.Is(err, ErrEmpty) {
			t.Errorf("Parse(%q) error = %v, want ErrEmpty", raw, err)
		}
	}
}

func TestIsUUID(t *testing.T) {
	if !IsUUID("3f2c9a4e-8b1d-4c5e-9f0a-1b2c3d4e5f60") {
		t.Error("IsUUID(canonical) = false")
	}
	if IsUUID("3F2C9A4E-8B1D-4C5E-9F0A-1B2C3D4E5F60") {
		t.Error("IsUUID(uppercase) = true, want false (not canonical)")
	}
	if IsUUID("abc-123") {
		t.Error("IsUUID(abc-123) = true")
	}
}
