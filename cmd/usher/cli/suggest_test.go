// Copyright 2026 The Usher Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import "testing"

func TestLevenshtein(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"scan", "", 4},
		{"", "sell", 4},
		{"admit", "admit", 0},
		{"admti", "admit", 2},
		{"histroy", "history", 2},
		{"kitten", "sitting", 3},
	}
	for _, test := range tests {
		if got := levenshtein(test.a, test.b); got != test.want {
			t.Errorf("levenshtein(%q, %q) = %d, want %d", test.a, test.b, got, test.want)
		}
	}
}

func TestSuggestCommand(t *testing.T) {
	commands := []*Command{{Name: "admit"}, {Name: "scan"}, {Name: "sell"}, {Name: "history"}}

	if got := suggestCommand("admt", commands); got != "admit" {
		t.Errorf("suggestCommand(admt) = %q, want admit", got)
	}
	if got := suggestCommand("completely-different", commands); got != "" {
		t.Errorf("suggestCommand(completely-different) = %q, want empty", got)
	}
}

func TestSuggestFlag(t *testing.T) {
	var params struct {
		Sender string `flag:"sender" desc:"sender username"`
		Yes    bool   `flag:"yes" desc:"skip confirmation"`
	}
	flagSet := FlagsFromParams("sell", &params)

	if got := suggestFlag([]string{"--yes", "--sendr=jane"}, flagSet); got != "--sender" {
		t.Errorf("suggestFlag = %q, want --sender", got)
	}
	if got := suggestFlag([]string{"--zzzzzzzz"}, flagSet); got != "" {
		t.Errorf("suggestFlag = %q, want empty", got)
	}
}
