// Copyright 2026 The Usher Authors
// SPDX-License-Identifier: Apache-2.0

package secret

import "testing"

func TestNewRejectsNonPositiveSize(t *testing.T) {
	for _, size := range []int{0, -1} {
		if _, err := New(size); err == nil {
			t.Errorf("New(%d) succeeded, want error", size)
		}
	}
}

func TestNewFromBytesMovesSource(t *testing.T) {
	source := []byte("event-app-key")
	buffer, err := NewFromBytes(source)
	if err != nil {
		t.Fatalf("NewFromBytes: %v", err)
	}
	defer buffer.Close()

	if got := buffer.String(); got != "event-app-key" {
		t.Errorf("String() = %q, want %q", got, "event-app-key")
	}
	if buffer.Len() != len("event-app-key") {
		t.Errorf("Len() = %d, want %d", buffer.Len(), len("event-app-key"))
	}
	for index, value := range source {
		if value != 0 {
			t.Fatalf("source[%d] = %d after move, want 0", index, value)
		}
	}
}

func TestNewFromBytesEmpty(t *testing.T) {
	if _, err := NewFromBytes(nil); err == nil {
		t.Fatal("NewFromBytes(nil) succeeded, want error")
	}
}

func TestCloseIdempotentAndPanicsAfter(t *testing.T) {
	buffer, err := NewFromString("k")
	if err != nil {
		t.Fatalf("NewFromString: %v", err)
	}
	if err := buffer.Close(); err != nil {
		t.Fatalf("first Close: %v", err)
	}
	if err := buffer.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}

	defer func() {
		if recover() == nil {
			t.Error("String() after Close did not panic")
		}
	}()
	_ = buffer.String()
}
