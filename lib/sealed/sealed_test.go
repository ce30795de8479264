// Copyright 2026 The Usher Authors
// SPDX-License-Identifier: Apache-2.0

package sealed

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func generate(t *testing.T) *Keypair {
	t.Helper()
	keypair, err := GenerateKeypair()
	if err != nil {
		t.Fatalf("GenerateKeypair() error: %v", err)
	}
	t.Cleanup(func() { keypair.Close() })
	return keypair
}

func TestGenerateKeypair(t *testing.T) {
	keypair := generate(t)

	if !strings.HasPrefix(keypair.PrivateKey.String(), "AGE-SECRET-KEY-1") {
		t.Error("PrivateKey does not have prefix AGE-SECRET-KEY-1")
	}
	if !strings.HasPrefix(keypair.PublicKey, "age1") {
		t.Errorf("PublicKey = %q, want prefix age1", keypair.PublicKey)
	}

	other := generate(t)
	if other.PublicKey == keypair.PublicKey {
		t.Error("two generated keypairs have identical public keys")
	}
}

func TestEncryptDecrypt(t *testing.T) {
	keypair := generate(t)

	plaintext := []byte("tedx-event-key")
	ciphertext, err := Encrypt(plaintext, keypair.PublicKey)
	if err != nil {
		t.Fatalf("Encrypt() error: %v", err)
	}
	if bytes.Contains(ciphertext, plaintext) {
		t.Error("ciphertext contains the plaintext")
	}

	decrypted, err := Decrypt(ciphertext, keypair.PrivateKey)
	if err != nil {
		t.Fatalf("Decrypt() error: %v", err)
	}
	defer decrypted.Close()
	if got := decrypted.String(); got != "tedx-event-key" {
		t.Errorf("Decrypt() = %q, want %q", got, "tedx-event-key")
	}
}

func TestEncryptDecrypt_EmptyPlaintext(t *testing.T) {
	keypair := generate(t)

	ciphertext, err := Encrypt(nil, keypair.PublicKey)
	if err != nil {
		t.Fatalf("Encrypt() error: %v", err)
	}
	decrypted, err := Decrypt(ciphertext, keypair.PrivateKey)
	if err != nil {
		t.Fatalf("Decrypt() error: %v", err)
	}
	if decrypted != nil {
		t.Errorf("Decrypt(empty) = %d bytes, want nil buffer", decrypted.Len())
	}
}

func TestDecrypt_WrongKey(t *testing.T) {
	sender := generate(t)
	other := generate(t)

	ciphertext, err := Encrypt([]byte("value"), sender.PublicKey)
	if err != nil {
		t.Fatalf("Encrypt() error: %v", err)
	}
	if _, err := Decrypt(ciphertext, other.PrivateKey); err == nil {
		t.Fatal("Decrypt() with wrong key succeeded")
	}
}

func TestDecrypt_Corrupted(t *testing.T) {
	keypair := generate(t)
	if _, err := Decrypt([]byte("not age data"), keypair.PrivateKey); err == nil {
		t.Fatal("Decrypt() of garbage succeeded")
	}
}

func TestEncrypt_Recipients(t *testing.T) {
	if _, err := Encrypt([]byte("x")); err == nil {
		t.Error("Encrypt() with no recipients succeeded")
	}
	if _, err := Encrypt([]byte("x"), "age1notakey"); err == nil {
		t.Error("Encrypt() with invalid recipient succeeded")
	}
}

func TestIdentityFileRoundTrip(t *testing.T) {
	keypair := generate(t)
	path := filepath.Join(t.TempDir(), "store", "identity.age-key")

	now := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	if err := WriteIdentityFile(path, keypair, now); err != nil {
		t.Fatalf("WriteIdentityFile() error: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat: %v", err)
	}
	if mode := info.Mode().Perm(); mode != 0o600 {
		t.Errorf("identity file mode = %o, want 600", mode)
	}

	contents, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !strings.Contains(string(contents), "# public key: "+keypair.PublicKey) {
		t.Errorf("identity file missing public key comment:\n%s", contents)
	}
	if !strings.Contains(string(contents), "# created: 2026-03-14T09:30:00Z") {
		t.Errorf("identity file missing created comment:\n%s", contents)
	}

	loaded, err := ReadIdentityFile(path)
	if err != nil {
		t.Fatalf("ReadIdentityFile() error: %v", err)
	}
	defer loaded.Close()
	if loaded.PublicKey != keypair.PublicKey {
		t.Errorf("loaded PublicKey = %q, want %q", loaded.PublicKey, keypair.PublicKey)
	}

	if err := WriteIdentityFile(path, keypair, now); err == nil {
		t.Error("WriteIdentityFile() over an existing file succeeded")
	}
}

func TestReadIdentityFile_NoKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "identity.age-key")
	if err := os.WriteFile(path, []byte("# only comments\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := ReadIdentityFile(path); err == nil {
		t.Fatal("ReadIdentityFile() without a key succeeded")
	}
}
