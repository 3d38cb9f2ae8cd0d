package collection

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestEncryptDecryptRoundTrip(t *testing.T) {
	plaintext := []byte("collection snapshot bytes")

	encrypted, err := encryptData(plaintext, "hunter2")
	if err != nil {
		t.Fatalf("encryptData() error = %v", err)
	}
	if bytes.Contains(encrypted, plaintext) {
		t.Error("ciphertext contains the plaintext")
	}

	decrypted, err := decryptData(encrypted, "hunter2")
	if err != nil {
		t.Fatalf("decryptData() error = %v", err)
	}
	if !bytes.Equal(decrypted, plaintext) {
		t.Errorf("round trip = %q, want %q", decrypted, plaintext)
	}
}

func TestDecryptWrongPassword(t *testing.T) {
	encrypted, err := encryptData([]byte("secret"), "correct")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := decryptData(encrypted, "wrong"); err == nil {
		t.Error("decryptData(wrong password) error = nil")
	}
}

func TestDecryptTruncated(t *testing.T) {
	if _, err := decryptData([]byte("short"), "pw"); err == nil {
		t.Error("decryptData(truncated) error = nil")
	}
}

func TestBackupRestore(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "collection.db")

	store, err := Open(DefaultDBConfig(dbPath))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	ctx := context.Background()
	if err := store.AddOwned(ctx, "Sol Ring", 2); err != nil {
		t.Fatal(err)
	}
	if err := store.AddOwned(ctx, "Cultivate", 1); err != nil {
		t.Fatal(err)
	}

	backupPath := filepath.Join(dir, "backup.edhbkp")
	if err := store.Backup(backupPath, "hunter2"); err != nil {
		t.Fatalf("Backup() error = %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(backupPath)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(data, []byte(backupMagicHeader)) {
		t.Error("backup file missing magic header")
	}
	if bytes.Contains(data, []byte("Sol Ring")) {
		t.Error("backup exposes card names in plaintext")
	}

	restoredPath := filepath.Join(dir, "restored.db")
	if err := Restore(backupPath, restoredPath, "hunter2"); err != nil {
		t.Fatalf("Restore() error = %v", err)
	}

	restored, err := Open(DefaultDBConfig(restoredPath))
	if err != nil {
		t.Fatalf("Open(restored) error = %v", err)
	}
	defer restored.Close()

	owned, err := restored.OwnedNames(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if !owned["Sol Ring"] || !owned["Cultivate"] {
		t.Errorf("restored owned = %v, want original inventory", owned)
	}
}

func TestBackupWrongPasswordAndBadFile(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "collection.db")

	store, err := Open(DefaultDBConfig(dbPath))
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	backupPath := filepath.Join(dir, "backup.edhbkp")
	if err := store.Backup(backupPath, "correct"); err != nil {
		t.Fatalf("Backup() error = %v", err)
	}

	if err := Restore(backupPath, filepath.Join(dir, "out.db"), "wrong"); err == nil {
		t.Error("Restore(wrong password) error = nil")
	}

	plain := filepath.Join(dir, "plain.txt")
	if err := os.WriteFile(plain, []byte("not a backup"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := Restore(plain, filepath.Join(dir, "out.db"), "correct"); err == nil {
		t.Error("Restore(non-backup file) error = nil")
	}
}

func TestBackupRequiresPasswordAndFileDB(t *testing.T) {
	mem := memoryStore(t)
	if err := mem.Backup(filepath.Join(t.TempDir(), "b"), "pw"); err == nil {
		t.Error("Backup(:memory:) error = nil")
	}

	store, err := Open(DefaultDBConfig(filepath.Join(t.TempDir(), "c.db")))
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()
	if err := store.Backup(filepath.Join(t.TempDir(), "b"), ""); err == nil {
		t.Error("Backup(empty password) error = nil")
	}
}
