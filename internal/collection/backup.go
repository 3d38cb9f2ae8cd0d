package collection

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/crypto/argon2"
)

const (
	// backupMagicHeader identifies encrypted backup files.
	backupMagicHeader = "EDHABKP1"

	// Argon2id parameters (RFC 9106 recommendations)
	argon2Time    = 1
	argon2Memory  = 64 * 1024 // 64 MB
	argon2Threads = 4
	argon2KeyLen  = 32 // 256 bits for AES-256

	saltLength = 32
)

// Backup writes an encrypted copy of the collection database. The snapshot is
// taken with VACUUM INTO so no exclusive lock is needed, then encrypted with
// AES-256-GCM under an Argon2id-derived key.
func (s *Store) Backup(destPath, password string) error {
	if s.dbPath == ":memory:" {
		return fmt.Errorf("cannot back up an in-memory database")
	}
	if password == "" {
		return fmt.Errorf("backup password required")
	}

	snapshotPath := filepath.Join(os.TempDir(), fmt.Sprintf("edh-architect-backup-%d.db", time.Now().UnixNano()))
	defer func() { _ = os.Remove(snapshotPath) }()

	if _, err := s.db.Exec(fmt.Sprintf("VACUUM INTO %q", snapshotPath)); err != nil {
		return fmt.Errorf("failed to snapshot database: %w", err)
	}

	plaintext, err := os.ReadFile(snapshotPath)
	if err != nil {
		return fmt.Errorf("failed to read snapshot: %w", err)
	}

	encrypted, err := encryptData(plaintext, password)
	if err != nil {
		return fmt.Errorf("encryption failed: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(destPath), 0o755); err != nil {
		return fmt.Errorf("failed to create backup directory: %w", err)
	}

	out := append([]byte(backupMagicHeader), encrypted...)
	if err := os.WriteFile(destPath, out, 0o600); err != nil {
		return fmt.Errorf("failed to write backup: %w", err)
	}
	return nil
}

// Restore decrypts a backup file and writes the database to destPath. The
// store itself is not reopened; callers reopen against the restored file.
func Restore(backupPath, destPath, password string) error {
	data, err := os.ReadFile(backupPath)
	if err != nil {
		return fmt.Errorf("failed to read backup: %w", err)
	}

	if !bytes.HasPrefix(data, []byte(backupMagicHeader)) {
		return fmt.Errorf("not an encrypted backup file")
	}

	plaintext, err := decryptData(data[len(backupMagicHeader):], password)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(destPath), 0o755); err != nil {
		return fmt.Errorf("failed to create restore directory: %w", err)
	}
	if err := os.WriteFile(destPath, plaintext, 0o644); err != nil {
		return fmt.Errorf("failed to write restored database: %w", err)
	}
	return nil
}

// deriveKey derives an AES-256 key from a password with Argon2id.
func deriveKey(password string, salt []byte) []byte {
	return argon2.IDKey([]byte(password), salt, argon2Time, argon2Memory, argon2Threads, argon2KeyLen)
}

// encryptData returns salt || nonce || ciphertext (ciphertext includes the
// GCM auth tag).
func encryptData(plaintext []byte, password string) ([]byte, error) {
	salt := make([]byte, saltLength)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("failed to generate salt: %w", err)
	}

	block, err := aes.NewCipher(deriveKey(password, salt))
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("failed to generate nonce: %w", err)
	}

	ciphertext := gcm.Seal(nil, nonce, plaintext, nil)

	result := make([]byte, 0, len(salt)+len(nonce)+len(ciphertext))
	result = append(result, salt...)
	result = append(result, nonce...)
	result = append(result, ciphertext...)
	return result, nil
}

// decryptData reverses encryptData.
func decryptData(encrypted []byte, password string) ([]byte, error) {
	minSize := saltLength + 12 + 16 // salt + GCM nonce + auth tag
	if len(encrypted) < minSize {
		return nil, fmt.Errorf("encrypted data too short")
	}

	salt := encrypted[:saltLength]
	encrypted = encrypted[saltLength:]

	block, err := aes.NewCipher(deriveKey(password, salt))
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}

	nonceSize := gcm.NonceSize()
	if len(encrypted) < nonceSize {
		return nil, fmt.Errorf("encrypted data too short for nonce")
	}
	nonce := encrypted[:nonceSize]
	ciphertext := encrypted[nonceSize:]

	plaintext, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, fmt.Errorf("decryption failed (wrong password or corrupted data): %w", err)
	}
	return plaintext, nil
}
