package sqlite

import (
	"context"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"database/sql"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/socialpilot/socialpilot/internal/domain/model"
	"github.com/socialpilot/socialpilot/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.CredentialStore = (*CredentialRepo)(nil)

// CredentialRepo is the SQLite implementation of the CredentialStore port.
// Access tokens are encrypted with AES-256-GCM before write and decrypted
// after read; member id and expiry are stored in the clear.
type CredentialRepo struct {
	db  *DB
	key []byte // 32-byte AES-256 key; nil when encryption is disabled.
}

// NewCredentialRepo creates a new CredentialRepo. key must be 32 bytes for
// AES-256-GCM, or nil to disable credential storage (all operations will
// return driven.ErrEncryptionKeyNotSet).
func NewCredentialRepo(db *DB, key []byte) *CredentialRepo {
	return &CredentialRepo{db: db, key: key}
}

// Set stores or replaces the credential for its account key. The whole
// record is written in one statement so concurrent runs can never observe a
// partially merged credential.
func (r *CredentialRepo) Set(ctx context.Context, cred model.Credential) error {
	encrypted, err := r.encrypt(cred.Token)
	if err != nil {
		return err
	}

	const query = `INSERT OR REPLACE INTO credentials (account_key, access_token, member_id, expires_at_ms, updated_at)
VALUES (?, ?, ?, ?, CURRENT_TIMESTAMP)`
	_, err = r.db.Writer.ExecContext(ctx, query,
		cred.AccountKey, encrypted, cred.MemberID, cred.ExpiresAt.UnixMilli())
	if err != nil {
		return fmt.Errorf("set credential %q: %w", cred.AccountKey, err)
	}
	return nil
}

// Get retrieves the credential for the given account key.
// Returns (nil, nil) if no credential exists.
func (r *CredentialRepo) Get(ctx context.Context, accountKey string) (*model.Credential, error) {
	if r.key == nil {
		return nil, driven.ErrEncryptionKeyNotSet
	}

	const query = `SELECT access_token, member_id, expires_at_ms FROM credentials WHERE account_key = ?`
	var (
		encrypted   string
		memberID    string
		expiresAtMS int64
	)
	err := r.db.Reader.QueryRowContext(ctx, query, accountKey).Scan(&encrypted, &memberID, &expiresAtMS)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get credential %q: %w", accountKey, err)
	}

	token, err := r.decrypt(encrypted)
	if err != nil {
		return nil, fmt.Errorf("decrypt credential %q: %w", accountKey, err)
	}

	return &model.Credential{
		AccountKey: accountKey,
		Token:      token,
		MemberID:   memberID,
		ExpiresAt:  time.UnixMilli(expiresAtMS),
	}, nil
}

// Delete removes the credential for the given account key.
func (r *CredentialRepo) Delete(ctx context.Context, accountKey string) error {
	const query = `DELETE FROM credentials WHERE account_key = ?`
	_, err := r.db.Writer.ExecContext(ctx, query, accountKey)
	if err != nil {
		return fmt.Errorf("delete credential %q: %w", accountKey, err)
	}
	return nil
}

// encrypt encrypts plaintext using AES-256-GCM and returns a base64-encoded string
// containing the nonce (12 bytes) prepended to the ciphertext.
func (r *CredentialRepo) encrypt(plaintext string) (string, error) {
	if r.key == nil {
		return "", driven.ErrEncryptionKeyNotSet
	}

	block, err := aes.NewCipher(r.key)
	if err != nil {
		return "", fmt.Errorf("aes.NewCipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", fmt.Errorf("cipher.NewGCM: %w", err)
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("rand nonce: %w", err)
	}

	// Seal appends the ciphertext to nonce, producing: nonce || ciphertext || tag.
	ciphertext := gcm.Seal(nonce, nonce, []byte(plaintext), nil)
	return base64.StdEncoding.EncodeToString(ciphertext), nil
}

// decrypt decrypts a base64-encoded AES-256-GCM ciphertext.
func (r *CredentialRepo) decrypt(encoded string) (string, error) {
	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", fmt.Errorf("base64 decode: %w", err)
	}

	block, err := aes.NewCipher(r.key)
	if err != nil {
		return "", fmt.Errorf("aes.NewCipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", fmt.Errorf("cipher.NewGCM: %w", err)
	}

	nonceSize := gcm.NonceSize()
	if len(data) < nonceSize {
		return "", errors.New("ciphertext too short")
	}

	nonce, ciphertext := data[:nonceSize], data[nonceSize:]
	plaintext, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", fmt.Errorf("gcm.Open: %w", err)
	}

	return string(plaintext), nil
}
