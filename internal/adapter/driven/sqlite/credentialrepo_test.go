package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/socialpilot/socialpilot/internal/domain/model"
	"github.com/socialpilot/socialpilot/internal/domain/port/driven"
)

func TestCredentialRepo_SetAndGet(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCredentialRepo(db, testKey())
	ctx := context.Background()

	expiresAt := time.Now().Add(time.Hour).Truncate(time.Millisecond)
	err := repo.Set(ctx, model.Credential{
		AccountKey: "user@example.com",
		Token:      "tok_abc123",
		MemberID:   "member-42",
		ExpiresAt:  expiresAt,
	})
	require.NoError(t, err)

	cred, err := repo.Get(ctx, "user@example.com")
	require.NoError(t, err)
	require.NotNil(t, cred)
	assert.Equal(t, "tok_abc123", cred.Token)
	assert.Equal(t, "member-42", cred.MemberID)
	assert.True(t, cred.ExpiresAt.Equal(expiresAt))
}

func TestCredentialRepo_GetMissing(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCredentialRepo(db, testKey())
	ctx := context.Background()

	cred, err := repo.Get(ctx, "nobody@example.com")
	require.NoError(t, err)
	assert.Nil(t, cred)
}

func TestCredentialRepo_SetReplacesWholeRecord(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCredentialRepo(db, testKey())
	ctx := context.Background()

	err := repo.Set(ctx, model.Credential{
		AccountKey: "user@example.com",
		Token:      "old-token",
		MemberID:   "old-member",
		ExpiresAt:  time.Now().Add(time.Hour),
	})
	require.NoError(t, err)

	// The replacement carries an empty member id; it must win, not merge.
	err = repo.Set(ctx, model.Credential{
		AccountKey: "user@example.com",
		Token:      "new-token",
		ExpiresAt:  time.Now().Add(2 * time.Hour),
	})
	require.NoError(t, err)

	cred, err := repo.Get(ctx, "user@example.com")
	require.NoError(t, err)
	require.NotNil(t, cred)
	assert.Equal(t, "new-token", cred.Token)
	assert.Equal(t, "", cred.MemberID)
}

func TestCredentialRepo_Delete(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCredentialRepo(db, testKey())
	ctx := context.Background()

	err := repo.Set(ctx, model.Credential{
		AccountKey: "user@example.com",
		Token:      "tok",
		ExpiresAt:  time.Now().Add(time.Hour),
	})
	require.NoError(t, err)

	require.NoError(t, repo.Delete(ctx, "user@example.com"))

	cred, err := repo.Get(ctx, "user@example.com")
	require.NoError(t, err)
	assert.Nil(t, cred)
}

func TestCredentialRepo_DeleteMissingIsNoop(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCredentialRepo(db, testKey())

	assert.NoError(t, repo.Delete(context.Background(), "nobody@example.com"))
}

func TestCredentialRepo_NoKeyConfigured(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCredentialRepo(db, nil)
	ctx := context.Background()

	err := repo.Set(ctx, model.Credential{AccountKey: "a", Token: "t"})
	assert.ErrorIs(t, err, driven.ErrEncryptionKeyNotSet)

	_, err = repo.Get(ctx, "a")
	assert.ErrorIs(t, err, driven.ErrEncryptionKeyNotSet)
}

func TestCredentialRepo_TokenEncryptedAtRest(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCredentialRepo(db, testKey())
	ctx := context.Background()

	err := repo.Set(ctx, model.Credential{
		AccountKey: "user@example.com",
		Token:      "super-secret-token",
		ExpiresAt:  time.Now().Add(time.Hour),
	})
	require.NoError(t, err)

	var stored string
	err = db.Reader.QueryRowContext(ctx,
		`SELECT access_token FROM credentials WHERE account_key = ?`, "user@example.com").Scan(&stored)
	require.NoError(t, err)
	assert.NotContains(t, stored, "super-secret-token")
}
