package auth_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"platea/internal/auth"
	"platea/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type memMailer struct {
	to   string
	body string
}

func (m *memMailer) Send(ctx context.Context, to, subject, body string) error {
	m.to = to
	m.body = body
	return nil
}

func seedUser(t *testing.T, gdb *gorm.DB) auth.User {
	hash, err := auth.HashPassword("old-password")
	require.NoError(t, err)
	u := auth.User{Name: "alice", Email: "alice@example.com", PasswordHash: hash}
	require.NoError(t, gdb.Create(&u).Error)
	return u
}

func TestResetFlow(t *testing.T) {
	gdb := testutil.OpenDB(t)
	mailer := &memMailer{}
	svc := &auth.ResetService{DB: gdb, Mailer: mailer, AppBaseURL: "https://app.example.com"}
	ctx := context.Background()
	u := seedUser(t, gdb)

	require.NoError(t, svc.RequestReset(ctx, u.Email))
	assert.Equal(t, u.Email, mailer.to)
	require.Contains(t, mailer.body, "reset-password?token=")

	// Pull the token out of the mailed link.
	idx := strings.Index(mailer.body, "token=")
	token := strings.TrimSpace(mailer.body[idx+len("token="):])

	require.NoError(t, svc.ConfirmReset(ctx, token, "new-password"))

	var fresh auth.User
	require.NoError(t, gdb.First(&fresh, "id = ?", u.ID).Error)
	assert.True(t, auth.ComparePassword(fresh.PasswordHash, "new-password"))
	assert.Nil(t, fresh.ResetToken)

	// The token is single use.
	assert.ErrorIs(t, svc.ConfirmReset(ctx, token, "again"), auth.ErrInvalidResetToken)
}

func TestRequestResetUnknownEmailIsSilent(t *testing.T) {
	gdb := testutil.OpenDB(t)
	mailer := &memMailer{}
	svc := &auth.ResetService{DB: gdb, Mailer: mailer}

	require.NoError(t, svc.RequestReset(context.Background(), "nobody@example.com"))
	assert.Empty(t, mailer.to)
}

func TestConfirmResetExpiredToken(t *testing.T) {
	gdb := testutil.OpenDB(t)
	svc := &auth.ResetService{DB: gdb}
	ctx := context.Background()
	u := seedUser(t, gdb)

	token := "stale-token"
	expiry := time.Now().Add(-time.Minute)
	require.NoError(t, gdb.Model(&auth.User{}).Where("id = ?", u.ID).
		Updates(map[string]any{"reset_token": token, "reset_token_expiry": expiry}).Error)

	assert.ErrorIs(t, svc.ConfirmReset(ctx, token, "new-password"), auth.ErrInvalidResetToken)

	var fresh auth.User
	require.NoError(t, gdb.First(&fresh, "id = ?", u.ID).Error)
	assert.True(t, auth.ComparePassword(fresh.PasswordHash, "old-password"))
}

func TestConfirmResetUnknownToken(t *testing.T) {
	gdb := testutil.OpenDB(t)
	svc := &auth.ResetService{DB: gdb}
	assert.ErrorIs(t, svc.ConfirmReset(context.Background(), "bogus", "pw"), auth.ErrInvalidResetToken)
}
