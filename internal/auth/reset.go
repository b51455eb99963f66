package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
)

var ErrInvalidResetToken = errors.New("invalid or expired reset token")

const resetTokenTTL = time.Hour

// Mailer sends transactional mail. Satisfied by mail.SES.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

type ResetService struct {
	DB         *gorm.DB
	Mailer     Mailer
	AppBaseURL string
}

// RequestReset issues a reset token and mails the reset link. Unknown
// emails are not reported to the caller (no account enumeration).
func (s *ResetService) RequestReset(ctx context.Context, email string) error {
	var u User
	if err := s.DB.WithContext(ctx).Where("email = ?", email).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}

	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return err
	}
	token := hex.EncodeToString(buf)
	expiry := time.Now().Add(resetTokenTTL)

	if err := s.DB.WithContext(ctx).Model(&User{}).Where("id = ?", u.ID).
		Updates(map[string]any{
			"reset_token":        token,
			"reset_token_expiry": expiry,
		}).Error; err != nil {
		return err
	}

	if s.Mailer == nil {
		return nil
	}
	link := fmt.Sprintf("%s/reset-password?token=%s", s.AppBaseURL, token)
	body := "A password reset was requested for your account.\n\n" +
		"Open the link below within one hour to choose a new password:\n" + link
	return s.Mailer.Send(ctx, u.Email, "Reset your password", body)
}

// ConfirmReset consumes the token and sets the new password.
func (s *ResetService) ConfirmReset(ctx context.Context, token, newPassword string) error {
	var u User
	err := s.DB.WithContext(ctx).Where("reset_token = ?", token).First(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrInvalidResetToken
		}
		return err
	}
	if u.ResetTokenExpiry == nil || time.Now().After(*u.ResetTokenExpiry) {
		return ErrInvalidResetToken
	}

	hash, err := HashPassword(newPassword)
	if err != nil {
		return err
	}

	return s.DB.WithContext(ctx).Model(&User{}).Where("id = ?", u.ID).
		Updates(map[string]any{
			"password_hash":      hash,
			"reset_token":        nil,
			"reset_token_expiry": nil,
		}).Error
}
