package services

import (
	"unicode/utf8"

	"github.com/terraincognita07/healthlog/internal/apperrors"
)

const MinPasswordLength = 6

var ErrPasswordTooShort = apperrors.NewValidationError("password", "password_too_short", "password must be at least 6 characters")

func ValidatePassword(password string) error {
	if utf8.RuneCountInString(password) < MinPasswordLength {
		return ErrPasswordTooShort
	}
	return nil
}
