package services

import (
	"net/mail"
	"strings"
	"unicode"

	"github.com/terraincognita07/healthlog/internal/apperrors"
)

const minPhoneDigits = 10

var (
	ErrPhoneInvalid       = apperrors.NewValidationError("phone", "phone_invalid", "phone must contain at least 10 digits")
	ErrEmailInvalid       = apperrors.NewValidationError("email", "email_invalid", "email address is not valid")
	ErrPhoneExists        = apperrors.New(apperrors.ErrorTypeConflict, "phone_exists", "phone is already registered")
	ErrInvalidCredentials = apperrors.New(apperrors.ErrorTypeAuth, "invalid_credentials", "invalid phone or password")
)

// NormalizePhone strips spaces and dashes; what remains must be digits.
func NormalizePhone(raw string) (string, error) {
	phone := strings.NewReplacer(" ", "", "-", "").Replace(strings.TrimSpace(raw))
	if len(phone) < minPhoneDigits {
		return "", ErrPhoneInvalid
	}
	for _, char := range phone {
		if !unicode.IsDigit(char) || char > unicode.MaxASCII {
			return "", ErrPhoneInvalid
		}
	}
	return phone, nil
}

// NormalizeEmail lower-cases an optional address. Empty input stays empty.
func NormalizeEmail(raw string) (string, error) {
	email := strings.ToLower(strings.TrimSpace(raw))
	if email == "" {
		return "", nil
	}
	parsed, err := mail.ParseAddress(email)
	if err != nil || parsed.Address != email {
		return "", ErrEmailInvalid
	}
	return email, nil
}
