package services

import (
	"errors"
	"testing"
)

func TestValidatePassword(t *testing.T) {
	for _, password := range []string{"", "12345", "รหัส"} {
		if err := ValidatePassword(password); !errors.Is(err, ErrPasswordTooShort) {
			t.Fatalf("expected ErrPasswordTooShort for %q, got %v", password, err)
		}
	}
	for _, password := range []string{"123456", "รหัสผ่าน"} {
		if err := ValidatePassword(password); err != nil {
			t.Fatalf("expected %q to be accepted, got %v", password, err)
		}
	}
}
