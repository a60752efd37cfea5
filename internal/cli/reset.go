package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/terraincognita07/healthlog/internal/models"
	"github.com/terraincognita07/healthlog/internal/security"
)

const temporaryPasswordAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnopqrstuvwxyz23456789"

// PasswordResetter is satisfied by services.AuthService.
type PasswordResetter interface {
	ResetPassword(ctx context.Context, phone string, newPassword string) (models.User, error)
}

// promptPassword is replaced in tests.
var promptPassword = func(out io.Writer) ([]byte, error) {
	fmt.Fprint(out, "New password: ")
	password, err := readPasswordNoEcho(os.Stdin)
	fmt.Fprintln(out)
	return password, err
}

// RunResetPasswordCommand sets a new password for the user with the given
// phone. Without prompt a temporary password is generated and printed.
func RunResetPasswordCommand(ctx context.Context, out io.Writer, resetter PasswordResetter, phone string, prompt bool) error {
	if strings.TrimSpace(phone) == "" {
		return errors.New("phone is required")
	}

	var password string
	if prompt {
		raw, err := promptPassword(out)
		if err != nil {
			return fmt.Errorf("read password: %w", err)
		}
		password = string(raw)
	} else {
		generated, err := generateTemporaryPassword(12)
		if err != nil {
			return fmt.Errorf("generate temporary password: %w", err)
		}
		password = generated
	}

	user, err := resetter.ResetPassword(ctx, phone, password)
	if err != nil {
		return fmt.Errorf("reset password: %w", err)
	}

	fmt.Fprintf(out, "Password reset for %s\n", user.Phone)
	if !prompt {
		fmt.Fprintf(out, "Temporary password: %s\n", password)
	}
	return nil
}

func generateTemporaryPassword(length int) (string, error) {
	if length < 8 {
		length = 8
	}
	return security.RandomString(length, temporaryPasswordAlphabet)
}
