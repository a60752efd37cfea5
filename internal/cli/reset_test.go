package cli

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/terraincognita07/healthlog/internal/models"
	"github.com/terraincognita07/healthlog/internal/services"
)

type resetterStub struct {
	phone    string
	password string
	err      error
}

func (stub *resetterStub) ResetPassword(_ context.Context, phone string, password string) (models.User, error) {
	stub.phone = phone
	stub.password = password
	if stub.err != nil {
		return models.User{}, stub.err
	}
	return models.User{Phone: phone}, nil
}

func TestGenerateTemporaryPasswordMinimumLength(t *testing.T) {
	t.Parallel()

	password, err := generateTemporaryPassword(4)
	if err != nil {
		t.Fatalf("generateTemporaryPassword returned error: %v", err)
	}
	if len(password) != 8 {
		t.Fatalf("generateTemporaryPassword minimum len = %d, want 8", len(password))
	}
}

func TestGenerateTemporaryPasswordAlphabet(t *testing.T) {
	t.Parallel()

	password, err := generateTemporaryPassword(24)
	if err != nil {
		t.Fatalf("generateTemporaryPassword returned error: %v", err)
	}
	if len(password) != 24 {
		t.Fatalf("generateTemporaryPassword len = %d, want 24", len(password))
	}
	for _, char := range password {
		if !strings.ContainsRune(temporaryPasswordAlphabet, char) {
			t.Fatalf("password %q contains char %q outside alphabet", password, char)
		}
	}
}

func TestRunResetPasswordCommandPrintsTemporaryPassword(t *testing.T) {
	stub := &resetterStub{}
	var out bytes.Buffer

	if err := RunResetPasswordCommand(context.Background(), &out, stub, "0812345678", false); err != nil {
		t.Fatalf("RunResetPasswordCommand returned error: %v", err)
	}
	if stub.phone != "0812345678" {
		t.Fatalf("expected phone to be passed through, got %q", stub.phone)
	}
	if len(stub.password) != 12 {
		t.Fatalf("expected 12 character temporary password, got %q", stub.password)
	}
	if !strings.Contains(out.String(), "Temporary password: "+stub.password) {
		t.Fatalf("expected temporary password in output, got %q", out.String())
	}
}

func TestRunResetPasswordCommandPromptDoesNotEchoPassword(t *testing.T) {
	original := promptPassword
	t.Cleanup(func() { promptPassword = original })
	promptPassword = func(io.Writer) ([]byte, error) {
		return []byte("chosen-secret"), nil
	}

	stub := &resetterStub{}
	var out bytes.Buffer
	if err := RunResetPasswordCommand(context.Background(), &out, stub, "0812345678", true); err != nil {
		t.Fatalf("RunResetPasswordCommand returned error: %v", err)
	}
	if stub.password != "chosen-secret" {
		t.Fatalf("expected prompted password, got %q", stub.password)
	}
	if strings.Contains(out.String(), "chosen-secret") {
		t.Fatal("prompted password must not be printed")
	}
}

func TestRunResetPasswordCommandErrors(t *testing.T) {
	if err := RunResetPasswordCommand(context.Background(), io.Discard, &resetterStub{}, "  ", false); err == nil {
		t.Fatal("expected error for empty phone")
	}

	stub := &resetterStub{err: services.ErrPasswordTooShort}
	err := RunResetPasswordCommand(context.Background(), io.Discard, stub, "0812345678", false)
	if !errors.Is(err, services.ErrPasswordTooShort) {
		t.Fatalf("expected wrapped service error, got %v", err)
	}
}

func TestReadPasswordLine(t *testing.T) {
	t.Parallel()

	password, err := readPasswordLine(strings.NewReader("s3cret\r\nignored\n"))
	if err != nil {
		t.Fatalf("readPasswordLine returned error: %v", err)
	}
	if string(password) != "s3cret" {
		t.Fatalf("expected trimmed line, got %q", password)
	}

	password, err = readPasswordLine(strings.NewReader("no-newline"))
	if err != nil || string(password) != "no-newline" {
		t.Fatalf("expected final line without newline, got %q (%v)", password, err)
	}

	if _, err := readPasswordLine(strings.NewReader("\n")); err == nil {
		t.Fatal("expected error for empty password")
	}
}
