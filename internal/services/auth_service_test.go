package services

import (
	"context"
	"errors"
	"testing"

	"github.com/terraincognita07/healthlog/internal/apperrors"
	"github.com/terraincognita07/healthlog/internal/logger"
	"github.com/terraincognita07/healthlog/internal/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type authUserRepositoryStub struct {
	users   map[uint]models.User
	nextID  uint
	findErr error
}

func newAuthUserRepositoryStub() *authUserRepositoryStub {
	return &authUserRepositoryStub{users: map[uint]models.User{}, nextID: 1}
}

func (stub *authUserRepositoryStub) FindByID(_ context.Context, userID uint) (models.User, error) {
	if user, ok := stub.users[userID]; ok {
		return user, nil
	}
	return models.User{}, gorm.ErrRecordNotFound
}

func (stub *authUserRepositoryStub) FindByPhone(_ context.Context, phone string) (models.User, error) {
	if stub.findErr != nil {
		return models.User{}, stub.findErr
	}
	for _, user := range stub.users {
		if user.Phone == phone {
			return user, nil
		}
	}
	return models.User{}, gorm.ErrRecordNotFound
}

func (stub *authUserRepositoryStub) ExistsByPhone(ctx context.Context, phone string) (bool, error) {
	_, err := stub.FindByPhone(ctx, phone)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	return err == nil, err
}

func (stub *authUserRepositoryStub) Create(_ context.Context, user *models.User) error {
	user.ID = stub.nextID
	stub.nextID++
	stub.users[user.ID] = *user
	return nil
}

func (stub *authUserRepositoryStub) UpdateConsent(_ context.Context, userID uint, consent bool) error {
	user, ok := stub.users[userID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	user.Consent = consent
	stub.users[userID] = user
	return nil
}

func (stub *authUserRepositoryStub) UpdatePassword(_ context.Context, userID uint, passwordHash string) error {
	user := stub.users[userID]
	user.PasswordHash = passwordHash
	stub.users[userID] = user
	return nil
}

func newAuthServiceForTest(repo AuthUserRepository) *AuthService {
	service := NewAuthService(repo, logger.Discard())
	service.hashCost = bcrypt.MinCost
	return service
}

func TestRegisterNormalizesAndHashes(t *testing.T) {
	repo := newAuthUserRepositoryStub()
	service := newAuthServiceForTest(repo)

	user, err := service.Register(context.Background(), RegistrationInput{
		Phone:     "081-234-5678",
		Password:  "secret1",
		FirstName: " Somchai ",
		Email:     "Somchai@Example.com",
	})
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if user.Phone != "0812345678" || user.FirstName != "Somchai" || user.Email != "somchai@example.com" {
		t.Fatalf("unexpected normalized user %+v", user)
	}
	if user.Consent {
		t.Fatal("expected consent to default to false")
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("secret1")) != nil {
		t.Fatal("expected stored password hash to match")
	}
}

func TestRegisterRejectsDuplicatePhoneAndBadInput(t *testing.T) {
	repo := newAuthUserRepositoryStub()
	service := newAuthServiceForTest(repo)
	ctx := context.Background()

	if _, err := service.Register(ctx, RegistrationInput{Phone: "0812345678", Password: "secret1"}); err != nil {
		t.Fatalf("first Register returned error: %v", err)
	}
	_, err := service.Register(ctx, RegistrationInput{Phone: "081 234 5678", Password: "secret2"})
	if !errors.Is(err, ErrPhoneExists) {
		t.Fatalf("expected ErrPhoneExists, got %v", err)
	}
	if apperrors.HTTPStatus(err) != 409 {
		t.Fatalf("expected conflict status, got %d", apperrors.HTTPStatus(err))
	}

	if _, err := service.Register(ctx, RegistrationInput{Phone: "0899999999", Password: "123"}); !errors.Is(err, ErrPasswordTooShort) {
		t.Fatalf("expected ErrPasswordTooShort, got %v", err)
	}
	if _, err := service.Register(ctx, RegistrationInput{Phone: "0899999999", Password: "secret1", Email: "nope"}); !errors.Is(err, ErrEmailInvalid) {
		t.Fatalf("expected ErrEmailInvalid, got %v", err)
	}
}

func TestVerifyCredentials(t *testing.T) {
	repo := newAuthUserRepositoryStub()
	service := newAuthServiceForTest(repo)
	ctx := context.Background()

	registered, err := service.Register(ctx, RegistrationInput{Phone: "0812345678", Password: "secret1"})
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}

	user, err := service.VerifyCredentials(ctx, "081-234-5678", "secret1")
	if err != nil {
		t.Fatalf("VerifyCredentials returned error: %v", err)
	}
	if user.ID != registered.ID {
		t.Fatalf("expected user %d, got %d", registered.ID, user.ID)
	}

	if _, err := service.VerifyCredentials(ctx, "0812345678", "wrong-pass"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for wrong password, got %v", err)
	}
	if _, err := service.VerifyCredentials(ctx, "0800000000", "secret1"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for unknown phone, got %v", err)
	}

	repo.findErr = errors.New("database is locked")
	if _, err := service.VerifyCredentials(ctx, "0812345678", "secret1"); apperrors.TypeOf(err) != apperrors.ErrorTypeDependency {
		t.Fatalf("expected dependency error, got %v", err)
	}
}

func TestSetConsentAndSessionLookup(t *testing.T) {
	repo := newAuthUserRepositoryStub()
	service := newAuthServiceForTest(repo)
	ctx := context.Background()

	registered, err := service.Register(ctx, RegistrationInput{Phone: "0812345678", Password: "secret1"})
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}

	updated, err := service.SetConsent(ctx, registered.ID, true)
	if err != nil {
		t.Fatalf("SetConsent returned error: %v", err)
	}
	if !updated.Consent {
		t.Fatal("expected consent to be true")
	}

	if _, err := service.FindSessionUser(ctx, 999); !errors.Is(err, apperrors.ErrUnauthorized) {
		t.Fatalf("expected unauthorized for unknown session user, got %v", err)
	}
}

func TestResetPassword(t *testing.T) {
	repo := newAuthUserRepositoryStub()
	service := newAuthServiceForTest(repo)
	ctx := context.Background()

	if _, err := service.Register(ctx, RegistrationInput{Phone: "0812345678", Password: "secret1"}); err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if _, err := service.ResetPassword(ctx, "0812345678", "newsecret"); err != nil {
		t.Fatalf("ResetPassword returned error: %v", err)
	}
	if _, err := service.VerifyCredentials(ctx, "0812345678", "newsecret"); err != nil {
		t.Fatalf("expected new password to work, got %v", err)
	}
	if _, err := service.ResetPassword(ctx, "0899999999", "newsecret"); apperrors.TypeOf(err) != apperrors.ErrorTypeNotFound {
		t.Fatalf("expected not found for unknown phone, got %v", err)
	}
}
