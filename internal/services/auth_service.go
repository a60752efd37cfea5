package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/terraincognita07/healthlog/internal/apperrors"
	"github.com/terraincognita07/healthlog/internal/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AuthUserRepository interface {
	FindByID(ctx context.Context, userID uint) (models.User, error)
	FindByPhone(ctx context.Context, phone string) (models.User, error)
	ExistsByPhone(ctx context.Context, phone string) (bool, error)
	Create(ctx context.Context, user *models.User) error
	UpdateConsent(ctx context.Context, userID uint, consent bool) error
	UpdatePassword(ctx context.Context, userID uint, passwordHash string) error
}

type RegistrationInput struct {
	Phone     string
	Password  string
	FirstName string
	LastName  string
	HNNumber  string
	Temple    string
	Email     string
	Consent   bool
}

type AuthService struct {
	users    AuthUserRepository
	hashCost int
	log      *slog.Logger
}

func NewAuthService(users AuthUserRepository, log *slog.Logger) *AuthService {
	if log == nil {
		log = slog.Default()
	}
	return &AuthService{users: users, hashCost: bcrypt.DefaultCost, log: log}
}

func (service *AuthService) Register(ctx context.Context, input RegistrationInput) (models.User, error) {
	phone, err := NormalizePhone(input.Phone)
	if err != nil {
		return models.User{}, err
	}
	if err := ValidatePassword(input.Password); err != nil {
		return models.User{}, err
	}
	email, err := NormalizeEmail(input.Email)
	if err != nil {
		return models.User{}, err
	}

	exists, err := service.users.ExistsByPhone(ctx, phone)
	if err != nil {
		return models.User{}, service.storageError("check phone", err)
	}
	if exists {
		return models.User{}, ErrPhoneExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), service.hashCost)
	if err != nil {
		return models.User{}, apperrors.NewInternalError(err)
	}

	user := models.User{
		Phone:        phone,
		PasswordHash: string(hash),
		FirstName:    strings.TrimSpace(input.FirstName),
		LastName:     strings.TrimSpace(input.LastName),
		HNNumber:     strings.TrimSpace(input.HNNumber),
		Temple:       strings.TrimSpace(input.Temple),
		Email:        email,
		Consent:      input.Consent,
	}
	if err := service.users.Create(ctx, &user); err != nil {
		return models.User{}, service.storageError("create user", err)
	}

	service.log.Info("user registered", "user_id", user.ID, "consent", user.Consent)
	return user, nil
}

// VerifyCredentials returns the same error for an unknown phone and a wrong
// password.
func (service *AuthService) VerifyCredentials(ctx context.Context, rawPhone string, password string) (models.User, error) {
	phone, err := NormalizePhone(rawPhone)
	if err != nil || password == "" {
		return models.User{}, ErrInvalidCredentials
	}

	user, err := service.users.FindByPhone(ctx, phone)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.User{}, ErrInvalidCredentials
		}
		return models.User{}, service.storageError("load user", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return models.User{}, ErrInvalidCredentials
	}
	return user, nil
}

// FindSessionUser reloads the user named by a verified token.
func (service *AuthService) FindSessionUser(ctx context.Context, userID uint) (models.User, error) {
	if userID == 0 {
		return models.User{}, apperrors.ErrUnauthorized
	}
	user, err := service.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.User{}, apperrors.ErrUnauthorized
		}
		return models.User{}, service.storageError("load session user", err)
	}
	return user, nil
}

func (service *AuthService) SetConsent(ctx context.Context, userID uint, consent bool) (models.User, error) {
	if err := service.users.UpdateConsent(ctx, userID, consent); err != nil {
		return models.User{}, service.storageError("update consent", err)
	}
	service.log.Info("consent updated", "user_id", userID, "consent", consent)
	return service.FindSessionUser(ctx, userID)
}

// ResetPassword is used by the operator CLI.
func (service *AuthService) ResetPassword(ctx context.Context, rawPhone string, newPassword string) (models.User, error) {
	phone, err := NormalizePhone(rawPhone)
	if err != nil {
		return models.User{}, err
	}
	if err := ValidatePassword(newPassword); err != nil {
		return models.User{}, err
	}

	user, err := service.users.FindByPhone(ctx, phone)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.User{}, apperrors.New(apperrors.ErrorTypeNotFound, "user_not_found", "no user with phone "+phone)
		}
		return models.User{}, service.storageError("load user", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), service.hashCost)
	if err != nil {
		return models.User{}, apperrors.NewInternalError(err)
	}
	if err := service.users.UpdatePassword(ctx, user.ID, string(hash)); err != nil {
		return models.User{}, service.storageError("update password", err)
	}
	user.PasswordHash = string(hash)
	return user, nil
}

func (service *AuthService) storageError(operation string, err error) error {
	appErr := apperrors.NewDependencyError(err, "database")
	service.log.Error(operation+" failed", appErr.LogFields()...)
	return appErr
}
