package api

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/healthlog/internal/apperrors"
	"github.com/terraincognita07/healthlog/internal/models"
	"github.com/terraincognita07/healthlog/internal/security"
	"github.com/terraincognita07/healthlog/internal/services"
)

var errTooManyAttempts = apperrors.New(apperrors.ErrorTypeRateLimit, "too_many_attempts", "too many failed sign-in attempts")

type registerRequest struct {
	Phone     string `json:"phone"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	HNNumber  string `json:"hn_number"`
	Temple    string `json:"temple"`
	Email     string `json:"email"`
	Consent   bool   `json:"consent"`
}

type loginRequest struct {
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

type consentRequest struct {
	Consent bool `json:"consent"`
}

type userResponse struct {
	User models.User `json:"user"`
}

// decodeJSON checks body against the named schema before unmarshalling it.
func (handler *Handler) decodeJSON(c *fiber.Ctx, schema string, target any) error {
	body := c.Body()
	if err := handler.schemas.validate(schema, body); err != nil {
		return err
	}
	if err := json.Unmarshal(body, target); err != nil {
		return errInvalidPayload
	}
	return nil
}

func (handler *Handler) Register(c *fiber.Ctx) error {
	var request registerRequest
	if err := handler.decodeJSON(c, schemaRegister, &request); err != nil {
		return handler.respondError(c, err)
	}

	user, err := handler.auth.Register(c.UserContext(), services.RegistrationInput{
		Phone:     request.Phone,
		Password:  request.Password,
		FirstName: request.FirstName,
		LastName:  request.LastName,
		HNNumber:  request.HNNumber,
		Temple:    request.Temple,
		Email:     request.Email,
		Consent:   request.Consent,
	})
	if err != nil {
		return handler.respondError(c, err)
	}

	if err := handler.setAuthCookie(c, user); err != nil {
		return handler.respondError(c, apperrors.NewInternalError(err))
	}
	return c.Status(fiber.StatusCreated).JSON(userResponse{User: user})
}

func (handler *Handler) Login(c *fiber.Ctx) error {
	var request loginRequest
	if err := handler.decodeJSON(c, schemaLogin, &request); err != nil {
		return handler.respondError(c, err)
	}

	limiterKey := loginAttemptKey(c.IP(), request.Phone)
	if handler.loginLimiter.blocked(limiterKey) {
		return handler.respondError(c, errTooManyAttempts)
	}

	user, err := handler.auth.VerifyCredentials(c.UserContext(), request.Phone, request.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			handler.loginLimiter.recordFailure(limiterKey)
		}
		return handler.respondError(c, err)
	}
	handler.loginLimiter.reset(limiterKey)

	if err := handler.setAuthCookie(c, user); err != nil {
		return handler.respondError(c, apperrors.NewInternalError(err))
	}
	return c.JSON(userResponse{User: user})
}

func (handler *Handler) Logout(c *fiber.Ctx) error {
	handler.clearAuthCookie(c)
	return c.JSON(fiber.Map{"ok": true})
}

func (handler *Handler) Me(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return handler.respondError(c, apperrors.ErrUnauthorized)
	}
	return c.JSON(userResponse{User: *user})
}

// UpdateConsent re-issues the session so the token's consent claim follows.
func (handler *Handler) UpdateConsent(c *fiber.Ctx) error {
	userID, ok := requireUser(c)
	if !ok {
		return handler.respondError(c, apperrors.ErrUnauthorized)
	}

	var request consentRequest
	if err := handler.decodeJSON(c, schemaConsent, &request); err != nil {
		return handler.respondError(c, err)
	}

	user, err := handler.auth.SetConsent(c.UserContext(), userID, request.Consent)
	if err != nil {
		return handler.respondError(c, err)
	}
	if err := handler.setAuthCookie(c, user); err != nil {
		return handler.respondError(c, apperrors.NewInternalError(err))
	}
	return c.JSON(userResponse{User: user})
}

func (handler *Handler) CSRFToken(c *fiber.Ctx) error {
	token, _ := c.Locals("csrf").(string)
	return c.JSON(fiber.Map{"csrf_token": token})
}

func (handler *Handler) setAuthCookie(c *fiber.Ctx, user models.User) error {
	token, err := handler.tokens.Issue(security.Identity{UserID: user.ID, Phone: user.Phone, Consent: user.Consent})
	if err != nil {
		return err
	}
	c.Cookie(&fiber.Cookie{
		Name:     authCookieName,
		Value:    token,
		Path:     "/",
		HTTPOnly: true,
		Secure:   handler.cookieSecure,
		SameSite: "Lax",
		Expires:  time.Now().Add(handler.tokens.TTL()),
	})
	return nil
}

func (handler *Handler) clearAuthCookie(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     authCookieName,
		Value:    "",
		Path:     "/",
		HTTPOnly: true,
		Secure:   handler.cookieSecure,
		SameSite: "Lax",
		Expires:  time.Now().Add(-1 * time.Hour),
	})
}
