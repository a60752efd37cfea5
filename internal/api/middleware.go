package api

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/healthlog/internal/apperrors"
	"github.com/terraincognita07/healthlog/internal/i18n"
	"github.com/terraincognita07/healthlog/internal/models"
)

const (
	authCookieName     = "healthlog_auth"
	languageCookieName = "healthlog_lang"
	contextUserKey     = "current_user"
	contextLanguageKey = "current_language"
	cleanupTokenHeader = "X-Cleanup-Token"
)

func currentUser(c *fiber.Ctx) (*models.User, bool) {
	user, ok := c.Locals(contextUserKey).(*models.User)
	return user, ok
}

func (handler *Handler) currentLanguage(c *fiber.Ctx) string {
	if language, ok := c.Locals(contextLanguageKey).(string); ok && language != "" {
		return language
	}
	return handler.i18n.DefaultLanguage()
}

func (handler *Handler) messages(c *fiber.Ctx) i18n.Localizer {
	return handler.i18n.Localizer(handler.currentLanguage(c))
}

// LanguageMiddleware prefers the language cookie over Accept-Language.
func (handler *Handler) LanguageMiddleware(c *fiber.Ctx) error {
	cookieLanguage := c.Cookies(languageCookieName)
	language := handler.i18n.DetectFromAcceptLanguage(c.Get(fiber.HeaderAcceptLanguage))
	if cookieLanguage != "" {
		language = handler.i18n.NormalizeLanguage(cookieLanguage)
	}

	if cookieLanguage != language {
		c.Cookie(&fiber.Cookie{
			Name:     languageCookieName,
			Value:    language,
			Path:     "/",
			Secure:   handler.cookieSecure,
			SameSite: "Lax",
			Expires:  time.Now().AddDate(1, 0, 0),
		})
	}

	c.Locals(contextLanguageKey, language)
	return c.Next()
}

// AuthRequired verifies the session cookie and reloads the user from the
// store. The token's claims are never trusted beyond the user id.
func (handler *Handler) AuthRequired(c *fiber.Ctx) error {
	rawToken := strings.TrimSpace(c.Cookies(authCookieName))
	if rawToken == "" {
		return handler.respondError(c, apperrors.ErrUnauthorized)
	}

	identity, err := handler.tokens.Verify(rawToken)
	if err != nil {
		return handler.respondError(c, apperrors.ErrUnauthorized)
	}

	user, err := handler.auth.FindSessionUser(c.UserContext(), identity.UserID)
	if err != nil {
		return handler.respondError(c, err)
	}

	c.Locals(contextUserKey, &user)
	return c.Next()
}
