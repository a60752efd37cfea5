package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/healthlog/internal/apperrors"
	"github.com/terraincognita07/healthlog/internal/services"
)

type errorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code"`
	Field   string `json:"field,omitempty"`
	Details string `json:"details,omitempty"`
}

// respondError writes the localized message for err. Store failures and
// unexpected errors share one generic message; their cause is only logged.
func (handler *Handler) respondError(c *fiber.Ctx, err error) error {
	status := apperrors.HTTPStatus(err)
	messages := handler.messages(c)

	appErr, ok := apperrors.As(err)
	if !ok {
		handler.log.Error("unhandled request error", "method", c.Method(), "path", c.Path(), "error", err)
		return c.Status(status).JSON(errorResponse{Error: messages.T("error.internal"), Code: "internal"})
	}

	key := "error." + appErr.Code
	message := messages.T(key)
	if message == key {
		if apperrors.IsUserFacing(appErr) {
			message = appErr.Message
		} else {
			handler.log.Error("request failed", append([]any{"method", c.Method(), "path", c.Path()}, appErr.LogFields()...)...)
			return c.Status(status).JSON(errorResponse{Error: messages.T("error.internal"), Code: appErr.Code})
		}
	}

	response := errorResponse{Error: message, Code: appErr.Code, Field: appErr.Field}
	if appErr.Code == services.ErrEmailSendFailed.Code {
		response.Details = appErr.Message
	}
	return c.Status(status).JSON(response)
}

func requireUser(c *fiber.Ctx) (uint, bool) {
	user, ok := currentUser(c)
	if !ok || user == nil || user.ID == 0 {
		return 0, false
	}
	return user.ID, true
}
