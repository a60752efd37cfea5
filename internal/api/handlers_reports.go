package api

import (
	"bytes"
	"crypto/subtle"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/healthlog/internal/apperrors"
)

var errCleanupForbidden = apperrors.New(apperrors.ErrorTypeAuth, "cleanup_forbidden", "cleanup token is missing or invalid")

func (handler *Handler) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

func (handler *Handler) GetStats(c *fiber.Ctx) error {
	userID, ok := requireUser(c)
	if !ok {
		return handler.respondError(c, apperrors.ErrUnauthorized)
	}
	stats, err := handler.stats.BuildDashboardStats(c.UserContext(), userID)
	if err != nil {
		return handler.respondError(c, err)
	}
	return c.JSON(stats)
}

func (handler *Handler) ExportWeeklyPDF(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return handler.respondError(c, apperrors.ErrUnauthorized)
	}

	var document bytes.Buffer
	if err := handler.export.WriteWeeklyPDF(c.UserContext(), &document, *user, handler.currentLanguage(c)); err != nil {
		return handler.respondError(c, err)
	}

	filename := fmt.Sprintf("healthlog-weekly-%s.pdf", time.Now().In(handler.location).Format("20060102"))
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	return c.Send(document.Bytes())
}

func (handler *Handler) SendDataToClinic(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return handler.respondError(c, apperrors.ErrUnauthorized)
	}
	result, err := handler.clinicShare.SendFullData(c.UserContext(), *user)
	if err != nil {
		return handler.respondError(c, err)
	}
	return c.JSON(result)
}

// RunCleanup is meant for a scheduler. When a cleanup token is configured
// the caller must present it.
func (handler *Handler) RunCleanup(c *fiber.Ctx) error {
	if handler.cleanupToken != "" {
		presented := c.Get(cleanupTokenHeader)
		if subtle.ConstantTimeCompare([]byte(presented), []byte(handler.cleanupToken)) != 1 {
			return handler.respondError(c, errCleanupForbidden)
		}
	}

	result := handler.retention.Run(c.UserContext())
	status := fiber.StatusOK
	if !result.Success {
		status = fiber.StatusInternalServerError
	}
	return c.Status(status).JSON(result)
}
