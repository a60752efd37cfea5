package main

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
)

func TestCSRFMiddlewareConfigUsesCookieSecureFlag(t *testing.T) {
	secureConfig := csrfMiddlewareConfig(true)
	if !secureConfig.CookieSecure {
		t.Fatal("expected csrf cookie secure flag to be enabled")
	}
	if !secureConfig.CookieHTTPOnly {
		t.Fatal("expected csrf cookie to be httpOnly")
	}
	if secureConfig.CookieName != "healthlog_csrf" {
		t.Fatalf("expected csrf cookie name healthlog_csrf, got %q", secureConfig.CookieName)
	}
	if secureConfig.KeyLookup != "header:X-CSRF-Token" {
		t.Fatalf("expected csrf key lookup header:X-CSRF-Token, got %q", secureConfig.KeyLookup)
	}

	insecureConfig := csrfMiddlewareConfig(false)
	if insecureConfig.CookieSecure {
		t.Fatal("expected csrf cookie secure flag to be disabled")
	}
}

func TestServerRejectsUnsafeRequestWithoutCSRFToken(t *testing.T) {
	server := newServer(false)
	server.Post("/api/blood-pressure", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusCreated)
	})
	server.Post("/api/cleanup", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	response, err := server.Test(httptest.NewRequest(http.MethodPost, "/api/blood-pressure", nil), -1)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if response.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403 without csrf token, got %d", response.StatusCode)
	}

	cleanup, err := server.Test(httptest.NewRequest(http.MethodPost, "/api/cleanup", nil), -1)
	if err != nil {
		t.Fatalf("cleanup request failed: %v", err)
	}
	if cleanup.StatusCode != http.StatusOK {
		t.Fatalf("expected cleanup to bypass csrf, got %d", cleanup.StatusCode)
	}
}

func TestServerAssignsRequestID(t *testing.T) {
	server := newServer(false)
	server.Get("/healthz", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	response, err := server.Test(httptest.NewRequest(http.MethodGet, "/healthz", nil), -1)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if response.Header.Get(fiber.HeaderXRequestID) == "" {
		t.Fatal("expected X-Request-Id header")
	}
}
