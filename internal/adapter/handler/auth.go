package handler

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jeuanimo/expensegate/internal/adapter/middleware"
	"github.com/jeuanimo/expensegate/internal/core/domain"
	"github.com/jeuanimo/expensegate/internal/core/proxy"
	"github.com/jeuanimo/expensegate/internal/core/security"
	"github.com/jeuanimo/expensegate/internal/core/session"
)

type AuthHandler struct {
	Proxy *proxy.Service
	Store session.Store
}

// Login exchanges credentials for a session cookie.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var creds domain.Credentials
	if err := c.BodyParser(&creds); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if creds.Username == "" || creds.Password == "" {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "Username and password are required"})
	}

	sess, err := h.Proxy.Login(c.Context(), creds)
	if err != nil {
		switch domain.KindOf(err) {
		case domain.RemoteRejected:
			slog.Warn("Login rejected", "username", creds.Username)
			return c.Status(http.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
		case domain.ProtocolMismatch:
			slog.Error("Login response malformed", "username", creds.Username)
			return c.Status(http.StatusBadGateway).JSON(fiber.Map{"error": err.Error()})
		default:
			return c.Status(http.StatusServiceUnavailable).JSON(fiber.Map{
				"error": err.Error(),
				"hint":  "Try demo/demo123 for demo mode",
			})
		}
	}

	// Issue the cookie token; only its hash is stored.
	token, tokenHash, err := security.GenerateSessionToken()
	if err != nil {
		slog.Error("Crypto error generating session token", "error", err)
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "Could not create session"})
	}
	if err := h.Store.Put(c.Context(), tokenHash, sess); err != nil {
		slog.Error("Failed to save session", "error", err, "owner_id", sess.OwnerID)
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "Could not create session"})
	}

	c.Cookie(&fiber.Cookie{
		Name:     middleware.CookieName,
		Value:    token,
		Expires:  sess.ExpiresAt,
		HTTPOnly: true,
		SameSite: "Lax",
	})

	slog.Info("✅ Login successful", "owner_id", sess.OwnerID, "display_name", sess.DisplayName)

	return c.JSON(fiber.Map{
		"message":      fmt.Sprintf("Welcome back, %s!", sess.DisplayName),
		"owner_id":     sess.OwnerID,
		"display_name": sess.DisplayName,
		"expires_at":   sess.ExpiresAt.Format(time.RFC3339),
	})
}

// Register forwards a sign-up after local validation.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var reg domain.Registration
	if err := c.BodyParser(&reg); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if err := h.Proxy.Register(c.Context(), reg); err != nil {
		switch domain.KindOf(err) {
		case domain.InvalidInput:
			return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		case domain.RemoteRejected:
			return c.Status(http.StatusConflict).JSON(fiber.Map{"error": err.Error()})
		default:
			return c.Status(http.StatusServiceUnavailable).JSON(fiber.Map{"error": err.Error()})
		}
	}

	slog.Info("✅ Registration successful", "username", reg.Username)

	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"message": "Registration successful. Please log in.",
	})
}

// Logout destroys the caller's session. Idempotent: answering 200 for
// an absent or already-destroyed session is correct, not an error.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	displayName := ""

	if token := c.Cookies(middleware.CookieName); token != "" {
		tokenHash := security.HashToken(token)
		if sess, err := h.Store.Get(c.Context(), tokenHash); err == nil && sess != nil {
			displayName = sess.DisplayName
		}
		if err := h.Store.Delete(c.Context(), tokenHash); err != nil {
			slog.Error("Failed to delete session", "error", err)
		}
	}

	c.Cookie(&fiber.Cookie{
		Name:     middleware.CookieName,
		Value:    "",
		MaxAge:   -1,
		HTTPOnly: true,
		SameSite: "Lax",
	})

	message := "Goodbye! Thank you for using Expense Manager."
	if displayName != "" {
		message = fmt.Sprintf("Goodbye, %s! Thank you for using Expense Manager.", displayName)
	}
	return c.JSON(fiber.Map{"message": message})
}
