package middleware

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/jeuanimo/expensegate/internal/core/domain"
	"github.com/jeuanimo/expensegate/internal/core/security"
	"github.com/jeuanimo/expensegate/internal/core/session"
)

// CookieName is the session cookie the gateway issues on login.
const CookieName = "session_token"

// SessionLocal is the locals key handlers read the session from.
const SessionLocal = "session"

// Protected loads and validates the caller's session before the
// handler runs. Missing and expired sessions both answer 401 with a
// redirect hint — they are re-authenticate conditions, never retries.
func Protected(store session.Store, manager *session.Manager) fiber.Handler {
	return func(c *fiber.Ctx) error {
		// 1. Get token from the cookie
		token := c.Cookies(CookieName)
		if token == "" {
			return unauthorized(c, "please log in")
		}

		// 2. Hash it (the store never sees raw tokens)
		tokenHash := security.HashToken(token)

		// 3. Look it up
		sess, err := store.Get(c.Context(), tokenHash)
		if err != nil {
			return c.Status(http.StatusInternalServerError).JSON(fiber.Map{
				"error": "session lookup failed",
			})
		}
		if sess == nil {
			return unauthorized(c, "please log in")
		}

		// 4. Enforce the lifetime policy
		if err := manager.Validate(sess); err != nil {
			if domain.KindOf(err) == domain.SessionExpired {
				// Dead session: drop the stored copy and the cookie.
				_ = store.Delete(c.Context(), tokenHash)
				c.Cookie(expiredCookie())
			}
			return unauthorized(c, "session expired, please log in again")
		}

		// 5. Hand the session to the handler
		c.Locals(SessionLocal, sess)

		return c.Next()
	}
}

func unauthorized(c *fiber.Ctx, message string) error {
	return c.Status(http.StatusUnauthorized).JSON(fiber.Map{
		"error":    message,
		"redirect": "/login",
	})
}

func expiredCookie() *fiber.Cookie {
	return &fiber.Cookie{
		Name:     CookieName,
		Value:    "",
		MaxAge:   -1,
		HTTPOnly: true,
		SameSite: "Lax",
	}
}

// SessionFrom reads the validated session a Protected route stored.
func SessionFrom(c *fiber.Ctx) *domain.Session {
	sess, _ := c.Locals(SessionLocal).(*domain.Session)
	return sess
}
