package handler

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/jeuanimo/expensegate/internal/adapter/middleware"
	"github.com/jeuanimo/expensegate/internal/core/domain"
	"github.com/jeuanimo/expensegate/internal/core/proxy"
)

type ExpenseHandler struct {
	Proxy *proxy.Service
}

// List returns the caller's expenses. When the backend is down the
// payload carries the synthetic sample list with degraded=true so the
// UI can label it.
func (h *ExpenseHandler) List(c *fiber.Ctx) error {
	sess := middleware.SessionFrom(c)

	result, err := h.Proxy.ListExpenses(c.Context(), sess)
	if err != nil {
		return failWith(c, err)
	}

	body := fiber.Map{
		"expenses": result.Expenses,
		"degraded": result.Degraded,
	}
	if result.Degraded {
		slog.Warn("📴 Serving demo expenses, backend unreachable", "owner_id", sess.OwnerID)
		body["reason"] = result.Reason
		body["message"] = "Demo Mode: Using sample expense data"
	}
	return c.JSON(body)
}

// GetOne fetches a single expense for the edit flow.
func (h *ExpenseHandler) GetOne(c *fiber.Ctx) error {
	sess := middleware.SessionFrom(c)
	id, err := expenseID(c)
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "Invalid expense id"})
	}

	expense, err := h.Proxy.GetExpense(c.Context(), sess, id)
	if err != nil {
		return failWith(c, err)
	}
	return c.JSON(expense)
}

// Create adds an expense for the caller.
func (h *ExpenseHandler) Create(c *fiber.Ctx) error {
	sess := middleware.SessionFrom(c)

	var input domain.ExpenseInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if err := h.Proxy.CreateExpense(c.Context(), sess, input); err != nil {
		return failWith(c, err)
	}

	slog.Info("✅ Expense added", "owner_id", sess.OwnerID, "description", input.Description)
	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"message": fmt.Sprintf("Expense '%s' added to your Expense Manager!", input.Description),
	})
}

// Update replaces an expense by id.
func (h *ExpenseHandler) Update(c *fiber.Ctx) error {
	sess := middleware.SessionFrom(c)
	id, err := expenseID(c)
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "Invalid expense id"})
	}

	var input domain.ExpenseInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if err := h.Proxy.UpdateExpense(c.Context(), sess, id, input); err != nil {
		return failWith(c, err)
	}

	return c.JSON(fiber.Map{"message": "Expense updated in your Expense Manager!"})
}

// Delete removes an expense by id.
func (h *ExpenseHandler) Delete(c *fiber.Ctx) error {
	sess := middleware.SessionFrom(c)
	id, err := expenseID(c)
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "Invalid expense id"})
	}

	if err := h.Proxy.DeleteExpense(c.Context(), sess, id); err != nil {
		return failWith(c, err)
	}

	slog.Info("🗑️ Expense deleted", "owner_id", sess.OwnerID, "expense_id", id)
	return c.JSON(fiber.Map{"message": "Expense removed from your Expense Manager!"})
}

func expenseID(c *fiber.Ctx) (int64, error) {
	return strconv.ParseInt(c.Params("id"), 10, 64)
}

// failWith maps a classified failure to one HTTP answer. The gateway
// core never picks status codes or phrases messages beyond these.
func failWith(c *fiber.Ctx, err error) error {
	switch domain.KindOf(err) {
	case domain.InvalidInput:
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case domain.RemoteRejected:
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case domain.ProtocolMismatch:
		return c.Status(http.StatusBadGateway).JSON(fiber.Map{"error": err.Error()})
	case domain.SessionMissing, domain.SessionExpired:
		return c.Status(http.StatusUnauthorized).JSON(fiber.Map{
			"error":    err.Error(),
			"redirect": "/login",
		})
	default:
		return c.Status(http.StatusServiceUnavailable).JSON(fiber.Map{"error": err.Error()})
	}
}
