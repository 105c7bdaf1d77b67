// Package fallback supplies the demo expenses shown when the remote
// service is unreachable. The list is fixed and synthetic; results
// built from it are always labeled degraded, and it is never blended
// with real records.
package fallback

import (
	"github.com/shopspring/decimal"

	"github.com/jeuanimo/expensegate/internal/core/domain"
)

type sample struct {
	id          int64
	description string
	amount      string
	category    string
	date        string
}

var samples = []sample{
	{1, "Grocery Shopping", "75.50", "Food", "2025-11-17"},
	{2, "Gas Station", "45.20", "Transportation", "2025-11-16"},
	{3, "Coffee Shop", "12.75", "Food", "2025-11-15"},
}

// Expenses generates the deterministic sample list stamped with the
// calling session's owner. Never call this while the remote service is
// reachable; an empty remote list is a valid, non-degraded result.
func Expenses(sess domain.Session) []domain.Expense {
	expenses := make([]domain.Expense, 0, len(samples))
	for _, s := range samples {
		expenses = append(expenses, domain.Expense{
			ID:          s.id,
			Description: s.description,
			Amount:      decimal.RequireFromString(s.amount),
			Category:    s.category,
			Date:        s.date,
			OwnerID:     sess.OwnerID,
			OwnerName:   sess.DisplayName,
		})
	}
	return expenses
}
