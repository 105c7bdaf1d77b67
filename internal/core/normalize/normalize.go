// Package normalize converts whatever shape the remote service returns
// into canonical expenses. The ownership filter lives here and nowhere
// else: the remote service is never trusted to pre-filter.
package normalize

import (
	"github.com/shopspring/decimal"

	"github.com/jeuanimo/expensegate/internal/core/domain"
)

const (
	DefaultDescription = "Unknown"
	DefaultCategory    = "Other"
)

// Expenses canonicalizes a remote list for one session. Records whose
// owner is absent or differs from the session's owner are dropped
// entirely. Input order is preserved; nothing is sorted here.
func Expenses(raws []domain.RawExpense, sess domain.Session) []domain.Expense {
	expenses := make([]domain.Expense, 0, len(raws))
	for _, raw := range raws {
		ownerID, ok := raw.OwnerID()
		if !ok || ownerID != sess.OwnerID {
			continue
		}
		exp := One(raw)
		exp.OwnerID = sess.OwnerID
		// The remote copy of the display name is never trusted for the
		// caller's own records; an inconsistent backend must not be
		// able to relabel them.
		exp.OwnerName = sess.DisplayName
		expenses = append(expenses, exp)
	}
	return expenses
}

// One canonicalizes a single record with the same coercion rules but no
// ownership filter. Single-record fetches feed edit flows where the
// remote service remains the ownership authority for the follow-up
// mutation.
func One(raw domain.RawExpense) domain.Expense {
	description, ok := raw.Description()
	if !ok {
		description = DefaultDescription
	}

	amount, parsed := raw.Amount()
	if !parsed {
		amount = decimal.Zero
	}

	category := raw.Category()
	if category == "" {
		category = DefaultCategory
	}

	ownerID, _ := raw.OwnerID()

	return domain.Expense{
		ID:          raw.ID(),
		Description: description,
		Amount:      amount,
		Category:    category,
		Date:        raw.Date(),
		OwnerID:     ownerID,
	}
}
