package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Expense is the canonical, owner-scoped record every layer above the
// normalizer works with. OwnerID always equals the requesting session's
// owner id; records belonging to anyone else are dropped during
// normalization, never merely hidden later.
type Expense struct {
	ID          int64           `json:"id"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Category    string          `json:"category"`
	Date        string          `json:"date"` // ISO-8601, may be empty
	OwnerID     int64           `json:"user_id"`
	OwnerName   string          `json:"username"`
}

// ExpenseInput is what a caller submits when creating or updating an
// expense. Amount arrives as text and is validated by the proxy before
// any remote call.
type ExpenseInput struct {
	Description string `json:"description"`
	Amount      string `json:"amount"`
	Category    string `json:"category"`
	Date        string `json:"date"`
}

// Session is the server-tracked proof of authentication: who the caller
// is plus when that stops being true.
type Session struct {
	OwnerID     int64     `json:"owner_id"`
	DisplayName string    `json:"display_name"`
	CreatedAt   time.Time `json:"created_at"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// Credentials is one authentication attempt. The password is never
// logged and never outlives the exchange.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Registration carries a sign-up request. MonthlyIncome stays a string
// here; it is forwarded only when it parses as a non-negative number.
type Registration struct {
	Username        string `json:"username"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
	Email           string `json:"email"`
	FirstName       string `json:"first_name"`
	LastName        string `json:"last_name"`
	MonthlyIncome   string `json:"monthly_income"`
}
