package normalize

import (
	"testing"
	"time"

	"github.com/jeuanimo/expensegate/internal/core/domain"
)

func testSession() domain.Session {
	return domain.Session{
		OwnerID:     5,
		DisplayName: "alice",
		CreatedAt:   time.Now(),
		ExpiresAt:   time.Now().Add(time.Hour),
	}
}

// Records belonging to other owners must be dropped during
// normalization, never merely hidden later.
func TestExpensesFiltersForeignOwners(t *testing.T) {
	sess := testSession()
	raws := []domain.RawExpense{
		{"id": 1.0, "user_id": 5.0, "description": "Mine"},
		{"id": 2.0, "user_id": 6.0, "description": "Not mine"},
		{"id": 3.0, "description": "No owner at all"},
		{"id": 4.0, "owner_id": 5.0, "description": "Mine too"},
	}

	got := Expenses(raws, sess)
	if len(got) != 2 {
		t.Fatalf("len=%d want=2: %+v", len(got), got)
	}
	for _, exp := range got {
		if exp.OwnerID != sess.OwnerID {
			t.Fatalf("leaked record with owner %d: %+v", exp.OwnerID, exp)
		}
	}
	// Input order preserved
	if got[0].ID != 1 || got[1].ID != 4 {
		t.Fatalf("order not preserved: %+v", got)
	}
}

// The remote display name is never trusted for the caller's own
// records.
func TestExpensesOverridesDisplayName(t *testing.T) {
	sess := testSession()
	raws := []domain.RawExpense{
		{"id": 1.0, "user_id": 5.0, "username": "spoofed-name"},
	}

	got := Expenses(raws, sess)
	if len(got) != 1 {
		t.Fatalf("len=%d want=1", len(got))
	}
	if got[0].OwnerName != "alice" {
		t.Fatalf("OwnerName=%q want %q", got[0].OwnerName, "alice")
	}
}

func TestExpensesEmptyInput(t *testing.T) {
	got := Expenses(nil, testSession())
	if got == nil || len(got) != 0 {
		t.Fatalf("want empty non-nil slice, got %#v", got)
	}
}

func TestOneAppliesDefaults(t *testing.T) {
	tests := []struct {
		name string
		raw  domain.RawExpense
		want domain.Expense
	}{
		{
			name: "all fields present",
			raw: domain.RawExpense{
				"id": 9.0, "description": "Groceries", "amount": "75.50",
				"category": "Food", "date": "2025-11-17", "user_id": 5.0,
			},
			want: domain.Expense{ID: 9, Description: "Groceries", Category: "Food", Date: "2025-11-17", OwnerID: 5},
		},
		{
			name: "title synonym",
			raw:  domain.RawExpense{"title": "Bus ticket"},
			want: domain.Expense{Description: "Bus ticket", Category: "Other"},
		},
		{
			name: "everything defaulted",
			raw:  domain.RawExpense{},
			want: domain.Expense{Description: "Unknown", Category: "Other"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := One(tt.raw)
			if got.ID != tt.want.ID || got.Description != tt.want.Description ||
				got.Category != tt.want.Category || got.Date != tt.want.Date ||
				got.OwnerID != tt.want.OwnerID {
				t.Fatalf("One()=%+v want %+v", got, tt.want)
			}
		})
	}
}

// One performs no ownership filter; that re-check belongs to the layer
// deciding whether a mutation may proceed.
func TestOneKeepsForeignOwner(t *testing.T) {
	got := One(domain.RawExpense{"id": 1.0, "user_id": 99.0})
	if got.OwnerID != 99 {
		t.Fatalf("OwnerID=%d want 99", got.OwnerID)
	}
}

func TestOneAmountDefault(t *testing.T) {
	got := One(domain.RawExpense{"amount": "not-a-number"})
	if !got.Amount.IsZero() {
		t.Fatalf("Amount=%s want 0", got.Amount)
	}
	got = One(domain.RawExpense{"amount": 12.75})
	if got.Amount.String() != "12.75" {
		t.Fatalf("Amount=%s want 12.75", got.Amount)
	}
}
