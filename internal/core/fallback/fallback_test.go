package fallback

import (
	"testing"

	"github.com/jeuanimo/expensegate/internal/core/domain"
)

func TestExpensesStampedWithSession(t *testing.T) {
	sess := domain.Session{OwnerID: 42, DisplayName: "bob"}

	got := Expenses(sess)
	if len(got) != 3 {
		t.Fatalf("len=%d want 3", len(got))
	}
	for _, exp := range got {
		if exp.OwnerID != 42 {
			t.Fatalf("OwnerID=%d want 42: %+v", exp.OwnerID, exp)
		}
		if exp.OwnerName != "bob" {
			t.Fatalf("OwnerName=%q want bob", exp.OwnerName)
		}
	}
}

func TestExpensesDeterministic(t *testing.T) {
	sess := domain.Session{OwnerID: 1, DisplayName: "demo"}

	first := Expenses(sess)
	second := Expenses(sess)
	if len(first) != len(second) {
		t.Fatalf("lengths differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i].ID != second[i].ID ||
			first[i].Description != second[i].Description ||
			!first[i].Amount.Equal(second[i].Amount) {
			t.Fatalf("record %d differs: %+v vs %+v", i, first[i], second[i])
		}
	}

	if first[0].Description != "Grocery Shopping" || first[0].Amount.String() != "75.5" {
		t.Fatalf("unexpected first sample: %+v", first[0])
	}
}
