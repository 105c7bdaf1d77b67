package domain

import (
	"github.com/shopspring/decimal"
)

// RawExpense is the untyped shape the remote service returns. Field
// naming varies between backend versions, so every accessor probes a
// fixed synonym list and reports whether it found a usable value. The
// probing happens here, once, instead of being scattered across call
// sites.
type RawExpense map[string]any

var (
	descriptionKeys = []string{"description", "title"}
	ownerKeys       = []string{"user_id", "owner_id", "userId", "owner"}
)

// ID returns the record id, 0 when absent or unreadable.
func (r RawExpense) ID() int64 {
	n, _ := intField(r, "id")
	return n
}

// OwnerID reports the record's owner and whether one was present at
// all. Records with no readable owner must never pass the ownership
// filter.
func (r RawExpense) OwnerID() (int64, bool) {
	for _, key := range ownerKeys {
		if n, ok := intField(r, key); ok {
			return n, true
		}
	}
	return 0, false
}

// Description falls through the synonym list before giving up.
func (r RawExpense) Description() (string, bool) {
	for _, key := range descriptionKeys {
		if s, ok := stringField(r, key); ok && s != "" {
			return s, true
		}
	}
	return "", false
}

// Amount coerces numeric-or-string amounts to a non-negative decimal.
// The second return is false when the field was absent, unparseable or
// negative; callers substitute the documented default in that case
// rather than treating it as an error.
func (r RawExpense) Amount() (decimal.Decimal, bool) {
	v, ok := r["amount"]
	if !ok || v == nil {
		return decimal.Zero, false
	}
	var d decimal.Decimal
	switch n := v.(type) {
	case float64:
		d = decimal.NewFromFloat(n)
	case int64:
		d = decimal.NewFromInt(n)
	case int:
		d = decimal.NewFromInt(int64(n))
	case string:
		parsed, err := decimal.NewFromString(n)
		if err != nil {
			return decimal.Zero, false
		}
		d = parsed
	default:
		return decimal.Zero, false
	}
	if d.IsNegative() {
		return decimal.Zero, false
	}
	return d, true
}

// Category returns the category, "" when absent.
func (r RawExpense) Category() string {
	s, _ := stringField(r, "category")
	return s
}

// Date returns the date string, "" when absent.
func (r RawExpense) Date() string {
	s, _ := stringField(r, "date")
	return s
}

func stringField(r RawExpense, key string) (string, bool) {
	v, ok := r[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// intField reads an integer that JSON decoding may have delivered as
// float64, int or a numeric string.
func intField(r RawExpense, key string) (int64, bool) {
	v, ok := r[key]
	if !ok || v == nil {
		return 0, false
	}
	switch n := v.(type) {
	case float64:
		return int64(n), true
	case int64:
		return n, true
	case int:
		return int64(n), true
	case string:
		d, err := decimal.NewFromString(n)
		if err != nil {
			return 0, false
		}
		return d.IntPart(), true
	}
	return 0, false
}
