// Package model defines the core data structures for the budget application.
package model

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Side identifies one of the two independent transactions sharing a ledger row.
type Side string

const (
	// SideDebit is the left, outflow-oriented half of a ledger row.
	SideDebit Side = "debit"
	// SideCredit is the right, inflow-oriented half of a ledger row.
	SideCredit Side = "credit"
)

// Direction is the rule-matching dimension of a transaction.
type Direction string

// Direction constants.
const (
	DirectionIn  Direction = "in"
	DirectionOut Direction = "out"
	DirectionAny Direction = "any"
)

// ParseDirection converts user text into a Direction. Empty input means any.
func ParseDirection(s string) Direction {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "in":
		return DirectionIn
	case "out":
		return DirectionOut
	case "", "any":
		return DirectionAny
	default:
		return Direction(strings.ToLower(strings.TrimSpace(s)))
	}
}

// Entry is a single transaction side of a ledger row.
type Entry struct {
	Date        time.Time
	Description string
	Category    string
	Type        BudgetType
	// Amount is the signed value the side contributes. For the debit side it
	// mirrors the debit column; for the credit side it is the only amount column.
	Amount decimal.Decimal
	// Credit and Balance are carried for the debit side only so the grid can be
	// written back without losing the columns the core never reads.
	Credit  decimal.Decimal
	Balance decimal.Decimal
}

// IsBlank reports whether the entry carries no usable data.
func (e Entry) IsBlank() bool {
	return strings.TrimSpace(e.Description) == "" &&
		e.Amount.IsZero() &&
		e.Date.IsZero() &&
		strings.TrimSpace(e.Category) == ""
}

// HasActivity reports whether the entry counts toward totals.
func (e Entry) HasActivity() bool {
	return strings.TrimSpace(e.Description) != "" && !e.Amount.IsZero()
}

// Direction infers the flow of money from the side and the sign of the amount.
// A positive debit is money going out; a positive credit is money coming in.
func (e Entry) Direction(side Side) Direction {
	positive := e.Amount.IsPositive()
	if side == SideDebit {
		if positive {
			return DirectionOut
		}
		return DirectionIn
	}
	if positive {
		return DirectionIn
	}
	return DirectionOut
}

// LedgerRow is one row of the transactions grid.
type LedgerRow struct {
	Debit  Entry
	Credit Entry
	// Index is the zero-based position of the row below the header block.
	Index int
}

// Entry returns a pointer to the requested side so callers can mutate in place.
func (r *LedgerRow) Entry(side Side) *Entry {
	if side == SideCredit {
		return &r.Credit
	}
	return &r.Debit
}

// IsBlank reports whether neither side carries data.
func (r LedgerRow) IsBlank() bool {
	return r.Debit.IsBlank() && r.Credit.IsBlank()
}

// Ledger is the full transactions grid in row order.
type Ledger []LedgerRow

// Sides lists both sides in processing order.
func Sides() []Side {
	return []Side{SideDebit, SideCredit}
}

// DateOnly truncates a time to midnight UTC of its calendar date.
func DateOnly(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
