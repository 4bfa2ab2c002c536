package entity

import (
	"time"
)

// CurrencyRates represents one exchange rate snapshot for a base currency:
// the amount the rates are quoted for, the base currency code, the calendar
// day the snapshot belongs to, and the rate per target currency code.
// Amount and Date are pointers because the upstream may omit them; a snapshot
// is treated as immutable once returned to a caller.
type CurrencyRates struct {
	Amount *float64           `json:"amount,omitempty"`
	Base   string             `json:"base,omitempty"`
	Date   *time.Time         `json:"date,omitempty"`
	Rates  map[string]float64 `json:"rates,omitempty"`
}

// WithDate returns a shallow copy of the snapshot with its date forced to d.
// Upstream providers roll weekend and holiday dates to the prior business
// day; callers use this to pin the snapshot back to the day they asked for.
func (c *CurrencyRates) WithDate(d time.Time) *CurrencyRates {
	copied := *c
	copied.Date = &d
	return &copied
}
