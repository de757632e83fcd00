package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// MonthLayout is the wire and storage form of a Month.
const MonthLayout = "2006-01"

// ErrInvalidMonth is returned when a string cannot be read as a month.
var ErrInvalidMonth = errors.New("invalid month")

// Month is a month in a specific year.
type Month struct {
	Year  int
	Month time.Month
}

// NewMonth builds a Month.
func NewMonth(year int, month time.Month) Month {
	return Month{Year: year, Month: month}
}

// MonthOf returns the local calendar month containing t.
func MonthOf(t time.Time) Month {
	y, m, _ := t.In(time.Local).Date()
	return NewMonth(y, m)
}

// ParseMonth reads "2006-01". A full date is accepted too; its day is ignored.
func ParseMonth(s string) (Month, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(MonthLayout, s); err == nil {
		return NewMonth(t.Year(), t.Month()), nil
	}
	if d, err := ParseDate(s); err == nil {
		return NewMonth(d.Year(), d.Month()), nil
	}
	return Month{}, fmt.Errorf("%w: %q", ErrInvalidMonth, s)
}

// String formats the month as 2006-01.
func (m Month) String() string {
	return fmt.Sprintf("%04d-%02d", m.Year, int(m.Month))
}

// Contains reports whether d falls in m.
func (m Month) Contains(d Date) bool {
	return !d.IsZero() && d.Year() == m.Year && d.Month() == m.Month
}

// Days is the number of days in m.
func (m Month) Days() int {
	return time.Date(m.Year, m.Month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// MarshalJSON implements json.Marshaler.
func (m Month) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.String())
}

// UnmarshalJSON implements json.Unmarshaler.
func (m *Month) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidMonth, string(data))
	}
	parsed, err := ParseMonth(s)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// Budget caps spending for one month, either in one category or, with no
// category, across all of them. Amounts are whole currency units.
type Budget struct {
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
	CategoryID *int      `json:"categoryId,omitempty"`
	Month      Month     `json:"month"`
	Amount     int64     `json:"amount"`
}

// IsTotal reports whether b is the overall budget of its month.
func (b Budget) IsTotal() bool {
	return b.CategoryID == nil
}

// Key identifies the slot b occupies; there is at most one budget per key.
func (b Budget) Key() string {
	return BudgetKey(b.Month, b.CategoryID)
}

// BudgetKey is the slot of the budget for month and category, nil meaning
// the overall budget.
func BudgetKey(month Month, categoryID *int) string {
	if categoryID == nil {
		return month.String() + "/total"
	}
	return month.String() + "/" + strconv.Itoa(*categoryID)
}
