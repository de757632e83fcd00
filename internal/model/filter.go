package model

import (
	"errors"
	"fmt"
	"strings"
)

// SortField names the expense attribute a list is ordered by.
type SortField string

// Sort fields.
const (
	SortByDate     SortField = "date"
	SortByAmount   SortField = "amount"
	SortByCategory SortField = "category"
)

// SortOrder is the direction of a sort.
type SortOrder string

// Sort orders.
const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// Filter errors.
var (
	ErrInvalidSortField = errors.New("invalid sort field")
	ErrInvalidSortOrder = errors.New("invalid sort order")
	ErrInvalidDateRange = errors.New("start date must not be after end date")
)

// ParseSortField validates a sort field name.
func ParseSortField(s string) (SortField, error) {
	switch f := SortField(strings.ToLower(strings.TrimSpace(s))); f {
	case SortByDate, SortByAmount, SortByCategory:
		return f, nil
	default:
		return "", fmt.Errorf("%w: %q (expected date, amount or category)", ErrInvalidSortField, s)
	}
}

// ParseSortOrder validates a sort direction.
func ParseSortOrder(s string) (SortOrder, error) {
	switch o := SortOrder(strings.ToLower(strings.TrimSpace(s))); o {
	case SortAsc, SortDesc:
		return o, nil
	default:
		return "", fmt.Errorf("%w: %q (expected asc or desc)", ErrInvalidSortOrder, s)
	}
}

// DateRange is an inclusive span of calendar days.
type DateRange struct {
	Start Date `json:"start"`
	End   Date `json:"end"`
}

// NewDateRange validates that start is not after end.
func NewDateRange(start, end Date) (DateRange, error) {
	if start.After(end) {
		return DateRange{}, fmt.Errorf("%w: %s > %s", ErrInvalidDateRange, start, end)
	}
	return DateRange{Start: start, End: end}, nil
}

// Contains reports whether d falls within the range, bounds included.
func (r DateRange) Contains(d Date) bool {
	return !d.Before(r.Start) && !d.After(r.End)
}

// Filter describes how the expense list is narrowed and ordered.
type Filter struct {
	Category  *int       `json:"category"`
	DateRange *DateRange `json:"dateRange"`
	SortBy    SortField  `json:"sortBy"`
	SortOrder SortOrder  `json:"sortOrder"`
}

// DefaultFilter shows everything, newest first.
func DefaultFilter() Filter {
	return Filter{SortBy: SortByDate, SortOrder: SortDesc}
}

// FilterPatch is a partial Filter. Nil fields leave the current value in place;
// the Clear flags reset a criterion to "unset".
type FilterPatch struct {
	Category       *int
	DateRange      *DateRange
	SortBy         *SortField
	SortOrder      *SortOrder
	ClearCategory  bool
	ClearDateRange bool
}

// Apply shallow-merges the patch into a copy of f.
func (f Filter) Apply(p FilterPatch) Filter {
	out := f.Clone()
	if p.ClearCategory {
		out.Category = nil
	}
	if p.Category != nil {
		id := *p.Category
		out.Category = &id
	}
	if p.ClearDateRange {
		out.DateRange = nil
	}
	if p.DateRange != nil {
		r := *p.DateRange
		out.DateRange = &r
	}
	if p.SortBy != nil {
		out.SortBy = *p.SortBy
	}
	if p.SortOrder != nil {
		out.SortOrder = *p.SortOrder
	}
	return out
}

// Clone returns a deep copy of f.
func (f Filter) Clone() Filter {
	out := f
	if f.Category != nil {
		id := *f.Category
		out.Category = &id
	}
	if f.DateRange != nil {
		r := *f.DateRange
		out.DateRange = &r
	}
	return out
}

// Normalized fills empty sort settings with the defaults.
func (f Filter) Normalized() Filter {
	out := f.Clone()
	if out.SortBy == "" {
		out.SortBy = SortByDate
	}
	if out.SortOrder == "" {
		out.SortOrder = SortDesc
	}
	return out
}
