// Package format renders money, numbers, dates and text for display in the
// configured locale.
package format

import (
	"fmt"
	"math"
	"strings"
	"unicode/utf8"

	"github.com/hunglv/expensive/internal/common"
	"golang.org/x/text/cases"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Defaults match the reference locale of the application.
const (
	DefaultCurrency = "VND"
	DefaultLocale   = "vi-VN"
)

// Formatter renders values for one locale and currency.
type Formatter struct {
	printer *message.Printer
	upper   cases.Caser
	lower   cases.Caser
	tag     language.Tag
	unit    currency.Unit
	symbol  string
}

// New builds a Formatter for an ISO 4217 currency code and a BCP 47 locale.
func New(currencyCode, locale string) (*Formatter, error) {
	tag, err := language.Parse(locale)
	if err != nil {
		return nil, fmt.Errorf("%w: locale %q: %v", common.ErrInvalidConfig, locale, err)
	}
	unit, err := currency.ParseISO(currencyCode)
	if err != nil {
		return nil, fmt.Errorf("%w: currency %q: %v", common.ErrInvalidConfig, currencyCode, err)
	}

	p := message.NewPrinter(tag)
	return &Formatter{
		printer: p,
		upper:   cases.Upper(tag),
		lower:   cases.Lower(tag),
		tag:     tag,
		unit:    unit,
		symbol:  p.Sprint(currency.NarrowSymbol(unit)),
	}, nil
}

// Default returns the VND / vi-VN formatter.
func Default() *Formatter {
	f, err := New(DefaultCurrency, DefaultLocale)
	if err != nil {
		panic(err)
	}
	return f
}

// Symbol is the currency sign, e.g. "₫".
func (f *Formatter) Symbol() string {
	return f.symbol
}

// Currency renders a whole-unit amount, e.g. 50000 → "50.000 ₫".
func (f *Formatter) Currency(amount int64) string {
	return f.Number(amount) + " " + f.symbol
}

// CurrencyFloat rounds to whole units before rendering.
func (f *Formatter) CurrencyFloat(amount float64) string {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return f.Currency(0)
	}
	return f.Currency(int64(math.Round(amount)))
}

// Number groups digits the local way, e.g. 1234567 → "1.234.567".
func (f *Formatter) Number(n int64) string {
	return f.printer.Sprintf("%d", n)
}

// Percent renders a percentage with one decimal, e.g. 12.5 → "12,5%".
func (f *Formatter) Percent(v float64) string {
	return f.printer.Sprintf("%.1f%%", v)
}

// Capitalize upper-cases the first letter and lower-cases the rest.
func (f *Formatter) Capitalize(s string) string {
	if s == "" {
		return s
	}
	r, size := utf8.DecodeRuneInString(s)
	return f.upper.String(string(r)) + f.lower.String(s[size:])
}

// DefaultTruncateLength is used when Truncate is given a non-positive limit.
const DefaultTruncateLength = 50

// Truncate shortens text to max characters and appends "..." when it had to cut.
func Truncate(text string, max int) string {
	if max <= 0 {
		max = DefaultTruncateLength
	}
	if utf8.RuneCountInString(text) <= max {
		return text
	}

	var b strings.Builder
	n := 0
	for _, r := range text {
		if n == max {
			break
		}
		b.WriteRune(r)
		n++
	}
	return b.String() + "..."
}
