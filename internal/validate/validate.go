// Package validate checks user input and produces display-ready verdicts.
package validate

import (
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/hunglv/expensive/internal/format"
	"github.com/hunglv/expensive/internal/model"
	"github.com/shopspring/decimal"
)

// Result is the verdict on a single value.
type Result struct {
	Message string
	IsValid bool
}

func ok(message string) Result      { return Result{IsValid: true, Message: message} }
func invalid(message string) Result { return Result{IsValid: false, Message: message} }

// Rules holds the configurable limits.
type Rules struct {
	MinAmount         int64
	MaxAmount         int64
	PasswordMinLength int
	PasswordMaxLength int
	UsernameMinLength int
	UsernameMaxLength int
	EmailMaxLength    int
}

// DefaultRules returns the built-in limits.
func DefaultRules() Rules {
	return Rules{
		MinAmount:         1000,
		MaxAmount:         999999999,
		PasswordMinLength: 6,
		PasswordMaxLength: 128,
		UsernameMinLength: 3,
		UsernameMaxLength: 50,
		EmailMaxLength:    255,
	}
}

var (
	emailPattern    = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)
	letterPattern   = regexp.MustCompile(`[a-zA-Z]`)
	digitPattern    = regexp.MustCompile(`[0-9]`)
	groupedAmount   = regexp.MustCompile(`^[+-]?\d{1,3}([.,]\d{3})+$`)
)

// Validator applies Rules. Amount messages are rendered with money.
type Validator struct {
	money *format.Formatter
	now   func() time.Time
	rules Rules
}

// Option customizes a Validator.
type Option func(*Validator)

// WithClock replaces time.Now, which decides what "the future" is.
func WithClock(now func() time.Time) Option {
	return func(v *Validator) { v.now = now }
}

// WithFormatter sets the formatter used in amount messages.
func WithFormatter(f *format.Formatter) Option {
	return func(v *Validator) { v.money = f }
}

// New builds a Validator.
func New(rules Rules, opts ...Option) *Validator {
	v := &Validator{rules: rules, now: time.Now}
	for _, opt := range opts {
		opt(v)
	}
	if v.money == nil {
		v.money = format.Default()
	}
	return v
}

// Rules returns the limits in effect.
func (v *Validator) Rules() Rules {
	return v.rules
}

// Email checks the address shape and length.
func (v *Validator) Email(email string) Result {
	email = strings.TrimSpace(email)
	if email == "" {
		return invalid(MsgEmailRequired)
	}
	if utf8.RuneCountInString(email) > v.rules.EmailMaxLength || !emailPattern.MatchString(email) {
		return invalid(MsgEmailInvalid)
	}
	return ok(MsgEmailValid)
}

// IsEmail reports whether email is well formed.
func (v *Validator) IsEmail(email string) bool {
	return v.Email(email).IsValid
}

// Password requires the configured length and at least one letter and one digit.
func (v *Validator) Password(password string) Result {
	if password == "" {
		return invalid(MsgPasswordRequired)
	}
	n := utf8.RuneCountInString(password)
	if n < v.rules.PasswordMinLength {
		return invalid(fmt.Sprintf(MsgPasswordTooShort, v.rules.PasswordMinLength))
	}
	if n > v.rules.PasswordMaxLength {
		return invalid(fmt.Sprintf(MsgPasswordTooLong, v.rules.PasswordMaxLength))
	}
	if !letterPattern.MatchString(password) || !digitPattern.MatchString(password) {
		return invalid(MsgPasswordWeak)
	}
	return ok(MsgPasswordValid)
}

// PasswordConfirm checks that the confirmation matches.
func (v *Validator) PasswordConfirm(password, confirm string) Result {
	if confirm == "" {
		return invalid(MsgConfirmRequired)
	}
	if password != confirm {
		return invalid(MsgConfirmMismatch)
	}
	return ok(MsgConfirmValid)
}

// Username allows letters, digits and underscore within the configured length.
func (v *Validator) Username(username string) Result {
	username = strings.TrimSpace(username)
	if username == "" {
		return invalid(MsgUsernameRequired)
	}
	n := utf8.RuneCountInString(username)
	if n < v.rules.UsernameMinLength {
		return invalid(fmt.Sprintf(MsgUsernameTooShort, v.rules.UsernameMinLength))
	}
	if n > v.rules.UsernameMaxLength {
		return invalid(fmt.Sprintf(MsgUsernameTooLong, v.rules.UsernameMaxLength))
	}
	if !usernamePattern.MatchString(username) {
		return invalid(MsgUsernameCharset)
	}
	return ok(MsgUsernameValid)
}

// ParseAmount reads a user-typed amount. Spaces are ignored and "." or ","
// count as thousands grouping only in well-formed groups ("50.000",
// "1,234,567"). Anything else is read as a decimal ("25000,5" is 25000.5) and
// rejected unless it is a whole number that fits in an int64.
func ParseAmount(s string) (int64, error) {
	clean := strings.NewReplacer(" ", "", "_", "").Replace(strings.TrimSpace(s))
	if clean == "" {
		return 0, fmt.Errorf("empty amount")
	}
	if groupedAmount.MatchString(clean) {
		clean = strings.NewReplacer(".", "", ",", "").Replace(clean)
	} else {
		clean = strings.Replace(clean, ",", ".", 1)
	}
	d, err := decimal.NewFromString(clean)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	if !d.IsInteger() {
		return 0, fmt.Errorf("invalid amount %q: not a whole number", s)
	}
	if !d.BigInt().IsInt64() {
		return 0, fmt.Errorf("invalid amount %q: out of range", s)
	}
	return d.IntPart(), nil
}

// ExpenseAmount validates a typed amount.
func (v *Validator) ExpenseAmount(s string) Result {
	amount, err := ParseAmount(s)
	if err != nil {
		return invalid(MsgAmountNotPositive)
	}
	return v.ExpenseAmountValue(amount)
}

// ExpenseAmountValue checks that amount is positive and within limits.
func (v *Validator) ExpenseAmountValue(amount int64) Result {
	if amount <= 0 {
		return invalid(MsgAmountNotPositive)
	}
	if amount < v.rules.MinAmount {
		return invalid(fmt.Sprintf(MsgAmountTooSmall, v.money.Currency(v.rules.MinAmount)))
	}
	if amount > v.rules.MaxAmount {
		return invalid(fmt.Sprintf(MsgAmountTooLarge, v.money.Currency(v.rules.MaxAmount)))
	}
	return ok(MsgAmountValid)
}

// Required fails for blank values. An empty label falls back to a generic one.
func Required(value, label string) Result {
	if label == "" {
		label = DefaultFieldLabel
	}
	if strings.TrimSpace(value) == "" {
		return invalid(fmt.Sprintf(MsgRequired, label))
	}
	return ok(MsgValid)
}

// Date requires a real calendar date no later than today.
func (v *Validator) Date(s string) Result {
	if strings.TrimSpace(s) == "" {
		return invalid(MsgDateRequired)
	}
	d, err := model.ParseDate(s)
	if err != nil {
		return invalid(MsgDateInvalid)
	}
	if d.After(model.DateOf(v.now())) {
		return invalid(MsgDateFuture)
	}
	return ok(MsgDateValid)
}

// CategoryID requires an id present in the catalog.
func CategoryID(catalog []model.Category, id int) Result {
	for _, c := range catalog {
		if c.ID == id {
			return ok(MsgCategoryValid)
		}
	}
	return invalid(MsgCategoryInvalid)
}
