// Package pattern assigns categories to imported bank transactions by
// matching their descriptions against rules.
package pattern

import (
	"errors"
	"fmt"
	"regexp"
	"slices"
	"strings"

	"github.com/hunglv/expensive/internal/model"
)

// Rule maps transactions whose description matches Pattern to CategoryID.
// Plain patterns match as a case-insensitive substring; regex patterns are
// compiled case-insensitively. AmountMin and AmountMax bound the amount
// when set.
type Rule struct {
	AmountMin  *int64 `mapstructure:"amount_min"`
	AmountMax  *int64 `mapstructure:"amount_max"`
	Name       string `mapstructure:"name"`
	Pattern    string `mapstructure:"pattern"`
	CategoryID int    `mapstructure:"category"`
	Priority   int    `mapstructure:"priority"`
	IsRegex    bool   `mapstructure:"regex"`
}

// Matcher evaluates rules against expenses.
type Matcher struct {
	compiledRegex map[int]*regexp.Regexp
	rules         []Rule
}

// NewMatcher compiles the rules. An invalid regex is an error.
func NewMatcher(rules []Rule) (*Matcher, error) {
	m := &Matcher{
		rules:         slices.Clone(rules),
		compiledRegex: make(map[int]*regexp.Regexp),
	}

	for i, rule := range m.rules {
		if !rule.IsRegex {
			continue
		}
		re, err := regexp.Compile("(?i)" + rule.Pattern)
		if err != nil {
			return nil, fmt.Errorf("rule %q: %w", rule.Name, err)
		}
		m.compiledRegex[i] = re
	}

	return m, nil
}

// Match returns the rules in matches in, highest priority first. Rules of
// equal priority keep their configured order.
func (m *Matcher) Match(in model.ExpenseInput) []Rule {
	var matches []Rule
	for i, rule := range m.rules {
		if m.matchesRule(i, in) {
			matches = append(matches, rule)
		}
	}

	slices.SortStableFunc(matches, func(a, b Rule) int {
		return b.Priority - a.Priority
	})
	return matches
}

// Categorize sets the category of the best matching rule. It reports
// whether any rule matched; in is returned unchanged otherwise.
func (m *Matcher) Categorize(in model.ExpenseInput) (model.ExpenseInput, bool) {
	matches := m.Match(in)
	if len(matches) == 0 {
		return in, false
	}
	in.CategoryID = matches[0].CategoryID
	return in, true
}

func (m *Matcher) matchesRule(i int, in model.ExpenseInput) bool {
	return m.matchesDescription(i, in.Description) && matchesAmount(m.rules[i], in.Amount)
}

func (m *Matcher) matchesDescription(i int, description string) bool {
	rule := m.rules[i]
	if rule.Pattern == "" {
		return false
	}

	if rule.IsRegex {
		re, ok := m.compiledRegex[i]
		return ok && re.MatchString(description)
	}
	return strings.Contains(strings.ToLower(description), strings.ToLower(rule.Pattern))
}

func matchesAmount(rule Rule, amount int64) bool {
	if rule.AmountMin != nil && amount < *rule.AmountMin {
		return false
	}
	if rule.AmountMax != nil && amount > *rule.AmountMax {
		return false
	}
	return true
}

// Validate reports every unusable rule at once.
func Validate(rules []Rule, catalog []model.Category) error {
	var errs []error
	for i, rule := range rules {
		name := rule.Name
		if name == "" {
			name = fmt.Sprintf("#%d", i+1)
		}

		if strings.TrimSpace(rule.Pattern) == "" {
			errs = append(errs, fmt.Errorf("rule %s: pattern is empty", name))
		}
		if rule.IsRegex {
			if _, err := regexp.Compile("(?i)" + rule.Pattern); err != nil {
				errs = append(errs, fmt.Errorf("rule %s: %w", name, err))
			}
		}
		if !slices.ContainsFunc(catalog, func(c model.Category) bool { return c.ID == rule.CategoryID }) {
			errs = append(errs, fmt.Errorf("rule %s: category %d is not in the catalog", name, rule.CategoryID))
		}
		if rule.AmountMin != nil && rule.AmountMax != nil && *rule.AmountMin > *rule.AmountMax {
			errs = append(errs, fmt.Errorf("rule %s: amount_min is above amount_max", name))
		}
	}
	return errors.Join(errs...)
}
