package validate

// FieldRule describes how one form field is checked.
type FieldRule struct {
	Validator func(string) Result
	Field     string
	Label     string
	Required  bool
}

// FormResult collects the verdicts for a whole form.
type FormResult struct {
	Errors     map[string]string
	FirstError string
	IsValid    bool
}

// Form checks values against rules in order. For each field the required
// check runs first; the validator sees every value except "", so a blank
// but non-empty optional field is still checked. FirstError is
// the message of the earliest failing rule.
func Form(values map[string]string, rules []FieldRule) FormResult {
	res := FormResult{Errors: make(map[string]string), IsValid: true}

	fail := func(field, message string) {
		res.Errors[field] = message
		if res.IsValid {
			res.FirstError = message
		}
		res.IsValid = false
	}

	for _, rule := range rules {
		value := values[rule.Field]

		if rule.Required {
			if r := Required(value, rule.Label); !r.IsValid {
				fail(rule.Field, r.Message)
				continue
			}
		}

		if rule.Validator != nil && value != "" {
			if r := rule.Validator(value); !r.IsValid {
				fail(rule.Field, r.Message)
			}
		}
	}

	return res
}
