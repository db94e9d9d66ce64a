package leads

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// ValidationError is a field validation failure. Message is safe to show to
// the visitor.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return e.Message
}

// Validator checks a single string value.
type Validator interface {
	Validate(value string) error
}

// ValidatorFunc is a function that implements Validator.
type ValidatorFunc func(value string) error

func (f ValidatorFunc) Validate(value string) error {
	return f(value)
}

// Required fails on empty or whitespace-only values.
func Required(msg string) Validator {
	if msg == "" {
		msg = "This field is required"
	}
	return ValidatorFunc(func(value string) error {
		if strings.TrimSpace(value) == "" {
			return ValidationError{Message: msg}
		}
		return nil
	})
}

// emailPattern requires a local part, an @ and a dotted domain.
var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// Email fails on values that do not look like an address. Empty values pass;
// combine with Required.
func Email(msg string) Validator {
	if msg == "" {
		msg = "Invalid email address"
	}
	return ValidatorFunc(func(value string) error {
		s := strings.TrimSpace(value)
		if s == "" {
			return nil
		}
		if !emailPattern.MatchString(s) {
			return ValidationError{Message: msg}
		}
		return nil
	})
}

// IsEmail reports whether s looks like an email address.
func IsEmail(s string) bool {
	return emailPattern.MatchString(strings.TrimSpace(s))
}

// MaxLength fails when the value has more than n characters.
func MaxLength(n int, msg string) Validator {
	if msg == "" {
		msg = "Too long"
	}
	return ValidatorFunc(func(value string) error {
		if utf8.RuneCountInString(value) > n {
			return ValidationError{Message: msg}
		}
		return nil
	})
}

// Field pairs a value with its validators.
type Field struct {
	Name       string
	Value      string
	Validators []Validator
}

// Check runs fields in order and returns the first failure.
func Check(fields ...Field) error {
	for _, f := range fields {
		for _, v := range f.Validators {
			if err := v.Validate(f.Value); err != nil {
				if ve, ok := err.(ValidationError); ok {
					ve.Field = f.Name
					return ve
				}
				return err
			}
		}
	}
	return nil
}
