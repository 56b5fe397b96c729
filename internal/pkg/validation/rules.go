package validation

import (
	"reflect"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// Validation rule patterns
var (
	// Contact numbers are exactly ten digits
	PhonePattern = `^\d{10}$`

	// Calendar dates use the ISO layout
	DateLayout = "2006-01-02"

	PasswordMinLength = 6

	NameMinLength = 3
	NameMaxLength = 100

	TitleMinLength = 3
	TitleMaxLength = 100
)

// CompiledPatterns caches compiled regex patterns
var CompiledPatterns = struct {
	Phone *regexp.Regexp
}{
	Phone: regexp.MustCompile(PhonePattern),
}

// IsPhone reports whether s is a ten digit contact number
func IsPhone(s string) bool {
	return CompiledPatterns.Phone.MatchString(s)
}

// IsISODate reports whether s is a YYYY-MM-DD calendar date
func IsISODate(s string) bool {
	_, err := time.Parse(DateLayout, s)
	return err == nil
}

// Register installs the custom tags on a validator instance and makes
// field errors report JSON field names.
//
//	isodate: string in YYYY-MM-DD form
//	phone10: string of exactly ten digits
func Register(v *validator.Validate) error {
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	if err := v.RegisterValidation("isodate", func(fl validator.FieldLevel) bool {
		return IsISODate(fl.Field().String())
	}); err != nil {
		return err
	}

	return v.RegisterValidation("phone10", func(fl validator.FieldLevel) bool {
		return IsPhone(fl.Field().String())
	})
}

// StringValidation checks a single string value against length and pattern rules
type StringValidation struct {
	Value    string
	MinLen   int
	MaxLen   int
	Required bool
	Pattern  *regexp.Regexp
}

// NewStringValidation creates a new string validation
func NewStringValidation(value string) *StringValidation {
	return &StringValidation{
		Value:    value,
		Required: true,
	}
}

// WithLength sets the inclusive length bounds
func (v *StringValidation) WithLength(min, max int) *StringValidation {
	v.MinLen = min
	v.MaxLen = max
	return v
}

// WithPattern sets regex pattern
func (v *StringValidation) WithPattern(pattern *regexp.Regexp) *StringValidation {
	v.Pattern = pattern
	return v
}

// WithRequired sets if field is required
func (v *StringValidation) WithRequired(required bool) *StringValidation {
	v.Required = required
	return v
}

// Validate performs validation. Lengths count characters, not bytes.
func (v *StringValidation) Validate() bool {
	value := strings.TrimSpace(v.Value)
	if value == "" {
		return !v.Required
	}

	n := len([]rune(value))
	if v.MinLen > 0 && n < v.MinLen {
		return false
	}
	if v.MaxLen > 0 && n > v.MaxLen {
		return false
	}

	if v.Pattern != nil && !v.Pattern.MatchString(value) {
		return false
	}

	return true
}

// NumericValidation checks an integer against inclusive bounds
type NumericValidation struct {
	Value int
	Min   int
	Max   int
}

// NewNumericValidation creates a new numeric validation
func NewNumericValidation(value int) *NumericValidation {
	return &NumericValidation{Value: value}
}

// WithRange sets the inclusive bounds; a zero Max means unbounded
func (v *NumericValidation) WithRange(min, max int) *NumericValidation {
	v.Min = min
	v.Max = max
	return v
}

// Validate performs validation
func (v *NumericValidation) Validate() bool {
	if v.Value < v.Min {
		return false
	}
	if v.Max != 0 && v.Value > v.Max {
		return false
	}
	return true
}
