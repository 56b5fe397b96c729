package validation

import (
	"testing"

	"github.com/go-playground/validator/v10"
)

func TestCustomTags(t *testing.T) {
	v := validator.New()
	if err := Register(v); err != nil {
		t.Fatalf("Register: %v", err)
	}

	type payload struct {
		Day     string `json:"day" validate:"isodate"`
		Contact string `json:"contact" validate:"phone10"`
	}

	if err := v.Struct(payload{Day: "2025-01-10", Contact: "9876543210"}); err != nil {
		t.Errorf("valid payload rejected: %v", err)
	}

	err := v.Struct(payload{Day: "10-01-2025", Contact: "12345"})
	verrs, ok := err.(validator.ValidationErrors)
	if !ok || len(verrs) != 2 {
		t.Fatalf("expected two field errors, got %v", err)
	}
	if verrs[0].Field() != "day" {
		t.Errorf("field name = %q, want json name", verrs[0].Field())
	}
}

func TestStringValidation(t *testing.T) {
	tests := []struct {
		name string
		v    *StringValidation
		want bool
	}{
		{"ok", NewStringValidation("Ann Lee").WithLength(NameMinLength, NameMaxLength), true},
		{"too short", NewStringValidation("Al").WithLength(NameMinLength, NameMaxLength), false},
		{"blank required", NewStringValidation("   "), false},
		{"blank optional", NewStringValidation("").WithRequired(false), true},
		{"pattern", NewStringValidation("98765").WithPattern(CompiledPatterns.Phone), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.v.Validate(); got != tt.want {
				t.Errorf("Validate() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNumericValidation(t *testing.T) {
	if !NewNumericValidation(30).WithRange(1, 365).Validate() {
		t.Error("30 should be within 1..365")
	}
	if NewNumericValidation(0).WithRange(1, 365).Validate() {
		t.Error("0 should be rejected")
	}
	if NewNumericValidation(400).WithRange(1, 365).Validate() {
		t.Error("400 should be rejected")
	}
}
