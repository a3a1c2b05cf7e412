package utils

import (
	"errors"
	"testing"

	"github.com/go-playground/validator/v10"
)

func TestFormatValidationErrors(t *testing.T) {
	type payload struct {
		Name     string `validate:"required"`
		Quantity int    `validate:"gt=0"`
	}
	err := validator.New().Struct(payload{})
	got := FormatValidationErrors(err)
	want := "Name failed on 'required'; Quantity failed on 'gt'"
	if got != want {
		t.Fatalf("FormatValidationErrors = %q, want %q", got, want)
	}

	plain := errors.New("boom")
	if got := FormatValidationErrors(plain); got != "boom" {
		t.Fatalf("FormatValidationErrors(plain) = %q", got)
	}
}
