package services

import (
	"fmt"
	"reflect"
	"strings"

	"poultry_farm_backend/internal/models"
	"poultry_farm_backend/pkg/utils"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Report JSON field names so messages match what the caller sent.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

func validateRequest(req interface{}) error {
	if err := validate.Struct(req); err != nil {
		return fmt.Errorf("%w: %s", ErrValidation, utils.FormatValidationErrors(err))
	}
	return nil
}

// trimmedOrNil turns blank optional text into NULL.
func trimmedOrNil(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	if t == "" {
		return nil
	}
	return &t
}

// money rounds a stored amount to cents for comparison and arithmetic.
func money(f float64) decimal.Decimal {
	return decimal.NewFromFloat(f).Round(2)
}

func toFloat(d decimal.Decimal) float64 {
	f, _ := d.Round(2).Float64()
	return f
}

func maxZero(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}

// normalizeReference maps the legacy 0 sentinel to an unassigned reference.
func normalizeReference(ref *int64) *int64 {
	if ref == nil || *ref <= 0 {
		return nil
	}
	v := *ref
	return &v
}

func isValidPaymentMethod(method string, allowCredit bool) bool {
	switch method {
	case models.PaymentCash, models.PaymentMobileMoney, models.PaymentBankTransfer:
		return true
	case models.PaymentCredit:
		return allowCredit
	}
	return false
}
