package model

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Phone numbers: digits plus common punctuation only.
	_ = v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return isPhone(fl.Field().String())
	})
	return v
}

// isPhone accepts digits optionally separated by +, -, spaces and parens.
func isPhone(s string) bool {
	stripped := strings.NewReplacer("+", "", "-", "", " ", "", "(", "", ")", "").Replace(s)
	if stripped == "" {
		return false
	}
	for _, r := range stripped {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// validateStruct runs struct-tag validation and converts the first failure
// into a ValidationError from the closed error set.
func validateStruct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return &ValidationError{
			Field: strings.ToLower(fe.Field()),
			Msg:   "failed " + fe.Tag() + " check",
		}
	}
	return &ValidationError{Msg: err.Error()}
}
