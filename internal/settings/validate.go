package settings

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// ErrInvalidSettings wraps every field-level validation failure.
var ErrInvalidSettings = errors.New("invalid settings")

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Compare decimals numerically so gte/lte tags apply to money fields.
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := d.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("yaml"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks field ranges and the closed enumerations. Unknown policy
// values are reported with their sentinel error so callers can match them
// with errors.Is.
func (s Settings) Validate() error {
	if err := s.Travel.Policy.Validate(); err != nil {
		return err
	}
	if err := s.Travel.AllowanceReduction.Validate(); err != nil {
		return err
	}
	if err := s.Net.Method.Validate(); err != nil {
		return err
	}
	if err := validate.Struct(s); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, e := range verrs {
				msgs = append(msgs, fieldMessage(e))
			}
			return fmt.Errorf("%w: %s", ErrInvalidSettings, strings.Join(msgs, "; "))
		}
		return fmt.Errorf("%w: %v", ErrInvalidSettings, err)
	}
	return nil
}

// fieldMessage renders a validation error using the yaml path of the field.
func fieldMessage(e validator.FieldError) string {
	path := e.Namespace()
	if _, rest, ok := strings.Cut(path, "."); ok {
		path = rest
	}
	switch e.Tag() {
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", path, e.Param())
	case "gte":
		return fmt.Sprintf("%s must be at least %s", path, e.Param())
	case "lte":
		return fmt.Sprintf("%s must be at most %s", path, e.Param())
	case "datetime":
		return fmt.Sprintf("%s must be a date in YYYY-MM-DD format", path)
	}
	return fmt.Sprintf("%s is invalid (%s)", path, e.Tag())
}
