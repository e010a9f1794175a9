package utils

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"inventory-api/internal/domain/price"
	appErrors "inventory-api/pkg/errors"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()

	// Report fields by their JSON names.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})

	// Let numeric tags such as gt=0 apply to decimal prices. An out-of-range
	// decimal maps to nil, which fails the first tag of the field without
	// converting it.
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		d, ok := field.Interface().(decimal.Decimal)
		if !ok || price.CheckRange(d) != nil {
			return nil
		}
		return d.InexactFloat64()
	}, decimal.Decimal{})

	// price only reports values the custom type rejected; anything that
	// reaches it as a number is in range.
	_ = v.RegisterValidation("price", func(fl validator.FieldLevel) bool {
		return fl.Field().Kind() == reflect.Float64
	})

	return v
}

// ValidateStruct validates a struct based on its validation tags and returns
// a validation error describing every failing field.
func ValidateStruct(s interface{}) error {
	if err := validate.Struct(s); err != nil {
		return formatValidationError(err)
	}
	return nil
}

// formatValidationError formats validation errors into readable messages
func formatValidationError(err error) error {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		messages := make([]string, 0, len(validationErrors))
		for _, e := range validationErrors {
			messages = append(messages, formatFieldError(e))
		}
		return appErrors.NewValidation(strings.Join(messages, "; "))
	}
	return appErrors.NewValidation(err.Error())
}

// formatFieldError formats a single field validation error
func formatFieldError(e validator.FieldError) string {
	field := e.Field()

	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, e.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, e.Param())
	case "price":
		return fmt.Sprintf("%s is out of range", field)
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, e.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, e.Param())
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}
