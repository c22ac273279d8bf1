package validate

import (
	"errors"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"livestock-client/internal/platform/apierr"
)

var (
	once sync.Once
	v    *validator.Validate
)

func instance() *validator.Validate {
	once.Do(func() {
		v = validator.New(validator.WithRequiredStructEnabled())
	})
	return v
}

// Struct valida los tags `validate` de un payload antes de mandarlo al
// backend. Devuelve un *apierr.Error de validación con errores por campo,
// en la misma forma que devolvería el backend.
//
// Payloads que no son structs (maps, nil) pasan sin validar: el backend
// sigue siendo la autoridad.
func Struct(in any) error {
	if in == nil {
		return nil
	}

	err := instance().Struct(in)
	if err == nil {
		return nil
	}

	var invalid *validator.InvalidValidationError
	if errors.As(err, &invalid) {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	fields := make(map[string][]string, len(verrs))
	for _, fe := range verrs {
		name := fieldName(fe)
		fields[name] = append(fields[name], message(fe))
	}
	return apierr.Validation(fields)
}

func fieldName(fe validator.FieldError) string {
	// Sin traducción de tags json: usamos snake_case del nombre Go,
	// que en nuestros modelos coincide con el wire format.
	return toSnake(fe.Field())
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "email":
		return "Enter a valid email address."
	case "oneof":
		return "Value must be one of: " + fe.Param() + "."
	case "datetime":
		return "Date must have format " + fe.Param() + "."
	case "gt", "gte":
		return "Value is too small."
	case "min":
		return "Value is too short."
	default:
		return "Invalid value."
	}
}

func toSnake(s string) string {
	var b strings.Builder
	prevUpper := false
	for i, r := range s {
		if r >= 'A' && r <= 'Z' {
			if i > 0 && !prevUpper {
				b.WriteByte('_')
			}
			b.WriteRune(r + ('a' - 'A'))
			prevUpper = true
			continue
		}
		b.WriteRune(r)
		prevUpper = false
	}
	return b.String()
}
