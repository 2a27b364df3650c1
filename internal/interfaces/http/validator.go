package http

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/jhoicas/turnos-api/internal/domain"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Reportar el nombre del campo tal como lo envía el cliente (json o query).
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		for _, tag := range []string{"json", "query"} {
			name := strings.SplitN(f.Tag.Get(tag), ",", 2)[0]
			if name != "" && name != "-" {
				return name
			}
		}
		return f.Name
	})
	return v
}

// validateStruct valida tags `validate` y devuelve un *domain.ValidationError legible.
func validateStruct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return domain.Invalid("Invalid input.")
	}
	fe := verrs[0]
	switch fe.Tag() {
	case "required":
		return domain.Invalid(fmt.Sprintf("%s is required.", fe.Field()))
	case "datetime":
		return domain.Invalid(fmt.Sprintf("Invalid date %q, expected YYYY-MM-DD.", fe.Value()))
	case "min":
		if fe.Kind() == reflect.Slice {
			return domain.Invalid(fmt.Sprintf("%s must not be empty.", fe.Field()))
		}
	}
	return domain.Invalid(fmt.Sprintf("Invalid value for %s.", fe.Field()))
}
