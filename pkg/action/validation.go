package action

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/vfg2006/agency-crm-api/pkg/apiErrors"
)

// NewValidator cria um validator que reporta campos pelo nome JSON
func NewValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return field.Name
		}
		return name
	})
	return v
}

var tagMessages = map[string]string{
	"required": "campo obrigatório",
	"email":    "e-mail inválido",
	"gt":       "deve ser maior que %s",
	"gte":      "deve ser maior ou igual a %s",
	"lte":      "deve ser menor ou igual a %s",
	"max":      "deve ter no máximo %s",
	"min":      "deve ter no mínimo %s",
	"len":      "deve ter exatamente %s caracteres",
	"oneof":    "deve ser um de: %s",
	"datetime": "data inválida, use o formato %s",
	"uuid":     "identificador inválido",
}

// validateStruct valida a entrada e converte a primeira falha em VALIDATION_ERROR.
// Entradas que não são structs passam direto.
func validateStruct(v *validator.Validate, in any) error {
	value := reflect.ValueOf(in)
	for value.Kind() == reflect.Pointer {
		if value.IsNil() {
			return nil
		}
		value = value.Elem()
	}
	if value.Kind() != reflect.Struct {
		return nil
	}

	err := v.Struct(value.Interface())
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) || len(validationErrors) == 0 {
		return apiErrors.Wrap(err, apiErrors.CodeValidation, "Entrada inválida")
	}

	first := validationErrors[0]
	field := fieldPath(first)
	return apiErrors.Validation(field, fmt.Sprintf("%s: %s", field, describe(first)))
}

// fieldPath remove o nome do tipo raiz: "CreateInput.items[0].quantity" -> "items[0].quantity"
func fieldPath(fe validator.FieldError) string {
	namespace := fe.Namespace()
	if idx := strings.Index(namespace, "."); idx >= 0 {
		return namespace[idx+1:]
	}
	return fe.Field()
}

func describe(fe validator.FieldError) string {
	template, ok := tagMessages[fe.Tag()]
	if !ok {
		return fmt.Sprintf("falhou na regra %q", fe.Tag())
	}
	if strings.Contains(template, "%s") {
		return fmt.Sprintf(template, fe.Param())
	}
	return template
}
