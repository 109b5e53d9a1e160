package utils

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// ParseBody decodes the request body into out and runs its `validate` tags.
// The returned map is non-nil when validation failed; the error is non-nil
// when the body could not be decoded at all.
func ParseBody(c *fiber.Ctx, out interface{}) (map[string]string, error) {
	if err := c.BodyParser(out); err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Cannot parse JSON")
	}
	return ValidateStruct(out), nil
}

// ValidateStruct maps each failed field's JSON name to the rule it broke.
func ValidateStruct(s interface{}) map[string]string {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return map[string]string{"body": err.Error()}
	}

	out := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		out[jsonFieldName(fe)] = fe.Tag()
	}
	return out
}

func jsonFieldName(fe validator.FieldError) string {
	if name := fe.Field(); name != "" {
		return name
	}
	return fe.StructField()
}
