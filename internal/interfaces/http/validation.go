package http

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/nagacare/health-admin-api/internal/domain"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		tag := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if tag == "" || tag == "-" {
			return f.Name
		}
		return tag
	})
	return v
}

// validationFailure collects field-level reasons for a rejected body.
type validationFailure struct {
	details map[string]string
}

func (e *validationFailure) Error() string {
	parts := make([]string, 0, len(e.details))
	for field, reason := range e.details {
		parts = append(parts, field+" "+reason)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *validationFailure) Is(target error) bool {
	return target == domain.ErrInvalidInput
}

// parseBody decodes the JSON body into dest and runs the struct validators.
func parseBody(c *fiber.Ctx, dest any) error {
	if err := c.BodyParser(dest); err != nil {
		return &validationFailure{details: map[string]string{"body": "must be a valid JSON object"}}
	}
	return validateStruct(dest)
}

func validateStruct(dest any) error {
	err := validate.Struct(dest)
	if err == nil {
		return nil
	}
	errs, ok := err.(validator.ValidationErrors)
	if !ok {
		return &validationFailure{details: map[string]string{"body": "is invalid"}}
	}
	details := make(map[string]string, len(errs))
	for _, fe := range errs {
		details[fe.Field()] = validationMessage(fe)
	}
	return &validationFailure{details: details}
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	case "datetime":
		return fmt.Sprintf("must be a date in the format %s", fe.Param())
	}
	return "is invalid"
}
