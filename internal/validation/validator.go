package validation

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"philcali.me/nutrition/internal/exceptions"
)

var (
	instance *validator.Validate
	once     sync.Once
)

func Validator() *validator.Validate {
	once.Do(func() {
		instance = validator.New()
	})
	return instance
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Namespace())
	case "gte", "gt", "min":
		return fmt.Sprintf("%s must be %s %s", fe.Namespace(), fe.Tag(), fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", fe.Namespace(), fe.Param())
	}
	return fmt.Sprintf("%s failed on %s", fe.Namespace(), fe.Tag())
}

// Struct validates the tagged fields of s and reports every violation in a
// single InvalidInputError.
func Struct(s interface{}) error {
	err := Validator().Struct(s)
	if err == nil {
		return nil
	}
	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) {
		return err
	}
	messages := make([]string, len(fieldErrors))
	for i, fe := range fieldErrors {
		messages[i] = describe(fe)
	}
	return exceptions.InvalidInput(strings.Join(messages, "; "))
}
