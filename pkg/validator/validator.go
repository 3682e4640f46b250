package validator

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	once     sync.Once
	instance *validator.Validate
)

func get() *validator.Validate {
	once.Do(func() {
		instance = validator.New(validator.WithRequiredStructEnabled())
		// report json field names instead of Go field names
		instance.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return fld.Name
			}
			return name
		})
	})
	return instance
}

// Struct validates s by its `validate` tags and returns a field -> message map.
// A nil map means the struct is valid.
func Struct(s any) map[string]string {
	err := get().Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return map[string]string{"request": err.Error()}
	}

	out := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		out[fe.Field()] = message(fe)
	}
	return out
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "must be provided"
	case "max":
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("must not contain more than %s items", fe.Param())
		}
		return fmt.Sprintf("must not be more than %s characters long", fe.Param())
	case "min":
		return fmt.Sprintf("must contain at least %s items", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of %s", strings.ReplaceAll(fe.Param(), " ", ", "))
	case "uuid4", "uuid":
		return "must be a valid UUID"
	default:
		return fmt.Sprintf("failed on %s", fe.Tag())
	}
}
