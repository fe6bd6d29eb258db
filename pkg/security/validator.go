package security

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// TagAlphaSpace is the validator tag accepting only ASCII letters and spaces.
const TagAlphaSpace = "alphaspace"

var alphaSpacePattern = regexp.MustCompile(`^[A-Za-z ]+$`)

// NewValidator returns a validator with the custom tags registered and field
// names reported by their `form` tag, so errors map onto HTML form inputs.
func NewValidator() (*validator.Validate, error) {
	v := validator.New()

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})

	if err := v.RegisterValidation(TagAlphaSpace, func(fl validator.FieldLevel) bool {
		return alphaSpacePattern.MatchString(fl.Field().String())
	}); err != nil {
		return nil, fmt.Errorf("failed to register %s validation: %w", TagAlphaSpace, err)
	}

	return v, nil
}

// MustNewValidator is like NewValidator but panics if a custom tag cannot be registered.
func MustNewValidator() *validator.Validate {
	v, err := NewValidator()
	if err != nil {
		panic(err)
	}
	return v
}
