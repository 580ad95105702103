package config

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/idelchi/gogen/pkg/validator"
)

// maxFileSize caps MaxSize at the counter space of the stream cipher (2^32 blocks of 16 bytes).
const maxFileSize = 1 << 36

// newValidator returns a validator with the custom rules and their messages registered.
func newValidator() (*validator.Validator, error) {
	validate := validator.NewValidator()

	if err := registerExclusive(validate); err != nil {
		return nil, err
	}

	if err := registerByteSize(validate); err != nil {
		return nil, err
	}

	registerLabels(validate)

	return validate, nil
}

// registerExclusive adds a custom validator ensuring two fields are mutually exclusive.
func registerExclusive(validate *validator.Validator) error {
	if err := validate.RegisterValidationAndTranslation(
		"exclusive",
		validateExclusive,
		"{0} is mutually exclusive with {1}",
	); err != nil {
		return fmt.Errorf("registering exclusive validation: %w", err)
	}

	return nil
}

// registerByteSize adds the human readable size rule used by MaxSize.
func registerByteSize(validate *validator.Validator) error {
	if err := validate.RegisterValidationAndTranslation(
		"bytesize",
		validateByteSize,
		"{0} must be a size like 512MiB or 2GB, at most 64GiB",
	); err != nil {
		return fmt.Errorf("registering bytesize validation: %w", err)
	}

	return nil
}

// registerLabels reports fields by their label, else as the flag they are bound to.
func registerLabels(validate *validator.Validator) {
	validate.Validator().RegisterTagNameFunc(func(fld reflect.StructField) string {
		const splitSize = 2

		if name := strings.SplitN(fld.Tag.Get("label"), ",", splitSize)[0]; name != "" && name != "-" {
			return name
		}

		if name := strings.SplitN(fld.Tag.Get("mapstructure"), ",", splitSize)[0]; name != "" && name != "-" {
			return "--" + name
		}

		return fld.Name
	})
}

// validateExclusive checks if two fields are mutually exclusive.
// Returns false if both fields have non-empty values.
func validateExclusive(fl validator.FieldLevel) bool {
	field := fl.Field()
	otherField := fl.Parent().FieldByName(fl.Param())

	if !field.IsValid() || !otherField.IsValid() {
		return true
	}

	if field.Kind() == reflect.String && otherField.Kind() == reflect.String {
		return field.String() == "" || otherField.String() == ""
	}

	return true
}

// validateByteSize accepts human readable sizes between 1 byte and maxFileSize.
func validateByteSize(fl validator.FieldLevel) bool {
	if fl.Field().Kind() != reflect.String {
		return false
	}

	size, err := humanize.ParseBytes(fl.Field().String())
	if err != nil {
		return false
	}

	return size > 0 && size <= maxFileSize
}
