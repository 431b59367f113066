// Package validation holds the validator/v10 setup shared by the config and
// composition packages: YAML field names, custom tags, and conversion into
// hivelab validation errors.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	hiveerrors "github.com/alexisbeaulieu97/hivelab/pkg/errors"
)

// New returns a validator that reports fields by their yaml names and knows
// the supplied custom tags.
func New(tags map[string]validator.Func) (*validator.Validate, error) {
	v := validator.New()
	v.RegisterTagNameFunc(YAMLName)

	for tag, fn := range tags {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return nil, fmt.Errorf("register %s validation: %w", tag, err)
		}
	}
	return v, nil
}

// YAMLName returns the yaml tag name of field, or the Go name when untagged.
func YAMLName(field reflect.StructField) string {
	name := strings.SplitN(field.Tag.Get("yaml"), ",", 2)[0]
	if name == "" || name == "-" {
		return field.Name
	}
	return name
}

// ConvertError turns validator errors into a ValidationError for the first
// failing field. Other errors are reported against fallbackField.
func ConvertError(err error, fallbackField string) error {
	if err == nil {
		return nil
	}

	var ves validator.ValidationErrors
	if errors.As(err, &ves) && len(ves) > 0 {
		ve := ves[0]
		field := FieldPath(ve)
		msg := fmt.Sprintf("%s failed validation for tag '%s'", field, ve.Tag())
		return hiveerrors.NewValidationError(field, msg, err)
	}

	return hiveerrors.NewValidationError(fallbackField, err.Error(), err)
}

// FieldPath drops the root struct name from a field namespace:
// "Config.store.redis.db" becomes "store.redis.db".
func FieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if _, rest, ok := strings.Cut(ns, "."); ok {
		return rest
	}
	return ns
}
