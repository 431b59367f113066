package validation

import (
	"errors"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"

	hiveerrors "github.com/alexisbeaulieu97/hivelab/pkg/errors"
)

type inner struct {
	Port   int    `yaml:"port" validate:"gte=1"`
	Secret string `validate:"required"`
}

type document struct {
	Name  string  `yaml:"name,omitempty" validate:"required,shout"`
	Items []inner `yaml:"items" validate:"dive"`
}

func newValidator(t *testing.T) *validator.Validate {
	t.Helper()
	v, err := New(map[string]validator.Func{
		"shout": func(fl validator.FieldLevel) bool {
			return fl.Field().String() == "HEY"
		},
	})
	require.NoError(t, err)
	return v
}

func TestConvertErrorUsesYAMLFieldPaths(t *testing.T) {
	t.Parallel()

	v := newValidator(t)
	tests := []struct {
		name      string
		doc       document
		wantField string
		wantTag   string
	}{
		{name: "missing name", doc: document{}, wantField: "name", wantTag: "required"},
		{name: "custom tag", doc: document{Name: "hi"}, wantField: "name", wantTag: "shout"},
		{name: "nested yaml name", doc: document{Name: "HEY", Items: []inner{{Port: 0, Secret: "s"}}}, wantField: "items[0].port", wantTag: "gte"},
		{name: "untagged falls back to go name", doc: document{Name: "HEY", Items: []inner{{Port: 1}}}, wantField: "items[0].Secret", wantTag: "required"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			err := ConvertError(v.Struct(tc.doc), "document")
			var validationErr *hiveerrors.ValidationError
			require.ErrorAs(t, err, &validationErr)
			require.Equal(t, tc.wantField, validationErr.Field)
			require.Contains(t, validationErr.Message, tc.wantTag)
		})
	}
}

func TestConvertErrorFallbackField(t *testing.T) {
	t.Parallel()

	require.NoError(t, ConvertError(nil, "config"))

	err := ConvertError(errors.New("boom"), "config")
	var validationErr *hiveerrors.ValidationError
	require.ErrorAs(t, err, &validationErr)
	require.Equal(t, "config", validationErr.Field)
}

func TestNewRejectsBadTag(t *testing.T) {
	t.Parallel()

	_, err := New(map[string]validator.Func{"": func(validator.FieldLevel) bool { return true }})
	require.Error(t, err)
}
