package validator

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Length *float64 `json:"culmen_length_mm" validate:"required"`
	Sex    *int     `json:"sex,omitempty" validate:"required"`
	Mode   string   `json:"mode" validate:"omitempty,min=3"`
}

func TestValidate_RequiredPointers(t *testing.T) {
	zero := 0.0
	zeroInt := 0

	err := Validate(sample{Length: &zero, Sex: &zeroInt})
	assert.NoError(t, err, "zero values are present, not missing")

	err = Validate(sample{})
	require.Error(t, err)

	var verrs ValidationErrors
	require.True(t, errors.As(err, &verrs))
	require.Len(t, verrs, 2)
	assert.Equal(t, ValidationError{Field: "culmen_length_mm", Tag: "required", Message: "field required"}, verrs[0])
	assert.Equal(t, "sex", verrs[1].Field)
	assert.Equal(t, "culmen_length_mm: field required; sex: field required", err.Error())
}

func TestValidate_OtherTags(t *testing.T) {
	v, s := 1.0, 1

	err := Validate(sample{Length: &v, Sex: &s, Mode: "jw"})
	require.Error(t, err)

	verrs := err.(ValidationErrors)
	require.Len(t, verrs, 1)
	assert.Equal(t, "mode", verrs[0].Field)
	assert.Equal(t, "failed validation: min", verrs[0].Message)
}
