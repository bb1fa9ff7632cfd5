package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type sample struct {
	Name  string   `validate:"required"`
	Email string   `validate:"omitempty,email"`
	Kind  string   `validate:"omitempty,oneof=text image"`
	Tags  []string `validate:"omitempty,max=2,dive,max=3"`
}

func TestValidateStruct(t *testing.T) {
	assert.NoError(t, ValidateStruct(sample{Name: "a", Kind: "text", Tags: []string{"x"}}))

	err := ValidateStruct(sample{Email: "nope", Kind: "video"})
	assert.EqualError(t, err, "name is required; email must be a valid email; kind must be one of: text image")

	err = ValidateStruct(sample{Name: "a", Tags: []string{"a", "b", "c"}})
	assert.EqualError(t, err, "tags must have at most 2 entries")

	err = ValidateStruct(sample{Name: "a", Tags: []string{"long"}})
	assert.EqualError(t, err, "tags[0] must be at most 3 characters")
}
