package validate_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jantrick/jantrick/pkg/validate"
)

type confirmInput struct {
	TransactionID string `json:"transactionId" validate:"required"`
	Email         string `json:"email"         validate:"omitempty,email"`
}

func TestValidInput(t *testing.T) {
	errs := validate.Struct(confirmInput{TransactionID: "tx123", Email: "a@b.co"})
	assert.False(t, validate.HasErrors(errs))
}

func TestErrorsUseJSONNames(t *testing.T) {
	errs := validate.Struct(&confirmInput{Email: "not-an-email"})

	assert.Equal(t, "transactionId is required", errs["transactionId"])
	assert.Equal(t, "email must be a valid email address", errs["email"])
}

func TestNonStructPasses(t *testing.T) {
	doc := map[string]any{"name": "drill"}
	assert.Nil(t, validate.Struct(doc))
	assert.Nil(t, validate.Struct(&doc))
}
