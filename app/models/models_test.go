package models_test

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/jantrick/jantrick/app/models"
)

func TestParseID(t *testing.T) {
	want := primitive.NewObjectID()

	got, err := models.ParseID(want.Hex())
	require.NoError(t, err)
	assert.Equal(t, want, got)

	for _, bad := range []string{"", "123", "zzzzzzzzzzzzzzzzzzzzzzzz", want.Hex() + "0"} {
		_, err := models.ParseID(bad)
		assert.True(t, errors.Is(err, models.ErrMalformedID), "input %q", bad)
	}
}

func TestNormalizeConvertsNumbers(t *testing.T) {
	in := map[string]any{
		"price":    json.Number("250"),
		"rating":   json.Number("4.5"),
		"name":     "hammer",
		"seller":   map[string]any{"stock": json.Number("7")},
		"variants": []any{json.Number("1"), "red"},
	}

	doc := models.Normalize(in)

	assert.Equal(t, int64(250), doc["price"])
	assert.Equal(t, 4.5, doc["rating"])
	assert.Equal(t, "hammer", doc["name"])
	assert.Equal(t, int64(7), doc["seller"].(models.Document)["stock"])
	assert.Equal(t, []any{int64(1), "red"}, doc["variants"])
}

func TestNormalizeNil(t *testing.T) {
	doc := models.Normalize(nil)
	require.NotNil(t, doc)
	assert.Empty(t, doc)
}

func TestPaymentUpdateJSON(t *testing.T) {
	b, err := json.Marshal(models.PaymentUpdate{Set: models.NewPaymentPatch("tx123")})
	require.NoError(t, err)
	assert.JSONEq(t, `{"$set":{"paid":true,"transactionId":"tx123","status":"pending"}}`, string(b))
}

func TestUserIsAdmin(t *testing.T) {
	assert.True(t, models.User{Role: models.RoleAdmin}.IsAdmin())
	assert.False(t, models.User{}.IsAdmin())
}
