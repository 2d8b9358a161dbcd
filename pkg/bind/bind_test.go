package bind_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jantrick/jantrick/pkg/bind"
)

type confirmInput struct {
	TransactionID string `json:"transactionId" validate:"required"`
}

func TestJSONDecodesAndValidates(t *testing.T) {
	req := httptest.NewRequest(http.MethodPatch, "/", strings.NewReader(`{"transactionId":"tx1"}`))
	var in confirmInput

	errs, err := bind.JSON(httptest.NewRecorder(), req, &in, 0)
	require.NoError(t, err)
	assert.Nil(t, errs)
	assert.Equal(t, "tx1", in.TransactionID)
}

func TestJSONReportsValidationErrors(t *testing.T) {
	req := httptest.NewRequest(http.MethodPatch, "/", strings.NewReader(`{}`))
	var in confirmInput

	errs, err := bind.JSON(httptest.NewRecorder(), req, &in, 0)
	require.NoError(t, err)
	assert.Contains(t, errs, "transactionId")
}

func TestJSONRejectsMalformedBody(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":`))
	var doc map[string]any

	_, err := bind.JSON(httptest.NewRecorder(), req, &doc, 0)
	assert.True(t, errors.Is(err, bind.ErrBadRequest))
}

func TestJSONRejectsOversizedBody(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"a very long tool name"}`))
	var doc map[string]any

	_, err := bind.JSON(httptest.NewRecorder(), req, &doc, 8)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "too large")
}

func TestJSONEmptyBodyLeavesDestUntouched(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", http.NoBody)
	var doc map[string]any

	errs, err := bind.JSON(httptest.NewRecorder(), req, &doc, 0)
	require.NoError(t, err)
	assert.Nil(t, errs)
	assert.Nil(t, doc)
}

func TestJSONKeepsNumbersExact(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"totalPrice":19.99}`))
	var doc map[string]any

	_, err := bind.JSON(httptest.NewRecorder(), req, &doc, 0)
	require.NoError(t, err)
	assert.Equal(t, json.Number("19.99"), doc["totalPrice"])
}
