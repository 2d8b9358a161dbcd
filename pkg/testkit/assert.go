package testkit

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// AnyValue in responseContains only requires the path to be present and
// non-empty.
const AnyValue = "*"

// AssertStatusCode checks the response code.
func AssertStatusCode(t *testing.T, scenario *Scenario, got int) {
	t.Helper()
	assert.Equal(t, scenario.ExpectedCode, got,
		"[%s] HTTP status code mismatch", scenario.Name)
}

// AssertJSONBody deep-compares the actual response with the expected JSON
// after decoding both, so key order and whitespace never matter.
func AssertJSONBody(t *testing.T, scenario *Scenario, expected, actual []byte) {
	t.Helper()

	var expVal, actVal any
	require.NoError(t,
		json.Unmarshal(expected, &expVal),
		"[%s] expected response is not valid JSON", scenario.Name,
	)
	if !assert.NoError(t,
		json.Unmarshal(actual, &actVal),
		"[%s] actual response is not valid JSON\nbody: %s", scenario.Name, string(actual),
	) {
		return
	}

	assert.Equal(t, expVal, actVal, "[%s] response body mismatch", scenario.Name)
}

// AssertContains checks one dotted path of a decoded response.
func AssertContains(t *testing.T, scenario *Scenario, path string, want, decoded any) {
	t.Helper()

	got, ok := lookup(decoded, path)
	if !assert.True(t, ok, "[%s] %q missing from response", scenario.Name, path) {
		return
	}
	if want == AnyValue {
		assert.NotEmpty(t, got, "[%s] %q is empty", scenario.Name, path)
		return
	}
	assert.Equal(t, want, got, "[%s] %q mismatch", scenario.Name, path)
}

// AssertMocksAllCalled fails the test if any isMock=true step was never
// triggered.
func AssertMocksAllCalled(t *testing.T, scenario *Scenario, mt *MockTransport) {
	t.Helper()
	for _, err := range mt.AssertAllCalled() {
		assert.NoError(t, err, "[%s]", scenario.Name)
	}
}
