// Package testkit drives REST API tests from JSON scenario files.
//
// A file holds one scenario object or an array of them. An array is a flow:
// its scenarios run in order against the same handler and can hand values
// to each other through capture/{{var}} substitution.
//
//	testdata/
//	  tools_roundtrip.json       <- flow
//	  create_tool_req.json       <- request body
//	  banner.json                <- single scenario
//
// Example _test.go:
//
//	func TestAPI(t *testing.T) {
//	    handler := kernel.NewHTTPKernel(cfg, deps).Handler()
//	    testkit.NewRunner(handler, nil).RunDir(t, "testdata")
//	}
package testkit

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Scenario describes one request and what must come back.
type Scenario struct {
	Name        string `json:"name"`
	Description string `json:"description"`

	RequestMethod   string            `json:"requestMethod"`
	RequestURL      string            `json:"requestUrl"`
	RequestFileName string            `json:"requestFileName"` // relative to the scenario file
	RequestBody     json.RawMessage   `json:"requestBody"`     // inline alternative to requestFileName
	Headers         map[string]string `json:"headers"`

	ExpectedCode     int             `json:"expectedCode"`
	ResponseFileName string          `json:"responseFileName"`
	ResponseBody     json.RawMessage `json:"responseBody"`
	// ResponseContains checks selected dotted paths of a JSON object
	// response. The value "*" only requires the path to be present and
	// non-empty.
	ResponseContains map[string]any `json:"responseContains"`

	// Capture stores response values (by dotted path) as variables for the
	// following scenarios of the same flow.
	Capture map[string]string `json:"capture"`

	IsMockRequired  bool       `json:"isMockRequired"`
	NetUtilMockStep []MockStep `json:"netUtilMockStep"`

	dir string
}

// MockStep describes one intercepted outgoing HTTP call. Method must be
// "httprequest".
type MockStep struct {
	Method string `json:"method"`
	IsMock bool   `json:"isMock"`
	// MatchURL is a prefix; empty matches any outgoing request.
	MatchURL   string         `json:"matchUrl"`
	ReturnData MockReturnData `json:"returnData"`
}

// MockReturnData is the synthetic response for a mock step.
type MockReturnData struct {
	StatusCode int             `json:"statusCode"`
	Body       json.RawMessage `json:"body"`
}

// LoadFile reads a scenario file holding one object or an array.
func LoadFile(path string) ([]*Scenario, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("testkit: resolve path %q: %w", path, err)
	}

	data, err := os.ReadFile(abs)
	if err != nil {
		return nil, fmt.Errorf("testkit: read %q: %w", abs, err)
	}

	var scenarios []*Scenario
	if trimmed := bytes.TrimSpace(data); len(trimmed) > 0 && trimmed[0] == '[' {
		err = json.Unmarshal(trimmed, &scenarios)
	} else {
		var s Scenario
		err = json.Unmarshal(data, &s)
		scenarios = []*Scenario{&s}
	}
	if err != nil {
		return nil, fmt.Errorf("testkit: parse %q: %w", abs, err)
	}

	for i, s := range scenarios {
		if err := s.validate(); err != nil {
			return nil, fmt.Errorf("testkit: invalid scenario %d in %q: %w", i, abs, err)
		}
		s.dir = filepath.Dir(abs)
	}
	return scenarios, nil
}

func (s *Scenario) validate() error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.RequestURL == "" {
		return fmt.Errorf("requestUrl is required")
	}
	if s.ExpectedCode == 0 {
		return fmt.Errorf("expectedCode is required")
	}
	if s.RequestMethod == "" {
		s.RequestMethod = "GET"
	}
	for i, step := range s.NetUtilMockStep {
		if step.Method != "httprequest" {
			return fmt.Errorf("netUtilMockStep[%d].method must be \"httprequest\"", i)
		}
	}
	return nil
}

func (s *Scenario) resolve(name string) string {
	if name == "" || filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(s.dir, name)
}

// requestBody returns the raw body from the file or the inline field.
func (s *Scenario) requestBody() ([]byte, error) {
	if s.RequestFileName != "" {
		return os.ReadFile(s.resolve(s.RequestFileName))
	}
	return s.RequestBody, nil
}

// expectedBody returns the expected body from the file or the inline field.
func (s *Scenario) expectedBody() ([]byte, error) {
	if s.ResponseFileName != "" {
		return os.ReadFile(s.resolve(s.ResponseFileName))
	}
	return s.ResponseBody, nil
}
