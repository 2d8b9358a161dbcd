package testkit

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
)

// MockTransport answers outgoing requests from a scenario's mock steps.
type MockTransport struct {
	mu      sync.Mutex
	steps   []httpMockEntry
	require bool
}

type httpMockEntry struct {
	step      MockStep
	callCount int
}

func NewMockTransport(s *Scenario) *MockTransport {
	mt := &MockTransport{require: s.IsMockRequired}
	for _, step := range s.NetUtilMockStep {
		if step.IsMock {
			mt.steps = append(mt.steps, httpMockEntry{step: step})
		}
	}
	return mt
}

func (mt *MockTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	mt.mu.Lock()
	defer mt.mu.Unlock()

	for i := range mt.steps {
		entry := &mt.steps[i]
		if !urlMatches(req.URL.String(), entry.step.MatchURL) {
			continue
		}
		entry.callCount++
		return buildHTTPResponse(req, entry.step.ReturnData), nil
	}

	if mt.require {
		return nil, fmt.Errorf("testkit: unexpected outgoing HTTP call to %s: no matching mock step", req.URL)
	}
	return &http.Response{
		StatusCode: http.StatusNotFound,
		Status:     "404 Not Found",
		Body:       io.NopCloser(strings.NewReader(`{"error":{"message":"no mock configured"}}`)),
		Header:     http.Header{"Content-Type": []string{"application/json"}},
		Request:    req,
	}, nil
}

// AssertAllCalled returns one error per mock step that was never used.
func (mt *MockTransport) AssertAllCalled() []error {
	mt.mu.Lock()
	defer mt.mu.Unlock()

	var errs []error
	for _, e := range mt.steps {
		if e.callCount == 0 {
			errs = append(errs, fmt.Errorf("testkit: mock step (matchUrl=%q) was never called", e.step.MatchURL))
		}
	}
	return errs
}

// Outbound is a RoundTripper installed once in the client under test; the
// runner points it at each scenario's MockTransport in turn.
type Outbound struct {
	mu      sync.RWMutex
	current http.RoundTripper
}

func NewOutbound() *Outbound {
	return &Outbound{}
}

// Client returns an http.Client that sends through o.
func (o *Outbound) Client() *http.Client {
	return &http.Client{Transport: o}
}

func (o *Outbound) RoundTrip(req *http.Request) (*http.Response, error) {
	o.mu.RLock()
	rt := o.current
	o.mu.RUnlock()
	if rt == nil {
		return nil, fmt.Errorf("testkit: outgoing HTTP call to %s outside a scenario", req.URL)
	}
	return rt.RoundTrip(req)
}

func (o *Outbound) use(rt http.RoundTripper) {
	o.mu.Lock()
	o.current = rt
	o.mu.Unlock()
}

func urlMatches(candidate, pattern string) bool {
	return pattern == "" || strings.HasPrefix(candidate, pattern)
}

func buildHTTPResponse(req *http.Request, rd MockReturnData) *http.Response {
	code := rd.StatusCode
	if code == 0 {
		code = http.StatusOK
	}
	return &http.Response{
		StatusCode: code,
		Status:     fmt.Sprintf("%d %s", code, http.StatusText(code)),
		Header:     http.Header{"Content-Type": []string{"application/json"}},
		Body:       io.NopCloser(bytes.NewReader(rd.Body)),
		Request:    req,
	}
}
