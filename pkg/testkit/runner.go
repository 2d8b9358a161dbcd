package testkit

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
)

// Runner fires scenarios at a handler. Variables set with Set or captured
// from responses are substituted into "{{name}}" placeholders.
type Runner struct {
	handler  http.Handler
	outbound *Outbound
	vars     map[string]string
}

// NewRunner returns a runner for handler. outbound may be nil when the
// handler makes no outgoing HTTP calls.
func NewRunner(handler http.Handler, outbound *Outbound) *Runner {
	return &Runner{handler: handler, outbound: outbound, vars: map[string]string{}}
}

// Set defines a variable for every following scenario.
func (r *Runner) Set(name, value string) *Runner {
	r.vars[name] = value
	return r
}

// Var returns a variable set directly or captured from a response.
func (r *Runner) Var(name string) string {
	return r.vars[name]
}

// RunFile runs the scenarios of one file in order, each as a subtest.
func (r *Runner) RunFile(t *testing.T, path string) {
	t.Helper()

	scenarios, err := LoadFile(path)
	if err != nil {
		t.Fatalf("%v", err)
	}
	for _, s := range scenarios {
		if !t.Run(s.Name, func(t *testing.T) { r.run(t, s) }) && len(scenarios) > 1 {
			t.Fatalf("testkit: flow %q stopped at %q", filepath.Base(path), s.Name)
		}
	}
}

// RunDir runs every *.json file in dir that holds scenarios. Files named
// *_req.json or *_res.json are request/response bodies and are skipped.
// Variables captured in one file do not leak into the next.
func (r *Runner) RunDir(t *testing.T, dir string) {
	t.Helper()

	entries, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil || len(entries) == 0 {
		t.Fatalf("testkit: no scenario files found in %q", dir)
	}

	base := r.vars
	for _, path := range entries {
		name := filepath.Base(path)
		if strings.HasSuffix(name, "_req.json") || strings.HasSuffix(name, "_res.json") {
			continue
		}
		r.vars = cloneVars(base)
		t.Run(strings.TrimSuffix(name, ".json"), func(t *testing.T) {
			r.RunFile(t, path)
		})
	}
	r.vars = base
}

func (r *Runner) run(t *testing.T, s *Scenario) {
	t.Helper()

	raw, err := s.requestBody()
	if err != nil {
		t.Fatalf("[%s] read request body: %v", s.Name, err)
	}
	var body io.Reader
	if len(raw) > 0 {
		body = bytes.NewReader(r.expand(raw))
	}

	mt := NewMockTransport(s)
	if r.outbound != nil {
		r.outbound.use(mt)
		defer r.outbound.use(nil)
	} else if len(s.NetUtilMockStep) > 0 {
		t.Fatalf("[%s] scenario has mock steps but the runner has no Outbound", s.Name)
	}

	req := httptest.NewRequest(strings.ToUpper(s.RequestMethod), string(r.expand([]byte(s.RequestURL))), body)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	for k, v := range s.Headers {
		req.Header.Set(k, string(r.expand([]byte(v))))
	}

	rec := httptest.NewRecorder()
	r.handler.ServeHTTP(rec, req)

	AssertStatusCode(t, s, rec.Code)

	expected, err := s.expectedBody()
	if err != nil {
		t.Errorf("[%s] read expected body: %v", s.Name, err)
	} else if len(expected) > 0 {
		AssertJSONBody(t, s, r.expand(expected), rec.Body.Bytes())
	}

	if len(s.ResponseContains) > 0 || len(s.Capture) > 0 {
		var decoded any
		if err := json.Unmarshal(rec.Body.Bytes(), &decoded); err != nil {
			t.Fatalf("[%s] response is not JSON: %v\nbody: %s", s.Name, err, rec.Body.String())
		}
		for path, want := range s.ResponseContains {
			if str, ok := want.(string); ok {
				want = string(r.expand([]byte(str)))
			}
			AssertContains(t, s, path, want, decoded)
		}
		r.capture(t, s, decoded)
	}

	AssertMocksAllCalled(t, s, mt)
}

func (r *Runner) capture(t *testing.T, s *Scenario, decoded any) {
	t.Helper()

	for name, path := range s.Capture {
		v, ok := lookup(decoded, path)
		if !ok {
			t.Fatalf("[%s] capture %q: path %q not in response", s.Name, name, path)
		}
		switch val := v.(type) {
		case string:
			r.vars[name] = val
		default:
			b, _ := json.Marshal(val)
			r.vars[name] = string(b)
		}
	}
}

var placeholder = regexp.MustCompile(`\{\{\s*([A-Za-z0-9_]+)\s*\}\}`)

func (r *Runner) expand(b []byte) []byte {
	return placeholder.ReplaceAllFunc(b, func(m []byte) []byte {
		name := string(placeholder.FindSubmatch(m)[1])
		if v, ok := r.vars[name]; ok {
			return []byte(v)
		}
		return m
	})
}

// lookup walks a dotted path ("result.upsertedId", "0.name") through
// decoded JSON.
func lookup(v any, path string) (any, bool) {
	if path == "" || path == "." {
		return v, true
	}
	for _, key := range strings.Split(path, ".") {
		switch node := v.(type) {
		case map[string]any:
			next, ok := node[key]
			if !ok {
				return nil, false
			}
			v = next
		case []any:
			var i int
			if _, err := fmt.Sscanf(key, "%d", &i); err != nil || i < 0 || i >= len(node) {
				return nil, false
			}
			v = node[i]
		default:
			return nil, false
		}
	}
	return v, true
}

func cloneVars(m map[string]string) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
