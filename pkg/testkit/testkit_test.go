package testkit_test

import (
	"encoding/json"
	"io"
	"net/http"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jantrick/jantrick/pkg/testkit"
)

// itemServer is a tiny API that stores items and forwards /charge upstream.
func itemServer(upstream *http.Client) http.Handler {
	var (
		mu    sync.Mutex
		items = map[string]string{}
	)
	mux := http.NewServeMux()
	mux.HandleFunc("POST /items", func(w http.ResponseWriter, r *http.Request) {
		var body struct{ Name string }
		_ = json.NewDecoder(r.Body).Decode(&body)
		mu.Lock()
		id := "item-1"
		items[id] = body.Name
		mu.Unlock()
		_ = json.NewEncoder(w).Encode(map[string]any{"acknowledged": true, "insertedId": id})
	})
	mux.HandleFunc("GET /items/{id}", func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		name := items[r.PathValue("id")]
		mu.Unlock()
		_ = json.NewEncoder(w).Encode(map[string]any{"_id": r.PathValue("id"), "name": name})
	})
	mux.HandleFunc("POST /charge", func(w http.ResponseWriter, r *http.Request) {
		resp, err := upstream.Post("https://upstream.test/charge", "application/json", nil)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadGateway)
			return
		}
		defer resp.Body.Close()
		_, _ = io.Copy(w, resp.Body)
	})
	return mux
}

func TestRunnerFlow(t *testing.T) {
	out := testkit.NewOutbound()
	r := testkit.NewRunner(itemServer(out.Client()), out)

	r.RunFile(t, filepath.Join("testdata", "echo_flow.json"))
	assert.Equal(t, "item-1", r.Var("itemId"))
}

func TestLoadFile(t *testing.T) {
	scenarios, err := testkit.LoadFile(filepath.Join("testdata", "echo_flow.json"))
	require.NoError(t, err)
	require.Len(t, scenarios, 3)

	assert.Equal(t, "GET", scenarios[1].RequestMethod)
	assert.True(t, scenarios[2].IsMockRequired)
	assert.Equal(t, "https://upstream.test/charge", scenarios[2].NetUtilMockStep[0].MatchURL)
}

func TestLoadFileRejectsIncompleteScenario(t *testing.T) {
	_, err := testkit.LoadFile(filepath.Join("testdata", "create_item_req.json"))
	assert.Error(t, err)
}

func TestMockTransport(t *testing.T) {
	s := &testkit.Scenario{
		IsMockRequired: true,
		NetUtilMockStep: []testkit.MockStep{{
			Method:     "httprequest",
			IsMock:     true,
			MatchURL:   "https://upstream.test/",
			ReturnData: testkit.MockReturnData{StatusCode: http.StatusCreated, Body: json.RawMessage(`{"ok":true}`)},
		}},
	}
	mt := testkit.NewMockTransport(s)
	assert.Len(t, mt.AssertAllCalled(), 1)

	client := &http.Client{Transport: mt}
	resp, err := client.Get("https://upstream.test/anything")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Empty(t, mt.AssertAllCalled())

	_, err = client.Get("https://elsewhere.test/")
	assert.Error(t, err)
}

func TestOutboundOutsideScenario(t *testing.T) {
	_, err := testkit.NewOutbound().Client().Get("https://upstream.test/")
	assert.Error(t, err)
}
