package endpoint

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/atinylittleshell/gsuggest/pkg/suggest"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

var fruitRecords = []Record{
	{"label": "Apple", "color": "red"},
	{"label": "apricot", "color": "orange"},
	{"label": "Banana", "color": "yellow"},
	{"label": 42},
}

func get(t *testing.T, handler http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	handler.ServeHTTP(w, req)
	return w
}

func TestIndexSearch(t *testing.T) {
	tests := []struct {
		name     string
		query    string
		limit    int
		expected []string
	}{
		{"case insensitive prefix", "ap", 0, []string{"Apple", "apricot"}},
		{"trims the query", "  ban ", 0, []string{"Banana"}},
		{"limit", "a", 1, []string{"Apple"}},
		{"no match", "cherry", 0, nil},
		{"empty query matches every string", "", 0, []string{"Apple", "apricot", "Banana"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			matches := NewIndex(fruitRecords, "label").Search(tt.query, tt.limit)
			var labels []string
			for _, m := range matches {
				labels = append(labels, m["label"].(string))
			}
			assert.Equal(t, tt.expected, labels)
		})
	}
}

func TestIndexOrdersByValue(t *testing.T) {
	records := []Record{
		{"label": "banana"},
		{"label": "Apple", "id": 1},
		{"label": "apple", "id": 2},
		{"title": "no label"},
	}
	idx := NewIndex(records, "label")
	assert.Equal(t, 4, idx.Len())

	matches := idx.Search("", 0)
	require.Len(t, matches, 3)
	assert.Equal(t, 1, matches[0]["id"], "equal keys keep their file order")
	assert.Equal(t, 2, matches[1]["id"])
	assert.Equal(t, "banana", matches[2]["label"])

	assert.Empty(t, idx.Search("cherry", 0))
}

func TestReplace(t *testing.T) {
	s := NewServer(fruitRecords, Options{Field: "label"}, nil)
	handler := s.GenerateRoutes()

	s.Replace([]Record{{"label": "Cherry"}})

	w := get(t, handler, "/search?q=ap")
	assert.JSONEq(t, `[]`, w.Body.String())

	w = get(t, handler, "/search?q=ch")
	assert.JSONEq(t, `[{"label":"Cherry"}]`, w.Body.String())
}

func TestWatchReloadsCandidates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fruits.json")
	require.NoError(t, os.WriteFile(path, []byte(`["Apple"]`), 0644))

	records, err := LoadRecords(path, "label")
	require.NoError(t, err)
	s := NewServer(records, Options{Field: "label"}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Watch(ctx, path) }()

	// keep rewriting until the watcher is registered and picks it up
	require.Eventually(t, func() bool {
		_ = os.WriteFile(path, []byte(`["Apple", "Cherry"]`), 0644)
		return len(s.currentIndex().Search("ch", 0)) == 1
	}, 5*time.Second, 50*time.Millisecond)

	// a broken file keeps the previous records
	require.NoError(t, os.WriteFile(path, []byte(`not json`), 0644))
	time.Sleep(100 * time.Millisecond)
	assert.Len(t, s.currentIndex().Search("", 0), 2)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop")
	}
}

func TestSearchHandlerArray(t *testing.T) {
	s := NewServer(fruitRecords, Options{Field: "label", Limit: 10}, nil)
	handler := s.GenerateRoutes()

	w := get(t, handler, "/search?q=ap")
	require.Equal(t, http.StatusOK, w.Code)

	var body []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body, 2)
	assert.Equal(t, "Apple", body[0]["label"])
	assert.Equal(t, "orange", body[1]["color"])

	w = get(t, handler, "/search/ban")
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body, 1)

	w = get(t, handler, "/search?q=zzz")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())
}

func TestSearchHandlerKeyed(t *testing.T) {
	s := NewServer(fruitRecords, Options{Field: "label", ArrayName: "Search"}, nil)

	w := get(t, s.GenerateRoutes(), "/search?q=ban")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"Search":[{"label":"Banana","color":"yellow"}]}`, w.Body.String())
}

func TestRootAndMethods(t *testing.T) {
	handler := NewServer(nil, Options{Field: "label"}, nil).GenerateRoutes()

	w := get(t, handler, "/")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "gsuggest is running", w.Body.String())

	w = httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/search", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestFetcherAgainstEndpoint(t *testing.T) {
	s := NewServer(fruitRecords, Options{Field: "label", ArrayName: "items"}, nil)
	ts := httptest.NewServer(s.GenerateRoutes())
	defer ts.Close()

	fetcher := suggest.NewHTTPFetcher(ts.URL + "/search?q=")
	payload, err := fetcher.Fetch(context.Background(), "apr")
	require.NoError(t, err)

	candidates, err := suggest.DecodeCandidates(payload, "items")
	require.NoError(t, err)
	require.Len(t, candidates, 1)
	assert.Equal(t, "apricot", candidates[0].Field("label"))
}

func TestServeStopsOnCancel(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	s := NewServer(fruitRecords, Options{Field: "label"}, nil)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx, ln) }()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + ln.Addr().String() + "/")
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestLoadRecords(t *testing.T) {
	dir := t.TempDir()

	jsonPath := filepath.Join(dir, "fruits.json")
	require.NoError(t, os.WriteFile(jsonPath, []byte(`["Apple", {"label": "Banana", "color": "yellow"}]`), 0644))

	records, err := LoadRecords(jsonPath, "label")
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, Record{"label": "Apple"}, records[0])
	assert.Equal(t, "yellow", records[1]["color"])

	yamlPath := filepath.Join(dir, "fruits.yaml")
	require.NoError(t, os.WriteFile(yamlPath, []byte("- Cherry\n- title: Date\n  year: 1999\n"), 0644))

	records, err = LoadRecords(yamlPath, "title")
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "Cherry", records[0]["title"])
	assert.Equal(t, "Date", records[1]["title"])
	assert.Equal(t, 1999, records[1]["year"])
}

func TestLoadRecordsErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadRecords(filepath.Join(dir, "missing.json"), "label")
	assert.Error(t, err)

	txtPath := filepath.Join(dir, "fruits.txt")
	require.NoError(t, os.WriteFile(txtPath, []byte("Apple"), 0644))
	_, err = LoadRecords(txtPath, "label")
	assert.Error(t, err)

	badPath := filepath.Join(dir, "numbers.json")
	require.NoError(t, os.WriteFile(badPath, []byte(`[1, 2]`), 0644))
	_, err = LoadRecords(badPath, "label")
	assert.Error(t, err)

	objectPath := filepath.Join(dir, "object.json")
	require.NoError(t, os.WriteFile(objectPath, []byte(`{"label": "Apple"}`), 0644))
	_, err = LoadRecords(objectPath, "label")
	assert.Error(t, err)
}
