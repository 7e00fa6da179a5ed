package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnana997/wpexport/pkg/builder"
	"github.com/gnana997/wpexport/pkg/export"
	"github.com/gnana997/wpexport/pkg/util"
)

const cardPage = `{"title":"Card","root":{"tagName":"div","children":[` +
	`{"tagName":"h3","textContent":"Title"},` +
	`{"tagName":"p","textContent":"Body"},` +
	`{"tagName":"a","textContent":"Click","attributes":{"href":"/x"}}]}}`

func newTestServer(t *testing.T, cfg Config) *Server {
	t.Helper()
	gin.SetMode(gin.TestMode)
	opts := builder.DefaultOptions()
	opts.Logger = util.DiscardLogger()
	svc, err := export.NewService(export.ServiceConfig{Options: opts, CacheSize: 8})
	require.NoError(t, err)
	cfg.Logger = util.DiscardLogger()
	return New(svc, cfg)
}

func do(t *testing.T, s *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, Config{})
	w := do(t, s, http.MethodGet, "/healthz", "")
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Status string              `json:"status"`
		Cache  export.ServiceStats `json:"cache"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "ok", body.Status)
	assert.Zero(t, body.Cache.Runs)
}

func TestTargets(t *testing.T) {
	s := newTestServer(t, Config{})
	w := do(t, s, http.MethodGet, "/api/targets", "")
	require.Equal(t, http.StatusOK, w.Code)

	var got []TargetInfo
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	require.Len(t, got, len(builder.Targets()))
	for i, info := range got {
		assert.Equal(t, builder.Targets()[i], info.Target)
		assert.NotEmpty(t, info.Label)
		assert.Equal(t, builder.FormatJSON, info.Formats[0])
	}
}

func TestExport_Envelope(t *testing.T) {
	s := newTestServer(t, Config{})
	w := do(t, s, http.MethodPost, "/api/export/elementor", cardPage)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.NotEmpty(t, w.Header().Get("X-Export-Run"))

	var body struct {
		Target   string          `json:"target"`
		Format   string          `json:"format"`
		Nodes    int             `json:"nodes"`
		Complete bool            `json:"complete"`
		Output   json.RawMessage `json:"output"`
		Report   json.RawMessage `json:"report"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "elementor", body.Target)
	assert.Equal(t, "json", body.Format)
	assert.Equal(t, 4, body.Nodes)
	assert.True(t, body.Complete)
	assert.True(t, json.Valid(body.Output))
	assert.Contains(t, string(body.Output), "/x")
	assert.NotEmpty(t, body.Report)
}

func TestExport_RawShortcode(t *testing.T) {
	s := newTestServer(t, Config{})
	w := do(t, s, http.MethodPost, "/api/export/oxygen?format=shortcode&raw=true", cardPage)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Header().Get("Content-Type"), "text/plain")
	assert.Contains(t, w.Body.String(), "[ct_")
}

func TestExport_GutenbergHTMLIsString(t *testing.T) {
	s := newTestServer(t, Config{})
	w := do(t, s, http.MethodPost, "/api/export/blocks?format=html", cardPage)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var body struct {
		Target string `json:"target"`
		Output string `json:"output"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "gutenberg", body.Target)
	assert.Contains(t, body.Output, "<!-- wp:group")
}

func TestExport_Errors(t *testing.T) {
	s := newTestServer(t, Config{})
	tests := []struct {
		name string
		path string
		body string
		want int
	}{
		{"unknown target", "/api/export/divi", cardPage, http.StatusNotFound},
		{"unknown format", "/api/export/elementor?format=pdf", cardPage, http.StatusBadRequest},
		{"unsupported format", "/api/export/beaver-builder?format=shortcode", cardPage, http.StatusBadRequest},
		{"empty body", "/api/export/elementor", "", http.StatusBadRequest},
		{"malformed body", "/api/export/elementor", `{"root":`, http.StatusBadRequest},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := do(t, s, http.MethodPost, tc.path, tc.body)
			assert.Equal(t, tc.want, w.Code, w.Body.String())

			var body errorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.NotEmpty(t, body.Error)
		})
	}
}

func TestExport_BodyLimit(t *testing.T) {
	s := newTestServer(t, Config{MaxBodyBytes: 32})
	w := do(t, s, http.MethodPost, "/api/export/elementor", cardPage)
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}

func TestExport_SecondCallIsCached(t *testing.T) {
	s := newTestServer(t, Config{})
	require.Equal(t, http.StatusOK, do(t, s, http.MethodPost, "/api/export/gutenberg", cardPage).Code)
	w := do(t, s, http.MethodPost, "/api/export/gutenberg", cardPage)
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Cached bool `json:"cached"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.True(t, body.Cached)
	assert.Equal(t, int64(1), s.svc.Stats().CacheHits)
}

func TestValidate(t *testing.T) {
	s := newTestServer(t, Config{})
	w := do(t, s, http.MethodPost, "/api/validate/bb", cardPage)

	var body struct {
		Target string `json:"target"`
		Report struct {
			Valid bool `json:"valid"`
		} `json:"report"`
		Complete bool `json:"complete"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "beaver-builder", body.Target)
	assert.True(t, body.Complete)
	if body.Report.Valid {
		assert.Equal(t, http.StatusOK, w.Code)
	} else {
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	}
}

func TestCORS(t *testing.T) {
	s := newTestServer(t, Config{CORSOrigins: []string{"https://studio.example.com"}})

	req := httptest.NewRequest(http.MethodOptions, "/api/export/elementor", bytes.NewReader(nil))
	req.Header.Set("Origin", "https://studio.example.com")
	req.Header.Set("Access-Control-Request-Method", "POST")
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)

	assert.Equal(t, "https://studio.example.com", w.Header().Get("Access-Control-Allow-Origin"))
}
