package handler

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testFS() fstest.MapFS {
	return fstest.MapFS{
		"layout.html": {Data: []byte(`{{define "base"}}<main>{{template "content" .}}</main>{{end}}`)},
		"index.html":  {Data: []byte(`{{define "content"}}hello {{.Name}} {{coord .Lat}}{{end}}`)},
		"broken.html": {Data: []byte(`{{define "content"}}{{.Missing.Field}}{{end}}`)},
	}
}

func TestRenderer_Render(t *testing.T) {
	r, err := NewRendererFS(testFS())
	require.NoError(t, err)

	var buf bytes.Buffer
	err = r.Render(&buf, "index", map[string]any{"Name": "Ada", "Lat": 52.1})

	require.NoError(t, err)
	assert.Equal(t, "<main>hello Ada 52.100000</main>", buf.String())
}

func TestRenderer_UnknownTemplate(t *testing.T) {
	r, err := NewRendererFS(testFS())
	require.NoError(t, err)

	err = r.Render(&bytes.Buffer{}, "nope", nil)

	assert.Error(t, err)
}

func TestRenderer_RenderHTTP(t *testing.T) {
	r, err := NewRendererFS(testFS())
	require.NoError(t, err)

	t.Run("writes status and content type", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/", nil)

		r.RenderHTTP(rec, req, http.StatusBadRequest, "index", map[string]any{"Name": "Ada", "Lat": 0.0})

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
		assert.Contains(t, rec.Body.String(), "hello Ada")
	})

	t.Run("template failure is a clean 500", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/", nil)

		r.RenderHTTP(rec, req, http.StatusOK, "broken", map[string]any{})

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.NotContains(t, rec.Body.String(), "<main>")
	})
}

func TestNewRendererFS_MissingLayout(t *testing.T) {
	_, err := NewRendererFS(fstest.MapFS{"index.html": {Data: []byte("x")}})

	assert.Error(t, err)
}

func TestPlural(t *testing.T) {
	assert.Equal(t, "0 addresses", plural(0, "address", "addresses"))
	assert.Equal(t, "1 address", plural(1, "address", "addresses"))
	assert.Equal(t, "3 addresses", plural(3, "address", "addresses"))
}
