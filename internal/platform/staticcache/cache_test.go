package staticcache

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testFetcher struct {
	assets map[string]string // path -> body
	calls  int
}

func (f *testFetcher) GetBytes(ctx context.Context, pathOrURL string) ([]byte, string, error) {
	f.calls++
	body, ok := f.assets[pathOrURL]
	if !ok {
		return nil, "", errors.New("not found upstream")
	}
	return []byte(body), "text/plain", nil
}

func TestCache_PutGet(t *testing.T) {
	c := New("v1", nil, nil)

	c.Put("v1", "/app.js", []byte("console.log(1)"), "application/javascript")

	body, contentType, ok := c.Get("/app.js")
	require.True(t, ok)
	assert.Equal(t, "console.log(1)", string(body))
	assert.Equal(t, "application/javascript", contentType)

	_, _, ok = c.Get("/missing.js")
	assert.False(t, ok)
}

func TestCache_Activate_PurgesOldGenerations(t *testing.T) {
	c := New("v1", nil, nil)
	c.Put("v1", "/app.js", []byte("old"), "application/javascript")
	c.Put("v2", "/app.js", []byte("new"), "application/javascript")

	c.Activate("v2")

	require.Equal(t, "v2", c.Version())
	body, _, ok := c.Get("/app.js")
	require.True(t, ok)
	assert.Equal(t, "new", string(body))

	// La generación vieja no vuelve: activar v1 de nuevo arranca vacía.
	c.Activate("v1")
	_, _, ok = c.Get("/app.js")
	assert.False(t, ok)
}

func TestCache_Precache_PartialFailure(t *testing.T) {
	fetcher := &testFetcher{assets: map[string]string{"/a.css": "body{}"}}
	c := New("v1", fetcher, nil)

	n := c.Precache(context.Background(), []string{"/a.css", "/broken.js"})

	assert.Equal(t, 1, n)
	_, _, ok := c.Get("/a.css")
	assert.True(t, ok)
	_, _, ok = c.Get("/broken.js")
	assert.False(t, ok)
}

func TestCache_Handler_CacheFirst(t *testing.T) {
	fetcher := &testFetcher{assets: map[string]string{"/logo.svg": "<svg/>"}}
	c := New("v1", fetcher, nil)
	h := c.Handler()

	// Primer request: miss, va al origin y cachea.
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/logo.svg", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "<svg/>", rec.Body.String())
	assert.Equal(t, 1, fetcher.calls)

	// Segundo request: hit, no toca el origin.
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/logo.svg", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "<svg/>", rec.Body.String())
	assert.Equal(t, 1, fetcher.calls)
}

func TestCache_Handler_OriginFailure(t *testing.T) {
	c := New("v1", &testFetcher{assets: map[string]string{}}, nil)

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ghost.js", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCache_Handler_NoFetcher(t *testing.T) {
	c := New("v1", nil, nil)
	c.Put("v1", "/app.js", []byte("x"), "application/javascript")

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/app.js", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/other.js", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
