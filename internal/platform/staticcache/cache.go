package staticcache

import (
	"context"
	"net/http"
	"path"
	"strings"
	"sync"

	"vetcare-api/internal/platform/logger"
	"vetcare-api/internal/platform/metrics"
)

// Fetcher trae un recurso del origin. Lo implementa platform/httpclient.
type Fetcher interface {
	GetBytes(ctx context.Context, pathOrURL string) ([]byte, string, error)
}

type asset struct {
	body        []byte
	contentType string
}

// Cache es un cache de recursos estáticos con generaciones versionadas.
// Cada versión tiene su propio mapa de assets; Activate cambia la generación
// activa y purga las anteriores. La lectura es cache-first: si el asset no
// está en la generación activa se intenta el origin y se guarda el resultado.
type Cache struct {
	mu          sync.RWMutex
	active      string
	generations map[string]map[string]asset

	fetcher Fetcher
	log     *logger.Logger
}

func New(version string, fetcher Fetcher, log *logger.Logger) *Cache {
	version = strings.TrimSpace(version)
	if version == "" {
		version = "v1"
	}
	return &Cache{
		active:      version,
		generations: map[string]map[string]asset{version: {}},
		fetcher:     fetcher,
		log:         log,
	}
}

// Version devuelve la generación activa.
func (c *Cache) Version() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.active
}

// Put guarda un asset en la generación indicada (se crea si no existe).
func (c *Cache) Put(version, assetPath string, body []byte, contentType string) {
	assetPath = normalizePath(assetPath)
	if assetPath == "" {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	gen, ok := c.generations[version]
	if !ok {
		gen = map[string]asset{}
		c.generations[version] = gen
	}
	gen[assetPath] = asset{body: body, contentType: contentType}
}

// Get busca un asset en la generación activa.
func (c *Cache) Get(assetPath string) ([]byte, string, bool) {
	assetPath = normalizePath(assetPath)

	c.mu.RLock()
	defer c.mu.RUnlock()
	a, ok := c.generations[c.active][assetPath]
	if !ok {
		return nil, "", false
	}
	return a.body, a.contentType, true
}

// Activate cambia la generación activa y purga todas las demás. Si la
// versión nueva no existe todavía, arranca vacía.
func (c *Cache) Activate(version string) {
	version = strings.TrimSpace(version)
	if version == "" {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	gen, ok := c.generations[version]
	if !ok {
		gen = map[string]asset{}
	}
	c.active = version
	c.generations = map[string]map[string]asset{version: gen}
}

// Precache baja los paths dados del origin a la generación activa.
// Falla por asset, no en bloque: los errores se loguean y se sigue.
// Devuelve cuántos assets quedaron cacheados.
func (c *Cache) Precache(ctx context.Context, paths []string) int {
	if c.fetcher == nil {
		return 0
	}

	cached := 0
	for _, p := range paths {
		p = normalizePath(p)
		if p == "" {
			continue
		}
		body, contentType, err := c.fetcher.GetBytes(ctx, p)
		if err != nil {
			c.log.Warn("precache asset failed", map[string]any{"path": p, "error": err.Error()})
			continue
		}
		c.Put(c.Version(), p, body, contentType)
		cached++
	}
	return cached
}

// Handler sirve assets cache-first bajo el prefijo montado. En miss intenta
// el origin y guarda el resultado para el próximo request.
func (c *Cache) Handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		assetPath := normalizePath(r.URL.Path)

		if body, contentType, ok := c.Get(assetPath); ok {
			metrics.AssetCacheHits.WithLabelValues("hit").Inc()
			serveAsset(w, body, contentType)
			return
		}

		if c.fetcher == nil {
			metrics.AssetCacheHits.WithLabelValues("miss").Inc()
			http.NotFound(w, r)
			return
		}

		body, contentType, err := c.fetcher.GetBytes(r.Context(), assetPath)
		if err != nil {
			metrics.AssetCacheHits.WithLabelValues("error").Inc()
			c.log.Warn("asset fetch failed", map[string]any{"path": assetPath, "error": err.Error()})
			http.NotFound(w, r)
			return
		}

		metrics.AssetCacheHits.WithLabelValues("miss").Inc()
		c.Put(c.Version(), assetPath, body, contentType)
		serveAsset(w, body, contentType)
	}
}

func serveAsset(w http.ResponseWriter, body []byte, contentType string) {
	if contentType != "" {
		w.Header().Set("Content-Type", contentType)
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

func normalizePath(p string) string {
	p = strings.TrimSpace(p)
	if p == "" {
		return ""
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	// path.Clean corta los ".." antes de tocar el origin.
	return path.Clean(p)
}
