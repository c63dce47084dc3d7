package app_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"teamboard/internal/app"
	"teamboard/internal/docs"
	"teamboard/internal/health"
	"teamboard/internal/logger"
	"teamboard/internal/metrics"
	"teamboard/internal/project"
	"teamboard/internal/user"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type okPinger struct{}

func (okPinger) PingContext(ctx context.Context) error { return nil }

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	staticDir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(staticDir, "assets"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(staticDir, "assets", "defaultProfile.png"), []byte("png"), 0o644))

	log := logger.Discard()
	m := metrics.NewMock()

	return app.NewRouter(app.Routes{
		Health:   health.NewHandler(okPinger{}),
		Projects: project.NewHandler(project.NewService(nil, nil, m, log), log),
		Users:    user.NewHandler(user.NewService(nil, nil, m, log), log),
		Docs:     docs.NewHandler(docs.NewDocument("test", "")),
	}, staticDir, []string{"http://localhost:3000"}, log)
}

func TestRouter(t *testing.T) {
	router := newTestRouter(t)

	get := func(path string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		return w
	}

	t.Run("Health", func(t *testing.T) {
		w := get("/health")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.NotEmpty(t, w.Header().Get("Content-Type"))
	})

	t.Run("OpenAPIDocument", func(t *testing.T) {
		w := get(docs.SpecPath)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"openapi":"3.0.3"`)
	})

	t.Run("StaticAsset", func(t *testing.T) {
		w := get("/assets/defaultProfile.png")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "png", w.Body.String())
	})

	t.Run("InvalidIDNeverReachesStore", func(t *testing.T) {
		w := get("/projects/abc")
		assert.Equal(t, http.StatusBadRequest, w.Code)

		w = get("/users/0")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("UnknownRoute", func(t *testing.T) {
		w := get("/nope")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
