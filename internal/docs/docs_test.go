package docs_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"teamboard/internal/docs"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDocument(t *testing.T) {
	doc := docs.NewDocument("1.2.3", "http://localhost:3000")

	assert.Equal(t, "1.2.3", doc.Info.Version)
	require.Len(t, doc.Servers, 1)

	for _, name := range []string{
		"BaseProject", "ProjectWithoutRelationship", "ProjectWithRelationship",
		"BaseUser", "UserWithoutRelationship", "UserWithRelationship",
		"ProjectAssignment", "Message", "Error",
	} {
		assert.Contains(t, doc.Components.Schemas, name)
	}

	projects := doc.Paths.Value("/projects")
	require.NotNil(t, projects)
	assert.NotNil(t, projects.Get)
	assert.NotNil(t, projects.Post)

	byID := doc.Paths.Value("/projects/{id}")
	require.NotNil(t, byID)
	assert.NotNil(t, byID.Get)
	assert.NotNil(t, byID.Post)
	assert.NotNil(t, byID.Delete)

	assert.NotNil(t, doc.Paths.Value("/projects/assign/{id}").Post)
	assert.NotNil(t, doc.Paths.Value("/projects/unassign/{id}").Post)
	assert.NotNil(t, doc.Paths.Value("/users/{id}").Patch)
	assert.Equal(t, []string{"users"}, doc.Paths.Value("/users").Get.Tags)
}

func TestSpecEndpoint(t *testing.T) {
	router := chi.NewRouter()
	docs.NewHandler(docs.NewDocument("test", "")).RegisterRoutes(router)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, docs.SpecPath, nil))
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	assert.Equal(t, "3.0.3", body["openapi"])
	assert.Contains(t, body["paths"], "/projects/assign/{id}")
	assert.NotContains(t, body, "servers")
}

func TestSwaggerUIRedirect(t *testing.T) {
	router := chi.NewRouter()
	docs.NewHandler(docs.NewDocument("test", "")).RegisterRoutes(router)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/swagger-ui", nil))
	assert.Equal(t, http.StatusMovedPermanently, w.Code)
	assert.Equal(t, "/swagger-ui/index.html", w.Header().Get("Location"))
}
