package httputil_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"teamboard/internal/httputil"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRespond(t *testing.T) {
	t.Run("Error", func(t *testing.T) {
		w := httptest.NewRecorder()
		httputil.RespondWithError(w, http.StatusConflict, "taken")

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
		assert.JSONEq(t, `{"error":"taken"}`, w.Body.String())
	})

	t.Run("Message", func(t *testing.T) {
		w := httptest.NewRecorder()
		httputil.RespondWithMessage(w, http.StatusOK, "done")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"message":"done"}`, w.Body.String())
	})
}

func TestParseID(t *testing.T) {
	router := chi.NewRouter()
	var got int
	var ok bool
	router.Get("/things/{id}", func(w http.ResponseWriter, r *http.Request) {
		got, ok = httputil.ParseID(r, "id")
	})

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/things/42", nil))
	assert.True(t, ok)
	assert.Equal(t, 42, got)

	for _, raw := range []string{"abc", "0", "-1"} {
		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/things/"+raw, nil))
		assert.False(t, ok, "raw=%q", raw)
	}
}

func TestDecodeJSON(t *testing.T) {
	type body struct {
		Name string `json:"name"`
	}

	t.Run("EmptyBodyIsEmptyObject", func(t *testing.T) {
		var b body
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(""))
		require.NoError(t, httputil.DecodeJSON(req, &b))
		assert.Empty(t, b.Name)
	})

	t.Run("Malformed", func(t *testing.T) {
		var b body
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("invalid json"))
		assert.Error(t, httputil.DecodeJSON(req, &b))
	})

	t.Run("Valid", func(t *testing.T) {
		var b body
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"Alpha"}`))
		require.NoError(t, httputil.DecodeJSON(req, &b))
		assert.Equal(t, "Alpha", b.Name)
	})
}

func TestOptionalFields(t *testing.T) {
	t.Run("Bool", func(t *testing.T) {
		assert.Nil(t, httputil.OptionalBool(nil))
		assert.Nil(t, httputil.OptionalBool(json.RawMessage(`null`)))
		assert.Nil(t, httputil.OptionalBool(json.RawMessage(`"true"`)))
		assert.Nil(t, httputil.OptionalBool(json.RawMessage(`1`)))

		v := httputil.OptionalBool(json.RawMessage(`false`))
		require.NotNil(t, v)
		assert.False(t, *v)
	})

	t.Run("String", func(t *testing.T) {
		assert.Nil(t, httputil.OptionalString(nil))
		assert.Nil(t, httputil.OptionalString(json.RawMessage(`null`)))
		assert.Nil(t, httputil.OptionalString(json.RawMessage(`5`)))

		v := httputil.OptionalString(json.RawMessage(`"x"`))
		require.NotNil(t, v)
		assert.Equal(t, "x", *v)
	})

	t.Run("PositiveInt", func(t *testing.T) {
		n, ok := httputil.PositiveInt(json.RawMessage(`3`))
		assert.True(t, ok)
		assert.Equal(t, 3, n)

		for _, raw := range []string{``, `0`, `-2`, `1.5`, `"3"`, `null`, `true`} {
			_, ok := httputil.PositiveInt(json.RawMessage(raw))
			assert.False(t, ok, "raw=%q", raw)
		}
	})
}
