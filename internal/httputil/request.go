package httputil

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

// ParseID reads a positive integer route parameter.
func ParseID(r *http.Request, name string) (int, bool) {
	return ParsePositiveInt(chi.URLParam(r, name))
}

func ParsePositiveInt(raw string) (int, bool) {
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}

// DecodeJSON decodes the request body into dst. An empty body decodes as {}.
func DecodeJSON(r *http.Request, dst interface{}) error {
	if r.Body == nil {
		return nil
	}
	err := json.NewDecoder(r.Body).Decode(dst)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

// OptionalBool returns the value of a JSON boolean field, or nil when the
// field is absent or holds anything other than true or false.
func OptionalBool(raw json.RawMessage) *bool {
	var b bool
	if len(raw) == 0 || string(raw) == "null" || json.Unmarshal(raw, &b) != nil {
		return nil
	}
	return &b
}

// OptionalString returns the value of a JSON string field, or nil when the
// field is absent, null or not a string.
func OptionalString(raw json.RawMessage) *string {
	var s string
	if len(raw) == 0 || string(raw) == "null" || json.Unmarshal(raw, &s) != nil {
		return nil
	}
	return &s
}

// PositiveInt returns the value of a JSON integer field that is at least 1.
func PositiveInt(raw json.RawMessage) (int, bool) {
	var n int
	if len(raw) == 0 || json.Unmarshal(raw, &n) != nil || n < 1 {
		return 0, false
	}
	return n, true
}
