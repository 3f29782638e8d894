package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/pixelsinav/pixelsinav/internal/i18n"
)

const maxBody = 1 << 20

type envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// ok writes a success envelope; key is a catalog key or "".
func ok(w http.ResponseWriter, r *http.Request, status int, key string, data any) {
	env := envelope{Success: true, Data: data}
	if key != "" {
		env.Message = i18n.FromContext(r.Context()).Sprintf(key)
	}
	respondJSON(w, status, env)
}

// fail writes a localized failure envelope.
func fail(w http.ResponseWriter, r *http.Request, status int, key string, args ...any) {
	respondJSON(w, status, envelope{Message: i18n.FromContext(r.Context()).Sprintf(key, args...)})
}

// failRaw writes a failure whose message is not in the catalog.
func failRaw(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, envelope{Message: msg})
}

// readJSON decodes a bounded request body into v.
func readJSON(w http.ResponseWriter, r *http.Request, v any) error {
	b, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBody))
	if err != nil {
		return err
	}
	if len(b) == 0 {
		return errors.New("empty body")
	}
	return json.Unmarshal(b, v)
}
