// Package api implements the v1 HTTP API. Handlers decode and validate the
// request, resolve the acting user from the request context, call core
// services with the user as an explicit argument, and map error kinds to
// transport status codes.
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/hashicorp/go-hclog"

	"github.com/hashicorp-forge/docrepo/internal/apierr"
	"github.com/hashicorp-forge/docrepo/internal/auth"
	"github.com/hashicorp-forge/docrepo/pkg/models"
)

// maxUploadBytes caps document content uploads.
const maxUploadBytes = 32 << 20 // 32 MiB

// decodeRequest decodes a JSON request body.
func decodeRequest(r *http.Request, v interface{}) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("error decoding request body: %w", err)
	}
	return nil
}

// respondJSON writes v as a JSON response.
func respondJSON(w http.ResponseWriter, log hclog.Logger, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("error encoding response", "error", err)
	}
}

// respondError maps core error kinds to transport status codes. Anything
// unrecognized is a 500 with the detail kept out of the response body.
func respondError(w http.ResponseWriter, log hclog.Logger, err error, logArgs ...interface{}) {
	switch {
	case errors.Is(err, apierr.ErrNotFound):
		http.Error(w, "Not found", http.StatusNotFound)
	case errors.Is(err, apierr.ErrForbidden):
		http.Error(w, "Forbidden", http.StatusForbidden)
	case errors.Is(err, apierr.ErrConflict):
		http.Error(w, "Conflict", http.StatusConflict)
	case errors.Is(err, apierr.ErrInvalidState):
		http.Error(w, fmt.Sprintf("Unprocessable: %v", err),
			http.StatusUnprocessableEntity)
	default:
		log.Error("internal error handling request",
			append([]interface{}{"error", err}, logArgs...)...)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

// actingUser returns the user the auth middleware resolved for this
// request.
func actingUser(w http.ResponseWriter, r *http.Request) (*models.User, bool) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		http.Error(w, "No authorization information in request",
			http.StatusUnauthorized)
		return nil, false
	}
	return user, true
}

// resourcePath strips a route prefix and returns the remaining non-empty
// path segments.
func resourcePath(r *http.Request, prefix string) []string {
	rest := strings.TrimPrefix(r.URL.Path, prefix)
	rest = strings.Trim(rest, "/")
	if rest == "" {
		return nil
	}
	return strings.Split(rest, "/")
}
