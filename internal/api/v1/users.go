package api

import (
	"net/http"

	"github.com/hashicorp-forge/docrepo/internal/directory"
	"github.com/hashicorp-forge/docrepo/internal/server"
)

type UserPatchRequest struct {
	FullName     *string `json:"fullName,omitempty"`
	DepartmentID *uint   `json:"departmentId,omitempty"`
	RoleID       *uint   `json:"roleId,omitempty"`
}

// UsersHandler serves user listing, lookup, profile update, and deletion.
func UsersHandler(srv server.Server) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logArgs := []interface{}{
			"method", r.Method,
			"path", r.URL.Path,
		}
		if _, ok := actingUser(w, r); !ok {
			return
		}

		parts := resourcePath(r, "/api/v1/users")
		switch {
		case len(parts) == 0 && r.Method == http.MethodGet:
			users, err := srv.Directory.ListUsers(r.Context())
			if err != nil {
				respondError(w, srv.Logger, err, logArgs...)
				return
			}
			respondJSON(w, srv.Logger, http.StatusOK, users)

		case len(parts) == 1 && r.Method == http.MethodGet:
			user, err := srv.Directory.GetUser(r.Context(), parts[0])
			if err != nil {
				respondError(w, srv.Logger, err, logArgs...)
				return
			}
			respondJSON(w, srv.Logger, http.StatusOK, user)

		case len(parts) == 1 && r.Method == http.MethodPatch:
			req := UserPatchRequest{}
			if err := decodeRequest(r, &req); err != nil {
				http.Error(w, "Bad request: invalid JSON", http.StatusBadRequest)
				return
			}
			user, err := srv.Directory.UpdateUser(r.Context(), parts[0], directory.UserUpdate{
				FullName:     req.FullName,
				DepartmentID: req.DepartmentID,
				RoleID:       req.RoleID,
			})
			if err != nil {
				respondError(w, srv.Logger, err, logArgs...)
				return
			}
			respondJSON(w, srv.Logger, http.StatusOK, user)

		case len(parts) == 1 && r.Method == http.MethodDelete:
			if err := srv.Directory.DeleteUser(r.Context(), parts[0]); err != nil {
				respondError(w, srv.Logger, err, logArgs...)
				return
			}
			w.WriteHeader(http.StatusNoContent)

		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	})
}
