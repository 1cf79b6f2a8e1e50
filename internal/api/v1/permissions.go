package api

import (
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/hashicorp-forge/docrepo/internal/server"
)

type UserGrantRequest struct {
	DocumentID string `json:"documentId"`
	UserID     string `json:"userId"`
	Permission string `json:"permission,omitempty"`
}

func (req UserGrantRequest) Validate() error {
	return validation.ValidateStruct(&req,
		validation.Field(&req.DocumentID, validation.Required),
		validation.Field(&req.UserID, validation.Required),
	)
}

type DepartmentGrantRequest struct {
	DocumentID   string `json:"documentId"`
	DepartmentID uint   `json:"departmentId"`
	Permission   string `json:"permission,omitempty"`
}

func (req DepartmentGrantRequest) Validate() error {
	return validation.ValidateStruct(&req,
		validation.Field(&req.DocumentID, validation.Required),
		validation.Field(&req.DepartmentID, validation.Required),
	)
}

// PermissionsHandler serves explicit grant management:
//
//	POST /api/v1/permissions/users        add a user-scoped grant
//	GET  /api/v1/permissions/users        list user-scoped grants
//	POST /api/v1/permissions/departments  add a department-scoped grant
//	GET  /api/v1/permissions/departments  list department-scoped grants
func PermissionsHandler(srv server.Server) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logArgs := []interface{}{
			"method", r.Method,
			"path", r.URL.Path,
		}
		actor, ok := actingUser(w, r)
		if !ok {
			return
		}

		parts := resourcePath(r, "/api/v1/permissions")
		if len(parts) != 1 {
			http.Error(w, "Not found", http.StatusNotFound)
			return
		}

		switch parts[0] {
		case "users":
			switch r.Method {
			case http.MethodPost:
				req := UserGrantRequest{}
				if err := decodeRequest(r, &req); err != nil {
					http.Error(w, "Bad request: invalid JSON", http.StatusBadRequest)
					return
				}
				if err := req.Validate(); err != nil {
					http.Error(w, "Bad request: "+err.Error(), http.StatusBadRequest)
					return
				}
				grant, err := srv.Catalog.AddUserGrant(
					r.Context(), actor, req.DocumentID, req.UserID, req.Permission)
				if err != nil {
					respondError(w, srv.Logger, err, logArgs...)
					return
				}
				respondJSON(w, srv.Logger, http.StatusCreated, grant)

			case http.MethodGet:
				grants, err := srv.Catalog.ListUserGrants(r.Context())
				if err != nil {
					respondError(w, srv.Logger, err, logArgs...)
					return
				}
				respondJSON(w, srv.Logger, http.StatusOK, grants)

			default:
				w.WriteHeader(http.StatusMethodNotAllowed)
			}

		case "departments":
			switch r.Method {
			case http.MethodPost:
				req := DepartmentGrantRequest{}
				if err := decodeRequest(r, &req); err != nil {
					http.Error(w, "Bad request: invalid JSON", http.StatusBadRequest)
					return
				}
				if err := req.Validate(); err != nil {
					http.Error(w, "Bad request: "+err.Error(), http.StatusBadRequest)
					return
				}
				grant, err := srv.Catalog.AddDepartmentGrant(
					r.Context(), actor, req.DocumentID, req.DepartmentID, req.Permission)
				if err != nil {
					respondError(w, srv.Logger, err, logArgs...)
					return
				}
				respondJSON(w, srv.Logger, http.StatusCreated, grant)

			case http.MethodGet:
				grants, err := srv.Catalog.ListDepartmentGrants(r.Context())
				if err != nil {
					respondError(w, srv.Logger, err, logArgs...)
					return
				}
				respondJSON(w, srv.Logger, http.StatusOK, grants)

			default:
				w.WriteHeader(http.StatusMethodNotAllowed)
			}

		default:
			http.Error(w, "Not found", http.StatusNotFound)
		}
	})
}
