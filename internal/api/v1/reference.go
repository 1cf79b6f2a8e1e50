package api

import (
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/hashicorp-forge/docrepo/internal/server"
)

type NameRequest struct {
	Name string `json:"name"`
}

func (req NameRequest) Validate() error {
	return validation.ValidateStruct(&req,
		validation.Field(&req.Name, validation.Required, validation.Length(1, 100)),
	)
}

// RolesHandler serves role creation and listing.
func RolesHandler(srv server.Server) http.Handler {
	return namedResourceHandler(srv,
		func(r *http.Request, name string) (interface{}, error) {
			return srv.Directory.CreateRole(r.Context(), name)
		},
		func(r *http.Request) (interface{}, error) {
			return srv.Directory.ListRoles(r.Context())
		},
	)
}

// DepartmentsHandler serves department creation and listing.
func DepartmentsHandler(srv server.Server) http.Handler {
	return namedResourceHandler(srv,
		func(r *http.Request, name string) (interface{}, error) {
			return srv.Directory.CreateDepartment(r.Context(), name)
		},
		func(r *http.Request) (interface{}, error) {
			return srv.Directory.ListDepartments(r.Context())
		},
	)
}

// TagsHandler serves tag creation and listing. Attaching tags to documents
// lives under the documents routes.
func TagsHandler(srv server.Server) http.Handler {
	return namedResourceHandler(srv,
		func(r *http.Request, name string) (interface{}, error) {
			return srv.Catalog.CreateTag(r.Context(), name)
		},
		func(r *http.Request) (interface{}, error) {
			return srv.Catalog.ListTags(r.Context())
		},
	)
}

// namedResourceHandler implements the shared create/list shape of roles,
// departments, and tags: flat resources identified by a unique name.
func namedResourceHandler(
	srv server.Server,
	create func(r *http.Request, name string) (interface{}, error),
	list func(r *http.Request) (interface{}, error),
) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logArgs := []interface{}{
			"method", r.Method,
			"path", r.URL.Path,
		}
		if _, ok := actingUser(w, r); !ok {
			return
		}

		switch r.Method {
		case http.MethodPost:
			req := NameRequest{}
			if err := decodeRequest(r, &req); err != nil {
				http.Error(w, "Bad request: invalid JSON", http.StatusBadRequest)
				return
			}
			if err := req.Validate(); err != nil {
				http.Error(w, "Bad request: "+err.Error(), http.StatusBadRequest)
				return
			}
			created, err := create(r, req.Name)
			if err != nil {
				respondError(w, srv.Logger, err, logArgs...)
				return
			}
			respondJSON(w, srv.Logger, http.StatusCreated, created)

		case http.MethodGet:
			items, err := list(r)
			if err != nil {
				respondError(w, srv.Logger, err, logArgs...)
				return
			}
			respondJSON(w, srv.Logger, http.StatusOK, items)

		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	})
}
