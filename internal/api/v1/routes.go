package api

import (
	"net/http"

	"github.com/hashicorp-forge/docrepo/internal/auth"
	"github.com/hashicorp-forge/docrepo/internal/server"
)

// RegisterRoutes mounts the v1 API on mux. Everything except the auth
// endpoints sits behind the bearer-token middleware, which resolves the
// acting user once per request.
func RegisterRoutes(mux *http.ServeMux, srv server.Server) {
	requireUser := auth.RequireUser(srv.Tokens, srv.DB, srv.Logger)

	mux.Handle("/api/v1/auth/", AuthHandler(srv))

	for prefix, handler := range map[string]http.Handler{
		"/api/v1/documents":   DocumentsHandler(srv),
		"/api/v1/users":       UsersHandler(srv),
		"/api/v1/roles":       RolesHandler(srv),
		"/api/v1/departments": DepartmentsHandler(srv),
		"/api/v1/tags":        TagsHandler(srv),
		"/api/v1/permissions": PermissionsHandler(srv),
	} {
		wrapped := requireUser(handler)
		mux.Handle(prefix, wrapped)
		mux.Handle(prefix+"/", wrapped)
	}
}
