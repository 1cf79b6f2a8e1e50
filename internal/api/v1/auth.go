package api

import (
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"github.com/hashicorp-forge/docrepo/internal/auth"
	"github.com/hashicorp-forge/docrepo/internal/directory"
	"github.com/hashicorp-forge/docrepo/internal/server"
)

type RegisterRequest struct {
	Email        string `json:"email"`
	FullName     string `json:"fullName"`
	Password     string `json:"password"`
	DepartmentID uint   `json:"departmentId"`
	RoleID       uint   `json:"roleId"`
}

func (req RegisterRequest) Validate() error {
	return validation.ValidateStruct(&req,
		validation.Field(&req.Email, validation.Required, is.Email),
		validation.Field(&req.FullName, validation.Required),
		validation.Field(&req.Password, validation.Required, validation.Length(8, 0)),
		validation.Field(&req.DepartmentID, validation.Required),
		validation.Field(&req.RoleID, validation.Required),
	)
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (req LoginRequest) Validate() error {
	return validation.ValidateStruct(&req,
		validation.Field(&req.Email, validation.Required, is.Email),
		validation.Field(&req.Password, validation.Required),
	)
}

type TokenResponse struct {
	AccessToken string `json:"accessToken"`
	TokenType   string `json:"tokenType"`
}

// AuthHandler serves registration and login.
func AuthHandler(srv server.Server) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logArgs := []interface{}{
			"method", r.Method,
			"path", r.URL.Path,
		}
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}

		switch {
		case r.URL.Path == "/api/v1/auth/register":
			req := RegisterRequest{}
			if err := decodeRequest(r, &req); err != nil {
				http.Error(w, "Bad request: invalid JSON", http.StatusBadRequest)
				return
			}
			if err := req.Validate(); err != nil {
				http.Error(w, "Bad request: "+err.Error(), http.StatusBadRequest)
				return
			}

			hashed, err := auth.HashPassword(req.Password)
			if err != nil {
				respondError(w, srv.Logger, err, logArgs...)
				return
			}
			user, err := srv.Directory.CreateUser(r.Context(), directory.CreateUserInput{
				Email:          req.Email,
				FullName:       req.FullName,
				HashedPassword: hashed,
				DepartmentID:   req.DepartmentID,
				RoleID:         req.RoleID,
			})
			if err != nil {
				respondError(w, srv.Logger, err, logArgs...)
				return
			}

			token, err := srv.Tokens.Issue(user)
			if err != nil {
				respondError(w, srv.Logger, err, logArgs...)
				return
			}
			srv.Logger.Info("user registered", "user_id", user.ID)
			respondJSON(w, srv.Logger, http.StatusCreated, TokenResponse{
				AccessToken: token,
				TokenType:   "bearer",
			})

		case r.URL.Path == "/api/v1/auth/login":
			req := LoginRequest{}
			if err := decodeRequest(r, &req); err != nil {
				http.Error(w, "Bad request: invalid JSON", http.StatusBadRequest)
				return
			}
			if err := req.Validate(); err != nil {
				http.Error(w, "Bad request: "+err.Error(), http.StatusBadRequest)
				return
			}

			user, err := srv.Directory.GetUserByEmail(r.Context(), req.Email)
			if err != nil || !auth.VerifyPassword(req.Password, user.HashedPassword) {
				// Uniform response whether the account exists or the
				// password is wrong.
				http.Error(w, "Invalid email or password", http.StatusUnauthorized)
				return
			}

			token, err := srv.Tokens.Issue(user)
			if err != nil {
				respondError(w, srv.Logger, err, logArgs...)
				return
			}
			respondJSON(w, srv.Logger, http.StatusOK, TokenResponse{
				AccessToken: token,
				TokenType:   "bearer",
			})

		default:
			http.Error(w, "Not found", http.StatusNotFound)
		}
	})
}
