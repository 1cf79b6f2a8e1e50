package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hashicorp-forge/docrepo/internal/testutil"
	"github.com/hashicorp-forge/docrepo/pkg/models"
)

func TestPasswordHashing(t *testing.T) {
	hashed, err := HashPassword("hunter2")
	require.NoError(t, err)
	assert.NotEqual(t, "hunter2", hashed)
	assert.True(t, VerifyPassword("hunter2", hashed))
	assert.False(t, VerifyPassword("hunter3", hashed))
}

func TestTokenIssuer(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", time.Hour)
	user := &models.User{ID: "user-123"}

	t.Run("round trip", func(t *testing.T) {
		token, err := issuer.Issue(user)
		require.NoError(t, err)

		subject, err := issuer.Validate(token)
		require.NoError(t, err)
		assert.Equal(t, "user-123", subject)
	})

	t.Run("wrong secret is rejected", func(t *testing.T) {
		token, err := issuer.Issue(user)
		require.NoError(t, err)

		other := NewTokenIssuer("different-secret", time.Hour)
		_, err = other.Validate(token)
		assert.Error(t, err)
	})

	t.Run("expired token is rejected", func(t *testing.T) {
		shortLived := NewTokenIssuer("test-secret", -time.Minute)
		token, err := shortLived.Issue(user)
		require.NoError(t, err)

		_, err = issuer.Validate(token)
		assert.Error(t, err)
	})

	t.Run("garbage is rejected", func(t *testing.T) {
		_, err := issuer.Validate("not.a.token")
		assert.Error(t, err)
	})
}

func TestRequireUser(t *testing.T) {
	db := testutil.NewDB(t)
	role := testutil.CreateRole(t, db, "user")
	dept := testutil.CreateDepartment(t, db, "Engineering")
	user := testutil.CreateUser(t, db, "ana@example.com", dept, role)

	issuer := NewTokenIssuer("test-secret", time.Hour)
	var resolved *models.User
	handler := RequireUser(issuer, db, hclog.NewNullLogger())(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			resolved, _ = UserFromContext(r.Context())
			w.WriteHeader(http.StatusOK)
		}))

	t.Run("valid token resolves the full user", func(t *testing.T) {
		token, err := issuer.Issue(user)
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/documents", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		require.NotNil(t, resolved)
		assert.Equal(t, user.ID, resolved.ID)
		assert.Equal(t, "user", resolved.Role.Name, "role resolved for the evaluator")
		assert.Equal(t, "Engineering", resolved.Department.Name)
	})

	t.Run("missing header is 401", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/documents", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("token for a deleted user is 401", func(t *testing.T) {
		ghost := &models.User{ID: "00000000-0000-0000-0000-000000000000"}
		token, err := issuer.Issue(ghost)
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/documents", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}
