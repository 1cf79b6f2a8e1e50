package access

import (
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/hashicorp-forge/docrepo/internal/testutil"
	"github.com/hashicorp-forge/docrepo/pkg/models"
)

type evalFixture struct {
	db        *gorm.DB
	eval      *Evaluator
	admin     *models.User
	uploader  *models.User
	colleague *models.User // same department as uploader
	outsider  *models.User // different department
}

func newEvalFixture(t *testing.T) *evalFixture {
	t.Helper()
	db := testutil.NewDB(t)

	adminRole := testutil.CreateRole(t, db, "admin")
	userRole := testutil.CreateRole(t, db, "user")
	engineering := testutil.CreateDepartment(t, db, "Engineering")
	finance := testutil.CreateDepartment(t, db, "Finance")

	return &evalFixture{
		db:        db,
		eval:      NewEvaluator(db, hclog.NewNullLogger()),
		admin:     testutil.CreateUser(t, db, "admin@example.com", finance, adminRole),
		uploader:  testutil.CreateUser(t, db, "uploader@example.com", engineering, userRole),
		colleague: testutil.CreateUser(t, db, "colleague@example.com", engineering, userRole),
		outsider:  testutil.CreateUser(t, db, "outsider@example.com", finance, userRole),
	}
}

func (f *evalFixture) document(t *testing.T, accessLevel string) *models.Document {
	t.Helper()
	doc := &models.Document{
		Title:       "quarterly report",
		AccessLevel: accessLevel,
		UploaderID:  f.uploader.ID,
	}
	require.NoError(t, f.db.Create(doc).Error)

	resolved, err := models.GetDocumentByID(f.db, doc.ID)
	require.NoError(t, err)
	return resolved
}

func TestEvaluator_Public(t *testing.T) {
	f := newEvalFixture(t)
	doc := f.document(t, models.AccessLevelPublic)

	for _, user := range []*models.User{f.admin, f.uploader, f.colleague, f.outsider} {
		allowed, err := f.eval.CanAccess(user, doc, PermissionView)
		require.NoError(t, err)
		assert.True(t, allowed, "public documents are readable by %s", user.Email)

		allowed, err = f.eval.CanAccess(user, doc, PermissionEdit)
		require.NoError(t, err)
		assert.True(t, allowed)
	}
}

func TestEvaluator_Department(t *testing.T) {
	f := newEvalFixture(t)
	doc := f.document(t, models.AccessLevelDepartment)

	t.Run("same department as uploader is allowed without a grant", func(t *testing.T) {
		allowed, err := f.eval.CanAccess(f.colleague, doc, PermissionView)
		require.NoError(t, err)
		assert.True(t, allowed)
	})

	t.Run("other department is denied without a grant", func(t *testing.T) {
		allowed, err := f.eval.CanAccess(f.outsider, doc, PermissionView)
		require.NoError(t, err)
		assert.False(t, allowed)
	})

	t.Run("department grant admits the other department", func(t *testing.T) {
		require.NoError(t, f.db.Create(&models.DocumentDepartmentPermission{
			DocumentID:   doc.ID,
			DepartmentID: f.outsider.DepartmentID,
			Permission:   models.PermissionView,
		}).Error)

		allowed, err := f.eval.CanAccess(f.outsider, doc, PermissionView)
		require.NoError(t, err)
		assert.True(t, allowed)

		// A view grant currently admits edits too.
		allowed, err = f.eval.CanAccess(f.outsider, doc, PermissionEdit)
		require.NoError(t, err)
		assert.True(t, allowed)
	})
}

func TestEvaluator_Private(t *testing.T) {
	f := newEvalFixture(t)
	doc := f.document(t, models.AccessLevelPrivate)

	t.Run("uploader is allowed", func(t *testing.T) {
		allowed, err := f.eval.CanAccess(f.uploader, doc, PermissionEdit)
		require.NoError(t, err)
		assert.True(t, allowed)
	})

	t.Run("everyone else is denied without a grant", func(t *testing.T) {
		for _, user := range []*models.User{f.colleague, f.outsider} {
			allowed, err := f.eval.CanAccess(user, doc, PermissionView)
			require.NoError(t, err)
			assert.False(t, allowed, "no grant row for %s", user.Email)
		}
	})

	t.Run("user grant admits that user only", func(t *testing.T) {
		require.NoError(t, f.db.Create(&models.DocumentUserPermission{
			DocumentID: doc.ID,
			UserID:     f.outsider.ID,
			Permission: models.PermissionView,
		}).Error)

		allowed, err := f.eval.CanAccess(f.outsider, doc, PermissionView)
		require.NoError(t, err)
		assert.True(t, allowed)

		allowed, err = f.eval.CanAccess(f.colleague, doc, PermissionView)
		require.NoError(t, err)
		assert.False(t, allowed)
	})
}

func TestEvaluator_AdminBypass(t *testing.T) {
	f := newEvalFixture(t)

	for _, level := range []string{
		models.AccessLevelPublic,
		models.AccessLevelDepartment,
		models.AccessLevelPrivate,
		"classified", // unrecognized
	} {
		doc := f.document(t, level)
		allowed, err := f.eval.CanAccess(f.admin, doc, PermissionEdit)
		require.NoError(t, err)
		assert.True(t, allowed, "admin bypasses access level %q", level)
	}
}

func TestEvaluator_AdminRoleNameCaseInsensitive(t *testing.T) {
	f := newEvalFixture(t)
	doc := f.document(t, models.AccessLevelPrivate)

	upper := testutil.CreateRole(t, f.db, "ADMIN")
	user := testutil.CreateUser(t, f.db, "shouty@example.com",
		&f.outsider.Department, upper)

	allowed, err := f.eval.CanAccess(user, doc, PermissionView)
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestEvaluator_UnrecognizedAccessLevelFailsClosed(t *testing.T) {
	f := newEvalFixture(t)
	doc := f.document(t, "internal-only")

	for _, user := range []*models.User{f.uploader, f.colleague, f.outsider} {
		allowed, err := f.eval.CanAccess(user, doc, PermissionView)
		require.NoError(t, err)
		assert.False(t, allowed, "unrecognized level must deny %s", user.Email)
	}
}
