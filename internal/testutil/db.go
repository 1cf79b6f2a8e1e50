// Package testutil provides database helpers for package tests.
package testutil

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/hashicorp-forge/docrepo/pkg/database"
	"github.com/hashicorp-forge/docrepo/pkg/models"
)

// NewDB returns a migrated, uniquely named in-memory SQLite database.
// Connections are capped at one so SQLite never reports a busy database
// under concurrent test traffic.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := database.ConnectSQLite(dsn, nil)
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, database.Migrate(db))
	return db
}

// CreateRole inserts a role and returns it.
func CreateRole(t *testing.T, db *gorm.DB, name string) *models.Role {
	t.Helper()
	role := &models.Role{Name: name}
	require.NoError(t, db.Create(role).Error)
	return role
}

// CreateDepartment inserts a department and returns it.
func CreateDepartment(t *testing.T, db *gorm.DB, name string) *models.Department {
	t.Helper()
	dept := &models.Department{Name: name}
	require.NoError(t, db.Create(dept).Error)
	return dept
}

// CreateUser inserts a user and returns it with role and department
// resolved, the shape core services expect.
func CreateUser(t *testing.T, db *gorm.DB, email string, dept *models.Department, role *models.Role) *models.User {
	t.Helper()
	user := &models.User{
		Email:          email,
		FullName:       email,
		HashedPassword: "x",
		DepartmentID:   dept.ID,
		RoleID:         role.ID,
	}
	require.NoError(t, db.Create(user).Error)

	resolved, err := models.GetUserByID(db, user.ID)
	require.NoError(t, err)
	return resolved
}
