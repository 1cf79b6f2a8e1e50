package catalog

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/hashicorp-forge/docrepo/internal/apierr"
	"github.com/hashicorp-forge/docrepo/pkg/models"
)

// Grant management. Grants are consumed by the access evaluator as
// existence checks; the declared permission level is stored but does not
// currently gate view and edit differently.

func validPermission(p string) bool {
	return p == models.PermissionView || p == models.PermissionEdit
}

// AddUserGrant records a user-scoped grant on a document. Referenced
// document and user must exist.
func (c *Catalog) AddUserGrant(ctx context.Context, actor *models.User, documentID, userID, permission string) (*models.DocumentUserPermission, error) {
	if permission == "" {
		permission = models.PermissionView
	}
	if !validPermission(permission) {
		return nil, apierr.InvalidStatef("unrecognized permission %q", permission)
	}
	if _, err := c.loadDocument(ctx, documentID); err != nil {
		return nil, err
	}
	if _, err := models.GetUserByID(c.db.WithContext(ctx), userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierr.NotFoundf("user %s", userID)
		}
		return nil, err
	}

	grant := &models.DocumentUserPermission{
		DocumentID: documentID,
		UserID:     userID,
		Permission: permission,
	}
	if err := c.db.WithContext(ctx).Create(grant).Error; err != nil {
		return nil, err
	}
	c.log.Info("user grant added",
		"document_id", documentID,
		"user_id", userID,
		"permission", permission,
		"actor", actor.ID,
	)
	return grant, nil
}

// AddDepartmentGrant records a department-scoped grant on a document.
func (c *Catalog) AddDepartmentGrant(ctx context.Context, actor *models.User, documentID string, departmentID uint, permission string) (*models.DocumentDepartmentPermission, error) {
	if permission == "" {
		permission = models.PermissionView
	}
	if !validPermission(permission) {
		return nil, apierr.InvalidStatef("unrecognized permission %q", permission)
	}
	if _, err := c.loadDocument(ctx, documentID); err != nil {
		return nil, err
	}
	if _, err := models.GetDepartmentByID(c.db.WithContext(ctx), departmentID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierr.NotFoundf("department %d", departmentID)
		}
		return nil, err
	}

	grant := &models.DocumentDepartmentPermission{
		DocumentID:   documentID,
		DepartmentID: departmentID,
		Permission:   permission,
	}
	if err := c.db.WithContext(ctx).Create(grant).Error; err != nil {
		return nil, err
	}
	c.log.Info("department grant added",
		"document_id", documentID,
		"department_id", departmentID,
		"permission", permission,
		"actor", actor.ID,
	)
	return grant, nil
}

// ListUserGrants returns all user-scoped grants.
func (c *Catalog) ListUserGrants(ctx context.Context) ([]models.DocumentUserPermission, error) {
	var grants []models.DocumentUserPermission
	err := c.db.WithContext(ctx).Find(&grants).Error
	return grants, err
}

// ListDepartmentGrants returns all department-scoped grants.
func (c *Catalog) ListDepartmentGrants(ctx context.Context) ([]models.DocumentDepartmentPermission, error) {
	var grants []models.DocumentDepartmentPermission
	err := c.db.WithContext(ctx).Find(&grants).Error
	return grants, err
}
