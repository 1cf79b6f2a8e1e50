// Package directory manages the reference data every other component
// consumes: users, roles, and departments.
package directory

import (
	"context"
	"errors"

	"github.com/hashicorp/go-hclog"
	"gorm.io/gorm"

	"github.com/hashicorp-forge/docrepo/internal/apierr"
	"github.com/hashicorp-forge/docrepo/pkg/models"
)

// Directory exposes user, role, and department operations.
type Directory struct {
	db  *gorm.DB
	log hclog.Logger
}

// NewDirectory returns a directory over the given database.
func NewDirectory(db *gorm.DB, log hclog.Logger) *Directory {
	return &Directory{
		db:  db,
		log: log.Named("directory"),
	}
}

// CreateUserInput carries a new user's attributes. The password must
// already be hashed by the auth layer; the directory never sees plaintext
// credentials.
type CreateUserInput struct {
	Email          string
	FullName       string
	HashedPassword string
	DepartmentID   uint
	RoleID         uint
}

// UserUpdate carries optional profile changes; nil fields are untouched.
type UserUpdate struct {
	FullName     *string
	DepartmentID *uint
	RoleID       *uint
}

// CreateUser registers a user. The referenced department and role must
// exist; a duplicate email surfaces Conflict.
func (d *Directory) CreateUser(ctx context.Context, in CreateUserInput) (*models.User, error) {
	if _, err := models.GetDepartmentByID(d.db.WithContext(ctx), in.DepartmentID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierr.NotFoundf("department %d", in.DepartmentID)
		}
		return nil, err
	}
	if _, err := models.GetRoleByID(d.db.WithContext(ctx), in.RoleID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierr.NotFoundf("role %d", in.RoleID)
		}
		return nil, err
	}

	user := &models.User{
		Email:          in.Email,
		FullName:       in.FullName,
		HashedPassword: in.HashedPassword,
		DepartmentID:   in.DepartmentID,
		RoleID:         in.RoleID,
	}
	if err := d.db.WithContext(ctx).Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apierr.Conflictf("email %s already registered", in.Email)
		}
		return nil, err
	}
	d.log.Info("user created", "user_id", user.ID, "email", user.Email)
	return models.GetUserByID(d.db.WithContext(ctx), user.ID)
}

// GetUser returns a user with role and department resolved.
func (d *Directory) GetUser(ctx context.Context, id string) (*models.User, error) {
	user, err := models.GetUserByID(d.db.WithContext(ctx), id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apierr.NotFoundf("user %s", id)
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

// GetUserByEmail returns a user with role and department resolved.
func (d *Directory) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	user, err := models.GetUserByEmail(d.db.WithContext(ctx), email)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apierr.NotFoundf("user %s", email)
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

// ListUsers returns all users with roles and departments resolved.
func (d *Directory) ListUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	err := d.db.WithContext(ctx).
		Preload("Role").Preload("Department").
		Order("email ASC").
		Find(&users).Error
	return users, err
}

// UpdateUser applies profile changes. Referenced department and role must
// exist.
func (d *Directory) UpdateUser(ctx context.Context, id string, update UserUpdate) (*models.User, error) {
	if _, err := d.GetUser(ctx, id); err != nil {
		return nil, err
	}

	changes := map[string]interface{}{}
	if update.FullName != nil {
		changes["full_name"] = *update.FullName
	}
	if update.DepartmentID != nil {
		if _, err := models.GetDepartmentByID(d.db.WithContext(ctx), *update.DepartmentID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apierr.NotFoundf("department %d", *update.DepartmentID)
			}
			return nil, err
		}
		changes["department_id"] = *update.DepartmentID
	}
	if update.RoleID != nil {
		if _, err := models.GetRoleByID(d.db.WithContext(ctx), *update.RoleID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apierr.NotFoundf("role %d", *update.RoleID)
			}
			return nil, err
		}
		changes["role_id"] = *update.RoleID
	}

	if len(changes) > 0 {
		if err := d.db.WithContext(ctx).Model(&models.User{}).
			Where("id = ?", id).Updates(changes).Error; err != nil {
			return nil, err
		}
	}
	return d.GetUser(ctx, id)
}

// DeleteUser removes a user. A user still owning documents is rejected so
// no document is left with a dangling uploader reference.
func (d *Directory) DeleteUser(ctx context.Context, id string) error {
	if _, err := d.GetUser(ctx, id); err != nil {
		return err
	}
	owned, err := models.CountDocumentsUploadedBy(d.db.WithContext(ctx), id)
	if err != nil {
		return err
	}
	if owned > 0 {
		return apierr.InvalidStatef("user %s still owns %d documents", id, owned)
	}
	return d.db.WithContext(ctx).Delete(&models.User{}, "id = ?", id).Error
}

// CreateRole creates a named role; duplicate names surface Conflict.
func (d *Directory) CreateRole(ctx context.Context, name string) (*models.Role, error) {
	role := &models.Role{Name: name}
	if err := d.db.WithContext(ctx).Create(role).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apierr.Conflictf("role %q already exists", name)
		}
		return nil, err
	}
	return role, nil
}

// ListRoles returns all roles.
func (d *Directory) ListRoles(ctx context.Context) ([]models.Role, error) {
	var roles []models.Role
	err := d.db.WithContext(ctx).Order("name ASC").Find(&roles).Error
	return roles, err
}

// CreateDepartment creates a named department; duplicate names surface
// Conflict.
func (d *Directory) CreateDepartment(ctx context.Context, name string) (*models.Department, error) {
	dept := &models.Department{Name: name}
	if err := d.db.WithContext(ctx).Create(dept).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apierr.Conflictf("department %q already exists", name)
		}
		return nil, err
	}
	return dept, nil
}

// ListDepartments returns all departments.
func (d *Directory) ListDepartments(ctx context.Context) ([]models.Department, error) {
	var depts []models.Department
	err := d.db.WithContext(ctx).Order("name ASC").Find(&depts).Error
	return depts, err
}
