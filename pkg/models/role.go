package models

import (
	"strings"

	"gorm.io/gorm"
)

// RoleAdmin is the distinguished role name that bypasses all access checks.
// Compared case-insensitively.
const RoleAdmin = "admin"

// Role is a named capability tier assigned to users.
type Role struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"uniqueIndex;not null" json:"name"`
}

// TableName specifies the table name.
func (Role) TableName() string {
	return "roles"
}

// IsAdmin reports whether this role short-circuits access evaluation.
func (r Role) IsAdmin() bool {
	return strings.EqualFold(r.Name, RoleAdmin)
}

// GetRoleByID retrieves a role by ID.
func GetRoleByID(db *gorm.DB, id uint) (*Role, error) {
	var role Role
	if err := db.First(&role, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &role, nil
}

// GetRoleByName retrieves a role by its unique name.
func GetRoleByName(db *gorm.DB, name string) (*Role, error) {
	var role Role
	if err := db.First(&role, "name = ?", name).Error; err != nil {
		return nil, err
	}
	return &role, nil
}
