package models

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is a registered account. Every user belongs to exactly one
// department and holds exactly one role.
type User struct {
	ID             string `gorm:"type:uuid;primaryKey" json:"id"`
	Email          string `gorm:"uniqueIndex;not null" json:"email"`
	FullName       string `gorm:"not null" json:"fullName"`
	HashedPassword string `gorm:"not null" json:"-"`

	DepartmentID uint       `gorm:"not null;index" json:"departmentId"`
	Department   Department `json:"department,omitempty"`

	RoleID uint `gorm:"not null;index" json:"roleId"`
	Role   Role `json:"role,omitempty"`
}

// TableName specifies the table name.
func (User) TableName() string {
	return "users"
}

// BeforeCreate hook to ensure the ID is set.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

// GetUserByID retrieves a user with its role and department resolved.
// Callers hand the returned value to the access evaluator, which expects
// both associations to be populated.
func GetUserByID(db *gorm.DB, id string) (*User, error) {
	var user User
	if err := db.Preload("Role").Preload("Department").
		First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUserByEmail retrieves a user by email with role and department resolved.
func GetUserByEmail(db *gorm.DB, email string) (*User, error) {
	var user User
	if err := db.Preload("Role").Preload("Department").
		First(&user, "email = ?", email).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// CountDocumentsUploadedBy returns the number of documents a user owns.
// User deletion is rejected while this is non-zero so no document is left
// with a dangling uploader reference.
func CountDocumentsUploadedBy(db *gorm.DB, userID string) (int64, error) {
	var n int64
	if err := db.Model(&Document{}).
		Where("uploader_id = ?", userID).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("error counting uploaded documents: %w", err)
	}
	return n, nil
}
