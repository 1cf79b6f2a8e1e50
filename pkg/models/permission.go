package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Grant permission levels. The evaluator only tests grant-row existence,
// so view and edit currently gate identically; the level is stored for
// future discrimination.
const (
	PermissionView = "view"
	PermissionEdit = "edit"
)

// DocumentUserPermission grants a specific user access to an otherwise
// restricted document.
type DocumentUserPermission struct {
	ID         string `gorm:"type:uuid;primaryKey" json:"id"`
	DocumentID string `gorm:"type:uuid;not null;index:idx_doc_user_perm" json:"documentId"`
	UserID     string `gorm:"type:uuid;not null;index:idx_doc_user_perm" json:"userId"`
	Permission string `gorm:"type:varchar(10);not null;default:'view'" json:"permission"`
}

// TableName specifies the table name.
func (DocumentUserPermission) TableName() string {
	return "document_user_permissions"
}

// BeforeCreate hook to ensure the ID is set.
func (p *DocumentUserPermission) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.Permission == "" {
		p.Permission = PermissionView
	}
	return nil
}

// DocumentDepartmentPermission grants a whole department access to an
// otherwise restricted document.
type DocumentDepartmentPermission struct {
	ID           string `gorm:"type:uuid;primaryKey" json:"id"`
	DocumentID   string `gorm:"type:uuid;not null;index:idx_doc_dept_perm" json:"documentId"`
	DepartmentID uint   `gorm:"not null;index:idx_doc_dept_perm" json:"departmentId"`
	Permission   string `gorm:"type:varchar(10);not null;default:'view'" json:"permission"`
}

// TableName specifies the table name.
func (DocumentDepartmentPermission) TableName() string {
	return "document_department_permissions"
}

// BeforeCreate hook to ensure the ID is set.
func (p *DocumentDepartmentPermission) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.Permission == "" {
		p.Permission = PermissionView
	}
	return nil
}

// UserGrantExists reports whether any user-scoped grant row exists for the
// (document, user) pair, regardless of its declared permission level.
func UserGrantExists(db *gorm.DB, documentID, userID string) (bool, error) {
	var n int64
	err := db.Model(&DocumentUserPermission{}).
		Where("document_id = ? AND user_id = ?", documentID, userID).
		Count(&n).Error
	return n > 0, err
}

// DepartmentGrantExists reports whether any department-scoped grant row
// exists for the (document, department) pair.
func DepartmentGrantExists(db *gorm.DB, documentID string, departmentID uint) (bool, error) {
	var n int64
	err := db.Model(&DocumentDepartmentPermission{}).
		Where("document_id = ? AND department_id = ?", documentID, departmentID).
		Count(&n).Error
	return n > 0, err
}
