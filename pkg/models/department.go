package models

import "gorm.io/gorm"

// Department is a named grouping of users. A document's department scope is
// derived transitively through its uploader's department rather than stored
// on the document itself.
type Department struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"uniqueIndex;not null" json:"name"`
}

// TableName specifies the table name.
func (Department) TableName() string {
	return "departments"
}

// GetDepartmentByID retrieves a department by ID.
func GetDepartmentByID(db *gorm.DB, id uint) (*Department, error) {
	var dept Department
	if err := db.First(&dept, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &dept, nil
}
