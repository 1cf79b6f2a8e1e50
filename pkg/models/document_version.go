package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DocumentVersion is one immutable entry in a document's version ledger.
// Version numbers start at 1 and increase by exactly 1 per document; the
// composite unique index is what turns racing appends into a detectable
// conflict instead of a duplicate number.
type DocumentVersion struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`

	DocumentID    string `gorm:"type:uuid;not null;uniqueIndex:idx_document_version_number,priority:1" json:"documentId"`
	VersionNumber int    `gorm:"not null;uniqueIndex:idx_document_version_number,priority:2" json:"versionNumber"`

	// ContentRef is the opaque content-addressable reference handed back by
	// the blob store. The ledger persists it and never interprets it.
	ContentRef string `gorm:"not null" json:"contentRef"`
	FileName   string `json:"fileName,omitempty"`

	UploadedBy string `gorm:"type:uuid;not null;index" json:"uploadedBy"`
}

// TableName specifies the table name.
func (DocumentVersion) TableName() string {
	return "document_versions"
}

// BeforeCreate hook to ensure the ID is set.
func (v *DocumentVersion) BeforeCreate(tx *gorm.DB) error {
	if v.ID == "" {
		v.ID = uuid.NewString()
	}
	return nil
}

// MaxVersionNumber returns the highest version number recorded for a
// document, or 0 when it has no versions yet.
func MaxVersionNumber(db *gorm.DB, documentID string) (int, error) {
	var max int
	err := db.Model(&DocumentVersion{}).
		Where("document_id = ?", documentID).
		Select("COALESCE(MAX(version_number), 0)").
		Scan(&max).Error
	if err != nil {
		return 0, err
	}
	return max, nil
}

// ListVersionsByDocument returns a document's versions in ascending
// version-number order.
func ListVersionsByDocument(db *gorm.DB, documentID string) ([]DocumentVersion, error) {
	var versions []DocumentVersion
	err := db.Where("document_id = ?", documentID).
		Order("version_number ASC").
		Find(&versions).Error
	return versions, err
}

// GetVersionByNumber retrieves a single version of a document.
func GetVersionByNumber(db *gorm.DB, documentID string, number int) (*DocumentVersion, error) {
	var version DocumentVersion
	err := db.Where("document_id = ? AND version_number = ?", documentID, number).
		First(&version).Error
	if err != nil {
		return nil, err
	}
	return &version, nil
}
