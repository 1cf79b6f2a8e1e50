package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Document access levels. Any other value fails closed in the evaluator.
const (
	AccessLevelPublic     = "public"
	AccessLevelDepartment = "department"
	AccessLevelPrivate    = "private"
)

// Document is the root entity of the catalog. Versions, tag links, and
// permission grants are lifetime-bound to it and removed in the same
// transaction when it is deleted.
type Document struct {
	ID          string    `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
	Title       string    `gorm:"not null" json:"title"`
	Description string    `json:"description,omitempty"`

	// AccessLevel is the document-wide visibility classification:
	// public, department, or private.
	AccessLevel string `gorm:"type:varchar(20);not null;default:'public';index" json:"accessLevel"`

	UploaderID string `gorm:"type:uuid;not null;index" json:"uploaderId"`
	Uploader   *User  `json:"uploader,omitempty"`

	// CurrentVersionID points at the authoritative version. It is only nil
	// inside the transaction that creates the document and its first
	// version; no committed state exposes a nil pointer.
	CurrentVersionID *string `gorm:"type:uuid" json:"currentVersionId,omitempty"`
}

// TableName specifies the table name.
func (Document) TableName() string {
	return "documents"
}

// BeforeCreate hook to ensure the ID is set.
func (d *Document) BeforeCreate(tx *gorm.DB) error {
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	if d.AccessLevel == "" {
		d.AccessLevel = AccessLevelPublic
	}
	return nil
}

// GetDocumentByID retrieves a document with its uploader (and the uploader's
// department) resolved, as the access evaluator requires.
func GetDocumentByID(db *gorm.DB, id string) (*Document, error) {
	var doc Document
	if err := db.Preload("Uploader").Preload("Uploader.Department").
		First(&doc, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &doc, nil
}

// ListDocuments returns all documents with uploaders resolved, optionally
// filtered by a case-insensitive title substring.
func ListDocuments(db *gorm.DB, titleQuery string) ([]Document, error) {
	q := db.Preload("Uploader").Preload("Uploader.Department").
		Order("created_at DESC")
	if titleQuery != "" {
		q = q.Where("LOWER(title) LIKE ?", "%"+strings.ToLower(titleQuery)+"%")
	}
	var docs []Document
	if err := q.Find(&docs).Error; err != nil {
		return nil, err
	}
	return docs, nil
}
