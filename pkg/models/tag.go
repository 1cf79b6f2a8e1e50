package models

import "gorm.io/gorm"

// Tag is a named label attached to documents. Tag links carry no ordering
// semantics.
type Tag struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"uniqueIndex;not null" json:"name"`
}

// TableName specifies the table name.
func (Tag) TableName() string {
	return "tags"
}

// DocumentTag links a tag to a document.
type DocumentTag struct {
	DocumentID string `gorm:"type:uuid;primaryKey" json:"documentId"`
	TagID      uint   `gorm:"primaryKey" json:"tagId"`
}

// TableName specifies the table name.
func (DocumentTag) TableName() string {
	return "document_tags"
}

// ListTagsForDocument returns the tags linked to a document.
func ListTagsForDocument(db *gorm.DB, documentID string) ([]Tag, error) {
	var tags []Tag
	err := db.Model(&Tag{}).
		Joins("JOIN document_tags ON document_tags.tag_id = tags.id").
		Where("document_tags.document_id = ?", documentID).
		Order("tags.name ASC").
		Find(&tags).Error
	return tags, err
}
