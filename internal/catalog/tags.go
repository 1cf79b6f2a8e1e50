package catalog

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/hashicorp-forge/docrepo/internal/access"
	"github.com/hashicorp-forge/docrepo/internal/apierr"
	"github.com/hashicorp-forge/docrepo/pkg/models"
)

// CreateTag creates a named label. Names are unique; a collision surfaces
// Conflict.
func (c *Catalog) CreateTag(ctx context.Context, name string) (*models.Tag, error) {
	tag := &models.Tag{Name: name}
	if err := c.db.WithContext(ctx).Create(tag).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apierr.Conflictf("tag %q already exists", name)
		}
		return nil, err
	}
	return tag, nil
}

// ListTags returns all tags.
func (c *Catalog) ListTags(ctx context.Context) ([]models.Tag, error) {
	var tags []models.Tag
	err := c.db.WithContext(ctx).Order("name ASC").Find(&tags).Error
	return tags, err
}

// AttachTag links a tag to a document if the actor may edit the document.
// Attaching an already-attached tag is a no-op.
func (c *Catalog) AttachTag(ctx context.Context, actor *models.User, documentID string, tagID uint) error {
	doc, err := c.loadDocument(ctx, documentID)
	if err != nil {
		return err
	}
	if err := c.authorize(actor, doc, access.PermissionEdit); err != nil {
		return err
	}

	var tag models.Tag
	if err := c.db.WithContext(ctx).First(&tag, "id = ?", tagID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apierr.NotFoundf("tag %d", tagID)
		}
		return err
	}

	link := &models.DocumentTag{DocumentID: documentID, TagID: tagID}
	if err := c.db.WithContext(ctx).Create(link).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil
		}
		return err
	}
	return nil
}

// DetachTag removes a tag link from a document if the actor may edit the
// document.
func (c *Catalog) DetachTag(ctx context.Context, actor *models.User, documentID string, tagID uint) error {
	doc, err := c.loadDocument(ctx, documentID)
	if err != nil {
		return err
	}
	if err := c.authorize(actor, doc, access.PermissionEdit); err != nil {
		return err
	}
	return c.db.WithContext(ctx).
		Where("document_id = ? AND tag_id = ?", documentID, tagID).
		Delete(&models.DocumentTag{}).Error
}

// ListDocumentTags returns the tags on a document if the actor may view it.
func (c *Catalog) ListDocumentTags(ctx context.Context, actor *models.User, documentID string) ([]models.Tag, error) {
	doc, err := c.loadDocument(ctx, documentID)
	if err != nil {
		return nil, err
	}
	if err := c.authorize(actor, doc, access.PermissionView); err != nil {
		return nil, err
	}
	return models.ListTagsForDocument(c.db.WithContext(ctx), documentID)
}
