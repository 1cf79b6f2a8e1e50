// Package catalog orchestrates document operations: it loads the entities a
// request touches, delegates the allow/deny decision to the access
// evaluator, and delegates version bookkeeping to the ledger. Single-item
// operations check existence before authorization, consistently; list
// operations filter instead of erroring.
package catalog

import (
	"context"
	"errors"
	"os"

	"github.com/hashicorp/go-hclog"
	"gorm.io/gorm"

	"github.com/hashicorp-forge/docrepo/internal/access"
	"github.com/hashicorp-forge/docrepo/internal/apierr"
	"github.com/hashicorp-forge/docrepo/internal/ledger"
	"github.com/hashicorp-forge/docrepo/pkg/blobstore"
	"github.com/hashicorp-forge/docrepo/pkg/models"
)

// Catalog exposes the document operations to the HTTP boundary. Every
// operation takes the acting user explicitly; nothing reads ambient
// request state.
type Catalog struct {
	db     *gorm.DB
	eval   *access.Evaluator
	ledger *ledger.Ledger
	blobs  *blobstore.Store
	log    hclog.Logger
}

// NewCatalog assembles the catalog from its collaborators.
func NewCatalog(db *gorm.DB, eval *access.Evaluator, l *ledger.Ledger, blobs *blobstore.Store, log hclog.Logger) *Catalog {
	return &Catalog{
		db:     db,
		eval:   eval,
		ledger: l,
		blobs:  blobs,
		log:    log.Named("catalog"),
	}
}

// CreateDocumentInput carries everything needed to create a document and
// its first version.
type CreateDocumentInput struct {
	Title       string
	Description string
	AccessLevel string
	FileName    string
	Content     []byte
}

// DocumentUpdate carries optional metadata changes; nil fields are left
// untouched.
type DocumentUpdate struct {
	Title       *string
	Description *string
	AccessLevel *string
}

func validAccessLevel(level string) bool {
	switch level {
	case models.AccessLevelPublic, models.AccessLevelDepartment, models.AccessLevelPrivate:
		return true
	}
	return false
}

// loadDocument resolves a document with its uploader, translating a missing
// row to NotFound. Existence is checked before authorization everywhere.
func (c *Catalog) loadDocument(ctx context.Context, id string) (*models.Document, error) {
	doc, err := models.GetDocumentByID(c.db.WithContext(ctx), id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apierr.NotFoundf("document %s", id)
	}
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// authorize runs the evaluator and converts a denial into Forbidden for the
// boundary layer. The evaluator itself only ever returns a boolean.
func (c *Catalog) authorize(actor *models.User, doc *models.Document, perm access.Permission) error {
	allowed, err := c.eval.CanAccess(actor, doc, perm)
	if err != nil {
		return err
	}
	if !allowed {
		return apierr.Forbiddenf("user %s may not %s document %s", actor.ID, perm, doc.ID)
	}
	return nil
}

// CreateDocument stores the content blob, then creates the document and its
// first version atomically through the ledger.
func (c *Catalog) CreateDocument(ctx context.Context, actor *models.User, in CreateDocumentInput) (*models.Document, error) {
	if in.AccessLevel == "" {
		in.AccessLevel = models.AccessLevelPublic
	}
	if !validAccessLevel(in.AccessLevel) {
		return nil, apierr.InvalidStatef("unrecognized access level %q", in.AccessLevel)
	}

	ref, err := c.blobs.Put(in.Content)
	if err != nil {
		return nil, err
	}

	doc := &models.Document{
		Title:       in.Title,
		Description: in.Description,
		AccessLevel: in.AccessLevel,
		UploaderID:  actor.ID,
	}
	if _, err := c.ledger.CreateFirstVersion(ctx, doc, actor.ID, ref, in.FileName); err != nil {
		return nil, err
	}

	c.log.Info("document created",
		"document_id", doc.ID,
		"uploader", actor.ID,
		"access_level", doc.AccessLevel,
	)
	return c.loadDocument(ctx, doc.ID)
}

// GetDocument returns a document's metadata if the actor may view it.
func (c *Catalog) GetDocument(ctx context.Context, actor *models.User, id string) (*models.Document, error) {
	doc, err := c.loadDocument(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := c.authorize(actor, doc, access.PermissionView); err != nil {
		return nil, err
	}
	return doc, nil
}

// ListDocuments returns the documents the actor may view, optionally
// filtered by a title substring. Unauthorized documents are omitted, never
// surfaced as an error.
func (c *Catalog) ListDocuments(ctx context.Context, actor *models.User, titleQuery string) ([]models.Document, error) {
	docs, err := models.ListDocuments(c.db.WithContext(ctx), titleQuery)
	if err != nil {
		return nil, err
	}

	visible := make([]models.Document, 0, len(docs))
	for i := range docs {
		allowed, err := c.eval.CanAccess(actor, &docs[i], access.PermissionView)
		if err != nil {
			return nil, err
		}
		if allowed {
			visible = append(visible, docs[i])
		}
	}
	return visible, nil
}

// UpdateDocument applies metadata changes (title, description, access
// level) if the actor may edit the document.
func (c *Catalog) UpdateDocument(ctx context.Context, actor *models.User, id string, update DocumentUpdate) (*models.Document, error) {
	doc, err := c.loadDocument(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := c.authorize(actor, doc, access.PermissionEdit); err != nil {
		return nil, err
	}

	changes := map[string]interface{}{}
	if update.Title != nil {
		changes["title"] = *update.Title
	}
	if update.Description != nil {
		changes["description"] = *update.Description
	}
	if update.AccessLevel != nil {
		if !validAccessLevel(*update.AccessLevel) {
			return nil, apierr.InvalidStatef("unrecognized access level %q", *update.AccessLevel)
		}
		changes["access_level"] = *update.AccessLevel
	}
	if len(changes) == 0 {
		return doc, nil
	}

	if err := c.db.WithContext(ctx).Model(&models.Document{}).
		Where("id = ?", id).Updates(changes).Error; err != nil {
		return nil, err
	}
	return c.loadDocument(ctx, id)
}

// DeleteDocument removes a document and all of its versions, tag links, and
// grants if the actor may edit it. The cascade is one transaction in the
// ledger.
func (c *Catalog) DeleteDocument(ctx context.Context, actor *models.User, id string) error {
	doc, err := c.loadDocument(ctx, id)
	if err != nil {
		return err
	}
	if err := c.authorize(actor, doc, access.PermissionEdit); err != nil {
		return err
	}
	if err := c.ledger.DeleteDocument(ctx, id); err != nil {
		return err
	}
	c.log.Info("document deleted", "document_id", id, "actor", actor.ID)
	return nil
}

// AddVersion stores new content and appends it as the document's next
// version if the actor may edit the document.
func (c *Catalog) AddVersion(ctx context.Context, actor *models.User, id string, content []byte, fileName string) (*models.DocumentVersion, error) {
	doc, err := c.loadDocument(ctx, id)
	if err != nil {
		return nil, err
	}
	if doc.Uploader == nil {
		return nil, apierr.InvalidStatef("document %s has no resolvable uploader", id)
	}
	if err := c.authorize(actor, doc, access.PermissionEdit); err != nil {
		return nil, err
	}

	ref, err := c.blobs.Put(content)
	if err != nil {
		return nil, err
	}
	version, err := c.ledger.AppendVersion(ctx, doc, actor.ID, ref, fileName)
	if err != nil {
		return nil, err
	}

	c.log.Info("version appended",
		"document_id", id,
		"version_number", version.VersionNumber,
		"actor", actor.ID,
	)
	return version, nil
}

// ListVersions returns a document's version history if the actor may view
// the document.
func (c *Catalog) ListVersions(ctx context.Context, actor *models.User, id string) ([]models.DocumentVersion, error) {
	doc, err := c.loadDocument(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := c.authorize(actor, doc, access.PermissionView); err != nil {
		return nil, err
	}
	return c.ledger.ListVersions(ctx, id)
}

// GetVersion returns one version of a document if the actor may view it.
func (c *Catalog) GetVersion(ctx context.Context, actor *models.User, id string, number int) (*models.DocumentVersion, error) {
	doc, err := c.loadDocument(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := c.authorize(actor, doc, access.PermissionView); err != nil {
		return nil, err
	}
	return c.ledger.GetVersion(ctx, id, number)
}

// DownloadVersion returns the stored content of one version if the actor
// may view the document.
func (c *Catalog) DownloadVersion(ctx context.Context, actor *models.User, id string, number int) ([]byte, *models.DocumentVersion, error) {
	version, err := c.GetVersion(ctx, actor, id, number)
	if err != nil {
		return nil, nil, err
	}
	content, err := c.blobs.Get(version.ContentRef)
	if errors.Is(err, os.ErrNotExist) {
		c.log.Warn("version content missing from blob store",
			"document_id", id,
			"version_number", number,
			"content_ref", version.ContentRef,
		)
		return nil, nil, apierr.NotFoundf("content of version %d of document %s", number, id)
	}
	if err != nil {
		return nil, nil, err
	}
	return content, version, nil
}
