// Package ledger maintains the append-only sequence of versions per document
// and the document's current-version pointer. Appends to the same document
// serialize through a unique (document_id, version_number) index plus
// bounded retry; different documents never block each other.
package ledger

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/hashicorp/go-hclog"
	"github.com/hashicorp/go-multierror"
	"gorm.io/gorm"

	"github.com/hashicorp-forge/docrepo/internal/apierr"
	"github.com/hashicorp-forge/docrepo/pkg/models"
)

// maxAppendRetries bounds how many times a racing append is retried before
// surfacing Conflict.
const maxAppendRetries = 5

// Ledger owns version rows and the documents.current_version_id pointer.
type Ledger struct {
	db  *gorm.DB
	log hclog.Logger
}

// NewLedger returns a ledger over the given database.
func NewLedger(db *gorm.DB, log hclog.Logger) *Ledger {
	return &Ledger{
		db:  db,
		log: log.Named("ledger"),
	}
}

// CreateFirstVersion persists a new document together with its first
// version in a single transaction. The document row, version row
// (version_number 1), and current-version pointer commit atomically, so no
// reader ever observes a committed document with a nil pointer or a pointer
// at an unpersisted version.
//
// doc must be unpersisted; it is filled in (ID, CurrentVersionID) on return.
func (l *Ledger) CreateFirstVersion(ctx context.Context, doc *models.Document, uploaderID, contentRef, fileName string) (*models.DocumentVersion, error) {
	version := &models.DocumentVersion{
		VersionNumber: 1,
		ContentRef:    contentRef,
		FileName:      fileName,
		UploadedBy:    uploaderID,
	}

	err := l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(doc).Error; err != nil {
			return err
		}
		version.DocumentID = doc.ID
		if err := tx.Create(version).Error; err != nil {
			return err
		}
		return tx.Model(&models.Document{}).
			Where("id = ?", doc.ID).
			Update("current_version_id", version.ID).Error
	})
	if err != nil {
		return nil, err
	}

	doc.CurrentVersionID = &version.ID
	l.log.Debug("created document with first version",
		"document_id", doc.ID,
		"version_id", version.ID,
	)
	return version, nil
}

// AppendVersion appends the next version to an existing document and
// repoints current_version_id, both in one transaction. Concurrent appends
// against the same document collide on the (document_id, version_number)
// unique index; collisions are retried with backoff and surface Conflict
// once retries are exhausted. A failed attempt never advances the counter:
// the next attempt re-reads the max inside a fresh transaction.
func (l *Ledger) AppendVersion(ctx context.Context, doc *models.Document, uploaderID, contentRef, fileName string) (*models.DocumentVersion, error) {
	var version *models.DocumentVersion

	attempt := func() error {
		v := &models.DocumentVersion{
			DocumentID: doc.ID,
			ContentRef: contentRef,
			FileName:   fileName,
			UploadedBy: uploaderID,
		}
		err := l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			max, err := models.MaxVersionNumber(tx, doc.ID)
			if err != nil {
				return err
			}
			v.VersionNumber = max + 1
			if err := tx.Create(v).Error; err != nil {
				return err
			}
			return tx.Model(&models.Document{}).
				Where("id = ?", doc.ID).
				Update("current_version_id", v.ID).Error
		})
		if err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				l.log.Debug("version number collision, retrying",
					"document_id", doc.ID,
					"version_number", v.VersionNumber,
				)
				return err
			}
			return backoff.Permanent(err)
		}
		version = v
		return nil
	}

	bo := backoff.WithContext(backoff.WithMaxRetries(
		backoff.NewExponentialBackOff(
			backoff.WithInitialInterval(5*time.Millisecond),
			backoff.WithMaxInterval(100*time.Millisecond),
		),
		maxAppendRetries,
	), ctx)

	if err := backoff.Retry(attempt, bo); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apierr.Conflictf(
				"version number contention on document %s not resolved after %d retries",
				doc.ID, maxAppendRetries)
		}
		return nil, err
	}

	doc.CurrentVersionID = &version.ID
	return version, nil
}

// ListVersions returns a document's versions in ascending version-number
// order. The result is finite and re-readable; absent concurrent appends,
// repeated calls return the same sequence.
func (l *Ledger) ListVersions(ctx context.Context, documentID string) ([]models.DocumentVersion, error) {
	return models.ListVersionsByDocument(l.db.WithContext(ctx), documentID)
}

// GetVersion returns one version of a document by number.
func (l *Ledger) GetVersion(ctx context.Context, documentID string, number int) (*models.DocumentVersion, error) {
	version, err := models.GetVersionByNumber(l.db.WithContext(ctx), documentID, number)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apierr.NotFoundf("version %d of document %s", number, documentID)
	}
	if err != nil {
		return nil, err
	}
	return version, nil
}

// DeleteDocument removes a document and every row lifetime-bound to it
// (versions, tag links, user and department grants) in one transaction.
// Individual versions are never deleted on their own; the ledger is
// append-only except for this whole-document cascade.
func (l *Ledger) DeleteDocument(ctx context.Context, documentID string) error {
	return l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var result *multierror.Error

		// current_version_id references a version row about to go away;
		// clear it first so the constraint never trips mid-cascade.
		if err := tx.Model(&models.Document{}).
			Where("id = ?", documentID).
			Update("current_version_id", nil).Error; err != nil {
			result = multierror.Append(result, err)
		}

		for _, step := range []struct {
			name  string
			model interface{}
			where string
		}{
			{"tag links", &models.DocumentTag{}, "document_id = ?"},
			{"user grants", &models.DocumentUserPermission{}, "document_id = ?"},
			{"department grants", &models.DocumentDepartmentPermission{}, "document_id = ?"},
			{"versions", &models.DocumentVersion{}, "document_id = ?"},
		} {
			if err := tx.Where(step.where, documentID).
				Delete(step.model).Error; err != nil {
				result = multierror.Append(result,
					errors.New("deleting "+step.name+": "+err.Error()))
			}
		}

		if err := tx.Delete(&models.Document{}, "id = ?", documentID).Error; err != nil {
			result = multierror.Append(result, err)
		}

		// Any step failure rolls back the whole cascade.
		return result.ErrorOrNil()
	})
}
