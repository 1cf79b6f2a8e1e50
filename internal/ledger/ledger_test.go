package ledger

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/hashicorp-forge/docrepo/internal/apierr"
	"github.com/hashicorp-forge/docrepo/internal/testutil"
	"github.com/hashicorp-forge/docrepo/pkg/models"
)

type ledgerFixture struct {
	db       *gorm.DB
	ledger   *Ledger
	uploader *models.User
}

func newLedgerFixture(t *testing.T) *ledgerFixture {
	t.Helper()
	db := testutil.NewDB(t)
	role := testutil.CreateRole(t, db, "user")
	dept := testutil.CreateDepartment(t, db, "Engineering")
	return &ledgerFixture{
		db:       db,
		ledger:   NewLedger(db, hclog.NewNullLogger()),
		uploader: testutil.CreateUser(t, db, "uploader@example.com", dept, role),
	}
}

func (f *ledgerFixture) createDocument(t *testing.T) *models.Document {
	t.Helper()
	doc := &models.Document{
		Title:       "runbook",
		AccessLevel: models.AccessLevelPublic,
		UploaderID:  f.uploader.ID,
	}
	_, err := f.ledger.CreateFirstVersion(
		context.Background(), doc, f.uploader.ID, "ref-1", "runbook.md")
	require.NoError(t, err)
	return doc
}

func TestLedger_CreateFirstVersion(t *testing.T) {
	f := newLedgerFixture(t)

	doc := &models.Document{
		Title:       "incident playbook",
		AccessLevel: models.AccessLevelPrivate,
		UploaderID:  f.uploader.ID,
	}
	version, err := f.ledger.CreateFirstVersion(
		context.Background(), doc, f.uploader.ID, "blob-a", "playbook.md")
	require.NoError(t, err)

	assert.Equal(t, 1, version.VersionNumber)
	assert.Equal(t, doc.ID, version.DocumentID)
	assert.Equal(t, "blob-a", version.ContentRef)

	// The committed document must already point at version 1.
	stored, err := models.GetDocumentByID(f.db, doc.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.CurrentVersionID)
	assert.Equal(t, version.ID, *stored.CurrentVersionID)
}

func TestLedger_AppendVersion_Sequential(t *testing.T) {
	f := newLedgerFixture(t)
	doc := f.createDocument(t)

	const appends = 4
	for i := 0; i < appends; i++ {
		ref := fmt.Sprintf("ref-%d", i+2)
		version, err := f.ledger.AppendVersion(
			context.Background(), doc, f.uploader.ID, ref, "runbook.md")
		require.NoError(t, err)
		assert.Equal(t, i+2, version.VersionNumber)

		stored, err := models.GetDocumentByID(f.db, doc.ID)
		require.NoError(t, err)
		require.NotNil(t, stored.CurrentVersionID)
		assert.Equal(t, version.ID, *stored.CurrentVersionID,
			"pointer follows the just-created version")
	}

	versions, err := f.ledger.ListVersions(context.Background(), doc.ID)
	require.NoError(t, err)
	require.Len(t, versions, appends+1)
	for i, v := range versions {
		assert.Equal(t, i+1, v.VersionNumber, "ascending, no gaps, no reuse")
	}
}

func TestLedger_AppendVersion_Concurrent(t *testing.T) {
	f := newLedgerFixture(t)
	doc := f.createDocument(t)

	const workers = 24
	var wg sync.WaitGroup
	errs := make(chan error, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			d := &models.Document{ID: doc.ID}
			_, err := f.ledger.AppendVersion(
				context.Background(), d, f.uploader.ID,
				fmt.Sprintf("ref-%d", n), "runbook.md")
			errs <- err
		}(i)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}

	versions, err := f.ledger.ListVersions(context.Background(), doc.ID)
	require.NoError(t, err)
	require.Len(t, versions, workers+1)

	seen := make(map[int]bool)
	for _, v := range versions {
		assert.False(t, seen[v.VersionNumber],
			"version number %d assigned twice", v.VersionNumber)
		seen[v.VersionNumber] = true
	}
	for n := 1; n <= workers+1; n++ {
		assert.True(t, seen[n], "version number %d missing", n)
	}
}

func TestLedger_ListVersions_Rereadable(t *testing.T) {
	f := newLedgerFixture(t)
	doc := f.createDocument(t)
	_, err := f.ledger.AppendVersion(
		context.Background(), doc, f.uploader.ID, "ref-2", "runbook.md")
	require.NoError(t, err)

	first, err := f.ledger.ListVersions(context.Background(), doc.ID)
	require.NoError(t, err)
	second, err := f.ledger.ListVersions(context.Background(), doc.ID)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestLedger_GetVersion(t *testing.T) {
	f := newLedgerFixture(t)
	doc := f.createDocument(t)

	t.Run("existing version", func(t *testing.T) {
		version, err := f.ledger.GetVersion(context.Background(), doc.ID, 1)
		require.NoError(t, err)
		assert.Equal(t, "ref-1", version.ContentRef)
	})

	t.Run("missing version", func(t *testing.T) {
		_, err := f.ledger.GetVersion(context.Background(), doc.ID, 99)
		assert.ErrorIs(t, err, apierr.ErrNotFound)
	})
}

func TestLedger_DeleteDocument_Cascades(t *testing.T) {
	f := newLedgerFixture(t)
	doc := f.createDocument(t)

	ctx := context.Background()
	for i := 0; i < 2; i++ {
		_, err := f.ledger.AppendVersion(
			ctx, doc, f.uploader.ID, fmt.Sprintf("ref-%d", i+2), "runbook.md")
		require.NoError(t, err)
	}

	tag := &models.Tag{Name: "ops"}
	require.NoError(t, f.db.Create(tag).Error)
	require.NoError(t, f.db.Create(&models.DocumentTag{
		DocumentID: doc.ID, TagID: tag.ID,
	}).Error)
	require.NoError(t, f.db.Create(&models.DocumentUserPermission{
		DocumentID: doc.ID, UserID: f.uploader.ID,
	}).Error)
	require.NoError(t, f.db.Create(&models.DocumentDepartmentPermission{
		DocumentID: doc.ID, DepartmentID: f.uploader.DepartmentID,
	}).Error)

	require.NoError(t, f.ledger.DeleteDocument(ctx, doc.ID))

	_, err := models.GetDocumentByID(f.db, doc.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	versions, err := f.ledger.ListVersions(ctx, doc.ID)
	require.NoError(t, err)
	assert.Empty(t, versions)

	var n int64
	require.NoError(t, f.db.Model(&models.DocumentTag{}).
		Where("document_id = ?", doc.ID).Count(&n).Error)
	assert.Zero(t, n)
	require.NoError(t, f.db.Model(&models.DocumentUserPermission{}).
		Where("document_id = ?", doc.ID).Count(&n).Error)
	assert.Zero(t, n)
	require.NoError(t, f.db.Model(&models.DocumentDepartmentPermission{}).
		Where("document_id = ?", doc.ID).Count(&n).Error)
	assert.Zero(t, n)

	// The tag itself survives; only the link was document-owned.
	var tags int64
	require.NoError(t, f.db.Model(&models.Tag{}).Count(&tags).Error)
	assert.EqualValues(t, 1, tags)
}
