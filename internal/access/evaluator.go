// Package access implements the access-control evaluation for documents.
// The evaluator is a decision function over already-resolved user and
// document values plus one existence lookup against the grant store; it has
// no other side effects and never errors on denial.
package access

import (
	"github.com/hashicorp/go-hclog"
	"gorm.io/gorm"

	"github.com/hashicorp-forge/docrepo/pkg/models"
)

// Permission is the class of operation being requested.
type Permission string

const (
	PermissionView Permission = "view"
	PermissionEdit Permission = "edit"
)

// Evaluator decides allow/deny for a (user, document) pair.
type Evaluator struct {
	db  *gorm.DB
	log hclog.Logger
}

// NewEvaluator returns an evaluator that checks grant-row existence against
// the given database.
func NewEvaluator(db *gorm.DB, log hclog.Logger) *Evaluator {
	return &Evaluator{
		db:  db,
		log: log.Named("access"),
	}
}

// CanAccess reports whether user may perform perm against doc. The caller
// must pass the user with Role and Department resolved and the document with
// its Uploader (and the uploader's department) resolved; the evaluator never
// traverses lazy associations.
//
// Rules are ordered and first match wins:
//
//  1. admin role: allow unconditionally
//  2. public document: allow
//  3. department document: allow same-department-as-uploader, else allow if
//     a department grant row exists, else deny
//  4. private document: allow the uploader, else allow if a user grant row
//     exists, else deny
//  5. unrecognized access level: deny (fail closed)
//
// A grant row of either declared level (view or edit) satisfies both
// permission classes; the perm argument is accepted for the call-site
// contract but not discriminated on.
//
// The only error path is a grant-store lookup failure; denial itself is a
// false return, never an error.
func (e *Evaluator) CanAccess(user *models.User, doc *models.Document, perm Permission) (bool, error) {
	if user.Role.IsAdmin() {
		return true, nil
	}

	switch doc.AccessLevel {
	case models.AccessLevelPublic:
		return true, nil

	case models.AccessLevelDepartment:
		if doc.Uploader != nil && user.DepartmentID == doc.Uploader.DepartmentID {
			return true, nil
		}
		granted, err := models.DepartmentGrantExists(e.db, doc.ID, user.DepartmentID)
		if err != nil {
			return false, err
		}
		return granted, nil

	case models.AccessLevelPrivate:
		if user.ID == doc.UploaderID {
			return true, nil
		}
		granted, err := models.UserGrantExists(e.db, doc.ID, user.ID)
		if err != nil {
			return false, err
		}
		return granted, nil

	default:
		e.log.Warn("denying access for unrecognized access level",
			"document_id", doc.ID,
			"access_level", doc.AccessLevel,
		)
		return false, nil
	}
}
