package server

import (
	"github.com/hashicorp/go-hclog"
	"gorm.io/gorm"

	"github.com/hashicorp-forge/docrepo/internal/auth"
	"github.com/hashicorp-forge/docrepo/internal/catalog"
	"github.com/hashicorp-forge/docrepo/internal/config"
	"github.com/hashicorp-forge/docrepo/internal/directory"
	"github.com/hashicorp-forge/docrepo/pkg/blobstore"
)

// Server bundles everything HTTP handlers need.
type Server struct {
	// Config is the config for the server.
	Config *config.Config

	// DB is the database for the server.
	DB *gorm.DB

	// Logger is the logger for the server.
	Logger hclog.Logger

	// Blobs is the content-addressable blob store backing version content.
	Blobs *blobstore.Store

	// Tokens issues and validates bearer tokens.
	Tokens *auth.TokenIssuer

	// Catalog orchestrates document operations.
	Catalog *catalog.Catalog

	// Directory manages users, roles, and departments.
	Directory *directory.Directory
}
