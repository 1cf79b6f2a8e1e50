// Package server implements the `docrepo server` command: it loads
// configuration, connects and migrates the database, assembles the core
// services, and runs the HTTP API.
package server

import (
	"flag"
	"fmt"
	"net/http"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/mitchellh/cli"

	"github.com/hashicorp-forge/docrepo/internal/access"
	apiv1 "github.com/hashicorp-forge/docrepo/internal/api/v1"
	"github.com/hashicorp-forge/docrepo/internal/auth"
	"github.com/hashicorp-forge/docrepo/internal/catalog"
	"github.com/hashicorp-forge/docrepo/internal/config"
	"github.com/hashicorp-forge/docrepo/internal/directory"
	"github.com/hashicorp-forge/docrepo/internal/ledger"
	intsrv "github.com/hashicorp-forge/docrepo/internal/server"
	"github.com/hashicorp-forge/docrepo/pkg/blobstore"
	"github.com/hashicorp-forge/docrepo/pkg/database"
)

type Command struct {
	UI  cli.Ui
	Log hclog.Logger

	flagConfig string
}

func (c *Command) Synopsis() string {
	return "Run the docrepo server"
}

func (c *Command) Help() string {
	return `Usage: docrepo server -config=<path>

  Runs the document-management API server using the provided HCL
  configuration file.
`
}

func (c *Command) flags() *flag.FlagSet {
	f := flag.NewFlagSet("server", flag.ContinueOnError)
	f.StringVar(&c.flagConfig, "config", "config.hcl",
		"Path to the configuration file")
	return f
}

func (c *Command) Run(args []string) int {
	f := c.flags()
	if err := f.Parse(args); err != nil {
		c.UI.Error(fmt.Sprintf("error parsing flags: %v", err))
		return 1
	}

	cfg, err := config.NewConfig(c.flagConfig)
	if err != nil {
		c.UI.Error(fmt.Sprintf("error loading configuration: %v", err))
		return 1
	}

	log := c.Log
	if log == nil {
		log = hclog.Default()
	}
	log.SetLevel(hclog.LevelFromString(cfg.LogLevel))

	db, err := database.Connect(database.Config{
		Host:     cfg.Postgres.Host,
		Port:     cfg.Postgres.Port,
		User:     cfg.Postgres.User,
		Password: cfg.Postgres.Password,
		DBName:   cfg.Postgres.DBName,
		SSLMode:  cfg.Postgres.SSLMode,
	}, log)
	if err != nil {
		c.UI.Error(fmt.Sprintf("error connecting to database: %v", err))
		return 1
	}
	if err := database.Migrate(db); err != nil {
		c.UI.Error(fmt.Sprintf("error migrating database: %v", err))
		return 1
	}

	blobs, err := blobstore.New(cfg.BlobDir)
	if err != nil {
		c.UI.Error(fmt.Sprintf("error opening blob store: %v", err))
		return 1
	}

	eval := access.NewEvaluator(db, log)
	led := ledger.NewLedger(db, log)

	srv := intsrv.Server{
		Config:    cfg,
		DB:        db,
		Logger:    log,
		Blobs:     blobs,
		Tokens:    auth.NewTokenIssuer(cfg.Auth.TokenSecret, cfg.TokenTTL()),
		Catalog:   catalog.NewCatalog(db, eval, led, blobs, log),
		Directory: directory.NewDirectory(db, log),
	}

	mux := http.NewServeMux()
	apiv1.RegisterRoutes(mux, srv)

	httpServer := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	log.Info("starting server", "addr", cfg.ListenAddr)
	if err := httpServer.ListenAndServe(); err != nil {
		c.UI.Error(fmt.Sprintf("server error: %v", err))
		return 1
	}
	return 0
}
