// Package config loads and validates the server's HCL configuration.
package config

import (
	"fmt"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/hashicorp/hcl/v2/hclsimple"
)

// Config is the top-level server configuration.
type Config struct {
	// BaseURL is the base URL used in external references to the server.
	BaseURL string `hcl:"base_url,optional"`

	// ListenAddr is the address the HTTP server binds, e.g. ":8000".
	ListenAddr string `hcl:"listen_addr,optional"`

	// LogLevel is the hclog level name (trace, debug, info, warn, error).
	LogLevel string `hcl:"log_level,optional"`

	// BlobDir is the directory backing the content-addressable blob store.
	BlobDir string `hcl:"blob_dir,optional"`

	Auth     *Auth     `hcl:"auth,block"`
	Postgres *Postgres `hcl:"postgres,block"`
}

// Auth configures token issuance.
type Auth struct {
	// TokenSecret signs bearer tokens.
	TokenSecret string `hcl:"token_secret"`

	// TokenTTL is the token lifetime, e.g. "24h".
	TokenTTL string `hcl:"token_ttl,optional"`
}

// Postgres configures the database connection.
type Postgres struct {
	Host     string `hcl:"host"`
	Port     int    `hcl:"port,optional"`
	User     string `hcl:"user"`
	Password string `hcl:"password,optional"`
	DBName   string `hcl:"dbname"`
	SSLMode  string `hcl:"sslmode,optional"`
}

// NewConfig parses an HCL configuration file and applies defaults.
func NewConfig(path string) (*Config, error) {
	var cfg Config
	if err := hclsimple.DecodeFile(path, nil, &cfg); err != nil {
		return nil, fmt.Errorf("error decoding configuration file: %w", err)
	}

	if cfg.ListenAddr == "" {
		cfg.ListenAddr = ":8000"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.BlobDir == "" {
		cfg.BlobDir = "blobs"
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate collects every configuration problem instead of stopping at the
// first.
func (c *Config) Validate() error {
	var result *multierror.Error

	if c.Auth == nil {
		result = multierror.Append(result,
			fmt.Errorf("auth block is required"))
	} else {
		if c.Auth.TokenSecret == "" {
			result = multierror.Append(result,
				fmt.Errorf("auth.token_secret is required"))
		}
		if c.Auth.TokenTTL != "" {
			if _, err := time.ParseDuration(c.Auth.TokenTTL); err != nil {
				result = multierror.Append(result,
					fmt.Errorf("auth.token_ttl is not a duration: %w", err))
			}
		}
	}

	if c.Postgres == nil {
		result = multierror.Append(result,
			fmt.Errorf("postgres block is required"))
	} else {
		if c.Postgres.Host == "" {
			result = multierror.Append(result,
				fmt.Errorf("postgres.host is required"))
		}
		if c.Postgres.User == "" {
			result = multierror.Append(result,
				fmt.Errorf("postgres.user is required"))
		}
		if c.Postgres.DBName == "" {
			result = multierror.Append(result,
				fmt.Errorf("postgres.dbname is required"))
		}
	}

	return result.ErrorOrNil()
}

// TokenTTL returns the parsed token lifetime, or zero when unset.
func (c *Config) TokenTTL() time.Duration {
	if c.Auth == nil || c.Auth.TokenTTL == "" {
		return 0
	}
	ttl, err := time.ParseDuration(c.Auth.TokenTTL)
	if err != nil {
		return 0
	}
	return ttl
}
