// Package config resolves depfilter settings from layered sources.
//
// Precedence, lowest to highest:
//
//  1. Built-in defaults ([Default])
//  2. YAML file (.depfilter.yaml, or the file named by DEPFILTER_CONFIG)
//  3. Environment variables (DEPFILTER_CATALOG, DEPFILTER_DRY_RUN, ...)
//  4. Command-line flags, applied by the CLI on top of [Load]
//
// Example file:
//
//	catalog: /opt/rocm/rocm-provided.txt
//	flat_suffix: -filtered
//	backup_suffix: -original
package config

import (
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/matzehuels/depfilter/pkg/backup"
	"github.com/matzehuels/depfilter/pkg/catalog"
	"github.com/matzehuels/depfilter/pkg/errors"
	"github.com/matzehuels/depfilter/pkg/manifest"
)

// DefaultFile is the configuration file looked up in the working directory.
const DefaultFile = ".depfilter.yaml"

// Environment variables.
const (
	EnvConfig       = "DEPFILTER_CONFIG"
	EnvCatalog      = "DEPFILTER_CATALOG"
	EnvDryRun       = "DEPFILTER_DRY_RUN"
	EnvFlatSuffix   = "DEPFILTER_FLAT_SUFFIX"
	EnvBackupSuffix = "DEPFILTER_BACKUP_SUFFIX"
)

// Config holds resolved settings.
type Config struct {
	Catalog      string `yaml:"catalog"`
	DryRun       bool   `yaml:"dry_run"`
	FlatSuffix   string `yaml:"flat_suffix"`
	BackupSuffix string `yaml:"backup_suffix"`

	// Source is the configuration file that was applied, if any.
	Source string `yaml:"-"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Catalog:      catalog.DefaultFile,
		FlatSuffix:   manifest.DefaultSuffix,
		BackupSuffix: backup.DefaultSuffix,
	}
}

// Load resolves settings from the file at path and the environment.
// getenv is usually os.Getenv. A missing file is only an error when
// required is true (the user named it explicitly).
func Load(path string, required bool, getenv func(string) string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", path)
			}
			cfg.Source = path
		case os.IsNotExist(err) && !required:
		default:
			return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read %s", path)
		}
	}

	if err := cfg.applyEnv(getenv); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Path returns the configuration file to load and whether the user chose
// it explicitly through DEPFILTER_CONFIG.
func Path(getenv func(string) string) (string, bool) {
	if p := getenv(EnvConfig); p != "" {
		return p, true
	}
	return DefaultFile, false
}

func (c *Config) applyEnv(getenv func(string) string) error {
	if getenv == nil {
		return nil
	}
	if v := getenv(EnvCatalog); v != "" {
		c.Catalog = v
	}
	if v := getenv(EnvFlatSuffix); v != "" {
		c.FlatSuffix = v
	}
	if v := getenv(EnvBackupSuffix); v != "" {
		c.BackupSuffix = v
	}
	if v := getenv(EnvDryRun); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "%s", EnvDryRun)
		}
		c.DryRun = b
	}
	return nil
}

// Validate checks that the settings can be used to name files.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Catalog) == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "catalog path cannot be empty")
	}
	for name, s := range map[string]string{"flat_suffix": c.FlatSuffix, "backup_suffix": c.BackupSuffix} {
		if s == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "%s cannot be empty", name)
		}
		if strings.ContainsAny(s, `/\`) {
			return errors.New(errors.ErrCodeInvalidConfig, "%s cannot contain path separators: %q", name, s)
		}
	}
	if c.FlatSuffix == c.BackupSuffix {
		return errors.New(errors.ErrCodeInvalidConfig, "flat_suffix and backup_suffix must differ")
	}
	return nil
}
