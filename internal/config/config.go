// Package config loads bulkload configuration from bulkload.yaml,
// environment variables, and CLI flags, in ascending precedence.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// Config file names looked up in the working directory.
const (
	FileName    = "bulkload.yaml"
	FileNameAlt = "bulkload.yml"
)

// TargetConfig holds the target engine connection settings.
type TargetConfig struct {
	Type string `koanf:"type"` // sqlite, duckdb, postgres, mysql, redshift

	// File-based engines (SQLite, DuckDB)
	Path string `koanf:"path"`

	// Network engines
	Host     string `koanf:"host"`
	Port     int    `koanf:"port"`
	Database string `koanf:"database"`
	User     string `koanf:"user"`
	Password string `koanf:"password"`

	// Common
	Schema string `koanf:"schema"`

	// Additional driver-specific options
	Options map[string]string `koanf:"options"`
}

// S3Config holds object-store staging settings for the warehouse path.
type S3Config struct {
	Region string `koanf:"region"`
	Bucket string `koanf:"bucket"`
	Prefix string `koanf:"prefix"`
}

// RemoteConfig holds remote-host staging settings for engines that load
// from cluster-visible paths.
type RemoteConfig struct {
	Host string `koanf:"host"`
	Dir  string `koanf:"dir"`
}

// StagingConfig groups the staging backends.
type StagingConfig struct {
	S3     *S3Config     `koanf:"s3"`
	Remote *RemoteConfig `koanf:"remote"`
}

// Config is the full application configuration.
type Config struct {
	Target  *TargetConfig  `koanf:"target"`
	Staging *StagingConfig `koanf:"staging"`
	Verbose bool           `koanf:"verbose"`
}

// Validate checks for a usable target.
func (c *Config) Validate() error {
	if c.Target == nil || c.Target.Type == "" {
		return fmt.Errorf("target.type is required (set it in %s or via --target-type)", FileName)
	}
	return nil
}

// Load reads configuration with precedence flags > env > file.
// Env vars use the BULKLOAD_ prefix with "__" as the nesting separator,
// e.g. BULKLOAD_TARGET__TYPE=postgres.
func Load(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	if cfgFile == "" {
		for _, name := range []string{FileName, FileNameAlt} {
			if _, err := os.Stat(name); err == nil {
				cfgFile = name
				break
			}
		}
	}
	if cfgFile != "" {
		if err := k.Load(file.Provider(cfgFile), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", cfgFile, err)
		}
	}

	if err := k.Load(env.Provider("BULKLOAD_", ".", func(s string) string {
		s = strings.TrimPrefix(s, "BULKLOAD_")
		return strings.ReplaceAll(strings.ToLower(s), "__", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
			if !f.Changed {
				return "", nil
			}
			// --target-type maps to target.type, --staging-s3-bucket to
			// staging.s3.bucket, and so on.
			key := strings.ReplaceAll(f.Name, "-", ".")
			return key, posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	return &cfg, nil
}
