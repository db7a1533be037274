// Package config reads the optional sieve configuration file. Every value
// is a pointer so callers can tell "unset" from a zero value and only
// apply what the user actually wrote.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config mirrors $XDG_CONFIG_HOME/sieve/config.toml.
type Config struct {
	Defaults DefaultsConfig `toml:"defaults"`
	Loader   LoaderConfig   `toml:"loader"`
	Scan     ScanConfig     `toml:"scan"`
	Theme    ThemeConfig    `toml:"theme"`

	// Unknown lists keys present in the file that no field consumed.
	Unknown []string `toml:"-"`
}

// DefaultsConfig holds flag defaults shared by the commands.
type DefaultsConfig struct {
	Method           *string `toml:"method"`
	DirectoryNames   *string `toml:"directory_names"`
	UseTimestamps    *bool   `toml:"use_timestamps"`
	TimestampMaxDiff *int64  `toml:"timestamp_max_diff"`
	UseHash          *bool   `toml:"use_hash"`
	Sensitivity      *string `toml:"sensitivity"`
	HashMaxDiff      *int    `toml:"hash_max_diff"`
	Verify           *bool   `toml:"verify"`
	Workers          *int    `toml:"workers"`
	BWLimit          *string `toml:"bwlimit"`
	DryRun           *bool   `toml:"dry_run"`
}

// LoaderConfig bounds the thumbnail cache.
type LoaderConfig struct {
	Capacity  *int `toml:"capacity"`
	MaxWidth  *int `toml:"max_width"`
	MaxHeight *int `toml:"max_height"`
}

// ScanConfig restricts which files a scan picks up.
type ScanConfig struct {
	Exclude []string `toml:"exclude"`
	MinSize *string  `toml:"min_size"`
}

// ThemeConfig holds optional colors for progress output.
type ThemeConfig struct {
	Progress *string `toml:"progress"`
	Error    *string `toml:"error"`
	Done     *string `toml:"done"`
	Muted    *string `toml:"muted"`
}

// Path returns the resolved path to the config file, or "" when no home
// directory can be determined.
func Path() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "sieve", "config.toml")
}

// Load reads the config file from the XDG path. A missing file yields a
// zero Config and no error.
func Load() (Config, error) {
	path := Path()
	if path == "" {
		return Config{}, nil
	}
	return LoadFile(path)
}

// LoadFile reads the config file at path. A missing file yields a zero
// Config and no error.
func LoadFile(path string) (Config, error) {
	var cfg Config
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Config{}, nil
		}
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	for _, key := range md.Undecoded() {
		cfg.Unknown = append(cfg.Unknown, key.String())
	}
	return cfg, nil
}
