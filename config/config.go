// Package config loads the optional YAML configuration file.
//
// The file is looked up in this order: an explicit path, the path in the
// SITEAUDIT_CONFIG environment variable, then siteaudit/config.yaml under
// the XDG config directories.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"github.com/fwojciec/siteaudit"
	"gopkg.in/yaml.v3"
)

// Lookup names.
const (
	AppName  = "siteaudit"
	FileName = "config.yaml"
	EnvVar   = "SITEAUDIT_CONFIG"
)

// ErrConfigNotFound is returned when an explicitly named file does not exist.
var ErrConfigNotFound = errors.New("configuration file not found")

// File is the configuration file. Zero values mean "not set".
type File struct {
	Domains       []string      `yaml:"domains"`
	Concurrency   int           `yaml:"concurrency"`
	Timeout       time.Duration `yaml:"timeout"`
	UserAgent     string        `yaml:"userAgent"`
	RetryAttempts int           `yaml:"retryAttempts"`
	RetryDelay    time.Duration `yaml:"retryDelay"`
	// Rate is requests per second per host; 0 disables limiting.
	Rate        *float64 `yaml:"rate"`
	MaxURLs     int      `yaml:"maxURLs"`
	Include     []string `yaml:"include"`
	Exclude     []string `yaml:"exclude"`
	Lighthouse  string   `yaml:"lighthouse"`
	ChromeFlags []string `yaml:"chromeFlags"`
}

// Load reads and validates the file at path. Unknown keys are rejected.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}
	return Parse(data)
}

// Parse decodes and validates configuration data. Empty data yields an
// empty File.
func Parse(data []byte) (*File, error) {
	var f File
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return nil, siteaudit.Errorf(siteaudit.EINVALID, "invalid configuration: %v", err)
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

// Validate checks value ranges and exclude patterns.
func (f *File) Validate() error {
	switch {
	case f.Concurrency < 0:
		return siteaudit.Errorf(siteaudit.EINVALID, "concurrency must not be negative")
	case f.Timeout < 0:
		return siteaudit.Errorf(siteaudit.EINVALID, "timeout must not be negative")
	case f.RetryAttempts < 0:
		return siteaudit.Errorf(siteaudit.EINVALID, "retryAttempts must not be negative")
	case f.RetryDelay < 0:
		return siteaudit.Errorf(siteaudit.EINVALID, "retryDelay must not be negative")
	case f.Rate != nil && *f.Rate < 0:
		return siteaudit.Errorf(siteaudit.EINVALID, "rate must not be negative")
	case f.MaxURLs < 0:
		return siteaudit.Errorf(siteaudit.EINVALID, "maxURLs must not be negative")
	}
	if _, err := siteaudit.NewURLFilter(f.Include, f.Exclude); err != nil {
		return err
	}
	return nil
}

// Find returns the configuration file to load, or "" if there is none.
// An explicit or environment path must exist.
func Find(explicit string, getenv func(string) string) (string, error) {
	if explicit != "" {
		return existing(explicit)
	}
	if getenv != nil {
		if p := getenv(EnvVar); p != "" {
			return existing(p)
		}
	}
	if p, err := xdg.SearchConfigFile(filepath.Join(AppName, FileName)); err == nil {
		return p, nil
	}
	return "", nil
}

// Dir returns the XDG config directory for siteaudit.
func Dir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

func existing(path string) (string, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%s: %w", path, ErrConfigNotFound)
		}
		return "", err
	}
	return path, nil
}
