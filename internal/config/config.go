// Package config reads the optional defaults file for the wrapper. A missing
// file is not an error; explicit CLI flags always win over file values.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// File holds user-chosen defaults. Pointer fields distinguish "unset" from
// zero values.
type File struct {
	Compress         *bool  `yaml:"compress"`
	CompressionLevel *int   `yaml:"compression_level"`
	Depth            *int   `yaml:"depth"`
	ExportFormat     string `yaml:"export_format"`
	FilenameFormat   string `yaml:"filename_format"`
	WriteBehavior    string `yaml:"write_behavior"`
	LogLevel         string `yaml:"log_level"`
	Binary           string `yaml:"binary"`
}

// Read loads the defaults file from DCM2NIIW_CONFIG or the user config dir.
// It returns the (possibly empty) config and the path it looked at.
func Read() (File, string, error) {
	var cfg File
	path := strings.TrimSpace(os.Getenv("DCM2NIIW_CONFIG"))
	if path == "" {
		if dir, err := os.UserConfigDir(); err == nil {
			path = filepath.Join(dir, "dcm2niiw", "config.yaml")
		} else if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, ".config", "dcm2niiw", "config.yaml")
		}
	}
	if strings.TrimSpace(path) == "" {
		return cfg, "", nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, path, nil
		}
		return cfg, path, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, path, err
	}
	return cfg, path, nil
}
