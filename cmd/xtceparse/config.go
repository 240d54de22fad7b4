/*
NAME
  config.go

DESCRIPTION
  config.go layers an optional YAML config file under the xtceparse
  command-line flags, so the seven stream.Generator options of spec
  §4.5 can be scripted instead of re-typed on every invocation.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package main

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// config mirrors the command-line flags; a field left at its zero
// value in the YAML file falls back to the flag's own default.
type config struct {
	DefinitionPath    string            `yaml:"definition"`
	DefinitionFormat  string            `yaml:"definition_format"` // "xml" or "csv"
	AliasesPath       string            `yaml:"aliases"`
	InputPath         string            `yaml:"input"`
	OutputPath        string            `yaml:"output"`
	RootContainer     string            `yaml:"root_container"`
	HeaderNames       map[string]string `yaml:"header_name_map"`
	SkipSecondaryHdr  int               `yaml:"skip_secondary_header_bytes"`
	WordSizeBytes     int               `yaml:"word_size_bytes"`
	YieldUnrecognized bool              `yaml:"yield_unrecognized"`
	ParseHeadersOnly  bool              `yaml:"parse_headers_only"`
	ShowProgress      bool              `yaml:"show_progress"`
	LogPath           string            `yaml:"log_path"`
	LogLevel          int               `yaml:"log_level"`
}

// loadConfig reads a YAML config file. A missing path is not an error:
// it returns a zero-value config so command-line flags alone still
// work.
func loadConfig(path string) (config, error) {
	var c config
	if path == "" {
		return c, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return c, errors.Wrapf(err, "open config %q", path)
	}
	defer f.Close()
	if err := yaml.NewDecoder(f).Decode(&c); err != nil {
		return c, errors.Wrapf(err, "parse config %q", path)
	}
	return c, nil
}

// configOverrides holds the parsed command-line flags, used to fill in
// whatever the YAML config left unset.
type configOverrides struct {
	DefinitionPath    *string
	DefinitionFormat  *string
	AliasesPath       *string
	InputPath         *string
	OutputPath        *string
	RootContainer     *string
	SkipSecondaryHdr  *int
	WordSizeBytes     *int
	YieldUnrecognized *bool
	ParseHeadersOnly  *bool
	ShowProgress      *bool
	LogPath           *string
	LogLevel          *int
}

// applyConfigDefaults fills any zero-valued field of cfg with the
// corresponding command-line flag's value. A value set in the YAML
// file always wins over a flag default.
func applyConfigDefaults(cfg *config, ov configOverrides) {
	if cfg.DefinitionPath == "" {
		cfg.DefinitionPath = *ov.DefinitionPath
	}
	if cfg.DefinitionFormat == "" {
		cfg.DefinitionFormat = *ov.DefinitionFormat
	}
	if cfg.AliasesPath == "" {
		cfg.AliasesPath = *ov.AliasesPath
	}
	if cfg.InputPath == "" {
		cfg.InputPath = *ov.InputPath
	}
	if cfg.OutputPath == "" {
		cfg.OutputPath = *ov.OutputPath
	}
	if cfg.RootContainer == "" {
		cfg.RootContainer = *ov.RootContainer
	}
	if cfg.SkipSecondaryHdr == 0 {
		cfg.SkipSecondaryHdr = *ov.SkipSecondaryHdr
	}
	if cfg.WordSizeBytes == 0 {
		cfg.WordSizeBytes = *ov.WordSizeBytes
	}
	if !cfg.YieldUnrecognized {
		cfg.YieldUnrecognized = *ov.YieldUnrecognized
	}
	if !cfg.ParseHeadersOnly {
		cfg.ParseHeadersOnly = *ov.ParseHeadersOnly
	}
	if !cfg.ShowProgress {
		cfg.ShowProgress = *ov.ShowProgress
	}
	if cfg.LogPath == "" {
		cfg.LogPath = *ov.LogPath
	}
	if cfg.LogLevel == 0 {
		cfg.LogLevel = *ov.LogLevel
	}
}
