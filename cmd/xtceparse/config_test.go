package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigMissingPathIsNotAnError(t *testing.T) {
	cfg, err := loadConfig("")
	require.NoError(t, err)
	assert.Equal(t, config{}, cfg)
}

func TestLoadConfigParsesYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	const body = `
definition: defs/telemetry.xml
root_container: Root
yield_unrecognized: true
log_level: 1
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	cfg, err := loadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "defs/telemetry.xml", cfg.DefinitionPath)
	assert.Equal(t, "Root", cfg.RootContainer)
	assert.True(t, cfg.YieldUnrecognized)
	assert.Equal(t, 1, cfg.LogLevel)
}

func TestApplyConfigDefaultsFillsZeroFields(t *testing.T) {
	cfg := config{RootContainer: "FromYAML"}

	def := "flag-def"
	format := "xml"
	aliases := ""
	input := ""
	output := ""
	root := "FromFlag"
	skip := 4
	word := 0
	yield := false
	headersOnly := false
	progress := false
	logPath := "xtceparse.log"
	logLevel := 2

	applyConfigDefaults(&cfg, configOverrides{
		DefinitionPath:    &def,
		DefinitionFormat:  &format,
		AliasesPath:       &aliases,
		InputPath:         &input,
		OutputPath:        &output,
		RootContainer:     &root,
		SkipSecondaryHdr:  &skip,
		WordSizeBytes:     &word,
		YieldUnrecognized: &yield,
		ParseHeadersOnly:  &headersOnly,
		ShowProgress:      &progress,
		LogPath:           &logPath,
		LogLevel:          &logLevel,
	})

	assert.Equal(t, "flag-def", cfg.DefinitionPath, "zero-valued YAML field takes the flag default")
	assert.Equal(t, "FromYAML", cfg.RootContainer, "non-zero YAML field wins over the flag")
	assert.Equal(t, 4, cfg.SkipSecondaryHdr)
	assert.Equal(t, 2, cfg.LogLevel)
}
