/*
NAME
  xtceparse

DESCRIPTION
  xtceparse is a command-line driver for the xtceparse library: it
  loads an XTCE or CSV packet-structure definition, walks a stream of
  CCSDS Space Packets against it, and writes one JSON object per parsed
  (or unrecognized) packet.

AUTHORS
  Dan Kortschak <dan@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package main is the xtceparse command-line tool.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/ausocean/utils/logging"

	"github.com/ausocean/xtceparse/ccsds"
	"github.com/ausocean/xtceparse/stream"
	"github.com/ausocean/xtceparse/xtce"
	"github.com/ausocean/xtceparse/xtce/csvload"
	"github.com/ausocean/xtceparse/xtce/xmlload"
)

// Logging configuration, matching the teacher's cmd/rv/main.go pattern.
const (
	defaultLogPath  = "xtceparse.log"
	logMaxSizeMB    = 100
	logMaxBackups   = 5
	logMaxAgeDays   = 28
	logSuppressRepl = true
)

func main() {
	configPath := flag.String("config", "", "Path to a YAML config file overriding the flags below.")
	definitionPath := flag.String("definition", "", "Path to the XTCE XML or CSV packet-structure definition.")
	definitionFormat := flag.String("definition-format", "xml", `Definition file format: "xml" or "csv".`)
	aliasesPath := flag.String("aliases", "", "Path to a CSV field-aliases YAML file (CSV definitions only).")
	inputPath := flag.String("input", "", "Path to the CCSDS packet stream to parse; defaults to stdin.")
	outputPath := flag.String("output", "", "Path to write decoded packets as JSON lines; defaults to stdout.")
	rootContainer := flag.String("root-container", "", "Override the definition's default root container.")
	skipSecondary := flag.Int("skip-secondary-header-bytes", 0, "Bytes to skip after the primary header before parsing.")
	wordSize := flag.Int("word-size-bytes", 0, "Round each packet's framing up to a multiple of this many bytes.")
	yieldUnrecognized := flag.Bool("yield-unrecognized", false, "Emit unrecognized packets as error records instead of skipping them.")
	headersOnly := flag.Bool("headers-only", false, "Decode only the seven primary-header fields.")
	showProgress := flag.Bool("show-progress", false, "Log cumulative packet/byte counts at debug level to the log file as parsing proceeds.")
	logPath := flag.String("log-path", defaultLogPath, "Path to the rotating log file.")
	logLevel := flag.Int("log-level", int(logging.Info), "Log verbosity: 0=Debug .. 4=Fatal.")
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "xtceparse:", err)
		os.Exit(2)
	}
	applyConfigDefaults(&cfg, configOverrides{
		DefinitionPath:    definitionPath,
		DefinitionFormat:  definitionFormat,
		AliasesPath:       aliasesPath,
		InputPath:         inputPath,
		OutputPath:        outputPath,
		RootContainer:     rootContainer,
		SkipSecondaryHdr:  skipSecondary,
		WordSizeBytes:     wordSize,
		YieldUnrecognized: yieldUnrecognized,
		ParseHeadersOnly:  headersOnly,
		ShowProgress:      showProgress,
		LogPath:           logPath,
		LogLevel:          logLevel,
	})

	fileLog := &lumberjack.Logger{
		Filename:   cfg.LogPath,
		MaxSize:    logMaxSizeMB,
		MaxBackups: logMaxBackups,
		MaxAge:     logMaxAgeDays,
	}
	log := logging.New(int8(cfg.LogLevel), fileLog, logSuppressRepl)

	if cfg.DefinitionPath == "" {
		log.Fatal("xtceparse: -definition is required")
	}

	def, err := loadDefinition(cfg, log)
	if err != nil {
		log.Fatal("xtceparse: failed to load definition", "error", err)
	}

	in, closeIn, err := openInput(cfg.InputPath)
	if err != nil {
		log.Fatal("xtceparse: failed to open input", "error", err)
	}
	defer closeIn()

	out, closeOut, err := openOutput(cfg.OutputPath)
	if err != nil {
		log.Fatal("xtceparse: failed to open output", "error", err)
	}
	defer closeOut()

	if err := run(def, in, out, cfg, log); err != nil {
		log.Fatal("xtceparse: stream terminated", "error", err)
	}
}

func loadDefinition(cfg config, log logging.Logger) (*xtce.Definition, error) {
	f, err := os.Open(cfg.DefinitionPath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	switch cfg.DefinitionFormat {
	case "csv":
		aliases, err := openAliases(cfg.AliasesPath)
		if err != nil {
			return nil, err
		}
		return csvload.Load(f, aliases, log)
	default:
		return xmlload.Load(f, log)
	}
}

func openAliases(path string) (csvload.Aliases, error) {
	if path == "" {
		return nil, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return csvload.LoadAliases(f)
}

func openInput(path string) (io.Reader, func(), error) {
	if path == "" {
		return os.Stdin, func() {}, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	return f, func() { f.Close() }, nil
}

func openOutput(path string) (io.Writer, func(), error) {
	if path == "" {
		return os.Stdout, func() {}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, err
	}
	return f, func() { f.Close() }, nil
}

func run(def *xtce.Definition, in io.Reader, out io.Writer, cfg config, log logging.Logger) error {
	opts := []stream.Option{
		stream.WithYieldUnrecognizedErrors(cfg.YieldUnrecognized),
		stream.WithParseHeadersOnly(cfg.ParseHeadersOnly),
	}
	if cfg.RootContainer != "" {
		opts = append(opts, stream.WithRootContainer(cfg.RootContainer))
	}
	if cfg.SkipSecondaryHdr > 0 {
		opts = append(opts, stream.WithSkipSecondaryHeaderBytes(cfg.SkipSecondaryHdr))
	}
	if cfg.WordSizeBytes > 0 {
		opts = append(opts, stream.WithWordSizeBytes(cfg.WordSizeBytes))
	}
	if names := headerNameMap(cfg.HeaderNames); names != ccsds.FieldNames {
		opts = append(opts, stream.WithHeaderNameMap(names))
	}
	if cfg.ShowProgress {
		opts = append(opts, stream.WithProgress(func(packets, bytes int64) {
			log.Debug("progress", "packets", packets, "bytes", bytes)
		}))
	}

	g, err := stream.New(in, def, log, opts...)
	if err != nil {
		return err
	}

	w := newJSONWriter(out)
	for {
		pp, err := g.Next()
		switch {
		case err == io.EOF:
			return nil
		case err != nil:
			if uerr, ok := asUnrecognized(err); ok {
				if werr := w.writeUnrecognized(uerr); werr != nil {
					return werr
				}
				continue
			}
			return err
		}
		if werr := w.writePacket(pp); werr != nil {
			return werr
		}
	}
}

// headerNameMap expands the flat header_name_map config entries (keyed
// by canonical field name) into the positional array stream.Generator
// expects.
func headerNameMap(m map[string]string) [ccsds.FieldCount]string {
	var names [ccsds.FieldCount]string
	for i, canon := range ccsds.FieldNames {
		if v, ok := m[canon]; ok {
			names[i] = v
		}
	}
	return names
}
