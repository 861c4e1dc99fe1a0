package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/mvz/ripper-parser-sub000/parser"
	"github.com/mvz/ripper-parser-sub000/raw/dump"
	"gopkg.in/yaml.v3"
)

const defaultConfigFile = ".rparse.yaml"

// Output formats.
const (
	formatList   = "list"
	formatLines  = "lines"
	formatTree   = "tree"
	formatDigest = "digest"
)

// tracingKeys are the tracers of the packages of this module.
var tracingKeys = []string{
	"rparse.cli",
	"rparse.builder",
	"rparse.dump",
	"rparse.parser",
	"rparse.rewrite",
	"rparse.sexp",
}

// Config holds the settings of a run. Command line flags override values
// read from a config file.
type Config struct {
	Filename string            `yaml:"filename"`
	Lineno   int               `yaml:"lineno"`
	Numbered bool              `yaml:"numbered"`
	Format   string            `yaml:"format"`
	Jobs     int               `yaml:"jobs"`
	Trace    map[string]string `yaml:"trace"`
}

func defaultConfig() *Config {
	return &Config{
		Lineno:   1,
		Numbered: true,
		Format:   formatList,
		Jobs:     4,
		Trace:    map[string]string{},
	}
}

// loadConfig reads a config file on top of the defaults. A missing file is
// an error only if it has been named explicitly.
func loadConfig(path string) (*Config, error) {
	conf := defaultConfig()
	explicit := path != ""
	if !explicit {
		path = defaultConfigFile
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return conf, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(data, conf); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	if err := conf.validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	tracer().Debugf("loaded config from %s", path)
	return conf, nil
}

func (conf *Config) validate() error {
	switch conf.Format {
	case formatList, formatLines, formatTree, formatDigest:
	default:
		return fmt.Errorf("unknown output format %q", conf.Format)
	}
	if conf.Lineno < 1 {
		return fmt.Errorf("line number must be positive, is %d", conf.Lineno)
	}
	if conf.Jobs < 1 {
		conf.Jobs = 1
	}
	return nil
}

// parser creates a parser for a file. The configured file name, if any,
// replaces the real one.
func (conf *Config) parser(filename string) *parser.Parser {
	if conf.Filename != "" {
		filename = conf.Filename
	}
	return parser.New(
		parser.WithEngine(dump.Engine{}),
		parser.WithFilename(filename),
		parser.WithLineno(conf.Lineno),
		parser.WithNumberedParams(conf.Numbered),
	)
}
