// Package config loads the optional settings file for the torrent tool.
//
// The file is read only when a path is passed explicitly (the --config
// flag). There is no search path and no environment lookup; command line
// flags override values from the file.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"torrent-inspect/internal/bencode"
	"torrent-inspect/internal/digest"
	"torrent-inspect/internal/logging"
	"torrent-inspect/internal/render"
)

type Config struct {
	// MaxDepth bounds list/dictionary nesting while decoding.
	MaxDepth int `yaml:"max_depth"`

	// HashAlgorithm is used for info-hashes. Default: sha1.
	HashAlgorithm string `yaml:"hash_algorithm"`

	// Output is the default output format (text, json, yaml, cbor, cbor-diag).
	// Empty lets each command pick its own.
	Output string `yaml:"output"`

	// LogLevel is one of debug, info, warn, error. Default: warn.
	LogLevel string `yaml:"log_level"`
}

func Default() *Config {
	return &Config{
		MaxDepth:      bencode.DefaultMaxDepth,
		HashAlgorithm: string(digest.Default),
		LogLevel:      "warn",
	}
}

// Load reads path on top of Default and validates the result.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML config data. Unknown keys are an error.
func Parse(data []byte) (*Config, error) {
	cfg := Default()

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parsing yaml: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	var errs []error

	if c.MaxDepth < 1 {
		errs = append(errs, fmt.Errorf("max_depth must be at least 1, got %d", c.MaxDepth))
	}
	if _, err := digest.ParseAlgorithm(c.HashAlgorithm); err != nil {
		errs = append(errs, fmt.Errorf("hash_algorithm: %w", err))
	}
	if c.Output != "" {
		if _, err := render.ParseFormat(c.Output); err != nil {
			errs = append(errs, fmt.Errorf("output: %w", err))
		}
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, fmt.Errorf("log_level: %w", err))
	}

	return errors.Join(errs...)
}

// Algorithm returns the parsed hash algorithm. Call after Validate.
func (c *Config) Algorithm() digest.Algorithm {
	alg, err := digest.ParseAlgorithm(c.HashAlgorithm)
	if err != nil {
		return digest.Default
	}
	return alg
}
