// config.go: engine configuration
//
// Grounded on argus's env_config.go/config.go pattern (defaults struct +
// env var overrides + optional file load) - argus layers JSON/YAML/TOML/
// HCL/INI parsing because it is itself a config-file library; this engine
// is not, so only the env var and YAML paths argus also supports are kept,
// via go.yaml.in/yaml/v3 for the optional file.
//
// Copyright (c) 2025 AGILira
// Series: AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package iotrace

import (
	"os"
	"strconv"

	"github.com/agilira/go-errors"
	"go.yaml.in/yaml/v3"
)

const (
	// defaultMaxPoolSize matches the original's
	// DEFAULT_MAX_DATA_POOL_SIZE (hook_io_handle.h:26).
	defaultMaxPoolSize = uint64(10000)
)

// AuditConfig controls the operational audit sink (audit.go).
type AuditConfig struct {
	// Enabled turns the audit sink on. Disabled by default: the sink
	// records the engine's own meta-events (init, snapshot taken,
	// destructing, overflow bursts), not accounted IO, and most embedders have no use
	// for it until they're debugging one of those conditions.
	Enabled bool `yaml:"enabled"`

	// Path is the SQLite database path when Enabled. Falls back to a
	// JSONL file at the same path with a ".jsonl" suffix if SQLite
	// cannot be opened (see audit_backend.go).
	Path string `yaml:"path"`

	// FlushEvery batches this many events per transaction before
	// flushing to the backend.
	FlushEvery int `yaml:"flush_every"`
}

// Config configures a single Engine. See NewEngine and Instance.
type Config struct {
	// MaxPoolSize bounds the accumulator's approximate element count
	// (distinct (tid, path) pairs) before RecordRW starts shedding new
	// events - spec.md §5.
	MaxPoolSize uint64 `yaml:"max_pool_size"`

	// HashBucketCount sizes every bucketedMap the engine creates
	// (registry and both accumulator sides). Spec.md §9 leaves bucket
	// count as an implementation choice; argus's internal hash maps use
	// a similar fixed-at-construction bucket count.
	HashBucketCount int `yaml:"hash_bucket_count"`

	Audit AuditConfig `yaml:"audit"`
}

// WithDefaults fills any zero-valued field with its default, returning a
// usable Config. Safe to call on a Config partially populated from env
// vars or a file.
func (c Config) WithDefaults() Config {
	if c.MaxPoolSize == 0 {
		c.MaxPoolSize = defaultMaxPoolSize
	}
	if c.HashBucketCount == 0 {
		c.HashBucketCount = defaultBucketCount
	}
	if c.Audit.FlushEvery == 0 {
		c.Audit.FlushEvery = 32
	}
	return c
}

// LoadConfigFromEnv reads IOTRACE_MAX_POOL_SIZE, IOTRACE_HASH_BUCKETS,
// IOTRACE_AUDIT_ENABLED, IOTRACE_AUDIT_PATH and IOTRACE_AUDIT_FLUSH_EVERY,
// leaving unset or unparseable variables at their zero value so
// WithDefaults can fill them in.
func LoadConfigFromEnv() Config {
	var c Config

	if v, ok := os.LookupEnv("IOTRACE_MAX_POOL_SIZE"); ok {
		if n, err := strconv.ParseUint(v, 10, 64); err == nil {
			c.MaxPoolSize = n
		}
	}
	if v, ok := os.LookupEnv("IOTRACE_HASH_BUCKETS"); ok {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.HashBucketCount = n
		}
	}
	if v, ok := os.LookupEnv("IOTRACE_AUDIT_ENABLED"); ok {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Audit.Enabled = b
		}
	}
	if v, ok := os.LookupEnv("IOTRACE_AUDIT_PATH"); ok {
		c.Audit.Path = v
	}
	if v, ok := os.LookupEnv("IOTRACE_AUDIT_FLUSH_EVERY"); ok {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.Audit.FlushEvery = n
		}
	}

	return c
}

// LoadConfigFromYAML reads a Config from a YAML file at path, for
// embedders that prefer a file over environment variables. Returns an
// ErrCodeInvalidConfig wrapped error on read or parse failure.
func LoadConfigFromYAML(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrap(err, ErrCodeInvalidConfig, "iotrace: read config file")
	}

	var c Config
	if err := yaml.Unmarshal(data, &c); err != nil {
		return Config{}, errors.Wrap(err, ErrCodeInvalidConfig, "iotrace: parse config file")
	}

	return c, nil
}
