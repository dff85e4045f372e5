package iotrace

import (
	"os"
	"testing"
)

func TestConfigWithDefaultsFillsZeroFields(t *testing.T) {
	c := Config{}.WithDefaults()
	if c.MaxPoolSize != defaultMaxPoolSize {
		t.Fatalf("MaxPoolSize = %d, want %d", c.MaxPoolSize, defaultMaxPoolSize)
	}
	if c.HashBucketCount != defaultBucketCount {
		t.Fatalf("HashBucketCount = %d, want %d", c.HashBucketCount, defaultBucketCount)
	}
	if c.Audit.FlushEvery != 32 {
		t.Fatalf("Audit.FlushEvery = %d, want 32", c.Audit.FlushEvery)
	}
}

func TestConfigWithDefaultsPreservesSetFields(t *testing.T) {
	c := Config{MaxPoolSize: 500}.WithDefaults()
	if c.MaxPoolSize != 500 {
		t.Fatalf("MaxPoolSize = %d, want 500 (explicit value preserved)", c.MaxPoolSize)
	}
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("IOTRACE_MAX_POOL_SIZE", "12345")
	t.Setenv("IOTRACE_HASH_BUCKETS", "64")
	t.Setenv("IOTRACE_AUDIT_ENABLED", "true")
	t.Setenv("IOTRACE_AUDIT_PATH", "/tmp/iotrace-test-audit.db")

	c := LoadConfigFromEnv()
	if c.MaxPoolSize != 12345 {
		t.Fatalf("MaxPoolSize = %d, want 12345", c.MaxPoolSize)
	}
	if c.HashBucketCount != 64 {
		t.Fatalf("HashBucketCount = %d, want 64", c.HashBucketCount)
	}
	if !c.Audit.Enabled {
		t.Fatal("Audit.Enabled = false, want true")
	}
	if c.Audit.Path != "/tmp/iotrace-test-audit.db" {
		t.Fatalf("Audit.Path = %q, want /tmp/iotrace-test-audit.db", c.Audit.Path)
	}
}

func TestLoadConfigFromEnvIgnoresUnparseable(t *testing.T) {
	t.Setenv("IOTRACE_MAX_POOL_SIZE", "not-a-number")
	c := LoadConfigFromEnv()
	if c.MaxPoolSize != 0 {
		t.Fatalf("MaxPoolSize = %d, want 0 (unparseable env var ignored)", c.MaxPoolSize)
	}
}

func TestLoadConfigFromYAML(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/config.yaml"
	data := "max_pool_size: 999\nhash_bucket_count: 17\naudit:\n  enabled: true\n  path: /tmp/a.db\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write test config: %v", err)
	}

	c, err := LoadConfigFromYAML(path)
	if err != nil {
		t.Fatalf("LoadConfigFromYAML: %v", err)
	}
	if c.MaxPoolSize != 999 || c.HashBucketCount != 17 {
		t.Fatalf("c = %+v, want MaxPoolSize=999 HashBucketCount=17", c)
	}
	if !c.Audit.Enabled || c.Audit.Path != "/tmp/a.db" {
		t.Fatalf("c.Audit = %+v, want Enabled=true Path=/tmp/a.db", c.Audit)
	}
}

func TestLoadConfigFromYAMLMissingFile(t *testing.T) {
	_, err := LoadConfigFromYAML("/nonexistent/path/config.yaml")
	if err == nil {
		t.Fatal("expected an error for a missing config file")
	}
	if !IsErrorCode(err, ErrCodeInvalidConfig) {
		t.Fatalf("expected ErrCodeInvalidConfig, got %v", err)
	}
}
