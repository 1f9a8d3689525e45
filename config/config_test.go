package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/kbukum/harvest/errors"
	"github.com/kbukum/harvest/governor"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

func TestBaseConfigApplyDefaults(t *testing.T) {
	t.Run("empty environment defaults to development", func(t *testing.T) {
		cfg := BaseConfig{Name: "svc"}
		cfg.ApplyDefaults()
		if cfg.Environment != "development" {
			t.Errorf("expected 'development', got %q", cfg.Environment)
		}
		if !cfg.Debug {
			t.Error("expected debug=true for development")
		}
	})

	t.Run("production environment keeps debug false", func(t *testing.T) {
		cfg := BaseConfig{Name: "svc", Environment: "production"}
		cfg.ApplyDefaults()
		if cfg.Debug {
			t.Error("expected debug=false for production")
		}
	})
}

func TestBaseConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     BaseConfig
		wantErr bool
		errMsg  string
	}{
		{"valid development", BaseConfig{Name: "svc", Environment: "development"}, false, ""},
		{"valid staging", BaseConfig{Name: "svc", Environment: "staging"}, false, ""},
		{"valid production", BaseConfig{Name: "svc", Environment: "production"}, false, ""},
		{"missing name", BaseConfig{Environment: "production"}, true, "base.name"},
		{"missing environment", BaseConfig{Name: "svc"}, true, "base.environment: is required"},
		{"invalid environment", BaseConfig{Name: "svc", Environment: "invalid"}, true, "base.environment: must be one of"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.Validate()
			if tc.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				if !strings.Contains(err.Error(), tc.errMsg) {
					t.Errorf("expected error containing %q, got %q", tc.errMsg, err.Error())
				}
			} else if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

const engineYAML = `
base:
  name: harvest
  environment: staging
logging:
  level: debug
  format: json
governors:
  brands:
    max_concurrent: 10
  products:
    max_concurrent: 5
    min_delay: 100ms
    max_delay: 5s
  api:
    strategy: paced
    max_concurrent: 2
    rate: 4
    burst: 2
  local: {}
`

func TestLoadEngineConfig(t *testing.T) {
	path := writeFile(t, t.TempDir(), "config.yml", engineYAML)

	cfg, err := Load("harvest", WithConfigFile(path), WithEnvPrefix("HARVEST_TEST_UNUSED"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Base.Name != "harvest" || cfg.Base.Environment != "staging" {
		t.Errorf("unexpected base %+v", cfg.Base)
	}
	if cfg.Logging.Level != "debug" || cfg.Logging.Format != "json" {
		t.Errorf("unexpected logging %+v", cfg.Logging)
	}
	if got := strings.Join(cfg.GovernorNames(), ","); got != "api,brands,local,products" {
		t.Errorf("unexpected governors %s", got)
	}

	products := cfg.Governors["products"]
	if products.Strategy != governor.StrategyJittered {
		t.Errorf("expected inferred jittered strategy, got %q", products.Strategy)
	}
	if products.MinDelay != 100*time.Millisecond || products.MaxDelay != 5*time.Second {
		t.Errorf("expected durations decoded from strings, got %v/%v", products.MinDelay, products.MaxDelay)
	}
	if cfg.Governors["brands"].Strategy != governor.StrategyBounded {
		t.Errorf("expected bounded brands, got %q", cfg.Governors["brands"].Strategy)
	}
	if cfg.Governors["local"].Strategy != governor.StrategyUnbounded {
		t.Errorf("expected unbounded local, got %q", cfg.Governors["local"].Strategy)
	}
	if api := cfg.Governors["api"]; api.Rate != 4 || api.Burst != 2 {
		t.Errorf("unexpected api governor %+v", api)
	}
}

func TestBuildGovernors(t *testing.T) {
	path := writeFile(t, t.TempDir(), "config.yml", engineYAML)
	cfg, err := Load("harvest", WithConfigFile(path))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	reg, err := cfg.BuildGovernors()
	if err != nil {
		t.Fatalf("BuildGovernors failed: %v", err)
	}
	products := reg.MustGet("products")
	if products.Name() != "products" || products.Limit() != 5 {
		t.Errorf("unexpected products governor %s/%d", products.Name(), products.Limit())
	}
	if _, ok := products.(*governor.Jittered); !ok {
		t.Errorf("expected jittered governor, got %T", products)
	}
	if _, ok := reg.MustGet("api").(*governor.Paced); !ok {
		t.Errorf("expected paced api governor")
	}
	if reg.MustGet("local").Limit() != 0 {
		t.Error("expected unbounded local governor")
	}
}

func TestLoadRejectsInvalidGovernor(t *testing.T) {
	path := writeFile(t, t.TempDir(), "config.yml", `
base:
  name: harvest
governors:
  products:
    min_delay: 5s
    max_delay: 1s
`)
	_, err := Load("harvest", WithConfigFile(path))
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !strings.Contains(err.Error(), "config.governors.products") || !strings.Contains(err.Error(), "min_delay") {
		t.Errorf("expected error naming the governor and field, got %q", err.Error())
	}
	if !errors.IsCode(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("expected INVALID_CONFIG in chain, got %v", err)
	}
}

func TestLoadRejectsBadDuration(t *testing.T) {
	path := writeFile(t, t.TempDir(), "config.yml", `
governors:
  products:
    max_delay: soon
`)
	_, err := Load("harvest", WithConfigFile(path))
	if err == nil {
		t.Fatal("expected decode error")
	}
	if !errors.IsCode(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("expected INVALID_CONFIG, got %v", err)
	}
}

func TestLoadDefaultsName(t *testing.T) {
	path := writeFile(t, t.TempDir(), "config.yml", "logging:\n  level: warn\n")
	cfg, err := Load("harvest", WithConfigFile(path))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Base.Name != "harvest" || cfg.Base.Environment != "development" {
		t.Errorf("unexpected base %+v", cfg.Base)
	}
	if cfg.Logging.Format != "console" {
		t.Errorf("expected default console format, got %q", cfg.Logging.Format)
	}
}

func TestEnvOverridesExistingKeys(t *testing.T) {
	path := writeFile(t, t.TempDir(), "config.yml", engineYAML)
	t.Setenv("HARVEST_GOVERNORS_PRODUCTS_MAX_DELAY", "2s")
	t.Setenv("HARVEST_GOVERNORS_BRANDS_MAX_CONCURRENT", "3")
	t.Setenv("HARVEST_GOVERNORS_NEWONE_RATE", "9")

	cfg, err := Load("harvest", WithConfigFile(path), WithEnvPrefix("harvest"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if got := cfg.Governors["products"].MaxDelay; got != 2*time.Second {
		t.Errorf("expected env override 2s, got %v", got)
	}
	if got := cfg.Governors["brands"].MaxConcurrent; got != 3 {
		t.Errorf("expected env override 3, got %d", got)
	}
	if _, ok := cfg.Governors["newone"]; ok {
		t.Error("env vars must not create governors absent from the file")
	}
	if _, ok := cfg.Governors["newone_rate"]; ok {
		t.Error("env key variants must not create bogus entries")
	}
}

func TestEnvFileLoaded(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "config.yml", engineYAML)
	envPath := writeFile(t, dir, ".env", "HARVEST_ENVFILE_LOGGING_LEVEL=error\n")
	t.Cleanup(func() { os.Unsetenv("HARVEST_ENVFILE_LOGGING_LEVEL") })

	cfg, err := Load("harvest", WithConfigFile(path), WithEnvFile(envPath), WithEnvPrefix("HARVEST_ENVFILE"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Logging.Level != "error" {
		t.Errorf("expected level from .env, got %q", cfg.Logging.Level)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	type TestConfig struct {
		Base BaseConfig `yaml:"base" mapstructure:"base"`
	}

	var cfg TestConfig
	// With no config file found, LoadConfig should still succeed (just empty config)
	err := LoadConfig("nonexistent-service", &cfg, WithConfigFile("/nonexistent/path.yml"))
	if err != nil {
		t.Fatalf("expected LoadConfig to succeed with missing file, got %v", err)
	}
}

func TestResolverWithMockFS(t *testing.T) {
	t.Setenv(PathEnv, "")
	fs := &mockFS{files: map[string]bool{
		"./config/my-svc.yml": true,
		"./config/config.yml": true,
		"./config/.env":       true,
	}}
	resolver := &Resolver{FileSystem: fs}
	files := resolver.ResolveFiles("my-svc", LoaderConfig{})
	if files.ConfigFile != "./config/my-svc.yml" {
		t.Errorf("expected ./config/my-svc.yml, got %q", files.ConfigFile)
	}
	if files.EnvFile != "./config/.env" {
		t.Errorf("expected ./config/.env, got %q", files.EnvFile)
	}
}

func TestResolverPrefersWorkingDirectory(t *testing.T) {
	t.Setenv(PathEnv, "")
	fs := &mockFS{files: map[string]bool{
		"./config.yaml":       true,
		"./config/config.yml": true,
		"./.env.my-svc":       true,
		"./.env":              true,
	}}
	files := (&Resolver{FileSystem: fs}).ResolveFiles("my-svc", LoaderConfig{})
	if files.ConfigFile != "./config.yaml" || files.EnvFile != "./.env.my-svc" {
		t.Errorf("unexpected resolution %+v", files)
	}
}

func TestResolverNothingFound(t *testing.T) {
	t.Setenv(PathEnv, "")
	files := (&Resolver{FileSystem: &mockFS{}}).ResolveFiles("my-svc", LoaderConfig{})
	if files.ConfigFile != "" || files.EnvFile != "" {
		t.Errorf("expected nothing resolved, got %+v", files)
	}
}

func TestResolverExplicitPaths(t *testing.T) {
	t.Setenv(PathEnv, "from-env.yml")
	resolver := &Resolver{FileSystem: &mockFS{}}
	files := resolver.ResolveFiles("svc", LoaderConfig{ConfigFile: "a.yml", EnvFile: "b.env"})
	if files.ConfigFile != "a.yml" || files.EnvFile != "b.env" {
		t.Errorf("expected explicit paths to win, got %+v", files)
	}
}

func TestPathEnv(t *testing.T) {
	path := writeFile(t, t.TempDir(), "engine.yml", engineYAML)
	t.Setenv(PathEnv, path)

	cfg, err := Load("harvest", WithEnvPrefix("HARVEST_TEST_UNUSED"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Base.Environment != "staging" {
		t.Errorf("expected config from %s, got %+v", PathEnv, cfg.Base)
	}
}

func TestLoadRejectsMalformedFile(t *testing.T) {
	path := writeFile(t, t.TempDir(), "config.yml", "governors: [unclosed\n")
	_, err := Load("harvest", WithConfigFile(path))
	if err == nil {
		t.Fatal("expected read error")
	}
	if !errors.IsCode(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("expected INVALID_CONFIG, got %v", err)
	}
}

type mockFS struct {
	files map[string]bool
}

func (m *mockFS) Exists(path string) bool  { return m.files[path] }
func (m *mockFS) LoadEnv(path string) error { return nil }

func TestLoaderOptions(t *testing.T) {
	var lc LoaderConfig
	fs := &mockFS{}
	WithFileSystem(fs)(&lc)
	WithConfigFile("/path/to/config.yml")(&lc)
	WithEnvFile("/path/to/.env")(&lc)
	WithEnvPrefix("harvest")(&lc)

	if lc.FileSystem == nil {
		t.Error("expected FileSystem to be set")
	}
	if lc.ConfigFile != "/path/to/config.yml" || lc.EnvFile != "/path/to/.env" {
		t.Errorf("unexpected paths %+v", lc)
	}
	if lc.EnvPrefix != "HARVEST" {
		t.Errorf("expected upper-cased prefix, got %q", lc.EnvPrefix)
	}
}
