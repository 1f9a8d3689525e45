package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/kbukum/harvest/errors"
	"github.com/kbukum/harvest/logger"
)

// PathEnv names an environment variable holding the config file path. It is
// consulted when no explicit file is given.
const PathEnv = "HARVEST_CONFIG"

// FileSystem abstracts the file operations of the loader.
type FileSystem interface {
	Exists(path string) bool
	LoadEnv(path string) error
}

// RealFileSystem is the FileSystem backed by the OS.
type RealFileSystem struct{}

func (RealFileSystem) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func (RealFileSystem) LoadEnv(path string) error {
	return godotenv.Load(path)
}

// Resolver finds the config and .env files of a run.
type Resolver struct {
	FileSystem FileSystem
}

// ResolvedFiles holds the files a load will read. Empty means none found.
type ResolvedFiles struct {
	ConfigFile string
	EnvFile    string
}

// ResolveFiles returns the explicit paths in opts, falling back to PathEnv
// for the config file and then to the first existing candidate:
//
//	./<name>.yml  ./config.yml  ./config/<name>.yml  ./config/config.yml
//	./.env.<name> ./.env        ./config/.env.<name> ./config/.env
//
// .yaml is accepted wherever .yml is.
func (r *Resolver) ResolveFiles(name string, opts LoaderConfig) ResolvedFiles {
	files := ResolvedFiles{ConfigFile: opts.ConfigFile, EnvFile: opts.EnvFile}
	if files.ConfigFile == "" {
		files.ConfigFile = os.Getenv(PathEnv)
	}
	if files.ConfigFile == "" {
		files.ConfigFile = r.first(configCandidates(name))
	}
	if files.EnvFile == "" {
		files.EnvFile = r.first(envCandidates(name))
	}
	return files
}

func (r *Resolver) first(paths []string) string {
	for _, p := range paths {
		if r.FileSystem.Exists(p) {
			return p
		}
	}
	return ""
}

var searchDirs = []string{".", "./config"}

func configCandidates(name string) []string {
	bases := []string{"config"}
	if name != "" && name != "config" {
		bases = []string{name, "config"}
	}
	var paths []string
	for _, dir := range searchDirs {
		for _, base := range bases {
			paths = append(paths, dir+"/"+base+".yml", dir+"/"+base+".yaml")
		}
	}
	return paths
}

func envCandidates(name string) []string {
	var paths []string
	for _, dir := range searchDirs {
		if name != "" {
			paths = append(paths, dir+"/.env."+name)
		}
		paths = append(paths, dir+"/.env")
	}
	return paths
}

// LoaderConfig holds dependencies and optional file overrides.
type LoaderConfig struct {
	FileSystem FileSystem
	ConfigFile string
	EnvFile    string
	// EnvPrefix, when set, is required on env vars that override config keys.
	EnvPrefix string
}

// LoaderOption configures LoadConfig.
type LoaderOption func(*LoaderConfig)

// WithFileSystem replaces the OS filesystem.
func WithFileSystem(fs FileSystem) LoaderOption {
	return func(lc *LoaderConfig) { lc.FileSystem = fs }
}

// WithConfigFile sets an explicit config file path.
func WithConfigFile(path string) LoaderOption {
	return func(lc *LoaderConfig) { lc.ConfigFile = path }
}

// WithEnvFile sets an explicit .env file path.
func WithEnvFile(path string) LoaderOption {
	return func(lc *LoaderConfig) { lc.EnvFile = path }
}

// WithEnvPrefix makes overrides read HARVEST_GOVERNORS_A_RATE instead of
// GOVERNORS_A_RATE for prefix "harvest".
func WithEnvPrefix(prefix string) LoaderOption {
	return func(lc *LoaderConfig) { lc.EnvPrefix = strings.ToUpper(prefix) }
}

// LoadConfig reads the resolved .env and YAML files for name into cfg.
// Environment variables override keys the YAML file defines; a key such as
// governors.products.max_delay is read from GOVERNORS_PRODUCTS_MAX_DELAY.
// A missing file is not an error, an unreadable or undecodable one is.
func LoadConfig(name string, cfg any, opts ...LoaderOption) error {
	lc := LoaderConfig{FileSystem: RealFileSystem{}}
	for _, opt := range opts {
		opt(&lc)
	}
	if lc.FileSystem == nil {
		lc.FileSystem = RealFileSystem{}
	}

	resolver := &Resolver{FileSystem: lc.FileSystem}
	return load(name, cfg, resolver.ResolveFiles(name, lc), lc)
}

func load(name string, cfg any, files ResolvedFiles, lc LoaderConfig) error {
	log := logger.Get("config")

	// .env first so its variables take part in the overrides below.
	if files.EnvFile != "" && lc.FileSystem.Exists(files.EnvFile) {
		if err := lc.FileSystem.LoadEnv(files.EnvFile); err != nil {
			log.Warn("failed to load .env file", logger.Fields(
				"file", files.EnvFile,
				logger.FieldError, err.Error(),
			))
		}
	}

	v := viper.New()
	if files.ConfigFile != "" && lc.FileSystem.Exists(files.ConfigFile) {
		v.SetConfigFile(files.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			return errors.InvalidConfig("", fmt.Sprintf("failed to read %s", files.ConfigFile)).WithCause(err)
		}
	}

	if lc.EnvPrefix != "" {
		v.SetEnvPrefix(lc.EnvPrefix)
	}
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.Unmarshal(cfg); err != nil {
		return errors.InvalidConfig("", fmt.Sprintf("failed to decode config for %s", name)).WithCause(err)
	}

	log.Debug("config loaded", logger.Fields(
		"name", name,
		"file", files.ConfigFile,
		"env_file", files.EnvFile,
	))
	return nil
}
