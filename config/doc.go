// Package config loads engine configuration from YAML, .env files and
// environment variables.
//
// Viper reads the YAML file named by WithConfigFile, HARVEST_CONFIG, or the
// first of ./<name>.yml, ./config.yml and the same names under ./config.
// godotenv loads a .env file, and environment variables override keys the
// file defines, with nested keys written in UPPER_SNAKE form
// (GOVERNORS_PRODUCTS_MAX_DELAY=2s).
//
// # Usage
//
//	cfg, err := config.Load("harvest", config.WithConfigFile("config.yml"))
//	reg, err := cfg.BuildGovernors()
//	products := reg.MustGet("products")
package config
