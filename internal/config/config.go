package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config is the top-level configuration
type Config struct {
	Unpack     UnpackConfig     `yaml:"unpack"`
	Decompiler DecompilerConfig `yaml:"decompiler"`
	History    HistoryConfig    `yaml:"history"`
}

// UnpackConfig holds defaults for the unpack command
type UnpackConfig struct {
	OutputDir     string `yaml:"output_dir"`
	Include       string `yaml:"include"`
	Exclude       string `yaml:"exclude"`
	Template      string `yaml:"template"`
	CleanClasses  bool   `yaml:"clean_classes"`
	Archive       bool   `yaml:"archive"`
	ArchiveFormat string `yaml:"archive_format"`
}

// DecompilerConfig locates the external decompiler
type DecompilerConfig struct {
	Default       string   `yaml:"default"`
	JavaBinary    string   `yaml:"java_binary"`
	FernFlowerJar string   `yaml:"fernflower_jar"`
	CFRJar        string   `yaml:"cfr_jar"`
	ExtraArgs     []string `yaml:"extra_args"`
}

// HistoryConfig controls the unpack history database
type HistoryConfig struct {
	Enabled bool   `yaml:"enabled"`
	DBPath  string `yaml:"db_path"`
}

// Environment variables that override file settings.
const (
	EnvDecompiler    = "BOOTUNPACK_DECOMPILER"
	EnvJava          = "BOOTUNPACK_JAVA"
	EnvFernFlowerJar = "BOOTUNPACK_FERNFLOWER_JAR"
	EnvCFRJar        = "BOOTUNPACK_CFR_JAR"
	EnvDBPath        = "BOOTUNPACK_DB_PATH"
)

// DefaultConfig returns a config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Unpack: UnpackConfig{
			ArchiveFormat: "zst",
		},
		Decompiler: DecompilerConfig{
			Default:    "fernflower",
			JavaBinary: "java",
		},
		History: HistoryConfig{
			Enabled: true,
			DBPath:  defaultDBPath(),
		},
	}
}

func defaultDBPath() string {
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".local", "share", "bootunpack", "history.db")
	}
	return "bootunpack-history.db"
}

// Load reads a config file from the given path
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	return cfg, nil
}

// Save writes the config as YAML, creating parent directories
func Save(cfg *Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

// FindConfigFile searches for a config file in standard locations
func FindConfigFile() (string, error) {
	searchPaths := []string{
		"bootunpack.yaml",
		"/etc/bootunpack/bootunpack.yaml",
	}

	// Add user config path
	if home, err := os.UserHomeDir(); err == nil {
		searchPaths = append(searchPaths,
			filepath.Join(home, ".config", "bootunpack", "bootunpack.yaml"),
		)
	}

	for _, path := range searchPaths {
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}

	return "", fmt.Errorf("no config file found (searched: %v)", searchPaths)
}

// LoadDotEnv loads variables from the given .env files into the process
// environment without overriding variables that are already set. Missing
// files are ignored.
func LoadDotEnv(paths ...string) error {
	var existing []string
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			existing = append(existing, p)
		}
	}
	if len(existing) == 0 {
		return nil
	}
	if err := godotenv.Load(existing...); err != nil {
		return fmt.Errorf("loading env files: %w", err)
	}
	return nil
}

// ApplyEnv overrides settings from BOOTUNPACK_* environment variables
func (c *Config) ApplyEnv(getenv func(string) string) {
	set := func(dst *string, key string) {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			*dst = v
		}
	}
	set(&c.Decompiler.Default, EnvDecompiler)
	set(&c.Decompiler.JavaBinary, EnvJava)
	set(&c.Decompiler.FernFlowerJar, EnvFernFlowerJar)
	set(&c.Decompiler.CFRJar, EnvCFRJar)
	set(&c.History.DBPath, EnvDBPath)
}
