package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override (CLAUDEBOX_HOME, ...).
const EnvPrefix = "CLAUDEBOX"

// HardcodedBlockedPaths are security-critical paths that CANNOT be overridden by user config.
// These paths contain credentials and secrets that should never be mounted into containers.
var HardcodedBlockedPaths = []string{
	"~/.ssh",
	"~/.aws",
	"~/.config/gcloud",
	"~/.gnupg",
	"~/.password-store",
	"~/.docker/config.json",
}

// Config represents the claudebox user configuration
type Config struct {
	Home         string        `mapstructure:"home"`
	LockTimeout  time.Duration `mapstructure:"lock_timeout"`
	Identity     Identity      `mapstructure:"identity"`
	Project      Project       `mapstructure:"project"`
	Docker       Docker        `mapstructure:"docker"`
	Networks     []string      `mapstructure:"networks"`
	Mounts       []string      `mapstructure:"mounts"`
	BlockedPaths []string      `mapstructure:"blocked_paths"`
	Log          Log           `mapstructure:"log"`
}

// Identity configures token derivation.
type Identity struct {
	HashWidth int `mapstructure:"hash_width"`
}

// Project configures how a working directory maps to a project.
type Project struct {
	UseGitRoot bool `mapstructure:"use_git_root"`
}

// Docker configures the container runtime.
type Docker struct {
	Binary       string `mapstructure:"binary"`
	BuildContext string `mapstructure:"build_context"`
}

// Log configures the rotated file log.
type Log struct {
	Level      string `mapstructure:"level"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
}

// Load reads cfgFile, or ~/.claudebox/config.yaml when cfgFile is empty,
// applies CLAUDEBOX_* environment overrides and returns the result. A missing
// default config file is not an error.
func Load(cfgFile string) (*Config, error) {
	v := viper.New()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		configDir, err := ConfigDir()
		if err != nil {
			return nil, err
		}
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(configDir)
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	// Try to read config file, but don't fail if it doesn't exist
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	home, err := homedir.Expand(cfg.Home)
	if err != nil {
		return nil, fmt.Errorf("failed to expand home %q: %w", cfg.Home, err)
	}
	cfg.Home = home

	cfg.BlockedPaths = expandPaths(cfg.BlockedPaths)

	// Merge hardcoded blocked paths (security-critical, cannot be overridden)
	cfg.BlockedPaths = mergeBlockedPaths(cfg.BlockedPaths, expandPaths(HardcodedBlockedPaths))

	return &cfg, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	v.SetDefault("home", "~/.claudebox")
	v.SetDefault("lock_timeout", "10s")
	v.SetDefault("identity.hash_width", 8)
	v.SetDefault("project.use_git_root", false)
	v.SetDefault("docker.binary", "docker")
	v.SetDefault("docker.build_context", "")
	v.SetDefault("networks", []string{"anthropic", "github", "npm", "pypi"})
	v.SetDefault("mounts", []string{})

	v.SetDefault("log.level", "info")
	v.SetDefault("log.max_size_mb", 10)
	v.SetDefault("log.max_backups", 3)

	// Blocked paths (SECURITY CRITICAL)
	blockedPaths := []string{
		"~/.ssh",
		"~/.aws",
		"~/.config/gcloud",
		"~/.gnupg",
		"~/.password-store",
		"~/.docker",
		"~/.netrc",
		"~/.npmrc",
		"~/.pypirc",
		"~/.kube",
		"~/.config/gh",
		"~/.azure",
		"~/.claudebox",
	}

	switch runtime.GOOS {
	case "darwin":
		blockedPaths = append(blockedPaths, "~/Library/Keychains")
	case "linux":
		blockedPaths = append(blockedPaths, "~/.local/share/keyrings")
	}

	v.SetDefault("blocked_paths", blockedPaths)
}

// LogFile returns the path of the rotated JSON log.
func (c *Config) LogFile() string {
	return filepath.Join(c.Home, "logs", "claudebox.log")
}

// expandPaths expands ~ in paths to home directory
func expandPaths(paths []string) []string {
	expanded := make([]string, len(paths))
	for i, path := range paths {
		expandedPath, err := homedir.Expand(path)
		if err != nil {
			expanded[i] = path
			continue
		}
		expanded[i] = expandedPath
	}
	return expanded
}

// ConfigDir returns the directory holding config.yaml.
func ConfigDir() (string, error) {
	home, err := homedir.Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".claudebox"), nil
}

// EnsureHome creates the state root if it doesn't exist
func (c *Config) EnsureHome() error {
	return os.MkdirAll(c.Home, 0o755)
}

// mergeBlockedPaths merges two lists of blocked paths, removing duplicates.
// The hardcoded paths are always included regardless of user config.
func mergeBlockedPaths(userPaths, hardcodedPaths []string) []string {
	seen := make(map[string]bool)
	result := make([]string, 0, len(userPaths)+len(hardcodedPaths))

	for _, path := range hardcodedPaths {
		if !seen[path] {
			seen[path] = true
			result = append(result, path)
		}
	}

	for _, path := range userPaths {
		if !seen[path] {
			seen[path] = true
			result = append(result, path)
		}
	}

	return result
}
