package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	// EnvPrefix is prepended to every environment variable the tool reads
	EnvPrefix = "SAVEDATAMGR_"

	// FileName is the config file looked up beside the executable and in the working directory
	FileName = "savedatamgr.yaml"

	DefaultVendor          = "GameCreatorNeko"
	DefaultProduct         = "WomanCommunication"
	DefaultCheckpointsName = "checkpoints"
	DefaultProgressSteps   = 50
	DefaultProgressDelay   = 50 * time.Millisecond
	DefaultProgressMessage = "Initializing world..."
)

// Config holds all configuration options for the savedata manager
type Config struct {
	// Game identifies the live save directory under LocalLow
	Game GameConfig `yaml:"game" json:"game"`

	// Paths overrides the locations normally taken from the host environment
	Paths PathsConfig `yaml:"paths" json:"paths"`

	// Progress controls the copy animation
	Progress ProgressConfig `yaml:"progress" json:"progress"`

	// Logging configuration
	Logging LoggingConfig `yaml:"logging" json:"logging"`
}

// GameConfig holds the vendor/product pair of the managed game
type GameConfig struct {
	Vendor  string `yaml:"vendor" json:"vendor"`
	Product string `yaml:"product" json:"product"`
}

// PathsConfig holds filesystem location overrides. Empty values mean "detect".
type PathsConfig struct {
	UserProfile        string `yaml:"user_profile" json:"user_profile"`
	AppBaseDir         string `yaml:"app_base_dir" json:"app_base_dir"`
	CheckpointsDirName string `yaml:"checkpoints_dir_name" json:"checkpoints_dir_name"`
}

// ProgressConfig holds progress animation configuration
type ProgressConfig struct {
	Steps    int           `yaml:"steps" json:"steps"`
	Interval time.Duration `yaml:"interval" json:"interval"`
	Message  string        `yaml:"message" json:"message"`
	Animate  bool          `yaml:"animate" json:"animate"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level string `yaml:"level" json:"level"`
	File  string `yaml:"file" json:"file"`
}

// DefaultConfig returns a Config instance with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Game: GameConfig{
			Vendor:  DefaultVendor,
			Product: DefaultProduct,
		},
		Paths: PathsConfig{
			CheckpointsDirName: DefaultCheckpointsName,
		},
		Progress: ProgressConfig{
			Steps:    DefaultProgressSteps,
			Interval: DefaultProgressDelay,
			Message:  DefaultProgressMessage,
			Animate:  true,
		},
		Logging: LoggingConfig{
			Level: "warn",
		},
	}
}

// LoadFromEnv loads configuration from environment variables
func (c *Config) LoadFromEnv() error {
	var errs []error

	if v := os.Getenv(EnvPrefix + "VENDOR"); v != "" {
		c.Game.Vendor = v
	}
	if v := os.Getenv(EnvPrefix + "PRODUCT"); v != "" {
		c.Game.Product = v
	}
	if v := os.Getenv(EnvPrefix + "USER_PROFILE"); v != "" {
		c.Paths.UserProfile = v
	}
	if v := os.Getenv(EnvPrefix + "APP_BASE_DIR"); v != "" {
		c.Paths.AppBaseDir = v
	}
	if v := os.Getenv(EnvPrefix + "CHECKPOINTS_DIR_NAME"); v != "" {
		c.Paths.CheckpointsDirName = v
	}

	if v := os.Getenv(EnvPrefix + "PROGRESS_STEPS"); v != "" {
		steps, err := strconv.Atoi(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("invalid %sPROGRESS_STEPS: %w", EnvPrefix, err))
		} else {
			c.Progress.Steps = steps
		}
	}
	if v := os.Getenv(EnvPrefix + "PROGRESS_INTERVAL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("invalid %sPROGRESS_INTERVAL: %w", EnvPrefix, err))
		} else {
			c.Progress.Interval = d
		}
	}
	if v := os.Getenv(EnvPrefix + "PROGRESS_ANIMATE"); v != "" {
		c.Progress.Animate = strings.ToLower(v) == "true"
	}

	if v := os.Getenv(EnvPrefix + "LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv(EnvPrefix + "LOG_FILE"); v != "" {
		c.Logging.File = v
	}

	return errors.Join(errs...)
}

// LoadFromFile loads configuration from a YAML file
func (c *Config) LoadFromFile(path string) error {
	// If path is empty, try default locations
	if path == "" {
		path = c.findConfigFile()
		if path == "" {
			return nil // No config file found, not an error
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	return nil
}

// findConfigFile searches for config file in standard locations
func (c *Config) findConfigFile() string {
	locations := []string{FileName}
	if c.Paths.AppBaseDir != "" {
		locations = append(locations, filepath.Join(c.Paths.AppBaseDir, FileName))
	} else if exe, err := os.Executable(); err == nil {
		locations = append(locations, filepath.Join(filepath.Dir(exe), FileName))
	}
	if home, err := os.UserHomeDir(); err == nil {
		locations = append(locations, filepath.Join(home, ".config", "savedatamgr", "config.yaml"))
	}

	for _, loc := range locations {
		if _, err := os.Stat(loc); err == nil {
			return loc
		}
	}

	return ""
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	var errs []error

	if strings.TrimSpace(c.Game.Vendor) == "" {
		errs = append(errs, errors.New("game vendor is required"))
	}
	if strings.TrimSpace(c.Game.Product) == "" {
		errs = append(errs, errors.New("game product is required"))
	}
	if strings.TrimSpace(c.Paths.CheckpointsDirName) == "" {
		errs = append(errs, errors.New("checkpoints directory name is required"))
	}

	if c.Progress.Steps <= 0 {
		errs = append(errs, errors.New("progress steps must be positive"))
	}
	if c.Progress.Interval < 0 {
		errs = append(errs, errors.New("progress interval cannot be negative"))
	}

	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true, "disabled": true,
	}
	if !validLogLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, fmt.Errorf("invalid log level %q", c.Logging.Level))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}

// Save saves the configuration to a file
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// MergeCommandLineFlags merges command line flags into the configuration
func (c *Config) MergeCommandLineFlags(flags map[string]interface{}) {
	if v, ok := flags["user-profile"].(string); ok && v != "" {
		c.Paths.UserProfile = v
	}
	if v, ok := flags["app-dir"].(string); ok && v != "" {
		c.Paths.AppBaseDir = v
	}
	if v, ok := flags["steps"].(int); ok && v > 0 {
		c.Progress.Steps = v
	}
	if v, ok := flags["interval"].(time.Duration); ok && v >= 0 {
		c.Progress.Interval = v
	}
	if v, ok := flags["no-animation"].(bool); ok && v {
		c.Progress.Animate = false
	}
	if v, ok := flags["log-level"].(string); ok && v != "" {
		c.Logging.Level = v
	}
	if v, ok := flags["log-file"].(string); ok && v != "" {
		c.Logging.File = v
	}
}

// Load loads configuration from all sources with proper precedence
// Precedence order: Command line flags > Environment variables > .env file > Config file > Defaults
func Load(configPath string, flags map[string]interface{}) (*Config, error) {
	// Missing .env files are fine
	_ = godotenv.Load(".env")
	if home, err := os.UserHomeDir(); err == nil {
		_ = godotenv.Load(filepath.Join(home, ".savedatamgr.env"))
	}

	config := DefaultConfig()

	if err := config.LoadFromFile(configPath); err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	if err := config.LoadFromEnv(); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	config.MergeCommandLineFlags(flags)

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}
