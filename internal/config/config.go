// Package config provides configuration management for the ClipForge Agent.
// Configuration is loaded from an optional YAML file, with environment
// variable overrides and sensible defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	// Default values
	DefaultPort           = 8789
	DefaultLogLevel       = "info"
	DefaultDataDir        = ".clipforge"
	DefaultSceneThreshold = 0.4

	// Maximum input size accepted by picker-based imports
	DefaultMaxImportBytes = 500 * 1024 * 1024 // 500 MiB

	// Environment variable names
	EnvPort       = "CLIPFORGE_PORT"
	EnvLogLevel   = "CLIPFORGE_LOG_LEVEL"
	EnvDataDir    = "CLIPFORGE_DATA_DIR"
	EnvConfigFile = "CLIPFORGE_CONFIG"
	EnvFFmpeg     = "CLIPFORGE_FFMPEG"
	EnvFFprobe    = "CLIPFORGE_FFPROBE"
	EnvExportDir  = "CLIPFORGE_EXPORT_DIR"
	EnvHeadless   = "CLIPFORGE_HEADLESS"

	// Database filename
	DBFilename = "clipforge.db"

	// Config filename inside the data dir
	ConfigFilename = "config.yaml"

	// Background job defaults
	DefaultScenesTimeout = 600 // 10 minutes
	DefaultAudioTimeout  = 600 // 10 minutes
	DefaultProbeTimeout  = 30  // seconds
)

// Config defines the application configuration interface
type Config interface {
	Port() int
	LogLevel() string
	DataDir() string
	DBPath() string
	ExportDir() string
	ArtifactsDir() string
	FFmpegPath() string
	FFprobePath() string
	SceneThreshold() float64
	MaxImportBytes() int64
	Headless() bool
	ProbeTimeout() time.Duration
	ScenesTimeout() time.Duration
	AudioTimeout() time.Duration
}

// fileConfig is the YAML shape of the optional config file.
type fileConfig struct {
	Port           int     `yaml:"port"`
	LogLevel       string  `yaml:"log_level"`
	DataDir        string  `yaml:"data_dir"`
	ExportDir      string  `yaml:"export_dir"`
	FFmpeg         string  `yaml:"ffmpeg"`
	FFprobe        string  `yaml:"ffprobe"`
	SceneThreshold float64 `yaml:"scene_threshold"`
	MaxImportMB    int64   `yaml:"max_import_mb"`
	Headless       bool    `yaml:"headless"`
}

// EnvConfig reads configuration from the config file and environment
type EnvConfig struct {
	port           int
	logLevel       string
	dataDir        string
	exportDir      string
	ffmpegPath     string
	ffprobePath    string
	sceneThreshold float64
	maxImportBytes int64
	headless       bool
}

// New creates a new EnvConfig: defaults, then config file values, then
// environment variable overrides.
func New() (*EnvConfig, error) {
	cfg := &EnvConfig{
		port:           DefaultPort,
		logLevel:       DefaultLogLevel,
		dataDir:        defaultDataDir(),
		sceneThreshold: DefaultSceneThreshold,
		maxImportBytes: DefaultMaxImportBytes,
	}

	if dd := os.Getenv(EnvDataDir); dd != "" {
		cfg.dataDir = dd
	}

	if err := cfg.loadFile(); err != nil {
		return nil, err
	}

	// Environment overrides win over the file
	if p := os.Getenv(EnvPort); p != "" {
		port, err := strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", EnvPort, err)
		}
		if port < 1 || port > 65535 {
			return nil, fmt.Errorf("invalid %s: port must be between 1 and 65535", EnvPort)
		}
		cfg.port = port
	}
	if ll := os.Getenv(EnvLogLevel); ll != "" {
		cfg.logLevel = ll
	}
	if f := os.Getenv(EnvFFmpeg); f != "" {
		cfg.ffmpegPath = f
	}
	if f := os.Getenv(EnvFFprobe); f != "" {
		cfg.ffprobePath = f
	}
	if d := os.Getenv(EnvExportDir); d != "" {
		cfg.exportDir = d
	}
	if h := os.Getenv(EnvHeadless); h != "" {
		headless, err := strconv.ParseBool(h)
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", EnvHeadless, err)
		}
		cfg.headless = headless
	}

	return cfg, nil
}

// loadFile merges the YAML config file into the config if it exists.
// A missing file is not an error.
func (c *EnvConfig) loadFile() error {
	path := os.Getenv(EnvConfigFile)
	if path == "" {
		path = filepath.Join(c.dataDir, ConfigFilename)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("cannot read config file %s: %w", path, err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("cannot parse config file %s: %w", path, err)
	}

	if fc.Port != 0 {
		if fc.Port < 1 || fc.Port > 65535 {
			return fmt.Errorf("invalid port in config file: %d", fc.Port)
		}
		c.port = fc.Port
	}
	if fc.LogLevel != "" {
		c.logLevel = fc.LogLevel
	}
	if fc.DataDir != "" {
		c.dataDir = fc.DataDir
	}
	if fc.ExportDir != "" {
		c.exportDir = fc.ExportDir
	}
	if fc.FFmpeg != "" {
		c.ffmpegPath = fc.FFmpeg
	}
	if fc.FFprobe != "" {
		c.ffprobePath = fc.FFprobe
	}
	if fc.SceneThreshold > 0 {
		c.sceneThreshold = fc.SceneThreshold
	}
	if fc.MaxImportMB > 0 {
		c.maxImportBytes = fc.MaxImportMB * 1024 * 1024
	}
	if fc.Headless {
		c.headless = true
	}

	return nil
}

// Port returns the HTTP server port
func (c *EnvConfig) Port() int {
	return c.port
}

// LogLevel returns the log level (debug, info, warn, error)
func (c *EnvConfig) LogLevel() string {
	return c.logLevel
}

// DataDir returns the data directory path
func (c *EnvConfig) DataDir() string {
	return c.dataDir
}

// DBPath returns the full path to the SQLite database file
func (c *EnvConfig) DBPath() string {
	return filepath.Join(c.dataDir, DBFilename)
}

// ExportDir returns the directory exported files default to
func (c *EnvConfig) ExportDir() string {
	if c.exportDir != "" {
		return c.exportDir
	}
	return filepath.Join(c.dataDir, "exports")
}

// ArtifactsDir returns the directory for analysis artifacts
// (extracted audio, thumbnails).
func (c *EnvConfig) ArtifactsDir() string {
	return filepath.Join(c.dataDir, "artifacts")
}

// FFmpegPath returns the configured ffmpeg binary path, empty for auto-detect
func (c *EnvConfig) FFmpegPath() string {
	return c.ffmpegPath
}

// FFprobePath returns the configured ffprobe binary path, empty for auto-detect
func (c *EnvConfig) FFprobePath() string {
	return c.ffprobePath
}

// SceneThreshold returns the default scene-change detection threshold
func (c *EnvConfig) SceneThreshold() float64 {
	return c.sceneThreshold
}

// MaxImportBytes returns the maximum input size for picker-based imports
func (c *EnvConfig) MaxImportBytes() int64 {
	return c.maxImportBytes
}

// Headless reports whether the system tray should be skipped
func (c *EnvConfig) Headless() bool {
	return c.headless
}

func (c *EnvConfig) ProbeTimeout() time.Duration {
	return time.Duration(DefaultProbeTimeout) * time.Second
}

func (c *EnvConfig) ScenesTimeout() time.Duration {
	return time.Duration(DefaultScenesTimeout) * time.Second
}

func (c *EnvConfig) AudioTimeout() time.Duration {
	return time.Duration(DefaultAudioTimeout) * time.Second
}

// defaultDataDir returns the default data directory path
func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current directory if home is not available
		return DefaultDataDir
	}
	return filepath.Join(home, DefaultDataDir)
}

// Version information (set at build time via ldflags)
var (
	Version   = "0.1.0"
	BuildTime = "unknown"
	GitCommit = "unknown"
)
