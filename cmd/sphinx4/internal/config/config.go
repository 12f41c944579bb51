// Package config loads the sphinx4 CLI configuration.
//
// Configuration lives in ~/.sphinx4/config.yaml; every field is optional
// and falls back to a default. The recording database defaults to
// ~/.sphinx4/recordings under the same directory.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/goccy/go-yaml"

	"github.com/presentformyfriends/sphinx4/pkg/audio/pcm"
)

const (
	baseDir    = ".sphinx4"
	configFile = "config.yaml"
	dataDir    = "recordings"
)

// Config is the on-disk CLI configuration.
type Config struct {
	// Device is the input device name. Empty selects the default input.
	Device string `yaml:"device,omitempty"`

	// SampleRate in Hz. Default 16000.
	SampleRate int `yaml:"sample_rate,omitempty"`

	// Channels is the channel count. Default 1.
	Channels int `yaml:"channels,omitempty"`

	// BigEndian stores captured samples big-endian. Default false.
	BigEndian bool `yaml:"big_endian,omitempty"`

	// FrameSize is the capture frame size in bytes. Default 4096.
	FrameSize int `yaml:"frame_size,omitempty"`

	// DataDir is the recording database directory.
	// Default ~/.sphinx4/recordings.
	DataDir string `yaml:"data_dir,omitempty"`

	// Export configures where `recordings export` writes WAV files.
	Export Export `yaml:"export,omitempty"`
}

// Export selects an export destination.
type Export struct {
	// Dir is the local export directory. Default is the working directory.
	Dir string `yaml:"dir,omitempty"`

	// S3 enables export to an S3-compatible bucket when set.
	S3 *S3 `yaml:"s3,omitempty"`
}

// S3 configures the bucket destination.
type S3 struct {
	Bucket string `yaml:"bucket"`
	Prefix string `yaml:"prefix,omitempty"`
	Region string `yaml:"region,omitempty"`
}

// DefaultPath returns the default config file path (~/.sphinx4/config.yaml).
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("config: cannot determine home directory: %w", err)
	}
	return filepath.Join(home, baseDir, configFile), nil
}

// Load reads the configuration from path, or from the default path when
// path is empty. A missing file yields the defaults.
func Load(path string) (Config, error) {
	var err error
	if path == "" {
		path, err = DefaultPath()
		if err != nil {
			return Config{}, err
		}
	}
	var cfg Config
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return withDefaults(cfg), nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return withDefaults(cfg), nil
}

// Save writes the configuration to path, creating parent directories.
func Save(path string, cfg Config) error {
	var err error
	if path == "" {
		path, err = DefaultPath()
		if err != nil {
			return err
		}
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("config: marshal: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func withDefaults(cfg Config) Config {
	if cfg.SampleRate == 0 {
		cfg.SampleRate = 16000
	}
	if cfg.Channels == 0 {
		cfg.Channels = 1
	}
	if cfg.FrameSize == 0 {
		cfg.FrameSize = 4096
	}
	if cfg.DataDir == "" {
		if home, err := os.UserHomeDir(); err == nil {
			cfg.DataDir = filepath.Join(home, baseDir, dataDir)
		}
	}
	return cfg
}

// Format returns the capture format the configuration describes. The CLI
// always captures signed 16-bit PCM; sample rate, channels and byte order
// come from the config.
func (c Config) Format() pcm.Format {
	return pcm.Format{
		SampleRate: c.SampleRate,
		Depth:      16,
		Channels:   c.Channels,
		Signed:     true,
		BigEndian:  c.BigEndian,
	}
}
