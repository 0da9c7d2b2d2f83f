// Package config holds runtime configuration: defaults, optional YAML
// overlay, validation, and the named encoding profile table.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Profile is one resolved set of encoding parameters. The core only ever
// consumes resolved values; profile names exist for lookup and display.
type Profile struct {
	Codec        string `yaml:"codec"`
	Preset       string `yaml:"preset"`
	CRF          int    `yaml:"crf"`
	AudioCodec   string `yaml:"audio_codec"`
	AudioBitrate string `yaml:"audio_bitrate"`
}

// Config holds all runtime settings. It is populated by [DefaultConfig],
// optionally overlaid from a YAML file by [LoadFile], and passed (by pointer)
// to packages that need it.
type Config struct {
	// External engine executables. Bare names resolve via PATH.
	FFmpegPath  string `yaml:"ffmpeg_path"`
	FFprobePath string `yaml:"ffprobe_path"`

	// Batch export.
	MaxWorkers int    `yaml:"max_workers"` // Default: 4.
	TempRoot   string `yaml:"temp_root"`   // Default: os.TempDir() at use time.

	// Logging.
	LogLevel string `yaml:"log_level"` // trace|debug|info|warn|error. Default: info.
	LogFile  string `yaml:"log_file"`  // Optional additional sink.

	// Named encoding profiles. YAML entries are merged over the built-in
	// table; same-name entries override.
	Profiles map[string]Profile `yaml:"profiles"`
}

// Built-in encoding profiles. CRF and preset trade speed against quality;
// all three target H.264 + AAC in MP4.
var builtinProfiles = map[string]Profile{
	"fast": {
		Codec:        "libx264",
		Preset:       "ultrafast",
		CRF:          23,
		AudioCodec:   "aac",
		AudioBitrate: "128k",
	},
	"balanced": {
		Codec:        "libx264",
		Preset:       "medium",
		CRF:          20,
		AudioCodec:   "aac",
		AudioBitrate: "192k",
	},
	"high_quality": {
		Codec:        "libx264",
		Preset:       "slow",
		CRF:          18,
		AudioCodec:   "aac",
		AudioBitrate: "256k",
	},
}

// DefaultProfileName is used when a segment references no profile or an
// unknown one.
const DefaultProfileName = "balanced"

// DefaultConfig returns the built-in settings.
func DefaultConfig() Config {
	profiles := make(map[string]Profile, len(builtinProfiles))
	for name, p := range builtinProfiles {
		profiles[name] = p
	}
	return Config{
		FFmpegPath:  "ffmpeg",
		FFprobePath: "ffprobe",
		MaxWorkers:  4,
		LogLevel:    "info",
		Profiles:    profiles,
	}
}

// LoadFile overlays settings from a YAML file onto cfg. Profiles named in the
// file are merged over the built-in table. A missing file is an error; pass
// an empty path to skip the overlay entirely.
func LoadFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %q: %w", path, err)
	}

	var overlay Config
	if err := yaml.Unmarshal(data, &overlay); err != nil {
		return fmt.Errorf("parse config %q: %w", path, err)
	}

	if overlay.FFmpegPath != "" {
		cfg.FFmpegPath = overlay.FFmpegPath
	}
	if overlay.FFprobePath != "" {
		cfg.FFprobePath = overlay.FFprobePath
	}
	if overlay.MaxWorkers != 0 {
		cfg.MaxWorkers = overlay.MaxWorkers
	}
	if overlay.TempRoot != "" {
		cfg.TempRoot = overlay.TempRoot
	}
	if overlay.LogLevel != "" {
		cfg.LogLevel = overlay.LogLevel
	}
	if overlay.LogFile != "" {
		cfg.LogFile = overlay.LogFile
	}
	for name, p := range overlay.Profiles {
		cfg.Profiles[name] = p
	}
	return nil
}

// Validate checks field ranges and profile completeness.
func (c *Config) Validate() error {
	if c.FFmpegPath == "" || c.FFprobePath == "" {
		return errors.New("ffmpeg and ffprobe paths must be non-empty")
	}
	if c.MaxWorkers < 1 {
		return fmt.Errorf("max_workers must be >= 1, got %d", c.MaxWorkers)
	}
	switch c.LogLevel {
	case "trace", "debug", "info", "warn", "error":
		// valid
	default:
		return fmt.Errorf("invalid log_level %q", c.LogLevel)
	}
	if _, ok := c.Profiles[DefaultProfileName]; !ok {
		return fmt.Errorf("profile table must contain %q", DefaultProfileName)
	}
	for name, p := range c.Profiles {
		if p.Codec == "" || p.AudioCodec == "" {
			return fmt.Errorf("profile %q: codec and audio_codec are required", name)
		}
		if p.CRF < 0 || p.CRF > 51 {
			return fmt.Errorf("profile %q: crf %d out of range 0-51", name, p.CRF)
		}
	}
	return nil
}

// ResolveProfile returns the named profile, falling back to the default
// entry for empty or unknown names.
func (c *Config) ResolveProfile(name string) Profile {
	if p, ok := c.Profiles[name]; ok {
		return p
	}
	return c.Profiles[DefaultProfileName]
}
