// Package config loads the YAML file that drives a SimpleVox
// session's VAD, MFCC, and audio-source settings.
package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/MechaUma/SimpleVox/mfcc"
	"github.com/MechaUma/SimpleVox/vad"
)

// Config is the top-level YAML document shape.
type Config struct {
	VAD struct {
		WarmupTimeMs   int `yaml:"warmup_time_ms"`
		HangBeforeMs   int `yaml:"hangbefore_ms"`
		DecisionTimeMs int `yaml:"decision_time_ms"`
		HangoverMs     int `yaml:"hangover_ms"`
		SampleRate     int `yaml:"sample_rate"`
		Mode           int `yaml:"mode"`
	} `yaml:"vad"`

	MFCC struct {
		FFTNum      int `yaml:"fft_num"`
		MelChannel  int `yaml:"mel_channel"`
		CoefNum     int `yaml:"coef_num"`
		PreEmphasis int `yaml:"pre_emphasis"`
		SampleRate  int `yaml:"sample_rate"`
		FrameTimeMs int `yaml:"frame_time_ms"`
	} `yaml:"mfcc"`

	Audio struct {
		Device string `yaml:"device"`
	} `yaml:"audio"`

	Match struct {
		// Threshold is the maximum DTW distance (see dtw.Calc) below
		// which a candidate template counts as a match.
		Threshold int    `yaml:"threshold"`
		StorePath string `yaml:"store_path"`
	} `yaml:"match"`
}

// Default returns a Config seeded from vad.DefaultConfig and
// mfcc.DefaultConfig, plus a 180 match threshold and a ./templates
// store directory.
func Default() *Config {
	c := &Config{}

	vadDefault := vad.DefaultConfig()
	c.VAD.HangBeforeMs = vadDefault.HangBeforeMs
	c.VAD.DecisionTimeMs = vadDefault.DecisionTimeMs
	c.VAD.HangoverMs = vadDefault.HangoverMs
	c.VAD.SampleRate = vadDefault.SampleRate
	c.VAD.Mode = int(vadDefault.Mode)

	mfccDefault := mfcc.DefaultConfig()
	c.MFCC.FFTNum = mfccDefault.FFTNum
	c.MFCC.MelChannel = mfccDefault.MelChannel
	c.MFCC.CoefNum = mfccDefault.CoefNum
	c.MFCC.PreEmphasis = mfccDefault.PreEmphasis
	c.MFCC.SampleRate = mfccDefault.SampleRate
	c.MFCC.FrameTimeMs = mfccDefault.FrameTimeMs

	c.Match.Threshold = 180
	c.Match.StorePath = "./templates"
	return c
}

// VadConfig converts the YAML VAD section to vad.Config.
func (c *Config) VadConfig() vad.Config {
	return vad.Config{
		WarmupTimeMs:   c.VAD.WarmupTimeMs,
		HangBeforeMs:   c.VAD.HangBeforeMs,
		DecisionTimeMs: c.VAD.DecisionTimeMs,
		HangoverMs:     c.VAD.HangoverMs,
		SampleRate:     c.VAD.SampleRate,
		Mode:           vad.Mode(c.VAD.Mode),
	}
}

// MfccConfig converts the YAML MFCC section to mfcc.Config.
func (c *Config) MfccConfig() mfcc.Config {
	return mfcc.Config{
		FFTNum:      c.MFCC.FFTNum,
		MelChannel:  c.MFCC.MelChannel,
		CoefNum:     c.MFCC.CoefNum,
		PreEmphasis: c.MFCC.PreEmphasis,
		SampleRate:  c.MFCC.SampleRate,
		FrameTimeMs: c.MFCC.FrameTimeMs,
	}
}

// Load reads and parses a YAML config file, rejecting unknown keys
// so a typo in the file surfaces immediately instead of silently
// falling back to a default.
func Load(path string) (*Config, error) {
	c := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return c, nil
}

// LoadWithFallback loads explicitPath if given, else tries
// ~/.simplevox.yaml, else returns Default().
func LoadWithFallback(explicitPath string) (*Config, error) {
	if explicitPath != "" {
		return Load(explicitPath)
	}

	homeDir, err := os.UserHomeDir()
	if err == nil {
		userConfigPath := filepath.Join(homeDir, ".simplevox.yaml")
		if _, err := os.Stat(userConfigPath); err == nil {
			return Load(userConfigPath)
		}
	}
	return Default(), nil
}

// Save writes c to path as YAML, creating parent directories as
// needed.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("config: marshal: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("config: mkdir %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("config: write %s: %w", path, err)
	}
	return nil
}
