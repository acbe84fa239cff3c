package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultMatchesComponentDefaults(t *testing.T) {
	c := Default()
	if c.VAD.SampleRate != 16000 {
		t.Errorf("VAD.SampleRate = %d, want 16000", c.VAD.SampleRate)
	}
	if c.MFCC.FFTNum != 512 {
		t.Errorf("MFCC.FFTNum = %d, want 512", c.MFCC.FFTNum)
	}
	if c.Match.Threshold != 180 {
		t.Errorf("Match.Threshold = %d, want 180", c.Match.Threshold)
	}
}

func TestLoadRejectsUnknownFields(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	os.WriteFile(path, []byte("vad:\n  sample_rate: 16000\n  typo_field: 1\n"), 0o644)

	if _, err := Load(path); err == nil {
		t.Fatal("expected error for unknown field")
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	os.WriteFile(path, []byte("vad:\n  mode: 3\nmatch:\n  threshold: 120\n"), 0o644)

	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.VAD.Mode != 3 {
		t.Errorf("VAD.Mode = %d, want 3", c.VAD.Mode)
	}
	if c.Match.Threshold != 120 {
		t.Errorf("Match.Threshold = %d, want 120", c.Match.Threshold)
	}
	// Untouched sections keep their defaults.
	if c.MFCC.FFTNum != 512 {
		t.Errorf("MFCC.FFTNum = %d, want default 512", c.MFCC.FFTNum)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "config.yaml")

	c := Default()
	c.VAD.Mode = 2
	if err := c.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.VAD.Mode != 2 {
		t.Errorf("VAD.Mode = %d, want 2", loaded.VAD.Mode)
	}
}
