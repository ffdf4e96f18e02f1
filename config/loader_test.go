package config

import (
	"os"
	"path/filepath"
	"testing"
)

func loadFrom(t *testing.T, content string) error {
	t.Helper()
	origConfig := Config
	t.Cleanup(func() { Config = origConfig })

	path := filepath.Join(t.TempDir(), "config.yml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	t.Setenv("TRANSFER_ANALYZER_CONFIG", path)
	return LoadAppConfig()
}

func TestLoadAppConfig_Valid(t *testing.T) {
	err := loadFrom(t, `
server:
  port: 18000
analyzer:
  radiusMeters: 250
graph:
  gtfsStaticURL: "./data/gtfs.zip"
`)
	if err != nil {
		t.Fatalf("LoadAppConfig: %v", err)
	}
	if Config.Server.Port != 18000 {
		t.Errorf("expected port 18000, got %d", Config.Server.Port)
	}
	if Config.Analyzer.RadiusMeters != 250 {
		t.Errorf("expected radius 250, got %g", Config.Analyzer.RadiusMeters)
	}
	if Config.Analyzer.Workers != 1 {
		t.Errorf("expected default worker count 1, got %d", Config.Analyzer.Workers)
	}
	if Config.Report.OutputDir != "output" {
		t.Errorf("expected default output dir, got %q", Config.Report.OutputDir)
	}
}

func TestLoadAppConfig_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{
			name: "zero radius",
			content: `
server:
  port: 18000
analyzer:
  radiusMeters: 0
`,
		},
		{
			name: "negative radius",
			content: `
server:
  port: 18000
analyzer:
  radiusMeters: -10
`,
		},
		{
			name: "missing port",
			content: `
server: {}
analyzer:
  radiusMeters: 100
`,
		},
		{
			name:    "invalid yaml",
			content: "server: [[[",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := loadFrom(t, tt.content); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestLoadAppConfig_MissingFile(t *testing.T) {
	origConfig := Config
	t.Cleanup(func() { Config = origConfig })

	t.Setenv("TRANSFER_ANALYZER_CONFIG", filepath.Join(t.TempDir(), "nope.yml"))
	origDir, _ := os.Getwd()
	defer os.Chdir(origDir)
	if err := os.Chdir(t.TempDir()); err != nil {
		t.Fatalf("failed to change directory: %v", err)
	}

	if err := LoadAppConfig(); err == nil {
		t.Error("loading a non-existent config should return an error")
	}
}
