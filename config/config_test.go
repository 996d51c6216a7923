package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "blctl.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
motors:
  count: 4
transport:
  kind: serial
  port: /dev/ttyUSB0
  baud: 115200
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Motors.Count != 4 {
		t.Errorf("count: got %d, want 4", cfg.Motors.Count)
	}
	if cfg.Transport.Kind != "serial" || cfg.Transport.Port != "/dev/ttyUSB0" {
		t.Errorf("transport: got %+v", cfg.Transport)
	}
	if cfg.Transport.Baud != 115200 {
		t.Errorf("baud: got %d, want 115200", cfg.Transport.Baud)
	}

	count, err := cfg.MotorCount()
	if err != nil {
		t.Fatalf("MotorCount failed: %v", err)
	}
	if count != 4 {
		t.Errorf("MotorCount: got %d, want 4", count)
	}
}

func TestLoad_Defaults(t *testing.T) {
	path := writeConfig(t, `
motors:
  count: 6
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Transport.Kind != "i2c" {
		t.Errorf("default kind: got %q, want i2c", cfg.Transport.Kind)
	}
	if cfg.Transport.Baud != 57600 {
		t.Errorf("default baud: got %d, want 57600", cfg.Transport.Baud)
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			name:    "zero motors",
			content: "motors:\n  count: 0\n",
			wantErr: "motors.count",
		},
		{
			name:    "too many motors",
			content: "motors:\n  count: 9\n",
			wantErr: "motors.count",
		},
		{
			name:    "unknown transport",
			content: "motors:\n  count: 4\ntransport:\n  kind: spi\n",
			wantErr: "transport.kind",
		},
		{
			name:    "serial without port",
			content: "motors:\n  count: 4\ntransport:\n  kind: serial\n",
			wantErr: "transport.port",
		},
		{
			name:    "malformed yaml",
			content: "motors: [\n",
			wantErr: "parse config",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, tt.content)
			_, err := Load(path)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}
