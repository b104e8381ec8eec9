package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/danmuck/cqc/internal/testutil/testlog"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "session.toml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadSessionConfigTemplate(t *testing.T) {
	testlog.Start(t)
	cfg, err := LoadSessionConfig(writeConfig(t, Template()))
	if err != nil {
		t.Fatalf("load template: %v", err)
	}
	if cfg.AppID != 10 || cfg.Limits.MaxMessageBytes != 65536 || len(cfg.Peers) != 2 {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	bob, ok := cfg.Peer("BOB")
	if !ok {
		t.Fatalf("expected bob peer")
	}
	h, err := bob.RemoteNode()
	if err != nil {
		t.Fatalf("remote node: %v", err)
	}
	if h.RemoteAppID != 10 || h.RemoteNode != 0x7F000001 || h.RemotePort != 8804 {
		t.Fatalf("unexpected remote node: %+v", h)
	}
	if _, ok := cfg.Peer("carol"); ok {
		t.Fatalf("unexpected carol peer")
	}
}

func TestLoadSessionConfigDefaults(t *testing.T) {
	testlog.Start(t)
	cfg, err := LoadSessionConfig(writeConfig(t, "\n"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.AppID != DefaultAppID || cfg.Limits.MaxMessageBytes != DefaultMaxMessageBytes || len(cfg.Peers) != 0 {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
}

func TestLoadSessionConfigRejectsInvalid(t *testing.T) {
	testlog.Start(t)
	cases := map[string]struct {
		body string
		want string
	}{
		"missing name":  {"[[peers]]\nnode = \"10.0.0.1\"\nport = 1\n", "name is required"},
		"ipv6 node":     {"[[peers]]\nname = \"a\"\nnode = \"::1\"\nport = 1\n", "not an IPv4"},
		"bad node":      {"[[peers]]\nname = \"a\"\nnode = \"localhost\"\nport = 1\n", "node"},
		"zero port":     {"[[peers]]\nname = \"a\"\nnode = \"10.0.0.1\"\n", "port is required"},
		"duplicate":     {"[[peers]]\nname = \"a\"\nnode = \"10.0.0.1\"\nport = 1\n[[peers]]\nname = \"A\"\nnode = \"10.0.0.2\"\nport = 2\n", "duplicate"},
		"unknown key":   {"app_idd = 3\n", "unknown key"},
		"app id range":  {"app_id = 70000\n", "config load failed"},
		"syntax":        {"app_id = \n", "config load failed"},
		"tiny max size": {"[limits]\nmax_message_bytes = 2\n", "max_message_bytes"},
		"below epr_ok":  {"[limits]\nmax_message_bytes = 19\n", "at least 42"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := LoadSessionConfig(writeConfig(t, tc.body))
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected error containing %q, got %v", tc.want, err)
			}
		})
	}
}

func TestLoadSessionConfigAcceptsSmallestLimit(t *testing.T) {
	testlog.Start(t)
	cfg, err := LoadSessionConfig(writeConfig(t, "[limits]\nmax_message_bytes = 42\n"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Limits.MaxMessageBytes != MinMessageBytes {
		t.Fatalf("max_message_bytes=%d", cfg.Limits.MaxMessageBytes)
	}
}

func TestLoadSessionConfigMissingFile(t *testing.T) {
	testlog.Start(t)
	if _, err := LoadSessionConfig(filepath.Join(t.TempDir(), "absent.toml")); err == nil {
		t.Fatalf("expected missing file error")
	}
}

func TestWriteTemplateRefusesOverwrite(t *testing.T) {
	testlog.Start(t)
	path := filepath.Join(t.TempDir(), "session.toml")
	if err := WriteTemplate(path, false); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := WriteTemplate(path, false); err == nil {
		t.Fatalf("expected overwrite refusal")
	}
	if err := WriteTemplate(path, true); err != nil {
		t.Fatalf("forced write: %v", err)
	}
}
