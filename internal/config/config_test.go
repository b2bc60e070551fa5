package config

import (
	"os"
	"path/filepath"
	"testing"

	"ativas/internal/parser"
)

// isolate points HOME at a temp dir and clears every ATIVAS_ variable so the
// developer's own configuration does not leak into the test.
func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	for _, key := range []string{envDir, envView, envLongRunningDays, envBufferDays,
		envDeeplinkPrefix, envIncludeOffers, envRejectAlwaysOn} {
		t.Setenv(key, "")
	}
	t.Setenv(envJourneyChannels, "")
	os.Unsetenv(envJourneyChannels)
	return home
}

func writeConfigFile(t *testing.T, home, content string) {
	t.Helper()
	dir := filepath.Join(home, ".config", "ativas")
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "config.json"), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestLoad_Default(t *testing.T) {
	home := isolate(t)

	cfg, err := Load(CLIFlags{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.StoreDir != filepath.Join(home, "ativas") {
		t.Errorf("expected default store dir, got %q", cfg.StoreDir)
	}
	if cfg.DefaultView != "month" {
		t.Errorf("expected default view 'month', got %q", cfg.DefaultView)
	}
	if cfg.LongRunningDays != 183 || cfg.BufferDays != 7 {
		t.Errorf("unexpected thresholds %d/%d", cfg.LongRunningDays, cfg.BufferDays)
	}
	if !cfg.IncludeOffers || cfg.RejectAlwaysOn {
		t.Error("unexpected default toggles")
	}
	if len(cfg.JourneyChannels) != 4 {
		t.Errorf("expected all journey channels, got %v", cfg.JourneyChannels)
	}
	if Get() != cfg {
		t.Error("Get must return the loaded config")
	}
}

func TestLoad_ConfigFile(t *testing.T) {
	home := isolate(t)
	writeConfigFile(t, home, `{
  "store_dir": "~/cartoes",
  "default_view": "cards",
  "long_running_days": 90,
  "include_offers": false,
  "journey_channels": ["Push", "E-mail", "banner"]
}`)

	cfg, err := Load(CLIFlags{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.StoreDir != filepath.Join(home, "cartoes") {
		t.Errorf("expected expanded store dir, got %q", cfg.StoreDir)
	}
	if cfg.DefaultView != "cards" || cfg.LongRunningDays != 90 || cfg.IncludeOffers {
		t.Errorf("config file values not applied: %+v", cfg)
	}
	if cfg.BufferDays != 7 {
		t.Errorf("missing keys must keep defaults, got %d", cfg.BufferDays)
	}
	if len(cfg.JourneyChannels) != 2 || cfg.JourneyChannels[0] != parser.ChannelPush || cfg.JourneyChannels[1] != parser.ChannelEmail {
		t.Errorf("expected push,email; got %v", cfg.JourneyChannels)
	}
}

func TestLoad_BrokenConfigFileIgnored(t *testing.T) {
	home := isolate(t)
	writeConfigFile(t, home, `{not json`)

	cfg, err := Load(CLIFlags{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.DefaultView != "month" {
		t.Errorf("expected defaults, got %q", cfg.DefaultView)
	}
}

func TestLoad_EnvVar(t *testing.T) {
	home := isolate(t)
	writeConfigFile(t, home, `{"store_dir": "/tmp/from-file", "buffer_days": 3}`)
	t.Setenv(envDir, "/tmp/from-env")
	t.Setenv(envBufferDays, "10")
	t.Setenv(envRejectAlwaysOn, "true")
	t.Setenv(envLongRunningDays, "abc")

	cfg, err := Load(CLIFlags{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.StoreDir != "/tmp/from-env" {
		t.Errorf("expected env to override file, got %q", cfg.StoreDir)
	}
	if cfg.BufferDays != 10 {
		t.Errorf("expected 10, got %d", cfg.BufferDays)
	}
	if !cfg.RejectAlwaysOn {
		t.Error("expected reject_always_on from env")
	}
	if cfg.LongRunningDays != 183 {
		t.Errorf("invalid number must be ignored, got %d", cfg.LongRunningDays)
	}
}

func TestLoad_EmptyJourneyChannelsDisablesJourney(t *testing.T) {
	isolate(t)
	t.Setenv(envJourneyChannels, "")

	cfg, err := Load(CLIFlags{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	opts := cfg.ParserOptions()
	if opts.JourneyChannels == nil || len(opts.JourneyChannels) != 0 {
		t.Errorf("expected an empty non-nil allow-set, got %#v", opts.JourneyChannels)
	}
}

func TestLoad_CLIFlags(t *testing.T) {
	isolate(t)
	t.Setenv(envDir, "/tmp/env-dir")

	cfg, err := Load(CLIFlags{StoreDir: "/tmp/cli-dir"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// CLI flags should override env vars
	if cfg.StoreDir != "/tmp/cli-dir" {
		t.Errorf("expected /tmp/cli-dir, got %q", cfg.StoreDir)
	}
}

func TestLoad_PathExpansion(t *testing.T) {
	home := isolate(t)

	cfg, err := Load(CLIFlags{StoreDir: "~/test-store"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expected := filepath.Join(home, "test-store")
	if cfg.StoreDir != expected {
		t.Errorf("expected %q, got %q", expected, cfg.StoreDir)
	}
}

func TestServiceSettings(t *testing.T) {
	cfg := defaults()
	cfg.BufferDays = 2
	cfg.RejectAlwaysOn = true
	cfg.DeeplinkPrefix = "meuapp://"

	s := cfg.ServiceSettings()
	if s.BufferDays != 2 || !s.RejectAlwaysOn {
		t.Errorf("unexpected settings %+v", s)
	}
	if s.Parser.DeeplinkPrefix != "meuapp://" || !s.Parser.IncludeOffers {
		t.Errorf("unexpected parser options %+v", s.Parser)
	}
}

func TestEnsureConfigFile(t *testing.T) {
	home := isolate(t)

	if err := EnsureConfigFile(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	path := filepath.Join(home, ".config", "ativas", "config.json")
	settings, err := loadConfigFile(path)
	if err != nil {
		t.Fatalf("config file not readable: %v", err)
	}
	if settings.DefaultView != "month" || len(settings.JourneyChannels) != 4 {
		t.Errorf("unexpected defaults written: %+v", settings)
	}

	// An existing file is left alone.
	os.WriteFile(path, []byte(`{"default_view":"cards"}`), 0644)
	if err := EnsureConfigFile(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	settings, _ = loadConfigFile(path)
	if settings.DefaultView != "cards" {
		t.Error("existing config file was overwritten")
	}
}

func TestEnsureDirs(t *testing.T) {
	cfg := &Config{StoreDir: filepath.Join(t.TempDir(), "a", "b")}
	if err := cfg.EnsureDirs(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if info, err := os.Stat(cfg.StoreDir); err != nil || !info.IsDir() {
		t.Errorf("store dir not created: %v", err)
	}
}

func TestParseCommaSeparated(t *testing.T) {
	tests := []struct {
		input    string
		expected int
	}{
		{"", 0},
		{"a", 1},
		{"a,b,c", 3},
		{" a , b , c ", 3},
		{"a,,b", 2},
	}

	for _, tt := range tests {
		result := ParseCommaSeparated(tt.input)
		if len(result) != tt.expected {
			t.Errorf("ParseCommaSeparated(%q): expected %d items, got %d", tt.input, tt.expected, len(result))
		}
	}
}

func TestParseChannels(t *testing.T) {
	got := ParseChannels([]string{"WhatsApp", "whats", "SMS", "In-App", "push"})
	want := []parser.Channel{parser.ChannelWhatsApp, parser.ChannelSMS, parser.ChannelPush}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("position %d: expected %s, got %s", i, want[i], got[i])
		}
	}
	if ParseChannels(nil) == nil {
		t.Error("result must never be nil")
	}
}
