package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"ativas/internal/cards/models"
	"ativas/internal/cards/service"
	"ativas/internal/logs"
	"ativas/internal/parser"

	"github.com/joho/godotenv"
)

// Config holds the unified application configuration
type Config struct {
	StoreDir        string
	DefaultView     string
	LongRunningDays int
	BufferDays      int
	DeeplinkPrefix  string
	IncludeOffers   bool
	JourneyChannels []parser.Channel
	RejectAlwaysOn  bool
}

// Settings represents the config file structure
type Settings struct {
	StoreDir        string   `json:"store_dir,omitempty"`
	DefaultView     string   `json:"default_view,omitempty"`
	LongRunningDays int      `json:"long_running_days,omitempty"`
	BufferDays      int      `json:"buffer_days,omitempty"`
	DeeplinkPrefix  string   `json:"deeplink_prefix,omitempty"`
	IncludeOffers   *bool    `json:"include_offers,omitempty"`
	JourneyChannels []string `json:"journey_channels,omitempty"`
	RejectAlwaysOn  *bool    `json:"reject_always_on,omitempty"`
}

// CLIFlags holds parsed CLI flags
type CLIFlags struct {
	StoreDir string
}

const (
	envDir             = "ATIVAS_DIR"
	envView            = "ATIVAS_VIEW"
	envLongRunningDays = "ATIVAS_LONG_RUNNING_DAYS"
	envBufferDays      = "ATIVAS_BUFFER_DAYS"
	envDeeplinkPrefix  = "ATIVAS_DEEPLINK_PREFIX"
	envIncludeOffers   = "ATIVAS_INCLUDE_OFFERS"
	envJourneyChannels = "ATIVAS_JOURNEY_CHANNELS"
	envRejectAlwaysOn  = "ATIVAS_REJECT_ALWAYS_ON"
)

var globalConfig *Config

// Load loads configuration with priority: CLI flags > env vars > config file > default.
// A .env file in the working directory feeds the environment layer without
// overriding variables that are already set.
func Load(flags CLIFlags) (*Config, error) {
	_ = godotenv.Load()

	cfg := defaults()

	// Try loading config file first for base values
	configPath, err := getConfigPath()
	if err == nil {
		if fileConfig, err := loadConfigFile(configPath); err == nil {
			cfg.applySettings(fileConfig)
		} else if !os.IsNotExist(err) {
			logs.Logger.Printf("Warning: ignoring config file %s: %v", configPath, err)
		}
	}

	// Priority 2: Environment variables override config file
	cfg.applyEnv()

	// Priority 1: CLI flags override everything
	if flags.StoreDir != "" {
		cfg.StoreDir = flags.StoreDir
	}

	if cfg.StoreDir == "" {
		defaultDir, err := GetDefaultDir()
		if err != nil {
			return nil, err
		}
		cfg.StoreDir = defaultDir
	}
	cfg.StoreDir = expandPath(cfg.StoreDir)

	globalConfig = cfg
	return cfg, nil
}

// Get returns the loaded config
func Get() *Config {
	return globalConfig
}

func defaults() *Config {
	return &Config{
		DefaultView:     "month",
		LongRunningDays: parser.DefaultLongRunningDays,
		BufferDays:      models.DefaultBufferDays,
		DeeplinkPrefix:  parser.DefaultDeeplinkPrefix,
		IncludeOffers:   true,
		JourneyChannels: append([]parser.Channel(nil), parser.JourneyChannels...),
	}
}

func (c *Config) applySettings(s *Settings) {
	if s.StoreDir != "" {
		c.StoreDir = s.StoreDir
	}
	if s.DefaultView != "" {
		c.DefaultView = s.DefaultView
	}
	if s.LongRunningDays > 0 {
		c.LongRunningDays = s.LongRunningDays
	}
	if s.BufferDays > 0 {
		c.BufferDays = s.BufferDays
	}
	if s.DeeplinkPrefix != "" {
		c.DeeplinkPrefix = s.DeeplinkPrefix
	}
	if s.IncludeOffers != nil {
		c.IncludeOffers = *s.IncludeOffers
	}
	if s.JourneyChannels != nil {
		c.JourneyChannels = ParseChannels(s.JourneyChannels)
	}
	if s.RejectAlwaysOn != nil {
		c.RejectAlwaysOn = *s.RejectAlwaysOn
	}
}

func (c *Config) applyEnv() {
	if v := os.Getenv(envDir); v != "" {
		c.StoreDir = v
	}
	if v := os.Getenv(envView); v != "" {
		c.DefaultView = v
	}
	if n, ok := envInt(envLongRunningDays); ok {
		c.LongRunningDays = n
	}
	if n, ok := envInt(envBufferDays); ok {
		c.BufferDays = n
	}
	if v := os.Getenv(envDeeplinkPrefix); v != "" {
		c.DeeplinkPrefix = v
	}
	if b, ok := envBool(envIncludeOffers); ok {
		c.IncludeOffers = b
	}
	if v, ok := os.LookupEnv(envJourneyChannels); ok {
		c.JourneyChannels = ParseChannels(ParseCommaSeparated(v))
	}
	if b, ok := envBool(envRejectAlwaysOn); ok {
		c.RejectAlwaysOn = b
	}
}

func envInt(key string) (int, bool) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return 0, false
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		logs.Logger.Printf("Warning: ignoring %s=%q", key, v)
		return 0, false
	}
	return n, true
}

func envBool(key string) (bool, bool) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return false, false
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		logs.Logger.Printf("Warning: ignoring %s=%q", key, v)
		return false, false
	}
	return b, true
}

// ParseChannels normalizes channel names and keeps the journey ones. The
// result is never nil, so an empty list disables journey extraction.
func ParseChannels(names []string) []parser.Channel {
	channels := []parser.Channel{}
	seen := make(map[parser.Channel]bool)
	for _, name := range names {
		ch := parser.NormalizeChannel(name)
		if !ch.IsJourney() || seen[ch] {
			continue
		}
		seen[ch] = true
		channels = append(channels, ch)
	}
	return channels
}

// ParserOptions converts the configuration into parser options.
func (c *Config) ParserOptions() parser.Options {
	opts := parser.DefaultOptions()
	opts.IncludeOffers = c.IncludeOffers
	opts.LongRunningDays = c.LongRunningDays
	opts.DeeplinkPrefix = c.DeeplinkPrefix
	opts.JourneyChannels = append([]parser.Channel{}, c.JourneyChannels...)
	opts.Location = time.Local
	return opts
}

// ServiceSettings converts the configuration into card service settings.
func (c *Config) ServiceSettings() service.Settings {
	return service.Settings{
		Parser:         c.ParserOptions(),
		BufferDays:     c.BufferDays,
		RejectAlwaysOn: c.RejectAlwaysOn,
	}
}

// GetDefaultDir returns the default directory path
func GetDefaultDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, "ativas"), nil
}

// getConfigPath returns the path to the configuration file
func getConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".config", "ativas", "config.json"), nil
}

// loadConfigFile loads configuration from the settings file
func loadConfigFile(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var settings Settings
	if err := json.Unmarshal(data, &settings); err != nil {
		return nil, err
	}

	return &settings, nil
}

// EnsureDirs ensures the store directory exists
func (c *Config) EnsureDirs() error {
	return os.MkdirAll(c.StoreDir, 0755)
}

// EnsureConfigFile creates the config file with defaults if it doesn't exist
func EnsureConfigFile() error {
	configPath, err := getConfigPath()
	if err != nil {
		return err
	}

	if _, err := os.Stat(configPath); err == nil {
		return nil
	}

	configDir := filepath.Dir(configPath)
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return err
	}

	defaultDir, err := GetDefaultDir()
	if err != nil {
		return err
	}

	includeOffers, rejectAlwaysOn := true, false
	var channels []string
	for _, ch := range parser.JourneyChannels {
		channels = append(channels, string(ch))
	}

	settings := Settings{
		StoreDir:        defaultDir,
		DefaultView:     "month",
		LongRunningDays: parser.DefaultLongRunningDays,
		BufferDays:      models.DefaultBufferDays,
		DeeplinkPrefix:  parser.DefaultDeeplinkPrefix,
		IncludeOffers:   &includeOffers,
		JourneyChannels: channels,
		RejectAlwaysOn:  &rejectAlwaysOn,
	}

	data, err := json.MarshalIndent(settings, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(configPath, data, 0644)
}

// ParseCommaSeparated splits a comma-separated string into a slice
func ParseCommaSeparated(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	var result []string
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}

func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(homeDir, path[2:])
	}
	return path
}
