package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultTarget    = "8.8.8.8"
	DefaultMethod    = "icmp"
	DefaultTimeout   = "1s"
	DefaultInterval  = "20s"
	DefaultThreshold = "500ms"
	DefaultIconSize  = 64
	DefaultFontSize  = 40
	DefaultIconStyle = "text"
	DefaultMarker    = "X"

	minIconSize = 16
)

// Icon styles
const (
	StyleText = "text"
	StyleDot  = "dot"
)

var (
	knownMethods = []string{"icmp", "tcp", "http"}
	knownStyles  = []string{StyleText, StyleDot}
)

// Config represents the pingtray configuration file
type Config struct {
	Target            string        `yaml:"target"`
	Method            string        `yaml:"method"`
	Timeout           string        `yaml:"timeout"`
	Interval          string        `yaml:"interval"`
	Threshold         string        `yaml:"threshold"`
	ModerateThreshold string        `yaml:"moderate_threshold,omitempty"`
	Privileged        bool          `yaml:"privileged,omitempty"`
	TCP               TCP           `yaml:"tcp,omitempty"`
	HTTP              HTTP          `yaml:"http,omitempty"`
	Icon              Icon          `yaml:"icon"`
	Tooltip           Tooltip       `yaml:"tooltip,omitempty"`
	Notifications     Notifications `yaml:"notifications"`
}

// TCP holds options for the tcp probe method
type TCP struct {
	Port int `yaml:"port,omitempty"`
}

// HTTP holds options for the http probe method
type HTTP struct {
	URL            string `yaml:"url,omitempty"`
	ExpectedStatus int    `yaml:"expected_status,omitempty"`
	JSONPath       string `yaml:"json_path,omitempty"`  // gjson path, e.g. "network.online"
	JSONValue      string `yaml:"json_value,omitempty"` // Expected value at JSONPath; empty only checks existence
}

// Icon describes the tray badge
type Icon struct {
	Size     int     `yaml:"size"`
	FontSize float64 `yaml:"font_size"`
	Font     string  `yaml:"font,omitempty"` // Path to a TTF/OTF file; the built-in font is used when empty or unreadable
	Style    string  `yaml:"style"`          // "text" or "dot"
	Marker   string  `yaml:"marker"`         // Glyph shown when unreachable
}

// Tooltip controls the tooltip text
type Tooltip struct {
	ShowCause bool `yaml:"show_cause,omitempty"`
}

// Notifications controls desktop notifications on tier changes
type Notifications struct {
	Enabled bool `yaml:"enabled"`
}

// Settings is the validated, immutable form of Config
type Settings struct {
	Target            string
	Method            string
	Timeout           time.Duration
	Interval          time.Duration
	Threshold         time.Duration
	ModerateThreshold time.Duration
	Privileged        bool
	TCPPort           int
	HTTP              HTTP
	Icon              Icon
	ShowCause         bool
	Notify            bool
}

// Default returns the compiled-in configuration
func Default() *Config {
	return &Config{
		Target:     DefaultTarget,
		Method:     DefaultMethod,
		Timeout:    DefaultTimeout,
		Interval:   DefaultInterval,
		Threshold:  DefaultThreshold,
		Privileged: runtime.GOOS == "windows",
		Icon: Icon{
			Size:     DefaultIconSize,
			FontSize: DefaultFontSize,
			Style:    DefaultIconStyle,
			Marker:   DefaultMarker,
		},
	}
}

// GetConfigPath returns the path to the global config file
func GetConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	return filepath.Join(homeDir, ".config", "pingtray", "config.yml"), nil
}

// resolvePath returns path, or the global config path when path is empty
func resolvePath(path string) (string, error) {
	if path != "" {
		return path, nil
	}
	return GetConfigPath()
}

// InitConfig writes cfg (or the defaults when nil) to path
func InitConfig(path string, cfg *Config, force bool) error {
	configPath, err := resolvePath(path)
	if err != nil {
		return err
	}

	// Check if config already exists
	if _, err := os.Stat(configPath); err == nil && !force {
		return fmt.Errorf("config file already exists at %s (use --force to overwrite)", configPath)
	}

	if cfg == nil {
		cfg = Default()
	}
	if _, err := cfg.Validate(); err != nil {
		return err
	}

	return SaveConfig(configPath, cfg)
}

// LoadConfig reads and parses the config file. Fields missing from the
// file keep their default values.
func LoadConfig(path string) (*Config, error) {
	configPath, err := resolvePath(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return cfg, nil
}

// LoadOrDefault loads the config file, falling back to the compiled-in
// defaults when the default file does not exist. An explicit path must
// exist. Nothing is written.
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := LoadConfig(path)
	if path == "" && errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

// SaveConfig writes the config to path
func SaveConfig(path string, cfg *Config) error {
	configPath, err := resolvePath(path)
	if err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	configDir := filepath.Dir(configPath)
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	content := append([]byte(header), data...)
	if err := os.WriteFile(configPath, content, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

const header = `# pingtray configuration
# method: icmp, tcp or http. Durations use Go syntax (500ms, 1s, 20s).
`

// Validate checks the config and returns its immutable settings
func (c *Config) Validate() (*Settings, error) {
	s := &Settings{
		Target:     strings.TrimSpace(ResolveEnv(c.Target)),
		Method:     strings.ToLower(strings.TrimSpace(c.Method)),
		Privileged: c.Privileged,
		TCPPort:    c.TCP.Port,
		HTTP:       c.HTTP,
		Icon:       c.Icon,
		ShowCause:  c.Tooltip.ShowCause,
		Notify:     c.Notifications.Enabled,
	}
	s.HTTP.URL = ResolveEnv(c.HTTP.URL)

	if s.Method == "" {
		s.Method = DefaultMethod
	}
	if !contains(knownMethods, s.Method) {
		return nil, fmt.Errorf("unknown probe method %q (want one of %s)", c.Method, strings.Join(knownMethods, ", "))
	}

	if s.Target == "" && !(s.Method == "http" && s.HTTP.URL != "") {
		return nil, fmt.Errorf("target is required")
	}

	var err error
	if s.Timeout, err = parsePositive("timeout", c.Timeout); err != nil {
		return nil, err
	}
	if s.Interval, err = parsePositive("interval", c.Interval); err != nil {
		return nil, err
	}
	if s.Threshold, err = parsePositive("threshold", c.Threshold); err != nil {
		return nil, err
	}
	if c.ModerateThreshold != "" {
		if s.ModerateThreshold, err = parsePositive("moderate_threshold", c.ModerateThreshold); err != nil {
			return nil, err
		}
		if s.ModerateThreshold <= s.Threshold {
			return nil, fmt.Errorf("moderate_threshold (%s) must be above threshold (%s)", s.ModerateThreshold, s.Threshold)
		}
	}

	if s.TCPPort < 0 || s.TCPPort > 65535 {
		return nil, fmt.Errorf("invalid tcp port: %d", s.TCPPort)
	}

	if s.Icon.Size == 0 {
		s.Icon.Size = DefaultIconSize
	}
	if s.Icon.Size < minIconSize {
		return nil, fmt.Errorf("icon size must be at least %d, got %d", minIconSize, s.Icon.Size)
	}
	if s.Icon.FontSize <= 0 {
		s.Icon.FontSize = DefaultFontSize
	}
	if s.Icon.Style == "" {
		s.Icon.Style = DefaultIconStyle
	}
	if !contains(knownStyles, s.Icon.Style) {
		return nil, fmt.Errorf("unknown icon style %q (want one of %s)", s.Icon.Style, strings.Join(knownStyles, ", "))
	}
	if s.Icon.Marker == "" {
		s.Icon.Marker = DefaultMarker
	}
	s.Icon.Font = ResolveEnv(s.Icon.Font)

	return s, nil
}

// ProbeTarget is what the prober is pointed at: the URL for the http
// method when one is configured, the target host otherwise.
func (s *Settings) ProbeTarget() string {
	if s.Method == "http" && s.HTTP.URL != "" {
		return s.HTTP.URL
	}
	return s.Target
}

func parsePositive(name, value string) (time.Duration, error) {
	d, err := time.ParseDuration(strings.TrimSpace(value))
	if err != nil {
		return 0, fmt.Errorf("invalid %s duration: %w", name, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%s must be positive, got %s", name, value)
	}
	return d, nil
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}

// ResolveEnv replaces environment variable placeholders with actual values
// Supports ${VAR_NAME} syntax
func ResolveEnv(value string) string {
	return os.ExpandEnv(value)
}
