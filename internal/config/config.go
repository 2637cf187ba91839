package config

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/vango-dev/sitekit/internal/errors"
)

const (
	// ConfigFileName is the name of the configuration file.
	ConfigFileName = "sitekit.json"

	// EnvFileName is the optional dotenv file read after the config file.
	EnvFileName = ".env"

	// EnvPrefix prefixes every environment override.
	EnvPrefix = "SITEKIT_"

	// DefaultAddr is the default listen address.
	DefaultAddr = ":8080"

	// DefaultPagesDir is the default directory of HTML pages.
	DefaultPagesDir = "site"

	// DefaultHomePage is served for "/".
	DefaultHomePage = "index.html"

	// DefaultRedirect is where completed submissions navigate.
	DefaultRedirect = "thank_you.html"
)

// Config represents the complete sitekit.json configuration.
type Config struct {
	// Name is the site name.
	Name string `json:"name,omitempty"`

	// Addr is the HTTP listen address.
	Addr string `json:"addr,omitempty"`

	// PagesDir holds the HTML pages and static assets.
	PagesDir string `json:"pagesDir,omitempty"`

	// HomePage is the page served for "/".
	HomePage string `json:"homePage,omitempty"`

	// RedirectTo is the navigation target after a completed submission.
	RedirectTo string `json:"redirectTo,omitempty"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `json:"logLevel,omitempty"`

	// LogFormat is text or json.
	LogFormat string `json:"logFormat,omitempty"`

	// Catalog selects where project details come from.
	Catalog CatalogConfig `json:"catalog,omitempty"`

	// Timing contains the page delays.
	Timing TimingConfig `json:"timing,omitempty"`

	// Layout contains the layout constants.
	Layout LayoutConfig `json:"layout,omitempty"`

	// Session contains session configuration.
	Session SessionConfig `json:"session,omitempty"`

	// configPath stores the path where the config was loaded from.
	configPath string
}

// CatalogConfig selects the project catalog source. With neither File nor
// S3Bucket set the built-in catalog is used.
type CatalogConfig struct {
	// File is a YAML catalog on disk.
	File string `json:"file,omitempty"`

	// S3Bucket, S3Key and S3Region locate a YAML catalog in S3.
	S3Bucket string `json:"s3Bucket,omitempty"`
	S3Key    string `json:"s3Key,omitempty"`
	S3Region string `json:"s3Region,omitempty"`
}

// TimingConfig contains delays as Go duration strings (e.g. "1500ms").
type TimingConfig struct {
	SubmitDelay   string `json:"submitDelay,omitempty"`
	RedirectDelay string `json:"redirectDelay,omitempty"`
	ToastVisible  string `json:"toastVisible,omitempty"`
	ToastFadeOut  string `json:"toastFadeOut,omitempty"`
	Throttle      string `json:"throttle,omitempty"`
}

// LayoutConfig contains layout constants in CSS pixels.
type LayoutConfig struct {
	// MobileBreakpoint is the width at which the burger menu closes.
	MobileBreakpoint int `json:"mobileBreakpoint,omitempty"`

	// ScrollOffset is used for anchor scrolling on pages without a header.
	ScrollOffset int `json:"scrollOffset,omitempty"`
}

// SessionConfig contains session configuration.
type SessionConfig struct {
	// TTL is how long a page session may wait for its WebSocket.
	TTL string `json:"ttl,omitempty"`
}

// New creates a new Config with default values.
func New() *Config {
	c := &Config{}
	c.applyDefaults()
	return c
}

// Load reads sitekit.json from dir.
func Load(dir string) (*Config, error) {
	return LoadFile(filepath.Join(dir, ConfigFileName))
}

// LoadFile reads configuration from the specified file path.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New("E100").
				WithDetail("No " + filepath.Base(path) + " found in " + filepath.Dir(path)).
				WithSuggestion("Create sitekit.json or pass --config")
		}
		return nil, errors.New("E101").Wrap(err)
	}

	cfg := &Config{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, errors.New("E101").
			WithDetail("Failed to parse " + filepath.Base(path) + ": " + err.Error()).
			WithSuggestion("Check that the file is valid JSON")
	}

	cfg.configPath = path
	cfg.applyDefaults()
	return cfg, nil
}

// Resolve builds the effective configuration: the file at path (or
// sitekit.json in dir when path is empty and the file exists, else the
// defaults), then the .env file next to it, then SITEKIT_* variables.
func Resolve(path, dir string) (*Config, error) {
	var (
		cfg *Config
		err error
	)
	switch {
	case path != "":
		cfg, err = LoadFile(path)
	case Exists(dir):
		cfg, err = Load(dir)
	default:
		cfg = New()
	}
	if err != nil {
		return nil, err
	}

	envDir := cfg.Dir()
	if envDir == "" {
		envDir = dir
	}
	if err := LoadEnv(filepath.Join(envDir, EnvFileName)); err != nil {
		return nil, err
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadEnv loads a dotenv file into the process environment. Variables
// already set win. A missing file is not an error.
func LoadEnv(path string) error {
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return errors.New("E103").
			WithDetail("Failed to parse " + path).
			Wrap(err)
	}
	return nil
}

// ApplyEnv overrides fields from SITEKIT_* environment variables.
func (c *Config) ApplyEnv() error {
	strs := map[string]*string{
		"NAME":              &c.Name,
		"ADDR":              &c.Addr,
		"PAGES_DIR":         &c.PagesDir,
		"HOME_PAGE":         &c.HomePage,
		"REDIRECT_TO":       &c.RedirectTo,
		"LOG_LEVEL":         &c.LogLevel,
		"LOG_FORMAT":        &c.LogFormat,
		"CATALOG_FILE":      &c.Catalog.File,
		"CATALOG_S3_BUCKET": &c.Catalog.S3Bucket,
		"CATALOG_S3_KEY":    &c.Catalog.S3Key,
		"CATALOG_S3_REGION": &c.Catalog.S3Region,
		"SUBMIT_DELAY":      &c.Timing.SubmitDelay,
		"REDIRECT_DELAY":    &c.Timing.RedirectDelay,
		"TOAST_VISIBLE":     &c.Timing.ToastVisible,
		"TOAST_FADE_OUT":    &c.Timing.ToastFadeOut,
		"THROTTLE":          &c.Timing.Throttle,
		"SESSION_TTL":       &c.Session.TTL,
	}
	for key, dst := range strs {
		if v, ok := os.LookupEnv(EnvPrefix + key); ok && v != "" {
			*dst = v
		}
	}

	ints := map[string]*int{
		"MOBILE_BREAKPOINT": &c.Layout.MobileBreakpoint,
		"SCROLL_OFFSET":     &c.Layout.ScrollOffset,
	}
	for key, dst := range ints {
		v, ok := os.LookupEnv(EnvPrefix + key)
		if !ok || v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return errors.New("E102").
				WithDetail(EnvPrefix + key + " must be an integer, got " + strconv.Quote(v))
		}
		*dst = n
	}
	return nil
}

// Path returns the path where the config was loaded from.
func (c *Config) Path() string {
	return c.configPath
}

// Dir returns the directory containing the config file.
func (c *Config) Dir() string {
	if c.configPath == "" {
		return ""
	}
	return filepath.Dir(c.configPath)
}

// applyDefaults fills in default values for empty fields.
func (c *Config) applyDefaults() {
	if c.Name == "" {
		c.Name = "sitekit"
	}
	if c.Addr == "" {
		c.Addr = DefaultAddr
	}
	if c.PagesDir == "" {
		c.PagesDir = DefaultPagesDir
	}
	if c.HomePage == "" {
		c.HomePage = DefaultHomePage
	}
	if c.RedirectTo == "" {
		c.RedirectTo = DefaultRedirect
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.LogFormat == "" {
		c.LogFormat = "text"
	}

	// Timing
	if c.Timing.SubmitDelay == "" {
		c.Timing.SubmitDelay = "1500ms"
	}
	if c.Timing.RedirectDelay == "" {
		c.Timing.RedirectDelay = "1000ms"
	}
	if c.Timing.ToastVisible == "" {
		c.Timing.ToastVisible = "5000ms"
	}
	if c.Timing.ToastFadeOut == "" {
		c.Timing.ToastFadeOut = "150ms"
	}
	if c.Timing.Throttle == "" {
		c.Timing.Throttle = "200ms"
	}

	// Layout
	if c.Layout.MobileBreakpoint == 0 {
		c.Layout.MobileBreakpoint = 1024
	}
	if c.Layout.ScrollOffset == 0 {
		c.Layout.ScrollOffset = 80
	}

	// Session
	if c.Session.TTL == "" {
		c.Session.TTL = "2m"
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Addr) == "" {
		return errors.New("E102").WithDetail("addr must not be empty")
	}

	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return errors.New("E102").
			WithDetail("logLevel must be debug, info, warn or error, got " + strconv.Quote(c.LogLevel))
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return errors.New("E102").
			WithDetail("logFormat must be text or json, got " + strconv.Quote(c.LogFormat))
	}

	durations := map[string]string{
		"timing.submitDelay":   c.Timing.SubmitDelay,
		"timing.redirectDelay": c.Timing.RedirectDelay,
		"timing.toastVisible":  c.Timing.ToastVisible,
		"timing.toastFadeOut":  c.Timing.ToastFadeOut,
		"timing.throttle":      c.Timing.Throttle,
		"session.ttl":          c.Session.TTL,
	}
	for name, v := range durations {
		d, err := time.ParseDuration(v)
		if err != nil || d < 0 {
			return errors.New("E102").
				WithDetail(name + " must be a non-negative duration such as \"1500ms\", got " + strconv.Quote(v))
		}
	}

	if c.Layout.MobileBreakpoint < 0 || c.Layout.ScrollOffset < 0 {
		return errors.New("E102").WithDetail("layout values must not be negative")
	}

	if c.Catalog.S3Bucket != "" && (c.Catalog.S3Key == "" || c.Catalog.S3Region == "") {
		return errors.New("E102").
			WithDetail("catalog.s3Bucket requires catalog.s3Key and catalog.s3Region").
			WithSuggestion("Set SITEKIT_CATALOG_S3_KEY and SITEKIT_CATALOG_S3_REGION")
	}
	if c.Catalog.S3Bucket != "" && c.Catalog.File != "" {
		return errors.New("E102").WithDetail("catalog.file and catalog.s3Bucket are mutually exclusive")
	}
	return nil
}

// PagesPath returns the absolute path to the pages directory.
func (c *Config) PagesPath() string {
	return c.resolve(c.PagesDir)
}

// CatalogPath returns the absolute path to the catalog file, or "".
func (c *Config) CatalogPath() string {
	if c.Catalog.File == "" {
		return ""
	}
	return c.resolve(c.Catalog.File)
}

func (c *Config) resolve(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(c.Dir(), path)
}

// SlogLevel returns LogLevel as a slog.Level.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// JSON returns the configuration as indented JSON.
func (c *Config) JSON() ([]byte, error) {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return nil, errors.New("E101").Wrap(err)
	}
	return append(data, '\n'), nil
}

// SubmitDelayDuration returns the simulated submission round-trip.
func (t TimingConfig) SubmitDelayDuration() time.Duration {
	return duration(t.SubmitDelay, 1500*time.Millisecond)
}

// RedirectDelayDuration returns the pause before redirecting.
func (t TimingConfig) RedirectDelayDuration() time.Duration {
	return duration(t.RedirectDelay, 1000*time.Millisecond)
}

// ToastVisibleDuration returns how long a toast stays visible.
func (t TimingConfig) ToastVisibleDuration() time.Duration {
	return duration(t.ToastVisible, 5000*time.Millisecond)
}

// ToastFadeOutDuration returns the toast exit transition.
func (t TimingConfig) ToastFadeOutDuration() time.Duration {
	return duration(t.ToastFadeOut, 150*time.Millisecond)
}

// ThrottleDuration returns the scroll and resize throttle window.
func (t TimingConfig) ThrottleDuration() time.Duration {
	return duration(t.Throttle, 200*time.Millisecond)
}

// TTLDuration returns the session attach timeout.
func (s SessionConfig) TTLDuration() time.Duration {
	return duration(s.TTL, 2*time.Minute)
}

func duration(s string, def time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil || d < 0 {
		return def
	}
	return d
}

// Exists checks if a config file exists in the given directory.
func Exists(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, ConfigFileName))
	return err == nil
}
