package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/vango-dev/portfolio/internal/errors"
)

const (
	// DefaultFileName is the configuration file looked up in the working
	// directory when no path is given.
	DefaultFileName = "portfolio.yaml"

	// DefaultAddr is the default listen address.
	DefaultAddr = ":3000"

	// DefaultFrom is the placeholder sender used when CONTACT_FROM_EMAIL is
	// unset.
	DefaultFrom = "Portfolio <onboarding@resend.dev>"

	// DefaultIntroDuration is how long the hero intro animation runs on a
	// visitor's first page view.
	DefaultIntroDuration = 2400 * time.Millisecond
)

// Email providers.
const (
	ProviderResend = "resend"
	ProviderDryRun = "dry-run"
)

// Archive backends.
const (
	ArchiveNone = ""
	ArchiveDisk = "disk"
	ArchiveS3   = "s3"
)

// Config is the complete server configuration.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Static  StaticConfig  `yaml:"static"`
	Content ContentConfig `yaml:"content"`
	Email   EmailConfig   `yaml:"email"`
	Archive ArchiveConfig `yaml:"archive"`
	Motion  MotionConfig  `yaml:"motion"`
	Log     LogConfig     `yaml:"log"`

	// Dev enables development mode (text logs, live reload). Set by flag.
	Dev bool `yaml:"-"`

	path string
}

// ServerConfig contains listener settings.
type ServerConfig struct {
	// Addr is the site listen address.
	Addr string `yaml:"addr"`

	// MetricsAddr serves /metrics on a separate listener. Empty serves
	// /metrics on the main listener.
	MetricsAddr string `yaml:"metricsAddr"`

	ReadTimeout     time.Duration `yaml:"readTimeout"`
	WriteTimeout    time.Duration `yaml:"writeTimeout"`
	ShutdownTimeout time.Duration `yaml:"shutdownTimeout"`

	// TrustProxy enables X-Forwarded-For / X-Real-IP handling.
	TrustProxy bool `yaml:"trustProxy"`
}

// StaticConfig contains static file serving settings.
type StaticConfig struct {
	// Dir is the directory containing static files.
	Dir string `yaml:"dir"`

	// Prefix is the URL prefix for static files (default "/static/").
	Prefix string `yaml:"prefix"`

	// MaxAge sets Cache-Control max-age. Zero disables caching headers.
	MaxAge time.Duration `yaml:"maxAge"`
}

// ContentConfig points at the site content file.
type ContentConfig struct {
	Path string `yaml:"path"`
}

// EmailConfig configures the transactional email provider.
type EmailConfig struct {
	Provider string `yaml:"provider"`
	APIKey   string `yaml:"apiKey"`
	From     string `yaml:"from"`
	To       string `yaml:"to"`
	BaseURL  string `yaml:"baseURL"`
}

// ArchiveConfig configures where get-started attachments are archived.
type ArchiveConfig struct {
	// Backend is "", "disk" or "s3". Empty disables archiving.
	Backend string `yaml:"backend"`

	// Dir is the root directory for the disk backend.
	Dir string `yaml:"dir"`

	Bucket          string `yaml:"bucket"`
	Prefix          string `yaml:"prefix"`
	Region          string `yaml:"region"`
	Endpoint        string `yaml:"endpoint"`
	AccessKeyID     string `yaml:"accessKeyID"`
	SecretAccessKey string `yaml:"secretAccessKey"`
	PathStyle       bool   `yaml:"pathStyle"`
}

// MotionConfig holds entrance animation timing.
type MotionConfig struct {
	// IntroDuration delays the hero stagger on a first visit.
	IntroDuration time.Duration `yaml:"introDuration"`

	// BaseDelay and Step time the section entrance staggers.
	BaseDelay time.Duration `yaml:"baseDelay"`
	Step      time.Duration `yaml:"step"`
}

// LogConfig configures structured logging.
type LogConfig struct {
	// Level is debug, info, warn or error.
	Level string `yaml:"level"`

	// Format is json or text. Dev mode defaults to text.
	Format string `yaml:"format"`
}

// Default returns a Config with every default applied.
func Default() *Config {
	c := &Config{}
	c.applyDefaults()
	return c
}

// Load reads the file at path, or DefaultFileName when path is empty, and
// applies environment overrides from the process environment. A missing
// default file is not an error.
func Load(path string) (*Config, error) {
	return LoadWithEnv(path, os.LookupEnv)
}

// LoadWithEnv is Load with an explicit environment lookup.
func LoadWithEnv(path string, lookup func(string) (string, bool)) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultFileName
	}

	cfg := &Config{}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, errors.New("P102").WithDetail(path + ": " + err.Error()).Wrap(err)
		}
		cfg.path = path
	case os.IsNotExist(err) && !explicit:
		// Defaults and environment only.
	case os.IsNotExist(err):
		return nil, errors.New("P101").WithDetail(path).Wrap(err)
	default:
		return nil, errors.New("P102").Wrap(err)
	}

	cfg.applyEnv(lookup)
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) {
	str := func(dst *string, key string) {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			*dst = strings.TrimSpace(v)
		}
	}

	str(&c.Email.APIKey, "RESEND_API_KEY")
	str(&c.Email.From, "CONTACT_FROM_EMAIL")
	str(&c.Email.To, "CONTACT_TO_EMAIL")
	str(&c.Email.Provider, "PORTFOLIO_EMAIL_PROVIDER")
	str(&c.Server.Addr, "PORTFOLIO_ADDR")
	str(&c.Server.MetricsAddr, "PORTFOLIO_METRICS_ADDR")
	str(&c.Archive.Backend, "PORTFOLIO_ARCHIVE_BACKEND")
	str(&c.Archive.Dir, "PORTFOLIO_ARCHIVE_DIR")
	str(&c.Archive.Bucket, "PORTFOLIO_ARCHIVE_BUCKET")
	str(&c.Archive.Endpoint, "PORTFOLIO_ARCHIVE_ENDPOINT")
	str(&c.Archive.Region, "AWS_REGION")
	str(&c.Archive.AccessKeyID, "AWS_ACCESS_KEY_ID")
	str(&c.Archive.SecretAccessKey, "AWS_SECRET_ACCESS_KEY")
	str(&c.Log.Level, "PORTFOLIO_LOG_LEVEL")

	if v, ok := lookup("PORTFOLIO_TRUST_PROXY"); ok {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Server.TrustProxy = b
		}
	}
}

// applyDefaults fills in default values for empty fields.
func (c *Config) applyDefaults() {
	if c.Server.Addr == "" {
		c.Server.Addr = DefaultAddr
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 15 * time.Second
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 30 * time.Second
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = 10 * time.Second
	}

	if c.Static.Dir == "" {
		c.Static.Dir = "public"
	}
	if c.Static.Prefix == "" {
		c.Static.Prefix = "/static/"
	}
	if !strings.HasPrefix(c.Static.Prefix, "/") {
		c.Static.Prefix = "/" + c.Static.Prefix
	}
	if !strings.HasSuffix(c.Static.Prefix, "/") {
		c.Static.Prefix += "/"
	}

	if c.Content.Path == "" {
		c.Content.Path = "content/site.yaml"
	}

	if c.Email.Provider == "" {
		c.Email.Provider = ProviderResend
	}
	if c.Email.From == "" {
		c.Email.From = DefaultFrom
	}

	if c.Archive.Prefix == "" {
		c.Archive.Prefix = "submissions/"
	}
	if c.Archive.Region == "" {
		c.Archive.Region = "us-east-1"
	}

	if c.Motion.IntroDuration == 0 {
		c.Motion.IntroDuration = DefaultIntroDuration
	}
	if c.Motion.BaseDelay == 0 {
		c.Motion.BaseDelay = 60 * time.Millisecond
	}
	if c.Motion.Step == 0 {
		c.Motion.Step = 70 * time.Millisecond
	}

	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	invalid := func(format string, args ...any) error {
		return errors.New("P103").WithDetail(fmt.Sprintf(format, args...))
	}

	switch c.Email.Provider {
	case ProviderResend, ProviderDryRun:
	default:
		return invalid("email.provider must be %q or %q, got %q", ProviderResend, ProviderDryRun, c.Email.Provider)
	}

	switch c.Archive.Backend {
	case ArchiveNone:
	case ArchiveDisk:
		if c.Archive.Dir == "" {
			return invalid("archive.dir is required for the disk backend")
		}
	case ArchiveS3:
		if c.Archive.Bucket == "" {
			return invalid("archive.bucket is required for the s3 backend")
		}
	default:
		return invalid("archive.backend must be empty, %q or %q, got %q", ArchiveDisk, ArchiveS3, c.Archive.Backend)
	}

	if c.Motion.IntroDuration < 0 || c.Motion.BaseDelay < 0 || c.Motion.Step < 0 {
		return invalid("motion timings must not be negative")
	}

	if _, err := ParseLevel(c.Log.Level); err != nil {
		return invalid("%v", err)
	}
	switch c.Log.Format {
	case "", "json", "text":
	default:
		return invalid("log.format must be json or text, got %q", c.Log.Format)
	}
	return nil
}

// EmailConfigured reports whether the form endpoints can send mail. The
// dry-run provider needs no key.
func (c *Config) EmailConfigured() bool {
	if len(c.Recipients()) == 0 {
		return false
	}
	return c.Email.Provider == ProviderDryRun || c.Email.APIKey != ""
}

// Recipients splits Email.To on commas.
func (c *Config) Recipients() []string {
	var out []string
	for _, addr := range strings.Split(c.Email.To, ",") {
		if addr = strings.TrimSpace(addr); addr != "" {
			out = append(out, addr)
		}
	}
	return out
}

// Path returns the file the config was loaded from, if any.
func (c *Config) Path() string {
	return c.path
}

// Dir returns the directory containing the config file, or "" when no file
// was loaded.
func (c *Config) Dir() string {
	if c.path == "" {
		return ""
	}
	return filepath.Dir(c.path)
}

// resolve makes p relative to the config file directory.
func (c *Config) resolve(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.Dir(), p)
}

// StaticPath returns the static directory path.
func (c *Config) StaticPath() string {
	return c.resolve(c.Static.Dir)
}

// ContentPath returns the content file path.
func (c *Config) ContentPath() string {
	return c.resolve(c.Content.Path)
}

// ArchivePath returns the disk archive directory path.
func (c *Config) ArchivePath() string {
	return c.resolve(c.Archive.Dir)
}

// ParseLevel converts a level name to a slog.Level.
func ParseLevel(s string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("unknown log level %q", s)
	}
	return l, nil
}

// NewLogger builds the process logger.
func (c *Config) NewLogger(w io.Writer) *slog.Logger {
	level, err := ParseLevel(c.Log.Level)
	if err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}

	format := c.Log.Format
	if format == "" {
		format = "json"
		if c.Dev {
			format = "text"
		}
	}
	if format == "text" {
		return slog.New(slog.NewTextHandler(w, opts))
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}
