// File: internal/config/config.go
package config

import (
	"fmt"
	"net/url"
	"time"

	"github.com/spf13/viper"
)

// Config holds the entire application configuration.
type Config struct {
	Logger     LoggerConfig     `mapstructure:"logger" yaml:"logger"`
	Browser    BrowserConfig    `mapstructure:"browser" yaml:"browser"`
	Extractor  ExtractorConfig  `mapstructure:"extractor" yaml:"extractor"`
	Playground PlaygroundConfig `mapstructure:"playground" yaml:"playground"`
	Telemetry  TelemetryConfig  `mapstructure:"telemetry" yaml:"telemetry"`
	Transport  TransportConfig  `mapstructure:"transport" yaml:"transport"`
	Server     ServerConfig     `mapstructure:"server" yaml:"server"`
}

// LoggerConfig holds all the configuration for the logger.
type LoggerConfig struct {
	Level       string      `mapstructure:"level" yaml:"level"`
	Format      string      `mapstructure:"format" yaml:"format"`
	AddSource   bool        `mapstructure:"add_source" yaml:"add_source"`
	ServiceName string      `mapstructure:"service_name" yaml:"service_name"`
	LogFile     string      `mapstructure:"log_file" yaml:"log_file"`
	MaxSize     int         `mapstructure:"max_size" yaml:"max_size"`
	MaxBackups  int         `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAge      int         `mapstructure:"max_age" yaml:"max_age"`
	Compress    bool        `mapstructure:"compress" yaml:"compress"`
	Colors      ColorConfig `mapstructure:"colors" yaml:"colors"`
}

// ColorConfig defines the color codes for different log levels.
type ColorConfig struct {
	Debug  string `mapstructure:"debug" yaml:"debug"`
	Info   string `mapstructure:"info" yaml:"info"`
	Warn   string `mapstructure:"warn" yaml:"warn"`
	Error  string `mapstructure:"error" yaml:"error"`
	DPanic string `mapstructure:"dpanic" yaml:"dpanic"`
	Panic  string `mapstructure:"panic" yaml:"panic"`
	Fatal  string `mapstructure:"fatal" yaml:"fatal"`
}

// BrowserConfig holds settings for the headless browser used to capture the
// inspected element.
type BrowserConfig struct {
	Headless       bool          `mapstructure:"headless" yaml:"headless"`
	Args           []string      `mapstructure:"args" yaml:"args"`
	CaptureTimeout time.Duration `mapstructure:"capture_timeout" yaml:"capture_timeout"`
	// Selector is used when a capture request names none.
	Selector string `mapstructure:"selector" yaml:"selector"`
}

// ExtractorConfig configures the extraction pipeline and its bug reporting.
type ExtractorConfig struct {
	// Version is stamped into error reports. Filled from the build version
	// when left empty.
	Version         string `mapstructure:"version" yaml:"version"`
	BugTrackerURL   string `mapstructure:"bug_tracker_url" yaml:"bug_tracker_url"`
	IssueTitle      string `mapstructure:"issue_title" yaml:"issue_title"`
	ReportMaxLength int    `mapstructure:"report_max_length" yaml:"report_max_length"`
	LoadingText     string `mapstructure:"loading_text" yaml:"loading_text"`
}

// PlaygroundConfig holds the endpoints and CDN resources of every target.
type PlaygroundConfig struct {
	CodePen  TargetConfig `mapstructure:"codepen" yaml:"codepen"`
	JSFiddle TargetConfig `mapstructure:"jsfiddle" yaml:"jsfiddle"`
}

// TargetConfig describes one playground service.
type TargetConfig struct {
	Endpoint  string   `mapstructure:"endpoint" yaml:"endpoint"`
	Resources []string `mapstructure:"resources" yaml:"resources"`
}

// TelemetryConfig configures the analytics sink.
type TelemetryConfig struct {
	Enabled    bool          `mapstructure:"enabled" yaml:"enabled"`
	Endpoint   string        `mapstructure:"endpoint" yaml:"endpoint"`
	TrackingID string        `mapstructure:"tracking_id" yaml:"tracking_id"`
	QueueSize  int           `mapstructure:"queue_size" yaml:"queue_size"`
	RateLimit  float64       `mapstructure:"rate_limit" yaml:"rate_limit"`
	Timeout    time.Duration `mapstructure:"timeout" yaml:"timeout"`
}

// Transport modes.
const (
	TransportForm = "form"
	TransportPost = "post"
)

// TransportConfig selects how playground payloads leave the process.
type TransportConfig struct {
	Mode      string        `mapstructure:"mode" yaml:"mode"`
	OutputDir string        `mapstructure:"output_dir" yaml:"output_dir"`
	Timeout   time.Duration `mapstructure:"timeout" yaml:"timeout"`
}

// ServerConfig configures the local panel host.
type ServerConfig struct {
	Addr string `mapstructure:"addr" yaml:"addr"`
}

// Default CDN resources, matching what the playgrounds need to run JSX.
const (
	ReactCDN      = "https://cdnjs.cloudflare.com/ajax/libs/react/0.14.6/react.min.js"
	ReactDOMCDN   = "https://cdnjs.cloudflare.com/ajax/libs/react/0.14.6/react-dom.min.js"
	BabelBrowser  = "https://cdnjs.cloudflare.com/ajax/libs/babel-core/5.8.24/browser.js"
	CodePenDefine = "http://codepen.io/pen/define"
	JSFiddlePost  = "http://jsfiddle.net/api/post/library/pure/"
)

// NewDefaultConfig creates a new configuration struct populated with default values.
func NewDefaultConfig() *Config {
	v := viper.New()
	SetDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		// This should not happen with defaults, but good to be safe.
		panic(fmt.Sprintf("failed to unmarshal default config: %v", err))
	}
	return &cfg
}

// SetDefaults initializes default values for various configuration parameters.
func SetDefaults(v *viper.Viper) {
	// -- Logger --
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.add_source", false)
	v.SetDefault("logger.service_name", "extractor")
	v.SetDefault("logger.log_file", "")
	v.SetDefault("logger.max_size", 10)
	v.SetDefault("logger.max_backups", 3)
	v.SetDefault("logger.max_age", 7)
	v.SetDefault("logger.compress", true)
	v.SetDefault("logger.colors.debug", "cyan")
	v.SetDefault("logger.colors.info", "green")
	v.SetDefault("logger.colors.warn", "yellow")
	v.SetDefault("logger.colors.error", "red")

	// -- Browser --
	v.SetDefault("browser.headless", true)
	v.SetDefault("browser.capture_timeout", "30s")
	v.SetDefault("browser.selector", "body")

	// -- Extractor --
	v.SetDefault("extractor.bug_tracker_url", "https://github.com/xkilldash9x/extractor-cli/issues")
	v.SetDefault("extractor.issue_title", "Error after extracting")
	v.SetDefault("extractor.report_max_length", 2000)
	v.SetDefault("extractor.loading_text", "")

	// -- Playground --
	v.SetDefault("playground.codepen.endpoint", CodePenDefine)
	v.SetDefault("playground.codepen.resources", []string{ReactCDN, ReactDOMCDN})
	v.SetDefault("playground.jsfiddle.endpoint", JSFiddlePost)
	v.SetDefault("playground.jsfiddle.resources", []string{BabelBrowser, ReactCDN, ReactDOMCDN})

	// -- Telemetry --
	v.SetDefault("telemetry.enabled", false)
	v.SetDefault("telemetry.endpoint", "https://www.google-analytics.com/collect")
	v.SetDefault("telemetry.queue_size", 64)
	v.SetDefault("telemetry.rate_limit", 5.0)
	v.SetDefault("telemetry.timeout", "5s")

	// -- Transport --
	v.SetDefault("transport.mode", TransportForm)
	v.SetDefault("transport.output_dir", ".")
	v.SetDefault("transport.timeout", "30s")

	// -- Server --
	v.SetDefault("server.addr", "127.0.0.1:7331")
}

// NewConfigFromViper creates a new configuration instance from a viper object.
func NewConfigFromViper(v *viper.Viper) (*Config, error) {
	var cfg Config

	// The tracking id is account specific, keep it out of config files.
	_ = v.BindEnv("telemetry.tracking_id", "EXTRACTOR_TELEMETRY_TRACKING_ID")

	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// Validate checks the configuration for required fields and sane values.
func (c *Config) Validate() error {
	if c.Extractor.ReportMaxLength <= 0 {
		return fmt.Errorf("extractor.report_max_length must be a positive integer")
	}
	if c.Extractor.BugTrackerURL != "" {
		if err := validateAbsoluteURL(c.Extractor.BugTrackerURL); err != nil {
			return fmt.Errorf("extractor.bug_tracker_url: %w", err)
		}
	}
	if err := c.Playground.Validate(); err != nil {
		return fmt.Errorf("playground configuration invalid: %w", err)
	}
	if err := c.Telemetry.Validate(); err != nil {
		return fmt.Errorf("telemetry configuration invalid: %w", err)
	}
	switch c.Transport.Mode {
	case TransportForm, TransportPost:
	default:
		return fmt.Errorf("transport.mode must be %q or %q, got %q", TransportForm, TransportPost, c.Transport.Mode)
	}
	return nil
}

// Validate checks both playground endpoints.
func (p *PlaygroundConfig) Validate() error {
	if err := validateAbsoluteURL(p.CodePen.Endpoint); err != nil {
		return fmt.Errorf("codepen.endpoint: %w", err)
	}
	if err := validateAbsoluteURL(p.JSFiddle.Endpoint); err != nil {
		return fmt.Errorf("jsfiddle.endpoint: %w", err)
	}
	return nil
}

// Validate checks the telemetry settings. A disabled sink is always valid.
func (t *TelemetryConfig) Validate() error {
	if !t.Enabled {
		return nil
	}
	if t.TrackingID == "" {
		return fmt.Errorf("tracking_id is required when telemetry is enabled")
	}
	if err := validateAbsoluteURL(t.Endpoint); err != nil {
		return fmt.Errorf("endpoint: %w", err)
	}
	if t.QueueSize <= 0 {
		return fmt.Errorf("queue_size must be a positive integer")
	}
	return nil
}

func validateAbsoluteURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if !u.IsAbs() || u.Host == "" {
		return fmt.Errorf("%q is not an absolute URL", raw)
	}
	return nil
}
