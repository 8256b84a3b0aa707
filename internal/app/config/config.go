package config

import "time"

// Config provides read-only access to application configuration.
// This interface abstracts the configuration source (YAML file, defaults)
// and ensures the app layer doesn't depend on infrastructure details.
type Config interface {
	// Core settings
	Home() string       // Base directory for kindred data (KINDRED_HOME)
	ListenAddr() string // HTTP listen address
	PublicURL() string  // Externally visible base URL, used for auth redirects

	// Storage
	Storage() string // "memory" or "sqlite"
	DBPath() string  // SQLite database file

	// Authentication
	AuthProvider() string       // "local" or "hosted"
	AuthURL() string            // Hosted auth API base URL
	AuthAPIKey() string         // Hosted auth API key
	AuthTimeoutSec() int        // Hosted auth request timeout in seconds
	AuthTimeout() time.Duration // Hosted auth request timeout as Duration

	// Logging
	LogLevel() string  // debug, info, warn, error
	LogFormat() string // console or json

	// Web
	SessionCookie() string // Session cookie name
	DevMode() bool         // Relaxed cookies and verbose errors

	// Data export
	ExportBucket() string // S3 bucket for exports; empty keeps exports on disk
	ExportPrefix() string // Key prefix inside the bucket
	ExportRegion() string // AWS region override

	// Metadata
	ConfigSource() string // Source of configuration: "yaml" or "default"
	SettingPath() string  // Path to setting.yaml if loaded from file
}

// AppConfig is the concrete implementation of Config interface.
// It holds all configuration values loaded from various sources.
type AppConfig struct {
	home       string
	listenAddr string
	publicURL  string

	storage string
	dbPath  string

	authProvider   string
	authURL        string
	authAPIKey     string
	authTimeoutSec int

	logLevel  string
	logFormat string

	sessionCookie string
	devMode       bool

	exportBucket string
	exportPrefix string
	exportRegion string

	configSource string
	settingPath  string
}

// Home returns the base directory for kindred data
func (c *AppConfig) Home() string {
	return c.home
}

// ListenAddr returns the HTTP listen address
func (c *AppConfig) ListenAddr() string {
	return c.listenAddr
}

// PublicURL returns the externally visible base URL
func (c *AppConfig) PublicURL() string {
	return c.publicURL
}

// Storage returns the storage backend name
func (c *AppConfig) Storage() string {
	return c.storage
}

// DBPath returns the SQLite database file
func (c *AppConfig) DBPath() string {
	return c.dbPath
}

// AuthProvider returns the auth provider name
func (c *AppConfig) AuthProvider() string {
	return c.authProvider
}

// AuthURL returns the hosted auth API base URL
func (c *AppConfig) AuthURL() string {
	return c.authURL
}

// AuthAPIKey returns the hosted auth API key
func (c *AppConfig) AuthAPIKey() string {
	return c.authAPIKey
}

// AuthTimeoutSec returns the auth request timeout in seconds
func (c *AppConfig) AuthTimeoutSec() int {
	return c.authTimeoutSec
}

// AuthTimeout returns the auth request timeout as a Duration
func (c *AppConfig) AuthTimeout() time.Duration {
	return time.Duration(c.authTimeoutSec) * time.Second
}

// LogLevel returns the minimum log level
func (c *AppConfig) LogLevel() string {
	return c.logLevel
}

// LogFormat returns the log encoder name
func (c *AppConfig) LogFormat() string {
	return c.logFormat
}

// SessionCookie returns the session cookie name
func (c *AppConfig) SessionCookie() string {
	return c.sessionCookie
}

// DevMode returns whether development mode is enabled
func (c *AppConfig) DevMode() bool {
	return c.devMode
}

// ExportBucket returns the S3 bucket for exports
func (c *AppConfig) ExportBucket() string {
	return c.exportBucket
}

// ExportPrefix returns the S3 key prefix for exports
func (c *AppConfig) ExportPrefix() string {
	return c.exportPrefix
}

// ExportRegion returns the AWS region override for exports
func (c *AppConfig) ExportRegion() string {
	return c.exportRegion
}

// ConfigSource returns the source of configuration
func (c *AppConfig) ConfigSource() string {
	return c.configSource
}

// SettingPath returns the path to setting.yaml if loaded from file
func (c *AppConfig) SettingPath() string {
	return c.settingPath
}

// NewAppConfig creates a new AppConfig with the given values.
// This is typically called by the infrastructure layer after loading and merging configurations.
func NewAppConfig(
	home, listenAddr, publicURL string,
	storage, dbPath string,
	authProvider, authURL, authAPIKey string, authTimeoutSec int,
	logLevel, logFormat string,
	sessionCookie string, devMode bool,
	exportBucket, exportPrefix, exportRegion string,
	configSource, settingPath string,
) *AppConfig {
	return &AppConfig{
		home:           home,
		listenAddr:     listenAddr,
		publicURL:      publicURL,
		storage:        storage,
		dbPath:         dbPath,
		authProvider:   authProvider,
		authURL:        authURL,
		authAPIKey:     authAPIKey,
		authTimeoutSec: authTimeoutSec,
		logLevel:       logLevel,
		logFormat:      logFormat,
		sessionCookie:  sessionCookie,
		devMode:        devMode,
		exportBucket:   exportBucket,
		exportPrefix:   exportPrefix,
		exportRegion:   exportRegion,
		configSource:   configSource,
		settingPath:    settingPath,
	}
}
