package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/YoshitsuguKoike/kindred/internal/app/config"
)

// SettingFileName is the settings file inside the home directory
const SettingFileName = "setting.yaml"

// HomeEnv overrides the home directory
const HomeEnv = "KINDRED_HOME"

// DefaultHome is used when HomeEnv is unset
const DefaultHome = ".kindred"

// RawSettings represents the structure of setting.yaml.
// Pointer fields distinguish "unset" from zero values.
type RawSettings struct {
	// Core settings
	ListenAddr *string `yaml:"listen_addr" json:"listen_addr"`
	PublicURL  *string `yaml:"public_url" json:"public_url"`

	// Storage
	Storage *string `yaml:"storage" json:"storage"`
	DBPath  *string `yaml:"db_path" json:"db_path"`

	// Authentication
	AuthProvider   *string `yaml:"auth_provider" json:"auth_provider"`
	AuthURL        *string `yaml:"auth_url" json:"auth_url"`
	AuthAPIKey     *string `yaml:"auth_api_key" json:"auth_api_key"`
	AuthTimeoutSec *int    `yaml:"auth_timeout_sec" json:"auth_timeout_sec"`

	// Logging
	LogLevel  *string `yaml:"log_level" json:"log_level"`
	LogFormat *string `yaml:"log_format" json:"log_format"`

	// Web
	SessionCookie *string `yaml:"session_cookie" json:"session_cookie"`
	DevMode       *bool   `yaml:"dev_mode" json:"dev_mode"`

	// Data export
	ExportBucket *string `yaml:"export_bucket" json:"export_bucket"`
	ExportPrefix *string `yaml:"export_prefix" json:"export_prefix"`
	ExportRegion *string `yaml:"export_region" json:"export_region"`
}

// ResolveHome returns the home directory from KINDRED_HOME or the default
func ResolveHome() string {
	if home := strings.TrimSpace(os.Getenv(HomeEnv)); home != "" {
		return home
	}
	return DefaultHome
}

// LoadSettings loads configuration from <baseDir>/setting.yaml.
// Priority: setting.yaml > defaults
func LoadSettings(fs afero.Fs, baseDir string) (*config.AppConfig, error) {
	settings := &RawSettings{}
	configSource := "default"
	settingPath := ""

	yamlPath := filepath.Join(baseDir, SettingFileName)
	data, err := afero.ReadFile(fs, yamlPath)
	switch {
	case err == nil:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		// An empty file decodes to io.EOF and means "all defaults"
		if err := dec.Decode(settings); err != nil && len(bytes.TrimSpace(data)) > 0 {
			return nil, fmt.Errorf("failed to parse %s: %w", yamlPath, err)
		}
		configSource = "yaml"
		settingPath = yamlPath
	case errors.Is(err, os.ErrNotExist):
	default:
		return nil, fmt.Errorf("failed to read %s: %w", yamlPath, err)
	}

	applyDefaults(settings, baseDir)

	if err := validate(settings); err != nil {
		return nil, fmt.Errorf("invalid settings in %s: %w", yamlPath, err)
	}

	return buildAppConfig(settings, baseDir, configSource, settingPath), nil
}

// applyDefaults fills in default values for any nil fields
func applyDefaults(settings *RawSettings, baseDir string) {
	setString := func(p **string, v string) {
		if *p == nil {
			*p = &v
		}
	}

	setString(&settings.ListenAddr, ":8080")
	setString(&settings.PublicURL, "http://localhost:8080")

	setString(&settings.Storage, "memory")
	setString(&settings.DBPath, filepath.Join(baseDir, "kindred.db"))

	setString(&settings.AuthProvider, "local")
	setString(&settings.AuthURL, "")
	setString(&settings.AuthAPIKey, "")
	if settings.AuthTimeoutSec == nil {
		v := 10
		settings.AuthTimeoutSec = &v
	}

	setString(&settings.LogLevel, "info")
	setString(&settings.LogFormat, "console")

	setString(&settings.SessionCookie, "kindred_session")
	if settings.DevMode == nil {
		v := false
		settings.DevMode = &v
	}

	setString(&settings.ExportBucket, "")
	setString(&settings.ExportPrefix, "")
	setString(&settings.ExportRegion, "")
}

func validate(s *RawSettings) error {
	var errs []error
	oneOf := func(key, v string, allowed ...string) {
		for _, a := range allowed {
			if v == a {
				return
			}
		}
		errs = append(errs, fmt.Errorf("%s must be one of %s, got %q", key, strings.Join(allowed, ", "), v))
	}

	oneOf("storage", *s.Storage, "memory", "sqlite")
	oneOf("auth_provider", *s.AuthProvider, "local", "hosted")
	oneOf("log_level", strings.ToLower(*s.LogLevel), "debug", "info", "warn", "warning", "error")
	oneOf("log_format", *s.LogFormat, "console", "json")

	if *s.AuthTimeoutSec <= 0 {
		errs = append(errs, fmt.Errorf("auth_timeout_sec must be positive, got %d", *s.AuthTimeoutSec))
	}
	if strings.TrimSpace(*s.SessionCookie) == "" {
		errs = append(errs, errors.New("session_cookie must not be empty"))
	}
	if *s.Storage == "sqlite" && strings.TrimSpace(*s.DBPath) == "" {
		errs = append(errs, errors.New("db_path is required for sqlite storage"))
	}

	return errors.Join(errs...)
}

// buildAppConfig converts RawSettings to AppConfig
func buildAppConfig(settings *RawSettings, home, configSource, settingPath string) *config.AppConfig {
	return config.NewAppConfig(
		home,
		*settings.ListenAddr,
		strings.TrimRight(*settings.PublicURL, "/"),
		*settings.Storage,
		*settings.DBPath,
		*settings.AuthProvider,
		*settings.AuthURL,
		*settings.AuthAPIKey,
		*settings.AuthTimeoutSec,
		strings.ToLower(*settings.LogLevel),
		*settings.LogFormat,
		*settings.SessionCookie,
		*settings.DevMode,
		*settings.ExportBucket,
		*settings.ExportPrefix,
		*settings.ExportRegion,
		configSource,
		settingPath,
	)
}

// CreateDefaultSettings creates a default setting.yaml content
func CreateDefaultSettings(baseDir string) []byte {
	settings := &RawSettings{}
	applyDefaults(settings, baseDir)

	data, _ := yaml.Marshal(settings)
	return data
}
