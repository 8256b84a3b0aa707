package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/YoshitsuguKoike/kindred/internal/adapter/gateway/storage"
	"github.com/YoshitsuguKoike/kindred/internal/app/config"
	"github.com/YoshitsuguKoike/kindred/internal/buildinfo"
	infraConfig "github.com/YoshitsuguKoike/kindred/internal/infra/config"
)

// EffectiveConfig is the applied configuration as printed by `kindred config`
type EffectiveConfig struct {
	Meta    EffectiveConfigMeta    `json:"meta" yaml:"meta"`
	Server  EffectiveConfigServer  `json:"server" yaml:"server"`
	Storage EffectiveConfigStorage `json:"storage" yaml:"storage"`
	Auth    EffectiveConfigAuth    `json:"auth" yaml:"auth"`
	Logging EffectiveConfigLogging `json:"logging" yaml:"logging"`
	Export  EffectiveConfigExport  `json:"export" yaml:"export"`
}

// EffectiveConfigMeta contains metadata about the configuration
type EffectiveConfigMeta struct {
	Source      string `json:"source" yaml:"source"`
	SettingPath string `json:"setting_path" yaml:"setting_path"`
	Version     string `json:"version" yaml:"version"`
	TsUTC       string `json:"ts_utc" yaml:"ts_utc"`
}

type EffectiveConfigServer struct {
	Home          string `json:"home" yaml:"home"`
	ListenAddr    string `json:"listen_addr" yaml:"listen_addr"`
	PublicURL     string `json:"public_url" yaml:"public_url"`
	SessionCookie string `json:"session_cookie" yaml:"session_cookie"`
	DevMode       bool   `json:"dev_mode" yaml:"dev_mode"`
}

type EffectiveConfigStorage struct {
	Backend string `json:"backend" yaml:"backend"`
	DBPath  string `json:"db_path,omitempty" yaml:"db_path,omitempty"`
}

// EffectiveConfigAuth never carries the API key itself
type EffectiveConfigAuth struct {
	Provider   string `json:"provider" yaml:"provider"`
	URL        string `json:"url,omitempty" yaml:"url,omitempty"`
	APIKeySet  bool   `json:"api_key_set" yaml:"api_key_set"`
	TimeoutSec int    `json:"timeout_sec" yaml:"timeout_sec"`
}

type EffectiveConfigLogging struct {
	Level  string `json:"level" yaml:"level"`
	Format string `json:"format" yaml:"format"`
}

type EffectiveConfigExport struct {
	Bucket string `json:"bucket,omitempty" yaml:"bucket,omitempty"`
	Prefix string `json:"prefix,omitempty" yaml:"prefix,omitempty"`
	Region string `json:"region,omitempty" yaml:"region,omitempty"`
}

func newConfigCmd() *cobra.Command {
	var (
		format  string
		compact bool
	)

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPrintEffectiveConfig(cmd.OutOrStdout(), globalConfig, format, compact, time.Now())
		},
	}
	cmd.Flags().StringVar(&format, "format", "yaml", "output format (yaml, json)")
	cmd.Flags().BoolVar(&compact, "compact", false, "single-line JSON")

	cmd.AddCommand(newConfigInitCmd())
	return cmd
}

func newConfigInitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default setting.yaml into the home directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := runConfigInit(settingsFs, globalConfig.Home(), force)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", path)
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing setting.yaml")
	return cmd
}

// runConfigInit writes the default settings file and returns its path
func runConfigInit(fs afero.Fs, home string, force bool) (string, error) {
	path := filepath.Join(home, infraConfig.SettingFileName)
	exists, err := afero.Exists(fs, path)
	if err != nil {
		return "", err
	}
	if exists && !force {
		return "", fmt.Errorf("%s already exists (use --force to overwrite)", path)
	}
	if err := storage.WriteFileAtomic(fs, path, infraConfig.CreateDefaultSettings(home), 0o644); err != nil {
		return "", fmt.Errorf("failed to write settings: %w", err)
	}
	return path, nil
}

// runPrintEffectiveConfig writes the effective configuration to w
func runPrintEffectiveConfig(w io.Writer, cfg config.Config, format string, compact bool, now time.Time) error {
	effective := buildEffectiveConfig(cfg, now)

	var out []byte
	var err error
	switch format {
	case "yaml":
		out, err = yaml.Marshal(effective)
		if err != nil {
			return fmt.Errorf("failed to marshal to YAML: %w", err)
		}
	case "json":
		if compact {
			out, err = json.Marshal(effective)
		} else {
			out, err = json.MarshalIndent(effective, "", "  ")
		}
		if err != nil {
			return fmt.Errorf("failed to marshal to JSON: %w", err)
		}
		if !bytes.HasSuffix(out, []byte("\n")) {
			out = append(out, '\n')
		}
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}

	_, err = w.Write(out)
	return err
}

func buildEffectiveConfig(cfg config.Config, now time.Time) *EffectiveConfig {
	eff := &EffectiveConfig{
		Meta: EffectiveConfigMeta{
			Source:      cfg.ConfigSource(),
			SettingPath: cfg.SettingPath(),
			Version:     buildinfo.GetVersion(),
			TsUTC:       now.UTC().Format(time.RFC3339Nano),
		},
		Server: EffectiveConfigServer{
			Home:          cfg.Home(),
			ListenAddr:    cfg.ListenAddr(),
			PublicURL:     cfg.PublicURL(),
			SessionCookie: cfg.SessionCookie(),
			DevMode:       cfg.DevMode(),
		},
		Storage: EffectiveConfigStorage{Backend: cfg.Storage()},
		Auth: EffectiveConfigAuth{
			Provider:   cfg.AuthProvider(),
			URL:        cfg.AuthURL(),
			APIKeySet:  cfg.AuthAPIKey() != "",
			TimeoutSec: cfg.AuthTimeoutSec(),
		},
		Logging: EffectiveConfigLogging{
			Level:  cfg.LogLevel(),
			Format: cfg.LogFormat(),
		},
		Export: EffectiveConfigExport{
			Bucket: cfg.ExportBucket(),
			Prefix: cfg.ExportPrefix(),
			Region: cfg.ExportRegion(),
		},
	}
	if cfg.Storage() == "sqlite" {
		eff.Storage.DBPath = cfg.DBPath()
	}
	return eff
}
