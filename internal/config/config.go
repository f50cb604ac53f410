package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Global configuration structure.
type Global struct {
	// HTTP / NCBI E-utilities
	HTTPTimeoutSec int    `mapstructure:"http_timeout_sec" yaml:"http_timeout_sec"`
	NCBIBaseURL    string `mapstructure:"ncbi_base_url" yaml:"ncbi_base_url"`
	NCBIAPIKey     string `mapstructure:"ncbi_api_key" yaml:"ncbi_api_key"`
	NCBIEmail      string `mapstructure:"ncbi_email" yaml:"ncbi_email"`
	NCBITool       string `mapstructure:"ncbi_tool" yaml:"ncbi_tool"`

	// Charts
	HistogramBins int `mapstructure:"histogram_bins" yaml:"histogram_bins"`
	PlotWidth     int `mapstructure:"plot_width" yaml:"plot_width"`
	PlotHeight    int `mapstructure:"plot_height" yaml:"plot_height"`

	// Loader
	SOFTAllowMissingMarker bool `mapstructure:"soft_allow_missing_marker" yaml:"soft_allow_missing_marker"`

	ServeAddr string `mapstructure:"serve_addr" yaml:"serve_addr"`
	LogLevel  string `mapstructure:"log_level" yaml:"log_level"`
}

// Keys lists the settable keys in display order.
var Keys = []string{
	"http_timeout_sec", "ncbi_base_url", "ncbi_api_key", "ncbi_email", "ncbi_tool",
	"histogram_bins", "plot_width", "plot_height", "soft_allow_missing_marker",
	"serve_addr", "log_level",
}

func defaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".biotab"), nil
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.biotab/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	path := cfgFile
	if path == "" {
		dir, err := defaultDir()
		if err != nil {
			return err
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir config dir: %w", err)
		}
		path = filepath.Join(dir, "config.yaml")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o600); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: flags (cfgFile) > env > config file > defaults.
func Load(cfgFile string) (*Global, error) {
	v := viper.New()
	v.SetEnvPrefix("BIOTAB")
	v.AutomaticEnv()

	v.SetDefault("http_timeout_sec", 30)
	v.SetDefault("ncbi_base_url", "https://eutils.ncbi.nlm.nih.gov/entrez/eutils")
	v.SetDefault("ncbi_api_key", "")
	v.SetDefault("ncbi_email", "")
	v.SetDefault("ncbi_tool", "biotab")
	v.SetDefault("histogram_bins", 10)
	v.SetDefault("plot_width", 800)
	v.SetDefault("plot_height", 480)
	v.SetDefault("soft_allow_missing_marker", false)
	v.SetDefault("serve_addr", "127.0.0.1:8765")
	v.SetDefault("log_level", "info")

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		dir, err := defaultDir()
		if err != nil {
			return nil, err
		}
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &c, nil
}

// Set validates val and assigns it to key.
func (c *Global) Set(key, val string) error {
	positive := func() (int, error) {
		i, err := strconv.Atoi(val)
		if err != nil || i <= 0 {
			return 0, fmt.Errorf("invalid positive int for %s: %v", key, val)
		}
		return i, nil
	}
	var err error
	switch key {
	case "http_timeout_sec":
		c.HTTPTimeoutSec, err = positive()
	case "ncbi_base_url":
		if !strings.HasPrefix(val, "http://") && !strings.HasPrefix(val, "https://") {
			return fmt.Errorf("invalid URL for ncbi_base_url: %s", val)
		}
		c.NCBIBaseURL = strings.TrimRight(val, "/")
	case "ncbi_api_key":
		c.NCBIAPIKey = val
	case "ncbi_email":
		c.NCBIEmail = val
	case "ncbi_tool":
		c.NCBITool = val
	case "histogram_bins":
		c.HistogramBins, err = positive()
	case "plot_width":
		c.PlotWidth, err = positive()
	case "plot_height":
		c.PlotHeight, err = positive()
	case "soft_allow_missing_marker":
		b, perr := strconv.ParseBool(val)
		if perr != nil {
			return fmt.Errorf("invalid bool for soft_allow_missing_marker: %v", val)
		}
		c.SOFTAllowMissingMarker = b
	case "serve_addr":
		c.ServeAddr = val
	case "log_level":
		if _, perr := logrus.ParseLevel(val); perr != nil {
			return fmt.Errorf("invalid log_level: %s (use debug, info, warn or error)", val)
		}
		c.LogLevel = strings.ToLower(val)
	default:
		return fmt.Errorf("unknown key: %s", key)
	}
	return err
}

// Lines renders the effective configuration as `key: value` lines, masking the API key.
func (c *Global) Lines() []string {
	return []string{
		fmt.Sprintf("http_timeout_sec: %d", c.HTTPTimeoutSec),
		fmt.Sprintf("ncbi_base_url: %s", c.NCBIBaseURL),
		fmt.Sprintf("ncbi_api_key: %s", Mask(c.NCBIAPIKey)),
		fmt.Sprintf("ncbi_email: %s", c.NCBIEmail),
		fmt.Sprintf("ncbi_tool: %s", c.NCBITool),
		fmt.Sprintf("histogram_bins: %d", c.HistogramBins),
		fmt.Sprintf("plot_width: %d", c.PlotWidth),
		fmt.Sprintf("plot_height: %d", c.PlotHeight),
		fmt.Sprintf("soft_allow_missing_marker: %t", c.SOFTAllowMissingMarker),
		fmt.Sprintf("serve_addr: %s", c.ServeAddr),
		fmt.Sprintf("log_level: %s", c.LogLevel),
	}
}

// Mask hides all but the ends of a secret.
func Mask(s string) string {
	if s == "" {
		return ""
	}
	if len(s) <= 6 {
		return "******"
	}
	return s[:3] + "****" + s[len(s)-3:]
}
