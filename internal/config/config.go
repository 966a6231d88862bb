package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds the configuration for the application.
type Config struct {
	// TemplateDir is the root directory that notebook templates are read
	// from. Templates live under {TemplateDir}/notebook/.
	TemplateDir string `mapstructure:"template_dir"`
	Server      struct {
		Address      string        `mapstructure:"address"`
		ReadTimeout  time.Duration `mapstructure:"read_timeout"`
		WriteTimeout time.Duration `mapstructure:"write_timeout"`
		IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
	} `mapstructure:"server"`
	TLS struct {
		Enable    bool     `mapstructure:"enable"`
		CertFile  string   `mapstructure:"cert_file"`
		KeyFile   string   `mapstructure:"key_file"`
		Hostnames []string `mapstructure:"hostnames"`
	} `mapstructure:"tls"`
}

// LoadConfig loads the configuration from a JSON settings file and the
// environment. Environment variables use the SCIWYRM_ prefix and override
// file values; the settings file is optional. settingsFile overrides the
// default ./settings.json location when non-empty.
func LoadConfig(settingsFile string) (*Config, error) {
	v := viper.New()

	v.SetDefault("template_dir", "./templates")
	v.SetDefault("server.address", ":8080")
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 15*time.Second)
	v.SetDefault("server.idle_timeout", 60*time.Second)
	v.SetDefault("tls.enable", false)
	v.SetDefault("tls.cert_file", "")
	v.SetDefault("tls.key_file", "")
	v.SetDefault("tls.hostnames", []string{})

	if settingsFile == "" {
		settingsFile = "./settings.json"
	}
	v.SetConfigFile(settingsFile)
	v.SetConfigType("json")

	v.SetEnvPrefix("sciwyrm")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		// A missing settings file is fine; defaults and env take over.
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to read settings file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if config.TemplateDir == "" {
		return nil, errors.New("template_dir must not be empty")
	}

	return &config, nil
}
