package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Verify VerifyConfig `yaml:"verify" mapstructure:"verify"`
	Input  InputConfig  `yaml:"input" mapstructure:"input"`
	Server ServerConfig `yaml:"server" mapstructure:"server"`
	Log    LogConfig    `yaml:"log" mapstructure:"log"`
}

// VerifyConfig configures the verification pipeline: proximity thresholds,
// the accepted consent value, and the default site-coordinates file.
type VerifyConfig struct {
	VerifiedMaxMeters float64 `yaml:"verified_max_meters" mapstructure:"verified_max_meters"`
	ReviewMaxMeters   float64 `yaml:"review_max_meters" mapstructure:"review_max_meters"`
	ConsentAccepted   string  `yaml:"consent_accepted" mapstructure:"consent_accepted"`
	SitesPath         string  `yaml:"sites_path" mapstructure:"sites_path"`
}

// InputConfig configures how export columns map to record fields.
type InputConfig struct {
	Columns ColumnsConfig `yaml:"columns" mapstructure:"columns"`
}

// ColumnsConfig names the export columns for each record field. Defaults
// match a Qualtrics survey export. Consent is optional: when the column is
// absent from the file, rows pass the consent check.
type ColumnsConfig struct {
	Consent   string `yaml:"consent" mapstructure:"consent"`
	Submitter string `yaml:"submitter" mapstructure:"submitter"`
	Site      string `yaml:"site" mapstructure:"site"`
	Hours     string `yaml:"hours" mapstructure:"hours"`
	Latitude  string `yaml:"latitude" mapstructure:"latitude"`
	Longitude string `yaml:"longitude" mapstructure:"longitude"`
	Recorded  string `yaml:"recorded" mapstructure:"recorded"`
}

// ServerConfig configures the upload server.
type ServerConfig struct {
	Port          int     `yaml:"port" mapstructure:"port"`
	RatePerSecond float64 `yaml:"rate_per_second" mapstructure:"rate_per_second"`
	RateBurst     int     `yaml:"rate_burst" mapstructure:"rate_burst"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("GEOVERIFY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("verify.verified_max_meters", 100.0)
	v.SetDefault("verify.review_max_meters", 300.0)
	v.SetDefault("verify.consent_accepted", "1")
	v.SetDefault("input.columns.consent", "Q2")
	v.SetDefault("input.columns.submitter", "Q2.1")
	v.SetDefault("input.columns.site", "Q4")
	v.SetDefault("input.columns.hours", "Q5")
	v.SetDefault("input.columns.latitude", "LocationLatitude")
	v.SetDefault("input.columns.longitude", "LocationLongitude")
	v.SetDefault("input.columns.recorded", "RecordedDate")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.rate_per_second", 2.0)
	v.SetDefault("server.rate_burst", 5)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
