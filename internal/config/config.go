package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type HTTPConfig struct {
	Host           string
	Port           int
	AllowedOrigins []string
}

type WorkbookConfig struct {
	Path      string
	Sheet     string
	Bootstrap bool
	LockWait  time.Duration
}

type Config struct {
	Environment string
	HTTP        HTTPConfig
	Workbook    WorkbookConfig
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("app")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("./deploy")
	v.AddConfigPath("./internal/config")
	v.AutomaticEnv()

	_ = v.ReadInConfig()

	cfg := &Config{
		Environment: v.GetString("APP_ENV"),
		HTTP: HTTPConfig{
			Host:           v.GetString("HTTP_HOST"),
			Port:           v.GetInt("HTTP_PORT"),
			AllowedOrigins: parseList(v.GetString("HTTP_ALLOWED_ORIGINS")),
		},
		Workbook: WorkbookConfig{
			Path:      v.GetString("WORKBOOK_PATH"),
			Sheet:     v.GetString("WORKBOOK_SHEET"),
			Bootstrap: v.GetBool("WORKBOOK_BOOTSTRAP"),
			LockWait:  v.GetDuration("WRITE_LOCK_WAIT"),
		},
	}

	if cfg.Environment == "" {
		cfg.Environment = "development"
	}
	if cfg.HTTP.Host == "" {
		cfg.HTTP.Host = "0.0.0.0"
	}
	if cfg.HTTP.Port == 0 {
		cfg.HTTP.Port = 7090
	}
	if cfg.Workbook.Sheet == "" {
		cfg.Workbook.Sheet = "Contratos"
	}
	if cfg.Workbook.LockWait == 0 {
		cfg.Workbook.LockWait = 30 * time.Second
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func validate(cfg *Config) error {
	if cfg.Workbook.Path == "" {
		return fmt.Errorf("WORKBOOK_PATH is required")
	}
	return nil
}

func parseList(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	items := strings.Split(raw, ",")
	result := make([]string, 0, len(items))
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item != "" {
			result = append(result, item)
		}
	}
	return result
}
