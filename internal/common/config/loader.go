package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// envBindings maps nested config keys to the flat environment variables the
// site has always used.
var envBindings = map[string]string{
	"app.environment":                 "APP_ENVIRONMENT",
	"server.port":                     "PORT",
	"database.postgres.url":           "DATABASE_URL",
	"database.postgres.host":          "DB_HOST",
	"database.postgres.port":          "DB_PORT",
	"database.postgres.database":      "DB_NAME",
	"database.postgres.user":          "DB_USER",
	"database.postgres.password":      "DB_PASSWORD",
	"database.redis.address":          "REDIS_ADDRESS",
	"database.redis.password":         "REDIS_PASSWORD",
	"cms.provider":                    "CMS_PROVIDER",
	"cms.api_url":                     "CMS_API_URL",
	"cms.api_token":                   "CMS_API_TOKEN",
	"cms.revalidate":                  "CMS_REVALIDATE",
	"cms.revalidate_url":              "CMS_REVALIDATE_URL",
	"cms.revalidate_secret":           "REVALIDATE_SECRET",
	"crm.provider":                    "CRM_PROVIDER",
	"crm.deal_title":                  "CRM_DEAL_TITLE",
	"crm.pipedrive.api_token":         "PIPEDRIVE_API_TOKEN",
	"crm.pipedrive.owner_id":          "PIPEDRIVE_OWNER_ID",
	"crm.rdstation.public_token":      "RDSTATION_PUBLIC_TOKEN",
	"crm.rdstation.private_token":     "RDSTATION_PRIVATE_TOKEN",
	"crm.hubspot.api_key":             "HUBSPOT_API_KEY",
	"crm.hubspot.workflow_id":         "HUBSPOT_WORKFLOW_ID",
	"crm.zoho.oauth_token":            "ZOHO_CRM_OAUTH_TOKEN",
	"notifications.aws.region":        "AWS_REGION",
	"notifications.email.enabled":     "NOTIFY_EMAIL_ENABLED",
	"notifications.email.from_email":  "NOTIFY_FROM_EMAIL",
	"notifications.email.to_email":    "NOTIFY_TO_EMAIL",
	"notifications.sms.enabled":       "NOTIFY_SMS_ENABLED",
	"notifications.sms.phone_number":  "NOTIFY_SMS_PHONE",
	"logging.level":                   "LOG_LEVEL",
	"logging.format":                  "LOG_FORMAT",
}

func Load() (*Config, error) {
	loadEnvFile()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./configs")
	v.AddConfigPath("../../configs")
	v.AddConfigPath(".")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading base config: %w", err)
		}
	}

	env := os.Getenv("APP_ENVIRONMENT")
	if env == "" {
		env = "development"
	}
	v.SetConfigName(fmt.Sprintf("config.%s", env))
	_ = v.MergeInConfig() // optional per-environment overlay

	return fromViper(v)
}

// LoadFromFile loads configuration from a specific file path
func LoadFromFile(path string) (*Config, error) {
	loadEnvFile()

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	for key, envName := range envBindings {
		if err := v.BindEnv(key, envName); err != nil {
			return nil, fmt.Errorf("bind env %s: %w", envName, err)
		}
	}
	expandEnvVars(v)
	warnings := lenientInts(v, "cms.revalidate")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.Warnings = warnings

	applyDefaults(&cfg)

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

func loadEnvFile() {
	possiblePaths := []string{
		".env",
		"../.env",
		"../../.env",
	}
	if rootDir := findProjectRoot(); rootDir != "" {
		possiblePaths = append(possiblePaths, filepath.Join(rootDir, ".env"))
	}

	for _, path := range possiblePaths {
		if _, err := os.Stat(path); err == nil {
			// Existing process env wins over the file.
			if err := godotenv.Load(path); err == nil {
				return
			}
		}
	}
}

func findProjectRoot() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// expandEnvVars resolves ${VAR} placeholders left in YAML values.
func expandEnvVars(v *viper.Viper) {
	for _, key := range v.AllKeys() {
		strVal, ok := v.Get(key).(string)
		if !ok {
			continue
		}
		if strings.Contains(strVal, "${") || (strings.HasPrefix(strVal, "$") && len(strVal) > 1) {
			expanded := os.ExpandEnv(strVal)
			if expanded != strVal && expanded != "" {
				v.Set(key, expanded)
			}
		}
	}
}

// lenientInts resets integer keys holding unparsable text to zero so the
// default applies instead of failing the whole load.
func lenientInts(v *viper.Viper, keys ...string) []string {
	var warnings []string
	for _, key := range keys {
		raw, ok := v.Get(key).(string)
		if !ok {
			continue
		}
		n, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("%s: %q is not a whole number, using the default", key, raw))
			n = 0
		}
		v.Set(key, n)
	}
	return warnings
}

// applyDefaults sets default values for optional configuration fields
func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "site-api"
	}
	if cfg.App.Environment == "" {
		cfg.App.Environment = "development"
	}

	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = 10000
	}

	if cfg.Database.Postgres.Port == 0 {
		cfg.Database.Postgres.Port = 5432
	}
	if cfg.Database.Postgres.MaxConnections == 0 {
		cfg.Database.Postgres.MaxConnections = 25
	}
	if cfg.Database.Postgres.MaxIdle == 0 {
		cfg.Database.Postgres.MaxIdle = 5
	}
	if cfg.Database.Postgres.SSLMode == "" {
		cfg.Database.Postgres.SSLMode = "disable"
	}

	if cfg.HTTP.Timeout == 0 {
		cfg.HTTP.Timeout = 15000
	}

	if cfg.CMS.Provider == "" {
		cfg.CMS.Provider = "relational"
	}
	if cfg.CMS.Revalidate <= 0 {
		cfg.CMS.Revalidate = 60
	}
	if cfg.CMS.RevalidateURL == "" {
		cfg.CMS.RevalidateURL = "http://localhost:3000"
	}

	if cfg.CRM.Provider == "" {
		cfg.CRM.Provider = "none"
	}

	if cfg.Notifications.AWS.Region == "" {
		cfg.Notifications.AWS.Region = "us-east-1"
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
}

// validateConfig rejects structurally broken values only. Missing CMS or CRM
// credentials are handled by the gateways as a downgrade, not here.
func validateConfig(cfg *Config) error {
	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535")
	}
	switch cfg.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be one of debug, info, warn, error")
	}
	if cfg.HTTP.Timeout < 0 {
		return fmt.Errorf("http.timeout_ms must be positive")
	}
	return nil
}
