package config

import (
	"fmt"
	"time"
)

// Config is the main application configuration struct.
type Config struct {
	App           AppConfig          `mapstructure:"app"`
	Server        ServerConfig       `mapstructure:"server"`
	Database      DatabaseConfig     `mapstructure:"database"`
	HTTP          HTTPClientConfig   `mapstructure:"http"`
	CMS           CMSConfig          `mapstructure:"cms"`
	CRM           CRMConfig          `mapstructure:"crm"`
	Notifications NotificationConfig `mapstructure:"notifications"`
	Logging       LoggingConfig      `mapstructure:"logging"`

	// Warnings lists values that were unusable and replaced by defaults.
	Warnings []string `mapstructure:"-"`
}

type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type ServerConfig struct {
	Port            int `mapstructure:"port"`
	ShutdownTimeout int `mapstructure:"shutdown_timeout"` // milliseconds
}

type DatabaseConfig struct {
	Postgres PostgresConfig `mapstructure:"postgres"`
	Redis    RedisConfig    `mapstructure:"redis"`
}

type PostgresConfig struct {
	URL            string `mapstructure:"url"`
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	Database       string `mapstructure:"database"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	MaxConnections int    `mapstructure:"max_connections"`
	MaxIdle        int    `mapstructure:"max_idle"`
	SSLMode        string `mapstructure:"sslmode"`
}

// GetDSN returns the PostgreSQL connection string. A full URL wins over the
// individual fields.
func (p PostgresConfig) GetDSN() string {
	if p.URL != "" {
		return p.URL
	}
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode,
	)
}

// Configured reports whether enough is set to attempt a connection.
func (p PostgresConfig) Configured() bool {
	return p.URL != "" || (p.Host != "" && p.Database != "")
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type HTTPClientConfig struct {
	Timeout int `mapstructure:"timeout_ms"`
}

// CMSConfig drives content backend selection.
type CMSConfig struct {
	Provider         string `mapstructure:"provider"`
	APIURL           string `mapstructure:"api_url"`
	APIToken         string `mapstructure:"api_token"`
	Revalidate       int    `mapstructure:"revalidate"` // seconds
	RevalidateURL    string `mapstructure:"revalidate_url"`
	RevalidateSecret string `mapstructure:"revalidate_secret"`
}

// CacheTTL returns the headless response cache lifetime.
func (c CMSConfig) CacheTTL() time.Duration {
	return time.Duration(c.Revalidate) * time.Second
}

// CRMConfig holds the selected lead provider and every vendor's credentials.
// Only the selected vendor's block is read.
type CRMConfig struct {
	Provider  string `mapstructure:"provider"`
	DealTitle string `mapstructure:"deal_title"`

	Pipedrive struct {
		APIToken string `mapstructure:"api_token"`
		OwnerID  string `mapstructure:"owner_id"`
		BaseURL  string `mapstructure:"base_url"`
	} `mapstructure:"pipedrive"`

	RDStation struct {
		PublicToken  string `mapstructure:"public_token"`
		PrivateToken string `mapstructure:"private_token"`
		BaseURL      string `mapstructure:"base_url"`
	} `mapstructure:"rdstation"`

	HubSpot struct {
		APIKey     string `mapstructure:"api_key"`
		WorkflowID string `mapstructure:"workflow_id"`
		BaseURL    string `mapstructure:"base_url"`
	} `mapstructure:"hubspot"`

	Zoho struct {
		OAuthToken string `mapstructure:"oauth_token"`
		BaseURL    string `mapstructure:"base_url"`
	} `mapstructure:"zoho"`
}

// NotificationConfig holds settings for the team alerts sent on new leads.
type NotificationConfig struct {
	AWS struct {
		Region string `mapstructure:"region"`
	} `mapstructure:"aws"`
	Email struct {
		Enabled   bool   `mapstructure:"enabled"`
		FromEmail string `mapstructure:"from_email"`
		ToEmail   string `mapstructure:"to_email"`
	} `mapstructure:"email"`
	SMS struct {
		Enabled     bool   `mapstructure:"enabled"`
		PhoneNumber string `mapstructure:"phone_number"`
		SenderID    string `mapstructure:"sender_id"`
	} `mapstructure:"sms"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// GetDuration converts milliseconds from config to time.Duration
func GetDuration(milliseconds int) time.Duration {
	return time.Duration(milliseconds) * time.Millisecond
}
