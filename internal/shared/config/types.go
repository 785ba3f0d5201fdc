package config

import (
	"fmt"
	"strings"
	"time"
)

type ServerConfig struct {
	Host           string   `mapstructure:"host"`
	Port           int      `mapstructure:"port"`
	Mode           string   `mapstructure:"mode"`
	BaseURL        string   `mapstructure:"base_url"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
	Timezone       string   `mapstructure:"timezone"`
}

func (s *ServerConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// CallbackURL is the fixed redirect URI registered with the Facebook app.
func (s *ServerConfig) CallbackURL() string {
	return strings.TrimRight(s.BaseURL, "/") + "/connect/callback"
}

type DatabaseConfig struct {
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	Username        string `mapstructure:"username"`
	Password        string `mapstructure:"password"`
	Database        string `mapstructure:"database"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"`
}

func (d *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&collation=utf8mb4_general_ci&parseTime=true&loc=UTC",
		d.Username, d.Password, d.Host, d.Port, d.Database)
}

type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	OutputPath string `mapstructure:"output_path"`
}

type JWTConfig struct {
	Secret           string `mapstructure:"secret"`
	AccessExpMinutes int    `mapstructure:"access_exp_minutes"`
}

type AuthConfig struct {
	JWT        JWTConfig `mapstructure:"jwt"`
	BcryptCost int       `mapstructure:"bcrypt_cost"`
}

// FacebookConfig holds the Facebook app credentials and Graph API endpoints.
// An empty AppID or AppSecret means the connector is not configured.
type FacebookConfig struct {
	AppID              string   `mapstructure:"app_id"`
	AppSecret          string   `mapstructure:"app_secret"`
	GraphVersion       string   `mapstructure:"graph_version"`
	GraphBaseURL       string   `mapstructure:"graph_base_url"`
	DialogBaseURL      string   `mapstructure:"dialog_base_url"`
	Scopes             []string `mapstructure:"scopes"`
	StateSigningSecret string   `mapstructure:"state_signing_secret"`
	StateTTLMinutes    int      `mapstructure:"state_ttl_minutes"`
}

func (f *FacebookConfig) IsConfigured() bool {
	return f.AppID != "" && f.AppSecret != ""
}

// CreditsConfig points at the external credits backend. An empty BaseURL
// or AdminToken disables every call to it.
type CreditsConfig struct {
	BaseURL        string `mapstructure:"base_url"`
	AdminToken     string `mapstructure:"admin_token"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
}

func (c *CreditsConfig) IsConfigured() bool {
	return c.BaseURL != "" && c.AdminToken != ""
}

func (c *CreditsConfig) Timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return 10 * time.Second
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

type EmailConfig struct {
	SMTPHost      string   `mapstructure:"smtp_host"`
	SMTPPort      int      `mapstructure:"smtp_port"`
	SMTPUser      string   `mapstructure:"smtp_user"`
	SMTPPassword  string   `mapstructure:"smtp_password"`
	FromAddress   string   `mapstructure:"from_address"`
	FromName      string   `mapstructure:"from_name"`
	OpsRecipients []string `mapstructure:"ops_recipients"`
}

func (e *EmailConfig) IsConfigured() bool {
	return e.SMTPHost != "" && len(e.OpsRecipients) > 0
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

func (r *RedisConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

type RateLimitConfig struct {
	Enabled          bool `mapstructure:"enabled"`
	ConnectPerMinute int  `mapstructure:"connect_per_minute"`
	LoginPerMinute   int  `mapstructure:"login_per_minute"`
}

type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

type LegalConfig struct {
	PagesDir string `mapstructure:"pages_dir"`
}
