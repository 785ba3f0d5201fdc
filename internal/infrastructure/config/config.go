package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	sharedConfig "github.com/ns-ai-search/console/internal/shared/config"
)

type Config struct {
	Server    sharedConfig.ServerConfig    `mapstructure:"server"`
	Database  sharedConfig.DatabaseConfig  `mapstructure:"database"`
	Logger    sharedConfig.LoggerConfig    `mapstructure:"logger"`
	Auth      sharedConfig.AuthConfig      `mapstructure:"auth"`
	Facebook  sharedConfig.FacebookConfig  `mapstructure:"facebook"`
	Credits   sharedConfig.CreditsConfig   `mapstructure:"credits"`
	Email     sharedConfig.EmailConfig     `mapstructure:"email"`
	Redis     sharedConfig.RedisConfig     `mapstructure:"redis"`
	RateLimit sharedConfig.RateLimitConfig `mapstructure:"ratelimit"`
	Metrics   sharedConfig.MetricsConfig   `mapstructure:"metrics"`
	Legal     sharedConfig.LegalConfig     `mapstructure:"legal"`
}

// legacyEnvBindings maps the environment variable names used by existing
// deployments onto config keys. CONSOLE_* variables still take effect.
var legacyEnvBindings = map[string][]string{
	"facebook.app_id":     {"CONSOLE_FACEBOOK_APP_ID", "FACEBOOK_APP_ID"},
	"facebook.app_secret": {"CONSOLE_FACEBOOK_APP_SECRET", "FACEBOOK_APP_SECRET"},
	"server.base_url":     {"CONSOLE_SERVER_BASE_URL", "ADMIN_PANEL_URL"},
	"credits.base_url":    {"CONSOLE_CREDITS_BASE_URL", "CLOUDFLARE_WORKER_URL"},
	"credits.admin_token": {"CONSOLE_CREDITS_ADMIN_TOKEN", "ADMIN_TOKEN"},
}

// Load loads configuration from an optional .env file, the config file and
// environment variables. configPath overrides the default search paths.
func Load(env string, configPath string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	v := viper.New()
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./configs")
		v.AddConfigPath("../configs")
		v.AddConfigPath("../../configs")
	}

	v.SetEnvPrefix("CONSOLE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for key, names := range legacyEnvBindings {
		args := append([]string{key}, names...)
		if err := v.BindEnv(args...); err != nil {
			return nil, fmt.Errorf("failed to bind env for %s: %w", key, err)
		}
	}

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	if env != "" && env != "default" {
		v.Set("server.mode", env)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "debug")
	v.SetDefault("server.base_url", "http://localhost:8080")
	v.SetDefault("server.timezone", "UTC")

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 3306)
	v.SetDefault("database.username", "root")
	v.SetDefault("database.password", "password")
	v.SetDefault("database.database", "ns_ai_search")
	v.SetDefault("database.max_idle_conns", 10)
	v.SetDefault("database.max_open_conns", 50)
	v.SetDefault("database.conn_max_lifetime", 60)

	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.output_path", "stdout")

	v.SetDefault("auth.jwt.secret", "change-me-in-production")
	v.SetDefault("auth.jwt.access_exp_minutes", 720)
	v.SetDefault("auth.bcrypt_cost", 12)

	v.SetDefault("facebook.graph_version", "v24.0")
	v.SetDefault("facebook.graph_base_url", "https://graph.facebook.com")
	v.SetDefault("facebook.dialog_base_url", "https://www.facebook.com")
	v.SetDefault("facebook.scopes", []string{
		"pages_messaging",
		"pages_manage_metadata",
		"business_management",
		"pages_show_list",
	})
	v.SetDefault("facebook.state_ttl_minutes", 15)

	v.SetDefault("credits.timeout_seconds", 10)

	v.SetDefault("email.smtp_port", 587)
	v.SetDefault("email.from_address", "noreply@ns-ai-search.local")
	v.SetDefault("email.from_name", "NS AI Search")

	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("ratelimit.enabled", true)
	v.SetDefault("ratelimit.connect_per_minute", 30)
	v.SetDefault("ratelimit.login_per_minute", 10)

	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.path", "/metrics")

	v.SetDefault("legal.pages_dir", "./configs/legal")
}
