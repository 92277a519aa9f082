package config

import (
	"errors"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Server  ServerConfig  `yaml:"server" mapstructure:"server"`
	Log     LogConfig     `yaml:"log" mapstructure:"log"`
	Store   StoreConfig   `yaml:"store" mapstructure:"store"`
	SMS     SMSConfig     `yaml:"sms" mapstructure:"sms"`
	Notify  NotifyConfig  `yaml:"notify" mapstructure:"notify"`
	Geocode GeocodeConfig `yaml:"geocode" mapstructure:"geocode"`
}

// ServerConfig configures the HTTP service.
type ServerConfig struct {
	Port          int      `yaml:"port" mapstructure:"port"`
	CORSOrigins   []string `yaml:"cors_origins" mapstructure:"cors_origins"`
	SMSRatePerMin int      `yaml:"sms_rate_per_min" mapstructure:"sms_rate_per_min"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// StoreConfig selects where the center catalog lives.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
	SeedPath    string `yaml:"seed_path" mapstructure:"seed_path"`
}

// SMSConfig holds the SMS provider credentials.
type SMSConfig struct {
	AccountSID string `yaml:"account_sid" mapstructure:"account_sid"`
	AuthToken  string `yaml:"auth_token" mapstructure:"auth_token"`
	From       string `yaml:"from" mapstructure:"from"`
}

// NotifyConfig configures the client side of the /send-sms relay.
type NotifyConfig struct {
	URL         string `yaml:"url" mapstructure:"url"`
	To          string `yaml:"to" mapstructure:"to"`
	TimeoutSecs int    `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	MaxAttempts int    `yaml:"max_attempts" mapstructure:"max_attempts"`
}

// GeocodeConfig selects the address geocoder and its cache.
type GeocodeConfig struct {
	Provider  string `yaml:"provider" mapstructure:"provider"`
	ORSKey    string `yaml:"ors_api_key" mapstructure:"ors_api_key"`
	GoogleKey string `yaml:"google_maps_api_key" mapstructure:"google_maps_api_key"`
	Country   string `yaml:"country" mapstructure:"country"`
	Cache     string `yaml:"cache" mapstructure:"cache"`
	RedisAddr string `yaml:"redis_addr" mapstructure:"redis_addr"`
}

// Environment variable for each config key.
var envBindings = map[string]string{
	"server.port":             "PORT",
	"server.cors_origins":     "CORS_ORIGINS",
	"server.sms_rate_per_min": "SMS_RATE_PER_MIN",

	"log.level":  "LOG_LEVEL",
	"log.format": "LOG_FORMAT",

	"store.driver":       "DB_DRIVER",
	"store.database_url": "DATABASE_URL",
	"store.seed_path":    "SEED_PATH",

	"sms.account_sid": "TWILIO_ACCOUNT_SID",
	"sms.auth_token":  "TWILIO_AUTH_TOKEN",
	"sms.from":        "SMS_FROM",

	"notify.url":          "NOTIFY_URL",
	"notify.to":           "NOTIFY_TO",
	"notify.timeout_secs": "NOTIFY_TIMEOUT_SECS",
	"notify.max_attempts": "NOTIFY_MAX_ATTEMPTS",

	"geocode.provider":            "GEOCODER",
	"geocode.ors_api_key":         "ORS_API_KEY",
	"geocode.google_maps_api_key": "GOOGLE_MAPS_API_KEY",
	"geocode.country":             "GEOCODE_COUNTRY",
	"geocode.cache":               "GEOCODE_CACHE",
	"geocode.redis_addr":          "REDIS_ADDR",
}

// Load reads configuration from .env, an optional config.yaml, and the environment.
// Environment variables win over the file.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, eris.Wrap(err, "config: load .env")
	}

	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, eris.Wrapf(err, "config: bind %s", env)
		}
	}

	v.SetDefault("server.port", 8080)
	v.SetDefault("server.cors_origins", []string{"*"})
	v.SetDefault("server.sms_rate_per_min", 30)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("store.driver", "json")
	v.SetDefault("store.seed_path", "data/seeds/centers.json")
	v.SetDefault("notify.url", "http://localhost:8080/send-sms")
	v.SetDefault("notify.timeout_secs", 10)
	v.SetDefault("notify.max_attempts", 3)
	v.SetDefault("geocode.provider", "none")
	v.SetDefault("geocode.cache", "none")
	v.SetDefault("geocode.redis_addr", "localhost:6379")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	cfg.Store.Driver = strings.ToLower(strings.TrimSpace(cfg.Store.Driver))
	cfg.Geocode.Provider = strings.ToLower(strings.TrimSpace(cfg.Geocode.Provider))
	cfg.Geocode.Cache = strings.ToLower(strings.TrimSpace(cfg.Geocode.Cache))

	return &cfg, nil
}

// RequireSMSCredentials reports which provider settings are missing.
func (c *Config) RequireSMSCredentials() error {
	var missing []string
	if strings.TrimSpace(c.SMS.AccountSID) == "" {
		missing = append(missing, "TWILIO_ACCOUNT_SID")
	}
	if strings.TrimSpace(c.SMS.AuthToken) == "" {
		missing = append(missing, "TWILIO_AUTH_TOKEN")
	}
	if strings.TrimSpace(c.SMS.From) == "" {
		missing = append(missing, "SMS_FROM")
	}
	if len(missing) > 0 {
		return eris.Errorf("config: missing %s", strings.Join(missing, ", "))
	}
	return nil
}

// NotifyTimeout is the per-attempt deadline for relay calls.
func (c *Config) NotifyTimeout() time.Duration {
	if c.Notify.TimeoutSecs <= 0 {
		return 10 * time.Second
	}
	return time.Duration(c.Notify.TimeoutSecs) * time.Second
}

// LogFields describes the effective configuration. Credentials only appear
// as presence flags.
func (c *Config) LogFields() []zap.Field {
	return []zap.Field{
		zap.Int("port", c.Server.Port),
		zap.String("db_driver", c.Store.Driver),
		zap.Bool("database_url_set", c.Store.DatabaseURL != ""),
		zap.String("seed_path", c.Store.SeedPath),
		zap.String("geocoder", c.Geocode.Provider),
		zap.String("geocode_cache", c.Geocode.Cache),
		zap.Bool("ors_key_set", c.Geocode.ORSKey != ""),
		zap.Bool("google_key_set", c.Geocode.GoogleKey != ""),
		zap.Bool("sms_account_set", c.SMS.AccountSID != ""),
		zap.Bool("sms_token_set", c.SMS.AuthToken != ""),
		zap.Bool("sms_from_set", c.SMS.From != ""),
		zap.String("notify_url", c.Notify.URL),
		zap.Int("notify_max_attempts", c.Notify.MaxAttempts),
	}
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
