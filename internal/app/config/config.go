package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"vidros-backend/internal/app/dsn"

	"github.com/golang-jwt/jwt"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

type Config struct {
	ServiceHost string          `mapstructure:"host"`
	ServicePort int             `mapstructure:"port"`
	DatabaseURL string          `mapstructure:"database_url"`
	CORSOrigins []string        `mapstructure:"cors_origins"`
	JWT         JWTConfig       `mapstructure:"jwt"`
	Redis       RedisConfig     `mapstructure:"redis"`
	MinIO       MinIOConfig     `mapstructure:"minio"`
	RateLimit   RateLimitConfig `mapstructure:"rate_limit"`
	Log         LogConfig       `mapstructure:"log"`
}

type JWTConfig struct {
	Token         string            `mapstructure:"secret"`
	ExpiresIn     time.Duration     `mapstructure:"expires_in"`
	SigningMethod jwt.SigningMethod `mapstructure:"-"`
}

type RedisConfig struct {
	Host        string        `mapstructure:"host"`
	Password    string        `mapstructure:"password"`
	Port        int           `mapstructure:"port"`
	User        string        `mapstructure:"user"`
	DB          int           `mapstructure:"db"`
	DialTimeout time.Duration `mapstructure:"dial_timeout"`
	ReadTimeout time.Duration `mapstructure:"read_timeout"`
}

type MinIOConfig struct {
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	Bucket    string `mapstructure:"bucket"`
	UseSSL    bool   `mapstructure:"use_ssl"`
	PublicURL string `mapstructure:"public_url"`
}

type RateLimitConfig struct {
	Max    int           `mapstructure:"max"`
	Window time.Duration `mapstructure:"window"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Enabled Redis é opcional: sem host o rate limiter fica em memória
func (c RedisConfig) Enabled() bool {
	return c.Host != ""
}

// Enabled sem endpoint o upload de fotos por ficheiro fica desligado
func (c MinIOConfig) Enabled() bool {
	return c.Endpoint != ""
}

var envBindings = map[string]string{
	"host":              "HOST",
	"port":              "PORT",
	"database_url":      "DATABASE_URL",
	"cors_origins":      "CORS_ORIGINS",
	"jwt.secret":        "JWT_SECRET",
	"jwt.expires_in":    "JWT_EXPIRES_IN",
	"redis.host":        "REDIS_HOST",
	"redis.port":        "REDIS_PORT",
	"redis.user":        "REDIS_USER",
	"redis.password":    "REDIS_PASSWORD",
	"redis.db":          "REDIS_DB",
	"minio.endpoint":    "MINIO_ENDPOINT",
	"minio.access_key":  "MINIO_ACCESS_KEY",
	"minio.secret_key":  "MINIO_SECRET_KEY",
	"minio.bucket":      "MINIO_BUCKET",
	"minio.use_ssl":     "MINIO_USE_SSL",
	"minio.public_url":  "MINIO_PUBLIC_URL",
	"rate_limit.max":    "RATE_LIMIT_MAX",
	"rate_limit.window": "RATE_LIMIT_WINDOW",
	"log.level":         "LOG_LEVEL",
	"log.format":        "LOG_FORMAT",
}

func NewConfig() (*Config, error) {
	var err error

	configName := "config"
	_ = godotenv.Load()
	if os.Getenv("CONFIG_NAME") != "" {
		configName = os.Getenv("CONFIG_NAME")
	}

	v := viper.New()
	v.SetConfigName(configName)
	v.SetConfigType("toml")
	v.AddConfigPath("config")
	v.AddConfigPath(".")

	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("port", 3001)
	v.SetDefault("cors_origins", []string{"*"})
	v.SetDefault("jwt.expires_in", 24*time.Hour)
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.dial_timeout", 10*time.Second)
	v.SetDefault("redis.read_timeout", 10*time.Second)
	v.SetDefault("minio.bucket", "pedido-fotos")
	v.SetDefault("rate_limit.max", 100)
	v.SetDefault("rate_limit.window", 15*time.Minute)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	for key, env := range envBindings {
		if err = v.BindEnv(key, env); err != nil {
			return nil, err
		}
	}

	err = v.ReadInConfig()
	if err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
		log.Debug("config file not found, using env and defaults")
	}

	cfg := &Config{}
	err = v.Unmarshal(cfg)
	if err != nil {
		return nil, err
	}

	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = dsn.FromEnv()
	}
	if cfg.DatabaseURL == "" {
		return nil, errors.New("DATABASE_URL is not set")
	}
	if cfg.JWT.Token == "" {
		return nil, errors.New("JWT_SECRET is not set")
	}
	cfg.JWT.SigningMethod = jwt.SigningMethodHS256

	if cfg.ServicePort <= 0 || cfg.ServicePort > 65535 {
		return nil, fmt.Errorf("invalid port %d", cfg.ServicePort)
	}
	if cfg.RateLimit.Max <= 0 || cfg.RateLimit.Window <= 0 {
		return nil, fmt.Errorf("invalid rate limit %d/%s", cfg.RateLimit.Max, cfg.RateLimit.Window)
	}

	log.Info("config parsed")

	return cfg, nil
}
