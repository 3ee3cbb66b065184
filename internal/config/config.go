package config

import (
	"fmt"
	"os"
	"strconv"

	mysqldriver "github.com/go-sql-driver/mysql"
	"gopkg.in/yaml.v3"
)

// Config holds all runtime configuration
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	JWT      JWTConfig      `yaml:"jwt"`
	Engine   EngineConfig   `yaml:"engine"`
	CORS     CORSConfig     `yaml:"cors"`
}

// ServerConfig HTTP server settings
type ServerConfig struct {
	Port int    `yaml:"port"`
	Env  string `yaml:"env"`
}

// DatabaseConfig MySQL settings
type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
}

// RedisConfig Redis settings
type RedisConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	PoolSize int    `yaml:"pool_size"`
}

// JWTConfig token settings
type JWTConfig struct {
	Secret      string `yaml:"secret"`
	ExpiryHours int    `yaml:"expiry_hours"`
}

// EngineConfig matchmaking engine defaults. Request/channel windows can be
// overridden per-deployment from the moderation settings store.
type EngineConfig struct {
	RequestExpiryDays    int `yaml:"request_expiry_days"`
	ChannelExpiryDays    int `yaml:"channel_expiry_days"`
	SweepIntervalSeconds int `yaml:"sweep_interval_seconds"`
	RateLimitPerMinute   int `yaml:"rate_limit_per_minute"`
}

// CORSConfig allowed origins
type CORSConfig struct {
	Origins []string `yaml:"origins"`
}

// Load reads a YAML config file and applies env overrides
func Load(path string) (*Config, error) {
	cfg := defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	applyEnv(cfg)
	return cfg, nil
}

func defaults() *Config {
	return &Config{
		Server: ServerConfig{Port: 8080, Env: "local"},
		Database: DatabaseConfig{
			Host: "localhost", Port: 3306, User: "zawaj", Name: "zawaj",
		},
		Redis:  RedisConfig{Host: "localhost", Port: 6379, PoolSize: 10},
		JWT:    JWTConfig{ExpiryHours: 24},
		Engine: EngineConfig{RequestExpiryDays: 30, ChannelExpiryDays: 7, SweepIntervalSeconds: 60, RateLimitPerMinute: 120},
	}
}

// applyEnv lets environment variables win over file values
func applyEnv(cfg *Config) {
	if v := os.Getenv("APP_ENV"); v != "" {
		cfg.Server.Env = v
	}
	if v := os.Getenv("PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = p
		}
	}
	if v := os.Getenv("DB_HOST"); v != "" {
		cfg.Database.Host = v
	}
	if v := os.Getenv("DB_PASSWORD"); v != "" {
		cfg.Database.Password = v
	}
	if v := os.Getenv("REDIS_HOST"); v != "" {
		cfg.Redis.Host = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		cfg.Redis.Password = v
	}
	if v := os.Getenv("JWT_SECRET"); v != "" {
		cfg.JWT.Secret = v
	}
}

// GetDSN builds the MySQL DSN
func (d DatabaseConfig) GetDSN() string {
	mc := mysqldriver.NewConfig()
	mc.User = d.User
	mc.Passwd = d.Password
	mc.Net = "tcp"
	mc.Addr = fmt.Sprintf("%s:%d", d.Host, d.Port)
	mc.DBName = d.Name
	mc.ParseTime = true
	mc.Params = map[string]string{"charset": "utf8mb4"}
	return mc.FormatDSN()
}
