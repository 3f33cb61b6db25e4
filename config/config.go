package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rhq-project/rhq-coregui/internal/constants"
	"gopkg.in/yaml.v3"
)

type Config struct {
	App       AppConfig       `yaml:"app"`
	Database  DatabaseConfig  `yaml:"database"`
	Redis     RedisConfig     `yaml:"redis"`
	Session   SessionConfig   `yaml:"session"`
	RPC       RPCConfig       `yaml:"rpc"`
	Log       LogConfig       `yaml:"log"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Metrics   MetricsConfig   `yaml:"metrics"`
}

type AppConfig struct {
	Name        string        `yaml:"name"`
	Environment string        `yaml:"environment"`
	Debug       bool          `yaml:"debug"`
	Timeout     time.Duration `yaml:"timeout"`
	Port        string        `yaml:"port"`
}

type DatabaseConfig struct {
	Driver          string        `yaml:"driver"`
	Host            string        `yaml:"host"`
	Port            int           `yaml:"port"`
	Name            string        `yaml:"name"`
	User            string        `yaml:"user"`
	Password        string        `yaml:"password"`
	SSLMode         string        `yaml:"sslmode"`
	MaxIdleConns    int           `yaml:"max_idle_conns"`
	MaxOpenConns    int           `yaml:"max_open_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `yaml:"conn_max_idle_time"`
	AutoMigrate     bool          `yaml:"auto_migrate"`
	Seed            bool          `yaml:"seed"`
	AdminPassword   string        `yaml:"admin_password"`
}

type RedisConfig struct {
	Enabled      bool          `yaml:"enabled"`
	Host         string        `yaml:"host"`
	Port         int           `yaml:"port"`
	Password     string        `yaml:"password"`
	Database     int           `yaml:"database"`
	PoolSize     int           `yaml:"pool_size"`
	MinIdleConns int           `yaml:"min_idle_conns"`
	DialTimeout  time.Duration `yaml:"dial_timeout"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
	PoolTimeout  time.Duration `yaml:"pool_timeout"`
}

// SessionConfig controls login sessions. TTL is the idle timeout refreshed on
// every authenticated call, MaxLifetime bounds the signed token.
type SessionConfig struct {
	Secret      string        `yaml:"secret"`
	TTL         time.Duration `yaml:"ttl"`
	MaxLifetime time.Duration `yaml:"max_lifetime"`
}

type RPCConfig struct {
	GRPCEnabled bool   `yaml:"grpc_enabled"`
	GRPCPort    string `yaml:"grpc_port"`
	MaxPageSize int    `yaml:"max_page_size"`
}

type LogConfig struct {
	Path       string `yaml:"path"`
	Level      string `yaml:"level"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxAgeDays int    `yaml:"max_age_days"`
	MaxBackups int    `yaml:"max_backups"`
	Compress   bool   `yaml:"compress"`
}

type RateLimitConfig struct {
	Request  int `yaml:"request"`
	Duration int `yaml:"duration"`
}

type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

func defaults() *Config {
	return &Config{
		App: AppConfig{
			Name:        constants.AppName,
			Environment: constants.DefaultEnvironment,
			Port:        constants.DefaultPort,
			Debug:       true,
			Timeout:     30 * time.Second,
		},
		Database: DatabaseConfig{
			Driver:          "postgres",
			Host:            "localhost",
			Port:            5432,
			Name:            "rhq",
			User:            "rhqadmin",
			Password:        "rhqadmin",
			SSLMode:         "disable",
			MaxIdleConns:    10,
			MaxOpenConns:    50,
			ConnMaxLifetime: time.Hour,
			ConnMaxIdleTime: 10 * time.Minute,
			AutoMigrate:     true,
			Seed:            true,
			AdminPassword:   "rhqadmin",
		},
		Redis: RedisConfig{
			Enabled:      false,
			Host:         "localhost",
			Port:         6379,
			PoolSize:     10,
			MinIdleConns: 5,
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
			PoolTimeout:  4 * time.Second,
		},
		Session: SessionConfig{
			Secret:      "default_secret_key_change_in_production",
			TTL:         time.Hour,
			MaxLifetime: 24 * time.Hour,
		},
		RPC: RPCConfig{
			GRPCEnabled: true,
			GRPCPort:    constants.DefaultGRPCPort,
			MaxPageSize: 1000,
		},
		Log: LogConfig{
			Path:       "./logs",
			Level:      constants.LogLevelInfo,
			MaxSizeMB:  100,
			MaxAgeDays: 14,
			MaxBackups: 10,
			Compress:   true,
		},
		RateLimit: RateLimitConfig{
			Request:  100,
			Duration: 60,
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Path:    "/metrics",
		},
	}
}

// LoadConfig layers the built in defaults, the YAML file named by
// RHQ_CONFIG_FILE, a .env file and the process environment, later layers
// winning.
func LoadConfig() (*Config, error) {
	// A missing .env file is fine.
	_ = godotenv.Load()

	config := defaults()
	if path := os.Getenv("RHQ_CONFIG_FILE"); path != "" {
		if err := config.loadFile(path); err != nil {
			return nil, err
		}
	}
	config.applyEnv()

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() {
	c.App.Name = getEnv("APP_NAME", c.App.Name)
	c.App.Environment = getEnv("APP_ENV", c.App.Environment)
	c.App.Port = getEnv("APP_PORT", c.App.Port)
	c.App.Debug = getEnvAsBool("APP_DEBUG", c.App.Debug)
	c.App.Timeout = getEnvAsDuration("APP_TIMEOUT", c.App.Timeout)

	c.Database.Driver = getEnv("DB_DRIVER", c.Database.Driver)
	c.Database.Host = getEnv("DB_HOST", c.Database.Host)
	c.Database.Port = getEnvAsInt("DB_PORT", c.Database.Port)
	c.Database.Name = getEnv("DB_NAME", c.Database.Name)
	c.Database.User = getEnv("DB_USER", c.Database.User)
	c.Database.Password = getEnv("DB_PASSWORD", c.Database.Password)
	c.Database.SSLMode = getEnv("DB_SSL_MODE", c.Database.SSLMode)
	c.Database.MaxIdleConns = getEnvAsInt("DB_MAX_IDLE_CONNS", c.Database.MaxIdleConns)
	c.Database.MaxOpenConns = getEnvAsInt("DB_MAX_OPEN_CONNS", c.Database.MaxOpenConns)
	c.Database.ConnMaxLifetime = getEnvAsDuration("DB_CONN_MAX_LIFETIME", c.Database.ConnMaxLifetime)
	c.Database.ConnMaxIdleTime = getEnvAsDuration("DB_CONN_MAX_IDLE_TIME", c.Database.ConnMaxIdleTime)
	c.Database.AutoMigrate = getEnvAsBool("DB_AUTO_MIGRATE", c.Database.AutoMigrate)
	c.Database.Seed = getEnvAsBool("DB_SEED", c.Database.Seed)
	c.Database.AdminPassword = getEnv("RHQ_ADMIN_PASSWORD", c.Database.AdminPassword)

	c.Redis.Enabled = getEnvAsBool("REDIS_ENABLED", c.Redis.Enabled)
	c.Redis.Host = getEnv("REDIS_HOST", c.Redis.Host)
	c.Redis.Port = getEnvAsInt("REDIS_PORT", c.Redis.Port)
	c.Redis.Password = getEnv("REDIS_PASSWORD", c.Redis.Password)
	c.Redis.Database = getEnvAsInt("REDIS_DB", c.Redis.Database)
	c.Redis.PoolSize = getEnvAsInt("REDIS_POOL_SIZE", c.Redis.PoolSize)
	c.Redis.MinIdleConns = getEnvAsInt("REDIS_MIN_IDLE_CONNS", c.Redis.MinIdleConns)
	c.Redis.DialTimeout = getEnvAsDuration("REDIS_DIAL_TIMEOUT", c.Redis.DialTimeout)
	c.Redis.ReadTimeout = getEnvAsDuration("REDIS_READ_TIMEOUT", c.Redis.ReadTimeout)
	c.Redis.WriteTimeout = getEnvAsDuration("REDIS_WRITE_TIMEOUT", c.Redis.WriteTimeout)
	c.Redis.PoolTimeout = getEnvAsDuration("REDIS_POOL_TIMEOUT", c.Redis.PoolTimeout)

	c.Session.Secret = getEnv("SESSION_SECRET", c.Session.Secret)
	c.Session.TTL = getEnvAsDuration("SESSION_TTL", c.Session.TTL)
	c.Session.MaxLifetime = getEnvAsDuration("SESSION_MAX_LIFETIME", c.Session.MaxLifetime)

	c.RPC.GRPCEnabled = getEnvAsBool("GRPC_ENABLED", c.RPC.GRPCEnabled)
	c.RPC.GRPCPort = getEnv("GRPC_PORT", c.RPC.GRPCPort)
	c.RPC.MaxPageSize = getEnvAsInt("RPC_MAX_PAGE_SIZE", c.RPC.MaxPageSize)

	c.Log.Path = getEnv("LOGS_PATH", c.Log.Path)
	c.Log.Level = getEnv("LOG_LEVEL", c.Log.Level)
	c.Log.MaxSizeMB = getEnvAsInt("LOG_MAX_SIZE_MB", c.Log.MaxSizeMB)
	c.Log.MaxAgeDays = getEnvAsInt("LOG_MAX_AGE_DAYS", c.Log.MaxAgeDays)
	c.Log.MaxBackups = getEnvAsInt("LOG_MAX_BACKUPS", c.Log.MaxBackups)
	c.Log.Compress = getEnvAsBool("LOG_COMPRESS", c.Log.Compress)

	c.RateLimit.Request = getEnvAsInt("RATE_LIMIT_MAX_REQUEST", c.RateLimit.Request)
	c.RateLimit.Duration = getEnvAsInt("RATE_LIMIT_DURATION", c.RateLimit.Duration)

	c.Metrics.Enabled = getEnvAsBool("METRICS_ENABLED", c.Metrics.Enabled)
	c.Metrics.Path = getEnv("METRICS_PATH", c.Metrics.Path)
}

// Validate rejects settings the server cannot start with.
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case "postgres", "mysql":
	default:
		return fmt.Errorf("unsupported database driver %q", c.Database.Driver)
	}
	if c.Session.Secret == "" {
		return fmt.Errorf("session secret must not be empty")
	}
	if c.Session.TTL <= 0 || c.Session.MaxLifetime < c.Session.TTL {
		return fmt.Errorf("session ttl %s must be positive and not exceed max lifetime %s",
			c.Session.TTL, c.Session.MaxLifetime)
	}
	if c.RPC.MaxPageSize < constants.DefaultPageSize {
		return fmt.Errorf("rpc max page size %d must not be below the default page size %d",
			c.RPC.MaxPageSize, constants.DefaultPageSize)
	}
	return nil
}

func (c *Config) DatabaseConnectionString() string {
	if c.Database.Driver == "mysql" {
		return fmt.Sprintf(
			"%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
			c.Database.User,
			c.Database.Password,
			c.Database.Host,
			c.Database.Port,
			c.Database.Name,
		)
	}
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

func (c *Config) RedisAddress() string {
	return fmt.Sprintf("%s:%d", c.Redis.Host, c.Redis.Port)
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		boolValue, err := strconv.ParseBool(value)
		if err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
