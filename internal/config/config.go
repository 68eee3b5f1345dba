package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Realtime transports
const (
	TransportWebSocket = "websocket"
	TransportRedis     = "redis"
	TransportNone      = "none"
)

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	API      APIConfig      `yaml:"api"`
	Socket   SocketConfig   `yaml:"socket"`
	Realtime RealtimeConfig `yaml:"realtime"`
	Redis    RedisConfig    `yaml:"redis"`
	Database DatabaseConfig `yaml:"database"`
	Logger   LoggerConfig   `yaml:"logger"`
	Resync   ResyncConfig   `yaml:"resync"`
	S3       S3Config       `yaml:"s3"`
	JWT      JWTConfig      `yaml:"jwt"`
}

// ServerConfig configures the local control API
type ServerConfig struct {
	Enabled         bool          `yaml:"enabled"`
	Port            string        `yaml:"port" validate:"omitempty,numeric"`
	Mode            string        `yaml:"mode" validate:"oneof=debug release test"`
	CORSOrigins     []string      `yaml:"cors_origins"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// APIConfig configures the remote board REST API
type APIConfig struct {
	BaseURL     string        `yaml:"base_url" validate:"required,url"`
	AccessToken string        `yaml:"access_token"`
	Timeout     time.Duration `yaml:"timeout" validate:"gt=0"`
}

// SocketConfig configures the websocket connection to the realtime server
type SocketConfig struct {
	URL                  string        `yaml:"url" validate:"omitempty,url"`
	WriteWait            time.Duration `yaml:"write_wait" validate:"gt=0"`
	PongWait             time.Duration `yaml:"pong_wait" validate:"gt=0"`
	MaxReconnectInterval time.Duration `yaml:"max_reconnect_interval" validate:"gt=0"`
	SendBuffer           int           `yaml:"send_buffer" validate:"gt=0"`
}

// RealtimeConfig selects how broadcasts reach other clients
type RealtimeConfig struct {
	Transport string `yaml:"transport" validate:"oneof=websocket redis none"`
	Channel   string `yaml:"channel"`
}

type RedisConfig struct {
	URL      string `yaml:"url"`
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db" validate:"gte=0"`
}

// DatabaseConfig configures the preference store
type DatabaseConfig struct {
	Driver          string        `yaml:"driver" validate:"oneof=sqlite postgres"`
	DSN             string        `yaml:"dsn" validate:"required"`
	MaxOpenConns    int           `yaml:"max_open_conns" validate:"gte=0"`
	MaxIdleConns    int           `yaml:"max_idle_conns" validate:"gte=0"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
}

type LoggerConfig struct {
	Level string `yaml:"level" validate:"oneof=debug info warn error"`
}

// ResyncConfig schedules periodic re-fetches of the active board. Empty schedule disables it.
type ResyncConfig struct {
	Schedule string `yaml:"schedule"`
}

type S3Config struct {
	Bucket    string `yaml:"bucket"`
	Region    string `yaml:"region"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	Endpoint  string `yaml:"endpoint" validate:"omitempty,url"`
}

// JWTConfig holds the secret protecting the local control API
type JWTConfig struct {
	Secret string `yaml:"secret"`
}

// Default returns the configuration used when no file or environment override is present
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Enabled:         true,
			Port:            "8090",
			Mode:            "release",
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    10 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		API: APIConfig{
			BaseURL: "http://localhost:8000/v1",
			Timeout: 10 * time.Second,
		},
		Socket: SocketConfig{
			URL:                  "ws://localhost:8000/socket",
			WriteWait:            10 * time.Second,
			PongWait:             60 * time.Second,
			MaxReconnectInterval: 30 * time.Second,
			SendBuffer:           256,
		},
		Realtime: RealtimeConfig{
			Transport: TransportWebSocket,
			Channel:   "trellone:realtime",
		},
		Redis: RedisConfig{
			Addr: "localhost:6379",
		},
		Database: DatabaseConfig{
			Driver:          "sqlite",
			DSN:             "trellone-sync.db",
			MaxOpenConns:    1,
			MaxIdleConns:    1,
			ConnMaxLifetime: time.Hour,
		},
		Logger: LoggerConfig{
			Level: "info",
		},
	}
}

// Load reads the YAML file at path (if it exists), applies environment overrides and validates
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err == nil {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config file: %w", err)
			}
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks struct constraints and cross-field rules
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if c.Realtime.Transport == TransportWebSocket && c.Socket.URL == "" {
		return fmt.Errorf("invalid configuration: socket.url is required for the websocket transport")
	}
	if c.Realtime.Transport == TransportRedis && c.Redis.URL == "" && c.Redis.Addr == "" {
		return fmt.Errorf("invalid configuration: redis.url or redis.addr is required for the redis transport")
	}
	if c.Server.Enabled && c.Server.Port == "" {
		return fmt.Errorf("invalid configuration: server.port is required when the local API is enabled")
	}
	if c.Server.Enabled && c.JWT.Secret == "" {
		return fmt.Errorf("invalid configuration: jwt.secret is required when the local API is enabled")
	}
	return nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("SERVER_PORT"); v != "" {
		c.Server.Port = v
	}
	if v := os.Getenv("SERVER_ENABLED"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Server.Enabled = b
		}
	}
	if v := os.Getenv("CORS_ORIGINS"); v != "" {
		c.Server.CORSOrigins = strings.Split(v, ",")
	}
	if v := os.Getenv("API_BASE_URL"); v != "" {
		c.API.BaseURL = v
	}
	if v := os.Getenv("API_ACCESS_TOKEN"); v != "" {
		c.API.AccessToken = v
	}
	if v := os.Getenv("SOCKET_URL"); v != "" {
		c.Socket.URL = v
	}
	if v := os.Getenv("REALTIME_TRANSPORT"); v != "" {
		c.Realtime.Transport = v
	}
	if v := os.Getenv("REDIS_URL"); v != "" {
		c.Redis.URL = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		c.Redis.Password = v
	}
	if v := os.Getenv("DATABASE_DRIVER"); v != "" {
		c.Database.Driver = v
	}
	if v := os.Getenv("DATABASE_DSN"); v != "" {
		c.Database.DSN = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Logger.Level = v
	}
	if v := os.Getenv("RESYNC_SCHEDULE"); v != "" {
		c.Resync.Schedule = v
	}
	if v := os.Getenv("S3_BUCKET"); v != "" {
		c.S3.Bucket = v
	}
	if v := os.Getenv("S3_REGION"); v != "" {
		c.S3.Region = v
	}
	if v := os.Getenv("S3_ACCESS_KEY"); v != "" {
		c.S3.AccessKey = v
	}
	if v := os.Getenv("S3_SECRET_KEY"); v != "" {
		c.S3.SecretKey = v
	}
	if v := os.Getenv("S3_ENDPOINT"); v != "" {
		c.S3.Endpoint = v
	}
	if v := os.Getenv("JWT_SECRET"); v != "" {
		c.JWT.Secret = v
	}
}
