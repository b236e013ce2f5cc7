package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/spf13/viper"
)

type HTTP struct {
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	ReadTimeoutSec  int    `mapstructure:"read_timeout_sec"`
	WriteTimeoutSec int    `mapstructure:"write_timeout_sec"`
	IdleTimeoutSec  int    `mapstructure:"idle_timeout_sec"`
}

type AdminHTTP struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

type App struct {
	Name  string    `mapstructure:"name"`
	Env   string    `mapstructure:"env"`
	HTTP  HTTP      `mapstructure:"http"`
	Admin AdminHTTP `mapstructure:"admin"`
}

type Log struct {
	Level string `mapstructure:"level"`
	JSON  bool   `mapstructure:"json"`
	// File 非空时同时写入文件并按大小切割
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
	Compress   bool   `mapstructure:"compress"`
}

type JWT struct {
	Secret            string `mapstructure:"secret"`
	Issuer            string `mapstructure:"issuer"`
	AccessTokenTTLMin int    `mapstructure:"access_token_ttl_min"`
}

type DB struct {
	Driver             string `mapstructure:"driver"`
	DSN                string `mapstructure:"dsn"`
	Username           string `mapstructure:"username"`
	Password           string `mapstructure:"password"`
	MaxOpenConns       int    `mapstructure:"max_open_conns"`
	MaxIdleConns       int    `mapstructure:"max_idle_conns"`
	ConnMaxLifetimeMin int    `mapstructure:"conn_max_lifetime_min"`
	AutoMigrate        bool   `mapstructure:"auto_migrate"`
	LogLevel           string `mapstructure:"log_level"`
	PrepareStmt        bool   `mapstructure:"prepare_stmt"`
}

// Admin 管理端静态密钥
type Admin struct {
	APIKey string `mapstructure:"api_key"`
	Header string `mapstructure:"header"`
}

type Security struct {
	PasswordHasher string `mapstructure:"password_hasher"` // bcrypt | argon2id
	BcryptCost     int    `mapstructure:"bcrypt_cost"`
}

type Limits struct {
	MaxBodyBytes int64 `mapstructure:"max_body_bytes"`
	MaxInFlight  int64 `mapstructure:"max_in_flight"`
}

type Config struct {
	App      App      `mapstructure:"app"`
	Log      Log      `mapstructure:"log"`
	JWT      JWT      `mapstructure:"jwt"`
	DB       DB       `mapstructure:"db"`
	Admin    Admin    `mapstructure:"admin"`
	Security Security `mapstructure:"security"`
	Limits   Limits   `mapstructure:"limits"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "online-voting-backend")
	v.SetDefault("app.env", "local")
	v.SetDefault("app.http.host", "0.0.0.0")
	v.SetDefault("app.http.port", 8080)
	v.SetDefault("app.http.read_timeout_sec", 5)
	v.SetDefault("app.http.write_timeout_sec", 10)
	v.SetDefault("app.http.idle_timeout_sec", 60)
	v.SetDefault("app.admin.host", "127.0.0.1")
	v.SetDefault("app.admin.port", 8081)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.json", false)
	v.SetDefault("log.file", "")
	v.SetDefault("log.max_size_mb", 50)
	v.SetDefault("log.max_backups", 5)
	v.SetDefault("log.max_age_days", 14)
	v.SetDefault("log.compress", true)

	v.SetDefault("jwt.secret", "")
	v.SetDefault("jwt.issuer", "online-voting-backend")
	v.SetDefault("jwt.access_token_ttl_min", 30)

	v.SetDefault("db.driver", "sqlite")
	v.SetDefault("db.dsn", "voting.db")
	v.SetDefault("db.username", "")
	v.SetDefault("db.password", "")
	v.SetDefault("db.max_open_conns", 20)
	v.SetDefault("db.max_idle_conns", 10)
	v.SetDefault("db.conn_max_lifetime_min", 30)
	v.SetDefault("db.auto_migrate", true)
	v.SetDefault("db.log_level", "warn")
	v.SetDefault("db.prepare_stmt", false)

	v.SetDefault("admin.api_key", "")
	v.SetDefault("admin.header", "x-api-key")

	v.SetDefault("security.password_hasher", "bcrypt")
	v.SetDefault("security.bcrypt_cost", 10)

	v.SetDefault("limits.max_body_bytes", 1<<20)
	v.SetDefault("limits.max_in_flight", 300)
}

// Load 读取 YAML + APP_ 前缀环境变量（APP_DB_DSN 覆盖 db.dsn）。
// 配置文件不存在时只用默认值和环境变量。
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	if path == "" {
		path = os.Getenv("CONFIG_PATH")
		if path == "" {
			path = "./configs/config.local.yaml"
		}
	}
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var nf viper.ConfigFileNotFoundError
		if !errors.As(err, &nf) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Config) Validate() error {
	if c.JWT.Secret == "" {
		return fmt.Errorf("config: jwt.secret is required")
	}
	if c.Admin.APIKey == "" {
		return fmt.Errorf("config: admin.api_key is required")
	}
	switch c.Security.PasswordHasher {
	case "bcrypt", "argon2id":
	default:
		return fmt.Errorf("config: unknown security.password_hasher %q", c.Security.PasswordHasher)
	}
	return nil
}
