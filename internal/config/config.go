package config

import (
	"database/sql"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	gomysql "github.com/go-sql-driver/mysql"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Log     LogConfig     `yaml:"log"`
	AI      AIConfig      `yaml:"ai"`
	Storage StorageConfig `yaml:"storage"`
	Auth    AuthConfig    `yaml:"auth"`
	Export  ExportConfig  `yaml:"export"`
}

type LogConfig struct {
	Level      string `yaml:"level"`
	File       string `yaml:"file"`
	Console    bool   `yaml:"console"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
}

type ServerConfig struct {
	Port int `yaml:"port"`
}

// AIConfig selects the generation backend. Provider is "gemini" or "openai"
// (any OpenAI-compatible chat-completions endpoint).
type AIConfig struct {
	Provider string        `yaml:"provider"`
	Model    string        `yaml:"model"`
	APIKey   string        `yaml:"api_key"`
	BaseURL  string        `yaml:"base_url"`
	Timeout  time.Duration `yaml:"timeout"`
}

// StorageConfig selects where the report history slot lives.
// Driver is one of "file", "mysql" or "memory".
type StorageConfig struct {
	Driver   string         `yaml:"driver"`
	Dir      string         `yaml:"dir"`
	Database DatabaseConfig `yaml:"database"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
}

// AuthConfig enables the single-operator gate when PasswordHash is set.
type AuthConfig struct {
	PasswordHash string        `yaml:"password_hash"`
	JWTSecret    string        `yaml:"jwt_secret"`
	TokenTTL     time.Duration `yaml:"token_ttl"`
}

func (a AuthConfig) Enabled() bool { return a.PasswordHash != "" }

type ExportConfig struct {
	Dir string `yaml:"dir"`
}

func Default() *Config {
	return &Config{
		Server: ServerConfig{Port: 9871},
		Log:    LogConfig{Level: "info", Console: true, MaxSizeMB: 100, MaxBackups: 3, MaxAgeDays: 30},
		AI: AIConfig{
			Provider: "gemini",
			Model:    "gemini-2.5-pro",
			Timeout:  2 * time.Minute,
		},
		Storage: StorageConfig{
			Driver:   "file",
			Dir:      "data",
			Database: DatabaseConfig{Port: 3306, Name: "process_report"},
		},
		Auth:   AuthConfig{TokenTTL: 7 * 24 * time.Hour},
		Export: ExportConfig{Dir: "exports"},
	}
}

func Load(configFile string) *Config {
	_ = godotenv.Load()

	c := Default()

	paths := []string{"etc/config-dev.yaml", "/etc/process-report/config.yaml"}
	if configFile != "" {
		paths = []string{configFile}
	}
	for _, path := range paths {
		if data, err := os.ReadFile(path); err == nil {
			yaml.Unmarshal(data, c)
			break
		}
	}

	envOverride(&c.AI.Provider, "AI_PROVIDER")
	envOverride(&c.AI.Model, "AI_MODEL")
	envOverride(&c.AI.APIKey, "API_KEY")
	envOverride(&c.AI.APIKey, "AI_API_KEY")
	envOverride(&c.AI.BaseURL, "AI_BASE_URL")
	envOverride(&c.Storage.Driver, "STORAGE_DRIVER")
	envOverride(&c.Storage.Dir, "STORAGE_DIR")
	envOverride(&c.Storage.Database.Host, "DB_HOST")
	envOverride(&c.Storage.Database.User, "DB_USER")
	envOverride(&c.Storage.Database.Password, "DB_PASS")
	envOverride(&c.Storage.Database.Name, "DB_NAME")
	envOverride(&c.Auth.PasswordHash, "AUTH_PASSWORD_HASH")
	envOverride(&c.Auth.JWTSecret, "AUTH_JWT_SECRET")
	envOverride(&c.Export.Dir, "EXPORT_DIR")
	envOverride(&c.Log.Level, "LOG_LEVEL")
	envOverride(&c.Log.File, "LOG_FILE")
	envOverrideBool(&c.Log.Console, "LOG_CONSOLE")
	envOverrideInt(&c.Server.Port, "PORT")
	envOverrideInt(&c.Storage.Database.Port, "DB_PORT")

	return c
}

func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Server.Port)
}

func (c *Config) OpenGormDB() (*gorm.DB, error) {
	db := c.Storage.Database
	cfg := gomysql.NewConfig()
	cfg.User = db.User
	cfg.Passwd = db.Password
	cfg.Net = "tcp"
	cfg.Addr = fmt.Sprintf("%s:%d", db.Host, db.Port)
	cfg.DBName = db.Name
	cfg.ParseTime = true

	connector, err := gomysql.NewConnector(cfg)
	if err != nil {
		return nil, fmt.Errorf("create connector: %w", err)
	}
	sqlDB := sql.OpenDB(connector)
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("ping db: %w", err)
	}

	return gorm.Open(mysql.New(mysql.Config{Conn: sqlDB}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
}

func envOverride(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func envOverrideInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func envOverrideBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(strings.TrimSpace(v)); err == nil {
			*dst = b
		}
	}
}
