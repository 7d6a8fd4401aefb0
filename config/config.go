package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Backend names accepted in Config.Backend.
const (
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendExcel = "excel"

	DefaultFile      = "students.txt"
	DefaultExcelFile = "students.xlsx"
)

// Config holds settings for persistence and the HTTP server.
type Config struct {
	Backend string      `yaml:"backend,omitempty"`
	File    string      `yaml:"file,omitempty"`
	Redis   RedisConfig `yaml:"redis,omitempty"`
	Excel   ExcelConfig `yaml:"excel,omitempty"`
	HTTP    HTTPConfig  `yaml:"http,omitempty"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr,omitempty"`
	Password string `yaml:"password,omitempty"`
	DB       int    `yaml:"db,omitempty"`
	Key      string `yaml:"key,omitempty"`
}

type ExcelConfig struct {
	Sheet string `yaml:"sheet,omitempty"`
}

type HTTPConfig struct {
	Addr string `yaml:"addr,omitempty"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Backend: BackendFile,
		File:    DefaultFile,
		Redis: RedisConfig{
			Addr: "127.0.0.1:6379",
			Key:  "roster:students",
		},
		Excel: ExcelConfig{Sheet: "Students"},
		HTTP:  HTTPConfig{Addr: ":8080"},
	}
}

// Load starts from Default, overlays the YAML file at path (if path is
// non-empty and the file exists), then applies ROSTER_* environment
// variables. The result is not validated so callers can apply further
// overrides before calling Validate.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("failed to read config file: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
			}
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	setString := func(key string, dst *string) {
		if v, ok := os.LookupEnv(key); ok {
			*dst = v
		}
	}
	setString("ROSTER_BACKEND", &c.Backend)
	setString("ROSTER_FILE", &c.File)
	setString("ROSTER_REDIS_ADDR", &c.Redis.Addr)
	setString("ROSTER_REDIS_PASSWORD", &c.Redis.Password)
	setString("ROSTER_REDIS_KEY", &c.Redis.Key)
	setString("ROSTER_EXCEL_SHEET", &c.Excel.Sheet)
	setString("ROSTER_HTTP_ADDR", &c.HTTP.Addr)

	if v, ok := os.LookupEnv("ROSTER_REDIS_DB"); ok {
		db, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid ROSTER_REDIS_DB %q: %w", v, err)
		}
		c.Redis.DB = db
	}
	return nil
}

// Validate checks that the selected backend has what it needs.
func (c *Config) Validate() error {
	switch c.Backend {
	case BackendFile, BackendExcel:
		if c.File == "" {
			return fmt.Errorf("backend %q requires a file path", c.Backend)
		}
	case BackendRedis:
		if c.Redis.Addr == "" || c.Redis.Key == "" {
			return errors.New("redis backend requires addr and key")
		}
	default:
		return fmt.Errorf("unknown backend %q", c.Backend)
	}
	return nil
}
