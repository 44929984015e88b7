package config

import (
	"errors"
	"flag"
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Env           string        `yaml:"env" env:"ENV" env-default:"local"`
	Jaeger        string        `yaml:"jaeger" env:"JAEGER" env-default:"jaeger"`
	TableCacheTTL time.Duration `yaml:"table_cache_ttl" env:"TABLE_CACHE_TTL" env-default:"10m"`
	Log           LogConfig     `yaml:"log"`
	GRPC          GRPCConfig    `yaml:"grpc"`
	DB            DBConfig      `yaml:"db"`
	Redis         RedisConfig   `yaml:"redis"`
}

type LogConfig struct {
	Level string `yaml:"level" env:"LOG_LEVEL" env-default:"info"`
}

type GRPCConfig struct {
	Host         string `yaml:"host" env:"GRPC_HOST" env-default:"0.0.0.0"`
	Port         int    `yaml:"port" env:"GRPC_PORT" env-default:"44046"`
	MaxRecvBytes int    `yaml:"max_recv_bytes" env:"GRPC_MAX_RECV_BYTES" env-default:"33554432"`
}

type DBConfig struct {
	DSN          string `yaml:"dsn" env:"DB_DSN"`
	Host         string `yaml:"host" env:"DB_HOST" env-default:"localhost"`
	Port         int    `yaml:"port" env:"DB_PORT" env-default:"5432"`
	User         string `yaml:"user" env:"DB_USER"`
	Password     string `yaml:"password" env:"DB_PASSWORD"`
	Name         string `yaml:"name" env:"DB_NAME"`
	SSLMode      string `yaml:"sslmode" env:"DB_SSLMODE" env-default:"require"`
	MigrateOnRun bool   `yaml:"migrate_on_run" env:"DB_MIGRATE_ON_RUN" env-default:"true"`
}

// DatabaseURL prefers an explicit DSN and otherwise assembles a postgres
// URL from the individual fields.
func (c DBConfig) DatabaseURL() string {
	if c.DSN != "" {
		return c.DSN
	}

	sslMode := c.SSLMode
	if sslMode == "" {
		sslMode = "require"
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(c.User, c.Password),
		Host:   fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:   c.Name,
	}

	q := u.Query()
	q.Set("sslmode", sslMode)
	u.RawQuery = q.Encode()

	return u.String()
}

type RedisConfig struct {
	Addr     string `yaml:"addr" env:"REDIS_ADDR" env-default:"localhost:6379"`
	Password string `yaml:"password" env:"REDIS_PASSWORD"`
	DB       int    `yaml:"db" env:"REDIS_DB" env-default:"0"`
	Disabled bool   `yaml:"disabled" env:"REDIS_DISABLED" env-default:"false"`
}

func MustLoad() *Config {
	path := fetchConfigPath()
	if path == "" {
		panic("config path is empty")
	}
	return MustLoadByPath(path)
}

func MustLoadByPath(configPath string) *Config {
	cfg, err := Load(configPath)
	if err != nil {
		panic(err.Error())
	}
	return cfg
}

func Load(configPath string) (*Config, error) {
	if _, err := os.Stat(configPath); errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("config file does not exist: %s", configPath)
	}

	var cfg Config
	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		return nil, fmt.Errorf("cannot read the config: %w", err)
	}

	return &cfg, nil
}

func fetchConfigPath() string {
	var res string

	flag.StringVar(&res, "config", "", "path to config file")
	flag.Parse()

	if res == "" {
		res = os.Getenv("CONFIG_PATH")
	}
	if res == "" {
		res = "config/league-stats.yaml"
	}

	return res
}
