package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Env     string        `yaml:"env" env:"ENV" env-default:"local"`
	Log     LogConfig     `yaml:"log"`
	HTTP    HTTPConfig    `yaml:"http"`
	CORS    CORSConfig    `yaml:"cors"`
	Clients ClientsConfig `yaml:"clients"`
	Jaeger  JaegerConfig  `yaml:"jaeger"`
}

type LogConfig struct {
	Level string `yaml:"level" env:"LOG_LEVEL" env-default:"info"`
}

type HTTPConfig struct {
	Host            string        `yaml:"host" env:"HTTP_HOST" env-default:"0.0.0.0"`
	Port            int           `yaml:"port" env:"HTTP_PORT" env-default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout" env:"HTTP_READ_TIMEOUT" env-default:"15s"`
	WriteTimeout    time.Duration `yaml:"write_timeout" env:"HTTP_WRITE_TIMEOUT" env-default:"15s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"HTTP_SHUTDOWN_TIMEOUT" env-default:"5s"`
	MaxUploadBytes  int64         `yaml:"max_upload_bytes" env:"HTTP_MAX_UPLOAD_BYTES" env-default:"10485760"`
}

type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins" env:"CORS_ALLOWED_ORIGINS" env-separator:"," env-default:"http://localhost:3000"`
}

type ClientsConfig struct {
	League LeagueClientConfig `yaml:"league"`
}

type LeagueClientConfig struct {
	Address       string        `yaml:"address" env:"LEAGUE_ADDRESS" env-default:"localhost:44046"`
	Timeout       time.Duration `yaml:"timeout" env:"LEAGUE_TIMEOUT" env-default:"5s"`
	UploadTimeout time.Duration `yaml:"upload_timeout" env:"LEAGUE_UPLOAD_TIMEOUT" env-default:"30s"`
}

type JaegerConfig struct {
	Address string `yaml:"address" env:"JAEGER_ADDRESS"`
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
		res = "config/api-gateway.yaml"
	}

	return res
}
