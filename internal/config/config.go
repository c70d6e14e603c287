// Package config handles loading and parsing application configuration.
// It supports two sources (in priority order):
//  1. An environment variable:  CONFIG_PATH=/path/to/config.yaml
//  2. A command-line flag:      --config=/path/to/config.yaml
//
// Every value in the YAML file can be overridden by the environment
// variable named in its env:"..." tag.
package config

import (
	"flag"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Storage drivers.
const (
	DriverMemory = "memory"
	DriverSQLite = "sqlite"
)

// Config is the root configuration structure.
//
// env-required:"true" means the app refuses to start if that value is
// missing. Better to crash at boot than to silently use a wrong default.
type Config struct {
	// Env controls log format and verbosity.
	// Valid values: "dev", "staging", "prod"
	Env string `yaml:"env" env:"ENV" env-required:"true"`

	Storage    Storage    `yaml:"storage"`
	HTTPServer HTTPServer `yaml:"http_server"`
	Auth       Auth       `yaml:"auth"`
	Reminder   Reminder   `yaml:"reminder"`
	Client     Client     `yaml:"client"`
}

// Storage selects the Record Store backend.
type Storage struct {
	// Driver is "memory" (default, reset on restart) or "sqlite".
	Driver string `yaml:"driver" env:"STORAGE_DRIVER" env-default:"memory"`

	// Path is the SQLite .db file. Ignored by the memory driver.
	Path string `yaml:"path" env:"STORAGE_PATH" env-default:"storage/edu-admin.db"`

	// SkipSeed starts from an empty store instead of the demo users and
	// payments.
	SkipSeed bool `yaml:"skip_seed" env:"STORAGE_SKIP_SEED"`
}

// HTTPServer holds settings specific to the HTTP server.
type HTTPServer struct {
	// Addr is the TCP address the server listens on, e.g. "localhost:8082".
	Addr         string        `yaml:"address"       env:"HTTP_SERVER_ADDR" env-required:"true"`
	ReadTimeout  time.Duration `yaml:"read_timeout"  env-default:"10s"`
	WriteTimeout time.Duration `yaml:"write_timeout" env-default:"10s"`
	IdleTimeout  time.Duration `yaml:"idle_timeout"  env-default:"60s"`
}

// Auth configures bearer-token verification on the admin and payment
// routes. An empty Secret leaves the routes open.
type Auth struct {
	Secret string        `yaml:"secret" env:"AUTH_SECRET"`
	Issuer string        `yaml:"issuer" env:"AUTH_ISSUER" env-default:"edu-admin-api"`
	TTL    time.Duration `yaml:"ttl"    env:"AUTH_TTL"    env-default:"24h"`
}

// Reminder configures the simulated reminder delivery.
type Reminder struct {
	Delay time.Duration `yaml:"delay" env:"REMINDER_DELAY" env-default:"1s"`
}

// Client configures the CLI's fetch helpers.
type Client struct {
	// BackendURL is tried first; LocalURL is the fallback.
	BackendURL string        `yaml:"backend_url" env:"BACKEND_URL"`
	LocalURL   string        `yaml:"local_url"   env:"LOCAL_URL"   env-default:"http://localhost:8082"`
	Timeout    time.Duration `yaml:"timeout"     env:"CLIENT_TIMEOUT" env-default:"10s"`
}

// MustLoad reads, validates, and returns the application config.
//
// Functions prefixed with "Must" are allowed to fatal on failure. If this
// function returns, the config is valid.
func MustLoad() *Config {
	configPath := os.Getenv("CONFIG_PATH")

	if configPath == "" {
		flags := flag.String("config", "", "Path to the configuration YAML file")
		flag.Parse()
		configPath = *flags
	}

	if configPath == "" {
		log.Fatal("config path is not set: use --config flag or CONFIG_PATH env var")
	}

	cfg, err := Load(configPath)
	if err != nil {
		log.Fatalf("cannot read config: %s", err.Error())
	}

	return cfg
}

// Load reads the YAML file at path and applies environment overrides and
// defaults.
func Load(path string) (*Config, error) {
	// Verify the file exists before trying to read it, so the message is
	// clearer than a cryptic "open: no such file" later.
	if _, err := os.Stat(path); err != nil {
		return nil, err
	}

	var cfg Config
	if err := cleanenv.ReadConfig(path, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}
