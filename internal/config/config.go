package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Port         string   `yaml:"port"`
		ReadTimeout  string   `yaml:"read_timeout"`
		WriteTimeout string   `yaml:"write_timeout"`
		CORSOrigins  []string `yaml:"cors_origins"`
	} `yaml:"server"`
	Store struct {
		// Driver is memory, postgres or sqlite. Empty picks postgres when
		// postgres.url is set and memory otherwise.
		Driver     string `yaml:"driver"`
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"store"`
	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
		TTL      string `yaml:"ttl"`
	} `yaml:"redis"`
	Postgres struct {
		URL string `yaml:"url"`
	} `yaml:"postgres"`
	Quiz struct {
		TTL string `yaml:"ttl"`
	} `yaml:"quiz"`
	Auth struct {
		Provider        string   `yaml:"provider"`
		JWTSecret       string   `yaml:"jwt_secret"`
		Audience        string   `yaml:"audience"`
		Issuer          string   `yaml:"issuer"`
		GoogleClientIDs []string `yaml:"google_client_ids"`
	} `yaml:"auth"`
}

// Load reads YAML config from path, then applies .env and environment
// overrides. A missing file yields defaults.
func Load(path string) (Config, error) {
	cfg := Config{}
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return cfg, err
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, err
		}
	}

	// .env is optional; real environment variables win over it.
	_ = godotenv.Load()
	applyEnv(&cfg)
	cfg.applyDefaults()
	return cfg, nil
}

func applyEnv(cfg *Config) {
	setString(&cfg.Server.Port, "PORT")
	setList(&cfg.Server.CORSOrigins, "CORS_ORIGINS")
	setString(&cfg.Store.Driver, "STORE_DRIVER")
	setString(&cfg.Store.SQLitePath, "SQLITE_PATH")
	setString(&cfg.Postgres.URL, "DATABASE_URL")
	setString(&cfg.Redis.Addr, "REDIS_ADDR")
	setString(&cfg.Redis.Password, "REDIS_PASSWORD")
	if raw := os.Getenv("REDIS_DB"); raw != "" {
		if db, err := strconv.Atoi(raw); err == nil {
			cfg.Redis.DB = db
		}
	}
	setString(&cfg.Auth.Provider, "AUTH_PROVIDER")
	setString(&cfg.Auth.JWTSecret, "AUTH_JWT_SECRET")
	setString(&cfg.Auth.Audience, "AUTH_AUDIENCE")
	setString(&cfg.Auth.Issuer, "AUTH_ISSUER")
	setList(&cfg.Auth.GoogleClientIDs, "GOOGLE_CLIENT_ID")
}

func (c *Config) applyDefaults() {
	if c.Store.Driver == "" {
		c.Store.Driver = "memory"
		if c.Postgres.URL != "" {
			c.Store.Driver = "postgres"
		}
	}
	if c.Store.SQLitePath == "" {
		c.Store.SQLitePath = "quiz.db"
	}
	if c.Auth.Provider == "" {
		c.Auth.Provider = "jwt"
	}
	if len(c.Server.CORSOrigins) == 0 {
		c.Server.CORSOrigins = []string{"http://localhost:3000"}
	}
}

func setString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}

func setList(dst *[]string, key string) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return
	}
	var out []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	*dst = out
}

// TTLDuration parses a duration string or returns the fallback if empty.
func TTLDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	return fallback
}
