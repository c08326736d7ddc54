package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config struct to hold the configuration settings
type Config struct {
	Postgres      PostgresConfig      `yaml:"postgres"`
	HTTP          HTTPConfig          `yaml:"http"`
	Redis         RedisConfig         `yaml:"redis"`
	League        LeagueConfig        `yaml:"league"`
	Results       ResultsConfig       `yaml:"results"`
	Observability ObservabilityConfig `yaml:"observability"`
}

// PostgresConfig holds Postgres configuration.
type PostgresConfig struct {
	DSN string `yaml:"dsn"`
}

// HTTPConfig holds API server settings.
type HTTPConfig struct {
	Addr           string   `yaml:"addr"`
	AdminToken     string   `yaml:"admin_token"`
	AllowedOrigins []string `yaml:"allowed_origins"`
	RateLimit      float64  `yaml:"rate_limit"`
	RateBurst      int      `yaml:"rate_burst"`
	// SessionSecret signs player session tokens. Empty keeps the
	// X-User-ID header as the identity source.
	SessionSecret string        `yaml:"session_secret"`
	SessionTTL    time.Duration `yaml:"session_ttl"`
}

// RedisConfig holds the optional leaderboard cache. An empty Addr disables it.
type RedisConfig struct {
	Addr     string        `yaml:"addr"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	TTL      time.Duration `yaml:"ttl"`
}

// LeagueConfig holds the league rules.
type LeagueConfig struct {
	ScoringTable    string `yaml:"scoring_table"`
	DefaultTimezone string `yaml:"default_timezone"`
	SweepCron       string `yaml:"sweep_cron"`
	// DisableQueue skips River and leaves auto-picks to the cron sweep.
	DisableQueue bool `yaml:"disable_queue"`
	BcryptCost   int  `yaml:"bcrypt_cost"`
}

// ResultsConfig holds the results import source. URL may be an http(s) URL
// or a file path, with {round}, {class} and {type} placeholders.
type ResultsConfig struct {
	ImportURL     string        `yaml:"import_url"`
	ImportTimeout time.Duration `yaml:"import_timeout"`
}

// ObservabilityConfig holds configuration for observability components
type ObservabilityConfig struct {
	MetricsAddress string `yaml:"metrics_address"`
	Environment    string `yaml:"environment"`
	LogLevel       string `yaml:"log_level"`
}

// LoadConfig loads the configuration from a YAML file. A missing file falls
// back to environment variables only. Variables from a .env file in the
// working directory are loaded first and never override the real
// environment.
func LoadConfig(filename string) (*Config, error) {
	_ = godotenv.Load()

	data, err := os.ReadFile(filename)
	if err != nil {
		return loadConfigFromEnv()
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := applyEnv(&cfg); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	return &cfg, nil
}

// loadConfigFromEnv loads the configuration from environment variables.
func loadConfigFromEnv() (*Config, error) {
	var cfg Config
	if err := applyEnv(&cfg); err != nil {
		return nil, err
	}
	if cfg.Postgres.DSN == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable not set")
	}
	cfg.applyDefaults()
	return &cfg, nil
}

func applyEnv(cfg *Config) error {
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.Postgres.DSN = v
	}
	if v := os.Getenv("HTTP_ADDR"); v != "" {
		cfg.HTTP.Addr = v
	}
	if v := os.Getenv("ADMIN_TOKEN"); v != "" {
		cfg.HTTP.AdminToken = v
	}
	if v := os.Getenv("SESSION_SECRET"); v != "" {
		cfg.HTTP.SessionSecret = v
	}
	if v := os.Getenv("SESSION_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid SESSION_TTL value: %v", err)
		}
		cfg.HTTP.SessionTTL = d
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		cfg.Redis.Addr = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		cfg.Redis.Password = v
	}
	if v := os.Getenv("METRICS_ADDRESS"); v != "" {
		cfg.Observability.MetricsAddress = v
	}
	if v := os.Getenv("ENV"); v != "" {
		cfg.Observability.Environment = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Observability.LogLevel = v
	}
	if v := os.Getenv("RESULTS_IMPORT_URL"); v != "" {
		cfg.Results.ImportURL = v
	}
	if v := os.Getenv("RESULTS_IMPORT_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid RESULTS_IMPORT_TIMEOUT value: %v", err)
		}
		cfg.Results.ImportTimeout = d
	}
	if v := os.Getenv("SCORING_TABLE"); v != "" {
		cfg.League.ScoringTable = v
	}
	if v := os.Getenv("SWEEP_CRON"); v != "" {
		cfg.League.SweepCron = v
	}
	if v := os.Getenv("DEFAULT_TIMEZONE"); v != "" {
		cfg.League.DefaultTimezone = v
	}
	if v := os.Getenv("DISABLE_QUEUE"); v != "" {
		cfg.League.DisableQueue = v == "true"
	}
	if v := os.Getenv("BCRYPT_COST"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid BCRYPT_COST value: %v", err)
		}
		cfg.League.BcryptCost = n
	}
	return nil
}

func (cfg *Config) applyDefaults() {
	if cfg.HTTP.Addr == "" {
		cfg.HTTP.Addr = ":8080"
	}
	if cfg.HTTP.RateLimit == 0 {
		cfg.HTTP.RateLimit = 10
	}
	if cfg.HTTP.RateBurst == 0 {
		cfg.HTTP.RateBurst = 20
	}
	if cfg.HTTP.SessionTTL == 0 {
		cfg.HTTP.SessionTTL = 720 * time.Hour
	}
	if cfg.League.ScoringTable == "" {
		cfg.League.ScoringTable = "standard"
	}
	if cfg.Results.ImportTimeout == 0 {
		cfg.Results.ImportTimeout = 10 * time.Second
	}
	if cfg.Redis.TTL == 0 {
		cfg.Redis.TTL = 10 * time.Minute
	}
	if cfg.Observability.Environment == "" {
		cfg.Observability.Environment = "development"
	}
}
