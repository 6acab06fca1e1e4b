package config

import (
	"fmt"
	"net/url"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the main configuration, loaded from YAML.
type Config struct {
	Profile  string   `yaml:"profile"`
	Regions  []string `yaml:"regions"`
	RoleName string   `yaml:"role_name"`
	Services []string `yaml:"services"`
	LogLevel string   `yaml:"log_level,omitempty"`

	Collection Collection `yaml:"collection,omitempty"`
	Database   Database   `yaml:"database"`
}

// Collection tunes the enrichment pipeline.
type Collection struct {
	MetricName         string        `yaml:"metric_name,omitempty"`
	MetricWindows      []int         `yaml:"metric_windows,omitempty"`
	AccountConcurrency int           `yaml:"account_concurrency,omitempty"`
	AccountTimeout     time.Duration `yaml:"account_timeout,omitempty"`
}

// Database locates the snapshot store.
type Database struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port,omitempty"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password,omitempty"`
	SSLMode  string `yaml:"ssl_mode,omitempty"`
}

// LoadConfig loads configuration from file, applies defaults and validates.
// The database password may also come from CLOUDHERD_DB_PASSWORD so it can
// stay out of the file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- path is intentional user input
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyDefaults()

	if pw := os.Getenv("CLOUDHERD_DB_PASSWORD"); pw != "" {
		cfg.Database.Password = pw
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.Collection.MetricName == "" {
		c.Collection.MetricName = "CPUUtilization"
	}
	if len(c.Collection.MetricWindows) == 0 {
		c.Collection.MetricWindows = []int{30, 60}
	}
	if c.Collection.AccountConcurrency == 0 {
		c.Collection.AccountConcurrency = 4
	}
	if c.Collection.AccountTimeout == 0 {
		c.Collection.AccountTimeout = 10 * time.Minute
	}
	if c.Database.Port == 0 {
		c.Database.Port = 5432
	}
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = "disable"
	}
}

// Validate ensures config has required fields.
func (c *Config) Validate() error {
	if len(c.Regions) == 0 {
		return fmt.Errorf("at least one region is required")
	}
	if c.RoleName == "" {
		return fmt.Errorf("role_name is required")
	}
	if len(c.Services) == 0 {
		return fmt.Errorf("at least one service is required")
	}
	if c.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}
	if c.Database.Name == "" {
		return fmt.Errorf("database name is required")
	}
	if c.Database.User == "" {
		return fmt.Errorf("database user is required")
	}
	if c.Collection.AccountConcurrency < 1 {
		return fmt.Errorf("account_concurrency must be positive")
	}
	// The snapshot schema records exactly the 30- and 60-day windows; any
	// other configuration would query statistics that have no column.
	if len(c.Collection.MetricWindows) != 2 ||
		c.Collection.MetricWindows[0] != 30 || c.Collection.MetricWindows[1] != 60 {
		return fmt.Errorf("metric_windows must be [30, 60], got %v", c.Collection.MetricWindows)
	}
	return nil
}

// DSN renders the database location as a postgres connection URL.
func (d Database) DSN() string {
	u := url.URL{
		Scheme: "postgres",
		Host:   fmt.Sprintf("%s:%d", d.Host, d.Port),
		Path:   "/" + d.Name,
	}
	if d.Password != "" {
		u.User = url.UserPassword(d.User, d.Password)
	} else {
		u.User = url.User(d.User)
	}

	q := u.Query()
	q.Set("sslmode", d.SSLMode)
	u.RawQuery = q.Encode()

	return u.String()
}
