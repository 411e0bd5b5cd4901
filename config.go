package main

import (
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"recipe-giving/handlers"
)

// Storage backends
const (
	BackendMemory   = "memory"
	BackendSQLite   = "sqlite"
	BackendDynamoDB = "dynamodb"
)

// Config holds every setting of the service. It is read from a YAML file,
// then secrets and deployment knobs are overridden from the environment.
type Config struct {
	Server struct {
		Port     string `yaml:"port"`
		UseHTTPS bool   `yaml:"use_https"`
		CertFile string `yaml:"cert_file"`
		KeyFile  string `yaml:"key_file"`
		// TrustedProxies lists the load balancers whose forwarding headers
		// are believed, as CIDRs or single IPs
		TrustedProxies []string `yaml:"trusted_proxies"`
	} `yaml:"server"`

	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"` // text or json
	} `yaml:"log"`

	GlobalGiving struct {
		APIKey  string `yaml:"api_key"`
		BaseURL string `yaml:"base_url"`
		// ProxyURL makes the charity modal read through a /api/charities proxy
		// instead of calling the search API directly
		ProxyURL string `yaml:"proxy_url"`
	} `yaml:"globalgiving"`

	MealDB struct {
		BaseURL string `yaml:"base_url"`
	} `yaml:"mealdb"`

	GeoIP struct {
		BaseURL string `yaml:"base_url"`
	} `yaml:"geoip"`

	Storage struct {
		Backend        string `yaml:"backend"`
		SQLitePath     string `yaml:"sqlite_path"`
		LocationsTable string `yaml:"locations_table"`
		DonationsTable string `yaml:"donations_table"`
	} `yaml:"storage"`

	AWS struct {
		Region      string `yaml:"region"`
		ShareBucket string `yaml:"share_bucket"`
	} `yaml:"aws"`

	Admin struct {
		Password string `yaml:"password"`
	} `yaml:"admin"`

	RateLimit struct {
		CharitiesPerMinute int `yaml:"charities_per_minute"`
	} `yaml:"rate_limit"`
}

// DefaultConfig is used for every field the file leaves out
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.Server.Port = "8080"
	cfg.Server.CertFile = "cert.pem"
	cfg.Server.KeyFile = "key.pem"
	cfg.Log.Level = "info"
	cfg.Log.Format = "text"
	cfg.Storage.Backend = BackendMemory
	cfg.Storage.SQLitePath = "recipe-giving.db"
	cfg.Storage.LocationsTable = "recipe-giving-locations"
	cfg.Storage.DonationsTable = "recipe-giving-donations"
	cfg.AWS.Region = "us-east-1"
	cfg.RateLimit.CharitiesPerMinute = 30
	return cfg
}

// LoadConfig reads path on top of the defaults. A missing file is not an error.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, errors.Wrapf(err, "failed to parse %s", path)
		}
	case os.IsNotExist(err):
		logrus.WithField("path", path).Debug("No config file, using defaults")
	default:
		return nil, errors.Wrapf(err, "failed to read %s", path)
	}

	overrideWithEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid configuration")
	}
	return cfg, nil
}

// Validate checks configuration validity
func (c *Config) Validate() error {
	port, err := strconv.Atoi(c.Server.Port)
	if err != nil || port < 1 || port > 65535 {
		return errors.Errorf("invalid port %q", c.Server.Port)
	}

	if _, err := logrus.ParseLevel(c.Log.Level); err != nil {
		return errors.Errorf("invalid log level %q", c.Log.Level)
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		return errors.Errorf("invalid log format %q", c.Log.Format)
	}

	switch c.Storage.Backend {
	case BackendMemory:
	case BackendSQLite:
		if c.Storage.SQLitePath == "" {
			return errors.New("sqlite backend needs sqlite_path")
		}
	case BackendDynamoDB:
		if c.Storage.LocationsTable == "" || c.Storage.DonationsTable == "" {
			return errors.New("dynamodb backend needs locations_table and donations_table")
		}
		if c.AWS.Region == "" {
			return errors.New("dynamodb backend needs an AWS region")
		}
	default:
		return errors.Errorf("unknown storage backend %q", c.Storage.Backend)
	}

	if _, err := handlers.ParseTrustedProxies(c.Server.TrustedProxies); err != nil {
		return err
	}

	if c.RateLimit.CharitiesPerMinute <= 0 {
		return errors.New("charities_per_minute must be positive")
	}
	return nil
}

func overrideWithEnv(cfg *Config) {
	if cfg.GlobalGiving.APIKey != "" || cfg.Admin.Password != "" {
		logrus.Warn("⚠️  Secrets found in config file, prefer GLOBALGIVING_API_KEY and ADMIN_PASSWORD")
	}

	setString := func(env string, dst *string) {
		if v := os.Getenv(env); v != "" {
			*dst = v
		}
	}

	setString("GLOBALGIVING_API_KEY", &cfg.GlobalGiving.APIKey)
	setString("GLOBALGIVING_URL", &cfg.GlobalGiving.BaseURL)
	setString("CHARITY_PROXY_URL", &cfg.GlobalGiving.ProxyURL)
	setString("MEALDB_URL", &cfg.MealDB.BaseURL)
	setString("GEOIP_URL", &cfg.GeoIP.BaseURL)
	setString("PORT", &cfg.Server.Port)
	setString("CERT_FILE", &cfg.Server.CertFile)
	setString("KEY_FILE", &cfg.Server.KeyFile)
	setString("ADMIN_PASSWORD", &cfg.Admin.Password)
	setString("STORAGE_BACKEND", &cfg.Storage.Backend)
	setString("SQLITE_PATH", &cfg.Storage.SQLitePath)
	setString("LOCATIONS_TABLE", &cfg.Storage.LocationsTable)
	setString("DONATIONS_TABLE", &cfg.Storage.DonationsTable)
	setString("AWS_REGION", &cfg.AWS.Region)
	setString("S3_SHARE_BUCKET", &cfg.AWS.ShareBucket)
	setString("LOG_LEVEL", &cfg.Log.Level)
	setString("LOG_FORMAT", &cfg.Log.Format)

	if v := os.Getenv("TRUSTED_PROXIES"); v != "" {
		cfg.Server.TrustedProxies = strings.Split(v, ",")
	}
	if v := os.Getenv("USE_HTTPS"); v != "" {
		cfg.Server.UseHTTPS = v == "true"
	}
}
