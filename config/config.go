package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/multierr"
	yaml "gopkg.in/yaml.v3"

	"github.com/foomo/contentserver-booknav/navigation"
)

const (
	DriverSQLite        = "sqlite"
	DriverContentServer = "contentserver"
)

// Environment variables applied on top of the configuration file.
const (
	EnvStoreDriver      = "BOOKNAV_STORE_DRIVER"
	EnvStoreDSN         = "BOOKNAV_STORE_DSN"
	EnvContentServerURL = "BOOKNAV_CONTENTSERVER_URL"
	EnvSiteBaseURL      = "BOOKNAV_SITE_BASE_URL"
	EnvHTTPAddr         = "BOOKNAV_HTTP_ADDR"
	EnvLogLevel         = "BOOKNAV_LOG_LEVEL"
)

type (
	ContentServerConfig struct {
		URL           string        `yaml:"url"`
		RootID        string        `yaml:"root_id"`
		MenuRootID    string        `yaml:"menu_root_id,omitempty"`
		Dimension     string        `yaml:"dimension,omitempty"`
		Groups        []string      `yaml:"groups,omitempty"`
		PageMimeTypes []string      `yaml:"page_mime_types"`
		PostMimeTypes []string      `yaml:"post_mime_types,omitempty"`
		MenuMimeTypes []string      `yaml:"menu_mime_types,omitempty"`
		CacheTTL      time.Duration `yaml:"cache_ttl"`
		CacheSize     int           `yaml:"cache_size"`
	}

	StoreConfig struct {
		Driver        string              `yaml:"driver"`
		DSN           string              `yaml:"dsn,omitempty"`
		ContentServer ContentServerConfig `yaml:"contentserver"`
	}

	SiteConfig struct {
		BaseURL          string `yaml:"base_url"`
		ContentSelector  string `yaml:"content_selector"`
		DetectLoginForms bool   `yaml:"detect_login_forms"`
	}

	ServerConfig struct {
		HTTPAddr string `yaml:"http_addr,omitempty"`
		Endpoint string `yaml:"endpoint"`
	}

	Config struct {
		Logging LoggingConfig `yaml:"logging"`
		Store   StoreConfig   `yaml:"store"`
		Site    SiteConfig    `yaml:"site"`
		Server  ServerConfig  `yaml:"server"`
		// Book is only read by stores that keep no site options themselves.
		Book navigation.Settings `yaml:"book"`
	}
)

func Default() *Config {
	return &Config{
		Logging: LoggingConfig{Level: "normal"},
		Store: StoreConfig{
			Driver: DriverSQLite,
			DSN:    "booknav.db",
			ContentServer: ContentServerConfig{
				CacheTTL:  time.Minute,
				CacheSize: 1,
			},
		},
		Site:   SiteConfig{ContentSelector: "main"},
		Server: ServerConfig{Endpoint: "/mcp"},
		Book:   navigation.Settings{StartNumber: 1},
	}
}

// Load reads .env, then the YAML file at path (optional) over the defaults,
// then BOOKNAV_* variables, and validates the result.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := Unmarshal(data, cfg); err != nil {
			return nil, err
		}
	}
	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Unmarshal decodes data on top of cfg, rejecting unknown fields.
func Unmarshal(data []byte, cfg *Config) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return fmt.Errorf("failed to decode configuration data: %w", err)
	}
	return nil
}

func (c *Config) applyEnv() {
	set := func(dst *string, key string) {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			*dst = v
		}
	}
	set(&c.Store.Driver, EnvStoreDriver)
	set(&c.Store.DSN, EnvStoreDSN)
	set(&c.Store.ContentServer.URL, EnvContentServerURL)
	set(&c.Site.BaseURL, EnvSiteBaseURL)
	set(&c.Server.HTTPAddr, EnvHTTPAddr)
	set(&c.Logging.Level, EnvLogLevel)
}

func (c *Config) Validate() error {
	var err error
	switch c.Logging.Level {
	case "none", "normal", "debug":
	default:
		err = multierr.Append(err, fmt.Errorf("logging level %q is not one of none, normal, debug", c.Logging.Level))
	}
	switch c.Store.Driver {
	case DriverSQLite:
		if c.Store.DSN == "" {
			err = multierr.Append(err, errors.New("sqlite store needs a dsn"))
		}
	case DriverContentServer:
		cs := c.Store.ContentServer
		if cs.URL == "" {
			err = multierr.Append(err, errors.New("contentserver store needs a url"))
		}
		if cs.RootID == "" {
			err = multierr.Append(err, errors.New("contentserver store needs a root_id"))
		}
		if len(cs.PageMimeTypes) == 0 {
			err = multierr.Append(err, errors.New("contentserver store needs page_mime_types"))
		}
		if c.Book.HasMenu && cs.MenuRootID == "" {
			err = multierr.Append(err, errors.New("book has a menu but contentserver menu_root_id is empty"))
		}
	default:
		err = multierr.Append(err, fmt.Errorf("unknown store driver %q", c.Store.Driver))
	}
	if c.Book.StartNumber < 0 {
		err = multierr.Append(err, fmt.Errorf("start number %d is negative", c.Book.StartNumber))
	}
	if !strings.HasPrefix(c.Server.Endpoint, "/") {
		err = multierr.Append(err, fmt.Errorf("server endpoint %q must start with /", c.Server.Endpoint))
	}
	return err
}
