package helper

import (
	"fmt"
	"os"

	"github.com/jessevdk/go-flags"
	"gopkg.in/yaml.v3"
)

// Config holds the manager configuration. Every value can come from the
// optional yaml file; environment variables override the file.
type Config struct {
	Port        string                 `yaml:"port"`
	Profile     string                 `yaml:"profile"`
	StaticDir   string                 `yaml:"staticDir"`
	SentryDSN   string                 `yaml:"sentryDSN"`
	StorageMode string                 `yaml:"storageMode"`
	StoragePath string                 `yaml:"storagePath"`
	NodeJSON    string                 `yaml:"nodeJSON"`
	Database    *DatabaseConfiguration `yaml:"database"`
}

// Settings is the parsed process configuration.
type Settings struct {
	Config         Config
	VerboseLogging bool
}

// LoadSettings parses process flags and, when a config path is given,
// reads the yaml config file. Environment overrides are applied last.
func LoadSettings(args []string) (*Settings, error) {
	var opts struct {
		ConfigFilePath string `short:"c" long:"config" description:"path to the config file" optional:"true"`
		Verbose        bool   `short:"v" long:"verbose" description:"debug logging" optional:"true"`
	}

	if _, err := flags.ParseArgs(&opts, args); err != nil {
		return nil, fmt.Errorf("failed to parse args: %w", err)
	}

	settings := &Settings{
		VerboseLogging: opts.Verbose,
	}

	if opts.ConfigFilePath != "" {
		config, err := readFileToConfig(opts.ConfigFilePath)
		if err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
		settings.Config = *config
	}

	settings.Config.applyEnvOverrides()
	return settings, nil
}

func readFileToConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, err
	}
	return &config, nil
}

func (c *Config) applyEnvOverrides() {
	c.Port = GetEnvOrDefault("WORKGRAPH_MANAGER_PORT", defaultString(c.Port, "8000"))
	c.Profile = GetEnvOrDefault("WORKGRAPH_MANAGER_PROFILE", c.Profile)
	c.StaticDir = GetEnvOrDefault("WORKGRAPH_MANAGER_STATIC_DIR", defaultString(c.StaticDir, "./view/static"))
	c.SentryDSN = GetEnvOrDefault("SENTRY_DSN", c.SentryDSN)
	c.StorageMode = GetEnvOrDefault("WORKGRAPH_MANAGER_STORAGE_MODE", defaultString(c.StorageMode, "local"))
	c.StoragePath = GetEnvOrDefault("WORKGRAPH_MANAGER_STORAGE_PATH", defaultString(c.StoragePath, "./repository"))
	c.NodeJSON = GetEnvOrDefault("WORKGRAPH_MANAGER_NODE_JSON", c.NodeJSON)

	if c.Database == nil {
		c.Database = &DatabaseConfiguration{}
	}
	c.Database.Host = GetEnvOrDefault("WORKGRAPH_MANAGER_DB_HOST", defaultString(c.Database.Host, "localhost"))
	c.Database.Port = GetEnvOrDefault("WORKGRAPH_MANAGER_DB_PORT", defaultString(c.Database.Port, "5432"))
	c.Database.Database = GetEnvOrDefault("WORKGRAPH_MANAGER_DB_NAME", defaultString(c.Database.Database, "workgraph"))
	c.Database.Username = GetEnvOrDefault("WORKGRAPH_MANAGER_DB_USER", defaultString(c.Database.Username, "postgres"))
	c.Database.Password = GetEnvOrDefault("WORKGRAPH_MANAGER_DB_PASSWORD", c.Database.Password)
	c.Database.Schema = GetEnvOrDefault("WORKGRAPH_MANAGER_DB_SCHEMA", defaultString(c.Database.Schema, "public"))
	c.Database.SSLMode = defaultString(c.Database.SSLMode, "disable")
}

func defaultString(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
