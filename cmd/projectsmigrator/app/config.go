package app

import (
	"os"
	"strings"
	"time"

	"github.com/goccy/go-yaml"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/pretagov/projectsmigrator/pkg/errors"
)

// Config holds the application configuration loaded from flags,
// environment variables and .env files.
type Config struct {
	// Run parameters
	ProjectURL    string
	Workspaces    []string
	Fields        []string
	Excludes      []string
	DisableRemove bool
	KeepOrphanPRs bool
	DryRun        bool
	MappingFile   string

	// API access
	GithubToken    string
	ZenhubToken    string
	GithubEndpoint string
	ZenhubEndpoint string
	Timeout        time.Duration

	// Global flags
	Verbose bool
	Quiet   bool
	NoColor bool

	// Logging configuration
	LogLevel  string
	LogFormat string
}

// LoadConfig loads configuration from the environment. Precedence,
// highest first: command-line flags (applied later by cobra),
// environment variables, .env files, defaults.
func LoadConfig() (*Config, error) {
	loadEnvFiles()

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))

	config := &Config{
		GithubToken:    viper.GetString("github_token"),
		ZenhubToken:    viper.GetString("zenhub_token"),
		GithubEndpoint: viper.GetString("github_graphql_endpoint"),
		ZenhubEndpoint: viper.GetString("zenhub_graphql_endpoint"),
		Timeout:        viper.GetDuration("timeout"),

		LogLevel:  getEnvOrDefault("LOG_LEVEL", ""),
		LogFormat: getEnvOrDefault("LOG_FORMAT", "auto"),
	}
	return config, nil
}

// UpdateFromFlags applies parsed flag values that take precedence over
// environment configuration.
func (c *Config) UpdateFromFlags(verbose, quiet, noColor bool, logLevel string) {
	c.Verbose = verbose
	c.Quiet = quiet
	c.NoColor = noColor
	if logLevel != "" {
		c.LogLevel = logLevel
	}
}

// MappingFileConfig is the YAML shape of --mapping-file: reusable field
// mappings, exclusions and workspace selections.
type MappingFileConfig struct {
	Workspaces []string `yaml:"workspaces"`
	Fields     []string `yaml:"fields"`
	Excludes   []string `yaml:"excludes"`
}

// LoadMappingFile reads a YAML mapping file. Entries from the file are
// layered before command-line entries, so flags win.
func LoadMappingFile(path string) (*MappingFileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &errors.ConfigError{Component: "mapping-file", Message: "read " + path, Err: err}
	}
	var out MappingFileConfig
	if err := yaml.Unmarshal(data, &out); err != nil {
		return nil, &errors.ConfigError{Component: "mapping-file", Message: "parse " + path, Err: err}
	}
	return &out, nil
}

// Merge prepends the mapping file's entries to the flag-provided ones.
func (c *Config) Merge(file *MappingFileConfig) {
	c.Workspaces = append(file.Workspaces, c.Workspaces...)
	c.Fields = append(file.Fields, c.Fields...)
	c.Excludes = append(file.Excludes, c.Excludes...)
}

// loadEnvFiles loads environment variables from .env files.
// .env.local overrides .env.
func loadEnvFiles() {
	for _, envFile := range []string{".env", ".env.local"} {
		_ = godotenv.Load(envFile)
	}
}

// getEnvOrDefault returns an environment variable or a default value.
func getEnvOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
