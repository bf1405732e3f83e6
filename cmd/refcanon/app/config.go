package app

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds the application configuration loaded from flags,
// environment variables, .env files and the optional config file.
type Config struct {
	// Global flags
	Verbose bool
	Quiet   bool
	NoColor bool

	// Config file
	ConfigFile string

	// Pipeline configuration
	ManifestFile string
	DatabasePath string

	// Logging configuration
	LogLevel string
}

// LoadConfig loads configuration from all sources in order of
// precedence: command-line flags (applied by cobra afterwards),
// environment variables with the REFCANON_ prefix, .env files, the
// config file, then defaults.
func LoadConfig() (*Config, error) {
	loadEnvFiles()

	viper.SetEnvPrefix("REFCANON")
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))

	configFile := viper.GetString("config")
	if configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
			viper.AddConfigPath(".")
			viper.SetConfigType("yaml")
			viper.SetConfigName(".refcanon")
		}
	}
	// Missing config file is fine; flags and env cover everything.
	_ = viper.ReadInConfig()

	return &Config{
		Verbose:      viper.GetBool("verbose"),
		Quiet:        viper.GetBool("quiet"),
		NoColor:      viper.GetBool("no-color"),
		ConfigFile:   viper.ConfigFileUsed(),
		ManifestFile: viper.GetString("manifest"),
		DatabasePath: viper.GetString("database"),
		LogLevel:     getEnvOrDefault("LOG_LEVEL", ""),
	}, nil
}

// UpdateFromFlags applies parsed command flags, which take precedence
// over config file and environment values.
func (c *Config) UpdateFromFlags(verbose, quiet, noColor bool, manifest, database string) {
	c.Verbose = verbose
	c.Quiet = quiet
	c.NoColor = noColor
	if manifest != "" {
		c.ManifestFile = manifest
	}
	if database != "" {
		c.DatabasePath = database
	}
}

// loadEnvFiles loads environment variables from .env files.
// .env.local overrides .env.
func loadEnvFiles() {
	for _, envFile := range []string{".env", ".env.local"} {
		_ = godotenv.Load(envFile)
	}
}

// getEnvOrDefault returns the environment variable value or the
// default if not set.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
