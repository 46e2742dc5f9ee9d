package app

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds the application configuration loaded from config files,
// environment variables, and .env files.
type Config struct {
	// Global flags
	Verbose bool
	Quiet   bool

	// Config file
	ConfigFile string

	// Tenant the sync run writes under.
	TenantID string

	// Stays.net API credentials.
	StaysBaseURL      string
	StaysClientID     string
	StaysClientSecret string

	// Local store.
	DatabaseURL string

	// Sync behavior.
	Concurrency int

	// Logging configuration
	LogLevel  string
	LogFormat string
}

// LoadConfig loads configuration from all sources in order of precedence:
// 1. Command-line flags (handled by cobra)
// 2. Environment variables
// 3. .env files
// 4. Config file (~/.channelsync.yaml)
// 5. Defaults
func LoadConfig() (*Config, error) {
	loadEnvFiles()

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	bindEnvKeys()

	configFile := viper.GetString("config")
	if configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
			viper.AddConfigPath(".")
			viper.SetConfigType("yaml")
			viper.SetConfigName(".channelsync")
		}
	}

	// Config file is optional.
	_ = viper.ReadInConfig()

	config := &Config{
		Verbose: viper.GetBool("verbose"),
		Quiet:   viper.GetBool("quiet"),

		ConfigFile: viper.ConfigFileUsed(),

		TenantID: viper.GetString("organization_id"),

		StaysBaseURL:      viper.GetString("staysnet_base_url"),
		StaysClientID:     viper.GetString("staysnet_client_id"),
		StaysClientSecret: viper.GetString("staysnet_client_secret"),

		DatabaseURL: viper.GetString("database_url"),
		Concurrency: viper.GetInt("sync_concurrency"),

		LogLevel:  getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat: getEnvOrDefault("LOG_FORMAT", "auto"),
	}

	return config, nil
}

// loadEnvFiles loads environment variables from .env files.
// .env.local overrides .env.
func loadEnvFiles() {
	envFiles := []string{
		".env",
		".env.local",
	}
	for _, envFile := range envFiles {
		_ = godotenv.Load(envFile)
	}
}

// bindEnvKeys explicitly binds the credential environment variables to
// Viper so they survive the key replacer.
func bindEnvKeys() {
	keys := []string{
		"ORGANIZATION_ID",
		"STAYSNET_BASE_URL",
		"STAYSNET_CLIENT_ID",
		"STAYSNET_CLIENT_SECRET",
		"DATABASE_URL",
		"SYNC_CONCURRENCY",
	}
	for _, key := range keys {
		_ = viper.BindEnv(strings.ToLower(key), key)
	}
}

// getEnvOrDefault returns the environment variable value or the default if
// not set.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
