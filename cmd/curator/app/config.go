package app

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/notewell/curator/internal/jira"
)

// Config holds the application configuration loaded from flags, environment
// variables, .env files, and the config file.
type Config struct {
	// Jira connection
	JiraURL   string
	JiraToken string

	// Notes server connection
	TriliumURL   string
	TriliumToken string

	// JQL queries to fetch; defaults to the stock queries when empty.
	Queries []string

	// Config file actually used, if any
	ConfigFile string

	// Logging configuration
	LogLevel  string
	LogFormat string
	LogOutput string
}

// LoadConfig loads configuration from all sources in order of precedence:
// command-line flags (handled by cobra), environment variables, .env files,
// the config file (~/.curator.yaml), then defaults.
func LoadConfig() (*Config, error) {
	loadEnvFiles()

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))

	bindCredentials()

	configFile := viper.GetString("config")
	if configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
			viper.AddConfigPath(".")
			viper.SetConfigType("yaml")
			viper.SetConfigName(".curator")
		}
	}

	// Missing config file is fine; env vars may carry everything.
	_ = viper.ReadInConfig()

	config := &Config{
		JiraURL:      viper.GetString("JIRA_URL"),
		JiraToken:    viper.GetString("JIRA_TOKEN"),
		TriliumURL:   viper.GetString("TRILIUM_URL"),
		TriliumToken: viper.GetString("TRILIUM_TOKEN"),

		Queries: viper.GetStringSlice("queries"),

		ConfigFile: viper.ConfigFileUsed(),

		LogLevel:  getEnvOrDefault("LOG_LEVEL", ""),
		LogFormat: getEnvOrDefault("LOG_FORMAT", "auto"),
		LogOutput: getEnvOrDefault("LOG_OUTPUT", "stderr"),
	}

	if len(config.Queries) == 0 {
		config.Queries = jira.DefaultQueries()
	}

	return config, nil
}

// loadEnvFiles loads environment variables from .env files; .env.local
// overrides .env.
func loadEnvFiles() {
	envFiles := []string{
		".env",
		".env.local",
	}

	for _, envFile := range envFiles {
		_ = godotenv.Load(envFile)
	}
}

// bindCredentials explicitly binds the connection environment variables to
// Viper so .env values are visible through it.
func bindCredentials() {
	keys := []string{
		"JIRA_URL",
		"JIRA_TOKEN",
		"TRILIUM_URL",
		"TRILIUM_TOKEN",
	}

	for _, key := range keys {
		_ = viper.BindEnv(key)
	}
}

// getEnvOrDefault returns the environment variable value or the default if not set.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
