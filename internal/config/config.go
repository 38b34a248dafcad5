package config

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config represents the application configuration
type Config struct {
	v *viper.Viper
}

// New creates a new configuration instance. When configFile is empty the
// usual locations are searched and a missing file is not an error.
func New(configFile string) (*Config, error) {
	v := viper.New()
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("/etc/mail-search/")
		v.AddConfigPath("$HOME/.mail-search")
		v.AddConfigPath("./configs")
		v.AddConfigPath(".")
	}

	// Set defaults
	setDefaults(v)

	// Environment variables
	v.SetEnvPrefix("MAIL_SEARCH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || configFile != "" {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	return &Config{v: v}, nil
}

// NewFromViper creates a new configuration instance from an existing Viper instance
func NewFromViper(v *viper.Viper) *Config {
	return &Config{v: v}
}

// NewEmptyViper creates a new Viper instance with defaults
func NewEmptyViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	return v
}

// setDefaults sets the default configuration values
func setDefaults(v *viper.Viper) {
	// Gmail defaults
	v.SetDefault("gmail.user_id", "me")
	v.SetDefault("gmail.credentials_file", "credentials.json")
	v.SetDefault("gmail.max_results", 100)
	v.SetDefault("gmail.request_timeout", "30s")
	v.SetDefault("gmail.auth_timeout", "5m")
	v.SetDefault("gmail.fetch_concurrency", 1)
	v.SetDefault("gmail.max_part_depth", 2)
	v.SetDefault("gmail.open_browser", true)

	// Credential store defaults
	v.SetDefault("credentials.store", "file")
	v.SetDefault("credentials.key", "token")
	v.SetDefault("credentials.file_dir", ".")
	v.SetDefault("credentials.keyring_service", "mail-search")
	v.SetDefault("credentials.keyring_file_dir", "~/.mail-search/keyring")
	v.SetDefault("credentials.keyring_password", "mail-search-file-key")
	v.SetDefault("credentials.sqlite_path", "~/.mail-search/credentials.db")
	v.SetDefault("credentials.mysql_dsn", "user:password@tcp(localhost:3306)/mail_search")

	// Embedding defaults
	v.SetDefault("embedding.provider", "openai")
	v.SetDefault("embedding.max_input_chars", 8000)

	// OpenAI defaults
	v.SetDefault("openai.api_key", "")
	v.SetDefault("openai.base_url", "")
	v.SetDefault("openai.model_name", "text-embedding-3-small")
	v.SetDefault("openai.dimensions", 0)

	// Gemini defaults
	v.SetDefault("gemini.api_key", "")
	v.SetDefault("gemini.model_name", "text-embedding-004")
	v.SetDefault("gemini.batch_size", 100)

	// Bedrock defaults
	v.SetDefault("bedrock.region", "us-east-1")
	v.SetDefault("bedrock.model_id", "amazon.titan-embed-text-v2:0")
	v.SetDefault("bedrock.dimensions", 1024)
	v.SetDefault("bedrock.normalize", true)

	// Hashing defaults
	v.SetDefault("hashing.dimensions", 512)

	// Search defaults
	v.SetDefault("search.top_k", 5)
	v.SetDefault("search.preview_chars", 700)
	v.SetDefault("search.timezone", "Local")
	v.SetDefault("search.default_start", "2024-01-01")

	// Output defaults
	v.SetDefault("output.format", "console")
	v.SetDefault("smtp.address", "localhost:25")
	v.SetDefault("smtp.from", "")
	v.SetDefault("smtp.to", []string{})
	v.SetDefault("smtp.username", "")
	v.SetDefault("smtp.password", "")
	v.SetDefault("smtp.timeout", "30s")

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
}

// BindFlags binds command line flags to configuration keys.
// keys maps a flag name to the configuration key it overrides.
func (c *Config) BindFlags(flags *pflag.FlagSet, keys map[string]string) error {
	for name, key := range keys {
		flag := flags.Lookup(name)
		if flag == nil {
			return fmt.Errorf("unknown flag %q", name)
		}
		if err := c.v.BindPFlag(key, flag); err != nil {
			return fmt.Errorf("failed to bind flag %q: %w", name, err)
		}
	}
	return nil
}

// GetString gets a string value from the configuration
func (c *Config) GetString(key string) string {
	return c.v.GetString(key)
}

// GetInt gets an integer value from the configuration
func (c *Config) GetInt(key string) int {
	return c.v.GetInt(key)
}

// GetBool gets a boolean value from the configuration
func (c *Config) GetBool(key string) bool {
	return c.v.GetBool(key)
}

// GetStringSlice gets a string slice value from the configuration
func (c *Config) GetStringSlice(key string) []string {
	return c.v.GetStringSlice(key)
}

// GetViper returns the underlying Viper instance
func (c *Config) GetViper() *viper.Viper {
	return c.v
}
