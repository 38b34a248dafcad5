package config

import (
	"fmt"
	"time"
)

// GmailConfig represents the configuration for the Gmail adapter
type GmailConfig struct {
	UserID           string
	CredentialsFile  string
	MaxResults       int64
	RequestTimeout   time.Duration
	AuthTimeout      time.Duration
	FetchConcurrency int
	MaxPartDepth     int
	OpenBrowser      bool
}

// CredentialsConfig represents the configuration for the credential store
type CredentialsConfig struct {
	Store           string
	Key             string
	FileDir         string
	KeyringService  string
	KeyringFileDir  string
	KeyringPassword string
	SQLitePath      string
	MySQLDSN        string
}

// EmbeddingConfig represents the configuration for the embedding provider
type EmbeddingConfig struct {
	Provider      string
	MaxInputChars int
}

// OpenAIConfig represents the configuration for OpenAI embeddings
type OpenAIConfig struct {
	APIKey     string
	BaseURL    string
	ModelName  string
	Dimensions int
}

// GeminiConfig represents the configuration for Google Gemini embeddings
type GeminiConfig struct {
	APIKey    string
	ModelName string
	BatchSize int
}

// BedrockConfig represents the configuration for Amazon Bedrock embeddings
type BedrockConfig struct {
	Region     string
	ModelID    string
	Dimensions int
	Normalize  bool
}

// HashingConfig represents the configuration for the offline hashing embedder
type HashingConfig struct {
	Dimensions int
}

// SearchConfig represents the ranking and display settings
type SearchConfig struct {
	TopK         int
	PreviewChars int
	Timezone     string
	DefaultStart string
}

// OutputConfig represents the presenter selection
type OutputConfig struct {
	Format string
}

// SMTPConfig represents the configuration for mailing result digests
type SMTPConfig struct {
	Address  string
	From     string
	To       []string
	Username string
	Password string
	Timeout  time.Duration
}

// LoggingConfig represents the logger settings
type LoggingConfig struct {
	Level  string
	Format string
}

// GetGmail returns the Gmail configuration
func (c *Config) GetGmail() GmailConfig {
	return GmailConfig{
		UserID:           c.GetString("gmail.user_id"),
		CredentialsFile:  c.GetString("gmail.credentials_file"),
		MaxResults:       int64(c.GetInt("gmail.max_results")),
		RequestTimeout:   c.v.GetDuration("gmail.request_timeout"),
		AuthTimeout:      c.v.GetDuration("gmail.auth_timeout"),
		FetchConcurrency: c.GetInt("gmail.fetch_concurrency"),
		MaxPartDepth:     c.GetInt("gmail.max_part_depth"),
		OpenBrowser:      c.GetBool("gmail.open_browser"),
	}
}

// GetCredentials returns the credential store configuration
func (c *Config) GetCredentials() CredentialsConfig {
	return CredentialsConfig{
		Store:           c.GetString("credentials.store"),
		Key:             c.GetString("credentials.key"),
		FileDir:         c.GetString("credentials.file_dir"),
		KeyringService:  c.GetString("credentials.keyring_service"),
		KeyringFileDir:  c.GetString("credentials.keyring_file_dir"),
		KeyringPassword: c.GetString("credentials.keyring_password"),
		SQLitePath:      c.GetString("credentials.sqlite_path"),
		MySQLDSN:        c.GetString("credentials.mysql_dsn"),
	}
}

// GetEmbedding returns the embedding provider configuration
func (c *Config) GetEmbedding() EmbeddingConfig {
	return EmbeddingConfig{
		Provider:      c.GetString("embedding.provider"),
		MaxInputChars: c.GetInt("embedding.max_input_chars"),
	}
}

// GetOpenAI returns the OpenAI configuration
func (c *Config) GetOpenAI() OpenAIConfig {
	return OpenAIConfig{
		APIKey:     c.GetString("openai.api_key"),
		BaseURL:    c.GetString("openai.base_url"),
		ModelName:  c.GetString("openai.model_name"),
		Dimensions: c.GetInt("openai.dimensions"),
	}
}

// GetGemini returns the Gemini configuration
func (c *Config) GetGemini() GeminiConfig {
	return GeminiConfig{
		APIKey:    c.GetString("gemini.api_key"),
		ModelName: c.GetString("gemini.model_name"),
		BatchSize: c.GetInt("gemini.batch_size"),
	}
}

// GetBedrock returns the Bedrock configuration
func (c *Config) GetBedrock() BedrockConfig {
	return BedrockConfig{
		Region:     c.GetString("bedrock.region"),
		ModelID:    c.GetString("bedrock.model_id"),
		Dimensions: c.GetInt("bedrock.dimensions"),
		Normalize:  c.GetBool("bedrock.normalize"),
	}
}

// GetHashing returns the hashing embedder configuration
func (c *Config) GetHashing() HashingConfig {
	return HashingConfig{
		Dimensions: c.GetInt("hashing.dimensions"),
	}
}

// GetSearch returns the search configuration
func (c *Config) GetSearch() SearchConfig {
	return SearchConfig{
		TopK:         c.GetInt("search.top_k"),
		PreviewChars: c.GetInt("search.preview_chars"),
		Timezone:     c.GetString("search.timezone"),
		DefaultStart: c.GetString("search.default_start"),
	}
}

// GetOutput returns the output configuration
func (c *Config) GetOutput() OutputConfig {
	return OutputConfig{
		Format: c.GetString("output.format"),
	}
}

// GetSMTP returns the SMTP digest configuration
func (c *Config) GetSMTP() SMTPConfig {
	return SMTPConfig{
		Address:  c.GetString("smtp.address"),
		From:     c.GetString("smtp.from"),
		To:       c.GetStringSlice("smtp.to"),
		Username: c.GetString("smtp.username"),
		Password: c.GetString("smtp.password"),
		Timeout:  c.v.GetDuration("smtp.timeout"),
	}
}

// GetLogging returns the logging configuration
func (c *Config) GetLogging() LoggingConfig {
	return LoggingConfig{
		Level:  c.GetString("logging.level"),
		Format: c.GetString("logging.format"),
	}
}

// Location resolves search.timezone
func (s SearchConfig) Location() (*time.Location, error) {
	switch s.Timezone {
	case "", "Local":
		return time.Local, nil
	}
	loc, err := time.LoadLocation(s.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid search timezone %q: %w", s.Timezone, err)
	}
	return loc, nil
}
