package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server" validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Auth     AuthConfig     `mapstructure:"auth" validate:"required"`
	LLM      LLMConfig      `mapstructure:"llm" validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// DatabaseConfig contains all storage-related configuration settings.
type DatabaseConfig struct {
	// Path is the SQLite database file backing the local session store.
	Path string `mapstructure:"path" validate:"required"`
}

// AuthConfig contains all authentication and authorization settings.
// The study tool serves a single configured user; the bcrypt hash of that
// user's password is part of the configuration rather than a user table.
type AuthConfig struct {
	JWTSecret                   string `mapstructure:"jwt_secret" validate:"required,min=32"`
	Username                    string `mapstructure:"username" validate:"required"`
	PasswordHash                string `mapstructure:"password_hash" validate:"required"`
	TokenLifetimeMinutes        int    `mapstructure:"token_lifetime_minutes" validate:"required,gt=0"`
	RefreshTokenLifetimeMinutes int    `mapstructure:"refresh_token_lifetime_minutes" validate:"required,gt=0"`
}

// LLMConfig contains all LLM integration related settings.
type LLMConfig struct {
	GeminiAPIKey       string `mapstructure:"gemini_api_key" validate:"required"`
	ModelName          string `mapstructure:"model_name" validate:"required"`
	PromptTemplatePath string `mapstructure:"prompt_template_path" validate:"required"`
	MaxRetries         int    `mapstructure:"max_retries" validate:"gte=0"`
	RetryDelaySeconds  int    `mapstructure:"retry_delay_seconds" validate:"gte=0"`
	// MaxDocumentChars caps how much of the uploaded document is sent to the
	// model; longer documents are truncated.
	MaxDocumentChars int `mapstructure:"max_document_chars" validate:"gt=0"`
}
