package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	envPrefix              = "RESUME"
	defaultHTTPAddress     = "0.0.0.0:8080"
	defaultDatabaseDriver  = DatabaseSQLite
	defaultDatabasePath    = "resume.db"
	defaultLogLevel        = "info"
	defaultCookieName      = "resume_session"
	defaultIssuer          = "resume-api"
	defaultTokenTTL        = 24 * time.Hour
	defaultAutosaveDelay   = 2 * time.Second
	defaultSaveTimeout     = 10 * time.Second
	defaultAIProvider      = AIProviderNone
	defaultAIAttempts      = 2
	defaultStorageDriver   = StorageLocal
	defaultStorageDir      = "exports"
	defaultPDFPrintTimeout = 30 * time.Second
)

const (
	DatabaseSQLite   = "sqlite"
	DatabasePostgres = "postgres"

	AIProviderNone   = "none"
	AIProviderGemini = "gemini"
	AIProviderOpenAI = "openai"

	StorageNone  = "none"
	StorageLocal = "local"
	StorageS3    = "s3"
)

// AppConfig captures runtime configuration for the API server.
type AppConfig struct {
	HTTPAddress    string
	AllowedOrigins []string

	DatabaseDriver string
	DatabasePath   string
	DatabaseURL    string

	SigningSecret string
	CookieName    string
	Issuer        string
	TokenTTL      time.Duration

	AutosaveDebounce time.Duration
	SaveTimeout      time.Duration

	AIProvider     string
	AIModel        string
	AIAttempts     int
	GeminiAPIKey   string
	OpenAIAPIKey   string
	// OpenAIEndpoint overrides the API base URL, e.g. https://host/v1.
	OpenAIEndpoint string

	StorageDriver string
	StorageDir    string
	S3Bucket      string
	S3Region      string
	S3Prefix      string
	S3KMSKeyID    string

	PDFEnabled bool
	PDFTimeout time.Duration

	LogLevel string
}

// NewViper returns a viper instance with defaults and env bindings configured.
func NewViper() *viper.Viper {
	configViper := viper.New()
	ApplyDefaults(configViper)
	return configViper
}

// ApplyDefaults configures defaults and env bindings on the provided viper instance.
func ApplyDefaults(configViper *viper.Viper) {
	configViper.SetEnvPrefix(envPrefix)
	configViper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	configViper.AutomaticEnv()

	configViper.SetDefault("http.address", defaultHTTPAddress)
	configViper.SetDefault("http.allowed_origins", "")
	configViper.SetDefault("database.driver", defaultDatabaseDriver)
	configViper.SetDefault("database.path", defaultDatabasePath)
	configViper.SetDefault("database.url", "")
	configViper.SetDefault("auth.signing_secret", "")
	configViper.SetDefault("auth.cookie_name", defaultCookieName)
	configViper.SetDefault("auth.issuer", defaultIssuer)
	configViper.SetDefault("auth.token_ttl", defaultTokenTTL)
	configViper.SetDefault("autosave.debounce", defaultAutosaveDelay)
	configViper.SetDefault("autosave.save_timeout", defaultSaveTimeout)
	configViper.SetDefault("ai.provider", defaultAIProvider)
	configViper.SetDefault("ai.model", "")
	configViper.SetDefault("ai.attempts", defaultAIAttempts)
	configViper.SetDefault("ai.gemini_api_key", "")
	configViper.SetDefault("ai.openai_api_key", "")
	configViper.SetDefault("ai.openai_endpoint", "")
	configViper.SetDefault("storage.driver", defaultStorageDriver)
	configViper.SetDefault("storage.dir", defaultStorageDir)
	configViper.SetDefault("storage.s3_bucket", "")
	configViper.SetDefault("storage.s3_region", "")
	configViper.SetDefault("storage.s3_prefix", "")
	configViper.SetDefault("storage.s3_kms_key_id", "")
	configViper.SetDefault("pdf.enabled", false)
	configViper.SetDefault("pdf.timeout", defaultPDFPrintTimeout)
	configViper.SetDefault("log.level", defaultLogLevel)
}

// LoadDotEnv copies variables from a .env file into the process environment
// without overriding ones already set. A missing default file is ignored.
func LoadDotEnv(path string) error {
	if path != "" {
		return godotenv.Load(path)
	}
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// Load parses runtime configuration from viper.
func Load(configViper *viper.Viper) (AppConfig, error) {
	cfg := AppConfig{
		HTTPAddress:      configViper.GetString("http.address"),
		AllowedOrigins:   splitList(configViper.GetString("http.allowed_origins")),
		DatabaseDriver:   strings.ToLower(strings.TrimSpace(configViper.GetString("database.driver"))),
		DatabasePath:     configViper.GetString("database.path"),
		DatabaseURL:      configViper.GetString("database.url"),
		SigningSecret:    configViper.GetString("auth.signing_secret"),
		CookieName:       configViper.GetString("auth.cookie_name"),
		Issuer:           configViper.GetString("auth.issuer"),
		TokenTTL:         configViper.GetDuration("auth.token_ttl"),
		AutosaveDebounce: configViper.GetDuration("autosave.debounce"),
		SaveTimeout:      configViper.GetDuration("autosave.save_timeout"),
		AIProvider:       strings.ToLower(strings.TrimSpace(configViper.GetString("ai.provider"))),
		AIModel:          configViper.GetString("ai.model"),
		AIAttempts:       configViper.GetInt("ai.attempts"),
		GeminiAPIKey:     configViper.GetString("ai.gemini_api_key"),
		OpenAIAPIKey:     configViper.GetString("ai.openai_api_key"),
		OpenAIEndpoint:   configViper.GetString("ai.openai_endpoint"),
		StorageDriver:    strings.ToLower(strings.TrimSpace(configViper.GetString("storage.driver"))),
		StorageDir:       configViper.GetString("storage.dir"),
		S3Bucket:         configViper.GetString("storage.s3_bucket"),
		S3Region:         configViper.GetString("storage.s3_region"),
		S3Prefix:         configViper.GetString("storage.s3_prefix"),
		S3KMSKeyID:       configViper.GetString("storage.s3_kms_key_id"),
		PDFEnabled:       configViper.GetBool("pdf.enabled"),
		PDFTimeout:       configViper.GetDuration("pdf.timeout"),
		LogLevel:         configViper.GetString("log.level"),
	}

	if err := cfg.validate(); err != nil {
		return AppConfig{}, err
	}

	return cfg, nil
}

func (c AppConfig) validate() error {
	if strings.TrimSpace(c.HTTPAddress) == "" {
		return fmt.Errorf("http.address is required")
	}
	if strings.TrimSpace(c.SigningSecret) == "" {
		return fmt.Errorf("auth.signing_secret is required")
	}
	if strings.TrimSpace(c.CookieName) == "" {
		return fmt.Errorf("auth.cookie_name is required")
	}
	if c.TokenTTL <= 0 {
		return fmt.Errorf("auth.token_ttl must be positive")
	}
	if err := c.validateDatabase(); err != nil {
		return err
	}
	if c.AutosaveDebounce <= 0 {
		return fmt.Errorf("autosave.debounce must be positive")
	}
	if c.SaveTimeout <= 0 {
		return fmt.Errorf("autosave.save_timeout must be positive")
	}
	if err := c.validateAI(); err != nil {
		return err
	}
	return c.validateStorage()
}

func (c AppConfig) validateDatabase() error {
	switch c.DatabaseDriver {
	case DatabaseSQLite:
		if strings.TrimSpace(c.DatabasePath) == "" {
			return fmt.Errorf("database.path is required")
		}
	case DatabasePostgres:
		if strings.TrimSpace(c.DatabaseURL) == "" {
			return fmt.Errorf("database.url is required for postgres")
		}
	default:
		return fmt.Errorf("database.driver %q is not supported", c.DatabaseDriver)
	}
	return nil
}

func (c AppConfig) validateAI() error {
	switch c.AIProvider {
	case AIProviderNone:
	case AIProviderGemini:
		if strings.TrimSpace(c.GeminiAPIKey) == "" {
			return fmt.Errorf("ai.gemini_api_key is required for gemini")
		}
	case AIProviderOpenAI:
		if strings.TrimSpace(c.OpenAIAPIKey) == "" {
			return fmt.Errorf("ai.openai_api_key is required for openai")
		}
	default:
		return fmt.Errorf("ai.provider %q is not supported", c.AIProvider)
	}
	if c.AIAttempts < 1 {
		return fmt.Errorf("ai.attempts must be at least 1")
	}
	return nil
}

func (c AppConfig) validateStorage() error {
	switch c.StorageDriver {
	case StorageNone:
	case StorageLocal:
		if strings.TrimSpace(c.StorageDir) == "" {
			return fmt.Errorf("storage.dir is required for local storage")
		}
	case StorageS3:
		if strings.TrimSpace(c.S3Bucket) == "" {
			return fmt.Errorf("storage.s3_bucket is required for s3")
		}
	default:
		return fmt.Errorf("storage.driver %q is not supported", c.StorageDriver)
	}
	return nil
}

func splitList(raw string) []string {
	var values []string
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			values = append(values, trimmed)
		}
	}
	return values
}
