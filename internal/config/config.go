package config

// Config is the root configuration for usergate.
type Config struct {
	Log     LogConfig     `yaml:"log"`
	Webhook WebhookConfig `yaml:"webhook"`
	Storage StorageConfig `yaml:"storage"`
}

// LogConfig controls structured logging.
type LogConfig struct {
	// Level is one of DEBUG, INFO, WARN, ERROR (default INFO).
	Level string `yaml:"level"`
}

// WebhookConfig configures the ingestion endpoint.
type WebhookConfig struct {
	// Listen is the bind address (default "127.0.0.1:8080").
	Listen string `yaml:"listen"`

	// Path is the webhook endpoint path (default "/clerk-users-webhook").
	Path string `yaml:"path"`

	// Secret is the provider's signing secret. Supports ${ENV_VAR}
	// expansion so the secret itself stays out of the config file.
	// Defaults to $CLERK_WEBHOOK_SIGNING_SECRET.
	Secret string `yaml:"secret"`

	// MaxBodySize is the maximum request body size (e.g. "1MB", "65536").
	MaxBodySize string `yaml:"max_body_size"`
}

// StorageConfig configures the SQLite projection store.
type StorageConfig struct {
	// Path is the SQLite database file (default "usergate.db").
	Path string `yaml:"path"`
}

// Default values
const (
	DefaultListen      = "127.0.0.1:8080"
	DefaultPath        = "/clerk-users-webhook"
	DefaultStoragePath = "usergate.db"
	DefaultLogLevel    = "INFO"

	// SecretEnvVar is consulted when no secret is configured.
	SecretEnvVar = "CLERK_WEBHOOK_SIGNING_SECRET"
)
