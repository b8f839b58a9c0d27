package config

import (
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const (
	StoreBackendMongo  = "mongo"
	StoreBackendMemory = "memory"
)

type Config struct {
	Port     string `env:"PORT" envDefault:"8080"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	MongoURI                 string `env:"MONGO_URI" envDefault:"mongodb://localhost:27017"`
	DBName                   string `env:"DB_NAME" envDefault:"systemuser_db"`
	RequestsCollection       string `env:"COLLECTION_REQUESTS" envDefault:"system_user_requests"`
	SystemUsersCollection    string `env:"COLLECTION_SYSTEM_USERS" envDefault:"system_users"`
	SystemRegisterCollection string `env:"COLLECTION_SYSTEM_REGISTER" envDefault:"system_register"`
	StoreBackend             string `env:"STORE_BACKEND" envDefault:"mongo"`

	// RegistryFile switches the system register to a YAML seed file.
	RegistryFile string `env:"REGISTRY_FILE"`

	PartiesBaseURL          string        `env:"PARTIES_BASE_URL" envDefault:"http://localhost:5101"`
	AccessManagementBaseURL string        `env:"ACCESS_MANAGEMENT_BASE_URL" envDefault:"http://localhost:5117"`
	ClientTimeout           time.Duration `env:"CLIENT_TIMEOUT" envDefault:"10s"`
	// With PARTIES_BASE_URL=local, e.g. LOCAL_PARTIES=500000:910493353
	LocalParties map[string]string `env:"LOCAL_PARTIES"`

	DelegationCheckConcurrency int  `env:"DELEGATION_CHECK_CONCURRENCY" envDefault:"4"`
	ValidateRedirectURL        bool `env:"VALIDATE_REDIRECT_URL" envDefault:"false"`

	ReadTimeout  time.Duration `env:"SERVER_READ_TIMEOUT" envDefault:"10s"`
	WriteTimeout time.Duration `env:"SERVER_WRITE_TIMEOUT" envDefault:"10s"`
}

var envFiles = []string{".env", ".env.local"}

func LoadConfig() (*Config, error) {
	if err := loadEnvFiles(envFiles); err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.StoreBackend != StoreBackendMongo && c.StoreBackend != StoreBackendMemory {
		return fmt.Errorf("STORE_BACKEND must be %q or %q", StoreBackendMongo, StoreBackendMemory)
	}
	if c.StoreBackend == StoreBackendMongo && c.MongoURI == "" {
		return fmt.Errorf("MONGO_URI is required")
	}
	if c.StoreBackend == StoreBackendMemory && c.RegistryFile == "" {
		return fmt.Errorf("REGISTRY_FILE is required with the memory store")
	}
	if c.PartiesBaseURL == "" {
		return fmt.Errorf("PARTIES_BASE_URL is required")
	}
	if c.AccessManagementBaseURL == "" {
		return fmt.Errorf("ACCESS_MANAGEMENT_BASE_URL is required")
	}
	if c.DelegationCheckConcurrency < 1 {
		return fmt.Errorf("DELEGATION_CHECK_CONCURRENCY must be at least 1")
	}
	return nil
}

// loadEnvFiles loads whichever of files exist; existing env vars win.
func loadEnvFiles(files []string) error {
	existing := make([]string, 0, len(files))
	for _, f := range files {
		if _, err := os.Stat(f); err == nil {
			existing = append(existing, f)
		}
	}
	if len(existing) == 0 {
		return nil
	}
	return godotenv.Load(existing...)
}
