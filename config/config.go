package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Log       LogConfig       `yaml:"log"`
	Auth      AuthConfig      `yaml:"auth"`
	Store     StoreConfig     `yaml:"store"`
	Archive   ArchiveConfig   `yaml:"archive"`
	Engine    EngineConfig    `yaml:"engine"`
	Inference InferenceConfig `yaml:"inference"`
	Users     []User          `yaml:"users"`
}

type ServerConfig struct {
	Port int `yaml:"port"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type AuthConfig struct {
	JWTSecret        string `yaml:"jwt_secret"`
	TokenExpireHours int    `yaml:"token_expire_hours"`
}

// StoreConfig controls the in-memory analysis result store.
type StoreConfig struct {
	MaxAnalyses int `yaml:"max_analyses"`
}

// ArchiveConfig configures optional archival of analyzed documents and
// results to object storage. Archival is disabled when Endpoint is empty.
type ArchiveConfig struct {
	Endpoint   string `yaml:"endpoint"`
	AccessKey  string `yaml:"access_key"`
	SecretKey  string `yaml:"secret_key"`
	Bucket     string `yaml:"bucket"`
	UseSSL     bool   `yaml:"use_ssl"`
	ExpireDays int    `yaml:"expire_days"`
}

// EngineConfig tunes the analysis pipeline.
type EngineConfig struct {
	Workers             int `yaml:"workers"`
	StageTimeoutSeconds int `yaml:"stage_timeout_seconds"`
	CacheTTLMinutes     int `yaml:"cache_ttl_minutes"`
}

// InferenceConfig configures the optional remote extraction assist.
// The assist is disabled when Provider is empty.
type InferenceConfig struct {
	Provider       string `yaml:"provider"` // "openai" or compatible
	Model          string `yaml:"model"`
	APIKey         string `yaml:"api_key"`
	BaseURL        string `yaml:"base_url"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
	MaxTokens      int    `yaml:"max_tokens"`
}

type User struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	Tenant   string `yaml:"tenant"`
}

var GlobalConfig *Config

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	// Set defaults
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "text"
	}
	if cfg.Auth.TokenExpireHours == 0 {
		cfg.Auth.TokenExpireHours = 24
	}
	if cfg.Store.MaxAnalyses == 0 {
		cfg.Store.MaxAnalyses = 200
	}
	if cfg.Archive.ExpireDays == 0 {
		cfg.Archive.ExpireDays = 7
	}
	if cfg.Engine.Workers == 0 {
		cfg.Engine.Workers = 4
	}
	if cfg.Engine.StageTimeoutSeconds == 0 {
		cfg.Engine.StageTimeoutSeconds = 30
	}
	if cfg.Engine.CacheTTLMinutes == 0 {
		cfg.Engine.CacheTTLMinutes = 15
	}
	if cfg.Inference.TimeoutSeconds == 0 {
		cfg.Inference.TimeoutSeconds = 20
	}
	if cfg.Inference.MaxTokens == 0 {
		cfg.Inference.MaxTokens = 800
	}

	GlobalConfig = &cfg
	return &cfg, nil
}

// FindUser finds a user by username
func (c *Config) FindUser(username string) *User {
	for i := range c.Users {
		if c.Users[i].Username == username {
			return &c.Users[i]
		}
	}
	return nil
}
