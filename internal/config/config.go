package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"payslip/internal/errors"

	toml "github.com/pelletier/go-toml/v2"
)

// FallbackAdminPassword is used when no secret is configured. Running with it
// is reported as a warning state, never as a secure setup.
const FallbackAdminPassword = "admin123"

// Remote store kinds
const (
	RemoteNone     = "none"
	RemoteGitHub   = "github"
	RemotePostgres = "postgres"
	RemoteSQLite   = "sqlite"
)

// Config represents the complete application configuration
type Config struct {
	Server ServerConfig
	Data   DataConfig
	Slip   SlipConfig
	Admin  AdminConfig
	Remote RemoteConfig
	Log    LogConfig
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port    string
	APIPort string
	GinMode string
}

// DataConfig holds the local serving dataset settings
type DataConfig struct {
	File        string
	MaxUploadMB int
	NoticeFile  string
}

// SlipConfig holds document rendering settings
type SlipConfig struct {
	FontPath string
	Title    string
}

// AdminConfig holds the shared secret gating dataset replacement
type AdminConfig struct {
	Password      string
	UsingFallback bool
}

// RemoteConfig holds the durable mirror coordinates
type RemoteConfig struct {
	Kind        string
	GitHubToken string
	GitHubRepo  string
	Branch      string
	Path        string
	DatabaseURL string
	SQLitePath  string
	Timeout     time.Duration
}

// LogConfig holds logger settings
type LogConfig struct {
	Level  string
	Format string
}

// Load reads configuration from environment variables, applies the optional
// TOML file named by PAYSLIP_CONFIG, and validates the result
func Load() (*Config, error) {
	cfg := fromEnv()

	if path := os.Getenv("PAYSLIP_CONFIG"); path != "" {
		fc, err := LoadFileConfig(path)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to read config file %s", path)
		}
		ApplyFileConfig(cfg, fc)
	}

	finalize(cfg)

	if err := validateConfig(cfg); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}
	return cfg, nil
}

func fromEnv() *Config {
	return &Config{
		Server: ServerConfig{
			Port:    getEnvOrDefault("PORT", "8080"),
			APIPort: getEnvOrDefault("API_PORT", "8081"),
			GinMode: getEnvOrDefault("GIN_MODE", "release"),
		},
		Data: DataConfig{
			File:        getEnvOrDefault("DATA_FILE", "salary_data.xlsx"),
			MaxUploadMB: getEnvIntOrDefault("MAX_UPLOAD_MB", 20),
			NoticeFile:  getEnvOrDefault("NOTICE_FILE", ""),
		},
		Slip: SlipConfig{
			FontPath: getEnvOrDefault("FONT_PATH", "assets/fonts/DejaVuSansCondensed.ttf"),
			Title:    getEnvOrDefault("SLIP_TITLE", ""),
		},
		Admin: AdminConfig{
			Password: os.Getenv("ADMIN_PASSWORD"),
		},
		Remote: RemoteConfig{
			Kind:        strings.ToLower(getEnvOrDefault("REMOTE_STORE", RemoteNone)),
			GitHubToken: os.Getenv("GITHUB_TOKEN"),
			GitHubRepo:  os.Getenv("GITHUB_REPO"),
			Branch:      os.Getenv("GITHUB_BRANCH"),
			Path:        getEnvOrDefault("REMOTE_PATH", "salary_data.xlsx"),
			DatabaseURL: os.Getenv("DATABASE_URL"),
			SQLitePath:  getEnvOrDefault("SQLITE_PATH", "payslip_mirror.db"),
			Timeout:     getEnvDurationOrDefault("REMOTE_TIMEOUT", 30*time.Second),
		},
		Log: LogConfig{
			Level:  getEnvOrDefault("LOG_LEVEL", "INFO"),
			Format: getEnvOrDefault("LOG_FORMAT", "console"),
		},
	}
}

func finalize(cfg *Config) {
	if cfg.Admin.Password == "" {
		cfg.Admin.Password = FallbackAdminPassword
		cfg.Admin.UsingFallback = true
	}
	if cfg.Remote.Kind == "" {
		cfg.Remote.Kind = RemoteNone
	}
}

func validateConfig(cfg *Config) error {
	if cfg.Data.File == "" {
		return errors.ConfigInvalid("DATA_FILE is required")
	}
	if !strings.EqualFold(filepath.Ext(cfg.Data.File), ".xlsx") {
		return errors.ConfigInvalid("DATA_FILE must be an .xlsx workbook")
	}
	if cfg.Data.MaxUploadMB <= 0 {
		return errors.ConfigInvalid("MAX_UPLOAD_MB must be positive")
	}
	switch cfg.Remote.Kind {
	case RemoteNone:
	case RemoteGitHub:
		if cfg.Remote.GitHubToken == "" {
			return errors.ConfigInvalid("GITHUB_TOKEN is required when REMOTE_STORE=github")
		}
		if _, _, ok := cfg.Remote.OwnerRepo(); !ok {
			return errors.ConfigInvalid("GITHUB_REPO must look like owner/name")
		}
	case RemotePostgres:
		if cfg.Remote.DatabaseURL == "" {
			return errors.ConfigInvalid("DATABASE_URL is required when REMOTE_STORE=postgres")
		}
	case RemoteSQLite:
		if cfg.Remote.SQLitePath == "" {
			return errors.ConfigInvalid("SQLITE_PATH is required when REMOTE_STORE=sqlite")
		}
	default:
		return errors.ConfigInvalid("unknown REMOTE_STORE: " + cfg.Remote.Kind)
	}
	return nil
}

// OwnerRepo splits GitHubRepo into its owner and name.
func (r RemoteConfig) OwnerRepo() (owner, repo string, ok bool) {
	parts := strings.Split(r.GitHubRepo, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", false
	}
	return parts[0], parts[1], true
}

// MaxUploadBytes returns the upload size limit in bytes.
func (d DataConfig) MaxUploadBytes() int64 {
	return int64(d.MaxUploadMB) * 1024 * 1024
}

// FileConfig mirrors Config with TOML-friendly fields. Empty values leave the
// environment-derived setting alone.
type FileConfig struct {
	Port          string `toml:"port"`
	APIPort       string `toml:"api_port"`
	DataFile      string `toml:"data_file"`
	MaxUploadMB   int    `toml:"max_upload_mb"`
	NoticeFile    string `toml:"notice_file"`
	FontPath      string `toml:"font_path"`
	SlipTitle     string `toml:"slip_title"`
	AdminPassword string `toml:"admin_password"`
	RemoteStore   string `toml:"remote_store"`
	GitHubRepo    string `toml:"github_repo"`
	GitHubBranch  string `toml:"github_branch"`
	RemotePath    string `toml:"remote_path"`
	SQLitePath    string `toml:"sqlite_path"`
	RemoteTimeout string `toml:"remote_timeout"`
	LogLevel      string `toml:"log_level"`
}

// LoadFileConfig reads and parses a TOML config file from the given path.
func LoadFileConfig(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	if err := toml.Unmarshal(b, &fc); err != nil {
		return fc, err
	}
	return fc, nil
}

// ApplyFileConfig overlays non-empty file settings onto cfg. Secrets other
// than the admin password (tokens, database URLs) stay environment-only.
func ApplyFileConfig(cfg *Config, fc FileConfig) {
	setString(&cfg.Server.Port, fc.Port)
	setString(&cfg.Server.APIPort, fc.APIPort)
	setString(&cfg.Data.File, fc.DataFile)
	setString(&cfg.Data.NoticeFile, fc.NoticeFile)
	setString(&cfg.Slip.FontPath, fc.FontPath)
	setString(&cfg.Slip.Title, fc.SlipTitle)
	setString(&cfg.Admin.Password, fc.AdminPassword)
	setString(&cfg.Remote.GitHubRepo, fc.GitHubRepo)
	setString(&cfg.Remote.Branch, fc.GitHubBranch)
	setString(&cfg.Remote.Path, fc.RemotePath)
	setString(&cfg.Remote.SQLitePath, fc.SQLitePath)
	setString(&cfg.Log.Level, fc.LogLevel)
	if fc.RemoteStore != "" {
		cfg.Remote.Kind = strings.ToLower(fc.RemoteStore)
	}
	if fc.MaxUploadMB > 0 {
		cfg.Data.MaxUploadMB = fc.MaxUploadMB
	}
	if d, err := time.ParseDuration(fc.RemoteTimeout); err == nil && d > 0 {
		cfg.Remote.Timeout = d
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
