// Package config loads service configuration from the environment with an
// optional YAML file overlay.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"matchday/internal/pkg/errors"
)

// Render modes.
const (
	ModeLocal  = "local"
	ModeRemote = "remote"
)

// Config holds the runtime configuration of the service.
type Config struct {
	HTTPPort string `yaml:"http_port"`

	// Render pipeline
	RenderMode      string `yaml:"render_mode"`       // local | remote
	EngineBaseURL   string `yaml:"engine_base_url"`   // local render/screenshot engine
	ServeURL        string `yaml:"serve_url"`         // remote render service endpoint
	FunctionName    string `yaml:"function_name"`     // remote render function identity
	Region          string `yaml:"region"`            // storage region for output URLs
	OutputBucket    string `yaml:"output_bucket"`     // fallback bucket for remote outputs
	PublicBaseURL   string `yaml:"public_base_url"`   // overrides the conventional storage URL
	PollIntervalMS  int    `yaml:"poll_interval_ms"`  // poll loop tick
	MaxPollAttempts int    `yaml:"max_poll_attempts"` // poll loop bound

	// Asset resolution
	AssetBaseURL string `yaml:"asset_base_url"` // base for bare storage-key references
	AssetBucket  string `yaml:"asset_bucket"`   // default bucket for signed asset URLs
	DefaultClip  string `yaml:"default_clip"`   // fallback goal clip reference
	DefaultLogo  string `yaml:"default_logo"`   // fallback logo reference

	// Local artifacts
	ArtifactDir  string `yaml:"artifact_dir"`  // where local renders are written
	ArtifactKeep int    `yaml:"artifact_keep"` // newest N artifacts retained, 0 disables the sweep

	// Storage provider
	StorageProvider    string `yaml:"storage_provider"` // localfs | gdrive
	StorageLocalRoot   string `yaml:"storage_local_root"`
	GDriveClientID     string `yaml:"gdrive_client_id"`
	GDriveClientSecret string `yaml:"gdrive_client_secret"`
	GDriveRefreshToken string `yaml:"gdrive_refresh_token"`
	GDriveFolderID     string `yaml:"gdrive_folder_id"`

	// Render job store
	JobStore    string `yaml:"job_store"` // memory | redis | postgres
	RedisAddr   string `yaml:"redis_addr"`
	DatabaseURL string `yaml:"database_url"`

	// CORS
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// Load builds the configuration: defaults, then the optional YAML file named
// by MATCHDAY_CONFIG_FILE, then environment variables.
func Load() (*Config, error) {
	cfg := defaults()

	if path := strings.TrimSpace(os.Getenv("MATCHDAY_CONFIG_FILE")); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.Wrapf(err, "config.load", "cannot read config file %s", path)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, errors.WrapWithCode(err, errors.CodeConfiguration, "config.load", "invalid config file")
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func defaults() *Config {
	return &Config{
		HTTPPort:         "8080",
		RenderMode:       ModeLocal,
		EngineBaseURL:    "http://localhost:3100",
		Region:           "eu-west-1",
		PollIntervalMS:   5000,
		MaxPollAttempts:  36,
		AssetBaseURL:     "http://localhost:8080/assets",
		DefaultClip:      "clips/default.mp4",
		DefaultLogo:      "logo",
		ArtifactDir:      "/data/renders",
		ArtifactKeep:     200,
		StorageProvider:  "localfs",
		StorageLocalRoot: "/data/library",
		JobStore:         "memory",
		AllowedOrigins:   []string{"*"},
	}
}

func (c *Config) applyEnv() {
	setString(&c.HTTPPort, "HTTP_PORT")
	setString(&c.RenderMode, "RENDER_MODE")
	setString(&c.EngineBaseURL, "RENDER_ENGINE_URL")
	setString(&c.ServeURL, "RENDER_SERVE_URL")
	setString(&c.FunctionName, "RENDER_FUNCTION_NAME")
	setString(&c.Region, "RENDER_REGION")
	setString(&c.OutputBucket, "RENDER_OUTPUT_BUCKET")
	setString(&c.PublicBaseURL, "PUBLIC_BASE_URL")
	setInt(&c.PollIntervalMS, "POLL_INTERVAL_MS")
	setInt(&c.MaxPollAttempts, "MAX_POLL_ATTEMPTS")
	setString(&c.AssetBaseURL, "ASSET_BASE_URL")
	setString(&c.AssetBucket, "ASSET_BUCKET")
	setString(&c.DefaultClip, "DEFAULT_CLIP")
	setString(&c.DefaultLogo, "DEFAULT_LOGO")
	setString(&c.ArtifactDir, "ARTIFACT_DIR")
	setInt(&c.ArtifactKeep, "ARTIFACT_KEEP")
	setString(&c.StorageProvider, "STORAGE_PROVIDER")
	setString(&c.StorageLocalRoot, "STORAGE_LOCAL_ROOT")
	setString(&c.GDriveClientID, "GDRIVE_CLIENT_ID")
	setString(&c.GDriveClientSecret, "GDRIVE_CLIENT_SECRET")
	setString(&c.GDriveRefreshToken, "GDRIVE_REFRESH_TOKEN")
	setString(&c.GDriveFolderID, "GDRIVE_FOLDER_ID")
	setString(&c.JobStore, "JOB_STORE")
	setString(&c.RedisAddr, "REDIS_ADDR")
	setString(&c.DatabaseURL, "DATABASE_URL")

	if raw := strings.TrimSpace(os.Getenv("CORS_ALLOWED_ORIGINS")); raw != "" {
		parts := strings.Split(raw, ",")
		origins := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				origins = append(origins, p)
			}
		}
		if len(origins) > 0 {
			c.AllowedOrigins = origins
		}
	}
}

// Validate fails fast on configurations that would only surface as doomed
// network calls later.
func (c *Config) Validate() error {
	switch c.RenderMode {
	case ModeLocal, ModeRemote:
	default:
		return errors.Configurationf("RENDER_MODE must be %q or %q, got %q", ModeLocal, ModeRemote, c.RenderMode)
	}

	if c.RenderMode == ModeRemote {
		var missing []string
		if c.ServeURL == "" {
			missing = append(missing, "RENDER_SERVE_URL")
		}
		if c.FunctionName == "" {
			missing = append(missing, "RENDER_FUNCTION_NAME")
		}
		if c.OutputBucket == "" {
			missing = append(missing, "RENDER_OUTPUT_BUCKET")
		}
		if len(missing) > 0 {
			return errors.Configurationf("remote render mode requires %s", strings.Join(missing, ", "))
		}
	}

	if c.RenderMode == ModeLocal && c.EngineBaseURL == "" {
		return errors.Configuration("local render mode requires RENDER_ENGINE_URL")
	}

	switch c.JobStore {
	case "memory":
	case "redis":
		if c.RedisAddr == "" {
			return errors.Configuration("redis job store requires REDIS_ADDR")
		}
	case "postgres":
		if c.DatabaseURL == "" {
			return errors.Configuration("postgres job store requires DATABASE_URL")
		}
	default:
		return errors.Configurationf("unknown job store: %q", c.JobStore)
	}

	switch c.StorageProvider {
	case "localfs":
		if c.StorageLocalRoot == "" {
			return errors.Configuration("localfs storage requires STORAGE_LOCAL_ROOT")
		}
	case "gdrive":
		var missing []string
		if c.GDriveClientID == "" {
			missing = append(missing, "GDRIVE_CLIENT_ID")
		}
		if c.GDriveClientSecret == "" {
			missing = append(missing, "GDRIVE_CLIENT_SECRET")
		}
		if c.GDriveRefreshToken == "" {
			missing = append(missing, "GDRIVE_REFRESH_TOKEN")
		}
		if len(missing) > 0 {
			return errors.Configurationf("gdrive storage requires %s", strings.Join(missing, ", "))
		}
	default:
		return errors.Configurationf("unknown storage provider: %q", c.StorageProvider)
	}

	if c.PollIntervalMS <= 0 {
		return errors.Configuration("POLL_INTERVAL_MS must be positive")
	}
	if c.MaxPollAttempts <= 0 {
		return errors.Configuration("MAX_POLL_ATTEMPTS must be positive")
	}

	return nil
}

func setString(dst *string, key string) {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return
	}
	if n, err := strconv.Atoi(v); err == nil {
		*dst = n
	}
}

// String renders a redacted summary for startup logs.
func (c *Config) String() string {
	return fmt.Sprintf("mode=%s engine=%s store=%s storage=%s bucket=%s region=%s",
		c.RenderMode, c.EngineBaseURL, c.JobStore, c.StorageProvider, c.OutputBucket, c.Region)
}
