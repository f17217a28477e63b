// Package config loads pipeline configuration from the environment (with
// optional .env file support) and validates it before any network call is
// made. Missing credentials abort startup with a diagnostic naming every
// absent variable.
package config

import (
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/skillsenselab/meetscribe/internal/apperr"
	"github.com/skillsenselab/meetscribe/internal/assemblyai"
	"github.com/skillsenselab/meetscribe/internal/logging"
	"github.com/skillsenselab/meetscribe/internal/zoom"
)

// Run holds per-run pipeline options.
type Run struct {
	// Date selects recordings by day (YYYY-MM-DD). Empty means today (UTC).
	Date string `mapstructure:"date"`
	// WorkDir receives the downloaded participant tracks.
	WorkDir string `mapstructure:"work_dir"`
	// CombinedPath is the merged multichannel output file.
	CombinedPath string `mapstructure:"combined_path"`
	// OutputPath is the persisted labeled transcript.
	OutputPath string `mapstructure:"output_path"`
	// Overwrite replaces an existing combined file instead of failing.
	Overwrite bool `mapstructure:"overwrite"`
}

// ApplyDefaults applies default values.
func (r *Run) ApplyDefaults() {
	if r.WorkDir == "" {
		r.WorkDir = "tmp"
	}
	if r.CombinedPath == "" {
		r.CombinedPath = "combined_audio.m4a"
	}
	if r.OutputPath == "" {
		r.OutputPath = "transcript.json"
	}
}

// Config is the full application configuration.
type Config struct {
	Zoom       zoom.Config       `mapstructure:"zoom"`
	AssemblyAI assemblyai.Config `mapstructure:"assemblyai"`
	Run        Run               `mapstructure:"run"`
	Logging    logging.Config    `mapstructure:"logging"`
}

// envBindings maps config keys to the environment variables that set them.
// The credential names match what the recording and transcription providers
// document.
var envBindings = map[string]string{
	"zoom.account_id":          "ZOOM_ACCOUNT_ID",
	"zoom.client_id":           "ZOOM_CLIENT_ID",
	"zoom.client_secret":       "ZOOM_CLIENT_SECRET",
	"zoom.timeout":             "ZOOM_TIMEOUT",
	"assemblyai.api_key":       "ASSEMBLYAI_API_KEY",
	"assemblyai.timeout":       "ASSEMBLYAI_TIMEOUT",
	"assemblyai.poll_interval": "ASSEMBLYAI_POLL_INTERVAL",
	"run.date":                 "MEETSCRIBE_DATE",
	"run.work_dir":             "MEETSCRIBE_WORK_DIR",
	"run.combined_path":        "MEETSCRIBE_COMBINED_PATH",
	"run.output_path":          "MEETSCRIBE_OUTPUT_PATH",
	"run.overwrite":            "MEETSCRIBE_OVERWRITE",
	"logging.level":            "LOG_LEVEL",
	"logging.format":           "LOG_FORMAT",
	"logging.no_color":         "LOG_NO_COLOR",
}

// requiredEnv maps validator struct namespaces to the environment variable
// a missing field is set by, for the fail-fast diagnostic.
var requiredEnv = map[string]string{
	"Config.Zoom.AccountID":    "ZOOM_ACCOUNT_ID",
	"Config.Zoom.ClientID":     "ZOOM_CLIENT_ID",
	"Config.Zoom.ClientSecret": "ZOOM_CLIENT_SECRET",
	"Config.AssemblyAI.APIKey": "ASSEMBLYAI_API_KEY",
}

// LoadOption configures Load.
type LoadOption func(*loadOptions)

type loadOptions struct {
	envFile        string
	skipValidation bool
}

// WithEnvFile sets an explicit .env file path.
func WithEnvFile(path string) LoadOption {
	return func(o *loadOptions) { o.envFile = path }
}

// WithoutValidation defers validation to the caller. The doctor command uses
// this so it can report on a half-configured environment instead of refusing
// to start.
func WithoutValidation() LoadOption {
	return func(o *loadOptions) { o.skipValidation = true }
}

// Load reads configuration from the environment. A .env file in the working
// directory (or the one given via WithEnvFile) is loaded first; real
// environment variables win over it.
func Load(opts ...LoadOption) (*Config, error) {
	var lo loadOptions
	for _, opt := range opts {
		opt(&lo)
	}

	// godotenv never overrides variables already present in the process
	// environment.
	if lo.envFile != "" {
		_ = godotenv.Load(lo.envFile)
	} else {
		_ = godotenv.Load()
	}

	v := viper.New()
	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, apperr.Wrap(apperr.CodeConfigMissing, "unmarshal configuration", err)
	}

	cfg.Run.ApplyDefaults()
	cfg.Logging.ApplyDefaults()

	if !lo.skipValidation {
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}
	return &cfg, nil
}

// Validate checks the configuration, reporting every missing required
// variable at once.
func (c *Config) Validate() error {
	if err := c.Logging.Validate(); err != nil {
		return apperr.Wrap(apperr.CodeConfigMissing, "invalid logging configuration", err)
	}

	validate := validator.New(validator.WithRequiredStructEnabled())
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return apperr.Wrap(apperr.CodeConfigMissing, "configuration validation failed", err)
	}

	var missing []string
	for _, fe := range verrs {
		if env, ok := requiredEnv[fe.StructNamespace()]; ok {
			missing = append(missing, env)
		} else {
			missing = append(missing, strings.ToLower(fe.StructNamespace()))
		}
	}
	return apperr.ConfigMissing(missing)
}
