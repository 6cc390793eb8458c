package extract

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	yaml "gopkg.in/yaml.v3"

	"github.com/mintnote/extract/internal/fetch"
)

// Config holds runtime configuration for the pipeline.
type Config struct {
	// AI provider (any OpenAI-compatible endpoint)
	AIBaseURL string
	AIModel   string
	AIAPIKey  string

	// Outbound fetch behavior
	UserAgent       string
	AcceptLanguage  string
	RequestTimeout  time.Duration
	FetchAttempts   int
	RedirectMaxHops int
	MaxConcurrent   int

	// PreferredLanguages orders caption track selection, typically the
	// interface language first. DefaultLanguage is reported when script
	// detection finds nothing.
	PreferredLanguages []string
	DefaultLanguage    string
}

const defaultModel = "gpt-4o-mini"

func applyConfigDefaults(cfg *Config) {
	if cfg.AIModel == "" {
		cfg.AIModel = defaultModel
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = fetch.DefaultUserAgent
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 15 * time.Second
	}
	if cfg.FetchAttempts <= 0 {
		cfg.FetchAttempts = 2
	}
	if len(cfg.PreferredLanguages) == 0 {
		cfg.PreferredLanguages = []string{"en"}
	}
	if cfg.DefaultLanguage == "" {
		cfg.DefaultLanguage = "en"
	}
	if cfg.AcceptLanguage == "" {
		cfg.AcceptLanguage = acceptLanguageFor(cfg.PreferredLanguages)
	}
}

// acceptLanguageFor renders a preference list as an Accept-Language value
// with descending quality weights.
func acceptLanguageFor(langs []string) string {
	var sb strings.Builder
	q := 10
	for _, l := range langs {
		l = strings.TrimSpace(l)
		if l == "" {
			continue
		}
		if sb.Len() > 0 {
			sb.WriteString(",")
		}
		sb.WriteString(l)
		if q < 10 {
			fmt.Fprintf(&sb, ";q=0.%d", q)
		}
		if q > 1 {
			q--
		}
	}
	return sb.String()
}

// ApplyEnvToConfig populates unset fields of cfg from environment
// variables. Explicit cfg values take precedence over env.
func ApplyEnvToConfig(cfg *Config) {
	if cfg == nil {
		return
	}

	if cfg.AIBaseURL == "" {
		cfg.AIBaseURL = os.Getenv("LLM_BASE_URL")
	}
	if cfg.AIModel == "" {
		cfg.AIModel = os.Getenv("LLM_MODEL")
	}
	if cfg.AIAPIKey == "" {
		// Support both LLM_API_KEY and OPENAI_API_KEY; prefer LLM_API_KEY.
		v := os.Getenv("LLM_API_KEY")
		if v == "" {
			v = os.Getenv("OPENAI_API_KEY")
		}
		cfg.AIAPIKey = v
	}

	if cfg.UserAgent == "" {
		cfg.UserAgent = os.Getenv("EXTRACT_USER_AGENT")
	}
	if cfg.AcceptLanguage == "" {
		cfg.AcceptLanguage = os.Getenv("EXTRACT_ACCEPT_LANGUAGE")
	}
	if cfg.RequestTimeout == 0 {
		if s := os.Getenv("EXTRACT_TIMEOUT"); s != "" {
			if d, err := time.ParseDuration(s); err == nil {
				cfg.RequestTimeout = d
			}
		}
	}

	// EXTRACT_LANGUAGES is a comma-separated preference list.
	if len(cfg.PreferredLanguages) == 0 {
		if v := strings.TrimSpace(os.Getenv("EXTRACT_LANGUAGES")); v != "" {
			for _, p := range strings.Split(v, ",") {
				if p = strings.TrimSpace(p); p != "" {
					cfg.PreferredLanguages = append(cfg.PreferredLanguages, p)
				}
			}
		}
	}
	if cfg.DefaultLanguage == "" {
		cfg.DefaultLanguage = os.Getenv("LANGUAGE")
	}
}

// FileConfig represents the single-file configuration schema. Nested
// sections map naturally to env variables and flags.
type FileConfig struct {
	LLM struct {
		BaseURL string `yaml:"base" json:"base"`
		Model   string `yaml:"model" json:"model"`
		APIKey  string `yaml:"key" json:"key"`
	} `yaml:"llm" json:"llm"`

	Fetch struct {
		UserAgent      string        `yaml:"ua" json:"ua"`
		AcceptLanguage string        `yaml:"acceptLanguage" json:"acceptLanguage"`
		Timeout        time.Duration `yaml:"timeout" json:"timeout"`
		Attempts       int           `yaml:"attempts" json:"attempts"`
		MaxConcurrent  int           `yaml:"maxConcurrent" json:"maxConcurrent"`
	} `yaml:"fetch" json:"fetch"`

	Languages []string `yaml:"languages" json:"languages"`
	Language  string   `yaml:"language" json:"language"`
}

// LoadConfigFile reads YAML or JSON into FileConfig.
func LoadConfigFile(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &fc); err != nil {
			return fc, fmt.Errorf("parse yaml: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(b, &fc); err != nil {
			return fc, fmt.Errorf("parse json: %w", err)
		}
	default:
		// Try YAML then JSON
		if err := yaml.Unmarshal(b, &fc); err != nil {
			if jerr := json.Unmarshal(b, &fc); jerr != nil {
				return fc, fmt.Errorf("parse config: %v (yaml) / %v (json)", err, jerr)
			}
		}
	}
	return fc, nil
}

// ApplyFileConfig overlays values from FileConfig into cfg for fields that
// are currently unset. Explicit cfg values win, matching the env overlay.
func ApplyFileConfig(cfg *Config, fc FileConfig) {
	if cfg == nil {
		return
	}

	if cfg.AIBaseURL == "" && fc.LLM.BaseURL != "" {
		cfg.AIBaseURL = fc.LLM.BaseURL
	}
	if cfg.AIModel == "" && fc.LLM.Model != "" {
		cfg.AIModel = fc.LLM.Model
	}
	if cfg.AIAPIKey == "" && fc.LLM.APIKey != "" {
		cfg.AIAPIKey = fc.LLM.APIKey
	}

	if cfg.UserAgent == "" && fc.Fetch.UserAgent != "" {
		cfg.UserAgent = fc.Fetch.UserAgent
	}
	if cfg.AcceptLanguage == "" && fc.Fetch.AcceptLanguage != "" {
		cfg.AcceptLanguage = fc.Fetch.AcceptLanguage
	}
	if cfg.RequestTimeout == 0 && fc.Fetch.Timeout > 0 {
		cfg.RequestTimeout = fc.Fetch.Timeout
	}
	if cfg.FetchAttempts == 0 && fc.Fetch.Attempts > 0 {
		cfg.FetchAttempts = fc.Fetch.Attempts
	}
	if cfg.MaxConcurrent == 0 && fc.Fetch.MaxConcurrent > 0 {
		cfg.MaxConcurrent = fc.Fetch.MaxConcurrent
	}

	if len(cfg.PreferredLanguages) == 0 && len(fc.Languages) > 0 {
		cfg.PreferredLanguages = fc.Languages
	}
	if cfg.DefaultLanguage == "" && fc.Language != "" {
		cfg.DefaultLanguage = fc.Language
	}
}
