package extract

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestApplyConfigDefaults(t *testing.T) {
	var cfg Config
	applyConfigDefaults(&cfg)

	if cfg.AIModel != defaultModel {
		t.Fatalf("AIModel = %q, want %q", cfg.AIModel, defaultModel)
	}
	if cfg.UserAgent == "" {
		t.Fatalf("UserAgent left empty")
	}
	if cfg.RequestTimeout != 15*time.Second {
		t.Fatalf("RequestTimeout = %v, want 15s", cfg.RequestTimeout)
	}
	if cfg.FetchAttempts != 2 {
		t.Fatalf("FetchAttempts = %d, want 2", cfg.FetchAttempts)
	}
	if len(cfg.PreferredLanguages) != 1 || cfg.PreferredLanguages[0] != "en" {
		t.Fatalf("PreferredLanguages = %v, want [en]", cfg.PreferredLanguages)
	}
	if cfg.DefaultLanguage != "en" {
		t.Fatalf("DefaultLanguage = %q, want en", cfg.DefaultLanguage)
	}
	if cfg.AcceptLanguage != "en" {
		t.Fatalf("AcceptLanguage = %q, want en", cfg.AcceptLanguage)
	}
}

func TestAcceptLanguageFor_Weights(t *testing.T) {
	got := acceptLanguageFor([]string{"fi", "en", "sv"})
	want := "fi,en;q=0.9,sv;q=0.8"
	if got != want {
		t.Fatalf("acceptLanguageFor = %q, want %q", got, want)
	}
}

// Explicit Config values always beat the environment.
func TestApplyEnvToConfig_FromEnv(t *testing.T) {
	t.Setenv("LLM_BASE_URL", "http://llm.example/v1")
	t.Setenv("LLM_MODEL", "test-model")
	t.Setenv("LLM_API_KEY", "")
	t.Setenv("OPENAI_API_KEY", "sk-fallback")
	t.Setenv("EXTRACT_TIMEOUT", "42s")
	t.Setenv("EXTRACT_LANGUAGES", "fi, en")
	t.Setenv("LANGUAGE", "fi")

	var cfg Config
	ApplyEnvToConfig(&cfg)

	if cfg.AIBaseURL != "http://llm.example/v1" {
		t.Fatalf("AIBaseURL = %q", cfg.AIBaseURL)
	}
	if cfg.AIModel != "test-model" {
		t.Fatalf("AIModel = %q", cfg.AIModel)
	}
	if cfg.AIAPIKey != "sk-fallback" {
		t.Fatalf("AIAPIKey = %q, want fallback from OPENAI_API_KEY", cfg.AIAPIKey)
	}
	if cfg.RequestTimeout != 42*time.Second {
		t.Fatalf("RequestTimeout = %v, want 42s", cfg.RequestTimeout)
	}
	if len(cfg.PreferredLanguages) != 2 || cfg.PreferredLanguages[0] != "fi" || cfg.PreferredLanguages[1] != "en" {
		t.Fatalf("PreferredLanguages = %v, want [fi en]", cfg.PreferredLanguages)
	}
	if cfg.DefaultLanguage != "fi" {
		t.Fatalf("DefaultLanguage = %q, want fi", cfg.DefaultLanguage)
	}
}

func TestApplyEnvToConfig_ExplicitValuesWin(t *testing.T) {
	t.Setenv("LLM_MODEL", "from-env")
	t.Setenv("LLM_API_KEY", "from-env")

	cfg := Config{AIModel: "explicit", AIAPIKey: "sk-explicit"}
	ApplyEnvToConfig(&cfg)

	if cfg.AIModel != "explicit" {
		t.Fatalf("AIModel = %q, env must not override explicit value", cfg.AIModel)
	}
	if cfg.AIAPIKey != "sk-explicit" {
		t.Fatalf("AIAPIKey = %q, env must not override explicit value", cfg.AIAPIKey)
	}
}

func TestLoadConfigFile_YAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "extract.yaml")
	content := "llm:\n  base: http://llm.example/v1\n  model: test-model\n  key: sk-file\nfetch:\n  ua: TestAgent/1.0\n  timeout: 30s\n  attempts: 3\nlanguages: [fi, en]\nlanguage: fi\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	fc, err := LoadConfigFile(path)
	if err != nil {
		t.Fatalf("LoadConfigFile: %v", err)
	}
	if fc.LLM.Model != "test-model" || fc.LLM.APIKey != "sk-file" {
		t.Fatalf("llm section = %+v", fc.LLM)
	}
	if fc.Fetch.Timeout != 30*time.Second || fc.Fetch.Attempts != 3 {
		t.Fatalf("fetch section = %+v", fc.Fetch)
	}

	var cfg Config
	ApplyFileConfig(&cfg, fc)
	if cfg.AIBaseURL != "http://llm.example/v1" || cfg.UserAgent != "TestAgent/1.0" {
		t.Fatalf("overlay missed fields: %+v", cfg)
	}
	if cfg.DefaultLanguage != "fi" {
		t.Fatalf("DefaultLanguage = %q, want fi", cfg.DefaultLanguage)
	}
}

func TestLoadConfigFile_JSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "extract.json")
	content := `{"llm":{"model":"json-model"},"fetch":{"maxConcurrent":4}}`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	fc, err := LoadConfigFile(path)
	if err != nil {
		t.Fatalf("LoadConfigFile: %v", err)
	}
	if fc.LLM.Model != "json-model" {
		t.Fatalf("Model = %q", fc.LLM.Model)
	}
	if fc.Fetch.MaxConcurrent != 4 {
		t.Fatalf("MaxConcurrent = %d", fc.Fetch.MaxConcurrent)
	}
}

func TestApplyFileConfig_ExplicitValuesWin(t *testing.T) {
	var fc FileConfig
	fc.LLM.Model = "from-file"
	fc.Language = "sv"

	cfg := Config{AIModel: "explicit", DefaultLanguage: "en"}
	ApplyFileConfig(&cfg, fc)

	if cfg.AIModel != "explicit" {
		t.Fatalf("AIModel = %q, file must not override explicit value", cfg.AIModel)
	}
	if cfg.DefaultLanguage != "en" {
		t.Fatalf("DefaultLanguage = %q, file must not override explicit value", cfg.DefaultLanguage)
	}
}
