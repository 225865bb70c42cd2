package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	appconfig "github.com/riskgate/riskgate/internal/adapters/outbound/config"
	"github.com/riskgate/riskgate/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, dir, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".riskgate.yaml"), []byte(content), 0644))
}

// clearEnv blanks every variable the loader reads so the host environment
// cannot leak into a test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"ENABLE_LLM", "LLM_PROVIDER", "OPENAI_MODEL", "OPENAI_API_KEY", "ANTHROPIC_API_KEY",
		"OLLAMA_HOST", "RISKGATE_THRESHOLD", "RISKGATE_SUMMARY_MODEL", "RISKGATE_SUMMARY_TIMEOUT",
	} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
}

func TestYAMLLoader_MissingFileReturnsDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := appconfig.New().Load(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultConfig(), cfg)
}

func TestYAMLLoader_EmptyFileReturnsDefaults(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	writeConfig(t, dir, "")

	cfg, err := appconfig.New().Load(dir)
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultConfig(), cfg)
}

func TestYAMLLoader_ValidYAML(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	writeConfig(t, dir, `
threshold: 8
inputs:
  trivy: scans/trivy.json
output: out/report.md
summary:
  enabled: true
  provider: ollama
  timeout: 10s
`)

	cfg, err := appconfig.New().Load(dir)
	require.NoError(t, err)
	assert.Equal(t, 8, cfg.Threshold)
	assert.Equal(t, "scans/trivy.json", cfg.Inputs.Trivy)
	assert.Equal(t, domain.DefaultCheckovPath, cfg.Inputs.Checkov, "unset fields get defaults")
	assert.Equal(t, "out/report.md", cfg.Output)
	assert.True(t, cfg.Summary.Enabled)
	assert.Equal(t, domain.ProviderOllama, cfg.Summary.Provider)
	assert.Equal(t, domain.DefaultOllamaModel, cfg.Summary.Model)
	assert.Equal(t, 10*time.Second, cfg.Summary.Timeout)
	assert.True(t, cfg.SummaryReady())
}

func TestYAMLLoader_InvalidYAML(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	writeConfig(t, dir, `{{{invalid yaml`)

	_, err := appconfig.New().Load(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing .riskgate.yaml")
}

func TestYAMLLoader_InvalidValues(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	writeConfig(t, dir, "threshold: 11\n")

	_, err := appconfig.New().Load(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid .riskgate.yaml")
}

func TestYAMLLoader_APIKeyNotReadFromFile(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	writeConfig(t, dir, "summary:\n  enabled: true\n  apikey: leaked\n")

	cfg, err := appconfig.New().Load(dir)
	require.NoError(t, err)
	assert.Empty(t, cfg.Summary.APIKey)
	assert.False(t, cfg.SummaryReady())
}

func TestYAMLLoader_EnvOverlay(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	writeConfig(t, dir, "threshold: 8\n")

	t.Setenv("ENABLE_LLM", "true")
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("OPENAI_MODEL", "gpt-4.1-mini")
	t.Setenv("RISKGATE_THRESHOLD", "7")
	t.Setenv("RISKGATE_SUMMARY_TIMEOUT", "5s")

	cfg, err := appconfig.New().Load(dir)
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.Threshold, "environment wins over file")
	assert.True(t, cfg.Summary.Enabled)
	assert.Equal(t, "sk-test", cfg.Summary.APIKey)
	assert.Equal(t, "gpt-4.1-mini", cfg.Summary.Model)
	assert.Equal(t, 5*time.Second, cfg.Summary.Timeout)
	assert.True(t, cfg.SummaryReady())
}

func TestYAMLLoader_EnvProviderSelectsCredential(t *testing.T) {
	clearEnv(t)
	t.Setenv("ENABLE_LLM", "1")
	t.Setenv("LLM_PROVIDER", "Anthropic")
	t.Setenv("OPENAI_API_KEY", "sk-openai")
	t.Setenv("ANTHROPIC_API_KEY", "sk-ant")

	cfg, err := appconfig.New().Load(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, domain.ProviderAnthropic, cfg.Summary.Provider)
	assert.Equal(t, "sk-ant", cfg.Summary.APIKey)
	assert.Equal(t, domain.DefaultAnthropicModel, cfg.Summary.Model)
}

func TestYAMLLoader_OllamaHost(t *testing.T) {
	clearEnv(t)
	t.Setenv("LLM_PROVIDER", "ollama")
	t.Setenv("OLLAMA_HOST", "http://localhost:11434")

	cfg, err := appconfig.New().Load(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:11434", cfg.Summary.BaseURL)
	assert.False(t, cfg.Summary.Enabled, "disabled unless ENABLE_LLM is set")
}

func TestYAMLLoader_EnvErrors(t *testing.T) {
	for name, env := range map[string][2]string{
		"bad threshold":    {"RISKGATE_THRESHOLD", "nine"},
		"out of range":     {"RISKGATE_THRESHOLD", "0"},
		"bad timeout":      {"RISKGATE_SUMMARY_TIMEOUT", "soon"},
		"unknown provider": {"LLM_PROVIDER", "bard"},
	} {
		t.Run(name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(env[0], env[1])
			_, err := appconfig.New().Load(t.TempDir())
			assert.Error(t, err)
		})
	}
}
