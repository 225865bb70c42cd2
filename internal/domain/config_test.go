package domain_test

import (
	"testing"
	"time"

	"github.com/riskgate/riskgate/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestDefaultConfig(t *testing.T) {
	cfg := domain.DefaultConfig()
	assert.Equal(t, 9, cfg.Threshold)
	assert.Equal(t, "results/trivy.json", cfg.Inputs.Trivy)
	assert.Equal(t, "results/checkov.json", cfg.Inputs.Checkov)
	assert.Equal(t, "results/security_report.md", cfg.Output)
	assert.False(t, cfg.Summary.Enabled)
	assert.Equal(t, domain.ProviderOpenAI, cfg.Summary.Provider)
	assert.Equal(t, 45*time.Second, cfg.Summary.Timeout)
	assert.NoError(t, cfg.Validate())
}

func TestWithDefaults_KeepsExplicitValues(t *testing.T) {
	cfg := domain.ProjectConfig{
		Threshold: 7,
		Inputs:    domain.InputsConfig{Checkov: "out/checkov.json"},
		Summary:   domain.SummaryConfig{Model: "llama3"},
	}.WithDefaults()

	assert.Equal(t, 7, cfg.Threshold)
	assert.Equal(t, "results/trivy.json", cfg.Inputs.Trivy)
	assert.Equal(t, "out/checkov.json", cfg.Inputs.Checkov)
	assert.Equal(t, "llama3", cfg.Summary.Model)
	assert.Equal(t, domain.ProviderOpenAI, cfg.Summary.Provider)
}

func TestSummaryReady(t *testing.T) {
	cfg := domain.DefaultConfig()
	assert.False(t, cfg.SummaryReady(), "disabled by default")

	cfg.Summary.Enabled = true
	assert.False(t, cfg.SummaryReady(), "hosted provider needs a key")

	cfg.Summary.APIKey = "sk-test"
	assert.True(t, cfg.SummaryReady())

	cfg.Summary.APIKey = ""
	cfg.Summary.Provider = domain.ProviderOllama
	assert.True(t, cfg.SummaryReady(), "ollama runs without a key")
}

func TestValidate_ThresholdRange(t *testing.T) {
	assert.NoError(t, domain.ProjectConfig{Threshold: 1}.Validate())
	assert.NoError(t, domain.ProjectConfig{Threshold: 10}.Validate())

	err := domain.ProjectConfig{Threshold: 11}.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "threshold")

	assert.Error(t, domain.ProjectConfig{Threshold: -1}.Validate())
}

func TestValidate_UnknownProvider(t *testing.T) {
	err := domain.ProjectConfig{Summary: domain.SummaryConfig{Provider: "watson"}}.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "watson")
}

func TestValidate_NegativeTimeout(t *testing.T) {
	err := domain.ProjectConfig{Summary: domain.SummaryConfig{Timeout: -time.Second}}.Validate()
	assert.Error(t, err)
}

func TestWithDefaults_ModelFollowsProvider(t *testing.T) {
	cfg := domain.ProjectConfig{Summary: domain.SummaryConfig{Provider: domain.ProviderAnthropic}}.WithDefaults()
	assert.Equal(t, domain.DefaultAnthropicModel, cfg.Summary.Model)

	cfg = domain.ProjectConfig{Summary: domain.SummaryConfig{Provider: domain.ProviderOllama}}.WithDefaults()
	assert.Equal(t, domain.DefaultOllamaModel, cfg.Summary.Model)

	assert.Equal(t, domain.DefaultConfig(), domain.ProjectConfig{}.WithDefaults())
}
