package domain

import (
	"fmt"
	"time"
)

// Summary providers understood by the summarizer factory.
const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
	ProviderOllama    = "ollama"
)

// ValidProviders enumerates all recognized summary providers.
var ValidProviders = []string{ProviderOpenAI, ProviderAnthropic, ProviderOllama}

// Defaults applied when the project config leaves a field empty.
const (
	DefaultTrivyPath      = "results/trivy.json"
	DefaultCheckovPath    = "results/checkov.json"
	DefaultOutputPath     = "results/security_report.md"
	DefaultSummaryModel   = "gpt-4o-mini"
	DefaultAnthropicModel = "claude-3-5-haiku-latest"
	DefaultOllamaModel    = "llama3.1"
	DefaultSummaryTimeout = 45 * time.Second
)

// ProjectConfig holds project-level configuration loaded from .riskgate.yaml
// and overlaid with environment variables.
type ProjectConfig struct {
	Threshold int           `yaml:"threshold" json:"threshold,omitempty"`
	Inputs    InputsConfig  `yaml:"inputs"    json:"inputs"`
	Output    string        `yaml:"output"    json:"output,omitempty"`
	Summary   SummaryConfig `yaml:"summary"   json:"summary"`
}

// InputsConfig locates the scanner artifacts, relative to the project root.
type InputsConfig struct {
	Trivy   string `yaml:"trivy"   json:"trivy,omitempty"`
	Checkov string `yaml:"checkov" json:"checkov,omitempty"`
}

// SummaryConfig controls the optional LLM summary. APIKey is never read
// from the YAML file; it only comes from the environment.
type SummaryConfig struct {
	Enabled  bool          `yaml:"enabled"  json:"enabled"`
	Provider string        `yaml:"provider" json:"provider,omitempty"`
	Model    string        `yaml:"model"    json:"model,omitempty"`
	Timeout  time.Duration `yaml:"timeout"  json:"timeout,omitempty"`
	BaseURL  string        `yaml:"base_url" json:"base_url,omitempty"`
	APIKey   string        `yaml:"-"        json:"-"`
}

// DefaultConfig returns the configuration used when nothing is set:
// default artifact paths, threshold 9, summary disabled.
func DefaultConfig() ProjectConfig {
	return ProjectConfig{
		Threshold: DefaultThreshold,
		Inputs: InputsConfig{
			Trivy:   DefaultTrivyPath,
			Checkov: DefaultCheckovPath,
		},
		Output: DefaultOutputPath,
		Summary: SummaryConfig{
			Provider: ProviderOpenAI,
			Model:    DefaultSummaryModel,
			Timeout:  DefaultSummaryTimeout,
		},
	}
}

// WithDefaults fills every zero field from DefaultConfig.
func (c ProjectConfig) WithDefaults() ProjectConfig {
	d := DefaultConfig()
	if c.Threshold == 0 {
		c.Threshold = d.Threshold
	}
	if c.Inputs.Trivy == "" {
		c.Inputs.Trivy = d.Inputs.Trivy
	}
	if c.Inputs.Checkov == "" {
		c.Inputs.Checkov = d.Inputs.Checkov
	}
	if c.Output == "" {
		c.Output = d.Output
	}
	if c.Summary.Provider == "" {
		c.Summary.Provider = d.Summary.Provider
	}
	if c.Summary.Model == "" {
		c.Summary.Model = DefaultModelFor(c.Summary.Provider)
	}
	if c.Summary.Timeout == 0 {
		c.Summary.Timeout = d.Summary.Timeout
	}
	return c
}

// DefaultModelFor returns the model used when none is configured.
func DefaultModelFor(provider string) string {
	switch provider {
	case ProviderAnthropic:
		return DefaultAnthropicModel
	case ProviderOllama:
		return DefaultOllamaModel
	default:
		return DefaultSummaryModel
	}
}

// SummaryReady reports whether the LLM summary should actually be called.
// Hosted providers also need a credential.
func (c ProjectConfig) SummaryReady() bool {
	if !c.Summary.Enabled {
		return false
	}
	return c.Summary.Provider == ProviderOllama || c.Summary.APIKey != ""
}

// Validate checks the config for invalid values and returns a descriptive error.
func (c ProjectConfig) Validate() error {
	if c.Threshold != 0 && (c.Threshold < MinScore || c.Threshold > MaxScore) {
		return fmt.Errorf("threshold = %d (must be between %d and %d)", c.Threshold, MinScore, MaxScore)
	}

	if c.Summary.Provider != "" && !isValidProvider(c.Summary.Provider) {
		return fmt.Errorf("unknown summary.provider %q (valid: openai, anthropic, ollama)", c.Summary.Provider)
	}

	if c.Summary.Timeout < 0 {
		return fmt.Errorf("summary.timeout must not be negative (got %s)", c.Summary.Timeout)
	}

	return nil
}

func isValidProvider(name string) bool {
	for _, p := range ValidProviders {
		if p == name {
			return true
		}
	}
	return false
}
