package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/riskgate/riskgate/internal/domain"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const fileName = ".riskgate.yaml"

// Environment keys, bound verbatim.
const (
	envEnableLLM      = "ENABLE_LLM"
	envProvider       = "LLM_PROVIDER"
	envOpenAIModel    = "OPENAI_MODEL"
	envOpenAIKey      = "OPENAI_API_KEY"
	envAnthropicKey   = "ANTHROPIC_API_KEY"
	envOllamaHost     = "OLLAMA_HOST"
	envThreshold      = "RISKGATE_THRESHOLD"
	envSummaryModel   = "RISKGATE_SUMMARY_MODEL"
	envSummaryTimeout = "RISKGATE_SUMMARY_TIMEOUT"
)

var envKeys = []string{
	envEnableLLM, envProvider, envOpenAIModel, envOpenAIKey, envAnthropicKey,
	envOllamaHost, envThreshold, envSummaryModel, envSummaryTimeout,
}

// YAMLLoader implements domain.ConfigLoader by reading .riskgate.yaml and
// overlaying environment variables.
type YAMLLoader struct {
	env *viper.Viper
}

// New creates a YAMLLoader that reads the process environment.
func New() *YAMLLoader {
	v := viper.New()
	for _, key := range envKeys {
		_ = v.BindEnv(key)
	}
	return &YAMLLoader{env: v}
}

// Load reads .riskgate.yaml from projectPath, applies the environment and
// fills defaults. A missing file is not an error.
func (l *YAMLLoader) Load(projectPath string) (domain.ProjectConfig, error) {
	cfg, err := readFile(projectPath)
	if err != nil {
		return domain.ProjectConfig{}, err
	}

	if err := l.applyEnv(&cfg); err != nil {
		return domain.ProjectConfig{}, err
	}
	cfg = cfg.WithDefaults()
	if err := cfg.Validate(); err != nil {
		return domain.ProjectConfig{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func readFile(projectPath string) (domain.ProjectConfig, error) {
	data, err := os.ReadFile(filepath.Join(projectPath, fileName))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return domain.ProjectConfig{}, nil
		}
		return domain.ProjectConfig{}, err
	}

	var cfg domain.ProjectConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return domain.ProjectConfig{}, fmt.Errorf("parsing %s: %w", fileName, err)
	}

	// Validate the raw file so typos are reported against the file.
	if err := cfg.Validate(); err != nil {
		return domain.ProjectConfig{}, fmt.Errorf("invalid %s: %w", fileName, err)
	}
	return cfg, nil
}

// applyEnv overlays set environment variables on cfg. Unset variables
// leave the file values alone.
func (l *YAMLLoader) applyEnv(cfg *domain.ProjectConfig) error {
	v := l.env

	if v.IsSet(envEnableLLM) {
		cfg.Summary.Enabled = v.GetBool(envEnableLLM)
	}
	if p := strings.ToLower(strings.TrimSpace(v.GetString(envProvider))); p != "" {
		cfg.Summary.Provider = p
	}
	if s := v.GetString(envThreshold); s != "" {
		n, err := strconv.Atoi(strings.TrimSpace(s))
		if err != nil {
			return fmt.Errorf("%s: %w", envThreshold, err)
		}
		if n < domain.MinScore || n > domain.MaxScore {
			return fmt.Errorf("%s = %d (must be between %d and %d)", envThreshold, n, domain.MinScore, domain.MaxScore)
		}
		cfg.Threshold = n
	}
	if s := v.GetString(envSummaryTimeout); s != "" {
		d, err := time.ParseDuration(strings.TrimSpace(s))
		if err != nil {
			return fmt.Errorf("%s: %w", envSummaryTimeout, err)
		}
		cfg.Summary.Timeout = d
	}

	provider := cfg.Summary.Provider
	if provider == "" {
		provider = domain.ProviderOpenAI
	}
	switch provider {
	case domain.ProviderOpenAI:
		cfg.Summary.APIKey = v.GetString(envOpenAIKey)
		if m := v.GetString(envOpenAIModel); m != "" {
			cfg.Summary.Model = m
		}
	case domain.ProviderAnthropic:
		cfg.Summary.APIKey = v.GetString(envAnthropicKey)
	case domain.ProviderOllama:
		if h := v.GetString(envOllamaHost); h != "" {
			cfg.Summary.BaseURL = h
		}
	}
	if m := v.GetString(envSummaryModel); m != "" {
		cfg.Summary.Model = m
	}
	return nil
}
