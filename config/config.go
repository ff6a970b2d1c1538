package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"meeting-scribe/internal/domain"
)

type Config struct {
	Audio       AudioConfig       `yaml:"audio"`
	Transcriber TranscriberConfig `yaml:"transcriber"`
	LLM         LLMConfig         `yaml:"llm"`
	Webhook     WebhookConfig     `yaml:"webhook"`
	Log         LogConfig         `yaml:"log"`
}

type AudioConfig struct {
	SampleRate int    `yaml:"sample_rate"`
	Channels   int    `yaml:"channels"`
	TempDir    string `yaml:"temp_dir"`
}

type TranscriberConfig struct {
	Engine     string `yaml:"engine"`
	Tier       string `yaml:"tier"`
	BinaryPath string `yaml:"binary_path"`
	ModelDir   string `yaml:"model_dir"`
	Language   string `yaml:"language"`
	OpenAIKey  string `yaml:"openai_api_key"`
}

type LLMConfig struct {
	Host  string `yaml:"host"`
	Model string `yaml:"model"`
}

type WebhookConfig struct {
	URL string `yaml:"url"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Load resolves configuration once at startup. The yaml file is optional
// (the tool runs fine on environment variables and defaults alone).
// Precedence per value: environment over file over built-in default; CLI
// flags override on top of the loaded config.
func Load(path string) (*Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		expanded := os.ExpandEnv(string(data))
		if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
			return nil, fmt.Errorf("parsing config: %w", err)
		}
	case os.IsNotExist(err):
		// env + defaults only
	default:
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg.applyEnv()
	cfg.setDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("WEBHOOK_URL"); v != "" {
		c.Webhook.URL = v
	}
	if v := os.Getenv("LLM_BACKEND_HOST"); v != "" {
		c.LLM.Host = v
	}
	if v := os.Getenv("LLM_MODEL"); v != "" {
		c.LLM.Model = v
	}
}

func (c *Config) setDefaults() {
	if c.Audio.SampleRate == 0 {
		c.Audio.SampleRate = 44100
	}
	if c.Audio.Channels == 0 {
		c.Audio.Channels = 1
	}
	if c.Audio.TempDir == "" {
		c.Audio.TempDir = os.TempDir()
	}
	if c.Transcriber.Engine == "" {
		c.Transcriber.Engine = "whisper-cpp"
	}
	if c.Transcriber.Tier == "" {
		c.Transcriber.Tier = string(domain.TierTiny)
	}
	if c.Transcriber.BinaryPath == "" {
		c.Transcriber.BinaryPath = "whisper-cli"
	}
	if c.Transcriber.ModelDir == "" {
		c.Transcriber.ModelDir = "./models"
	}
	if c.Transcriber.Language == "" {
		c.Transcriber.Language = "en"
	}
	if c.LLM.Host == "" {
		c.LLM.Host = "localhost"
	}
	if c.LLM.Model == "" {
		c.LLM.Model = "llama2"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
}

// Validate rejects values outside their closed sets. The tier set is checked
// here, at resolution time, not deep inside the transcriber.
func (c *Config) Validate() error {
	if _, err := domain.ParseTier(c.Transcriber.Tier); err != nil {
		return fmt.Errorf("transcriber.tier: %w", err)
	}
	switch c.Transcriber.Engine {
	case "whisper-cpp", "openai":
	default:
		return fmt.Errorf("transcriber.engine: unknown engine %q (valid: whisper-cpp, openai)", c.Transcriber.Engine)
	}
	return nil
}

// Tier returns the validated model tier.
func (c *Config) Tier() domain.ModelTier {
	tier, _ := domain.ParseTier(c.Transcriber.Tier)
	return tier
}
