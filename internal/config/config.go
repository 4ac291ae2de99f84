package config

import (
	"errors"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/Etheal9/SEO-Auditor-AI-Agents/internal/cost"
)

// Config holds the full application configuration.
type Config struct {
	LLM       LLMConfig       `yaml:"llm" mapstructure:"llm"`
	Groq      GroqConfig      `yaml:"groq" mapstructure:"groq"`
	Gemini    GeminiConfig    `yaml:"gemini" mapstructure:"gemini"`
	Anthropic AnthropicConfig `yaml:"anthropic" mapstructure:"anthropic"`
	Bedrock   BedrockConfig   `yaml:"bedrock" mapstructure:"bedrock"`
	Firecrawl FirecrawlConfig `yaml:"firecrawl" mapstructure:"firecrawl"`
	Jina      JinaConfig      `yaml:"jina" mapstructure:"jina"`
	Google    GoogleConfig    `yaml:"google" mapstructure:"google"`
	Retry     RetryConfig     `yaml:"retry" mapstructure:"retry"`
	Circuit   CircuitConfig   `yaml:"circuit" mapstructure:"circuit"`
	Prompts   PromptsConfig   `yaml:"prompts" mapstructure:"prompts"`
	Memory    MemoryConfig    `yaml:"memory" mapstructure:"memory"`
	Store     StoreConfig     `yaml:"store" mapstructure:"store"`
	Server    ServerConfig    `yaml:"server" mapstructure:"server"`
	Batch     BatchConfig     `yaml:"batch" mapstructure:"batch"`
	Notion    NotionConfig    `yaml:"notion" mapstructure:"notion"`
	Pricing   cost.Rates      `yaml:"pricing" mapstructure:"pricing"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
}

// LLMConfig selects and tunes the inference backend.
type LLMConfig struct {
	Provider      string  `yaml:"provider" mapstructure:"provider" validate:"oneof=auto groq gemini anthropic bedrock"`
	MaxTokens     int     `yaml:"max_tokens" mapstructure:"max_tokens" validate:"min=1"`
	Temperature   float64 `yaml:"temperature" mapstructure:"temperature" validate:"min=0,max=2"`
	MaxToolRounds int     `yaml:"max_tool_rounds" mapstructure:"max_tool_rounds" validate:"min=1,max=5"`
}

// GroqConfig configures the Groq OpenAI-compatible API.
type GroqConfig struct {
	Key     string `yaml:"key" mapstructure:"key"`
	Model   string `yaml:"model" mapstructure:"model"`
	BaseURL string `yaml:"base_url" mapstructure:"base_url" validate:"omitempty,url"`
}

// GeminiConfig configures the Google Gemini API.
type GeminiConfig struct {
	Key   string `yaml:"key" mapstructure:"key"`
	Model string `yaml:"model" mapstructure:"model"`
}

// AnthropicConfig configures the Anthropic API.
type AnthropicConfig struct {
	Key   string `yaml:"key" mapstructure:"key"`
	Model string `yaml:"model" mapstructure:"model"`
}

// BedrockConfig configures Claude through AWS Bedrock. Credentials come
// from the default AWS chain.
type BedrockConfig struct {
	Region string `yaml:"region" mapstructure:"region"`
	Model  string `yaml:"model" mapstructure:"model" validate:"required_with=Region"`
}

// FirecrawlConfig configures the Firecrawl API.
type FirecrawlConfig struct {
	Key       string `yaml:"key" mapstructure:"key"`
	BaseURL   string `yaml:"base_url" mapstructure:"base_url" validate:"omitempty,url"`
	TimeoutMs int    `yaml:"timeout_ms" mapstructure:"timeout_ms" validate:"min=0"`
}

// JinaConfig configures the Jina AI Reader and Search APIs.
type JinaConfig struct {
	Key           string `yaml:"key" mapstructure:"key"`
	BaseURL       string `yaml:"base_url" mapstructure:"base_url" validate:"omitempty,url"`
	SearchBaseURL string `yaml:"search_base_url" mapstructure:"search_base_url" validate:"omitempty,url"`
}

// GoogleConfig configures Google Custom Search.
type GoogleConfig struct {
	Key   string  `yaml:"key" mapstructure:"key"`
	CSEID string  `yaml:"cse_id" mapstructure:"cse_id" validate:"required_with=Key"`
	QPS   float64 `yaml:"qps" mapstructure:"qps" validate:"min=0"`
}

// RetryConfig is the per-stage retry policy.
type RetryConfig struct {
	MaxAttempts  int     `yaml:"max_attempts" mapstructure:"max_attempts" validate:"min=1,max=10"`
	MinBackoffMs int     `yaml:"min_backoff_ms" mapstructure:"min_backoff_ms" validate:"min=0"`
	MaxBackoffMs int     `yaml:"max_backoff_ms" mapstructure:"max_backoff_ms" validate:"gtefield=MinBackoffMs"`
	Multiplier   float64 `yaml:"multiplier" mapstructure:"multiplier" validate:"min=1"`
}

// CircuitConfig configures the per-provider circuit breakers.
type CircuitConfig struct {
	FailureThreshold int `yaml:"failure_threshold" mapstructure:"failure_threshold" validate:"min=1"`
	ResetTimeoutSecs int `yaml:"reset_timeout_secs" mapstructure:"reset_timeout_secs" validate:"min=1"`
}

// PromptsConfig locates stage instructions.
type PromptsConfig struct {
	Dir    string `yaml:"dir" mapstructure:"dir"`
	Bundle string `yaml:"bundle" mapstructure:"bundle"`
}

// MemoryConfig locates the last-run snapshot.
type MemoryConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// StoreConfig configures run history persistence.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver" validate:"oneof=sqlite postgres"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url" validate:"required"`
	MaxConns    int32  `yaml:"max_conns" mapstructure:"max_conns" validate:"min=0"`
	MinConns    int32  `yaml:"min_conns" mapstructure:"min_conns" validate:"min=0"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Port        int      `yaml:"port" mapstructure:"port" validate:"min=1,max=65535"`
	CORSOrigins []string `yaml:"cors_origins" mapstructure:"cors_origins"`
}

// BatchConfig configures batch audits.
type BatchConfig struct {
	Concurrency int `yaml:"concurrency" mapstructure:"concurrency" validate:"min=1,max=64"`
}

// NotionConfig configures report publishing.
type NotionConfig struct {
	Token      string `yaml:"token" mapstructure:"token"`
	DatabaseID string `yaml:"database_id" mapstructure:"database_id" validate:"required_with=Token"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" mapstructure:"format" validate:"oneof=json console"`
}

// envAliases are the unprefixed variable names the tools conventionally
// read, bound alongside the SEO_ names.
var envAliases = map[string]string{
	"groq.key":      "GROQ_API_KEY",
	"gemini.key":    "GEMINI_API_KEY",
	"anthropic.key": "ANTHROPIC_API_KEY",
	"firecrawl.key": "FIRECRAWL_API_KEY",
	"jina.key":      "JINA_API_KEY",
	"google.key":    "GOOGLE_API_KEY",
	"google.cse_id": "GOOGLE_CSE_ID",
	"notion.token":  "NOTION_TOKEN",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("llm.provider", "auto")
	v.SetDefault("llm.max_tokens", 4096)
	v.SetDefault("llm.temperature", 0.2)
	v.SetDefault("llm.max_tool_rounds", 1)
	v.SetDefault("groq.model", "llama3-70b-8192")
	v.SetDefault("groq.base_url", "https://api.groq.com/openai/v1")
	v.SetDefault("gemini.model", "gemini-1.5-flash")
	v.SetDefault("anthropic.model", "claude-haiku-4-5-20251001")
	v.SetDefault("bedrock.model", "anthropic.claude-haiku-4-5-20251001-v1:0")
	v.SetDefault("firecrawl.base_url", "https://api.firecrawl.dev/v1")
	v.SetDefault("firecrawl.timeout_ms", 90000)
	v.SetDefault("jina.base_url", "https://r.jina.ai")
	v.SetDefault("jina.search_base_url", "https://s.jina.ai")
	v.SetDefault("google.qps", 1.0)
	v.SetDefault("retry.max_attempts", 3)
	v.SetDefault("retry.min_backoff_ms", 4000)
	v.SetDefault("retry.max_backoff_ms", 10000)
	v.SetDefault("retry.multiplier", 2.0)
	v.SetDefault("circuit.failure_threshold", 5)
	v.SetDefault("circuit.reset_timeout_secs", 30)
	v.SetDefault("prompts.dir", "prompts")
	v.SetDefault("prompts.bundle", "")
	v.SetDefault("memory.path", "memory/state.json")
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.database_url", "seo-auditor.db")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.cors_origins", []string{"*"})
	v.SetDefault("batch.concurrency", 4)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
}

// Load reads configuration from .env, config.yaml and the environment, then
// validates it.
func Load() (*Config, error) {
	// .env never overrides variables already set in the process.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, eris.Wrap(err, "config: load .env")
	}

	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME/.seo-auditor")

	// Environment
	v.SetEnvPrefix("SEO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, alias := range envAliases {
		prefixed := "SEO_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		if err := v.BindEnv(key, prefixed, alias); err != nil {
			return nil, eris.Wrapf(err, "config: bind env %s", key)
		}
	}

	setDefaults(v)

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks field constraints.
func (c *Config) Validate() error {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.Struct(c); err != nil {
		return eris.Wrap(err, "config: invalid")
	}
	return nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
