// Package config defines the runtime configuration surface and its YAML
// loader.
package config

// Config is the root configuration structure.
type Config struct {
	Orchestrator OrchestratorConfig `mapstructure:"orchestrator" yaml:"orchestrator" validate:"required"`
	LLM          LLMConfig          `mapstructure:"llm" yaml:"llm" validate:"required"`
	Audit        AuditConfig        `mapstructure:"audit" yaml:"audit"`
	Logging      LoggingConfig      `mapstructure:"logging" yaml:"logging"`
}

// OrchestratorConfig bounds the control loop.
type OrchestratorConfig struct {
	// MaxIterations is the hard ceiling on EXECUTE passes per run
	MaxIterations int `mapstructure:"max_iterations" yaml:"max_iterations" validate:"gte=1"`

	// ConfidenceThreshold is the minimum confidence a decision may declare
	ConfidenceThreshold float64 `mapstructure:"confidence_threshold" yaml:"confidence_threshold" validate:"gte=0,lte=1"`
}

// LLMConfig selects and configures the reasoning provider.
type LLMConfig struct {
	Provider    string  `mapstructure:"provider" yaml:"provider" validate:"required,oneof=openai anthropic ollama"`
	Model       string  `mapstructure:"model" yaml:"model"`
	APIKey      string  `mapstructure:"api_key" yaml:"api_key"`
	BaseURL     string  `mapstructure:"base_url" yaml:"base_url"`
	Temperature float64 `mapstructure:"temperature" yaml:"temperature" validate:"gte=0,lte=2"`
	MaxTokens   int     `mapstructure:"max_tokens" yaml:"max_tokens" validate:"gte=0"`
}

// AuditConfig configures the optional durable audit log.
type AuditConfig struct {
	Enabled bool   `mapstructure:"enabled" yaml:"enabled"`
	Path    string `mapstructure:"path" yaml:"path" validate:"required_if=Enabled true"`
}

// LoggingConfig configures structured logging output.
type LoggingConfig struct {
	Level  string `mapstructure:"level" yaml:"level" validate:"oneof=debug info warn error"`
	Format string `mapstructure:"format" yaml:"format" validate:"oneof=text json"`
}
