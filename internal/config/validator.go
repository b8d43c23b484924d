package config

import (
	"github.com/go-playground/validator/v10"

	"github.com/zero-day-ai/conductor/internal/types"
)

// Validator checks configuration structs against their validate tags.
type Validator struct {
	validate *validator.Validate
}

// NewValidator creates a Validator.
func NewValidator() *Validator {
	return &Validator{
		validate: validator.New(),
	}
}

// Validate returns CONFIG_VALIDATION_FAILED when any field violates its
// constraints.
func (v *Validator) Validate(cfg *Config) error {
	if cfg == nil {
		return types.NewError(types.CONFIG_VALIDATION_FAILED, "config is nil")
	}

	if err := v.validate.Struct(cfg); err != nil {
		return types.WrapError(types.CONFIG_VALIDATION_FAILED, "invalid configuration", err)
	}

	return nil
}
