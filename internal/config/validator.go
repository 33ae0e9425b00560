package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/rkorrapolu/sye-agent/internal/llm"
	"github.com/rkorrapolu/sye-agent/internal/types"
)

// Validator validates configuration values.
type Validator interface {
	Validate(cfg *Config) error
}

// validatorImpl implements Validator using go-playground/validator.
type validatorImpl struct {
	validate *validator.Validate
}

// NewValidator creates a new Validator instance.
func NewValidator() Validator {
	return &validatorImpl{validate: validator.New()}
}

// Validate validates the configuration and returns detailed error messages.
func (v *validatorImpl) Validate(cfg *Config) error {
	if cfg == nil {
		return types.NewError(types.CONFIG_VALIDATION_FAILED, "configuration is nil")
	}

	if err := v.validate.Struct(cfg); err != nil {
		validationErrs, ok := err.(validator.ValidationErrors)
		if !ok {
			return types.WrapError(types.CONFIG_VALIDATION_FAILED, "validation error", err)
		}
		var messages []string
		for _, e := range validationErrs {
			messages = append(messages, formatValidationError(e))
		}
		return types.NewError(types.CONFIG_VALIDATION_FAILED,
			"configuration validation failed:\n  - "+strings.Join(messages, "\n  - "))
	}

	if err := cfg.Graph.Validate(); err != nil {
		return types.WrapError(types.CONFIG_VALIDATION_FAILED, "graph configuration invalid", err)
	}
	if cfg.Vector.Dimensions <= 0 {
		return types.NewError(types.CONFIG_VALIDATION_FAILED,
			fmt.Sprintf("vector.dimensions must be positive (got: %d)", cfg.Vector.Dimensions))
	}
	providers := []struct {
		name string
		cfg  llm.ProviderConfig
	}{
		{"llm.first", cfg.LLM.First},
		{"llm.second", cfg.LLM.Second},
		{"llm.arbiter", cfg.LLM.Arbiter},
	}
	for _, p := range providers {
		if err := p.cfg.Validate(); err != nil {
			return types.WrapError(types.CONFIG_VALIDATION_FAILED, p.name+" configuration invalid", err)
		}
	}
	return nil
}

// formatValidationError converts a validator.FieldError into a readable
// message.
func formatValidationError(e validator.FieldError) string {
	field := strings.ToLower(e.Namespace())
	field = strings.TrimPrefix(field, "config.")

	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s] (got: %v)", field, e.Param(), e.Value())
	case "min":
		return fmt.Sprintf("%s must be at least %s (got: %v)", field, e.Param(), e.Value())
	case "max":
		return fmt.Sprintf("%s must be at most %s (got: %v)", field, e.Param(), e.Value())
	default:
		return fmt.Sprintf("%s failed validation '%s'", field, e.Tag())
	}
}
