package config

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// validate is the singleton validator instance
var validate *validator.Validate

func init() {
	validate = validator.New()
}

// Validate checks the configuration using struct tags plus the custom
// rules that tags cannot express.
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return formatValidationError(err)
	}

	return validateCustomRules(cfg)
}

func validateCustomRules(cfg *Config) error {
	if cfg.RateLimit.Enabled && cfg.RateLimit.RequestsPerSecond == 0 {
		return fmt.Errorf("ratelimit: requests_per_second must be set when rate limiting is enabled")
	}

	if cfg.Content.Type == "static" {
		docRoot, _ := cfg.Content.Static["doc_root"].(string)
		if docRoot == "" {
			return fmt.Errorf("content.static: doc_root is required")
		}
	}

	return nil
}

// formatValidationError converts validator errors into readable messages.
func formatValidationError(err error) error {
	if validationErrs, ok := err.(validator.ValidationErrors); ok {
		if len(validationErrs) > 0 {
			e := validationErrs[0]
			return fmt.Errorf("%s: validation failed on '%s' tag (value: %v)",
				e.Namespace(), e.Tag(), e.Value())
		}
	}
	return err
}
