package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// validErrorKinds mirrors the closed classification set. Kept as strings so
// this package does not depend on the taxonomy package.
var validErrorKinds = map[string]bool{
	"network":        true,
	"authentication": true,
	"authorization":  true,
	"validation":     true,
	"notFound":       true,
	"server":         true,
	"timeout":        true,
	"offline":        true,
	"rateLimited":    true,
	"unknown":        true,
}

// ValidateConfig performs validation on the GlobalConfig structure.
func ValidateConfig(cfg *GlobalConfig) error {
	validate := validator.New()

	_ = validate.RegisterValidation("loglevel", func(fl validator.FieldLevel) bool {
		switch strings.ToLower(fl.Field().String()) {
		case "", "debug", "info", "warn", "error", "fatal", "panic":
			return true
		default:
			return false
		}
	})

	_ = validate.RegisterValidation("logformat", func(fl validator.FieldLevel) bool {
		switch strings.ToLower(fl.Field().String()) {
		case "", "console", "text", "json":
			return true
		default:
			return false
		}
	})

	_ = validate.RegisterValidation("errorkind", func(fl validator.FieldLevel) bool {
		return validErrorKinds[fl.Field().String()]
	})

	if err := validate.Struct(cfg); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			messages := make([]string, 0, len(validationErrors))
			for _, fieldErr := range validationErrors {
				messages = append(messages, fmt.Sprintf(
					"field '%s' failed on '%s'", fieldErr.Namespace(), fieldErr.Tag()))
			}
			return fmt.Errorf("config validation failed: %s", strings.Join(messages, "; "))
		}
		return fmt.Errorf("config validation failed: %w", err)
	}
	return nil
}
