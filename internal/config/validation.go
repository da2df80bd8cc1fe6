package config

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

type constError string

func (e constError) Error() string { return string(e) }

const (
	// ErrInvalidConfig wraps every validation failure.
	ErrInvalidConfig = constError("invalid configuration")

	// ErrUnknownKey is returned by Get and Set for keys the config lacks.
	ErrUnknownKey = constError("unknown config key")
)

//nolint:gochecknoglobals // validator caches struct metadata; one instance per process.
var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func configValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

// Validate checks field constraints and cross-field rules.
func (c *Config) Validate() error {
	if err := configValidator().Struct(c); err != nil {
		return formatValidationError(err)
	}
	if c.Advisor.Enabled && c.Advisor.Endpoint == "" {
		return fmt.Errorf("%w: advisor.endpoint is required when advisor.enabled is true", ErrInvalidConfig)
	}
	if c.Storage.History.Driver == "postgres" && c.Storage.History.DSN == "" {
		return fmt.Errorf("%w: storage.history.dsn is required for postgres", ErrInvalidConfig)
	}
	return nil
}

// formatValidationError turns validator output into one readable error
// naming each failing field.
func formatValidationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := strings.ToLower(strings.TrimPrefix(fe.Namespace(), "Config."))
		switch fe.Tag() {
		case "oneof":
			msgs = append(msgs, fmt.Sprintf("%s must be one of [%s], got %q", field, fe.Param(), fe.Value()))
		case "url":
			msgs = append(msgs, fmt.Sprintf("%s must be a valid URL", field))
		case "gte", "lte":
			msgs = append(msgs, fmt.Sprintf("%s must be %s %s", field, fe.Tag(), fe.Param()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s failed %s", field, fe.Tag()))
		}
	}
	return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(msgs, "; "))
}
