package domain

import (
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Config holds project-level configuration loaded from .devhub.yaml.
type Config struct {
	// MessageLimit caps the number of messages shown for one result.
	// Zero disables truncation.
	MessageLimit int    `yaml:"message_limit" json:"message_limit" validate:"gte=0"`
	StorePath    string `yaml:"store_path"    json:"store_path"    validate:"required"`
	// Listed is the channel assumed when a request does not name one.
	Listed   bool   `yaml:"listed"    json:"listed"`
	LogLevel string `yaml:"log_level" json:"log_level" validate:"omitempty,oneof=debug info warn error"`
}

// DefaultConfig returns the configuration used when no .devhub.yaml exists.
func DefaultConfig() Config {
	return Config{
		MessageLimit: 500,
		StorePath:    ".devhub/validation.db",
		Listed:       true,
		LogLevel:     "info",
	}
}

var configValidator = newConfigValidator()

func newConfigValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("yaml"), ",")
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	return v
}

// Validate checks the config for invalid values and returns a descriptive error.
func (c Config) Validate() error {
	err := configValidator.Struct(c)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}
	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, fmt.Sprintf("%s must be set", fe.Field()))
		case "oneof":
			msgs = append(msgs, fmt.Sprintf("%s %q is not one of: %s", fe.Field(), fe.Value(), fe.Param()))
		case "gte":
			msgs = append(msgs, fmt.Sprintf("%s must be >= %s (got %v)", fe.Field(), fe.Param(), fe.Value()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s failed %q check", fe.Field(), fe.Tag()))
		}
	}
	return errors.New(strings.Join(msgs, "; "))
}

// DefaultChannel returns the channel used when a request does not name one.
func (c Config) DefaultChannel() Channel {
	if c.Listed {
		return ChannelListed
	}
	return ChannelUnlisted
}

// SlogLevel maps LogLevel onto a slog level, defaulting to info.
func (c Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}
