package app

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	// DiagramPath is a diagram file or a directory of them. Commands that
	// read no diagram leave it empty.
	DiagramPath string `validate:"omitempty,file|dir"`

	LogLevel  string `validate:"omitempty,oneof=debug info warn error"`
	LogFormat string `validate:"omitempty,oneof=text json"`

	// PublishURL enables publishing evaluation reports over socket.io.
	PublishURL       string        `validate:"omitempty,url"`
	PublishNamespace string        `validate:"omitempty,startswith=/"`
	PublishEvent     string        `validate:"required_with=PublishURL"`
	PublishTimeout   time.Duration `validate:"gte=0"`
	// PublishInsecure skips TLS certificate verification for https/wss URLs.
	PublishInsecure bool
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// NewConfig validates cfg and returns a copy of it.
func NewConfig(cfg Config) (*Config, error) {
	if err := validate.Struct(cfg); err != nil {
		if verrs, ok := err.(validator.ValidationErrors); ok {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s: failed '%s' check", fe.Field(), fe.Tag()))
			}
			return nil, fmt.Errorf("invalid configuration: %s", strings.Join(msgs, "; "))
		}
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}
