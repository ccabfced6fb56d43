// Package logger builds the zap logger used across the service.
package logger

import (
	"strings"

	"go.uber.org/zap"
)

// New returns a sugared logger. mode "prod"/"production" selects the JSON
// production config; anything else gets the human-friendly dev config.
func New(mode string) (*zap.SugaredLogger, error) {
	var cfg zap.Config
	switch strings.ToLower(mode) {
	case "prod", "production":
		cfg = zap.NewProductionConfig()
	default:
		cfg = zap.NewDevelopmentConfig()
	}
	zl, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	return zl.Sugar(), nil
}
