package utils

import (
	"fmt"

	"github.com/onegreenvn/retail-backoffice-services/internal/config"

	"github.com/getsentry/sentry-go"
	"github.com/sirupsen/logrus"
)

// InitSentry initializes Sentry for error tracking. It returns false when no
// DSN is configured and reporting stays disabled.
func InitSentry(cfg *config.SentryConfig) (bool, error) {
	if cfg.DSN == "" {
		logrus.Info("Sentry DSN not set, error reporting disabled")
		return false, nil
	}

	err := sentry.Init(sentry.ClientOptions{
		Dsn:              cfg.DSN,
		Environment:      cfg.Environment,
		EnableTracing:    cfg.TracesSampleRate > 0,
		TracesSampleRate: cfg.TracesSampleRate,
	})
	if err != nil {
		return false, fmt.Errorf("sentry.Init: %w", err)
	}

	logrus.Infof("Sentry initialized for environment %s", cfg.Environment)
	return true, nil
}
