package logging

import (
	"time"

	"cfp/config"

	"github.com/getsentry/sentry-go"
	"github.com/sirupsen/logrus"
)

// Setup configures the standard logrus logger and, when a DSN is present,
// the Sentry client.
func Setup(cfg *config.Config) error {
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)

	if cfg.LogFormat == "json" {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	if cfg.SentryDSN == "" {
		return nil
	}
	return sentry.Init(sentry.ClientOptions{
		Dsn:         cfg.SentryDSN,
		Environment: cfg.Environment,
	})
}

// Flush waits for buffered Sentry events before the process exits.
func Flush() {
	sentry.Flush(2 * time.Second)
}

// LogError logs errors with structured context to both console and Sentry.
func LogError(errorType string, err error, fields logrus.Fields) {
	log := logrus.WithFields(logrus.Fields{
		"error_type": errorType,
		"error":      err.Error(),
	}).WithFields(fields)

	log.Error("Error occurred")

	sentry.WithScope(func(scope *sentry.Scope) {
		scope.SetTag("error_type", errorType)
		for k, v := range fields {
			scope.SetExtra(k, v)
		}
		sentry.CaptureException(err)
	})
}

// LogEvent logs a domain event and records it as a Sentry breadcrumb.
func LogEvent(eventType string, fields logrus.Fields) {
	logrus.WithField("event_type", eventType).WithFields(fields).Info("Event occurred")

	sentry.AddBreadcrumb(&sentry.Breadcrumb{
		Type:      "info",
		Category:  eventType,
		Data:      fields,
		Timestamp: time.Now(),
	})
}
