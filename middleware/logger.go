package middleware

import (
	"time"

	"github.com/sirupsen/logrus"

	"github.com/maxigo-bot/keygram"
)

// LoggerConfig defines the config for Logger middleware.
type LoggerConfig struct {
	// Skipper defines a function to skip this middleware.
	Skipper Skipper

	// Logger receives one entry per handled update. Default: the bot's logger.
	Logger logrus.FieldLogger
}

// DefaultLoggerConfig is the default Logger middleware config.
var DefaultLoggerConfig = LoggerConfig{
	Skipper: DefaultSkipper,
}

// Logger returns a Logger middleware with default config.
func Logger() keygram.MiddlewareFunc {
	return LoggerWithConfig(DefaultLoggerConfig)
}

// LoggerWithConfig returns a Logger middleware with custom config. Handled
// updates are logged at info level, failed ones at error level.
func LoggerWithConfig(cfg LoggerConfig) keygram.MiddlewareFunc {
	if cfg.Skipper == nil {
		cfg.Skipper = DefaultLoggerConfig.Skipper
	}

	return func(next keygram.HandlerFunc) keygram.HandlerFunc {
		return func(c keygram.Context) error {
			if cfg.Skipper(c) {
				return next(c)
			}

			start := time.Now()
			err := next(c)

			entry := loggerFor(cfg, c).WithFields(logrus.Fields{
				"update_id": c.Update().ID,
				"kind":      updateKind(c),
				"sender":    c.Sender(),
				"chat":      c.Chat(),
				"duration":  time.Since(start),
			})
			if err != nil {
				entry.WithError(err).Error("update failed")
			} else {
				entry.Info("update handled")
			}

			return err
		}
	}
}

func loggerFor(cfg LoggerConfig, c keygram.Context) logrus.FieldLogger {
	if cfg.Logger != nil {
		return cfg.Logger
	}
	if b := c.Bot(); b != nil {
		return b.Logger()
	}
	return logrus.StandardLogger()
}

func updateKind(c keygram.Context) string {
	u := c.Update()
	switch {
	case u.Callback != nil:
		return "callback"
	case u.Message != nil:
		return "message"
	}
	return "other"
}
