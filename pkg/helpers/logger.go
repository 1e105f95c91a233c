package helpers

import (
	"os"

	"github.com/sirupsen/logrus"
)

// NewLogger builds the process logger: human-readable debug output in
// development, JSON at info level everywhere else. app and env ride along on
// every entry.
func NewLogger(appName, env string) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stdout)

	if env == "development" {
		logger.SetLevel(logrus.DebugLevel)
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	} else {
		logger.SetLevel(logrus.InfoLevel)
		logger.SetFormatter(&logrus.JSONFormatter{})
	}

	logger.AddHook(&fieldsHook{fields: logrus.Fields{"app": appName, "env": env}})
	return logger
}

type fieldsHook struct {
	fields logrus.Fields
}

func (h *fieldsHook) Levels() []logrus.Level { return logrus.AllLevels }

func (h *fieldsHook) Fire(e *logrus.Entry) error {
	for k, v := range h.fields {
		if _, ok := e.Data[k]; !ok {
			e.Data[k] = v
		}
	}
	return nil
}
