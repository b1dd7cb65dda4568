package logging

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/rishangit/s-ams-sub002/internal/config"
)

const serviceName = "appointments-backoffice"

// New builds the process logger from config.
func New(cfg *config.Config) *logrus.Logger {
	return NewWithOutput(cfg.LogLevel, cfg.LogFormat, os.Stdout)
}

func NewWithOutput(level, format string, out io.Writer) *logrus.Logger {
	logger := logrus.New()

	if format == "text" {
		logger.SetFormatter(&logrus.TextFormatter{
			TimestampFormat: "2006-01-02T15:04:05.000Z07:00",
			FullTimestamp:   true,
		})
	} else {
		logger.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02T15:04:05.000Z07:00",
			FieldMap: logrus.FieldMap{
				logrus.FieldKeyTime:  "time",
				logrus.FieldKeyLevel: "level",
				logrus.FieldKeyMsg:   "msg",
			},
		})
	}

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	logger.SetLevel(lvl)
	logger.SetOutput(out)

	logger.AddHook(&defaultFieldsHook{
		fields: logrus.Fields{"service": serviceName},
	})

	return logger
}

type defaultFieldsHook struct {
	fields logrus.Fields
}

func (h *defaultFieldsHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

func (h *defaultFieldsHook) Fire(entry *logrus.Entry) error {
	for k, v := range h.fields {
		if _, set := entry.Data[k]; !set {
			entry.Data[k] = v
		}
	}
	return nil
}
