package logger

import (
	"os"

	"github.com/sirupsen/logrus"
)

// Log is the shared logger instance used across the application.
var Log *logrus.Logger

// Init configures the global logger. It must be called once at startup,
// before any other package logs.
func Init() {
	Log = logrus.New()
	Log.SetOutput(os.Stdout)
	Log.SetFormatter(&logrus.JSONFormatter{})
	Log.SetLevel(logrus.InfoLevel)
}
