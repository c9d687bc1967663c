package logger

import "gitlab.com/fcv-2025.net/executor/internal/adapter/logging"

var Logger = logging.NewZapLogger()

// Configure replaces the process-wide logger
func Configure(debug bool) {
	Logger = logging.NewZapLoggerWithDebug(debug)
}

func Info(msg string, args ...interface{}) {
	Logger.Info(msg, args...)
}

func Error(msg string, args ...interface{}) {
	Logger.Error(msg, args...)
}

func Debug(msg string, args ...interface{}) {
	Logger.Debug(msg, args...)
}

func Warn(msg string, args ...interface{}) {
	Logger.Warn(msg, args...)
}
