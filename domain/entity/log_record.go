package entity

import "time"

type LogLevel string

const (
	LogLevelInfo    LogLevel = "info"
	LogLevelSuccess LogLevel = "success"
	LogLevelWarning LogLevel = "warning"
	LogLevelError   LogLevel = "error"
)

type LogRecord struct {
	Level     LogLevel
	Message   string
	Timestamp time.Time
}
