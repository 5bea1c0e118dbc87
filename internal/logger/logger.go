// Package logger provides leveled logging for the bulletin service.
package logger

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"
	"time"
)

// Level represents a logging level.
type Level int

const (
	DebugLevel Level = iota
	InfoLevel
	WarnLevel
	ErrorLevel
)

var levelNames = map[Level]string{
	DebugLevel: "debug",
	InfoLevel:  "info",
	WarnLevel:  "warn",
	ErrorLevel: "error",
}

type Logger struct {
	level  Level
	json   bool
	logger *log.Logger
}

var defaultLogger = &Logger{level: InfoLevel, logger: log.New(os.Stderr, "", log.LstdFlags|log.Lmicroseconds)}

// Init configures the default logger. format is "json" or "text".
func Init(level string, format string) {
	l := InfoLevel
	switch strings.ToLower(level) {
	case "debug":
		l = DebugLevel
	case "warn":
		l = WarnLevel
	case "error":
		l = ErrorLevel
	}

	asJSON := strings.ToLower(format) == "json"
	flags := log.LstdFlags | log.Lmicroseconds
	if asJSON {
		flags = 0 // timestamp lives inside the JSON line
	}

	defaultLogger = &Logger{
		level:  l,
		json:   asJSON,
		logger: log.New(os.Stderr, "", flags),
	}
}

func (l *Logger) output(level Level, format string, args ...interface{}) {
	if l.level > level {
		return
	}
	msg := fmt.Sprintf(format, args...)
	if l.json {
		line, _ := json.Marshal(map[string]string{
			"time":  time.Now().Format(time.RFC3339Nano),
			"level": levelNames[level],
			"msg":   msg,
		})
		_ = l.logger.Output(3, string(line))
		return
	}
	_ = l.logger.Output(3, "["+strings.ToUpper(levelNames[level])+"] "+msg)
}

func Debug(format string, args ...interface{}) { defaultLogger.output(DebugLevel, format, args...) }
func Info(format string, args ...interface{})  { defaultLogger.output(InfoLevel, format, args...) }
func Warn(format string, args ...interface{})  { defaultLogger.output(WarnLevel, format, args...) }
func Error(format string, args ...interface{}) { defaultLogger.output(ErrorLevel, format, args...) }

func Fatal(format string, args ...interface{}) {
	defaultLogger.output(ErrorLevel, format, args...)
	os.Exit(1)
}
