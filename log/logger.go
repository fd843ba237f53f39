package log

import "log"

type Logger struct {
	Level string
}

func NewLogger(level string) *Logger {
	return &Logger{Level: level}
}

func (l *Logger) Info(msg string) {
	if l.Level == "info" || l.Level == "debug" {
		log.Println("[INFO]", msg)
	}
}

func (l *Logger) Infof(format string, args ...interface{}) {
	if l.Level == "info" || l.Level == "debug" {
		log.Printf("[INFO] "+format, args...)
	}
}

func (l *Logger) Debug(msg string) {
	if l.Level == "debug" {
		log.Println("[DEBUG]", msg)
	}
}

func (l *Logger) Debugf(format string, args ...interface{}) {
	if l.Level == "debug" {
		log.Printf("[DEBUG] "+format, args...)
	}
}

func (l *Logger) Error(msg string) {
	log.Println("[ERROR]", msg)
}

func (l *Logger) Errorf(format string, args ...interface{}) {
	log.Printf("[ERROR] "+format, args...)
}
