package camlog

import "go.uber.org/zap"

// Logger is a minimal structured-logging interface (compatible with zap.SugaredLogger)
type Logger interface {
	Debugw(msg string, keysAndValues ...interface{})
	Infow(msg string, keysAndValues ...interface{})
	Warnw(msg string, keysAndValues ...interface{})
	Errorw(msg string, keysAndValues ...interface{})
}

// nopLogger is used by components when no logger is injected; it discards logs.
type nopLogger struct{}

func (nopLogger) Debugw(string, ...interface{}) {}
func (nopLogger) Infow(string, ...interface{})  {}
func (nopLogger) Warnw(string, ...interface{})  {}
func (nopLogger) Errorw(string, ...interface{}) {}

// Nop returns a logger that discards everything.
func Nop() Logger { return nopLogger{} }

// New builds the process-wide sugared logger. Console-friendly output since
// this runs attached to a terminal next to the preview window.
func New(debug bool) (*zap.SugaredLogger, error) {
	cfg := zap.NewDevelopmentConfig()
	if !debug {
		cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}
	logger, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	return logger.Sugar(), nil
}
