package log

import (
	"github.com/sirupsen/logrus"
)

// InitLogs returns a logger configured for the agent process.
func InitLogs() *logrus.Logger {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})
	return log
}

// PrefixLogger is a logrus-backed logger that prefixes every entry with a
// component name, so interleaved agent components remain distinguishable.
type PrefixLogger struct {
	logger *logrus.Logger
	prefix string
}

// NewPrefixLogger creates a new PrefixLogger with the given prefix.
func NewPrefixLogger(prefix string) *PrefixLogger {
	return &PrefixLogger{
		logger: InitLogs(),
		prefix: prefix,
	}
}

func (l *PrefixLogger) Prefix() string {
	return l.prefix
}

func (l *PrefixLogger) SetLevel(level logrus.Level) {
	l.logger.SetLevel(level)
}

func (l *PrefixLogger) Level() logrus.Level {
	return l.logger.GetLevel()
}

func (l *PrefixLogger) entry() *logrus.Entry {
	if l.prefix == "" {
		return logrus.NewEntry(l.logger)
	}
	return l.logger.WithField("component", l.prefix)
}

func (l *PrefixLogger) Debug(args ...interface{}) {
	l.entry().Debug(args...)
}

func (l *PrefixLogger) Debugf(format string, args ...interface{}) {
	l.entry().Debugf(format, args...)
}

func (l *PrefixLogger) Info(args ...interface{}) {
	l.entry().Info(args...)
}

func (l *PrefixLogger) Infof(format string, args ...interface{}) {
	l.entry().Infof(format, args...)
}

func (l *PrefixLogger) Warn(args ...interface{}) {
	l.entry().Warn(args...)
}

func (l *PrefixLogger) Warnf(format string, args ...interface{}) {
	l.entry().Warnf(format, args...)
}

func (l *PrefixLogger) Error(args ...interface{}) {
	l.entry().Error(args...)
}

func (l *PrefixLogger) Errorf(format string, args ...interface{}) {
	l.entry().Errorf(format, args...)
}

// WithPrefix returns a logger sharing the underlying logrus instance but
// tagged with a different component prefix.
func (l *PrefixLogger) WithPrefix(prefix string) *PrefixLogger {
	return &PrefixLogger{
		logger: l.logger,
		prefix: prefix,
	}
}
