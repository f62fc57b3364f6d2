// Package logger writes timewise's diagnostic log. Entries go to a rotating
// file under the config directory; debug runs mirror them to stderr.
package logger

import (
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/julianstephens/timewise/internal/constants"
)

// Logger is the process-wide sink. It stays nil until Init or UseWriter, and
// every helper in this package is a no-op while it is.
var Logger *log.Logger

type Config struct {
	Debug     bool
	ConfigDir string
}

// LogPath is where Init writes for a given config directory.
func LogPath(configDir string) string {
	return filepath.Join(configDir, "logs", constants.AppName+".log")
}

// Init opens the rotating log file. Normal runs only record warnings and
// errors; saves, loads and migrations are logged at debug.
func Init(cfg Config) error {
	path := LogPath(cfg.ConfigDir)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	var w io.Writer = &lumberjack.Logger{
		Filename:   path,
		MaxSize:    5, // megabytes
		MaxBackups: 2,
		MaxAge:     30, // days
		Compress:   true,
	}
	level := log.WarnLevel
	if cfg.Debug {
		level = log.DebugLevel
		w = io.MultiWriter(os.Stderr, w)
	}

	Logger = log.NewWithOptions(w, log.Options{
		ReportCaller:    cfg.Debug,
		ReportTimestamp: true,
		Level:           level,
		Prefix:          constants.AppName,
	})
	return nil
}

// UseWriter points the sink at w, for tests that assert on log output.
func UseWriter(w io.Writer, level log.Level) {
	Logger = log.NewWithOptions(w, log.Options{Level: level, Prefix: constants.AppName})
}

func emit(level log.Level, msg string, keyvals []interface{}) {
	if Logger != nil {
		Logger.Log(level, msg, keyvals...)
	}
}

func Debug(msg string, keyvals ...interface{}) { emit(log.DebugLevel, msg, keyvals) }
func Info(msg string, keyvals ...interface{})  { emit(log.InfoLevel, msg, keyvals) }
func Warn(msg string, keyvals ...interface{})  { emit(log.WarnLevel, msg, keyvals) }
func Error(msg string, keyvals ...interface{}) { emit(log.ErrorLevel, msg, keyvals) }

// Scope prefixes a fixed set of key-value pairs to each entry. The zero
// value adds nothing.
type Scope struct {
	keyvals []interface{}
}

// Collection scopes entries to one stored collection, so every line about
// a load, save or migration names the collection it touched.
func Collection(name string) Scope {
	return Scope{keyvals: []interface{}{"collection", name}}
}

// With returns a copy of s carrying extra pairs.
func (s Scope) With(keyvals ...interface{}) Scope {
	kv := make([]interface{}, 0, len(s.keyvals)+len(keyvals))
	kv = append(kv, s.keyvals...)
	return Scope{keyvals: append(kv, keyvals...)}
}

// Records adds the number of records the entry is about.
func (s Scope) Records(n int) Scope {
	return s.With("records", n)
}

func (s Scope) log(level log.Level, msg string, keyvals []interface{}) {
	emit(level, msg, s.With(keyvals...).keyvals)
}

func (s Scope) Debug(msg string, keyvals ...interface{}) { s.log(log.DebugLevel, msg, keyvals) }
func (s Scope) Info(msg string, keyvals ...interface{})  { s.log(log.InfoLevel, msg, keyvals) }
func (s Scope) Warn(msg string, keyvals ...interface{})  { s.log(log.WarnLevel, msg, keyvals) }
func (s Scope) Error(msg string, keyvals ...interface{}) { s.log(log.ErrorLevel, msg, keyvals) }
