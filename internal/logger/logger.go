package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"
)

var Logger = slog.Default()

// Options select the handler and an optional rotating log file.
type Options struct {
	Debug  bool
	Format string // "text" or "json"
	File   string

	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

// OptionsFromEnv reads DEBUG, LOG_FORMAT and LOG_FILE.
func OptionsFromEnv() Options {
	return Options{
		Debug:      os.Getenv("DEBUG") == "true",
		Format:     os.Getenv("LOG_FORMAT"),
		File:       os.Getenv("LOG_FILE"),
		MaxSizeMB:  10,
		MaxBackups: 3,
		MaxAgeDays: 28,
	}
}

// Init builds the process logger from the environment and makes it the slog
// default.
func Init() {
	InitWith(OptionsFromEnv(), os.Stdout)
}

// InitWith builds the process logger writing to out, and to a rotated file
// when opts.File is set.
func InitWith(opts Options, out io.Writer) *slog.Logger {
	level := slog.LevelInfo
	if opts.Debug {
		level = slog.LevelDebug
	}
	hopts := &slog.HandlerOptions{Level: level}

	w := out
	if opts.File != "" {
		w = io.MultiWriter(out, &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    opts.MaxSizeMB,
			MaxBackups: opts.MaxBackups,
			MaxAge:     opts.MaxAgeDays,
			Compress:   true,
		})
	}

	if strings.EqualFold(opts.Format, "json") {
		Logger = slog.New(slog.NewJSONHandler(w, hopts))
	} else {
		Logger = slog.New(slog.NewTextHandler(w, hopts))
	}
	slog.SetDefault(Logger)
	return Logger
}

func Info(msg string, args ...any) {
	Logger.Info(msg, args...)
}

func Error(msg string, args ...any) {
	Logger.Error(msg, args...)
}

func Debug(msg string, args ...any) {
	Logger.Debug(msg, args...)
}

func Warn(msg string, args ...any) {
	Logger.Warn(msg, args...)
}
