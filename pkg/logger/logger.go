package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	maxSizeMB   = 1    // 1MB per file
	maxAgeDays  = 14   // Keep 2 weeks
	maxBackups  = 20   // Max old log files (safety limit)
	compressOld = true // Compress rotated logs
)

// Level represents the log level
type Level int

const (
	DEBUG Level = iota
	INFO
	WARN
	ERROR
)

func (l Level) String() string {
	switch l {
	case DEBUG:
		return "DEBUG"
	case INFO:
		return "INFO"
	case WARN:
		return "WARN"
	case ERROR:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel parses debug, info, warn (or warning) and error, case-insensitively
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return DEBUG, nil
	case "info":
		return INFO, nil
	case "warn", "warning":
		return WARN, nil
	case "error":
		return ERROR, nil
	default:
		return WARN, fmt.Errorf("unknown log level %q", s)
	}
}

// Options configures the process-wide logger
type Options struct {
	Level Level
	// FilePath sends logs to a rotating file instead of stderr
	FilePath string
}

// Logger writes leveled log lines to stderr or a rotating file.
// stdout is never used: it carries the scan output.
type Logger struct {
	file    io.WriteCloser
	logger  *log.Logger
	logPath string
	level   Level
	mu      sync.Mutex
}

var (
	instance *Logger
	initMu   sync.Mutex
)

// New creates a logger writing to w
func New(w io.Writer, level Level) *Logger {
	return &Logger{
		logger: log.New(w, "", 0), // We'll format manually
		level:  level,
	}
}

// Init replaces the process-wide logger
func Init(opts Options) error {
	initMu.Lock()
	defer initMu.Unlock()

	if opts.FilePath == "" {
		closeInstance()
		instance = New(os.Stderr, opts.Level)
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(opts.FilePath), 0755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}

	// Use lumberjack for automatic log rotation
	rotator := &lumberjack.Logger{
		Filename:   opts.FilePath,
		MaxSize:    maxSizeMB,   // megabytes
		MaxAge:     maxAgeDays,  // days
		MaxBackups: maxBackups,  // number of old files
		Compress:   compressOld, // compress old files
		LocalTime:  true,        // use local time for filenames
	}

	closeInstance()
	instance = &Logger{
		file:    rotator,
		logger:  log.New(rotator, "", 0),
		logPath: opts.FilePath,
		level:   opts.Level,
	}
	return nil
}

// Get returns the logger instance, defaulting to WARN on stderr
func Get() *Logger {
	initMu.Lock()
	defer initMu.Unlock()
	if instance == nil {
		instance = New(os.Stderr, WARN)
	}
	return instance
}

// Reset drops the process-wide logger so the next Get or Init starts fresh.
// Used by tests.
func Reset() {
	initMu.Lock()
	defer initMu.Unlock()
	closeInstance()
	instance = nil
}

// Close closes the log file, if any
func Close() error {
	initMu.Lock()
	defer initMu.Unlock()
	if instance != nil && instance.file != nil {
		err := instance.file.Close()
		instance.file = nil
		return err
	}
	return nil
}

func closeInstance() {
	if instance != nil && instance.file != nil {
		instance.file.Close()
	}
}

// SetLevel sets the minimum log level
func (l *Logger) SetLevel(level Level) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.level = level
}

// Level returns the minimum log level
func (l *Logger) Level() Level {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.level
}

// LogPath returns the path to the log file ("" when logging to stderr)
func (l *Logger) LogPath() string {
	return l.logPath
}

func (l *Logger) log(level Level, format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if level < l.level {
		return
	}

	timestamp := time.Now().Format("2006-01-02 15:04:05")
	message := fmt.Sprintf(format, args...)
	l.logger.Printf("[%s] %s: %s", timestamp, level, message)
}

// Debug logs a debug message
func (l *Logger) Debug(format string, args ...interface{}) {
	l.log(DEBUG, format, args...)
}

// Info logs an info message
func (l *Logger) Info(format string, args ...interface{}) {
	l.log(INFO, format, args...)
}

// Warn logs a warning message
func (l *Logger) Warn(format string, args ...interface{}) {
	l.log(WARN, format, args...)
}

// Error logs an error message
func (l *Logger) Error(format string, args ...interface{}) {
	l.log(ERROR, format, args...)
}

// Package-level convenience functions
func Debug(format string, args ...interface{}) {
	Get().Debug(format, args...)
}

func Info(format string, args ...interface{}) {
	Get().Info(format, args...)
}

func Warn(format string, args ...interface{}) {
	Get().Warn(format, args...)
}

func Error(format string, args ...interface{}) {
	Get().Error(format, args...)
}
