// Package logging provides the file logger shared by all agentbrowser
// components.
//
// Every process run gets its own log file named after a random run ID:
//
//	~/.agentbrowser/logs/<run-id>-agentbrowser.log
//
// Components create their own *Logger with NewLogger; all of them append to
// the same file and tag each line with the component name. When the log
// file cannot be opened the logger falls back to stderr.
package logging

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Level orders log severities.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	default:
		return "ERROR"
	}
}

// ParseLevel parses a level name, defaulting to LevelInfo for unknown input.
func ParseLevel(s string) Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

// Logger writes leveled, component-tagged lines.
type Logger struct {
	runID     string
	component string
	file      *os.File
	logger    *log.Logger
	logPath   string
	mu        *sync.Mutex
	closeOnce *sync.Once
}

var (
	runID     string
	runIDOnce sync.Once

	// logDir is the directory where log files are stored. SetLogDirectory
	// may preset it before the first logger is created.
	logDir   string
	initOnce sync.Once
	initErr  error

	minLevel   = LevelDebug
	minLevelMu sync.RWMutex
)

func getRunID() string {
	runIDOnce.Do(func() {
		runID = uuid.New().String()
	})
	return runID
}

func initLogDirectory() error {
	initOnce.Do(func() {
		if logDir == "" {
			homeDir, err := os.UserHomeDir()
			if err != nil {
				initErr = fmt.Errorf("failed to get home directory: %w", err)
				return
			}
			logDir = filepath.Join(homeDir, ".agentbrowser", "logs")
		}
		if err := os.MkdirAll(logDir, 0750); err != nil {
			initErr = fmt.Errorf("failed to create log directory: %w", err)
		}
	})
	return initErr
}

// SetLogDirectory overrides the log directory. It only has an effect before
// the first call to NewLogger.
func SetLogDirectory(dir string) {
	logDir = dir
}

// SetLevel sets the minimum level written by all loggers.
func SetLevel(level Level) {
	minLevelMu.Lock()
	defer minLevelMu.Unlock()
	minLevel = level
}

func enabled(level Level) bool {
	minLevelMu.RLock()
	defer minLevelMu.RUnlock()
	return level >= minLevel
}

// NewLogger creates a logger for a component.
//
// If the log file cannot be opened, it returns a logger writing to stderr
// together with the error so callers can warn about the fallback.
func NewLogger(component string) (*Logger, error) {
	if err := initLogDirectory(); err != nil {
		return newFallbackLogger(component, err), err
	}

	id := getRunID()
	logPath := filepath.Join(logDir, fmt.Sprintf("%s-agentbrowser.log", id))

	// append mode: every component writes to the same file
	file, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		err = fmt.Errorf("failed to open log file: %w", err)
		return newFallbackLogger(component, err), err
	}

	return &Logger{
		runID:     id,
		component: component,
		file:      file,
		logger:    log.New(file, "", 0),
		logPath:   logPath,
		mu:        &sync.Mutex{},
		closeOnce: &sync.Once{},
	}, nil
}

func newFallbackLogger(component string, err error) *Logger {
	logger := log.New(os.Stderr, "", 0)
	l := &Logger{
		runID:     getRunID(),
		component: component,
		logger:    logger,
		mu:        &sync.Mutex{},
		closeOnce: &sync.Once{},
	}
	l.Warnf("failed to initialize file logging, using stderr: %v", err)
	return l
}

// Discard returns a logger that drops everything. Intended for tests and
// library callers that do not want log files.
func Discard() *Logger {
	return &Logger{
		component: "discard",
		logger:    log.New(io.Discard, "", 0),
		mu:        &sync.Mutex{},
		closeOnce: &sync.Once{},
	}
}

// With returns a logger for another component sharing the same output.
func (l *Logger) With(component string) *Logger {
	child := *l
	child.component = component
	return &child
}

func (l *Logger) write(level Level, format string, v ...interface{}) {
	if l == nil || !enabled(level) {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	timestamp := time.Now().Format("2006-01-02 15:04:05.000")
	l.logger.Printf("[%s] [%s] [%s] %s", timestamp, l.component, level, fmt.Sprintf(format, v...))
}

func (l *Logger) Debugf(format string, v ...interface{}) { l.write(LevelDebug, format, v...) }

func (l *Logger) Infof(format string, v ...interface{}) { l.write(LevelInfo, format, v...) }

func (l *Logger) Warnf(format string, v ...interface{}) { l.write(LevelWarn, format, v...) }

func (l *Logger) Errorf(format string, v ...interface{}) { l.write(LevelError, format, v...) }

// Writer returns the underlying output, for libraries that want an io.Writer.
func (l *Logger) Writer() io.Writer {
	if l.file != nil {
		return l.file
	}
	return l.logger.Writer()
}

// RunID returns the ID of the current process run.
func (l *Logger) RunID() string {
	return l.runID
}

// LogPath returns the log file path, or "" when not writing to a file.
func (l *Logger) LogPath() string {
	return l.logPath
}

// Close closes the log file. Safe to call multiple times. Loggers created
// with With share the file, so only the root logger should be closed.
func (l *Logger) Close() error {
	var err error
	l.closeOnce.Do(func() {
		if l.file != nil {
			err = l.file.Close()
		}
	})
	return err
}
