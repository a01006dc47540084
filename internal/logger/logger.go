package logger

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

const logFileName = "cinefinder.log"

// Logger wraps zerolog for application logging.
type Logger struct {
	zerolog.Logger
	rotator     *lumberjack.Logger
	broadcaster *LogBroadcaster
}

// Config holds logger configuration.
type Config struct {
	Level      string
	Format     string // "console" or "json"
	Path       string // directory for log files
	MaxSizeMB  int    // max size in MB before rotation (default: 10)
	MaxBackups int    // max number of old log files to keep (default: 5)
	MaxAgeDays int    // max age in days to keep old files (default: 30)
	Compress   bool

	// EnableStreaming keeps recent entries in memory and forwards them to a
	// Broadcaster once one is attached with SetBroadcastHub.
	EnableStreaming bool
	BufferSize      int
}

// IsDevBuild returns true if running via "go run".
func IsDevBuild() bool {
	exe, err := os.Executable()
	if err != nil {
		return false
	}
	return strings.Contains(exe, "go-build")
}

// New creates a new logger instance.
// Dev builds log at debug level unless trace is configured.
func New(cfg Config) *Logger {
	var consoleOutput io.Writer

	if cfg.Format == "json" {
		consoleOutput = os.Stdout
	} else {
		consoleOutput = zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: time.RFC3339,
		}
	}

	level := parseLevel(cfg.Level)
	if IsDevBuild() && level > zerolog.DebugLevel {
		level = zerolog.DebugLevel
	}

	writers := []io.Writer{consoleOutput}

	rotator := newRotator(cfg)
	if rotator != nil {
		writers = append(writers, rotator)
	}

	var broadcaster *LogBroadcaster
	if cfg.EnableStreaming {
		broadcaster = NewLogBroadcaster(nil, cfg.BufferSize)
		writers = append(writers, broadcaster)
	}

	var output io.Writer = consoleOutput
	if len(writers) > 1 {
		output = zerolog.MultiLevelWriter(writers...)
	}

	logger := zerolog.New(output).
		Level(level).
		With().
		Timestamp().
		Logger()

	return &Logger{Logger: logger, rotator: rotator, broadcaster: broadcaster}
}

func newRotator(cfg Config) *lumberjack.Logger {
	if cfg.Path == "" {
		return nil
	}
	if err := os.MkdirAll(cfg.Path, 0o755); err != nil {
		return nil
	}

	maxSize := cfg.MaxSizeMB
	if maxSize <= 0 {
		maxSize = 10
	}
	maxBackups := cfg.MaxBackups
	if maxBackups <= 0 {
		maxBackups = 5
	}
	maxAge := cfg.MaxAgeDays
	if maxAge <= 0 {
		maxAge = 30
	}

	return &lumberjack.Logger{
		Filename:   filepath.Join(cfg.Path, logFileName),
		MaxSize:    maxSize,
		MaxBackups: maxBackups,
		MaxAge:     maxAge,
		Compress:   cfg.Compress,
		LocalTime:  true,
	}
}

// SetBroadcastHub starts forwarding log entries to hub.
// It is a no-op when streaming is disabled.
func (l *Logger) SetBroadcastHub(hub Broadcaster) {
	if l.broadcaster != nil {
		l.broadcaster.SetHub(hub)
	}
}

// RecentLogs returns the buffered entries, oldest first.
func (l *Logger) RecentLogs() []LogEntry {
	if l.broadcaster == nil {
		return nil
	}
	return l.broadcaster.GetRecentLogs()
}

// LogFilePath returns the active log file, or "" when file logging is off.
func (l *Logger) LogFilePath() string {
	if l.rotator == nil {
		return ""
	}
	return l.rotator.Filename
}

// Close closes the log file if one is open.
func (l *Logger) Close() error {
	if l.rotator != nil {
		return l.rotator.Close()
	}
	return nil
}

// parseLevel converts string level to zerolog.Level
func parseLevel(level string) zerolog.Level {
	switch level {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "fatal":
		return zerolog.FatalLevel
	default:
		return zerolog.InfoLevel
	}
}

// WithComponent returns a zerolog logger tagged with component.
func (l *Logger) WithComponent(component string) zerolog.Logger {
	return l.Logger.With().Str("component", component).Logger()
}
