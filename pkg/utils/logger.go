package utils

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"sync" // For thread-safe initialization

	"gopkg.in/natefinch/lumberjack.v2"
)

// LogFile is where the service log is rotated, relative to the working directory.
const LogFile = ".outreach/outreach.log"

// Logger represents the service logger.
type Logger struct {
	logger        *log.Logger
	closer        io.Closer
	jsonMode      bool
	correlationID string
	mu            sync.Mutex
}

var (
	globalLogger *Logger
	once         sync.Once
)

// GetLogger returns the singleton instance of Logger.
// It initializes the logger with a file handler that rotates logs.
func GetLogger() *Logger {
	once.Do(func() {
		logFile := &lumberjack.Logger{
			Filename:   LogFile,
			MaxSize:    15, // megabytes
			MaxBackups: 3,
			MaxAge:     28, // days
			Compress:   true,
		}
		globalLogger = NewLogger(logFile)
		globalLogger.closer = logFile
	})
	return globalLogger
}

// NewLogger creates a logger writing to w. JSON mode and the correlation id
// are read from OUTREACH_JSON_LOGS and OUTREACH_CORRELATION_ID.
func NewLogger(w io.Writer) *Logger {
	l := &Logger{logger: log.New(w, "", log.LstdFlags)}
	if os.Getenv("OUTREACH_JSON_LOGS") == "1" {
		l.jsonMode = true
	}
	if cid := os.Getenv("OUTREACH_CORRELATION_ID"); cid != "" {
		l.correlationID = cid
	}
	return l
}

// DiscardLogger returns a logger that drops everything.
func DiscardLogger() *Logger {
	return NewLogger(io.Discard)
}

// SetJSONMode switches between plain and JSON line output.
func (w *Logger) SetJSONMode(enabled bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.jsonMode = enabled
}

// WithCorrelationID returns a copy of the logger tagging every line with cid.
// Jobs use the message id so one request can be followed across retries.
func (w *Logger) WithCorrelationID(cid string) *Logger {
	w.mu.Lock()
	defer w.mu.Unlock()
	return &Logger{
		logger:        w.logger,
		jsonMode:      w.jsonMode,
		correlationID: cid,
	}
}

// Close closes the logger resources.
func (w *Logger) Close() error {
	if w.closer != nil {
		return w.closer.Close()
	}
	return nil
}

// LogProcessStep logs the current step in a pipeline.
func (w *Logger) LogProcessStep(step string) {
	w.write("info", "Process Step: "+step)
}

// Log logs a general message only to the log file.
func (w *Logger) Log(message string) {
	w.write("info", message)
}

// Logf logs a formatted general message only to the log file.
func (w *Logger) Logf(format string, v ...interface{}) {
	w.write("info", fmt.Sprintf(format, v...))
}

// Warnf logs a formatted warning.
func (w *Logger) Warnf(format string, v ...interface{}) {
	w.write("warn", fmt.Sprintf(format, v...))
}

func (w *Logger) LogError(err error) {
	if err == nil {
		return
	}
	if w.jsonMode {
		_ = json.NewEncoder(w.logger.Writer()).Encode(map[string]any{"level": "error", "error": FormatError(err), "cid": w.correlationID})
		return
	}
	w.prefixed("Error: " + FormatError(err))
}

func (w *Logger) write(level, message string) {
	if w.jsonMode {
		_ = json.NewEncoder(w.logger.Writer()).Encode(map[string]any{"level": level, "msg": message, "cid": w.correlationID})
		return
	}
	if level == "warn" {
		message = "Warning: " + message
	}
	w.prefixed(message)
}

func (w *Logger) prefixed(message string) {
	if w.correlationID != "" {
		message = "[" + w.correlationID + "] " + message
	}
	w.logger.Print(message)
}
