package logs

import (
	"io"
	"log"
	"os"
	"path/filepath"
	"sync"
)

const prefix = "[jetnotes] "

// Logger is never reassigned; Initialize and Close only swap its output, so
// background goroutines may log while the file changes.
var (
	Logger  = log.New(io.Discard, prefix, log.LstdFlags|log.Lshortfile)
	logFile *os.File
	mu      sync.Mutex
)

// Initialize points the logger at debug.log inside logDir. Until it is
// called, log output is discarded so that tests and CLI runs do not leave
// stray files behind.
func Initialize(logDir string) error {
	mu.Lock()
	defer mu.Unlock()

	if logDir == "" {
		return nil
	}

	if err := os.MkdirAll(logDir, 0755); err != nil {
		return err
	}

	logPath := filepath.Join(logDir, "debug.log")

	f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		Logger.Printf("Failed to open new log file at %s: %v", logPath, err)
		return err
	}

	// switch writers before closing the old file
	Logger.SetOutput(f)
	if logFile != nil {
		logFile.Close()
	}
	logFile = f

	Logger.Printf("Logger initialized at: %s", logPath)

	return nil
}

// Close closes the log file.
func Close() error {
	mu.Lock()
	defer mu.Unlock()

	if logFile != nil {
		Logger.SetOutput(io.Discard)
		err := logFile.Close()
		logFile = nil
		return err
	}
	return nil
}
