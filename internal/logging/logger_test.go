package logging

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestNewLoggerLevels(t *testing.T) {
	tests := []struct {
		name       string
		level      LogLevel
		wantInfo   bool
		wantDebug  bool
		wantWarn   bool
		wantErrors bool
	}{
		{"quiet shows errors only", LogLevelQuiet, false, false, false, true},
		{"normal shows warnings and errors", LogLevelNormal, false, false, true, true},
		{"verbose shows info and debug", LogLevelVerbose, true, true, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger, err := NewLogger(Config{Level: tt.level, Output: &buf})
			if err != nil {
				t.Fatalf("Failed to create logger: %v", err)
			}

			logger.Info("info message")
			logger.Debug("debug message")
			logger.Warn("warn message")
			logger.Error("error message")

			output := buf.String()
			if got := strings.Contains(output, "info message"); got != tt.wantInfo {
				t.Errorf("info visibility: expected %v, got %v", tt.wantInfo, got)
			}
			if got := strings.Contains(output, "debug message"); got != tt.wantDebug {
				t.Errorf("debug visibility: expected %v, got %v", tt.wantDebug, got)
			}
			if got := strings.Contains(output, "warn message"); got != tt.wantWarn {
				t.Errorf("warn visibility: expected %v, got %v", tt.wantWarn, got)
			}
			if got := strings.Contains(output, "error message"); got != tt.wantErrors {
				t.Errorf("error visibility: expected %v, got %v", tt.wantErrors, got)
			}
		})
	}
}

func TestNewLoggerJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewLogger(Config{Level: LogLevelVerbose, Output: &buf, Format: "json"})
	if err != nil {
		t.Fatalf("Failed to create logger: %v", err)
	}

	logger.Info("structured message")

	if !strings.Contains(buf.String(), `"msg":"structured message"`) {
		t.Errorf("Expected JSON output, got %q", buf.String())
	}
}

func TestNewLoggerWritesToLogFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.log")

	var buf bytes.Buffer
	logger, err := NewLogger(Config{Level: LogLevelVerbose, Output: &buf, LogFile: path})
	if err != nil {
		t.Fatalf("Failed to create logger: %v", err)
	}

	logger.Info("written to both")

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read log file: %v", err)
	}
	if !strings.Contains(string(data), "written to both") {
		t.Error("Expected message in log file")
	}
	if !strings.Contains(buf.String(), "written to both") {
		t.Error("Expected message on primary output")
	}
}

func TestNewLoggerRejectsUnwritableLogFile(t *testing.T) {
	_, err := NewLogger(Config{
		Level:   LogLevelNormal,
		LogFile: filepath.Join(t.TempDir(), "missing", "run.log"),
	})
	if err == nil {
		t.Error("Expected error for unwritable log file path")
	}
}

func TestGetLevel(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewLogger(Config{Level: LogLevelVerbose, Output: &buf})
	if err != nil {
		t.Fatalf("Failed to create logger: %v", err)
	}
	if logger.GetLevel() != LogLevelVerbose {
		t.Errorf("Expected verbose level, got %s", logger.GetLevel())
	}
}

func TestLogRowInsertionIncludesRowIdentity(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewLogger(Config{Level: LogLevelNormal, Output: &buf})
	if err != nil {
		t.Fatalf("Failed to create logger: %v", err)
	}

	logger.LogRowInsertion("users", int64(42), errors.New("duplicate entry"))

	output := buf.String()
	if !strings.Contains(output, "users") {
		t.Error("Expected table name in output")
	}
	if !strings.Contains(output, "42") {
		t.Error("Expected row identity in output")
	}
	if !strings.Contains(output, "duplicate entry") {
		t.Error("Expected error detail in output")
	}
}

func TestLogTableRestoreWarnsOnRowFailures(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewLogger(Config{Level: LogLevelNormal, Output: &buf})
	if err != nil {
		t.Fatalf("Failed to create logger: %v", err)
	}

	logger.LogTableRestore("orders", 9, 1, time.Second)

	output := buf.String()
	if !strings.Contains(output, "warning") && !strings.Contains(output, "level=warning") {
		t.Errorf("Expected warning level for partial failure, got %q", output)
	}
}
