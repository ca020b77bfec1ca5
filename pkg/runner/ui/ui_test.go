package ui

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"pkt.systems/pslog"
)

func TestOpenLogWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "daybook.log")
	logger, closeLog, err := OpenLog(path, "debug")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	logger.Debug("hello from test", "k", "v")
	closeLog()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !strings.Contains(string(data), "hello from test") {
		t.Fatalf("expected log line, got %q", data)
	}
}

func TestParseLevel(t *testing.T) {
	if ParseLevel("DEBUG") != pslog.DebugLevel {
		t.Fatalf("expected debug")
	}
	if ParseLevel("nonsense") != pslog.InfoLevel {
		t.Fatalf("expected info fallback")
	}
}
