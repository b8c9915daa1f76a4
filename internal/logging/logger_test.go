package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
)

func TestNewWritesToDataDir(t *testing.T) {
	dir := t.TempDir()

	log, err := New(dir, false)
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	log.Info("run saved", zap.String("run_id", "trampoline_abc12345"))
	if err := log.Sync(); err != nil {
		t.Logf("sync: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "jumpsim.log"))
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(data), "trampoline_abc12345") {
		t.Errorf("log file missing entry: %s", data)
	}
}

func TestNewCreatesDataDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", ".jumpsim")

	if _, err := New(dir, false); err != nil {
		t.Fatalf("new: %v", err)
	}
	if _, err := os.Stat(dir); err != nil {
		t.Errorf("data dir not created: %v", err)
	}
}
