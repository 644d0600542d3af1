package log

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestSetupWritesFiles(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")
	cfg := DefaultConfig()
	cfg.Console = false
	cfg.Directory = dir
	if err := Setup(cfg); err != nil {
		t.Fatal(err)
	}
	Info("hello", zap.String("k", "v"))
	Error("broken")
	Sync()

	info, err := os.ReadFile(filepath.Join(dir, "info.log"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(info), "hello") || !strings.Contains(string(info), "broken") {
		t.Errorf("info log = %q", info)
	}
	errLog, err := os.ReadFile(filepath.Join(dir, "error.log"))
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(errLog), "hello") || !strings.Contains(string(errLog), "broken") {
		t.Errorf("error log = %q", errLog)
	}
}

func TestSetupFromEnvYaml(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "log.yaml")
	content := "level: debug\nconsole: false\nlog_directory: " + filepath.Join(dir, "out") + "\n"
	if err := os.WriteFile(cfgPath, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv(EnvConfigKey, cfgPath)
	if err := SetupFromEnv(); err != nil {
		t.Fatal(err)
	}
	Debug("visible at debug level")
	Sync()
	raw, err := os.ReadFile(filepath.Join(dir, "out", "info.log"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(raw), "visible at debug level") {
		t.Errorf("log = %q", raw)
	}
}

func TestSetupFromEnvUnsetFallsBack(t *testing.T) {
	t.Setenv(EnvConfigKey, "")
	if err := SetupFromEnv(); err != nil {
		t.Fatal(err)
	}
}

func TestSetLogger(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	SetLogger(zap.New(core))
	Info("through injected logger")
	if logs.FilterMessage("through injected logger").Len() != 1 {
		t.Error("injected logger not used")
	}
}

func TestHeapField(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	SetLogger(zap.New(core))
	heapStats.Store(true)
	defer heapStats.Store(false)
	Info("with heap")
	entry := logs.FilterMessage("with heap").All()
	if len(entry) != 1 {
		t.Fatal("entry missing")
	}
	found := false
	for _, f := range entry[0].Context {
		if f.Key == "heap_mb" {
			found = true
		}
	}
	if !found {
		t.Error("heap_mb field missing")
	}
}
