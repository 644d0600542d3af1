package log

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

// EnvConfigKey names the env var holding the path of an optional logging
// config file (JSON or YAML, chosen by extension).
const EnvConfigKey = "LOG_CONFIG"

type Config struct {
	Level     string `json:"level" yaml:"level"`
	Console   bool   `json:"console" yaml:"console"`
	Directory string `json:"log_directory" yaml:"log_directory"`
	InfoFile  string `json:"info_file" yaml:"info_file"`
	ErrorFile string `json:"error_file" yaml:"error_file"`
	HeapStats bool   `json:"heap_stats" yaml:"heap_stats"`
}

func DefaultConfig() Config {
	return Config{
		Level:     "info",
		Console:   true,
		InfoFile:  "info.log",
		ErrorFile: "error.log",
	}
}

// SetupFromEnv builds the module logger from the file named by EnvConfigKey,
// falling back to the basic console setup when the var is unset.
func SetupFromEnv() error {
	path := os.Getenv(EnvConfigKey)
	if path == "" {
		Info("logging config path not found, using basic setup")
		return nil
	}
	cfg, err := loadConfigFile(path)
	if err != nil {
		return err
	}
	return Setup(cfg)
}

func loadConfigFile(path string) (cfg Config, err error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return
	}
	cfg = DefaultConfig()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(raw, &cfg)
	default:
		err = json.Unmarshal(raw, &cfg)
	}
	return
}

// Setup replaces the module logger according to cfg. The log directory is
// created when file outputs are requested.
func Setup(cfg Config) error {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		level = zapcore.InfoLevel
	}
	var cores []zapcore.Core
	if cfg.Console {
		enc := zapcore.NewConsoleEncoder(basicConfig(level).EncoderConfig)
		cores = append(cores, zapcore.NewCore(enc, zapcore.Lock(os.Stderr), level))
	}
	if cfg.Directory != "" {
		if err = os.MkdirAll(cfg.Directory, os.ModePerm); err != nil {
			return fmt.Errorf("log directory: %w", err)
		}
		encCfg := zap.NewProductionEncoderConfig()
		encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
		enc := zapcore.NewJSONEncoder(encCfg)
		if cfg.InfoFile != "" {
			core, e := fileCore(enc, filepath.Join(cfg.Directory, cfg.InfoFile), level)
			if e != nil {
				return e
			}
			cores = append(cores, core)
		}
		if cfg.ErrorFile != "" {
			core, e := fileCore(enc, filepath.Join(cfg.Directory, cfg.ErrorFile), zapcore.ErrorLevel)
			if e != nil {
				return e
			}
			cores = append(cores, core)
		}
	}
	if len(cores) == 0 {
		cores = append(cores, zapcore.NewNopCore())
	}
	heapStats.Store(cfg.HeapStats)
	logger.Store(zap.New(zapcore.NewTee(cores...), zap.AddCaller(), zap.AddCallerSkip(1)))
	Info("logging config setup success")
	return nil
}

// Elapsed logs the duration of the enclosing call when the returned func
// runs, usually via defer:
//
//	defer log.Elapsed("write frame")()
func Elapsed(name string, fields ...zap.Field) func() {
	start := time.Now()
	return func() {
		Info(name+" done", append(fields, zap.Duration("elapsed", time.Since(start)))...)
	}
}
