package logging_helper

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gotradier/go_src/configuration"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	defaultRotationSizeMB = 2
	defaultMaxBackups     = 30
	timestampFormat       = "2006-01-02 15:04:05.000"
)

// LogFilePath returns {file_path}/{appName}/{appName}.log.
func LogFilePath(logConfig configuration.Logging, appName string) string {
	return filepath.Join(logConfig.FilePath, appName, appName+".log")
}

// SetupLogging points the logrus standard logger at a rotating file under
// logConfig.FilePath, optionally teed to stdout. The returned logger should
// be closed on shutdown.
func SetupLogging(config *configuration.Config, appName string) (*lumberjack.Logger, error) {
	if config == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}
	if appName == "" {
		return nil, fmt.Errorf("appName cannot be empty")
	}
	logConfig := config.GetLoggingConfig()

	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: timestampFormat,
	})

	level, levelErr := logrus.ParseLevel(strings.ToLower(logConfig.Level))
	if levelErr != nil {
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)

	if logConfig.FilePath == "" {
		return nil, fmt.Errorf("log_path (config.Logging.FilePath) is not configured")
	}
	logFile := LogFilePath(logConfig, appName)
	if err := os.MkdirAll(filepath.Dir(logFile), 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory '%s': %w", filepath.Dir(logFile), err)
	}

	var warnings []string
	rotationSize := logConfig.RotationSize
	if rotationSize <= 0 {
		warnings = append(warnings, fmt.Sprintf("logging.rotation_size is invalid (%d), defaulting to %dMB", rotationSize, defaultRotationSizeMB))
		rotationSize = defaultRotationSizeMB
	}
	maxBackups := logConfig.MaxBackups
	if maxBackups <= 0 {
		warnings = append(warnings, fmt.Sprintf("logging.max_backups is invalid (%d), defaulting to %d", maxBackups, defaultMaxBackups))
		maxBackups = defaultMaxBackups
	}

	rotating := &lumberjack.Logger{
		Filename:   logFile,
		MaxSize:    rotationSize,
		MaxBackups: maxBackups,
		Compress:   true,
	}

	var out io.Writer = rotating
	if logConfig.ConsoleOutput {
		out = io.MultiWriter(os.Stdout, rotating)
	}
	logrus.SetOutput(out)

	// Deferred until the file output is in place.
	for _, w := range warnings {
		logrus.Warn(w)
	}
	if levelErr != nil {
		logrus.Warnf("Invalid log level '%s' (from config) was overridden to 'info'. Error: %v", logConfig.Level, levelErr)
	}

	logrus.Infof("-------------------------------- Started %s --------------------------------", appName)
	logrus.Infof("Logging configured: Level=%s, File=%s, ConsoleOutput=%t", logrus.GetLevel().String(), logFile, logConfig.ConsoleOutput)
	return rotating, nil
}
