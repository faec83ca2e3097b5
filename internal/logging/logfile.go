package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Log file names look like flowctl-20240102-150405-000.log.
const (
	logFilePrefix = "flowctl-"
	logFileSuffix = ".log"
)

// LogConfig holds configuration for log output. It maps onto the logging
// section of the configuration file.
type LogConfig struct {
	Format        string `yaml:"format,omitempty"`         // "human" (default), "text" or "json"
	Level         string `yaml:"level,omitempty"`          // "DEBUG", "INFO", "WARN" (default), "ERROR"
	Output        string `yaml:"output,omitempty"`         // "-" (default) for stderr, "none", "auto" or a path
	Dir           string `yaml:"dir,omitempty"`            // log directory, default <app-dir>/logs
	RetentionDays int    `yaml:"retention_days,omitempty"` // days to keep auto-named files, default 7
}

// LogFile is the destination selected by a LogConfig.
type LogFile struct {
	Path   string // empty unless logging to a file
	file   *os.File
	writer io.Writer
}

// NewLogFile opens the destination named by cfg.Output:
//   - "" or "-": stderr
//   - "none": discard
//   - "auto": a new timestamped file in Dir
//   - path: that file, relative to Dir unless absolute; appended to
func NewLogFile(cfg *LogConfig) (*LogFile, error) {
	lf := &LogFile{}

	switch out := strings.TrimSpace(cfg.Output); strings.ToLower(out) {
	case "", "-":
		lf.writer = os.Stderr
		return lf, nil
	case "none":
		lf.writer = io.Discard
		return lf, nil
	case "auto":
		lf.Path = filepath.Join(cfg.Dir, GenerateLogFilename(time.Now().UTC()))
	default:
		if filepath.IsAbs(out) {
			lf.Path = out
		} else {
			lf.Path = filepath.Join(cfg.Dir, out)
		}
	}

	dir := filepath.Dir(lf.Path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating log directory %q: %w", dir, err)
	}
	f, err := os.OpenFile(lf.Path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("opening log file %q: %w", lf.Path, err)
	}
	lf.file = f
	lf.writer = f
	return lf, nil
}

// Writer returns the io.Writer for log output.
func (lf *LogFile) Writer() io.Writer {
	return lf.writer
}

// Close closes the log file if one was opened.
func (lf *LogFile) Close() error {
	if lf == nil || lf.file == nil {
		return nil
	}
	return lf.file.Close()
}

// GenerateLogFilename returns flowctl-YYYYMMDD-HHMMSS-sss.log for t, where sss
// is milliseconds.
func GenerateLogFilename(t time.Time) string {
	return fmt.Sprintf("%s%s-%03d%s", logFilePrefix, t.Format("20060102-150405"), t.Nanosecond()/1_000_000, logFileSuffix)
}

// CleanupOldLogFiles removes flowctl-*.log files in dir not modified within
// retentionDays. Files that cannot be removed are skipped.
func CleanupOldLogFiles(dir string, retentionDays int) error {
	if retentionDays <= 0 {
		return nil
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("reading log directory %q: %w", dir, err)
	}

	cutoff := time.Now().AddDate(0, 0, -retentionDays)
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, logFilePrefix) || !strings.HasSuffix(name, logFileSuffix) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().Before(cutoff) {
			_ = os.Remove(filepath.Join(dir, name))
		}
	}
	return nil
}
