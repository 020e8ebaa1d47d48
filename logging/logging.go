package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
)

// FileName is the active log file inside the log directory
const FileName = "fleetview.log"

const defaultMaxSizeMB = 10

// Options selects where debug logs go
type Options struct {
	Dir       string
	MaxSizeMB int
	Debug     bool
}

// Setup returns a logger writing JSON lines to Dir/FileName when Debug is set
// The terminal belongs to the UI, so logs never reach stdout or stderr
// Without Debug the logger is disabled and the returned closer is a no-op
func Setup(opts Options) (zerolog.Logger, io.Closer, error) {
	if !opts.Debug {
		return zerolog.New(io.Discard).Level(zerolog.Disabled), nopCloser{}, nil
	}

	if err := os.MkdirAll(opts.Dir, 0o755); err != nil {
		return zerolog.Nop(), nopCloser{}, fmt.Errorf("failed to create log directory: %w", err)
	}

	path := filepath.Join(opts.Dir, FileName)
	maxSize := opts.MaxSizeMB
	if maxSize <= 0 {
		maxSize = defaultMaxSizeMB
	}
	if err := rotate(path, int64(maxSize)<<20, time.Now()); err != nil {
		return zerolog.Nop(), nopCloser{}, err
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return zerolog.Nop(), nopCloser{}, fmt.Errorf("failed to open log file: %w", err)
	}

	log := zerolog.New(f).Level(zerolog.DebugLevel).With().Timestamp().Logger()
	log.Info().Str("path", path).Msg("logging started")
	return log, f, nil
}

// rotate renames path with a timestamp suffix once it exceeds limit bytes
func rotate(path string, limit int64, now time.Time) error {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to stat log file: %w", err)
	}
	if info.Size() <= limit {
		return nil
	}

	ext := filepath.Ext(path)
	rotated := fmt.Sprintf("%s.%s%s", path[:len(path)-len(ext)], now.Format("20060102-150405"), ext)
	if err := os.Rename(path, rotated); err != nil {
		return fmt.Errorf("failed to rotate log file: %w", err)
	}
	return nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
