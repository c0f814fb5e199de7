// Package logbook writes the planner's log file.
//
// Entries are logrus text lines appended to <plan dir>/logs/planner.log, each
// tagged with the id of the process that wrote it so interleaved runs can be
// told apart.
package logbook

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// FileName is the log file's name inside the logs directory.
const FileName = "planner.log"

// Logbook is an open log file with a session-scoped logger.
type Logbook struct {
	path    string
	session string
	mu      sync.Mutex
	file    *os.File
	logger  *logrus.Logger
}

// Open creates dir if needed and appends to dir/planner.log. level is a
// logrus level name; empty means info.
func Open(dir, level string) (*Logbook, error) {
	lvl := logrus.InfoLevel

	if level != "" {
		parsed, err := logrus.ParseLevel(level)
		if err != nil {
			return nil, fmt.Errorf("logbook: %w", err)
		}

		lvl = parsed
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("logbook: %w", err)
	}

	path := filepath.Join(dir, FileName)

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("logbook: %w", err)
	}

	logger := logrus.New()
	logger.SetOutput(file)
	logger.SetLevel(lvl)
	logger.SetFormatter(&logrus.TextFormatter{
		DisableColors:   true,
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02T15:04:05.000Z07:00",
	})

	return &Logbook{
		path:    path,
		session: uuid.NewString(),
		file:    file,
		logger:  logger,
	}, nil
}

// Path returns the file backing this logbook.
func (l *Logbook) Path() string {
	if l == nil {
		return ""
	}

	return l.path
}

// Session returns the id stamped on every entry.
func (l *Logbook) Session() string {
	return l.session
}

// Logger returns the session logger.
func (l *Logbook) Logger() logrus.FieldLogger {
	return l.logger.WithField("session", l.session)
}

// Close flushes and closes the log file. Close is idempotent.
func (l *Logbook) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.file == nil {
		return nil
	}

	err := l.file.Close()
	l.file = nil
	l.logger.SetOutput(io.Discard)

	return err
}

// Tail returns up to maxLines of the most recent entries in the log at path.
// A missing file has no entries.
func Tail(path string, maxLines int) ([]string, error) {
	if maxLines <= 0 {
		return nil, nil
	}

	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}

		return nil, fmt.Errorf("logbook: %w", err)
	}
	defer file.Close()

	var lines []string

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		lines = append(lines, scanner.Text())
		if len(lines) > maxLines {
			lines = lines[1:]
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("logbook: %w", err)
	}

	return lines, nil
}

// Discard returns a logger that drops everything.
func Discard() logrus.FieldLogger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	return logger
}
