package kv

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/calvinalkan/gsmeac/internal/fs"
)

const (
	slotExt     = ".json"
	slotPerm    = 0o644
	dirPerm     = 0o755
	lockTimeout = 2 * time.Second
)

// FileStore keeps each slot in <dir>/<key>.json. Writes are atomic, and the
// directory is locked for the lifetime of the store so two planner processes
// cannot interleave backup rotations.
type FileStore struct {
	mu     sync.Mutex
	fs     fs.FS
	dir    string
	lock   *fs.Lock
	closed bool
}

// OpenFileStore creates dir if needed and takes its lock.
func OpenFileStore(fsys fs.FS, dir string) (*FileStore, error) {
	if dir == "" {
		return nil, errors.New("open file store: dir is empty")
	}

	err := fsys.MkdirAll(dir, dirPerm)
	if err != nil {
		return nil, fmt.Errorf("open file store: %w", err)
	}

	lock, err := fs.NewLocker(fsys).LockWithTimeout(filepath.Join(dir, ".locks", "planner.lock"), lockTimeout)
	if err != nil {
		if errors.Is(err, fs.ErrWouldBlock) {
			return nil, fmt.Errorf("%w: %s", ErrLocked, dir)
		}

		return nil, fmt.Errorf("open file store: %w", err)
	}

	return &FileStore{fs: fsys, dir: dir, lock: lock}, nil
}

// Dir returns the directory holding the slots.
func (s *FileStore) Dir() string {
	return s.dir
}

func (s *FileStore) Get(key string) ([]byte, error) {
	path, err := s.path(key)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, ErrClosed
	}

	data, err := s.fs.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, key)
		}

		return nil, fmt.Errorf("read %s: %w", key, err)
	}

	return data, nil
}

func (s *FileStore) Put(key string, value []byte) error {
	path, err := s.path(key)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}

	err = s.fs.WriteFileAtomic(path, value, slotPerm)
	if err != nil {
		if fs.IsNoSpace(err) {
			return fmt.Errorf("%w: write %s: %w", ErrQuotaExceeded, key, err)
		}

		return fmt.Errorf("write %s: %w", key, err)
	}

	return nil
}

func (s *FileStore) Delete(key string) error {
	path, err := s.path(key)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}

	err = s.fs.Remove(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("delete %s: %w", key, err)
	}

	return nil
}

func (s *FileStore) Size() (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return 0, ErrClosed
	}

	entries, err := s.fs.ReadDir(s.dir)
	if err != nil {
		return 0, fmt.Errorf("size: %w", err)
	}

	var total int64

	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), slotExt) {
			continue
		}

		info, err := e.Info()
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}

			return 0, fmt.Errorf("size: %w", err)
		}

		total += info.Size()
	}

	return total, nil
}

// Close releases the directory lock. Close is idempotent.
func (s *FileStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}

	s.closed = true

	return s.lock.Close()
}

func (s *FileStore) path(key string) (string, error) {
	err := checkKey(key)
	if err != nil {
		return "", err
	}

	return filepath.Join(s.dir, key+slotExt), nil
}
