// Package kv is the string-keyed durable storage the planner persists into.
//
// A [Store] holds a handful of named slots (the current plan, its backups and
// a metadata record). [FileStore] keeps one file per slot, [SQLiteStore] one
// row per slot, and [MemStore] is the in-process double used in tests.
// [WithQuota] caps the total size the way a browser storage quota does.
package kv

import (
	"errors"
	"fmt"
	"regexp"
)

// Slot keys.
const (
	KeyCurrent     = "gsmeac_trip_current"
	KeyBackup1     = "gsmeac_trip_backup_1"
	KeyBackup2     = "gsmeac_trip_backup_2"
	KeyBackup3     = "gsmeac_trip_backup_3"
	KeyBeforeReset = "gsmeac_trip_before_reset"
	KeyMetadata    = "gsmeac_metadata"
)

// BackupKeys lists the backup ring, newest first.
var BackupKeys = []string{KeyBackup1, KeyBackup2, KeyBackup3}

var (
	ErrNotFound      = errors.New("key not found")
	ErrQuotaExceeded = errors.New("storage quota exceeded")
	ErrClosed        = errors.New("store is closed")
	ErrInvalidKey    = errors.New("invalid key")
	ErrLocked        = errors.New("plan directory is locked by another process")
)

// Store is a durable string-keyed value store.
type Store interface {
	// Get returns the value at key, or [ErrNotFound].
	Get(key string) ([]byte, error)

	// Put stores value at key. A write refused for lack of space fails with
	// an error wrapping [ErrQuotaExceeded] and leaves the old value intact.
	Put(key string, value []byte) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(key string) error

	// Size returns the total bytes held across all keys.
	Size() (int64, error)

	Close() error
}

var keyPattern = regexp.MustCompile(`^[a-z0-9_]+$`)

func checkKey(key string) error {
	if !keyPattern.MatchString(key) {
		return fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}

	return nil
}
