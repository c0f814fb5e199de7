package store

import (
	"errors"

	"github.com/calvinalkan/gsmeac/internal/kv"
)

var (
	// ErrPersistence wraps every failed durable write.
	ErrPersistence = errors.New("could not save plan")

	// ErrQuotaExceeded marks a write refused for lack of space. Errors
	// carrying it also match [ErrPersistence].
	ErrQuotaExceeded = kv.ErrQuotaExceeded

	ErrImportFormat = errors.New("invalid plan file")
	ErrNoBackup     = errors.New("backup slot is empty")
	ErrUnknownSlot  = errors.New("unknown backup slot")
)

// QuotaMessage is shown to the user when the store is full.
const QuotaMessage = "Storage full. Please export your plan."

// IsQuota reports whether err is a save refused for lack of space.
func IsQuota(err error) bool {
	return errors.Is(err, ErrQuotaExceeded)
}
