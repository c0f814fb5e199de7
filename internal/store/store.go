// Package store owns the trip-plan document and its persistence.
//
// A [Store] holds the one in-memory document behind a mutex. Saves are
// debounced: [Store.Save] with immediate=false restarts a quiet window and
// the write happens once it passes, so a burst of edits costs one write.
// Every successful write also rotates a three-deep backup ring and refreshes
// the metadata record. A failed write leaves the previously persisted slots
// untouched and never rolls back the in-memory document.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/calvinalkan/gsmeac/internal/debounce"
	"github.com/calvinalkan/gsmeac/internal/kv"
	"github.com/calvinalkan/gsmeac/internal/logbook"
	"github.com/calvinalkan/gsmeac/internal/plan"
)

const (
	// DefaultSaveDelay is the quiet window before a debounced save runs.
	DefaultSaveDelay = 500 * time.Millisecond

	// SavedDisplay is how long [StatusSaved] shows before reverting to idle.
	SavedDisplay = 2 * time.Second

	metadataVersion = "1.0"
)

// Options configures [Open].
type Options struct {
	// SaveDelay overrides [DefaultSaveDelay] when positive.
	SaveDelay time.Duration

	// Clock drives timestamps and timers. Nil means the wall clock.
	Clock debounce.Clock

	// Logger receives persistence diagnostics. Nil discards them.
	Logger logrus.FieldLogger
}

// Metadata is the small record kept beside the plan.
type Metadata struct {
	Version      string `json:"version"`
	LastAccessed string `json:"lastAccessed"`
	TripCount    int    `json:"tripCount"`
}

// Store is the single owner of the trip-plan document.
type Store struct {
	mu        sync.Mutex
	kv        kv.Store
	clock     debounce.Clock
	log       logrus.FieldLogger
	doc       *plan.Plan
	meta      Metadata
	status    Status
	lastErr   error
	observers []StatusFunc

	saver      *debounce.Debouncer
	clearSaved *debounce.Debouncer
}

// Open wraps a key/value store. Call [Store.Load] before using the document.
func Open(slots kv.Store, opts Options) *Store {
	if opts.Clock == nil {
		opts.Clock = debounce.RealClock{}
	}

	if opts.Logger == nil {
		opts.Logger = logbook.Discard()
	}

	if opts.SaveDelay <= 0 {
		opts.SaveDelay = DefaultSaveDelay
	}

	s := &Store{
		kv:    slots,
		clock: opts.Clock,
		log:   opts.Logger,
		doc:   plan.New(opts.Clock.Now()),
		meta:  Metadata{Version: metadataVersion, TripCount: 1},
	}

	s.saver = debounce.New(opts.SaveDelay, s.persistScheduled, opts.Clock)
	s.clearSaved = debounce.New(SavedDisplay, s.expireSaved, opts.Clock)

	return s
}

// Load reads the persisted document into memory and returns a copy of it.
// A missing or unreadable primary slot yields a fresh default document.
func (s *Store) Load() *plan.Plan {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.doc = s.readPrimary()
	s.meta = s.readMetadata()
	s.meta.LastAccessed = plan.Timestamp(s.clock.Now())
	s.writeMetadata()

	return s.doc.Clone()
}

func (s *Store) readPrimary() *plan.Plan {
	data, err := s.kv.Get(kv.KeyCurrent)
	if err != nil {
		if errors.Is(err, kv.ErrNotFound) {
			s.log.Info("no saved plan, starting fresh")
		} else {
			s.log.WithError(err).Warn("cannot read saved plan, starting fresh")
		}

		return plan.New(s.clock.Now())
	}

	doc, err := plan.Decode(data)
	if err != nil {
		s.log.WithError(err).Warn("saved plan is corrupt, starting fresh")

		return plan.New(s.clock.Now())
	}

	s.log.WithField("lastModified", doc.LastModified).Info("loaded saved plan")

	return doc
}

func (s *Store) readMetadata() Metadata {
	meta := Metadata{Version: metadataVersion, TripCount: 1}

	data, err := s.kv.Get(kv.KeyMetadata)
	if err != nil {
		return meta
	}

	err = json.Unmarshal(data, &meta)
	if err != nil {
		s.log.WithError(err).Warn("metadata record is corrupt, resetting")

		return Metadata{Version: metadataVersion, TripCount: 1}
	}

	if meta.TripCount < 1 {
		meta.TripCount = 1
	}

	return meta
}

// Read calls fn with the live document. fn must not retain it.
func (s *Store) Read(fn func(doc *plan.Plan)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	fn(s.doc)
}

// Mutate calls fn with the live document under the store's lock. It does
// not schedule a save; see [Store.Save].
func (s *Store) Mutate(fn func(doc *plan.Plan) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return fn(s.doc)
}

// Snapshot returns a deep copy of the document.
func (s *Store) Snapshot() *plan.Plan {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.doc.Clone()
}

// Metadata returns the current metadata record.
func (s *Store) Metadata() Metadata {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.meta
}

// Save persists the document. With immediate=false it (re)starts the quiet
// window and returns nil; the outcome is reported through the status
// observers. With immediate=true any pending save is dropped and the write
// happens now.
func (s *Store) Save(immediate bool) error {
	if !immediate {
		s.mu.Lock()
		ev := s.setStatusLocked(StatusSaving, nil)
		s.mu.Unlock()

		s.notify(ev)
		s.saver.Trigger()

		return nil
	}

	s.saver.Cancel()

	s.mu.Lock()
	evs, err := s.persistLocked()
	s.mu.Unlock()

	s.notify(evs...)

	return err
}

// Flush runs a pending debounced save now and returns its result.
func (s *Store) Flush() error {
	if !s.saver.Flush() {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.lastErr
}

// CancelPending drops a pending debounced save. It reports whether one was
// pending.
func (s *Store) CancelPending() bool {
	cancelled := s.saver.Cancel()
	if cancelled {
		s.mu.Lock()
		ev := s.setStatusLocked(StatusIdle, nil)
		s.mu.Unlock()

		s.notify(ev)
	}

	return cancelled
}

// Pending reports whether a debounced save is waiting.
func (s *Store) Pending() bool {
	return s.saver.Pending()
}

// Status returns the save indicator state and, for [StatusError], the
// failure behind it.
func (s *Store) Status() (Status, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.status, s.lastErr
}

// OnStatus registers an observer for save indicator changes. Observers run
// outside the store's lock and may call back into the store.
func (s *Store) OnStatus(fn StatusFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.observers = append(s.observers, fn)
}

// Close flushes a pending save and stops the indicator timer. The key/value
// store is left open; its owner closes it.
func (s *Store) Close() error {
	err := s.Flush()
	s.clearSaved.Cancel()

	return err
}

func (s *Store) persistScheduled() {
	s.mu.Lock()
	evs, _ := s.persistLocked()
	s.mu.Unlock()

	s.notify(evs...)
}

// persistLocked writes the primary slot, then rotates backups and refreshes
// metadata. Only the primary write can fail the save.
func (s *Store) persistLocked() ([]statusEvent, error) {
	evs := []statusEvent{s.setStatusLocked(StatusSaving, nil)}

	s.doc.LastModified = plan.Timestamp(s.clock.Now())

	data, err := plan.Encode(s.doc)
	if err == nil {
		err = s.kv.Put(kv.KeyCurrent, data)
	}

	if err != nil {
		err = fmt.Errorf("%w: %w", ErrPersistence, err)
		s.lastErr = err
		s.clearSaved.Cancel()

		entry := s.log.WithError(err)
		if IsQuota(err) {
			entry.Error("storage quota exceeded")
		} else {
			entry.Error("save failed")
		}

		return append(evs, s.setStatusLocked(StatusError, err)), err
	}

	s.rotateBackups(data)

	s.meta.LastAccessed = s.doc.LastModified
	s.writeMetadata()

	s.lastErr = nil
	s.clearSaved.Trigger()
	s.log.WithField("lastModified", s.doc.LastModified).Debug("saved plan")

	return append(evs, s.setStatusLocked(StatusSaved, nil)), nil
}

// rotateBackups shifts backup_2 to backup_3 and backup_1 to backup_2, then
// stores the just-written document in backup_1. Failures are logged only.
func (s *Store) rotateBackups(current []byte) {
	for i := len(kv.BackupKeys) - 1; i > 0; i-- {
		prev, err := s.kv.Get(kv.BackupKeys[i-1])
		if err != nil {
			if !errors.Is(err, kv.ErrNotFound) {
				s.log.WithError(err).Warn("cannot read backup for rotation")
			}

			continue
		}

		err = s.kv.Put(kv.BackupKeys[i], prev)
		if err != nil {
			s.log.WithError(err).WithField("slot", kv.BackupKeys[i]).Warn("backup rotation failed")
		}
	}

	err := s.kv.Put(kv.BackupKeys[0], current)
	if err != nil {
		s.log.WithError(err).WithField("slot", kv.BackupKeys[0]).Warn("backup rotation failed")
	}
}

func (s *Store) writeMetadata() {
	data, err := json.Marshal(s.meta)
	if err == nil {
		err = s.kv.Put(kv.KeyMetadata, data)
	}

	if err != nil {
		s.log.WithError(err).Warn("cannot update metadata")
	}
}

func (s *Store) expireSaved() {
	s.mu.Lock()

	if s.status != StatusSaved {
		s.mu.Unlock()

		return
	}

	ev := s.setStatusLocked(StatusIdle, nil)
	s.mu.Unlock()

	s.notify(ev)
}

func (s *Store) setStatusLocked(status Status, err error) statusEvent {
	s.status = status

	return statusEvent{status: status, err: err}
}

func (s *Store) notify(evs ...statusEvent) {
	s.mu.Lock()
	observers := append([]StatusFunc(nil), s.observers...)
	s.mu.Unlock()

	for _, ev := range evs {
		for _, fn := range observers {
			fn(ev.status, ev.err)
		}
	}
}

// replaceLocked adopts doc wholesale and writes it immediately.
func (s *Store) replaceLocked(doc *plan.Plan) ([]statusEvent, error) {
	doc.Normalize()
	s.doc = doc

	return s.persistLocked()
}
