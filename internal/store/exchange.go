package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/calvinalkan/gsmeac/internal/kv"
	"github.com/calvinalkan/gsmeac/internal/plan"
)

// Export envelope constants.
const (
	ExportVersion = "1.0"
	Application   = "GSMEAC Backpacking Planner"
)

// Envelope wraps an exported document.
type Envelope struct {
	ExportVersion string          `json:"exportVersion"`
	ExportDate    string          `json:"exportDate"`
	Application   string          `json:"application"`
	Data          json.RawMessage `json:"data"`
}

// Export serializes the current document inside an [Envelope], indented for
// people to read.
func (s *Store) Export() ([]byte, error) {
	s.mu.Lock()
	data, err := plan.Encode(s.doc)
	now := s.clock.Now()
	s.mu.Unlock()

	if err != nil {
		return nil, err
	}

	out, err := json.MarshalIndent(Envelope{
		ExportVersion: ExportVersion,
		ExportDate:    plan.Timestamp(now),
		Application:   Application,
		Data:          data,
	}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("export: %w", err)
	}

	return append(out, '\n'), nil
}

var unsafeFileChars = regexp.MustCompile(`[^a-zA-Z0-9]`)

// ExportFileName suggests a download name: gsmeac-<trip>-<date>.json. Every
// character of the trip name outside [a-zA-Z0-9] becomes a dash.
func ExportFileName(doc *plan.Plan, now time.Time) string {
	name := doc.Trip.TripName
	if name == "" {
		name = "trip"
	}

	name = strings.ToLower(unsafeFileChars.ReplaceAllString(name, "-"))

	return fmt.Sprintf("gsmeac-%s-%s.json", name, now.Format(plan.DateLayout))
}

// ParseExport extracts the document from an export envelope. It accepts any
// envelope whose data member is a document with a schema version.
func ParseExport(data []byte) (*plan.Plan, error) {
	var env Envelope

	err := json.Unmarshal(data, &env)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrImportFormat, err)
	}

	raw := bytes.TrimSpace(env.Data)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, fmt.Errorf("%w: missing data", ErrImportFormat)
	}

	doc, err := plan.Decode(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrImportFormat, err)
	}

	if doc.SchemaVersion == "" {
		return nil, fmt.Errorf("%w: missing schemaVersion", ErrImportFormat)
	}

	return doc, nil
}

// Import replaces the document with the one inside an export envelope and
// saves it immediately. A malformed file leaves the current document alone.
// When the parse succeeds but the save fails, the imported document stays in
// memory and the save error is returned alongside it.
func (s *Store) Import(data []byte) (*plan.Plan, error) {
	doc, err := ParseExport(data)
	if err != nil {
		s.log.WithError(err).Warn("import rejected")

		return nil, err
	}

	s.saver.Cancel()

	s.mu.Lock()
	evs, err := s.replaceLocked(doc)
	out := s.doc.Clone()
	s.mu.Unlock()

	s.notify(evs...)
	s.log.WithField("trip", out.Trip.TripName).Info("imported plan")

	return out, err
}

// Reset replaces the document with a fresh default and saves it
// immediately. With keepBackup the outgoing document is first copied to the
// pre-reset slot; failing to do so does not stop the reset.
func (s *Store) Reset(keepBackup bool) (*plan.Plan, error) {
	s.saver.Cancel()

	s.mu.Lock()

	if keepBackup {
		data, err := plan.Encode(s.doc)
		if err == nil {
			err = s.kv.Put(kv.KeyBeforeReset, data)
		}

		if err != nil {
			s.log.WithError(err).Warn("cannot keep pre-reset backup")
		}
	}

	s.meta.TripCount++
	evs, err := s.replaceLocked(plan.New(s.clock.Now()))
	out := s.doc.Clone()
	count := s.meta.TripCount
	s.mu.Unlock()

	s.notify(evs...)
	s.log.WithField("tripCount", count).Info("reset plan")

	return out, err
}

// Backup describes one restorable slot.
type Backup struct {
	Slot         string
	Key          string
	LastModified string
	TripName     string

	// Empty is set when nothing is stored in the slot.
	Empty bool
}

var backupSlots = []struct{ slot, key string }{
	{"backup-1", kv.KeyBackup1},
	{"backup-2", kv.KeyBackup2},
	{"backup-3", kv.KeyBackup3},
	{"before-reset", kv.KeyBeforeReset},
}

// BackupSlots lists the names [Store.Restore] accepts.
func BackupSlots() []string {
	out := make([]string, 0, len(backupSlots))
	for _, b := range backupSlots {
		out = append(out, b.slot)
	}

	return out
}

// Backups describes every backup slot, newest ring entry first.
func (s *Store) Backups() []Backup {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Backup, 0, len(backupSlots))

	for _, b := range backupSlots {
		entry := Backup{Slot: b.slot, Key: b.key}

		doc, err := s.readSlot(b.key)
		if err != nil {
			entry.Empty = true
		} else {
			entry.LastModified = doc.LastModified
			entry.TripName = doc.Trip.TripName
		}

		out = append(out, entry)
	}

	return out
}

// Restore adopts the document held in a backup slot and saves it as the
// current plan.
func (s *Store) Restore(slot string) (*plan.Plan, error) {
	key := ""

	for _, b := range backupSlots {
		if b.slot == slot {
			key = b.key
		}
	}

	if key == "" {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSlot, slot)
	}

	s.saver.Cancel()

	s.mu.Lock()

	doc, err := s.readSlot(key)
	if err != nil {
		s.mu.Unlock()

		return nil, err
	}

	evs, err := s.replaceLocked(doc)
	out := s.doc.Clone()
	s.mu.Unlock()

	s.notify(evs...)
	s.log.WithField("slot", slot).Info("restored plan")

	return out, err
}

func (s *Store) readSlot(key string) (*plan.Plan, error) {
	data, err := s.kv.Get(key)
	if err != nil {
		if errors.Is(err, kv.ErrNotFound) {
			return nil, ErrNoBackup
		}

		return nil, fmt.Errorf("%w: %w", ErrPersistence, err)
	}

	doc, err := plan.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrImportFormat, err)
	}

	return doc, nil
}
