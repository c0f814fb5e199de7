package fs

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/sys/unix"
)

func Test_Real_WriteFileAtomic_Replaces_Content_When_File_Exists(t *testing.T) {
	t.Parallel()

	fsys := NewReal()
	path := filepath.Join(t.TempDir(), "slot.json")

	if err := fsys.WriteFileAtomic(path, []byte(`{"a":1}`), 0o600); err != nil {
		t.Fatalf("WriteFileAtomic: %v", err)
	}

	if err := fsys.WriteFileAtomic(path, []byte(`{"a":2}`), 0o600); err != nil {
		t.Fatalf("WriteFileAtomic (replace): %v", err)
	}

	got, err := fsys.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}

	if want := `{"a":2}`; string(got) != want {
		t.Errorf("content=%q, want=%q", got, want)
	}

	info, err := fsys.Stat(path)
	if err != nil {
		t.Fatalf("Stat: %v", err)
	}

	if got, want := info.Mode().Perm(), os.FileMode(0o600); got != want {
		t.Errorf("perm=%v, want=%v", got, want)
	}

	entries, err := fsys.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}

	if got, want := len(entries), 1; got != want {
		t.Errorf("entries=%d, want=%d (temp file left behind?)", got, want)
	}
}

func Test_Real_Exists_Reports_Presence(t *testing.T) {
	t.Parallel()

	fsys := NewReal()
	dir := t.TempDir()
	path := filepath.Join(dir, "x")

	ok, err := fsys.Exists(path)
	if err != nil || ok {
		t.Fatalf("Exists(missing)=(%v, %v), want=(false, nil)", ok, err)
	}

	if err := fsys.WriteFileAtomic(path, []byte("x"), 0o644); err != nil {
		t.Fatalf("WriteFileAtomic: %v", err)
	}

	ok, err = fsys.Exists(path)
	if err != nil || !ok {
		t.Fatalf("Exists(present)=(%v, %v), want=(true, nil)", ok, err)
	}

	if err := fsys.Remove(path); err != nil {
		t.Fatalf("Remove: %v", err)
	}
}

func Test_IsNoSpace_Matches_Quota_Errnos(t *testing.T) {
	t.Parallel()

	for _, tt := range []struct {
		err  error
		want bool
	}{
		{err: &os.PathError{Op: "write", Path: "x", Err: unix.ENOSPC}, want: true},
		{err: fmt.Errorf("rename: %w", unix.EDQUOT), want: true},
		{err: ErrNoSpace, want: true},
		{err: unix.EACCES, want: false},
		{err: errors.New("boom"), want: false},
	} {
		if got := IsNoSpace(tt.err); got != tt.want {
			t.Errorf("IsNoSpace(%v)=%v, want=%v", tt.err, got, tt.want)
		}
	}
}
