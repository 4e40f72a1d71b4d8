package textstore

import (
	"bytes"
	"errors"
	"os"

	"github.com/idilsaglam/tada/internal/model"
)

// Plain-text storage: one `name<TAB>flag` line per item, whole-file rewrite.
// No locking; concurrent runs against one file are last-writer-wins.

// DefaultPath is the file used when no path is configured.
const DefaultPath = "db.txt"

const fileMode = 0o644

// Store is the in-memory view of the backing file. It is single-use:
// once Save has been called the mapping is released, mutations and a
// second Save return ErrSealed, and the read methods (Len, Get, Records,
// Stats) report an empty store. Check Sealed to tell the two apart.
type Store struct {
	path   string
	items  map[string]bool
	sealed bool
}

// New returns an empty Store bound to path without touching the disk.
func New(path string) *Store {
	return &Store{path: path, items: make(map[string]bool)}
}

// Load opens path (creating it when absent) and parses its contents.
func Load(path string) (*Store, error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, fileMode)
	if err != nil {
		return nil, &IOError{Op: "open", Path: path, Err: err}
	}
	defer f.Close()

	items, err := Decode(f)
	if err != nil {
		var pe *ParseError
		if errors.As(err, &pe) {
			return nil, err
		}
		return nil, &IOError{Op: "read", Path: path, Err: err}
	}
	return &Store{path: path, items: items}, nil
}

// Path returns the backing file path.
func (s *Store) Path() string { return s.path }

// Sealed reports whether Save has been called.
func (s *Store) Sealed() bool { return s.sealed }

// Len returns the number of items.
func (s *Store) Len() int { return len(s.items) }

// Get reports the flag for name and whether name exists.
func (s *Store) Get(name string) (done, ok bool) {
	done, ok = s.items[name]
	return done, ok
}

// Insert sets name to true, replacing any previous flag.
func (s *Store) Insert(name string) error {
	return s.Set(name, true)
}

// Set stores an explicit flag for name.
func (s *Store) Set(name string, done bool) error {
	if s.sealed {
		return ErrSealed
	}
	s.items[name] = done
	return nil
}

// Remove deletes name and reports whether it was present.
func (s *Store) Remove(name string) (bool, error) {
	if s.sealed {
		return false, ErrSealed
	}
	if _, ok := s.items[name]; !ok {
		return false, nil
	}
	delete(s.items, name)
	return true, nil
}

// Records returns a snapshot of all items sorted by name.
func (s *Store) Records() []model.Record {
	out := make([]model.Record, 0, len(s.items))
	for _, name := range sortedNames(s.items) {
		out = append(out, model.Record{Name: name, Done: s.items[name]})
	}
	return out
}

// Stats counts done and pending items.
func (s *Store) Stats() (done, pending int) {
	for _, d := range s.items {
		if d {
			done++
		} else {
			pending++
		}
	}
	return
}

// Save overwrites the backing file with every item and seals the Store.
// The Store is sealed even when the write fails; reload to retry.
func (s *Store) Save() error {
	if s.sealed {
		return ErrSealed
	}
	var buf bytes.Buffer
	err := Encode(&buf, s.items)
	s.sealed, s.items = true, nil
	if err != nil {
		return &IOError{Op: "encode", Path: s.path, Err: err}
	}
	if err := os.WriteFile(s.path, buf.Bytes(), fileMode); err != nil {
		return &IOError{Op: "write", Path: s.path, Err: err}
	}
	return nil
}
