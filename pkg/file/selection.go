package file

import (
	"fmt"
	"slices"
	"sync"

	"github.com/dmitrymomot/formkit/pkg/validator"
)

// Entry is one chosen file together with its validation outcome and
// preview state.
type Entry struct {
	File File
	// Index is the preview label, always equal to the entry's position.
	Index int
	// Error is the validation message, empty when the file passed.
	Error string
	// Thumbnail is a data URL for image previews, set asynchronously.
	Thumbnail string
}

// Valid reports whether the file passed validation.
func (e *Entry) Valid() bool {
	return e.Error == ""
}

// Selection is the ordered set of files chosen for one file input.
type Selection struct {
	entries []*Entry
}

// Len returns the number of entries.
func (s *Selection) Len() int {
	if s == nil {
		return 0
	}
	return len(s.entries)
}

// Entries returns the entries in order. The slice is a copy; the entries
// are shared.
func (s *Selection) Entries() []*Entry {
	if s == nil {
		return nil
	}
	return slices.Clone(s.entries)
}

// Files returns every chosen file in order.
func (s *Selection) Files() []File {
	if s == nil {
		return nil
	}
	files := make([]File, 0, len(s.entries))
	for _, e := range s.entries {
		files = append(files, e.File)
	}
	return files
}

// ValidFiles returns the files that passed validation, in order.
func (s *Selection) ValidFiles() []File {
	if s == nil {
		return nil
	}
	var files []File
	for _, e := range s.entries {
		if e.Valid() {
			files = append(files, e.File)
		}
	}
	return files
}

// Store keeps the selection of every file input of one form, keyed by the
// input's key. It is safe for concurrent use.
type Store struct {
	mu         sync.RWMutex
	selections map[string]*Selection
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{selections: make(map[string]*Selection)}
}

// Select replaces the selection of input with files, validating each one
// with v. Choosing no files clears the selection.
func (s *Store) Select(input string, files []File, v *Validator) *Selection {
	sel := &Selection{entries: make([]*Entry, 0, len(files))}
	for i, f := range files {
		e := &Entry{File: f, Index: i}
		if v != nil {
			if res := v.Validate(f); res.Status == validator.StatusInvalid {
				e.Error = res.Message
			}
		}
		sel.entries = append(sel.entries, e)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if len(files) == 0 {
		delete(s.selections, input)
		return sel
	}
	s.selections[input] = sel
	return sel
}

// Remove drops the entry at index and relabels the rest 0..n-1.
func (s *Store) Remove(input string, index int) (File, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sel, ok := s.selections[input]
	if !ok {
		return File{}, fmt.Errorf("%w: %s", ErrUnknownInput, input)
	}
	if index < 0 || index >= len(sel.entries) {
		return File{}, fmt.Errorf("%w: %d of %d", ErrIndexOutOfRange, index, len(sel.entries))
	}

	removed := sel.entries[index].File
	// A fresh slice keeps previously returned Entries() copies intact.
	entries := slices.Delete(slices.Clone(sel.entries), index, index+1)
	for i, e := range entries {
		e.Index = i
	}
	sel.entries = entries
	return removed, nil
}

// Get returns the selection of input, or nil when nothing is chosen.
func (s *Store) Get(input string) *Selection {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.selections[input]
}

// SetThumbnail stores url on e if e is still part of the selection of
// input. It reports whether the thumbnail was applied.
func (s *Store) SetThumbnail(input string, e *Entry, url string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	sel, ok := s.selections[input]
	if !ok || !slices.Contains(sel.entries, e) {
		return false
	}
	e.Thumbnail = url
	return true
}

// Clear forgets every selection.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	clear(s.selections)
}

// Snapshot returns copies of the entries of input, safe to read while
// thumbnails are still being applied.
func (s *Store) Snapshot(input string) []Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sel, ok := s.selections[input]
	if !ok {
		return nil
	}
	out := make([]Entry, 0, len(sel.entries))
	for _, e := range sel.entries {
		out = append(out, *e)
	}
	return out
}
