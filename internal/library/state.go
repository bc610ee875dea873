// Package library is the catalog state machine behind the UI: the
// entry list, the active view and the current selection, kept in one
// explicit state object and mutated only through named operations so
// transitions are testable without any rendering.
package library

import (
	"errors"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"bookshelf/internal/domain/book"
)

type View string

const (
	ViewLibrary View = "library"
	ViewUpload  View = "upload"
	ViewReader  View = "reader"
)

// Lifecycle tags where an entry sits between optimistic local state
// and backend confirmation.
type Lifecycle string

const (
	Pending   Lifecycle = "pending"
	Confirmed Lifecycle = "confirmed"
	Failed    Lifecycle = "failed"
)

// Entry wraps a catalog book with its local lifecycle. A pending entry
// carries a client-assigned correlation id until the backend row
// replaces it in place; the correlation id never leaves the client.
type Entry struct {
	Book          book.Book
	Lifecycle     Lifecycle
	CorrelationID string
	Err           error // set while Lifecycle == Failed
}

var (
	ErrNotLoaded   = errors.New("catalog not loaded")
	ErrNoSelection = errors.New("no book selected")
	ErrNotReadable = errors.New("book has no readable file yet")
	ErrUnknownView = errors.New("unknown view")
)

// State is the single mutable UI state. It is not safe for concurrent
// use; one session owns one State and serializes access to it.
type State struct {
	entries  []Entry
	view     View
	selected string // book id, meaningful while view == ViewReader
	loaded   bool
	loadErr  error
}

func NewState() *State {
	return &State{view: ViewLibrary}
}

// Loading reports whether the initial catalog fetch is still pending.
func (s *State) Loading() bool { return !s.loaded && s.loadErr == nil }

// LoadError returns the startup failure, if any. A failed load leaves
// the list empty.
func (s *State) LoadError() error { return s.loadErr }

// Load replaces the entry list with the confirmed backend result.
func (s *State) Load(books []book.Book) {
	entries := make([]Entry, 0, len(books))
	for _, b := range books {
		entries = append(entries, Entry{Book: b, Lifecycle: Confirmed})
	}
	s.entries = entries
	s.loaded = true
	s.loadErr = nil
}

// LoadFailed records a startup failure and leaves the list empty.
func (s *State) LoadFailed(err error) {
	s.entries = nil
	s.loaded = false
	s.loadErr = err
}

// Entries returns a copy of the current list, newest first.
func (s *State) Entries() []Entry {
	out := make([]Entry, len(s.entries))
	copy(out, s.entries)
	return out
}

func (s *State) View() View { return s.view }

// Selected returns the entry the reader view points at.
func (s *State) Selected() (Entry, bool) {
	if s.selected == "" {
		return Entry{}, false
	}
	for _, e := range s.entries {
		if e.Book.ID == s.selected {
			return e, true
		}
	}
	return Entry{}, false
}

// SetView switches between the library and upload views. The reader
// view is only entered through OpenReader, which checks the selection.
func (s *State) SetView(v View) error {
	switch v {
	case ViewLibrary, ViewUpload:
		s.view = v
		s.selected = ""
		return nil
	case ViewReader:
		if _, ok := s.Selected(); !ok {
			return ErrNoSelection
		}
		s.view = ViewReader
		return nil
	}
	return ErrUnknownView
}

// OpenReader selects a book and switches to the reader view. It
// refuses pending or failed entries and entries without a resolvable
// URL; refusal changes nothing.
func (s *State) OpenReader(id string) error {
	for _, e := range s.entries {
		if e.Book.ID != id {
			continue
		}
		if e.Lifecycle != Confirmed || e.Book.PublicURL == "" {
			log.Printf("reader_refused id=%s lifecycle=%s", id, e.Lifecycle)
			return ErrNotReadable
		}
		s.selected = id
		s.view = ViewReader
		return nil
	}
	log.Printf("reader_refused id=%s lifecycle=missing", id)
	return ErrNotReadable
}

// CloseReader returns to the library view and drops the selection.
func (s *State) CloseReader() {
	s.selected = ""
	s.view = ViewLibrary
}

// BeginAdd prepends a pending placeholder so the list reflects the
// upload immediately, and returns the correlation id the confirmation
// will be matched by. The placeholder has no backend id and no URL.
func (s *State) BeginAdd(filename string, size int64) string {
	cid := uuid.New().String()
	placeholder := Entry{
		Book: book.Book{
			Title:     strings.TrimSuffix(filename, ".pdf"),
			SizeBytes: size,
			Status:    book.StatusNotStarted,
			CreatedAt: time.Now().UTC(),
		},
		Lifecycle:     Pending,
		CorrelationID: cid,
	}
	s.entries = append([]Entry{placeholder}, s.entries...)
	return cid
}

// ConfirmAdd replaces the pending placeholder in place with the
// backend row, matched by correlation id rather than the backend id
// the placeholder never had. An unknown correlation id is a no-op.
func (s *State) ConfirmAdd(cid string, b book.Book) bool {
	for i := range s.entries {
		if s.entries[i].CorrelationID == cid {
			s.entries[i] = Entry{Book: b, Lifecycle: Confirmed}
			return true
		}
	}
	return false
}

// FailAdd marks the placeholder failed but keeps it visible with its
// error until the user dismisses it.
func (s *State) FailAdd(cid string, err error) bool {
	for i := range s.entries {
		if s.entries[i].CorrelationID == cid {
			s.entries[i].Lifecycle = Failed
			s.entries[i].Err = err
			return true
		}
	}
	return false
}

// Dismiss drops a failed placeholder from the list.
func (s *State) Dismiss(cid string) bool {
	for i := range s.entries {
		if s.entries[i].CorrelationID == cid && s.entries[i].Lifecycle == Failed {
			s.entries = append(s.entries[:i], s.entries[i+1:]...)
			return true
		}
	}
	return false
}

// ApplyRemove drops a confirmed entry. Callers invoke it only after
// the backend delete resolved; a failed delete leaves state untouched.
func (s *State) ApplyRemove(id string) bool {
	for i := range s.entries {
		if s.entries[i].Book.ID == id {
			s.entries = append(s.entries[:i], s.entries[i+1:]...)
			if s.selected == id {
				s.CloseReader()
			}
			return true
		}
	}
	return false
}

// ApplyStatus updates one entry's status. Same contract as
// ApplyRemove: only after backend confirmation.
func (s *State) ApplyStatus(id string, status book.Status) bool {
	for i := range s.entries {
		if s.entries[i].Book.ID == id {
			s.entries[i].Book.Status = status
			return true
		}
	}
	return false
}
