// Package addressbook holds the session-scoped list of people and the
// addresses chosen for them.
package addressbook

import (
	"slices"
	"sync"

	"github.com/dukerupert/addressbook/internal/domain"
)

// Book is the address book as seen by its callers.
type Book interface {
	Add(entry domain.PersonAddress)
	List() []domain.PersonAddress
	Len() int
}

// Store is an in-memory Book. Entries keep insertion order and are stored
// verbatim. Nothing is persisted.
type Store struct {
	mu      sync.RWMutex
	entries []domain.PersonAddress
}

var _ Book = (*Store)(nil)

func NewStore() *Store {
	return &Store{}
}

// Add appends entry to the book.
func (s *Store) Add(entry domain.PersonAddress) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, entry)
}

// List returns a copy of the entries in insertion order.
func (s *Store) List() []domain.PersonAddress {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.entries)
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
