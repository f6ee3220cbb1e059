// Package memstore is an in-process bookstore.Store used in tests and for
// local runs without a database.
package memstore

import (
	"context"
	"sync"

	"github.com/samber/lo"
	"github.com/segmentio/ksuid"

	"github.com/gqlgate/gqlgate/bookstore"
)

// Store keeps documents in insertion order. The zero value is not usable;
// call New.
type Store struct {
	mu      sync.RWMutex
	authors []*bookstore.Author
	books   []*bookstore.Book
}

var _ bookstore.Store = (*Store)(nil)

func New() *Store {
	return &Store{}
}

func (s *Store) Books(ctx context.Context) ([]*bookstore.Book, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return lo.Map(s.books, copyBook), nil
}

func (s *Store) Book(ctx context.Context, id string) (*bookstore.Book, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := lo.Find(s.books, func(b *bookstore.Book) bool { return b.ID == id })
	if !ok {
		return nil, nil
	}
	return copyBook(b, 0), nil
}

func (s *Store) BooksByAuthor(ctx context.Context, authorID string) ([]*bookstore.Book, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	books := lo.Filter(s.books, func(b *bookstore.Book, _ int) bool { return b.AuthorID == authorID })
	return lo.Map(books, copyBook), nil
}

func (s *Store) Authors(ctx context.Context) ([]*bookstore.Author, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return lo.Map(s.authors, copyAuthor), nil
}

func (s *Store) Author(ctx context.Context, id string) (*bookstore.Author, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := lo.Find(s.authors, func(a *bookstore.Author) bool { return a.ID == id })
	if !ok {
		return nil, nil
	}
	return copyAuthor(a, 0), nil
}

func (s *Store) CreateAuthor(ctx context.Context, in bookstore.AuthorInput) (*bookstore.Author, error) {
	a := &bookstore.Author{
		ID:   ksuid.New().String(),
		Name: in.Name,
		Age:  in.Age,
	}
	s.mu.Lock()
	s.authors = append(s.authors, a)
	s.mu.Unlock()
	return copyAuthor(a, 0), nil
}

func (s *Store) CreateBook(ctx context.Context, in bookstore.BookInput) (*bookstore.Book, error) {
	b := &bookstore.Book{
		ID:       ksuid.New().String(),
		Name:     in.Name,
		Genre:    in.Genre,
		AuthorID: in.AuthorID,
	}
	s.mu.Lock()
	s.books = append(s.books, b)
	s.mu.Unlock()
	return copyBook(b, 0), nil
}

func copyBook(b *bookstore.Book, _ int) *bookstore.Book {
	c := *b
	return &c
}

func copyAuthor(a *bookstore.Author, _ int) *bookstore.Author {
	c := *a
	return &c
}
