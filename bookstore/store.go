package bookstore

import "context"

// Author is a stored author document.
type Author struct {
	ID   string  `bson:"_id" json:"id"`
	Name *string `bson:"name,omitempty" json:"name,omitempty"`
	Age  *int32  `bson:"age,omitempty" json:"age,omitempty"`
}

// Book is a stored book document. AuthorID is not checked against the
// authors collection.
type Book struct {
	ID       string  `bson:"_id" json:"id"`
	Name     *string `bson:"name,omitempty" json:"name,omitempty"`
	Genre    *string `bson:"genre,omitempty" json:"genre,omitempty"`
	AuthorID string  `bson:"authorId,omitempty" json:"authorId,omitempty"`
}

type AuthorInput struct {
	Name *string
	Age  *int32
}

type BookInput struct {
	Name     *string
	Genre    *string
	AuthorID string
}

// Store is the document persistence the resolvers delegate to. Lookups by
// id return (nil, nil) when nothing matches; every other error is a
// failure of the store itself. Implementations must be safe for
// concurrent use.
type Store interface {
	Books(ctx context.Context) ([]*Book, error)
	Book(ctx context.Context, id string) (*Book, error)
	BooksByAuthor(ctx context.Context, authorID string) ([]*Book, error)
	Authors(ctx context.Context) ([]*Author, error)
	Author(ctx context.Context, id string) (*Author, error)
	CreateAuthor(ctx context.Context, in AuthorInput) (*Author, error)
	CreateBook(ctx context.Context, in BookInput) (*Book, error)
}
