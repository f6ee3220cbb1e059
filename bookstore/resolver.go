package bookstore

import (
	"context"

	"github.com/graph-gophers/graphql-go"

	gqlerrors "github.com/gqlgate/gqlgate/errors"
)

// Resolver is the root resolver. Every field performs exactly one call
// against Store.
type Resolver struct {
	Store Store
}

// NewResolver returns a root resolver delegating to s.
func NewResolver(s Store) *Resolver {
	return &Resolver{Store: s}
}

func (r *Resolver) Books(ctx context.Context) (*[]*bookResolver, error) {
	books, err := r.Store.Books(ctx)
	if err != nil {
		return nil, gqlerrors.Store("find books", err)
	}
	return r.books(books), nil
}

func (r *Resolver) Book(ctx context.Context, args struct{ ID graphql.ID }) (*bookResolver, error) {
	b, err := r.Store.Book(ctx, string(args.ID))
	if err != nil {
		return nil, gqlerrors.Store("find book", err)
	}
	if b == nil {
		return nil, nil
	}
	return &bookResolver{b: b, store: r.Store}, nil
}

func (r *Resolver) Authors(ctx context.Context) (*[]*authorResolver, error) {
	authors, err := r.Store.Authors(ctx)
	if err != nil {
		return nil, gqlerrors.Store("find authors", err)
	}
	l := make([]*authorResolver, len(authors))
	for i, a := range authors {
		l[i] = &authorResolver{a: a, store: r.Store}
	}
	return &l, nil
}

func (r *Resolver) Author(ctx context.Context, args struct{ ID graphql.ID }) (*authorResolver, error) {
	return resolveAuthor(ctx, r.Store, string(args.ID))
}

func (r *Resolver) CreateAuthor(ctx context.Context, args struct {
	Name *string
	Age  *int32
}) (*authorResolver, error) {
	a, err := r.Store.CreateAuthor(ctx, AuthorInput{Name: args.Name, Age: args.Age})
	if err != nil {
		return nil, gqlerrors.Store("insert author", err)
	}
	return &authorResolver{a: a, store: r.Store}, nil
}

func (r *Resolver) CreateBook(ctx context.Context, args struct {
	Name     *string
	Genre    *string
	AuthorID *graphql.ID
}) (*bookResolver, error) {
	in := BookInput{Name: args.Name, Genre: args.Genre}
	if args.AuthorID != nil {
		in.AuthorID = string(*args.AuthorID)
	}
	b, err := r.Store.CreateBook(ctx, in)
	if err != nil {
		return nil, gqlerrors.Store("insert book", err)
	}
	return &bookResolver{b: b, store: r.Store}, nil
}

func (r *Resolver) books(books []*Book) *[]*bookResolver {
	l := make([]*bookResolver, len(books))
	for i, b := range books {
		l[i] = &bookResolver{b: b, store: r.Store}
	}
	return &l
}

func resolveAuthor(ctx context.Context, s Store, id string) (*authorResolver, error) {
	a, err := s.Author(ctx, id)
	if err != nil {
		return nil, gqlerrors.Store("find author", err)
	}
	if a == nil {
		return nil, nil
	}
	return &authorResolver{a: a, store: s}, nil
}

type bookResolver struct {
	b     *Book
	store Store
}

func (r *bookResolver) ID() *graphql.ID {
	id := graphql.ID(r.b.ID)
	return &id
}

func (r *bookResolver) Name() *string {
	return r.b.Name
}

func (r *bookResolver) Genre() *string {
	return r.b.Genre
}

// Author issues one lookup per book; a dangling or empty authorId
// resolves to null.
func (r *bookResolver) Author(ctx context.Context) (*authorResolver, error) {
	if r.b.AuthorID == "" {
		return nil, nil
	}
	return resolveAuthor(ctx, r.store, r.b.AuthorID)
}

type authorResolver struct {
	a     *Author
	store Store
}

func (r *authorResolver) ID() graphql.ID {
	return graphql.ID(r.a.ID)
}

func (r *authorResolver) Name() *string {
	return r.a.Name
}

func (r *authorResolver) Age() *int32 {
	return r.a.Age
}

func (r *authorResolver) Books(ctx context.Context) (*[]*bookResolver, error) {
	books, err := r.store.BooksByAuthor(ctx, r.a.ID)
	if err != nil {
		return nil, gqlerrors.Store("find books by author", err)
	}
	l := make([]*bookResolver, len(books))
	for i, b := range books {
		l[i] = &bookResolver{b: b, store: r.store}
	}
	return &l, nil
}
