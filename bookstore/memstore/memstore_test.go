package memstore

import (
	"context"
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gqlgate/gqlgate/bookstore"
)

func TestCreateAndFind(t *testing.T) {
	ctx := context.Background()
	s := New()

	a, err := s.CreateAuthor(ctx, bookstore.AuthorInput{Name: lo.ToPtr("Tolkien"), Age: lo.ToPtr(int32(80))})
	require.NoError(t, err)
	require.NotEmpty(t, a.ID)

	b1, err := s.CreateBook(ctx, bookstore.BookInput{Name: lo.ToPtr("The Hobbit"), AuthorID: a.ID})
	require.NoError(t, err)
	_, err = s.CreateBook(ctx, bookstore.BookInput{Name: lo.ToPtr("Dune")})
	require.NoError(t, err)

	got, err := s.Author(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, a, got)

	gotBook, err := s.Book(ctx, b1.ID)
	require.NoError(t, err)
	assert.Equal(t, a.ID, gotBook.AuthorID)

	byAuthor, err := s.BooksByAuthor(ctx, a.ID)
	require.NoError(t, err)
	require.Len(t, byAuthor, 1)
	assert.Equal(t, b1.ID, byAuthor[0].ID)

	all, err := s.Books(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
	assert.Equal(t, b1.ID, all[0].ID)
}

func TestMissReturnsNil(t *testing.T) {
	ctx := context.Background()
	s := New()

	a, err := s.Author(ctx, "nope")
	require.NoError(t, err)
	assert.Nil(t, a)

	b, err := s.Book(ctx, "nope")
	require.NoError(t, err)
	assert.Nil(t, b)
}

func TestReturnsCopies(t *testing.T) {
	ctx := context.Background()
	s := New()

	a, err := s.CreateAuthor(ctx, bookstore.AuthorInput{Name: lo.ToPtr("Le Guin")})
	require.NoError(t, err)
	a.ID = "changed"

	authors, err := s.Authors(ctx)
	require.NoError(t, err)
	require.Len(t, authors, 1)
	assert.NotEqual(t, "changed", authors[0].ID)
}

func TestCreateIsNotIdempotent(t *testing.T) {
	ctx := context.Background()
	s := New()
	in := bookstore.BookInput{Name: lo.ToPtr("Twice")}

	b1, err := s.CreateBook(ctx, in)
	require.NoError(t, err)
	b2, err := s.CreateBook(ctx, in)
	require.NoError(t, err)

	assert.NotEqual(t, b1.ID, b2.ID)
	books, err := s.Books(ctx)
	require.NoError(t, err)
	assert.Len(t, books, 2)
}
