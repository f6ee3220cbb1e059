// Package mongostore implements bookstore.Store on MongoDB.
//
// Documents live in the "authors" and "books" collections keyed by a KSUID
// string _id. This store does not serve data written by the earlier
// mongoose service: its ObjectID _ids list as hex strings but never match a
// lookup by id.
// The *mongo.Client is owned by the caller: connect it once at
// startup, hand it to New and disconnect it on shutdown.
package mongostore

import (
	"context"

	"github.com/pkg/errors"
	"github.com/segmentio/ksuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/gqlgate/gqlgate/bookstore"
)

const (
	authorsCollection = "authors"
	booksCollection   = "books"
)

// Connect dials uri and verifies the primary is reachable.
func Connect(ctx context.Context, uri string) (*mongo.Client, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, errors.Wrap(err, "connecting to mongodb")
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, errors.Wrap(err, "pinging mongodb")
	}
	return client, nil
}

type Store struct {
	client  *mongo.Client
	authors *mongo.Collection
	books   *mongo.Collection
}

var _ bookstore.Store = (*Store)(nil)

// New returns a Store using the named database of client.
func New(client *mongo.Client, database string) *Store {
	db := client.Database(database)
	return &Store{
		client:  client,
		authors: db.Collection(authorsCollection),
		books:   db.Collection(booksCollection),
	}
}

// Ping reports whether the primary answers.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

// Drop removes both collections.
func (s *Store) Drop(ctx context.Context) error {
	if err := s.authors.Drop(ctx); err != nil {
		return errors.Wrap(err, "dropping authors")
	}
	return errors.Wrap(s.books.Drop(ctx), "dropping books")
}

func (s *Store) Books(ctx context.Context) ([]*bookstore.Book, error) {
	var books []*bookstore.Book
	if err := findAll(ctx, s.books, bson.M{}, &books); err != nil {
		return nil, err
	}
	return books, nil
}

func (s *Store) Book(ctx context.Context, id string) (*bookstore.Book, error) {
	var b bookstore.Book
	found, err := findOne(ctx, s.books, id, &b)
	if !found {
		return nil, err
	}
	return &b, nil
}

func (s *Store) BooksByAuthor(ctx context.Context, authorID string) ([]*bookstore.Book, error) {
	var books []*bookstore.Book
	if err := findAll(ctx, s.books, bson.M{"authorId": authorID}, &books); err != nil {
		return nil, err
	}
	return books, nil
}

func (s *Store) Authors(ctx context.Context) ([]*bookstore.Author, error) {
	var authors []*bookstore.Author
	if err := findAll(ctx, s.authors, bson.M{}, &authors); err != nil {
		return nil, err
	}
	return authors, nil
}

func (s *Store) Author(ctx context.Context, id string) (*bookstore.Author, error) {
	var a bookstore.Author
	found, err := findOne(ctx, s.authors, id, &a)
	if !found {
		return nil, err
	}
	return &a, nil
}

func (s *Store) CreateAuthor(ctx context.Context, in bookstore.AuthorInput) (*bookstore.Author, error) {
	a := &bookstore.Author{
		ID:   ksuid.New().String(),
		Name: in.Name,
		Age:  in.Age,
	}
	if _, err := s.authors.InsertOne(ctx, a); err != nil {
		return nil, errors.Wrap(err, "inserting author")
	}
	return a, nil
}

func (s *Store) CreateBook(ctx context.Context, in bookstore.BookInput) (*bookstore.Book, error) {
	b := &bookstore.Book{
		ID:       ksuid.New().String(),
		Name:     in.Name,
		Genre:    in.Genre,
		AuthorID: in.AuthorID,
	}
	if _, err := s.books.InsertOne(ctx, b); err != nil {
		return nil, errors.Wrap(err, "inserting book")
	}
	return b, nil
}

// findAll decodes every document matching filter into out, oldest first.
func findAll(ctx context.Context, coll *mongo.Collection, filter interface{}, out interface{}) error {
	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	cur, err := coll.Find(ctx, filter, opts)
	if err != nil {
		return errors.Wrapf(err, "finding in %s", coll.Name())
	}
	return errors.Wrapf(cur.All(ctx, out), "decoding %s", coll.Name())
}

func findOne(ctx context.Context, coll *mongo.Collection, id string, out interface{}) (bool, error) {
	err := coll.FindOne(ctx, bson.M{"_id": id}).Decode(out)
	switch {
	case errors.Is(err, mongo.ErrNoDocuments):
		return false, nil
	case err != nil:
		return false, errors.Wrapf(err, "finding %s in %s", id, coll.Name())
	}
	return true, nil
}
