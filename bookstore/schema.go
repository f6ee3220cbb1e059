// Package bookstore provides the store-backed gateway: a GraphQL schema of
// books and authors whose resolvers read and write a document store.
package bookstore

// Schema is the SDL served by the store-backed gateway.
var Schema = `
	schema {
		query: Query
		mutation: Mutation
	}
	# A book. Its author is looked up by authorId when requested.
	type Book {
		id: ID
		name: String
		genre: String
		author: Author
	}
	# An author and, on request, every book referencing it.
	type Author {
		id: ID!
		name: String
		age: Int
		books: [Book]
	}
	type Query {
		books: [Book]
		book(id: ID!): Book
		authors: [Author]
		author(id: ID!): Author
	}
	type Mutation {
		createAuthor(name: String, age: Int): Author
		createBook(name: String, genre: String, authorId: ID): Book
	}
`
