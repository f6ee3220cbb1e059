// Package userproxy provides the proxy gateway: a GraphQL schema of users
// and companies whose resolvers each forward one request to an upstream
// REST service.
package userproxy

// Schema is the SDL served by the proxy gateway.
var Schema = `
	schema {
		query: Query
		mutation: Mutation
	}
	type Company {
		id: ID
		name: String
		description: String
		# Fetched from /companies/{id}/users on request.
		users: [User]
	}
	type User {
		id: ID
		firstName: String
		age: Int
		# Fetched from /companies/{companyId}; null when the user has none.
		company: Company
	}
	type Query {
		users: [User]
		user(id: ID): User
		companies: [Company]
		company(id: ID): Company
	}
	type Mutation {
		addUser(firstName: String!, age: Int!, companyId: ID): User
		deleteUser(id: ID): User
		# Fails with NOT_FOUND, without writing, when the user does not exist.
		updateUser(id: ID!, firstName: String, age: Int, companyId: ID): User
	}
`
