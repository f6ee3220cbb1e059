package userproxy_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/graph-gophers/graphql-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gqlgate/gqlgate/gqltesting"
	"github.com/gqlgate/gqlgate/restclient"
	"github.com/gqlgate/gqlgate/userproxy"
	"github.com/gqlgate/gqlgate/userproxy/fakeapi"
)

func newSchema(t *testing.T, upstream http.Handler) *graphql.Schema {
	t.Helper()
	srv := httptest.NewServer(upstream)
	t.Cleanup(srv.Close)
	c, err := restclient.New(srv.URL)
	require.NoError(t, err)
	return graphql.MustParseSchema(userproxy.Schema, userproxy.NewResolver(c))
}

func TestQueries(t *testing.T) {
	schema := newSchema(t, fakeapi.NewSeeded())

	gqltesting.RunTests(t, []*gqltesting.Test{
		{
			Schema: schema,
			Query:  `{ users { id firstName age company { name } } }`,
			ExpectedResult: `{"users": [
				{"id": "1", "firstName": "Bill", "age": 20, "company": {"name": "Apple"}},
				{"id": "2", "firstName": "Samantha", "age": 21, "company": {"name": "Google"}},
				{"id": "3", "firstName": "Alex", "age": 40, "company": {"name": "Google"}}
			]}`,
		},
		{
			Schema:         schema,
			Query:          `{ user(id: "2") { firstName company { id name description } } }`,
			ExpectedResult: `{"user": {"firstName": "Samantha", "company": {"id": "2", "name": "Google", "description": "search"}}}`,
		},
		{
			Schema:         schema,
			Query:          `{ user(id: "99") { firstName } company(id: "99") { name } }`,
			ExpectedResult: `{"user": null, "company": null}`,
		},
		{
			Schema:         schema,
			Query:          `{ user { firstName } }`,
			ExpectedResult: `{"user": null}`,
		},
		{
			Schema: schema,
			Query:  `{ companies { name } company(id: "2") { users { firstName } } }`,
			ExpectedResult: `{
				"companies": [{"name": "Apple"}, {"name": "Google"}],
				"company": {"users": [{"firstName": "Samantha"}, {"firstName": "Alex"}]}
			}`,
		},
	})
}

func TestAddUser(t *testing.T) {
	api := fakeapi.NewSeeded()
	schema := newSchema(t, api)

	gqltesting.RunTests(t, []*gqltesting.Test{
		{
			Schema:         schema,
			Query:          `mutation { addUser(firstName: "Zed", age: 30, companyId: "1") { id firstName age company { name } } }`,
			ExpectedResult: `{"addUser": {"id": "4", "firstName": "Zed", "age": 30, "company": {"name": "Apple"}}}`,
		},
		{
			Schema:         schema,
			Query:          `mutation { addUser(firstName: "Loner", age: 50) { id company { name } } }`,
			ExpectedResult: `{"addUser": {"id": "5", "company": null}}`,
		},
	})
	assert.EqualValues(t, 2, api.Writes())
}

func TestAddUserRequiresArguments(t *testing.T) {
	api := fakeapi.NewSeeded()
	schema := newSchema(t, api)

	res := schema.Exec(context.Background(), `mutation { addUser(firstName: "NoAge") { id } }`, "", nil)
	require.NotEmpty(t, res.Errors)
	assert.Zero(t, api.Writes())
}

func TestUpdateUser(t *testing.T) {
	api := fakeapi.NewSeeded()
	schema := newSchema(t, api)

	gqltesting.RunTests(t, []*gqltesting.Test{
		{
			Schema:         schema,
			Query:          `mutation { updateUser(id: "1", age: 21) { id firstName age company { name } } }`,
			ExpectedResult: `{"updateUser": {"id": "1", "firstName": "Bill", "age": 21, "company": {"name": "Apple"}}}`,
		},
		{
			Schema:         schema,
			Query:          `mutation { updateUser(id: "1", firstName: "William", companyId: "2") { firstName company { name } } }`,
			ExpectedResult: `{"updateUser": {"firstName": "William", "company": {"name": "Google"}}}`,
		},
		{
			Schema:         schema,
			Query:          `{ user(id: "1") { id firstName age } }`,
			ExpectedResult: `{"user": {"id": "1", "firstName": "William", "age": 21}}`,
		},
	})
}

func TestUpdateMissingUserWritesNothing(t *testing.T) {
	api := fakeapi.NewSeeded()
	schema := newSchema(t, api)

	gqltesting.RunTests(t, []*gqltesting.Test{
		{
			Schema:         schema,
			Query:          `mutation { updateUser(id: "99", firstName: "X") { id } }`,
			ExpectedResult: `{"updateUser": null}`,
			ExpectedErrors: []string{`user with id "99" not found`},
			ExpectedCodes:  []string{"NOT_FOUND"},
		},
		{
			Schema:         schema,
			Query:          `{ users { firstName } }`,
			ExpectedResult: `{"users": [{"firstName": "Bill"}, {"firstName": "Samantha"}, {"firstName": "Alex"}]}`,
		},
	})
	assert.Zero(t, api.Writes())
}

func TestDeleteUser(t *testing.T) {
	api := fakeapi.NewSeeded()
	schema := newSchema(t, api)

	gqltesting.RunTests(t, []*gqltesting.Test{
		{
			Schema:         schema,
			Query:          `mutation { deleteUser(id: "3") { id } }`,
			ExpectedResult: `{"deleteUser": {"id": "3"}}`,
		},
		{
			Schema:         schema,
			Query:          `{ user(id: "3") { id } }`,
			ExpectedResult: `{"user": null}`,
		},
		{
			Schema:         schema,
			Query:          `mutation { deleteUser(id: "3") { id } }`,
			ExpectedResult: `{"deleteUser": null}`,
		},
	})
	assert.EqualValues(t, 1, api.Writes())
}

func TestUpstreamFailureNullsOnlyThatField(t *testing.T) {
	seeded := fakeapi.NewSeeded()
	upstream := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/companies" {
			http.Error(w, "down", http.StatusBadGateway)
			return
		}
		seeded.ServeHTTP(w, r)
	})
	schema := newSchema(t, upstream)

	gqltesting.RunTest(t, &gqltesting.Test{
		Schema:         schema,
		Query:          `{ companies { name } user(id: "1") { firstName } }`,
		ExpectedResult: `{"companies": null, "user": {"firstName": "Bill"}}`,
		ExpectedErrors: []string{"list companies: GET /companies: unexpected status 502"},
		ExpectedCodes:  []string{"UPSTREAM_ERROR"},
	})
}

func TestCompanyWithoutIDHasNoUsers(t *testing.T) {
	var (
		mu    sync.Mutex
		paths []string
	)
	upstream := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		paths = append(paths, r.URL.Path)
		mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"name": "Orphan"}]`))
	})
	schema := newSchema(t, upstream)

	gqltesting.RunTest(t, &gqltesting.Test{
		Schema:         schema,
		Query:          `{ companies { id name users { firstName } } }`,
		ExpectedResult: `{"companies": [{"id": null, "name": "Orphan", "users": null}]}`,
	})
	assert.Equal(t, []string{"/companies"}, paths)
}
