package relay_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/graph-gophers/graphql-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gqlgate/gqlgate/ratelimit"
	"github.com/gqlgate/gqlgate/relay"
	"github.com/gqlgate/gqlgate/restclient"
	"github.com/gqlgate/gqlgate/userproxy"
	"github.com/gqlgate/gqlgate/userproxy/fakeapi"
)

type greeter struct{}

func (greeter) Greet(ctx context.Context, args struct{ Name *string }) string {
	if args.Name == nil {
		return "Hello, stranger!"
	}
	return "Hello, " + *args.Name + "!"
}

var schema = graphql.MustParseSchema(`type Query { greet(name: String): String! }`, greeter{})

func serve(r *http.Request) *httptest.ResponseRecorder {
	h := &relay.Handler{Schema: schema}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	return w
}

func TestServeHTTP(t *testing.T) {
	tests := []struct {
		name string
		req  func() *http.Request
		want string
	}{
		{
			name: "json",
			req: func() *http.Request {
				r := httptest.NewRequest(http.MethodPost, "/graphql", strings.NewReader(
					`{"query":"query($n: String) { greet(name: $n) }", "operationName":"", "variables": {"n": "Ada"}}`))
				r.Header.Set("Content-Type", "application/json")
				return r
			},
			want: `{"data":{"greet":"Hello, Ada!"}}`,
		},
		{
			name: "json with string variables",
			req: func() *http.Request {
				r := httptest.NewRequest(http.MethodPost, "/graphql", strings.NewReader(
					`{"query":"query($n: String) { greet(name: $n) }", "variables": "{\"n\": \"Bob\"}"}`))
				r.Header.Set("Content-Type", "application/json; charset=utf-8")
				return r
			},
			want: `{"data":{"greet":"Hello, Bob!"}}`,
		},
		{
			name: "graphql body",
			req: func() *http.Request {
				r := httptest.NewRequest(http.MethodPost, "/graphql", strings.NewReader(`{ greet }`))
				r.Header.Set("Content-Type", "application/graphql")
				return r
			},
			want: `{"data":{"greet":"Hello, stranger!"}}`,
		},
		{
			name: "form",
			req: func() *http.Request {
				form := url.Values{"query": {`{ greet(name: "Cy") }`}}
				r := httptest.NewRequest(http.MethodPost, "/graphql", strings.NewReader(form.Encode()))
				r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
				return r
			},
			want: `{"data":{"greet":"Hello, Cy!"}}`,
		},
		{
			name: "get",
			req: func() *http.Request {
				q := url.Values{"query": {`query($n: String) { greet(name: $n) }`}, "variables": {`{"n":"Di"}`}}
				return httptest.NewRequest(http.MethodGet, "/graphql?"+q.Encode(), nil)
			},
			want: `{"data":{"greet":"Hello, Di!"}}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(tt.req())
			require.Equal(t, http.StatusOK, w.Code, w.Body.String())
			assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
			assert.JSONEq(t, tt.want, w.Body.String())
		})
	}
}

func TestServeHTTPValidationErrors(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/graphql", strings.NewReader(`{"query":"{ nope }"}`))
	w := serve(r)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"errors"`)
	assert.NotContains(t, w.Body.String(), `"data":{`)
}

func TestServeHTTPBadRequests(t *testing.T) {
	w := serve(httptest.NewRequest(http.MethodPost, "/graphql", strings.NewReader(`{"query": 12`)))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = serve(httptest.NewRequest(http.MethodGet, "/graphql", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = serve(httptest.NewRequest(http.MethodGet, "/graphql?query=x&variables=%7B", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = serve(httptest.NewRequest(http.MethodPut, "/graphql", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
	assert.Equal(t, "GET, POST", w.Header().Get("Allow"))
}

func TestServeHTTPRateLimited(t *testing.T) {
	h := &relay.Handler{Schema: schema, Limiter: ratelimit.New(0.0001, 1)}

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/graphql?query=%7Bgreet%7D", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/graphql?query=%7Bgreet%7D", nil))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.JSONEq(t, `{"errors":[{"message":"rate limit exceeded","extensions":{"code":"RATE_LIMITED"}}]}`, w.Body.String())
}

func newProxyHandler(t *testing.T) (*relay.Handler, *fakeapi.API) {
	t.Helper()
	api := fakeapi.NewSeeded()
	srv := httptest.NewServer(api)
	t.Cleanup(srv.Close)
	c, err := restclient.New(srv.URL)
	require.NoError(t, err)
	s := graphql.MustParseSchema(userproxy.Schema, userproxy.NewResolver(c))
	return &relay.Handler{Schema: s}, api
}

func TestServeHTTPRejectsMutationOverGet(t *testing.T) {
	h, api := newProxyHandler(t)

	for name, params := range map[string]url.Values{
		"anonymous": {"query": {`mutation { deleteUser(id: "1") { id } }`}},
		"selected by name": {
			"query":         {`query Read { users { id } } mutation Drop { deleteUser(id: "1") { id } }`},
			"operationName": {"Drop"},
		},
	} {
		t.Run(name, func(t *testing.T) {
			w := httptest.NewRecorder()
			h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/graphql?"+params.Encode(), nil))
			assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
			assert.Equal(t, http.MethodPost, w.Header().Get("Allow"))
		})
	}
	assert.Zero(t, api.Writes())

	params := url.Values{
		"query":         {`query Read { user(id: "1") { firstName } } mutation Drop { deleteUser(id: "1") { id } }`},
		"operationName": {"Read"},
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/graphql?"+params.Encode(), nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"data":{"user":{"firstName":"Bill"}}}`, w.Body.String())
	assert.Zero(t, api.Writes())
}

func TestServeHTTPMutationOverPost(t *testing.T) {
	h, api := newProxyHandler(t)

	r := httptest.NewRequest(http.MethodPost, "/graphql", strings.NewReader(`{"query":"mutation { deleteUser(id: \"1\") { id } }"}`))
	r.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"data":{"deleteUser":{"id":"1"}}}`, w.Body.String())
	assert.Equal(t, int64(1), api.Writes())
}
