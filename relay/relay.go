// Package relay serves a graphql.Schema over HTTP.
//
// Requests may be GET with query/operationName/variables parameters, or
// POST with a JSON body, an application/graphql body or a urlencoded
// form. Responses are always JSON in the standard {data, errors} shape.
package relay

import (
	"io"
	"mime"
	"net/http"
	"net/url"

	"github.com/dgraph-io/gqlparser/v2/ast"
	"github.com/dgraph-io/gqlparser/v2/parser"
	"github.com/goccy/go-json"
	"github.com/graph-gophers/graphql-go"
	gqlerrors "github.com/graph-gophers/graphql-go/errors"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/gqlgate/gqlgate/ratelimit"
)

const (
	ContentTypeJSON           = "application/json"
	ContentTypeGraphQL        = "application/graphql"
	ContentTypeFormURLEncoded = "application/x-www-form-urlencoded"
)

const maxBodySize = 1 << 20

type Handler struct {
	Schema *graphql.Schema
	// Logger, if set, receives one debug entry per executed operation.
	Logger logrus.FieldLogger
	// Limiter, if set, may reject an operation before it runs.
	Limiter ratelimit.RateLimiter
}

// Request is a decoded GraphQL-over-HTTP request.
type Request struct {
	Query         string                 `json:"query"`
	OperationName string                 `json:"operationName"`
	Variables     map[string]interface{} `json:"variables"`
}

// requestCompat accepts variables sent as a JSON-encoded string.
type requestCompat struct {
	Query         string `json:"query"`
	OperationName string `json:"operationName"`
	Variables     string `json:"variables"`
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	req, err := ParseRequest(r)
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, errMethod) {
			w.Header().Set("Allow", "GET, POST")
			status = http.StatusMethodNotAllowed
		}
		http.Error(w, err.Error(), status)
		return
	}
	if r.Method == http.MethodGet && operationType(req) == ast.Mutation {
		w.Header().Set("Allow", http.MethodPost)
		http.Error(w, "mutations must be sent with POST", http.StatusMethodNotAllowed)
		return
	}

	if h.Limiter != nil && h.Limiter.LimitQuery(r.Context(), req.Query, req.OperationName, req.Variables) {
		writeJSON(w, http.StatusTooManyRequests, &graphql.Response{
			Errors: []*gqlerrors.QueryError{{
				Message:    "rate limit exceeded",
				Extensions: map[string]interface{}{"code": "RATE_LIMITED"},
			}},
		})
		return
	}

	response := h.Schema.Exec(r.Context(), req.Query, req.OperationName, req.Variables)
	if h.Logger != nil {
		h.Logger.WithFields(logrus.Fields{
			"operation": req.OperationName,
			"errors":    len(response.Errors),
		}).Debug("graphql operation executed")
	}

	writeJSON(w, http.StatusOK, response)
}

func writeJSON(w http.ResponseWriter, status int, response *graphql.Response) {
	responseJSON, err := json.Marshal(response)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", ContentTypeJSON)
	w.WriteHeader(status)
	w.Write(responseJSON)
}

// operationType returns the type of the operation req selects. A document
// that does not parse, or names no operation, yields the empty string and
// is left to the engine to reject.
func operationType(req *Request) ast.Operation {
	doc, err := parser.ParseQuery(&ast.Source{Input: req.Query})
	if err != nil {
		return ""
	}
	op := doc.Operations.ForName(req.OperationName)
	if op == nil {
		return ""
	}
	return op.Operation
}

var errMethod = errors.New("only GET and POST are supported")

// ParseRequest decodes r into a Request. A request without a query is an
// error.
func ParseRequest(r *http.Request) (*Request, error) {
	var req *Request
	var err error
	switch r.Method {
	case http.MethodGet:
		req, err = fromValues(r.URL.Query())
	case http.MethodPost:
		req, err = fromBody(r)
	default:
		return nil, errMethod
	}
	if err != nil {
		return nil, err
	}
	if req.Query == "" {
		return nil, errors.New("a non-empty query is required")
	}
	return req, nil
}

func fromValues(values url.Values) (*Request, error) {
	req := &Request{
		Query:         values.Get("query"),
		OperationName: values.Get("operationName"),
	}
	if vars := values.Get("variables"); vars != "" {
		if err := json.Unmarshal([]byte(vars), &req.Variables); err != nil {
			return nil, errors.Wrap(err, "decoding variables")
		}
	}
	return req, nil
}

func fromBody(r *http.Request) (*Request, error) {
	contentType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize))
	if err != nil {
		return nil, errors.Wrap(err, "reading body")
	}

	switch contentType {
	case ContentTypeGraphQL:
		return &Request{Query: string(body)}, nil
	case ContentTypeFormURLEncoded:
		values, err := url.ParseQuery(string(body))
		if err != nil {
			return nil, errors.Wrap(err, "decoding form")
		}
		return fromValues(values)
	default:
		var req Request
		if err := json.Unmarshal(body, &req); err == nil {
			return &req, nil
		}
		// Probably `variables` was sent as a string instead of an object.
		var compat requestCompat
		if err := json.Unmarshal(body, &compat); err != nil {
			return nil, errors.Wrap(err, "decoding json body")
		}
		req = Request{Query: compat.Query, OperationName: compat.OperationName}
		if compat.Variables != "" {
			if err := json.Unmarshal([]byte(compat.Variables), &req.Variables); err != nil {
				return nil, errors.Wrap(err, "decoding variables")
			}
		}
		return &req, nil
	}
}
