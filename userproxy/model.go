package userproxy

import (
	"bytes"
	"context"
	"strconv"

	"github.com/goccy/go-json"
	"github.com/pkg/errors"
)

// ID is an upstream identifier. The upstream may encode it as a JSON
// number or string; it is always sent back as a string.
type ID string

func (id *ID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case bytes.Equal(b, []byte("null")):
		*id = ""
		return nil
	case len(b) > 0 && b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	if _, err := strconv.ParseFloat(string(b), 64); err != nil {
		return errors.Errorf("id %s is neither string nor number", b)
	}
	*id = ID(b)
	return nil
}

type User struct {
	ID        ID      `json:"id,omitempty"`
	FirstName *string `json:"firstName,omitempty"`
	Age       *int32  `json:"age,omitempty"`
	CompanyID ID      `json:"companyId,omitempty"`
}

type Company struct {
	ID          ID      `json:"id,omitempty"`
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
}

// Upstream is the REST service the resolvers forward to. Each method is one
// HTTP request; a missing resource must be reported as an error for which
// restclient.IsNotFound holds.
type Upstream interface {
	Get(ctx context.Context, path string, out interface{}) error
	Post(ctx context.Context, path string, body, out interface{}) error
	Put(ctx context.Context, path string, body, out interface{}) error
	Delete(ctx context.Context, path string, out interface{}) error
}
