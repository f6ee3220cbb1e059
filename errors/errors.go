// Package errors defines the resolver errors surfaced to GraphQL clients.
//
// Every error here implements Extensions so the engine copies a stable
// machine-readable code into the response next to the message.
package errors

import (
	"fmt"

	pkgerrors "github.com/pkg/errors"
)

// Error codes reported in extensions.code.
const (
	CodeNotFound      = "NOT_FOUND"
	CodeUpstreamError = "UPSTREAM_ERROR"
	CodeStoreError    = "STORE_ERROR"
)

// NotFoundError reports a lookup that a mutation required to succeed.
type NotFoundError struct {
	Kind string
	ID   string
}

// NotFound returns a NotFoundError for the given entity kind and id.
func NotFound(kind, id string) *NotFoundError {
	return &NotFoundError{Kind: kind, ID: id}
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with id %q not found", e.Kind, e.ID)
}

// Extensions provides additional error context according to https://spec.graphql.org/October2021/#sel-GAPHRPZCAACCBx6b.
func (e *NotFoundError) Extensions() map[string]interface{} {
	return map[string]interface{}{
		"code": CodeNotFound,
		"kind": e.Kind,
		"id":   e.ID,
	}
}

// UpstreamError wraps a failed call to the remote REST service.
type UpstreamError struct {
	Op    string
	Cause error
}

// Upstream wraps err as an UpstreamError for the named operation.
// It returns nil when err is nil.
func Upstream(op string, err error) error {
	if err == nil {
		return nil
	}
	return &UpstreamError{Op: op, Cause: err}
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Cause)
}

func (e *UpstreamError) Unwrap() error { return e.Cause }

func (e *UpstreamError) Extensions() map[string]interface{} {
	return map[string]interface{}{
		"code": CodeUpstreamError,
		"op":   e.Op,
	}
}

// StoreError wraps a failed document store operation.
type StoreError struct {
	Op    string
	Cause error
}

// Store wraps err as a StoreError for the named operation.
// It returns nil when err is nil.
func Store(op string, err error) error {
	if err == nil {
		return nil
	}
	return &StoreError{Op: op, Cause: err}
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Cause)
}

func (e *StoreError) Unwrap() error { return e.Cause }

func (e *StoreError) Extensions() map[string]interface{} {
	return map[string]interface{}{
		"code": CodeStoreError,
		"op":   e.Op,
	}
}

// Code returns the extensions code carried by err or any error it wraps,
// or the empty string.
func Code(err error) string {
	var ext interface{ Extensions() map[string]interface{} }
	if !pkgerrors.As(err, &ext) {
		return ""
	}
	code, _ := ext.Extensions()["code"].(string)
	return code
}

// IsNotFound reports whether err is, or wraps, a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return pkgerrors.As(err, &nf)
}
