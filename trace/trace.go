// Package trace wires OpenTracing into the GraphQL engine and the HTTP
// servers, and configures a Jaeger tracer as the global tracer.
package trace

import (
	"context"
	"fmt"
	"time"

	gqlerrors "github.com/graph-gophers/graphql-go/errors"
	"github.com/graph-gophers/graphql-go/introspection"
	"github.com/graph-gophers/graphql-go/trace/tracer"
	opentracing "github.com/opentracing/opentracing-go"
	"github.com/opentracing/opentracing-go/ext"
	"github.com/opentracing/opentracing-go/log"

	"github.com/gqlgate/gqlgate/metrics"
)

// Tracer creates OpenTracing spans for queries and non-trivial fields and
// records their outcome in Metrics, which may be nil.
type Tracer struct {
	Metrics *metrics.Metrics
}

var _ tracer.Tracer = Tracer{}

func (t Tracer) TraceQuery(ctx context.Context, queryString string, operationName string, variables map[string]interface{}, varTypes map[string]*introspection.Type) (context.Context, tracer.QueryFinishFunc) {
	span, spanCtx := opentracing.StartSpanFromContext(ctx, "GraphQL request")
	span.SetTag("graphql.query", queryString)

	if operationName != "" {
		span.SetTag("graphql.operationName", operationName)
	}

	if len(variables) != 0 {
		span.LogFields(log.Object("graphql.variables", variables))
	}

	return spanCtx, func(errs []*gqlerrors.QueryError) {
		if len(errs) > 0 {
			msg := errs[0].Error()
			if len(errs) > 1 {
				msg += fmt.Sprintf(" (and %d more errors)", len(errs)-1)
			}
			ext.Error.Set(span, true)
			span.SetTag("graphql.error", msg)
		}
		t.Metrics.ObserveQuery(len(errs) > 0)
		span.Finish()
	}
}

func (t Tracer) TraceField(ctx context.Context, label, typeName, fieldName string, trivial bool, args map[string]interface{}) (context.Context, tracer.FieldFinishFunc) {
	if trivial {
		return ctx, noop
	}

	start := time.Now()
	span, spanCtx := opentracing.StartSpanFromContext(ctx, label)
	span.SetTag("graphql.type", typeName)
	span.SetTag("graphql.field", fieldName)
	for name, value := range args {
		span.SetTag("graphql.args."+name, value)
	}

	return spanCtx, func(err *gqlerrors.QueryError) {
		if err != nil {
			ext.Error.Set(span, true)
			span.SetTag("graphql.error", err.Error())
		}
		t.Metrics.ObserveField(typeName, fieldName, time.Since(start), err != nil)
		span.Finish()
	}
}

func noop(*gqlerrors.QueryError) {}
