// Package gqltesting runs table-driven GraphQL cases against a schema and
// compares the JSON result structurally.
package gqltesting

import (
	"context"
	"strconv"
	"testing"

	"github.com/goccy/go-json"
	"github.com/graph-gophers/graphql-go"
	"github.com/nsf/jsondiff"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test is a GraphQL test case to be used with RunTest(s).
type Test struct {
	Context        context.Context
	Schema         *graphql.Schema
	Query          string
	OperationName  string
	Variables      map[string]interface{}
	ExpectedResult string
	// ExpectedErrors lists the expected error messages in order.
	ExpectedErrors []string
	// ExpectedCodes, when set, lists extensions.code per error in order.
	ExpectedCodes []string
}

// RunTests runs the given GraphQL test cases as subtests.
func RunTests(t *testing.T, tests []*Test) {
	t.Helper()
	if len(tests) == 1 {
		RunTest(t, tests[0])
		return
	}

	for i, test := range tests {
		t.Run(strconv.Itoa(i+1), func(t *testing.T) {
			t.Helper()
			RunTest(t, test)
		})
	}
}

// RunTest runs a single GraphQL test case.
func RunTest(t *testing.T, test *Test) {
	t.Helper()
	if test.Context == nil {
		test.Context = context.Background()
	}
	result := test.Schema.Exec(test.Context, test.Query, test.OperationName, test.Variables)

	messages := make([]string, len(result.Errors))
	codes := make([]string, len(result.Errors))
	for i, err := range result.Errors {
		messages[i] = err.Message
		codes[i], _ = err.Extensions["code"].(string)
	}
	if len(test.ExpectedErrors) == 0 {
		require.Empty(t, messages, "unexpected errors")
	} else {
		require.Equal(t, test.ExpectedErrors, messages)
	}
	if test.ExpectedCodes != nil {
		assert.Equal(t, test.ExpectedCodes, codes)
	}

	if test.ExpectedResult == "" {
		assert.Empty(t, result.Data, "want no data")
		return
	}
	AssertJSON(t, test.ExpectedResult, result.Data)
}

// AssertJSON fails t when got is not structurally equal to want.
func AssertJSON(t *testing.T, want string, got []byte) {
	t.Helper()
	opts := jsondiff.DefaultConsoleOptions()
	diff, output := jsondiff.Compare([]byte(want), got, &opts)
	if diff != jsondiff.FullMatch {
		t.Log("Did not get expected result:\n", output)
		t.Log("Got:", string(got))
		t.Fail()
	}
}

// Data executes query and decodes its data into out, failing t on any
// GraphQL error.
func Data(t *testing.T, schema *graphql.Schema, query string, variables map[string]interface{}, out interface{}) {
	t.Helper()
	result := schema.Exec(context.Background(), query, "", variables)
	require.Empty(t, result.Errors)
	require.NoError(t, json.Unmarshal(result.Data, out))
}
