// Package query evaluates JMESPath expressions over resource values.
package query

import (
	"fmt"
	"strconv"

	"github.com/jmespath/go-jmespath"

	"github.com/emergentmethods/flowctl/domain/value"
)

// Query is a compiled JMESPath expression.
type Query struct {
	expr string
	jp   *jmespath.JMESPath
}

// Compile parses expr.
func Compile(expr string) (*Query, error) {
	jp, err := jmespath.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("invalid select query %q: %w", expr, err)
	}
	return &Query{expr: expr, jp: jp}, nil
}

func (q *Query) String() string { return q.expr }

// Search applies the query to v. Mapping key order of the input is not kept
// in the result.
func (q *Query) Search(v value.Value) (value.Value, error) {
	out, err := q.jp.Search(value.ToAny(v))
	if err != nil {
		return nil, fmt.Errorf("select %q: %w", q.expr, err)
	}
	res, err := value.FromAny(out)
	if err != nil {
		return nil, fmt.Errorf("select %q: %w", q.expr, err)
	}
	return res, nil
}

// Search compiles expr and applies it to v.
func Search(expr string, v value.Value) (value.Value, error) {
	q, err := Compile(expr)
	if err != nil {
		return nil, err
	}
	return q.Search(v)
}

// Empty reports whether a query result counts as nothing selected: null,
// false, zero and empty strings or containers.
func Empty(v value.Value) bool {
	switch x := v.(type) {
	case value.String:
		return x == ""
	case value.Bool:
		return !bool(x)
	case *value.Map:
		return x.Len() == 0
	case *value.List:
		return x.Len() == 0
	case value.Number:
		f, err := strconv.ParseFloat(string(x), 64)
		return err == nil && f == 0
	}
	return value.IsNull(v)
}
