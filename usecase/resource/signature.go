package resource

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/emergentmethods/flowctl/domain/model"
	"github.com/emergentmethods/flowctl/domain/value"
)

// ParamType constrains the value bound to a parameter.
type ParamType int

const (
	ParamAny    ParamType = iota
	ParamString           // scalar, read as text
	ParamInt              // integer scalar; numeric strings are accepted
	ParamMap              // mapping
)

func (t ParamType) String() string {
	switch t {
	case ParamString:
		return "string"
	case ParamInt:
		return "integer"
	case ParamMap:
		return "mapping"
	}
	return "any"
}

// Param is one formal parameter of an operation.
type Param struct {
	Name string
	// KeywordOnly parameters cannot be filled positionally.
	KeywordOnly bool
	Type        ParamType
	// Optional parameters take Default when no value is supplied.
	Optional bool
	Default  value.Value
}

// Signature is the ordered parameter list of an operation.
type Signature []Param

func (s Signature) String() string {
	parts := make([]string, 0, len(s))
	star := false
	for _, p := range s {
		if p.KeywordOnly && !star {
			parts = append(parts, "*")
			star = true
		}
		part := p.Name
		if p.Optional {
			d, _ := value.MarshalJSON(p.Default)
			part += "=" + string(d)
		}
		parts = append(parts, part)
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

// Bound holds arguments that fit a Signature.
type Bound struct {
	values map[string]value.Value
}

// Value returns the bound value of name, Null when absent.
func (b *Bound) Value(name string) value.Value {
	if v, ok := b.values[name]; ok {
		return v
	}
	return value.Null{}
}

// String returns the text of a string parameter; "" for Null.
func (b *Bound) String(name string) string {
	s, _ := value.Text(b.Value(name))
	return s
}

// Int returns an integer parameter.
func (b *Bound) Int(name string) int {
	n, _ := strconv.Atoi(b.String(name))
	return n
}

// Map returns a mapping parameter, nil when Null.
func (b *Bound) Map(name string) *value.Map {
	m, _ := b.Value(name).(*value.Map)
	return m
}

// Bind matches positional args and keyword args against s. Positional
// parameters are filled in order, then keywords by name, then defaults. Extra
// positionals, unknown keywords, a parameter given twice, a missing required
// parameter and a value of the wrong type are all reported as *model.BindingError.
func (s Signature) Bind(args []value.Value, kwargs *value.Map) (*Bound, error) {
	b := &Bound{values: map[string]value.Value{}}
	fail := func(format string, a ...any) (*Bound, error) {
		return nil, &model.BindingError{Reason: fmt.Sprintf(format, a...)}
	}

	positional := 0
	for _, p := range s {
		if !p.KeywordOnly {
			positional++
		}
	}
	if len(args) > positional {
		return fail("takes %d positional arguments but %d were given", positional, len(args))
	}
	i := 0
	for _, p := range s {
		if p.KeywordOnly || i >= len(args) {
			continue
		}
		b.values[p.Name] = args[i]
		i++
	}

	var kwErr error
	kwargs.Range(func(name string, v value.Value) bool {
		p, ok := s.param(name)
		if !ok {
			_, kwErr = fail("got an unexpected keyword argument '%s'", name)
			return false
		}
		if _, dup := b.values[p.Name]; dup {
			_, kwErr = fail("got multiple values for argument '%s'", name)
			return false
		}
		b.values[p.Name] = v
		return true
	})
	if kwErr != nil {
		return nil, kwErr
	}

	for _, p := range s {
		v, ok := b.values[p.Name]
		if !ok {
			if !p.Optional {
				return fail("missing a required argument: '%s'", p.Name)
			}
			b.values[p.Name] = value.Clone(p.Default)
			continue
		}
		cv, err := convertParam(p, v)
		if err != nil {
			return fail("argument '%s': %v", p.Name, err)
		}
		b.values[p.Name] = cv
	}
	return b, nil
}

func (s Signature) param(name string) (Param, bool) {
	for _, p := range s {
		if p.Name == name {
			return p, true
		}
	}
	return Param{}, false
}

func convertParam(p Param, v value.Value) (value.Value, error) {
	if value.IsNull(v) {
		if p.Optional {
			return value.Null{}, nil
		}
		return nil, fmt.Errorf("must not be null")
	}
	switch p.Type {
	case ParamString:
		s, ok := value.Text(v)
		if !ok {
			return nil, fmt.Errorf("expected %s, got %s", p.Type, value.TypeOf(v))
		}
		return value.String(s), nil
	case ParamInt:
		s, ok := value.Text(v)
		if !ok {
			return nil, fmt.Errorf("expected %s, got %s", p.Type, value.TypeOf(v))
		}
		n, err := strconv.Atoi(s)
		if err != nil {
			return nil, fmt.Errorf("expected %s, got %q", p.Type, s)
		}
		return value.Number(strconv.Itoa(n)), nil
	case ParamMap:
		if _, ok := v.(*value.Map); !ok {
			return nil, fmt.Errorf("expected %s, got %s", p.Type, value.TypeOf(v))
		}
	}
	return v, nil
}
