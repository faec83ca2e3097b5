package value

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// FromAny converts decoded Go data (as produced by encoding/json or
// JMESPath) into a Value. Plain map keys are sorted for a stable order.
func FromAny(x any) (Value, error) {
	switch t := x.(type) {
	case nil:
		return Null{}, nil
	case Value:
		return Clone(t), nil
	case string:
		return String(t), nil
	case bool:
		return Bool(t), nil
	case json.Number:
		return Number(t), nil
	case float64:
		return numberFromFloat(t)
	case float32:
		return numberFromFloat(float64(t))
	case int:
		return Number(strconv.Itoa(t)), nil
	case int32:
		return Number(strconv.FormatInt(int64(t), 10)), nil
	case int64:
		return Number(strconv.FormatInt(t, 10)), nil
	case uint64:
		return Number(strconv.FormatUint(t, 10)), nil
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		m := NewMap()
		for _, k := range keys {
			v, err := FromAny(t[k])
			if err != nil {
				return nil, fmt.Errorf("%s: %w", k, err)
			}
			m.Set(k, v)
		}
		return m, nil
	case []any:
		l := NewList()
		for i, e := range t {
			v, err := FromAny(e)
			if err != nil {
				return nil, fmt.Errorf("[%d]: %w", i, err)
			}
			l.Append(v)
		}
		return l, nil
	case []string:
		l := NewList()
		for _, e := range t {
			l.Append(String(e))
		}
		return l, nil
	}
	return nil, fmt.Errorf("unsupported type %T", x)
}

func numberFromFloat(f float64) (Value, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, fmt.Errorf("unsupported number %v", f)
	}
	return Number(strconv.FormatFloat(f, 'f', -1, 64)), nil
}

// ToAny converts v into plain Go data: nil, string, float64, bool,
// map[string]any and []any.
func ToAny(v Value) any {
	switch x := v.(type) {
	case String:
		return string(x)
	case Number:
		if f, err := strconv.ParseFloat(string(x), 64); err == nil {
			return f
		}
		return string(x)
	case Bool:
		return bool(x)
	case *Map:
		if x == nil {
			return nil
		}
		out := make(map[string]any, x.Len())
		x.Range(func(k string, cv Value) bool {
			out[k] = ToAny(cv)
			return true
		})
		return out
	case *List:
		if x == nil {
			return nil
		}
		out := make([]any, 0, x.Len())
		for _, cv := range x.items {
			out = append(out, ToAny(cv))
		}
		return out
	}
	return nil
}

// Coerce returns a copy of v where string scalars spelling a boolean or a JSON
// number are converted to Bool and Number. Other strings are kept.
func Coerce(v Value) Value {
	switch x := v.(type) {
	case String:
		switch strings.ToLower(string(x)) {
		case "true":
			return Bool(true)
		case "false":
			return Bool(false)
		}
		if IsNumberText(string(x)) {
			return Number(x)
		}
		return x
	case *Map:
		if x == nil {
			return Null{}
		}
		out := NewMap()
		x.Range(func(k string, cv Value) bool {
			out.Set(k, Coerce(cv))
			return true
		})
		return out
	case *List:
		if x == nil {
			return Null{}
		}
		out := NewList()
		for _, cv := range x.items {
			out.Append(Coerce(cv))
		}
		return out
	}
	return Clone(v)
}
