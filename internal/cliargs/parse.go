package cliargs

import (
	"fmt"
	"strings"

	"github.com/emergentmethods/flowctl/domain/model"
	"github.com/emergentmethods/flowctl/domain/value"
)

// Args is the result of Parse.
type Args struct {
	Positional []string
	Keywords   *value.Map
}

// Parse splits tokens into positional arguments and keyword arguments. A token
// starting with "-" is a key (all leading dashes stripped) and consumes the
// following token as its value; any other token is positional. A key with no
// following token is rejected.
func Parse(tokens []string) (*Args, error) {
	out := &Args{Keywords: value.NewMap()}
	for i := 0; i < len(tokens); i++ {
		tok := tokens[i]
		if !strings.HasPrefix(tok, "-") {
			out.Positional = append(out.Positional, tok)
			continue
		}
		if i+1 >= len(tokens) {
			return nil, fmt.Errorf("%w: flag %s has no value", model.ErrMalformedArgs, tok)
		}
		path, err := ParseKey(strings.TrimLeft(tok, "-"))
		if err != nil {
			return nil, err
		}
		i++
		if err := Set(out.Keywords, path, value.String(tokens[i])); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// Set stores v at path inside root, creating intermediate containers.
//
// Missing or null intermediates become a sequence when the following segment
// is an index or "[]" and a mapping otherwise. Sequences are padded with Null.
// When the last segment is a key that already holds a sequence, v is appended;
// a scalar already there is turned into a two element sequence. A step that
// meets the wrong container type fails with *model.PathConflictError.
func Set(root *value.Map, path []Segment, v value.Value) error {
	return assign(root, path, v, true)
}

// SetKey parses key and stores v there. Unlike Set, an existing value under
// the final key is replaced.
func SetKey(root *value.Map, key string, v value.Value) error {
	path, err := ParseKey(key)
	if err != nil {
		return err
	}
	return assign(root, path, v, false)
}

func assign(root *value.Map, path []Segment, v value.Value, accumulate bool) error {
	if len(path) == 0 {
		return fmt.Errorf("%w: empty key", model.ErrMalformedArgs)
	}
	var cur value.Value = root
	for i, seg := range path {
		last := i == len(path)-1
		if seg.wantsSequence() {
			l, ok := cur.(*value.List)
			if !ok {
				return conflict(path[:i+1], "sequence", cur)
			}
			idx := seg.Index
			if seg.Kind == SegmentAppend {
				idx = l.Len()
			}
			l.Pad(idx + 1)
			if last {
				l.SetIndex(idx, v)
				return nil
			}
			child := l.Index(idx)
			if value.IsNull(child) {
				child = newContainer(path[i+1])
				l.SetIndex(idx, child)
			}
			cur = child
			continue
		}

		m, ok := cur.(*value.Map)
		if !ok {
			return conflict(path[:i+1], "mapping", cur)
		}
		existing, found := m.Get(seg.Key)
		if last {
			if accumulate {
				switch x := existing.(type) {
				case *value.List:
					if x != nil {
						x.Append(v)
						return nil
					}
				case value.String, value.Number, value.Bool:
					m.Set(seg.Key, value.NewList(x, v))
					return nil
				}
			}
			m.Set(seg.Key, v)
			return nil
		}
		if !found || value.IsNull(existing) {
			existing = newContainer(path[i+1])
			m.Set(seg.Key, existing)
		}
		cur = existing
	}
	return nil
}

// Lookup returns the value stored at key. Append segments are not allowed.
func Lookup(root value.Value, key string) (value.Value, bool, error) {
	path, err := ParseKey(key)
	if err != nil {
		return nil, false, err
	}
	for _, s := range path {
		if s.Kind == SegmentAppend {
			return nil, false, fmt.Errorf("%w: %q: [] cannot be read", model.ErrMalformedArgs, key)
		}
	}
	v, ok := lookupPath(root, path)
	return v, ok, nil
}

func lookupPath(root value.Value, path []Segment) (value.Value, bool) {
	cur := root
	for _, s := range path {
		switch s.Kind {
		case SegmentKey:
			m, ok := cur.(*value.Map)
			if !ok {
				return nil, false
			}
			if cur, ok = m.Get(s.Key); !ok {
				return nil, false
			}
		case SegmentIndex:
			l, ok := cur.(*value.List)
			if !ok || l == nil || s.Index >= l.Len() {
				return nil, false
			}
			cur = l.Index(s.Index)
		default:
			return nil, false
		}
	}
	return cur, true
}

func newContainer(next Segment) value.Value {
	if next.wantsSequence() {
		return value.NewList()
	}
	return value.NewMap()
}

func conflict(path []Segment, want string, got value.Value) error {
	return &model.PathConflictError{Path: FormatPath(path), Want: want, Got: value.TypeOf(got).String()}
}
