// Package cliargs turns free-form command line tokens such as
// "--spec.stages[0].name x" into a value tree.
package cliargs

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/emergentmethods/flowctl/domain/model"
)

// maxIndex bounds explicit sequence indices so that a typo cannot allocate
// an enormous padded sequence.
const maxIndex = 4096

// SegmentKind is the type of one key path step.
type SegmentKind int

const (
	SegmentKey    SegmentKind = iota // mapping key, "name"
	SegmentIndex                     // sequence index, "[2]"
	SegmentAppend                    // new sequence element, "[]"
)

// Segment is one step of a key path.
type Segment struct {
	Kind  SegmentKind
	Key   string
	Index int
}

func (s Segment) String() string {
	switch s.Kind {
	case SegmentIndex:
		return "[" + strconv.Itoa(s.Index) + "]"
	case SegmentAppend:
		return "[]"
	}
	return s.Key
}

// wantsSequence reports whether the container holding this segment must be a sequence.
func (s Segment) wantsSequence() bool { return s.Kind != SegmentKey }

// FormatPath renders segments back into key path syntax.
func FormatPath(path []Segment) string {
	var b strings.Builder
	for i, s := range path {
		if i > 0 && s.Kind == SegmentKey {
			b.WriteByte('.')
		}
		b.WriteString(s.String())
	}
	return b.String()
}

func isWord(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// ParseKey splits a key such as "a.b[0][]" into segments. Keys are runs of
// letters, digits and underscores; brackets hold an index or nothing; a dot may
// separate two segments. Any other character is rejected.
func ParseKey(key string) ([]Segment, error) {
	rs := []rune(key)
	var out []Segment
	malformed := func(pos int, why string) error {
		return fmt.Errorf("%w: key %q at offset %d: %s", model.ErrMalformedArgs, key, pos, why)
	}
	for i := 0; i < len(rs); {
		switch {
		case rs[i] == '.':
			if len(out) == 0 || i+1 >= len(rs) || rs[i+1] == '.' {
				return nil, malformed(i, "dot must separate two segments")
			}
			i++
		case rs[i] == '[':
			j := i + 1
			for j < len(rs) && rs[j] >= '0' && rs[j] <= '9' {
				j++
			}
			if j >= len(rs) || rs[j] != ']' {
				return nil, malformed(i, "unterminated or non-numeric index")
			}
			if j == i+1 {
				out = append(out, Segment{Kind: SegmentAppend})
			} else {
				n, err := strconv.Atoi(string(rs[i+1 : j]))
				if err != nil || n > maxIndex {
					return nil, malformed(i, fmt.Sprintf("index out of range (max %d)", maxIndex))
				}
				out = append(out, Segment{Kind: SegmentIndex, Index: n})
			}
			i = j + 1
		case isWord(rs[i]):
			j := i
			for j < len(rs) && isWord(rs[j]) {
				j++
			}
			out = append(out, Segment{Kind: SegmentKey, Key: string(rs[i:j])})
			i = j
		default:
			return nil, malformed(i, fmt.Sprintf("unexpected character %q", rs[i]))
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: empty key", model.ErrMalformedArgs)
	}
	return out, nil
}
