package value

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustJSON(t *testing.T, s string) Value {
	t.Helper()
	v, err := DecodeJSON([]byte(s))
	require.NoError(t, err)
	return v
}

func mustMap(t *testing.T, s string) *Map {
	t.Helper()
	m, ok := mustJSON(t, s).(*Map)
	require.True(t, ok, "not a mapping: %s", s)
	return m
}

func TestMerge(t *testing.T) {
	cases := []struct {
		name  string
		base  string
		patch string
		want  string
	}{
		{
			name:  "nested mapping",
			base:  `{"a":1,"b":{"c":2,"d":3}}`,
			patch: `{"b":{"c":99}}`,
			want:  `{"a":1,"b":{"c":99,"d":3}}`,
		},
		{
			name:  "sequence of mappings merged by position",
			base:  `{"items":[{"id":1,"n":"a"},{"id":2,"n":"b"}]}`,
			patch: `{"items":[{"n":"A"}]}`,
			want:  `{"items":[{"id":1,"n":"A"},{"id":2,"n":"b"}]}`,
		},
		{
			name:  "null patch element keeps base element",
			base:  `{"l":[1,2,3]}`,
			patch: `{"l":[null,9,null]}`,
			want:  `{"l":[1,9,3]}`,
		},
		{
			name:  "longer patch sequence appends",
			base:  `{"l":[1]}`,
			patch: `{"l":[null,2,3]}`,
			want:  `{"l":[1,2,3]}`,
		},
		{
			name:  "absent key copied",
			base:  `{"a":1}`,
			patch: `{"b":{"c":[1]}}`,
			want:  `{"a":1,"b":{"c":[1]}}`,
		},
		{
			name:  "type mismatch replaced",
			base:  `{"a":{"x":1},"b":[1,2]}`,
			patch: `{"a":"flat","b":{"k":"v"}}`,
			want:  `{"a":"flat","b":{"k":"v"}}`,
		},
		{
			name:  "scalar replaced by null",
			base:  `{"a":1}`,
			patch: `{"a":null}`,
			want:  `{"a":null}`,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			base := mustMap(t, tc.base)
			patch := mustMap(t, tc.patch)
			got := Merge(base, patch)
			assert.True(t, Equal(mustJSON(t, tc.want), got), "got %s", mustEncode(t, got))
		})
	}
}

func TestMergeIdentity(t *testing.T) {
	docs := []string{
		`{}`,
		`{"a":1}`,
		`{"a":{"b":[1,{"c":null}]},"d":true,"e":"x"}`,
		`{"l":[null,null,3]}`,
	}
	for _, doc := range docs {
		x := mustMap(t, doc)
		assert.True(t, Equal(x, Merge(x, NewMap())), doc)
	}
}

func TestMergeDoesNotMutateInputs(t *testing.T) {
	base := mustMap(t, `{"a":{"b":1},"l":[{"x":1}]}`)
	patch := mustMap(t, `{"a":{"b":2},"l":[{"y":2}]}`)
	baseCopy, patchCopy := base.Clone(), patch.Clone()

	got := Merge(base, patch)
	require.True(t, Equal(mustJSON(t, `{"a":{"b":2},"l":[{"x":1,"y":2}]}`), got))
	assert.True(t, Equal(baseCopy, base))
	assert.True(t, Equal(patchCopy, patch))

	// The result must not alias the patch.
	inner, _ := Path(got, "a")
	inner.(*Map).Set("b", Number("3"))
	assert.Equal(t, "2", PathString(patch, "a", "b"))
}

func TestMergeListsLength(t *testing.T) {
	cases := []struct {
		base, patch string
		want        int
	}{
		{`[1,2,3]`, `[9]`, 3},
		{`[1]`, `[9,8,7,6]`, 4},
		{`[]`, `[]`, 0},
	}
	for _, tc := range cases {
		got := MergeLists(mustJSON(t, tc.base).(*List), mustJSON(t, tc.patch).(*List))
		assert.Equal(t, tc.want, got.Len(), "%s + %s", tc.base, tc.patch)
	}
}

func TestMergeNilBase(t *testing.T) {
	got := Merge(nil, mustMap(t, `{"a":1}`))
	assert.True(t, Equal(mustJSON(t, `{"a":1}`), got))
}

func mustEncode(t *testing.T, v Value) string {
	t.Helper()
	b, err := MarshalJSON(v)
	require.NoError(t, err)
	return string(b)
}
