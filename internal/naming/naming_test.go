package naming

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCompactID(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	seen := map[string]bool{}
	for i := 0; i < 200; i++ {
		id, err := NewCompactID(now)
		require.NoError(t, err)
		require.Len(t, id, 12)
		assert.Regexp(t, `^[0-9a-z]{12}$`, id)
		seen[id] = true
	}
	assert.Greater(t, len(seen), 190)

	earlier, err := NewCompactID(now.Add(-time.Hour))
	require.NoError(t, err)
	later, err := NewCompactID(now)
	require.NoError(t, err)
	assert.Less(t, earlier[:7], later[:7])

	_, err = NewCompactID(time.Unix(-1, 0))
	assert.Error(t, err)
}

func TestRunName(t *testing.T) {
	name, err := RunName("build", time.Now())
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(name, "build-"))
	assert.Len(t, name, len("build-")+12)
}

func TestValidateResourceName(t *testing.T) {
	for _, name := range []string{"build", "my_workflow", "v1.2-final", "A"} {
		assert.NoError(t, ValidateResourceName("workflow", name), name)
	}
	tests := map[string]string{
		"":                      "must not be empty",
		"-lead":                 "invalid workflow name",
		"has space":             "invalid workflow name",
		"ns/name":               "must not contain '/'",
		strings.Repeat("a", 64): "invalid workflow name",
	}
	for name, want := range tests {
		err := ValidateResourceName("workflow", name)
		if assert.Error(t, err, name) {
			assert.Contains(t, err.Error(), want)
		}
	}
}
