// Package naming generates and validates the names the in-process server
// assigns to resources.
package naming

import (
	"crypto/rand"
	"fmt"
	"strconv"
	"time"
)

// maxCompactTime is 36^7, the first second that no longer fits 7 base36 chars.
const maxCompactTime = 78364164096

// NewCompactID returns a time-ordered compact ID of 12 lowercase base36 chars:
// a 7-char timestamp in seconds followed by 5 random chars.
func NewCompactID(now time.Time) (string, error) {
	ts := now.UTC().Unix()
	if ts < 0 || ts >= maxCompactTime {
		return "", fmt.Errorf("timestamp out of range for compact id: %d", ts)
	}

	var b [3]byte
	if _, err := rand.Read(b[:]); err != nil {
		return "", fmt.Errorf("generate random bytes: %w", err)
	}
	r := (uint64(b[0])<<16 | uint64(b[1])<<8 | uint64(b[2])) % (36 * 36 * 36 * 36 * 36)

	return fmt.Sprintf("%07s%05s", strconv.FormatInt(ts, 36), strconv.FormatUint(r, 36)), nil
}

// RunName names a workflow run after its workflow, e.g. build-0t3k1mz9x2ab.
func RunName(workflow string, now time.Time) (string, error) {
	id, err := NewCompactID(now)
	if err != nil {
		return "", err
	}
	return workflow + "-" + id, nil
}
