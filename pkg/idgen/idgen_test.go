package idgen

import (
	"strings"
	"testing"
)

func TestSessionID(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id, err := SessionID()
		if err != nil {
			t.Fatalf("SessionID() error = %v", err)
		}
		if len(id) != SessionIDLength {
			t.Errorf("expected length %d, got %d", SessionIDLength, len(id))
		}
		if strings.Trim(id, Alphabet) != "" {
			t.Errorf("id %q has characters outside the alphabet", id)
		}
		if seen[id] {
			t.Errorf("duplicate id %q", id)
		}
		seen[id] = true
	}
}
