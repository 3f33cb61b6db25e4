// Package idgen generates URL-safe session identifiers backed by nanoid.
package idgen

import (
	"fmt"

	nanoid "github.com/matoous/go-nanoid/v2"
)

// Alphabet is the character set of generated ids.
const Alphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// SessionIDLength gives roughly 190 bits of randomness.
const SessionIDLength = 32

// SessionID returns a new random session id.
func SessionID() (string, error) {
	id, err := nanoid.Generate(Alphabet, SessionIDLength)
	if err != nil {
		return "", fmt.Errorf("idgen: %w", err)
	}
	return id, nil
}
