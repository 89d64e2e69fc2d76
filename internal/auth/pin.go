// Package auth guards timetable editing behind an admin PIN.
package auth

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrInvalidPIN is returned when the PIN does not match.
	ErrInvalidPIN = errors.New("invalid PIN")
	// ErrNoPIN is returned when no PIN is configured. Editing is open.
	ErrNoPIN = errors.New("no PIN configured")
	// ErrWeakPIN is returned by HashPIN for PINs that are too short.
	ErrWeakPIN = errors.New("PIN must have at least 4 characters")
)

// MinPINLength is the shortest PIN HashPIN accepts.
const MinPINLength = 4

// Gate checks PINs against a bcrypt hash.
type Gate struct {
	hash []byte
}

// NewGate creates a gate for hash. An empty hash leaves editing open.
func NewGate(hash string) *Gate {
	return &Gate{hash: []byte(strings.TrimSpace(hash))}
}

// Enabled reports whether a PIN is required.
func (g *Gate) Enabled() bool {
	return g != nil && len(g.hash) > 0
}

// Check verifies pin. It returns ErrNoPIN when the gate is open and
// ErrInvalidPIN on mismatch.
func (g *Gate) Check(pin string) error {
	if !g.Enabled() {
		return ErrNoPIN
	}
	if err := bcrypt.CompareHashAndPassword(g.hash, []byte(pin)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return ErrInvalidPIN
		}
		return fmt.Errorf("checking PIN: %w", err)
	}
	return nil
}

// Allow reports whether pin grants editing: either no PIN is configured or
// pin matches.
func (g *Gate) Allow(pin string) bool {
	err := g.Check(pin)
	return err == nil || errors.Is(err, ErrNoPIN)
}

// HashPIN returns the bcrypt hash to store in the config.
func HashPIN(pin string) (string, error) {
	if len(pin) < MinPINLength {
		return "", ErrWeakPIN
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(pin), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hashing PIN: %w", err)
	}
	return string(hash), nil
}
