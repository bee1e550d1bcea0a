// Package id generates prefixed NanoIDs for stored entities.
package id

import (
	"fmt"
	"strings"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// PrefixDialog identifies dialog sessions ("dlg-V1StGXR8_Z5jdHi6B-myT").
const PrefixDialog = "dlg"

// nanoLength and nanoAlphabet match gonanoid.New.
const (
	nanoLength   = 21
	nanoAlphabet = "_-0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"
)

// Generate creates a prefixed unique ID using NanoID.
// Format: prefix-nanoid (e.g., "dlg-V1StGXR8_Z5jdHi6B-myT").
//
// Returns an error if the system has insufficient entropy for secure random generation.
func Generate(prefix string) (string, error) {
	id, err := gonanoid.New()
	if err != nil {
		return "", fmt.Errorf("generate nanoid: %w", err)
	}
	return prefix + "-" + id, nil
}

// MustGenerate is like Generate but panics if ID generation fails.
func MustGenerate(prefix string) string {
	id, err := Generate(prefix)
	if err != nil {
		panic(fmt.Sprintf("failed to generate ID: %v", err))
	}
	return id
}

// Valid reports whether s looks like an ID produced by Generate with prefix.
// Used to reject garbage path parameters before touching the store.
func Valid(s, prefix string) bool {
	rest, ok := strings.CutPrefix(s, prefix+"-")
	if !ok || len(rest) != nanoLength {
		return false
	}
	for _, r := range rest {
		if !strings.ContainsRune(nanoAlphabet, r) {
			return false
		}
	}
	return true
}
