// Package util provides shared utility functions.
package util

import (
	"errors"
	"fmt"
	"strings"
)

const (
	// DefaultShortIDLength is the number of uuid characters shown in listings.
	DefaultShortIDLength = 8
	// MaxAmbiguousCandidates is the max number of candidates to show in ambiguous error.
	MaxAmbiguousCandidates = 5
)

// Errors returned by ID resolution functions.
var (
	ErrAmbiguousID = errors.New("ambiguous ID prefix")
	ErrNotFound    = errors.New("not found")
)

// ShortID returns a shortened version of an ID.
// If n is 0 or negative, DefaultShortIDLength (8) is used.
//
//	ShortID("3f2a9c1e-7b44-4d0e-9a51-0c8e2f6b1d77", 0) → "3f2a9c1e"
func ShortID(id string, n int) string {
	if n <= 0 {
		n = DefaultShortIDLength
	}
	if len(id) <= n {
		return id
	}
	return id[:n]
}

// ResolveID resolves an id or unique prefix against the known ids.
//
// Resolution rules:
//  1. An exact match wins even if it is also a prefix of another id.
//  2. If idOrPrefix matches exactly one id prefix, return that id.
//  3. If multiple match, return ErrAmbiguousID with candidates.
//  4. If none match, return ErrNotFound.
func ResolveID(idOrPrefix string, ids []string) (string, error) {
	ref := strings.ToLower(strings.TrimSpace(idOrPrefix))
	if ref == "" {
		return "", fmt.Errorf("empty ID: %w", ErrNotFound)
	}

	var candidates []string
	for _, id := range ids {
		if id == ref {
			return id, nil
		}
		if strings.HasPrefix(id, ref) {
			candidates = append(candidates, id)
		}
	}
	return resolveFromCandidates(ref, candidates)
}

func resolveFromCandidates(prefix string, candidates []string) (string, error) {
	switch len(candidates) {
	case 0:
		return "", fmt.Errorf("prefix %q: %w", prefix, ErrNotFound)
	case 1:
		return candidates[0], nil
	default:
		shown := candidates
		if len(shown) > MaxAmbiguousCandidates {
			shown = shown[:MaxAmbiguousCandidates]
		}
		return "", fmt.Errorf("%w: prefix %q matches %d ids: %v",
			ErrAmbiguousID, prefix, len(candidates), shown)
	}
}
