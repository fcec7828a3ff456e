// Package slug builds URL-safe handles and retries until one is free.
package slug

import (
	"context"
	"errors"
	"strings"

	"github.com/shopdesk/shopdesk-go/internal/crypto"
)

const (
	MaxLength   = 64
	MaxAttempts = 5
	suffixLen   = 6
	fallback    = "item"
)

var ErrSlugExhausted = errors.New("could not find a free slug")

// ExistsFunc reports whether slug is already taken.
type ExistsFunc func(ctx context.Context, slug string) (bool, error)

// Make lowercases s and collapses every run of non-alphanumeric ASCII into a
// single hyphen. An empty result becomes "item".
func Make(s string) string {
	var b strings.Builder
	pendingDash := false

	for _, r := range strings.ToLower(s) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if pendingDash && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingDash = false
			b.WriteRune(r)
			continue
		}
		pendingDash = true
	}

	out := b.String()
	if len(out) > MaxLength {
		out = strings.TrimRight(out[:MaxLength], "-")
	}
	if out == "" {
		return fallback
	}
	return out
}

// Unique returns base if it is free, otherwise base with a random suffix.
// It gives up with ErrSlugExhausted after MaxAttempts tries.
func Unique(ctx context.Context, base string, exists ExistsFunc) (string, error) {
	base = Make(base)
	candidate := base

	for attempt := 0; attempt < MaxAttempts; attempt++ {
		if attempt > 0 {
			suffix, err := crypto.RandomString(suffixLen, crypto.SlugAlphabet)
			if err != nil {
				return "", err
			}
			candidate = withSuffix(base, suffix)
		}

		taken, err := exists(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
	}

	return "", ErrSlugExhausted
}

func withSuffix(base, suffix string) string {
	limit := MaxLength - len(suffix) - 1
	if len(base) > limit {
		base = strings.TrimRight(base[:limit], "-")
	}
	return base + "-" + suffix
}
