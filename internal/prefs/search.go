// Package prefs persists user preferences that outlive a session. It only
// talks to a store.KV and never sees the list state.
package prefs

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/idilsaglam/stories/internal/store"
)

// SearchTerm seeds the filter input from the KV and writes it back when it
// changes.
type SearchTerm struct {
	kv   store.KV
	key  string
	last string
	log  zerolog.Logger
}

func NewSearchTerm(kv store.KV, key string, log zerolog.Logger) *SearchTerm {
	return &SearchTerm{kv: kv, key: key, log: log}
}

// Load returns the stored term, or fallback when none is stored or the read
// fails.
func (s *SearchTerm) Load(ctx context.Context, fallback string) string {
	v, ok, err := s.kv.Get(ctx, s.key)
	if err != nil {
		s.log.Warn().Err(err).Str("key", s.key).Msg("load search term")
	}
	if err != nil || !ok {
		v = fallback
	}
	s.last = v
	return v
}

// Sync writes term if it differs from the last value seen. Failures are logged
// and retried on the next call.
func (s *SearchTerm) Sync(ctx context.Context, term string) {
	if term == s.last {
		return
	}
	if err := s.kv.Set(ctx, s.key, term); err != nil {
		s.log.Warn().Err(err).Str("key", s.key).Msg("persist search term")
		return
	}
	s.last = term
}
