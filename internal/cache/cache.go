package cache

import (
	"context"
	"time"
)

// Cache is the key/value surface the suggestion service needs. Memory is
// used in a single process; the Redis implementation lives in
// platform/redis and shares entries across replicas.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, val []byte, ttl time.Duration) error
}

// SuggestionKey combines the caller with the exact context text. Anonymous
// callers share the "anon" bucket.
func SuggestionKey(userID, contextSummary string) string {
	if userID == "" {
		userID = "anon"
	}
	return userID + ":" + contextSummary
}
