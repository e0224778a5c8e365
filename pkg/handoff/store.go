package handoff

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/matzehuels/scatterbox/pkg/cache"
)

// Store keeps handoff values until they are taken.
type Store struct {
	cache cache.Cache
	keyer cache.Keyer
}

// NewStore stores values in c under keys from k. A nil keyer uses the
// default.
func NewStore(c cache.Cache, k cache.Keyer) *Store {
	if k == nil {
		k = cache.NewDefaultKeyer()
	}
	return &Store{cache: c, keyer: k}
}

// Put stores v for client, replacing any unread value.
func (s *Store) Put(ctx context.Context, client string, v Value) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode handoff: %w", err)
	}
	return s.cache.Set(ctx, s.keyer.HandoffKey(client), data, cache.HandoffTTL)
}

// Take returns the value stored for client and removes it, so a value is
// consumed exactly once. A malformed value is removed and reported as
// absent.
func (s *Store) Take(ctx context.Context, client string) (Value, bool, error) {
	data, ok, err := cache.Take(ctx, s.cache, s.keyer.HandoffKey(client))
	if err != nil || !ok {
		return Value{}, false, err
	}
	var v Value
	if err := json.Unmarshal(data, &v); err != nil {
		return Value{}, false, nil
	}
	return v, true, nil
}
