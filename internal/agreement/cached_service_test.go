package agreement

import (
	"context"
	"encoding/json"
	"path"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nfticket/pkg/cache"
	"nfticket/pkg/logger"
)

// fakeCache is an in-memory cache.Service. GetOrSet stores synchronously so
// tests can observe hits deterministically.
type fakeCache struct {
	entries map[string][]byte
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: make(map[string][]byte)}
}

func (c *fakeCache) Get(ctx context.Context, key string, dest interface{}) error {
	data, ok := c.entries[key]
	if !ok {
		return cache.ErrCacheMiss
	}
	return json.Unmarshal(data, dest)
}

func (c *fakeCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.entries[key] = data
	return nil
}

func (c *fakeCache) Delete(ctx context.Context, key string) error {
	delete(c.entries, key)
	return nil
}

func (c *fakeCache) DeletePattern(ctx context.Context, pattern string) error {
	for key := range c.entries {
		if ok, _ := path.Match(pattern, key); ok {
			delete(c.entries, key)
		}
	}
	return nil
}

func (c *fakeCache) Exists(ctx context.Context, key string) bool {
	_, ok := c.entries[key]
	return ok
}

func (c *fakeCache) GetOrSet(ctx context.Context, key string, ttl time.Duration, fetcher func() (interface{}, error), dest interface{}) error {
	if err := c.Get(ctx, key, dest); err == nil {
		return nil
	}
	data, err := fetcher()
	if err != nil {
		return err
	}
	if err := c.Set(ctx, key, data, ttl); err != nil {
		return err
	}
	return c.Get(ctx, key, dest)
}

func (c *fakeCache) Ping(ctx context.Context) error { return nil }

func TestCachedService(t *testing.T) {
	ctx := context.Background()

	t.Run("reads are served from cache until invalidated", func(t *testing.T) {
		inner, repo, _, _ := newTestService(t)
		store := newFakeCache()
		svc := NewCachedService(inner, store, logger.GetDefault())
		id := prepareFinalized(t, svc, 5)

		first, err := svc.GetAgreement(ctx, id)
		require.NoError(t, err)

		// A write behind the cache's back is not visible yet.
		stale, err := repo.GetByID(ctx, id)
		require.NoError(t, err)
		stale.Balance = 9999
		require.NoError(t, repo.SaveAgreement(ctx, stale))

		second, err := svc.GetAgreement(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, first.Agreement.Balance, second.Agreement.Balance)

		// A mutation through the service invalidates the entry.
		_, err = svc.Deposit(ctx, id, attendeeID, 100)
		require.NoError(t, err)

		fresh, err := svc.GetAgreement(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, int64(10_099), fresh.Agreement.Balance)
	})

	t.Run("ticket cache is invalidated by a scan", func(t *testing.T) {
		inner, _, _, _ := newTestService(t)
		store := newFakeCache()
		svc := NewCachedService(inner, store, logger.GetDefault())
		id := prepareFinalized(t, svc, 5)

		tkt, err := svc.PurchaseTicket(ctx, id, attendeeID, "", "GA", "seat", defaultPrice)
		require.NoError(t, err)

		cached, err := svc.GetTicket(ctx, id, tkt.Serial)
		require.NoError(t, err)
		assert.False(t, cached.Scanned)

		_, err = svc.ScanTicket(ctx, id, venueID, tkt.Serial)
		require.NoError(t, err)

		rescanned, err := svc.GetTicket(ctx, id, tkt.Serial)
		require.NoError(t, err)
		assert.True(t, rescanned.Scanned)
	})

	t.Run("failed mutations keep the cache intact", func(t *testing.T) {
		inner, _, _, _ := newTestService(t)
		store := newFakeCache()
		svc := NewCachedService(inner, store, logger.GetDefault())
		id := prepareFinalized(t, svc, 5)

		_, err := svc.GetAgreement(ctx, id)
		require.NoError(t, err)
		entriesBefore := len(store.entries)

		_, err = svc.SetVenueFeeBasisPoints(ctx, id, attendeeID, 100)
		assert.ErrorIs(t, err, ErrUnauthorized)
		assert.Len(t, store.entries, entriesBefore)
	})
}
