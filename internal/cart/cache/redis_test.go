package cache

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mariwi1503/mini-market-pondok/internal/cart/domain"
)

// setupTestRedis creates a miniredis server and returns a RedisCache instance
func setupTestRedis(t *testing.T) (*RedisCache, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
	t.Cleanup(func() { client.Close() })

	return NewRedisCache(client), mr
}

func TestGet_Success(t *testing.T) {
	c, mr := setupTestRedis(t)

	ctx := context.Background()
	userID := "user123"

	cart := &domain.Cart{
		UserID:        userID,
		SchemaVersion: domain.SchemaVersion,
		Items: []domain.CartItem{
			{ProductID: "p1", Quantity: 2},
			{ProductID: "p2", Quantity: 3},
		},
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	cartJSON, _ := json.Marshal(cart)
	mr.Set(cacheKey(userID), string(cartJSON))

	result, err := c.Get(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, userID, result.UserID)
	assert.Len(t, result.Items, 2)
	assert.Equal(t, "p1", result.Items[0].ProductID)
}

func TestGet_CacheMiss(t *testing.T) {
	c, _ := setupTestRedis(t)

	result, err := c.Get(context.Background(), "nobody")
	assert.ErrorIs(t, err, ErrCacheMiss)
	assert.Nil(t, result)
}

func TestGet_CorruptEntry(t *testing.T) {
	c, mr := setupTestRedis(t)

	mr.Set(cacheKey("user123"), "{not json")

	result, err := c.Get(context.Background(), "user123")
	assert.Error(t, err)
	assert.Nil(t, result)
}

func TestSet_RoundTrip(t *testing.T) {
	c, mr := setupTestRedis(t)

	ctx := context.Background()
	cart := &domain.Cart{
		UserID:        "user123",
		SchemaVersion: domain.SchemaVersion,
		Items:         []domain.CartItem{{ProductID: "p1", Quantity: 1}},
	}

	require.NoError(t, c.Set(ctx, "user123", cart))
	assert.True(t, mr.Exists(cacheKey("user123")))

	result, err := c.Get(ctx, "user123")
	require.NoError(t, err)
	assert.Equal(t, cart.Items, result.Items)

	// entries expire
	ttl := mr.TTL(cacheKey("user123"))
	assert.GreaterOrEqual(t, ttl, 15*time.Minute)
}

func TestDelete(t *testing.T) {
	c, mr := setupTestRedis(t)

	ctx := context.Background()
	mr.Set(cacheKey("user123"), "{}")

	require.NoError(t, c.Delete(ctx, "user123"))
	assert.False(t, mr.Exists(cacheKey("user123")))
}

func TestDelete_AbsentKey(t *testing.T) {
	c, _ := setupTestRedis(t)

	assert.NoError(t, c.Delete(context.Background(), "nobody"))
}
