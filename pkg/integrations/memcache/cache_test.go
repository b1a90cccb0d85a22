package memcache

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCache_SetAndGet(t *testing.T) {
	c := New[string, string]()

	c.Set("crypto_coin", "BITCOIN - BTC")
	c.Set("currency", "usd")

	val, ok := c.Get("crypto_coin")
	assert.True(t, ok)
	assert.Equal(t, "BITCOIN - BTC", val)

	c.Set("currency", "gbp")
	val, ok = c.Get("currency")
	assert.True(t, ok)
	assert.Equal(t, "gbp", val)

	_, ok = c.Get("missing")
	assert.False(t, ok)
}

func TestCache_Delete(t *testing.T) {
	c := New[string, int]()

	c.Set("a", 1)
	c.Delete("a")

	_, ok := c.Get("a")
	assert.False(t, ok)
	assert.Equal(t, 0, c.Len())
}

func TestCache_Keys(t *testing.T) {
	c := New[string, int]()

	c.Set("a", 1)
	c.Set("b", 2)

	keys := c.Keys()
	assert.Len(t, keys, 2)
	assert.Contains(t, keys, "a")
	assert.Contains(t, keys, "b")
}

func TestCache_ConcurrentAccess(t *testing.T) {
	c := New[int, int]()
	var wg sync.WaitGroup

	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			c.Set(i, i*2)
		}(i)
	}

	wg.Wait()
	assert.Equal(t, 100, c.Len())

	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			val, ok := c.Get(i)
			assert.True(t, ok)
			assert.Equal(t, i*2, val)
		}(i)
	}

	wg.Wait()
}
