package cache

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNilCacheIsNoOp(t *testing.T) {
	var c *Cache
	ctx := context.Background()

	var out string
	err := c.Get(ctx, "k", &out)
	assert.ErrorIs(t, err, ErrMiss)

	assert.NoError(t, c.Set(ctx, "k", "v"))
	assert.NoError(t, c.Close())
}

func TestConnectEmptyAddrDisablesCache(t *testing.T) {
	c, err := Connect(context.Background(), "", "", 0, 0)
	require.NoError(t, err)
	assert.Nil(t, c)
}

func TestKeyStableAndDistinct(t *testing.T) {
	a := Key("openai", "gpt-4o-mini", "hello")
	b := Key("openai", "gpt-4o-mini", "hello")
	c := Key("openai", "gpt-4o-mini", "hello!")
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)

	// Part boundaries matter: "ab"+"c" is not "a"+"bc".
	assert.NotEqual(t, Key("ab", "c"), Key("a", "bc"))
}
