package internal

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestJumpHash_Range(t *testing.T) {
	for buckets := 1; buckets <= 16; buckets++ {
		for key := uint64(0); key < 1000; key++ {
			b := JumpHash(key, buckets)
			assert.GreaterOrEqual(t, b, 0)
			assert.Less(t, b, buckets)
		}
	}
}

func TestJumpHash_NoBuckets(t *testing.T) {
	assert.Equal(t, 0, JumpHash(42, 0))
	assert.Equal(t, 0, JumpHash(42, -1))
}

func TestShard_Stable(t *testing.T) {
	for i := range 100 {
		key := fmt.Sprintf("Session-%d", i)
		assert.Equal(t, Shard(key, 5), Shard(key, 5))
	}
}

func TestShard_SingleServer(t *testing.T) {
	assert.Equal(t, 0, Shard("anything", 1))
	assert.Equal(t, 0, Shard("anything", 0))
}

// Growing from n to n+1 servers only moves keys to the new server.
func TestShard_MinimalMovement(t *testing.T) {
	for i := range 1000 {
		key := fmt.Sprintf("key-%d", i)
		before := Shard(key, 4)
		after := Shard(key, 5)
		if before != after {
			assert.Equal(t, 4, after, "key %s moved from %d to %d", key, before, after)
		}
	}
}

func TestShard_Distribution(t *testing.T) {
	counts := make([]int, 4)
	for i := range 4000 {
		counts[Shard(fmt.Sprintf("user-%d", i), 4)]++
	}
	for server, n := range counts {
		assert.InDelta(t, 1000, n, 200, "server %d", server)
	}
}
