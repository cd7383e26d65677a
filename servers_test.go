package resp

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStaticServers(t *testing.T) {
	servers, err := NewStaticServers("127.0.0.1:6379", "[::1]:6380")
	require.NoError(t, err)

	addrs := servers.List()
	require.Len(t, addrs, 2)
	assert.Equal(t, "127.0.0.1:6379", addrs[0].String())
	assert.Equal(t, "[::1]:6380", addrs[1].String())
	assert.Equal(t, 6380, addrs[1].Port)
}

func TestNewStaticServers_Errors(t *testing.T) {
	_, err := NewStaticServers()
	assert.ErrorIs(t, err, ErrNoServers)

	_, err = NewStaticServers("127.0.0.1:6379", "127.0.0.1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `resolve "127.0.0.1"`)

	_, err = NewStaticServers("127.0.0.1:notaport")
	require.Error(t, err)
}

func TestStaticServers_ListIsACopy(t *testing.T) {
	servers, err := NewStaticServers("127.0.0.1:6379")
	require.NoError(t, err)

	addrs := servers.List()
	addrs[0] = nil

	assert.NotNil(t, servers.List()[0])
}

func TestDefaultServerSelector(t *testing.T) {
	assert.Equal(t, 0, DefaultServerSelector("anything", 1))
	assert.Equal(t, 0, DefaultServerSelector("anything", 0))

	for i := range 1000 {
		key := fmt.Sprintf("Session-%d", i)
		idx := DefaultServerSelector(key, 3)
		assert.GreaterOrEqual(t, idx, 0)
		assert.Less(t, idx, 3)
		assert.Equal(t, idx, DefaultServerSelector(key, 3), "selection must be stable")
	}
}

func TestStaticSelector(t *testing.T) {
	sel := staticSelector(4)
	assert.Equal(t, 1, sel("k", 3))
	assert.Equal(t, 0, sel("k", 1))
}
