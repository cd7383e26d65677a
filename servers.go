package resp

import (
	"errors"
	"fmt"
	"net"
	"slices"

	"github.com/pior/resp/internal"
)

var ErrNoServers = errors.New("resp: no servers")

// Servers provides the resolved addresses of the backing stores.
type Servers interface {
	List() []*net.TCPAddr
}

// StaticServers is a fixed list of addresses resolved once, at construction.
type StaticServers struct {
	addrs []*net.TCPAddr
}

var _ Servers = (*StaticServers)(nil)

// NewStaticServers resolves every host:port eagerly. It fails if the list is
// empty or if any address does not resolve.
func NewStaticServers(addrs ...string) (*StaticServers, error) {
	if len(addrs) == 0 {
		return nil, ErrNoServers
	}

	resolved := make([]*net.TCPAddr, 0, len(addrs))
	for _, addr := range addrs {
		tcpAddr, err := net.ResolveTCPAddr("tcp", addr)
		if err != nil {
			return nil, fmt.Errorf("resp: resolve %q: %w", addr, err)
		}
		resolved = append(resolved, tcpAddr)
	}

	return &StaticServers{addrs: resolved}, nil
}

// List returns a copy of the resolved addresses.
func (s *StaticServers) List() []*net.TCPAddr {
	return slices.Clone(s.addrs)
}

// ServerSelector picks the index of the server handling a store key.
// It must return a value in [0, serverCount).
type ServerSelector func(key string, serverCount int) int

// DefaultServerSelector hashes the key with xxh3 and maps it with Jump Hash.
// With a single server it always returns 0.
func DefaultServerSelector(key string, serverCount int) int {
	return internal.Shard(key, serverCount)
}

// staticSelector is used in tests to always select a specific server.
func staticSelector(index int) ServerSelector {
	return func(key string, serverCount int) int {
		return index % serverCount
	}
}
