package resp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"sync/atomic"
	"time"

	"github.com/pior/resp/wire"
	"github.com/sony/gobreaker/v2"
)

// Defaults for zero Config fields.
const (
	DefaultDialTimeout    = 5 * time.Second
	DefaultCredentialsKey = "credentials"
	DefaultSessionPrefix  = "Session-"
)

// Config holds configuration for the client.
// The zero Config is valid.
type Config struct {
	// Dialer is the net.Dialer used to open connections.
	// If nil, a net.Dialer with DefaultDialTimeout is used.
	Dialer *net.Dialer

	// Timeout bounds each command: dial, write and read.
	// Zero means only the caller's context applies.
	Timeout time.Duration

	// MaxConns caps the simultaneous connections to each server. Commands
	// beyond the cap wait for a free slot. Connections are never reused.
	// Zero means no cap.
	MaxConns int32

	// SelectServer picks which server handles a store key.
	// If nil, uses DefaultServerSelector (xxh3 + Jump Hash).
	SelectServer ServerSelector

	// NewCircuitBreaker creates a circuit breaker for a server.
	// Called once per server address when the client is created.
	// If nil, no circuit breaker is used.
	NewCircuitBreaker func(serverAddr string) *gobreaker.CircuitBreaker[wire.Value]

	// Logger receives debug logs per command and warnings about misbehaving
	// stores. If nil, slog.Default() is used.
	Logger *slog.Logger

	// CredentialsKey is the hash mapping usernames to secrets.
	// If empty, DefaultCredentialsKey is used.
	CredentialsKey string

	// SessionPrefix namespaces session keys.
	// If empty, DefaultSessionPrefix is used.
	SessionPrefix string

	// for testing purposes only
	dialContext func(ctx context.Context, network, addr string) (net.Conn, error)
}

// server is one backing store with its optional connection cap and breaker.
type server struct {
	addr           string
	gate           *connGate // nil without MaxConns
	circuitBreaker *gobreaker.CircuitBreaker[wire.Value]
}

// Client sends commands to the backing store.
//
// Each command uses its own connection: dial, one write, one read, close.
// There is no pooling, pipelining or retry. A Client is safe for concurrent
// use; concurrent commands share no connection.
type Client struct {
	servers      []*server
	selectServer ServerSelector
	dialContext  func(ctx context.Context, network, addr string) (net.Conn, error)
	timeout      time.Duration
	logger       *slog.Logger

	credentialsKey string
	sessionPrefix  string

	closed atomic.Bool
	stats  *clientStatsCollector
}

// New creates a client for a single store at addr (host:port). The address is
// resolved immediately.
func New(addr string, config Config) (*Client, error) {
	servers, err := NewStaticServers(addr)
	if err != nil {
		return nil, err
	}
	return NewClient(servers, config)
}

// NewClient creates a client for the given servers. Commands are spread over
// the servers by the key they address.
func NewClient(servers Servers, config Config) (*Client, error) {
	addrs := servers.List()
	if len(addrs) == 0 {
		return nil, ErrNoServers
	}

	c := &Client{
		selectServer:   config.SelectServer,
		dialContext:    config.dialContext,
		timeout:        config.Timeout,
		logger:         config.Logger,
		credentialsKey: config.CredentialsKey,
		sessionPrefix:  config.SessionPrefix,
		stats:          newClientStatsCollector(),
	}

	if c.selectServer == nil {
		c.selectServer = DefaultServerSelector
	}
	if c.dialContext == nil {
		dialer := config.Dialer
		if dialer == nil {
			dialer = &net.Dialer{Timeout: DefaultDialTimeout}
		}
		c.dialContext = dialer.DialContext
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	if c.credentialsKey == "" {
		c.credentialsKey = DefaultCredentialsKey
	}
	if c.sessionPrefix == "" {
		c.sessionPrefix = DefaultSessionPrefix
	}

	for _, tcpAddr := range addrs {
		srv := &server{addr: tcpAddr.String()}

		if config.MaxConns > 0 {
			addr := srv.addr
			gate, err := newConnGate(func(ctx context.Context) (net.Conn, error) {
				return c.dial(ctx, addr)
			}, config.MaxConns)
			if err != nil {
				c.Close()
				return nil, err
			}
			srv.gate = gate
		}

		if config.NewCircuitBreaker != nil {
			srv.circuitBreaker = config.NewCircuitBreaker(srv.addr)
		}

		c.servers = append(c.servers, srv)
	}

	return c, nil
}

// Close stops the client. Commands in flight complete; later calls fail with
// ErrClientClosed.
func (c *Client) Close() {
	if c.closed.Swap(true) {
		return
	}
	for _, srv := range c.servers {
		if srv.gate != nil {
			srv.gate.close()
		}
	}
}

func (c *Client) dial(ctx context.Context, addr string) (net.Conn, error) {
	conn, err := c.dialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, &ConnectionError{Op: "dial", Addr: addr, Err: err}
	}
	return conn, nil
}

// acquire opens the single-use connection for one command.
func (c *Client) acquire(ctx context.Context, srv *server) (*connection, error) {
	if srv.gate == nil {
		conn, err := c.dial(ctx, srv.addr)
		if err != nil {
			return nil, err
		}
		return newConnection(srv.addr, conn, func() { _ = conn.Close() }), nil
	}

	conn, release, err := srv.gate.acquire(ctx)
	if err != nil {
		var ce *ConnectionError
		if errors.As(err, &ce) {
			return nil, err
		}
		return nil, &ConnectionError{Op: "acquire", Addr: srv.addr, Err: err}
	}
	return newConnection(srv.addr, conn, release), nil
}

// serverForKey picks the server handling key.
func (c *Client) serverForKey(key string) (*server, error) {
	i := c.selectServer(key, len(c.servers))
	if i < 0 || i >= len(c.servers) {
		return nil, fmt.Errorf("resp: server selector returned %d for %d servers", i, len(c.servers))
	}
	return c.servers[i], nil
}

// Execute sends one command and returns the decoded reply.
//
// The command is routed by its first argument (the store key), or by its name
// when it has no arguments. A failure reply from the store (KindFailure) is
// returned as a value with a nil error.
//
// Errors:
//   - *ConnectionError: the store could not be reached, or the connection broke
//   - ErrOversizedReply: the reply exceeded ReadWindow
//   - ErrIncompleteReply: the single read did not hold a whole value
//   - *wire.ParseError: the reply is not valid wire format
//
// Nothing is retried.
func (c *Client) Execute(ctx context.Context, name string, args ...string) (wire.Value, error) {
	key := name
	if len(args) > 0 {
		key = args[0]
	}

	srv, err := c.serverForKey(key)
	if err != nil {
		return wire.Value{}, err
	}

	return c.executeOn(ctx, srv, wire.Command(name, args...))
}

func (c *Client) executeOn(ctx context.Context, srv *server, req wire.Value) (wire.Value, error) {
	if c.closed.Load() {
		return wire.Value{}, ErrClientClosed
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	start := time.Now()
	v, err := c.execRequest(ctx, srv, req)
	duration := time.Since(start)

	c.stats.record(v, err, duration)
	c.logResult(srv, req, v, err, duration)

	return v, err
}

// execRequest wraps the round trip with the server's circuit breaker, if any.
func (c *Client) execRequest(ctx context.Context, srv *server, req wire.Value) (wire.Value, error) {
	if srv.circuitBreaker != nil {
		return srv.circuitBreaker.Execute(func() (wire.Value, error) {
			return c.execRequestDirect(ctx, srv, req)
		})
	}
	return c.execRequestDirect(ctx, srv, req)
}

// execRequestDirect performs exactly one connection, one write, one read and
// one decode. The connection is released on every path.
func (c *Client) execRequestDirect(ctx context.Context, srv *server, req wire.Value) (wire.Value, error) {
	conn, err := c.acquire(ctx, srv)
	if err != nil {
		return wire.Value{}, err
	}
	defer conn.Close()

	v, trailing, err := conn.roundTrip(ctx, req)
	if err != nil {
		return wire.Value{}, err
	}

	if trailing > 0 {
		c.logger.Warn("resp: ignoring bytes after reply", "server", srv.addr, "bytes", trailing)
	}
	return v, nil
}

func (c *Client) logResult(srv *server, req wire.Value, v wire.Value, err error, duration time.Duration) {
	command := req.Elem(0).Text()

	switch {
	case err == nil:
		c.logger.Debug("resp: command", "server", srv.addr, "command", command, "reply", v.Kind().String(), "duration", duration)
	case errors.Is(err, ErrOversizedReply), errors.Is(err, ErrIncompleteReply), IsMalformedReply(err):
		c.logger.Warn("resp: invalid reply", "server", srv.addr, "command", command, "error", err)
	default:
		c.logger.Debug("resp: command failed", "server", srv.addr, "command", command, "error", err, "duration", duration)
	}
}

// Ping sends PING to every server and expects PONG from each.
func (c *Client) Ping(ctx context.Context) error {
	var errs []error
	for _, srv := range c.servers {
		v, err := c.executeOn(ctx, srv, wire.Command("PING"))
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if v.Kind() != wire.KindStatus || v.Text() != "PONG" {
			errs = append(errs, fmt.Errorf("resp: unexpected ping reply from %s: %s", srv.addr, v))
		}
	}
	return errors.Join(errs...)
}

// Stats returns a snapshot of client statistics.
func (c *Client) Stats() ClientStats {
	return c.stats.snapshot()
}

// ServerStats contains stats for a single server
type ServerStats struct {
	Addr                 string
	Gate                 GateStats // zero without MaxConns
	CircuitBreakerState  gobreaker.State
	CircuitBreakerCounts gobreaker.Counts
}

// AllServerStats returns stats for every server, in configuration order.
func (c *Client) AllServerStats() []ServerStats {
	stats := make([]ServerStats, 0, len(c.servers))
	for _, srv := range c.servers {
		s := ServerStats{Addr: srv.addr}
		if srv.gate != nil {
			s.Gate = srv.gate.stats()
		}
		if srv.circuitBreaker != nil {
			s.CircuitBreakerState = srv.circuitBreaker.State()
			s.CircuitBreakerCounts = srv.circuitBreaker.Counts()
		}
		stats = append(stats, s)
	}
	return stats
}
