package main

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/pior/resp"
)

// shell runs one line of input against the client.
type shell struct {
	client *resp.Client
	out    io.Writer
}

// run executes line and reports whether the shell should keep going.
func (s *shell) run(line string) bool {
	parts := strings.Fields(line)
	if len(parts) == 0 {
		return true
	}

	command := strings.ToLower(parts[0])
	args := parts[1:]
	ctx := context.Background()

	switch command {
	case "help", "?":
		s.printHelp()

	case "auth":
		if len(args) != 2 {
			fmt.Fprintln(s.out, "Usage: auth <username> <secret>")
			return true
		}
		s.timed(func() (string, error) {
			ok, err := s.client.CheckCredential(ctx, args[0], args[1])
			return fmt.Sprintf("credential valid: %t", ok), err
		})

	case "unique":
		if len(args) != 1 {
			fmt.Fprintln(s.out, "Usage: unique <key>")
			return true
		}
		s.timed(func() (string, error) {
			ok, err := s.client.KeyIsUnique(ctx, args[0])
			return fmt.Sprintf("unique: %t", ok), err
		})

	case "session-new":
		fmt.Fprintln(s.out, resp.NewSessionKey())

	case "session-set":
		if len(args) != 3 {
			fmt.Fprintln(s.out, "Usage: session-set <key> <address> <ttl_seconds>")
			return true
		}
		seconds, err := strconv.Atoi(args[2])
		if err != nil {
			fmt.Fprintf(s.out, "Invalid TTL: %v\n", err)
			return true
		}
		s.timed(func() (string, error) {
			ok, err := s.client.WriteSession(ctx, args[0], args[1], time.Duration(seconds)*time.Second)
			return fmt.Sprintf("stored: %t", ok), err
		})

	case "session-get":
		if len(args) != 2 {
			fmt.Fprintln(s.out, "Usage: session-get <key> <address>")
			return true
		}
		s.timed(func() (string, error) {
			ok, err := s.client.ReadSession(ctx, args[0], args[1])
			return fmt.Sprintf("bound: %t", ok), err
		})

	case "ping":
		s.timed(func() (string, error) {
			return "PONG", s.client.Ping(ctx)
		})

	case "stats":
		s.printStats()

	case "quit", "exit", "q":
		return false

	default:
		// Anything else is sent as a raw command, name as typed.
		s.timed(func() (string, error) {
			v, err := s.client.Execute(ctx, parts[0], args...)
			return v.String(), err
		})
	}

	return true
}

func (s *shell) timed(fn func() (string, error)) {
	start := time.Now()
	result, err := fn()
	duration := time.Since(start)

	if err != nil {
		fmt.Fprintf(s.out, "Error: %v (took %v)\n", err, duration)
		return
	}
	fmt.Fprintf(s.out, "%s (took %v)\n", result, duration)
}

func (s *shell) printStats() {
	stats := s.client.Stats()
	fmt.Fprintf(s.out, "Commands: %d, errors: %d\n", stats.Commands, stats.Errors)
	fmt.Fprintf(s.out, "  transport: %d, oversized: %d, incomplete: %d, malformed: %d\n",
		stats.TransportErrors, stats.OversizedReplies, stats.IncompleteReplies, stats.MalformedReplies)
	fmt.Fprintf(s.out, "  failure replies: %d\n", stats.FailureReplies)
	if stats.Commands > 0 {
		fmt.Fprintf(s.out, "  average latency: %v\n", time.Duration(stats.TotalTimeNs/stats.Commands))
	}

	for _, srv := range s.client.AllServerStats() {
		fmt.Fprintf(s.out, "Server %s: breaker=%s", srv.Addr, srv.CircuitBreakerState)
		if srv.Gate.MaxConns > 0 {
			fmt.Fprintf(s.out, " active=%d/%d created=%d", srv.Gate.ActiveConns, srv.Gate.MaxConns, srv.Gate.CreatedConns)
		}
		fmt.Fprintln(s.out)
	}
}

func (s *shell) printHelp() {
	fmt.Fprintln(s.out, `Commands:
  auth <username> <secret>              - Check a credential
  unique <key>                          - Check that a key is free
  session-new                           - Print a new random session key
  session-set <key> <address> <ttl>     - Bind a session to an address (ttl in seconds)
  session-get <key> <address>           - Check a session binding
  ping                                  - Ping all servers
  stats                                 - Show client statistics
  quit                                  - Exit
Any other input is sent as a raw command, e.g. GET mykey`)
}
