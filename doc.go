// Package resp is a minimal client for the key-value store backing the
// front-end service: credential checks, key uniqueness and IP-bound sessions.
//
// The wire codec lives in the wire subpackage. This package adds the
// connection handling on top of it.
//
// # Connection model
//
// Every command gets its own connection:
//
//	dial → write command → one read (at most ReadWindow bytes) → decode → close
//
// There is no pooling, no pipelining and no retry. Replies larger than
// ReadWindow fail with ErrOversizedReply. Config.MaxConns can cap the number
// of simultaneous connections per server; it never reuses them.
//
// # Usage
//
//	client, err := resp.New("127.0.0.1:6379", resp.Config{Timeout: time.Second})
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//
//	ok, err := client.CheckCredential(ctx, "alice", "secret")
//
//	key := resp.NewSessionKey()
//	ok, err = client.WriteSession(ctx, key, "10.0.0.5", time.Hour)
//	ok, err = client.ReadSession(ctx, key, "10.0.0.5")
//
// # Errors
//
// The helpers return false for any well-formed but unexpected reply. Errors
// are reserved for:
//
//   - *ConnectionError: dial, write or read failed (store unreachable)
//   - ErrOversizedReply: reply larger than ReadWindow (store misbehaving)
//   - ErrIncompleteReply: the single read did not hold a whole reply
//   - *wire.ParseError: the reply is not valid wire format
package resp
