package resp

import (
	"context"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/pior/resp/wire"
)

// Store commands used by the session and credential helpers.
const (
	cmdHashGet = "HGET"
	cmdExists  = "EXISTS"
	cmdSet     = "SET"
	cmdGet     = "GET"
	optExpire  = "EX"
)

// The helpers below answer yes/no questions for the authentication layer.
// A reply of an unexpected kind (nil, failure, wrong type) is a "false"
// answer, never an error. Only transport and decode problems are errors.

// CheckCredential reports whether secret is the one stored for username.
//
// Wire format: HGET <CredentialsKey> <username>
func (c *Client) CheckCredential(ctx context.Context, username, secret string) (bool, error) {
	v, err := c.Execute(ctx, cmdHashGet, c.credentialsKey, username)
	if err != nil {
		return false, err
	}
	return bulkEquals(v, secret), nil
}

// KeyIsUnique reports whether key is free in the store.
//
// Wire format: EXISTS <key>
//
// An integer reply of 0 (the key does not exist) means unique. Any other
// integer, or any other kind of reply, means not unique.
func (c *Client) KeyIsUnique(ctx context.Context, key string) (bool, error) {
	v, err := c.Execute(ctx, cmdExists, key)
	if err != nil {
		return false, err
	}
	return v.Kind() == wire.KindInteger && v.Int() == 0, nil
}

// WriteSession binds the session key to the client address for ttl, rounded
// down to whole seconds. It reports whether the store acknowledged the write.
// A ttl under one second fails with ErrInvalidTTL without contacting the store.
//
// Wire format: SET <SessionPrefix><key> <boundAddr> EX <seconds>
func (c *Client) WriteSession(ctx context.Context, key, boundAddr string, ttl time.Duration) (bool, error) {
	if ttl < time.Second {
		return false, ErrInvalidTTL
	}
	seconds := strconv.FormatInt(int64(ttl/time.Second), 10)

	v, err := c.Execute(ctx, cmdSet, c.sessionKey(key), boundAddr, optExpire, seconds)
	if err != nil {
		return false, err
	}
	return v.Kind() == wire.KindStatus, nil
}

// ReadSession reports whether the session key exists and is bound to
// expectedAddr.
//
// Wire format: GET <SessionPrefix><key>
func (c *Client) ReadSession(ctx context.Context, key, expectedAddr string) (bool, error) {
	v, err := c.Execute(ctx, cmdGet, c.sessionKey(key))
	if err != nil {
		return false, err
	}
	return bulkEquals(v, expectedAddr), nil
}

func (c *Client) sessionKey(key string) string {
	return c.sessionPrefix + key
}

// NewSessionKey returns a random session key (UUID v4) for WriteSession.
func NewSessionKey() string {
	return uuid.NewString()
}

func bulkEquals(v wire.Value, want string) bool {
	text, ok := v.BulkText()
	return ok && text == want
}
