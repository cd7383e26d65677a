package resp

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckCredential(t *testing.T) {
	tests := []struct {
		name   string
		secret string
		reply  string
		want   bool
	}{
		{"matching secret", "secret", "$6\r\nsecret\r\n", true},
		{"different secret", "secret", "$5\r\nwrong\r\n", false},
		{"unknown user", "secret", "$-1\r\n", false},
		{"nil literal", "secret", "_\r\n", false},
		{"empty stored secret", "", "$0\r\n\r\n", true},
		{"prefix of stored secret", "sec", "$6\r\nsecret\r\n", false},
		{"status reply", "secret", "+secret\r\n", false},
		{"failure reply", "secret", "-WRONGTYPE Operation against a key holding the wrong kind of value\r\n", false},
		{"integer reply", "secret", ":1\r\n", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, dialer := newMockClient(t, Config{}, tt.reply)

			ok, err := client.CheckCredential(context.Background(), "alice", tt.secret)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ok)

			assert.Equal(t,
				"*3\r\n$4\r\nHGET\r\n$11\r\ncredentials\r\n$5\r\nalice\r\n",
				dialer.lastConn(t).GetWrittenRequest())
		})
	}
}

func TestCheckCredential_CustomKey(t *testing.T) {
	client, dialer := newMockClient(t, Config{CredentialsKey: "users"}, "$-1\r\n")

	_, err := client.CheckCredential(context.Background(), "bob", "pw")
	require.NoError(t, err)
	assert.Equal(t, "*3\r\n$4\r\nHGET\r\n$5\r\nusers\r\n$3\r\nbob\r\n", dialer.lastConn(t).GetWrittenRequest())
}

func TestCheckCredential_OversizedReply(t *testing.T) {
	reply := "$200\r\n" + string(make([]byte, 200)) + "\r\n"
	client, _ := newMockClient(t, Config{}, reply)

	ok, err := client.CheckCredential(context.Background(), "alice", "secret")
	assert.ErrorIs(t, err, ErrOversizedReply)
	assert.False(t, ok)
}

func TestKeyIsUnique(t *testing.T) {
	tests := []struct {
		name  string
		reply string
		want  bool
	}{
		{"free key", ":0\r\n", true},
		{"existing key", ":1\r\n", false},
		{"unexpected count", ":2\r\n", false},
		{"negative count", ":-1\r\n", false},
		{"status reply", "+OK\r\n", false},
		{"failure reply", "-ERR\r\n", false},
		{"bulk zero", "$1\r\n0\r\n", false},
		{"nil reply", "$-1\r\n", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, dialer := newMockClient(t, Config{}, tt.reply)

			ok, err := client.KeyIsUnique(context.Background(), "token42")
			require.NoError(t, err)
			assert.Equal(t, tt.want, ok)

			assert.Equal(t, "*2\r\n$6\r\nEXISTS\r\n$7\r\ntoken42\r\n", dialer.lastConn(t).GetWrittenRequest())
		})
	}
}

func TestWriteSession(t *testing.T) {
	tests := []struct {
		name  string
		reply string
		want  bool
	}{
		{"acknowledged", "+OK\r\n", true},
		{"refused", "-ERR\r\n", false},
		{"nil reply", "$-1\r\n", false},
		{"integer reply", ":1\r\n", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, dialer := newMockClient(t, Config{}, tt.reply)

			ok, err := client.WriteSession(context.Background(), "abc", "10.0.0.5", time.Hour)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ok)

			assert.Equal(t,
				"*5\r\n$3\r\nSET\r\n$11\r\nSession-abc\r\n$8\r\n10.0.0.5\r\n$2\r\nEX\r\n$4\r\n3600\r\n",
				dialer.lastConn(t).GetWrittenRequest())
		})
	}
}

func TestWriteSession_TTLRoundedDown(t *testing.T) {
	client, dialer := newMockClient(t, Config{SessionPrefix: "s:"}, "+OK\r\n")

	_, err := client.WriteSession(context.Background(), "k", "::1", 1500*time.Millisecond)
	require.NoError(t, err)
	assert.Equal(t,
		"*5\r\n$3\r\nSET\r\n$3\r\ns:k\r\n$3\r\n::1\r\n$2\r\nEX\r\n$1\r\n1\r\n",
		dialer.lastConn(t).GetWrittenRequest())
}

func TestWriteSession_TTLBelowOneSecond(t *testing.T) {
	for _, ttl := range []time.Duration{0, 999 * time.Millisecond, -time.Hour} {
		t.Run(ttl.String(), func(t *testing.T) {
			client, dialer := newMockClient(t, Config{}, "+OK\r\n")

			ok, err := client.WriteSession(context.Background(), "abc", "10.0.0.5", ttl)
			assert.ErrorIs(t, err, ErrInvalidTTL)
			assert.False(t, ok)
			assert.Empty(t, dialer.connections())
		})
	}
}

func TestWriteSession_UnreachableStore(t *testing.T) {
	client, dialer := newMockClient(t, Config{})
	dialer.dialErr = assert.AnError

	ok, err := client.WriteSession(context.Background(), "abc", "10.0.0.5", time.Hour)
	assert.False(t, ok)
	assert.True(t, IsTransportError(err))
	assert.ErrorIs(t, err, assert.AnError)
}

func TestReadSession(t *testing.T) {
	tests := []struct {
		name  string
		reply string
		want  bool
	}{
		{"bound to address", "$8\r\n10.0.0.5\r\n", true},
		{"bound elsewhere", "$8\r\n10.0.0.6\r\n", false},
		{"expired", "$-1\r\n", false},
		{"status reply", "+10.0.0.5\r\n", false},
		{"failure reply", "-ERR\r\n", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, dialer := newMockClient(t, Config{}, tt.reply)

			ok, err := client.ReadSession(context.Background(), "abc", "10.0.0.5")
			require.NoError(t, err)
			assert.Equal(t, tt.want, ok)

			assert.Equal(t, "*2\r\n$3\r\nGET\r\n$11\r\nSession-abc\r\n", dialer.lastConn(t).GetWrittenRequest())
		})
	}
}

func TestReadSession_MalformedReply(t *testing.T) {
	client, _ := newMockClient(t, Config{}, "$-8\r\n")

	ok, err := client.ReadSession(context.Background(), "abc", "10.0.0.5")
	assert.False(t, ok)
	assert.True(t, IsMalformedReply(err))
}

func TestReadSession_BadTerminatorIsIncomplete(t *testing.T) {
	client, _ := newMockClient(t, Config{}, "$8\r\n10.0.0.5XX")

	ok, err := client.ReadSession(context.Background(), "abc", "10.0.0.5")
	assert.False(t, ok)
	assert.ErrorIs(t, err, ErrIncompleteReply)
	assert.False(t, IsMalformedReply(err))
}

func TestNewSessionKey(t *testing.T) {
	a := NewSessionKey()
	b := NewSessionKey()

	assert.NotEqual(t, a, b)

	parsed, err := uuid.Parse(a)
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(4), parsed.Version())
}
