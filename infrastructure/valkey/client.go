package valkey

import (
	"context"
	"fmt"
	"strings"
	"time"

	valkeylib "github.com/valkey-io/valkey-go"
)

// DefaultConnectTimeout bounds the startup ping when no timeout is configured.
const DefaultConnectTimeout = 5 * time.Second

// Config holds the connection settings for the Valkey-backed cache store.
type Config struct {
	Address        string
	Password       string
	DB             int
	KeyPrefix      string
	ConnectTimeout time.Duration
}

// Client is the narrow Valkey surface the cache layer needs: prefixed key
// construction, list append/range for entry storage, and a health probe.
// Command building and nil-reply handling stay in here so callers never
// touch the raw valkey-go client.
type Client struct {
	inner     valkeylib.Client
	keyPrefix string
}

// NewClient connects and verifies the connection with a bounded ping.
// The caller owns the client and must Close it.
func NewClient(cfg Config) (*Client, error) {
	opts := valkeylib.ClientOption{
		InitAddress: []string{cfg.Address},
		SelectDB:    cfg.DB,
	}
	if cfg.Password != "" {
		opts.Password = cfg.Password
	}

	inner, err := valkeylib.NewClient(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to create valkey client: %w", err)
	}

	timeout := cfg.ConnectTimeout
	if timeout == 0 {
		timeout = DefaultConnectTimeout
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := inner.Do(ctx, inner.B().Ping().Build()).Error(); err != nil {
		inner.Close()
		return nil, fmt.Errorf("failed to ping valkey (timeout: %v): %w", timeout, err)
	}

	return &Client{
		inner:     inner,
		keyPrefix: normalizePrefix(cfg.KeyPrefix),
	}, nil
}

func normalizePrefix(prefix string) string {
	if prefix != "" && !strings.HasSuffix(prefix, ":") {
		prefix += ":"
	}
	return prefix
}

// Close releases the connection.
func (c *Client) Close() {
	if c.inner != nil {
		c.inner.Close()
	}
}

// Key joins parts under the configured prefix.
// Key("cache", "weather") -> "concierge:cache:weather".
func (c *Client) Key(parts ...string) string {
	if len(parts) == 0 {
		return strings.TrimSuffix(c.keyPrefix, ":")
	}
	return c.keyPrefix + strings.Join(parts, ":")
}

// AppendList pushes one element onto the tail of the list at key.
func (c *Client) AppendList(ctx context.Context, key, element string) error {
	return c.inner.Do(ctx, c.inner.B().Rpush().Key(key).Element(element).Build()).Error()
}

// ExpireListAt moves the expiry of the list at key to the given instant.
func (c *Client) ExpireListAt(ctx context.Context, key string, at time.Time) error {
	return c.inner.Do(ctx, c.inner.B().Expireat().Key(key).Timestamp(at.Unix()).Build()).Error()
}

// RangeList returns every element of the list at key, oldest first. A missing
// key is an empty result, not an error.
func (c *Client) RangeList(ctx context.Context, key string) ([]string, error) {
	cmd := c.inner.B().Lrange().Key(key).Start(0).Stop(-1).Build()
	values, err := c.inner.Do(ctx, cmd).AsStrSlice()
	if err != nil {
		if valkeylib.IsValkeyNil(err) {
			return nil, nil
		}
		return nil, err
	}
	return values, nil
}

// IsConnected reports whether a short ping succeeds.
func (c *Client) IsConnected() bool {
	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()
	return c.inner.Do(ctx, c.inner.B().Ping().Build()).Error() == nil
}
