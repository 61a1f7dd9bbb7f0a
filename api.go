package sixlink

import (
	"context"
	"time"

	c "github.com/unkn0wn-root/sixlink/codec"
	seq "github.com/unkn0wn-root/sixlink/sequence"
	st "github.com/unkn0wn-root/sixlink/store"
)

// Never requests a link without expiry regardless of the configured
// DefaultTTL.
const Never time.Duration = -1

// Aliases so call sites and Options can stay on the root package.
type (
	Store    = st.Store
	Codec    = c.Codec[Link]
	Sequence = seq.Sequence
)

// Link is the stored record behind one short code. TokenHash is the SHA-256
// of the deletion token; the plaintext token is returned exactly once, by
// Shorten.
type Link struct {
	Code      string    `json:"code" msgpack:"code" cbor:"code"`
	LongURL   string    `json:"long_url" msgpack:"long_url" cbor:"long_url"`
	CreatedAt time.Time `json:"created_at" msgpack:"created_at" cbor:"created_at"`
	ExpiresAt time.Time `json:"expires_at,omitempty" msgpack:"expires_at,omitempty" cbor:"expires_at,omitempty"` // zero => never
	TokenHash string    `json:"token_hash" msgpack:"token_hash" cbor:"token_hash"`
}

// Expired reports whether the link is past its expiry at now.
func (l Link) Expired(now time.Time) bool {
	return !l.ExpiresAt.IsZero() && now.After(l.ExpiresAt)
}

// Shortener is the high-level, store-agnostic API.
type Shortener interface {
	// Shorten creates a link for longURL and returns the record together
	// with the one-time plaintext deletion token.
	// ttl > 0 expires the link after ttl; ttl == 0 applies DefaultTTL;
	// Never disables expiry.
	Shorten(ctx context.Context, longURL string, ttl time.Duration) (Link, string, error)

	// Resolve returns the link behind code. Unknown, malformed, and
	// corrupted codes surface ErrNotFound; expired links surface ErrExpired.
	Resolve(ctx context.Context, code string) (Link, error)

	// Delete removes the link iff deletionToken matches. A wrong token is
	// indistinguishable from an unknown code (ErrNotFound).
	Delete(ctx context.Context, code, deletionToken string) error

	Close(ctx context.Context) error
}

// Options tune the shortener. Namespace, Store and Codec are required;
// others have sensible defaults.
type Options struct {
	// Required
	Namespace string // logical namespace to avoid collisions, e.g. "prod"
	Store     Store
	Codec     Codec

	Sequence           Sequence      // nil => Local (in-process, starts at 1)
	Logger             Logger        // if nil, NopLogger is used
	Hooks              Hooks         // if nil, NopHooks is used
	DefaultTTL         time.Duration // applied when Shorten gets ttl == 0; 0 => never
	DisableObfuscation bool          // default false: ids are permuted before encoding
}

func New(opts Options) (Shortener, error) {
	return newShortener(opts)
}
