package sixlink

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/unkn0wn-root/sixlink/base6"
	"github.com/unkn0wn-root/sixlink/internal/token"
	"github.com/unkn0wn-root/sixlink/internal/wire"
	"github.com/unkn0wn-root/sixlink/obfuscate"
	"github.com/unkn0wn-root/sixlink/sequence"
)

type shortener struct {
	ns    string
	store Store
	codec Codec
	seq   Sequence
	log   Logger
	hooks Hooks

	defaultTTL time.Duration
	obfuscated bool
}

func newShortener(opts Options) (*shortener, error) {
	if opts.Store == nil {
		return nil, fmt.Errorf("sixlink: store is required")
	}
	if opts.Codec == nil {
		return nil, fmt.Errorf("sixlink: codec is required")
	}
	if opts.Namespace == "" {
		return nil, fmt.Errorf("sixlink: namespace is required")
	}

	s := &shortener{
		ns:         opts.Namespace,
		store:      opts.Store,
		codec:      opts.Codec,
		defaultTTL: opts.DefaultTTL,
		obfuscated: !opts.DisableObfuscation,
	}

	// defaults
	s.log = coalesce[Logger](opts.Logger, NopLogger{})
	s.hooks = coalesce[Hooks](opts.Hooks, NopHooks{})
	if opts.Sequence != nil {
		s.seq = opts.Sequence
	} else {
		s.seq = sequence.NewLocal(1)
	}

	return s, nil
}

func (s *shortener) Shorten(ctx context.Context, longURL string, ttl time.Duration) (Link, string, error) {
	norm, err := normalizeURL(longURL)
	if err != nil {
		return Link{}, "", err
	}
	if ttl == 0 {
		ttl = s.defaultTTL
	}
	if ttl < 0 {
		ttl = 0 // Never
	}

	id, err := s.seq.Next(ctx)
	if err != nil {
		s.hooks.SequenceError(err)
		return Link{}, "", fmt.Errorf("sixlink: id allocation: %w", err)
	}

	pub := id
	if s.obfuscated {
		pub, err = obfuscate.Mask(id)
		if err != nil {
			// id space exhausted (or a sequence seeded out of range)
			return Link{}, "", fmt.Errorf("sixlink: id %d: %w", id, err)
		}
	}
	code, err := base6.Encode(pub)
	if err != nil {
		return Link{}, "", fmt.Errorf("sixlink: encode id %d: %w", pub, err)
	}

	plain, err := token.New()
	if err != nil {
		return Link{}, "", err
	}

	now := time.Now().UTC()
	link := Link{
		Code:      code,
		LongURL:   norm,
		CreatedAt: now,
		TokenHash: token.Hash(plain),
	}
	if ttl > 0 {
		link.ExpiresAt = now.Add(ttl)
	}

	payload, err := s.codec.Encode(link)
	if err != nil {
		return Link{}, "", fmt.Errorf("sixlink: encode record: %w", err)
	}
	wireb := wire.EncodeRecord(uint64(pub), payload)

	k := s.storageKey(code)
	ok, err := s.store.Set(ctx, k, wireb, int64(len(wireb)), ttl)
	if err != nil {
		return Link{}, "", fmt.Errorf("sixlink: store set: %w", err)
	}
	if !ok {
		s.hooks.StoreSetRejected(k)
		return Link{}, "", ErrWriteRejected
	}

	s.log.Debug("link created", Fields{"code": code, "ttl": ttl.String()})
	return link, plain, nil
}

func (s *shortener) Resolve(ctx context.Context, code string) (Link, error) {
	link, k, err := s.load(ctx, code)
	if err != nil {
		return Link{}, err
	}
	if link.Expired(time.Now().UTC()) {
		_ = s.store.Del(ctx, k) // best-effort purge
		s.hooks.ExpiredPurged(code)
		return Link{}, ErrExpired
	}
	return link, nil
}

func (s *shortener) Delete(ctx context.Context, code, deletionToken string) error {
	// Expiry is deliberately not checked: an expired link may still be
	// deleted by its owner.
	link, k, err := s.load(ctx, code)
	if err != nil {
		return err
	}
	if !token.Verify(deletionToken, link.TokenHash) {
		// wrong token must look exactly like an unknown code
		return ErrNotFound
	}
	if err := s.store.Del(ctx, k); err != nil {
		return fmt.Errorf("sixlink: store del: %w", err)
	}
	s.log.Debug("link deleted", Fields{"code": code})
	return nil
}

func (s *shortener) Close(ctx context.Context) error {
	// Close sequence first (best effort)
	if s.seq != nil {
		_ = s.seq.Close(ctx)
	}
	if s.store != nil {
		return s.store.Close(ctx)
	}
	return nil
}

// load fetches and validates the record behind code without enforcing
// expiry. It returns the link together with its storage key.
func (s *shortener) load(ctx context.Context, code string) (Link, string, error) {
	pub, err := base6.Decode(code)
	if err != nil {
		// malformed codes are indistinguishable from unknown ones
		return Link{}, "", fmt.Errorf("%w: %v", ErrNotFound, err)
	}
	k := s.storageKey(code)

	raw, ok, err := s.store.Get(ctx, k)
	if err != nil {
		return Link{}, "", fmt.Errorf("sixlink: store get: %w", err)
	}
	if !ok {
		return Link{}, "", ErrNotFound
	}

	id, payload, err := wire.DecodeRecord(raw)
	if err != nil {
		_ = s.store.Del(ctx, k) // self-heal corrupt
		s.hooks.SelfHeal(k, "corrupt")
		return Link{}, "", ErrNotFound
	}
	if id != uint64(pub) {
		// record filed under the wrong code; drop it
		_ = s.store.Del(ctx, k)
		s.hooks.SelfHeal(k, "id_mismatch")
		return Link{}, "", ErrNotFound
	}
	link, err := s.codec.Decode(payload)
	if err != nil {
		_ = s.store.Del(ctx, k) // self-heal
		s.hooks.SelfHeal(k, "value_decode")
		return Link{}, "", ErrNotFound
	}
	return link, k, nil
}

func (s *shortener) storageKey(code string) string {
	// isolate by namespace
	return "link:" + s.ns + ":" + code
}

// normalizeURL validates a Shorten target and fills in a missing scheme.
// Bare domains become https; anything that is not http(s) with a dotted
// host is rejected.
func normalizeURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("%w: empty", ErrInvalidURL)
	}
	if !strings.HasPrefix(raw, "http://") && !strings.HasPrefix(raw, "https://") {
		raw = "https://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("%w: scheme %q", ErrInvalidURL, u.Scheme)
	}
	if u.Host == "" || !strings.Contains(u.Host, ".") {
		return "", fmt.Errorf("%w: host %q", ErrInvalidURL, u.Host)
	}
	return u.String(), nil
}
