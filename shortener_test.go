package sixlink

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/unkn0wn-root/sixlink/base6"
	c "github.com/unkn0wn-root/sixlink/codec"
	"github.com/unkn0wn-root/sixlink/internal/token"
	"github.com/unkn0wn-root/sixlink/internal/wire"
	"github.com/unkn0wn-root/sixlink/store/memory"
)

type recordingHooks struct {
	mu           sync.Mutex
	selfHeal     []string // reasons
	expired      []string // codes
	setRejected  int
	sequenceErrs int
}

var _ Hooks = (*recordingHooks)(nil)

func (h *recordingHooks) SelfHeal(_, reason string) {
	h.mu.Lock()
	h.selfHeal = append(h.selfHeal, reason)
	h.mu.Unlock()
}
func (h *recordingHooks) ExpiredPurged(code string) {
	h.mu.Lock()
	h.expired = append(h.expired, code)
	h.mu.Unlock()
}
func (h *recordingHooks) StoreSetRejected(string) {
	h.mu.Lock()
	h.setRejected++
	h.mu.Unlock()
}
func (h *recordingHooks) SequenceError(error) {
	h.mu.Lock()
	h.sequenceErrs++
	h.mu.Unlock()
}

type failingSequence struct{ err error }

func (f failingSequence) Next(context.Context) (int64, error) { return 0, f.err }
func (f failingSequence) Close(context.Context) error         { return nil }

func newTestShortener(t *testing.T, mp Store, optsOpt func(*Options)) Shortener {
	t.Helper()
	opts := Options{
		Namespace: "test",
		Store:     mp,
		Codec:     c.JSON[Link]{},
	}
	if optsOpt != nil {
		optsOpt(&opts)
	}
	sh, err := New(opts)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return sh
}

func mustImpl(t *testing.T, sh Shortener) *shortener {
	t.Helper()
	impl, ok := sh.(*shortener)
	if !ok {
		t.Fatalf("unexpected concrete type for Shortener")
	}
	return impl
}

// ==============================
// Construction
// ==============================

func TestNewValidatesOptions(t *testing.T) {
	mp := memory.New(0)
	cases := []Options{
		{Namespace: "t", Codec: c.JSON[Link]{}},            // no store
		{Namespace: "t", Store: mp},                        // no codec
		{Store: mp, Codec: c.JSON[Link]{}},                 // no namespace
	}
	for i, opts := range cases {
		if _, err := New(opts); err == nil {
			t.Fatalf("case %d: expected constructor error", i)
		}
	}
}

// ==============================
// Shorten / Resolve / Delete flow
// ==============================

func TestShortenResolveDeleteFlow(t *testing.T) {
	ctx := context.Background()
	mp := memory.New(0)
	sh := newTestShortener(t, mp, nil)
	defer sh.Close(ctx)

	link, tok, err := sh.Shorten(ctx, "https://example.com/some/long/path", Never)
	if err != nil {
		t.Fatalf("Shorten: %v", err)
	}
	if tok == "" {
		t.Fatalf("no deletion token returned")
	}
	if !base6.Valid(link.Code) {
		t.Fatalf("code %q is not a valid base6 code", link.Code)
	}
	if !link.ExpiresAt.IsZero() {
		t.Fatalf("Never link has expiry %v", link.ExpiresAt)
	}

	got, err := sh.Resolve(ctx, link.Code)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got.LongURL != "https://example.com/some/long/path" {
		t.Fatalf("Resolve long URL = %q", got.LongURL)
	}

	// Wrong token must look like an unknown code and must not delete.
	if err := sh.Delete(ctx, link.Code, "not-the-token"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Delete wrong token: want ErrNotFound, got %v", err)
	}
	if _, err := sh.Resolve(ctx, link.Code); err != nil {
		t.Fatalf("link vanished after rejected delete: %v", err)
	}

	if err := sh.Delete(ctx, link.Code, tok); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := sh.Resolve(ctx, link.Code); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Resolve after delete: want ErrNotFound, got %v", err)
	}
}

func TestShortenNormalizesAndValidatesURL(t *testing.T) {
	ctx := context.Background()
	mp := memory.New(0)
	sh := newTestShortener(t, mp, nil)
	defer sh.Close(ctx)

	link, _, err := sh.Shorten(ctx, "example.com/path", Never)
	if err != nil {
		t.Fatalf("Shorten bare domain: %v", err)
	}
	if link.LongURL != "https://example.com/path" {
		t.Fatalf("bare domain not normalized: %q", link.LongURL)
	}

	for _, bad := range []string{"", "   ", "ftp://example.com", "https://", "nodots"} {
		if _, _, err := sh.Shorten(ctx, bad, Never); !errors.Is(err, ErrInvalidURL) {
			t.Fatalf("Shorten(%q): want ErrInvalidURL, got %v", bad, err)
		}
	}
}

func TestCodesAreDistinctAndNonSequential(t *testing.T) {
	ctx := context.Background()
	mp := memory.New(0)
	sh := newTestShortener(t, mp, nil)
	defer sh.Close(ctx)

	var prev int64
	seen := make(map[string]bool, 100)
	for i := 0; i < 100; i++ {
		link, _, err := sh.Shorten(ctx, "https://example.com", Never)
		if err != nil {
			t.Fatalf("Shorten #%d: %v", i, err)
		}
		if seen[link.Code] {
			t.Fatalf("duplicate code %q", link.Code)
		}
		seen[link.Code] = true

		n, err := base6.Decode(link.Code)
		if err != nil {
			t.Fatalf("code %q not decodable: %v", link.Code, err)
		}
		if i > 0 && (n == prev+1 || prev == n+1) {
			t.Fatalf("obfuscated codes adjacent: %d then %d", prev, n)
		}
		prev = n
	}
}

func TestDisableObfuscationYieldsSequentialCodes(t *testing.T) {
	ctx := context.Background()
	mp := memory.New(0)
	sh := newTestShortener(t, mp, func(o *Options) { o.DisableObfuscation = true })
	defer sh.Close(ctx)

	want := []string{"1", "2", "3", "4", "5", "6", "11"}
	for i, w := range want {
		link, _, err := sh.Shorten(ctx, "https://example.com", Never)
		if err != nil {
			t.Fatalf("Shorten #%d: %v", i, err)
		}
		if link.Code != w {
			t.Fatalf("code #%d = %q, want %q", i, link.Code, w)
		}
	}
}

func TestDefaultTTLApplied(t *testing.T) {
	ctx := context.Background()
	mp := memory.New(0)
	sh := newTestShortener(t, mp, func(o *Options) { o.DefaultTTL = time.Hour })
	defer sh.Close(ctx)

	link, _, err := sh.Shorten(ctx, "https://example.com", 0)
	if err != nil {
		t.Fatalf("Shorten: %v", err)
	}
	if link.ExpiresAt.IsZero() {
		t.Fatalf("default TTL not applied")
	}
	if d := time.Until(link.ExpiresAt); d < 55*time.Minute || d > 65*time.Minute {
		t.Fatalf("expiry %v not near one hour out", link.ExpiresAt)
	}

	// Never overrides the default.
	link, _, err = sh.Shorten(ctx, "https://example.com", Never)
	if err != nil {
		t.Fatalf("Shorten: %v", err)
	}
	if !link.ExpiresAt.IsZero() {
		t.Fatalf("Never link has expiry %v", link.ExpiresAt)
	}
}

// ==============================
// Expiry
// ==============================

// injectRecord plants a record directly in the store, bypassing Shorten, so
// expiry and corruption paths can be exercised deterministically.
func injectRecord(t *testing.T, impl *shortener, link Link, id int64) string {
	t.Helper()
	payload, err := impl.codec.Encode(link)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	raw := wire.EncodeRecord(uint64(id), payload)
	k := impl.storageKey(link.Code)
	if ok, err := impl.store.Set(context.Background(), k, raw, int64(len(raw)), 0); err != nil || !ok {
		t.Fatalf("inject: ok=%v err=%v", ok, err)
	}
	return k
}

func TestResolveExpiredPurges(t *testing.T) {
	ctx := context.Background()
	mp := memory.New(0)
	hooks := &recordingHooks{}
	sh := newTestShortener(t, mp, func(o *Options) {
		o.Hooks = hooks
		o.DisableObfuscation = true
	})
	defer sh.Close(ctx)
	impl := mustImpl(t, sh)

	code, _ := base6.Encode(42)
	link := Link{
		Code:      code,
		LongURL:   "https://example.com",
		CreatedAt: time.Now().UTC().Add(-2 * time.Hour),
		ExpiresAt: time.Now().UTC().Add(-time.Hour),
		TokenHash: token.Hash("secret"),
	}
	k := injectRecord(t, impl, link, 42)

	if _, err := sh.Resolve(ctx, code); !errors.Is(err, ErrExpired) {
		t.Fatalf("Resolve expired: want ErrExpired, got %v", err)
	}
	if _, ok, _ := mp.Get(ctx, k); ok {
		t.Fatalf("expired record was not purged")
	}
	if len(hooks.expired) != 1 || hooks.expired[0] != code {
		t.Fatalf("ExpiredPurged hook = %v", hooks.expired)
	}
}

func TestDeleteWorksOnExpiredLink(t *testing.T) {
	ctx := context.Background()
	mp := memory.New(0)
	sh := newTestShortener(t, mp, func(o *Options) { o.DisableObfuscation = true })
	defer sh.Close(ctx)
	impl := mustImpl(t, sh)

	code, _ := base6.Encode(7)
	link := Link{
		Code:      code,
		LongURL:   "https://example.com",
		CreatedAt: time.Now().UTC().Add(-2 * time.Hour),
		ExpiresAt: time.Now().UTC().Add(-time.Hour),
		TokenHash: token.Hash("secret"),
	}
	injectRecord(t, impl, link, 7)

	if err := sh.Delete(ctx, code, "secret"); err != nil {
		t.Fatalf("Delete expired link: %v", err)
	}
}

// ==============================
// Self-heal (corruption / misfiled records)
// ==============================

func TestSelfHealOnCorrupt(t *testing.T) {
	ctx := context.Background()
	mp := memory.New(0)
	hooks := &recordingHooks{}
	sh := newTestShortener(t, mp, func(o *Options) { o.Hooks = hooks })
	defer sh.Close(ctx)
	impl := mustImpl(t, sh)

	link, _, err := sh.Shorten(ctx, "https://example.com", Never)
	if err != nil {
		t.Fatalf("Shorten: %v", err)
	}
	k := impl.storageKey(link.Code)

	// Overwrite with junk directly in the store.
	if ok, err := mp.Set(ctx, k, []byte("not-a-record"), 1, 0); err != nil || !ok {
		t.Fatalf("inject corrupt: ok=%v err=%v", ok, err)
	}

	if _, err := sh.Resolve(ctx, link.Code); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Resolve on corrupt: want ErrNotFound, got %v", err)
	}
	if _, ok, _ := mp.Get(ctx, k); ok {
		t.Fatalf("corrupt record was not deleted by self-heal")
	}
	if len(hooks.selfHeal) != 1 || hooks.selfHeal[0] != "corrupt" {
		t.Fatalf("SelfHeal hook = %v", hooks.selfHeal)
	}
}

func TestSelfHealOnMisfiledRecord(t *testing.T) {
	ctx := context.Background()
	mp := memory.New(0)
	hooks := &recordingHooks{}
	sh := newTestShortener(t, mp, func(o *Options) {
		o.Hooks = hooks
		o.DisableObfuscation = true
	})
	defer sh.Close(ctx)
	impl := mustImpl(t, sh)

	// A valid record for id 5 filed under the key for code "3" (id 3).
	code5, _ := base6.Encode(5)
	link := Link{Code: code5, LongURL: "https://example.com", CreatedAt: time.Now().UTC()}
	payload, _ := impl.codec.Encode(link)
	raw := wire.EncodeRecord(5, payload)
	code3, _ := base6.Encode(3)
	k3 := impl.storageKey(code3)
	if ok, err := mp.Set(ctx, k3, raw, 1, 0); err != nil || !ok {
		t.Fatalf("inject misfiled: ok=%v err=%v", ok, err)
	}

	if _, err := sh.Resolve(ctx, code3); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Resolve misfiled: want ErrNotFound, got %v", err)
	}
	if _, ok, _ := mp.Get(ctx, k3); ok {
		t.Fatalf("misfiled record was not deleted")
	}
	if len(hooks.selfHeal) != 1 || hooks.selfHeal[0] != "id_mismatch" {
		t.Fatalf("SelfHeal hook = %v", hooks.selfHeal)
	}
}

// ==============================
// Failure propagation
// ==============================

func TestSequenceErrorSurfaces(t *testing.T) {
	ctx := context.Background()
	mp := memory.New(0)
	hooks := &recordingHooks{}
	seqErr := errors.New("counter down")
	sh := newTestShortener(t, mp, func(o *Options) {
		o.Hooks = hooks
		o.Sequence = failingSequence{err: seqErr}
	})
	defer sh.Close(ctx)

	if _, _, err := sh.Shorten(ctx, "https://example.com", Never); !errors.Is(err, seqErr) {
		t.Fatalf("Shorten: want wrapped sequence error, got %v", err)
	}
	if hooks.sequenceErrs != 1 {
		t.Fatalf("SequenceError hook fired %d times", hooks.sequenceErrs)
	}
}

func TestResolveMalformedCodeIsNotFound(t *testing.T) {
	ctx := context.Background()
	mp := memory.New(0)
	sh := newTestShortener(t, mp, nil)
	defer sh.Close(ctx)

	for _, bad := range []string{"", "0", "7", "abc", "1x2"} {
		if _, err := sh.Resolve(ctx, bad); !errors.Is(err, ErrNotFound) {
			t.Fatalf("Resolve(%q): want ErrNotFound, got %v", bad, err)
		}
	}
}
