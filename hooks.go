package sixlink

// Hooks lightweight callbacks for high-signal events.
// Implementations MUST be cheap and non-blocking.
// The shortener calls them on hot paths.
type Hooks interface {
	// A record was deleted by the shortener on read.
	// reason ∈ {"corrupt", "id_mismatch", "value_decode"}
	SelfHeal(storageKey, reason string)

	// An expired link was encountered and purged during Resolve.
	ExpiredPurged(code string)

	// Store returned ok=false on Set (backpressure/eviction); the Shorten
	// call failed with ErrWriteRejected.
	StoreSetRejected(storageKey string)

	// Sequence failed to allocate an id.
	SequenceError(err error)
}

// NopHooks is the default no-op
type NopHooks struct{}

func (NopHooks) SelfHeal(string, string)  {}
func (NopHooks) ExpiredPurged(string)     {}
func (NopHooks) StoreSetRejected(string)  {}
func (NopHooks) SequenceError(error)      {}
