// Package sixlink implements a link shortener built on bijective base-6
// short codes. Internal ids are sequential; before they become visible they
// are permuted (package obfuscate) and rendered with the zero-less digit
// alphabet '1'..'6' (package base6), so every link gets a short, unique,
// non-enumerable code.
//
// Components:
//   - base6: the pure integer <-> code codec.
//   - Store: byte store with TTL (memory, Redis, Ristretto, BigCache).
//   - Codec[Link]: (de)serializes link records <-> []byte.
//   - Sequence: id allocation. Local (in-process) by default, optional
//     Redis implementation for multi-replica / restart persistence.
//   - httpapi: the single thin HTTP adapter.
//
// Keys:
//
//	link:<ns>:<code> - one record per short code
//	seq:<ns>         - the shared id counter (Redis sequence only)
//
// Records are framed (internal/wire) with the id they were filed under;
// corrupt or foreign store entries are detected on read and deleted.
package sixlink
