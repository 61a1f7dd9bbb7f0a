// Package obfuscate permutes sequential integer ids within the positive
// 31-bit space so that public short codes do not reveal creation order and
// cannot be enumerated by counting. It is a multiplicative permutation with
// an XOR mix, not cryptography: it resists casual scraping, nothing more.
package obfuscate

import (
	"errors"
	"fmt"
)

const (
	// prime and primeInverse are multiplicative inverses modulo 2^31.
	prime        = int64(1580030173)
	primeInverse = int64(59260789)

	xorKey = int64(1234567890)

	// MaxID bounds the usable id space: positive 31-bit integers.
	MaxID = int64(1<<31 - 1)
)

// ErrOutOfRange is returned by Mask for ids outside (0, MaxID].
var ErrOutOfRange = errors.New("obfuscate: id out of the valid range")

// Mask scrambles a sequential id into an apparently random value in
// (0, MaxID]. Unmask inverts it exactly.
func Mask(n int64) (int64, error) {
	if n <= 0 || n > MaxID {
		return 0, fmt.Errorf("%w: %d", ErrOutOfRange, n)
	}
	m := ((n * prime) & MaxID) ^ xorKey
	if m == 0 {
		// 0 has no bijective code. xorKey is the image of 0, which is not a
		// valid input, so the two can trade places without breaking the
		// bijection.
		m = xorKey
	}
	return m, nil
}

// Unmask recovers the sequential id that Mask scrambled. Results for values
// that Mask never produced are unspecified.
func Unmask(n int64) int64 {
	if n == xorKey {
		n = 0
	}
	return ((n ^ xorKey) * primeInverse) & MaxID
}
