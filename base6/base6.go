// Package base6 converts positive integers to and from bijective base-6
// codes over the alphabet '1'..'6'.
//
// Unlike standard positional base 6, there is no zero digit: digit values
// run 1..6, so every positive integer has exactly one code and every code
// denotes exactly one positive integer. There is no leading-zero ambiguity
// and no representation of zero at all.
//
// Both functions are pure and allocation-fresh: no shared buffers, no
// package state. Safe for unbounded concurrent use.
package base6

import (
	"errors"
	"fmt"
	"math"
)

// Alphabet is the digit set, ordered by value. Alphabet[i] has value i+1.
const Alphabet = "123456"

// Base is the radix of the numeral system.
const Base = int64(len(Alphabet))

// MaxInt is the largest encodable (and decodable) integer.
const MaxInt = int64(math.MaxInt64)

var (
	// ErrNonPositive is returned by Encode for n <= 0; zero and negative
	// integers have no bijective representation.
	ErrNonPositive = errors.New("base6: input must be a positive integer")

	// ErrEmptyCode is returned by Decode for the empty string. Encode never
	// produces it, so it maps to no integer.
	ErrEmptyCode = errors.New("base6: empty code")

	// ErrOverflow is returned by Decode when the code denotes an integer
	// beyond MaxInt.
	ErrOverflow = errors.New("base6: code overflows int64")
)

// InvalidCharacterError reports a byte outside the alphabet found by Decode.
type InvalidCharacterError struct {
	Char byte
	Pos  int
}

func (e *InvalidCharacterError) Error() string {
	return fmt.Sprintf("base6: invalid character %q at position %d", e.Char, e.Pos)
}

// Encode returns the bijective base-6 code for n, most significant digit
// first. It fails with ErrNonPositive for n <= 0 and succeeds for every
// n in [1, MaxInt].
func Encode(n int64) (string, error) {
	if n <= 0 {
		return "", ErrNonPositive
	}
	// A length-25 code already covers MaxInt.
	buf := make([]byte, 0, 25)
	for n > 0 {
		n-- // shift to 0-indexed; this is what makes the mapping bijective
		buf = append(buf, Alphabet[n%Base])
		n /= Base
	}
	// digits were produced least significant first
	for i, j := 0, len(buf)-1; i < j; i, j = i+1, j-1 {
		buf[i], buf[j] = buf[j], buf[i]
	}
	return string(buf), nil
}

// Decode returns the positive integer denoted by code. It is the exact
// inverse of Encode: Decode(Encode(n)) == n for every valid n.
//
// It fails with ErrEmptyCode for "", with *InvalidCharacterError for any
// byte outside '1'..'6', and with ErrOverflow when the value would exceed
// MaxInt. Arithmetic is checked; no wraparound result is ever returned.
func Decode(code string) (int64, error) {
	if code == "" {
		return 0, ErrEmptyCode
	}
	var n int64
	for i := 0; i < len(code); i++ {
		c := code[i]
		if c < '1' || c > '6' {
			return 0, &InvalidCharacterError{Char: c, Pos: i}
		}
		d := int64(c-'1') + 1
		if n > (MaxInt-d)/Base {
			return 0, ErrOverflow
		}
		n = n*Base + d
	}
	return n, nil
}

// Valid reports whether code is a well-formed bijective base-6 code for an
// integer within range.
func Valid(code string) bool {
	_, err := Decode(code)
	return err == nil
}
