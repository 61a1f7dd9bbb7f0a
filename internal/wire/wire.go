// Package wire frames stored link records. The frame carries the numeric id
// the record was filed under, so a reader can detect foreign or corrupt
// store entries and discard them instead of serving them.
package wire

import (
	"bytes"
	"encoding/binary"
	"errors"
)

const (
	version  byte = 1
	kindLink byte = 1
)

var (
	ErrCorrupt = errors.New("sixlink: corrupt record")
	magic4     = [...]byte{'6', 'L', 'N', 'K'}
)

func hasMagic(b []byte) bool {
	return len(b) >= 4 && bytes.Equal(b[:4], magic4[:])
}

// Record: magic(4) | ver(1) | kind(1=link) | id(u64 be) | vlen(u32 be) | payload(vlen)
func EncodeRecord(id uint64, payload []byte) []byte {
	var buf bytes.Buffer
	buf.Grow(4 + 1 + 1 + 8 + 4 + len(payload))

	buf.Write(magic4[:])
	buf.WriteByte(version)
	buf.WriteByte(kindLink)

	var u8 [8]byte
	var u4 [4]byte

	binary.BigEndian.PutUint64(u8[:], id)
	buf.Write(u8[:])

	binary.BigEndian.PutUint32(u4[:], uint32(len(payload)))
	buf.Write(u4[:])

	buf.Write(payload)
	return buf.Bytes()
}

func DecodeRecord(b []byte) (id uint64, payload []byte, err error) {
	const hdr = 4 + 1 + 1 + 8 + 4
	if len(b) < hdr || !hasMagic(b) || b[4] != version || b[5] != kindLink {
		return 0, nil, ErrCorrupt
	}

	off := 6

	id = binary.BigEndian.Uint64(b[off : off+8])
	off += 8

	vlen := int(binary.BigEndian.Uint32(b[off : off+4]))
	off += 4
	// exact-length frame; trailing bytes mean somebody else wrote here
	if vlen < 0 || off+vlen != len(b) {
		return 0, nil, ErrCorrupt
	}

	return id, b[off : off+vlen], nil
}
