// Package wire frames entries written to local stores. Engines like bigcache
// have no per-entry TTL, so the frame carries an authoritative absolute
// expiry; readers enforce it regardless of what the engine does.
package wire

import (
	"bytes"
	"encoding/binary"
	"errors"
	"time"
)

const (
	version   byte = 1
	kindEntry byte = 1
)

var (
	ErrCorrupt = errors.New("gridcache: corrupt entry")
	magic4     = [...]byte{'G', 'R', 'D', 'C'}
)

func hasMagic(b []byte) bool {
	return len(b) >= 4 && bytes.Equal(b[:4], magic4[:])
}

// EncodeEntry frames a payload with its absolute expiry.
// Layout: magic(4) | ver(1) | kind(1) | exp(u64 be, unix nanos; 0 = none) | vlen(u32 be) | payload(vlen)
func EncodeEntry(expiresAt time.Time, payload []byte) []byte {
	var buf bytes.Buffer
	buf.Grow(4 + 1 + 1 + 8 + 4 + len(payload))

	buf.Write(magic4[:])
	buf.WriteByte(version)
	buf.WriteByte(kindEntry)

	var exp uint64
	if !expiresAt.IsZero() {
		exp = uint64(expiresAt.UnixNano())
	}

	var u8 [8]byte
	var u4 [4]byte

	binary.BigEndian.PutUint64(u8[:], exp)
	buf.Write(u8[:])

	binary.BigEndian.PutUint32(u4[:], uint32(len(payload)))
	buf.Write(u4[:])

	buf.Write(payload)
	return buf.Bytes()
}

// DecodeEntry unframes an entry. Trailing bytes are rejected as corruption;
// a zero expiry decodes to the zero time (no expiry).
func DecodeEntry(b []byte) (expiresAt time.Time, payload []byte, err error) {
	const hdr = 4 + 1 + 1 + 8 + 4
	if len(b) < hdr || !hasMagic(b) || b[4] != version || b[5] != kindEntry {
		return time.Time{}, nil, ErrCorrupt
	}

	off := 6

	exp := binary.BigEndian.Uint64(b[off : off+8])
	off += 8

	vlen := int(binary.BigEndian.Uint32(b[off : off+4]))
	off += 4
	if vlen != len(b)-off { // strict framing, no trailing bytes
		return time.Time{}, nil, ErrCorrupt
	}

	if exp != 0 {
		expiresAt = time.Unix(0, int64(exp))
	}
	return expiresAt, b[off : off+vlen], nil
}
