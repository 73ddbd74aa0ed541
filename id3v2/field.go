package id3v2

import (
	"fmt"
	"strconv"
)

// FieldKind identifies the primitive shape of a Field: how many bytes it
// occupies, whether it is delimited or fixed-width, and whether it is a
// list of homogeneous values.
type FieldKind byte

// The sixteen primitive field kinds a frame's fields are built from, per
// the frame format catalog.
const (
	KindTextEncoding FieldKind = iota
	KindLatin1
	KindLatin1Full
	KindLatin1List
	KindString
	KindStringFull
	KindStringList
	KindLanguage
	KindFrameIDV2
	KindFrameIDV34
	KindInt8
	KindInt16
	KindInt24
	KindInt32
	KindInt32Plus
	KindBinaryData
)

// String names the field kind.
func (k FieldKind) String() string {
	switch k {
	case KindTextEncoding:
		return "text encoding"
	case KindLatin1:
		return "latin1 string"
	case KindLatin1Full:
		return "latin1 string with newlines"
	case KindLatin1List:
		return "latin1 strings"
	case KindString:
		return "encoded string"
	case KindStringFull:
		return "encoded string with newlines"
	case KindStringList:
		return "encoded strings"
	case KindLanguage:
		return "language code"
	case KindFrameIDV2:
		return "v2.2 frame ID"
	case KindFrameIDV34:
		return "v2.3/v2.4 frame ID"
	case KindInt8:
		return "byte"
	case KindInt16:
		return "int16"
	case KindInt24:
		return "int24"
	case KindInt32:
		return "int32"
	case KindInt32Plus:
		return "counter"
	case KindBinaryData:
		return "data"
	default:
		return "unknown field kind"
	}
}

// isList reports whether this kind holds a list of homogeneous values
// rather than a single one.
func (k FieldKind) isList() bool {
	return k == KindLatin1List || k == KindStringList
}

// fixedWidth returns the exact byte width of a fixed-width field kind, and
// false for kinds whose length is variable (delimited or greedy).
func (k FieldKind) fixedWidth() (int, bool) {
	switch k {
	case KindTextEncoding:
		return 1, true
	case KindLanguage:
		return 3, true
	case KindFrameIDV2:
		return 3, true
	case KindFrameIDV34:
		return 4, true
	case KindInt8:
		return 1, true
	case KindInt16:
		return 2, true
	case KindInt24:
		return 3, true
	case KindInt32:
		return 4, true
	default:
		return 0, false
	}
}

// Field is a single parsed ID3v2 field value: the atomic unit a frame's
// payload is decomposed into and reassembled from, per the frame format
// catalog entry for the frame's ID.
type Field struct {
	Kind FieldKind

	// Text holds the decoded value for KindLatin1, KindLatin1Full,
	// KindString and KindStringFull.
	Text string

	// TextList holds the decoded values for KindLatin1List and
	// KindStringList.
	TextList []string

	// Raw holds the undecoded bytes for KindLanguage, KindFrameIDV2,
	// KindFrameIDV34 and KindBinaryData.
	Raw []byte

	// Encoding holds the value for KindTextEncoding.
	Encoding Encoding

	// Int holds the value for KindInt8, KindInt16, KindInt24 and
	// KindInt32, stored big-endian in the low bytes.
	Int uint32

	// Counter holds the value for KindInt32Plus.
	Counter BigNum
}

// BigNum is a variable-width unsigned counter, used for play counts and
// similar fields that the format allows to grow past 32 bits rather than
// saturate or overflow. It is stored as little-endian base-100 limbs with
// no leading (most-significant) zero limbs, mirroring the byte layout the
// ID3v2.3/2.4 spec assigns to the trailing counter bytes of frames like
// PCNT and POPM.
type BigNum struct {
	limbs []byte // little-endian, base 100, no leading (high) zero limb
}

// NewBigNum builds a BigNum directly from a frame's raw counter bytes,
// one limb per byte, in on-disk order: the wire's first byte is the
// least significant limb.
func NewBigNum(raw []byte) BigNum {
	limbs := append([]byte(nil), raw...)
	return BigNum{limbs: dropLeadingZeroLimbs(limbs)}
}

func dropLeadingZeroLimbs(limbs []byte) []byte {
	for len(limbs) > 0 && limbs[len(limbs)-1] == 0 {
		limbs = limbs[:len(limbs)-1]
	}
	return limbs
}

// ParseBigNum parses a decimal string into a BigNum, pairing digits from
// the right so an odd number of digits leaves a single-digit most
// significant limb.
func ParseBigNum(s string) (BigNum, error) {
	var limbs []byte
	var ones *byte

	for i := len(s) - 1; i >= 0; i-- {
		c := s[i]
		if c < '0' || c > '9' {
			return BigNum{}, fmt.Errorf("%w: %q is not a decimal counter", ErrInvalidTag, s)
		}
		d := c - '0'
		if ones != nil {
			limbs = append(limbs, *ones+10*d)
			ones = nil
		} else {
			v := d
			ones = &v
		}
	}
	if ones != nil {
		limbs = append(limbs, *ones)
	}

	return BigNum{limbs: dropLeadingZeroLimbs(limbs)}, nil
}

// Increment adds one to the counter, carrying through limbs as needed and
// growing the limb count when the most significant limb overflows.
func (n *BigNum) Increment() {
	for i := range n.limbs {
		n.limbs[i]++
		if n.limbs[i] == 100 {
			n.limbs[i] = 0
			continue
		}
		return
	}
	n.limbs = append(n.limbs, 1)
}

// String renders the counter in decimal, with no leading zeros beyond a
// single "0" for a zero value.
func (n BigNum) String() string {
	if len(n.limbs) == 0 {
		return "0"
	}

	s := strconv.Itoa(int(n.limbs[len(n.limbs)-1]))
	for i := len(n.limbs) - 2; i >= 0; i-- {
		s += fmt.Sprintf("%02d", n.limbs[i])
	}
	return s
}

// Bytes renders the counter as on-disk bytes: the limb vector written
// verbatim (the same direct, no-reversal convention NewBigNum reads
// with), padded with trailing zero limbs up to minWidth. PCNT and POPM
// counters must be at least 4 bytes wide on disk.
func (n BigNum) Bytes(minWidth int) []byte {
	limbs := n.limbs
	if len(limbs) == 0 {
		limbs = []byte{0}
	}
	out := append([]byte(nil), limbs...)
	for len(out) < minWidth {
		out = append(out, 0)
	}
	return out
}
