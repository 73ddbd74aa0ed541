// Package id3v2 implements support for reading and writing ID3v2 tags:
// the frame/field model, the per-version frame codec, and the static
// frame format catalog that drives both.
//
// This is an implementation of v2.2, v2.3 and v2.4 of the ID3v2 tagging
// format, defined in http://id3.org/id3v2-00, http://id3.org/id3v2.3.0
// and http://id3.org/id3v2.4.0-structure respectively.
package id3v2

// Version identifies which revision of the ID3v2 specification a tag or
// frame follows.
type Version byte

const (
	// Version2 is ID3v2.2.
	Version2 Version = iota
	// Version3 is ID3v2.3.
	Version3
	// Version4 is ID3v2.4.
	Version4
)

// String returns a human-readable name for the version.
func (v Version) String() string {
	switch v {
	case Version2:
		return "ID3v2.2"
	case Version3:
		return "ID3v2.3"
	case Version4:
		return "ID3v2.4"
	default:
		return "ID3v2.?"
	}
}

// IDWidth returns the width in bytes of a frame identifier under this
// version: 3 bytes for v2.2, 4 bytes for v2.3 and v2.4.
func (v Version) IDWidth() int {
	if v == Version2 {
		return 3
	}
	return 4
}

// DefaultEncoding returns the text encoding new text fields should use
// when no encoding has been chosen explicitly: UTF-8 for v2.4, UTF-16
// (with BOM) for v2.2 and v2.3, which predate UTF-8 support.
func (v Version) DefaultEncoding() Encoding {
	if v == Version4 {
		return EncodingUTF8
	}
	return EncodingUTF16
}

// SupportsEncoding reports whether this version's spec permits the given
// text encoding. v2.2 and v2.3 only understand Latin-1 and UTF-16 with a
// byte-order mark; v2.4 added UTF-16BE and UTF-8.
func (v Version) SupportsEncoding(e Encoding) bool {
	switch e {
	case EncodingLatin1, EncodingUTF16:
		return true
	case EncodingUTF16BE, EncodingUTF8:
		return v == Version4
	default:
		return false
	}
}

// Encoding is the text encoding byte that prefixes every ID3v2 string
// field.
type Encoding byte

// The four encodings defined by the ID3v2.4 specification. v2.2/v2.3
// frames are restricted to EncodingLatin1 and EncodingUTF16.
const (
	EncodingLatin1  Encoding = 0
	EncodingUTF16   Encoding = 1 // UTF-16 with a byte-order mark
	EncodingUTF16BE Encoding = 2 // UTF-16, big-endian, no BOM
	EncodingUTF8    Encoding = 3
)

// String names the encoding.
func (e Encoding) String() string {
	switch e {
	case EncodingLatin1:
		return "ISO-8859-1"
	case EncodingUTF16:
		return "UTF-16"
	case EncodingUTF16BE:
		return "UTF-16BE"
	case EncodingUTF8:
		return "UTF-8"
	default:
		return "unknown encoding"
	}
}

// EncodingFromByte returns the Encoding that b names, and false if b is
// not one of the four defined encodings.
func EncodingFromByte(b byte) (Encoding, bool) {
	switch Encoding(b) {
	case EncodingLatin1, EncodingUTF16, EncodingUTF16BE, EncodingUTF8:
		return Encoding(b), true
	default:
		return 0, false
	}
}

// delimLen is the width, in bytes, of the zero-run that terminates a
// non-greedy stringlike field under this encoding: 1 byte for Latin-1 and
// UTF-8, 2 bytes for the UTF-16 variants.
func (e Encoding) delimLen() int {
	switch e {
	case EncodingUTF16, EncodingUTF16BE:
		return 2
	default:
		return 1
	}
}
