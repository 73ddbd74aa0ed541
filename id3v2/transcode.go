package id3v2

import (
	"fmt"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

// textCodec returns the golang.org/x/text codec for e, decoding bytes in
// the direction the BOM (if any) indicates. UTF16BE never carries a BOM;
// UTF16 requires one and is a decode error without it.
func textCodec(e Encoding) (encoding.Encoding, error) {
	switch e {
	case EncodingLatin1:
		return charmap.ISO8859_1, nil
	case EncodingUTF16:
		return unicode.UTF16(unicode.LittleEndian, unicode.ExpectBOM), nil
	case EncodingUTF16BE:
		return unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM), nil
	case EncodingUTF8:
		return encoding.Nop, nil
	default:
		return nil, fmt.Errorf("%w: unrecognized encoding byte %d", ErrInvalidTag, e)
	}
}

// decodeText converts raw field bytes (already stripped of the trailing
// delimiter, if any) to a UTF-8 Go string under the declared encoding.
func decodeText(e Encoding, raw []byte) (string, error) {
	if e == EncodingUTF8 {
		if !utf8.Valid(raw) {
			return "", fmt.Errorf("%w: invalid UTF-8 byte sequence", ErrStringDecoding)
		}
		return string(raw), nil
	}

	codec, err := textCodec(e)
	if err != nil {
		return "", err
	}

	out, err := codec.NewDecoder().Bytes(raw)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrStringDecoding, err)
	}

	return string(out), nil
}

// encodeText converts a UTF-8 Go string to the raw bytes for the given
// encoding, without any trailing delimiter.
func encodeText(e Encoding, s string) ([]byte, error) {
	if e == EncodingUTF8 {
		return []byte(s), nil
	}

	codec, err := textCodec(e)
	if err != nil {
		return nil, err
	}

	out, err := codec.NewEncoder().Bytes([]byte(s))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStringDecoding, err)
	}

	return out, nil
}
