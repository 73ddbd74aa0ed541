package id3v2

import (
	"encoding/binary"
	"fmt"
)

// parseField consumes one field of the given kind from the front of data
// and returns the parsed Field along with whatever of data it did not
// consume. isLast indicates this is the final field in the frame's field
// list: delimited kinds stop being delimiter-terminated and instead
// consume the rest of data, matching the catalog's "greedy if last"
// convention for String/Latin1/BinaryData-shaped trailing fields.
func parseField(data []byte, kind FieldKind, enc Encoding, isLast bool) (Field, []byte, error) {
	if width, ok := kind.fixedWidth(); ok {
		if len(data) < width {
			return Field{}, nil, fmt.Errorf("%w: need %d bytes for %s field, have %d", ErrInvalidTag, width, kind, len(data))
		}
		raw := data[:width]
		rest := data[width:]

		switch kind {
		case KindTextEncoding:
			e, ok := EncodingFromByte(raw[0])
			if !ok {
				return Field{}, nil, fmt.Errorf("%w: invalid text encoding byte %d", ErrInvalidTag, raw[0])
			}
			return Field{Kind: kind, Encoding: e}, rest, nil
		case KindLanguage, KindFrameIDV2, KindFrameIDV34:
			return Field{Kind: kind, Raw: append([]byte(nil), raw...)}, rest, nil
		default: // KindInt8, KindInt16, KindInt24, KindInt32
			var v uint32
			for _, b := range raw {
				v = v<<8 | uint32(b)
			}
			return Field{Kind: kind, Int: v}, rest, nil
		}
	}

	switch kind {
	case KindLatin1, KindLatin1Full:
		raw, rest, err := consumeDelimited(data, 1, isLast)
		if err != nil {
			return Field{}, nil, err
		}
		if kind == KindLatin1 {
			raw = trimTrailingZeros(raw, 1)
		}
		s, err := decodeText(EncodingLatin1, raw)
		if err != nil {
			return Field{}, nil, err
		}
		return Field{Kind: kind, Text: s}, rest, nil

	case KindLatin1List:
		parts, err := splitDelimited(data, 1)
		if err != nil {
			return Field{}, nil, err
		}
		list := make([]string, len(parts))
		for i, p := range parts {
			s, err := decodeText(EncodingLatin1, p)
			if err != nil {
				return Field{}, nil, err
			}
			list[i] = s
		}
		return Field{Kind: kind, TextList: list}, nil, nil

	case KindString, KindStringFull:
		raw, rest, err := consumeDelimited(data, enc.delimLen(), isLast)
		if err != nil {
			return Field{}, nil, err
		}
		if kind == KindString {
			raw = trimTrailingZeros(raw, enc.delimLen())
		}
		s, err := decodeText(enc, raw)
		if err != nil {
			return Field{}, nil, err
		}
		return Field{Kind: kind, Text: s}, rest, nil

	case KindStringList:
		parts, err := splitDelimited(data, enc.delimLen())
		if err != nil {
			return Field{}, nil, err
		}
		list := make([]string, len(parts))
		for i, p := range parts {
			s, err := decodeText(enc, p)
			if err != nil {
				return Field{}, nil, err
			}
			list[i] = s
		}
		return Field{Kind: kind, TextList: list}, nil, nil

	case KindInt32Plus:
		return Field{Kind: kind, Counter: NewBigNum(data)}, nil, nil

	case KindBinaryData:
		return Field{Kind: kind, Raw: append([]byte(nil), data...)}, nil, nil

	default:
		return Field{}, nil, fmt.Errorf("%w: unhandled field kind %s", ErrInvalidTag, kind)
	}
}

// consumeDelimited reads a single delimited value from the front of data:
// everything up to (and not including) the first run of delimLen zero
// bytes. If isLast, no delimiter is required or consumed and the entirety
// of data is the value.
func consumeDelimited(data []byte, delimLen int, isLast bool) (value []byte, rest []byte, err error) {
	if isLast {
		return data, nil, nil
	}

	i := findDelim(data, delimLen)
	if i < 0 {
		return nil, nil, fmt.Errorf("%w: no delimiter found in non-final stringlike field", ErrInvalidTag)
	}
	return data[:i], data[i+delimLen:], nil
}

// splitDelimited splits data into a list of delimited values, the way a
// *List field kind does: every value but the last is terminated by a
// delimLen-byte zero run, and the final value runs to the end of data
// with no trailing delimiter required.
func splitDelimited(data []byte, delimLen int) ([][]byte, error) {
	var parts [][]byte
	for {
		i := findDelim(data, delimLen)
		if i < 0 {
			parts = append(parts, data)
			return parts, nil
		}
		parts = append(parts, data[:i])
		data = data[i+delimLen:]
	}
}

// trimTrailingZeros strips any trailing NUL padding from a non-Full
// string value, in whole delimiter-width units so a UTF-16 code unit is
// never split.
func trimTrailingZeros(data []byte, delimLen int) []byte {
	for len(data) >= delimLen && allZero(data[len(data)-delimLen:]) {
		data = data[:len(data)-delimLen]
	}
	return data
}

// findDelim returns the index of the first delimLen-byte run of zero
// bytes in data, aligned to a delimLen stride as UTF-16 code units
// require, or -1 if none is found.
func findDelim(data []byte, delimLen int) int {
	for i := 0; i+delimLen <= len(data); i += delimLen {
		allZero := true
		for j := 0; j < delimLen; j++ {
			if data[i+j] != 0 {
				allZero = false
				break
			}
		}
		if allZero {
			return i
		}
	}
	return -1
}

// emitField appends the on-disk encoding of f to out, including its
// trailing delimiter unless isLast is set.
func emitField(out []byte, f Field, enc Encoding, isLast bool) ([]byte, error) {
	switch f.Kind {
	case KindTextEncoding:
		return append(out, byte(f.Encoding)), nil

	case KindLanguage, KindFrameIDV2, KindFrameIDV34:
		return append(out, f.Raw...), nil

	case KindInt8:
		return append(out, byte(f.Int)), nil
	case KindInt16:
		var b [2]byte
		binary.BigEndian.PutUint16(b[:], uint16(f.Int))
		return append(out, b[:]...), nil
	case KindInt24:
		return append(out, byte(f.Int>>16), byte(f.Int>>8), byte(f.Int)), nil
	case KindInt32:
		var b [4]byte
		binary.BigEndian.PutUint32(b[:], f.Int)
		return append(out, b[:]...), nil

	case KindLatin1, KindLatin1Full:
		raw, err := encodeText(EncodingLatin1, f.Text)
		if err != nil {
			return nil, err
		}
		out = append(out, raw...)
		if !isLast {
			out = append(out, make([]byte, EncodingLatin1.delimLen())...)
		}
		return out, nil

	case KindLatin1List:
		return emitDelimitedList(out, f.TextList, EncodingLatin1)

	case KindString, KindStringFull:
		raw, err := encodeText(enc, f.Text)
		if err != nil {
			return nil, err
		}
		out = append(out, raw...)
		if !isLast {
			out = append(out, make([]byte, enc.delimLen())...)
		}
		return out, nil

	case KindStringList:
		return emitDelimitedList(out, f.TextList, enc)

	case KindInt32Plus:
		return append(out, f.Counter.Bytes(4)...), nil

	case KindBinaryData:
		return append(out, f.Raw...), nil

	default:
		return nil, fmt.Errorf("%w: unhandled field kind %s", ErrInvalidTag, f.Kind)
	}
}

func emitDelimitedList(out []byte, list []string, enc Encoding) ([]byte, error) {
	for i, s := range list {
		raw, err := encodeText(enc, s)
		if err != nil {
			return nil, err
		}
		out = append(out, raw...)
		if i != len(list)-1 {
			out = append(out, make([]byte, enc.delimLen())...)
		}
	}
	return out, nil
}
