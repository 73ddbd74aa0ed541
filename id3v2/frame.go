package id3v2

import (
	"bytes"
	"compress/zlib"
	"encoding/binary"
	"fmt"
	"io"
)

// FrameFlags are the per-frame status and format flags. The bit positions
// differ between ID3v2.3 and ID3v2.4, so FrameFlags is a version-neutral
// set of booleans decoded from whichever layout the frame's header used;
// its bytes method re-encodes it for a specific version.
type FrameFlags struct {
	TagAlterPreservation  bool
	FileAlterPreservation bool
	ReadOnly              bool
	GroupingIdentity      bool
	Compression           bool
	Encryption            bool
	Unsynchronisation     bool // v2.4 only
	DataLengthIndicator   bool // v2.4 only
}

// Frame-level flag bit positions for ID3v2.3, per §4 of id3v2.3.0.
const (
	flagV3TagAlterPreservation  = 1 << 15
	flagV3FileAlterPreservation = 1 << 14
	flagV3ReadOnly              = 1 << 13
	flagV3Compression           = 1 << 7
	flagV3Encryption            = 1 << 6
	flagV3GroupingIdentity      = 1 << 5
)

// Frame-level flag bit positions for ID3v2.4, per §4 of
// id3v2.4.0-structure.txt. Note the bit assignments move relative to
// ID3v2.3: v2.4 groups status flags and format flags into separate
// nibbles instead of sharing them across the byte pair.
const (
	flagV4TagAlterPreservation  = 1 << 14
	flagV4FileAlterPreservation = 1 << 13
	flagV4ReadOnly              = 1 << 12
	flagV4GroupingIdentity      = 1 << 6
	flagV4Compression           = 1 << 3
	flagV4Encryption            = 1 << 2
	flagV4Unsynchronisation     = 1 << 1
	flagV4DataLengthIndicator   = 1 << 0
)

func parseFrameFlags(v Version, raw uint16) FrameFlags {
	if v == Version4 {
		return FrameFlags{
			TagAlterPreservation:  raw&flagV4TagAlterPreservation != 0,
			FileAlterPreservation: raw&flagV4FileAlterPreservation != 0,
			ReadOnly:              raw&flagV4ReadOnly != 0,
			GroupingIdentity:      raw&flagV4GroupingIdentity != 0,
			Compression:           raw&flagV4Compression != 0,
			Encryption:            raw&flagV4Encryption != 0,
			Unsynchronisation:     raw&flagV4Unsynchronisation != 0,
			DataLengthIndicator:   raw&flagV4DataLengthIndicator != 0,
		}
	}
	return FrameFlags{
		TagAlterPreservation:  raw&flagV3TagAlterPreservation != 0,
		FileAlterPreservation: raw&flagV3FileAlterPreservation != 0,
		ReadOnly:              raw&flagV3ReadOnly != 0,
		GroupingIdentity:      raw&flagV3GroupingIdentity != 0,
		Compression:           raw&flagV3Compression != 0,
		Encryption:            raw&flagV3Encryption != 0,
	}
}

func (fl FrameFlags) bytes(v Version) uint16 {
	var raw uint16
	if v == Version4 {
		if fl.TagAlterPreservation {
			raw |= flagV4TagAlterPreservation
		}
		if fl.FileAlterPreservation {
			raw |= flagV4FileAlterPreservation
		}
		if fl.ReadOnly {
			raw |= flagV4ReadOnly
		}
		if fl.GroupingIdentity {
			raw |= flagV4GroupingIdentity
		}
		if fl.Compression {
			raw |= flagV4Compression
		}
		if fl.Encryption {
			raw |= flagV4Encryption
		}
		if fl.Unsynchronisation {
			raw |= flagV4Unsynchronisation
		}
		if fl.DataLengthIndicator {
			raw |= flagV4DataLengthIndicator
		}
		return raw
	}

	if fl.TagAlterPreservation {
		raw |= flagV3TagAlterPreservation
	}
	if fl.FileAlterPreservation {
		raw |= flagV3FileAlterPreservation
	}
	if fl.ReadOnly {
		raw |= flagV3ReadOnly
	}
	if fl.GroupingIdentity {
		raw |= flagV3GroupingIdentity
	}
	if fl.Compression {
		raw |= flagV3Compression
	}
	if fl.Encryption {
		raw |= flagV3Encryption
	}
	return raw
}

// Frame is a single parsed ID3v2 frame: an identifier, its flags, and its
// ordered list of decoded fields.
type Frame struct {
	ID     FrameID
	Flags  FrameFlags
	Fields []Field

	// GroupSymbol identifies the group this frame belongs to, valid only
	// when Flags.GroupingIdentity is set.
	GroupSymbol byte

	// EncryptionMethod identifies the ENCR registration this frame was
	// encrypted under, valid only when Flags.Encryption is set. This
	// package never decrypts frame data; an encrypted frame fails to
	// parse with ErrUnsupportedFeature.
	EncryptionMethod byte
}

// readFrame reads one frame header and body from the front of data under
// the given version, returning the frame, the number of bytes consumed
// (header + body, excluding any trailing padding), and ok=false if data
// begins with padding (an all-zero ID) rather than a frame.
func readFrame(data []byte, v Version) (fr Frame, consumed int, ok bool, err error) {
	idWidth := v.IDWidth()
	if len(data) < idWidth {
		return Frame{}, 0, false, fmt.Errorf("%w: truncated frame header", ErrInvalidTag)
	}
	if allZero(data[:idWidth]) {
		return Frame{}, 0, false, nil
	}

	id := FrameID(data[:idWidth])
	if !id.valid(v) {
		return Frame{}, 0, false, fmt.Errorf("%w: invalid frame id %q", ErrInvalidTag, string(id))
	}

	switch v {
	case Version2:
		return readFrameV2(data, id)
	case Version3:
		return readFrameV3(data, id)
	default:
		return readFrameV4(data, id)
	}
}

func allZero(b []byte) bool {
	for _, c := range b {
		if c != 0 {
			return false
		}
	}
	return true
}

func readFrameV2(data []byte, id FrameID) (Frame, int, bool, error) {
	if len(data) < 6 {
		return Frame{}, 0, false, fmt.Errorf("%w: truncated v2.2 frame header", ErrInvalidTag)
	}
	size := uint32(data[3])<<16 | uint32(data[4])<<8 | uint32(data[5])
	if len(data) < 6+int(size) {
		return Frame{}, 0, false, fmt.Errorf("%w: frame %s size exceeds tag data", ErrInvalidTag, id)
	}

	fields, err := parseFields(id, Version2, data[6:6+size])
	if err != nil {
		return Frame{}, 0, false, &frameError{id: string(id), err: err}
	}

	return Frame{ID: id, Fields: fields}, 6 + int(size), true, nil
}

func readFrameV3(data []byte, id FrameID) (Frame, int, bool, error) {
	if len(data) < 10 {
		return Frame{}, 0, false, fmt.Errorf("%w: truncated v2.3 frame header", ErrInvalidTag)
	}
	size := binary.BigEndian.Uint32(data[4:8])
	flags := parseFrameFlags(Version3, binary.BigEndian.Uint16(data[8:10]))

	if len(data) < 10+int(size) {
		return Frame{}, 0, false, fmt.Errorf("%w: frame %s size exceeds tag data", ErrInvalidTag, id)
	}
	body := data[10 : 10+size]
	consumed := 10 + int(size)

	fr := Frame{ID: id, Flags: flags}

	if flags.Encryption {
		return Frame{}, 0, false, &frameError{id: string(id), err: fmt.Errorf("%w: encrypted frames are not supported", ErrUnsupportedFeature)}
	}
	if flags.Compression {
		if len(body) < 4 {
			return Frame{}, 0, false, fmt.Errorf("%w: missing decompressed size", ErrInvalidTag)
		}
		body = body[4:]
	}
	if flags.GroupingIdentity {
		if len(body) < 1 {
			return Frame{}, 0, false, fmt.Errorf("%w: missing group symbol byte", ErrInvalidTag)
		}
		fr.GroupSymbol = body[0]
		body = body[1:]
	}
	if flags.Compression {
		decompressed, err := inflate(body)
		if err != nil {
			return Frame{}, 0, false, &frameError{id: string(id), err: err}
		}
		body = decompressed
	}

	fields, err := parseFields(id, Version3, body)
	if err != nil {
		return Frame{}, 0, false, &frameError{id: string(id), err: err}
	}
	fr.Fields = fields

	return fr, consumed, true, nil
}

func readFrameV4(data []byte, id FrameID) (Frame, int, bool, error) {
	if len(data) < 10 {
		return Frame{}, 0, false, fmt.Errorf("%w: truncated v2.4 frame header", ErrInvalidTag)
	}
	var sizeBuf [4]byte
	copy(sizeBuf[:], data[4:8])
	size, ok := Unsynchsafe(sizeBuf)
	if !ok {
		return Frame{}, 0, false, fmt.Errorf("%w: invalid v2.4 frame size", ErrInvalidTag)
	}
	flags := parseFrameFlags(Version4, binary.BigEndian.Uint16(data[8:10]))

	if len(data) < 10+int(size) {
		return Frame{}, 0, false, fmt.Errorf("%w: frame %s size exceeds tag data", ErrInvalidTag, id)
	}
	body := data[10 : 10+size]
	consumed := 10 + int(size)

	fr := Frame{ID: id, Flags: flags}

	if flags.GroupingIdentity {
		if len(body) < 1 {
			return Frame{}, 0, false, fmt.Errorf("%w: missing group symbol byte", ErrInvalidTag)
		}
		fr.GroupSymbol = body[0]
		body = body[1:]
	}
	if flags.Encryption {
		return Frame{}, 0, false, &frameError{id: string(id), err: fmt.Errorf("%w: encrypted frames are not supported", ErrUnsupportedFeature)}
	}
	if flags.Compression && !flags.DataLengthIndicator {
		return Frame{}, 0, false, fmt.Errorf("%w: compressed frame missing data-length indicator", ErrInvalidTag)
	}
	if flags.DataLengthIndicator {
		if len(body) < 4 {
			return Frame{}, 0, false, fmt.Errorf("%w: missing data-length indicator", ErrInvalidTag)
		}
		body = body[4:]
	}
	if flags.Unsynchronisation {
		body = Resynchronize(body)
		fr.Flags.Unsynchronisation = false
	}
	if flags.Compression {
		decompressed, err := inflate(body)
		if err != nil {
			return Frame{}, 0, false, &frameError{id: string(id), err: err}
		}
		body = decompressed
	}

	fields, err := parseFields(id, Version4, body)
	if err != nil {
		return Frame{}, 0, false, &frameError{id: string(id), err: err}
	}
	fr.Fields = fields

	return fr, consumed, true, nil
}

// parseFields splits a frame's body into Fields according to the ID's
// catalog entry. The encoding context starts as Latin-1 and is replaced
// by the frame's own TextEncoding field once one is parsed, since every
// later string field's delimiter width depends on it.
func parseFields(id FrameID, v Version, body []byte) ([]Field, error) {
	v34ID := string(id)
	if v == Version2 {
		renamed, ok := renameFromV22(v34ID)
		if !ok {
			renamed = v34ID
		}
		v34ID = renamed
	}

	f := lookupFormat(v34ID)
	fields := make([]Field, 0, len(f.fields))

	enc := EncodingLatin1
	for i, kind := range f.fields {
		isLast := i == len(f.fields)-1
		field, rest, err := parseField(body, kind, enc, isLast)
		if err != nil {
			return nil, err
		}
		if kind == KindTextEncoding {
			enc = field.Encoding
		}
		fields = append(fields, field)
		body = rest
		if body == nil {
			body = []byte{}
		}
	}

	return fields, nil
}

// emitFields reassembles a frame's Fields back into its on-disk body.
func emitFields(fields []Field) ([]byte, error) {
	var out []byte
	enc := EncodingLatin1
	for i, f := range fields {
		if f.Kind == KindTextEncoding {
			enc = f.Encoding
		}
		isLast := i == len(fields)-1
		var err error
		out, err = emitField(out, f, enc, isLast)
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

// writeFrame appends the on-disk encoding of fr to out under version v.
func writeFrame(out []byte, fr Frame, v Version) ([]byte, error) {
	body, err := emitFields(fr.Fields)
	if err != nil {
		return nil, fmt.Errorf("%w: frame %s: %v", ErrInvalidTag, fr.ID, err)
	}

	switch v {
	case Version2:
		if len(fr.ID) != 3 {
			return nil, fmt.Errorf("%w: frame %s has no ID3v2.2 identifier", ErrInvalidTag, fr.ID)
		}
		out = append(out, []byte(fr.ID)...)
		out = append(out, byte(len(body)>>16), byte(len(body)>>8), byte(len(body)))
		out = append(out, body...)
		return out, nil

	case Version3:
		decompressedSize := len(body)
		if fr.Flags.Compression {
			body = deflate(body)
		}
		size := len(body)
		if fr.Flags.Compression {
			size += 4
		}
		if fr.Flags.Encryption {
			size++
		}
		if fr.Flags.GroupingIdentity {
			size++
		}

		out = append(out, []byte(fr.ID)...)
		var sz [4]byte
		binary.BigEndian.PutUint32(sz[:], uint32(size))
		out = append(out, sz[:]...)
		var fl [2]byte
		binary.BigEndian.PutUint16(fl[:], fr.Flags.bytes(Version3))
		out = append(out, fl[:]...)
		if fr.Flags.Compression {
			var ds [4]byte
			binary.BigEndian.PutUint32(ds[:], uint32(decompressedSize))
			out = append(out, ds[:]...)
		}
		if fr.Flags.Encryption {
			out = append(out, fr.EncryptionMethod)
		}
		if fr.Flags.GroupingIdentity {
			out = append(out, fr.GroupSymbol)
		}
		out = append(out, body...)
		return out, nil

	default: // Version4
		decompressedSize := len(body)
		if fr.Flags.Compression {
			body = deflate(body)
		}
		if fr.Flags.Unsynchronisation {
			body = Unsynchronize(body)
		}
		size := len(body)
		if fr.Flags.GroupingIdentity {
			size++
		}
		if fr.Flags.Encryption {
			size++
		}
		if fr.Flags.DataLengthIndicator {
			size += 4
		}

		out = append(out, []byte(fr.ID)...)
		sz := Synchsafe(uint32(size))
		out = append(out, sz[:]...)
		var fl [2]byte
		binary.BigEndian.PutUint16(fl[:], fr.Flags.bytes(Version4))
		out = append(out, fl[:]...)
		if fr.Flags.GroupingIdentity {
			out = append(out, fr.GroupSymbol)
		}
		if fr.Flags.Encryption {
			out = append(out, fr.EncryptionMethod)
		}
		if fr.Flags.DataLengthIndicator {
			ds := Synchsafe(uint32(decompressedSize))
			out = append(out, ds[:]...)
		}
		out = append(out, body...)
		return out, nil
	}
}

func inflate(data []byte) ([]byte, error) {
	r, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidTag, err)
	}
	defer r.Close()

	out, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidTag, err)
	}
	return out, nil
}

func deflate(data []byte) []byte {
	var buf bytes.Buffer
	w := zlib.NewWriter(&buf)
	w.Write(data)
	w.Close()
	return buf.Bytes()
}
