package id3v2

import (
	"errors"
	"fmt"
	"hash/crc32"
	"io"
)

// TagFlags are the header-level flags of an ID3v2 tag.
type TagFlags struct {
	Unsynchronisation bool
	ExtendedHeader    bool
	Experimental      bool
	Footer            bool // v2.4 only
}

const (
	tagFlagUnsynchronisation = 1 << 7
	tagFlagExtendedHeader    = 1 << 6
	tagFlagExperimental      = 1 << 5
	tagFlagFooter            = 1 << 4
)

func parseTagFlags(b byte) TagFlags {
	return TagFlags{
		Unsynchronisation: b&tagFlagUnsynchronisation != 0,
		ExtendedHeader:    b&tagFlagExtendedHeader != 0,
		Experimental:      b&tagFlagExperimental != 0,
		Footer:            b&tagFlagFooter != 0,
	}
}

func (fl TagFlags) byte() byte {
	var b byte
	if fl.Unsynchronisation {
		b |= tagFlagUnsynchronisation
	}
	if fl.ExtendedHeader {
		b |= tagFlagExtendedHeader
	}
	if fl.Experimental {
		b |= tagFlagExperimental
	}
	if fl.Footer {
		b |= tagFlagFooter
	}
	return b
}

// ExtendedFlag identifies a single entry in an ID3v2 extended header.
// Update and TagRestrictions are ID3v2.4-only; Crc is shared between
// ID3v2.3 and ID3v2.4, at different bit positions.
type ExtendedFlag int

const (
	extendedFlagNone ExtendedFlag = iota - 1
	ExtendedFlagUpdate
	ExtendedFlagCRC
	ExtendedFlagTagRestrictions
)

// ExtendedHeader is the optional block of tag-wide metadata that follows
// the 10-byte ID3v2 header in ID3v2.3 and ID3v2.4 tags.
type ExtendedHeader struct {
	Update          bool
	CRC             uint32
	HasCRC          bool
	TagRestrictions byte
	HasRestrictions bool

	// Unknown holds any extended-header flag entries this package does
	// not interpret, keyed by their bit index from the first flag
	// byte's MSB. Per the ID3v2.4 spec, unknown extended header data
	// must be dropped whenever the tag is modified: Tag.Emit never
	// re-serializes this field, it exists only so a round-trip of an
	// unmodified tag can report what was present.
	Unknown map[int][]byte
}

func parseExtendedHeader(data []byte, v Version) (ExtendedHeader, int, error) {
	var sizeBuf [4]byte
	if len(data) < 4 {
		return ExtendedHeader{}, 0, fmt.Errorf("%w: truncated extended header", ErrInvalidTag)
	}
	copy(sizeBuf[:], data[:4])
	size, ok := Unsynchsafe(sizeBuf)
	if !ok {
		return ExtendedHeader{}, 0, fmt.Errorf("%w: invalid extended header size", ErrInvalidTag)
	}
	off := 4

	var nFlagBytes int
	if v == Version4 {
		if len(data) < off+1 {
			return ExtendedHeader{}, 0, fmt.Errorf("%w: truncated extended header", ErrInvalidTag)
		}
		nFlagBytes = int(data[off])
		off++
	} else {
		nFlagBytes = 2
	}

	if len(data) < off+nFlagBytes {
		return ExtendedHeader{}, 0, fmt.Errorf("%w: truncated extended header flags", ErrInvalidTag)
	}

	var setBits []int
	for i := 0; i < nFlagBytes; i++ {
		b := data[off+i]
		for bit := 0; bit < 8; bit++ {
			if b&(1<<(7-bit)) != 0 {
				setBits = append(setBits, i*8+bit)
			}
		}
	}
	off += nFlagBytes

	eh := ExtendedHeader{Unknown: map[int][]byte{}}
	// size counts bytes after the 4-byte size field itself, but off is an
	// index into data (which starts at that size field), so it must be
	// adjusted back by 4 before comparing against size.
	remaining := int(size) - (off - 4)

	for _, bit := range setBits {
		if len(data) < off+1 {
			return ExtendedHeader{}, 0, fmt.Errorf("%w: truncated extended header payload", ErrInvalidTag)
		}
		payloadLen := int(data[off])
		off++
		remaining--
		if remaining < payloadLen || len(data) < off+payloadLen {
			return ExtendedHeader{}, 0, fmt.Errorf("%w: extended header payload overruns tag data", ErrInvalidTag)
		}
		payload := data[off : off+payloadLen]
		off += payloadLen
		remaining -= payloadLen

		switch extendedFlagFromIndex(bit, v) {
		case ExtendedFlagUpdate:
			eh.Update = true
		case ExtendedFlagCRC:
			eh.HasCRC = true
			eh.CRC = bytesToCRC(payload)
		case ExtendedFlagTagRestrictions:
			eh.HasRestrictions = true
			if len(payload) > 0 {
				eh.TagRestrictions = payload[0]
			}
		default:
			eh.Unknown[bit] = append([]byte(nil), payload...)
		}
	}

	return eh, off, nil
}

// extendedFlagFromIndex maps a set bit index (counting from the MSB of
// the first flag byte) to its meaning, per version: ID3v2.3 has only CRC
// at index 0, ID3v2.4 has Update at 1, CRC at 2, TagRestrictions at 3.
func extendedFlagFromIndex(bit int, v Version) ExtendedFlag {
	if v == Version3 {
		if bit == 0 {
			return ExtendedFlagCRC
		}
		return extendedFlagNone
	}
	switch bit {
	case 1:
		return ExtendedFlagUpdate
	case 2:
		return ExtendedFlagCRC
	case 3:
		return ExtendedFlagTagRestrictions
	default:
		return extendedFlagNone
	}
}

func bytesToCRC(b []byte) uint32 {
	var v uint32
	for _, c := range b {
		v = v<<7 | uint32(c&0x7F)
	}
	return v
}

func crcToBytes(v uint32, n int) []byte {
	out := make([]byte, n)
	for i := n - 1; i >= 0; i-- {
		out[i] = byte(v & 0x7F)
		v >>= 7
	}
	return out
}

// emitExtendedHeader appends eh's on-disk encoding under version v. v2.3
// extended headers always carry CRC as the only defined flag slot;
// ID3v2.4 supports all three. Unknown entries from a parsed header are
// never re-emitted; ID3v2.4 requires dropping unrecognized flag data
// whenever the tag is rewritten.
func emitExtendedHeader(eh ExtendedHeader, v Version, frameData []byte) []byte {
	type entry struct {
		bit     int
		payload []byte
	}
	var entries []entry

	if v == Version4 && eh.Update {
		entries = append(entries, entry{1, nil})
	}
	if eh.HasCRC {
		crc := crc32.ChecksumIEEE(frameData)
		entries = append(entries, entry{bitForCRC(v), crcToBytes(crc, 5)})
	}
	if v == Version4 && eh.HasRestrictions {
		entries = append(entries, entry{3, []byte{eh.TagRestrictions}})
	}

	nFlagBytes := 2
	if v == Version4 {
		nFlagBytes = 1
	}
	flagBytes := make([]byte, nFlagBytes)
	if v == Version4 {
		flagBytes = []byte{0}
	}

	var payloads []byte
	for _, e := range entries {
		byteIdx, bitIdx := e.bit/8, e.bit%8
		for byteIdx >= len(flagBytes) {
			flagBytes = append(flagBytes, 0)
		}
		flagBytes[byteIdx] |= 1 << (7 - bitIdx)
		payloads = append(payloads, byte(len(e.payload)))
		payloads = append(payloads, e.payload...)
	}

	size := uint32(0)
	if v == Version4 {
		size = uint32(1 + len(flagBytes) + len(payloads))
	} else {
		size = uint32(len(flagBytes) + len(payloads))
	}

	var out []byte
	sz := Synchsafe(size)
	out = append(out, sz[:]...)
	if v == Version4 {
		out = append(out, byte(len(flagBytes)))
	}
	out = append(out, flagBytes...)
	out = append(out, payloads...)
	return out
}

func bitForCRC(v Version) int {
	if v == Version4 {
		return 2
	}
	return 0
}

// Tag is a fully parsed, in-memory ID3v2 tag: its version, header-level
// flags, optional extended header, and the ordered list of frames it
// contains.
type Tag struct {
	Version        Version
	Flags          TagFlags
	ExtendedHeader *ExtendedHeader
	Frames         []Frame

	// PaddingLen is the number of zero padding bytes following the last
	// frame, as found when parsing (or to be written, when emitting).
	PaddingLen int
}

// ParseTag reads a single ID3v2 tag from the head of data. It returns
// ErrNoTag if data does not begin with the "ID3" magic, distinguishing
// "no tag present" from a malformed tag.
func ParseTag(data []byte) (*Tag, error) {
	if len(data) < 10 || string(data[:3]) != "ID3" {
		return nil, ErrNoTag
	}

	major := data[3]
	var v Version
	switch major {
	case 2:
		v = Version2
	case 3:
		v = Version3
	case 4:
		v = Version4
	default:
		return nil, fmt.Errorf("%w: unsupported ID3v2 major version %d", ErrInvalidTag, major)
	}

	flags := parseTagFlags(data[5])
	if v == Version2 && flags.ExtendedHeader {
		// Bit 6 of an ID3v2.2 header is the tag-level compression bit,
		// which v2.2 defined but never assigned a scheme to; no reader
		// can decompress such a tag.
		return nil, fmt.Errorf("%w: ID3v2.2 tag-level compression", ErrUnsupportedFeature)
	}

	var sizeBuf [4]byte
	copy(sizeBuf[:], data[6:10])
	size, ok := Unsynchsafe(sizeBuf)
	if !ok {
		return nil, fmt.Errorf("%w: invalid tag size", ErrInvalidTag)
	}
	if len(data) < 10+int(size) {
		return nil, fmt.Errorf("%w: tag size exceeds available data", ErrInvalidTag)
	}

	body := data[10 : 10+size]
	if flags.Unsynchronisation {
		body = Resynchronize(body)
	}

	tag := &Tag{Version: v, Flags: flags}

	if flags.ExtendedHeader {
		eh, n, err := parseExtendedHeader(body, v)
		if err != nil {
			return nil, err
		}
		tag.ExtendedHeader = &eh
		body = body[n:]
	}

	off := 0
	for len(body) > 0 {
		fr, n, ok, err := readFrame(body, v)
		if err != nil {
			var fe *frameError
			if errors.As(err, &fe) {
				fe.off = off
			}
			return nil, err
		}
		if !ok {
			break
		}
		tag.Frames = append(tag.Frames, fr)
		body = body[n:]
		off += n
	}

	for _, b := range body {
		if b != 0 {
			return nil, fmt.Errorf("%w: non-zero byte in padding", ErrInvalidTag)
		}
	}
	tag.PaddingLen = len(body)

	return tag, nil
}

// ReadTag is a convenience wrapper around ParseTag that reads the whole
// of r first. Callers that already have the tag bytes in memory (e.g.
// because they located it themselves at the head of a file) should call
// ParseTag directly.
func ReadTag(r io.Reader) (*Tag, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return ParseTag(data)
}

// Emit serializes the tag, including its 10-byte header and any extended
// header, frames, and padding. unsync selects whether the tag-level
// unsynchronization transform is applied to the frame region before the
// header's size field is computed; it overrides whatever
// Flags.Unsynchronisation held after parsing. Padding bytes are appended
// after the transform and are never themselves unsynchronized, since they
// are all zero and contribute no 0xFF byte that could be mistaken for a
// sync word.
func (t *Tag) Emit(unsync bool) []byte {
	var frameRegion []byte

	if t.ExtendedHeader != nil && t.Version != Version2 {
		frameBytes := t.emitFrames()
		frameRegion = append(frameRegion, emitExtendedHeader(*t.ExtendedHeader, t.Version, frameBytes)...)
		frameRegion = append(frameRegion, frameBytes...)
	} else {
		frameRegion = t.emitFrames()
	}

	if unsync {
		frameRegion = Unsynchronize(frameRegion)
	}

	body := append(frameRegion, make([]byte, t.PaddingLen)...)

	flags := t.Flags
	flags.ExtendedHeader = t.ExtendedHeader != nil && t.Version != Version2
	flags.Unsynchronisation = unsync
	// No footer is ever written, so the flag must not claim one.
	flags.Footer = false

	out := make([]byte, 0, 10+len(body))
	out = append(out, 'I', 'D', '3')
	out = append(out, byte(t.Version)+2, 0)
	out = append(out, flags.byte())
	sz := Synchsafe(uint32(len(body)))
	out = append(out, sz[:]...)
	out = append(out, body...)

	return out
}

func (t *Tag) emitFrames() []byte {
	var out []byte
	for _, fr := range t.Frames {
		next, err := writeFrame(out, fr, t.Version)
		if err != nil {
			// writeFrame fails when a field cannot be encoded (for
			// example text outside Latin-1 in a Latin-1 field) or, under
			// v2.2, when the ID is not 3 bytes wide; drop the offending
			// frame rather than corrupt the rest of the tag.
			continue
		}
		out = next
	}
	return out
}

// Lookup returns the last frame with the given ID, or nil.
func (t *Tag) Lookup(id FrameID) *Frame {
	for i := len(t.Frames) - 1; i >= 0; i-- {
		if t.Frames[i].ID == id {
			return &t.Frames[i]
		}
	}
	return nil
}

// LookupAll returns every frame with the given ID, in tag order.
func (t *Tag) LookupAll(id FrameID) []*Frame {
	var out []*Frame
	for i := range t.Frames {
		if t.Frames[i].ID == id {
			out = append(out, &t.Frames[i])
		}
	}
	return out
}

// RemoveFrame deletes every frame with the given ID from the tag.
func (t *Tag) RemoveFrame(id FrameID) {
	kept := t.Frames[:0]
	for _, fr := range t.Frames {
		if fr.ID != id {
			kept = append(kept, fr)
		}
	}
	t.Frames = kept
}

// ConvertVersion rewrites the tag to use the target version: frame IDs
// are renamed (via the v2.2<->v2.3/2.4 table), frames with no equivalent
// ID in that table are dropped, and text fields using an
// encoding the target version doesn't support are re-transcoded to
// UTF-16 (the lossy direction only: v2.4 to v2.2/v2.3). This is a lossy
// operation: unsupported extended-header state and unrenamed frames are
// gone for good. Between v2.3 and v2.4 IDs are kept as they are and no
// frame is dropped, including frames whose ID only one of the two
// versions defines (such as TDRC or TYER).
func (t *Tag) ConvertVersion(target Version) {
	if t.Version == target {
		return
	}

	from := t.Version
	kept := t.Frames[:0]

	for _, fr := range t.Frames {
		if !convertFrameID(&fr, from, target) {
			continue
		}
		downgradeEncoding(&fr, target)
		kept = append(kept, fr)
	}

	t.Frames = kept
	t.Version = target

	if target == Version2 {
		t.ExtendedHeader = nil
	}
}

// convertFrameID renames fr's ID in place for the target version,
// reporting false if the frame has no equivalent ID and should be
// dropped.
func convertFrameID(fr *Frame, from, target Version) bool {
	if (from == Version3 || from == Version4) && (target == Version3 || target == Version4) {
		return true
	}

	if from != Version2 && target == Version2 {
		v22, ok := renameToV22(string(fr.ID))
		if !ok {
			return false
		}
		fr.ID = FrameID(v22)
		return true
	}

	if from == Version2 && target != Version2 {
		v34, ok := renameFromV22(string(fr.ID))
		if !ok {
			return false
		}
		fr.ID = FrameID(v34)
		if target == Version4 && fr.Flags.Compression {
			fr.Flags.DataLengthIndicator = true
		}
		return true
	}

	return true
}

// downgradeEncoding re-transcodes fr's TextEncoding field (and the text
// it governs) to UTF-16 if it uses an encoding unsupported outside
// ID3v2.4, since ID3v2.2 and ID3v2.3 only understand Latin-1 and UTF-16.
func downgradeEncoding(fr *Frame, target Version) {
	if target == Version4 {
		return
	}
	for i := range fr.Fields {
		if fr.Fields[i].Kind != KindTextEncoding {
			continue
		}
		if fr.Fields[i].Encoding == EncodingUTF16BE || fr.Fields[i].Encoding == EncodingUTF8 {
			fr.Fields[i].Encoding = EncodingUTF16
		}
	}
}
