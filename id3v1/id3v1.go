// Package id3v1 implements support for reading and writing ID3v1,
// ID3v1.1 and Extended ID3v1 tags: the fixed-width 128-byte record found
// in the last 128 bytes of many MP3 files, and the optional 227-byte
// extended record that precedes it.
package id3v1

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Signature lengths and tail offsets, per the ID3v1 convention: the
// base tag lives in the last 128 bytes of the file, tagged with "TAG";
// the extended tag, when present, immediately precedes it in the last
// 355 bytes, tagged with "TAG+".
const (
	TagLen     = 128
	TagOffset  = 128
	XTagLen    = 227
	XTagOffset = 355
)

var (
	tagSignature  = []byte("TAG")
	xtagSignature = []byte("TAG+")
)

// Tag is a parsed ID3v1/ID3v1.1 tag, optionally carrying the data found
// in an Extended ID3v1 tag as well.
type Tag struct {
	Title   string
	Artist  string
	Album   string
	Year    uint16 // 0-9999; see parseYear
	Comment string

	// Track is the ID3v1.1 track number, 0 if the tag has no track
	// number (a plain ID3v1 tag, or an ID3v1.1 tag that never set one).
	Track byte

	// Genre indexes the standard ID3v1 genre table; see GenreName.
	Genre byte

	Extended *Extended
}

// Extended holds the fields unique to an Extended ID3v1 ("TAG+") tag:
// longer title/artist/album fields (concatenated with the base tag's
// on read), a free-form genre string, a playback speed code, and the
// track's real start/end times.
type Extended struct {
	TitleExt   string
	ArtistExt  string
	AlbumExt   string
	Speed      byte
	GenreStr   string
	StartTime  uint16 // seconds, max 60039 (999:99)
	EndTime    uint16
}

// Probe reports whether data holds the "TAG" signature at the ID3v1
// tail position. A buffer too short to hold a full record is probed at
// its start instead, so a truncated record still probes true and fails
// the subsequent parse with an unexpected-end-of-stream error rather
// than silently reading as "no tag".
func Probe(data []byte) bool {
	if len(data) >= TagOffset {
		data = data[len(data)-TagOffset:]
	}
	return len(data) >= len(tagSignature) && bytes.Equal(data[:len(tagSignature)], tagSignature)
}

// ProbeExtended reports whether the 227-byte region from the 355th-to-last
// through the 129th-to-last byte of data begins with the "TAG+" signature
// of an Extended ID3v1 tag.
func ProbeExtended(data []byte) bool {
	return len(data) >= XTagOffset && bytes.Equal(data[len(data)-XTagOffset:len(data)-XTagOffset+4], xtagSignature)
}

// ParseTail locates and parses an ID3v1 tag (and, if present and
// readExtended is true, an Extended ID3v1 tag) from the end of data. It
// returns nil, nil if no "TAG" signature is found at the expected
// offset: that is not an error, it means there is no ID3v1 tag in this
// file. readExtended gates the Extended ID3v1 probe: callers that don't
// want the extra tail seek (or are certain the Extended ID3v1 convention
// isn't in use) can skip it.
func ParseTail(data []byte, readExtended bool) (*Tag, error) {
	if !Probe(data) {
		return nil, nil
	}
	if len(data) < TagLen {
		return nil, fmt.Errorf("id3v1: truncated tag: %w", io.ErrUnexpectedEOF)
	}

	base := data[len(data)-TagOffset:]
	tag, err := parseBase(base)
	if err != nil {
		return nil, err
	}

	if readExtended && ProbeExtended(data) {
		ext := data[len(data)-XTagOffset : len(data)-XTagOffset+XTagLen]
		xtag, err := parseExtended(ext)
		if err != nil {
			return nil, err
		}
		tag.Title += xtag.TitleExt
		tag.Artist += xtag.ArtistExt
		tag.Album += xtag.AlbumExt
		tag.Extended = xtag
	}

	return tag, nil
}

// ReadTail reads the last 355 bytes (or as many as are available) from
// r and parses an ID3v1 tag from them. readExtended is threaded through
// to ParseTail.
func ReadTail(r io.ReadSeeker, readExtended bool) (*Tag, error) {
	size, err := r.Seek(0, io.SeekEnd)
	if err != nil {
		return nil, err
	}

	n := int64(XTagOffset)
	if size < n {
		n = size
	}

	if _, err := r.Seek(-n, io.SeekEnd); err != nil {
		return nil, err
	}

	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, err
	}

	return ParseTail(buf, readExtended)
}

func parseBase(b []byte) (*Tag, error) {
	if len(b) != TagLen {
		return nil, fmt.Errorf("id3v1: expected %d-byte tag, got %d", TagLen, len(b))
	}
	if !bytes.Equal(b[:3], tagSignature) {
		return nil, fmt.Errorf("id3v1: missing TAG signature")
	}

	tag := &Tag{
		Title:  extractNZ(b[3:33]),
		Artist: extractNZ(b[33:63]),
		Album:  extractNZ(b[63:93]),
		Year:   parseYear(b[93:97]),
	}

	comment := b[97:127]
	if comment[28] == 0 && comment[29] != 0 {
		// ID3v1.1: a guard zero byte at offset 28 of the comment field
		// means the final byte is a track number, not comment text.
		tag.Comment = extractNZ(comment[:28])
		tag.Track = comment[29]
	} else {
		tag.Comment = extractNZ(comment)
	}

	tag.Genre = b[127]

	return tag, nil
}

func parseExtended(b []byte) (*Extended, error) {
	if len(b) != XTagLen {
		return nil, fmt.Errorf("id3v1: expected %d-byte extended tag, got %d", XTagLen, len(b))
	}
	if !bytes.Equal(b[:4], xtagSignature) {
		return nil, fmt.Errorf("id3v1: missing TAG+ signature")
	}

	return &Extended{
		TitleExt:  extractNZ(b[4:64]),
		ArtistExt: extractNZ(b[64:124]),
		AlbumExt:  extractNZ(b[124:184]),
		Speed:     b[184],
		GenreStr:  extractNZ(b[185:215]),
		StartTime: parseTime(b[215:221]),
		EndTime:   parseTime(b[221:227]),
	}, nil
}

// extractNZ decodes a fixed-width Latin-1 field, stopping at the first
// NUL byte (or returning the whole field if there is none). Latin-1 code
// points map 1:1 onto the first 256 Unicode code points, so this never
// fails.
func extractNZ(b []byte) string {
	if i := bytes.IndexByte(b, 0); i >= 0 {
		b = b[:i]
	}
	var sb strings.Builder
	sb.Grow(len(b))
	for _, c := range b {
		sb.WriteRune(rune(c))
	}
	return sb.String()
}

// parseYear parses a 4-byte numeric year field, clamping to 0 on any
// parse failure or out-of-range value (ID3v1's Year is defined as
// 0-9999).
func parseYear(b []byte) uint16 {
	s := strings.TrimRight(string(b), "\x00")
	n, err := strconv.ParseUint(s, 10, 32)
	if err != nil || n > 9999 {
		return 0
	}
	return uint16(n)
}

// maxTime is the largest representable "mmm:ss" value: 999 minutes, 99
// seconds.
const maxTime = 999*60 + 99

// parseTime parses a right-aligned "mmm:ss" duration field (as found in
// the Extended ID3v1 Start-time/End-time fields), tolerating leading
// whitespace and a missing minutes portion. Malformed values parse as 0
// and out-of-range values clamp to maxTime, matching the tolerant,
// never-failing convention the rest of this package's tail parsing uses.
func parseTime(b []byte) uint16 {
	s := strings.TrimRight(string(b), "\x00")
	s = strings.TrimLeft(s, " ")
	if s == "" {
		return 0
	}

	mins, secs := "", s
	if i := strings.IndexByte(s, ':'); i >= 0 {
		mins, secs = s[:i], s[i+1:]
	}

	secN, err := strconv.ParseUint(secs, 10, 32)
	if err != nil {
		return 0
	}
	var minN uint64
	if mins != "" {
		minN, err = strconv.ParseUint(mins, 10, 32)
		if err != nil {
			return 0
		}
	}

	total := minN*60 + secN
	if total > maxTime {
		return maxTime
	}
	return uint16(total)
}

// FormatTime renders seconds as the "mmm:ss" format ID3v1 extended time
// fields use. Values of 60000 seconds and up keep the 3-digit minutes
// by carrying the excess in the seconds part (60039 renders as "999:99",
// the inverse of parseTime); values above maxTime clamp to it.
func FormatTime(seconds uint16) string {
	if seconds > maxTime {
		seconds = maxTime
	}
	mins, secs := seconds/60, seconds%60
	if mins > 999 {
		mins, secs = 999, seconds-999*60
	}
	return fmt.Sprintf("%03d:%02d", mins, secs)
}

// Emit serializes tag as a 128-byte ID3v1 record. If tag.Extended is
// non-nil, a 227-byte Extended ID3v1 record is emitted first, matching
// the on-disk order (the "TAG+" record precedes the "TAG" record at the
// file's tail). When writeTrack is true, the comment field is truncated
// to 28 bytes to make room for the ID3v1.1 guard byte and track number.
func (t *Tag) Emit(writeTrack bool) []byte {
	out := make([]byte, 0, TagLen+XTagLen)
	if t.Extended != nil {
		out = append(out, t.Extended.emit()...)
	}
	out = append(out, tagSignature...)
	out = appendPadded(out, []byte(t.Title), 30)
	out = appendPadded(out, []byte(t.Artist), 30)
	out = appendPadded(out, []byte(t.Album), 30)
	out = append(out, []byte(fmt.Sprintf("%04d", t.Year))...)

	comment := []byte(t.Comment)
	if writeTrack {
		out = appendPadded(out, comment, 28)
		out = append(out, 0, t.Track)
	} else {
		out = appendPadded(out, comment, 30)
	}

	out = append(out, t.Genre)

	return out
}

func (x *Extended) emit() []byte {
	out := make([]byte, 0, XTagLen)
	out = append(out, xtagSignature...)
	out = appendPadded(out, []byte(x.TitleExt), 60)
	out = appendPadded(out, []byte(x.ArtistExt), 60)
	out = appendPadded(out, []byte(x.AlbumExt), 60)
	out = append(out, x.Speed)
	out = appendPadded(out, []byte(x.GenreStr), 30)
	out = append(out, []byte(FormatTime(x.StartTime))...)
	out = append(out, []byte(FormatTime(x.EndTime))...)
	return out
}

func appendPadded(out, data []byte, width int) []byte {
	if len(data) > width {
		data = data[:width]
	}
	out = append(out, data...)
	for i := len(data); i < width; i++ {
		out = append(out, 0)
	}
	return out
}
