// Package id3tag ties the id3v1 and id3v2 packages together into a
// single view of the tags that may be present in an MP3 file: an
// optional ID3v2 tag at the head, and an optional ID3v1/ID3v1.1/Extended
// ID3v1 tag at the tail.
package id3tag

import (
	"bytes"
	"errors"
	"io"

	"github.com/karlbishop/id3tag/id3v1"
	"github.com/karlbishop/id3tag/id3v2"
)

// defaultFileDiscard lists the frame IDs that are considered file-local
// and are dropped on write rather than carried forward: they describe
// properties of a specific encode (file size, length, encoder) that
// become stale the moment the audio itself changes.
var defaultFileDiscard = map[id3v2.FrameID]bool{
	"AENC": true, "ETCO": true, "EQUA": true, "MLLT": true, "POSS": true,
	"SYLT": true, "SYTC": true, "RVAD": true, "TENC": true, "TLEN": true, "TSIZ": true,
}

// paddingLen is the number of zero bytes appended after a freshly
// written ID3v2 tag, giving later in-place edits room to grow without
// rewriting the whole file.
const paddingLen = 2048

// FileTags is the set of ID3v1 and/or ID3v2 tags associated with a
// file.
type FileTags struct {
	// V1 is the ID3v1 tag (merged with any ID3v1.1/Extended ID3v1 data)
	// found at the end of the file, or nil if none was present.
	V1 *id3v1.Tag

	// V2 is the ID3v2 tag found at the start of the file, or nil if none
	// was present.
	V2 *id3v2.Tag

	// Path is the file path FileTags was read from, kept purely for
	// diagnostics: nothing in this package reads it back.
	Path string
}

// ReadFrom locates and parses the ID3v2 tag at the head of r, and the
// ID3v1/Extended ID3v1 tag at its tail, populating V1 and V2. A missing
// tag of either kind is not an error: V1 and/or V2 are simply left nil.
// r must support Seek only to locate the ID3v1 tail probe; the ID3v2 head
// scan consumes it as a plain io.Reader. readExtendedV1 controls whether
// the Extended ID3v1 tail probe at end-355 is attempted at all.
func (ft *FileTags) ReadFrom(r io.ReadSeeker, readExtendedV1 bool) error {
	v2, err := id3v2.ReadTag(newHeadReader(r))
	switch {
	case err == nil:
		ft.V2 = v2
	case errors.Is(err, id3v2.ErrNoTag):
		ft.V2 = nil
	default:
		return err
	}

	v1, err := id3v1.ReadTail(r, readExtendedV1)
	if err != nil {
		return err
	}
	ft.V1 = v1

	return nil
}

// headReader reads the ID3v2 header first to learn the tag's declared
// size, then returns exactly that many more bytes, so that ReadFrom never
// consumes audio data while probing for a tag and ID3v2.ReadTag's
// io.ReadAll sees only the tag bytes (or returns ErrNoTag immediately on a
// non-ID3v2 stream).
type headReader struct {
	r    io.Reader
	buf  bytes.Buffer
	done bool
}

func newHeadReader(r io.Reader) *headReader {
	return &headReader{r: r}
}

const tagHeaderLen = 10

// Read serves the ID3v2 header (and, if present, the full tag body it
// declares) from a single internal probe, then reports io.EOF: it never
// touches r beyond what the tag itself occupies, since readers further
// down the file (the audio, an ID3v1 tail) are none of its concern.
func (h *headReader) Read(p []byte) (int, error) {
	if !h.done {
		h.done = true

		header := make([]byte, tagHeaderLen)
		n, err := io.ReadFull(h.r, header)
		if err != nil && err != io.ErrUnexpectedEOF {
			return 0, err
		}
		header = header[:n]
		h.buf.Write(header)

		if n == tagHeaderLen && string(header[:3]) == "ID3" {
			var sizeBuf [4]byte
			copy(sizeBuf[:], header[6:10])
			size, ok := id3v2.Unsynchsafe(sizeBuf)
			if ok {
				rest := make([]byte, size)
				n, err := io.ReadFull(h.r, rest)
				if err != nil && err != io.ErrUnexpectedEOF {
					return 0, err
				}
				h.buf.Write(rest[:n])
			}
		}
	}

	if h.buf.Len() == 0 {
		return 0, io.EOF
	}

	return h.buf.Read(p)
}

// WriteTo serializes the ID3v2 tag (with file-local frames stripped per
// defaultFileDiscard, and padding appended) to w. It does not write the
// ID3v1 tag or reposition audio data; placing the v1 tag after the audio
// is left to the caller. unsync is threaded straight through to
// id3v2.Tag.Emit.
func (ft *FileTags) WriteTo(w io.Writer, unsync bool) (int64, error) {
	if ft.V2 == nil {
		return 0, nil
	}

	kept := ft.V2.Frames[:0]
	for _, fr := range ft.V2.Frames {
		if fr.Flags.TagAlterPreservation || fr.Flags.FileAlterPreservation || defaultFileDiscard[fr.ID] {
			continue
		}
		kept = append(kept, fr)
	}
	ft.V2.Frames = kept
	ft.V2.PaddingLen = paddingLen

	data := ft.V2.Emit(unsync)
	n, err := w.Write(data)
	return int64(n), err
}
