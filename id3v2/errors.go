package id3v2

import "errors"

// Sentinel errors identifying the broad kind of failure, per the package's
// error taxonomy: io errors propagate unchanged from the underlying
// reader/writer, everything else is one of the kinds below. Use
// errors.Is against these to classify a returned error without caring
// about the frame/field/offset it was tagged with.
var (
	// ErrInvalidTag means the byte stream violates ID3v2 tag structure:
	// bad magic, unsupported version, a declared size inconsistent with
	// the stream, or a V4 compressed frame missing its data-length
	// indicator.
	ErrInvalidTag = errors.New("id3v2: invalid tag")

	// ErrStringDecoding means a byte sequence could not be decoded under
	// its declared text encoding.
	ErrStringDecoding = errors.New("id3v2: invalid text for declared encoding")

	// ErrUnsupportedFeature means the tag requests something this
	// package does not implement: encrypted frames, or ID3v2.2
	// tag-level compression.
	ErrUnsupportedFeature = errors.New("id3v2: unsupported feature")

	// ErrNoTag means the stream does not begin with an ID3v2 header at
	// all. This is not a parse failure: callers should treat it as "no
	// tag present" and fall back to other strategies.
	ErrNoTag = errors.New("id3v2: no ID3v2 tag present")
)

// frameError wraps an error encountered while decoding a single frame,
// tagging it with the frame ID that was being parsed so a caller can
// decide whether to drop just that frame and keep going.
type frameError struct {
	id  string
	off int
	err error
}

func (e *frameError) Error() string {
	return "id3v2: frame " + e.id + ": " + e.err.Error()
}

func (e *frameError) Unwrap() error { return e.err }

// Offset returns the byte offset, relative to the start of the tag's
// frame region, at which the failing frame header began.
func (e *frameError) Offset() int { return e.off }
