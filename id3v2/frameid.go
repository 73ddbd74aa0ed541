package id3v2

// FrameID is an ID3v2 frame identifier: three uppercase ASCII letters or
// digits under ID3v2.2, four under ID3v2.3/ID3v2.4.
type FrameID string

// IsText reports whether id names a text information frame, identified
// by convention as any ID beginning with 'T' other than TXXX, which
// carries a user-supplied key rather than a fixed semantic meaning.
func (id FrameID) IsText() bool {
	return len(id) > 0 && id[0] == 'T' && id != "TXX" && id != "TXXX"
}

// IsURL reports whether id names a URL link frame, identified by
// convention as any ID beginning with 'W' other than WXXX.
func (id FrameID) IsURL() bool {
	return len(id) > 0 && id[0] == 'W' && id != "WXX" && id != "WXXX"
}

// valid reports whether id is a syntactically well-formed frame
// identifier for the given version: the right width, and composed only
// of uppercase letters and digits.
func (id FrameID) valid(v Version) bool {
	if len(id) != v.IDWidth() {
		return false
	}
	for i := 0; i < len(id); i++ {
		c := id[i]
		if !(c >= 'A' && c <= 'Z') && !(c >= '0' && c <= '9') {
			return false
		}
	}
	return true
}
