package id3v2

import (
	"strconv"
	"strings"
)

// ExtendedText is the decoded contents of a TXXX frame: a user-defined
// description/value pair.
type ExtendedText struct {
	Description string
	Value       string
}

// ExtendedLink is the decoded contents of a WXXX frame.
type ExtendedLink struct {
	Description string
	Link        string
}

// Lyrics is the decoded contents of a USLT frame.
type Lyrics struct {
	Language    string
	Description string
	Text        string
}

// Comment is the decoded contents of a COMM frame.
type Comment struct {
	Language    string
	Description string
	Text        string
}

// Picture is the decoded contents of an APIC frame.
type Picture struct {
	MIMEType    string
	PictureType byte
	Description string
	Data        []byte
}

// textFrameValue returns the text of a single-string text information
// frame. Frames parsed from a stream carry the catalog's StringList
// field (which in practice holds exactly one element for everything but
// TCON/genre lists); frames built by setTextFrame under v2.2/v2.3 carry
// a single String field instead, so both shapes are read here.
func (t *Tag) textFrameValue(id FrameID) string {
	fr := t.Lookup(id)
	if fr == nil || len(fr.Fields) < 2 {
		return ""
	}
	f := fr.Fields[1]
	if f.Kind == KindString {
		return f.Text
	}
	if len(f.TextList) == 0 {
		return ""
	}
	return f.TextList[0]
}

// setTextFrame replaces all frames with the given ID by a single text
// frame holding value: a StringList field under v2.4, a plain String
// field under v2.2/v2.3, which predate multi-valued text frames.
func (t *Tag) setTextFrame(id FrameID, value string) {
	t.RemoveFrame(id)
	text := Field{Kind: KindString, Text: value}
	if t.Version == Version4 {
		text = Field{Kind: KindStringList, TextList: []string{value}}
	}
	t.Frames = append(t.Frames, Frame{
		ID: id,
		Fields: []Field{
			{Kind: KindTextEncoding, Encoding: t.Version.DefaultEncoding()},
			text,
		},
	})
}

// textID returns the frame ID this tag's version uses for a semantic
// accessor, given its ID3v2.3/ID3v2.4 name.
func (t *Tag) textID(v34 string) FrameID {
	if t.Version == Version2 {
		if v22, ok := renameToV22(v34); ok {
			return FrameID(v22)
		}
	}
	return FrameID(v34)
}

// Artist returns the value of the lead performer frame (TPE1/TP1).
func (t *Tag) Artist() string { return t.textFrameValue(t.textID("TPE1")) }

// SetArtist sets the lead performer frame.
func (t *Tag) SetArtist(s string) { t.setTextFrame(t.textID("TPE1"), s) }

// Album returns the value of the album title frame (TALB/TAL).
func (t *Tag) Album() string { return t.textFrameValue(t.textID("TALB")) }

// SetAlbum sets the album title frame.
func (t *Tag) SetAlbum(s string) { t.setTextFrame(t.textID("TALB"), s) }

// Title returns the value of the title frame (TIT2/TT2).
func (t *Tag) Title() string { return t.textFrameValue(t.textID("TIT2")) }

// SetTitle sets the title frame.
func (t *Tag) SetTitle(s string) { t.setTextFrame(t.textID("TIT2"), s) }

// Year returns the value of the year frame (TYER/TYE under v2.2/v2.3,
// the date portion of TDRC under v2.4).
func (t *Tag) Year() string {
	if t.Version == Version4 {
		return firstField(t.textFrameValue("TDRC"), "-")
	}
	return t.textFrameValue(t.textID("TYER"))
}

// YearNum returns the year as a number, and false when the year frame is
// absent or does not hold a plain decimal year.
func (t *Tag) YearNum() (int, bool) {
	s := t.Year()
	if s == "" {
		return 0, false
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

// SetYear sets the year frame.
func (t *Tag) SetYear(s string) {
	if t.Version == Version4 {
		t.setTextFrame("TDRC", s)
		return
	}
	t.setTextFrame(t.textID("TYER"), s)
}

func firstField(s, sep string) string {
	if i := strings.Index(s, sep); i >= 0 {
		return s[:i]
	}
	return s
}

// Track returns the numerator of the TRCK/TRK "track/total" frame.
func (t *Tag) Track() string { return firstField(t.textFrameValue(t.textID("TRCK")), "/") }

// TotalTracks returns the denominator of the TRCK/TRK "track/total"
// frame, or "" if none was given.
func (t *Tag) TotalTracks() string {
	v := t.textFrameValue(t.textID("TRCK"))
	if i := strings.Index(v, "/"); i >= 0 {
		return v[i+1:]
	}
	return ""
}

// SetTrack sets the track number, preserving any existing total count.
func (t *Tag) SetTrack(track string) {
	total := t.TotalTracks()
	if total != "" {
		t.setTextFrame(t.textID("TRCK"), track+"/"+total)
		return
	}
	t.setTextFrame(t.textID("TRCK"), track)
}

// SetTotalTracks sets the total track count, preserving any existing
// track number.
func (t *Tag) SetTotalTracks(total string) {
	t.setTextFrame(t.textID("TRCK"), t.Track()+"/"+total)
}

// Genre returns the value of the content type frame (TCON/TCO).
func (t *Tag) Genre() string { return t.textFrameValue(t.textID("TCON")) }

// SetGenre sets the content type frame.
func (t *Tag) SetGenre(s string) { t.setTextFrame(t.textID("TCON"), s) }

// ExtendedTexts returns the decoded contents of every TXXX/TXX frame.
func (t *Tag) ExtendedTexts() []ExtendedText {
	var out []ExtendedText
	for _, fr := range t.LookupAll(t.textID("TXXX")) {
		if len(fr.Fields) < 3 {
			continue
		}
		out = append(out, ExtendedText{Description: fr.Fields[1].Text, Value: fr.Fields[2].Text})
	}
	return out
}

// AddExtendedText adds a TXXX/TXX frame with the given description and
// value, replacing any existing frame with the same description.
func (t *Tag) AddExtendedText(description, value string) {
	t.RemoveExtendedText(description)
	id := t.textID("TXXX")
	t.Frames = append(t.Frames, Frame{
		ID: id,
		Fields: []Field{
			{Kind: KindTextEncoding, Encoding: t.Version.DefaultEncoding()},
			{Kind: KindString, Text: description},
			{Kind: KindString, Text: value},
		},
	})
}

// RemoveExtendedText removes any TXXX/TXX frame with the given
// description.
func (t *Tag) RemoveExtendedText(description string) {
	id := t.textID("TXXX")
	kept := t.Frames[:0]
	for _, fr := range t.Frames {
		if fr.ID == id && len(fr.Fields) >= 2 && fr.Fields[1].Text == description {
			continue
		}
		kept = append(kept, fr)
	}
	t.Frames = kept
}

// ExtendedLinks returns the decoded contents of every WXXX/WXX frame.
func (t *Tag) ExtendedLinks() []ExtendedLink {
	var out []ExtendedLink
	for _, fr := range t.LookupAll(t.textID("WXXX")) {
		if len(fr.Fields) < 3 {
			continue
		}
		out = append(out, ExtendedLink{Description: fr.Fields[1].Text, Link: fr.Fields[2].Text})
	}
	return out
}

// AddExtendedLink adds a WXXX/WXX frame with the given description and
// link, replacing any existing frame with the same description.
func (t *Tag) AddExtendedLink(description, link string) {
	t.RemoveExtendedLink(description)
	id := t.textID("WXXX")
	t.Frames = append(t.Frames, Frame{
		ID: id,
		Fields: []Field{
			{Kind: KindTextEncoding, Encoding: t.Version.DefaultEncoding()},
			{Kind: KindString, Text: description},
			{Kind: KindLatin1, Text: link},
		},
	})
}

// RemoveExtendedLink removes any WXXX/WXX frame with the given
// description.
func (t *Tag) RemoveExtendedLink(description string) {
	id := t.textID("WXXX")
	kept := t.Frames[:0]
	for _, fr := range t.Frames {
		if fr.ID == id && len(fr.Fields) >= 2 && fr.Fields[1].Text == description {
			continue
		}
		kept = append(kept, fr)
	}
	t.Frames = kept
}

// Comments returns the decoded contents of every COMM/COM frame.
func (t *Tag) Comments() []Comment {
	var out []Comment
	for _, fr := range t.LookupAll(t.textID("COMM")) {
		if len(fr.Fields) < 4 {
			continue
		}
		out = append(out, Comment{
			Language:    string(fr.Fields[1].Raw),
			Description: fr.Fields[2].Text,
			Text:        fr.Fields[3].Text,
		})
	}
	return out
}

// AddComment adds a COMM/COM frame, replacing any existing comment with
// the same (language, description) key.
func (t *Tag) AddComment(c Comment) {
	t.RemoveComment(c.Language, c.Description)
	id := t.textID("COMM")
	t.Frames = append(t.Frames, Frame{
		ID: id,
		Fields: []Field{
			{Kind: KindTextEncoding, Encoding: t.Version.DefaultEncoding()},
			{Kind: KindLanguage, Raw: []byte(padLang(c.Language))},
			{Kind: KindString, Text: c.Description},
			{Kind: KindStringFull, Text: c.Text},
		},
	})
}

// RemoveComment removes the COMM/COM frame with the given (language,
// description) key, if any.
func (t *Tag) RemoveComment(language, description string) {
	id := t.textID("COMM")
	kept := t.Frames[:0]
	for _, fr := range t.Frames {
		if fr.ID == id && len(fr.Fields) >= 3 &&
			string(fr.Fields[1].Raw) == padLang(language) && fr.Fields[2].Text == description {
			continue
		}
		kept = append(kept, fr)
	}
	t.Frames = kept
}

// Lyrics returns the decoded contents of every USLT/ULT frame.
func (t *Tag) Lyrics() []Lyrics {
	var out []Lyrics
	for _, fr := range t.LookupAll(t.textID("USLT")) {
		if len(fr.Fields) < 4 {
			continue
		}
		out = append(out, Lyrics{
			Language:    string(fr.Fields[1].Raw),
			Description: fr.Fields[2].Text,
			Text:        fr.Fields[3].Text,
		})
	}
	return out
}

// AddLyrics adds a USLT/ULT frame, replacing any existing lyrics with
// the same (language, description) key.
func (t *Tag) AddLyrics(l Lyrics) {
	t.RemoveLyrics(l.Language, l.Description)
	id := t.textID("USLT")
	t.Frames = append(t.Frames, Frame{
		ID: id,
		Fields: []Field{
			{Kind: KindTextEncoding, Encoding: t.Version.DefaultEncoding()},
			{Kind: KindLanguage, Raw: []byte(padLang(l.Language))},
			{Kind: KindString, Text: l.Description},
			{Kind: KindStringFull, Text: l.Text},
		},
	})
}

// RemoveLyrics removes the USLT/ULT frame with the given (language,
// description) key, if any.
func (t *Tag) RemoveLyrics(language, description string) {
	id := t.textID("USLT")
	kept := t.Frames[:0]
	for _, fr := range t.Frames {
		if fr.ID == id && len(fr.Fields) >= 3 &&
			string(fr.Fields[1].Raw) == padLang(language) && fr.Fields[2].Text == description {
			continue
		}
		kept = append(kept, fr)
	}
	t.Frames = kept
}

// Pictures returns the decoded contents of every APIC/PIC frame.
func (t *Tag) Pictures() []Picture {
	var out []Picture
	for _, fr := range t.LookupAll(t.textID("APIC")) {
		if len(fr.Fields) < 5 {
			continue
		}
		out = append(out, Picture{
			MIMEType:    fr.Fields[1].Text,
			PictureType: byte(fr.Fields[2].Int),
			Description: fr.Fields[3].Text,
			Data:        fr.Fields[4].Raw,
		})
	}
	return out
}

// AddPicture adds an APIC/PIC frame, replacing any existing picture with
// the same picture type.
func (t *Tag) AddPicture(p Picture) {
	t.RemovePicture(p.PictureType)
	id := t.textID("APIC")
	t.Frames = append(t.Frames, Frame{
		ID: id,
		Fields: []Field{
			{Kind: KindTextEncoding, Encoding: t.Version.DefaultEncoding()},
			{Kind: KindLatin1, Text: p.MIMEType},
			{Kind: KindInt8, Int: uint32(p.PictureType)},
			{Kind: KindString, Text: p.Description},
			{Kind: KindBinaryData, Raw: p.Data},
		},
	})
}

// RemovePicture removes the APIC/PIC frame with the given picture type,
// if any.
func (t *Tag) RemovePicture(pictureType byte) {
	id := t.textID("APIC")
	kept := t.Frames[:0]
	for _, fr := range t.Frames {
		if fr.ID == id && len(fr.Fields) >= 3 && byte(fr.Fields[2].Int) == pictureType {
			continue
		}
		kept = append(kept, fr)
	}
	t.Frames = kept
}

// padLang pads or truncates a language code to the 3 bytes ID3v2 always
// uses for its Language field, per ISO 639-2.
func padLang(lang string) string {
	if len(lang) >= 3 {
		return lang[:3]
	}
	return lang + strings.Repeat(" ", 3-len(lang))
}
