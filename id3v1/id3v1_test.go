package id3v1

import (
	"errors"
	"io"
	"strings"
	"testing"
)

func buildBaseTag(title, artist, album, year, comment string, genre byte) []byte {
	out := make([]byte, 0, TagLen)
	out = append(out, "TAG"...)
	out = append(out, pad(title, 30)...)
	out = append(out, pad(artist, 30)...)
	out = append(out, pad(album, 30)...)
	out = append(out, pad(year, 4)...)
	out = append(out, pad(comment, 30)...)
	out = append(out, genre)
	return out
}

func pad(s string, width int) []byte {
	b := []byte(s)
	if len(b) > width {
		return b[:width]
	}
	out := make([]byte, width)
	copy(out, b)
	return out
}

// A 128-byte buffer starting with "TAG" followed by a space-filled title
// recovers the title with only NUL bytes stripped: the spaces are kept.
func TestParseTailBasicTag(t *testing.T) {
	data := buildBaseTag(strings.Repeat(" ", 30), "Artist", "Album", "1999", "a comment", 17)

	tag, err := ParseTail(data, true)
	if err != nil {
		t.Fatal(err)
	}
	if tag == nil {
		t.Fatal("expected a parsed tag")
	}
	if tag.Title != strings.Repeat(" ", 30) {
		t.Errorf("Title = %q, want 30 spaces preserved (no NUL byte to truncate at)", tag.Title)
	}
	if tag.Artist != "Artist" {
		t.Errorf("Artist = %q", tag.Artist)
	}
	if tag.Year != 1999 {
		t.Errorf("Year = %d, want 1999", tag.Year)
	}
	if tag.Genre != 17 {
		t.Errorf("Genre = %d, want 17", tag.Genre)
	}
}

func TestParseTailNoSignatureReturnsNilNil(t *testing.T) {
	data := make([]byte, TagLen)
	copy(data, "NOT")

	tag, err := ParseTail(data, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tag != nil {
		t.Fatal("expected nil tag for a non-TAG buffer")
	}
}

func TestParseTailTruncatedBufferIsIoError(t *testing.T) {
	_, err := ParseTail([]byte("TAG"), true)
	if err == nil {
		t.Fatal("expected an error for a 3-byte buffer containing just the signature")
	}
	if !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Fatalf("error = %v, want io.ErrUnexpectedEOF", err)
	}
}

func TestParseTailID3v11TrackNumber(t *testing.T) {
	comment := make([]byte, 30)
	copy(comment, "short comment")
	comment[28] = 0
	comment[29] = 5

	data := make([]byte, 0, TagLen)
	data = append(data, "TAG"...)
	data = append(data, pad("T", 30)...)
	data = append(data, pad("A", 30)...)
	data = append(data, pad("B", 30)...)
	data = append(data, pad("2000", 4)...)
	data = append(data, comment...)
	data = append(data, 12)

	tag, err := ParseTail(data, true)
	if err != nil {
		t.Fatal(err)
	}
	if tag.Track != 5 {
		t.Errorf("Track = %d, want 5", tag.Track)
	}
	if !strings.HasPrefix(tag.Comment, "short comment") {
		t.Errorf("Comment = %q", tag.Comment)
	}
}

func TestParseTailExtendedPrecedesBasic(t *testing.T) {
	base := buildBaseTag("T", "A", "B", "2001", "c", 0)

	ext := make([]byte, 0, XTagLen)
	ext = append(ext, "TAG+"...)
	ext = append(ext, pad("ExtTitle", 60)...)
	ext = append(ext, pad("ExtArtist", 60)...)
	ext = append(ext, pad("ExtAlbum", 60)...)
	ext = append(ext, 0)
	ext = append(ext, pad("Genre String", 30)...)
	ext = append(ext, []byte(FormatTime(61))...)
	ext = append(ext, []byte(FormatTime(120))...)

	data := append(ext, base...)

	tag, err := ParseTail(data, true)
	if err != nil {
		t.Fatal(err)
	}
	if tag.Extended == nil {
		t.Fatal("expected Extended to be populated")
	}
	if tag.Title != "T"+"ExtTitle" {
		t.Errorf("Title = %q, want concatenation of base + extended", tag.Title)
	}
	if tag.Extended.StartTime != 61 {
		t.Errorf("StartTime = %d, want 61", tag.Extended.StartTime)
	}
	if tag.Extended.EndTime != 120 {
		t.Errorf("EndTime = %d, want 120", tag.Extended.EndTime)
	}
}

func TestParseTailSkipsExtendedWhenDisabled(t *testing.T) {
	base := buildBaseTag("T", "A", "B", "2001", "c", 0)
	ext := make([]byte, XTagLen)
	copy(ext, "TAG+")
	data := append(ext, base...)

	tag, err := ParseTail(data, false)
	if err != nil {
		t.Fatal(err)
	}
	if tag.Extended != nil {
		t.Fatal("expected Extended to stay nil when readExtended is false")
	}
}

func TestEmitRoundTripWithTrack(t *testing.T) {
	tag := &Tag{Title: "T", Artist: "A", Album: "B", Year: 2020, Comment: "c", Track: 7, Genre: 1}
	out := tag.Emit(true)

	if len(out) != TagLen {
		t.Fatalf("Emit length = %d, want %d", len(out), TagLen)
	}

	parsed, err := ParseTail(out, true)
	if err != nil {
		t.Fatal(err)
	}
	if parsed.Track != 7 {
		t.Errorf("Track = %d, want 7", parsed.Track)
	}
	if parsed.Title != "T" {
		t.Errorf("Title = %q", parsed.Title)
	}
}

func TestEmitExtendedPrecedesBase(t *testing.T) {
	tag := &Tag{
		Title: "T", Artist: "A", Album: "B", Year: 2020, Genre: 1,
		Extended: &Extended{TitleExt: "itle", StartTime: 61},
	}
	out := tag.Emit(false)

	if len(out) != TagLen+XTagLen {
		t.Fatalf("Emit length = %d, want %d", len(out), TagLen+XTagLen)
	}
	if string(out[:4]) != "TAG+" {
		t.Fatalf("extended record must come first, got prefix %q", out[:4])
	}

	parsed, err := ParseTail(out, true)
	if err != nil {
		t.Fatal(err)
	}
	if parsed.Extended == nil {
		t.Fatal("expected Extended to round-trip")
	}
	if parsed.Title != "Title" {
		t.Errorf("Title = %q, want base+extension concatenation Title", parsed.Title)
	}
	if parsed.Extended.StartTime != 61 {
		t.Errorf("StartTime = %d, want 61", parsed.Extended.StartTime)
	}
}

func TestParseTimeRightAligned(t *testing.T) {
	cases := []struct {
		in   string
		want uint16
	}{
		{"001:01", 61},
		{"  1:01", 61},
		{"999:99", 60039},
		{"9999:9", 60039}, // over the ceiling clamps rather than zeroes
		{"", 0},
		{"garbage", 0},
	}
	for _, c := range cases {
		got := parseTime([]byte(fitTime(c.in)))
		if got != c.want {
			t.Errorf("parseTime(%q) = %d, want %d", c.in, got, c.want)
		}
	}
}

func fitTime(s string) string {
	b := []byte(s)
	if len(b) > 6 {
		return string(b[:6])
	}
	out := make([]byte, 6)
	copy(out, b)
	return string(out)
}

func TestGenreNameOutOfRangeIsEmpty(t *testing.T) {
	if got := GenreName(255); got != "" {
		t.Errorf("GenreName(255) = %q, want empty", got)
	}
}

func TestGenreByteRoundTrip(t *testing.T) {
	b, ok := GenreByte("Rock")
	if !ok {
		t.Fatal("GenreByte(Rock) not found")
	}
	if GenreName(b) != "Rock" {
		t.Errorf("GenreName(%d) = %q, want Rock", b, GenreName(b))
	}
}

func TestProbe(t *testing.T) {
	data := make([]byte, TagLen)
	copy(data, "TAG")
	if !Probe(data) {
		t.Fatal("Probe should report true for a TAG-prefixed 128-byte tail")
	}
	if Probe(data[1:]) {
		t.Fatal("Probe should require exactly the last 128 bytes to start with TAG")
	}
}
