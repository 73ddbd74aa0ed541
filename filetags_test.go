package id3tag

import (
	"bytes"
	"testing"

	"github.com/karlbishop/id3tag/id3v1"
	"github.com/karlbishop/id3tag/id3v2"
)

func buildFakeFile(t *testing.T) []byte {
	t.Helper()

	v2 := &id3v2.Tag{Version: id3v2.Version4}
	v2.SetArtist("Head Artist")
	tagBytes := v2.Emit(false)

	audio := bytes.Repeat([]byte{0x55, 0xAA}, 100)

	v1 := &id3v1.Tag{Title: "Tail Title", Artist: "Tail Artist", Album: "Tail Album", Year: 2003, Genre: 2}
	tailBytes := v1.Emit(false)

	out := append([]byte{}, tagBytes...)
	out = append(out, audio...)
	out = append(out, tailBytes...)
	return out
}

func TestFileTagsReadFromBothEnds(t *testing.T) {
	data := buildFakeFile(t)

	var ft FileTags
	if err := ft.ReadFrom(bytes.NewReader(data), true); err != nil {
		t.Fatal(err)
	}

	if ft.V2 == nil {
		t.Fatal("expected a parsed ID3v2 tag")
	}
	if got := ft.V2.Artist(); got != "Head Artist" {
		t.Errorf("V2.Artist() = %q", got)
	}

	if ft.V1 == nil {
		t.Fatal("expected a parsed ID3v1 tag")
	}
	if ft.V1.Title != "Tail Title" {
		t.Errorf("V1.Title = %q", ft.V1.Title)
	}
}

func TestFileTagsReadFromNoTags(t *testing.T) {
	data := bytes.Repeat([]byte{0x01, 0x02}, 200)

	var ft FileTags
	if err := ft.ReadFrom(bytes.NewReader(data), true); err != nil {
		t.Fatal(err)
	}
	if ft.V1 != nil || ft.V2 != nil {
		t.Fatal("expected both V1 and V2 to be nil for a file with no tags")
	}
}

func TestFileTagsWriteToStripsFileLocalFrames(t *testing.T) {
	v2 := &id3v2.Tag{Version: id3v2.Version4}
	v2.SetArtist("someone")
	v2.Frames = append(v2.Frames, id3v2.Frame{
		ID: "TENC",
		Fields: []id3v2.Field{
			{Kind: id3v2.KindTextEncoding, Encoding: id3v2.EncodingUTF8},
			{Kind: id3v2.KindStringList, TextList: []string{"some encoder"}},
		},
	})

	ft := &FileTags{V2: v2}

	var buf bytes.Buffer
	if _, err := ft.WriteTo(&buf, false); err != nil {
		t.Fatal(err)
	}

	parsed, err := id3v2.ParseTag(buf.Bytes())
	if err != nil {
		t.Fatal(err)
	}
	if parsed.Lookup("TENC") != nil {
		t.Fatal("TENC is file-local and should have been discarded on write")
	}
	if parsed.Artist() != "someone" {
		t.Errorf("Artist() = %q, want someone", parsed.Artist())
	}
	if parsed.PaddingLen != paddingLen {
		t.Errorf("PaddingLen = %d, want %d", parsed.PaddingLen, paddingLen)
	}
}

func TestFileTagsWriteToNoV2IsNoOp(t *testing.T) {
	ft := &FileTags{}
	var buf bytes.Buffer
	n, err := ft.WriteTo(&buf, false)
	if err != nil {
		t.Fatal(err)
	}
	if n != 0 || buf.Len() != 0 {
		t.Fatal("expected no output when there is no V2 tag to write")
	}
}
