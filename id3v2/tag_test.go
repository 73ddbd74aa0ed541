package id3v2

import (
	"bytes"
	"errors"
	"testing"
)

func newTestTag(v Version) *Tag {
	return &Tag{Version: v}
}

func TestParseTagNoMagicReturnsErrNoTag(t *testing.T) {
	_, err := ParseTag([]byte("not an id3 tag at all"))
	if !errors.Is(err, ErrNoTag) {
		t.Fatalf("ParseTag error = %v, want ErrNoTag", err)
	}
}

func TestParseEmitRoundTripModuloPadding(t *testing.T) {
	tag := newTestTag(Version4)
	tag.SetArtist("Test Artist")
	tag.SetTitle("Test Title")
	tag.AddComment(Comment{Language: "eng", Description: "d", Text: "a comment"})

	out := tag.Emit(false)

	parsed, err := ParseTag(out)
	if err != nil {
		t.Fatal(err)
	}

	if parsed.Artist() != "Test Artist" {
		t.Errorf("Artist() = %q", parsed.Artist())
	}
	if parsed.Title() != "Test Title" {
		t.Errorf("Title() = %q", parsed.Title())
	}
	cs := parsed.Comments()
	if len(cs) != 1 || cs[0].Text != "a comment" {
		t.Errorf("Comments() = %+v", cs)
	}
	if len(parsed.Frames) != len(tag.Frames) {
		t.Errorf("frame count = %d, want %d", len(parsed.Frames), len(tag.Frames))
	}
}

func TestEmitUnsyncAppliesTransformAndSetsFlag(t *testing.T) {
	tag := newTestTag(Version4)
	tag.Frames = append(tag.Frames, Frame{
		ID: "PRIV",
		Fields: []Field{
			{Kind: KindLatin1, Text: "owner"},
			{Kind: KindBinaryData, Raw: []byte{0xFF, 0xE0, 0xFF, 0x00}},
		},
	})

	plain := tag.Emit(false)
	unsynced := tag.Emit(true)

	if bytes.Equal(plain, unsynced) {
		t.Fatal("unsynchronized emission should differ from plain emission when 0xFF sequences are present")
	}

	flagsByte := unsynced[5]
	if flagsByte&tagFlagUnsynchronisation == 0 {
		t.Fatal("tag-level unsynchronisation flag not set on unsynced emission")
	}

	parsed, err := ParseTag(unsynced)
	if err != nil {
		t.Fatal(err)
	}
	if !parsed.Flags.Unsynchronisation {
		t.Fatal("parsed tag should report Unsynchronisation flag set")
	}
	got := parsed.Lookup("PRIV").Fields[1].Raw
	want := []byte{0xFF, 0xE0, 0xFF, 0x00}
	if !bytes.Equal(got, want) {
		t.Fatalf("round trip through tag-level unsync = % x, want % x", got, want)
	}
}

func TestParseTagRejectsV2CompressionBit(t *testing.T) {
	data := []byte{'I', 'D', '3', 2, 0, 0x40, 0, 0, 0, 0}
	_, err := ParseTag(data)
	if !errors.Is(err, ErrUnsupportedFeature) {
		t.Fatalf("ParseTag error = %v, want ErrUnsupportedFeature", err)
	}
}

func TestParseTagPaddingLen(t *testing.T) {
	tag := newTestTag(Version4)
	tag.SetTitle("x")
	tag.PaddingLen = 100

	out := tag.Emit(false)
	parsed, err := ParseTag(out)
	if err != nil {
		t.Fatal(err)
	}
	if parsed.PaddingLen != 100 {
		t.Errorf("PaddingLen = %d, want 100", parsed.PaddingLen)
	}
}

func TestParseTagRejectsNonZeroPaddingByte(t *testing.T) {
	tag := newTestTag(Version4)
	tag.SetTitle("x")
	tag.PaddingLen = 16
	out := tag.Emit(false)
	out[len(out)-1] = 0xAB // corrupt a trailing padding byte

	_, err := ParseTag(out)
	if !errors.Is(err, ErrInvalidTag) {
		t.Fatalf("ParseTag error = %v, want ErrInvalidTag", err)
	}
}

// V2 "TAL" converts to V3 "TALB" with identical field bytes.
func TestConvertVersionV2ToV3RenamesID(t *testing.T) {
	tag := newTestTag(Version2)
	tag.Frames = append(tag.Frames, Frame{
		ID: "TAL",
		Fields: []Field{
			{Kind: KindTextEncoding, Encoding: EncodingUTF16},
			{Kind: KindStringList, TextList: []string{"An Album"}},
		},
	})

	tag.ConvertVersion(Version3)

	if len(tag.Frames) != 1 {
		t.Fatalf("frame count = %d, want 1", len(tag.Frames))
	}
	if tag.Frames[0].ID != "TALB" {
		t.Fatalf("ID = %q, want TALB", tag.Frames[0].ID)
	}
	if tag.Frames[0].Fields[1].TextList[0] != "An Album" {
		t.Fatalf("text = %q", tag.Frames[0].Fields[1].TextList[0])
	}
}

func TestConvertVersionDropsUnrenameableFrame(t *testing.T) {
	tag := newTestTag(Version2)
	tag.Frames = append(tag.Frames, Frame{
		ID:     "CRM",
		Fields: []Field{{Kind: KindLatin1, Text: "owner"}, {Kind: KindLatin1, Text: "desc"}, {Kind: KindBinaryData, Raw: []byte{1}}},
	})

	tag.ConvertVersion(Version3)

	if len(tag.Frames) != 0 {
		t.Fatalf("frame count = %d, want 0 (CRM has no v2.3 equivalent)", len(tag.Frames))
	}
}

func TestConvertVersionDowngradesEncoding(t *testing.T) {
	tag := newTestTag(Version4)
	tag.Frames = append(tag.Frames, Frame{
		ID: "TIT2",
		Fields: []Field{
			{Kind: KindTextEncoding, Encoding: EncodingUTF8},
			{Kind: KindStringList, TextList: []string{"hello"}},
		},
	})

	tag.ConvertVersion(Version3)

	if tag.Frames[0].Fields[0].Encoding != EncodingUTF16 {
		t.Fatalf("encoding after downgrade = %v, want UTF16", tag.Frames[0].Fields[0].Encoding)
	}
}

func TestConvertVersionV4ToV3ToV4PreservesCompatibleFrames(t *testing.T) {
	tag := newTestTag(Version4)
	tag.SetArtist("round tripper")

	tag.ConvertVersion(Version3)
	tag.ConvertVersion(Version4)

	if tag.Artist() != "round tripper" {
		t.Fatalf("Artist() after V4->V3->V4 = %q", tag.Artist())
	}
}

func TestExtendedHeaderCRCRoundTrip(t *testing.T) {
	tag := newTestTag(Version4)
	tag.Flags.ExtendedHeader = true
	tag.ExtendedHeader = &ExtendedHeader{HasCRC: true}
	tag.SetArtist("crc test")

	out := tag.Emit(false)
	parsed, err := ParseTag(out)
	if err != nil {
		t.Fatal(err)
	}
	if parsed.ExtendedHeader == nil || !parsed.ExtendedHeader.HasCRC {
		t.Fatal("expected a parsed extended header with HasCRC set")
	}
	if parsed.ExtendedHeader.CRC == 0 {
		t.Error("expected a non-zero CRC over non-empty frame data")
	}
}

func TestExtendedHeaderUnknownFlagDroppedOnEmit(t *testing.T) {
	tag := newTestTag(Version4)
	tag.Flags.ExtendedHeader = true
	tag.ExtendedHeader = &ExtendedHeader{Unknown: map[int][]byte{5: {0xAB}}}
	tag.SetArtist("x")

	out := tag.Emit(false)
	parsed, err := ParseTag(out)
	if err != nil {
		t.Fatal(err)
	}
	if parsed.ExtendedHeader == nil {
		t.Fatal("expected an extended header")
	}
	if len(parsed.ExtendedHeader.Unknown) != 0 {
		t.Errorf("Unknown = %v, want empty after round trip through Emit", parsed.ExtendedHeader.Unknown)
	}
}

func TestLookupAllAndRemoveFrame(t *testing.T) {
	tag := newTestTag(Version4)
	tag.AddComment(Comment{Language: "eng", Description: "a", Text: "one"})
	tag.AddComment(Comment{Language: "eng", Description: "b", Text: "two"})

	all := tag.LookupAll("COMM")
	if len(all) != 2 {
		t.Fatalf("LookupAll = %d frames, want 2", len(all))
	}

	tag.RemoveFrame("COMM")
	if len(tag.LookupAll("COMM")) != 0 {
		t.Fatal("RemoveFrame did not remove all COMM frames")
	}
}
