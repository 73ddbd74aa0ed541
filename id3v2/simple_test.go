package id3v2

import "testing"

func TestTrackAndTotalTracksSplit(t *testing.T) {
	tag := newTestTag(Version4)
	tag.SetTrack("5")
	tag.SetTotalTracks("10")

	if got := tag.Track(); got != "5" {
		t.Errorf("Track() = %q, want 5", got)
	}
	if got := tag.TotalTracks(); got != "10" {
		t.Errorf("TotalTracks() = %q, want 10", got)
	}

	tag.SetTrack("6")
	if got := tag.TotalTracks(); got != "10" {
		t.Errorf("TotalTracks() after SetTrack = %q, want total preserved as 10", got)
	}
}

func TestYearV4UsesTDRCDatePortion(t *testing.T) {
	tag := newTestTag(Version4)
	tag.SetYear("2014-03-02")
	if got := tag.Year(); got != "2014" {
		t.Errorf("Year() = %q, want 2014", got)
	}
}

func TestYearNum(t *testing.T) {
	tag := newTestTag(Version3)
	tag.SetYear("2014")
	n, ok := tag.YearNum()
	if !ok || n != 2014 {
		t.Fatalf("YearNum() = %d, %v, want 2014, true", n, ok)
	}

	tag.SetYear("not a year")
	if _, ok := tag.YearNum(); ok {
		t.Fatal("YearNum() should report false for non-numeric year text")
	}
}

func TestYearV3UsesTYER(t *testing.T) {
	tag := newTestTag(Version3)
	tag.SetYear("1999")
	if got := tag.Year(); got != "1999" {
		t.Errorf("Year() = %q, want 1999", got)
	}
	fr := tag.Lookup("TYER")
	if fr == nil {
		t.Fatal("expected a TYER frame")
	}
}

func TestExtendedTextAddRemove(t *testing.T) {
	tag := newTestTag(Version4)
	tag.AddExtendedText("key1", "value1")
	tag.AddExtendedText("key2", "value2")

	texts := tag.ExtendedTexts()
	if len(texts) != 2 {
		t.Fatalf("ExtendedTexts() = %d entries, want 2", len(texts))
	}

	tag.RemoveExtendedText("key1")
	texts = tag.ExtendedTexts()
	if len(texts) != 1 || texts[0].Description != "key2" {
		t.Fatalf("ExtendedTexts() after removal = %+v", texts)
	}
}

func TestExtendedTextReplacesSameDescription(t *testing.T) {
	tag := newTestTag(Version4)
	tag.AddExtendedText("key1", "value1")
	tag.AddExtendedText("key1", "value2")

	texts := tag.ExtendedTexts()
	if len(texts) != 1 || texts[0].Value != "value2" {
		t.Fatalf("ExtendedTexts() = %+v, want single key1=value2", texts)
	}
}

func TestExtendedLinkAddRemove(t *testing.T) {
	tag := newTestTag(Version4)
	tag.AddExtendedLink("homepage", "http://example.com/a")
	tag.AddExtendedLink("download", "http://example.com/b")

	links := tag.ExtendedLinks()
	if len(links) != 2 {
		t.Fatalf("ExtendedLinks() = %d entries, want 2", len(links))
	}

	tag.RemoveExtendedLink("homepage")
	links = tag.ExtendedLinks()
	if len(links) != 1 || links[0].Description != "download" {
		t.Fatalf("ExtendedLinks() after removal = %+v", links)
	}
}

func TestExtendedLinkReplacesSameDescription(t *testing.T) {
	tag := newTestTag(Version4)
	tag.AddExtendedLink("homepage", "http://example.com/a")
	tag.AddExtendedLink("homepage", "http://example.com/b")

	links := tag.ExtendedLinks()
	if len(links) != 1 || links[0].Link != "http://example.com/b" {
		t.Fatalf("ExtendedLinks() = %+v, want single homepage=http://example.com/b", links)
	}
}

func TestPictureAddLookupRemove(t *testing.T) {
	tag := newTestTag(Version4)
	tag.AddPicture(Picture{MIMEType: "image/jpeg", PictureType: 3, Description: "cover", Data: []byte{1, 2, 3}})

	pics := tag.Pictures()
	if len(pics) != 1 {
		t.Fatalf("Pictures() = %d, want 1", len(pics))
	}
	if pics[0].MIMEType != "image/jpeg" || pics[0].PictureType != 3 {
		t.Fatalf("Pictures()[0] = %+v", pics[0])
	}

	tag.RemovePicture(3)
	if len(tag.Pictures()) != 0 {
		t.Fatal("RemovePicture did not remove the picture")
	}
}

func TestCommentKeyedByLanguageAndDescription(t *testing.T) {
	tag := newTestTag(Version4)
	tag.AddComment(Comment{Language: "eng", Description: "d1", Text: "one"})
	tag.AddComment(Comment{Language: "fra", Description: "d1", Text: "deux"})

	cs := tag.Comments()
	if len(cs) != 2 {
		t.Fatalf("Comments() = %d, want 2 (different languages, same description)", len(cs))
	}

	tag.RemoveComment("eng", "d1")
	cs = tag.Comments()
	if len(cs) != 1 || cs[0].Language != "fra" {
		t.Fatalf("Comments() after removal = %+v", cs)
	}
}

func TestArtistAliasesToV22IDUnderVersion2(t *testing.T) {
	tag := newTestTag(Version2)
	tag.SetArtist("someone")
	fr := tag.Lookup("TP1")
	if fr == nil {
		t.Fatal("expected SetArtist under Version2 to install a TP1 frame")
	}
	if fr.Fields[1].Kind != KindString {
		t.Errorf("Fields[1].Kind = %v, want KindString under Version2", fr.Fields[1].Kind)
	}
	if got := tag.Artist(); got != "someone" {
		t.Errorf("Artist() = %q", got)
	}
}

// Text frames built through the mutation helpers carry a single String
// field under v2.2/v2.3 and a StringList field under v2.4.
func TestSetTextFrameFieldKindPerVersion(t *testing.T) {
	cases := []struct {
		version Version
		want    FieldKind
	}{
		{Version2, KindString},
		{Version3, KindString},
		{Version4, KindStringList},
	}
	for _, c := range cases {
		tag := newTestTag(c.version)
		tag.SetTitle("x")
		fr := tag.Lookup(tag.textID("TIT2"))
		if fr == nil {
			t.Fatalf("%v: no title frame installed", c.version)
		}
		if fr.Fields[1].Kind != c.want {
			t.Errorf("%v: Fields[1].Kind = %v, want %v", c.version, fr.Fields[1].Kind, c.want)
		}
		if got := tag.Title(); got != "x" {
			t.Errorf("%v: Title() = %q, want x", c.version, got)
		}
	}
}
