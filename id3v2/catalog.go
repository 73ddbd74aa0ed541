package id3v2

// format describes how a frame's payload decomposes into fields: an
// ordered list of field kinds (the last of which is greedy/delimited to
// the end of the payload) plus a human-readable description for
// diagnostics.
type format struct {
	fields      []FieldKind
	description string
}

// frameFormats is the catalog of known ID3v2.3/ID3v2.4 frame IDs (the two
// versions share a frame body format; v2.2-only IDs with no later
// equivalent live in frameFormatsV22Only below). Entries come from
// http://id3.org/id3v2.3.0 and http://id3.org/id3v2.4.0-frames.
var frameFormats = map[string]format{
	"UFID": {[]FieldKind{KindLatin1, KindBinaryData}, "Unique file identifier"},
	"TXXX": {[]FieldKind{KindTextEncoding, KindString, KindString}, "User defined text information frame"},
	"WXXX": {[]FieldKind{KindTextEncoding, KindString, KindLatin1}, "User defined URL link frame"},
	"MCDI": {[]FieldKind{KindBinaryData}, "Music CD identifier"},
	"ETCO": {[]FieldKind{KindInt8, KindBinaryData}, "Event timing codes"},
	"MLLT": {[]FieldKind{KindInt16, KindInt24, KindInt24, KindInt8, KindInt8, KindBinaryData}, "MPEG location lookup table"},
	"SYTC": {[]FieldKind{KindInt8, KindBinaryData}, "Synchronised tempo codes"},
	"USLT": {[]FieldKind{KindTextEncoding, KindLanguage, KindString, KindStringFull}, "Unsynchronised lyric/text transcription"},
	"SYLT": {[]FieldKind{KindTextEncoding, KindLanguage, KindInt8, KindInt8, KindString, KindBinaryData}, "Synchronised lyric/text"},
	"COMM": {[]FieldKind{KindTextEncoding, KindLanguage, KindString, KindStringFull}, "Comments"},
	"RVA2": {[]FieldKind{KindLatin1, KindBinaryData}, "Relative volume adjustment (2)"},
	"EQU2": {[]FieldKind{KindInt8, KindLatin1, KindBinaryData}, "Equalisation (2)"},
	"RVAD": {[]FieldKind{KindBinaryData}, "Relative volume adjustment"},
	"EQUA": {[]FieldKind{KindBinaryData}, "Equalization"},
	"RVRB": {[]FieldKind{KindInt16, KindInt16, KindInt8, KindInt8, KindInt8, KindInt8, KindInt8, KindInt8, KindInt8, KindInt8}, "Reverb"},
	"APIC": {[]FieldKind{KindTextEncoding, KindLatin1, KindInt8, KindString, KindBinaryData}, "Attached picture"},
	"GEOB": {[]FieldKind{KindTextEncoding, KindLatin1, KindString, KindString, KindBinaryData}, "General encapsulated object"},
	"PCNT": {[]FieldKind{KindInt32Plus}, "Play counter"},
	"POPM": {[]FieldKind{KindLatin1, KindInt8, KindInt32Plus}, "Popularimeter"},
	"RBUF": {[]FieldKind{KindInt24, KindInt8, KindInt32}, "Recommended buffer size"},
	"AENC": {[]FieldKind{KindLatin1, KindInt16, KindInt16, KindBinaryData}, "Audio encryption"},
	"LINK": {[]FieldKind{KindFrameIDV34, KindLatin1, KindLatin1List}, "Linked information"},
	"POSS": {[]FieldKind{KindInt8, KindBinaryData}, "Position synchronisation frame"},
	"USER": {[]FieldKind{KindTextEncoding, KindLanguage, KindString}, "Terms of use"},
	"OWNE": {[]FieldKind{KindTextEncoding, KindLatin1, KindLatin1, KindString}, "Ownership frame"},
	"COMR": {[]FieldKind{KindTextEncoding, KindLatin1, KindLatin1, KindLatin1, KindInt8, KindString, KindString, KindLatin1, KindBinaryData}, "Commercial frame"},
	"ENCR": {[]FieldKind{KindLatin1, KindInt8, KindBinaryData}, "Encryption method registration"},
	"GRID": {[]FieldKind{KindLatin1, KindInt8, KindBinaryData}, "Group identification registration"},
	"PRIV": {[]FieldKind{KindLatin1, KindBinaryData}, "Private frame"},
	"SIGN": {[]FieldKind{KindInt8, KindBinaryData}, "Signature frame"},
	"SEEK": {[]FieldKind{KindInt32}, "Seek frame"},
	"ASPI": {[]FieldKind{KindInt32, KindInt32, KindInt16, KindInt8, KindBinaryData}, "Audio seek point index"},

	"TALB": {[]FieldKind{KindTextEncoding, KindStringList}, "Album/Movie/Show title"},
	"TBPM": {[]FieldKind{KindTextEncoding, KindStringList}, "BPM (beats per minute)"},
	"TCOM": {[]FieldKind{KindTextEncoding, KindStringList}, "Composer"},
	"TCON": {[]FieldKind{KindTextEncoding, KindStringList}, "Content type"},
	"TCOP": {[]FieldKind{KindTextEncoding, KindStringList}, "Copyright message"},
	"TDAT": {[]FieldKind{KindTextEncoding, KindStringList}, "Date"},
	"TDEN": {[]FieldKind{KindTextEncoding, KindStringList}, "Encoding time"},
	"TDLY": {[]FieldKind{KindTextEncoding, KindStringList}, "Playlist delay"},
	"TDOR": {[]FieldKind{KindTextEncoding, KindStringList}, "Original release time"},
	"TDRC": {[]FieldKind{KindTextEncoding, KindStringList}, "Recording time"},
	"TDRL": {[]FieldKind{KindTextEncoding, KindStringList}, "Release time"},
	"TDTG": {[]FieldKind{KindTextEncoding, KindStringList}, "Tagging time"},
	"TENC": {[]FieldKind{KindTextEncoding, KindStringList}, "Encoded by"},
	"TEXT": {[]FieldKind{KindTextEncoding, KindStringList}, "Lyricist/Text writer"},
	"TFLT": {[]FieldKind{KindTextEncoding, KindStringList}, "File type"},
	"TIME": {[]FieldKind{KindTextEncoding, KindStringList}, "Time"},
	"TIPL": {[]FieldKind{KindTextEncoding, KindStringList}, "Involved people list"},
	"IPLS": {[]FieldKind{KindTextEncoding, KindStringList}, "Involved people list"},
	"TIT1": {[]FieldKind{KindTextEncoding, KindStringList}, "Content group description"},
	"TIT2": {[]FieldKind{KindTextEncoding, KindStringList}, "Title/songname/content description"},
	"TIT3": {[]FieldKind{KindTextEncoding, KindStringList}, "Subtitle/Description refinement"},
	"TKEY": {[]FieldKind{KindTextEncoding, KindStringList}, "Initial key"},
	"TLAN": {[]FieldKind{KindTextEncoding, KindStringList}, "Language(s)"},
	"TLEN": {[]FieldKind{KindTextEncoding, KindStringList}, "Length"},
	"TMCL": {[]FieldKind{KindTextEncoding, KindStringList}, "Musician credits list"},
	"TMED": {[]FieldKind{KindTextEncoding, KindStringList}, "Media type"},
	"TMOO": {[]FieldKind{KindTextEncoding, KindStringList}, "Mood"},
	"TOAL": {[]FieldKind{KindTextEncoding, KindStringList}, "Original album/movie/show title"},
	"TOFN": {[]FieldKind{KindTextEncoding, KindStringList}, "Original filename"},
	"TOLY": {[]FieldKind{KindTextEncoding, KindStringList}, "Original lyricist(s)/text writer(s)"},
	"TOPE": {[]FieldKind{KindTextEncoding, KindStringList}, "Original artist(s)/performer(s)"},
	"TORY": {[]FieldKind{KindTextEncoding, KindStringList}, "Original release year"},
	"TOWN": {[]FieldKind{KindTextEncoding, KindStringList}, "File owner/licensee"},
	"TPE1": {[]FieldKind{KindTextEncoding, KindStringList}, "Lead performer(s)/Soloist(s)"},
	"TPE2": {[]FieldKind{KindTextEncoding, KindStringList}, "Band/orchestra/accompaniment"},
	"TPE3": {[]FieldKind{KindTextEncoding, KindStringList}, "Conductor/performer refinement"},
	"TPE4": {[]FieldKind{KindTextEncoding, KindStringList}, "Interpreted, remixed, or otherwise modified by"},
	"TPOS": {[]FieldKind{KindTextEncoding, KindStringList}, "Part of a set"},
	"TPRO": {[]FieldKind{KindTextEncoding, KindStringList}, "Produced notice"},
	"TPUB": {[]FieldKind{KindTextEncoding, KindStringList}, "Publisher"},
	"TRCK": {[]FieldKind{KindTextEncoding, KindStringList}, "Track number/Position in set"},
	"TRDA": {[]FieldKind{KindTextEncoding, KindStringList}, "Recording dates"},
	"TRSN": {[]FieldKind{KindTextEncoding, KindStringList}, "Internet radio station name"},
	"TRSO": {[]FieldKind{KindTextEncoding, KindStringList}, "Internet radio station owner"},
	"TSIZ": {[]FieldKind{KindTextEncoding, KindStringList}, "Size"},
	"TSO2": {[]FieldKind{KindTextEncoding, KindStringList}, "Album artist sort order"},
	"TSOA": {[]FieldKind{KindTextEncoding, KindStringList}, "Album sort order"},
	"TSOC": {[]FieldKind{KindTextEncoding, KindStringList}, "Composer sort order"},
	"TSOP": {[]FieldKind{KindTextEncoding, KindStringList}, "Performer sort order"},
	"TSOT": {[]FieldKind{KindTextEncoding, KindStringList}, "Title sort order"},
	"TSRC": {[]FieldKind{KindTextEncoding, KindStringList}, "ISRC (international standard recording code)"},
	"TSSE": {[]FieldKind{KindTextEncoding, KindStringList}, "Software/Hardware and settings used for encoding"},
	"TSST": {[]FieldKind{KindTextEncoding, KindStringList}, "Set subtitle"},
	"TYER": {[]FieldKind{KindTextEncoding, KindStringList}, "Year"},

	"WCOM": {[]FieldKind{KindLatin1}, "Commercial information"},
	"WCOP": {[]FieldKind{KindLatin1}, "Copyright/Legal information"},
	"WOAF": {[]FieldKind{KindLatin1}, "Official audio file webpage"},
	"WOAR": {[]FieldKind{KindLatin1}, "Official artist/performer webpage"},
	"WOAS": {[]FieldKind{KindLatin1}, "Official audio source webpage"},
	"WORS": {[]FieldKind{KindLatin1}, "Official Internet radio station homepage"},
	"WPAY": {[]FieldKind{KindLatin1}, "Payment"},
	"WPUB": {[]FieldKind{KindLatin1}, "Publishers official webpage"},
}

// frameFormatsV22Only holds the ID3v2.2-specific frame IDs that have no
// v2.3/v2.4 equivalent at all (i.e. aren't covered by idRename below),
// obsoleted by later versions but still found in the wild.
var frameFormatsV22Only = map[string]format{
	"CRM": {[]FieldKind{KindLatin1, KindLatin1, KindBinaryData}, "Encrypted meta frame"},
}

// fallbackFormat returns the field layout assigned to an unrecognized
// frame ID, by the usual ID3v2 convention: any ID starting with 'T' is
// assumed to be a text information frame (encoding byte + a list of
// strings), any ID starting with 'W' a URL frame (raw Latin-1, no
// encoding byte), and anything else opaque binary data.
func fallbackFormat(id string) format {
	switch {
	case len(id) > 0 && id[0] == 'T':
		return format{[]FieldKind{KindTextEncoding, KindStringList}, "User defined text information frame"}
	case len(id) > 0 && id[0] == 'W':
		return format{[]FieldKind{KindLatin1}, "User defined URL link frame"}
	default:
		return format{[]FieldKind{KindBinaryData}, "Unknown frame"}
	}
}

// lookupFormat resolves the field layout for a frame ID. v2.3/v2.4 IDs
// are looked up directly; v2.2-only IDs that never renamed to a v2.3/v2.4
// equivalent (CRM) are looked up in frameFormatsV22Only before falling
// back to the T***/W***/opaque convention for anything still unrecognized.
func lookupFormat(id string) format {
	if f, ok := frameFormats[id]; ok {
		return f
	}
	if f, ok := frameFormatsV22Only[id]; ok {
		return f
	}
	return fallbackFormat(id)
}

// idRename22to34 maps an ID3v2.2 (3-byte) frame ID to its ID3v2.3/ID3v2.4
// (4-byte) equivalent. Grounded on the standard mapping used by every
// ID3v2 implementation; IDs not present here (CRM, and any genuinely
// obsolete v2.2-only frame) have no v2.3/v2.4 equivalent.
var idRename22to34 = map[string]string{
	"BUF": "RBUF",
	"CNT": "PCNT",
	"COM": "COMM",
	"CRA": "AENC",
	"ETC": "ETCO",
	"GEO": "GEOB",
	"IPL": "IPLS",
	"LNK": "LINK",
	"MCI": "MCDI",
	"MLL": "MLLT",
	"PIC": "APIC",
	"POP": "POPM",
	"REV": "RVRB",
	"SLT": "SYLT",
	"STC": "SYTC",
	"TAL": "TALB",
	"TBP": "TBPM",
	"TCM": "TCOM",
	"TCO": "TCON",
	"TCR": "TCOP",
	"TDY": "TDLY",
	"TEN": "TENC",
	"TFT": "TFLT",
	"TKE": "TKEY",
	"TLA": "TLAN",
	"TLE": "TLEN",
	"TMT": "TMED",
	"TOA": "TOPE",
	"TOF": "TOFN",
	"TOL": "TOLY",
	"TOT": "TOAL",
	"TP1": "TPE1",
	"TP2": "TPE2",
	"TP3": "TPE3",
	"TP4": "TPE4",
	"TPA": "TPOS",
	"TPB": "TPUB",
	"TRC": "TSRC",
	"TRK": "TRCK",
	"TSS": "TSSE",
	"TT1": "TIT1",
	"TT2": "TIT2",
	"TT3": "TIT3",
	"TXT": "TEXT",
	"TXX": "TXXX",
	"TYE": "TYER",
	"UFI": "UFID",
	"ULT": "USLT",
	"WAF": "WOAF",
	"WAR": "WOAR",
	"WAS": "WOAS",
	"WCM": "WCOM",
	"WCP": "WCOP",
	"WPB": "WPUB",
	"WXX": "WXXX",
}

// idRename34to22 is the inverse of idRename22to34, built once at package
// init.
var idRename34to22 = func() map[string]string {
	m := make(map[string]string, len(idRename22to34))
	for k, v := range idRename22to34 {
		m[v] = k
	}
	return m
}()

// renameToV22 returns the ID3v2.2 equivalent of a v2.3/v2.4 frame ID, and
// false if none exists (the frame has no meaning, or no assigned ID, in
// ID3v2.2).
func renameToV22(id string) (string, bool) {
	v, ok := idRename34to22[id]
	return v, ok
}

// renameFromV22 returns the v2.3/v2.4 equivalent of an ID3v2.2 frame ID,
// and false if none exists (e.g. "CRM").
func renameFromV22(id string) (string, bool) {
	v, ok := idRename22to34[id]
	return v, ok
}

// description returns a human-readable name for a v2.3/v2.4 frame ID, the
// empty string if unknown.
func description(id string) string {
	if f, ok := frameFormats[id]; ok {
		return f.description
	}
	return ""
}
