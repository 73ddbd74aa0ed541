package id3v2

// Synchsafe encodes n, which must fit in 28 bits, as four bytes each
// carrying 7 payload bits with the high bit clear, so the encoded form
// never contains a byte with its top bit set. Tag and frame size fields
// under ID3v2.4 (and the ID3v2 tag header under every version) use this
// encoding so that a naive scan for MPEG sync words never mistakes a
// size field for one.
func Synchsafe(n uint32) [4]byte {
	return [4]byte{
		byte((n >> 21) & 0x7F),
		byte((n >> 14) & 0x7F),
		byte((n >> 7) & 0x7F),
		byte(n & 0x7F),
	}
}

// Unsynchsafe reverses Synchsafe. It reports false if any byte has its
// high bit set, which is not a legal synchsafe encoding.
func Unsynchsafe(b [4]byte) (uint32, bool) {
	if b[0]&0x80 != 0 || b[1]&0x80 != 0 || b[2]&0x80 != 0 || b[3]&0x80 != 0 {
		return 0, false
	}

	return uint32(b[0])<<21 | uint32(b[1])<<14 | uint32(b[2])<<7 | uint32(b[3]), true
}
