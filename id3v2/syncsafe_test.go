package id3v2

import "testing"

func TestSynchsafeRoundTrip(t *testing.T) {
	cases := []uint32{0, 1, 127, 128, 16383, 16384, 268435455, 176994}
	for _, n := range cases {
		got, ok := Unsynchsafe(Synchsafe(n))
		if !ok {
			t.Fatalf("Unsynchsafe(Synchsafe(%d)): ok=false", n)
		}
		if got != n {
			t.Errorf("Unsynchsafe(Synchsafe(%d)) = %d, want %d", n, got, n)
		}
	}
}

func TestSynchsafeKnownVector(t *testing.T) {
	got := Synchsafe(176994)
	// 176994 spreads to the bytes of 681570 read big-endian.
	want := [4]byte{0x00, 0x0A, 0x66, 0x62}
	if got != want {
		t.Fatalf("Synchsafe(176994) = % x, want % x", got, want)
	}

	n, ok := Unsynchsafe(got)
	if !ok || n != 176994 {
		t.Fatalf("Synchsafe(176994) did not round-trip: got %v", got)
	}
}

func TestUnsynchsafeRejectsHighBit(t *testing.T) {
	_, ok := Unsynchsafe([4]byte{0x80, 0, 0, 0})
	if ok {
		t.Fatal("expected ok=false for a byte with the high bit set")
	}
}
