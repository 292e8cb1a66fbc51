package synth

import "testing"

func TestWAVRoundTrip(t *testing.T) {
	pcm := []int16{0, 100, -100, 32767, -32768, 42}
	encoded := EncodeWAV(pcm, 24000)

	decoded, sampleRate, err := DecodeWAV(encoded)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sampleRate != 24000 {
		t.Errorf("sampleRate = %d, want 24000", sampleRate)
	}
	if len(decoded) != len(pcm) {
		t.Fatalf("decoded length = %d, want %d", len(decoded), len(pcm))
	}
	for i := range pcm {
		if decoded[i] != pcm[i] {
			t.Errorf("sample %d = %d, want %d", i, decoded[i], pcm[i])
		}
	}
}

func TestDecodeWAV_RejectsShortData(t *testing.T) {
	if _, _, err := DecodeWAV([]byte{1, 2, 3}); err == nil {
		t.Errorf("expected error for too-short data")
	}
}

func TestDecodeWAV_RejectsNonRIFF(t *testing.T) {
	bad := make([]byte, 44)
	copy(bad, "NOPE")
	if _, _, err := DecodeWAV(bad); err == nil {
		t.Errorf("expected error for non-RIFF data")
	}
}
