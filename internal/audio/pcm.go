package audio

import "encoding/binary"

// SampleRate is the fixed rate of synthesized narration audio.
const SampleRate = 24000

// DecodePCM interprets raw bytes as 16-bit signed little-endian mono PCM
// and converts them to normalized amplitudes in [-1.0, 1.0). An odd
// trailing byte is dropped so that truncated transfers must not shift every
// following sample.
func DecodePCM(raw []byte) []float64 {
	n := len(raw) / 2
	samples := make([]float64, n)
	for i := 0; i < n; i++ {
		s := int16(binary.LittleEndian.Uint16(raw[2*i:]))
		samples[i] = float64(s) / 32768
	}
	return samples
}
