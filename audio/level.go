package audio

import (
	"encoding/binary"
	"math"
)

// Level computes the normalized RMS amplitude of a little-endian PCM16
// chunk, in [0,1]. Empty or odd-length chunks yield 0.
func Level(pcm []byte) float64 {
	if len(pcm) < 2 {
		return 0
	}
	var sumSquares float64
	n := 0
	for i := 0; i+1 < len(pcm); i += 2 {
		sample := int16(binary.LittleEndian.Uint16(pcm[i:]))
		normalized := float64(sample) / 32768.0
		sumSquares += normalized * normalized
		n++
	}
	return math.Sqrt(sumSquares / float64(n))
}
