// Package pcm describes raw PCM (Pulse Code Modulation) audio formats and
// decodes raw bytes into numeric sample values.
//
// Key types:
//   - Format: sample rate, bit depth, channel count, signedness and byte order
//   - Format.DecodeSamples: raw bytes to one float64 per sample unit
//
// Example usage:
//
//	// The capture frontend's default format: 8 kHz 16-bit signed
//	// big-endian mono.
//	format := pcm.DefaultFormat
//
//	// Calculate bytes needed for 20ms of audio
//	n := format.BytesInDuration(20 * time.Millisecond)
//
//	// Decode a captured frame into sample values
//	samples, err := format.DecodeSamples(frame)
package pcm
