package pcm

import (
	"encoding/binary"
	"fmt"
	"time"
)

// Format represents a raw PCM audio format configuration.
type Format struct {
	// SampleRate is the number of samples per second per channel.
	SampleRate int

	// Depth is the bit depth of one sample: 8 or 16.
	Depth int

	// Channels is the number of interleaved channels.
	Channels int

	// Signed selects two's-complement sample values.
	Signed bool

	// BigEndian selects big-endian byte order for multi-byte samples.
	BigEndian bool
}

// DefaultFormat is 8 kHz 16-bit signed big-endian mono, the capture
// frontend's default.
var DefaultFormat = Format{SampleRate: 8000, Depth: 16, Channels: 1, Signed: true, BigEndian: true}

// L16Mono16K is 16 kHz 16-bit signed little-endian mono, the native format
// of the portaudio input path.
var L16Mono16K = Format{SampleRate: 16000, Depth: 16, Channels: 1, Signed: true}

// Validate checks that the format is one this package can decode.
func (f Format) Validate() error {
	if f.SampleRate <= 0 {
		return fmt.Errorf("pcm: invalid sample rate %d", f.SampleRate)
	}
	if f.Channels <= 0 {
		return fmt.Errorf("pcm: invalid channel count %d", f.Channels)
	}
	if f.Depth != 8 && f.Depth != 16 {
		return fmt.Errorf("pcm: unsupported bit depth %d", f.Depth)
	}
	return nil
}

// BytesPerSample returns the number of bytes in one sample.
func (f Format) BytesPerSample() int {
	return f.Depth / 8
}

// Samples returns the number of samples in the given number of bytes.
func (f Format) Samples(bytes int64) int64 {
	return bytes * 8 / int64(f.Depth)
}

// SamplesInDuration returns the number of per-channel samples in the given duration.
func (f Format) SamplesInDuration(d time.Duration) int64 {
	return int64(time.Duration(f.SampleRate) * d / time.Second)
}

// BytesInDuration returns the number of bytes in the given duration.
func (f Format) BytesInDuration(d time.Duration) int64 {
	return f.SamplesInDuration(d) * int64(f.Channels) * int64(f.Depth) / 8
}

// Duration returns the duration of the given number of bytes.
func (f Format) Duration(bytes int64) time.Duration {
	if f.SampleRate == 0 {
		return 0
	}
	perChannel := f.Samples(bytes) / int64(f.Channels)
	return time.Duration(perChannel) * time.Second / time.Duration(f.SampleRate)
}

// BytesRate returns the byte rate of the audio data.
func (f Format) BytesRate() int {
	return f.SampleRate * f.Channels * f.Depth / 8
}

// String returns a human-readable string representation of the format.
func (f Format) String() string {
	order := "little-endian"
	if f.BigEndian {
		order = "big-endian"
	}
	sign := "signed"
	if !f.Signed {
		sign = "unsigned"
	}
	return fmt.Sprintf("audio/L%d; rate=%d; channels=%d; %s %s",
		f.Depth, f.SampleRate, f.Channels, sign, order)
}

// DecodeSamples decodes raw PCM bytes into one float64 per sample unit,
// honoring the format's bit depth, signedness and byte order. Sample values
// are returned raw, not normalized. Channels are interleaved in the output
// exactly as in the input.
//
// An input length that is not a whole number of samples is a decode failure.
func (f Format) DecodeSamples(p []byte) ([]float64, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	bps := f.BytesPerSample()
	if len(p)%bps != 0 {
		return nil, fmt.Errorf("pcm: %d bytes is not a whole number of %d-bit samples", len(p), f.Depth)
	}

	out := make([]float64, len(p)/bps)
	switch f.Depth {
	case 8:
		for i, b := range p {
			if f.Signed {
				out[i] = float64(int8(b))
			} else {
				out[i] = float64(b)
			}
		}
	case 16:
		var order binary.ByteOrder = binary.LittleEndian
		if f.BigEndian {
			order = binary.BigEndian
		}
		for i := range out {
			u := order.Uint16(p[2*i:])
			if f.Signed {
				out[i] = float64(int16(u))
			} else {
				out[i] = float64(u)
			}
		}
	}
	return out, nil
}

// EncodeSamples is the inverse of DecodeSamples: it serializes raw sample
// values into PCM bytes in the format's bit depth, signedness and byte
// order. Values outside the sample range are truncated, not clamped.
func (f Format) EncodeSamples(samples []float64) ([]byte, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	out := make([]byte, len(samples)*f.BytesPerSample())
	switch f.Depth {
	case 8:
		for i, s := range samples {
			if f.Signed {
				out[i] = byte(int8(s))
			} else {
				out[i] = byte(s)
			}
		}
	case 16:
		var order binary.ByteOrder = binary.LittleEndian
		if f.BigEndian {
			order = binary.BigEndian
		}
		for i, s := range samples {
			if f.Signed {
				order.PutUint16(out[2*i:], uint16(int16(s)))
			} else {
				order.PutUint16(out[2*i:], uint16(s))
			}
		}
	}
	return out, nil
}
