// Package wav encodes raw PCM into canonical RIFF/WAVE files for export.
package wav

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/presentformyfriends/sphinx4/pkg/audio/pcm"
)

// Encode writes a complete WAVE file containing data to w. WAVE stores
// multi-byte samples little-endian and 8-bit samples unsigned, so data
// captured big-endian or signed 8-bit is converted on the way out.
func Encode(w io.Writer, f pcm.Format, data []byte) error {
	if err := f.Validate(); err != nil {
		return err
	}
	if len(data)%f.BytesPerSample() != 0 {
		return fmt.Errorf("wav: %d bytes is not a whole number of %d-bit samples", len(data), f.Depth)
	}
	data = canonical(f, data)

	var buf bytes.Buffer
	buf.WriteString("RIFF")
	binary.Write(&buf, binary.LittleEndian, uint32(36+len(data)))
	buf.WriteString("WAVE")

	buf.WriteString("fmt ")
	binary.Write(&buf, binary.LittleEndian, uint32(16))
	binary.Write(&buf, binary.LittleEndian, uint16(1)) // PCM
	binary.Write(&buf, binary.LittleEndian, uint16(f.Channels))
	binary.Write(&buf, binary.LittleEndian, uint32(f.SampleRate))
	binary.Write(&buf, binary.LittleEndian, uint32(f.BytesRate()))
	binary.Write(&buf, binary.LittleEndian, uint16(f.Channels*f.BytesPerSample()))
	binary.Write(&buf, binary.LittleEndian, uint16(f.Depth))

	buf.WriteString("data")
	binary.Write(&buf, binary.LittleEndian, uint32(len(data)))
	buf.Write(data)

	if _, err := w.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("wav: write: %w", err)
	}
	return nil
}

// Bytes encodes data into an in-memory WAVE file.
func Bytes(f pcm.Format, data []byte) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, f, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// canonical converts samples to the byte order and signedness WAVE expects.
func canonical(f pcm.Format, data []byte) []byte {
	switch {
	case f.Depth == 16 && f.BigEndian:
		out := make([]byte, len(data))
		for i := 0; i+1 < len(data); i += 2 {
			out[i], out[i+1] = data[i+1], data[i]
		}
		return out
	case f.Depth == 8 && f.Signed:
		out := make([]byte, len(data))
		for i, b := range data {
			out[i] = b ^ 0x80
		}
		return out
	}
	return data
}
