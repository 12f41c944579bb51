package wav

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/presentformyfriends/sphinx4/pkg/audio/pcm"
)

func TestEncode_Header(t *testing.T) {
	data := []byte{1, 0, 2, 0, 3, 0, 4, 0}
	got, err := Bytes(pcm.L16Mono16K, data)
	if err != nil {
		t.Fatalf("Bytes: %v", err)
	}
	if len(got) != 44+len(data) {
		t.Fatalf("file length = %d, want %d", len(got), 44+len(data))
	}
	if string(got[0:4]) != "RIFF" || string(got[8:12]) != "WAVE" || string(got[12:16]) != "fmt " {
		t.Fatalf("bad chunk magic in %q", got[:16])
	}
	if riffLen := binary.LittleEndian.Uint32(got[4:]); riffLen != uint32(36+len(data)) {
		t.Fatalf("RIFF length = %d, want %d", riffLen, 36+len(data))
	}
	if rate := binary.LittleEndian.Uint32(got[24:]); rate != 16000 {
		t.Fatalf("sample rate = %d, want 16000", rate)
	}
	if depth := binary.LittleEndian.Uint16(got[34:]); depth != 16 {
		t.Fatalf("bits per sample = %d, want 16", depth)
	}
	if dataLen := binary.LittleEndian.Uint32(got[40:]); dataLen != uint32(len(data)) {
		t.Fatalf("data length = %d, want %d", dataLen, len(data))
	}
	if !bytes.Equal(got[44:], data) {
		t.Fatalf("payload = %v, want %v", got[44:], data)
	}
}

func TestEncode_BigEndianSwapped(t *testing.T) {
	got, err := Bytes(pcm.DefaultFormat, []byte{0x01, 0x02, 0x03, 0x04})
	if err != nil {
		t.Fatalf("Bytes: %v", err)
	}
	want := []byte{0x02, 0x01, 0x04, 0x03}
	if !bytes.Equal(got[44:], want) {
		t.Fatalf("payload = %v, want %v", got[44:], want)
	}
}

func TestEncode_Signed8BitOffset(t *testing.T) {
	f := pcm.Format{SampleRate: 8000, Depth: 8, Channels: 1, Signed: true}
	got, err := Bytes(f, []byte{0x00, 0xFF, 0x80})
	if err != nil {
		t.Fatalf("Bytes: %v", err)
	}
	want := []byte{0x80, 0x7F, 0x00}
	if !bytes.Equal(got[44:], want) {
		t.Fatalf("payload = %v, want %v", got[44:], want)
	}
}

func TestEncode_PartialSample(t *testing.T) {
	if _, err := Bytes(pcm.L16Mono16K, []byte{1, 2, 3}); err == nil {
		t.Fatal("expected error for partial sample")
	}
}
