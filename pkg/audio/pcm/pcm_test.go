package pcm

import (
	"testing"
	"time"
)

func TestFormat_ByteMath(t *testing.T) {
	f := DefaultFormat // 8000 Hz, 16-bit, mono

	if got := f.BytesPerSample(); got != 2 {
		t.Fatalf("BytesPerSample() = %d, want 2", got)
	}
	if got := f.BytesRate(); got != 16000 {
		t.Fatalf("BytesRate() = %d, want 16000", got)
	}
	if got := f.Samples(4096); got != 2048 {
		t.Fatalf("Samples(4096) = %d, want 2048", got)
	}
	if got := f.BytesInDuration(time.Second); got != 16000 {
		t.Fatalf("BytesInDuration(1s) = %d, want 16000", got)
	}
	if got := f.Duration(16000); got != time.Second {
		t.Fatalf("Duration(16000) = %v, want 1s", got)
	}
}

func TestFormat_Validate(t *testing.T) {
	cases := []struct {
		name    string
		f       Format
		wantErr bool
	}{
		{"default", DefaultFormat, false},
		{"l16mono16k", L16Mono16K, false},
		{"zero rate", Format{Depth: 16, Channels: 1}, true},
		{"zero channels", Format{SampleRate: 8000, Depth: 16}, true},
		{"odd depth", Format{SampleRate: 8000, Depth: 12, Channels: 1}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.f.Validate()
			if (err != nil) != tc.wantErr {
				t.Fatalf("Validate() = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}

func TestDecodeSamples_Signed16BigEndian(t *testing.T) {
	f := DefaultFormat
	// 0x0102 = 258, 0xFFFE = -2
	got, err := f.DecodeSamples([]byte{0x01, 0x02, 0xFF, 0xFE})
	if err != nil {
		t.Fatalf("DecodeSamples: %v", err)
	}
	want := []float64{258, -2}
	if len(got) != len(want) {
		t.Fatalf("decoded %d samples, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("sample[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestDecodeSamples_Signed16LittleEndian(t *testing.T) {
	f := L16Mono16K
	got, err := f.DecodeSamples([]byte{0x02, 0x01, 0xFE, 0xFF})
	if err != nil {
		t.Fatalf("DecodeSamples: %v", err)
	}
	if got[0] != 258 || got[1] != -2 {
		t.Fatalf("DecodeSamples = %v, want [258 -2]", got)
	}
}

func TestDecodeSamples_Unsigned8(t *testing.T) {
	f := Format{SampleRate: 8000, Depth: 8, Channels: 1}
	got, err := f.DecodeSamples([]byte{0x00, 0x80, 0xFF})
	if err != nil {
		t.Fatalf("DecodeSamples: %v", err)
	}
	if got[0] != 0 || got[1] != 128 || got[2] != 255 {
		t.Fatalf("DecodeSamples = %v, want [0 128 255]", got)
	}

	f.Signed = true
	got, err = f.DecodeSamples([]byte{0x00, 0x80, 0xFF})
	if err != nil {
		t.Fatalf("DecodeSamples: %v", err)
	}
	if got[0] != 0 || got[1] != -128 || got[2] != -1 {
		t.Fatalf("DecodeSamples signed = %v, want [0 -128 -1]", got)
	}
}

func TestDecodeSamples_TruncatedInput(t *testing.T) {
	if _, err := DefaultFormat.DecodeSamples([]byte{0x01, 0x02, 0x03}); err == nil {
		t.Fatal("DecodeSamples on odd-length 16-bit input succeeded, want error")
	}
}

func TestEncodeSamples_RoundTrip(t *testing.T) {
	formats := []Format{
		DefaultFormat,
		L16Mono16K,
		{SampleRate: 8000, Depth: 8, Channels: 1, Signed: true},
		{SampleRate: 8000, Depth: 8, Channels: 2},
	}
	samples := []float64{0, 1, -2, 127}
	for _, f := range formats {
		in := samples
		if !f.Signed {
			in = []float64{0, 1, 2, 127}
		}
		data, err := f.EncodeSamples(in)
		if err != nil {
			t.Fatalf("%s: EncodeSamples: %v", f, err)
		}
		got, err := f.DecodeSamples(data)
		if err != nil {
			t.Fatalf("%s: DecodeSamples: %v", f, err)
		}
		for i := range in {
			if got[i] != in[i] {
				t.Fatalf("%s: round trip [%d] = %v, want %v", f, i, got[i], in[i])
			}
		}
	}
}

func TestEncodeSamples_ByteOrder(t *testing.T) {
	got, err := DefaultFormat.EncodeSamples([]float64{258})
	if err != nil {
		t.Fatalf("EncodeSamples: %v", err)
	}
	if got[0] != 0x01 || got[1] != 0x02 {
		t.Fatalf("big-endian bytes = %v, want [1 2]", got)
	}

	got, err = L16Mono16K.EncodeSamples([]float64{258})
	if err != nil {
		t.Fatalf("EncodeSamples: %v", err)
	}
	if got[0] != 0x02 || got[1] != 0x01 {
		t.Fatalf("little-endian bytes = %v, want [2 1]", got)
	}
}
