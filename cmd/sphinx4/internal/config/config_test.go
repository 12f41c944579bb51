package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/presentformyfriends/sphinx4/pkg/audio/pcm"
)

func TestLoadMissingFileDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "config.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.SampleRate != 16000 || cfg.Channels != 1 || cfg.FrameSize != 4096 {
		t.Fatalf("defaults = %+v", cfg)
	}
	want := pcm.Format{SampleRate: 16000, Depth: 16, Channels: 1, Signed: true}
	if cfg.Format() != want {
		t.Fatalf("Format() = %v, want %v", cfg.Format(), want)
	}
}

func TestLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	in := Config{
		Device:     "USB Audio",
		SampleRate: 8000,
		BigEndian:  true,
		DataDir:    "/tmp/recdb",
		Export: Export{
			Dir: "/tmp/out",
			S3:  &S3{Bucket: "recordings", Prefix: "exports", Region: "eu-west-1"},
		},
	}
	if err := Save(path, in); err != nil {
		t.Fatalf("Save: %v", err)
	}

	out, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if out.Device != in.Device || out.SampleRate != 8000 || !out.BigEndian {
		t.Fatalf("Load = %+v", out)
	}
	if out.Channels != 1 || out.FrameSize != 4096 {
		t.Fatalf("defaults not applied: %+v", out)
	}
	if out.Export.S3 == nil || out.Export.S3.Bucket != "recordings" {
		t.Fatalf("Export.S3 = %+v", out.Export.S3)
	}
}

func TestLoadBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("device: [unclosed"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected parse error")
	}
}
