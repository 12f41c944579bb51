package capture

import (
	"errors"

	"github.com/presentformyfriends/sphinx4/pkg/audio/pcm"
)

var (
	// ErrUnsupportedFormat is returned by Start when the device cannot
	// capture in the configured format.
	ErrUnsupportedFormat = errors.New("capture: audio format not supported by device")

	// ErrDeviceUnavailable is wrapped by Device.Open errors when the
	// underlying capture resource cannot be acquired.
	ErrDeviceUnavailable = errors.New("capture: audio device unavailable")

	// ErrClosed is returned by Start after Close.
	ErrClosed = errors.New("capture: microphone closed")

	// ErrRecording is returned by Start while a session is already armed.
	ErrRecording = errors.New("capture: already recording")
)

// Device is a hardware or OS audio input capability.
type Device interface {
	// Supports reports whether the device can open a line in the given format.
	Supports(f pcm.Format) bool

	// Open acquires a capture line in the given format. frameSize is the
	// nominal number of bytes per Read. Implementations should wrap
	// ErrDeviceUnavailable when the underlying resource cannot be acquired.
	Open(f pcm.Format, frameSize int) (Line, error)
}

// Line is one open capture connection to a Device.
type Line interface {
	// Start begins capturing on the line.
	Start() error

	// Stop halts capture. An in-flight Read may return short.
	Stop() error

	// Read fills p with captured bytes, blocking until data arrives.
	// It returns fewer than len(p) bytes only at the natural end of
	// availability or when the line is stopping; a terminal condition is
	// reported as an error (typically io.EOF) alongside any final bytes.
	Read(p []byte) (int, error)

	// Close releases the line.
	Close() error
}
