package portaudio

import (
	"encoding/binary"
	"fmt"

	"github.com/gordonklaus/portaudio"

	"github.com/presentformyfriends/sphinx4/pkg/audio/capture"
	"github.com/presentformyfriends/sphinx4/pkg/audio/pcm"
)

// Device selects a PortAudio input device by name. The empty name means the
// host's default input device. Device implements capture.Device.
type Device struct {
	name string
}

// NewDevice returns a device handle for the named input, or the default
// input when name is empty. The device is resolved lazily on Supports/Open,
// so a handle for a not-yet-plugged-in device is fine to hold.
func NewDevice(name string) *Device {
	return &Device{name: name}
}

func (d *Device) info() (*portaudio.DeviceInfo, error) {
	if err := initialize(); err != nil {
		return nil, fmt.Errorf("portaudio: initialize: %w", err)
	}
	if d.name == "" {
		info, err := portaudio.DefaultInputDevice()
		if err != nil {
			return nil, fmt.Errorf("%w: no default input: %v", capture.ErrDeviceUnavailable, err)
		}
		return info, nil
	}
	devs, err := portaudio.Devices()
	if err != nil {
		return nil, fmt.Errorf("portaudio: list devices: %w", err)
	}
	for _, dev := range devs {
		if dev.Name == d.name && dev.MaxInputChannels > 0 {
			return dev, nil
		}
	}
	return nil, fmt.Errorf("%w: no input device named %q", capture.ErrDeviceUnavailable, d.name)
}

// Supports reports whether the device can capture the given format. The
// adapter itself only speaks signed 16-bit PCM; beyond that the decision is
// PortAudio's.
func (d *Device) Supports(f pcm.Format) bool {
	if f.Validate() != nil || f.Depth != 16 || !f.Signed {
		return false
	}
	info, err := d.info()
	if err != nil || f.Channels > info.MaxInputChannels {
		return false
	}
	p := portaudio.LowLatencyParameters(info, nil)
	p.Input.Channels = f.Channels
	p.SampleRate = float64(f.SampleRate)
	return portaudio.IsFormatSupported(p, make([]int16, f.Channels)) == nil
}

// Open opens a blocking input stream sized to deliver frameSize bytes per
// read. The stream is not started; the returned line's Start does that.
func (d *Device) Open(f pcm.Format, frameSize int) (capture.Line, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	if f.Depth != 16 || !f.Signed {
		return nil, fmt.Errorf("%w: %s", capture.ErrUnsupportedFormat, f)
	}
	info, err := d.info()
	if err != nil {
		return nil, err
	}

	buf := make([]int16, frameSize/2)
	p := portaudio.LowLatencyParameters(info, nil)
	p.Input.Channels = f.Channels
	p.SampleRate = float64(f.SampleRate)
	p.FramesPerBuffer = len(buf) / f.Channels

	stream, err := portaudio.OpenStream(p, buf)
	if err != nil {
		return nil, fmt.Errorf("%w: open %q: %v", capture.ErrDeviceUnavailable, info.Name, err)
	}
	return &line{stream: stream, buf: buf, bigEndian: f.BigEndian}, nil
}

// line wraps one open PortAudio stream. PortAudio's blocking read fills the
// whole int16 buffer, so reads never come up short; the end-of-session
// truncation path upstream only triggers for other device implementations.
type line struct {
	stream    *portaudio.Stream
	buf       []int16
	bigEndian bool
}

func (l *line) Start() error {
	if err := l.stream.Start(); err != nil {
		return fmt.Errorf("portaudio: start stream: %w", err)
	}
	return nil
}

func (l *line) Stop() error {
	if err := l.stream.Stop(); err != nil {
		return fmt.Errorf("portaudio: stop stream: %w", err)
	}
	return nil
}

// Read blocks until a full hardware buffer is available and serializes it
// into p in the configured byte order. Input overflow is not an error: the
// buffer still holds the most recent samples.
func (l *line) Read(p []byte) (int, error) {
	if err := l.stream.Read(); err != nil && err != portaudio.InputOverflowed {
		return 0, fmt.Errorf("portaudio: read stream: %w", err)
	}
	order := binary.ByteOrder(binary.LittleEndian)
	if l.bigEndian {
		order = binary.BigEndian
	}
	n := len(l.buf)
	if max := len(p) / 2; n > max {
		n = max
	}
	for i := 0; i < n; i++ {
		order.PutUint16(p[2*i:], uint16(l.buf[i]))
	}
	return n * 2, nil
}

func (l *line) Close() error {
	if err := l.stream.Close(); err != nil {
		return fmt.Errorf("portaudio: close stream: %w", err)
	}
	return nil
}
