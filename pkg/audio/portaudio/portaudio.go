// Package portaudio adapts PortAudio input devices to the capture.Device
// contract. It wraps the github.com/gordonklaus/portaudio bindings with
// blocking reads, so the capture worker's pull loop maps directly onto
// Pa_ReadStream.
package portaudio

import (
	"fmt"
	"sync"

	"github.com/gordonklaus/portaudio"
)

var (
	initOnce sync.Once
	initErr  error
)

// initialize brings the PortAudio runtime up once per process.
func initialize() error {
	initOnce.Do(func() {
		initErr = portaudio.Initialize()
	})
	return initErr
}

// Terminate releases the PortAudio runtime. Call once at process shutdown,
// after all lines are closed.
func Terminate() error {
	return portaudio.Terminate()
}

// DeviceInfo describes one audio input device.
type DeviceInfo struct {
	Index             int
	Name              string
	HostAPI           string
	MaxInputChannels  int
	DefaultSampleRate float64
	IsDefaultInput    bool
}

// InputDevices lists the capture-capable devices on this host.
func InputDevices() ([]DeviceInfo, error) {
	if err := initialize(); err != nil {
		return nil, fmt.Errorf("portaudio: initialize: %w", err)
	}
	devs, err := portaudio.Devices()
	if err != nil {
		return nil, fmt.Errorf("portaudio: list devices: %w", err)
	}
	def, _ := portaudio.DefaultInputDevice()

	var out []DeviceInfo
	for i, d := range devs {
		if d.MaxInputChannels <= 0 {
			continue
		}
		info := DeviceInfo{
			Index:             i,
			Name:              d.Name,
			MaxInputChannels:  d.MaxInputChannels,
			DefaultSampleRate: d.DefaultSampleRate,
			IsDefaultInput:    def != nil && d == def,
		}
		if d.HostApi != nil {
			info.HostAPI = d.HostApi.Name
		}
		out = append(out, info)
	}
	return out, nil
}
