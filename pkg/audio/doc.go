// Package audio provides audio capture and format handling.
//
// This package serves as an umbrella for audio-related sub-packages:
//
//   - pcm: PCM (Pulse Code Modulation) format description and sample codecs
//   - capture: real-time frame capture from an input device
//   - portaudio: PortAudio-backed capture devices
//   - wav: RIFF/WAVE encoding for export
//
// Example usage:
//
//	import (
//	    "github.com/presentformyfriends/sphinx4/pkg/audio/capture"
//	    "github.com/presentformyfriends/sphinx4/pkg/audio/portaudio"
//	)
//
//	mic := capture.New(portaudio.NewDevice(""), capture.Config{})
//	if err := mic.Start(); err != nil { ... }
package audio
