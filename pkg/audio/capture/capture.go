// Package capture implements a real-time audio capture frontend: a worker
// goroutine pulls fixed-size frames from an input Device while a pull-based
// consumer drains them as Audio records bracketed by utterance start/end
// signals.
//
// A Microphone coordinates the two sides around a {recording, closed} state
// machine guarded by a single mutex and condition variable. Start arms a
// session and wakes the worker; Stop disarms it without interrupting an
// in-flight device read; Close shuts the worker down permanently. The
// consumer calls Next repeatedly and is guaranteed, per utterance, exactly
// one SignalUtteranceStart, every captured frame in order, then exactly one
// SignalUtteranceEnd.
//
// Next is safe against concurrent Start/Stop/Close calls but is itself a
// single-consumer interface: do not call it from multiple goroutines at
// once.
package capture

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/presentformyfriends/sphinx4/pkg/audio/pcm"
)

// DefaultFrameSize is the nominal number of bytes per device read when
// Config.FrameSize is left zero.
const DefaultFrameSize = 4096

// Config configures a Microphone.
type Config struct {
	// Format is the PCM format to capture in.
	// Zero value means pcm.DefaultFormat.
	Format pcm.Format

	// FrameSize is the nominal number of bytes per device read.
	// Values below 2 are raised to 2; odd values are rounded up to even.
	// Zero means DefaultFrameSize.
	FrameSize int

	// KeepReference makes content records carry a back-reference to their
	// parent Utterance.
	KeepReference bool

	// Logger receives capture diagnostics. If nil, logging is off.
	Logger *slog.Logger
}

func (c Config) withDefaults() Config {
	if c.Format == (pcm.Format{}) {
		c.Format = pcm.DefaultFormat
	}
	if c.FrameSize <= 0 {
		c.FrameSize = DefaultFrameSize
	}
	if c.FrameSize < 2 {
		c.FrameSize = 2
	}
	if c.FrameSize%2 == 1 {
		c.FrameSize++
	}
	if c.Logger == nil {
		c.Logger = slog.New(slog.DiscardHandler)
	}
	return c
}

// Microphone captures audio from a Device and converts it into Audio
// records. The zero value is not usable; construct with New.
type Microphone struct {
	dev Device
	cfg Config
	log *slog.Logger

	mu        sync.Mutex
	cond      *sync.Cond
	recording bool
	closed    bool
	capturing bool
	line      Line
	current   *Utterance
	started   bool
	endSent   bool

	done chan struct{}
}

// New creates a Microphone over the given device and spawns its capture
// worker. The worker sleeps until Start; Close terminates it.
func New(dev Device, cfg Config) *Microphone {
	cfg = cfg.withDefaults()
	m := &Microphone{
		dev:  dev,
		cfg:  cfg,
		log:  cfg.Logger,
		done: make(chan struct{}),
	}
	m.cond = sync.NewCond(&m.mu)
	m.current = newUtterance(cfg.Format)
	go m.run()
	return m
}

// Config returns the effective configuration after defaults were applied.
func (m *Microphone) Config() Config { return m.cfg }

// Start arms a recording session: it resets the current utterance, verifies
// the device supports the configured format, opens a capture line and wakes
// the capture worker. On failure recording stays off and the microphone
// remains reusable; a later Start may succeed once the device becomes
// available.
func (m *Microphone) Start() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClosed
	}
	if m.recording {
		return ErrRecording
	}
	m.resetLocked()
	if !m.dev.Supports(m.cfg.Format) {
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, m.cfg.Format)
	}
	line, err := m.dev.Open(m.cfg.Format, m.cfg.FrameSize)
	if err != nil {
		return fmt.Errorf("capture: open device: %w", err)
	}
	m.line = line
	m.recording = true
	m.cond.Signal()
	return nil
}

// Stop disarms the recording session. It never interrupts an in-flight
// device read; the capture worker observes the cleared flag between reads,
// then stops and closes the line. At most one already-started read still
// lands in the utterance. When the worker is not inside its capture loop,
// Stop releases the line and closes the current utterance's frame stream
// directly so a blocked consumer wakes up.
func (m *Microphone) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.recording = false
	if !m.capturing {
		if m.line != nil {
			m.line.Close()
			m.line = nil
		}
		if m.current != nil {
			m.current.frames.CloseWrite()
		}
	}
}

// Close permanently shuts the microphone down and joins the capture worker.
// Start does not work afterwards. Idempotent.
func (m *Microphone) Close() error {
	m.mu.Lock()
	if !m.closed {
		m.closed = true
		m.cond.Broadcast()
		if !m.capturing {
			if m.line != nil {
				m.line.Close()
				m.line = nil
			}
			if m.current != nil {
				m.current.frames.CloseWrite()
			}
		}
	}
	m.mu.Unlock()
	<-m.done
	return nil
}

// Reset begins a fresh utterance without touching the recording state and
// re-arms the start/end signal guards. The superseded utterance's frame
// stream is closed so a consumer still holding it unblocks.
func (m *Microphone) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resetLocked()
}

func (m *Microphone) resetLocked() {
	if m.current != nil {
		m.current.frames.CloseWrite()
	}
	m.current = newUtterance(m.cfg.Format)
	m.started = false
	m.endSent = false
}

// Recording reports whether a capture session is currently armed.
func (m *Microphone) Recording() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.recording
}

// Utterance returns the current utterance.
func (m *Microphone) Utterance() *Utterance {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current
}

// Next returns the next Audio record, or (nil, nil) when the current
// utterance is exhausted and its end signal has already been delivered.
// While recording is in progress and no frame has arrived yet, Next blocks
// on the frame stream's write notification. Decode failures are returned as
// errors, never dropped.
func (m *Microphone) Next() (*Audio, error) {
	m.mu.Lock()
	if !m.started {
		m.started = true
		m.mu.Unlock()
		return &Audio{Signal: SignalUtteranceStart}, nil
	}
	u := m.current
	m.mu.Unlock()

	frame, ok := m.nextFrame(u)
	if !ok {
		m.mu.Lock()
		defer m.mu.Unlock()
		if !m.endSent {
			m.endSent = true
			return &Audio{Signal: SignalUtteranceEnd}, nil
		}
		return nil, nil
	}

	samples, err := m.cfg.Format.DecodeSamples(frame)
	if err != nil {
		return nil, fmt.Errorf("capture: decode frame: %w", err)
	}
	a := &Audio{Signal: SignalContent, Samples: samples}
	if m.cfg.KeepReference {
		a.Utterance = u
	}
	return a, nil
}

// nextFrame waits for the next unconsumed frame of u. It reports false when
// no frame will ever arrive: the frame stream is closed and drained, or
// recording is off and the worker is outside its capture loop. Every
// transition to that idle state also closes the stream, so blocking on the
// write notification cannot be missed.
func (m *Microphone) nextFrame(u *Utterance) ([]byte, bool) {
	for {
		frame, ok, closed := u.frames.TryNext()
		if ok {
			return frame, true
		}
		if closed {
			return nil, false
		}
		m.mu.Lock()
		idle := !m.recording && !m.capturing
		m.mu.Unlock()
		if idle {
			return nil, false
		}
		<-u.frames.Wait()
	}
}

// run is the capture worker: wait for permission to record, capture one
// session, repeat until closed.
func (m *Microphone) run() {
	defer close(m.done)
	for {
		m.mu.Lock()
		for !m.recording && !m.closed {
			m.cond.Wait()
		}
		if m.closed {
			m.mu.Unlock()
			m.log.Debug("capture worker finished")
			return
		}
		line := m.line
		m.capturing = true
		m.mu.Unlock()
		m.record(line)
	}
}

// record drives one capture session: read frames from the line until the
// session is disarmed, the microphone closes, or the device reports the end
// of availability. The deferred cleanup releases the line, marks the session
// over and closes the utterance's frame stream so the consumer sees a
// definitive end.
func (m *Microphone) record(line Line) {
	defer func() {
		if line != nil {
			if err := line.Stop(); err != nil {
				m.log.Debug("stop capture line", "error", err)
			}
			if err := line.Close(); err != nil {
				m.log.Debug("close capture line", "error", err)
			}
		}
		m.mu.Lock()
		m.capturing = false
		m.recording = false
		m.line = nil
		if m.current != nil {
			m.current.frames.CloseWrite()
		}
		m.mu.Unlock()
		m.log.Debug("recording stopped")
	}()

	if line == nil {
		m.log.Warn("no open line to record from")
		return
	}
	if err := line.Start(); err != nil {
		m.log.Error("start capture line", "error", err)
		return
	}
	m.log.Debug("recording started")

	for m.armed() {
		frame := make([]byte, m.cfg.FrameSize)
		n, err := line.Read(frame)
		switch {
		case n == len(frame):
			m.utterance().append(frame)
		case n > 0 || err == nil:
			m.utterance().append(shrinkFrame(frame, n))
		}
		if err != nil {
			if !errors.Is(err, io.EOF) {
				m.log.Error("read capture frame", "error", err)
			}
			return
		}
		m.log.Debug("recorded frame", "bytes", n)
	}
}

func (m *Microphone) armed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.recording && !m.closed
}

func (m *Microphone) utterance() *Utterance {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current
}

// shrinkFrame applies the end-of-session short-read rule: a read of r bytes
// retains r+2 bytes when r is even and r+3 when r is odd, copied from the
// nominal-size read buffer. The retained length is always even and is capped
// at the buffer size.
func shrinkFrame(buf []byte, r int) []byte {
	keep := r + 2
	if r%2 != 0 {
		keep = r + 3
	}
	if keep > len(buf) {
		keep = len(buf)
	}
	out := make([]byte, keep)
	copy(out, buf)
	return out
}
