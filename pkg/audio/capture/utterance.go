package capture

import (
	"time"

	"github.com/google/uuid"

	"github.com/presentformyfriends/sphinx4/pkg/audio/pcm"
	"github.com/presentformyfriends/sphinx4/pkg/buffer"
)

// Utterance is one bounded recording episode: the ordered sequence of raw
// frames captured between Start and Stop. Frames are appended only by the
// capture worker and consumed only through Microphone.Next; they stay
// retained after consumption so that Bytes can return the complete
// recording.
type Utterance struct {
	id      string
	format  pcm.Format
	created time.Time
	frames  *buffer.Stream[[]byte]
}

func newUtterance(f pcm.Format) *Utterance {
	return &Utterance{
		id:      uuid.NewString(),
		format:  f,
		created: time.Now(),
		frames:  buffer.NewStream[[]byte](64),
	}
}

// append adds one captured frame. An append racing a Reset that superseded
// this utterance lands on a closed stream and is dropped.
func (u *Utterance) append(frame []byte) {
	_ = u.frames.Append(frame)
}

// ID returns the utterance's unique identifier.
func (u *Utterance) ID() string { return u.id }

// Format returns the PCM format the utterance was captured in.
func (u *Utterance) Format() pcm.Format { return u.format }

// CreatedAt returns the utterance's creation time.
func (u *Utterance) CreatedAt() time.Time { return u.created }

// Frames returns the number of frames captured so far.
func (u *Utterance) Frames() int { return u.frames.Size() }

// Bytes returns all audio captured into the utterance so far, consumed or
// not, as one contiguous buffer.
func (u *Utterance) Bytes() []byte {
	frames := u.frames.All()
	n := 0
	for _, f := range frames {
		n += len(f)
	}
	out := make([]byte, 0, n)
	for _, f := range frames {
		out = append(out, f...)
	}
	return out
}

// Duration returns the duration of the audio captured so far.
func (u *Utterance) Duration() time.Duration {
	n := int64(0)
	for _, f := range u.frames.All() {
		n += int64(len(f))
	}
	return u.format.Duration(n)
}
