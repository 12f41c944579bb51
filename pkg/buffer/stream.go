// Package buffer provides the producer/consumer sequence type the capture
// pipeline hands frames through.
package buffer

import (
	"fmt"
	"io"
	"sync"
)

// Stream is an append-only sequence shared by exactly one producer and one
// consumer. Consuming an element does not discard it: the consumer advances
// a read cursor over a retained history, so the complete sequence stays
// addressable through All even after it has been drained.
//
// Append and TryNext never block. A consumer that wants to sleep between
// polls receives from the channel returned by Wait, which is signalled on
// every append and closed when the write side closes. Whether an empty
// TryNext means "closed for good" or "nothing yet" is reported alongside the
// element; interpreting "nothing yet" is the caller's job.
type Stream[T any] struct {
	writeNotify chan struct{}

	mu     sync.Mutex
	buf    []T
	cursor int
	closed bool
}

// NewStream creates a Stream with the given initial capacity hint.
func NewStream[T any](n int) *Stream[T] {
	return &Stream[T]{
		writeNotify: make(chan struct{}, 1),
		buf:         make([]T, 0, n),
	}
}

// Append adds one element to the tail of the sequence and signals a waiting
// consumer. It never blocks. Appending to a closed stream is an error.
func (s *Stream[T]) Append(t T) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return fmt.Errorf("buffer: append to closed stream: %w", io.ErrClosedPipe)
	}
	s.buf = append(s.buf, t)
	select {
	case s.writeNotify <- struct{}{}:
	default:
	}
	return nil
}

// TryNext returns the next unread element and advances the read cursor.
// When no unread element is available, ok is false and closed reports
// whether the write side has been closed, i.e. whether more elements can
// still arrive. Both are decided under one lock, so an append can never
// slip between the two answers.
func (s *Stream[T]) TryNext() (t T, ok, closed bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cursor < len(s.buf) {
		t = s.buf[s.cursor]
		s.cursor++
		return t, true, s.closed
	}
	return t, false, s.closed
}

// Wait returns a channel to block on until the next append or close.
// A pending append may already be buffered on it; after waking, the consumer
// should call TryNext again.
func (s *Stream[T]) Wait() <-chan struct{} {
	return s.writeNotify
}

// CloseWrite closes the write side. Unread elements remain readable through
// TryNext; a blocked consumer is woken. Idempotent.
func (s *Stream[T]) CloseWrite() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	close(s.writeNotify)
}

// Closed reports whether the write side has been closed.
func (s *Stream[T]) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// Len returns the number of unread elements.
func (s *Stream[T]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.buf) - s.cursor
}

// Size returns the total number of elements ever appended.
func (s *Stream[T]) Size() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.buf)
}

// All returns a copy of the complete sequence, read and unread alike.
func (s *Stream[T]) All() []T {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]T, len(s.buf))
	copy(out, s.buf)
	return out
}
