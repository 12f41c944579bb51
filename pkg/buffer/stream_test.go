package buffer

import (
	"sync"
	"testing"
	"time"
)

func TestStream_AppendTryNext(t *testing.T) {
	s := NewStream[int](4)

	for i := 1; i <= 3; i++ {
		if err := s.Append(i); err != nil {
			t.Fatalf("Append(%d): %v", i, err)
		}
	}
	if s.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", s.Len())
	}

	for i := 1; i <= 3; i++ {
		v, ok, closed := s.TryNext()
		if !ok || closed {
			t.Fatalf("TryNext() = (%d, %v, %v), want (%d, true, false)", v, ok, closed, i)
		}
		if v != i {
			t.Fatalf("TryNext() = %d, want %d", v, i)
		}
	}

	if _, ok, closed := s.TryNext(); ok || closed {
		t.Fatalf("TryNext() on empty open stream = (_, %v, %v), want (_, false, false)", ok, closed)
	}
}

func TestStream_CloseWrite(t *testing.T) {
	s := NewStream[string](1)
	if err := s.Append("a"); err != nil {
		t.Fatalf("Append: %v", err)
	}
	s.CloseWrite()
	s.CloseWrite() // idempotent

	// Unread data survives the close.
	v, ok, _ := s.TryNext()
	if !ok || v != "a" {
		t.Fatalf("TryNext() after close = (%q, %v), want (\"a\", true)", v, ok)
	}
	if _, ok, closed := s.TryNext(); ok || !closed {
		t.Fatalf("TryNext() on drained closed stream = (_, %v, %v), want (_, false, true)", ok, closed)
	}

	if err := s.Append("b"); err == nil {
		t.Fatal("Append after CloseWrite succeeded, want error")
	}
}

func TestStream_RetainsHistory(t *testing.T) {
	s := NewStream[int](2)
	s.Append(10)
	s.Append(20)
	s.TryNext()
	s.TryNext()

	all := s.All()
	if len(all) != 2 || all[0] != 10 || all[1] != 20 {
		t.Fatalf("All() = %v, want [10 20]", all)
	}
	if s.Size() != 2 {
		t.Fatalf("Size() = %d, want 2", s.Size())
	}
	if s.Len() != 0 {
		t.Fatalf("Len() = %d, want 0", s.Len())
	}
}

// TestStream_ProducerConsumerOrder checks that a consumer observes every
// element exactly once in append order, regardless of how the two sides
// interleave.
func TestStream_ProducerConsumerOrder(t *testing.T) {
	const n = 1000
	s := NewStream[int](16)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < n; i++ {
			if err := s.Append(i); err != nil {
				t.Errorf("Append(%d): %v", i, err)
				return
			}
			if i%97 == 0 {
				time.Sleep(time.Millisecond)
			}
		}
		s.CloseWrite()
	}()

	var got []int
	for {
		v, ok, closed := s.TryNext()
		if ok {
			got = append(got, v)
			continue
		}
		if closed {
			break
		}
		<-s.Wait()
	}
	wg.Wait()

	if len(got) != n {
		t.Fatalf("consumed %d elements, want %d", len(got), n)
	}
	for i, v := range got {
		if v != i {
			t.Fatalf("got[%d] = %d, want %d", i, v, i)
		}
	}
}

func TestStream_WaitWakesOnClose(t *testing.T) {
	s := NewStream[int](1)
	done := make(chan struct{})
	go func() {
		<-s.Wait()
		close(done)
	}()
	s.CloseWrite()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("consumer blocked on Wait after CloseWrite")
	}
}
