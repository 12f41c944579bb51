package store_test

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/presentformyfriends/sphinx4/pkg/audio/pcm"
	"github.com/presentformyfriends/sphinx4/pkg/store"
)

// newStore creates an in-memory store for testing.
func newStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.Open(store.Options{InMemory: true})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func newRecording(created time.Time, data []byte) store.Recording {
	f := pcm.DefaultFormat
	return store.Recording{
		ID:         uuid.NewString(),
		CreatedAt:  created,
		Duration:   f.Duration(int64(len(data))),
		Frames:     1,
		Bytes:      int64(len(data)),
		SampleRate: f.SampleRate,
		Depth:      f.Depth,
		Channels:   f.Channels,
		Signed:     f.Signed,
		BigEndian:  f.BigEndian,
	}
}

func TestStorePutGet(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	data := []byte{1, 2, 3, 4}
	rec := newRecording(time.Now().UTC(), data)
	if err := s.Put(ctx, rec, data); err != nil {
		t.Fatalf("Put: %v", err)
	}

	got, err := s.Get(ctx, rec.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.ID != rec.ID || got.Bytes != rec.Bytes || !got.CreatedAt.Equal(rec.CreatedAt) {
		t.Fatalf("Get = %+v, want %+v", got, rec)
	}
	if got.Format() != pcm.DefaultFormat {
		t.Fatalf("Format() = %v, want %v", got.Format(), pcm.DefaultFormat)
	}

	pcmData, err := s.PCM(ctx, rec.ID)
	if err != nil {
		t.Fatalf("PCM: %v", err)
	}
	if !bytes.Equal(pcmData, data) {
		t.Fatalf("PCM = %v, want %v", pcmData, data)
	}
}

func TestStoreNotFound(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	if _, err := s.Get(ctx, "missing"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("Get missing = %v, want ErrNotFound", err)
	}
	if _, err := s.PCM(ctx, "missing"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("PCM missing = %v, want ErrNotFound", err)
	}
	if err := s.Delete(ctx, "missing"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("Delete missing = %v, want ErrNotFound", err)
	}
}

func TestStoreList(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	base := time.Now().UTC()
	// Insert out of chronological order; List must sort by CreatedAt.
	recs := []store.Recording{
		newRecording(base.Add(2*time.Second), []byte{1, 2}),
		newRecording(base, []byte{3, 4}),
		newRecording(base.Add(time.Second), []byte{5, 6}),
	}
	for _, r := range recs {
		if err := s.Put(ctx, r, []byte{0, 0}); err != nil {
			t.Fatalf("Put: %v", err)
		}
	}

	got, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("List returned %d recordings, want 3", len(got))
	}
	want := []string{recs[1].ID, recs[2].ID, recs[0].ID}
	for i, id := range want {
		if got[i].ID != id {
			t.Fatalf("List[%d].ID = %s, want %s", i, got[i].ID, id)
		}
	}
}

func TestStoreDelete(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	data := []byte{9, 9}
	rec := newRecording(time.Now().UTC(), data)
	if err := s.Put(ctx, rec, data); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := s.Delete(ctx, rec.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := s.Get(ctx, rec.ID); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("Get after delete = %v, want ErrNotFound", err)
	}
	if _, err := s.PCM(ctx, rec.ID); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("PCM after delete = %v, want ErrNotFound", err)
	}

	list, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 0 {
		t.Fatalf("List after delete = %d recordings, want 0", len(list))
	}
}

func TestStorePutEmptyID(t *testing.T) {
	s := newStore(t)
	if err := s.Put(context.Background(), store.Recording{}, nil); err == nil {
		t.Fatal("expected error for empty recording ID")
	}
}
