// Package store persists captured recordings in BadgerDB. Each recording is
// two keys: "rec:{id}:meta" holds msgpack-encoded metadata and
// "rec:{id}:pcm" holds the raw sample bytes.
package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	badger "github.com/dgraph-io/badger/v4"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/presentformyfriends/sphinx4/pkg/audio/capture"
	"github.com/presentformyfriends/sphinx4/pkg/audio/pcm"
)

// ErrNotFound is returned when no recording exists under the given ID.
var ErrNotFound = errors.New("store: recording not found")

// Recording is the stored metadata of one captured utterance.
type Recording struct {
	ID        string        `msgpack:"id"`
	CreatedAt time.Time     `msgpack:"created_at"`
	Duration  time.Duration `msgpack:"duration"`
	Frames    int           `msgpack:"frames"`
	Bytes     int64         `msgpack:"bytes"`

	SampleRate int  `msgpack:"sample_rate"`
	Depth      int  `msgpack:"depth"`
	Channels   int  `msgpack:"channels"`
	Signed     bool `msgpack:"signed"`
	BigEndian  bool `msgpack:"big_endian"`
}

// Format reconstructs the PCM format the recording was captured in.
func (r Recording) Format() pcm.Format {
	return pcm.Format{
		SampleRate: r.SampleRate,
		Depth:      r.Depth,
		Channels:   r.Channels,
		Signed:     r.Signed,
		BigEndian:  r.BigEndian,
	}
}

// FromUtterance builds recording metadata from a finished utterance.
func FromUtterance(u *capture.Utterance) Recording {
	f := u.Format()
	return Recording{
		ID:         u.ID(),
		CreatedAt:  u.CreatedAt(),
		Duration:   u.Duration(),
		Frames:     u.Frames(),
		Bytes:      int64(len(u.Bytes())),
		SampleRate: f.SampleRate,
		Depth:      f.Depth,
		Channels:   f.Channels,
		Signed:     f.Signed,
		BigEndian:  f.BigEndian,
	}
}

// Options configures the store.
type Options struct {
	// Dir is the directory for BadgerDB data files.
	// Required unless InMemory is set.
	Dir string

	// InMemory runs BadgerDB without disk persistence. Useful for tests.
	InMemory bool

	// Logger receives badger's warnings and errors. If nil, they are
	// discarded.
	Logger *slog.Logger
}

// Store is a BadgerDB-backed recording archive.
type Store struct {
	db *badger.DB
}

// Open opens (creating if necessary) the recording store.
func Open(opts Options) (*Store, error) {
	if !opts.InMemory && opts.Dir == "" {
		return nil, errors.New("store: Options.Dir is required for on-disk mode")
	}
	log := opts.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	dbOpts := badger.DefaultOptions(opts.Dir).
		WithInMemory(opts.InMemory).
		WithLogger(badgerLogger{log: log})
	db, err := badger.Open(dbOpts)
	if err != nil {
		return nil, fmt.Errorf("store: open badger: %w", err)
	}
	return &Store{db: db}, nil
}

func metaKey(id string) []byte { return []byte("rec:" + id + ":meta") }
func pcmKey(id string) []byte  { return []byte("rec:" + id + ":pcm") }

// Put stores a recording's metadata and sample bytes atomically,
// overwriting any previous recording under the same ID.
func (s *Store) Put(_ context.Context, rec Recording, data []byte) error {
	if rec.ID == "" {
		return errors.New("store: recording ID is empty")
	}
	meta, err := msgpack.Marshal(rec)
	if err != nil {
		return fmt.Errorf("store: encode metadata: %w", err)
	}
	wb := s.db.NewWriteBatch()
	defer wb.Cancel()
	if err := wb.Set(metaKey(rec.ID), meta); err != nil {
		return err
	}
	if err := wb.Set(pcmKey(rec.ID), data); err != nil {
		return err
	}
	return wb.Flush()
}

// Get returns the metadata of one recording.
func (s *Store) Get(_ context.Context, id string) (Recording, error) {
	var rec Recording
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(metaKey(id))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return msgpack.Unmarshal(val, &rec)
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return Recording{}, ErrNotFound
	}
	if err != nil {
		return Recording{}, fmt.Errorf("store: get %s: %w", id, err)
	}
	return rec, nil
}

// PCM returns the raw sample bytes of one recording.
func (s *Store) PCM(_ context.Context, id string) ([]byte, error) {
	var data []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(pcmKey(id))
		if err != nil {
			return err
		}
		data, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("store: read pcm %s: %w", id, err)
	}
	return data, nil
}

// List returns the metadata of all recordings, oldest first.
func (s *Store) List(_ context.Context) ([]Recording, error) {
	var out []Recording
	prefix := []byte("rec:")
	err := s.db.View(func(txn *badger.Txn) error {
		iterOpts := badger.DefaultIteratorOptions
		iterOpts.Prefix = prefix
		it := txn.NewIterator(iterOpts)
		defer it.Close()

		suffix := []byte(":meta")
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			item := it.Item()
			key := item.Key()
			if len(key) < len(suffix) || string(key[len(key)-len(suffix):]) != string(suffix) {
				continue
			}
			var rec Recording
			if err := item.Value(func(val []byte) error {
				return msgpack.Unmarshal(val, &rec)
			}); err != nil {
				return err
			}
			out = append(out, rec)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("store: list: %w", err)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

// Delete removes one recording. Deleting an unknown ID returns ErrNotFound.
func (s *Store) Delete(_ context.Context, id string) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(metaKey(id)); err != nil {
			return err
		}
		if err := txn.Delete(metaKey(id)); err != nil {
			return err
		}
		return txn.Delete(pcmKey(id))
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("store: delete %s: %w", id, err)
	}
	return nil
}

// Close releases the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// badgerLogger routes badger's log output to slog, dropping the chatty
// info and debug levels.
type badgerLogger struct {
	log *slog.Logger
}

func (l badgerLogger) Errorf(f string, v ...interface{})   { l.log.Error(fmt.Sprintf("badger: "+f, v...)) }
func (l badgerLogger) Warningf(f string, v ...interface{}) { l.log.Warn(fmt.Sprintf("badger: "+f, v...)) }
func (l badgerLogger) Infof(string, ...interface{})        {}
func (l badgerLogger) Debugf(string, ...interface{})       {}
