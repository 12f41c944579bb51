// Package export writes recordings out of the archive as WAVE files, either
// to a local directory or to an S3-compatible bucket.
package export

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/presentformyfriends/sphinx4/pkg/audio/wav"
	"github.com/presentformyfriends/sphinx4/pkg/store"
)

// Sink is a destination for exported files.
//
// Names are forward-slash separated and relative to the sink root.
// Implementations must be safe for concurrent use.
type Sink interface {
	// Put writes one file, overwriting any existing file of that name.
	Put(ctx context.Context, name, contentType string, r io.Reader) error

	// Exists reports whether the named file is already present.
	Exists(ctx context.Context, name string) (bool, error)

	// Remove deletes the named file. Removing a missing file is not an
	// error.
	Remove(ctx context.Context, name string) error
}

// WAV encodes a recording's samples as a WAVE file and writes it to the
// sink. The file is named {timestamp}-{id}.wav and the name is returned.
func WAV(ctx context.Context, sink Sink, rec store.Recording, data []byte) (string, error) {
	encoded, err := wav.Bytes(rec.Format(), data)
	if err != nil {
		return "", err
	}
	name := fmt.Sprintf("%s-%s.wav", rec.CreatedAt.UTC().Format("20060102-150405"), rec.ID)
	if err := sink.Put(ctx, name, "audio/wav", bytes.NewReader(encoded)); err != nil {
		return "", fmt.Errorf("export: put %s: %w", name, err)
	}
	return name, nil
}
