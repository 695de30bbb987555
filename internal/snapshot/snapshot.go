// Package snapshot persists a compiled app between runs of the dev loop,
// so unchanged schema documents skip recompilation.
package snapshot

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/loomkit/loom/schema"
)

// ErrStale is returned by Load when the snapshot does not match the
// current source document.
var ErrStale = errors.New("loom: snapshot is stale")

// envelope is the on-disk snapshot layout.
type envelope struct {
	// Version guards against decoding snapshots written by another
	// release.
	Version string `msgpack:"version"`
	// SourceHash is the sha256 of the source document the app was
	// compiled from.
	SourceHash string      `msgpack:"source_hash"`
	App        *schema.App `msgpack:"app"`
}

// Store reads and writes snapshots under a directory.
type Store struct {
	dir     string
	version string
}

// NewStore creates a store rooted at dir.
func NewStore(dir, version string) *Store {
	return &Store{dir: dir, version: version}
}

// hash returns the cache key of a source document.
func hash(src []byte) string {
	sum := sha256.Sum256(src)
	return hex.EncodeToString(sum[:])
}

// path is the snapshot file of a named schema document.
func (s *Store) path(name string) string {
	return filepath.Join(s.dir, name+".snapshot")
}

// Save writes the compiled app for the given source document.
func (s *Store) Save(name string, src []byte, app *schema.App) error {
	if app == nil {
		return errors.New("loom: cannot snapshot a nil app")
	}
	data, err := msgpack.Marshal(&envelope{
		Version:    s.version,
		SourceHash: hash(src),
		App:        app,
	})
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create snapshot directory: %w", err)
	}
	if err := os.WriteFile(s.path(name), data, 0o644); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	return nil
}

// Load returns the snapshotted app for the given source document. It
// returns ErrStale when the snapshot was written by another release or
// from different source text, and os.ErrNotExist when no snapshot exists.
func (s *Store) Load(name string, src []byte) (*schema.App, error) {
	data, err := os.ReadFile(s.path(name))
	if err != nil {
		return nil, err
	}
	var env envelope
	if err := msgpack.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	if env.Version != s.version || env.SourceHash != hash(src) {
		return nil, ErrStale
	}
	return env.App, nil
}

// Invalidate removes the snapshot of a schema document if present.
func (s *Store) Invalidate(name string) error {
	err := os.Remove(s.path(name))
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}
