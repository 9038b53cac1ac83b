// Package store persists encoded documents in a bbolt database.
package store

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/ddvk/layerframes/frames"
	log "github.com/sirupsen/logrus"
	"go.etcd.io/bbolt"
)

var (
	ErrNotFound         = errors.New("document not found")
	ErrChecksumMismatch = errors.New("document checksum mismatch")
)

var (
	documentsBucket = []byte("documents")

	keyData     = []byte("data")
	keySum      = []byte("sum")
	keyRevision = []byte("rev")
)

type Options struct {
	// NoSync skips fsync after each commit, only for bulk loading.
	NoSync bool
	// NoGrowSync skips the truncate call when growing the file.
	NoGrowSync bool
	// Timeout waits for the file lock, 0 waits forever.
	Timeout time.Duration
}

// Store keeps one bucket per document name holding the encoded chunks,
// their xxhash and a revision counter.
type Store struct {
	db *bbolt.DB
}

// Open opens or creates the database at path.
func Open(path string, opts Options) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("Open: %v", err)
	}
	db, err := bbolt.Open(path, 0600, &bbolt.Options{
		FreelistType: bbolt.FreelistMapType,
		NoGrowSync:   opts.NoGrowSync,
		NoSync:       opts.NoSync,
		Timeout:      opts.Timeout,
	})
	if err != nil {
		return nil, fmt.Errorf("Open: %v", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(documentsBucket)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("Open: %v", err)
	}
	log.Debugf("opened store %s", path)
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Save encodes doc and stores it under name, bumping the revision.
func (s *Store) Save(ctx context.Context, name string, doc *frames.Document) (revision uint64, err error) {
	if err = ctx.Err(); err != nil {
		return
	}
	var buf bytes.Buffer
	if err = frames.WriteDocument(&buf, doc); err != nil {
		return 0, fmt.Errorf("Save: %v", err)
	}
	payload := buf.Bytes()

	err = s.db.Update(func(tx *bbolt.Tx) error {
		b, err := tx.Bucket(documentsBucket).CreateBucketIfNotExists([]byte(name))
		if err != nil {
			return err
		}
		if v := b.Get(keyRevision); len(v) == 8 {
			revision = binary.LittleEndian.Uint64(v)
		}
		revision++
		if err = b.Put(keyData, payload); err != nil {
			return err
		}
		if err = b.Put(keySum, binary.LittleEndian.AppendUint64(nil, xxhash.Sum64(payload))); err != nil {
			return err
		}
		return b.Put(keyRevision, binary.LittleEndian.AppendUint64(nil, revision))
	})
	if err != nil {
		return 0, fmt.Errorf("Save: %v", err)
	}
	log.Debugf("saved %s revision %d (%d bytes)", name, revision, len(payload))
	return
}

// Load decodes the document stored under name.
func (s *Store) Load(ctx context.Context, name string) (*frames.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var payload []byte
	err := s.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket(documentsBucket).Bucket([]byte(name))
		if b == nil {
			return ErrNotFound
		}
		data := b.Get(keyData)
		sum := b.Get(keySum)
		if len(sum) != 8 || xxhash.Sum64(data) != binary.LittleEndian.Uint64(sum) {
			return ErrChecksumMismatch
		}
		// bbolt memory is only valid inside the transaction
		payload = append([]byte(nil), data...)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("Load %s: %w", name, err)
	}
	doc, err := frames.ReadDocument(bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("Load %s: %w", name, err)
	}
	return doc, nil
}

// Revision returns how often name was saved, 0 if it does not exist.
func (s *Store) Revision(name string) (revision uint64, err error) {
	err = s.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket(documentsBucket).Bucket([]byte(name))
		if b == nil {
			return nil
		}
		if v := b.Get(keyRevision); len(v) == 8 {
			revision = binary.LittleEndian.Uint64(v)
		}
		return nil
	})
	return
}

func (s *Store) Delete(name string) error {
	err := s.db.Update(func(tx *bbolt.Tx) error {
		err := tx.Bucket(documentsBucket).DeleteBucket([]byte(name))
		if errors.Is(err, bbolt.ErrBucketNotFound) {
			return ErrNotFound
		}
		return err
	})
	if err != nil {
		return fmt.Errorf("Delete %s: %w", name, err)
	}
	return nil
}

// List returns the stored document names in key order.
func (s *Store) List() (names []string, err error) {
	err = s.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(documentsBucket).ForEachBucket(func(k []byte) error {
			names = append(names, string(k))
			return nil
		})
	})
	return
}
