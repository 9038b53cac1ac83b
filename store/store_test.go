package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/ddvk/layerframes/frames"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.etcd.io/bbolt"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "nested", "frames.db"), Options{NoSync: true})
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func testDocument() *frames.Document {
	doc := frames.NewDocument("shot")
	l := doc.AddLayer(nil, "ink")
	doc.InsertKeyframe(l, 0, 4)
	doc.InsertKeyframe(l, 6, 0)
	return doc
}

func TestSaveLoad(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	doc := testDocument()

	rev, err := s.Save(ctx, "shot", doc)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), rev)

	got, err := s.Load(ctx, "shot")
	require.NoError(t, err)
	assert.Equal(t, doc.Id, got.Id)
	l, ok := got.GetActiveLayer()
	require.True(t, ok)
	assert.Equal(t, []int{0, 4, 6}, l.SortedKeys())

	rev, err = s.Save(ctx, "shot", got)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), rev)

	rev, err = s.Revision("shot")
	require.NoError(t, err)
	assert.Equal(t, uint64(2), rev)
}

func TestLoadMissing(t *testing.T) {
	s := openTestStore(t)
	_, err := s.Load(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)

	rev, err := s.Revision("nope")
	require.NoError(t, err)
	assert.Zero(t, rev)
}

func TestCanceledContext(t *testing.T) {
	s := openTestStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.Save(ctx, "shot", testDocument())
	assert.ErrorIs(t, err, context.Canceled)
	_, err = s.Load(ctx, "shot")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestListDelete(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	for _, name := range []string{"b", "a", "c"} {
		_, err := s.Save(ctx, name, testDocument())
		require.NoError(t, err)
	}

	names, err := s.List()
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, names)

	require.NoError(t, s.Delete("b"))
	assert.ErrorIs(t, s.Delete("b"), ErrNotFound)

	names, err = s.List()
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "c"}, names)
}

func TestLoadDetectsCorruption(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	_, err := s.Save(ctx, "shot", testDocument())
	require.NoError(t, err)

	err = s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(documentsBucket).Bucket([]byte("shot"))
		data := append([]byte(nil), b.Get(keyData)...)
		data[len(data)-1] ^= 0xff
		return b.Put(keyData, data)
	})
	require.NoError(t, err)

	_, err = s.Load(ctx, "shot")
	assert.ErrorIs(t, err, ErrChecksumMismatch)
}
