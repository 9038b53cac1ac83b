package frames

import (
	"bytes"
	"io"
	"math"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleDocument(t *testing.T) *Document {
	t.Helper()
	doc := NewDocument("walk cycle")
	doc.OnionSkinning = OnionSkinningSettings{
		Mode:         OnionSkinningAbsolute,
		FramesBefore: 3,
		FramesAfter:  2,
		Loop:         true,
	}

	bg := doc.AddLayer(nil, "background")
	bg.IsLocked = true
	drawing, f := doc.InsertKeyframe(bg, 0, 0)
	require.NotNil(t, f)
	line := &Line{Color: 2, Tool: 17, ThicknessScale: 1.5}
	line.AddPoint(&PenPoint{X: 1.5, Y: -2, Speed: 12, Width: 8, Direction: 255, Pressure: 0})
	line.AddPoint(&PenPoint{X: 100, Y: 0.25, Speed: 0, Width: 4, Direction: 0, Pressure: 255})
	drawing.AddLine(line)

	chars := doc.Tree.AddGroup(nil, "characters")
	faces := doc.Tree.AddGroup(chars, "faces")
	hero := doc.AddLayer(chars, "hero")
	hero.UseOnionSkinning = false
	doc.InsertKeyframe(hero, -4, 2)
	doc.InsertKeyframe(hero, 10, 0)
	hero.SelectFrame(10, true)
	doc.AddLayer(faces, "eyes")

	doc.Drawings = append(doc.Drawings, nil)
	doc.ActiveLayer = hero.Id
	return doc
}

func TestDocumentRoundTrip(t *testing.T) {
	doc := sampleDocument(t)
	var buf bytes.Buffer
	require.NoError(t, WriteDocument(&buf, doc))

	got, err := ReadDocument(&buf)
	require.NoError(t, err)

	assert.Equal(t, doc.Id, got.Id)
	assert.Equal(t, doc.Name, got.Name)
	assert.Equal(t, doc.ActiveLayer, got.ActiveLayer)
	assert.Equal(t, doc.OnionSkinning, got.OnionSkinning)
	assert.Equal(t, doc.Tree.Root.Id, got.Tree.Root.Id)
	assert.Equal(t, doc.Tree.Root.Children, got.Tree.Root.Children)

	require.Len(t, got.Drawings, len(doc.Drawings))
	assert.Nil(t, got.Drawings[3])
	assert.Equal(t, doc.Drawings[0], got.Drawings[0])
	assert.Equal(t, doc.Drawings[1].Id, got.Drawings[1].Id)
	assert.Empty(t, got.Drawings[1].Lines)

	want := doc.Tree.Layers()
	layers := got.Tree.Layers()
	require.Len(t, layers, len(want))
	for i, l := range layers {
		assert.Equal(t, want[i].Id, l.Id)
		assert.Equal(t, want[i].Name, l.Name)
		assert.Equal(t, want[i].IsVisible, l.IsVisible)
		assert.Equal(t, want[i].IsLocked, l.IsLocked)
		assert.Equal(t, want[i].UseOnionSkinning, l.UseOnionSkinning)
		assert.Equal(t, want[i].Entries(), l.Entries())
		assert.Equal(t, want[i].ParentGroup().Id, l.ParentGroup().Id)
		assert.False(t, l.FramesMapChanged())
		assert.False(t, l.FramesMapKeysChanged())
	}

	groups := got.Tree.Groups()
	require.Len(t, groups, 2)
	assert.Equal(t, "characters", groups[0].Name)
	assert.Equal(t, groups[0], groups[1].ParentGroup())

	hero, ok := got.GetActiveLayer()
	require.True(t, ok)
	assert.Equal(t, []int{10}, hero.SelectedFrames())
	assert.Equal(t, NullIndex, hero.DrawingIndexAt(-2))
}

func TestReadEmptyInput(t *testing.T) {
	doc, err := ReadDocument(bytes.NewReader(nil))
	require.NoError(t, err)
	assert.Empty(t, doc.Tree.Layers())
	assert.Equal(t, DefaultOnionSkinningSettings(), doc.OnionSkinning)
}

func TestReadTruncated(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteDocument(&buf, sampleDocument(t)))
	data := buf.Bytes()

	for _, n := range []int{2, 5, len(data) - 3} {
		_, err := ReadDocument(bytes.NewReader(data[:n]))
		assert.ErrorIs(t, err, io.ErrUnexpectedEOF, "cut at %d", n)
	}
}

func TestReadOversizedChunkHeader(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteHeader(&buf, Header{
		Size: math.MaxInt32,
		Info: HeaderInfo{ChunkType: DrawingTag, MinVersion: 1, CurVersion: 1},
	}))
	buf.Write([]byte{1, 2, 3})

	_, err := ReadDocument(&buf)
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
}

func TestReadSkipsUnknownChunk(t *testing.T) {
	doc := sampleDocument(t)
	var buf bytes.Buffer
	require.NoError(t, WriteDocument(&buf, doc))

	var unknown bytes.Buffer
	require.NoError(t, WriteHeader(&unknown, Header{
		Size: 3,
		Info: HeaderInfo{ChunkType: 9, MinVersion: 1, CurVersion: 4},
	}))
	unknown.Write([]byte{1, 2, 3})

	got, err := ReadDocument(io.MultiReader(&unknown, &buf))
	require.NoError(t, err)
	assert.Len(t, got.Tree.Layers(), 3)
}

func TestReadRejectsNewerChunk(t *testing.T) {
	var buf bytes.Buffer
	var e Encoder
	e.WriteUUID(1, uuid.New())
	require.NoError(t, WriteHeader(&buf, Header{
		Size: int32(len(e.Bytes())),
		Info: HeaderInfo{ChunkType: DocumentInfoTag, MinVersion: currentVersion + 1, CurVersion: currentVersion + 1},
	}))
	buf.Write(e.Bytes())

	_, err := ReadDocument(&buf)
	assert.ErrorIs(t, err, ErrUnsupported)
}

func TestReadChecksumMismatch(t *testing.T) {
	l := NewLayer("ink")
	var buf bytes.Buffer
	dw := documentWriter{w: &buf}
	require.NoError(t, dw.writeLayer(l, uuid.Nil))

	var e Encoder
	e.WriteUUID(1, l.Id)
	e.WriteUInt64(2, 12345)
	e.WriteItem(3, func(item *Encoder) {
		item.WriteInt(1, 0)
		item.WriteInt(2, 0)
		item.WriteUInt8(3, 0)
	})
	require.NoError(t, dw.writeChunk(FramesTag, &e))

	_, err := ReadDocument(&buf)
	assert.ErrorIs(t, err, ErrChecksumMismatch)
}

func TestReadFramesForUnknownLayer(t *testing.T) {
	var buf bytes.Buffer
	dw := documentWriter{w: &buf}
	var e Encoder
	e.WriteUUID(1, uuid.New())
	require.NoError(t, dw.writeChunk(FramesTag, &e))

	_, err := ReadDocument(&buf)
	assert.ErrorIs(t, err, ErrNodeNotFound)
}

func TestWriteRejectsWideFrameNumbers(t *testing.T) {
	doc := NewDocument("wide")
	l := doc.AddLayer(nil, "ink")
	require.NotNil(t, l.AddFrame(1<<40, 0, 0))
	assert.Error(t, WriteDocument(io.Discard, doc))
}

func TestHeaderRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	h := Header{Size: 42, Info: HeaderInfo{ChunkType: FramesTag, MinVersion: 1, CurVersion: 3}}
	require.NoError(t, WriteHeader(&buf, h))
	assert.Equal(t, headerLength, buf.Len())

	got, err := ReadHeader(&buf)
	require.NoError(t, err)
	assert.Equal(t, h, got)

	_, err = ReadHeader(&buf)
	assert.Equal(t, io.EOF, err)

	_, err = ReadHeader(bytes.NewReader([]byte{0xff, 0xff, 0xff, 0xff, 0, 0, 0, 0}))
	assert.Error(t, err)
}

func TestExtractorSkipsMissingIndex(t *testing.T) {
	var e Encoder
	e.WriteInt(1, -7)
	e.WriteString(3, "hello")
	e.WriteDouble(4, 0.5)

	x := NewExtractor(e.Bytes())
	v, found, err := x.ExtractInt(1)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, int32(-7), v)

	_, found, err = x.ExtractBool(2)
	require.NoError(t, err)
	assert.False(t, found)

	s, found, err := x.ExtractString(3)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "hello", s)

	_, found, err = x.ExtractInt(5)
	require.NoError(t, err)
	assert.False(t, found)

	// the pending tag has the wrong element type
	_, _, err = x.ExtractInt(4)
	assert.ErrorIs(t, err, ErrTagMismatch)

	bob, err := x.ExtractBob()
	require.NoError(t, err)
	assert.Len(t, bob, 9)
}

func TestEntriesChecksum(t *testing.T) {
	a := []FrameEntry{{FrameNumber: 0, FrameRecord: FrameRecord{DrawingIndex: 1}}}
	b := []FrameEntry{{FrameNumber: 0, FrameRecord: FrameRecord{DrawingIndex: 1, Flags: FrameSelected}}}
	assert.Equal(t, EntriesChecksum(a), EntriesChecksum(a))
	assert.NotEqual(t, EntriesChecksum(a), EntriesChecksum(b))
	assert.NotEqual(t, EntriesChecksum(nil), EntriesChecksum(a))
}
