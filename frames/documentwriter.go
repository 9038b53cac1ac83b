package frames

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"
)

// EntriesChecksum hashes frame entries in a layout independent of the chunk encoding.
func EntriesChecksum(entries []FrameEntry) uint64 {
	d := xxhash.New()
	buffer := make([]byte, 17)
	for _, e := range entries {
		binary.LittleEndian.PutUint64(buffer, uint64(int64(e.FrameNumber)))
		binary.LittleEndian.PutUint64(buffer[8:], uint64(int64(e.DrawingIndex)))
		buffer[16] = byte(e.Flags)
		_, _ = d.Write(buffer)
	}
	return d.Sum64()
}

// WriteDocument encodes doc as a sequence of chunks.
func WriteDocument(w io.Writer, doc *Document) error {
	dw := documentWriter{w: w}
	if err := dw.writeInfo(doc); err != nil {
		return fmt.Errorf("WriteDocument: %v", err)
	}
	for _, d := range doc.Drawings {
		if err := dw.writeDrawing(d); err != nil {
			return fmt.Errorf("WriteDocument: %v", err)
		}
	}
	if err := dw.writeGroup(doc.Tree, doc.Tree.Root); err != nil {
		return fmt.Errorf("WriteDocument: %v", err)
	}
	return nil
}

type documentWriter struct {
	w io.Writer
}

func (dw *documentWriter) writeChunk(chunkType TagType, e *Encoder) error {
	payload := e.Bytes()
	if len(payload) > math.MaxInt32 {
		return fmt.Errorf("chunk %v too large: %d", chunkType, len(payload))
	}
	err := WriteHeader(dw.w, Header{
		Size: int32(len(payload)),
		Info: HeaderInfo{
			ChunkType:  chunkType,
			MinVersion: minVersion,
			CurVersion: currentVersion,
		},
	})
	if err != nil {
		return err
	}
	_, err = dw.w.Write(payload)
	return err
}

func (dw *documentWriter) writeInfo(doc *Document) error {
	var e Encoder
	e.WriteUUID(1, doc.Id)
	e.WriteString(2, doc.Name)
	e.WriteUUID(3, doc.Tree.Root.Id)
	e.WriteUUID(4, doc.ActiveLayer)
	s := doc.OnionSkinning
	e.WriteItem(5, func(item *Encoder) {
		item.WriteUInt8(1, byte(s.Mode))
		item.WriteInt(2, int32(s.FramesBefore))
		item.WriteInt(3, int32(s.FramesAfter))
		item.WriteBool(4, s.Loop)
	})
	return dw.writeChunk(DocumentInfoTag, &e)
}

func (dw *documentWriter) writeDrawing(d *Drawing) error {
	var e Encoder
	id := uuid.Nil
	if d != nil {
		id = d.Id
	}
	e.WriteUUID(1, id)
	if d != nil {
		for _, line := range d.Lines {
			writeLine(&e, line)
		}
	}
	return dw.writeChunk(DrawingTag, &e)
}

func writeLine(e *Encoder, line *Line) {
	e.WriteItem(2, func(item *Encoder) {
		item.WriteUInt8(1, line.Color)
		item.WriteUInt8(2, line.Tool)
		item.WriteDouble(3, line.ThicknessScale)
		item.WriteItem(4, func(points *Encoder) {
			for _, p := range line.Points {
				points.s.PutFloat32(p.X)
				points.s.PutFloat32(p.Y)
				points.s.PutFloat32(float32(p.Speed) / 4)
				points.s.PutFloat32(float32(p.Direction) * 6.2831855 / 255)
				points.s.PutFloat32(float32(p.Width) / 4)
				points.s.PutFloat32(float32(p.Pressure) / 255)
			}
		})
	})
}

// writeGroup writes the children of g depth first so parents precede children.
func (dw *documentWriter) writeGroup(t *LayerTree, g *LayerGroup) error {
	for _, c := range g.Children {
		if c.IsLayer {
			l, ok := t.layers[c.Id]
			if !ok {
				return fmt.Errorf("layer %v: %w", c.Id, ErrNodeNotFound)
			}
			if err := dw.writeLayer(l, g.Id); err != nil {
				return err
			}
			continue
		}
		child, ok := t.groups[c.Id]
		if !ok {
			return fmt.Errorf("group %v: %w", c.Id, ErrNodeNotFound)
		}
		var e Encoder
		e.WriteUUID(1, child.Id)
		e.WriteUUID(2, g.Id)
		e.WriteString(3, child.Name)
		if err := dw.writeChunk(GroupTag, &e); err != nil {
			return err
		}
		if err := dw.writeGroup(t, child); err != nil {
			return err
		}
	}
	return nil
}

func (dw *documentWriter) writeLayer(l *Layer, parent uuid.UUID) error {
	var e Encoder
	e.WriteUUID(1, l.Id)
	e.WriteUUID(2, parent)
	e.WriteString(3, l.Name)
	e.WriteBool(4, l.IsVisible)
	e.WriteBool(5, l.IsLocked)
	e.WriteBool(6, l.UseOnionSkinning)
	if err := dw.writeChunk(LayerTag, &e); err != nil {
		return err
	}

	entries := l.Entries()
	e = Encoder{}
	e.WriteUUID(1, l.Id)
	e.WriteUInt64(2, EntriesChecksum(entries))
	for _, entry := range entries {
		if entry.FrameNumber < math.MinInt32 || entry.FrameNumber > math.MaxInt32 {
			return fmt.Errorf("layer %s: frame number out of range: %d", l.Name, entry.FrameNumber)
		}
		e.WriteItem(3, func(item *Encoder) {
			item.WriteInt(1, int32(entry.FrameNumber))
			item.WriteInt(2, int32(entry.DrawingIndex))
			item.WriteUInt8(3, byte(entry.Flags))
		})
	}
	return dw.writeChunk(FramesTag, &e)
}
