package frames

import (
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

var (
	ErrChecksumMismatch = errors.New("frames checksum mismatch")
	ErrUnsupported      = errors.New("unsupported chunk version")
)

// DocumentReader rebuilds a Document from the chunks written by WriteDocument.
type DocumentReader struct {
	e   *Extractor
	doc *Document
}

// ReadDocument reads chunks until EOF.
func ReadDocument(r io.Reader) (doc *Document, err error) {
	dr := DocumentReader{}
	return dr.ExtractDocument(r)
}

func (s *DocumentReader) ExtractDocument(r io.Reader) (doc *Document, err error) {
	doc = &Document{
		Tree:          NewTree(),
		OnionSkinning: DefaultOnionSkinningSettings(),
	}
	s.doc = doc

	var pos int64
	var header Header
	for {
		header, err = ReadHeader(r)
		if err == io.EOF {
			err = nil
			return
		}
		if err != nil {
			return nil, fmt.Errorf("ExtractDocument: %w", err)
		}
		log.Tracef("%v, position:\t0x%-x", header, pos)

		err = s.parsePayload(header, r)
		if err != nil {
			return nil, fmt.Errorf("ExtractDocument: chunk at 0x%x: %w", pos, err)
		}
		pos = pos + headerLength + int64(header.Size)
	}
}

func (s *DocumentReader) parsePayload(header Header, r io.Reader) (err error) {
	// the payload grows with the data actually read, not with the declared size
	buffer, err := io.ReadAll(io.LimitReader(r, int64(header.Size)))
	if err != nil {
		return
	}
	if len(buffer) < int(header.Size) {
		return fmt.Errorf("chunk %v: %w: %d of %d bytes", header.Info.ChunkType, io.ErrUnexpectedEOF, len(buffer), header.Size)
	}
	if header.Info.MinVersion > currentVersion {
		return fmt.Errorf("%w: %v needs %d", ErrUnsupported, header.Info.ChunkType, header.Info.MinVersion)
	}
	s.e = NewExtractor(buffer)

	switch header.Info.ChunkType {
	case DocumentInfoTag:
		err = s.readInfo()
	case DrawingTag:
		err = s.readDrawing()
	case GroupTag:
		err = s.readGroup()
	case LayerTag:
		err = s.readLayer()
	case FramesTag:
		err = s.readFrames()
	default:
		log.Warn("unhandled type: ", header.Info.ChunkType)
		return nil
	}
	if err != nil {
		s.e.Debug()
		return
	}

	bob, err := s.e.ExtractBob()
	if len(bob) > 0 {
		log.Warnf("Discarding unhandled: %d bytes", len(bob))
	}
	return err
}

func (s *DocumentReader) readInfo() (err error) {
	s.doc.Id, _, err = s.e.ExtractUUID(1)
	if err != nil {
		return
	}
	s.doc.Name, _, err = s.e.ExtractString(2)
	if err != nil {
		return
	}
	rootId, found, err := s.e.ExtractUUID(3)
	if err != nil {
		return
	}
	if found {
		s.doc.Tree.setRootId(rootId)
	}
	s.doc.ActiveLayer, _, err = s.e.ExtractUUID(4)
	if err != nil {
		return
	}
	_, _, found, err = s.e.ExtractItem(5)
	if err != nil || !found {
		return
	}
	settings := &s.doc.OnionSkinning
	mode, _, err := s.e.ExtractByte(1)
	if err != nil {
		return
	}
	settings.Mode = OnionSkinningMode(mode)
	before, _, err := s.e.ExtractInt(2)
	if err != nil {
		return
	}
	settings.FramesBefore = int(before)
	after, _, err := s.e.ExtractInt(3)
	if err != nil {
		return
	}
	settings.FramesAfter = int(after)
	settings.Loop, _, err = s.e.ExtractBool(4)
	return
}

func (s *DocumentReader) readDrawing() (err error) {
	id, _, err := s.e.ExtractUUID(1)
	if err != nil {
		return
	}
	if id == uuid.Nil {
		s.doc.Drawings = append(s.doc.Drawings, nil)
		return
	}
	drawing := &Drawing{Id: id}
	for {
		var line *Line
		line, err = s.readLine()
		if err != nil {
			return
		}
		if line == nil {
			break
		}
		drawing.AddLine(line)
	}
	s.doc.Drawings = append(s.doc.Drawings, drawing)
	return
}

func (s *DocumentReader) readLine() (line *Line, err error) {
	_, _, found, err := s.e.ExtractItem(2)
	if err != nil || !found {
		return
	}
	line = &Line{}
	line.Color, _, err = s.e.ExtractByte(1)
	if err != nil {
		return
	}
	line.Tool, _, err = s.e.ExtractByte(2)
	if err != nil {
		return
	}
	line.ThicknessScale, _, err = s.e.ExtractDouble(3)
	if err != nil {
		return
	}
	length, _, found, err := s.e.ExtractItem(4)
	if err != nil || !found {
		return
	}
	nPoints := length / 0x18
	for i := 0; i < nPoints; i++ {
		point := &PenPoint{}
		point.X, err = s.e.d.GetFloat32()
		if err != nil {
			return
		}
		point.Y, err = s.e.d.GetFloat32()
		if err != nil {
			return
		}
		var tmp float32
		tmp, err = s.e.d.GetFloat32()
		if err != nil {
			return
		}
		point.Speed = int16(math.Round(float64(tmp) * 4))

		tmp, err = s.e.d.GetFloat32()
		if err != nil {
			return
		}
		point.Direction = byte(math.Round(float64(255 * tmp / 6.2831855)))

		tmp, err = s.e.d.GetFloat32()
		if err != nil {
			return
		}
		point.Width = int16(math.Round(float64(tmp) * 4))

		tmp, err = s.e.d.GetFloat32()
		if err != nil {
			return
		}
		point.Pressure = byte(math.Round(float64(255 * tmp)))

		line.AddPoint(point)
	}
	return
}

func (s *DocumentReader) parentGroup(parentId uuid.UUID) *LayerGroup {
	parent, ok := s.doc.Tree.groups[parentId]
	if !ok {
		log.Warn("Parent not found! ", parentId)
		return s.doc.Tree.Root
	}
	return parent
}

func (s *DocumentReader) readGroup() (err error) {
	g := &LayerGroup{}
	g.Id, _, err = s.e.ExtractUUID(1)
	if err != nil {
		return
	}
	parentId, _, err := s.e.ExtractUUID(2)
	if err != nil {
		return
	}
	g.Name, _, err = s.e.ExtractString(3)
	if err != nil {
		return
	}
	s.doc.Tree.insertGroup(s.parentGroup(parentId), g)
	return
}

func (s *DocumentReader) readLayer() (err error) {
	l := &Layer{frames: NewFrameMap()}
	l.Id, _, err = s.e.ExtractUUID(1)
	if err != nil {
		return
	}
	parentId, _, err := s.e.ExtractUUID(2)
	if err != nil {
		return
	}
	l.Name, _, err = s.e.ExtractString(3)
	if err != nil {
		return
	}
	l.IsVisible, _, err = s.e.ExtractBool(4)
	if err != nil {
		return
	}
	l.IsLocked, _, err = s.e.ExtractBool(5)
	if err != nil {
		return
	}
	l.UseOnionSkinning, _, err = s.e.ExtractBool(6)
	if err != nil {
		return
	}
	s.doc.Tree.InsertLayer(s.parentGroup(parentId), l)
	return
}

func (s *DocumentReader) readFrames() (err error) {
	layerId, _, err := s.e.ExtractUUID(1)
	if err != nil {
		return
	}
	layer, ok := s.doc.Tree.Layer(layerId)
	if !ok {
		return fmt.Errorf("frames for unknown layer %v: %w", layerId, ErrNodeNotFound)
	}
	checksum, hasChecksum, err := s.e.ExtractUInt64(2)
	if err != nil {
		return
	}

	var entries []FrameEntry
	for {
		var found bool
		_, _, found, err = s.e.ExtractItem(3)
		if err != nil {
			return
		}
		if !found {
			break
		}
		var entry FrameEntry
		var v int32
		v, _, err = s.e.ExtractInt(1)
		if err != nil {
			return
		}
		entry.FrameNumber = int(v)
		v, _, err = s.e.ExtractInt(2)
		if err != nil {
			return
		}
		entry.DrawingIndex = int(v)
		var flags byte
		flags, _, err = s.e.ExtractByte(3)
		if err != nil {
			return
		}
		entry.Flags = FrameFlags(flags)
		entries = append(entries, entry)
	}
	if hasChecksum && EntriesChecksum(entries) != checksum {
		return fmt.Errorf("layer %s: %w", layer.Name, ErrChecksumMismatch)
	}
	if err = layer.LoadEntries(entries); err != nil {
		return
	}
	// a freshly read layer has no pending changes
	layer.ClearTags()
	log.Debugf("layer %s: %d frames", layer.Name, len(entries))
	return
}
