package frames

import (
	"fmt"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// Document bundles the drawing storage with the layer tree that indexes into it.
type Document struct {
	Id            uuid.UUID
	Name          string
	Drawings      Drawings
	Tree          *LayerTree
	ActiveLayer   uuid.UUID
	OnionSkinning OnionSkinningSettings
}

func NewDocument(name string) *Document {
	return &Document{
		Id:            uuid.New(),
		Name:          name,
		Tree:          NewTree(),
		OnionSkinning: DefaultOnionSkinningSettings(),
	}
}

func (d *Document) String() string {
	return fmt.Sprintf("Document: %s (%v) layers:%d drawings:%d", d.Name, d.Id, len(d.Tree.Layers()), len(d.Drawings))
}

// AddLayer adds a layer under parent and makes it the active one.
func (d *Document) AddLayer(parent *LayerGroup, name string) *Layer {
	l := d.Tree.AddLayer(parent, name)
	d.ActiveLayer = l.Id
	return l
}

func (d *Document) GetActiveLayer() (*Layer, bool) {
	return d.Tree.Layer(d.ActiveLayer)
}

// DrawingAt returns the drawing shown by layer at frameNumber, nil for a gap.
func (d *Document) DrawingAt(layer *Layer, frameNumber int) *Drawing {
	index := layer.DrawingIndexAt(frameNumber)
	if index == NullIndex {
		return nil
	}
	drawing, ok := d.Drawings.DrawingAt(index)
	if !ok {
		log.Debugf("layer %s: dangling drawing index %d at frame %d", layer.Name, index, frameNumber)
		return nil
	}
	return drawing
}

// EditableDrawingAt is DrawingAt restricted to editable layers.
func (d *Document) EditableDrawingAt(layer *Layer, frameNumber int) *Drawing {
	if !layer.IsEditable() {
		return nil
	}
	return d.DrawingAt(layer, frameNumber)
}

// InsertKeyframe creates an empty drawing and keys it at frameNumber.
// Nothing is created when the layer refuses the key.
func (d *Document) InsertKeyframe(layer *Layer, frameNumber, duration int) (*Drawing, *FrameRecord) {
	if existing, ok := layer.Frames().Lookup(frameNumber); ok && !existing.IsNull() {
		return nil, nil
	}
	if duration < 0 {
		return nil, nil
	}
	drawing := NewDrawing()
	index := d.Drawings.Add(drawing)
	frame := layer.AddFrame(frameNumber, index, duration)
	if frame == nil {
		d.Drawings = d.Drawings[:index]
		return nil, nil
	}
	return drawing, frame
}

// InsertDuplicateKeyframe keys a copy of the drawing keyed at srcFrame at
// dstFrame. It fails if srcFrame is not a drawing key or the layer refuses
// dstFrame.
func (d *Document) InsertDuplicateKeyframe(layer *Layer, srcFrame, dstFrame, duration int) (*Drawing, *FrameRecord) {
	src, ok := layer.Frames().Lookup(srcFrame)
	if !ok || src.IsNull() {
		return nil, nil
	}
	drawing, ok := d.Drawings.DrawingAt(src.DrawingIndex)
	if !ok {
		log.Debugf("layer %s: no drawing %d to duplicate", layer.Name, src.DrawingIndex)
		return nil, nil
	}
	if existing, ok := layer.Frames().Lookup(dstFrame); ok && !existing.IsNull() {
		return nil, nil
	}
	dup := drawing.Clone()
	index := d.Drawings.Add(dup)
	frame := layer.AddFrame(dstFrame, index, duration)
	if frame == nil {
		d.Drawings = d.Drawings[:index]
		return nil, nil
	}
	return dup, frame
}

// RemoveFrames removes every key in frameNumbers and reports whether any was
// removed. Drawings no longer keyed by any layer are freed.
func (d *Document) RemoveFrames(layer *Layer, frameNumbers []int) bool {
	changed := false
	for _, n := range frameNumbers {
		if layer.RemoveFrame(n) {
			changed = true
		}
	}
	if changed {
		d.FreeUnusedDrawings()
	}
	return changed
}

// FreeUnusedDrawings clears the slots of drawings that no layer in the tree
// keys. Slots stay in place so the indices of other drawings do not change.
func (d *Document) FreeUnusedDrawings() (freed int) {
	used := make([]bool, len(d.Drawings))
	for _, l := range d.Tree.Layers() {
		for _, e := range l.Entries() {
			if e.DrawingIndex >= 0 && e.DrawingIndex < len(used) {
				used[e.DrawingIndex] = true
			}
		}
	}
	for i, drawing := range d.Drawings {
		if drawing != nil && !used[i] {
			d.Drawings[i] = nil
			freed++
		}
	}
	if freed > 0 {
		log.Debugf("freed %d drawings", freed)
	}
	return
}

// CopyLayer adds a new layer under dst sharing the frames of src. Drawings are
// shared by index, src and the copy must belong to the same document.
func (d *Document) CopyLayer(dst *LayerGroup, src *Layer) *Layer {
	l := d.Tree.AddLayer(dst, src.Name)
	l.IsVisible = src.IsVisible
	l.IsLocked = src.IsLocked
	l.UseOnionSkinning = src.UseOnionSkinning
	l.FramesForWrite().CopyFrom(src.Frames())
	l.TagFramesMapChanged()
	return l
}
