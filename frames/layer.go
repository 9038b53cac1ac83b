package frames

import (
	"errors"
	"fmt"
	"math"

	"github.com/google/uuid"
)

var ErrDuplicateFrame = errors.New("duplicate frame number")

// Layer owns the mapping from scene frame numbers to drawings.
//
// A Layer is not synchronized. Reads from different goroutines are safe as the
// sorted keys are rebuilt under a lock, mutations must be serialized by the caller.
type Layer struct {
	Id               uuid.UUID
	Name             string
	IsVisible        bool
	IsLocked         bool
	UseOnionSkinning bool

	frames               *FrameMap
	framesMapChanged     bool
	framesMapKeysChanged bool

	parentId uuid.UUID
	tree     *LayerTree
}

// NewLayer creates an empty, visible layer that belongs to no tree.
func NewLayer(name string) *Layer {
	return &Layer{
		Id:               uuid.New(),
		Name:             name,
		IsVisible:        true,
		UseOnionSkinning: true,
		frames:           NewFrameMap(),
	}
}

func (l *Layer) String() string {
	return fmt.Sprintf("Layer: %s (%v) frames:%d", l.Name, l.Id, l.frames.Len())
}

// IsEditable reports whether drawings on the layer may be changed.
func (l *Layer) IsEditable() bool {
	return l.IsVisible && !l.IsLocked
}

func (l *Layer) Frames() FrameReader {
	return l.frames
}

// FramesForWrite gives direct access to the map. Callers that change it
// must call TagFramesMapChanged or TagFramesMapKeysChanged afterwards.
func (l *Layer) FramesForWrite() *FrameMap {
	return l.frames
}

func (l *Layer) SortedKeys() []int {
	return l.frames.SortedKeys()
}

// SortedKeysIndexAt returns the position in SortedKeys of the key that is
// active at frameNumber, or -1 if frameNumber is before the first key.
func (l *Layer) SortedKeysIndexAt(frameNumber int) int {
	return indexAt(l.frames.SortedKeys(), frameNumber)
}

// FrameAt returns the record of the greatest key <= frameNumber.
// Null-frames are returned as well, check IsNull.
func (l *Layer) FrameAt(frameNumber int) *FrameRecord {
	keys := l.frames.SortedKeys()
	i := indexAt(keys, frameNumber)
	if i < 0 {
		return nil
	}
	f, _ := l.frames.Lookup(keys[i])
	return f
}

// StartFrameAt returns the key of the drawing shown at frameNumber.
// There is none when frameNumber is in a gap or before the first key.
func (l *Layer) StartFrameAt(frameNumber int) (int, bool) {
	keys := l.frames.SortedKeys()
	i := indexAt(keys, frameNumber)
	if i < 0 {
		return 0, false
	}
	if f, _ := l.frames.Lookup(keys[i]); f.IsNull() {
		return 0, false
	}
	return keys[i], true
}

func (l *Layer) DrawingIndexAt(frameNumber int) int {
	f := l.FrameAt(frameNumber)
	if f == nil {
		return NullIndex
	}
	return f.DrawingIndex
}

// FrameDuration returns the number of frames the record keyed at frameNumber is
// shown for. Open ended frames have a duration of 0.
func (l *Layer) FrameDuration(frameNumber int) (int, bool) {
	if !l.frames.Contains(frameNumber) {
		return 0, false
	}
	keys := l.frames.SortedKeys()
	i := indexAt(keys, frameNumber)
	if i+1 >= len(keys) {
		return 0, true
	}
	return keys[i+1] - frameNumber, true
}

// AddFrame maps drawingIndex from frameNumber on. A duration of 0 holds the
// drawing until the next real key, otherwise a null-frame ends it after duration
// frames. A null-frame at frameNumber is overwritten. Returns nil without
// changing anything if a real key already exists at frameNumber, if drawingIndex
// is negative, if duration is negative or if the end frame does not fit in an int.
func (l *Layer) AddFrame(frameNumber, drawingIndex, duration int) *FrameRecord {
	if duration < 0 || drawingIndex < 0 || frameNumber > math.MaxInt-duration {
		return nil
	}
	if existing, ok := l.frames.Lookup(frameNumber); ok && !existing.IsNull() {
		return nil
	}

	record := FrameRecord{DrawingIndex: drawingIndex}
	if duration == 0 {
		record.Flags = FrameImplicitHold
	}
	frame := l.frames.Add(frameNumber, record)

	boundary := frameNumber
	if duration > 0 {
		boundary = frameNumber + duration
		// a null-frame between the two keys already ends the drawing
		if !l.frames.Contains(boundary) && !l.gapBefore(boundary) {
			l.frames.Add(boundary, NullFrame())
		}
	}
	l.pruneNullFramesAfter(boundary)

	l.TagFramesMapChanged()
	return frame
}

// RemoveFrame erases the key at frameNumber. It fails without changing anything
// if there is no such key, or if the key is a null-frame that ends a drawing
// with a fixed duration. A drawing key that ends a fixed duration is turned into
// a null-frame instead of being erased, the previous drawing keeps its length.
func (l *Layer) RemoveFrame(frameNumber int) bool {
	frame, ok := l.frames.Lookup(frameNumber)
	if !ok {
		return false
	}
	endsFixed := false
	keys := l.frames.SortedKeys()
	if i := indexAt(keys, frameNumber); i > 0 {
		prev, _ := l.frames.Lookup(keys[i-1])
		endsFixed = !prev.IsNull() && !prev.IsImplicitHold()
	}
	if frame.IsNull() && endsFixed {
		return false
	}

	if endsFixed {
		*frame = NullFrame()
	} else {
		l.frames.Remove(frameNumber)
	}
	l.pruneNullFramesAfter(frameNumber)

	l.TagFramesMapChanged()
	return true
}

// LoadEntries replaces every frame with entries. Entries are stored as given.
func (l *Layer) LoadEntries(entries []FrameEntry) error {
	seen := make(map[int]struct{}, len(entries))
	for _, e := range entries {
		if _, ok := seen[e.FrameNumber]; ok {
			return fmt.Errorf("LoadEntries: %w: %d", ErrDuplicateFrame, e.FrameNumber)
		}
		seen[e.FrameNumber] = struct{}{}
	}
	l.frames.Clear()
	for _, e := range entries {
		l.frames.Add(e.FrameNumber, e.FrameRecord)
	}
	l.TagFramesMapChanged()
	return nil
}

// Entries returns the frames ordered by frame number.
func (l *Layer) Entries() []FrameEntry {
	return l.frames.Items()
}

// TagFramesMapChanged signals that keys were added or removed.
// The sorted keys are rebuilt on next use.
func (l *Layer) TagFramesMapChanged() {
	l.frames.cache.Invalidate()
	l.framesMapChanged = true
}

// TagFramesMapKeysChanged signals that records changed in place, e.g. selection.
func (l *Layer) TagFramesMapKeysChanged() {
	l.framesMapKeysChanged = true
}

func (l *Layer) FramesMapChanged() bool {
	return l.framesMapChanged
}

func (l *Layer) FramesMapKeysChanged() bool {
	return l.framesMapKeysChanged
}

// ClearTags is called by consumers once they have caught up with the changes.
func (l *Layer) ClearTags() {
	l.framesMapChanged = false
	l.framesMapKeysChanged = false
}

// ParentGroup resolves the owning group through the tree.
func (l *Layer) ParentGroup() *LayerGroup {
	if l.tree == nil {
		return nil
	}
	return l.tree.groups[l.parentId]
}

// gapBefore reports whether the greatest key < frameNumber is a null-frame.
func (l *Layer) gapBefore(frameNumber int) bool {
	keys := l.frames.SortedKeys()
	i := indexAt(keys, frameNumber-1)
	if i < 0 {
		return false
	}
	f, _ := l.frames.Lookup(keys[i])
	return f.IsNull()
}

// pruneNullFramesAfter drops the run of null-frames that follows the key active
// at frameNumber when that key shows nothing or holds its drawing, so that a
// null-frame never directly follows another one.
func (l *Layer) pruneNullFramesAfter(frameNumber int) {
	keys := l.frames.SortedKeys()
	i := indexAt(keys, frameNumber)
	if i >= 0 {
		if prev, _ := l.frames.Lookup(keys[i]); !prev.IsNull() && !prev.IsImplicitHold() {
			return
		}
	}
	for _, key := range keys[i+1:] {
		if f, _ := l.frames.Lookup(key); !f.IsNull() {
			break
		}
		l.frames.Remove(key)
	}
}
