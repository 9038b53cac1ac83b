package frames

import "fmt"

// NullIndex marks a frame that shows no drawing.
const NullIndex = -1

type FrameFlags uint8

const (
	// FrameImplicitHold keeps the drawing on screen until the next key that is not a null-frame.
	FrameImplicitHold FrameFlags = 1 << iota
	FrameSelected
)

// FrameRecord is the value stored per key in a FrameMap.
type FrameRecord struct {
	DrawingIndex int
	Flags        FrameFlags
}

// NullFrame returns a record that shows nothing.
func NullFrame() FrameRecord {
	return FrameRecord{DrawingIndex: NullIndex}
}

func (f *FrameRecord) IsNull() bool {
	return f.DrawingIndex == NullIndex
}

// IsImplicitHold is never true for a null-frame, the flag has no meaning there.
func (f *FrameRecord) IsImplicitHold() bool {
	return !f.IsNull() && f.Flags&FrameImplicitHold != 0
}

func (f *FrameRecord) IsSelected() bool {
	return f.Flags&FrameSelected != 0
}

func (f *FrameRecord) SetSelected(selected bool) {
	if selected {
		f.Flags |= FrameSelected
	} else {
		f.Flags &^= FrameSelected
	}
}

func (f FrameRecord) String() string {
	if f.IsNull() {
		return "Frame (null)"
	}
	return fmt.Sprintf("Frame (drawing:%d, hold:%v, selected:%v)", f.DrawingIndex, f.IsImplicitHold(), f.IsSelected())
}

// FrameEntry is a keyed record, the flat form a map is rebuilt from.
type FrameEntry struct {
	FrameNumber int
	FrameRecord
}

func (e FrameEntry) String() string {
	return fmt.Sprintf("%d: %v", e.FrameNumber, e.FrameRecord)
}
