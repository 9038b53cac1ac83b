package frames

type OnionSkinningMode byte

const (
	OnionSkinningAbsolute OnionSkinningMode = iota
	OnionSkinningRelative
	OnionSkinningSelected
)

func (m OnionSkinningMode) String() string {
	switch m {
	case OnionSkinningAbsolute:
		return "absolute"
	case OnionSkinningRelative:
		return "relative"
	case OnionSkinningSelected:
		return "selected"
	}
	return "unknown"
}

type OnionSkinningSettings struct {
	Mode         OnionSkinningMode
	FramesBefore int
	FramesAfter  int
	// Loop wraps around so the first keys are ghosted after the last one.
	Loop bool
}

func DefaultOnionSkinningSettings() OnionSkinningSettings {
	return OnionSkinningSettings{
		Mode:         OnionSkinningRelative,
		FramesBefore: 1,
		FramesAfter:  1,
	}
}

// VisibleFrame is a key shown at the current frame. Offset is 0 for the
// current drawing, negative for ghosts before it and positive after it.
type VisibleFrame struct {
	FrameNumber int
	Offset      int
}

type VisibleFramesOptions struct {
	MultiFrameEditing bool
	OnionSkinning     bool
	Settings          OnionSkinningSettings
}

// VisibleFrames lists the keys of layer drawn at currentFrame. The last entry
// is always currentFrame itself.
func VisibleFrames(layer *Layer, currentFrame int, opts VisibleFramesOptions) []VisibleFrame {
	keys := layer.SortedKeys()
	if len(keys) == 0 {
		return nil
	}
	currentIndex := max(layer.SortedKeysIndexAt(currentFrame), 0)
	lastFrame := keys[len(keys)-1]
	lastIndex := len(keys) - 1
	isBeforeFirst := currentFrame < keys[0]
	currentStart, hasCurrentStart := layer.StartFrameAt(currentFrame)

	var result []VisibleFrame
	for i, key := range keys {
		if hasCurrentStart && currentStart == key {
			continue
		}
		frame, _ := layer.Frames().Lookup(key)

		if opts.MultiFrameEditing {
			if !frame.IsSelected() {
				continue
			}
			offset := 0
			if opts.OnionSkinning {
				offset = 1
				if key < currentFrame {
					offset = -1
				}
			}
			result = append(result, VisibleFrame{FrameNumber: key, Offset: offset})
			continue
		}

		if !opts.OnionSkinning || !layer.UseOnionSkinning {
			continue
		}
		s := opts.Settings
		if s.Mode == OnionSkinningSelected && !frame.IsSelected() {
			continue
		}
		delta := i - currentIndex
		if s.Mode == OnionSkinningAbsolute {
			delta = key - currentFrame
		}
		if isBeforeFirst {
			delta++
		}
		if s.Loop && (-delta > s.FramesBefore || delta > s.FramesAfter) {
			shift := lastIndex
			if s.Mode == OnionSkinningAbsolute {
				shift = lastFrame
			}
			if delta < 0 {
				delta += shift + 1
			} else {
				delta -= shift + 1
			}
		}
		if s.Mode != OnionSkinningSelected && (-delta > s.FramesBefore || delta > s.FramesAfter) {
			continue
		}
		result = append(result, VisibleFrame{FrameNumber: key, Offset: delta})
	}
	return append(result, VisibleFrame{FrameNumber: currentFrame})
}

// SelectedFrames returns the selected keys in ascending order.
func (l *Layer) SelectedFrames() []int {
	var result []int
	for _, key := range l.SortedKeys() {
		if f, _ := l.frames.Lookup(key); f.IsSelected() {
			result = append(result, key)
		}
	}
	return result
}

// SelectFrame changes the selection of the key at frameNumber.
func (l *Layer) SelectFrame(frameNumber int, selected bool) bool {
	f, ok := l.frames.Lookup(frameNumber)
	if !ok {
		return false
	}
	if f.IsSelected() != selected {
		f.SetSelected(selected)
		l.TagFramesMapKeysChanged()
	}
	return true
}

// SelectedFrameBounds returns the first and last selected key.
func (l *Layer) SelectedFrameBounds() (first, last int, ok bool) {
	selected := l.SelectedFrames()
	if len(selected) == 0 {
		return 0, 0, false
	}
	return selected[0], selected[len(selected)-1], true
}

// KeyframeBounds returns the first and last key within [start, end].
// Without keys in range it returns 0 and 1.
func (l *Layer) KeyframeBounds(start, end int) (first, last int) {
	first, last = 0, 1
	found := false
	for _, key := range l.SortedKeys() {
		if key < start {
			continue
		}
		if key > end {
			break
		}
		if !found {
			first = key
			found = true
		}
		last = key
	}
	return
}

// EditableFrames lists the frames to edit on layer at currentFrame. With multi
// frame editing the selected keys are used as long as they include the drawing
// at currentFrame, currentFrame is appended otherwise.
func (d *Document) EditableFrames(layer *Layer, currentFrame int, multiFrame bool) []int {
	var result []int
	if multiFrame {
		current := d.DrawingAt(layer, currentFrame)
		containsCurrent := false
		for _, key := range layer.SelectedFrames() {
			result = append(result, key)
			if drawing := d.DrawingAt(layer, key); drawing != nil && drawing == current {
				containsCurrent = true
			}
		}
		if containsCurrent {
			return result
		}
	}
	return append(result, currentFrame)
}
