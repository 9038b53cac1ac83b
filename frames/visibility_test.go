package frames

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// evenLayer keys holds at 0, 5, 10, 15 and 20.
func evenLayer(t *testing.T) *Layer {
	t.Helper()
	l := NewLayer("ink")
	for i := 0; i < 5; i++ {
		require.NotNil(t, l.AddFrame(i*5, i, 0))
	}
	return l
}

func onion(mode OnionSkinningMode, before, after int, loop bool) VisibleFramesOptions {
	return VisibleFramesOptions{
		OnionSkinning: true,
		Settings: OnionSkinningSettings{
			Mode:         mode,
			FramesBefore: before,
			FramesAfter:  after,
			Loop:         loop,
		},
	}
}

func TestVisibleFrames(t *testing.T) {
	tests := []struct {
		name    string
		current int
		opts    VisibleFramesOptions
		want    []VisibleFrame
	}{
		{
			name:    "no onion skinning",
			current: 12,
			want:    []VisibleFrame{{FrameNumber: 12}},
		},
		{
			name:    "relative",
			current: 12,
			opts:    onion(OnionSkinningRelative, 1, 1, false),
			want:    []VisibleFrame{{5, -1}, {15, 1}, {12, 0}},
		},
		{
			name:    "relative loop",
			current: 0,
			opts:    onion(OnionSkinningRelative, 1, 1, true),
			want:    []VisibleFrame{{5, 1}, {20, -1}, {0, 0}},
		},
		{
			name:    "absolute",
			current: 12,
			opts:    onion(OnionSkinningAbsolute, 7, 5, false),
			want:    []VisibleFrame{{5, -7}, {15, 3}, {12, 0}},
		},
		{
			name:    "before first key",
			current: -3,
			opts:    onion(OnionSkinningRelative, 1, 1, false),
			want:    []VisibleFrame{{0, 1}, {-3, 0}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := evenLayer(t)
			assert.Equal(t, tt.want, VisibleFrames(l, tt.current, tt.opts))
		})
	}
}

func TestVisibleFramesSelectedMode(t *testing.T) {
	l := evenLayer(t)
	require.True(t, l.SelectFrame(0, true))
	require.True(t, l.SelectFrame(20, true))

	got := VisibleFrames(l, 12, onion(OnionSkinningSelected, 0, 0, false))
	assert.Equal(t, []VisibleFrame{{0, -2}, {20, 2}, {12, 0}}, got)
}

func TestVisibleFramesLayerOptOut(t *testing.T) {
	l := evenLayer(t)
	l.UseOnionSkinning = false
	got := VisibleFrames(l, 12, onion(OnionSkinningRelative, 5, 5, false))
	assert.Equal(t, []VisibleFrame{{12, 0}}, got)
}

func TestVisibleFramesMultiFrameEditing(t *testing.T) {
	l := evenLayer(t)
	l.SelectFrame(5, true)
	l.SelectFrame(10, true)

	opts := VisibleFramesOptions{MultiFrameEditing: true}
	assert.Equal(t, []VisibleFrame{{5, 0}, {12, 0}}, VisibleFrames(l, 12, opts))

	opts.OnionSkinning = true
	l.SelectFrame(20, true)
	assert.Equal(t, []VisibleFrame{{5, -1}, {20, 1}, {12, 0}}, VisibleFrames(l, 12, opts))
}

func TestVisibleFramesEmptyLayer(t *testing.T) {
	assert.Nil(t, VisibleFrames(NewLayer("empty"), 3, onion(OnionSkinningRelative, 1, 1, true)))
}

func TestSelection(t *testing.T) {
	l := evenLayer(t)
	_, _, ok := l.SelectedFrameBounds()
	assert.False(t, ok)
	assert.False(t, l.SelectFrame(3, true))

	l.SelectFrame(15, true)
	l.SelectFrame(5, true)
	assert.Equal(t, []int{5, 15}, l.SelectedFrames())

	first, last, ok := l.SelectedFrameBounds()
	require.True(t, ok)
	assert.Equal(t, 5, first)
	assert.Equal(t, 15, last)

	l.ClearTags()
	l.SelectFrame(5, true)
	assert.False(t, l.FramesMapKeysChanged())
	l.SelectFrame(5, false)
	assert.True(t, l.FramesMapKeysChanged())
	assert.Equal(t, []int{15}, l.SelectedFrames())
}

func TestKeyframeBounds(t *testing.T) {
	l := evenLayer(t)
	first, last := l.KeyframeBounds(3, 16)
	assert.Equal(t, 5, first)
	assert.Equal(t, 15, last)

	first, last = l.KeyframeBounds(10, 10)
	assert.Equal(t, 10, first)
	assert.Equal(t, 10, last)

	first, last = l.KeyframeBounds(21, 30)
	assert.Equal(t, 0, first)
	assert.Equal(t, 1, last)
}

func TestEditableFrames(t *testing.T) {
	doc := NewDocument("scene")
	l := doc.AddLayer(nil, "ink")
	_, f := doc.InsertKeyframe(l, 0, 0)
	require.NotNil(t, f)
	_, f = doc.InsertKeyframe(l, 5, 0)
	require.NotNil(t, f)
	l.SelectFrame(0, true)
	l.SelectFrame(5, true)

	assert.Equal(t, []int{7}, doc.EditableFrames(l, 7, false))
	assert.Equal(t, []int{0, 5}, doc.EditableFrames(l, 7, true))
	assert.Equal(t, []int{0, 5}, doc.EditableFrames(l, 3, true))

	l.SelectFrame(5, false)
	assert.Equal(t, []int{0, 7}, doc.EditableFrames(l, 7, true))
}
