package frames

import (
	"fmt"

	"github.com/google/uuid"
)

// PenPoint is a single sample of a stroke.
type PenPoint struct {
	X         float32
	Y         float32
	Speed     int16
	Width     int16
	Direction byte
	Pressure  byte
}

func (p PenPoint) String() string {
	return fmt.Sprintf("PenPoint (x:%f, y:%f, Speed: %d, Width:%d, Dir:%d, Press:%d", p.X, p.Y, p.Speed, p.Width, p.Direction, p.Pressure)
}

type Line struct {
	Color          byte
	Tool           byte
	ThicknessScale float64
	Points         []*PenPoint
}

func (l *Line) AddPoint(p *PenPoint) {
	l.Points = append(l.Points, p)
}

func (l Line) String() string {
	return fmt.Sprintf("Line: (Color:%d, NumPoints:%d)", l.Color, len(l.Points))
}

// Drawing is the content shown by a keyframe. Layers only refer to it by index.
type Drawing struct {
	Id    uuid.UUID
	Lines []*Line
}

func NewDrawing() *Drawing {
	return &Drawing{Id: uuid.New()}
}

func (d *Drawing) AddLine(l *Line) {
	d.Lines = append(d.Lines, l)
}

// Clone copies every line and point under a new id.
func (d *Drawing) Clone() *Drawing {
	c := NewDrawing()
	c.Lines = make([]*Line, 0, len(d.Lines))
	for _, l := range d.Lines {
		line := *l
		line.Points = make([]*PenPoint, len(l.Points))
		for i, p := range l.Points {
			point := *p
			line.Points[i] = &point
		}
		c.Lines = append(c.Lines, &line)
	}
	return c
}

func (d Drawing) String() string {
	return fmt.Sprintf("Drawing: %v lines:%d", d.Id, len(d.Lines))
}

// Drawings is the slice backed storage used by documents.
type Drawings []*Drawing

// DrawingAt is bounds checked, NullIndex and dangling indices return false.
func (d Drawings) DrawingAt(index int) (*Drawing, bool) {
	if index < 0 || index >= len(d) || d[index] == nil {
		return nil, false
	}
	return d[index], true
}

// Add appends drawing and returns its index.
func (d *Drawings) Add(drawing *Drawing) int {
	*d = append(*d, drawing)
	return len(*d) - 1
}
