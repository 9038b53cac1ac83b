package frames

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

var ErrNodeNotFound = errors.New("tree node not found")

// TreeNode is a child of a LayerGroup, either a layer or a nested group.
type TreeNode struct {
	Id      uuid.UUID
	IsLayer bool
}

// LayerGroup groups layers and other groups. Children are kept in draw order.
type LayerGroup struct {
	Id       uuid.UUID
	Name     string
	Children []TreeNode

	parentId uuid.UUID
	tree     *LayerTree
}

func (g *LayerGroup) String() string {
	return fmt.Sprintf("LayerGroup: %s (%v) children:%d", g.Name, g.Id, len(g.Children))
}

// ParentGroup returns nil for the root group.
func (g *LayerGroup) ParentGroup() *LayerGroup {
	if g.tree == nil || g.parentId == uuid.Nil {
		return nil
	}
	return g.tree.groups[g.parentId]
}

func (g *LayerGroup) add(n TreeNode) {
	g.Children = append(g.Children, n)
}

func (g *LayerGroup) remove(id uuid.UUID) bool {
	for i, c := range g.Children {
		if c.Id == id {
			g.Children = append(g.Children[:i], g.Children[i+1:]...)
			return true
		}
	}
	return false
}

// LayerTree owns the groups and layers of a document. Parents are referenced
// by id and resolved through the tree.
type LayerTree struct {
	Root   *LayerGroup
	groups map[uuid.UUID]*LayerGroup
	layers map[uuid.UUID]*Layer
}

func NewTree() *LayerTree {
	t := &LayerTree{
		groups: make(map[uuid.UUID]*LayerGroup),
		layers: make(map[uuid.UUID]*Layer),
	}
	t.Root = &LayerGroup{
		Id:   uuid.New(),
		tree: t,
	}
	t.groups[t.Root.Id] = t.Root
	return t
}

// setRootId renames the root group, only valid while the tree is empty.
func (t *LayerTree) setRootId(id uuid.UUID) {
	delete(t.groups, t.Root.Id)
	t.Root.Id = id
	t.groups[id] = t.Root
}

// AddGroup creates a group under parent, the root when parent is nil.
func (t *LayerTree) AddGroup(parent *LayerGroup, name string) *LayerGroup {
	return t.insertGroup(parent, &LayerGroup{Id: uuid.New(), Name: name})
}

func (t *LayerTree) insertGroup(parent *LayerGroup, g *LayerGroup) *LayerGroup {
	if parent == nil {
		parent = t.Root
	}
	g.parentId = parent.Id
	g.tree = t
	t.groups[g.Id] = g
	parent.add(TreeNode{Id: g.Id})
	return g
}

// AddLayer creates an empty layer under parent, the root when parent is nil.
func (t *LayerTree) AddLayer(parent *LayerGroup, name string) *Layer {
	return t.InsertLayer(parent, NewLayer(name))
}

// InsertLayer attaches an existing layer under parent.
func (t *LayerTree) InsertLayer(parent *LayerGroup, l *Layer) *Layer {
	if parent == nil {
		parent = t.Root
	}
	l.parentId = parent.Id
	l.tree = t
	t.layers[l.Id] = l
	parent.add(TreeNode{Id: l.Id, IsLayer: true})
	return l
}

func (t *LayerTree) Layer(id uuid.UUID) (*Layer, bool) {
	l, ok := t.layers[id]
	return l, ok
}

func (t *LayerTree) Group(id uuid.UUID) (*LayerGroup, bool) {
	g, ok := t.groups[id]
	return g, ok
}

// FindLayer returns the first layer named name in draw order.
func (t *LayerTree) FindLayer(name string) (*Layer, bool) {
	for _, l := range t.Layers() {
		if l.Name == name {
			return l, true
		}
	}
	return nil, false
}

// FindGroup returns the first group named name, depth first.
func (t *LayerTree) FindGroup(name string) (*LayerGroup, bool) {
	var found *LayerGroup
	t.walk(t.Root, func(n TreeNode) bool {
		if g := t.groups[n.Id]; !n.IsLayer && g != nil && g.Name == name {
			found = g
			return false
		}
		return true
	})
	return found, found != nil
}

// Layers returns every layer, depth first in draw order.
func (t *LayerTree) Layers() []*Layer {
	var result []*Layer
	t.walk(t.Root, func(n TreeNode) bool {
		if n.IsLayer {
			result = append(result, t.layers[n.Id])
		}
		return true
	})
	return result
}

// Groups returns every group except the root, depth first.
func (t *LayerTree) Groups() []*LayerGroup {
	var result []*LayerGroup
	t.walk(t.Root, func(n TreeNode) bool {
		if !n.IsLayer {
			result = append(result, t.groups[n.Id])
		}
		return true
	})
	return result
}

func (t *LayerTree) walk(g *LayerGroup, fn func(TreeNode) bool) bool {
	for _, c := range g.Children {
		if !fn(c) {
			return false
		}
		if !c.IsLayer {
			child, ok := t.groups[c.Id]
			if !ok {
				log.Warn("group not found ", c.Id)
				continue
			}
			if !t.walk(child, fn) {
				return false
			}
		}
	}
	return true
}

// MoveLayer detaches l from its group and appends it to dst.
func (t *LayerTree) MoveLayer(l *Layer, dst *LayerGroup) error {
	if _, ok := t.layers[l.Id]; !ok {
		return fmt.Errorf("MoveLayer: %w: %v", ErrNodeNotFound, l.Id)
	}
	if dst == nil {
		dst = t.Root
	}
	if _, ok := t.groups[dst.Id]; !ok {
		return fmt.Errorf("MoveLayer: %w: %v", ErrNodeNotFound, dst.Id)
	}
	if parent := l.ParentGroup(); parent != nil {
		parent.remove(l.Id)
	}
	l.parentId = dst.Id
	dst.add(TreeNode{Id: l.Id, IsLayer: true})
	return nil
}

// RemoveLayer detaches l from the tree. Its frames are left untouched.
func (t *LayerTree) RemoveLayer(l *Layer) error {
	if _, ok := t.layers[l.Id]; !ok {
		return fmt.Errorf("RemoveLayer: %w: %v", ErrNodeNotFound, l.Id)
	}
	if parent := l.ParentGroup(); parent != nil {
		parent.remove(l.Id)
	} else {
		log.Warn("parent not found for layer ", l.Id)
	}
	delete(t.layers, l.Id)
	l.tree = nil
	l.parentId = uuid.Nil
	return nil
}
