package scene

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/sceneview/internal/engine/picking"
	"github.com/Faultbox/sceneview/internal/engine/transform"
)

// ErrCycle is returned when attaching a node would make the tree cyclic.
var ErrCycle = errors.New("attaching node would create a cycle")

// Node is the capability shared by every scene graph node.
type Node interface {
	Name() string
	Base() *NodeBase

	// Update recomputes derived matrices after transform changes.
	// It does not recurse; Scene.Update visits every node.
	Update()

	// Render draws the node and then its children in insertion order.
	Render(rc *RenderContext) error

	// Raycast returns the first node in the subtree hit by r.
	Raycast(r picking.Ray) (Node, picking.Outcome)
}

// NodeBase holds what every node has: a name, a local transform, a weak
// back-reference to its parent and its ordered children.
type NodeBase struct {
	name     string
	local    transform.Transform
	parent   Node
	children []Node
}

func newBase(name string, local transform.Transform) NodeBase {
	return NodeBase{name: name, local: local}
}

// Name returns the node name.
func (b *NodeBase) Name() string { return b.name }

// Base returns b so embedding types satisfy Node.
func (b *NodeBase) Base() *NodeBase { return b }

// Parent returns the parent node, or nil for a root.
func (b *NodeBase) Parent() Node { return b.parent }

// Children returns the children in insertion order. The slice must not be modified.
func (b *NodeBase) Children() []Node { return b.children }

// Local returns the node's own transform.
func (b *NodeBase) Local() transform.Transform { return b.local }

// SetLocal replaces the node's own transform.
func (b *NodeBase) SetLocal(t transform.Transform) { b.local = t }

// SetTranslation sets the local translation.
func (b *NodeBase) SetTranslation(v mgl32.Vec3) { b.local.Translation = v }

// SetRotation sets the local Euler rotation in degrees.
func (b *NodeBase) SetRotation(v mgl32.Vec3) { b.local.Rotation = v }

// SetScale sets the local scale.
func (b *NodeBase) SetScale(v mgl32.Vec3) { b.local.Scale = v }

// Effective returns the local transform composed with every ancestor:
// translations add up, scales multiply, rotation stays local.
func (b *NodeBase) Effective() transform.Transform {
	if b.parent == nil {
		return b.local
	}
	return transform.Compose(b.parent.Base().Effective(), b.local)
}

// Transform returns the node's local-to-world matrix.
func (b *NodeBase) Transform() mgl32.Mat4 {
	return b.Effective().Matrix()
}

// renderChildren renders every child in insertion order.
func (b *NodeBase) renderChildren(rc *RenderContext) error {
	for _, child := range b.children {
		if err := child.Render(rc); err != nil {
			return err
		}
	}
	return nil
}

// raycastChildren tests children depth-first in insertion order and stops at
// the first hit. Children whose name is excluded by the skip policy are
// neither tested nor descended into.
func (b *NodeBase) raycastChildren(r picking.Ray) (Node, picking.Outcome) {
	outcome := picking.NotApplicable
	for _, child := range b.children {
		if Unpickable(child.Name()) {
			continue
		}
		hit, o := child.Raycast(r)
		if o == picking.Hit {
			return hit, o
		}
		if o == picking.Miss {
			outcome = picking.Miss
		}
	}
	return nil, outcome
}

// Attach appends child to parent's children. A child that already has a
// parent is detached from it first.
func Attach(parent, child Node) error {
	for n := parent; n != nil; n = n.Base().parent {
		if n == child {
			return fmt.Errorf("%w: %q under %q", ErrCycle, child.Name(), parent.Name())
		}
	}

	Detach(child)
	cb := child.Base()
	cb.parent = parent
	pb := parent.Base()
	pb.children = append(pb.children, child)
	return nil
}

// Detach removes child from its parent, if it has one.
func Detach(child Node) {
	cb := child.Base()
	if cb.parent == nil {
		return
	}
	pb := cb.parent.Base()
	for i, c := range pb.children {
		if c == child {
			pb.children = append(pb.children[:i:i], pb.children[i+1:]...)
			break
		}
	}
	cb.parent = nil
}

// Walk visits n and its descendants depth-first in insertion order.
// Returning false from fn skips the node's subtree.
func Walk(n Node, fn func(Node) bool) {
	if !fn(n) {
		return
	}
	for _, child := range n.Base().children {
		Walk(child, fn)
	}
}

// Group is a node without geometry. It only carries a transform for its children.
type Group struct {
	NodeBase
}

// NewGroup creates an empty group.
func NewGroup(name string, local transform.Transform) *Group {
	return &Group{NodeBase: newBase(name, local)}
}

// Update implements Node.
func (g *Group) Update() {}

// Render implements Node.
func (g *Group) Render(rc *RenderContext) error {
	return g.renderChildren(rc)
}

// Raycast implements Node.
func (g *Group) Raycast(r picking.Ray) (Node, picking.Outcome) {
	return g.raycastChildren(r)
}
