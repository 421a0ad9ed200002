// Package transform keeps the projection, view and model matrix stacks of a
// renderer and the matrix group derived from their tops.
//
// Transforms are applied through scopes:
//
//	s := set.TransformModel(world, false)
//	defer s.Close()
//
// Misuse (additive push on an empty stack, closing a scope whose stack was
// emptied elsewhere, recomputing with an empty stack) never panics by itself.
// It is reported to the Sink given in Options and the frame carries on.
package transform

import "github.com/go-gl/mathgl/mgl32"

const defaultStackSize = 8

// Options configures a StackSet. Sizes are capacity hints only.
type Options struct {
	ProjectionStackSize int
	ViewStackSize       int
	ModelStackSize      int
	Sink                Sink
}

// StackSet owns the three matrix stacks and the derived MatrixGroup.
// It is not safe for concurrent use.
type StackSet struct {
	projection *Stack
	view       *Stack
	model      *Stack

	group MatrixGroup
	stale bool
	sink  Sink
}

// NewStackSet creates the three stacks, each seeded with identity.
func NewStackSet(opts Options) *StackSet {
	set := &StackSet{
		projection: NewStack("projection"),
		view:       NewStack("view"),
		model:      NewStack("model"),
		group:      identityGroup(),
		sink:       opts.Sink,
	}
	if set.sink == nil {
		set.sink = NopSink{}
	}

	set.projection.Reserve(sizeOrDefault(opts.ProjectionStackSize))
	set.view.Reserve(sizeOrDefault(opts.ViewStackSize))
	set.model.Reserve(sizeOrDefault(opts.ModelStackSize))

	set.projection.Push(mgl32.Ident4())
	set.view.Push(mgl32.Ident4())
	set.model.Push(mgl32.Ident4())

	set.updateGroup()
	return set
}

func sizeOrDefault(n int) int {
	if n <= 0 {
		return defaultStackSize
	}
	return n
}

// TransformProjection pushes m onto the projection stack for the life of the
// returned scope. With additive set, m is composed before the current top.
func (set *StackSet) TransformProjection(m mgl32.Mat4, additive bool) *Scope {
	return newScope(set, set.projection, m, additive)
}

// TransformView is TransformProjection for the view stack.
func (set *StackSet) TransformView(m mgl32.Mat4, additive bool) *Scope {
	return newScope(set, set.view, m, additive)
}

// TransformModel is TransformProjection for the model stack.
func (set *StackSet) TransformModel(m mgl32.Mat4, additive bool) *Scope {
	return newScope(set, set.model, m, additive)
}

// WithProjection runs fn with m applied to the projection stack. The scope is
// closed when fn returns or panics.
func (set *StackSet) WithProjection(m mgl32.Mat4, additive bool, fn func()) {
	s := set.TransformProjection(m, additive)
	defer s.Close()
	fn()
}

func (set *StackSet) WithView(m mgl32.Mat4, additive bool, fn func()) {
	s := set.TransformView(m, additive)
	defer s.Close()
	fn()
}

func (set *StackSet) WithModel(m mgl32.Mat4, additive bool, fn func()) {
	s := set.TransformModel(m, additive)
	defer s.Close()
	fn()
}

// Group returns a copy of the current matrix group. Fetch it again after any
// scope is opened or closed.
func (set *StackSet) Group() MatrixGroup { return set.group }

// Stale reports whether the last recomputation was skipped because a stack
// was empty.
func (set *StackSet) Stale() bool { return set.stale }

func (set *StackSet) Projection() *Stack { return set.projection }

func (set *StackSet) View() *Stack { return set.view }

func (set *StackSet) Model() *Stack { return set.model }

// Refresh recomputes the group from the current tops. Call it after
// manipulating a stack directly.
func (set *StackSet) Refresh() {
	set.updateGroup()
}

func (set *StackSet) report(err error, stack *Stack, op string) {
	set.sink.Report(Diagnostic{Err: err, Stack: stack.Name(), Op: op})
}

func (set *StackSet) updateGroup() {
	ok := true
	for _, s := range [...]*Stack{set.projection, set.view, set.model} {
		if s.Empty() {
			set.report(ErrStaleDerivedState, s, "update group")
			ok = false
		}
	}
	if !ok {
		set.stale = true
		return
	}

	projection, _ := set.projection.Top()
	view, _ := set.view.Top()
	model, _ := set.model.Top()
	set.group = deriveGroup(projection, view, model)
	set.stale = false
}
