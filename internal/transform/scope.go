package transform

import "github.com/go-gl/mathgl/mgl32"

// Scope is a push on one stack that is undone by Close. A scope whose
// construction pushed pops exactly once; every other Close is a no-op.
// Scopes are handed out as pointers and must not be copied.
type Scope struct {
	set    *StackSet
	stack  *Stack
	pushed bool
	closed bool
	err    error
}

func newScope(set *StackSet, stack *Stack, m mgl32.Mat4, additive bool) *Scope {
	s := &Scope{set: set, stack: stack}

	if additive {
		top, err := stack.Top()
		if err != nil {
			s.err = &StackError{Stack: stack.Name(), Op: "push additive", Err: ErrInvalidAdditiveTransform}
			set.report(ErrInvalidAdditiveTransform, stack, "push additive")
			return s
		}
		m = m.Mul4(top)
	}

	stack.Push(m)
	s.pushed = true
	set.updateGroup()
	return s
}

// Close pops the scope's push and refreshes the matrix group. If the stack was
// emptied by someone else in the meantime, the pop is skipped and a
// ErrStackUnderflow diagnostic is reported.
func (s *Scope) Close() {
	if s == nil || s.closed {
		return
	}
	s.closed = true
	if !s.pushed {
		return
	}

	if err := s.stack.Pop(); err != nil {
		s.set.report(ErrStackUnderflow, s.stack, "pop")
		return
	}
	s.set.updateGroup()
}

// Pushed reports whether construction pushed a matrix.
func (s *Scope) Pushed() bool { return s.pushed }

// Err returns the construction failure, if any.
func (s *Scope) Err() error { return s.err }

// Stack returns the name of the stack the scope is bound to.
func (s *Scope) Stack() string { return s.stack.Name() }
