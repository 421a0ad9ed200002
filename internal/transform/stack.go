package transform

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

var (
	// ErrStackUnderflow is returned by Pop and Top on an empty stack.
	ErrStackUnderflow = errors.New("matrix stack is empty")
	// ErrInvalidAdditiveTransform is reported when an additive transform is
	// requested on an empty stack.
	ErrInvalidAdditiveTransform = errors.New("cannot apply additive transformation: stack is empty")
	// ErrStaleDerivedState is reported when the matrix group could not be
	// recomputed because one of the stacks was empty.
	ErrStaleDerivedState = errors.New("cannot update matrix group: stack is empty")
)

// StackError records a failed stack operation.
type StackError struct {
	Stack string
	Op    string
	Err   error
}

func (e *StackError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Stack, e.Op, e.Err)
}

func (e *StackError) Unwrap() error { return e.Err }

// Stack is a named LIFO of 4x4 matrices.
type Stack struct {
	name  string
	items []mgl32.Mat4
}

// NewStack creates an empty stack. Callers that need a base matrix must push it.
func NewStack(name string) *Stack {
	return &Stack{name: name}
}

func (s *Stack) Name() string { return s.name }

func (s *Stack) Len() int { return len(s.items) }

func (s *Stack) Cap() int { return cap(s.items) }

func (s *Stack) Empty() bool { return len(s.items) == 0 }

// Push makes m the new top.
func (s *Stack) Push(m mgl32.Mat4) {
	s.items = append(s.items, m)
}

// Pop removes the top. On an empty stack nothing changes and a
// *StackError wrapping ErrStackUnderflow is returned.
func (s *Stack) Pop() error {
	if len(s.items) == 0 {
		return &StackError{Stack: s.name, Op: "pop", Err: ErrStackUnderflow}
	}
	s.items = s.items[:len(s.items)-1]
	return nil
}

// Top returns the current top.
func (s *Stack) Top() (mgl32.Mat4, error) {
	if len(s.items) == 0 {
		return mgl32.Mat4{}, &StackError{Stack: s.name, Op: "top", Err: ErrStackUnderflow}
	}
	return s.items[len(s.items)-1], nil
}

// Reserve grows the capacity to at least n without changing the contents.
func (s *Stack) Reserve(n int) {
	if n <= cap(s.items) {
		return
	}
	grown := make([]mgl32.Mat4, len(s.items), n)
	copy(grown, s.items)
	s.items = grown
}

// ShrinkToFit drops spare capacity.
func (s *Stack) ShrinkToFit() {
	if len(s.items) == cap(s.items) {
		return
	}
	fit := make([]mgl32.Mat4, len(s.items))
	copy(fit, s.items)
	s.items = fit
}

// Clear removes every element. The stack is not re-seeded.
func (s *Stack) Clear() {
	s.items = s.items[:0]
}
