package ast

import "fmt"

// UnresolvedNameError reports a reference to a type, bind point, or
// constant name that has no definition.
type UnresolvedNameError struct {
	Kind string // "type", "bind point", "constant"
	Name string
	Pos  Pos
}

func (e *UnresolvedNameError) Error() string {
	if e.Pos.Line == 0 {
		return fmt.Sprintf("unknown %s %q", e.Kind, e.Name)
	}
	return fmt.Sprintf("%s:%d:%d: unknown %s %q", e.Pos.File, e.Pos.Line, e.Pos.Column, e.Kind, e.Name)
}

// DuplicateNameError reports a redefinition of a name within a kind that
// requires uniqueness (bind points, layouts, structs, groups, input
// groups, or a layout-local bind-point-reference name).
type DuplicateNameError struct {
	Kind string
	Name string
}

func (e *DuplicateNameError) Error() string {
	return fmt.Sprintf("%s %q already exists", e.Kind, e.Name)
}

// StructuralError reports a violation of a structural invariant: an
// unbounded array where disallowed, a nested group, or a bad type used in
// a StructuredBuffer.
type StructuralError struct {
	Message string
	Pos     Pos
}

func (e *StructuralError) Error() string {
	if e.Pos.Line == 0 {
		return e.Message
	}
	return fmt.Sprintf("%s:%d:%d: %s", e.Pos.File, e.Pos.Line, e.Pos.Column, e.Message)
}
