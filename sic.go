// Package sic is a shader-input-interface compiler: it reads a root .si
// file (and everything it transitively #includes), resolves bind points,
// groups, structs, and root-signature layouts against a single compile-
// wide symbol table, allocates HLSL registers and descriptor tables, and
// emits the paired HLSL device headers and C++ host headers that use
// them.
//
// The pipeline mirrors the original compiler's own stage split: parse,
// build (name resolution), flatten (group-instance inlining and
// constant-buffer injection), allocate (register/root-signature layout),
// then the two independent emitters.
//
//	tree, err := sic.BuildFile("shaders/forward.si")
//	bindings, err := regalloc.Allocate(tree)
//	hlslFiles, err := hlslgen.Emit(tree, bindings)
//	hostFiles, err := hostgen.Emit(tree, bindings)
package sic

import (
	"fmt"

	"github.com/mathijs727/sic/ast"
	"github.com/mathijs727/sic/hlslgen"
	"github.com/mathijs727/sic/hostgen"
	"github.com/mathijs727/sic/parse"
	"github.com/mathijs727/sic/regalloc"
)

// Result is everything one compile produces: the resolved, flattened,
// and register-allocated tree, plus the generated HLSL and host-side C++
// files ready to be written to disk.
type Result struct {
	Tree      *ast.AbstractSyntaxTree
	Bindings  regalloc.ResourceBindingInfo
	HLSLFiles []hlslgen.File
	HostFiles []hostgen.File
}

// CompileFile runs the full pipeline over the .si file at path: parse,
// build, flatten, allocate, and emit both backends.
func CompileFile(path string) (Result, error) {
	tree, err := BuildFile(path)
	if err != nil {
		return Result{}, err
	}
	return compile(tree)
}

// BuildFile parses path and every file it #includes, resolves names, and
// flattens group instances and constant buffers, returning the canonical
// AbstractSyntaxTree ready for register allocation. Exposed separately
// from CompileFile so callers (tests, tools inspecting the AST) can stop
// before emission.
func BuildFile(path string) (*ast.AbstractSyntaxTree, error) {
	ctx := parse.NewContext()
	rootOutput, statements, err := parse.ParseFile(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	tree, err := ast.NewBuilder().Build(rootOutput, statements)
	if err != nil {
		return nil, fmt.Errorf("building %s: %w", path, err)
	}

	if err := ast.Flatten(tree); err != nil {
		return nil, fmt.Errorf("flattening %s: %w", path, err)
	}
	return tree, nil
}

// compile runs allocation and both emitters over an already-built tree.
func compile(tree *ast.AbstractSyntaxTree) (Result, error) {
	bindings, err := regalloc.Allocate(tree)
	if err != nil {
		return Result{}, fmt.Errorf("allocating registers: %w", err)
	}

	hlslFiles, err := hlslgen.Emit(tree, bindings)
	if err != nil {
		return Result{}, fmt.Errorf("generating HLSL: %w", err)
	}

	hostFiles, err := hostgen.Emit(tree, bindings)
	if err != nil {
		return Result{}, fmt.Errorf("generating host code: %w", err)
	}

	return Result{
		Tree:      tree,
		Bindings:  bindings,
		HLSLFiles: hlslFiles,
		HostFiles: hostFiles,
	}, nil
}
