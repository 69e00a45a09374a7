package ast

import "fmt"

// Statement is the variant of top-level declarations a parsed file (or any
// file it transitively #includes) can contain, plus a nested ParseTree for
// #include. It mirrors the original parse::Statement variant
// (std::variant<unique_ptr<ParseTree>, BindPoint, ShaderInputLayout, Group,
// ShaderInputGroup, Struct, Constant>).
type Statement interface {
	statement()
}

func (BindPoint) statement()         {}
func (ShaderInputLayout) statement() {}
func (Group) statement()             {}
func (ShaderInputGroup) statement()  {}
func (Struct) statement()            {}
func (Constant) statement()          {}

// Include wraps a nested file's statements, carrying that file's own
// Output metadata. The Builder enters it depth-first, restoring the
// enclosing file's metadata on exit.
type Include struct {
	Output     Metadata
	Statements []Statement
}

func (Include) statement() {}

// Builder walks a root file's statements (inlining #include trees
// depth-first, in source order) and produces a fully resolved
// AbstractSyntaxTree. It corresponds to the original parse::ASTBuilder.
type Builder struct {
	ast      AbstractSyntaxTree
	metadata Metadata

	typeTable       map[string]VariableType
	bindPointIndex  map[string]BindPointHandle
	structIndex     map[string]struct{}
	groupIndex      map[string]struct{}
	inputGroupIndex map[string]struct{}
	layoutIndex     map[string]uint32
}

// NewBuilder creates a Builder with the BasicType whitelist seeded into
// its type table.
func NewBuilder() *Builder {
	b := &Builder{
		typeTable:       make(map[string]VariableType, len(BasicTypes)+16),
		bindPointIndex:  make(map[string]BindPointHandle),
		structIndex:     make(map[string]struct{}),
		groupIndex:      make(map[string]struct{}),
		inputGroupIndex: make(map[string]struct{}),
		layoutIndex:     make(map[string]uint32),
	}
	for _, name := range BasicTypes {
		b.typeTable[name] = BasicType{HLSLType: name}
	}
	return b
}

// Build walks root's statements and returns the resolved
// AbstractSyntaxTree, or the first error encountered (no recovery).
func (b *Builder) Build(rootOutput Metadata, statements []Statement) (*AbstractSyntaxTree, error) {
	b.metadata = rootOutput
	if err := b.addAll(statements); err != nil {
		return nil, err
	}
	return &b.ast, nil
}

func (b *Builder) addAll(statements []Statement) error {
	for _, stmt := range statements {
		if err := b.add(stmt); err != nil {
			return err
		}
	}
	return nil
}

func (b *Builder) add(stmt Statement) error {
	switch s := stmt.(type) {
	case Include:
		saved := b.metadata
		b.metadata = s.Output
		if err := b.addAll(s.Statements); err != nil {
			return err
		}
		b.metadata = saved
		return nil
	case BindPoint:
		return b.addBindPoint(s)
	case ShaderInputLayout:
		return b.addShaderInputLayout(s)
	case Struct:
		return b.addStruct(s)
	case Group:
		return b.addGroup(s)
	case ShaderInputGroup:
		return b.addShaderInputGroup(s)
	case Constant:
		return b.addConstant(s)
	default:
		return &StructuralError{Message: "unknown statement kind"}
	}
}

func (b *Builder) addBindPoint(bp BindPoint) error {
	if _, exists := b.bindPointIndex[bp.Name]; exists {
		return &DuplicateNameError{Kind: "BindPoint", Name: bp.Name}
	}
	bp.Meta = b.metadata
	idx := BindPointHandle(len(b.ast.BindPoints))
	b.bindPointIndex[bp.Name] = idx
	b.ast.BindPoints = append(b.ast.BindPoints, &bp)
	return nil
}

func (b *Builder) addStruct(s Struct) error {
	for i := range s.Variables {
		v := &s.Variables[i]
		if err := b.resolveType(v); err != nil {
			return err
		}
		switch v.Type.(type) {
		case BasicType, StructInstance:
		default:
			return &StructuralError{Message: fmt.Sprintf("struct member %q must be a basic type or struct", v.Name), Pos: v.Pos}
		}
		if v.ArrayCount == Unbounded {
			return &StructuralError{Message: fmt.Sprintf("struct member %q cannot be an unbounded array", v.Name), Pos: v.Pos}
		}
	}
	if err := b.addType(s.Name, StructInstance{Index: StructHandle(len(b.ast.Structs))}); err != nil {
		return err
	}
	s.Meta = b.metadata
	b.ast.Structs = append(b.ast.Structs, &s)
	return nil
}

func (b *Builder) addGroup(g Group) error {
	for i := range g.Variables {
		v := &g.Variables[i]
		if err := b.resolveType(v); err != nil {
			return err
		}
		if v.ArrayCount == Unbounded {
			return &StructuralError{Message: fmt.Sprintf("group member %q cannot be an unbounded array", v.Name), Pos: v.Pos}
		}
	}
	if _, exists := b.groupIndex[g.Name]; exists {
		return &DuplicateNameError{Kind: "Group", Name: g.Name}
	}
	b.groupIndex[g.Name] = struct{}{}
	if err := b.addType(g.Name, GroupInstance{Index: GroupHandle(len(b.ast.Groups))}); err != nil {
		return err
	}
	g.Meta = b.metadata
	b.ast.Groups = append(b.ast.Groups, &g)
	return nil
}

func (b *Builder) addShaderInputGroup(sig ShaderInputGroup) error {
	for i := range sig.Variables {
		if err := b.resolveType(&sig.Variables[i]); err != nil {
			return err
		}
	}
	if _, exists := b.inputGroupIndex[sig.Name]; exists {
		return &DuplicateNameError{Kind: "ShaderInputGroup", Name: sig.Name}
	}
	idx, ok := b.bindPointIndex[sig.BindPointName]
	if !ok {
		return &UnresolvedNameError{Kind: "bind point", Name: sig.BindPointName}
	}
	b.inputGroupIndex[sig.Name] = struct{}{}
	sig.BindPointIndex = idx
	sig.Meta = b.metadata
	sigIdx := ShaderInputGroupHandle(len(b.ast.ShaderInputGroups))
	b.ast.BindPoints[idx].ShaderInputGroups = append(b.ast.BindPoints[idx].ShaderInputGroups, sigIdx)
	b.ast.ShaderInputGroups = append(b.ast.ShaderInputGroups, &sig)
	return nil
}

func (b *Builder) addShaderInputLayout(sil ShaderInputLayout) error {
	seen := make(map[string]struct{}, len(sil.BindPoints))
	for i := range sil.BindPoints {
		ref := &sil.BindPoints[i]
		if _, dup := seen[ref.Name]; dup {
			return &DuplicateNameError{Kind: "BindPoint reference", Name: ref.Name}
		}
		seen[ref.Name] = struct{}{}

		idx, ok := b.bindPointIndex[ref.BindPointName]
		if !ok {
			return &UnresolvedNameError{Kind: "bind point", Name: ref.BindPointName}
		}
		ref.BindPointIndex = idx
	}

	if _, exists := b.layoutIndex[sil.Name]; exists {
		return &DuplicateNameError{Kind: "ShaderInputLayout", Name: sil.Name}
	}
	b.layoutIndex[sil.Name] = uint32(len(b.ast.ShaderInputLayouts))
	sil.Meta = b.metadata
	b.ast.ShaderInputLayouts = append(b.ast.ShaderInputLayouts, &sil)
	return nil
}

func (b *Builder) addConstant(c Constant) error {
	c.Meta = b.metadata
	b.ast.Constants = append(b.ast.Constants, c)
	return nil
}

func (b *Builder) addType(name string, t VariableType) error {
	if _, exists := b.typeTable[name]; exists {
		return &DuplicateNameError{Kind: "type", Name: name}
	}
	b.typeTable[name] = t
	return nil
}

// resolveType resolves v's UnresolvedType (or the inner UnresolvedType of
// a StructuredBuffer/RWStructuredBuffer) against the builder's type table.
// Every other VariableType variant passes through unchanged.
func (b *Builder) resolveType(v *Variable) error {
	switch t := v.Type.(type) {
	case UnresolvedType:
		resolved, ok := b.typeTable[t.TypeName]
		if !ok {
			return &UnresolvedNameError{Kind: "type", Name: t.TypeName, Pos: v.Pos}
		}
		v.Type = resolved
	case StructuredBuffer:
		inner, ok := t.DataType.(UnresolvedType)
		if !ok {
			// already resolved (shouldn't happen pre-Build, but tolerate it)
			return nil
		}
		resolved, ok := b.typeTable[inner.TypeName]
		if !ok {
			return &UnresolvedNameError{Kind: "type", Name: inner.TypeName, Pos: v.Pos}
		}
		st, ok := resolved.(StructuredType)
		if !ok {
			return &StructuralError{Message: "StructuredBuffer element type must be a basic type or struct: " + inner.TypeName, Pos: v.Pos}
		}
		t.DataType = st
		v.Type = t
	case RWStructuredBuffer:
		inner, ok := t.DataType.(UnresolvedType)
		if !ok {
			return nil
		}
		resolved, ok := b.typeTable[inner.TypeName]
		if !ok {
			return &UnresolvedNameError{Kind: "type", Name: inner.TypeName, Pos: v.Pos}
		}
		st, ok := resolved.(StructuredType)
		if !ok {
			return &StructuralError{Message: "RWStructuredBuffer element type must be a basic type or struct: " + inner.TypeName, Pos: v.Pos}
		}
		t.DataType = st
		v.Type = t
	}
	return nil
}
