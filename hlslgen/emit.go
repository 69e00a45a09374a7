// Package hlslgen generates HLSL device-side source files from a resolved
// AbstractSyntaxTree and its register allocation plan: struct/group POD
// definitions, per-bind-point shader input group wrappers with their
// resource declarations and register assignments, and the root-signature
// register-space macros for each ShaderInputLayout. It is grounded on the
// original compiler's dx12_render::generateDeviceCode.
package hlslgen

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/mathijs727/sic/ast"
	"github.com/mathijs727/sic/regalloc"
)

// File is one generated source file, keyed by the path it should be
// written to.
type File struct {
	Path     string
	Contents string
}

// Emit walks tree (already flattened) and bindings (the corresponding
// register allocation) and returns every HLSL file implied by items whose
// Metadata.ShouldExport is set.
func Emit(tree *ast.AbstractSyntaxTree, bindings regalloc.ResourceBindingInfo) ([]File, error) {
	var files []File

	if len(tree.Constants) > 0 {
		constantFiles, err := emitConstants(tree.Constants)
		if err != nil {
			return nil, err
		}
		files = append(files, constantFiles...)
	}

	for _, s := range tree.Structs {
		if !s.Meta.ShouldExport {
			continue
		}
		f, err := emitStruct(s, tree)
		if err != nil {
			return nil, err
		}
		files = append(files, f)
	}

	for _, g := range tree.Groups {
		if !g.Meta.ShouldExport {
			continue
		}
		f, err := emitGroup(g, tree)
		if err != nil {
			return nil, err
		}
		files = append(files, f)
	}

	for layoutIdx, layout := range tree.ShaderInputLayouts {
		layoutBindings := bindings.ShaderInputLayouts[layoutIdx]
		for refPos, ref := range layout.BindPoints {
			rootParameterIndex := layoutBindings.BindPointRootParameterIndices[refPos]
			bp := tree.BindPoints[ref.BindPointIndex]
			bpBindings := bindings.BindPoints[ref.BindPointIndex]

			for groupPos, sigIdx := range bp.ShaderInputGroups {
				sig := tree.ShaderInputGroups[sigIdx]
				if !sig.Meta.ShouldExport {
					continue
				}
				groupBindings := bpBindings.ShaderInputGroups[groupPos]
				f, err := emitShaderInputGroup(sig, groupBindings, layout, rootParameterIndex, tree)
				if err != nil {
					return nil, err
				}
				files = append(files, f)
			}
		}

		if layout.Meta.ShouldExport {
			f, err := emitShaderInputLayout(layout, layoutBindings)
			if err != nil {
				return nil, err
			}
			files = append(files, f)
		}
	}

	return files, nil
}

func includeGuardName(name string) string {
	return "__" + strings.ReplaceAll(name, ".", "_") + "__"
}

func writeIncludeGuardStart(b *strings.Builder, name string) {
	guard := includeGuardName(name)
	fmt.Fprintf(b, "#ifndef %s\n#define %s\n", guard, guard)
}

func writeIncludeGuardEnd(b *strings.Builder, name string) {
	fmt.Fprintf(b, "#endif // %s\n", includeGuardName(name))
}

func structFilePath(s *ast.Struct) string {
	return filepath.Join(s.Meta.ShaderFolder, "structs", s.Name+".hlsl")
}

func groupFilePath(g *ast.Group) string {
	return filepath.Join(g.Meta.ShaderFolder, "groups", g.Name+".hlsl")
}

func shaderInputGroupFilePath(sig *ast.ShaderInputGroup, layout *ast.ShaderInputLayout) string {
	return filepath.Join(layout.Meta.ShaderFolder, "inputgroups", layout.Name, sig.Name+".hlsl")
}

func shaderInputLayoutFilePath(layout *ast.ShaderInputLayout) string {
	return filepath.Join(layout.Meta.ShaderFolder, "inputlayouts", layout.Name+".hlsl")
}

// title upper-cases s's first rune, used to build the get<Field> accessor
// names the original generates.
func title(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// notTitle lower-cases s's first rune, used for the g_<name> global
// instance the original generates per shader input group.
func notTitle(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}

func emitConstants(constants []ast.Constant) ([]File, error) {
	sorted := make([]ast.Constant, len(constants))
	copy(sorted, constants)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Meta.ShaderFolder < sorted[j].Meta.ShaderFolder
	})

	var files []File
	first := 0
	for last := 0; last < len(sorted); last++ {
		if sorted[first].Meta.ShaderFolder != sorted[last].Meta.ShaderFolder {
			if sorted[first].Meta.ShouldExport {
				files = append(files, renderConstants(sorted[first:last]))
			}
			first = last
		}
	}
	if sorted[first].Meta.ShouldExport {
		files = append(files, renderConstants(sorted[first:]))
	}
	return files, nil
}

func renderConstants(constants []ast.Constant) File {
	path := filepath.Join(constants[0].Meta.ShaderFolder, "constants.hlsl")
	var b strings.Builder
	writeIncludeGuardStart(&b, "CONSTANTS")
	for _, c := range constants {
		fmt.Fprintf(&b, "#define %s %d\n", c.Name, c.Value)
	}
	writeIncludeGuardEnd(&b, "CONSTANTS")
	return File{Path: path, Contents: b.String()}
}

func emitStruct(s *ast.Struct, tree *ast.AbstractSyntaxTree) (File, error) {
	path := structFilePath(s)
	basePath := filepath.Dir(path)

	var b strings.Builder
	writeIncludeGuardStart(&b, s.Name)
	if err := writeIncludes(&b, s.Variables, tree, basePath); err != nil {
		return File{}, err
	}

	fmt.Fprintf(&b, "struct %s {\n", escape(s.Name))
	fields := newNamer()
	for _, v := range s.Variables {
		tn, err := typeName(v.Type, tree)
		if err != nil {
			return File{}, err
		}
		fmt.Fprintf(&b, "\t%s %s", tn, fields.call(v.Name))
		if v.ArrayCount != 0 {
			fmt.Fprintf(&b, "[%d]", v.ArrayCount)
		}
		b.WriteString(";\n")
	}
	b.WriteString("};\n")
	writeIncludeGuardEnd(&b, s.Name)
	return File{Path: path, Contents: b.String()}, nil
}

func emitGroup(g *ast.Group, tree *ast.AbstractSyntaxTree) (File, error) {
	path := groupFilePath(g)
	basePath := filepath.Dir(path)

	var b strings.Builder
	writeIncludeGuardStart(&b, g.Name)
	if err := writeIncludes(&b, g.Variables, tree, basePath); err != nil {
		return File{}, err
	}

	fmt.Fprintf(&b, "struct %s {\n", escape(g.Name))
	fields := newNamer()
	for _, v := range g.Variables {
		if v.ArrayCount == ast.Unbounded {
			return File{}, fmt.Errorf("unbounded array %q in group %q is not allowed", v.Name, g.Name)
		}
		tn, err := typeName(v.Type, tree)
		if err != nil {
			return File{}, err
		}
		fmt.Fprintf(&b, "\t%s %s", tn, fields.call(v.Name))
		if v.ArrayCount > 0 {
			fmt.Fprintf(&b, "[%d]", v.ArrayCount)
		}
		b.WriteString(";\n")
	}
	b.WriteString("};\n")
	writeIncludeGuardEnd(&b, g.Name)
	return File{Path: path, Contents: b.String()}, nil
}

func emitShaderInputGroup(sig *ast.ShaderInputGroup, groupBindings regalloc.ShaderInputGroupBindings, layout *ast.ShaderInputLayout, rootParameterOffset uint32, tree *ast.AbstractSyntaxTree) (File, error) {
	path := shaderInputGroupFilePath(sig, layout)
	basePath := filepath.Dir(path)

	var b strings.Builder
	writeIncludeGuardStart(&b, sig.Name)
	if err := writeIncludes(&b, sig.Variables, tree, basePath); err != nil {
		return File{}, err
	}

	var spaceOffset uint32
	if layout.Options.LocalRootSignature {
		spaceOffset = 500
	}

	resources := newNamer()
	for _, rp := range groupBindings.RootParameters {
		rootParameterIndex := rp.RootParameterOffset + rootParameterOffset
		shaderRegisterSpace := rootParameterIndex + spaceOffset

		for _, d := range rp.DescriptorTable.Descriptors {
			v := sig.Variables[d.VariableIndex]
			if _, isConstantBuffer := v.Type.(ast.CustomType); isConstantBuffer {
				fmt.Fprintf(&b, "cbuffer CONSTANT_DATA : register(b%d, space%d) {\n", d.DescriptorOffset, shaderRegisterSpace)
				for _, cv := range sig.Variables {
					if !ast.IsStandardConstantType(cv.Type) {
						continue
					}
					tn, err := typeName(cv.Type, tree)
					if err != nil {
						return File{}, err
					}
					fmt.Fprintf(&b, "\t%s _%s", tn, escape(cv.Name))
					if cv.ArrayCount != 0 {
						fmt.Fprintf(&b, "[%d]", cv.ArrayCount)
					}
					b.WriteString(";\n")
				}
				b.WriteString("};\n")
				continue
			}

			tn, err := typeName(v.Type, tree)
			if err != nil {
				return File{}, err
			}
			name := resources.call(v.Name)
			fmt.Fprintf(&b, "%s _%s", tn, name)
			if v.ArrayCount == ast.Unbounded {
				b.WriteString("[]")
			} else if v.ArrayCount != 0 {
				fmt.Fprintf(&b, "[%d]", v.ArrayCount)
			}
			regChar, err := registerTypeChar(v.Type)
			if err != nil {
				return File{}, err
			}
			fmt.Fprintf(&b, " : register(%c%d, space%d);\n", regChar, d.DescriptorOffset, shaderRegisterSpace)
		}
	}

	fmt.Fprintf(&b, "class %s {\n", escape(sig.Name))
	accessors := newNamer()
	for _, v := range sig.Variables {
		if _, isConstantBuffer := v.Type.(ast.CustomType); isConstantBuffer {
			continue
		}

		if gi, isGroup := v.Type.(ast.GroupInstance); isGroup {
			group := tree.Groups[gi.Index]
			tn, err := typeName(v.Type, tree)
			if err != nil {
				return File{}, err
			}
			fmt.Fprintf(&b, "\t%s get%s() {\n", tn, title(accessors.call(v.Name)))
			fmt.Fprintf(&b, "\t\t%s outGroup;\n", escape(group.Name))
			for _, gv := range group.Variables {
				mangled := ast.MangledName(v.Name, gv.Name)
				fmt.Fprintf(&b, "\t\toutGroup.%s = get%s();\n", escape(gv.Name), title(mangled))
			}
			b.WriteString("\t\treturn outGroup;\n\t}\n")
			continue
		}

		tn, err := typeName(v.Type, tree)
		if err != nil {
			return File{}, err
		}
		fmt.Fprintf(&b, "\t%s get%s(", tn, title(accessors.call(v.Name)))
		if v.ArrayCount != 0 {
			b.WriteString("int idx")
		}
		b.WriteString(") {\n")
		fmt.Fprintf(&b, "\t\treturn _%s", escape(v.Name))
		if v.ArrayCount != 0 {
			b.WriteString("[idx]")
		}
		b.WriteString(";\n\t}\n")
	}
	b.WriteString("};\n")
	fmt.Fprintf(&b, "%s g_%s;\n", escape(sig.Name), notTitle(escape(sig.Name)))

	writeIncludeGuardEnd(&b, sig.Name)
	return File{Path: path, Contents: b.String()}, nil
}

func emitShaderInputLayout(layout *ast.ShaderInputLayout, bindings regalloc.ShaderInputLayoutBindings) (File, error) {
	path := shaderInputLayoutFilePath(layout)

	var b strings.Builder
	writeIncludeGuardStart(&b, layout.Name)

	var spaceOffset uint32
	if layout.Options.LocalRootSignature {
		spaceOffset = 500
	}

	staticSamplerSpace := 500 + spaceOffset
	for i, s := range layout.StaticSamplers {
		guard := "_sampler_" + s.Name
		fmt.Fprintf(&b, "#ifndef %s\n#define %s\n", guard, guard)
		fmt.Fprintf(&b, "SamplerState g_%s : register(s%d, space%d);\n", escape(s.Name), i, staticSamplerSpace)
		fmt.Fprintf(&b, "#endif // %s\n", guard)
	}
	b.WriteString("\n")

	rootConstantSpace := 501 + spaceOffset
	for i, rc := range layout.RootConstants {
		rootParameterIndex := bindings.ConstantRootParameterIndices[i]
		guard := "_rootConstant_" + rc.Name
		fmt.Fprintf(&b, "#ifndef %s\n#define %s\n", guard, guard)
		fmt.Fprintf(&b, "#define ROOT_CONSTANT_%s register(b%d, space%d)\n", strings.ToUpper(rc.Name), rootParameterIndex, rootConstantSpace)
		fmt.Fprintf(&b, "#endif // %s\n", guard)
	}
	b.WriteString("\n")

	rootCBVSpace := 502 + spaceOffset
	for i, cbv := range layout.RootConstantBufferViews {
		rootParameterIndex := bindings.CBVRootParameterIndices[i]
		guard := "_rootConstant_" + cbv.Name
		fmt.Fprintf(&b, "#ifndef %s\n#define %s\n", guard, guard)
		fmt.Fprintf(&b, "#define ROOT_CBV_%s register(b%d, space%d)\n", cbv.Name, rootParameterIndex, rootCBVSpace)
		fmt.Fprintf(&b, "#endif // %s\n", guard)
	}
	b.WriteString("\n")

	writeIncludeGuardEnd(&b, layout.Name)
	return File{Path: path, Contents: b.String()}, nil
}

func writeIncludes(b *strings.Builder, vars []ast.Variable, tree *ast.AbstractSyntaxTree, basePath string) error {
	for _, v := range vars {
		var target string
		switch t := v.Type.(type) {
		case ast.StructInstance:
			target = structFilePath(tree.Structs[t.Index])
		case ast.GroupInstance:
			target = groupFilePath(tree.Groups[t.Index])
		case ast.StructuredBuffer:
			if si, ok := t.DataType.(ast.StructInstance); ok {
				target = structFilePath(tree.Structs[si.Index])
			}
		case ast.RWStructuredBuffer:
			if si, ok := t.DataType.(ast.StructInstance); ok {
				target = structFilePath(tree.Structs[si.Index])
			}
		}
		if target == "" {
			continue
		}
		rel, err := filepath.Rel(basePath, target)
		if err != nil {
			return err
		}
		fmt.Fprintf(b, "#include %q\n", filepath.ToSlash(rel))
	}
	return nil
}

func structuredTypeName(t ast.StructuredType, tree *ast.AbstractSyntaxTree) (string, error) {
	switch v := t.(type) {
	case ast.BasicType:
		return v.HLSLType, nil
	case ast.StructInstance:
		return escape(tree.Structs[v.Index].Name), nil
	default:
		return "", fmt.Errorf("unhandled structured buffer element type %T", t)
	}
}

func typeName(t ast.VariableType, tree *ast.AbstractSyntaxTree) (string, error) {
	switch v := t.(type) {
	case ast.UnresolvedType:
		return "", fmt.Errorf("unresolved type %q encountered during emission", v.TypeName)
	case ast.CustomType:
		return "", fmt.Errorf("custom type has no HLSL type name")
	case ast.StructInstance:
		return escape(tree.Structs[v.Index].Name), nil
	case ast.GroupInstance:
		return escape(tree.Groups[v.Index].Name), nil
	case ast.BasicType:
		return v.HLSLType, nil
	case ast.Texture2D:
		return fmt.Sprintf("Texture2D<%s>", v.ElementType), nil
	case ast.RWTexture2D:
		return fmt.Sprintf("RWTexture2D<%s>", v.ElementType), nil
	case ast.ByteAddressBuffer:
		return "ByteAddressBuffer", nil
	case ast.RWByteAddressBuffer:
		return "RWByteAddressBuffer", nil
	case ast.StructuredBuffer:
		inner, err := structuredTypeName(v.DataType, tree)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("StructuredBuffer<%s>", inner), nil
	case ast.RWStructuredBuffer:
		inner, err := structuredTypeName(v.DataType, tree)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("RWStructuredBuffer<%s>", inner), nil
	case ast.RaytracingAccelerationStructure:
		return "RaytracingAccelerationStructure", nil
	default:
		return "", fmt.Errorf("unhandled variable type %T", t)
	}
}

func registerTypeChar(t ast.VariableType) (byte, error) {
	switch t.(type) {
	case ast.Texture2D, ast.ByteAddressBuffer, ast.StructuredBuffer, ast.RaytracingAccelerationStructure:
		return 't', nil
	case ast.RWTexture2D, ast.RWByteAddressBuffer, ast.RWStructuredBuffer:
		return 'u', nil
	default:
		return 0, fmt.Errorf("variable type %T has no register class", t)
	}
}
