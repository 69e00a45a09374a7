// Package hostgen generates the host-side C++ headers that pair with
// hlslgen's HLSL output: POD struct/group mirrors, a packed Constants
// layout matching the HLSL constant-buffer packing rules, resource
// binding generation against plain D3D12 types, and root-signature
// construction. It is grounded on the original compiler's
// dx12_render::generateHostCode, with the original's game-engine-specific
// RenderContext/RenderAPI wrapper types replaced by plain D3D12 API
// calls, per this backend's design: the emitted code is text over the
// resolved AST and binding plan, not a call into any particular engine.
package hostgen

import (
	"fmt"
	"path/filepath"
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

// Emit walks tree (already flattened) and bindings and returns every host
// header implied by items whose Metadata.ShouldExport is set.
func Emit(tree *ast.AbstractSyntaxTree, bindings regalloc.ResourceBindingInfo) ([]File, error) {
	var files []File

	if len(tree.Constants) > 0 {
		constantFiles := emitConstants(tree.Constants)
		files = append(files, constantFiles...)
	}

	for _, folder := range commonHeaderFolders(tree) {
		files = append(files, emitCommonHeader(folder))
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

	for i, bp := range tree.BindPoints {
		if !bp.Meta.ShouldExport {
			continue
		}
		f, err := emitBindPoint(bp, bindings.BindPoints[i])
		if err != nil {
			return nil, err
		}
		files = append(files, f)
	}

	for i, sig := range tree.ShaderInputGroups {
		if !sig.Meta.ShouldExport {
			continue
		}
		bp := tree.BindPoints[sig.BindPointIndex]
		sigPos := indexOf(bp.ShaderInputGroups, ast.ShaderInputGroupHandle(i))
		groupBindings := bindings.BindPoints[sig.BindPointIndex].ShaderInputGroups[sigPos]
		f, err := emitShaderInputGroup(sig, groupBindings, tree)
		if err != nil {
			return nil, err
		}
		files = append(files, f)
	}

	for i, layout := range tree.ShaderInputLayouts {
		if !layout.Meta.ShouldExport {
			continue
		}
		f, err := emitShaderInputLayout(layout, bindings.ShaderInputLayouts[i], tree, bindings)
		if err != nil {
			return nil, err
		}
		files = append(files, f)
	}

	return files, nil
}

func indexOf(handles []ast.ShaderInputGroupHandle, target ast.ShaderInputGroupHandle) int {
	for i, h := range handles {
		if h == target {
			return i
		}
	}
	return -1
}

// commonHeaderFolders returns, in first-seen order, every distinct
// CppFolder among exported groups, bind points, shader input groups and
// layouts (the headers that include common.h), so emitCommonHeader can
// place one common.h alongside each of those output trees.
func commonHeaderFolders(tree *ast.AbstractSyntaxTree) []string {
	seen := make(map[string]struct{})
	var folders []string
	add := func(folder string, shouldExport bool) {
		if !shouldExport {
			return
		}
		if _, ok := seen[folder]; ok {
			return
		}
		seen[folder] = struct{}{}
		folders = append(folders, folder)
	}
	for _, g := range tree.Groups {
		add(g.Meta.CppFolder, g.Meta.ShouldExport)
	}
	for _, bp := range tree.BindPoints {
		add(bp.Meta.CppFolder, bp.Meta.ShouldExport)
	}
	for _, sig := range tree.ShaderInputGroups {
		add(sig.Meta.CppFolder, sig.Meta.ShouldExport)
	}
	for _, layout := range tree.ShaderInputLayouts {
		add(layout.Meta.CppFolder, layout.Meta.ShouldExport)
	}
	return folders
}

func commonFilePath(cppFolder string) string {
	return filepath.Join(cppFolder, "common.h")
}

// writeCommonInclude writes a relative #include to the common.h that
// sits alongside cppFolder's other generated output.
func writeCommonInclude(b *strings.Builder, basePath, cppFolder string) error {
	rel, err := filepath.Rel(basePath, commonFilePath(cppFolder))
	if err != nil {
		return err
	}
	fmt.Fprintf(b, "#include %q\n", filepath.ToSlash(rel))
	return nil
}

// emitCommonHeader generates the shared descriptor-binding types every
// other generated header in cppFolder depends on: a CPU/GPU descriptor
// table allocation (the plain-D3D12 stand-in for the original compiler's
// RenderAPI::DescriptorAllocation) and the SRV/UAV binding pairs used by
// resource setter parameters.
func emitCommonHeader(cppFolder string) File {
	var b strings.Builder
	b.WriteString("#pragma once\n#include <d3d12.h>\n\n")
	b.WriteString("namespace ShaderInputs {\n\n")
	b.WriteString("// DescriptorTableAllocation is a CPU-visible and, once uploaded to a\n")
	b.WriteString("// shader-visible heap, GPU-visible run of descriptors.\n")
	b.WriteString("struct DescriptorTableAllocation {\n")
	b.WriteString("\tD3D12_CPU_DESCRIPTOR_HANDLE firstCPUDescriptor{};\n")
	b.WriteString("\tD3D12_GPU_DESCRIPTOR_HANDLE firstGPUDescriptor{};\n")
	b.WriteString("\tuint32_t numDescriptors = 0;\n")
	b.WriteString("\tuint32_t descriptorSize = 0;\n\n")
	b.WriteString("\tD3D12_CPU_DESCRIPTOR_HANDLE cpuHandle(uint32_t offset) const {\n")
	b.WriteString("\t\tD3D12_CPU_DESCRIPTOR_HANDLE handle = firstCPUDescriptor;\n")
	b.WriteString("\t\thandle.ptr += size_t(offset) * descriptorSize;\n")
	b.WriteString("\t\treturn handle;\n\t}\n\n")
	b.WriteString("\ttemplate <typename Desc>\n")
	b.WriteString("\tvoid set(ID3D12Device* pDevice, uint32_t offset, const Desc& value) {\n")
	b.WriteString("\t\tvalue.writeTo(cpuHandle(offset), pDevice);\n\t}\n")
	b.WriteString("};\n\n")
	b.WriteString("// ShaderResourceViewBinding pairs a resource with the view description\n")
	b.WriteString("// used to create its SRV into a DescriptorTableAllocation slot.\n")
	b.WriteString("struct ShaderResourceViewBinding {\n")
	b.WriteString("\tID3D12Resource* pResource = nullptr;\n")
	b.WriteString("\tD3D12_SHADER_RESOURCE_VIEW_DESC desc{};\n\n")
	b.WriteString("\tvoid writeTo(D3D12_CPU_DESCRIPTOR_HANDLE destination, ID3D12Device* pDevice) const {\n")
	b.WriteString("\t\tpDevice->CreateShaderResourceView(pResource, &desc, destination);\n\t}\n")
	b.WriteString("};\n\n")
	b.WriteString("// UnorderedAccessViewBinding pairs a resource with the view description\n")
	b.WriteString("// used to create its UAV into a DescriptorTableAllocation slot.\n")
	b.WriteString("struct UnorderedAccessViewBinding {\n")
	b.WriteString("\tID3D12Resource* pResource = nullptr;\n")
	b.WriteString("\tID3D12Resource* pCounterResource = nullptr;\n")
	b.WriteString("\tD3D12_UNORDERED_ACCESS_VIEW_DESC desc{};\n\n")
	b.WriteString("\tvoid writeTo(D3D12_CPU_DESCRIPTOR_HANDLE destination, ID3D12Device* pDevice) const {\n")
	b.WriteString("\t\tpDevice->CreateUnorderedAccessView(pResource, pCounterResource, &desc, destination);\n\t}\n")
	b.WriteString("};\n\n}\n")
	return File{Path: commonFilePath(cppFolder), Contents: b.String()}
}

func structFilePath(s *ast.Struct) string {
	return filepath.Join(s.Meta.CppFolder, "structs", s.Name+".h")
}

func groupFilePath(g *ast.Group) string {
	return filepath.Join(g.Meta.CppFolder, "groups", g.Name+".h")
}

func bindPointFilePath(bp *ast.BindPoint) string {
	return filepath.Join(bp.Meta.CppFolder, "bindpoints", bp.Name+".h")
}

func shaderInputGroupFilePath(sig *ast.ShaderInputGroup) string {
	return filepath.Join(sig.Meta.CppFolder, "inputgroups", sig.Name+".h")
}

func shaderInputLayoutFilePath(layout *ast.ShaderInputLayout) string {
	return filepath.Join(layout.Meta.CppFolder, "inputlayouts", layout.Name+".h")
}

func title(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func emitConstants(constants []ast.Constant) []File {
	byFolder := make(map[string][]ast.Constant)
	var order []string
	for _, c := range constants {
		if !c.Meta.ShouldExport {
			continue
		}
		if _, seen := byFolder[c.Meta.CppFolder]; !seen {
			order = append(order, c.Meta.CppFolder)
		}
		byFolder[c.Meta.CppFolder] = append(byFolder[c.Meta.CppFolder], c)
	}
	var files []File
	for _, folder := range order {
		var b strings.Builder
		b.WriteString("#pragma once\n")
		for _, c := range byFolder[folder] {
			fmt.Fprintf(&b, "#define %s %d\n", c.Name, c.Value)
		}
		files = append(files, File{Path: filepath.Join(folder, "constants.h"), Contents: b.String()})
	}
	return files
}

func writeIncludes(b *strings.Builder, vars []ast.Variable, tree *ast.AbstractSyntaxTree, basePath string) error {
	for _, v := range vars {
		var target string
		switch t := v.Type.(type) {
		case ast.StructInstance:
			target = structFilePath(tree.Structs[t.Index])
		case ast.GroupInstance:
			target = groupFilePath(tree.Groups[t.Index])
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

func emitStruct(s *ast.Struct, tree *ast.AbstractSyntaxTree) (File, error) {
	path := structFilePath(s)
	basePath := filepath.Dir(path)

	var b strings.Builder
	b.WriteString("#pragma once\n")
	b.WriteString("#include <glm/vec2.hpp>\n#include <glm/vec3.hpp>\n#include <glm/vec4.hpp>\n#include <DirectXPackedVector.h>\n")
	if err := writeIncludes(&b, s.Variables, tree, basePath); err != nil {
		return File{}, err
	}
	b.WriteString("namespace ShaderInputs {\n")

	emitVariant := func(constantPacking bool) error {
		prefix := ""
		if constantPacking {
			prefix = "C"
		}
		fmt.Fprintf(&b, "struct %s%s {\n", prefix, s.Name)
		for _, v := range s.Variables {
			var typeStr string
			switch t := v.Type.(type) {
			case ast.StructInstance:
				typeStr = prefix + tree.Structs[t.Index].Name
			case ast.BasicType:
				var err error
				if constantPacking {
					typeStr, err = constantTypeCpp(t.HLSLType)
				} else {
					typeStr, err = regularTypeCpp(t.HLSLType)
				}
				if err != nil {
					return err
				}
			default:
				return fmt.Errorf("struct member %q has unsupported type %T", v.Name, v.Type)
			}
			fmt.Fprintf(&b, "\t%s %s", typeStr, v.Name)
			if v.ArrayCount != 0 {
				fmt.Fprintf(&b, "[%d]", v.ArrayCount)
			}
			b.WriteString(";\n")
		}
		b.WriteString("};\n")
		return nil
	}
	if err := emitVariant(true); err != nil {
		return File{}, err
	}
	if err := emitVariant(false); err != nil {
		return File{}, err
	}
	b.WriteString("}\n")
	return File{Path: path, Contents: b.String()}, nil
}

func emitGroup(g *ast.Group, tree *ast.AbstractSyntaxTree) (File, error) {
	path := groupFilePath(g)
	basePath := filepath.Dir(path)

	var b strings.Builder
	b.WriteString("#pragma once\n")
	b.WriteString("#include <glm/vec2.hpp>\n#include <glm/vec3.hpp>\n#include <glm/vec4.hpp>\n")
	if err := writeCommonInclude(&b, basePath, g.Meta.CppFolder); err != nil {
		return File{}, err
	}
	if err := writeIncludes(&b, g.Variables, tree, basePath); err != nil {
		return File{}, err
	}
	b.WriteString("namespace ShaderInputs {\n")
	fmt.Fprintf(&b, "struct %s {\n", g.Name)
	for _, v := range g.Variables {
		tn, err := hostTypeName(v.Type, tree, true)
		if err != nil {
			return File{}, err
		}
		fmt.Fprintf(&b, "\t%s %s", tn, v.Name)
		if v.ArrayCount != 0 {
			fmt.Fprintf(&b, "[%d]", v.ArrayCount)
		}
		b.WriteString(";\n")
	}
	b.WriteString("};\n}\n")
	return File{Path: path, Contents: b.String()}, nil
}

// hostTypeName returns the C++ type a VariableType surfaces as on the
// host side; resource types map to plain D3D12 view-binding structs
// local to this generated tree, not an engine-specific resource wrapper.
func hostTypeName(t ast.VariableType, tree *ast.AbstractSyntaxTree, preferConstantType bool) (string, error) {
	switch v := t.(type) {
	case ast.UnresolvedType:
		return "", fmt.Errorf("unresolved type %q encountered during emission", v.TypeName)
	case ast.CustomType:
		return "", fmt.Errorf("custom type has no host type name")
	case ast.StructInstance:
		return tree.Structs[v.Index].Name, nil
	case ast.GroupInstance:
		return tree.Groups[v.Index].Name, nil
	case ast.BasicType:
		if preferConstantType {
			return constantTypeCpp(v.HLSLType)
		}
		return regularTypeCpp(v.HLSLType)
	case ast.Texture2D, ast.ByteAddressBuffer, ast.StructuredBuffer, ast.RaytracingAccelerationStructure:
		return "ShaderResourceViewBinding", nil
	case ast.RWTexture2D, ast.RWByteAddressBuffer, ast.RWStructuredBuffer:
		return "UnorderedAccessViewBinding", nil
	default:
		return "", fmt.Errorf("unhandled variable type %T", t)
	}
}

func descriptorRangeTypeString(class regalloc.RegisterClass) string {
	switch class {
	case regalloc.ClassConstantBuffer:
		return "D3D12_DESCRIPTOR_RANGE_TYPE_CBV"
	case regalloc.ClassShaderResource:
		return "D3D12_DESCRIPTOR_RANGE_TYPE_SRV"
	case regalloc.ClassUnorderedAccess:
		return "D3D12_DESCRIPTOR_RANGE_TYPE_UAV"
	case regalloc.ClassSampler:
		return "D3D12_DESCRIPTOR_RANGE_TYPE_SAMPLER"
	default:
		return "D3D12_DESCRIPTOR_RANGE_TYPE_SRV"
	}
}

func shaderVisibilityString(stage ast.ShaderStage) string {
	switch stage {
	case ast.StageVertex:
		return "D3D12_SHADER_VISIBILITY_VERTEX"
	case ast.StageGeometry:
		return "D3D12_SHADER_VISIBILITY_GEOMETRY"
	case ast.StagePixel:
		return "D3D12_SHADER_VISIBILITY_PIXEL"
	default: // Compute, RayTracing: only one visibility stage exists.
		return "D3D12_SHADER_VISIBILITY_ALL"
	}
}

// commonShaderVisibility returns the ShaderVisibility value shared by
// every stage in stages, or D3D12_SHADER_VISIBILITY_ALL if they differ,
// plus whether any stage needs the input assembler stage (i.e. isn't
// Compute/RayTracing-only).
func commonShaderVisibility(stages []ast.ShaderStage) (visibility string, needsInputAssembler bool) {
	if len(stages) == 0 {
		return "D3D12_SHADER_VISIBILITY_ALL", false
	}
	allSame := true
	first := stages[0]
	for _, s := range stages {
		if s != ast.StageCompute && s != ast.StageRayTracing {
			needsInputAssembler = true
		}
		if s != first {
			allSame = false
		}
	}
	if allSame {
		return shaderVisibilityString(first), needsInputAssembler
	}
	return "D3D12_SHADER_VISIBILITY_ALL", needsInputAssembler
}

// descriptorSlot is where one shader input group variable landed in the
// bind point's shared descriptor table layout.
type descriptorSlot struct {
	rootParameterOffset uint32
	descriptorOffset    uint32
	numDescriptors      uint32
}

func roundUp(value, multiple uint32) uint32 {
	if multiple == 0 || value%multiple == 0 {
		return value
	}
	return value + (multiple - value%multiple)
}

// constantCppType returns the packed C++ type for a standard-constant
// variable: a BasicType maps through constantTypeCpp, a StructInstance
// maps to its constant-packed "C<Name>" variant.
func constantCppType(t ast.VariableType, tree *ast.AbstractSyntaxTree) (string, error) {
	switch v := t.(type) {
	case ast.BasicType:
		return constantTypeCpp(v.HLSLType)
	case ast.StructInstance:
		return "C" + tree.Structs[v.Index].Name, nil
	default:
		return "", fmt.Errorf("type %T cannot appear in a constant buffer", t)
	}
}

// sizeAndAlignOfConstant returns the packed size and alignment, in
// bytes, of a single element of v's type inside an HLSL constant buffer.
func sizeAndAlignOfConstant(t ast.VariableType, tree *ast.AbstractSyntaxTree) (size, align uint32, err error) {
	switch v := t.(type) {
	case ast.BasicType:
		size, err = sizeOfConstantType(v.HLSLType)
		if err != nil {
			return 0, 0, err
		}
		align, err = alignmentOfConstantType(v.HLSLType)
		return size, align, err
	case ast.StructInstance:
		size, err = sizeOfStruct(tree.Structs[v.Index], tree)
		return size, 16, err
	default:
		return 0, 0, fmt.Errorf("type %T cannot appear in a constant buffer", t)
	}
}

// sizeOfStruct computes a struct's packed size inside a constant buffer
// by laying out its members with the same rules as the group's own
// Constants struct, then rounding the total up to a 16-byte multiple
// (every nested struct starts its own 16-byte vector).
func sizeOfStruct(s *ast.Struct, tree *ast.AbstractSyntaxTree) (uint32, error) {
	var cursor uint32
	for _, v := range s.Variables {
		size, align, err := sizeAndAlignOfConstant(v.Type, tree)
		if err != nil {
			return 0, err
		}
		elementSize := size
		if v.ArrayCount != 0 {
			align = 16
			elementSize = roundUp(size, 16)
		}
		aligned := roundUp(cursor, align)
		if align < 16 && size > 0 && aligned/16 != (aligned+size-1)/16 {
			aligned = roundUp(aligned, 16)
		}
		count := v.ArrayCount
		if count == 0 {
			count = 1
		}
		cursor = aligned + elementSize*count
	}
	return roundUp(cursor, 16), nil
}

// writeConstantsStruct emits one field per standard-constant variable in
// vars, inserting explicit padding fields so the C++ layout matches
// HLSL's constant-buffer packing rules (no value may straddle a 16-byte
// boundary, arrays and structs always start their own). It returns the
// struct's total packed size.
func writeConstantsStruct(b *strings.Builder, vars []ast.Variable, tree *ast.AbstractSyntaxTree) (uint32, error) {
	var cursor uint32
	padIndex := 0
	for _, v := range vars {
		if !ast.IsStandardConstantType(v.Type) {
			continue
		}
		size, align, err := sizeAndAlignOfConstant(v.Type, tree)
		if err != nil {
			return 0, err
		}
		elementSize := size
		if v.ArrayCount != 0 {
			align = 16
			elementSize = roundUp(size, 16)
		}
		aligned := roundUp(cursor, align)
		if align < 16 && size > 0 && aligned/16 != (aligned+size-1)/16 {
			aligned = roundUp(aligned, 16)
		}
		if aligned > cursor {
			fmt.Fprintf(b, "\t\tuint8_t _pad%d[%d];\n", padIndex, aligned-cursor)
			padIndex++
		}
		cppType, err := constantCppType(v.Type, tree)
		if err != nil {
			return 0, err
		}
		fmt.Fprintf(b, "\t\t%s %s", cppType, v.Name)
		count := v.ArrayCount
		if v.ArrayCount != 0 {
			fmt.Fprintf(b, "[%d]", v.ArrayCount)
		} else {
			count = 1
		}
		b.WriteString(";\n")
		cursor = aligned + elementSize*count
	}
	if total := roundUp(cursor, 16); total > cursor {
		fmt.Fprintf(b, "\t\tuint8_t _pad%d[%d];\n", padIndex, total-cursor)
		cursor = total
	}
	return cursor, nil
}

// emitShaderInputGroup generates a class wrapping one ShaderInputGroup's
// resource setters and, if it has any standard-constant members, a
// packed Constants struct matching the HLSL CONSTANT_DATA cbuffer
// layout hlslgen emits for the same group.
func emitShaderInputGroup(sig *ast.ShaderInputGroup, bindings regalloc.ShaderInputGroupBindings, tree *ast.AbstractSyntaxTree) (File, error) {
	path := shaderInputGroupFilePath(sig)
	basePath := filepath.Dir(path)

	slots := make(map[int]descriptorSlot)
	for _, rp := range bindings.RootParameters {
		for _, d := range rp.DescriptorTable.Descriptors {
			slots[d.VariableIndex] = descriptorSlot{
				rootParameterOffset: rp.RootParameterOffset,
				descriptorOffset:    d.DescriptorOffset,
				numDescriptors:      d.NumDescriptors,
			}
		}
	}

	var constantVars []ast.Variable
	for _, v := range sig.Variables {
		if ast.IsStandardConstantType(v.Type) {
			constantVars = append(constantVars, v)
		}
	}

	var b strings.Builder
	b.WriteString("#pragma once\n#include <d3d12.h>\n#include <wrl/client.h>\n\n")
	if err := writeCommonInclude(&b, basePath, sig.Meta.CppFolder); err != nil {
		return File{}, err
	}
	if err := writeIncludes(&b, sig.Variables, tree, basePath); err != nil {
		return File{}, err
	}
	b.WriteString("\nnamespace ShaderInputs {\n")
	fmt.Fprintf(&b, "class %s {\npublic:\n", sig.Name)

	for i, v := range sig.Variables {
		if ast.IsStandardConstantType(v.Type) {
			continue
		}
		if _, isGroup := v.Type.(ast.GroupInstance); isGroup {
			continue
		}
		if _, isCustom := v.Type.(ast.CustomType); isCustom {
			continue
		}
		slot, ok := slots[i]
		if !ok {
			continue
		}
		typeName, err := hostTypeName(v.Type, tree, false)
		if err != nil {
			return File{}, err
		}
		fmt.Fprintf(&b, "\tvoid set%s(ID3D12Device* pDevice, const %s& value) {\n", title(v.Name), typeName)
		fmt.Fprintf(&b, "\t\tm_rootParameter%d.set(pDevice, %d, value);\n", slot.rootParameterOffset, slot.descriptorOffset)
		b.WriteString("\t\tm_dirty = true;\n\t}\n")
	}

	if len(constantVars) > 0 {
		b.WriteString("\n\tstruct Constants {\n")
		if _, err := writeConstantsStruct(&b, constantVars, tree); err != nil {
			return File{}, err
		}
		b.WriteString("\t};\n\n")
		for _, v := range constantVars {
			cppType, err := constantCppType(v.Type, tree)
			if err != nil {
				return File{}, err
			}
			fmt.Fprintf(&b, "\tvoid set%s(const %s& value) {\n\t\tm_constants.%s = value;\n\t\tm_dirty = true;\n\t}\n", title(v.Name), cppType, v.Name)
		}
	}

	b.WriteString("\n\tvoid updateConstantBuffer(ID3D12Device* pDevice, ID3D12GraphicsCommandList* pCommandList);\n\n")
	b.WriteString("private:\n")
	for _, rp := range bindings.RootParameters {
		fmt.Fprintf(&b, "\tDescriptorTableAllocation m_rootParameter%d;\n", rp.RootParameterOffset)
	}
	if len(constantVars) > 0 {
		b.WriteString("\tConstants m_constants{};\n")
		b.WriteString("\tMicrosoft::WRL::ComPtr<ID3D12Resource> m_pConstantBuffer;\n")
	}
	b.WriteString("\tbool m_dirty = false;\n")
	b.WriteString("};\n}\n")

	return File{Path: path, Contents: b.String()}, nil
}

func emitBindPoint(bp *ast.BindPoint, bindings regalloc.BindPointBindings) (File, error) {
	path := bindPointFilePath(bp)
	basePath := filepath.Dir(path)
	var b strings.Builder
	b.WriteString("#pragma once\n#include <d3d12.h>\n#include <wrl/client.h>\n\n")
	if err := writeCommonInclude(&b, basePath, bp.Meta.CppFolder); err != nil {
		return File{}, err
	}
	b.WriteString("\nnamespace ShaderInputs {\n")
	fmt.Fprintf(&b, "struct %s {\n", bp.Name)
	for _, rp := range bindings.RootParameters {
		fmt.Fprintf(&b, "\tDescriptorTableAllocation rootParameter%d;\n", rp.RootParameterOffset)
	}
	b.WriteString("\tMicrosoft::WRL::ComPtr<ID3D12Resource> pConstantBuffer;\n")
	b.WriteString("};\n}\n")
	return File{Path: path, Contents: b.String()}, nil
}

func emitShaderInputLayout(layout *ast.ShaderInputLayout, bindings regalloc.ShaderInputLayoutBindings, tree *ast.AbstractSyntaxTree, all regalloc.ResourceBindingInfo) (File, error) {
	path := shaderInputLayoutFilePath(layout)
	basePath := filepath.Dir(path)

	var b strings.Builder
	b.WriteString("#pragma once\n#include <d3dx12.h>\n#include <array>\n\n")
	for _, ref := range layout.BindPoints {
		bp := tree.BindPoints[ref.BindPointIndex]
		rel, err := filepath.Rel(basePath, bindPointFilePath(bp))
		if err != nil {
			return File{}, err
		}
		fmt.Fprintf(&b, "#include %q\n", filepath.ToSlash(rel))
	}
	b.WriteString("\nnamespace ShaderInputs {\n")
	fmt.Fprintf(&b, "struct %s {\n", layout.Name)

	requiresInputAssembler := false

	for refPos, ref := range layout.BindPoints {
		bp := tree.BindPoints[ref.BindPointIndex]
		bpBindings := all.BindPoints[ref.BindPointIndex]
		rootParameterStart := bindings.BindPointRootParameterIndices[refPos]

		for _, mode := range []string{"Graphics", "Compute"} {
			fmt.Fprintf(&b, "\tstatic inline void bind%s%s(ID3D12GraphicsCommandList* pCommandList, const %s& shaderInputGroup) {\n", title(ref.Name), mode, bp.Name)
			for _, rp := range bpBindings.RootParameters {
				rootParameterIndex := rootParameterStart + rp.RootParameterOffset
				fmt.Fprintf(&b, "\t\tif (shaderInputGroup.rootParameter%d.numDescriptors > 0) {\n", rp.RootParameterOffset)
				fmt.Fprintf(&b, "\t\t\tpCommandList->Set%sRootDescriptorTable(%d, shaderInputGroup.rootParameter%d.firstGPUDescriptor);\n", mode, rootParameterIndex, rp.RootParameterOffset)
				b.WriteString("\t\t}\n")
			}
			b.WriteString("\t}\n")
		}

		if _, needs := commonShaderVisibility(ref.ShaderStages); needs {
			requiresInputAssembler = true
		}
	}

	for i, rc := range layout.RootConstants {
		fmt.Fprintf(&b, "\tstatic inline uint32_t get%sRootParameterIndex() { return %d; }\n", title(rc.Name), bindings.ConstantRootParameterIndices[i])
	}
	for i, cbv := range layout.RootConstantBufferViews {
		fmt.Fprintf(&b, "\tstatic inline uint32_t get%sRootParameterIndex() { return %d; }\n", title(cbv.Name), bindings.CBVRootParameterIndices[i])
	}

	b.WriteString("\n\tstatic inline Microsoft::WRL::ComPtr<ID3D12RootSignature> getRootSignature(ID3D12Device* pDevice) {\n")
	b.WriteString("\t\tstatic Microsoft::WRL::ComPtr<ID3D12RootSignature> s_pRootSignature;\n")
	b.WriteString("\t\tif (!s_pRootSignature) {\n")

	numDescriptorRanges := 0
	numRootParameters := 0
	for refPos, ref := range layout.BindPoints {
		rootParameterStart := bindings.BindPointRootParameterIndices[refPos]
		bpBindings := all.BindPoints[ref.BindPointIndex]
		for _, rp := range bpBindings.RootParameters {
			numDescriptorRanges += len(rp.DescriptorTableLayout.Ranges)
			if idx := int(rootParameterStart + rp.RootParameterOffset + 1); idx > numRootParameters {
				numRootParameters = idx
			}
		}
	}
	for _, idx := range bindings.ConstantRootParameterIndices {
		if int(idx)+1 > numRootParameters {
			numRootParameters = int(idx) + 1
		}
	}
	for _, idx := range bindings.CBVRootParameterIndices {
		if int(idx)+1 > numRootParameters {
			numRootParameters = int(idx) + 1
		}
	}
	fmt.Fprintf(&b, "\t\t\tstd::array<D3D12_ROOT_PARAMETER, %d> rootParameters{};\n", numRootParameters)
	fmt.Fprintf(&b, "\t\t\tstd::array<D3D12_DESCRIPTOR_RANGE, %d> descriptorRanges{};\n\n", numDescriptorRanges)

	var spaceOffset uint32
	if layout.Options.LocalRootSignature {
		spaceOffset = 500
	}

	currentRange := 0
	for refPos, ref := range layout.BindPoints {
		rootParameterStart := bindings.BindPointRootParameterIndices[refPos]
		bpBindings := all.BindPoints[ref.BindPointIndex]
		for _, rp := range bpBindings.RootParameters {
			rootParameterIndex := rootParameterStart + rp.RootParameterOffset
			shaderRegisterSpace := rootParameterIndex + spaceOffset

			firstRange := currentRange
			for _, r := range rp.DescriptorTableLayout.Ranges {
				fmt.Fprintf(&b, "\t\t\tdescriptorRanges[%d].BaseShaderRegister = %d;\n", currentRange, r.BaseDescriptorOffset)
				fmt.Fprintf(&b, "\t\t\tdescriptorRanges[%d].RegisterSpace = %d;\n", currentRange, shaderRegisterSpace)
				fmt.Fprintf(&b, "\t\t\tdescriptorRanges[%d].RangeType = %s;\n", currentRange, descriptorRangeTypeString(r.Class))
				fmt.Fprintf(&b, "\t\t\tdescriptorRanges[%d].NumDescriptors = %d;\n", currentRange, r.NumDescriptors)
				fmt.Fprintf(&b, "\t\t\tdescriptorRanges[%d].OffsetInDescriptorsFromTableStart = %d;\n", currentRange, r.BaseDescriptorOffset)
				currentRange++
			}
			visibility, _ := commonShaderVisibility(ref.ShaderStages)
			fmt.Fprintf(&b, "\t\t\trootParameters[%d].ParameterType = D3D12_ROOT_PARAMETER_TYPE_DESCRIPTOR_TABLE;\n", rootParameterIndex)
			fmt.Fprintf(&b, "\t\t\trootParameters[%d].ShaderVisibility = %s;\n", rootParameterIndex, visibility)
			fmt.Fprintf(&b, "\t\t\trootParameters[%d].DescriptorTable.pDescriptorRanges = &descriptorRanges[%d];\n", rootParameterIndex, firstRange)
			fmt.Fprintf(&b, "\t\t\trootParameters[%d].DescriptorTable.NumDescriptorRanges = %d;\n\n", rootParameterIndex, len(rp.DescriptorTableLayout.Ranges))
		}
	}

	rootConstantSpace := 501 + spaceOffset
	for i, rc := range layout.RootConstants {
		idx := bindings.ConstantRootParameterIndices[i]
		visibility, needs := commonShaderVisibility(rc.ShaderStages)
		requiresInputAssembler = requiresInputAssembler || needs
		fmt.Fprintf(&b, "\t\t\trootParameters[%d].ParameterType = D3D12_ROOT_PARAMETER_TYPE_32BIT_CONSTANTS;\n", idx)
		fmt.Fprintf(&b, "\t\t\trootParameters[%d].ShaderVisibility = %s;\n", idx, visibility)
		fmt.Fprintf(&b, "\t\t\trootParameters[%d].Constants.ShaderRegister = %d;\n", idx, idx)
		fmt.Fprintf(&b, "\t\t\trootParameters[%d].Constants.RegisterSpace = %d;\n", idx, rootConstantSpace)
		fmt.Fprintf(&b, "\t\t\trootParameters[%d].Constants.Num32BitValues = %d;\n", idx, rc.Num32BitValues)
	}

	rootCBVSpace := 502 + spaceOffset
	for i, cbv := range layout.RootConstantBufferViews {
		idx := bindings.CBVRootParameterIndices[i]
		visibility, needs := commonShaderVisibility(cbv.ShaderStages)
		requiresInputAssembler = requiresInputAssembler || needs
		fmt.Fprintf(&b, "\t\t\trootParameters[%d].ParameterType = D3D12_ROOT_PARAMETER_TYPE_CBV;\n", idx)
		fmt.Fprintf(&b, "\t\t\trootParameters[%d].ShaderVisibility = %s;\n", idx, visibility)
		fmt.Fprintf(&b, "\t\t\trootParameters[%d].Descriptor.ShaderRegister = %d;\n", idx, idx)
		fmt.Fprintf(&b, "\t\t\trootParameters[%d].Descriptor.RegisterSpace = %d;\n", idx, rootCBVSpace)
	}

	staticSamplerSpace := 500 + spaceOffset
	if len(layout.StaticSamplers) > 0 {
		fmt.Fprintf(&b, "\n\t\t\tstd::array<D3D12_STATIC_SAMPLER_DESC, %d> staticSamplers{};\n", len(layout.StaticSamplers))
		for i, s := range layout.StaticSamplers {
			writeStaticSamplerOption(&b, i, s.Options, "Filter", "D3D12_FILTER_MIN_MAG_MIP_POINT")
			writeStaticSamplerOption(&b, i, s.Options, "AddressU", "D3D12_TEXTURE_ADDRESS_MODE_WRAP")
			writeStaticSamplerOption(&b, i, s.Options, "AddressV", "D3D12_TEXTURE_ADDRESS_MODE_WRAP")
			writeStaticSamplerOption(&b, i, s.Options, "AddressW", "D3D12_TEXTURE_ADDRESS_MODE_WRAP")
			writeStaticSamplerOption(&b, i, s.Options, "MipLODBias", "0.0f")
			writeStaticSamplerOption(&b, i, s.Options, "MaxAnisotropy", "1")
			writeStaticSamplerOption(&b, i, s.Options, "ComparisonFunc", "(D3D12_COMPARISON_FUNC)0")
			writeStaticSamplerOption(&b, i, s.Options, "BorderColor", "D3D12_STATIC_BORDER_COLOR_TRANSPARENT_BLACK")
			writeStaticSamplerOption(&b, i, s.Options, "MinLOD", "0.0f")
			writeStaticSamplerOption(&b, i, s.Options, "MaxLOD", "1000.0f")
			fmt.Fprintf(&b, "\t\t\tstaticSamplers[%d].ShaderRegister = %d;\n", i, i)
			fmt.Fprintf(&b, "\t\t\tstaticSamplers[%d].RegisterSpace = %d;\n", i, staticSamplerSpace)
			fmt.Fprintf(&b, "\t\t\tstaticSamplers[%d].ShaderVisibility = D3D12_SHADER_VISIBILITY_ALL;\n", i)
		}
	}

	b.WriteString("\n\t\t\tCD3DX12_VERSIONED_ROOT_SIGNATURE_DESC rootSignatureDesc{};\n")
	b.WriteString("\t\t\tD3D12_ROOT_SIGNATURE_FLAGS rootSignatureFlags = D3D12_ROOT_SIGNATURE_FLAG_NONE;\n")
	if layout.Options.LocalRootSignature {
		b.WriteString("\t\t\trootSignatureFlags |= D3D12_ROOT_SIGNATURE_FLAG_LOCAL_ROOT_SIGNATURE;\n")
	}
	if requiresInputAssembler {
		b.WriteString("\t\t\trootSignatureFlags |= D3D12_ROOT_SIGNATURE_FLAG_ALLOW_INPUT_ASSEMBLER_INPUT_LAYOUT;\n")
	}
	if len(layout.StaticSamplers) > 0 {
		b.WriteString("\t\t\trootSignatureDesc.Init_1_0(UINT(rootParameters.size()), rootParameters.data(), UINT(staticSamplers.size()), staticSamplers.data(), rootSignatureFlags);\n")
	} else {
		b.WriteString("\t\t\trootSignatureDesc.Init_1_0(UINT(rootParameters.size()), rootParameters.data(), 0, nullptr, rootSignatureFlags);\n")
	}
	b.WriteString("\t\t\tMicrosoft::WRL::ComPtr<ID3DBlob> pRootSignatureBlob, pErrorBlob;\n")
	b.WriteString("\t\t\tD3DX12SerializeVersionedRootSignature(&rootSignatureDesc, D3D_ROOT_SIGNATURE_VERSION_1_1, &pRootSignatureBlob, &pErrorBlob);\n")
	b.WriteString("\t\t\tpDevice->CreateRootSignature(0, pRootSignatureBlob->GetBufferPointer(), pRootSignatureBlob->GetBufferSize(), IID_PPV_ARGS(&s_pRootSignature));\n")
	b.WriteString("\t\t}\n\t\treturn s_pRootSignature;\n\t}\n")

	b.WriteString("};\n}\n")
	return File{Path: path, Contents: b.String()}, nil
}

func writeStaticSamplerOption(b *strings.Builder, idx int, options map[string]string, name, defaultValue string) {
	value := defaultValue
	if v, ok := options[name]; ok {
		value = v
	}
	fmt.Fprintf(b, "\t\t\tstaticSamplers[%d].%s = %s;\n", idx, name, value)
}
