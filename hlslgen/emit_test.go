package hlslgen

import (
	"strings"
	"testing"

	"github.com/mathijs727/sic/ast"
	"github.com/mathijs727/sic/regalloc"
)

func TestIncludeGuardName(t *testing.T) {
	got := includeGuardName("inputgroups/Forward.material")
	want := "__inputgroups/Forward_material__"
	if got != want {
		t.Errorf("includeGuardName = %q, want %q", got, want)
	}
}

func TestTypeNameResourceTypes(t *testing.T) {
	tree := &ast.AbstractSyntaxTree{}
	tests := []struct {
		typ  ast.VariableType
		want string
	}{
		{ast.Texture2D{ElementType: "float4"}, "Texture2D<float4>"},
		{ast.RWTexture2D{ElementType: "float4"}, "RWTexture2D<float4>"},
		{ast.ByteAddressBuffer{}, "ByteAddressBuffer"},
		{ast.RWByteAddressBuffer{}, "RWByteAddressBuffer"},
		{ast.RaytracingAccelerationStructure{}, "RaytracingAccelerationStructure"},
		{ast.BasicType{HLSLType: "float3"}, "float3"},
	}
	for _, tt := range tests {
		got, err := typeName(tt.typ, tree)
		if err != nil {
			t.Errorf("typeName(%T): %v", tt.typ, err)
			continue
		}
		if got != tt.want {
			t.Errorf("typeName(%T) = %q, want %q", tt.typ, got, tt.want)
		}
	}
}

func TestTypeNameStructuredBufferWrapsInnerType(t *testing.T) {
	tree := &ast.AbstractSyntaxTree{
		Structs: []*ast.Struct{{Name: "Particle"}},
	}
	got, err := typeName(ast.StructuredBuffer{DataType: ast.StructInstance{Index: 0}}, tree)
	if err != nil {
		t.Fatalf("typeName: %v", err)
	}
	if got != "StructuredBuffer<Particle>" {
		t.Errorf("typeName = %q, want StructuredBuffer<Particle>", got)
	}
}

func TestTypeNameRejectsUnresolvedAndCustom(t *testing.T) {
	tree := &ast.AbstractSyntaxTree{}
	if _, err := typeName(ast.UnresolvedType{TypeName: "Foo"}, tree); err == nil {
		t.Error("expected an error for an unresolved type")
	}
	if _, err := typeName(ast.CustomType{Kind: ast.ConstantBufferKind}, tree); err == nil {
		t.Error("expected an error for a synthetic CustomType")
	}
}

func TestRegisterTypeChar(t *testing.T) {
	tests := []struct {
		typ  ast.VariableType
		want byte
	}{
		{ast.Texture2D{ElementType: "float4"}, 't'},
		{ast.StructuredBuffer{DataType: ast.BasicType{HLSLType: "float4"}}, 't'},
		{ast.RWTexture2D{ElementType: "float4"}, 'u'},
		{ast.RWByteAddressBuffer{}, 'u'},
	}
	for _, tt := range tests {
		got, err := registerTypeChar(tt.typ)
		if err != nil {
			t.Errorf("registerTypeChar(%T): %v", tt.typ, err)
			continue
		}
		if got != tt.want {
			t.Errorf("registerTypeChar(%T) = %q, want %q", tt.typ, got, tt.want)
		}
	}
}

func TestRegisterTypeCharRejectsBasicType(t *testing.T) {
	if _, err := registerTypeChar(ast.BasicType{HLSLType: "float"}); err == nil {
		t.Error("expected an error: scalar constants have no register class of their own")
	}
}

func TestEmitStructWrapsBodyInIncludeGuard(t *testing.T) {
	tree := &ast.AbstractSyntaxTree{
		Structs: []*ast.Struct{
			{
				Name: "Particle",
				Variables: []ast.Variable{
					{Name: "position", Type: ast.BasicType{HLSLType: "float3"}},
					{Name: "float", Type: ast.BasicType{HLSLType: "int"}},
				},
				Meta: ast.Metadata{ShaderFolder: "out/hlsl", ShouldExport: true},
			},
		},
	}

	f, err := emitStruct(tree.Structs[0], tree)
	if err != nil {
		t.Fatalf("emitStruct: %v", err)
	}
	if !strings.HasPrefix(f.Contents, "#ifndef __Particle__\n#define __Particle__\n") {
		t.Errorf("expected an include guard at the top, got:\n%s", f.Contents)
	}
	if !strings.HasSuffix(f.Contents, "#endif // __Particle__\n") {
		t.Errorf("expected a matching #endif at the bottom, got:\n%s", f.Contents)
	}
	if !strings.Contains(f.Contents, "float3 position;\n") {
		t.Errorf("expected the float3 member, got:\n%s", f.Contents)
	}
	if !strings.Contains(f.Contents, "int _float;\n") {
		t.Errorf("expected the reserved-word member to be escaped to _float, got:\n%s", f.Contents)
	}
}

func TestEmitGroupRejectsUnboundedArray(t *testing.T) {
	tree := &ast.AbstractSyntaxTree{}
	g := &ast.Group{
		Name: "Bindless",
		Variables: []ast.Variable{
			{Name: "textures", Type: ast.BasicType{HLSLType: "float4"}, ArrayCount: ast.Unbounded},
		},
		Meta: ast.Metadata{ShaderFolder: "out/hlsl", ShouldExport: true},
	}
	if _, err := emitGroup(g, tree); err == nil {
		t.Error("expected an error: unbounded arrays cannot appear inside a Group")
	}
}

func TestEmitConstantsGroupsByShaderFolderAndSkipsNonExported(t *testing.T) {
	constants := []ast.Constant{
		{Name: "NUM_CASCADES", Value: 4, Meta: ast.Metadata{ShaderFolder: "a", ShouldExport: true}},
		{Name: "MAX_LIGHTS", Value: 16, Meta: ast.Metadata{ShaderFolder: "a", ShouldExport: true}},
		{Name: "INTERNAL_ONLY", Value: 1, Meta: ast.Metadata{ShaderFolder: "b", ShouldExport: false}},
	}

	files, err := emitConstants(constants)
	if err != nil {
		t.Fatalf("emitConstants: %v", err)
	}
	if len(files) != 1 {
		t.Fatalf("got %d files, want 1 (only folder \"a\" has exported constants)", len(files))
	}
	if !strings.Contains(files[0].Contents, "#define NUM_CASCADES 4\n") ||
		!strings.Contains(files[0].Contents, "#define MAX_LIGHTS 16\n") {
		t.Errorf("expected both constants from folder \"a\", got:\n%s", files[0].Contents)
	}
}

func TestEmitSkipsNonExportedStructs(t *testing.T) {
	tree := &ast.AbstractSyntaxTree{
		Structs: []*ast.Struct{
			{Name: "Internal", Meta: ast.Metadata{ShaderFolder: "out/hlsl", ShouldExport: false}},
		},
	}
	files, err := Emit(tree, regalloc.ResourceBindingInfo{})
	if err != nil {
		t.Fatalf("Emit: %v", err)
	}
	for _, f := range files {
		if strings.Contains(f.Path, "Internal") {
			t.Errorf("did not expect a file for a non-exported struct: %s", f.Path)
		}
	}
}
