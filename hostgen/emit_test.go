package hostgen

import (
	"strings"
	"testing"

	"github.com/mathijs727/sic/ast"
	"github.com/mathijs727/sic/regalloc"
)

func TestRoundUp(t *testing.T) {
	tests := []struct{ value, multiple, want uint32 }{
		{0, 16, 0},
		{1, 16, 16},
		{16, 16, 16},
		{17, 16, 32},
		{4, 0, 4},
	}
	for _, tt := range tests {
		if got := roundUp(tt.value, tt.multiple); got != tt.want {
			t.Errorf("roundUp(%d, %d) = %d, want %d", tt.value, tt.multiple, got, tt.want)
		}
	}
}

func TestWriteConstantsStructPadsAcross16ByteBoundary(t *testing.T) {
	tree := &ast.AbstractSyntaxTree{}
	vars := []ast.Variable{
		{Name: "roughness", Type: ast.BasicType{HLSLType: "float"}},
		{Name: "metallic", Type: ast.BasicType{HLSLType: "float"}},
		{Name: "tint", Type: ast.BasicType{HLSLType: "float3"}},
	}

	var b strings.Builder
	size, err := writeConstantsStruct(&b, vars, tree)
	if err != nil {
		t.Fatalf("writeConstantsStruct: %v", err)
	}
	// roughness(4) + metallic(4) = 8, then tint(float3, 12 bytes, would end
	// at byte 20 which straddles the 16-byte boundary at 8..20) must be
	// realigned to start at 16, padding bytes 8..16.
	if !strings.Contains(b.String(), "_pad0[8]") {
		t.Errorf("expected an 8-byte pad before the float3 that would straddle a vector boundary, got:\n%s", b.String())
	}
	if size != 32 {
		t.Errorf("packed size = %d, want 32 (16 + 12 rounded up to 16)", size)
	}
}

func TestWriteConstantsStructSkipsGroupInstanceAndCustomType(t *testing.T) {
	tree := &ast.AbstractSyntaxTree{}
	vars := []ast.Variable{
		{Name: "albedo", Type: ast.BasicType{HLSLType: "float4"}},
		{Name: "samplers", Type: ast.GroupInstance{Index: 0}},
		{Name: "__constants", Type: ast.CustomType{Kind: ast.ConstantBufferKind}},
	}

	var b strings.Builder
	size, err := writeConstantsStruct(&b, vars, tree)
	if err != nil {
		t.Fatalf("writeConstantsStruct: %v", err)
	}
	if strings.Contains(b.String(), "samplers") || strings.Contains(b.String(), "__constants") {
		t.Errorf("expected non-standard-constant variables to be skipped, got:\n%s", b.String())
	}
	if size != 16 {
		t.Errorf("packed size = %d, want 16 (one float4)", size)
	}
}

func TestSizeOfStructRoundsUpToVectorMultiple(t *testing.T) {
	tree := &ast.AbstractSyntaxTree{}
	s := &ast.Struct{
		Name: "Small",
		Variables: []ast.Variable{
			{Name: "x", Type: ast.BasicType{HLSLType: "float"}},
		},
	}
	size, err := sizeOfStruct(s, tree)
	if err != nil {
		t.Fatalf("sizeOfStruct: %v", err)
	}
	if size != 16 {
		t.Errorf("sizeOfStruct = %d, want 16 (one scalar rounds up to a full 16-byte vector)", size)
	}
}

func TestHostTypeNameResourceTypesMapToBindingStructs(t *testing.T) {
	tree := &ast.AbstractSyntaxTree{}
	tests := []struct {
		typ  ast.VariableType
		want string
	}{
		{ast.Texture2D{ElementType: "float4"}, "ShaderResourceViewBinding"},
		{ast.StructuredBuffer{DataType: ast.BasicType{HLSLType: "float4"}}, "ShaderResourceViewBinding"},
		{ast.RWTexture2D{ElementType: "float4"}, "UnorderedAccessViewBinding"},
		{ast.RWByteAddressBuffer{}, "UnorderedAccessViewBinding"},
	}
	for _, tt := range tests {
		got, err := hostTypeName(tt.typ, tree, false)
		if err != nil {
			t.Errorf("hostTypeName(%T): %v", tt.typ, err)
			continue
		}
		if got != tt.want {
			t.Errorf("hostTypeName(%T) = %q, want %q", tt.typ, got, tt.want)
		}
	}
}

func TestHostTypeNameBasicTypePrefersConstantOrRegular(t *testing.T) {
	tree := &ast.AbstractSyntaxTree{}
	got, err := hostTypeName(ast.BasicType{HLSLType: "bool"}, tree, true)
	if err != nil || got != "uint32_t" {
		t.Errorf("hostTypeName(bool, preferConstantType) = %q, %v; want uint32_t, nil", got, err)
	}
	got, err = hostTypeName(ast.BasicType{HLSLType: "float3x3"}, tree, false)
	if err != nil || got != "glm::mat3" {
		t.Errorf("hostTypeName(float3x3, regular) = %q, %v; want glm::mat3, nil", got, err)
	}
}

func TestEmitStructGeneratesConstantAndRegularVariants(t *testing.T) {
	tree := &ast.AbstractSyntaxTree{
		Structs: []*ast.Struct{
			{
				Name: "Particle",
				Variables: []ast.Variable{
					{Name: "position", Type: ast.BasicType{HLSLType: "float3"}},
					{Name: "isAlive", Type: ast.BasicType{HLSLType: "bool"}},
				},
				Meta: ast.Metadata{CppFolder: "out/cpp", ShouldExport: true},
			},
		},
	}

	f, err := emitStruct(tree.Structs[0], tree)
	if err != nil {
		t.Fatalf("emitStruct: %v", err)
	}
	if !strings.Contains(f.Contents, "struct CParticle {") {
		t.Errorf("expected a constant-packed CParticle variant, got:\n%s", f.Contents)
	}
	if !strings.Contains(f.Contents, "struct Particle {") {
		t.Errorf("expected a regular Particle variant, got:\n%s", f.Contents)
	}
	if !strings.Contains(f.Contents, "glm::vec3 position") {
		t.Errorf("expected the regular variant to use glm::vec3, got:\n%s", f.Contents)
	}
}

func TestEmitSkipsItemsThatShouldNotExport(t *testing.T) {
	tree := &ast.AbstractSyntaxTree{
		Structs: []*ast.Struct{
			{Name: "Internal", Meta: ast.Metadata{CppFolder: "out/cpp", ShouldExport: false}},
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
