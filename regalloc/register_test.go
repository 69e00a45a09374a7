package regalloc

import (
	"testing"

	"github.com/mathijs727/sic/ast"
)

func TestClassOfResourceTypes(t *testing.T) {
	tests := []struct {
		name string
		typ  ast.VariableType
		want RegisterClass
	}{
		{"CustomType", ast.CustomType{Kind: ast.ConstantBufferKind}, ClassConstantBuffer},
		{"Texture2D", ast.Texture2D{ElementType: "float4"}, ClassShaderResource},
		{"ByteAddressBuffer", ast.ByteAddressBuffer{}, ClassShaderResource},
		{"StructuredBuffer", ast.StructuredBuffer{DataType: ast.BasicType{HLSLType: "float4"}}, ClassShaderResource},
		{"RaytracingAccelerationStructure", ast.RaytracingAccelerationStructure{}, ClassShaderResource},
		{"RWTexture2D", ast.RWTexture2D{ElementType: "float4"}, ClassUnorderedAccess},
		{"RWByteAddressBuffer", ast.RWByteAddressBuffer{}, ClassUnorderedAccess},
		{"RWStructuredBuffer", ast.RWStructuredBuffer{DataType: ast.BasicType{HLSLType: "float4"}}, ClassUnorderedAccess},
	}
	for _, tt := range tests {
		got, err := ClassOf(tt.typ)
		if err != nil {
			t.Errorf("%s: ClassOf returned error: %v", tt.name, err)
			continue
		}
		if got != tt.want {
			t.Errorf("%s: ClassOf = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestClassOfRejectsBasicType(t *testing.T) {
	_, err := ClassOf(ast.BasicType{HLSLType: "float"})
	if err == nil {
		t.Fatal("expected an error: scalar constants must be folded by ast.Flatten before allocation")
	}
	if _, ok := err.(*InternalError); !ok {
		t.Errorf("got %T, want *InternalError", err)
	}
}

func TestRegisterClassString(t *testing.T) {
	tests := map[RegisterClass]string{
		ClassConstantBuffer: "b",
		ClassShaderResource: "t",
		ClassUnorderedAccess: "u",
		ClassSampler:         "s",
		ClassUnknown:         "?",
	}
	for class, want := range tests {
		if got := class.String(); got != want {
			t.Errorf("%v.String() = %q, want %q", class, got, want)
		}
	}
}
