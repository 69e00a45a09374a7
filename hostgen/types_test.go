package hostgen

import "testing"

func TestRegularTypeCpp(t *testing.T) {
	tests := map[string]string{
		"bool":     "uint32_t",
		"float":    "float",
		"float3":   "glm::vec3",
		"float4x4": "glm::mat4",
		"int2":     "glm::ivec2",
		"uint":     "uint32_t",
		"half4":    "DirectX::PackedVector::XMHALF4",
	}
	for hlslType, want := range tests {
		got, err := regularTypeCpp(hlslType)
		if err != nil {
			t.Errorf("regularTypeCpp(%q) error: %v", hlslType, err)
			continue
		}
		if got != want {
			t.Errorf("regularTypeCpp(%q) = %q, want %q", hlslType, got, want)
		}
	}
}

func TestRegularTypeCppUnknown(t *testing.T) {
	if _, err := regularTypeCpp("Texture2D"); err == nil {
		t.Error("expected an error for a non-basic HLSL type")
	}
}

func TestConstantTypeCppBoolAndFloat3x3(t *testing.T) {
	got, err := constantTypeCpp("bool")
	if err != nil || got != "uint32_t" {
		t.Errorf("constantTypeCpp(bool) = %q, %v; want uint32_t, nil", got, err)
	}
	got, err = constantTypeCpp("float3x3")
	if err != nil || got != "glm::mat3x4" {
		t.Errorf("constantTypeCpp(float3x3) = %q, %v; want glm::mat3x4, nil", got, err)
	}
}

func TestConstantTypeCppFallsBackToRegular(t *testing.T) {
	got, err := constantTypeCpp("float4")
	if err != nil || got != "glm::vec4" {
		t.Errorf("constantTypeCpp(float4) = %q, %v; want glm::vec4, nil", got, err)
	}
}

func TestSizeOfConstantType(t *testing.T) {
	tests := map[string]uint32{
		"float":    4,
		"float3":   12,
		"float4":   16,
		"float3x3": 48,
		"float4x4": 64,
		"uint8_t":  4,
		"int64_t":  8,
	}
	for hlslType, want := range tests {
		got, err := sizeOfConstantType(hlslType)
		if err != nil {
			t.Errorf("sizeOfConstantType(%q) error: %v", hlslType, err)
			continue
		}
		if got != want {
			t.Errorf("sizeOfConstantType(%q) = %d, want %d", hlslType, got, want)
		}
	}
}

func TestAlignmentOfConstantType(t *testing.T) {
	tests := map[string]uint32{
		"float":    4,
		"float4":   4,
		"float3x3": 16,
		"float4x4": 16,
		"int64_t":  8,
	}
	for hlslType, want := range tests {
		got, err := alignmentOfConstantType(hlslType)
		if err != nil {
			t.Errorf("alignmentOfConstantType(%q) error: %v", hlslType, err)
			continue
		}
		if got != want {
			t.Errorf("alignmentOfConstantType(%q) = %d, want %d", hlslType, got, want)
		}
	}
}

func TestSizeOfConstantTypeUnknown(t *testing.T) {
	if _, err := sizeOfConstantType("Texture2D"); err == nil {
		t.Error("expected an error for a non-basic HLSL type")
	}
}
