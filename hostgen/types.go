package hostgen

import "fmt"

// regularTypeCpp maps an HLSL basic type spelling to the C++ type used
// for non-constant-buffer storage (struct members, setter parameters),
// grounded on the original compiler's regularTypeCpp.
func regularTypeCpp(hlslType string) (string, error) {
	switch hlslType {
	case "bool":
		return "uint32_t", nil
	case "half2":
		return "DirectX::PackedVector::XMHALF2", nil
	case "half4":
		return "DirectX::PackedVector::XMHALF4", nil
	case "float":
		return "float", nil
	case "float2":
		return "glm::vec2", nil
	case "float3":
		return "glm::vec3", nil
	case "float4":
		return "glm::vec4", nil
	case "float3x3":
		return "glm::mat3", nil
	case "float4x4":
		return "glm::mat4", nil
	case "int", "int32_t":
		return "int32_t", nil
	case "int64_t":
		return "int64_t", nil
	case "int2":
		return "glm::ivec2", nil
	case "int3":
		return "glm::ivec3", nil
	case "int4":
		return "glm::ivec4", nil
	case "uint", "uint32_t":
		return "uint32_t", nil
	case "uint8_t":
		return "uint8_t", nil
	case "uint16_t":
		return "uint16_t", nil
	case "uint64_t":
		return "uint64_t", nil
	case "uint2":
		return "glm::uvec2", nil
	case "uint3":
		return "glm::uvec3", nil
	case "uint4":
		return "glm::uvec4", nil
	default:
		return "", fmt.Errorf("unknown HLSL type %q encountered", hlslType)
	}
}

// constantTypeCpp is regularTypeCpp except for float3x3, which straddles
// a row into the next 16-byte vector in an HLSL constant buffer, so it is
// stored as a padded mat3x4. bool maps to uint32_t here as in
// regularTypeCpp, since HLSL always stores it as a 4-byte uint in a
// cbuffer.
func constantTypeCpp(hlslType string) (string, error) {
	switch hlslType {
	case "bool":
		return "uint32_t", nil
	case "float3x3":
		return "glm::mat3x4", nil
	default:
		return regularTypeCpp(hlslType)
	}
}

// sizeOfConstantType returns hlslType's size in bytes inside an HLSL
// constant buffer, per the DX HLSL packing rules.
func sizeOfConstantType(hlslType string) (uint32, error) {
	switch hlslType {
	case "bool", "float", "int", "int32_t", "uint", "uint32_t":
		return 4, nil
	case "half2":
		return 4, nil
	case "half4":
		return 8, nil
	case "float2", "int2", "uint2":
		return 8, nil
	case "float3", "int3", "uint3":
		return 12, nil
	case "float4", "int4", "uint4":
		return 16, nil
	case "float3x3":
		return 48, nil
	case "float4x4":
		return 64, nil
	case "int64_t", "uint64_t":
		return 8, nil
	case "uint8_t", "uint16_t":
		return 4, nil // minimum constant buffer element size is 4 bytes
	default:
		return 0, fmt.Errorf("unknown HLSL type %q encountered", hlslType)
	}
}

// alignmentOfConstantType returns the byte alignment hlslType requires
// inside an HLSL constant buffer.
func alignmentOfConstantType(hlslType string) (uint32, error) {
	switch hlslType {
	case "float3x3", "float4x4":
		return 16, nil
	case "int64_t", "uint64_t":
		return 8, nil
	case "bool", "half2", "half4", "float", "float2", "float3", "float4",
		"int", "int32_t", "int2", "int3", "int4",
		"uint", "uint8_t", "uint16_t", "uint32_t", "uint2", "uint3", "uint4":
		return 4, nil
	default:
		return 0, fmt.Errorf("unknown HLSL type %q encountered", hlslType)
	}
}
