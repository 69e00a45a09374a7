// Package regalloc assigns HLSL registers and root-signature layout to a
// resolved AbstractSyntaxTree. It is a direct Go port of the original
// compiler's dx12-render backend: every ShaderInputGroup bound to a
// BindPoint shares a small set of descriptor tables sized to the worst
// case across the bind point's input groups, so any input group can bind
// to the pipeline without a root-signature mismatch.
package regalloc

import "github.com/mathijs727/sic/ast"

// RegisterClass is the HLSL register class a resource descriptor
// consumes (b/t/u/s). It mirrors dx12_render::RegisterType.
type RegisterClass uint8

const (
	ClassUnknown RegisterClass = iota
	ClassConstantBuffer
	ClassShaderResource
	ClassUnorderedAccess
	ClassSampler

	numRegisterClasses = int(ClassSampler) + 1
)

func (c RegisterClass) String() string {
	switch c {
	case ClassConstantBuffer:
		return "b"
	case ClassShaderResource:
		return "t"
	case ClassUnorderedAccess:
		return "u"
	case ClassSampler:
		return "s"
	default:
		return "?"
	}
}

// ClassOf maps a resolved VariableType to the register class it
// allocates from. Scalars/structs never reach here directly: they are
// folded into the injected ast.CustomType constant buffer by
// ast.Flatten before allocation, and the GroupInstance entries that
// Flatten leaves in place are skipped by the planner.
func ClassOf(t ast.VariableType) (RegisterClass, error) {
	switch t.(type) {
	case ast.CustomType:
		return ClassConstantBuffer, nil
	case ast.Texture2D, ast.ByteAddressBuffer, ast.StructuredBuffer, ast.RaytracingAccelerationStructure:
		return ClassShaderResource, nil
	case ast.RWTexture2D, ast.RWByteAddressBuffer, ast.RWStructuredBuffer:
		return ClassUnorderedAccess, nil
	default:
		return ClassUnknown, &InternalError{Message: "cannot determine register class for variable type"}
	}
}
