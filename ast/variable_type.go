package ast

// VariableType is a closed sum of the kinds a Variable can have. It is
// realized as a Go interface implemented by value types, the same tagged-
// union-over-inheritance approach the pack uses for ir.TypeInner
// (github.com/gogpu/naga/ir) and wgsl.Type/wgsl.Expr
// (github.com/gogpu/naga/wgsl): a private marker method closes the set so
// external packages cannot add new variants by accident.
type VariableType interface {
	variableType()
}

// BasicType is a leaf scalar/vector/matrix type named by its HLSL
// spelling, drawn from BasicTypes.
type BasicType struct {
	HLSLType string
}

func (BasicType) variableType() {}

// StructInstance references a user-defined Struct by index.
type StructInstance struct {
	Index StructHandle
}

func (StructInstance) variableType() {}

// GroupInstance references a user-defined Group by index. The flattener
// inlines its members into the containing ShaderInputGroup under mangled
// names; the GroupInstance entry itself stays in place and is skipped by
// register allocation.
type GroupInstance struct {
	Index GroupHandle
}

func (GroupInstance) variableType() {}

// Texture2D is a read-only 2D texture resource.
type Texture2D struct {
	ElementType string // e.g. "float4"
}

func (Texture2D) variableType() {}

// RWTexture2D is a read-write 2D texture resource (UAV).
type RWTexture2D struct {
	ElementType string
}

func (RWTexture2D) variableType() {}

// ByteAddressBuffer is a read-only raw buffer (SRV).
type ByteAddressBuffer struct{}

func (ByteAddressBuffer) variableType() {}

// RWByteAddressBuffer is a read-write raw buffer (UAV).
type RWByteAddressBuffer struct{}

func (RWByteAddressBuffer) variableType() {}

// StructuredType is the restricted set of types StructuredBuffer and
// RWStructuredBuffer may wrap: a BasicType or a StructInstance, or, before
// Builder resolves it, an UnresolvedType.
type StructuredType interface {
	VariableType
	structuredType()
}

func (BasicType) structuredType()       {}
func (StructInstance) structuredType() {}
func (UnresolvedType) structuredType() {}

// StructuredBuffer is a read-only typed buffer (SRV).
type StructuredBuffer struct {
	DataType StructuredType
}

func (StructuredBuffer) variableType() {}

// RWStructuredBuffer is a read-write typed buffer (UAV).
type RWStructuredBuffer struct {
	DataType StructuredType
}

func (RWStructuredBuffer) variableType() {}

// RaytracingAccelerationStructure is a ray tracing acceleration structure
// resource (SRV).
type RaytracingAccelerationStructure struct{}

func (RaytracingAccelerationStructure) variableType() {}

// UnresolvedType is a placeholder produced by the parser for any type
// name it could not classify into one of the built-in resource forms; the
// Builder resolves it against the type table or the StructuredBuffer
// inner-type rule. It must never appear after Builder.Build returns.
type UnresolvedType struct {
	TypeName string
}

func (UnresolvedType) variableType() {}

// CustomTypeKind distinguishes the synthetic CustomType variants. Only
// ConstantBuffer exists today; the kind exists so the set can grow without
// another interface variant (mirrors the original C++ CustomType being an
// open base class with one concrete subclass, ConstantBuffer).
type CustomTypeKind uint8

const (
	// ConstantBufferKind marks the synthetic constant-buffer slot the
	// flattener injects into an input group when it has scalar/struct
	// constants.
	ConstantBufferKind CustomTypeKind = iota
)

// CustomType is a synthetic, compiler-injected variant not expressible in
// the source grammar. Today it is used only to mark the implicit constant
// buffer an input group allocates for its scalar constants.
type CustomType struct {
	Kind CustomTypeKind
}

func (CustomType) variableType() {}

// IsResourceType reports whether t consumes a register-class descriptor
// (as opposed to being a scalar/struct constant folded into the synthetic
// constant buffer, or a not-yet-flattened GroupInstance).
func IsResourceType(t VariableType) bool {
	switch t.(type) {
	case BasicType, StructInstance, GroupInstance:
		return false
	default:
		return true
	}
}

// IsStandardConstantType reports whether t is a plain scalar/struct
// constant that gets folded into the injected ConstantBuffer rather than
// allocated its own descriptor — grounded on
// dx12_render::isStandardContantVariableType in the original source.
func IsStandardConstantType(t VariableType) bool {
	switch t.(type) {
	case BasicType, StructInstance:
		return true
	default:
		return false
	}
}
