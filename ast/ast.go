// Package ast defines the canonical tables for a parsed shader input
// definition: bind points, input layouts, input groups, groups, structs,
// and constants. Values in this package are produced by the parser
// (pre-resolution, carrying UnresolvedType references) and turned into a
// fully resolved AbstractSyntaxTree by Builder.
package ast

import "math"

// Unbounded marks a runtime-sized array (the spec's UNBOUNDED sentinel).
const Unbounded uint32 = math.MaxUint32

// Handle types index into the AbstractSyntaxTree's contiguous tables.
// Cross-references use these instead of pointers, so the AST has no cycles
// and stays trivially serializable.
type (
	BindPointHandle       uint32
	StructHandle          uint32
	GroupHandle           uint32
	ShaderInputGroupHandle uint32
	ShaderInputLayoutHandle uint32
)

// ShaderStage is a tagged variant over the shader stages a resource can be
// visible to.
type ShaderStage uint8

const (
	StageVertex ShaderStage = iota
	StageGeometry
	StagePixel
	StageCompute
	StageRayTracing
)

func (s ShaderStage) String() string {
	switch s {
	case StageVertex:
		return "vertex"
	case StageGeometry:
		return "geometry"
	case StagePixel:
		return "pixel"
	case StageCompute:
		return "compute"
	case StageRayTracing:
		return "raytracing"
	default:
		return "unknown"
	}
}

// ParseShaderStage maps the grammar's shader-stage identifiers (including
// its synonyms "fragment"/"pixel" and "rt"/"raytracing") to a ShaderStage.
func ParseShaderStage(s string) (ShaderStage, bool) {
	switch s {
	case "vertex":
		return StageVertex, true
	case "geometry":
		return StageGeometry, true
	case "fragment", "pixel":
		return StagePixel, true
	case "compute":
		return StageCompute, true
	case "rt", "raytracing":
		return StageRayTracing, true
	default:
		return 0, false
	}
}

// BasicTypes is the finite whitelist of HLSL-spelled leaf types the
// compiler understands. Seeded into the Builder's type table before any
// user declaration is processed.
var BasicTypes = []string{
	"bool", "half2",
	"float", "float2", "float3", "float4", "float3x3", "float4x4",
	"int", "int32_t", "int64_t", "int2", "int3", "int4",
	"uint", "uint8_t", "uint16_t", "uint32_t", "uint64_t", "uint2", "uint3", "uint4",
}

// Pos is a source location, used for diagnostics.
type Pos struct {
	File   string
	Line   int
	Column int
}

// Metadata carries per-item output routing, assigned from the enclosing
// file's #output directive. ShouldExport is true only for items declared
// in the root input file.
type Metadata struct {
	CppFolder     string
	ShaderFolder  string
	ShouldExport  bool
}

// Variable is a single named member of a Struct, Group, or
// ShaderInputGroup.
type Variable struct {
	Name       string
	Type       VariableType
	ArrayCount uint32 // 0 = scalar, N = fixed-size array, Unbounded = runtime-sized
	Pos        Pos
}

// Struct is a plain-old-data aggregate. Members are restricted to
// BasicType, StructInstance, and arrays thereof (enforced by Builder).
type Struct struct {
	Name      string
	Variables []Variable
	Meta      Metadata
}

// Group is a reusable bundle of named resources that an input group can
// instantiate via GroupInstance; the flattener inlines its members.
type Group struct {
	Name      string
	Variables []Variable
	Meta      Metadata
}

// BindPoint is a named hook that input groups attach to.
type BindPoint struct {
	Name             string
	ShaderInputGroups []ShaderInputGroupHandle // filled in as input groups are added
	Meta             Metadata
}

// ShaderInputGroup is a declared set of shader-visible resources that
// collectively occupy a bind point.
type ShaderInputGroup struct {
	Name          string
	BindPointName string // as written; resolved into BindPointIndex by Builder
	BindPointIndex BindPointHandle
	Variables     []Variable
	Meta          Metadata
}

// BindPointReference is a layout's use of a bind point, declaring which
// shader stages may see its resources.
type BindPointReference struct {
	Name          string // the layout-local name
	BindPointName string // the bind-point-class name, resolved below
	BindPointIndex BindPointHandle
	ShaderStages  []ShaderStage
}

// RootConstant is an inline 32-bit-value root parameter.
type RootConstant struct {
	Name          string
	ShaderStages  []ShaderStage
	Num32BitValues uint32
}

// RootConstantBufferView is a root-level CBV root parameter (no table
// indirection).
type RootConstantBufferView struct {
	Name         string
	ShaderStages []ShaderStage
}

// StaticSampler is an immutable sampler baked into the root signature.
type StaticSampler struct {
	Name    string
	Options map[string]string
}

// ShaderInputLayoutOptions holds the aggregate options recognized on a
// ShaderInputLayout declaration.
type ShaderInputLayoutOptions struct {
	LocalRootSignature bool
}

// ShaderInputLayout is an ordered concatenation of root constants, root
// CBVs, and bind-point references that together define a root signature.
type ShaderInputLayout struct {
	Name                    string
	Options                 ShaderInputLayoutOptions
	BindPoints              []BindPointReference
	RootConstants           []RootConstant
	RootConstantBufferViews []RootConstantBufferView
	StaticSamplers          []StaticSampler
	Meta                    Metadata
}

// Constant is a name bound to an integer value in the process-wide (per
// compile) constants table, usable in later array-size expressions.
type Constant struct {
	Name  string
	Value int64
	Meta  Metadata
}

// AbstractSyntaxTree holds the canonical, fully resolved tables produced
// by Builder. All cross-references are indices into these slices.
type AbstractSyntaxTree struct {
	BindPoints         []*BindPoint
	Structs            []*Struct
	Groups             []*Group
	ShaderInputGroups  []*ShaderInputGroup
	ShaderInputLayouts []*ShaderInputLayout
	Constants          []Constant
}
