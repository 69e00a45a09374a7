package regalloc

import (
	"testing"

	"github.com/mathijs727/sic/ast"
)

func buildTree(t *testing.T, statements []ast.Statement) *ast.AbstractSyntaxTree {
	t.Helper()
	tree, err := ast.NewBuilder().Build(ast.Metadata{ShouldExport: true}, statements)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if err := ast.Flatten(tree); err != nil {
		t.Fatalf("Flatten: %v", err)
	}
	return tree
}

func TestAllocateSingleResourceGetsOneTable(t *testing.T) {
	tree := buildTree(t, []ast.Statement{
		ast.BindPoint{Name: "Material"},
		ast.ShaderInputGroup{Name: "MaterialInputs", BindPointName: "Material", Variables: []ast.Variable{
			{Name: "albedo", Type: ast.Texture2D{ElementType: "float4"}},
		}},
	})

	bindings, err := Allocate(tree)
	if err != nil {
		t.Fatalf("Allocate: %v", err)
	}
	bp := bindings.BindPoints[0]
	if len(bp.RootParameters) != 1 {
		t.Fatalf("got %d root parameters, want 1", len(bp.RootParameters))
	}
	if len(bp.ShaderInputGroups) != 1 {
		t.Fatalf("got %d input group bindings, want 1", len(bp.ShaderInputGroups))
	}
	group := bp.ShaderInputGroups[0]
	if len(group.RootParameters) != 1 || len(group.RootParameters[0].DescriptorTable.Descriptors) != 1 {
		t.Fatalf("expected the one texture to land in a single-descriptor table: %+v", group)
	}
}

func TestAllocateSharesWorstCaseLayoutAcrossInputGroups(t *testing.T) {
	tree := buildTree(t, []ast.Statement{
		ast.BindPoint{Name: "Material"},
		ast.ShaderInputGroup{Name: "Small", BindPointName: "Material", Variables: []ast.Variable{
			{Name: "albedo", Type: ast.Texture2D{ElementType: "float4"}},
		}},
		ast.ShaderInputGroup{Name: "Big", BindPointName: "Material", Variables: []ast.Variable{
			{Name: "albedo", Type: ast.Texture2D{ElementType: "float4"}},
			{Name: "normal", Type: ast.Texture2D{ElementType: "float4"}},
		}},
	})

	bindings, err := Allocate(tree)
	if err != nil {
		t.Fatalf("Allocate: %v", err)
	}
	bp := bindings.BindPoints[0]
	// The layout must be sized for the worst case (2 SRVs), and both input
	// groups' concrete bindings use the same shared root-parameter slot.
	if bp.RootParameters[0].DescriptorTableLayout.Ranges[0].NumDescriptors != 2 {
		t.Errorf("shared layout range size = %d, want 2 (sized for the larger input group)",
			bp.RootParameters[0].DescriptorTableLayout.Ranges[0].NumDescriptors)
	}
	small := bp.ShaderInputGroups[0]
	if len(small.RootParameters[0].DescriptorTable.Descriptors) != 1 {
		t.Errorf("Small input group should still only bind its one texture")
	}
}

func TestAllocateUnboundedSharesTableWithBounded(t *testing.T) {
	tree := buildTree(t, []ast.Statement{
		ast.BindPoint{Name: "Bindless"},
		ast.ShaderInputGroup{Name: "BindlessInputs", BindPointName: "Bindless", Variables: []ast.Variable{
			{Name: "materials", Type: ast.Texture2D{ElementType: "float4"}, ArrayCount: ast.Unbounded},
			{Name: "lut", Type: ast.Texture2D{ElementType: "float4"}},
		}},
	})

	bindings, err := Allocate(tree)
	if err != nil {
		t.Fatalf("Allocate: %v", err)
	}
	bp := bindings.BindPoints[0]
	if len(bp.RootParameters) != 1 {
		t.Fatalf("got %d root parameters, want 1 (the bounded texture shares the unbounded table)", len(bp.RootParameters))
	}
}

func TestAllocateStandardConstantsFoldIntoConstantBuffer(t *testing.T) {
	tree := buildTree(t, []ast.Statement{
		ast.BindPoint{Name: "Material"},
		ast.ShaderInputGroup{Name: "MaterialInputs", BindPointName: "Material", Variables: []ast.Variable{
			{Name: "roughness", Type: ast.UnresolvedType{TypeName: "float"}},
		}},
	})

	// The Builder resolved "float" through its whitelist inside Build,
	// before Flatten ran, so by the time we get here the UnresolvedType
	// has already become a BasicType.
	bindings, err := Allocate(tree)
	if err != nil {
		t.Fatalf("Allocate: %v", err)
	}
	bp := bindings.BindPoints[0]
	if len(bp.RootParameters) != 1 {
		t.Fatalf("got %d root parameters, want 1 (the injected constant buffer)", len(bp.RootParameters))
	}
	layout := bp.RootParameters[0].DescriptorTableLayout
	if len(layout.Ranges) != 1 || layout.Ranges[0].Class != ClassConstantBuffer {
		t.Errorf("expected a single CBV range, got %+v", layout.Ranges)
	}
}

func TestAllocateShaderInputLayoutRootParameterOrdering(t *testing.T) {
	tree := buildTree(t, []ast.Statement{
		ast.BindPoint{Name: "Material"},
		ast.ShaderInputGroup{Name: "MaterialInputs", BindPointName: "Material", Variables: []ast.Variable{
			{Name: "albedo", Type: ast.Texture2D{ElementType: "float4"}},
		}},
		ast.ShaderInputLayout{Name: "Forward",
			RootConstants:           []ast.RootConstant{{Name: "drawId", Num32BitValues: 1}},
			RootConstantBufferViews: []ast.RootConstantBufferView{{Name: "perFrame"}},
			BindPoints:              []ast.BindPointReference{{Name: "material", BindPointName: "Material"}},
		},
	})

	bindings, err := Allocate(tree)
	if err != nil {
		t.Fatalf("Allocate: %v", err)
	}
	layout := bindings.ShaderInputLayouts[0]
	if len(layout.ConstantRootParameterIndices) != 1 || layout.ConstantRootParameterIndices[0] != 0 {
		t.Errorf("ConstantRootParameterIndices = %v, want [0]", layout.ConstantRootParameterIndices)
	}
	if len(layout.CBVRootParameterIndices) != 1 || layout.CBVRootParameterIndices[0] != 1 {
		t.Errorf("CBVRootParameterIndices = %v, want [1]", layout.CBVRootParameterIndices)
	}
	if len(layout.BindPointRootParameterIndices) != 1 || layout.BindPointRootParameterIndices[0] != 2 {
		t.Errorf("BindPointRootParameterIndices = %v, want [2]", layout.BindPointRootParameterIndices)
	}
}
