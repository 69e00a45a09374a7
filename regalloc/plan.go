package regalloc

import (
	"sort"

	"github.com/mathijs727/sic/ast"
)

// BindPointRootParameter is one slot in a root signature that binds a
// descriptor table, at the given root parameter index.
type BindPointRootParameter struct {
	RootParameterOffset  uint32
	DescriptorTableLayout DescriptorTableLayout
}

// ShaderInputGroupRootParameter is one input group's concrete table
// contents for a root parameter its bind point reserves.
type ShaderInputGroupRootParameter struct {
	RootParameterOffset uint32
	DescriptorTable     DescriptorTable
}

// ShaderInputGroupBindings holds one input group's concrete root
// parameter bindings, in the same order as its BindPoint's
// RootParameters. Tables the group binds nothing into are omitted, so
// each entry's RootParameterOffset names the slot it fills.
type ShaderInputGroupBindings struct {
	RootParameters []ShaderInputGroupRootParameter
}

// BindPointBindings holds the shared table layout for a bind point plus
// every one of its input groups' concrete bindings into that layout.
type BindPointBindings struct {
	RootParameters    []BindPointRootParameter
	ShaderInputGroups []ShaderInputGroupBindings
}

// ShaderInputLayoutBindings records, for one ShaderInputLayout, the root
// parameter index assigned to each of its root constants, root CBVs, and
// bind point references (the first table of each bind point's
// contiguous run).
type ShaderInputLayoutBindings struct {
	BindPointRootParameterIndices []uint32
	ConstantRootParameterIndices  []uint32
	CBVRootParameterIndices       []uint32
}

// ResourceBindingInfo is the complete register/root-signature plan for a
// compile, indexed the same way as the AbstractSyntaxTree it was built
// from.
type ResourceBindingInfo struct {
	BindPoints         []BindPointBindings
	ShaderInputLayouts []ShaderInputLayoutBindings
}

// Allocate computes the register and root-signature layout for tree,
// which must already have had ast.Flatten applied. It is a direct port
// of the original compiler's dx12_render::allocateRegisters, split here
// into planBindPoint (per bind point) and the root-parameter-index pass
// over each ShaderInputLayout.
func Allocate(tree *ast.AbstractSyntaxTree) (ResourceBindingInfo, error) {
	out := ResourceBindingInfo{
		BindPoints: make([]BindPointBindings, len(tree.BindPoints)),
	}
	for i, bp := range tree.BindPoints {
		bindings, err := planBindPoint(tree, bp)
		if err != nil {
			return ResourceBindingInfo{}, err
		}
		out.BindPoints[i] = bindings
	}

	out.ShaderInputLayouts = make([]ShaderInputLayoutBindings, len(tree.ShaderInputLayouts))
	for i, layout := range tree.ShaderInputLayouts {
		var bindings ShaderInputLayoutBindings
		rootParameterIndex := uint32(0)
		for range layout.RootConstants {
			bindings.ConstantRootParameterIndices = append(bindings.ConstantRootParameterIndices, rootParameterIndex)
			rootParameterIndex++
		}
		for range layout.RootConstantBufferViews {
			bindings.CBVRootParameterIndices = append(bindings.CBVRootParameterIndices, rootParameterIndex)
			rootParameterIndex++
		}
		for _, ref := range layout.BindPoints {
			bindings.BindPointRootParameterIndices = append(bindings.BindPointRootParameterIndices, rootParameterIndex)
			rootParameterIndex += uint32(len(out.BindPoints[ref.BindPointIndex].RootParameters))
		}
		out.ShaderInputLayouts[i] = bindings
	}
	return out, nil
}

// planBindPoint sizes one set of descriptor table allocators to the
// worst case across bp's input groups, then allocates each input
// group's variables into that shared layout.
func planBindPoint(tree *ast.AbstractSyntaxTree, bp *ast.BindPoint) (BindPointBindings, error) {
	var maxBounded [numRegisterClasses]uint32
	var maxUnbounded [numRegisterClasses]uint32

	for _, sigIdx := range bp.ShaderInputGroups {
		sig := tree.ShaderInputGroups[sigIdx]
		var bounded [numRegisterClasses]uint32
		var unbounded [numRegisterClasses]uint32
		for _, v := range sig.Variables {
			if skipVariable(v) {
				continue
			}
			class, err := ClassOf(v.Type)
			if err != nil {
				return BindPointBindings{}, err
			}
			if v.ArrayCount == ast.Unbounded {
				unbounded[class]++
			} else {
				n := v.ArrayCount
				if n == 0 {
					n = 1
				}
				bounded[class] += n
			}
		}
		for c := 0; c < numRegisterClasses; c++ {
			maxBounded[c] = max32(maxBounded[c], bounded[c])
			maxUnbounded[c] = max32(maxUnbounded[c], unbounded[c])
		}
	}

	// One allocator per unbounded range (paired with all bounded classes,
	// which the first such allocator absorbs), plus one residual allocator
	// if there are bounded descriptors left with no unbounded range to
	// ride along with.
	var allocators []*DescriptorTableAllocator
	boundedRemaining := maxBounded
	for class := 0; class < numRegisterClasses; class++ {
		for i := uint32(0); i < maxUnbounded[class]; i++ {
			descriptors := boundedRemaining
			descriptors[class] = ast.Unbounded
			boundedRemaining = [numRegisterClasses]uint32{}
			allocators = append(allocators, NewDescriptorTableAllocator(descriptors))
		}
	}
	if sumOf(boundedRemaining) > 0 {
		allocators = append(allocators, NewDescriptorTableAllocator(boundedRemaining))
	}

	bindings := BindPointBindings{
		ShaderInputGroups: make([]ShaderInputGroupBindings, len(bp.ShaderInputGroups)),
	}
	for groupPos, sigIdx := range bp.ShaderInputGroups {
		for _, a := range allocators {
			a.StartInputGroup()
		}

		sig := tree.ShaderInputGroups[sigIdx]
		order := make([]int, len(sig.Variables))
		for i := range order {
			order[i] = i
		}
		sort.SliceStable(order, func(i, j int) bool {
			return sig.Variables[order[i]].ArrayCount < sig.Variables[order[j]].ArrayCount
		})

		for _, variableIdx := range order {
			v := sig.Variables[variableIdx]
			if skipVariable(v) {
				continue
			}
			class, err := ClassOf(v.Type)
			if err != nil {
				return BindPointBindings{}, err
			}
			placed := false
			for _, a := range allocators {
				if a.TryAllocate(variableIdx, class, v.ArrayCount) {
					placed = true
					break
				}
			}
			if !placed {
				return BindPointBindings{}, &InternalError{Message: "variable did not fit any descriptor table allocator"}
			}
		}

		var groupBindings ShaderInputGroupBindings
		for rootParameterOffset, a := range allocators {
			table, ok := a.CreateDescriptorTable()
			if !ok {
				continue
			}
			groupBindings.RootParameters = append(groupBindings.RootParameters, ShaderInputGroupRootParameter{
				RootParameterOffset: uint32(rootParameterOffset),
				DescriptorTable:     table,
			})
		}
		bindings.ShaderInputGroups[groupPos] = groupBindings
	}

	for rootParameterOffset, a := range allocators {
		bindings.RootParameters = append(bindings.RootParameters, BindPointRootParameter{
			RootParameterOffset:   uint32(rootParameterOffset),
			DescriptorTableLayout: a.CreateDescriptorTableLayout(),
		})
	}
	return bindings, nil
}

// skipVariable reports whether v consumes no descriptor of its own:
// standard constants fold into the injected ConstantBuffer custom type,
// and GroupInstance markers were already expanded in place by
// ast.Flatten.
func skipVariable(v ast.Variable) bool {
	if ast.IsStandardConstantType(v.Type) {
		return true
	}
	if _, isGroup := v.Type.(ast.GroupInstance); isGroup {
		return true
	}
	return false
}

func sumOf(a [numRegisterClasses]uint32) uint32 {
	var total uint32
	for _, v := range a {
		total += v
	}
	return total
}
