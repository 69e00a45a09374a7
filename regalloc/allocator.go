package regalloc

import (
	"sort"

	"github.com/mathijs727/sic/ast"
)

// Descriptor is one variable's slot within a descriptor table.
type Descriptor struct {
	VariableIndex    int
	DescriptorOffset uint32
	NumDescriptors   uint32 // ast.Unbounded for the table's one unbounded slot, if any
}

// DescriptorTable is the per-input-group instantiation of a table: the
// concrete variable bound to each descriptor.
type DescriptorTable struct {
	Descriptors          []Descriptor
	NumKnownDescriptors  uint32 // excludes any unbounded range's descriptors
	UnboundedVariableIdx int    // -1 if the table has no unbounded range bound
}

// DescriptorTableLayout is the bind-point-wide, input-group-independent
// shape of a table: how many descriptors of which class, at which base
// offset. Every input group bound to the same bind point shares this
// layout, sized to the worst case across all of them.
type DescriptorTableLayout struct {
	Ranges []Range
}

// Range is one contiguous run of same-class descriptors within a table.
type Range struct {
	BaseDescriptorOffset uint32
	NumDescriptors       uint32 // ast.Unbounded for the table's unbounded range
	Class                RegisterClass
}

// rangeAllocator tracks one register class's slice of a descriptor
// table. It persists across the bind point's input groups (maxSize,
// baseDescriptorOffset are fixed once); currentOffsetInRange and
// currentBindings reset per input group via StartInputGroup.
type rangeAllocator struct {
	class                RegisterClass
	maxSize              uint32
	baseDescriptorOffset uint32

	currentOffsetInRange uint32
	currentBindings      []Descriptor
}

// DescriptorTableAllocator packs variables into ranges within a single
// descriptor table: at most one range per register class, of which at
// most one is unbounded. One allocator is created per table a bind point
// needs; planBindPoint (plan.go) decides how many tables that is.
type DescriptorTableAllocator struct {
	ranges []rangeAllocator
}

// NewDescriptorTableAllocator builds the fixed range layout for a table
// sized by descriptorsPerClass (indexed by RegisterClass), ast.Unbounded
// marking the one class allowed to run unbounded in this table. Ranges
// are sorted ascending by size so an unbounded range (if present) is
// always allocated last within the table, matching the allocation order
// DescriptorTableAllocator.TryAllocate depends on.
func NewDescriptorTableAllocator(descriptorsPerClass [numRegisterClasses]uint32) *DescriptorTableAllocator {
	a := &DescriptorTableAllocator{}
	for class := 0; class < numRegisterClasses; class++ {
		if descriptorsPerClass[class] > 0 {
			a.ranges = append(a.ranges, rangeAllocator{class: RegisterClass(class), maxSize: descriptorsPerClass[class]})
		}
	}
	sort.SliceStable(a.ranges, func(i, j int) bool { return a.ranges[i].maxSize < a.ranges[j].maxSize })

	var offset uint32
	for i := range a.ranges {
		a.ranges[i].baseDescriptorOffset = offset
		if a.ranges[i].maxSize == ast.Unbounded {
			offset = ast.Unbounded
		} else {
			offset += a.ranges[i].maxSize
		}
	}
	return a
}

// StartInputGroup clears the per-input-group bindings, keeping the
// table's fixed range layout. Call before allocating a new input group's
// variables into this table.
func (a *DescriptorTableAllocator) StartInputGroup() {
	for i := range a.ranges {
		a.ranges[i].currentOffsetInRange = 0
		a.ranges[i].currentBindings = nil
	}
}

// TryAllocate places variable (at variableIdx within its ShaderInputGroup)
// into the first range matching its register class with room left. It
// reports whether the variable was placed.
func (a *DescriptorTableAllocator) TryAllocate(variableIdx int, class RegisterClass, arrayCount uint32) bool {
	descriptorCount := arrayCount
	if descriptorCount == 0 {
		descriptorCount = 1
	}
	for i := range a.ranges {
		r := &a.ranges[i]
		if r.class != class {
			continue
		}
		if descriptorCount != ast.Unbounded {
			spaceLeft := r.maxSize - r.currentOffsetInRange
			if spaceLeft < descriptorCount {
				return false
			}
		} else if r.maxSize != ast.Unbounded || r.currentOffsetInRange == ast.Unbounded {
			return false
		}

		r.currentBindings = append(r.currentBindings, Descriptor{
			VariableIndex:    variableIdx,
			DescriptorOffset: r.baseDescriptorOffset + r.currentOffsetInRange,
			NumDescriptors:   descriptorCount,
		})
		if descriptorCount == ast.Unbounded {
			r.currentOffsetInRange = ast.Unbounded
		} else {
			r.currentOffsetInRange += descriptorCount
		}
		return true
	}
	return false
}

// CreateDescriptorTable returns the current input group's table
// contents, or false if nothing was bound to this allocator.
func (a *DescriptorTableAllocator) CreateDescriptorTable() (DescriptorTable, bool) {
	table := DescriptorTable{UnboundedVariableIdx: -1}
	for i := range a.ranges {
		for _, b := range a.ranges[i].currentBindings {
			if b.NumDescriptors == ast.Unbounded {
				table.NumKnownDescriptors = max32(table.NumKnownDescriptors, b.DescriptorOffset)
				table.UnboundedVariableIdx = b.VariableIndex
			} else {
				table.NumKnownDescriptors = max32(table.NumKnownDescriptors, b.DescriptorOffset+b.NumDescriptors)
			}
			table.Descriptors = append(table.Descriptors, b)
		}
	}
	if len(table.Descriptors) == 0 {
		return DescriptorTable{}, false
	}
	return table, true
}

// CreateDescriptorTableLayout returns the bind-point-wide shape of this
// table, independent of any one input group's bindings.
func (a *DescriptorTableAllocator) CreateDescriptorTableLayout() DescriptorTableLayout {
	layout := DescriptorTableLayout{Ranges: make([]Range, len(a.ranges))}
	for i, r := range a.ranges {
		layout.Ranges[i] = Range{BaseDescriptorOffset: r.baseDescriptorOffset, NumDescriptors: r.maxSize, Class: r.class}
	}
	return layout
}

func max32(a, b uint32) uint32 {
	if a > b {
		return a
	}
	return b
}
