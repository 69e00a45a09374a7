package regalloc

import (
	"testing"

	"github.com/mathijs727/sic/ast"
)

func TestDescriptorTableAllocatorSortsRangesAscendingBySize(t *testing.T) {
	var sizes [numRegisterClasses]uint32
	sizes[ClassShaderResource] = 8
	sizes[ClassConstantBuffer] = 2
	a := NewDescriptorTableAllocator(sizes)

	layout := a.CreateDescriptorTableLayout()
	if len(layout.Ranges) != 2 {
		t.Fatalf("got %d ranges, want 2", len(layout.Ranges))
	}
	if layout.Ranges[0].Class != ClassConstantBuffer || layout.Ranges[0].NumDescriptors != 2 {
		t.Errorf("first range = %+v, want the smaller (CBV, 2) range first", layout.Ranges[0])
	}
	if layout.Ranges[1].Class != ClassShaderResource || layout.Ranges[1].BaseDescriptorOffset != 2 {
		t.Errorf("second range = %+v, want SRV range based at offset 2", layout.Ranges[1])
	}
}

func TestDescriptorTableAllocatorUnboundedRangeSortsLast(t *testing.T) {
	var sizes [numRegisterClasses]uint32
	sizes[ClassShaderResource] = ast.Unbounded
	sizes[ClassConstantBuffer] = 4
	a := NewDescriptorTableAllocator(sizes)

	layout := a.CreateDescriptorTableLayout()
	last := layout.Ranges[len(layout.Ranges)-1]
	if last.Class != ClassShaderResource || last.NumDescriptors != ast.Unbounded {
		t.Errorf("last range = %+v, want the unbounded SRV range", last)
	}
}

func TestTryAllocateFillsRangeInOrder(t *testing.T) {
	var sizes [numRegisterClasses]uint32
	sizes[ClassShaderResource] = 2
	a := NewDescriptorTableAllocator(sizes)
	a.StartInputGroup()

	if !a.TryAllocate(0, ClassShaderResource, 0) {
		t.Fatal("expected the first scalar resource to fit")
	}
	if !a.TryAllocate(1, ClassShaderResource, 0) {
		t.Fatal("expected the second scalar resource to fit")
	}
	if a.TryAllocate(2, ClassShaderResource, 0) {
		t.Fatal("expected the third resource to be rejected: range only has 2 slots")
	}

	table, ok := a.CreateDescriptorTable()
	if !ok {
		t.Fatal("expected a non-empty descriptor table")
	}
	if len(table.Descriptors) != 2 {
		t.Fatalf("got %d descriptors, want 2", len(table.Descriptors))
	}
	if table.Descriptors[0].DescriptorOffset != 0 || table.Descriptors[1].DescriptorOffset != 1 {
		t.Errorf("descriptors not packed at offsets 0,1: %+v", table.Descriptors)
	}
}

func TestTryAllocateRejectsWrongClass(t *testing.T) {
	var sizes [numRegisterClasses]uint32
	sizes[ClassShaderResource] = 4
	a := NewDescriptorTableAllocator(sizes)
	a.StartInputGroup()

	if a.TryAllocate(0, ClassUnorderedAccess, 0) {
		t.Fatal("expected allocation into a class with no matching range to fail")
	}
}

func TestTryAllocateOnlyOneVariablePerUnboundedRange(t *testing.T) {
	var sizes [numRegisterClasses]uint32
	sizes[ClassShaderResource] = ast.Unbounded
	a := NewDescriptorTableAllocator(sizes)
	a.StartInputGroup()

	if !a.TryAllocate(0, ClassShaderResource, ast.Unbounded) {
		t.Fatal("expected the first unbounded variable to fit")
	}
	if a.TryAllocate(1, ClassShaderResource, ast.Unbounded) {
		t.Fatal("expected a second unbounded variable in the same range to be rejected")
	}

	table, _ := a.CreateDescriptorTable()
	if table.UnboundedVariableIdx != 0 {
		t.Errorf("UnboundedVariableIdx = %d, want 0", table.UnboundedVariableIdx)
	}
}

func TestStartInputGroupResetsBindingsNotLayout(t *testing.T) {
	var sizes [numRegisterClasses]uint32
	sizes[ClassShaderResource] = 2
	a := NewDescriptorTableAllocator(sizes)

	a.StartInputGroup()
	a.TryAllocate(0, ClassShaderResource, 0)
	if _, ok := a.CreateDescriptorTable(); !ok {
		t.Fatal("expected a table for the first input group")
	}

	a.StartInputGroup()
	if _, ok := a.CreateDescriptorTable(); ok {
		t.Fatal("expected no table immediately after StartInputGroup resets bindings")
	}

	layout := a.CreateDescriptorTableLayout()
	if layout.Ranges[0].NumDescriptors != 2 {
		t.Errorf("layout range size changed across StartInputGroup: %+v", layout.Ranges[0])
	}
}

func TestCreateDescriptorTableEmptyWhenNothingBound(t *testing.T) {
	var sizes [numRegisterClasses]uint32
	sizes[ClassShaderResource] = 2
	a := NewDescriptorTableAllocator(sizes)
	a.StartInputGroup()

	if _, ok := a.CreateDescriptorTable(); ok {
		t.Fatal("expected no table when nothing was allocated")
	}
}
