package ast

import "fmt"

// MangledName returns the name a Group member gets when inlined into a
// ShaderInputGroup, grounded on the original's
// getGroupVariableMangledName.
func MangledName(groupInstanceName, memberName string) string {
	return fmt.Sprintf("__%s_%s", groupInstanceName, memberName)
}

// Flatten runs the two mutating passes that must happen before register
// allocation: inlining GroupInstance members into their containing
// ShaderInputGroup, then injecting a synthetic ConstantBuffer variable
// into any input group left with scalar/struct constants. It is grounded
// on flattenInputGroups + addConstantBuffer in the original
// RegisterAllocation.cpp.
func Flatten(tree *AbstractSyntaxTree) error {
	if err := inlineGroupInstances(tree); err != nil {
		return err
	}
	injectConstantBuffers(tree)
	return nil
}

func inlineGroupInstances(tree *AbstractSyntaxTree) error {
	for _, sig := range tree.ShaderInputGroups {
		// Snapshot the length before appending: appending mangled members
		// must not be walked again as if they were group instances
		// themselves.
		numOriginal := len(sig.Variables)
		for i := 0; i < numOriginal; i++ {
			v := sig.Variables[i]
			gi, ok := v.Type.(GroupInstance)
			if !ok {
				continue
			}
			if v.ArrayCount != 0 {
				return &StructuralError{Message: fmt.Sprintf("group instance %q cannot be an array", v.Name), Pos: v.Pos}
			}
			group := tree.Groups[gi.Index]
			for _, member := range group.Variables {
				if _, nested := member.Type.(GroupInstance); nested {
					return &StructuralError{Message: fmt.Sprintf("nested group instance not allowed: %q inside %q", member.Name, v.Name), Pos: member.Pos}
				}
				sig.Variables = append(sig.Variables, Variable{
					Name:       MangledName(v.Name, member.Name),
					Type:       member.Type,
					ArrayCount: member.ArrayCount,
					Pos:        member.Pos,
				})
			}
		}
	}
	return nil
}

func injectConstantBuffers(tree *AbstractSyntaxTree) {
	for _, sig := range tree.ShaderInputGroups {
		hasConstants := false
		for _, v := range sig.Variables {
			if IsStandardConstantType(v.Type) {
				hasConstants = true
				break
			}
		}
		if hasConstants {
			sig.Variables = append(sig.Variables, Variable{
				Name:       "Internal",
				Type:       CustomType{Kind: ConstantBufferKind},
				ArrayCount: 0,
			})
		}
	}
}
