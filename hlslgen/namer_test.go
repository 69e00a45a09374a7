package hlslgen

import "testing"

func TestNamerCall(t *testing.T) {
	n := newNamer()

	got := n.call("position")
	if got != "position" {
		t.Errorf("call(\"position\") = %q, want \"position\"", got)
	}

	got2 := n.call("position")
	if got2 == "position" {
		t.Error("expected a unique name for the second call with the same base")
	}
}

func TestNamerCaseInsensitivity(t *testing.T) {
	n := newNamer()

	if got := n.call("myvar"); got != "myvar" {
		t.Errorf("first call = %q, want \"myvar\"", got)
	}
	if got := n.call("MYVAR"); got == "MYVAR" {
		t.Error("MYVAR should collide with myvar under HLSL's case-insensitive naming")
	}
}

func TestNamerEscapesReserved(t *testing.T) {
	n := newNamer()
	got := n.call("float")
	if got != "_float" {
		t.Errorf("call(\"float\") = %q, want \"_float\"", got)
	}
}

func TestNamerEmptyName(t *testing.T) {
	n := newNamer()
	got := n.call("")
	if got != unnamedIdentifier {
		t.Errorf("call(\"\") = %q, want %q", got, unnamedIdentifier)
	}
}

func TestNamerReserveBlocksFutureCollisions(t *testing.T) {
	n := newNamer()
	n.reserve("Material")

	got := n.call("Material")
	if got == "Material" {
		t.Error("expected reserve to force call(\"Material\") to a different name")
	}
}
