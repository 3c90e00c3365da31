package scope

import "testing"

type fakeDecl struct {
	typ   string
	width int
}

func (f fakeDecl) DeclType() string { return f.typ }
func (f fakeDecl) DeclWidth() int   { return f.width }

func TestOpenScopeNamesAreMonotonic(t *testing.T) {
	b := NewBuilder()
	f1 := b.OpenScope(nil)
	f2 := b.OpenScope(nil)
	if f1.Name != "Env1" || f2.Name != "Env2" {
		t.Fatalf("expected Env1/Env2, got %s/%s", f1.Name, f2.Name)
	}
}

func TestDeclareAdvancesOffsetCursor(t *testing.T) {
	b := NewBuilder()
	f := b.OpenScope(nil)

	mi1, err := b.Declare(f, "x", fakeDecl{typ: "int", width: 4}, Stack)
	if err != nil {
		t.Fatalf("declare x: %v", err)
	}
	if mi1.Offset != 0 {
		t.Errorf("first stack decl offset = %d, want 0", mi1.Offset)
	}

	mi2, err := b.Declare(f, "y", fakeDecl{typ: "int", width: 4}, Stack)
	if err != nil {
		t.Fatalf("declare y: %v", err)
	}
	if mi2.Offset != 4 {
		t.Errorf("second stack decl offset = %d, want 4", mi2.Offset)
	}
}

func TestStackAndHeapCursorsAreIndependent(t *testing.T) {
	b := NewBuilder()
	f := b.OpenScope(nil)

	b.Declare(f, "a", fakeDecl{typ: "int", width: 4}, Stack)
	hMi, _ := b.Declare(f, "h", fakeDecl{typ: "double", width: 8}, Heap)
	if hMi.Offset != 0 {
		t.Errorf("heap cursor should start at 0 independent of stack, got %d", hMi.Offset)
	}
}

func TestDeclareRedefinitionFails(t *testing.T) {
	b := NewBuilder()
	f := b.OpenScope(nil)
	b.Declare(f, "x", fakeDecl{typ: "int", width: 4}, Stack)
	if _, err := b.Declare(f, "x", fakeDecl{typ: "int", width: 4}, Stack); err == nil {
		t.Errorf("expected redefinition error")
	}
}

func TestDeclareIntoRootFails(t *testing.T) {
	b := NewBuilder()
	if _, err := b.Declare(b.Root(), "x", fakeDecl{typ: "int", width: 4}, Stack); err == nil {
		t.Errorf("expected error declaring into the root frame")
	}
}

func TestLookupWalksAncestorsNotRoot(t *testing.T) {
	b := NewBuilder()
	outer := b.OpenScope(nil)
	b.Declare(outer, "x", fakeDecl{typ: "int", width: 4}, Stack)
	inner := b.OpenScope(outer)

	if _, ok := Lookup(inner, "x"); !ok {
		t.Errorf("expected to find x declared in an ancestor frame")
	}
	if _, ok := Lookup(inner, "nope"); ok {
		t.Errorf("did not expect to find an undeclared name")
	}
	if _, ok := Lookup(b.Root(), "x"); ok {
		t.Errorf("Lookup must never search the root frame's own ids")
	}
}

func TestCloseScopeReturnsToParent(t *testing.T) {
	b := NewBuilder()
	outer := b.OpenScope(nil)
	inner := b.OpenScope(outer)
	if b.Top() != inner {
		t.Fatalf("top should be inner after OpenScope")
	}
	if err := b.CloseScope(inner); err != nil {
		t.Fatalf("CloseScope: %v", err)
	}
	if b.Top() != outer {
		t.Errorf("top should be outer after CloseScope, got %v", b.Top())
	}
}

func TestCloseScopeUnknownFrame(t *testing.T) {
	b1 := NewBuilder()
	b2 := NewBuilder()
	stray := b2.OpenScope(nil)
	if err := b1.CloseScope(stray); err == nil {
		t.Errorf("expected error closing a frame from a different Builder")
	}
}

func TestRegistryCoversEveryOpenedFrame(t *testing.T) {
	b := NewBuilder()
	f1 := b.OpenScope(nil)
	f2 := b.OpenScope(f1)

	reg := b.Registry()
	if _, ok := reg[f1.Name]; !ok {
		t.Errorf("registry missing %s", f1.Name)
	}
	if _, ok := reg[f2.Name]; !ok {
		t.Errorf("registry missing %s", f2.Name)
	}
}
