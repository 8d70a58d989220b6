package scope

import "testing"

func TestParamsOccupyFirstSlots(t *testing.T) {
	f := NewFunction([]string{"a", "b"})
	if slot, ok := f.Resolve("a"); !ok || slot != 0 {
		t.Errorf("a resolved to (%d,%v), want (0,true)", slot, ok)
	}
	if slot, ok := f.Resolve("b"); !ok || slot != 1 {
		t.Errorf("b resolved to (%d,%v), want (1,true)", slot, ok)
	}
}

func TestDeclareAlwaysNewSlot(t *testing.T) {
	f := NewFunction(nil)
	first := f.Declare("x")
	second := f.Declare("x")
	if second <= first {
		t.Errorf("second declare slot %d should exceed first %d", second, first)
	}
	slot, ok := f.Resolve("x")
	if !ok || slot != second {
		t.Errorf("x resolves to %d, want most recent declaration %d", slot, second)
	}
}

func TestAssignUpdatesNearestBinding(t *testing.T) {
	f := NewFunction(nil)
	f.EnterScope()
	outer := f.Declare("x")
	f.EnterScope()
	reused := f.Assign("x") // no local x in this scope: updates outer
	if reused != outer {
		t.Errorf("Assign reused slot %d, want outer slot %d", reused, outer)
	}
	f.ExitScope()
	f.ExitScope()
}

func TestAssignDeclaresWhenUnbound(t *testing.T) {
	f := NewFunction(nil)
	slot := f.Assign("y")
	if _, ok := f.Resolve("y"); !ok {
		t.Fatalf("y not resolvable after Assign")
	}
	if got, _ := f.Resolve("y"); got != slot {
		t.Errorf("resolved slot %d != assigned slot %d", got, slot)
	}
}

func TestScopeShadowingRestoredOnExit(t *testing.T) {
	f := NewFunction(nil)
	outer := f.Declare("x")
	f.EnterScope()
	inner := f.Declare("x")
	if inner == outer {
		t.Fatalf("shadowing should allocate a distinct slot")
	}
	if slot, _ := f.Resolve("x"); slot != inner {
		t.Errorf("inner scope should see shadowed slot %d, got %d", inner, slot)
	}
	f.ExitScope()
	if slot, _ := f.Resolve("x"); slot != outer {
		t.Errorf("after ExitScope, x should resolve to outer slot %d, got %d", outer, slot)
	}
}

func TestResolveUnboundFails(t *testing.T) {
	f := NewFunction(nil)
	if _, ok := f.Resolve("nope"); ok {
		t.Errorf("expected unresolved name to fail")
	}
}

func TestScratchNeverShadowsNames(t *testing.T) {
	f := NewFunction([]string{"a"})
	s1 := f.Scratch()
	s2 := f.Scratch()
	if s1 == s2 {
		t.Errorf("scratch slots must be distinct: %d == %d", s1, s2)
	}
	if slot, _ := f.Resolve("a"); slot == s1 || slot == s2 {
		t.Errorf("scratch slot collided with named slot")
	}
}

func TestRawLocalSharesCounterWithBoxedSlots(t *testing.T) {
	f := NewFunction([]string{"a"})
	named := f.Declare("x")
	raw := f.RawLocal(0x7C) // f64
	scratch := f.Scratch()

	if raw <= named || scratch <= raw {
		t.Errorf("slots should be strictly increasing: named=%d raw=%d scratch=%d", named, raw, scratch)
	}

	types := f.LocalTypes()
	if len(types) != 3 {
		t.Fatalf("LocalTypes has %d entries, want 3 (x, raw, scratch)", len(types))
	}
	if types[0] != 0x7F {
		t.Errorf("named slot type = %#x, want i32 (0x7F)", types[0])
	}
	if types[1] != 0x7C {
		t.Errorf("raw local type = %#x, want f64 (0x7C)", types[1])
	}
	if types[2] != 0x7F {
		t.Errorf("scratch slot type = %#x, want i32 (0x7F)", types[2])
	}
}

func TestRegistryAssignsCatalogueOrder(t *testing.T) {
	r := NewRegistry()
	printEntry := r.Declare("env.print", KindImport, Signature{Params: []byte{0x7F}})
	boxNil := r.Declare("box_nil", KindRuntime, Signature{Results: []byte{0x7F}})
	userMain := r.Declare("main", KindUser, Signature{})

	if printEntry.Index != 0 || boxNil.Index != 1 || userMain.Index != 2 {
		t.Errorf("unexpected indices: %d %d %d", printEntry.Index, boxNil.Index, userMain.Index)
	}
	if len(r.OfKind(KindImport)) != 1 || len(r.OfKind(KindRuntime)) != 1 || len(r.OfKind(KindUser)) != 1 {
		t.Errorf("OfKind partitioning incorrect")
	}
	if _, ok := r.Lookup("box_nil"); !ok {
		t.Errorf("Lookup failed for declared function")
	}
}
