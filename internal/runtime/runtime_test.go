package runtime

import "testing"

func TestCatalogueOrderAndNames(t *testing.T) {
	want := []string{
		"box_nil", "box_bool", "box_number", "box_string", "unbox_number",
		"is_nil", "is_bool", "is_number", "is_string", "is_truthy",
		"to_number", "stringify_into", "concat", "mod", "math_pow",
	}
	got := Catalogue(2)
	if len(got) != len(want) {
		t.Fatalf("Catalogue returned %d helpers, want %d", len(got), len(want))
	}
	for i, name := range want {
		if got[i].Name != name {
			t.Errorf("helper %d = %q, want %q", i, got[i].Name, name)
		}
		if len(got[i].Body) == 0 {
			t.Errorf("helper %q has empty body", name)
		}
	}
}

func TestBoxSignatures(t *testing.T) {
	cat := Catalogue(2)
	byName := map[string]Helper{}
	for _, h := range cat {
		byName[h.Name] = h
	}

	cases := []struct {
		name           string
		params, result int
	}{
		{"box_nil", 0, 1},
		{"box_bool", 1, 1},
		{"box_number", 1, 1},
		{"box_string", 2, 1},
		{"unbox_number", 1, 1},
		{"is_nil", 1, 1},
		{"is_truthy", 1, 1},
		{"to_number", 1, 1},
		{"concat", 2, 1},
		{"mod", 2, 1},
		{"math_pow", 2, 1},
	}
	for _, c := range cases {
		h := byName[c.name]
		if len(h.Params) != c.params {
			t.Errorf("%s params = %d, want %d", c.name, len(h.Params), c.params)
		}
		if len(h.Results) != c.result {
			t.Errorf("%s results = %d, want %d", c.name, len(h.Results), c.result)
		}
	}
}

func TestRelativeIndicesMatchCatalogueOrder(t *testing.T) {
	cat := Catalogue(2)
	rels := map[int]string{
		relBoxNil: "box_nil", relBoxBool: "box_bool", relBoxNumber: "box_number",
		relBoxString: "box_string", relUnboxNumber: "unbox_number",
		relIsNil: "is_nil", relIsBool: "is_bool", relIsNumber: "is_number", relIsString: "is_string",
		relIsTruthy: "is_truthy", relToNumber: "to_number", relStringifyInto: "stringify_into",
		relConcat: "concat", relMod: "mod", relMathPow: "math_pow",
	}
	for rel, name := range rels {
		if cat[rel].Name != name {
			t.Errorf("relative index %d = %q, want %q", rel, cat[rel].Name, name)
		}
	}
}
