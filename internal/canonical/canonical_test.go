package canonical

import "testing"

func TestModern_SortedKeysNoWhitespace(t *testing.T) {
	components, err := Decode([]byte(`[{"event_type":"a","data":{"z":1,"a":2}}]`))
	if err != nil {
		t.Fatal(err)
	}
	got := string(Modern(components, "debug"))
	want := `{"components":[{"data":{"a":2,"z":1},"event_type":"a"}],"trace_level":"debug"}`
	if got != want {
		t.Errorf("got %s, want %s", got, want)
	}
}

func TestModern_PreservesNumberLiteral(t *testing.T) {
	components, err := Decode([]byte(`[{"amount":1.50}]`))
	if err != nil {
		t.Fatal(err)
	}
	got := string(Modern(components, "info"))
	want := `{"components":[{"amount":1.50}],"trace_level":"info"}`
	if got != want {
		t.Errorf("got %s, want %s", got, want)
	}
}

func TestIntermediate_StripsEmptyValues(t *testing.T) {
	components, err := Decode([]byte(`[{"a":"","b":null,"c":[],"d":{},"e":"keep","f":{"g":""}}]`))
	if err != nil {
		t.Fatal(err)
	}
	got := string(Intermediate(components))
	want := `[{"e":"keep"}]`
	if got != want {
		t.Errorf("got %s, want %s", got, want)
	}
}

func TestLegacy_HasSpacedSeparators(t *testing.T) {
	components, err := Decode([]byte(`[{"a":1,"b":2}]`))
	if err != nil {
		t.Fatal(err)
	}
	got := string(Legacy(components))
	want := `[{"a": 1, "b": 2}]`
	if got != want {
		t.Errorf("got %s, want %s", got, want)
	}
}

func TestEncoders_Deterministic(t *testing.T) {
	components, err := Decode([]byte(`[{"z":1,"a":{"y":2,"x":3}},{"nested":["b","a"]}]`))
	if err != nil {
		t.Fatal(err)
	}
	if string(Modern(components, "x")) != string(Modern(components, "x")) {
		t.Error("Modern is not deterministic")
	}
	if string(Intermediate(components)) != string(Intermediate(components)) {
		t.Error("Intermediate is not deterministic")
	}
	if string(Legacy(components)) != string(Legacy(components)) {
		t.Error("Legacy is not deterministic")
	}
}

func TestStripEmpty_NestedContainerBecomesEmptyAndIsStripped(t *testing.T) {
	// outer.inner is "" (stripped) -> outer becomes {} -> outer is
	// itself empty, so it is stripped from the component object -> the
	// component object becomes {} -> that too is empty, so it is
	// stripped from the array.
	components, err := Decode([]byte(`[{"outer":{"inner":""}}]`))
	if err != nil {
		t.Fatal(err)
	}
	got := string(Intermediate(components))
	want := `[]`
	if got != want {
		t.Errorf("got %s, want %s", got, want)
	}
}
