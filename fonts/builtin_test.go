package fonts

import "testing"

func TestLoadBuiltinPrefixes(t *testing.T) {
	for _, name := range []string{"go-regular", "builtin:go-regular", "embed:go-mono", "builtin:lmroman"} {
		data, err := Load(name)
		if err != nil {
			t.Fatalf("Load(%q): %v", name, err)
		}
		if len(data) == 0 {
			t.Fatalf("Load(%q) returned no data", name)
		}
	}
}

func TestLoadUnknownFont(t *testing.T) {
	if _, err := Load("builtin:helvetica"); err == nil {
		t.Fatalf("expected error for unknown font")
	}
}

func TestNamesSorted(t *testing.T) {
	names := Names()
	if len(names) != len(builtin) {
		t.Fatalf("expected %d names, got %d", len(builtin), len(names))
	}
	for i := 1; i < len(names); i++ {
		if names[i-1] > names[i] {
			t.Fatalf("names not sorted: %v", names)
		}
	}
}
