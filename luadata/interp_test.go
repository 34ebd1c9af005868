package luadata

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLuaEvaluator_Evaluate(t *testing.T) {
	ev := newLuaEvaluator(nil)
	defer ev.Close()

	tests := []struct {
		name string
		expr string
		want Value
		ok   bool
	}{
		{"arithmetic", "2 + 3", Int(5), true},
		{"division", "1 / 4", Float(0.25), true},
		{"seeded prefix", "data_util.mod_prefix", String("se-"), true},
		{
			"seeded prefix concat",
			`data_util.mod_prefix .. "igniter"`,
			String("se-igniter"), true,
		},
		{"string rep", `string.rep("ab", 2)`, String("abab"), true},
		{"nil is a miss", "nil", Value{}, false},
		{"undefined global is a miss", "no_such_global", Value{}, false},
		{"syntax error is a miss", "..", Value{}, false},
		{"function is a miss", "data.extend", Value{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ev.Evaluate(tt.expr)
			if ok != tt.ok {
				t.Fatalf("Evaluate(%q) ok = %v, want %v", tt.expr, ok, tt.ok)
			}

			if ok && got.Kind != KindArray && got.Kind != KindTable &&
				!eqValue(got, tt.want) {
				t.Errorf("Evaluate(%q) = %+v, want %+v", tt.expr, got, tt.want)
			}
		})
	}
}

func TestLuaEvaluator_TableResults(t *testing.T) {
	ev := newLuaEvaluator(nil)
	defer ev.Close()

	t.Run("sequence becomes array", func(t *testing.T) {
		got, ok := ev.Evaluate(`{1, 2, 3}`)
		if !ok || got.Kind != KindArray {
			t.Fatalf("got (%+v, %v), want Array", got, ok)
		}

		want := []Value{Int(1), Int(2), Int(3)}
		for i, item := range got.Items {
			if !eqValue(item, want[i]) {
				t.Errorf("item %d = %+v, want %+v", i, item, want[i])
			}
		}
	})

	t.Run("map keys sorted", func(t *testing.T) {
		got, ok := ev.Evaluate(`{z = 1, a = 2, m = 3}`)
		if !ok || got.Kind != KindTable {
			t.Fatalf("got (%+v, %v), want Table", got, ok)
		}

		wantKeys := []string{"a", "m", "z"}
		if len(got.Entries) != len(wantKeys) {
			t.Fatalf("got %d entries, want %d", len(got.Entries), len(wantKeys))
		}

		for i, entry := range got.Entries {
			if entry.Key != wantKeys[i] {
				t.Errorf("entry %d key = %q, want %q", i, entry.Key, wantKeys[i])
			}
		}
	})

	t.Run("cyclic table bounded", func(t *testing.T) {
		if err := ev.state.DoString(`cyc = {}; cyc.self = cyc`); err != nil {
			t.Fatal(err)
		}

		got, ok := ev.Evaluate("cyc")
		if !ok {
			t.Fatal("cyclic table unresolved entirely")
		}

		// The innermost level degrades to opaque once the depth bound is
		// reached; what matters is that evaluation terminates.
		if got.Kind != KindTable {
			t.Errorf("kind = %v, want Table", got.Kind)
		}
	})

	t.Run("data.extend is callable", func(t *testing.T) {
		if err := ev.state.DoString(`data.extend({{type = "item"}})`); err != nil {
			t.Errorf("seeded data.extend failed: %v", err)
		}
	})
}

func TestLuaEvaluator_Companion(t *testing.T) {
	load := func() (string, bool) {
		return `data_util.named = function(n) return data_util.mod_prefix .. n end
shared_scale = 0.5`, true
	}

	ev := newLuaEvaluator(load)
	defer ev.Close()

	got, ok := ev.Evaluate(`data_util.named("cannon")`)
	if !ok || !eqValue(got, String("se-cannon")) {
		t.Errorf("companion function result = (%+v, %v), want se-cannon", got, ok)
	}

	got, ok = ev.Evaluate("shared_scale")
	if !ok || !eqValue(got, Float(0.5)) {
		t.Errorf("companion global = (%+v, %v), want Float(0.5)", got, ok)
	}
}

func TestLuaEvaluator_BrokenCompanionIgnored(t *testing.T) {
	load := func() (string, bool) {
		return `this is not lua`, true
	}

	ev := newLuaEvaluator(load)
	defer ev.Close()

	// The interpreter still works despite the companion failing to load.
	if got, ok := ev.Evaluate("1 + 1"); !ok || !eqValue(got, Int(2)) {
		t.Errorf("Evaluate after broken companion = (%+v, %v)", got, ok)
	}
}

func TestDirCompanionLoader(t *testing.T) {
	root := t.TempDir()
	sub := filepath.Join(root, "prototypes", "entity")

	if err := os.MkdirAll(sub, 0o755); err != nil {
		t.Fatal(err)
	}

	src := `data_util.mark = "found"`
	if err := os.WriteFile(
		filepath.Join(root, "data_util.lua"), []byte(src), 0o644,
	); err != nil {
		t.Fatal(err)
	}

	t.Run("probes ancestor directories", func(t *testing.T) {
		text, ok := DirCompanionLoader(sub)()
		if !ok || text != src {
			t.Errorf("loader = (%q, %v), want companion text", text, ok)
		}
	})

	t.Run("same directory", func(t *testing.T) {
		text, ok := DirCompanionLoader(root)()
		if !ok || text != src {
			t.Errorf("loader = (%q, %v), want companion text", text, ok)
		}
	})

	t.Run("missing companion", func(t *testing.T) {
		if _, ok := DirCompanionLoader(t.TempDir())(); ok {
			t.Error("loader reported a companion in an empty directory")
		}
	})
}
