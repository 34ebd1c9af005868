package cmd

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

// writeTree creates the given relative files under a temp root and returns
// the root.
func writeTree(t *testing.T, files ...string) string {
	t.Helper()

	root := t.TempDir()

	for _, rel := range files {
		path := filepath.Join(root, rel)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}

		if err := os.WriteFile(path, []byte("-- lua\n"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	return root
}

func relPaths(t *testing.T, root string, inputs []input) []string {
	t.Helper()

	rels := make([]string, 0, len(inputs))

	for _, in := range inputs {
		rel, err := filepath.Rel(root, in.path)
		if err != nil {
			t.Fatal(err)
		}

		rels = append(rels, rel)
	}

	return rels
}

func TestExpandInputs_ExplicitFiles(t *testing.T) {
	root := writeTree(t, "data.lua", "notes.txt")

	inputs := expandInputs(context.Background(), []string{
		filepath.Join(root, "data.lua"),
		filepath.Join(root, "notes.txt"), // explicit files accepted regardless
	}, false)

	if len(inputs) != 2 {
		t.Fatalf("got %d inputs, want 2: %v", len(inputs), inputs)
	}

	if inputs[0].root != root {
		t.Errorf("root = %q, want %q", inputs[0].root, root)
	}
}

func TestExpandInputs_DirectoryTopLevelOnly(t *testing.T) {
	root := writeTree(t, "a.lua", "b.lua", "sub/c.lua", "readme.md")

	inputs := expandInputs(context.Background(), []string{root}, false)

	got := relPaths(t, root, inputs)
	want := []string{"a.lua", "b.lua"}

	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}

	for i := range want {
		if got[i] != want[i] {
			t.Errorf("input %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestExpandInputs_Recursive(t *testing.T) {
	root := writeTree(t, "a.lua", "sub/c.lua", "sub/deep/d.lua", "sub/skip.txt")

	inputs := expandInputs(context.Background(), []string{root}, true)

	got := relPaths(t, root, inputs)
	want := []string{"a.lua", filepath.Join("sub", "c.lua"),
		filepath.Join("sub", "deep", "d.lua")}

	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}

	for i := range want {
		if got[i] != want[i] {
			t.Errorf("input %d = %q, want %q", i, got[i], want[i])
		}
	}

	for _, in := range inputs {
		if in.root != root {
			t.Errorf("input root = %q, want %q", in.root, root)
		}
	}
}

func TestExpandInputs_DeduplicatesRepeats(t *testing.T) {
	root := writeTree(t, "a.lua")
	path := filepath.Join(root, "a.lua")

	inputs := expandInputs(context.Background(), []string{path, path, root}, false)

	if len(inputs) != 1 {
		t.Errorf("got %d inputs, want 1: %v", len(inputs), inputs)
	}
}

func TestExpandInputs_DeduplicatesSymlinks(t *testing.T) {
	root := writeTree(t, "a.lua")
	link := filepath.Join(root, "alias.lua")

	if err := os.Symlink(filepath.Join(root, "a.lua"), link); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}

	inputs := expandInputs(context.Background(), []string{
		filepath.Join(root, "a.lua"), link,
	}, false)

	if len(inputs) != 1 {
		t.Errorf("got %d inputs, want 1: %v", len(inputs), inputs)
	}
}

func TestExpandInputs_MissingPathSkipped(t *testing.T) {
	root := writeTree(t, "a.lua")

	inputs := expandInputs(context.Background(), []string{
		filepath.Join(root, "missing.lua"),
		filepath.Join(root, "a.lua"),
	}, false)

	if len(inputs) != 1 {
		t.Errorf("got %d inputs, want 1: %v", len(inputs), inputs)
	}
}
