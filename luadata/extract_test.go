package luadata

import (
	"testing"
)

func TestExtractBlocks_SingleCallSite(t *testing.T) {
	src := `data:extend({ {type = "item", name = "iron-plate"} })`

	blocks := ExtractBlocks(src)
	if len(blocks) != 1 {
		t.Fatalf("expected 1 block, got %d", len(blocks))
	}

	if blocks[0].Truncated {
		t.Error("block unexpectedly marked truncated")
	}

	want := `{ {type = "item", name = "iron-plate"} }`
	if blocks[0].Raw != want {
		t.Errorf("block raw = %q, want %q", blocks[0].Raw, want)
	}
}

func TestExtractBlocks_MultipleCallSites(t *testing.T) {
	src := `
data:extend({ {a = 1} })
local x = 3
data:extend({ {b = 2}, {c = 3} })
`

	blocks := ExtractBlocks(src)
	if len(blocks) != 2 {
		t.Fatalf("expected 2 blocks, got %d", len(blocks))
	}

	if blocks[0].End > blocks[1].Start {
		t.Error("blocks overlap")
	}
}

func TestExtractBlocks_DottedReceiver(t *testing.T) {
	src := `my_mod.registry:extend({ {a = 1} })`

	blocks := ExtractBlocks(src)
	if len(blocks) != 1 {
		t.Fatalf("expected 1 block for dotted receiver, got %d", len(blocks))
	}
}

func TestExtractBlocks_BracesInsideStrings(t *testing.T) {
	src := `data:extend({ {name = "weird { brace }", order = "a"} })`

	blocks := ExtractBlocks(src)
	if len(blocks) != 1 {
		t.Fatalf("expected 1 block, got %d", len(blocks))
	}

	if blocks[0].Truncated {
		t.Error("quoted braces should not affect depth")
	}

	if blocks[0].Raw[len(blocks[0].Raw)-1] != '}' {
		t.Errorf("block does not end at closing brace: %q", blocks[0].Raw)
	}
}

func TestExtractBlocks_EscapedQuoteInString(t *testing.T) {
	src := `data:extend({ {name = "say \"hi\" {"} })`

	blocks := ExtractBlocks(src)
	if len(blocks) != 1 || blocks[0].Truncated {
		t.Fatalf("escaped quotes mishandled: %+v", blocks)
	}
}

func TestExtractBlocks_Truncated(t *testing.T) {
	src := `data:extend({ {type = "item"`

	blocks := ExtractBlocks(src)
	if len(blocks) != 1 {
		t.Fatalf("expected 1 block, got %d", len(blocks))
	}

	if !blocks[0].Truncated {
		t.Error("expected block marked truncated")
	}

	if blocks[0].End != len(src) {
		t.Errorf("truncated block end = %d, want %d", blocks[0].End, len(src))
	}
}

func TestExtractBlocks_NoCallSites(t *testing.T) {
	src := `local t = { not_a_call = true }`

	if blocks := ExtractBlocks(src); len(blocks) != 0 {
		t.Errorf("expected no blocks, got %d", len(blocks))
	}
}

func TestBlockInner_StripsBraces(t *testing.T) {
	tests := []struct {
		name  string
		block Block
		want  string
	}{
		{
			"complete",
			Block{Raw: `{ {a = 1} }`},
			` {a = 1} `,
		},
		{
			"truncated keeps tail",
			Block{Raw: `{ {a = 1`, Truncated: true},
			` {a = 1`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.block.Inner(); got != tt.want {
				t.Errorf("Inner() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSplitTables(t *testing.T) {
	tests := []struct {
		name  string
		inner string
		want  []string
	}{
		{
			"two tables",
			` {a = 1}, {b = 2} `,
			[]string{`{a = 1}`, `{b = 2}`},
		},
		{
			"nested braces stay joined",
			` {a = {b = 2}} `,
			[]string{`{a = {b = 2}}`},
		},
		{
			"comment between tables",
			" {a = 1}, -- note\n {b = 2} ",
			[]string{`{a = 1}`, `{b = 2}`},
		},
		{
			"trailing partial emitted",
			` {a = 1}, {b = 2`,
			[]string{`{a = 1}`, `{b = 2`},
		},
		{
			"empty input",
			`  `,
			nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SplitTables(tt.inner)
			if len(got) != len(tt.want) {
				t.Fatalf("got %d tables %q, want %d", len(got), got, len(tt.want))
			}

			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("table %d = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}
