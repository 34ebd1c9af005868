package luadata

import (
	"testing"
)

func TestScanContext(t *testing.T) {
	src := `
local base = "space-exploration"
count = 12
ratio = 0.25
local name = base .. "-thing"
local fn = function() return 1 end
`

	ctx := ScanContext(src)

	tests := []struct {
		path string
		want Value
		ok   bool
	}{
		{"base", String("space-exploration"), true},
		{"count", Int(12), true},
		{"ratio", Float(0.25), true},
		{"name", Value{}, false}, // rhs is an expression, not a literal
		{"fn", Value{}, false},
	}

	for _, tt := range tests {
		got, ok := ctx[tt.path]
		if ok != tt.ok {
			t.Errorf("ctx[%q] present = %v, want %v", tt.path, ok, tt.ok)

			continue
		}

		if ok && !eqValue(got, tt.want) {
			t.Errorf("ctx[%q] = %+v, want %+v", tt.path, got, tt.want)
		}
	}
}

func TestPatternEvaluator_Evaluate(t *testing.T) {
	ev := patternEvaluator{ctx: Context{
		"graphics.base": String("__mod__/graphics"),
		"limits.max":    Int(100),
	}}

	tests := []struct {
		name string
		expr string
		want Value
		ok   bool
	}{
		{
			"known constant",
			"data_util.mod_prefix",
			String("se-"), true,
		},
		{
			"constant concat",
			`data_util.mod_prefix .. "igniter"`,
			String("se-igniter"), true,
		},
		{
			"context path",
			"graphics.base",
			String("__mod__/graphics"), true,
		},
		{
			"context concat",
			`graphics.base .. "/icon.png"`,
			String("__mod__/graphics/icon.png"), true,
		},
		{
			"concat base must be string",
			`limits.max .. "x"`,
			Value{}, false,
		},
		{
			"unknown path",
			"defines.direction.north",
			Value{}, false,
		},
		{
			"bare identifier rejected",
			"base",
			Value{}, false,
		},
		{
			"arithmetic rejected",
			"limits.max + 1",
			Value{}, false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ev.Evaluate(tt.expr)
			if ok != tt.ok || !eqValue(got, tt.want) {
				t.Errorf("Evaluate(%q) = (%+v, %v), want (%+v, %v)",
					tt.expr, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestChain_FirstResolutionWins(t *testing.T) {
	miss := evalFunc(func(string) (Value, bool) { return Value{}, false })
	first := evalFunc(func(string) (Value, bool) { return String("first"), true })
	second := evalFunc(func(string) (Value, bool) { return String("second"), true })

	got, ok := chain{miss, first, second}.Evaluate("x.y")
	if !ok || !eqValue(got, String("first")) {
		t.Errorf("chain result = (%+v, %v), want first", got, ok)
	}

	if _, ok := (chain{miss}).Evaluate("x.y"); ok {
		t.Error("all-miss chain reported a resolution")
	}
}
