package picker

import (
	"strings"
	"testing"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/sahilm/fuzzy"
)

func TestMatchAll_PreservesOrder(t *testing.T) {
	candidates := []string{"b.lua", "a.lua", "c.lua"}

	matches := matchAll(candidates)
	if len(matches) != len(candidates) {
		t.Fatalf("got %d matches, want %d", len(matches), len(candidates))
	}

	for i, m := range matches {
		if m.Str != candidates[i] {
			t.Errorf("match %d = %q, want %q", i, m.Str, candidates[i])
		}
	}
}

func TestRefilter(t *testing.T) {
	m := model{
		input:    textinput.New(),
		all:      []string{"entity.lua", "item.lua", "recipe.lua"},
		selected: map[string]struct{}{},
		cursor:   2,
	}
	m.matches = matchAll(m.all)

	m.input.SetValue("item")
	m = m.refilter()

	if len(m.matches) != 1 || m.matches[0].Str != "item.lua" {
		t.Fatalf("matches = %+v, want only item.lua", m.matches)
	}

	if m.cursor != 0 {
		t.Errorf("cursor = %d, want reset to 0", m.cursor)
	}

	m.input.SetValue("")
	m = m.refilter()

	if len(m.matches) != len(m.all) {
		t.Errorf("empty query matches %d, want %d", len(m.matches), len(m.all))
	}
}

func TestClampScroll(t *testing.T) {
	m := model{cursor: maxVisible + 3}

	m = m.clampScroll()
	if m.offset != 4 {
		t.Errorf("offset = %d, want 4", m.offset)
	}

	m.cursor = 1
	m = m.clampScroll()

	if m.offset != 1 {
		t.Errorf("offset = %d, want 1", m.offset)
	}
}

func TestRenderMatch_HighlightsMatchedRunes(t *testing.T) {
	match := fuzzy.Match{Str: "item.lua", MatchedIndexes: []int{0, 1}}

	out := renderMatch(match)
	if !strings.Contains(out, "item.lua"[2:]) {
		t.Errorf("render lost unmatched text: %q", out)
	}

	plain := renderMatch(fuzzy.Match{Str: "plain"})
	if plain != "plain" {
		t.Errorf("no-match render = %q, want verbatim", plain)
	}
}
