// Package picker implements an interactive file selector with fuzzy
// filtering. It is shown when the convert command is invoked without input
// paths or with the --pick flag.
package picker

import (
	"context"
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"
)

// ErrCancelled is returned by [Run] when the user aborts the selection.
var ErrCancelled = errors.New("selection cancelled")

// maxVisible is the number of candidate rows rendered at once.
const maxVisible = 12

//nolint:gochecknoglobals
var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("6")).
			Bold(true)
	cursorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("5")).
			Bold(true)
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	matchedStyle  = lipgloss.NewStyle().
			Foreground(lipgloss.Color("4")).
			Bold(true)
	hintStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

type model struct {
	input     textinput.Model
	all       []string
	matches   fuzzy.Matches
	selected  map[string]struct{}
	cursor    int
	offset    int
	cancelled bool
}

// Run presents the candidates in a fuzzy-filtered picker and returns the
// paths the user selected. It returns [ErrCancelled] if the user aborts.
func Run(ctx context.Context, candidates []string) ([]string, error) {
	ti := textinput.New()
	ti.Placeholder = "filter"
	ti.Prompt = "> "
	ti.Focus()

	m := model{
		input:    ti,
		all:      candidates,
		matches:  matchAll(candidates),
		selected: map[string]struct{}{},
	}

	p := tea.NewProgram(m, tea.WithContext(ctx))

	final, err := p.Run()
	if err != nil {
		return nil, err
	}

	fm, ok := final.(model)
	if !ok || fm.cancelled {
		return nil, ErrCancelled
	}

	picked := make([]string, 0, len(fm.selected))

	// Preserve candidate order rather than map iteration order.
	for _, path := range fm.all {
		if _, ok := fm.selected[path]; ok {
			picked = append(picked, path)
		}
	}

	if len(picked) == 0 {
		return nil, ErrCancelled
	}

	return picked, nil
}

// matchAll produces the unfiltered match set so an empty query shows every
// candidate.
func matchAll(candidates []string) fuzzy.Matches {
	matches := make(fuzzy.Matches, len(candidates))
	for i, c := range candidates {
		matches[i] = fuzzy.Match{Str: c, Index: i}
	}

	return matches
}

func (m model) Init() tea.Cmd {
	return textinput.Blink
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		var cmd tea.Cmd

		m.input, cmd = m.input.Update(msg)

		return m, cmd
	}

	switch key.Type {
	case tea.KeyCtrlC, tea.KeyEsc:
		m.cancelled = true

		return m, tea.Quit

	case tea.KeyEnter:
		// Confirming with nothing toggled selects the highlighted row.
		if len(m.selected) == 0 && len(m.matches) > 0 {
			m.selected[m.matches[m.cursor].Str] = struct{}{}
		}

		return m, tea.Quit

	case tea.KeyUp:
		if m.cursor > 0 {
			m.cursor--
		}

		return m.clampScroll(), nil

	case tea.KeyDown:
		if m.cursor < len(m.matches)-1 {
			m.cursor++
		}

		return m.clampScroll(), nil

	case tea.KeyTab, tea.KeySpace:
		if len(m.matches) > 0 {
			path := m.matches[m.cursor].Str
			if _, ok := m.selected[path]; ok {
				delete(m.selected, path)
			} else {
				m.selected[path] = struct{}{}
			}

			if m.cursor < len(m.matches)-1 {
				m.cursor++
			}
		}

		return m.clampScroll(), nil
	}

	var cmd tea.Cmd

	m.input, cmd = m.input.Update(msg)

	return m.refilter(), cmd
}

// refilter recomputes the match set from the current query and resets the
// cursor when it falls off the end.
func (m model) refilter() model {
	query := strings.TrimSpace(m.input.Value())
	if query == "" {
		m.matches = matchAll(m.all)
	} else {
		m.matches = fuzzy.Find(query, m.all)
	}

	if m.cursor >= len(m.matches) {
		m.cursor = 0
		m.offset = 0
	}

	return m.clampScroll()
}

// clampScroll keeps the cursor within the visible window.
func (m model) clampScroll() model {
	if m.cursor < m.offset {
		m.offset = m.cursor
	}

	if m.cursor >= m.offset+maxVisible {
		m.offset = m.cursor - maxVisible + 1
	}

	return m
}

func (m model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Select Lua data files"))
	b.WriteString("\n")
	b.WriteString(m.input.View())
	b.WriteString("\n")

	end := min(m.offset+maxVisible, len(m.matches))

	for i := m.offset; i < end; i++ {
		match := m.matches[i]

		cursor := "  "
		if i == m.cursor {
			cursor = cursorStyle.Render("> ")
		}

		mark := "[ ] "
		if _, ok := m.selected[match.Str]; ok {
			mark = selectedStyle.Render("[x] ")
		}

		b.WriteString(cursor)
		b.WriteString(mark)
		b.WriteString(renderMatch(match))
		b.WriteString("\n")
	}

	if len(m.matches) == 0 {
		b.WriteString(hintStyle.Render("  no matches"))
		b.WriteString("\n")
	}

	b.WriteString(hintStyle.Render(
		"space: toggle · enter: confirm · esc: cancel",
	))
	b.WriteString("\n")

	return b.String()
}

// renderMatch highlights the characters of a candidate that matched the
// query.
func renderMatch(match fuzzy.Match) string {
	if len(match.MatchedIndexes) == 0 {
		return match.Str
	}

	matched := make(map[int]struct{}, len(match.MatchedIndexes))
	for _, idx := range match.MatchedIndexes {
		matched[idx] = struct{}{}
	}

	var b strings.Builder

	for i, r := range match.Str {
		if _, ok := matched[i]; ok {
			b.WriteString(matchedStyle.Render(string(r)))
		} else {
			b.WriteRune(r)
		}
	}

	return b.String()
}
