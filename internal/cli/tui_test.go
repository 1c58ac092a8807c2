package cli

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/seed/pkg/core/layout"
	"github.com/matzehuels/seed/pkg/io"
	"github.com/matzehuels/seed/pkg/pipeline"
)

func cardTree(t *testing.T) *layout.Tree {
	t.Helper()
	doc, err := pipeline.Parse([]byte(cardJSON), io.FormatJSON)
	if err != nil {
		t.Fatal(err)
	}
	res, err := pipeline.NewRunner(nil, nil, nil).Layout(context.Background(), doc, pipeline.Options{})
	if err != nil {
		t.Fatalf("Layout() error: %v", err)
	}
	return res.Tree
}

func press(m InspectModel, keys ...string) InspectModel {
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case "left":
			msg = tea.KeyMsg{Type: tea.KeyLeft}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		next, _ := m.Update(msg)
		m = next.(InspectModel)
	}
	return m
}

func TestInspectModelNavigation(t *testing.T) {
	m := NewInspectModel("card.json", cardTree(t))
	if len(m.rows) != 3 {
		t.Fatalf("rows = %d, want 3", len(m.rows))
	}
	if got := m.Selected().Name; got != "Card" {
		t.Errorf("Selected() = %q, want Card", got)
	}

	m = press(m, "j", "j", "j")
	if got := m.Selected().Name; got != "Body" {
		t.Errorf("after 3 downs Selected() = %q, want Body (clamped)", got)
	}
	m = press(m, "k")
	if got := m.Selected().Name; got != "Header" {
		t.Errorf("after up Selected() = %q, want Header", got)
	}

	// left on a leaf moves to the parent; left again collapses it.
	m = press(m, "left")
	if got := m.Selected().Name; got != "Card" {
		t.Errorf("left Selected() = %q, want Card", got)
	}
	m = press(m, "left")
	if len(m.rows) != 1 {
		t.Errorf("collapsed rows = %d, want 1", len(m.rows))
	}
	m = press(m, "enter")
	if len(m.rows) != 3 {
		t.Errorf("expanded rows = %d, want 3", len(m.rows))
	}
	m = press(m, "G")
	if m.Cursor != 2 {
		t.Errorf("end Cursor = %d, want 2", m.Cursor)
	}
}

func TestInspectModelScroll(t *testing.T) {
	m := NewInspectModel("card.json", cardTree(t))
	m.Height = 1
	m = press(m, "j", "j")
	if m.Offset != 2 {
		t.Errorf("Offset = %d, want 2", m.Offset)
	}
	m = press(m, "g")
	if m.Offset != 0 || m.Cursor != 0 {
		t.Errorf("home = cursor %d offset %d, want 0 0", m.Cursor, m.Offset)
	}
}

func TestInspectModelView(t *testing.T) {
	m := NewInspectModel("card.json", cardTree(t))
	view := m.View()
	for _, want := range []string{"card.json", "Card", "Header", "Body", "320", "absolute"} {
		if !strings.Contains(view, want) {
			t.Errorf("View() missing %q", want)
		}
	}

	empty := NewInspectModel("empty", layout.NewTree())
	if !strings.Contains(empty.View(), "empty layout") {
		t.Errorf("empty View() = %q", empty.View())
	}
	if empty.Selected() != nil {
		t.Error("empty Selected() should be nil")
	}
}

func TestInspectModelQuit(t *testing.T) {
	m := NewInspectModel("card.json", cardTree(t))
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd == nil {
		t.Fatal("q should return a command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should quit")
	}
}
