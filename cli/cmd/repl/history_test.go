package repl

import (
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"testing"
)

func entries(h *History) []HistoryEntry {
	out := make([]HistoryEntry, 0, h.Len())

	for i := range h.Len() {
		e, _ := h.Entry(i)
		out = append(out, e)
	}

	return out
}

func TestHistory_AddPersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history")

	h := NewHistory(path)
	if err := h.Load(); err != nil {
		t.Fatalf("Load() on missing file: %v", err)
	}

	for _, e := range []HistoryEntry{
		{"a + 1", modeEval},
		{"list", modeCtrl},
		{"  ", modeEval},
		{"b", modeEval},
	} {
		if err := h.Add(e.Line, e.Mode); err != nil {
			t.Fatalf("Add(%q): %v", e.Line, err)
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	if want := "E:a + 1\nC:list\nE:b\n"; string(data) != want {
		t.Errorf("history file = %q, want %q", data, want)
	}

	reloaded := NewHistory(path)
	if err := reloaded.Load(); err != nil {
		t.Fatal(err)
	}

	want := []HistoryEntry{{"a + 1", modeEval}, {"list", modeCtrl}, {"b", modeEval}}
	got := entries(reloaded)

	if len(got) != len(want) {
		t.Fatalf("reloaded %d entries, want %d", len(got), len(want))
	}

	for i := range want {
		if got[i] != want[i] {
			t.Errorf("entry %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestHistory_DuplicateMovesToEnd(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history")
	h := NewHistory(path)

	for _, line := range []string{"a", "b", "a", "a"} {
		if err := h.Add(line, modeEval); err != nil {
			t.Fatal(err)
		}
	}

	got := entries(h)
	if len(got) != 2 || got[0].Line != "b" || got[1].Line != "a" {
		t.Errorf("entries = %+v, want [b a]", got)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	if want := "E:b\nE:a\n"; string(data) != want {
		t.Errorf("history file = %q, want %q", data, want)
	}
}

func TestHistory_SameLineDifferentMode(t *testing.T) {
	h := NewHistory("")

	_ = h.Add("list", modeEval)
	_ = h.Add("list", modeCtrl)

	if h.Len() != 2 {
		t.Errorf("Len() = %d, want 2", h.Len())
	}
}

func TestHistory_LegacyLinesAreEval(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history")
	if err := os.WriteFile(path, []byte("plain\n\nC:quit\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	h := NewHistory(path)
	if err := h.Load(); err != nil {
		t.Fatal(err)
	}

	got := entries(h)
	want := []HistoryEntry{{"plain", modeEval}, {"quit", modeCtrl}}

	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("entries = %+v, want %+v", got, want)
	}
}

func TestHistory_Bounded(t *testing.T) {
	h := NewHistory("")

	for i := range maxHistory + 5 {
		if err := h.Add("x"+strconv.Itoa(i), modeEval); err != nil {
			t.Fatal(err)
		}
	}

	if h.Len() != maxHistory {
		t.Fatalf("Len() = %d, want %d", h.Len(), maxHistory)
	}

	first, err := h.Entry(0)
	if err != nil {
		t.Fatal(err)
	}

	if first.Line != "x5" {
		t.Errorf("oldest entry = %q, want %q", first.Line, "x5")
	}
}

func TestHistory_EntryOutOfBounds(t *testing.T) {
	h := NewHistory("")
	_ = h.Add("a", modeEval)

	for _, i := range []int{-1, 1} {
		if _, err := h.Entry(i); !errors.Is(err, ErrOutOfBounds) {
			t.Errorf("Entry(%d) error = %v, want ErrOutOfBounds", i, err)
		}
	}
}
