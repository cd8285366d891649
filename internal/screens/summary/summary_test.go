package summary

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/quizvox/internal/router"
	"github.com/abhisek/quizvox/internal/summary"
)

func testBuckets() summary.Buckets {
	return summary.Buckets{
		Good:   []string{"Capital of France?"},
		Medium: []string{"Boiling point of water?", "Boiling point of water?"},
	}
}

func TestSummaryScreen_Title(t *testing.T) {
	s := New("geo", summary.EnglishLabels, testBuckets())
	if s.Title() != "Summary" {
		t.Errorf("Title = %q, want %q", s.Title(), "Summary")
	}
	if s.Status() != "geo" {
		t.Errorf("Status = %q, want %q", s.Status(), "geo")
	}
}

func TestSummaryScreen_Display(t *testing.T) {
	s := New("geo", summary.EnglishLabels, testBuckets())
	view := s.View(80, 24)

	for _, want := range []string{
		"Good topics", "Medium topics", "Bad topics",
		"Capital of France?", "No bad answers.",
	} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
	if n := strings.Count(view, "Boiling point of water?"); n != 2 {
		t.Errorf("medium entry rendered %d times, want 2", n)
	}
}

func TestSummaryScreen_GermanLabels(t *testing.T) {
	s := New("", summary.GermanLabels, summary.Buckets{})
	view := s.View(80, 24)
	for _, want := range []string{"Zusammenfassung", "Keine guten Antworten.", "Keine schlechten Antworten."} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestSummaryScreen_Navigation_Enter(t *testing.T) {
	s := New("geo", summary.EnglishLabels, testBuckets())
	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected a command on Enter (pop)")
	}
	if _, ok := cmd().(router.PopScreenMsg); !ok {
		t.Error("expected PopScreenMsg")
	}
}

func TestSummaryScreen_Navigation_Esc(t *testing.T) {
	s := New("geo", summary.EnglishLabels, testBuckets())
	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	if cmd == nil {
		t.Error("expected a command on Esc (pop)")
	}
}

func TestSummaryScreen_KeyHints(t *testing.T) {
	s := New("geo", summary.EnglishLabels, testBuckets())
	hints := s.KeyHints()
	if len(hints) != 2 {
		t.Errorf("KeyHints length = %d, want 2", len(hints))
	}
}
