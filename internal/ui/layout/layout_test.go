package layout

import (
	"strings"
	"testing"

	"charm.land/lipgloss/v2"
)

func TestRenderHeader(t *testing.T) {
	idle := RenderHeader(Header{Title: "Drill", Status: "geo  2/5"}, 80)
	for _, want := range []string{"Quizvox", "Drill", "geo  2/5"} {
		if !strings.Contains(idle, want) {
			t.Errorf("header missing %q:\n%s", want, idle)
		}
	}
	if strings.Contains(idle, "REC") {
		t.Error("REC shown while not recording")
	}

	live := RenderHeader(Header{Title: "Drill", Status: "geo  2/5", Recording: true}, 80)
	if !strings.Contains(live, "● REC") {
		t.Errorf("REC missing while recording:\n%s", live)
	}
	if w := lipgloss.Width(live); w != 80 {
		t.Errorf("header width = %d, want 80", w)
	}
}

func TestRenderFooter(t *testing.T) {
	footer := RenderFooter([]KeyHint{{"Space", "Stop recording"}, {"Esc", "End drill"}}, 80)
	for _, want := range []string{"Space", "Stop recording", "·", "End drill"} {
		if !strings.Contains(footer, want) {
			t.Errorf("footer missing %q", want)
		}
	}
}

func TestRenderFrameFillsHeight(t *testing.T) {
	header := RenderHeader(Header{Title: "Decks"}, 70)
	footer := RenderFooter([]KeyHint{{"q", "Quit"}}, 70)
	frame := RenderFrame(header, "body", footer, 70, 24)
	if h := lipgloss.Height(frame); h != 24 {
		t.Errorf("frame height = %d, want 24", h)
	}
}

func TestSizeThresholds(t *testing.T) {
	if !IsTooSmall(59, 30) || !IsTooSmall(80, 19) || IsTooSmall(60, 20) {
		t.Error("IsTooSmall disagrees with MinWidth/MinHeight")
	}
	if !IsCompactWidth(99) || IsCompactWidth(100) {
		t.Error("IsCompactWidth threshold")
	}
	if !strings.Contains(RenderMinSizeMessage(40, 10), "40×10") {
		t.Error("min size message should show the current size")
	}
}
