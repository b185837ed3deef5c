package ui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		input    int64
		expected string
	}{
		{0, "0 B"},
		{512, "512 B"},
		{1024, "1.0 KB"},
		{1536, "1.5 KB"},
		{50001, "48.8 KB"},
		{5 * 1024 * 1024, "5.0 MB"},
	}

	for _, tt := range tests {
		if got := FormatBytes(tt.input); got != tt.expected {
			t.Errorf("FormatBytes(%d) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestFormatReduction(t *testing.T) {
	if got := FormatReduction(25); !strings.Contains(got, "25.0%") {
		t.Errorf("expected 25.0%% in %q", got)
	}
	if got := FormatReduction(-3.25); !strings.Contains(got, "-3.2%") && !strings.Contains(got, "-3.3%") {
		t.Errorf("expected negative percentage in %q", got)
	}
}

func TestTable_Render(t *testing.T) {
	table := NewTable([]TableColumn{
		{Header: "File"},
		{Header: "Saved", Align: "right"},
	})
	table.AddRow("style.css", "10 B")
	table.AddRow("a.js", StyleSuccess.Render("1.0 KB"))

	out := table.Render()
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected header, separator and 2 rows, got %d lines:\n%s", len(lines), out)
	}

	// Every row renders to the same visible width
	w := lipgloss.Width(lines[0])
	for i, line := range lines[1:] {
		if lipgloss.Width(line) != w {
			t.Errorf("line %d width %d, want %d", i+1, lipgloss.Width(line), w)
		}
	}

	if !strings.Contains(out, "style.css") {
		t.Error("expected row content in output")
	}
}

func TestTable_EmptyColumns(t *testing.T) {
	if NewTable(nil).Render() != "" {
		t.Error("expected empty render for table without columns")
	}
}

func TestPad(t *testing.T) {
	if got := pad("ab", 5, "right"); got != "   ab" {
		t.Errorf("right pad = %q", got)
	}
	if got := pad("ab", 5, "center"); got != " ab  " {
		t.Errorf("center pad = %q", got)
	}
	if got := pad("ab", 5, ""); got != "ab   " {
		t.Errorf("left pad = %q", got)
	}
	if got := pad("abcdef", 3, "left"); got != "abcdef" {
		t.Errorf("overflow should be returned unchanged, got %q", got)
	}
}

func TestFormatHelpers_PrefixIcon(t *testing.T) {
	SetTheme("none")
	defer SetTheme("auto")

	tests := []struct {
		got  string
		want string
	}{
		{FormatSuccess("done"), IconSuccess + " done"},
		{FormatError("bad"), IconError + " bad"},
		{FormatSkip("a.png"), IconSkip + " a.png"},
		{FormatWarning("careful"), IconWarning + " careful"},
		{FormatMuted("quiet"), "quiet"},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("got %q, want %q", tt.got, tt.want)
		}
	}
}
