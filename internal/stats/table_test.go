package stats

import "testing"

func TestFormatTableAlignsColumns(t *testing.T) {
	cols := []column{{title: "Preset"}, {title: "Best", right: true}, {title: "Gain", right: true}}
	rows := [][]string{
		{"four-column", "0.61234", "+2.10%"},
		{"none", "0.5", "-0.30%"},
	}

	lines := formatTable(cols, rows)
	want := []string{
		"Preset          Best    Gain",
		"───────────  ───────  ──────",
		"four-column  0.61234  +2.10%",
		"none             0.5  -0.30%",
	}
	if len(lines) != len(want) {
		t.Fatalf("expected %d lines, got %d", len(want), len(lines))
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Fatalf("line %d: expected %q, got %q", i, want[i], lines[i])
		}
	}
}

func TestFormatTableWideCharacters(t *testing.T) {
	lines := formatTable([]column{{title: "Key"}, {title: "N", right: true}}, [][]string{{"漢", "1"}, {"a", "22"}})
	if lines[2] != "漢    1" || lines[3] != "a    22" {
		t.Fatalf("unexpected lines %q", lines)
	}
}

func TestFormatTableWithoutColumns(t *testing.T) {
	if lines := formatTable(nil, [][]string{{"x"}}); lines != nil {
		t.Fatalf("expected nil, got %q", lines)
	}
}
