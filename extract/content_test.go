package extract

import (
	"strings"
	"testing"
)

func TestParseContentStreamTextPositioning(t *testing.T) {
	stream := []byte(`
BT
1 0 0 1 72 720 Tm
(Objet :) Tj
60 0 Td
(renouvellement) Tj
1 0 0 1 72 700 Tm
[(mon) -250 (tant)] TJ
ET
`)
	runs, drawings := parseContentStream(stream)
	if len(drawings) != 0 {
		t.Fatalf("unexpected drawings: %d", len(drawings))
	}
	if len(runs) != 3 {
		t.Fatalf("want 3 runs, got %d: %+v", len(runs), runs)
	}
	if runs[0].text != "Objet :" || runs[0].x != 72 || runs[0].y != 720 {
		t.Fatalf("run 0: %+v", runs[0])
	}
	if runs[1].text != "renouvellement" || runs[1].x != 132 {
		t.Fatalf("run 1: %+v", runs[1])
	}
	if runs[2].text != "montant" || runs[2].y != 700 {
		t.Fatalf("run 2: %+v", runs[2])
	}
}

func TestParseContentStreamEscapesAndHex(t *testing.T) {
	stream := []byte(`BT 1 0 0 1 10 10 Tm (paren \( fermante \051) Tj <48656C6C6F> Tj ET`)
	runs, _ := parseContentStream(stream)
	if len(runs) != 2 {
		t.Fatalf("want 2 runs, got %d", len(runs))
	}
	if runs[0].text != "paren ( fermante )" {
		t.Fatalf("escape decode: %q", runs[0].text)
	}
	if runs[1].text != "Hello" {
		t.Fatalf("hex decode: %q", runs[1].text)
	}
}

func TestParseContentStreamLeading(t *testing.T) {
	stream := []byte(`BT 14 TL 1 0 0 1 50 500 Tm (ligne un) Tj T* (ligne deux) Tj ET`)
	runs, _ := parseContentStream(stream)
	if len(runs) != 2 {
		t.Fatalf("want 2 runs, got %d", len(runs))
	}
	if runs[1].y != 486 {
		t.Fatalf("T* must descend by leading: y=%v", runs[1].y)
	}
}

func TestAssemblePageReadingOrder(t *testing.T) {
	runs := []textRun{
		{x: 200, y: 700, text: "droite"},
		{x: 50, y: 701, text: "gauche"},
		{x: 50, y: 650, text: "dessous"},
	}
	got := assemblePage(runs, nil)
	want := "gauche droite\ndessous"
	if got != want {
		t.Fatalf("got %q want %q", got, want)
	}
}

// streamDrawings parses a content stream and returns only its drawings.
func streamDrawings(t *testing.T, stream string) []drawing {
	t.Helper()
	_, ds := parseContentStream([]byte(stream))
	return ds
}

func TestCheckboxMarkersChecked(t *testing.T) {
	// A 8.5 pt square (0.3 cm) crossed by two strokes.
	ds := streamDrawings(t, `
100 690 8.5 8.5 re S
100 690 m 108.5 698.5 l S
108.5 690 m 100 698.5 l S
`)
	cfg := Config{}
	cfg.defaults()
	ms := checkboxMarkers(ds, cfg.Checkbox)
	if len(ms) != 1 {
		t.Fatalf("want 1 marker, got %d", len(ms))
	}
	if ms[0].glyph != "[X]" {
		t.Fatalf("want checked glyph, got %q", ms[0].glyph)
	}
}

func TestCheckboxMarkersUnchecked(t *testing.T) {
	ds := streamDrawings(t, `100 690 8.5 8.5 re S`)
	cfg := Config{}
	cfg.defaults()
	ms := checkboxMarkers(ds, cfg.Checkbox)
	if len(ms) != 1 || ms[0].glyph != "[ ]" {
		t.Fatalf("want one unchecked marker, got %+v", ms)
	}
}

func TestCheckboxMarkersRejectsWrongSizes(t *testing.T) {
	// 2 cm square (too large) and a 3 pt square (too small).
	ds := streamDrawings(t, `
100 600 56.7 56.7 re S
300 600 3 3 re S
`)
	cfg := Config{}
	cfg.defaults()
	if ms := checkboxMarkers(ds, cfg.Checkbox); len(ms) != 0 {
		t.Fatalf("want no markers, got %+v", ms)
	}
}

func TestCheckboxMarkerSortsBeforeLabel(t *testing.T) {
	stream := `
BT 1 0 0 1 120 692 Tm (Accepte les conditions) Tj ET
100 688 8.5 8.5 re S
100 688 m 108.5 696.5 l S
108.5 688 m 100 696.5 l S
`
	runs, ds := parseContentStream([]byte(stream))
	cfg := Config{}
	cfg.defaults()
	ms := checkboxMarkers(ds, cfg.Checkbox)
	got := assemblePage(runs, ms)
	if !strings.HasPrefix(got, "[X] Accepte") {
		t.Fatalf("marker must precede label: %q", got)
	}
}
