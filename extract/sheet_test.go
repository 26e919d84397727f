package extract

import (
	"context"
	"strings"
	"testing"

	"github.com/hazyhaar/docmill/sniff"
)

func TestRenderSheetsVerticalMerge(t *testing.T) {
	out := renderSheets([]sheetTable{{
		Name: "Clients",
		Rows: [][]string{
			{"Dupont", "Paris"},
			{"", "Lyon"},
			{"", "Nice"},
		},
		Merges: []mergeSpan{{Row: 0, Col: 0, RowSpan: 3, ColSpan: 1}},
	}})

	want := mergeLegend + "\n\n## Clients\n| Dupont | Paris |\n| # | Lyon |\n| # | Nice |"
	if out != want {
		t.Fatalf("got:\n%s\nwant:\n%s", out, want)
	}
	if strings.Count(out, mergeLegend) != 1 {
		t.Fatal("legend must appear exactly once")
	}
}

func TestRenderSheetsLegendOnceAcrossSheets(t *testing.T) {
	tables := []sheetTable{
		{Name: "A", Rows: [][]string{{"a"}}},
		{Name: "B", Rows: [][]string{{"b"}}},
	}
	out := renderSheets(tables)
	if strings.Count(out, mergeLegend) != 1 {
		t.Fatalf("legend count != 1 in:\n%s", out)
	}
	if !strings.Contains(out, "## A") || !strings.Contains(out, "## B") {
		t.Fatalf("missing sheet sections:\n%s", out)
	}
}

func TestRenderSheetsDropsEmptyRowsAndTrailingColumns(t *testing.T) {
	out := renderSheets([]sheetTable{{
		Name: "Feuille1",
		Rows: [][]string{
			{"Nom", "Montant", "", ""},
			{"", "", "", ""},
			nil,
			{"Durand", "120,50", "", ""},
		},
	}})

	want := mergeLegend + "\n\n## Feuille1\n| Nom | Montant |\n| Durand | 120,50 |"
	if out != want {
		t.Fatalf("got:\n%s\nwant:\n%s", out, want)
	}
}

func TestRenderSheetsEmptyWorkbook(t *testing.T) {
	if out := renderSheets(nil); out != "" {
		t.Fatalf("empty workbook must render empty, got %q", out)
	}
	empty := []sheetTable{{Name: "Vide", Rows: [][]string{{"", ""}, nil}}}
	if out := renderSheets(empty); out != "" {
		t.Fatalf("all-empty sheet must render empty, got %q", out)
	}
}

func TestSanitizeCell(t *testing.T) {
	if got := sanitizeCell("a|b\nc"); got != "a\\|b c" {
		t.Fatalf("got %q", got)
	}
}

func TestExtractODSMergedRows(t *testing.T) {
	content := `<?xml version="1.0" encoding="UTF-8"?>
<office:document-content xmlns:office="urn:oasis:names:tc:opendocument:xmlns:office:1.0"
  xmlns:table="urn:oasis:names:tc:opendocument:xmlns:table:1.0"
  xmlns:text="urn:oasis:names:tc:opendocument:xmlns:text:1.0">
  <office:body><office:spreadsheet>
    <table:table table:name="Feuille1">
      <table:table-row>
        <table:table-cell table:number-rows-spanned="3"><text:p>Total</text:p></table:table-cell>
        <table:table-cell><text:p>1</text:p></table:table-cell>
      </table:table-row>
      <table:table-row>
        <table:covered-table-cell/>
        <table:table-cell><text:p>2</text:p></table:table-cell>
      </table:table-row>
      <table:table-row>
        <table:covered-table-cell/>
        <table:table-cell><text:p>3</text:p></table:table-cell>
      </table:table-row>
    </table:table>
  </office:spreadsheet></office:body>
</office:document-content>`
	data := zipBytes(t, map[string]string{
		"mimetype":    "application/vnd.oasis.opendocument.spreadsheet",
		"content.xml": content,
	})

	e := newTestExtractor(t)
	res, err := e.Extract(context.Background(), data, sniff.FormatODS, "compta.ods")
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	want := mergeLegend + "\n\n## Feuille1\n| Total | 1 |\n| # | 2 |\n| # | 3 |"
	if res.Text != want {
		t.Fatalf("got:\n%s\nwant:\n%s", res.Text, want)
	}
}

func TestExtractODSMissingContentSoftFails(t *testing.T) {
	data := zipBytes(t, map[string]string{"mimetype": "application/vnd.oasis.opendocument.spreadsheet"})
	e := newTestExtractor(t)
	res, err := e.Extract(context.Background(), data, sniff.FormatODS, "vide.ods")
	if err != nil {
		t.Fatalf("soft failure must not error: %v", err)
	}
	if res.Text != "" {
		t.Fatalf("want empty result, got %q", res.Text)
	}
}
