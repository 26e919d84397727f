package extract

import (
	"context"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/hazyhaar/docmill/sniff"
)

func TestExtractXlsxMergedCellsRoundTrip(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	cells := map[string]any{
		"A1": "Poste", "B1": "Montant",
		"A2": "Total", "B2": 10,
		"B3": 20,
		"B4": 30,
	}
	for cell, v := range cells {
		if err := f.SetCellValue(sheet, cell, v); err != nil {
			t.Fatalf("set %s: %v", cell, err)
		}
	}
	if err := f.MergeCell(sheet, "A2", "A4"); err != nil {
		t.Fatalf("merge: %v", err)
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("write workbook: %v", err)
	}

	e := newTestExtractor(t)
	res, err := e.Extract(context.Background(), buf.Bytes(), sniff.FormatXlsx, "tableau.xlsx")
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	want := mergeLegend + "\n\n## " + sheet + "\n" +
		"| Poste | Montant |\n" +
		"| Total | 10 |\n" +
		"| # | 20 |\n" +
		"| # | 30 |"
	if res.Text != want {
		t.Fatalf("got %q want %q", res.Text, want)
	}
	if strings.Count(res.Text, mergeLegend) != 1 {
		t.Fatal("legend must appear exactly once")
	}
	if res.UsedOCR || res.WordCount != CountWords(res.Text) {
		t.Fatalf("unexpected result: %+v", res)
	}
}
