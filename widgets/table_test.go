package widgets_test

import (
	"strings"
	"testing"

	"github.com/kattameya/rockdash/widgets"
)

func TestTable_Draw_AlignedColumns(t *testing.T) {
	tbl := &widgets.Table{
		Columns: []widgets.TableColumn{
			{Width: 10},
			{Width: 6, AlignRight: true},
			{Width: 8, AlignRight: true},
		},
		Header: []string{"NODE", "TONS", "RANGE"},
		Rows: [][]string{
			{"crusher-1", "1,204", "0-10mm"},
			{"crusher-2", "980", "10-20mm"},
		},
		Gap: 2,
	}

	ctx := testDrawContext(40, 10)
	surf, err := tbl.Draw(ctx)
	if err != nil {
		t.Fatalf("Draw: %v", err)
	}

	// header + 2 data rows
	if surf.Size.Height != 3 {
		t.Fatalf("expected height=3, got %d", surf.Size.Height)
	}

	if g := cellText(surf.Buffer[0]); g != "N" {
		t.Errorf("header col 0: expected 'N', got %q", g)
	}

	// "TONS" right-aligned in width 6 starting at col 12 (10+2 gap) lands on col 14.
	if g := cellText(surf.Buffer[14]); g != "T" {
		t.Errorf("header col 14: expected 'T', got %q", g)
	}

	// "1,204" is 5 chars in width 6, col 13.
	if g := cellText(surf.Buffer[40+13]); g != "1" {
		t.Errorf("row1 col 13: expected '1', got %q", g)
	}

	// "980" is 3 chars in width 6, col 15.
	if g := cellText(surf.Buffer[80+15]); g != "9" {
		t.Errorf("row2 col 15: expected '9', got %q", g)
	}
}

func TestTable_Draw_Caption(t *testing.T) {
	tbl := &widgets.Table{
		Caption: "Totals",
		Columns: []widgets.TableColumn{{Width: 5}},
		Header:  []string{"A"},
		Rows:    [][]string{{"x"}},
	}
	surf, err := tbl.Draw(testDrawContext(20, 10))
	if err != nil {
		t.Fatalf("Draw: %v", err)
	}
	if surf.Size.Height != 3 {
		t.Fatalf("expected height=3, got %d", surf.Size.Height)
	}
	if got := strings.TrimSpace(rowText(surf, 0)); got != "Totals" {
		t.Errorf("expected caption row, got %q", got)
	}
	if tbl.Height() != 3 {
		t.Errorf("expected Height()=3, got %d", tbl.Height())
	}
}

func TestTable_Draw_NoHeader(t *testing.T) {
	tbl := &widgets.Table{
		Columns: []widgets.TableColumn{
			{Width: 8},
			{Width: 6},
		},
		Rows: [][]string{
			{"hello", "world"},
		},
	}

	surf, err := tbl.Draw(testDrawContext(30, 5))
	if err != nil {
		t.Fatalf("Draw: %v", err)
	}
	if surf.Size.Height != 1 {
		t.Errorf("expected height=1 (no header), got %d", surf.Size.Height)
	}
}

func TestTable_Draw_ClipsToHeight(t *testing.T) {
	rows := make([][]string, 10)
	for i := range rows {
		rows[i] = []string{"r"}
	}
	tbl := &widgets.Table{Columns: []widgets.TableColumn{{Width: 2}}, Rows: rows}

	surf, err := tbl.Draw(testDrawContext(10, 4))
	if err != nil {
		t.Fatalf("Draw: %v", err)
	}
	if surf.Size.Height != 4 {
		t.Errorf("expected height=4, got %d", surf.Size.Height)
	}
}

func TestTable_Draw_TruncatesLongText(t *testing.T) {
	tbl := &widgets.Table{
		Columns: []widgets.TableColumn{
			{Width: 4},
		},
		Rows: [][]string{
			{"toolongname"},
		},
	}

	surf, err := tbl.Draw(testDrawContext(20, 5))
	if err != nil {
		t.Fatalf("Draw: %v", err)
	}

	if g := cellText(surf.Buffer[0]); g != "t" {
		t.Errorf("col 0: expected 't', got %q", g)
	}
	if g := cellText(surf.Buffer[3]); g != "l" {
		t.Errorf("col 3: expected 'l', got %q", g)
	}
	if g := cellText(surf.Buffer[4]); g != "" {
		t.Errorf("col 4: expected empty, got %q", g)
	}
}

func TestNewAutoTable(t *testing.T) {
	tbl := widgets.NewAutoTable("By node",
		[]string{"Node", "Tons"},
		[][]string{
			{"crusher-1", "1,204 t"},
			{"c2", "98%"},
		}, 0)

	if len(tbl.Columns) != 2 {
		t.Fatalf("expected 2 columns, got %d", len(tbl.Columns))
	}
	if tbl.Columns[0].Width != 9 {
		t.Errorf("expected name width=9, got %d", tbl.Columns[0].Width)
	}
	if tbl.Columns[1].Width != 7 {
		t.Errorf("expected tons width=7, got %d", tbl.Columns[1].Width)
	}
	if tbl.Columns[0].AlignRight {
		t.Error("expected text column left-aligned")
	}
	if !tbl.Columns[1].AlignRight {
		t.Error("expected numeric column right-aligned")
	}
}

func TestNewAutoTable_RaggedRows(t *testing.T) {
	tbl := widgets.NewAutoTable("", []string{"A"}, [][]string{{"1", "two", "3"}}, 0)
	if len(tbl.Columns) != 3 {
		t.Fatalf("expected 3 columns, got %d", len(tbl.Columns))
	}
	if _, err := tbl.Draw(testDrawContext(20, 5)); err != nil {
		t.Fatalf("Draw: %v", err)
	}
}

func TestNewAutoTable_ShrinksToWidth(t *testing.T) {
	tbl := widgets.NewAutoTable("",
		[]string{"Description", "N"},
		[][]string{{strings.Repeat("x", 40), "1"}}, 20)

	sum := 0
	for i, c := range tbl.Columns {
		if i > 0 {
			sum += tbl.Gap
		}
		sum += c.Width
	}
	if sum > 20 {
		t.Errorf("expected total width <= 20, got %d", sum)
	}
	if tbl.Columns[1].Width != 1 {
		t.Errorf("expected narrow column untouched, got %d", tbl.Columns[1].Width)
	}
}
