package importer

import (
	"testing"

	"github.com/wisdomrain/bookfeed/models"
)

func TestGroupRowsPreservesOrder(t *testing.T) {
	rows := []*models.Row{
		{GroupID: "b2", Language: "English", Line: 1},
		{GroupID: "a1", Language: "English", Line: 2},
		{GroupID: "b2", Language: "Spanish", Line: 3},
		{GroupID: "a1", Language: "French", Line: 4},
	}

	groups := GroupRows(rows)
	if len(groups) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(groups))
	}
	if groups[0].ID != "b2" || groups[1].ID != "a1" {
		t.Errorf("expected first-seen order [b2 a1], got [%s %s]", groups[0].ID, groups[1].ID)
	}
	if len(groups[0].Rows) != 2 || groups[0].Rows[0].Line != 1 || groups[0].Rows[1].Line != 3 {
		t.Errorf("group b2 lost row order: %+v", groups[0].Rows)
	}
}

func TestGroupRowsDropsEmptyGroupID(t *testing.T) {
	rows := []*models.Row{
		{GroupID: "", Line: 1},
		{GroupID: "   ", Line: 2},
		{GroupID: " g1 ", Line: 3},
	}

	groups := GroupRows(rows)
	if len(groups) != 1 {
		t.Fatalf("expected 1 group, got %d", len(groups))
	}
	if groups[0].ID != "g1" {
		t.Errorf("expected trimmed id g1, got %q", groups[0].ID)
	}
}

func TestGroupRowsEmptyInput(t *testing.T) {
	if groups := GroupRows(nil); len(groups) != 0 {
		t.Fatalf("expected no groups, got %d", len(groups))
	}
}
