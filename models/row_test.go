package models

import (
	"reflect"
	"testing"
)

func TestGroupPrimary(t *testing.T) {
	english := &Row{Language: "English", Line: 2}
	group := &Group{ID: "g1", Rows: []*Row{
		{Language: "Spanish", Line: 1},
		english,
		{Language: "english", Line: 3},
	}}

	if got := group.Primary("english"); got != english {
		t.Errorf("primary = line %d, want the first english row", got.Line)
	}
}

func TestGroupPrimaryFallsBackToFirstRow(t *testing.T) {
	first := &Row{Language: "French", Line: 1}
	group := &Group{ID: "g1", Rows: []*Row{first, {Language: "German", Line: 2}}}

	if got := group.Primary("english"); got != first {
		t.Errorf("primary = line %d, want the first row", got.Line)
	}
}

func TestGroupPrimaryEmpty(t *testing.T) {
	if got := (&Group{}).Primary("english"); got != nil {
		t.Errorf("primary of empty group = %+v, want nil", got)
	}
}

func TestSplitFileURLs(t *testing.T) {
	row := &Row{FileURLs: " https://x/a.pdf , ,https://x/b.epub,"}
	want := []string{"https://x/a.pdf", "https://x/b.epub"}
	if got := row.SplitFileURLs(); !reflect.DeepEqual(got, want) {
		t.Errorf("split = %v, want %v", got, want)
	}

	if got := (&Row{}).SplitFileURLs(); got != nil {
		t.Errorf("empty file_urls should split to nil, got %v", got)
	}
}

func TestRowGet(t *testing.T) {
	row := &Row{Raw: map[string]string{"isbn": "978-1"}}
	if got := row.Get("isbn"); got != "978-1" {
		t.Errorf("get = %q", got)
	}
	if got := row.Get("missing"); got != "" {
		t.Errorf("missing column = %q, want empty", got)
	}
	var nilRow *Row
	if got := nilRow.Get("isbn"); got != "" {
		t.Errorf("nil row = %q, want empty", got)
	}
}
