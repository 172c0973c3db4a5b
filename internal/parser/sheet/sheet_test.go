package sheet

import (
	"strings"
	"testing"
)

func TestReadBasic(t *testing.T) {
	in := "Email,First name,Industry\na@x.com,Jane,Software\nb@x.com,Bob,Retail\n"
	sh, err := Read(strings.NewReader(in), "Owners", Options{})
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if sh.Name != "Owners" {
		t.Errorf("Name = %q", sh.Name)
	}
	if len(sh.Rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(sh.Rows))
	}
	if sh.Rows[0]["Email"] != "a@x.com" || sh.Rows[1]["Industry"] != "Retail" {
		t.Errorf("rows = %v", sh.Rows)
	}
}

func TestReadStripsBOMAndTrimsHeaders(t *testing.T) {
	in := "\uFEFF Email , Company name\na@x.com,Acme\n"
	sh, err := Read(strings.NewReader(in), "s", Options{})
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if _, ok := sh.Rows[0]["Email"]; !ok {
		t.Errorf("BOM or spaces left in header: %v", sh.Rows[0])
	}
	if sh.Rows[0]["Company name"] != "Acme" {
		t.Errorf("rows = %v", sh.Rows)
	}
}

func TestReadRaggedRows(t *testing.T) {
	in := "Email,First name,Industry\nshort@x.com,OnlyName\nlong@x.com,Jane,Software,EXTRA\n"
	sh, err := Read(strings.NewReader(in), "s", Options{})
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(sh.Rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(sh.Rows))
	}
	if _, ok := sh.Rows[0]["Industry"]; ok {
		t.Errorf("short row grew a cell: %v", sh.Rows[0])
	}
	if len(sh.Rows[1]) != 3 {
		t.Errorf("long row kept extras: %v", sh.Rows[1])
	}
}

func TestReadEmptyInput(t *testing.T) {
	sh, err := Read(strings.NewReader(""), "empty", Options{})
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(sh.Rows) != 0 {
		t.Errorf("rows = %v", sh.Rows)
	}
}

func TestReadSemicolonDelimiter(t *testing.T) {
	in := "Email;Company\na@x.com;Acme GmbH\n"
	sh, err := Read(strings.NewReader(in), "s", Options{Comma: ';'})
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if sh.Rows[0]["Company"] != "Acme GmbH" {
		t.Errorf("rows = %v", sh.Rows)
	}
}

func TestSheetName(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"exports/Owners.csv", "Owners"},
		{"Founder.csv", "Founder"},
		{"/data/contact_data.csv", "contact_data"},
	}
	for _, tt := range tests {
		if got := SheetName(tt.path); got != tt.want {
			t.Errorf("SheetName(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}
