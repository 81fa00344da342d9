package dbc

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	herr "github.com/joshjau/hero-dbc/pkg/errors"
)

func readString(t *testing.T, input string, required, optional []string) (*Table, error) {
	t.Helper()
	return ReadTable(context.Background(), strings.NewReader(input), "test.csv", required, optional)
}

func TestReadTableProjectsColumns(t *testing.T) {
	input := "id,name,value,extra\n1,alpha,10,x\n2,beta,20,y\n"

	tbl, err := readString(t, input, []string{"id", "value"}, nil)
	if err != nil {
		t.Fatalf("ReadTable: %v", err)
	}

	if tbl.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", tbl.Len())
	}
	if got := tbl.Field(0, "id"); got != "1" {
		t.Errorf("Field(0, id) = %q, want %q", got, "1")
	}
	if got := tbl.Field(1, "value"); got != "20" {
		t.Errorf("Field(1, value) = %q, want %q", got, "20")
	}
	if tbl.HasColumn("name") {
		t.Error("HasColumn(name) = true, want false after projection")
	}
}

func TestReadTableKeepsRowOrder(t *testing.T) {
	input := "id\n3\n1\n2\n"

	tbl, err := readString(t, input, []string{"id"}, nil)
	if err != nil {
		t.Fatalf("ReadTable: %v", err)
	}

	want := []string{"3", "1", "2"}
	for i, w := range want {
		if got := tbl.Field(i, "id"); got != w {
			t.Errorf("row %d = %q, want %q", i, got, w)
		}
	}
}

func TestReadTableQuoting(t *testing.T) {
	tests := []struct {
		name  string
		line  string
		want  string
	}{
		{"embedded comma", `"a,b"`, "a,b"},
		{"doubled quote", `"say ""hi"""`, `say "hi"`},
		{"backslash escapes comma", `a\,b`, "a,b"},
		{"backslash escapes quote", `a\"b`, `a"b`},
		{"plain", "plain", "plain"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tbl, err := readString(t, "desc\n"+tt.line+"\n", []string{"desc"}, nil)
			if err != nil {
				t.Fatalf("ReadTable: %v", err)
			}
			if got := tbl.Field(0, "desc"); got != tt.want {
				t.Errorf("Field = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestReadTableQuotedFieldAmongOthers(t *testing.T) {
	input := "id,desc,value\n7,\"tick, every second\",3\n"

	tbl, err := readString(t, input, []string{"id", "desc", "value"}, nil)
	if err != nil {
		t.Fatalf("ReadTable: %v", err)
	}
	if got := tbl.Field(0, "desc"); got != "tick, every second" {
		t.Errorf("desc = %q", got)
	}
	if got := tbl.Field(0, "value"); got != "3" {
		t.Errorf("value = %q, want 3", got)
	}
}

func TestReadTableMissingColumn(t *testing.T) {
	input := "id,amplitude\n1,3\n"

	_, err := readString(t, input, []string{"id", "id_mechanic"}, nil)
	if err == nil {
		t.Fatal("expected error for missing column")
	}
	if !herr.IsCode(err, herr.CodeMissingColumn) {
		t.Errorf("code = %s, want %s", herr.GetCode(err), herr.CodeMissingColumn)
	}
}

func TestReadTableOptionalColumn(t *testing.T) {
	input := "id,extra\n1,x\n"

	tbl, err := readString(t, input, []string{"id"}, []string{"extra", "absent"})
	if err != nil {
		t.Fatalf("ReadTable: %v", err)
	}
	if !tbl.HasColumn("extra") {
		t.Error("present optional column dropped")
	}
	if tbl.HasColumn("absent") {
		t.Error("absent optional column retained")
	}
	if got := tbl.Field(0, "absent"); got != "" {
		t.Errorf("Field(absent) = %q, want empty", got)
	}
}

func TestReadTableSkipsBlankLines(t *testing.T) {
	input := "id\n1\n\n2\n\n"

	tbl, err := readString(t, input, []string{"id"}, nil)
	if err != nil {
		t.Fatalf("ReadTable: %v", err)
	}
	if tbl.Len() != 2 {
		t.Errorf("Len() = %d, want 2", tbl.Len())
	}
}

func TestReadTableCRLF(t *testing.T) {
	input := "id,value\r\n1,10\r\n2,20\r\n"

	tbl, err := readString(t, input, []string{"id", "value"}, nil)
	if err != nil {
		t.Fatalf("ReadTable: %v", err)
	}
	if tbl.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", tbl.Len())
	}
	if got := tbl.Field(1, "value"); got != "20" {
		t.Errorf("Field(1, value) = %q, want 20", got)
	}
}

func TestReadTableNoTrailingNewline(t *testing.T) {
	input := "id\n1\n2"

	tbl, err := readString(t, input, []string{"id"}, nil)
	if err != nil {
		t.Fatalf("ReadTable: %v", err)
	}
	if tbl.Len() != 2 {
		t.Errorf("Len() = %d, want 2", tbl.Len())
	}
}

func TestReadTableEmptyInput(t *testing.T) {
	_, err := readString(t, "", []string{"id"}, nil)
	if err == nil {
		t.Fatal("expected error for empty input")
	}
	if !herr.IsCode(err, herr.CodeReadFailed) {
		t.Errorf("code = %s, want %s", herr.GetCode(err), herr.CodeReadFailed)
	}
}

func TestReadTableCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := ReadTable(ctx, strings.NewReader("id\n1\n"), "test.csv", []string{"id"}, nil)
	if !herr.IsCode(err, herr.CodeContextCanceled) {
		t.Errorf("code = %s, want %s", herr.GetCode(err), herr.CodeContextCanceled)
	}
}

func TestLoadFileNotFound(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.csv")

	_, err := LoadFile(context.Background(), path, []string{"id"}, nil)
	if !herr.IsCode(err, herr.CodeFileNotFound) {
		t.Errorf("code = %s, want %s", herr.GetCode(err), herr.CodeFileNotFound)
	}
}

func TestTableInt(t *testing.T) {
	tbl := NewTable("test.csv", []string{"id", "amplitude"}, [][]string{
		{"10", "3"},
		{"11", "abc"},
	})

	n, err := tbl.Int(0, "id")
	if err != nil || n != 10 {
		t.Errorf("Int(0, id) = %d, %v", n, err)
	}

	_, err = tbl.Int(1, "amplitude")
	if err == nil {
		t.Fatal("expected parse error")
	}
	if !herr.IsCode(err, herr.CodeParseFailed) {
		t.Errorf("code = %s, want %s", herr.GetCode(err), herr.CodeParseFailed)
	}
	// Row numbers count the header, so data row 1 reports as row 3.
	if !strings.Contains(err.Error(), "row=3") {
		t.Errorf("error %q does not identify row 3", err)
	}
}

func TestTableOptionalInt(t *testing.T) {
	tbl := NewTable("test.csv", []string{"a"}, [][]string{
		{"42"},
		{""},
		{"junk"},
	})

	if got := tbl.OptionalInt(0, "a"); got != 42 {
		t.Errorf("OptionalInt(0) = %d, want 42", got)
	}
	if got := tbl.OptionalInt(1, "a"); got != 0 {
		t.Errorf("OptionalInt(empty) = %d, want 0", got)
	}
	if got := tbl.OptionalInt(2, "a"); got != 0 {
		t.Errorf("OptionalInt(junk) = %d, want 0", got)
	}
	if got := tbl.OptionalInt(0, "missing"); got != 0 {
		t.Errorf("OptionalInt(missing column) = %d, want 0", got)
	}
}

func TestTableFloat(t *testing.T) {
	tbl := NewTable("test.csv", []string{"speed"}, [][]string{
		{"75.5"},
		{"nope"},
	})

	f, err := tbl.Float(0, "speed")
	if err != nil || f != 75.5 {
		t.Errorf("Float(0) = %v, %v", f, err)
	}
	if _, err := tbl.Float(1, "speed"); err == nil {
		t.Error("expected error for non-numeric float")
	}
}

func TestTableShortRow(t *testing.T) {
	tbl := NewTable("test.csv", []string{"a", "b"}, [][]string{{"1"}})

	if got := tbl.Field(0, "b"); got != "" {
		t.Errorf("Field on short row = %q, want empty", got)
	}
}
