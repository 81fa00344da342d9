package luacheck

import (
	"path/filepath"
	"strings"
	"testing"

	herr "github.com/joshjau/hero-dbc/pkg/errors"
	"github.com/joshjau/hero-dbc/pkg/luagen"
)

func TestVerifyGeneratedTable(t *testing.T) {
	tbl := &luagen.Table{
		Name: "SpellTickTime",
		Comment: []string{
			"Auto-generated spell tick time data",
			"Format: [SpellID] = { Amplitude, HasMechanic }",
		},
		Entries: []luagen.Entry{
			{Key: 10, Value: "{ 3, false }"},
			{Key: 20, Value: "{ 2, true }"},
		},
	}

	count, err := Verify(tbl.Serialize())
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if count != 2 {
		t.Errorf("count = %d, want 2", count)
	}
}

func TestVerifyEmptyTable(t *testing.T) {
	tbl := &luagen.Table{Name: "Empty"}

	count, err := Verify(tbl.Serialize())
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if count != 0 {
		t.Errorf("count = %d, want 0", count)
	}
}

func TestVerifySyntaxError(t *testing.T) {
	_, err := Verify([]byte("local = ="))
	if err == nil {
		t.Fatal("expected syntax error")
	}
	if !strings.Contains(err.Error(), "syntax") {
		t.Errorf("error %q does not mention syntax", err)
	}
}

func TestVerifyNonTableReturn(t *testing.T) {
	_, err := Verify([]byte("return 42"))
	if err == nil {
		t.Fatal("expected error for non-table return")
	}
	if !strings.Contains(err.Error(), "want table") {
		t.Errorf("error %q does not name the expected type", err)
	}
}

func TestVerifyRuntimeError(t *testing.T) {
	if _, err := Verify([]byte("return nothere.field")); err == nil {
		t.Fatal("expected runtime error for nil index")
	}
}

func TestVerifyFileNotFound(t *testing.T) {
	_, err := VerifyFile(filepath.Join(t.TempDir(), "nope.lua"))
	if !herr.IsCode(err, herr.CodeFileNotFound) {
		t.Errorf("code = %s, want %s", herr.GetCode(err), herr.CodeFileNotFound)
	}
}
