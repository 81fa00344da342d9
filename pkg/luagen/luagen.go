// Package luagen serializes generated lookup data as Lua table files for
// the HeroDBC addon. Output is a pure function of the entries: a header
// comment block, one line per entry inside a table literal, and a trailer
// binding the table under HeroDBC.DBC and returning it.
package luagen

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/google/uuid"

	herr "github.com/joshjau/hero-dbc/pkg/errors"
)

// Entry is one generated record. Value is a preformatted Lua expression,
// e.g. "{ 3, false }" or "1.500".
type Entry struct {
	Key   int
	Value string
}

// Table describes one generated Lua file.
type Table struct {
	// Name is the Lua local identifier, e.g. "SpellTickTime".
	Name string
	// Field overrides the namespaced binding in the trailer. Empty means
	// "HeroDBC.DBC.<Name>".
	Field string
	// Comment lines for the header block, without the leading "-- ".
	Comment []string
	Entries []Entry
}

// FieldName returns the namespaced field the trailer binds to.
func (t *Table) FieldName() string {
	if t.Field != "" {
		return t.Field
	}
	return "HeroDBC.DBC." + t.Name
}

// Serialize renders the table. Entries are emitted sorted ascending by
// key regardless of input order, so the byte output is deterministic.
func (t *Table) Serialize() []byte {
	entries := make([]Entry, len(t.Entries))
	copy(entries, t.Entries)
	sort.Slice(entries, func(i, j int) bool { return entries[i].Key < entries[j].Key })

	var buf bytes.Buffer
	for _, line := range t.Comment {
		buf.WriteString("-- ")
		buf.WriteString(line)
		buf.WriteByte('\n')
	}
	fmt.Fprintf(&buf, "local %s = {\n", t.Name)
	for _, e := range entries {
		fmt.Fprintf(&buf, "  [%d] = %s,\n", e.Key, e.Value)
	}
	buf.WriteString("}\n\n")
	fmt.Fprintf(&buf, "%s = %s\n", t.FieldName(), t.Name)
	fmt.Fprintf(&buf, "return %s\n", t.Name)

	return buf.Bytes()
}

// WriteFile writes the serialized table to path. The data goes to a
// uniquely named temp file in the destination directory first and is
// renamed into place, so a failed write never truncates an existing
// output file.
func WriteFile(path string, t *Table) error {
	data := t.Serialize()

	dir := filepath.Dir(path)
	tmp := filepath.Join(dir, "."+filepath.Base(path)+".tmp-"+uuid.NewString())

	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return herr.WriteFailed(path, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return herr.WriteFailed(path, err)
	}
	return nil
}
