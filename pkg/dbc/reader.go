package dbc

import (
	"bufio"
	"context"
	"io"
	"os"

	herr "github.com/joshjau/hero-dbc/pkg/errors"
)

// readBufferSize matches the extract sizes we see in practice; SpellMisc
// runs to a few hundred thousand lines.
const readBufferSize = 64 * 1024

// ReadTable scans CSV data from r, keeping only the requested columns.
// The extracts use comma separation with double-quote quoting and
// backslash as the escape character. Required columns must be present in
// the header; optional columns are projected only when they exist.
// Rows keep their original file order.
func ReadTable(ctx context.Context, r io.Reader, path string, required, optional []string) (*Table, error) {
	br := bufio.NewReaderSize(r, readBufferSize)

	headerLine, err := readLine(br)
	if err != nil && err != io.EOF {
		return nil, herr.Wrap(err, herr.CodeReadFailed, "failed to read header").WithContext("path", path)
	}
	if len(headerLine) == 0 {
		return nil, herr.New(herr.CodeReadFailed, "empty input").WithContext("path", path)
	}

	header := scanLine(headerLine)
	colIdx := make(map[string]int, len(header))
	for i, c := range header {
		colIdx[string(c)] = i
	}

	var missing []string
	for _, c := range required {
		if _, ok := colIdx[c]; !ok {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return nil, herr.MissingColumn(path, missing)
	}

	columns := make([]string, 0, len(required)+len(optional))
	indices := make([]int, 0, len(required)+len(optional))
	for _, c := range required {
		columns = append(columns, c)
		indices = append(indices, colIdx[c])
	}
	for _, c := range optional {
		if idx, ok := colIdx[c]; ok {
			columns = append(columns, c)
			indices = append(indices, idx)
		}
	}

	var rows [][]string
	lineNum := 1
	for {
		select {
		case <-ctx.Done():
			return nil, herr.ContextCanceled("read " + path)
		default:
		}

		line, err := readLine(br)
		if err != nil && err != io.EOF {
			return nil, herr.Wrap(err, herr.CodeReadFailed, "failed to read line").
				WithContext("path", path).
				WithContext("row", lineNum+1)
		}
		if len(line) == 0 && err == io.EOF {
			break
		}
		lineNum++

		if len(line) == 0 {
			if err == io.EOF {
				break
			}
			continue
		}

		fields := scanLine(line)
		row := make([]string, len(indices))
		for j, idx := range indices {
			if idx < len(fields) {
				row[j] = string(fields[idx])
			}
		}
		rows = append(rows, row)

		if err == io.EOF {
			break
		}
	}

	return NewTable(path, columns, rows), nil
}

// LoadFile reads a CSV extract from disk.
func LoadFile(ctx context.Context, path string, required, optional []string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, herr.FileNotFound(path)
		}
		if os.IsPermission(err) {
			return nil, herr.Wrap(err, herr.CodeFilePermission, "cannot open input").WithContext("path", path)
		}
		return nil, herr.Wrap(err, herr.CodeReadFailed, "cannot open input").WithContext("path", path)
	}
	defer f.Close()

	return ReadTable(ctx, f, path, required, optional)
}

// readLine returns the next line without its trailing \n / \r bytes.
func readLine(br *bufio.Reader) ([]byte, error) {
	line, err := br.ReadBytes('\n')
	for len(line) > 0 && (line[len(line)-1] == '\n' || line[len(line)-1] == '\r') {
		line = line[:len(line)-1]
	}
	return line, err
}

// scanLine splits one CSV line into fields using byte-level scanning.
// A backslash escapes the following byte anywhere in the line; double
// quotes delimit fields that embed commas, with "" for a literal quote.
func scanLine(line []byte) [][]byte {
	fields := make([][]byte, 0, 16)
	field := make([]byte, 0, 32)
	inQuotes := false

	for i := 0; i < len(line); i++ {
		c := line[i]

		switch {
		case c == '\\' && i+1 < len(line):
			i++
			field = append(field, line[i])
		case c == '"':
			if inQuotes && i+1 < len(line) && line[i+1] == '"' {
				field = append(field, '"')
				i++
			} else {
				inQuotes = !inQuotes
			}
		case c == ',' && !inQuotes:
			fields = append(fields, field)
			field = make([]byte, 0, 32)
		default:
			field = append(field, c)
		}
	}

	fields = append(fields, field)
	return fields
}
