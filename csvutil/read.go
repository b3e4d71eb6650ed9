package csvutil

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"go.uber.org/zap"
)

// DecodeRows parses every line of in into a row. No header is inferred.
func DecodeRows(in io.Reader, opts ...Option) ([][]string, error) {
	cfg, err := newConfig(opts...)
	if err != nil {
		return nil, err
	}
	rows, err := decodeRows(in, cfg)
	if err != nil {
		return nil, classifyRead("", err)
	}
	return rows, nil
}

// DecodeRecords parses in into records. The first line is the header unless
// field names were given with WithFieldNames.
func DecodeRecords(in io.Reader, opts ...Option) ([]*Record, error) {
	cfg, err := newConfig(opts...)
	if err != nil {
		return nil, err
	}
	records, err := decodeRecords(in, cfg)
	if err != nil {
		return nil, classifyRead("", err)
	}
	return records, nil
}

// ReadRows reads the whole file at path as rows, header line included.
func ReadRows(path string, opts ...Option) ([][]string, error) {
	cfg, err := newConfig(opts...)
	if err != nil {
		return nil, err
	}
	return readFile(path, cfg, decodeRows)
}

// ReadRecords reads the whole file at path as records.
func ReadRecords(path string, opts ...Option) ([]*Record, error) {
	cfg, err := newConfig(opts...)
	if err != nil {
		return nil, err
	}
	return readFile(path, cfg, decodeRecords)
}

func readFile[T any](path string, cfg *Config, decode func(io.Reader, *Config) ([]T, error)) ([]T, error) {
	if path == "" {
		return nil, ErrPathRequired
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, classifyRead(path, err)
	}
	defer f.Close()

	out, err := decode(f, cfg)
	if err != nil {
		return nil, classifyRead(path, err)
	}
	cfg.Logger.Debug("csv read", zap.String("path", path), zap.Int("rows", len(out)))
	return out, nil
}

func decodeRows(in io.Reader, cfg *Config) ([][]string, error) {
	return decodeLines(in, cfg, true)
}

// decodeLines parses every record of in. With keepBlank each blank line
// becomes an empty row, so the result holds one row per line.
func decodeLines(in io.Reader, cfg *Config, keepBlank bool) ([][]string, error) {
	src, err := newReadChain(in, cfg)
	if err != nil {
		return nil, err
	}
	lc := &lineCounter{r: src}
	r := csv.NewReader(lc)
	r.Comma = cfg.Delimiter
	// Rows may differ in width.
	r.FieldsPerRecord = -1

	var rows [][]string
	// Line on which the previous record ended.
	end := 0
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if keepBlank {
			start, _ := r.FieldPos(0)
			rows = appendBlank(rows, start-end-1)
			last := len(row) - 1
			end, _ = r.FieldPos(last)
			// Quoted line breaks reach the field as \n.
			end += strings.Count(row[last], "\n")
		}
		rows = append(rows, row)
	}
	if keepBlank {
		rows = appendBlank(rows, lc.total()-end)
	}
	return rows, nil
}

func appendBlank(rows [][]string, n int) [][]string {
	for range n {
		rows = append(rows, []string{})
	}
	return rows
}

// lineCounter counts the lines passing through it.
type lineCounter struct {
	r     io.Reader
	lines int
	last  byte
}

func (lc *lineCounter) Read(p []byte) (int, error) {
	n, err := lc.r.Read(p)
	if n > 0 {
		lc.lines += bytes.Count(p[:n], []byte{'\n'})
		lc.last = p[n-1]
	}
	return n, err
}

// total is the number of lines read, counting an unterminated last line.
func (lc *lineCounter) total() int {
	if lc.last != 0 && lc.last != '\n' {
		return lc.lines + 1
	}
	return lc.lines
}

// decodeRecords skips blank lines.
func decodeRecords(in io.Reader, cfg *Config) ([]*Record, error) {
	rows, err := decodeLines(in, cfg, false)
	if err != nil {
		return nil, err
	}
	names := cfg.FieldNames
	if len(names) == 0 {
		if len(rows) == 0 {
			return nil, nil
		}
		names, rows = rows[0], rows[1:]
	}

	records := make([]*Record, 0, len(rows))
	for i, row := range rows {
		if len(row) > len(names) && slices.Contains(names, cfg.RestKey) {
			return nil, fmt.Errorf("%w: %q, record %d", ErrRestKeyConflict, cfg.RestKey, i+1)
		}
		records = append(records, toRecord(names, row, cfg))
	}
	return records, nil
}

// toRecord pairs a line with the header. Missing trailing fields are left out
// (or filled with the rest value); surplus fields are joined back with the
// delimiter under the rest key.
func toRecord(names, row []string, cfg *Config) *Record {
	rec := &Record{}
	for i, name := range names {
		switch {
		case i < len(row):
			rec.Set(name, row[i])
		case cfg.FillMissing:
			rec.Set(name, cfg.RestValue)
		}
	}
	if len(row) > len(names) {
		rec.Set(cfg.RestKey, strings.Join(row[len(names):], string(cfg.Delimiter)))
	}
	return rec
}
