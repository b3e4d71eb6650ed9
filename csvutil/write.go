package csvutil

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"
	"golang.org/x/text/transform"
)

type Marshaler interface {
	// MarshalCSV returns header (optional) and multiple rows.
	// If headers is nil, no header line is written.
	MarshalCSV() (headers []string, rows [][]string, err error)
}

// Rows is a table in sequence form. It never produces a header.
type Rows [][]string

func (r Rows) MarshalCSV() ([]string, [][]string, error) {
	return nil, r, nil
}

// recordSet lays out records in header order according to the ragged-record
// policy of cfg.
type recordSet struct {
	records []*Record
	cfg     *Config
}

func (s recordSet) MarshalCSV() ([]string, [][]string, error) {
	names := s.cfg.FieldNames
	if len(names) == 0 {
		if len(s.records) == 0 {
			return nil, nil, ErrNoFieldNames
		}
		names = s.records[0].Keys()
		if len(names) == 0 {
			return nil, nil, ErrNoFieldNames
		}
	}

	var known map[string]struct{}
	if s.cfg.RejectExtra {
		known = make(map[string]struct{}, len(names))
		for _, name := range names {
			known[name] = struct{}{}
		}
	}

	rows := make([][]string, 0, len(s.records))
	for i, rec := range s.records {
		row := make([]string, len(names))
		for j, name := range names {
			v, ok := rec.Get(name)
			if !ok {
				if !s.cfg.FillMissing {
					return nil, nil, fmt.Errorf("%w: record %d: %q", ErrMissingField, i+1, name)
				}
				v = s.cfg.RestValue
			}
			row[j] = v
		}
		if known != nil {
			for _, key := range rec.Keys() {
				if _, ok := known[key]; !ok {
					return nil, nil, fmt.Errorf("%w: record %d: %q", ErrExtraField, i+1, key)
				}
			}
		}
		rows = append(rows, row)
	}
	return names, rows, nil
}

// tableWriter emits a header and rows through the charset and newline chain.
type tableWriter struct {
	w      *csv.Writer
	tw     *transform.Writer
	closed bool
}

func newWriter(out io.Writer, cfg *Config) (*tableWriter, error) {
	tw, err := newWriteChain(out, cfg)
	if err != nil {
		return nil, err
	}
	cw := csv.NewWriter(tw)
	cw.Comma = cfg.Delimiter
	cw.UseCRLF = cfg.Newline == "\r\n"
	return &tableWriter{w: cw, tw: tw}, nil
}

var errWriterClosed = errors.New("csvutil: writer closed")

func (cw *tableWriter) writeRecord(fields []string) error {
	if cw.closed {
		return errWriterClosed
	}
	if len(fields) == 1 && fields[0] == "" {
		return cw.writeEmptyField()
	}
	return cw.w.Write(fields)
}

// writeEmptyField writes a row holding a single empty field as "". The csv
// writer would emit a bare line break, which reads back as no row at all.
func (cw *tableWriter) writeEmptyField() error {
	cw.w.Flush()
	if err := cw.w.Error(); err != nil {
		return err
	}
	line := "\"\"\n"
	if cw.w.UseCRLF {
		line = "\"\"\r\n"
	}
	_, err := io.WriteString(cw.tw, line)
	return err
}

// close flushes the csv buffer and the transform. It does not close the
// underlying io.Writer.
func (cw *tableWriter) close() error {
	if cw.closed {
		return errWriterClosed
	}
	cw.closed = true
	cw.w.Flush()
	if err := cw.w.Error(); err != nil {
		return err
	}
	return cw.tw.Close()
}

func writeTable(out io.Writer, headers []string, rows [][]string, cfg *Config) error {
	w, err := newWriter(out, cfg)
	if err != nil {
		return err
	}
	if headers != nil {
		if err := w.writeRecord(headers); err != nil {
			return err
		}
	}
	for _, row := range rows {
		if err := w.writeRecord(row); err != nil {
			return err
		}
	}
	return w.close()
}

// Encode writes data to out. The header, when data provides one, is written
// first.
func Encode(out io.Writer, data Marshaler, opts ...Option) error {
	cfg, err := newConfig(opts...)
	if err != nil {
		return err
	}
	headers, rows, err := data.MarshalCSV()
	if err != nil {
		return err
	}
	if err := writeTable(out, headers, rows, cfg); err != nil {
		return classifyWrite("", err)
	}
	return nil
}

// WriteRows writes rows to path without a header, truncating any existing
// file.
func WriteRows(path string, rows [][]string, opts ...Option) error {
	cfg, err := newConfig(opts...)
	if err != nil {
		return err
	}
	return writeFile(path, Rows(rows), cfg)
}

// WriteRecords writes a header line followed by one line per record,
// truncating any existing file. The header is cfg.FieldNames, or the keys of
// the first record when none are given.
func WriteRecords(path string, records []*Record, opts ...Option) error {
	cfg, err := newConfig(opts...)
	if err != nil {
		return err
	}
	return writeFile(path, recordSet{records: records, cfg: cfg}, cfg)
}

func writeFile(path string, data Marshaler, cfg *Config) (err error) {
	if path == "" {
		return ErrPathRequired
	}
	// Lay out every row before the file is truncated.
	headers, rows, err := data.MarshalCSV()
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return classifyWrite(path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = classifyWrite(path, cerr)
		}
	}()

	if err := writeTable(f, headers, rows, cfg); err != nil {
		return classifyWrite(path, err)
	}
	cfg.Logger.Debug("csv written",
		zap.String("path", path),
		zap.Bool("header", headers != nil),
		zap.Int("rows", len(rows)),
	)
	return nil
}
