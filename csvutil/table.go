package csvutil

import "fmt"

// Shape tells whether a table holds rows in sequence form or in mapping form.
type Shape int

const (
	// ShapeRows is a table of positional rows written without a header.
	ShapeRows Shape = iota
	// ShapeRecords is a table of records written under a header line.
	ShapeRecords
)

func (s Shape) String() string {
	switch s {
	case ShapeRows:
		return "rows"
	case ShapeRecords:
		return "records"
	default:
		return fmt.Sprintf("Shape(%d)", int(s))
	}
}

// Table is a tagged union of the two row forms. Only the slice selected by
// Shape is used.
type Table struct {
	Shape   Shape
	Rows    [][]string
	Records []*Record
}

func RowsTable(rows [][]string) Table {
	return Table{Shape: ShapeRows, Rows: rows}
}

func RecordsTable(records []*Record) Table {
	return Table{Shape: ShapeRecords, Records: records}
}

func (t Table) Len() int {
	if t.Shape == ShapeRecords {
		return len(t.Records)
	}
	return len(t.Rows)
}

func (t Table) marshaler(cfg *Config) (Marshaler, error) {
	switch t.Shape {
	case ShapeRows:
		return Rows(t.Rows), nil
	case ShapeRecords:
		return recordSet{records: t.Records, cfg: cfg}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownShape, t.Shape)
	}
}

// Write serializes contents to path, overwriting it. Records are written under
// a header line, rows without one. An empty table is rejected unless field
// names are given.
func Write(path string, contents Table, opts ...Option) error {
	cfg, err := newConfig(opts...)
	if err != nil {
		return err
	}
	if path == "" {
		return ErrPathRequired
	}
	if contents.Len() == 0 && len(cfg.FieldNames) == 0 {
		return ErrNoFieldNames
	}
	data, err := contents.marshaler(cfg)
	if err != nil {
		return err
	}
	return writeFile(path, data, cfg)
}

// Read parses the file at path into a table of the requested shape. With
// ShapeRecords the first line is the header unless WithFieldNames is given.
func Read(path string, shape Shape, opts ...Option) (Table, error) {
	cfg, err := newConfig(opts...)
	if err != nil {
		return Table{}, err
	}
	switch shape {
	case ShapeRows:
		rows, err := readFile(path, cfg, decodeRows)
		if err != nil {
			return Table{}, err
		}
		return RowsTable(rows), nil
	case ShapeRecords:
		records, err := readFile(path, cfg, decodeRecords)
		if err != nil {
			return Table{}, err
		}
		return RecordsTable(records), nil
	default:
		return Table{}, fmt.Errorf("%w: %s", ErrUnknownShape, shape)
	}
}
