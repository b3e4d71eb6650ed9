package csvutil_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/94peter/csvkit/csvutil"
)

const testCSV = "a;b\n1;2\n"

func writeTestFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func readTestFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

// recordMaps flattens records for comparison.
func recordMaps(records []*csvutil.Record) []map[string]string {
	out := make([]map[string]string, 0, len(records))
	for _, rec := range records {
		out = append(out, rec.Map())
	}
	return out
}

func TestRead(t *testing.T) {
	t.Run("Rows", func(t *testing.T) {
		path := writeTestFile(t, testCSV)

		table, err := csvutil.Read(path, csvutil.ShapeRows)

		require.NoError(t, err)
		assert.Equal(t, csvutil.ShapeRows, table.Shape)
		assert.Equal(t, [][]string{{"a", "b"}, {"1", "2"}}, table.Rows)
	})

	t.Run("Records", func(t *testing.T) {
		path := writeTestFile(t, testCSV)

		table, err := csvutil.Read(path, csvutil.ShapeRecords)

		require.NoError(t, err)
		assert.Equal(t, csvutil.ShapeRecords, table.Shape)
		assert.Equal(t, []map[string]string{{"a": "1", "b": "2"}}, recordMaps(table.Records))
	})

	t.Run("Records With Field Names", func(t *testing.T) {
		path := writeTestFile(t, testCSV)

		table, err := csvutil.Read(path, csvutil.ShapeRecords, csvutil.WithFieldNames("x", "y"))

		require.NoError(t, err)
		assert.Equal(t, []map[string]string{
			{"x": "a", "y": "b"},
			{"x": "1", "y": "2"},
		}, recordMaps(table.Records))
	})

	t.Run("Rows Keep Blank Lines", func(t *testing.T) {
		path := writeTestFile(t, "\na;b\n\n1;2\n\n")

		table, err := csvutil.Read(path, csvutil.ShapeRows)

		require.NoError(t, err)
		assert.Equal(t, [][]string{{}, {"a", "b"}, {}, {"1", "2"}, {}}, table.Rows)
	})

	t.Run("Rows Blank Line After Quoted Line Break", func(t *testing.T) {
		path := writeTestFile(t, "\"x\ny\";z\n\nw")

		rows, err := csvutil.ReadRows(path)

		require.NoError(t, err)
		assert.Equal(t, [][]string{{"x\ny", "z"}, {}, {"w"}}, rows)
	})

	t.Run("Records Skip Blank Lines", func(t *testing.T) {
		path := writeTestFile(t, "a;b\n\n1;2\n\n")

		table, err := csvutil.Read(path, csvutil.ShapeRecords)

		require.NoError(t, err)
		assert.Equal(t, []map[string]string{{"a": "1", "b": "2"}}, recordMaps(table.Records))
	})

	t.Run("Unknown Shape", func(t *testing.T) {
		path := writeTestFile(t, testCSV)

		_, err := csvutil.Read(path, csvutil.Shape(7))

		assert.ErrorIs(t, err, csvutil.ErrUnknownShape)
		assert.ErrorIs(t, err, csvutil.ErrUsage)
	})

	t.Run("Missing Path", func(t *testing.T) {
		_, err := csvutil.Read("", csvutil.ShapeRows)

		assert.ErrorIs(t, err, csvutil.ErrPathRequired)
		assert.ErrorIs(t, err, csvutil.ErrUsage)
	})
}

func TestWrite(t *testing.T) {
	t.Run("Rows", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "out.csv")

		err := csvutil.Write(path, csvutil.RowsTable([][]string{{"a", "b"}, {"1", "2"}}))

		require.NoError(t, err)
		assert.Equal(t, testCSV, readTestFile(t, path))
	})

	t.Run("Records", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "out.csv")

		err := csvutil.Write(path, csvutil.RecordsTable([]*csvutil.Record{
			csvutil.NewRecord("a", "1", "b", "2"),
		}))

		require.NoError(t, err)
		assert.Equal(t, testCSV, readTestFile(t, path))
	})

	t.Run("Overwrites Existing File", func(t *testing.T) {
		path := writeTestFile(t, "old;content;that;is;longer\n")

		err := csvutil.Write(path, csvutil.RowsTable([][]string{{"x"}}))

		require.NoError(t, err)
		assert.Equal(t, "x\n", readTestFile(t, path))
	})

	t.Run("Empty Table Without Field Names", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "out.csv")

		err := csvutil.Write(path, csvutil.RecordsTable(nil))

		assert.ErrorIs(t, err, csvutil.ErrNoFieldNames)
		assert.ErrorIs(t, err, csvutil.ErrUsage)
		assert.NoFileExists(t, path)
	})

	t.Run("Empty Table With Field Names", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "out.csv")

		err := csvutil.Write(path, csvutil.RecordsTable(nil), csvutil.WithFieldNames("a", "b"))

		require.NoError(t, err)
		assert.Equal(t, "a;b\n", readTestFile(t, path))
	})

	t.Run("Missing Path", func(t *testing.T) {
		err := csvutil.Write("", csvutil.RowsTable([][]string{{"a"}}))

		assert.ErrorIs(t, err, csvutil.ErrPathRequired)
		assert.ErrorIs(t, err, csvutil.ErrUsage)
	})

	t.Run("Missing Directory", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "nope", "out.csv")

		err := csvutil.Write(path, csvutil.RowsTable([][]string{{"a"}}))

		assert.ErrorIs(t, err, csvutil.ErrFileSystem)
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("Idempotent", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "out.csv")
		table := csvutil.RecordsTable([]*csvutil.Record{
			csvutil.NewRecord("name", "Peter", "city", "Taipei"),
			csvutil.NewRecord("name", "Alice", "city", "Tainan"),
		})

		require.NoError(t, csvutil.Write(path, table))
		first := readTestFile(t, path)
		require.NoError(t, csvutil.Write(path, table))

		assert.Equal(t, first, readTestFile(t, path))
	})
}

func TestRoundTrip(t *testing.T) {
	t.Run("Rows", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "rows.csv")
		rows := [][]string{
			{"id", "name", "note"},
			{"1", "Peter", ""},
			{"2", "Alice", "likes tea"},
			{"3"},
		}

		require.NoError(t, csvutil.WriteRows(path, rows))
		got, err := csvutil.ReadRows(path)

		require.NoError(t, err)
		assert.Equal(t, rows, got)
	})

	t.Run("Records", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "records.csv")
		records := []*csvutil.Record{
			csvutil.NewRecord("id", "1", "name", "Peter"),
			csvutil.NewRecord("name", "Alice", "id", "2"),
		}

		require.NoError(t, csvutil.WriteRecords(path, records))
		got, err := csvutil.ReadRecords(path)

		require.NoError(t, err)
		assert.Equal(t, recordMaps(records), recordMaps(got))
		assert.Equal(t, []string{"id", "name"}, got[1].Keys())
	})

	t.Run("Quoted Fields", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "quoted.csv")
		rows := [][]string{{"a;b", `say "hi"`, "multi\nline"}}

		require.NoError(t, csvutil.WriteRows(path, rows))
		got, err := csvutil.ReadRows(path)

		require.NoError(t, err)
		assert.Equal(t, "\"a;b\";\"say \"\"hi\"\"\";\"multi\nline\"\n", readTestFile(t, path))
		assert.Equal(t, rows, got)
	})

	t.Run("Single Empty Field", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "empty_field.csv")
		rows := [][]string{{"a"}, {""}, {"b"}}

		require.NoError(t, csvutil.WriteRows(path, rows))
		got, err := csvutil.ReadRows(path)

		require.NoError(t, err)
		assert.Equal(t, "a\n\"\"\nb\n", readTestFile(t, path))
		assert.Equal(t, rows, got)
	})

	t.Run("Empty Row", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "empty_row.csv")
		rows := [][]string{{"a", "b"}, {}, {"1", "2"}}

		require.NoError(t, csvutil.WriteRows(path, rows))
		got, err := csvutil.ReadRows(path)

		require.NoError(t, err)
		assert.Equal(t, "a;b\n\n1;2\n", readTestFile(t, path))
		assert.Equal(t, rows, got)
	})

	t.Run("Empty Rows With CRLF", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "crlf.csv")
		rows := [][]string{{}, {"a"}, {""}, {}}

		require.NoError(t, csvutil.WriteRows(path, rows, csvutil.WithCRLF(true)))
		got, err := csvutil.ReadRows(path, csvutil.WithCRLF(true))

		require.NoError(t, err)
		assert.Equal(t, "\r\na\r\n\"\"\r\n\r\n", readTestFile(t, path))
		assert.Equal(t, rows, got)
	})

	t.Run("Delimiter Mismatch", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "mismatch.csv")
		rows := [][]string{{"a", "b"}, {"1", "2"}}

		require.NoError(t, csvutil.WriteRows(path, rows))
		same, err := csvutil.ReadRows(path, csvutil.WithDelimiter(';'))
		require.NoError(t, err)
		other, err := csvutil.ReadRows(path, csvutil.WithDelimiter(','))
		require.NoError(t, err)

		assert.Equal(t, rows, same)
		assert.NotEqual(t, rows, other)
		assert.Equal(t, [][]string{{"a;b"}, {"1;2"}}, other)
	})

	t.Run("Comma Delimiter", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "comma.csv")
		rows := [][]string{{"a", "b;c"}}

		require.NoError(t, csvutil.WriteRows(path, rows, csvutil.WithDelimiter(',')))
		got, err := csvutil.ReadRows(path, csvutil.WithDelimiter(','))

		require.NoError(t, err)
		assert.Equal(t, "a,b;c\n", readTestFile(t, path))
		assert.Equal(t, rows, got)
	})
}
