package csvutil_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/94peter/csvkit/csvutil"
	"github.com/94peter/csvkit/storage"
)

// memStorage keeps objects in memory.
type memStorage struct {
	objects     map[string][]byte
	contentType map[string]string
	uploadErr   error
}

func newMemStorage() *memStorage {
	return &memStorage{
		objects:     map[string][]byte{},
		contentType: map[string]string{},
	}
}

func (m *memStorage) Upload(_ context.Context, key string, body io.Reader, contentType string) error {
	if m.uploadErr != nil {
		return m.uploadErr
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	m.objects[key] = data
	m.contentType[key] = contentType
	return nil
}

func (m *memStorage) Download(_ context.Context, key string) (io.ReadCloser, error) {
	data, ok := m.objects[key]
	if !ok {
		return nil, storage.ErrObjectNotFound
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (*memStorage) SignedDownloadUrl(_ context.Context, key string, expires time.Duration) (string, error) {
	return "https://files.example.com/" + key + "?expires=" + expires.String(), nil
}

func TestUpload(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		// Arrange
		st := newMemStorage()
		table := csvutil.RecordsTable([]*csvutil.Record{csvutil.NewRecord("a", "1", "b", "2")})

		// Act
		result, err := csvutil.Upload(context.Background(), st, "reports/r.csv", table)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, "reports/r.csv", result.Key)
		assert.Equal(t, "https://files.example.com/reports/r.csv?expires=20m0s", result.URL)
		assert.Equal(t, testCSV, string(st.objects["reports/r.csv"]))
		assert.Equal(t, "text/csv", st.contentType["reports/r.csv"])
	})

	t.Run("Generated Key", func(t *testing.T) {
		st := newMemStorage()

		result, err := csvutil.Upload(context.Background(), st, "",
			csvutil.RowsTable([][]string{{"a"}}))

		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(result.Key, "csv/"))
		assert.True(t, strings.HasSuffix(result.Key, ".csv"))
		assert.Contains(t, st.objects, result.Key)
	})

	t.Run("Error from Storage", func(t *testing.T) {
		st := newMemStorage()
		st.uploadErr = errors.New("bucket unavailable")

		result, err := csvutil.Upload(context.Background(), st, "r.csv",
			csvutil.RowsTable([][]string{{"a"}}))

		assert.Nil(t, result)
		assert.ErrorIs(t, err, st.uploadErr)
	})
}

func TestFetch(t *testing.T) {
	t.Run("Round Trip", func(t *testing.T) {
		// Arrange
		st := newMemStorage()
		rows := [][]string{{"a", "b"}, {"1", "2"}}
		_, err := csvutil.Upload(context.Background(), st, "r.csv", csvutil.RowsTable(rows),
			csvutil.WithEncoding("windows-1252"))
		require.NoError(t, err)

		// Act
		asRows, err := csvutil.Fetch(context.Background(), st, "r.csv", csvutil.ShapeRows,
			csvutil.WithEncoding("windows-1252"))
		require.NoError(t, err)
		asRecords, err := csvutil.Fetch(context.Background(), st, "r.csv", csvutil.ShapeRecords)
		require.NoError(t, err)

		// Assert
		assert.Equal(t, rows, asRows.Rows)
		assert.Equal(t, []map[string]string{{"a": "1", "b": "2"}}, recordMaps(asRecords.Records))
	})

	t.Run("Not Found", func(t *testing.T) {
		_, err := csvutil.Fetch(context.Background(), newMemStorage(), "missing.csv", csvutil.ShapeRows)

		assert.ErrorIs(t, err, storage.ErrObjectNotFound)
	})
}
