package csvutil

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
)

// Error kinds. Every error returned by this package matches exactly one of
// them with errors.Is, and keeps its cause reachable with errors.Is/As.
var (
	ErrUsage           = errors.New("csvutil: usage error")
	ErrFileSystem      = errors.New("csvutil: file system error")
	ErrEncoding        = errors.New("csvutil: encoding error")
	ErrMalformedRecord = errors.New("csvutil: malformed record")
)

var (
	ErrPathRequired     = fmt.Errorf("%w: path is required", ErrUsage)
	ErrNoFieldNames     = fmt.Errorf("%w: field names cannot be inferred from an empty table", ErrUsage)
	ErrInvalidDelimiter = fmt.Errorf("%w: invalid delimiter", ErrUsage)
	ErrInvalidNewline   = fmt.Errorf("%w: newline must be \\n, \\r\\n or \\r", ErrUsage)
	ErrUnknownEncoding  = fmt.Errorf("%w: unknown encoding", ErrUsage)
	ErrUnknownShape     = fmt.Errorf("%w: unknown table shape", ErrUsage)
	ErrRestKeyConflict  = fmt.Errorf("%w: surplus fields would overwrite a column named like the rest key", ErrUsage)

	ErrMissingField = fmt.Errorf("%w: record is missing a field", ErrMalformedRecord)
	ErrExtraField   = fmt.Errorf("%w: record has a field not in the header", ErrMalformedRecord)
)

// classifyRead maps an error raised while reading path onto an error kind.
func classifyRead(path string, err error) error {
	var parseErr *csv.ParseError
	switch {
	case errors.Is(err, ErrUsage), errors.Is(err, ErrMalformedRecord):
		return err
	case isIOError(err):
		return wrapKind(ErrFileSystem, path, err)
	case errors.As(err, &parseErr):
		return wrapKind(ErrMalformedRecord, path, err)
	default:
		return wrapKind(ErrEncoding, path, err)
	}
}

// classifyWrite maps an error raised while writing path onto an error kind.
// Anything that is not a usage, record or I/O error comes from the charset
// encoder.
func classifyWrite(path string, err error) error {
	switch {
	case errors.Is(err, ErrUsage), errors.Is(err, ErrMalformedRecord):
		return err
	case isIOError(err):
		return wrapKind(ErrFileSystem, path, err)
	default:
		return wrapKind(ErrEncoding, path, err)
	}
}

func wrapKind(kind error, path string, err error) error {
	if path == "" {
		return fmt.Errorf("%w: %w", kind, err)
	}
	return fmt.Errorf("%w: %s: %w", kind, path, err)
}

// ioError marks an error raised by the file or stream itself, as opposed to
// the charset transform sitting in front of it.
type ioError struct {
	err error
}

func (e *ioError) Error() string { return e.err.Error() }

func (e *ioError) Unwrap() error { return e.err }

func isIOError(err error) bool {
	var ioErr *ioError
	var pathErr *fs.PathError
	return errors.As(err, &ioErr) || errors.As(err, &pathErr)
}

type ioReader struct {
	r io.Reader
}

func (r ioReader) Read(p []byte) (int, error) {
	n, err := r.r.Read(p)
	if err != nil && err != io.EOF {
		return n, &ioError{err: err}
	}
	return n, err
}

type ioWriter struct {
	w io.Writer
}

func (w ioWriter) Write(p []byte) (int, error) {
	n, err := w.w.Write(p)
	if err != nil {
		return n, &ioError{err: err}
	}
	return n, nil
}
