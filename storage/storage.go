package storage

import (
	"context"
	"errors"
	"io"
	"path"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var (
	ErrInvalidConfig  = errors.New("storage: invalid config")
	ErrObjectNotFound = errors.New("storage: object not found")
)

type Storage interface {
	Upload(ctx context.Context, key string, body io.Reader, contentType string) error
	// Download returns the object body. The caller closes it.
	Download(ctx context.Context, key string) (io.ReadCloser, error)
	SignedDownloadUrl(ctx context.Context, key string, expires time.Duration) (string, error)
}

func New(ctx context.Context, opts ...Option) (Storage, error) {
	tracer := otel.Tracer("Storage")
	opts = append(opts, withTracer(tracer))
	st, err := newR2Storage(ctx, opts...)
	if err != nil {
		return nil, err
	}
	return st, nil
}

// NewKey returns a unique object key under prefix, e.g. "csv/<uuid>.csv".
func NewKey(prefix, ext string) string {
	return path.Join(prefix, uuid.NewString()+ext)
}

func spanErrorHandler(err error, span trace.Span) error {
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "ok")
	}
	return err
}
