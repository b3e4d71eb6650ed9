package mgo

import (
	"context"

	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.opentelemetry.io/otel/trace"
)

// MockDatastore is a Datastore whose behavior is set per test through its
// On* hooks. A nil hook returns zero values.
type MockDatastore struct {
	OnInsertMany func(ctx context.Context, collection string, docs []any) (int, error)
	OnFind       func(
		ctx context.Context, collection string, filter any,
		opts ...options.Lister[options.FindOptions],
	) (*mongo.Cursor, error)
}

func (m *MockDatastore) InsertMany(ctx context.Context, collection string, docs []any) (int, error) {
	if m.OnInsertMany == nil {
		return len(docs), nil
	}
	return m.OnInsertMany(ctx, collection, docs)
}

func (m *MockDatastore) Find(
	ctx context.Context, collection string, filter any,
	opts ...options.Lister[options.FindOptions],
) (*mongo.Cursor, error) {
	if m.OnFind == nil {
		return mongo.NewCursorFromDocuments(nil, nil, nil)
	}
	return m.OnFind(ctx, collection, filter, opts...)
}

func (*MockDatastore) close(context.Context) error { return nil }

func (*MockDatastore) getClient() *mongo.Client { return nil }

func (*MockDatastore) startTraceSpan(
	ctx context.Context, _ string, _ string, _ any,
) (context.Context, trace.Span) {
	return ctx, trace.SpanFromContext(ctx)
}

// SetDatastore swaps the package datastore and returns a func restoring the
// previous one.
func SetDatastore(ds Datastore) (restore func()) {
	prev := dataStore
	dataStore = ds
	return func() { dataStore = prev }
}

// NewOnFindMock returns an OnFind hook yielding docs.
func NewOnFindMock(docs ...any) func(
	context.Context, string, any, ...options.Lister[options.FindOptions],
) (*mongo.Cursor, error) {
	return func(context.Context, string, any, ...options.Lister[options.FindOptions]) (*mongo.Cursor, error) {
		return mongo.NewCursorFromDocuments(docs, nil, nil)
	}
}

// NewErrOnFind returns an OnFind hook failing with err.
func NewErrOnFind(err error) func(
	context.Context, string, any, ...options.Lister[options.FindOptions],
) (*mongo.Cursor, error) {
	return func(context.Context, string, any, ...options.Lister[options.FindOptions]) (*mongo.Cursor, error) {
		return nil, err
	}
}
