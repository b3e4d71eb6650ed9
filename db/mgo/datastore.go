package mgo

import (
	"context"
	"encoding/json"
	"sync/atomic"

	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// Datastore defines the database operations the import and export helpers
// rely on. It allows for mocking the entire package for testing purposes.
type Datastore interface {
	InsertMany(ctx context.Context, collection string, docs []any) (int, error)
	Find(
		ctx context.Context, collection string, filter any,
		opts ...options.Lister[options.FindOptions],
	) (*mongo.Cursor, error)

	close(ctx context.Context) error
	getClient() *mongo.Client
	startTraceSpan(
		ctx context.Context,
		collectionName string,
		operation string,
		statement any,
	) (context.Context, trace.Span)
}

var (
	dataStore Datastore
	logger    atomic.Pointer[zap.Logger]
)

func init() {
	logger.Store(zap.NewNop())
}

type mongoStore struct {
	db     *mongo.Database
	tracer trace.Tracer
	isNoop bool
}

func (m *mongoStore) getCollection(name string) *mongo.Collection {
	return m.db.Collection(name)
}

func (m *mongoStore) close(ctx context.Context) error {
	return m.db.Client().Disconnect(ctx)
}

func (m *mongoStore) getClient() *mongo.Client {
	return m.db.Client()
}

func (m *mongoStore) InsertMany(ctx context.Context, collectionName string, docs []any) (int, error) {
	result, err := m.getCollection(collectionName).InsertMany(ctx, docs)
	if err != nil {
		return 0, err
	}
	return len(result.InsertedIDs), nil
}

func (m *mongoStore) Find(
	ctx context.Context, collectionName string, filter any,
	opts ...options.Lister[options.FindOptions],
) (*mongo.Cursor, error) {
	return m.getCollection(collectionName).Find(ctx, filter, opts...)
}

const dbSystem = "mongodb"

func (m *mongoStore) startTraceSpan(
	ctx context.Context, collectionName string, operation string, statement any,
) (context.Context, trace.Span) {
	if m.isNoop {
		return ctx, trace.SpanFromContext(ctx)
	}
	name := "mongo." + operation + "." + collectionName
	ctx, span := m.tracer.Start(ctx, name, trace.WithSpanKind(trace.SpanKindClient))
	span.SetAttributes(
		attribute.String("db.system", dbSystem),
		attribute.String("db.collection", collectionName),
		attribute.String("db.operation", operation),
	)
	if span.IsRecording() && statement != nil {
		data, _ := json.Marshal(statement)
		span.SetAttributes(attribute.String("db.statement", string(data)))
	}
	return ctx, span
}

func spanErrorHandler(err error, span trace.Span) error {
	if span == nil {
		return err
	}
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "ok")
	}
	return err
}
