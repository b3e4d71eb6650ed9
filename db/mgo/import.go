package mgo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/94peter/csvkit/csvutil"
)

// ImportRecords inserts one document per record into collectionName. Field
// order in each document follows the record's key order. It returns the
// number of inserted documents.
func ImportRecords(
	ctx context.Context, collectionName string, records []*csvutil.Record,
) (int, error) {
	if dataStore == nil {
		return 0, ErrNotConnected
	}
	if len(records) == 0 {
		return 0, nil
	}
	ctx, span := dataStore.startTraceSpan(ctx, collectionName, "insertMany", nil)
	defer span.End()

	docs := make([]any, 0, len(records))
	for _, rec := range records {
		docs = append(docs, recordToDoc(rec))
	}
	n, err := dataStore.InsertMany(ctx, collectionName, docs)
	if err != nil {
		return n, spanErrorHandler(fmt.Errorf("%w: %w", ErrWriteFailed, err), span)
	}
	span.SetAttributes(attribute.Int("db.inserted_count", n))
	logger.Load().Debug("records imported", zap.String("collection", collectionName), zap.Int("count", n))
	return n, spanErrorHandler(nil, span)
}

// ImportFile reads the delimited file at path as records and imports them.
func ImportFile(
	ctx context.Context, collectionName string, path string, opts ...csvutil.Option,
) (int, error) {
	records, err := csvutil.ReadRecords(path, opts...)
	if err != nil {
		return 0, err
	}
	return ImportRecords(ctx, collectionName, records)
}

func recordToDoc(rec *csvutil.Record) bson.D {
	keys := rec.Keys()
	doc := make(bson.D, 0, len(keys))
	for _, key := range keys {
		v, _ := rec.Get(key)
		doc = append(doc, bson.E{Key: key, Value: v})
	}
	return doc
}
