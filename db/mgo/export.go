package mgo

import (
	"context"
	"fmt"
	"slices"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.uber.org/zap"

	"github.com/94peter/csvkit/csvutil"
)

const idField = "_id"

// ExportRecords loads the documents of collectionName matching filter as
// records. With fieldnames only those fields are kept, in that order;
// otherwise every field but _id is kept in document order. Values are
// rendered as text.
func ExportRecords(
	ctx context.Context, collectionName string, filter any, fieldnames ...string,
) ([]*csvutil.Record, error) {
	if dataStore == nil {
		return nil, ErrNotConnected
	}
	if filter == nil {
		filter = bson.D{}
	}
	ctx, span := dataStore.startTraceSpan(ctx, collectionName, "find", filter)
	defer span.End()

	cursor, err := dataStore.Find(ctx, collectionName, filter)
	if err != nil {
		return nil, spanErrorHandler(fmt.Errorf("%w: %w", ErrReadFailed, err), span)
	}
	defer cursor.Close(ctx)

	var records []*csvutil.Record
	for cursor.Next(ctx) {
		var doc bson.D
		if err := cursor.Decode(&doc); err != nil {
			return nil, spanErrorHandler(fmt.Errorf("%w: %w", ErrReadFailed, err), span)
		}
		records = append(records, docToRecord(doc, fieldnames))
	}
	if err := cursor.Err(); err != nil {
		return nil, spanErrorHandler(fmt.Errorf("%w: %w", ErrReadFailed, err), span)
	}
	logger.Load().Debug("records exported", zap.String("collection", collectionName), zap.Int("count", len(records)))
	return records, spanErrorHandler(nil, span)
}

// ExportFile writes the documents of collectionName matching filter to path
// under a header line. Field names given with csvutil.WithFieldNames select
// the exported fields; otherwise the header lists every field of every
// document in first-seen order. Fields a document lacks are written empty
// unless the options set another rest value. Without field names an empty
// result produces an empty file.
func ExportFile(
	ctx context.Context, collectionName string, filter any, path string, opts ...csvutil.Option,
) (int, error) {
	var cfg csvutil.Config
	for _, opt := range opts {
		opt(&cfg)
	}
	records, err := ExportRecords(ctx, collectionName, filter, cfg.FieldNames...)
	if err != nil {
		return 0, err
	}
	if len(cfg.FieldNames) == 0 {
		if len(records) == 0 {
			if err := csvutil.WriteRows(path, nil, opts...); err != nil {
				return 0, err
			}
			return 0, nil
		}
		opts = append(opts, csvutil.WithFieldNames(unionKeys(records)...))
	}
	opts = append([]csvutil.Option{csvutil.WithRestValue("")}, opts...)
	if err := csvutil.WriteRecords(path, records, opts...); err != nil {
		return 0, err
	}
	return len(records), nil
}

// unionKeys lists the keys of all records in the order they first appear.
func unionKeys(records []*csvutil.Record) []string {
	seen := make(map[string]struct{})
	var keys []string
	for _, rec := range records {
		for _, k := range rec.Keys() {
			if _, ok := seen[k]; ok {
				continue
			}
			seen[k] = struct{}{}
			keys = append(keys, k)
		}
	}
	return keys
}

func docToRecord(doc bson.D, fieldnames []string) *csvutil.Record {
	rec := &csvutil.Record{}
	if len(fieldnames) == 0 {
		for _, e := range doc {
			if e.Key == idField {
				continue
			}
			rec.Set(e.Key, toText(e.Value))
		}
		return rec
	}
	for _, name := range fieldnames {
		i := slices.IndexFunc(doc, func(e bson.E) bool { return e.Key == name })
		if i < 0 {
			continue
		}
		rec.Set(name, toText(doc[i].Value))
	}
	return rec
}

func toText(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case bson.ObjectID:
		return val.Hex()
	case bson.DateTime:
		return val.Time().UTC().Format("2006-01-02T15:04:05.000Z07:00")
	default:
		return fmt.Sprint(val)
	}
}
