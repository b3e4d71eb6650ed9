package csvutil

import (
	"bytes"
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/94peter/csvkit/constant"
	"github.com/94peter/csvkit/storage"
)

type UploadResult struct {
	Key string
	URL string // signed download URL
}

// Upload encodes contents and stores it under key. An empty key gets a
// generated one below "csv/". The result carries a signed download URL.
func Upload(
	ctx context.Context, st storage.Storage, key string,
	contents Table, opts ...Option,
) (*UploadResult, error) {
	cfg, err := newConfig(opts...)
	if err != nil {
		return nil, err
	}
	data, err := contents.marshaler(cfg)
	if err != nil {
		return nil, err
	}
	headers, rows, err := data.MarshalCSV()
	if err != nil {
		return nil, err
	}
	buf := &bytes.Buffer{}
	if err := writeTable(buf, headers, rows, cfg); err != nil {
		return nil, fmt.Errorf("failed to write csv: %w", classifyWrite("", err))
	}

	if key == "" {
		key = storage.NewKey("csv", ".csv")
	}
	if err := st.Upload(ctx, key, buf, constant.ContentTypeCSV); err != nil {
		return nil, fmt.Errorf("failed to upload to storage: %w", err)
	}
	url, err := st.SignedDownloadUrl(ctx, key, constant.DefaultSignedURLExpiry)
	if err != nil {
		return nil, fmt.Errorf("failed to sign download url: %w", err)
	}
	cfg.Logger.Debug("csv uploaded", zap.String("key", key), zap.Int("rows", len(rows)))
	return &UploadResult{Key: key, URL: url}, nil
}

// Fetch downloads the object under key and decodes it into a table of the
// requested shape.
func Fetch(
	ctx context.Context, st storage.Storage, key string,
	shape Shape, opts ...Option,
) (Table, error) {
	cfg, err := newConfig(opts...)
	if err != nil {
		return Table{}, err
	}
	body, err := st.Download(ctx, key)
	if err != nil {
		return Table{}, fmt.Errorf("failed to download from storage: %w", err)
	}
	defer body.Close()

	var t Table
	switch shape {
	case ShapeRows:
		t.Shape = ShapeRows
		t.Rows, err = decodeRows(body, cfg)
	case ShapeRecords:
		t.Shape = ShapeRecords
		t.Records, err = decodeRecords(body, cfg)
	default:
		return Table{}, fmt.Errorf("%w: %s", ErrUnknownShape, shape)
	}
	if err != nil {
		return Table{}, classifyRead(key, err)
	}
	cfg.Logger.Debug("csv fetched", zap.String("key", key), zap.Int("rows", t.Len()))
	return t, nil
}
