package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/go-playground/validator/v10"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/zap"
)

type r2Config struct {
	tracer trace.Tracer
	logger *zap.Logger

	EndpointURL     string `validate:"required,url"`
	AccessKeyID     string `validate:"required"`
	SecretAccessKey string `validate:"required"`
	Region          string `validate:"required"`
	BucketName      string `validate:"required"`
}

// R2 使用 'auto' 作為預設 Region，這是連線 R2 所需的。
const R2Region = "auto"

func defaultR2Config() r2Config {
	return r2Config{
		Region: R2Region,
	}
}

var validate = validator.New(validator.WithRequiredStructEnabled())

func newR2Storage(ctx context.Context, opts ...Option) (*r2Storage, error) {
	rc := defaultR2Config()
	for _, opt := range opts {
		opt(&rc)
	}
	if err := validate.Struct(rc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if rc.tracer == nil {
		rc.tracer = noop.NewTracerProvider().Tracer("Storage")
	}
	if rc.logger == nil {
		rc.logger = zap.NewNop()
	}

	cfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(rc.Region),
		config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(
				rc.AccessKeyID, rc.SecretAccessKey, ""),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("fail load config: %w", err)
	}
	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		// 設定 R2 的 Base Endpoint URL
		o.BaseEndpoint = aws.String(rc.EndpointURL)
		o.Region = rc.Region
	})
	return &r2Storage{
		client: client,
		bucket: rc.BucketName,
		tracer: rc.tracer,
		logger: rc.logger,
	}, nil
}

type r2Storage struct {
	tracer trace.Tracer
	logger *zap.Logger
	client *s3.Client
	bucket string
}

func (r *r2Storage) Upload(ctx context.Context, key string, body io.Reader, contentType string) error {
	ctx, span := r.startTraceSpan(ctx, "storage.upload", attribute.String("storage.func", "Upload"))
	defer span.End()
	span.SetAttributes(attribute.String("storage.bucket", r.bucket))
	span.SetAttributes(attribute.String("storage.key", key))
	span.SetAttributes(attribute.String("storage.contentType", contentType))
	uploadInput := &s3.PutObjectInput{
		Bucket:      aws.String(r.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	}
	_, err := r.client.PutObject(ctx, uploadInput)
	if err == nil {
		r.logger.Debug("object uploaded", zap.String("bucket", r.bucket), zap.String("key", key))
	}
	return spanErrorHandler(err, span)
}

func (r *r2Storage) Download(ctx context.Context, key string) (io.ReadCloser, error) {
	ctx, span := r.startTraceSpan(ctx, "storage.download", attribute.String("storage.func", "Download"))
	defer span.End()
	span.SetAttributes(attribute.String("storage.bucket", r.bucket))
	span.SetAttributes(attribute.String("storage.key", key))
	out, err := r.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(r.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var noSuchKey *types.NoSuchKey
		if errors.As(err, &noSuchKey) {
			err = fmt.Errorf("%w: %s: %w", ErrObjectNotFound, key, err)
		}
		return nil, spanErrorHandler(err, span)
	}
	r.logger.Debug("object downloaded", zap.String("bucket", r.bucket), zap.String("key", key))
	return out.Body, spanErrorHandler(nil, span)
}

func (r *r2Storage) SignedDownloadUrl(ctx context.Context, key string, expires time.Duration) (string, error) {
	ctx, span := r.startTraceSpan(
		ctx,
		"storage.signed_download_url",
		attribute.String("storage.func", "SignedDownloadUrl"),
	)
	defer span.End()
	presigner := s3.NewPresignClient(r.client)
	input := &s3.GetObjectInput{
		Bucket: aws.String(r.bucket),
		Key:    aws.String(key),
	}
	span.SetAttributes(attribute.String("storage.bucket", r.bucket))
	span.SetAttributes(attribute.String("storage.key", key))
	resp, err := presigner.PresignGetObject(ctx, input, func(opts *s3.PresignOptions) {
		opts.Expires = expires
	})
	if err != nil {
		return "", spanErrorHandler(err, span)
	}
	span.SetAttributes(attribute.String("storage.url", resp.URL))
	return resp.URL, spanErrorHandler(nil, span)
}

var r2StorageService = "cloudflare_r2"

func (r *r2Storage) startTraceSpan(
	ctx context.Context,
	name string,
	attributes ...attribute.KeyValue,
) (context.Context, trace.Span) {
	ctx, span := r.tracer.Start(ctx, name, trace.WithSpanKind(trace.SpanKindClient))
	span.SetAttributes(
		append([]attribute.KeyValue{
			attribute.String("storage.service", r2StorageService),
		}, attributes...)...,
	)
	return ctx, span
}
