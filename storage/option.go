package storage

import (
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type Option func(*r2Config)

func WithEndpoint(endpoint string) Option {
	return func(c *r2Config) {
		c.EndpointURL = endpoint
	}
}

func WithAccessKey(accessKey string) Option {
	return func(c *r2Config) {
		c.AccessKeyID = accessKey
	}
}

func WithSecretKey(secretKey string) Option {
	return func(c *r2Config) {
		c.SecretAccessKey = secretKey
	}
}

func WithBucket(bucket string) Option {
	return func(c *r2Config) {
		c.BucketName = bucket
	}
}

// WithRegion overrides the signing region. R2 only accepts "auto".
func WithRegion(region string) Option {
	return func(c *r2Config) {
		c.Region = region
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(c *r2Config) {
		c.logger = logger
	}
}

func withTracer(tracer trace.Tracer) Option {
	return func(rc *r2Config) {
		rc.tracer = tracer
	}
}
