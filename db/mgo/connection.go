// Package mgo moves delimited-file records in and out of MongoDB collections
// on top of the official MongoDB Go driver.
package mgo

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/testcontainers/testcontainers-go/modules/mongodb"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/zap"

	"github.com/94peter/csvkit/constant"
)

var once sync.Once

// Option defines a function signature for configuring the MongoDB client.
type Option func(*options.ClientOptions)

// WithURI sets the MongoDB connection URI.
func WithURI(uri string) Option {
	return func(o *options.ClientOptions) {
		o.ApplyURI(uri)
	}
}

// WithMaxPoolSize specifies the maximum number of connections allowed in the connection pool.
func WithMaxPoolSize(size uint64) Option {
	return func(o *options.ClientOptions) {
		o.SetMaxPoolSize(size)
	}
}

// WithMaxConnIdleTime sets the maximum duration that a connection can remain idle in the pool.
func WithMaxConnIdleTime(d time.Duration) Option {
	return func(o *options.ClientOptions) {
		o.SetMaxConnIdleTime(d)
	}
}

var isConnected bool

// SetLogger replaces the package logger. Nil restores the no-op logger.
// Operations already in flight keep the logger they started with.
func SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	logger.Store(l)
}

// InitConnection establishes a connection to the MongoDB server using a singleton pattern.
// It is safe to call this function multiple times; the connection will only be initialized once.
func InitConnection(ctx context.Context, dbName string, tracer trace.Tracer, opts ...Option) error {
	var err error
	once.Do(func() {
		var client *mongo.Client
		clientOpts := options.Client()
		for _, o := range opts {
			o(clientOpts)
		}

		client, err = mongo.Connect(clientOpts)
		if err != nil {
			err = errors.Join(ErrConnectionFailed, err)
			return
		}

		pingCtx, cancel := context.WithTimeout(ctx, constant.DefaultTimeout)
		defer cancel()
		err = client.Ping(pingCtx, readpref.Primary())
		if err != nil {
			err = errors.Join(ErrPingFailed, err)
			return
		}

		if tracer == nil {
			tracer = noop.NewTracerProvider().Tracer("mongo")
		}

		_, span := tracer.Start(context.Background(), "check")
		isNoop := !span.IsRecording()
		span.End()

		dataStore = &mongoStore{
			db:     client.Database(dbName),
			tracer: tracer,
			isNoop: isNoop,
		}
		isConnected = true
		logger.Load().Debug("mongo connected", zap.String("db", dbName))
	})

	return err
}

// Close gracefully disconnects the client from the MongoDB server.
func Close(ctx context.Context) error {
	if dataStore != nil {
		return dataStore.close(ctx)
	}
	return nil
}

func IsConnected() bool {
	return isConnected
}

func IsHealth(ctx context.Context) error {
	if dataStore == nil {
		return ErrNotConnected
	}
	err := dataStore.getClient().Ping(ctx, readpref.Primary())
	if err != nil {
		return errors.Join(ErrPingFailed, err)
	}
	return nil
}

// InitTestContainer starts a throwaway MongoDB container and connects the
// package to its "test" database.
func InitTestContainer(ctx context.Context) (drop func(), close func(), err error) {
	mongoC, err := mongodb.Run(ctx, "mongo:6.0")
	if err != nil {
		return nil, nil, err
	}

	terminate := func() { _ = mongoC.Terminate(context.Background()) }
	uri, err := mongoC.ConnectionString(ctx)
	if err == nil {
		err = InitConnection(ctx, "test", noop.NewTracerProvider().Tracer("mongo"), WithURI(uri))
	}
	if err != nil {
		return nil, terminate, err
	}

	drop = func() {
		sh := `db.getMongo().getDBNames().forEach(d => {
			if(!["admin","config","local"].includes(d)) db.getSiblingDB(d).dropDatabase()
		})`
		code, r, _ := mongoC.Exec(ctx, []string{"mongosh", "--quiet", "--eval", sh})
		if code != 0 {
			out, _ := io.ReadAll(r)
			fmt.Printf("Drop failed (%d): %s\n", code, out)
		}
	}

	return drop, terminate, nil
}
