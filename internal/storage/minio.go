// Package storage uploads encoded state-vector batches to S3-compatible
// object storage, partitioned by capture date.
package storage

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/rs/zerolog"

	"github.com/gyeh/flightwatch/internal/model"
	"github.com/gyeh/flightwatch/internal/parquetenc"
)

const statesKind = "states"

// Config holds object storage connection settings.
type Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Prefix    string
	UseSSL    bool
}

// Writer encodes batches as Parquet and uploads them to a bucket.
type Writer struct {
	client *minio.Client
	bucket string
	prefix string
	log    zerolog.Logger
}

// NewWriter builds the client and ensures the target bucket exists. Bucket
// and credential problems surface as WriteError with ReasonConfig so the
// caller can distinguish misconfiguration from transient failures.
func NewWriter(ctx context.Context, cfg Config, log zerolog.Logger) (*Writer, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, &WriteError{Reason: ReasonConfig, Err: fmt.Errorf("create client: %w", err)}
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, &WriteError{Reason: writeReasonFor(err), Err: fmt.Errorf("check bucket: %w", err)}
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, &WriteError{Reason: writeReasonFor(err), Err: fmt.Errorf("create bucket: %w", err)}
		}
		log.Info().Str("bucket", cfg.Bucket).Msg("created storage bucket")
	}

	return &Writer{
		client: client,
		bucket: cfg.Bucket,
		prefix: cfg.Prefix,
		log:    log,
	}, nil
}

// Write serializes batch and uploads it under a key derived from
// partitionTime. It returns the full storage path of the new object.
// An empty batch is still uploaded so every successful attempt has an
// object to point at.
func (w *Writer) Write(ctx context.Context, batch model.StateVectorBatch, partitionTime time.Time) (string, error) {
	data, err := parquetenc.Encode(batch)
	if err != nil {
		return "", &WriteError{Reason: ReasonEncoding, Err: err}
	}

	key := ObjectKey{Prefix: w.prefix, Kind: statesKind, Timestamp: partitionTime}.String()

	_, err = w.client.PutObject(ctx, w.bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: "application/vnd.apache.parquet",
	})
	if err != nil {
		return "", &WriteError{Reason: writeReasonFor(err), Err: fmt.Errorf("upload %s: %w", key, err)}
	}

	w.log.Debug().Str("key", key).Int("bytes", len(data)).Int("records", len(batch.States)).Msg("uploaded batch")
	return fmt.Sprintf("s3://%s/%s", w.bucket, key), nil
}

// writeReasonFor maps S3 error codes onto the config/upload split. Auth and
// bucket errors will not heal on retry; everything else is treated as
// transient.
func writeReasonFor(err error) WriteReason {
	switch minio.ToErrorResponse(err).Code {
	case "AccessDenied", "InvalidAccessKeyId", "SignatureDoesNotMatch", "NoSuchBucket", "AllAccessDisabled":
		return ReasonConfig
	}
	return ReasonUpload
}
