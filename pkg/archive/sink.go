package archive

import (
	"bytes"
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"github.com/google/uuid"

	"github.com/dmitrymomot/solidgate/pkg/sink"
)

const contentType = "application/x-ndjson"

// S3Sink buffers records as JSON lines per feed and uploads one object per
// batch. A batch is flushed when it reaches BatchSize records and on Close.
// It is safe for concurrent use.
type S3Sink struct {
	client        S3Client
	bucket        string
	prefix        string
	batchSize     int
	uploadTimeout time.Duration
	now           func() time.Time
	runID         string

	mu      sync.Mutex
	batches map[string]*batch
	seq     int
	keys    []string
	closed  bool
}

type batch struct {
	buf   bytes.Buffer
	count int
}

var _ sink.Sink = (*S3Sink)(nil)

// NewS3Sink creates a sink writing to cfg.Bucket under cfg.Prefix.
func NewS3Sink(client S3Client, cfg Config) (*S3Sink, error) {
	if client == nil || cfg.Bucket == "" {
		return nil, ErrInvalidConfig
	}
	size := cfg.BatchSize
	if size <= 0 {
		size = 1000
	}
	return &S3Sink{
		client:        client,
		bucket:        cfg.Bucket,
		prefix:        strings.Trim(cfg.Prefix, "/"),
		batchSize:     size,
		uploadTimeout: cfg.UploadTimeout,
		now:           time.Now,
		runID:         newRunID(),
		batches:       make(map[string]*batch),
	}, nil
}

// Write appends the entry to its feed's batch, uploading the batch once full.
func (s *S3Sink) Write(ctx context.Context, e sink.Entry) error {
	line, err := json.Marshal(e.Line())
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}

	b := s.batches[e.Feed]
	if b == nil {
		b = &batch{}
		s.batches[e.Feed] = b
	}
	b.buf.Write(line)
	b.buf.WriteByte('\n')
	b.count++

	if b.count < s.batchSize {
		return nil
	}
	return s.flushLocked(ctx, e.Feed)
}

// Flush uploads every non-empty batch.
func (s *S3Sink) Flush(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.flushAllLocked(ctx)
}

// Close flushes the remaining batches. Further writes fail with ErrClosed.
func (s *S3Sink) Close(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return s.flushAllLocked(ctx)
}

// Keys lists the object keys uploaded so far.
func (s *S3Sink) Keys() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.keys...)
}

func (s *S3Sink) flushAllLocked(ctx context.Context) error {
	var errs []error
	for feed, b := range s.batches {
		if b.count == 0 {
			continue
		}
		if err := s.flushLocked(ctx, feed); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// flushLocked uploads the feed's batch. On failure the batch is kept so a
// later Flush or Close can retry it.
func (s *S3Sink) flushLocked(ctx context.Context, feed string) error {
	b := s.batches[feed]
	if b == nil || b.count == 0 {
		return nil
	}

	if s.uploadTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.uploadTimeout)
		defer cancel()
	}

	s.seq++
	key := s.objectKey(feed, s.seq)
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(b.buf.Bytes()),
		ContentLength: aws.Int64(int64(b.buf.Len())),
		ContentType:   aws.String(contentType),
	})
	if err != nil {
		return classifyS3Error(err, key)
	}

	s.keys = append(s.keys, key)
	delete(s.batches, feed)
	return nil
}

// objectKey is <prefix>/<feed>/<timestamp>-<run id>-<seq>.jsonl. The run id
// keeps sinks started in the same second from overwriting each other.
func (s *S3Sink) objectKey(feed string, seq int) string {
	name := fmt.Sprintf("%s-%s-%06d.jsonl", s.now().UTC().Format("20060102T150405Z"), s.runID, seq)
	return path.Join(s.prefix, feed, name)
}

func newRunID() string {
	id := uuid.New()
	return hex.EncodeToString(id[:4])
}

// classifyS3Error maps S3 failures onto the package errors.
func classifyS3Error(err error, key string) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: upload %s", ErrOperationTimeout, key)
	}
	if errors.Is(err, context.Canceled) {
		return fmt.Errorf("%w: upload %s", ErrOperationCanceled, key)
	}

	var nsb *types.NoSuchBucket
	if errors.As(err, &nsb) {
		return fmt.Errorf("%w: %w", ErrBucketNotFound, err)
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "AccessDenied":
			return fmt.Errorf("%w: upload %s", ErrAccessDenied, key)
		case "NoSuchBucket":
			return fmt.Errorf("%w: %w", ErrBucketNotFound, err)
		case "SlowDown", "ServiceUnavailable", "RequestTimeout":
			return fmt.Errorf("%w: upload %s", ErrServiceUnavailable, key)
		default:
			return fmt.Errorf("%w: upload %s (code: %s): %w", ErrUploadFailed, key, apiErr.ErrorCode(), err)
		}
	}

	return fmt.Errorf("%w: upload %s: %w", ErrUploadFailed, key, err)
}
