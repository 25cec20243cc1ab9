package report

import (
	"context"
	"fmt"
	"path"
	"time"

	"schema-compare/core/storage"

	"go.uber.org/zap"
)

// Publisher uploads rendered reports to object storage.
type Publisher struct {
	client storage.Client
	bucket string
	region string
	prefix string
	logger *zap.Logger
	now    func() time.Time
}

// NewPublisher creates a publisher writing under prefix in bucket.
func NewPublisher(client storage.Client, bucket, region, prefix string, logger *zap.Logger) *Publisher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Publisher{
		client: client,
		bucket: bucket,
		region: region,
		prefix: prefix,
		logger: logger,
		now:    time.Now,
	}
}

// Key returns the object key a report generated at t is stored under.
func (p *Publisher) Key(t time.Time) string {
	return path.Join(p.prefix, "compare-"+t.UTC().Format("20060102T150405Z")+".md")
}

// Publish uploads a markdown report and returns its object key.
func (p *Publisher) Publish(ctx context.Context, data []byte) (string, error) {
	if p.client == nil {
		return "", fmt.Errorf("object storage is not configured")
	}
	if err := storage.EnsureBucket(ctx, p.client, p.bucket, p.region); err != nil {
		return "", err
	}

	key := p.Key(p.now())
	info, err := storage.WriteObject(ctx, p.client, p.bucket, key, "text/markdown; charset=utf-8", data)
	if err != nil {
		return "", err
	}
	p.logger.Info("Comparison report uploaded",
		zap.String("bucket", p.bucket),
		zap.String("key", key),
		zap.Int64("size", info.Size),
	)
	return key, nil
}
