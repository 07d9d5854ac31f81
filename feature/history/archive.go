package history

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"path"
	"sort"

	"stock-sync/core/storage"
	"stock-sync/feature/report"

	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
)

// Archive keeps full JSON reports in object storage.
type Archive struct {
	client storage.Client
	bucket string
	prefix string
	keep   int
	logger *zap.Logger
}

// NewArchive creates an archive writing to cfg.Bucket under cfg.Prefix.
func NewArchive(client storage.Client, cfg storage.Config, logger *zap.Logger) *Archive {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Archive{
		client: client,
		bucket: cfg.Bucket,
		prefix: cfg.Prefix,
		keep:   cfg.Keep,
		logger: logger,
	}
}

// Key returns the object name of r. Names sort chronologically.
func (a *Archive) Key(r report.Report) string {
	id := r.CycleID()
	if id == "" {
		id = string(report.StatusAnalysis)
	}
	name := fmt.Sprintf("%s-%s.json", r.GeneratedAt.UTC().Format("20060102T150405Z"), id)
	return path.Join(a.prefix, name)
}

// Put uploads r and prunes reports beyond the retention count.
func (a *Archive) Put(ctx context.Context, r report.Report) (string, error) {
	payload, err := json.Marshal(r)
	if err != nil {
		return "", fmt.Errorf("encode report: %w", err)
	}

	key := a.Key(r)
	_, err = a.client.PutObject(ctx, a.bucket, key, bytes.NewReader(payload), int64(len(payload)), minio.PutObjectOptions{
		ContentType: "application/json",
	})
	if err != nil {
		return "", fmt.Errorf("upload report %s: %w", key, err)
	}

	if a.keep > 0 {
		if err := a.prune(ctx); err != nil {
			a.logger.Warn("Failed to prune archived reports", zap.Error(err))
		}
	}
	return key, nil
}

// Get downloads the report stored at key.
func (a *Archive) Get(ctx context.Context, key string) (report.Report, error) {
	obj, err := a.client.GetObject(ctx, a.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return report.Report{}, fmt.Errorf("download report %s: %w", key, err)
	}
	defer obj.Close()

	var r report.Report
	if err := json.NewDecoder(obj).Decode(&r); err != nil {
		return report.Report{}, fmt.Errorf("decode report %s: %w", key, err)
	}
	return r, nil
}

func (a *Archive) prune(ctx context.Context) error {
	prefix := a.prefix
	if prefix != "" {
		prefix += "/"
	}

	var keys []string
	for obj := range a.client.ListObjects(ctx, a.bucket, minio.ListObjectsOptions{Prefix: prefix, Recursive: true}) {
		if obj.Err != nil {
			return fmt.Errorf("list reports: %w", obj.Err)
		}
		keys = append(keys, obj.Key)
	}
	if len(keys) <= a.keep {
		return nil
	}

	sort.Strings(keys)
	for _, key := range keys[:len(keys)-a.keep] {
		if err := a.client.RemoveObject(ctx, a.bucket, key, minio.RemoveObjectOptions{}); err != nil {
			return fmt.Errorf("remove report %s: %w", key, err)
		}
		a.logger.Debug("Pruned archived report", zap.String("key", key))
	}
	return nil
}
