package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/YoshitsuguKoike/kindred/internal/application/port/output"
)

// S3ExportStore implements output.ExportStore using AWS S3
// Key structure: <prefix>/exports/<owner>/<name>
type S3ExportStore struct {
	client     S3API // Use interface for testability
	bucketName string
	prefix     string
	now        func() time.Time
}

// S3Config holds S3 export store configuration
type S3Config struct {
	BucketName string // S3 bucket name
	Prefix     string // Optional key prefix
	Region     string // AWS region (optional, uses default if empty)
}

// NewS3ExportStore creates an export store using the default AWS credential chain
func NewS3ExportStore(ctx context.Context, cfg S3Config) (*S3ExportStore, error) {
	if cfg.BucketName == "" {
		return nil, errors.New("S3 bucket name is required")
	}

	awsCfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}
	if cfg.Region != "" {
		awsCfg.Region = cfg.Region
	}

	return NewS3ExportStoreWithClient(s3.NewFromConfig(awsCfg), cfg.BucketName, cfg.Prefix), nil
}

// NewS3ExportStoreWithClient creates an export store with a custom S3 client
// This is primarily used for testing with mock S3 clients
func NewS3ExportStoreWithClient(client S3API, bucketName, prefix string) *S3ExportStore {
	return &S3ExportStore{
		client:     client,
		bucketName: bucketName,
		prefix:     strings.Trim(prefix, "/"),
		now:        time.Now,
	}
}

// SaveExport uploads the archive
func (s *S3ExportStore) SaveExport(ctx context.Context, req output.SaveExportRequest) (*output.ExportInfo, error) {
	if err := validateSegment("owner", req.Owner); err != nil {
		return nil, err
	}
	if err := validateSegment("name", req.Name); err != nil {
		return nil, err
	}

	savedAt := s.now().UTC()
	key := s.buildKey("exports", req.Owner, req.Name)
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucketName),
		Key:         aws.String(key),
		Body:        bytes.NewReader(req.Content),
		ContentType: aws.String(req.ContentType),
		Metadata: map[string]string{
			"owner":    req.Owner,
			"saved-at": savedAt.Format(time.RFC3339),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("upload export to S3: %w", err)
	}

	return &output.ExportInfo{
		Owner:    req.Owner,
		Name:     req.Name,
		Location: fmt.Sprintf("s3://%s/%s", s.bucketName, key),
		Size:     int64(len(req.Content)),
		SavedAt:  savedAt,
	}, nil
}

// LoadExport downloads an archive
func (s *S3ExportStore) LoadExport(ctx context.Context, owner, name string) ([]byte, error) {
	obj, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucketName),
		Key:    aws.String(s.buildKey("exports", owner, name)),
	})
	if err != nil {
		var noSuchKey *types.NoSuchKey
		if errors.As(err, &noSuchKey) {
			return nil, fmt.Errorf("%w: %s", output.ErrExportNotFound, name)
		}
		return nil, fmt.Errorf("download export from S3: %w", err)
	}
	defer obj.Body.Close()

	data, err := io.ReadAll(obj.Body)
	if err != nil {
		return nil, fmt.Errorf("read export: %w", err)
	}
	return data, nil
}

// ListExports lists the archives of an owner, oldest first by name
func (s *S3ExportStore) ListExports(ctx context.Context, owner string) ([]*output.ExportInfo, error) {
	prefix := s.buildKey("exports", owner) + "/"

	result := []*output.ExportInfo{}
	paginator := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucketName),
		Prefix: aws.String(prefix),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("list S3 objects: %w", err)
		}
		for _, obj := range page.Contents {
			key := aws.ToString(obj.Key)
			info := &output.ExportInfo{
				Owner:    owner,
				Name:     strings.TrimPrefix(key, prefix),
				Location: fmt.Sprintf("s3://%s/%s", s.bucketName, key),
				Size:     aws.ToInt64(obj.Size),
			}
			if obj.LastModified != nil {
				info.SavedAt = *obj.LastModified
			}
			result = append(result, info)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

func (s *S3ExportStore) buildKey(parts ...string) string {
	if s.prefix != "" {
		parts = append([]string{s.prefix}, parts...)
	}
	return strings.Join(parts, "/")
}
