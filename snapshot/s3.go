package snapshot

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

const objectPrefix = "snapshots/"

// S3Config carries the connection settings for an S3-compatible endpoint.
type S3Config struct {
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	Bucket          string
	UseSSL          bool
}

// S3Store persists snapshots as objects in an S3-compatible bucket, one
// object per version.
type S3Store struct {
	client *minio.Client
	bucket string
}

// NewS3Store connects to the configured endpoint and ensures the bucket
// exists.
func NewS3Store(ctx context.Context, config S3Config) (*S3Store, error) {
	client, err := minio.New(config.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(config.AccessKeyID, config.SecretAccessKey, ""),
		Secure: config.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("snapshot: create s3 client: %w", err)
	}

	exists, err := client.BucketExists(ctx, config.Bucket)
	if err != nil {
		return nil, fmt.Errorf("snapshot: check bucket %q: %w", config.Bucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, config.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("snapshot: create bucket %q: %w", config.Bucket, err)
		}
	}

	return &S3Store{client: client, bucket: config.Bucket}, nil
}

// objectName zero-pads the version so lexicographic object order matches
// numeric version order.
func objectName(version int64) string {
	return fmt.Sprintf("%ssnapshot-%020d.snap", objectPrefix, version)
}

func parseObjectName(key string) (int64, bool) {
	name := strings.TrimPrefix(key, objectPrefix)
	name = strings.TrimPrefix(name, "snapshot-")
	name = strings.TrimSuffix(name, ".snap")
	version, err := strconv.ParseInt(name, 10, 64)
	if err != nil || version < 1 {
		return 0, false
	}
	return version, true
}

// exists stats the object for version without fetching its body.
func (s *S3Store) exists(ctx context.Context, version int64) (bool, error) {
	_, err := s.client.StatObject(ctx, s.bucket, objectName(version), minio.StatObjectOptions{})
	if err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return false, nil
		}
		return false, fmt.Errorf("snapshot: stat version %d: %w", version, err)
	}
	return true, nil
}

func (s *S3Store) Put(ctx context.Context, snap *Snapshot) error {
	stored, err := s.exists(ctx, snap.Version)
	if err != nil {
		return err
	}
	if stored {
		return fmt.Errorf("snapshot: version %d already stored", snap.Version)
	}
	value, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("snapshot: marshal version %d: %w", snap.Version, err)
	}
	_, err = s.client.PutObject(ctx, s.bucket, objectName(snap.Version),
		bytes.NewReader(value), int64(len(value)),
		minio.PutObjectOptions{ContentType: "application/octet-stream"})
	if err != nil {
		return fmt.Errorf("snapshot: put version %d: %w", snap.Version, err)
	}
	return nil
}

func (s *S3Store) Get(ctx context.Context, version int64) (*Snapshot, error) {
	object, err := s.client.GetObject(ctx, s.bucket, objectName(version), minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("snapshot: get version %d: %w", version, err)
	}
	defer object.Close()

	value, err := io.ReadAll(object)
	if err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("snapshot: read version %d: %w", version, err)
	}

	snap := &Snapshot{}
	if err := json.Unmarshal(value, snap); err != nil {
		return nil, fmt.Errorf("snapshot: unmarshal version %d: %w", version, err)
	}
	return snap, nil
}

func (s *S3Store) Latest(ctx context.Context) (int64, error) {
	versions, err := s.Versions(ctx)
	if err != nil {
		return 0, err
	}
	if len(versions) == 0 {
		return 0, nil
	}
	return versions[len(versions)-1], nil
}

func (s *S3Store) Versions(ctx context.Context) ([]int64, error) {
	var out []int64
	for info := range s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{
		Prefix:    objectPrefix,
		Recursive: true,
	}) {
		if info.Err != nil {
			return nil, fmt.Errorf("snapshot: list versions: %w", info.Err)
		}
		if version, ok := parseObjectName(info.Key); ok {
			out = append(out, version)
		}
	}
	return out, nil
}

func (s *S3Store) Remove(ctx context.Context, version int64) error {
	stored, err := s.exists(ctx, version)
	if err != nil {
		return err
	}
	if !stored {
		return ErrNotFound
	}
	err = s.client.RemoveObject(ctx, s.bucket, objectName(version), minio.RemoveObjectOptions{})
	if err != nil {
		return fmt.Errorf("snapshot: remove version %d: %w", version, err)
	}
	return nil
}
