package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// S3Config selects an S3-compatible provider. The values are opaque
// configuration: the backend never branches on them beyond construction.
// One client covers AWS S3, Cloudflare R2, Backblaze B2, DigitalOcean
// Spaces, and MinIO by endpoint.
type S3Config struct {
	Endpoint  string `yaml:"endpoint" mapstructure:"endpoint"`
	Region    string `yaml:"region" mapstructure:"region"`
	Bucket    string `yaml:"bucket" mapstructure:"bucket"`
	AccessKey string `yaml:"access_key" mapstructure:"access_key"`
	SecretKey string `yaml:"secret_key" mapstructure:"secret_key"`
	UseSSL    bool   `yaml:"use_ssl" mapstructure:"use_ssl"`
}

// S3Backend implements Backend over any S3-compatible object store.
type S3Backend struct {
	client *minio.Client
	bucket string
	name   string
}

// NewS3Backend builds the client and verifies the bucket is reachable.
// An unreachable bucket or rejected credentials is fatal: the run should
// not start against a backend that cannot accept writes.
func NewS3Backend(ctx context.Context, name string, cfg S3Config) (*S3Backend, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %s client: %v", ErrStorageFatal, name, err)
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("%w: %s bucket check: %v", ErrStorageFatal, name, err)
	}
	if !exists {
		return nil, fmt.Errorf("%w: %s bucket %q does not exist", ErrStorageFatal, name, cfg.Bucket)
	}

	return &S3Backend{client: client, bucket: cfg.Bucket, name: name}, nil
}

// Name identifies the configured provider.
func (b *S3Backend) Name() string { return b.name }

// Put uploads the object. Identical keys overwrite with identical bytes.
func (b *S3Backend) Put(ctx context.Context, key string, data []byte) error {
	_, err := b.client.PutObject(ctx, b.bucket, key, bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: "application/json"})
	return b.classify(err)
}

// Get downloads an object.
func (b *S3Backend) Get(ctx context.Context, key string) ([]byte, error) {
	obj, err := b.client.GetObject(ctx, b.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, b.classify(err)
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		if resp := minio.ToErrorResponse(err); resp.StatusCode == 404 {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, key)
		}
		return nil, b.classify(err)
	}
	return data, nil
}

// List returns the keys under the prefix.
func (b *S3Backend) List(ctx context.Context, prefix string) ([]string, error) {
	keys := []string{}
	for info := range b.client.ListObjects(ctx, b.bucket, minio.ListObjectsOptions{
		Prefix:    prefix,
		Recursive: true,
	}) {
		if info.Err != nil {
			return nil, b.classify(info.Err)
		}
		keys = append(keys, info.Key)
	}
	return keys, nil
}

// Delete removes an object. S3 deletes are idempotent.
func (b *S3Backend) Delete(ctx context.Context, key string) error {
	return b.classify(b.client.RemoveObject(ctx, b.bucket, key, minio.RemoveObjectOptions{}))
}

// classify splits failures into fatal (auth, missing bucket) and
// transient (network, 5xx, throttling) so the gateway's retry loop only
// retries what can succeed.
func (b *S3Backend) classify(err error) error {
	if err == nil {
		return nil
	}

	resp := minio.ToErrorResponse(err)
	switch resp.StatusCode {
	case 401, 403:
		return fmt.Errorf("%w: %s: %v", ErrStorageFatal, b.name, err)
	case 404:
		if resp.Code == "NoSuchBucket" {
			return fmt.Errorf("%w: %s: %v", ErrStorageFatal, b.name, err)
		}
		return Transient(err)
	default:
		return Transient(err)
	}
}
