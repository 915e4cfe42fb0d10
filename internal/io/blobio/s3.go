package blobio

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/attilauslu/oligocraft/internal/ent/blob"
	"github.com/attilauslu/oligocraft/pkg/config"
	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

const nameMeta = "name"

// S3API is the part of the S3 client used by the store.
type S3API interface {
	PutObject(context.Context, *s3.PutObjectInput, ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(context.Context, *s3.GetObjectInput, ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	DeleteObject(context.Context, *s3.DeleteObjectInput, ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

type s3Store struct {
	client S3API
	bucket string
}

// NewS3 creates a store in a bucket of AWS S3 or a compatible service.
// Credentials come from the default AWS chain.
func NewS3(ctx context.Context, cfg config.Blob) (blob.Store, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("s3 bucket is not set")
	}
	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		slog.Error("Cannot load AWS config", "error", err)
		return nil, err
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.PathStyle
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})
	return NewS3WithClient(client, cfg.Bucket), nil
}

// NewS3WithClient creates a store with a given client.
func NewS3WithClient(client S3API, bucket string) blob.Store {
	res := s3Store{client: client, bucket: bucket}
	return &res
}

// Put implements blob.Store.
func (s *s3Store) Put(ctx context.Context, info blob.Info, r io.Reader) (blob.Info, error) {
	info, r = detect(info, r)
	bs, err := io.ReadAll(r)
	if err != nil {
		return info, err
	}
	info.Size = int64(len(bs))
	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(info.Key),
		Body:        bytes.NewReader(bs),
		ContentType: aws.String(info.ContentType),
		Metadata:    map[string]string{nameMeta: info.Name},
	})
	if err != nil {
		slog.Error("Cannot put object", "bucket", s.bucket, "key", info.Key, "error", err)
		return info, err
	}
	return info, nil
}

// Get implements blob.Store.
func (s *s3Store) Get(ctx context.Context, key string) (blob.Info, io.ReadCloser, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return blob.Info{}, nil, err
	}
	res := blob.Info{
		Key:         key,
		Name:        out.Metadata[nameMeta],
		ContentType: aws.ToString(out.ContentType),
		Size:        aws.ToInt64(out.ContentLength),
	}
	return res, out.Body, nil
}

// Delete implements blob.Store.
func (s *s3Store) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	return err
}
