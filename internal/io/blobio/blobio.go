// Package blobio implements blob.Store on a local filesystem and on
// S3-compatible object storage.
package blobio

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/attilauslu/oligocraft/internal/ent/blob"
	"github.com/attilauslu/oligocraft/pkg/config"
	"github.com/gabriel-vasile/mimetype"
)

// Drivers.
const (
	DriverFS = "fs"
	DriverS3 = "s3"
)

// sniffLen is the number of bytes used for content type detection.
const sniffLen = 3072

// New creates a store for the configured driver.
func New(ctx context.Context, cfg config.Blob) (blob.Store, error) {
	switch strings.ToLower(cfg.Driver) {
	case "", DriverFS:
		return NewFS(cfg.Dir)
	case DriverS3:
		return NewS3(ctx, cfg)
	default:
		return nil, fmt.Errorf("unknown blob driver %q", cfg.Driver)
	}
}

// detect fills the content type from the beginning of the content. The
// returned reader yields the whole content.
func detect(info blob.Info, r io.Reader) (blob.Info, io.Reader) {
	if info.ContentType != "" {
		return info, r
	}
	br := bufio.NewReaderSize(r, sniffLen)
	head, _ := br.Peek(sniffLen)
	info.ContentType = mimetype.Detect(head).String()
	return info, br
}
