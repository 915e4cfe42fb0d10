package benchio

import (
	"context"
	"crypto/md5"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"os"

	"github.com/attilauslu/oligocraft/pkg/ent/errs"
)

// blobComplete is the upload status of a finished blob.
const blobComplete = "COMPLETE"

// DownloadBlob implements registry.Registry.
func (b *benchio) DownloadBlob(ctx context.Context, blobID, path string) error {
	var u blobURL
	err := b.do(ctx, http.MethodGet, "/blobs/"+url.PathEscape(blobID)+"/download-url", nil, nil, &u)
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		slog.Error("Cannot create file", "path", path, "error", err)
		return errs.Wrap(errs.ConfigurationError, "cannot create download file", err)
	}
	if err = b.download(ctx, u.DownloadURL, f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// CreateBlob implements registry.Registry. The file is uploaded in one
// part.
func (b *benchio) CreateBlob(ctx context.Context, path, name, mimeType string) (string, error) {
	bs, err := os.ReadFile(path)
	if err != nil {
		slog.Error("Cannot read file", "path", path, "error", err)
		return "", err
	}
	sum := md5.Sum(bs)
	in := blobCreate{
		Name:     name,
		MimeType: mimeType,
		Type:     "RAW_FILE",
		Data64:   base64.StdEncoding.EncodeToString(bs),
		MD5:      hex.EncodeToString(sum[:]),
	}
	var rep blobReply
	if err = b.do(ctx, http.MethodPost, "/blobs", nil, in, &rep); err != nil {
		return "", err
	}
	if rep.UploadStatus != "" && rep.UploadStatus != blobComplete {
		msg := fmt.Sprintf("Blob %s upload status is %s", rep.ID, rep.UploadStatus)
		return "", errs.New(errs.ExternalServiceError, msg)
	}
	return rep.ID, nil
}
