// Package benchio implements registry.Registry over Benchling REST API v2.
package benchio

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/attilauslu/oligocraft/internal/ent/registry"
	"github.com/attilauslu/oligocraft/pkg/config"
	"github.com/attilauslu/oligocraft/pkg/ent/errs"
	"github.com/gnames/gnfmt"
)

const apiPath = "/api/v2"

// pageSize is the number of items requested per page of a list.
const pageSize = 100

type benchio struct {
	base   string
	apiKey string
	poll   time.Duration
	client *http.Client
	enc    gnfmt.Encoder
}

var _ registry.Registry = (*benchio)(nil)

// New creates a Benchling client for a tenant.
func New(cfg config.Benchling) (registry.Registry, error) {
	if cfg.URL == "" || cfg.APIKey == "" {
		return nil, errs.New(errs.ConfigurationError, "Benchling URL and API key are required")
	}
	if _, err := url.Parse(cfg.URL); err != nil {
		return nil, errs.Wrap(errs.ConfigurationError, "Benchling URL is invalid", err)
	}
	poll := cfg.PollInterval
	if poll <= 0 {
		poll = 2 * time.Second
	}
	res := benchio{
		base:   cfg.URL + apiPath,
		apiKey: cfg.APIKey,
		poll:   poll,
		client: &http.Client{Timeout: cfg.Timeout},
		enc:    gnfmt.GNjson{},
	}
	return &res, nil
}

// do sends a request with an optional JSON body and decodes a JSON reply
// into out.
func (b *benchio) do(
	ctx context.Context,
	method, path string,
	query url.Values,
	in, out any,
) error {
	u := b.base + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var body io.Reader
	if in != nil {
		bs, err := b.enc.Encode(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(bs)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return err
	}
	req.SetBasicAuth(b.apiKey, "")
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := b.client.Do(req)
	if err != nil {
		slog.Error("Cannot reach Benchling", "method", method, "path", path, "error", err)
		return errs.Wrap(errs.ExternalServiceError, "cannot reach Benchling", err)
	}
	defer resp.Body.Close()

	bs, err := io.ReadAll(resp.Body)
	if err != nil {
		return errs.Wrap(errs.ExternalServiceError, "cannot read Benchling reply", err)
	}
	if resp.StatusCode >= 300 {
		return b.apiError(method, path, resp.StatusCode, bs)
	}
	if out == nil || len(bs) == 0 {
		return nil
	}
	if err = b.enc.Decode(bs, out); err != nil {
		return errs.Wrap(errs.ExternalServiceError, "cannot decode Benchling reply", err)
	}
	return nil
}

func (b *benchio) apiError(method, path string, status int, body []byte) error {
	var e errorReply
	msg := string(body)
	if err := b.enc.Decode(body, &e); err == nil && e.Error.Message != "" {
		msg = e.Error.Message
	}
	slog.Error("Benchling request failed",
		"method", method, "path", path, "status", status, "message", msg)
	return errs.New(errs.ExternalServiceError,
		fmt.Sprintf("Benchling %s %s: %d %s", method, path, status, msg))
}

// download reads a URL without authentication. Download URLs of blobs are
// presigned.
func (b *benchio) download(ctx context.Context, u string, w io.Writer) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	resp, err := b.client.Do(req)
	if err != nil {
		return errs.Wrap(errs.ExternalServiceError, "cannot download blob", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return errs.New(errs.ExternalServiceError,
			fmt.Sprintf("cannot download blob: status %d", resp.StatusCode))
	}
	_, err = io.Copy(w, resp.Body)
	return err
}
