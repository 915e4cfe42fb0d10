package webhook

import (
	"context"
	"net/http"
)

// Server receives webhooks and runs the pipeline for them, one run at a
// time.
type Server interface {
	// Handler returns HTTP routes of the server.
	Handler() http.Handler

	// Work runs accepted requests until ctx is done.
	Work(ctx context.Context) error

	// Serve listens for HTTP requests and runs the worker until ctx is
	// done.
	Serve(ctx context.Context) error
}
