// Package webio implements the webhook server.
package webio

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/attilauslu/oligocraft/internal/ent/archive"
	"github.com/attilauslu/oligocraft/internal/ent/webhook"
	oligocraft "github.com/attilauslu/oligocraft/pkg"
	"github.com/attilauslu/oligocraft/pkg/config"
	"github.com/attilauslu/oligocraft/pkg/ent/errs"
	"github.com/gnames/gnfmt"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"
)

// maxBody limits the size of a webhook body.
const maxBody = 1 << 20

type job struct {
	id  string
	req oligocraft.Request
}

type webio struct {
	cfg     config.Config
	oc      oligocraft.OligoCraft
	arch    archive.Archiver
	enc     gnfmt.Encoder
	metrics *collector
	prom    *prometheus.Registry
	jobs    chan job
	busy    atomic.Bool
	now     func() time.Time
}

// New creates a webhook server. The archiver is optional.
func New(
	cfg config.Config,
	oc oligocraft.OligoCraft,
	arch archive.Archiver,
) webhook.Server {
	res := webio{
		cfg:     cfg,
		oc:      oc,
		arch:    arch,
		enc:     gnfmt.GNjson{},
		metrics: newCollector(),
		prom:    prometheus.NewRegistry(),
		jobs:    make(chan job, 1),
		now:     time.Now,
	}
	res.prom.MustRegister(res.metrics)
	return &res
}

// Handler implements webhook.Server.
func (w *webio) Handler() http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/health", w.health).Methods(http.MethodGet)
	r.HandleFunc("/1/webhooks/{target:.*}", w.receive).Methods(http.MethodPost)
	r.Handle("/metrics", promhttp.HandlerFor(w.prom, promhttp.HandlerOpts{})).
		Methods(http.MethodGet)
	return r
}

func (w *webio) health(rw http.ResponseWriter, _ *http.Request) {
	rw.WriteHeader(http.StatusOK)
	_, _ = rw.Write([]byte("OK"))
}

func (w *webio) respond(rw http.ResponseWriter, status int, v map[string]string) {
	w.metrics.webhooks.WithLabelValues(strconv.Itoa(status)).Inc()
	bs, err := w.enc.Encode(v)
	if err != nil {
		slog.Error("Cannot encode reply", "error", err)
	}
	rw.Header().Set("Content-Type", "application/json")
	rw.WriteHeader(status)
	_, _ = rw.Write(bs)
}

func (w *webio) receive(rw http.ResponseWriter, r *http.Request) {
	target := mux.Vars(r)["target"]
	slog.Info("Received webhook", "target", target)

	if w.cfg.WebhookSecret == "" {
		slog.Error("Webhook secret is not set, cannot verify webhook")
		w.respond(rw, http.StatusInternalServerError, map[string]string{"error": "App configuration error"})
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxBody))
	if err != nil {
		w.respond(rw, http.StatusBadRequest, map[string]string{"error": "Cannot read request"})
		return
	}

	h := webhook.Headers{
		ID:        r.Header.Get(webhook.HeaderID),
		Timestamp: r.Header.Get(webhook.HeaderTimestamp),
		Signature: r.Header.Get(webhook.HeaderSignature),
	}
	if err = webhook.Verify(w.cfg.WebhookSecret, h, body, w.now()); err != nil {
		slog.Warn("Webhook verification failed", "id", h.ID, "error", err)
		w.respond(rw, http.StatusUnauthorized, map[string]string{"error": "Webhook verification failed"})
		return
	}

	var env webhook.Envelope
	if err = w.enc.Decode(body, &env); err != nil {
		slog.Warn("Cannot parse webhook JSON", "id", h.ID, "error", err)
		w.respond(rw, http.StatusBadRequest, map[string]string{"error": "Invalid JSON in request"})
		return
	}

	if !env.Message.Runs() {
		slog.Info("Ignoring webhook", "type", env.Message.Type)
		w.respond(rw, http.StatusOK, map[string]string{"status": "ignored"})
		return
	}

	if !w.busy.CompareAndSwap(false, true) {
		slog.Warn("A run is in progress, rejecting webhook", "id", h.ID)
		w.respond(rw, http.StatusConflict, map[string]string{"error": "A run is already in progress"})
		return
	}

	j := job{
		id: uuid.NewString(),
		req: oligocraft.Request{
			FileIDs:  env.Message.FileIDs,
			PlateIDs: env.Message.PlateIDs,
			Notebook: env.Message.Notebook,
		},
	}
	w.jobs <- j
	slog.Info("Run accepted", "job", j.id, "files", len(j.req.FileIDs))
	w.respond(rw, http.StatusOK, map[string]string{"status": "accepted", "job": j.id})
}

// Work implements webhook.Server.
func (w *webio) Work(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case j := <-w.jobs:
			w.run(ctx, j)
			w.busy.Store(false)
		}
	}
}

func (w *webio) run(ctx context.Context, j job) {
	log := slog.With("job", j.id)
	start := w.now()
	rep, err := w.oc.Run(ctx, j.req)
	w.metrics.runDuration.Observe(w.now().Sub(start).Seconds())

	switch {
	case err == nil:
		w.metrics.runs.WithLabelValues(outcomeSuccess).Inc()
		log.Info("Run succeeded", "run", rep.RunID, "order", rep.Order)
	case errs.Fatal(err):
		w.metrics.runs.WithLabelValues(outcomeFailure).Inc()
		log.Error("Run failed", "error", err)
		return
	default:
		w.metrics.runs.WithLabelValues(outcomeUserError).Inc()
		log.Warn("Run stopped", "kind", errs.KindOf(err), "message", err.Error())
		return
	}

	if w.arch == nil {
		return
	}
	if err = w.oc.Archive(ctx, w.arch, rep); err != nil {
		log.Error("Cannot archive run", "run", rep.RunID, "error", err)
	}
}

// Serve implements webhook.Server.
func (w *webio) Serve(ctx context.Context) error {
	srv := &http.Server{
		Addr:              w.cfg.ListenAddr,
		Handler:           w.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return w.Work(ctx)
	})
	g.Go(func() error {
		slog.Info("Listening for webhooks", "addr", srv.Addr)
		err := srv.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	})
	g.Go(func() error {
		<-ctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(sctx)
	})
	return g.Wait()
}
