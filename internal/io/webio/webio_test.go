package webio_test

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strconv"
	"time"

	"github.com/attilauslu/oligocraft/internal/ent/archive"
	"github.com/attilauslu/oligocraft/internal/ent/loader"
	"github.com/attilauslu/oligocraft/internal/ent/webhook"
	"github.com/attilauslu/oligocraft/internal/io/webio"
	oligocraft "github.com/attilauslu/oligocraft/pkg"
	"github.com/attilauslu/oligocraft/pkg/config"
	"github.com/attilauslu/oligocraft/pkg/ent/errs"
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

const secret = "whsec_dGVzdC1zZWNyZXQ="

type fakeRun struct {
	reqs    chan oligocraft.Request
	err     error
	archive int
}

func (f *fakeRun) Run(_ context.Context, req oligocraft.Request) (oligocraft.Report, error) {
	f.reqs <- req
	return oligocraft.Report{RunID: "run_1", Order: "7"}, f.err
}

func (f *fakeRun) Validate(context.Context, loader.Files) (oligocraft.Summary, error) {
	return oligocraft.Summary{}, nil
}

func (f *fakeRun) Archive(context.Context, archive.Archiver, oligocraft.Report) error {
	f.archive++
	return nil
}

type nopArchiver struct{}

func (nopArchiver) Save(context.Context, archive.Record) error { return nil }
func (nopArchiver) Close() error                                { return nil }

func signed(body string) *http.Request {
	ts := time.Now()
	sig, err := webhook.Sign(secret, "msg_1", ts, []byte(body))
	Expect(err).ToNot(HaveOccurred())
	r := httptest.NewRequest(http.MethodPost, "/1/webhooks/canvas", bytes.NewBufferString(body))
	r.Header.Set(webhook.HeaderID, "msg_1")
	r.Header.Set(webhook.HeaderTimestamp, strconv.FormatInt(ts.Unix(), 10))
	r.Header.Set(webhook.HeaderSignature, sig)
	return r
}

func serve(h http.Handler, r *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	return w
}

var _ = Describe("Webio", func() {
	runBody := `{"message":{"type":"oligocraft.run","fileIds":["bfi_1"],` +
		`"plateIds":["plt_1","plt_2","plt_3"],"notebook":"CLC order 7"}}`

	var (
		fake *fakeRun
		srv  webhook.Server
		h    http.Handler
	)

	BeforeEach(func() {
		fake = &fakeRun{reqs: make(chan oligocraft.Request, 2)}
		cfg := config.New(config.OptWebhook(":0", secret))
		srv = webio.New(cfg, fake, nopArchiver{})
		h = srv.Handler()
	})

	It("reports health", func() {
		w := serve(h, httptest.NewRequest(http.MethodGet, "/health", nil))
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Body.String()).To(Equal("OK"))
	})

	It("requires a configured secret", func() {
		srv = webio.New(config.New(), fake, nil)
		w := serve(srv.Handler(), signed(runBody))
		Expect(w.Code).To(Equal(http.StatusInternalServerError))
	})

	It("rejects unsigned webhooks", func() {
		r := httptest.NewRequest(http.MethodPost, "/1/webhooks/canvas", bytes.NewBufferString(runBody))
		w := serve(h, r)
		Expect(w.Code).To(Equal(http.StatusUnauthorized))
	})

	It("rejects invalid JSON", func() {
		w := serve(h, signed(`{"message":`))
		Expect(w.Code).To(Equal(http.StatusBadRequest))
	})

	It("ignores other message types", func() {
		w := serve(h, signed(`{"message":{"type":"v2.canvas.initialized"}}`))
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Body.String()).To(ContainSubstring("ignored"))
	})

	It("accepts one run at a time", func() {
		w := serve(h, signed(runBody))
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Body.String()).To(ContainSubstring("accepted"))

		w = serve(h, signed(runBody))
		Expect(w.Code).To(Equal(http.StatusConflict))
	})

	It("runs accepted requests and archives them", func() {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		done := make(chan struct{})
		go func() {
			defer GinkgoRecover()
			Expect(srv.Work(ctx)).To(Succeed())
			close(done)
		}()

		Expect(serve(h, signed(runBody)).Code).To(Equal(http.StatusOK))
		var req oligocraft.Request
		Eventually(fake.reqs).Should(Receive(&req))
		Expect(req.Notebook).To(Equal("CLC order 7"))
		Expect(req.PlateIDs).To(HaveLen(3))

		Eventually(func() int {
			return serve(h, signed(runBody)).Code
		}).Should(Equal(http.StatusOK))
		Eventually(fake.reqs).Should(Receive())

		cancel()
		Eventually(done).Should(BeClosed())
		Expect(fake.archive).To(Equal(2))

		w := serve(h, httptest.NewRequest(http.MethodGet, "/metrics", nil))
		Expect(w.Body.String()).To(ContainSubstring(`oligocraft_runs_total{outcome="success"} 2`))
		Expect(w.Body.String()).To(ContainSubstring(`oligocraft_webhooks_total{status="200"}`))
	})

	It("counts user errors", func() {
		fake.err = errs.New(errs.LookupError, "Missing files: []")
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		go func() {
			defer GinkgoRecover()
			_ = srv.Work(ctx)
		}()

		Expect(serve(h, signed(runBody)).Code).To(Equal(http.StatusOK))
		Eventually(fake.reqs).Should(Receive())
		Eventually(func() string {
			return serve(h, httptest.NewRequest(http.MethodGet, "/metrics", nil)).Body.String()
		}).Should(ContainSubstring(`oligocraft_runs_total{outcome="user_error"} 1`))
		Expect(fake.archive).To(Equal(0))
	})
})
