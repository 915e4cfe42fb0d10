package benchio_test

import (
	"context"
	"crypto/md5"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/attilauslu/oligocraft/internal/ent/registry"
	"github.com/attilauslu/oligocraft/internal/io/benchio"
	"github.com/attilauslu/oligocraft/pkg/config"
	"github.com/attilauslu/oligocraft/pkg/ent/errs"
	"github.com/attilauslu/oligocraft/pkg/ent/model"
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

// tenant is a fake Benchling tenant.
type tenant struct {
	mu        sync.Mutex
	polls     int
	created   []map[string]any
	transfers []map[string]any
	results   map[string]any
	blob      map[string]any
}

func (t *tenant) reply(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func (t *tenant) handler(srv **httptest.Server) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v2/dna-sequences", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("nextToken") == "" {
			t.reply(w, map[string]any{
				"dnaSequences": []map[string]any{{"id": "seq_1", "name": "P1"}},
				"nextToken":    "page2",
			})
			return
		}
		t.reply(w, map[string]any{
			"dnaSequences": []map[string]any{{"id": "seq_2", "name": "P2"}},
		})
	})
	mux.HandleFunc("POST /api/v2/dna-sequences:bulk-create", func(w http.ResponseWriter, r *http.Request) {
		var in struct {
			DNASequences []map[string]any `json:"dnaSequences"`
		}
		_ = json.NewDecoder(r.Body).Decode(&in)
		t.mu.Lock()
		t.created = append(t.created, in.DNASequences...)
		t.mu.Unlock()
		t.reply(w, map[string]any{"taskId": "task_1"})
	})
	mux.HandleFunc("GET /api/v2/tasks/{id}", func(w http.ResponseWriter, r *http.Request) {
		t.mu.Lock()
		t.polls++
		polls := t.polls
		t.mu.Unlock()
		switch {
		case r.PathValue("id") == "task_bad":
			t.reply(w, map[string]any{
				"status": "FAILED", "message": "Bulk create failed",
				"errors": []map[string]any{{"message": "name exists"}},
			})
		case polls < 2:
			t.reply(w, map[string]any{"status": "RUNNING"})
		default:
			t.reply(w, map[string]any{
				"status": "SUCCEEDED",
				"response": map[string]any{
					"dnaSequences": []map[string]any{{"id": "seq_3", "name": "P3"}},
				},
			})
		}
	})
	mux.HandleFunc("GET /api/v2/custom-entities/{id}", func(w http.ResponseWriter, r *http.Request) {
		if r.PathValue("id") != "bfi_1" {
			w.WriteHeader(http.StatusNotFound)
			t.reply(w, map[string]any{"error": map[string]any{"message": "Entity not found"}})
			return
		}
		t.reply(w, map[string]any{
			"id": "bfi_1", "name": "CLC_Plate7_crRNA_metadata",
			"fields": map[string]any{
				"CSV": map[string]any{"value": "blob_1", "displayValue": "crrna.csv"},
			},
		})
	})
	mux.HandleFunc("GET /api/v2/blobs/{id}/download-url", func(w http.ResponseWriter, r *http.Request) {
		t.reply(w, map[string]any{"downloadURL": (*srv).URL + "/files/" + r.PathValue("id")})
	})
	mux.HandleFunc("GET /files/{id}", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("Order ID\n7\n"))
	})
	mux.HandleFunc("POST /api/v2/blobs", func(w http.ResponseWriter, r *http.Request) {
		var in map[string]any
		_ = json.NewDecoder(r.Body).Decode(&in)
		t.mu.Lock()
		t.blob = in
		t.mu.Unlock()
		t.reply(w, map[string]any{"id": "blob_2", "uploadStatus": "COMPLETE"})
	})
	mux.HandleFunc("GET /api/v2/plates/{id}", func(w http.ResponseWriter, r *http.Request) {
		t.reply(w, map[string]any{
			"id": r.PathValue("id"), "name": "CLC_PlateA7_crRNA",
			"wells": map[string]any{"A1": map[string]any{"id": "con_1", "barcode": "b1", "name": "A1"}},
		})
	})
	mux.HandleFunc("POST /api/v2/transfers", func(w http.ResponseWriter, r *http.Request) {
		var in struct {
			Transfers []map[string]any `json:"transfers"`
		}
		_ = json.NewDecoder(r.Body).Decode(&in)
		t.mu.Lock()
		t.transfers = append(t.transfers, in.Transfers...)
		t.mu.Unlock()
		t.reply(w, map[string]any{})
	})
	mux.HandleFunc("GET /api/v2/entries", func(w http.ResponseWriter, r *http.Request) {
		t.reply(w, map[string]any{
			"entries": []map[string]any{{"id": "etr_1", "name": r.URL.Query().Get("name")}},
		})
	})
	mux.HandleFunc("GET /api/v2/entries/{id}", func(w http.ResponseWriter, r *http.Request) {
		t.reply(w, map[string]any{"entry": map[string]any{
			"id": "etr_1", "name": "CLC order 7",
			"days": []map[string]any{{"notes": []map[string]any{
				{"type": "results_table", "apiId": "tbl_1", "assaySchemaId": "assaysch_1"},
			}}},
		}})
	})
	mux.HandleFunc("POST /api/v2/assay-results:bulk-create", func(w http.ResponseWriter, r *http.Request) {
		var in map[string]any
		_ = json.NewDecoder(r.Body).Decode(&in)
		t.mu.Lock()
		t.results = in
		t.mu.Unlock()
		t.reply(w, map[string]any{})
	})

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if user, _, ok := r.BasicAuth(); r.URL.Path != "/files/blob_1" && (!ok || user != "sk_test") {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		mux.ServeHTTP(w, r)
	})
}

var _ = Describe("Benchio", func() {
	var (
		ctx context.Context
		srv *httptest.Server
		ten *tenant
		reg registry.Registry
	)

	BeforeEach(func() {
		var err error
		ctx = context.Background()
		ten = &tenant{}
		srv = httptest.NewServer(ten.handler(&srv))
		reg, err = benchio.New(config.Benchling{
			URL:          srv.URL,
			APIKey:       "sk_test",
			PollInterval: time.Millisecond,
			Timeout:      time.Second,
		})
		Expect(err).ToNot(HaveOccurred())
	})

	AfterEach(func() {
		srv.Close()
	})

	It("requires URL and API key", func() {
		_, err := benchio.New(config.Benchling{})
		Expect(errs.Is(err, errs.ConfigurationError)).To(BeTrue())
	})

	It("reads all pages of a list", func() {
		es, err := reg.ListEntities(ctx, model.Target{
			Kind: model.DNASequence, FolderID: "lib_1", SchemaID: "ts_1",
		})
		Expect(err).ToNot(HaveOccurred())
		Expect(es).To(Equal([]registry.Entity{{ID: "seq_1", Name: "P1"}, {ID: "seq_2", Name: "P2"}}))
	})

	It("creates entities and waits for the task", func() {
		task, err := reg.BulkCreate(ctx, model.DNASequence, []model.EntityCreate{{
			Kind: model.DNASequence, Name: "P3", Bases: "ACGT", FolderID: "lib_1",
			SchemaID: "ts_1", RegistryID: "src_1", NamingStrategy: model.NewIDs,
			Fields: model.Fields{"Target strand": "+"},
		}})
		Expect(err).ToNot(HaveOccurred())
		Expect(task.ID()).To(Equal("task_1"))
		es, err := task.Wait(ctx)
		Expect(err).ToNot(HaveOccurred())
		Expect(es).To(Equal([]registry.Entity{{ID: "seq_3", Name: "P3"}}))
		Expect(ten.polls).To(Equal(2))

		Expect(ten.created).To(HaveLen(1))
		c := ten.created[0]
		Expect(c["namingStrategy"]).To(Equal("NEW_IDS"))
		Expect(c["isCircular"]).To(Equal(false))
		Expect(c["fields"]).To(HaveKeyWithValue("Target strand", map[string]any{"value": "+"}))
	})

	It("downloads the CSV of a file entity", func() {
		fe, err := reg.FileEntity(ctx, "bfi_1")
		Expect(err).ToNot(HaveOccurred())
		Expect(fe.BlobID).To(Equal("blob_1"))
		Expect(fe.FileName).To(Equal("crrna.csv"))

		dir, err := os.MkdirTemp("", "oligocraft-bench")
		Expect(err).ToNot(HaveOccurred())
		defer os.RemoveAll(dir)
		path := filepath.Join(dir, "crrna.csv")
		Expect(reg.DownloadBlob(ctx, fe.BlobID, path)).To(Succeed())
		bs, err := os.ReadFile(path)
		Expect(err).ToNot(HaveOccurred())
		Expect(string(bs)).To(Equal("Order ID\n7\n"))
	})

	It("reports API errors", func() {
		_, err := reg.FileEntity(ctx, "bfi_404")
		Expect(errs.Is(err, errs.ExternalServiceError)).To(BeTrue())
		Expect(err.Error()).To(ContainSubstring("Entity not found"))
	})

	It("uploads blobs with checksum", func() {
		dir, err := os.MkdirTemp("", "oligocraft-bench")
		Expect(err).ToNot(HaveOccurred())
		defer os.RemoveAll(dir)
		path := filepath.Join(dir, "api_ids.csv")
		Expect(os.WriteFile(path, []byte("bac_name\nCLC005\n"), 0644)).To(Succeed())

		id, err := reg.CreateBlob(ctx, path, "CLC_Plate7_API_IDs.csv", "text/csv")
		Expect(err).ToNot(HaveOccurred())
		Expect(id).To(Equal("blob_2"))

		sum := md5.Sum([]byte("bac_name\nCLC005\n"))
		Expect(ten.blob["md5"]).To(Equal(hex.EncodeToString(sum[:])))
		Expect(ten.blob["data64"]).To(Equal(base64.StdEncoding.EncodeToString([]byte("bac_name\nCLC005\n"))))
		Expect(ten.blob["type"]).To(Equal("RAW_FILE"))
	})

	It("reads plates and transfers into wells", func() {
		p, err := reg.Plate(ctx, "plt_1")
		Expect(err).ToNot(HaveOccurred())
		Expect(p.Wells).To(HaveKey("A1"))
		Expect(p.Wells["A1"].ID).To(Equal("con_1"))

		err = reg.TransferIntoContainers(ctx, []registry.Transfer{{
			DestinationID: "con_1", SourceID: "seq_1", Quantity: 2.5, Units: registry.Micrograms,
		}})
		Expect(err).ToNot(HaveOccurred())
		Expect(ten.transfers).To(HaveLen(1))
		Expect(ten.transfers[0]["transferQuantity"]).To(Equal(map[string]any{"value": 2.5, "units": "ug"}))
	})

	It("finds notebook entries and writes results", func() {
		es, err := reg.ListEntries(ctx, "CLC order 7")
		Expect(err).ToNot(HaveOccurred())
		Expect(es).To(HaveLen(1))

		e, err := reg.Entry(ctx, es[0].ID)
		Expect(err).ToNot(HaveOccurred())
		Expect(e.Days[0].Notes[0].APIID).To(Equal("tbl_1"))

		err = reg.BulkCreateAssayResults(ctx, []model.AssayResult{{
			SchemaID: "assaysch_1", Fields: model.Fields{"sample": "bfi_9"},
		}}, "tbl_1")
		Expect(err).ToNot(HaveOccurred())
		Expect(ten.results["tableId"]).To(Equal("tbl_1"))
	})
})
