// Package localio implements registry.Registry on a local key-value store
// and a blob store. It allows dry runs of the pipeline without a Benchling
// tenant. IDs are derived from names, so repeated runs get the same IDs.
package localio

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/attilauslu/oligocraft/internal/ent/blob"
	"github.com/attilauslu/oligocraft/internal/ent/kv"
	"github.com/attilauslu/oligocraft/internal/ent/registry"
	"github.com/attilauslu/oligocraft/pkg/ent/errs"
	"github.com/attilauslu/oligocraft/pkg/ent/model"
	"github.com/gnames/gnfmt"
	"github.com/gnames/gnuuid"
)

// Key prefixes.
const (
	entityKey   = "ent/"
	fileKey     = "file/"
	plateKey    = "plate/"
	entryKey    = "entry/"
	resultKey   = "result/"
	transferKey = "transfer/"
)

type localio struct {
	kv    kv.KeyVal
	blobs blob.Store
	enc   gnfmt.Encoder

	// mu serializes read-modify-write sequences.
	mu sync.Mutex
}

var _ registry.Registry = (*localio)(nil)

// Local is a registry with seeding support.
type Local interface {
	registry.Registry

	// Seed imports entities, files, plates and notebook entries.
	Seed(ctx context.Context, s Seed) (Seeded, error)

	// Transfers returns the content of every filled container.
	Transfers() ([]registry.Transfer, error)

	// Results returns assay results of a table.
	Results(tableID string) ([]model.AssayResult, error)
}

// New creates a local registry. The key-value store must be open.
func New(store kv.KeyVal, blobs blob.Store) Local {
	res := localio{
		kv:    store,
		blobs: blobs,
		enc:   gnfmt.GNjson{},
	}
	return &res
}

// ID returns a deterministic ID for a key.
func ID(prefix, key string) string {
	return prefix + "_" + gnuuid.New(key).String()
}

func idPrefix(k model.Kind) string {
	if k == model.CustomEntity {
		return "bfi"
	}
	return "seq"
}

func targetKey(t model.Target) string {
	return fmt.Sprintf("%s%s/%s/%s/", entityKey, t.Kind, t.FolderID, t.SchemaID)
}

func notFound(what, id string) error {
	return errs.New(errs.ExternalServiceError, fmt.Sprintf("%s %s not found", what, id))
}

func (l *localio) get(key string, v any) (bool, error) {
	bs, err := l.kv.GetValue([]byte(key))
	if err != nil {
		return false, errs.Wrap(errs.ExternalServiceError, "cannot read local registry", err)
	}
	if bs == nil {
		return false, nil
	}
	if err = l.enc.Decode(bs, v); err != nil {
		return false, err
	}
	return true, nil
}

func (l *localio) record(key string, v any) (kv.Record, error) {
	bs, err := l.enc.Encode(v)
	if err != nil {
		return kv.Record{}, err
	}
	return kv.Record{Key: []byte(key), Value: bs}, nil
}

func (l *localio) set(rs ...kv.Record) error {
	if err := l.kv.SetValues(rs...); err != nil {
		return errs.Wrap(errs.ExternalServiceError, "cannot write local registry", err)
	}
	return nil
}

func (l *localio) scan(prefix string, each func([]byte) error) error {
	rs, err := l.kv.Scan([]byte(prefix))
	if err != nil {
		return errs.Wrap(errs.ExternalServiceError, "cannot read local registry", err)
	}
	for _, r := range rs {
		if err = each(r.Value); err != nil {
			return err
		}
	}
	return nil
}

// FileEntity implements registry.Registry.
func (l *localio) FileEntity(_ context.Context, id string) (registry.FileEntity, error) {
	var res registry.FileEntity
	ok, err := l.get(fileKey+id, &res)
	if err != nil {
		return res, err
	}
	if !ok {
		return res, notFound("entity", id)
	}
	return res, nil
}

// DownloadBlob implements registry.Registry.
func (l *localio) DownloadBlob(ctx context.Context, blobID, path string) error {
	_, r, err := l.blobs.Get(ctx, blobID)
	if err != nil {
		slog.Error("Cannot get blob", "blob", blobID, "error", err)
		return notFound("blob", blobID)
	}
	defer r.Close()

	var buf bytes.Buffer
	if _, err = buf.ReadFrom(r); err != nil {
		return errs.Wrap(errs.ExternalServiceError, "cannot read blob", err)
	}
	return os.WriteFile(path, buf.Bytes(), 0644)
}

// ListEntities implements registry.Registry.
func (l *localio) ListEntities(_ context.Context, t model.Target) ([]registry.Entity, error) {
	var res []registry.Entity
	err := l.scan(targetKey(t), func(bs []byte) error {
		var e registry.Entity
		if err := l.enc.Decode(bs, &e); err != nil {
			return err
		}
		res = append(res, e)
		return nil
	})
	return res, err
}

type task struct {
	id   string
	ents []registry.Entity
}

func (t task) ID() string {
	return t.id
}

func (t task) Wait(ctx context.Context) ([]registry.Entity, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return t.ents, nil
}

// BulkCreate implements registry.Registry. Entities are created
// immediately, the task is already finished.
func (l *localio) BulkCreate(
	_ context.Context,
	kind model.Kind,
	payloads []model.EntityCreate,
) (registry.Task, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	var names []string
	res := task{}
	rs := make([]kv.Record, 0, len(payloads))
	for _, p := range payloads {
		if p.Kind != kind {
			return nil, errs.New(errs.ExternalServiceError,
				fmt.Sprintf("entity %s is %s, not %s", p.Name, p.Kind, kind))
		}
		e, r, err := l.entity(p)
		if err != nil {
			return nil, err
		}
		res.ents = append(res.ents, e)
		rs = append(rs, r)
		names = append(names, p.Name)
	}
	res.id = ID("task", strings.Join(names, "|"))
	if err := l.set(rs...); err != nil {
		return nil, err
	}
	return res, nil
}

func (l *localio) entity(p model.EntityCreate) (registry.Entity, kv.Record, error) {
	t := model.Target{Kind: p.Kind, FolderID: p.FolderID, SchemaID: p.SchemaID}
	key := targetKey(t) + p.Name
	e := registry.Entity{ID: ID(idPrefix(p.Kind), key), Name: p.Name}
	r, err := l.record(key, e)
	return e, r, err
}

// Plate implements registry.Registry.
func (l *localio) Plate(_ context.Context, id string) (registry.Plate, error) {
	var res registry.Plate
	ok, err := l.get(plateKey+id, &res)
	if err != nil {
		return res, err
	}
	if !ok {
		return res, notFound("plate", id)
	}
	return res, nil
}

// TransferIntoContainers implements registry.Registry. A later transfer to
// the same container replaces the earlier one.
func (l *localio) TransferIntoContainers(_ context.Context, ts []registry.Transfer) error {
	rs := make([]kv.Record, 0, len(ts))
	for _, t := range ts {
		r, err := l.record(transferKey+t.DestinationID, t)
		if err != nil {
			return err
		}
		rs = append(rs, r)
	}
	return l.set(rs...)
}

// Transfers returns the content of every filled container.
func (l *localio) Transfers() ([]registry.Transfer, error) {
	var res []registry.Transfer
	err := l.scan(transferKey, func(bs []byte) error {
		var t registry.Transfer
		if err := l.enc.Decode(bs, &t); err != nil {
			return err
		}
		res = append(res, t)
		return nil
	})
	return res, err
}

// ListEntries implements registry.Registry.
func (l *localio) ListEntries(_ context.Context, name string) ([]registry.Entry, error) {
	var res []registry.Entry
	err := l.scan(entryKey, func(bs []byte) error {
		var e registry.Entry
		if err := l.enc.Decode(bs, &e); err != nil {
			return err
		}
		if e.Name == name {
			res = append(res, registry.Entry{ID: e.ID, Name: e.Name})
		}
		return nil
	})
	return res, err
}

// Entry implements registry.Registry.
func (l *localio) Entry(_ context.Context, id string) (registry.Entry, error) {
	var res registry.Entry
	ok, err := l.get(entryKey+id, &res)
	if err != nil {
		return res, err
	}
	if !ok {
		return res, notFound("entry", id)
	}
	return res, nil
}

// BulkCreateAssayResults implements registry.Registry.
func (l *localio) BulkCreateAssayResults(
	_ context.Context,
	rs []model.AssayResult,
	tableID string,
) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	prefix := resultKey + tableID + "/"
	old, err := l.kv.Scan([]byte(prefix))
	if err != nil {
		return errs.Wrap(errs.ExternalServiceError, "cannot read local registry", err)
	}
	recs := make([]kv.Record, 0, len(rs))
	for i, res := range rs {
		r, err := l.record(fmt.Sprintf("%s%08d", prefix, len(old)+i), res)
		if err != nil {
			return err
		}
		recs = append(recs, r)
	}
	return l.set(recs...)
}

// Results returns assay results of a table.
func (l *localio) Results(tableID string) ([]model.AssayResult, error) {
	var res []model.AssayResult
	err := l.scan(resultKey+tableID+"/", func(bs []byte) error {
		var r model.AssayResult
		if err := l.enc.Decode(bs, &r); err != nil {
			return err
		}
		res = append(res, r)
		return nil
	})
	return res, err
}

// CreateBlob implements registry.Registry.
func (l *localio) CreateBlob(ctx context.Context, path, name, mimeType string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	id := ID("blob", name)
	info := blob.Info{Key: id, Name: name, ContentType: mimeType}
	if _, err = l.blobs.Put(ctx, info, f); err != nil {
		slog.Error("Cannot save blob", "path", path, "error", err)
		return "", errs.Wrap(errs.ExternalServiceError, "cannot save blob", err)
	}
	return id, nil
}

// CreateEntity implements registry.Registry. Entities with a CSV field
// become file entities.
func (l *localio) CreateEntity(ctx context.Context, p model.Payload) (registry.Entity, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	ec := p.Create()
	e, r, err := l.entity(ec)
	if err != nil {
		return e, err
	}
	rs := []kv.Record{r}
	if blobID, ok := ec.Fields["CSV"].(string); ok {
		info, rc, err := l.blobs.Get(ctx, blobID)
		if err != nil {
			return e, notFound("blob", blobID)
		}
		rc.Close()
		fe := registry.FileEntity{ID: e.ID, Name: e.Name, BlobID: blobID, FileName: info.Name}
		fr, err := l.record(fileKey+e.ID, fe)
		if err != nil {
			return e, err
		}
		rs = append(rs, fr)
	}
	return e, l.set(rs...)
}
