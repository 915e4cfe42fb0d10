package benchio

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/attilauslu/oligocraft/internal/ent/registry"
	"github.com/attilauslu/oligocraft/pkg/ent/errs"
	"github.com/attilauslu/oligocraft/pkg/ent/model"
)

func kindPath(k model.Kind) (string, error) {
	switch k {
	case model.DNASequence:
		return "/dna-sequences", nil
	case model.CustomEntity:
		return "/custom-entities", nil
	default:
		return "", errs.New(errs.ConfigurationError, fmt.Sprintf("unknown entity kind %q", k))
	}
}

func (l entityList) items(k model.Kind) []entity {
	if k == model.CustomEntity {
		return l.CustomEntities
	}
	return l.DNASequences
}

func toEntities(es []entity) []registry.Entity {
	res := make([]registry.Entity, len(es))
	for i, e := range es {
		res[i] = registry.Entity{ID: e.ID, Name: e.Name}
	}
	return res
}

func toFields(fs model.Fields) map[string]fieldValue {
	if len(fs) == 0 {
		return nil
	}
	res := make(map[string]fieldValue, len(fs))
	for k, v := range fs {
		res[k] = fieldValue{Value: v}
	}
	return res
}

func toCreate(p model.EntityCreate) entityCreate {
	res := entityCreate{
		Name:           p.Name,
		Bases:          p.Bases,
		FolderID:       p.FolderID,
		SchemaID:       p.SchemaID,
		Fields:         toFields(p.Fields),
		RegistryID:     p.RegistryID,
		NamingStrategy: p.NamingStrategy,
	}
	if p.Kind == model.DNASequence {
		circular := p.IsCircular
		res.IsCircular = &circular
	}
	return res
}

// FileEntity implements registry.Registry.
func (b *benchio) FileEntity(ctx context.Context, id string) (registry.FileEntity, error) {
	var e entity
	if err := b.do(ctx, http.MethodGet, "/custom-entities/"+url.PathEscape(id), nil, nil, &e); err != nil {
		return registry.FileEntity{}, err
	}
	f, ok := e.Fields["CSV"]
	if !ok {
		msg := fmt.Sprintf("Entity %s has no CSV field", e.Name)
		return registry.FileEntity{}, errs.New(errs.LookupError, msg)
	}
	blobID, _ := f.Value.(string)
	return registry.FileEntity{
		ID:       e.ID,
		Name:     e.Name,
		BlobID:   blobID,
		FileName: f.DisplayValue,
	}, nil
}

// ListEntities implements registry.Registry. All pages are read.
func (b *benchio) ListEntities(ctx context.Context, t model.Target) ([]registry.Entity, error) {
	path, err := kindPath(t.Kind)
	if err != nil {
		return nil, err
	}

	var res []registry.Entity
	var token string
	for {
		q := url.Values{}
		q.Set("pageSize", fmt.Sprint(pageSize))
		if t.FolderID != "" {
			q.Set("folderId", t.FolderID)
		}
		if t.SchemaID != "" {
			q.Set("schemaId", t.SchemaID)
		}
		if token != "" {
			q.Set("nextToken", token)
		}
		var page entityList
		if err = b.do(ctx, http.MethodGet, path, q, nil, &page); err != nil {
			return nil, err
		}
		res = append(res, toEntities(page.items(t.Kind))...)
		if page.NextToken == "" {
			break
		}
		token = page.NextToken
	}
	return res, nil
}

// BulkCreate implements registry.Registry.
func (b *benchio) BulkCreate(
	ctx context.Context,
	kind model.Kind,
	payloads []model.EntityCreate,
) (registry.Task, error) {
	path, err := kindPath(kind)
	if err != nil {
		return nil, err
	}
	cs := make([]entityCreate, len(payloads))
	for i, p := range payloads {
		cs[i] = toCreate(p)
	}

	var in any = bulkDNA{DNASequences: cs}
	if kind == model.CustomEntity {
		in = bulkCustom{CustomEntities: cs}
	}
	var ref taskRef
	if err = b.do(ctx, http.MethodPost, path+":bulk-create", nil, in, &ref); err != nil {
		return nil, err
	}
	slog.Debug("Bulk creation submitted", "kind", kind, "task", ref.TaskID)
	return &task{b: b, id: ref.TaskID, kind: kind}, nil
}

// CreateEntity implements registry.Registry.
func (b *benchio) CreateEntity(ctx context.Context, p model.Payload) (registry.Entity, error) {
	ec := p.Create()
	path, err := kindPath(ec.Kind)
	if err != nil {
		return registry.Entity{}, err
	}
	var e entity
	if err = b.do(ctx, http.MethodPost, path, nil, toCreate(ec), &e); err != nil {
		return registry.Entity{}, err
	}
	return registry.Entity{ID: e.ID, Name: e.Name}, nil
}

type task struct {
	b    *benchio
	id   string
	kind model.Kind
}

// ID implements registry.Task.
func (t *task) ID() string {
	return t.id
}

// Wait implements registry.Task. It polls the task until it succeeds,
// fails or the context is done.
func (t *task) Wait(ctx context.Context) ([]registry.Entity, error) {
	rep, err := t.b.wait(ctx, t.id)
	if err != nil {
		return nil, err
	}
	return toEntities(rep.Response.items(t.kind)), nil
}

func (b *benchio) wait(ctx context.Context, id string) (taskReply, error) {
	var rep taskReply
	if id == "" {
		return rep, nil
	}
	tick := time.NewTicker(b.poll)
	defer tick.Stop()
	for {
		if err := b.do(ctx, http.MethodGet, "/tasks/"+url.PathEscape(id), nil, nil, &rep); err != nil {
			return rep, err
		}
		switch rep.Status {
		case taskSucceeded:
			return rep, nil
		case taskFailed:
			msgs := []string{rep.Message}
			for _, e := range rep.Errors {
				msgs = append(msgs, e.Message)
			}
			msg := strings.TrimSpace(strings.Join(msgs, " "))
			slog.Error("Benchling task failed", "task", id, "message", msg)
			return rep, errs.New(errs.ExternalServiceError, "Benchling task failed: "+msg)
		}
		select {
		case <-ctx.Done():
			return rep, ctx.Err()
		case <-tick.C:
		}
	}
}
