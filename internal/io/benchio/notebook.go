package benchio

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/attilauslu/oligocraft/internal/ent/registry"
	"github.com/attilauslu/oligocraft/pkg/ent/model"
)

// ListEntries implements registry.Registry.
func (b *benchio) ListEntries(ctx context.Context, name string) ([]registry.Entry, error) {
	var res []registry.Entry
	var token string
	for {
		q := url.Values{}
		q.Set("name", name)
		q.Set("pageSize", fmt.Sprint(pageSize))
		if token != "" {
			q.Set("nextToken", token)
		}
		var page entryList
		if err := b.do(ctx, http.MethodGet, "/entries", q, nil, &page); err != nil {
			return nil, err
		}
		for _, e := range page.Entries {
			res = append(res, toEntry(e))
		}
		if page.NextToken == "" {
			break
		}
		token = page.NextToken
	}
	return res, nil
}

// Entry implements registry.Registry.
func (b *benchio) Entry(ctx context.Context, id string) (registry.Entry, error) {
	var rep entryReply
	if err := b.do(ctx, http.MethodGet, "/entries/"+url.PathEscape(id), nil, nil, &rep); err != nil {
		return registry.Entry{}, err
	}
	return toEntry(rep.Entry), nil
}

func toEntry(e entry) registry.Entry {
	res := registry.Entry{ID: e.ID, Name: e.Name}
	for _, d := range e.Days {
		var rd registry.Day
		for _, n := range d.Notes {
			rd.Notes = append(rd.Notes, registry.Note{
				Type:          n.Type,
				APIID:         n.APIID,
				AssaySchemaID: n.AssaySchemaID,
			})
		}
		res.Days = append(res.Days, rd)
	}
	return res
}

// BulkCreateAssayResults implements registry.Registry and waits for the
// creation task.
func (b *benchio) BulkCreateAssayResults(
	ctx context.Context,
	rs []model.AssayResult,
	tableID string,
) error {
	in := bulkResults{TableID: tableID, AssayResults: make([]assayResult, len(rs))}
	for i, r := range rs {
		in.AssayResults[i] = assayResult{
			SchemaID:  r.SchemaID,
			ProjectID: r.ProjectID,
			Fields:    toFields(r.Fields),
		}
	}
	var ref taskRef
	if err := b.do(ctx, http.MethodPost, "/assay-results:bulk-create", nil, in, &ref); err != nil {
		return err
	}
	_, err := b.wait(ctx, ref.TaskID)
	return err
}
