package benchio

import (
	"context"
	"net/http"
	"net/url"

	"github.com/attilauslu/oligocraft/internal/ent/registry"
)

// Plate implements registry.Registry.
func (b *benchio) Plate(ctx context.Context, id string) (registry.Plate, error) {
	var p plate
	if err := b.do(ctx, http.MethodGet, "/plates/"+url.PathEscape(id), nil, nil, &p); err != nil {
		return registry.Plate{}, err
	}
	res := registry.Plate{
		ID:    p.ID,
		Name:  p.Name,
		Wells: make(map[string]registry.Well, len(p.Wells)),
	}
	for k, w := range p.Wells {
		res.Wells[k] = registry.Well{ID: w.ID, Barcode: w.Barcode, Name: w.Name}
	}
	return res, nil
}

// TransferIntoContainers implements registry.Registry and waits for the
// transfer task.
func (b *benchio) TransferIntoContainers(ctx context.Context, ts []registry.Transfer) error {
	in := transfers{Transfers: make([]transfer, len(ts))}
	for i, t := range ts {
		in.Transfers[i] = transfer{
			DestinationContainerID: t.DestinationID,
			SourceEntityID:         t.SourceID,
			TransferQuantity:       quantity{Value: t.Quantity, Units: t.Units},
		}
	}
	var ref taskRef
	if err := b.do(ctx, http.MethodPost, "/transfers", nil, in, &ref); err != nil {
		return err
	}
	_, err := b.wait(ctx, ref.TaskID)
	return err
}
