// Package filler moves registered parts into the wells of the three
// order plates.
package filler

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/attilauslu/oligocraft/internal/ent/plate"
	"github.com/attilauslu/oligocraft/internal/ent/registry"
	"github.com/attilauslu/oligocraft/pkg/ent/errs"
	"github.com/attilauslu/oligocraft/pkg/ent/model"
)

// Kind of a plate, the suffix of its name.
type Kind string

const (
	CrRNA     Kind = "crRNA"
	Receiver  Kind = "REC"
	Screening Kind = "SCR"
)

// Kinds every run must fill exactly once.
var Kinds = []Kind{CrRNA, Receiver, Screening}

// Stock holds registered parts that can go into plates.
type Stock struct {
	CrRNAs    []model.CrRNA
	Receivers []model.Receiver
	Screening []model.Screening
}

type item struct {
	well     string
	entityID string
	quantity string
}

// Resolve finds the kind of a plate from its name. The name must contain
// Plate<letter><order>.
func Resolve(name, order string) (Kind, error) {
	order = normOrder(order)
	re := regexp.MustCompile(`Plate[A-Z]` + regexp.QuoteMeta(order) + `(\D|$)`)
	if !re.MatchString(name) {
		msg := fmt.Sprintf("Are you sure this plate is from order number %s: %s", order, name)
		return "", errs.New(errs.LookupError, msg)
	}

	suffix := name
	if i := strings.LastIndex(name, "_"); i >= 0 {
		suffix = name[i+1:]
	}
	k := Kind(suffix)
	if !slices.Contains(Kinds, k) {
		msg := fmt.Sprintf(
			"Are you sure you uploaded the correct plate? %s should end with _REC, _SCR or _crRNA",
			name,
		)
		return "", errs.New(errs.LookupError, msg)
	}
	return k, nil
}

func normOrder(order string) string {
	order = strings.TrimSpace(order)
	if f, err := strconv.ParseFloat(order, 64); err == nil {
		return strconv.Itoa(int(f))
	}
	return order
}

// Transfers matches plate wells with parts of a kind. Wells without a part
// are skipped.
func Transfers(p registry.Plate, k Kind, s Stock) ([]registry.Transfer, error) {
	items, units := s.items(k)
	byWell := make(map[string]item, len(items))
	for _, it := range items {
		w := plate.CanonicalWell(it.well)
		if _, ok := byWell[w]; !ok {
			byWell[w] = it
		}
	}

	labels := make([]string, 0, len(p.Wells))
	for l := range p.Wells {
		labels = append(labels, l)
	}
	slices.Sort(labels)

	var res []registry.Transfer
	for _, l := range labels {
		it, ok := byWell[plate.CanonicalWell(l)]
		if !ok || it.entityID == "" {
			continue
		}
		q, err := strconv.ParseFloat(strings.TrimSpace(it.quantity), 64)
		if err != nil {
			msg := fmt.Sprintf("Quantity %q of well %s in plate %s is not a number",
				it.quantity, l, p.Name)
			return nil, errs.Wrap(errs.ParseError, msg, err)
		}
		res = append(res, registry.Transfer{
			DestinationID: p.Wells[l].ID,
			SourceID:      it.entityID,
			Quantity:      q,
			Units:         units,
		})
	}
	return res, nil
}

func (s Stock) items(k Kind) ([]item, string) {
	var res []item
	switch k {
	case CrRNA:
		for _, c := range s.CrRNAs {
			res = append(res, item{c.Well, c.ExternalID, c.UG})
		}
		return res, registry.Micrograms
	case Receiver:
		for _, r := range s.Receivers {
			res = append(res, item{r.Well, r.ExternalID, r.UL})
		}
	case Screening:
		for _, r := range s.Screening {
			res = append(res, item{r.Well, r.ExternalID, r.UL})
		}
	}
	return res, registry.Microliters
}

// Fill resolves all plates, checks that there is exactly one plate of each
// kind, and transfers parts into them.
func Fill(
	ctx context.Context,
	reg registry.Registry,
	plateIDs []string,
	order string,
	s Stock,
) error {
	plates := make([]registry.Plate, 0, len(plateIDs))
	kinds := make([]Kind, 0, len(plateIDs))
	names := make([]string, 0, len(plateIDs))
	for _, id := range plateIDs {
		p, err := reg.Plate(ctx, id)
		if err != nil {
			slog.Error("Cannot get plate", "plate", id, "error", err)
			return err
		}
		k, err := Resolve(p.Name, order)
		if err != nil {
			slog.Warn("Wrong plate", "plate", p.Name, "error", err)
			return err
		}
		plates = append(plates, p)
		kinds = append(kinds, k)
		names = append(names, p.Name)
	}

	got := slices.Clone(kinds)
	slices.Sort(got)
	want := slices.Clone(Kinds)
	slices.Sort(want)
	if !slices.Equal(got, want) {
		msg := fmt.Sprintf(
			"Have you uploaded all 3 plates (they need different names and "+
				"different barcodes). You have uploaded %s", errs.Names(names),
		)
		return errs.New(errs.LookupError, msg)
	}

	for i, p := range plates {
		ts, err := Transfers(p, kinds[i], s)
		if err != nil {
			return err
		}
		slog.Info("Filling plate", "plate", p.Name, "kind", kinds[i], "wells", len(ts))
		if len(ts) == 0 {
			continue
		}
		if err = reg.TransferIntoContainers(ctx, ts); err != nil {
			slog.Error("Cannot transfer into plate", "plate", p.Name, "error", err)
			return err
		}
	}
	return nil
}
