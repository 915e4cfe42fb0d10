package registrar

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/attilauslu/oligocraft/pkg/ent/errs"
	"github.com/attilauslu/oligocraft/pkg/ent/model"
	"github.com/gnames/gnparser"
)

// Genomes resolves registry IDs of strains. Strains are looked up in CLC
// and NBC strain folders, nothing is created.
func (r *Registrar) Genomes(ctx context.Context, gs []model.Genome) error {
	known := make(map[string]string)
	var names []string
	for _, folder := range []string{r.cfg.Folders.CLCStrains, r.cfg.Folders.NBCStrains} {
		t := model.Target{
			Kind:     model.CustomEntity,
			FolderID: folder,
			SchemaID: r.cfg.Schemas.Strain,
		}
		ents, err := r.reg.ListEntities(ctx, t)
		if err != nil {
			slog.Error("Cannot list strains", "folder", folder, "error", err)
			return err
		}
		for _, e := range ents {
			if _, ok := known[e.Name]; !ok {
				names = append(names, e.Name)
			}
			known[e.Name] = e.ID
		}
	}

	for i := range gs {
		id, ok := known[gs[i].BenchlingName]
		if !ok {
			msg := fmt.Sprintf(
				"Check if the genome %s can be found in Benchling and if it is "+
					"correctly named in the genomes file.", gs[i].BenchlingName,
			)
			if hint := similar(gs[i].BenchlingName, names); len(hint) > 0 {
				msg += fmt.Sprintf(" Similar strains: %s.", errs.Names(hint))
			}
			slog.Warn("Cannot find genome", "name", gs[i].BenchlingName)
			return errs.New(errs.LookupError, msg)
		}
		gs[i].GenomeID = id
	}
	return nil
}

// similar returns known strain names that share the canonical species name
// with name.
func similar(name string, known []string) []string {
	gnp := gnparser.New(gnparser.NewConfig())
	target := canonical(gnp, name)
	if target == "" {
		return nil
	}
	var res []string
	for _, k := range known {
		if canonical(gnp, k) == target {
			res = append(res, k)
		}
	}
	slices.Sort(res)
	return res
}

func canonical(gnp gnparser.GNparser, name string) string {
	p := gnp.ParseName(name)
	if !p.Parsed || p.Canonical == nil {
		return ""
	}
	return p.Canonical.Simple
}
